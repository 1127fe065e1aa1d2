package solve

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/netrixframework/qengine/apiserver"
	"github.com/netrixframework/qengine/config"
	"github.com/netrixframework/qengine/ground"
	"github.com/netrixframework/qengine/log"
	"github.com/netrixframework/qengine/scenario"
	"github.com/netrixframework/qengine/util"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var ErrUnexpected = errors.New("unexpected result")

// loadConfig reads the config file, falling back to the defaults when the
// file does not exist
func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return config.DefaultConfig(), nil
	}
	return config.ParseConfig(path)
}

func SolveCmd() *cobra.Command {
	var dump, serve bool
	cmd := &cobra.Command{
		Use:   "solve [scenario.yaml]",
		Short: "Solve the assertions of a scenario file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := loadConfig(config.ConfigPath)
			if err != nil {
				return errors.Wrap(err, "failed to parse config")
			}
			log.Init(conf.LogConfig)
			defer log.Destroy()

			p, err := scenario.Load(args[0])
			if err != nil {
				return errors.Wrapf(err, "failed to load scenario %s", args[0])
			}
			s, err := ground.New(conf, p.Terms, p.Domains, log.DefaultLogger)
			if err != nil {
				return errors.Wrap(err, "failed to initialize solver")
			}
			for _, a := range p.Assertions {
				if err := s.Assert(a); err != nil {
					return errors.Wrapf(err, "failed to assert %s", a)
				}
			}
			res := s.Solve()
			fmt.Fprintln(cmd.OutOrStdout(), res.String())

			engine := s.Engine()
			if dump {
				out, err := json.MarshalIndent(engine.Snapshot(), "", "  ")
				if err != nil {
					return errors.Wrap(err, "failed to marshal snapshot")
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(out))
			}
			if serve {
				termCh := util.Term()
				server := apiserver.NewAPIServer(conf.DiagnosticsAddr, engine, engine.Env().Stats.Registry(), log.DefaultLogger)
				if err := server.Start(); err != nil {
					return err
				}
				select {
				case <-termCh:
				case <-server.QuitCh():
				}
				if err := server.Stop(); err != nil {
					return errors.Wrap(err, "failed to stop diagnostics server")
				}
			}
			if p.Expect != "" && p.Expect != res.String() {
				return errors.Wrapf(ErrUnexpected, "expected %s, got %s", p.Expect, res)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&dump, "dump", false, "Print the diagnostics snapshot as JSON")
	cmd.Flags().BoolVar(&serve, "serve", false, "Serve diagnostics until interrupted")
	return cmd
}
