package cmd

import (
	"github.com/netrixframework/qengine/cmd/solve"
	"github.com/netrixframework/qengine/config"
	"github.com/spf13/cobra"
)

// RootCmd returns the root cobra command of the engine
func RootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "qengine",
		Short: "Quantifier instantiation engine over a propositional ground search",
	}
	cmd.CompletionOptions.DisableDefaultCmd = true
	cmd.PersistentFlags().StringVarP(&config.ConfigPath, "config", "c", "config.json", "Config file path")
	cmd.AddCommand(solve.SolveCmd())
	return cmd
}
