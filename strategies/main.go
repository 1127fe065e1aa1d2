// Package strategies maps strategy names to instantiation modules
package strategies

import (
	"github.com/netrixframework/qengine/log"
	"github.com/netrixframework/qengine/quantifiers"
	"github.com/netrixframework/qengine/strategies/ematch"
	"github.com/netrixframework/qengine/strategies/enum"
	"github.com/netrixframework/qengine/strategies/finite"
	"github.com/netrixframework/qengine/term"
	"github.com/pkg/errors"
)

var (
	ErrNoStrategy = errors.New("strategy does not exist")
)

// Params are the problem dependent inputs of the strategies
type Params struct {
	// Domains are the elements of the sorts declared finite
	Domains map[term.Sort][]*term.Node
}

// Names lists the known strategies
func Names() []string {
	return []string{ematch.Name, finite.Name, enum.Name}
}

// GetStrategy creates the module called s
func GetStrategy(env *quantifiers.Env, s string, params Params) (quantifiers.Module, error) {
	var m quantifiers.Module = nil
	switch s {
	case ematch.Name:
		m = ematch.NewEMatch(env)
	case enum.Name:
		m = enum.NewEnum(env)
	case finite.Name:
		m = finite.NewFinite(env, params.Domains)
	}
	if m == nil {
		return nil, errors.Wrapf(ErrNoStrategy, "%s", s)
	}
	return m, nil
}

// Register creates the strategies in names and registers them with e, in order
func Register(e *quantifiers.Engine, names []string, params Params) error {
	for _, name := range names {
		m, err := GetStrategy(e.Env(), name, params)
		if err != nil {
			e.Logger.With(log.LogParams{"strategy": name}).Error("Unknown strategy")
			return err
		}
		e.RegisterModule(m)
	}
	return nil
}
