package quantifiers

import (
	"github.com/netrixframework/qengine/config"
	"github.com/netrixframework/qengine/context"
	"github.com/netrixframework/qengine/inference"
	"github.com/netrixframework/qengine/log"
	"github.com/netrixframework/qengine/term"
)

// Env is the handle modules are constructed with. It gives access to the
// shared state of the engine without referencing the Engine itself.
type Env struct {
	Config      config.QuantifiersConfig
	Terms       *term.Manager
	State       State
	Inferences  *inference.Manager
	UserContext *context.Context
	SatContext  *context.Context

	Registry     *Registry
	TermRegistry *TermRegistry
	Equality     *EqualityQuery
	Model        *Model
	Instantiate  *Instantiate
	Skolemize    *Skolemize
	Stats        *Stats

	Logger *log.Logger
}

// invariant reports a violated internal invariant. With debug assertions
// enabled it panics, otherwise the violation is logged and execution goes on.
func (env *Env) invariant(cond bool, msg string, params log.LogParams) {
	if cond {
		return
	}
	if env.Config.DebugAssertions {
		panic("quantifiers: invariant violated: " + msg)
	}
	env.Logger.With(params).Error("Invariant violated: " + msg)
}
