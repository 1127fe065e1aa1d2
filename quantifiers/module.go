package quantifiers

import "github.com/netrixframework/qengine/term"

// Module is an instantiation strategy plugged into the Engine.
//
// Modules are called in registration order. A module must only produce
// instances of a quantified formula q when Registry.HasOwnership(q, m) holds,
// and must never add lemmas from the registration notifications.
type Module interface {
	// Identify returns the name of the module
	Identify() string
	// Presolve is called at the start of every incremental solving unit
	Presolve()
	// NeedsCheck is true if the module wants to run at effort e
	NeedsCheck(e Effort) bool
	// NeedsModel returns the tier before which a model must be built, or QEffortNone
	NeedsModel(e Effort) QEffort
	// ResetRound resets the per round state
	ResetRound(e Effort)
	// CheckOwnership may claim q through Registry.SetOwner
	CheckOwnership(q *term.Node)
	// RegisterQuantifier is called once per quantified formula
	RegisterQuantifier(q *term.Node)
	// PreRegisterQuantifier is called when q is pre-registered in the user context
	PreRegisterQuantifier(q *term.Node)
	// AssertNode is called when q is asserted positively
	AssertNode(q *term.Node)
	// Check does the work of the module at tier qe
	Check(e Effort, qe QEffort)
	// CheckComplete is false if the module knows it may have missed instances
	CheckComplete() bool
	// CheckCompleteFor is true if the module has fully processed q
	CheckCompleteFor(q *term.Node) bool
}

// BaseModule implements the optional parts of Module. Strategies embed it
// and override what they need.
type BaseModule struct {
	Env *Env
}

// NewBaseModule creates a BaseModule over env
func NewBaseModule(env *Env) BaseModule {
	return BaseModule{Env: env}
}

func (b *BaseModule) Presolve() {}

func (b *BaseModule) NeedsCheck(e Effort) bool {
	return e >= EffortLastCall
}

func (b *BaseModule) NeedsModel(e Effort) QEffort {
	return QEffortNone
}

func (b *BaseModule) ResetRound(e Effort) {}

func (b *BaseModule) CheckOwnership(q *term.Node) {}

func (b *BaseModule) RegisterQuantifier(q *term.Node) {}

func (b *BaseModule) PreRegisterQuantifier(q *term.Node) {}

func (b *BaseModule) AssertNode(q *term.Node) {}

func (b *BaseModule) CheckComplete() bool {
	return true
}

func (b *BaseModule) CheckCompleteFor(q *term.Node) bool {
	return false
}
