package quantifiers

import (
	"github.com/hashicorp/go-set/v3"
	"github.com/netrixframework/qengine/context"
	"github.com/netrixframework/qengine/term"
)

// Model keeps the quantified formulas asserted in the current assignment.
// They follow the SAT context.
type Model struct {
	env      *Env
	asserted *context.CDList[*term.Node]
	seen     *context.CDSet[term.ID]
	// formulas active this round
	active *set.Set[term.ID]
}

// NewModel creates an empty model
func NewModel(env *Env) *Model {
	return &Model{
		env:      env,
		asserted: context.NewCDList[*term.Node](env.SatContext),
		seen:     context.NewCDSet[term.ID](env.SatContext),
		active:   set.New[term.ID](0),
	}
}

// AssertQuantifier records q as asserted
func (m *Model) AssertQuantifier(q *term.Node) {
	if m.seen.Insert(q.ID()) {
		m.asserted.Append(q)
	}
}

// AssertedQuantifiers returns the asserted formulas in assertion order
func (m *Model) AssertedQuantifiers() []*term.Node {
	return m.asserted.Items()
}

func (m *Model) NumAssertedQuantifiers() int {
	return m.asserted.Len()
}

// IsAsserted checks if q is asserted in the current assignment
func (m *Model) IsAsserted(q *term.Node) bool {
	return m.seen.Contains(q.ID())
}

// CheckNeeded is true if some quantified formula is asserted
func (m *Model) CheckNeeded() bool {
	return m.asserted.Len() > 0
}

// ResetRound takes the asserted formulas of this round
func (m *Model) ResetRound() {
	m.active = set.New[term.ID](m.asserted.Len())
	for _, q := range m.asserted.Items() {
		m.active.Insert(q.ID())
	}
}

// IsActive checks if q was asserted when the round started
func (m *Model) IsActive(q *term.Node) bool {
	return m.active.Contains(q.ID())
}

// AssertedQuantifiersFor returns the formulas module mod may instantiate
// this round: those active since the round started, without owner or owned
// by mod
func (m *Model) AssertedQuantifiersFor(mod Module) []*term.Node {
	res := make([]*term.Node, 0)
	for _, q := range m.asserted.Items() {
		if m.IsActive(q) && m.env.Registry.HasOwnership(q, mod) {
			res = append(res, q)
		}
	}
	return res
}
