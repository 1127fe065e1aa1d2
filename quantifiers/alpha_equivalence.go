package quantifiers

import (
	"github.com/netrixframework/qengine/term"
)

// AlphaEquivalence reduces a quantified formula that is alpha equivalent to
// a formula seen before to the equality of both.
type AlphaEquivalence struct {
	env *Env
	// first formula seen per canonical form
	seen map[term.ID]*term.Node
}

// NewAlphaEquivalence creates the reducer
func NewAlphaEquivalence(env *Env) *AlphaEquivalence {
	return &AlphaEquivalence{
		env:  env,
		seen: make(map[term.ID]*term.Node),
	}
}

// ReduceQuantifier returns prev = q when an alpha equivalent prev was seen
// before, nil otherwise
func (a *AlphaEquivalence) ReduceQuantifier(q *term.Node) *term.Node {
	c := a.env.Terms.Canonical(q)
	prev, ok := a.seen[c.ID()]
	if !ok {
		a.seen[c.ID()] = q
		return nil
	}
	if prev == q {
		return nil
	}
	return a.env.Terms.Eq(prev, q)
}
