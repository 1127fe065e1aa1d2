// Package ematch instantiates quantified formulas by matching a trigger of
// the formula against the ground terms known to the engine, modulo the
// equalities of the ground search.
package ematch

import (
	"github.com/netrixframework/qengine/inference"
	"github.com/netrixframework/qengine/log"
	"github.com/netrixframework/qengine/quantifiers"
	"github.com/netrixframework/qengine/term"
)

// Name of the strategy
const Name = "ematch"

// EMatch is the instantiation module matching single triggers
type EMatch struct {
	quantifiers.BaseModule

	triggers map[term.ID]*term.Node
	Logger   *log.Logger
}

var _ quantifiers.Module = &EMatch{}

// NewEMatch creates the module
func NewEMatch(env *quantifiers.Env) *EMatch {
	return &EMatch{
		BaseModule: quantifiers.NewBaseModule(env),
		triggers:   make(map[term.ID]*term.Node),
		Logger:     env.Logger.Tagged("ematch"),
	}
}

func (e *EMatch) Identify() string {
	return Name
}

func (e *EMatch) NeedsCheck(ef quantifiers.Effort) bool {
	return ef >= quantifiers.EffortFull
}

// RegisterQuantifier selects the trigger of q: the smallest application in
// the body mentioning every bound variable
func (e *EMatch) RegisterQuantifier(q *term.Node) {
	t := selectTrigger(q)
	if t == nil {
		e.Logger.With(log.LogParams{"quantifier": q.String()}).Debug("No trigger")
		return
	}
	e.triggers[q.ID()] = t
	e.Logger.With(log.LogParams{
		"quantifier": q.String(),
		"trigger":    t.String(),
	}).Debug("Selected trigger")
}

// Trigger returns the trigger selected for q
func (e *EMatch) Trigger(q *term.Node) (*term.Node, bool) {
	t, ok := e.triggers[q.ID()]
	return t, ok
}

func (e *EMatch) Check(ef quantifiers.Effort, qe quantifiers.QEffort) {
	if qe != quantifiers.QEffortConflict {
		return
	}
	env := e.Env
	added := 0
	for _, q := range env.Model.AssertedQuantifiersFor(e) {
		trigger, ok := e.triggers[q.ID()]
		if !ok {
			continue
		}
		vars := q.BoundVars()
		for _, g := range env.TermRegistry.TermsWithOp(trigger.Op()) {
			for _, s := range e.match(trigger, g, make(map[term.ID]*term.Node)) {
				terms := make([]*term.Node, len(vars))
				for i, v := range vars {
					terms[i] = s[v.ID()]
				}
				if env.Instantiate.AddInstantiation(q, terms, quantifiers.InstOptions{
					ModEq:  true,
					ID:     inference.QuantifiersInstEMatch,
					Source: e,
				}) {
					added++
				}
			}
			if env.State.InConflict() {
				return
			}
		}
	}
	if added > 0 {
		e.Logger.With(log.LogParams{"instantiations": added}).Debug("E-matching round")
	}
}

// match returns the extensions of s under which pattern is equal to the
// ground term g
func (e *EMatch) match(pattern, g *term.Node, s map[term.ID]*term.Node) []map[term.ID]*term.Node {
	eq := e.Env.Equality
	if pattern.IsGround() {
		if eq.AreEqual(pattern, g) {
			return []map[term.ID]*term.Node{s}
		}
		return nil
	}
	if pattern.IsBoundVar() {
		if bound, ok := s[pattern.ID()]; ok {
			if eq.AreEqual(bound, g) {
				return []map[term.ID]*term.Node{s}
			}
			return nil
		}
		if pattern.Sort() != g.Sort() {
			return nil
		}
		return []map[term.ID]*term.Node{extend(s, pattern.ID(), g)}
	}
	if !pattern.Is(term.KindApply) {
		return nil
	}
	// the ground terms of the class of g with the head symbol of pattern
	candidates := make([]*term.Node, 0)
	if g.Is(term.KindApply) && g.Op() == pattern.Op() {
		candidates = append(candidates, g)
	}
	for _, c := range e.Env.TermRegistry.TermsWithOp(pattern.Op()) {
		if c != g && eq.AreEqual(c, g) {
			candidates = append(candidates, c)
		}
	}
	res := make([]map[term.ID]*term.Node, 0)
	for _, c := range candidates {
		if c.NumChildren() != pattern.NumChildren() {
			continue
		}
		partial := []map[term.ID]*term.Node{s}
		for i := 0; i < pattern.NumChildren() && len(partial) > 0; i++ {
			next := make([]map[term.ID]*term.Node, 0)
			for _, ps := range partial {
				next = append(next, e.match(pattern.Child(i), c.Child(i), ps)...)
			}
			partial = next
		}
		res = append(res, partial...)
	}
	return res
}

func extend(s map[term.ID]*term.Node, v term.ID, t *term.Node) map[term.ID]*term.Node {
	res := make(map[term.ID]*term.Node, len(s)+1)
	for k, val := range s {
		res[k] = val
	}
	res[v] = t
	return res
}

// selectTrigger returns the application of the body of q with the fewest
// subterms among those whose free variables are all the bound variables of q
func selectTrigger(q *term.Node) *term.Node {
	vars := q.BoundVars()
	var best *term.Node
	bestSize := 0
	var visit func(n *term.Node)
	visit = func(n *term.Node) {
		if n.IsQuantifier() {
			return
		}
		for _, c := range n.Children() {
			visit(c)
		}
		if !n.Is(term.KindApply) || !covers(n, vars) {
			return
		}
		if size := termSize(n); best == nil || size < bestSize {
			best, bestSize = n, size
		}
	}
	visit(q.Body())
	return best
}

func covers(n *term.Node, vars []*term.Node) bool {
	free := make(map[term.ID]bool)
	for _, v := range n.FreeVars() {
		free[v.ID()] = true
	}
	for _, v := range vars {
		if !free[v.ID()] {
			return false
		}
	}
	return true
}

func termSize(n *term.Node) int {
	size := 1
	for _, c := range n.Children() {
		size += termSize(c)
	}
	return size
}
