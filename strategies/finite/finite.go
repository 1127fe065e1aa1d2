// Package finite instantiates quantified formulas over sorts with a declared
// finite domain by trying every element. It owns those formulas and is the
// only strategy able to certify that none of their instances is missing.
package finite

import (
	"github.com/netrixframework/qengine/inference"
	"github.com/netrixframework/qengine/log"
	"github.com/netrixframework/qengine/quantifiers"
	"github.com/netrixframework/qengine/term"
)

// Name of the strategy
const Name = "finite"

// Finite is the finite domain instantiation module
type Finite struct {
	quantifiers.BaseModule

	domains map[term.Sort][]*term.Node
	// owned formulas whose every instance was added or holds this round
	covered map[term.ID]bool

	Logger *log.Logger
}

var _ quantifiers.Module = &Finite{}

// NewFinite creates the module over the given domains
func NewFinite(env *quantifiers.Env, domains map[term.Sort][]*term.Node) *Finite {
	if domains == nil {
		domains = make(map[term.Sort][]*term.Node)
	}
	return &Finite{
		BaseModule: quantifiers.NewBaseModule(env),
		domains:    domains,
		covered:    make(map[term.ID]bool),
		Logger:     env.Logger.Tagged("finite"),
	}
}

func (f *Finite) Identify() string {
	return Name
}

// Presolve registers the domain elements as ground terms
func (f *Finite) Presolve() {
	for _, elems := range f.domains {
		for _, el := range elems {
			f.Env.TermRegistry.AddTerm(el, false)
		}
	}
}

func (f *Finite) NeedsModel(e quantifiers.Effort) quantifiers.QEffort {
	return quantifiers.QEffortModel
}

func (f *Finite) ResetRound(e quantifiers.Effort) {
	f.covered = make(map[term.ID]bool)
}

// CheckOwnership claims q when every bound variable ranges over a finite domain
func (f *Finite) CheckOwnership(q *term.Node) {
	for _, v := range q.BoundVars() {
		if len(f.domains[v.Sort()]) == 0 {
			return
		}
	}
	if f.Env.Registry.SetOwner(q, f) {
		f.Logger.With(log.LogParams{"quantifier": q.String()}).Debug("Owns quantifier")
	}
}

func (f *Finite) owned() []*term.Node {
	res := make([]*term.Node, 0)
	for _, q := range f.Env.Model.AssertedQuantifiersFor(f) {
		if f.Env.Registry.Owner(q) == quantifiers.Module(f) {
			res = append(res, q)
		}
	}
	return res
}

func (f *Finite) Check(e quantifiers.Effort, qe quantifiers.QEffort) {
	if qe != quantifiers.QEffortModel {
		return
	}
	for _, q := range f.owned() {
		added, covered := f.instantiate(q)
		f.covered[q.ID()] = covered
		f.Logger.With(log.LogParams{
			"quantifier":     q.String(),
			"instantiations": added,
			"covered":        covered,
		}).Debug("Finite domain instantiation")
		if f.Env.State.InConflict() {
			return
		}
	}
}

// instantiate adds every tuple of the domains of q. A tuple is covered when
// it is instantiated or its instance already holds.
func (f *Finite) instantiate(q *term.Node) (int, bool) {
	vars := q.BoundVars()
	index := make([]int, len(vars))
	added := 0
	covered := true
	for {
		terms := make([]*term.Node, len(vars))
		for i, v := range vars {
			terms[i] = f.domains[v.Sort()][index[i]]
		}
		switch {
		case f.Env.Instantiate.AddInstantiation(q, terms, quantifiers.InstOptions{
			ID:     inference.QuantifiersInstFinite,
			Source: f,
		}):
			added++
		case f.Env.Instantiate.ExistsInstantiation(q, terms, false):
		case f.holds(q, terms):
		default:
			covered = false
		}
		i := len(vars) - 1
		for ; i >= 0; i-- {
			index[i]++
			if index[i] < len(f.domains[vars[i].Sort()]) {
				break
			}
			index[i] = 0
		}
		if i < 0 {
			return added, covered
		}
	}
}

// holds is true if the instance of q by terms is entailed or its lemma was
// already sent
func (f *Finite) holds(q *term.Node, terms []*term.Node) bool {
	tm := f.Env.Terms
	body := f.Env.Instantiate.GetInstantiationFor(q, terms, false)
	lem := tm.Rewrite(tm.Or(tm.Not(q), body))
	return lem.IsTrue() || f.Env.Inferences.HasLemma(lem) || f.Env.TermRegistry.IsEntailed(body)
}

// CheckCompleteFor is true for an owned formula whose every instance was
// added or holds
func (f *Finite) CheckCompleteFor(q *term.Node) bool {
	return f.covered[q.ID()]
}
