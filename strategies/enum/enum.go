// Package enum instantiates quantified formulas with tuples of ground terms
// enumerated in lexicographic order. It runs when every other strategy gave
// up, at the last call tier.
package enum

import (
	"github.com/netrixframework/qengine/inference"
	"github.com/netrixframework/qengine/log"
	"github.com/netrixframework/qengine/quantifiers"
	"github.com/netrixframework/qengine/term"
)

// Name of the strategy
const Name = "enum"

// DefaultMaxInstances bounds the instances added per formula and round
const DefaultMaxInstances = 64

// Enum is the enumerative instantiation module
type Enum struct {
	quantifiers.BaseModule

	MaxInstances int
	Logger       *log.Logger
}

var _ quantifiers.Module = &Enum{}

// NewEnum creates the module
func NewEnum(env *quantifiers.Env) *Enum {
	return &Enum{
		BaseModule:   quantifiers.NewBaseModule(env),
		MaxInstances: DefaultMaxInstances,
		Logger:       env.Logger.Tagged("enum"),
	}
}

func (e *Enum) Identify() string {
	return Name
}

func (e *Enum) Check(ef quantifiers.Effort, qe quantifiers.QEffort) {
	if qe != quantifiers.QEffortLastCall {
		return
	}
	for _, q := range e.Env.Model.AssertedQuantifiersFor(e) {
		added := e.enumerate(q)
		if added > 0 {
			e.Logger.With(log.LogParams{
				"quantifier":     q.String(),
				"instantiations": added,
			}).Debug("Enumerated instances")
		}
		if e.Env.State.InConflict() {
			return
		}
	}
}

// domain returns the candidate terms for v
func (e *Enum) domain(v *term.Node) []*term.Node {
	terms := e.Env.TermRegistry.TermsOfSort(v.Sort())
	if len(terms) == 0 {
		return []*term.Node{e.Env.TermRegistry.TermForType(v.Sort())}
	}
	return terms
}

// enumerate walks the tuples of q like an odometer. When an instance is
// rejected, the fail mask tells which leading positions are responsible:
// every tuple sharing them is skipped.
func (e *Enum) enumerate(q *term.Node) int {
	vars := q.BoundVars()
	domains := make([][]*term.Node, len(vars))
	for i, v := range vars {
		domains[i] = e.domain(v)
	}
	index := make([]int, len(vars))
	added := 0
	for added < e.MaxInstances {
		terms := make([]*term.Node, len(vars))
		for i := range vars {
			terms[i] = domains[i][index[i]]
		}
		ok, mask := e.Env.Instantiate.AddInstantiationExpFail(q, terms, quantifiers.InstOptions{
			ID:     inference.QuantifiersInstEnum,
			Source: e,
		}, false)
		pos := len(vars) - 1
		if ok {
			added++
		} else {
			for pos > 0 && !mask[pos] {
				pos--
			}
		}
		if !advance(index, domains, pos) {
			break
		}
	}
	return added
}

// advance increments the odometer at pos, resetting the positions after it.
// Returns false when the enumeration is exhausted.
func advance(index []int, domains [][]*term.Node, pos int) bool {
	for i := pos + 1; i < len(index); i++ {
		index[i] = 0
	}
	for ; pos >= 0; pos-- {
		index[pos]++
		if index[pos] < len(domains[pos]) {
			return true
		}
		index[pos] = 0
	}
	return false
}
