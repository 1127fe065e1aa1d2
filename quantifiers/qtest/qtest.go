// Package qtest provides an engine over a scripted ground state for testing
// instantiation modules.
package qtest

import (
	"github.com/netrixframework/qengine/config"
	"github.com/netrixframework/qengine/context"
	"github.com/netrixframework/qengine/inference"
	"github.com/netrixframework/qengine/log"
	"github.com/netrixframework/qengine/quantifiers"
	"github.com/netrixframework/qengine/term"
)

// State is a quantifiers.State whose equalities and truth values are set by
// the test
type State struct {
	Inconsistent bool
	Conflict     bool
	FailModel    bool
	Builds       int

	reps   map[term.ID]*term.Node
	values map[term.ID]bool
}

var _ quantifiers.State = &State{}

// NewState creates a state where every term is its own class
func NewState() *State {
	return &State{
		reps:   make(map[term.ID]*term.Node),
		values: make(map[term.ID]bool),
	}
}

func (s *State) Consistent() bool { return !s.Inconsistent }
func (s *State) InConflict() bool { return s.Conflict }

func (s *State) Representative(t *term.Node) *term.Node {
	if r, ok := s.reps[t.ID()]; ok {
		return r
	}
	return t
}

// Merge puts a and b in the same class, represented by the representative of a
func (s *State) Merge(a, b *term.Node) {
	ra, rb := s.Representative(a), s.Representative(b)
	if ra == rb {
		return
	}
	for id, r := range s.reps {
		if r == rb {
			s.reps[id] = ra
		}
	}
	s.reps[rb.ID()] = ra
	s.reps[b.ID()] = ra
}

// SetValue sets the truth value of the formula f
func (s *State) SetValue(f *term.Node, v bool) {
	s.values[f.ID()] = v
}

func (s *State) Value(f *term.Node) (bool, bool) {
	v, ok := s.values[f.ID()]
	return v, ok
}

func (s *State) BuildModel() bool {
	s.Builds++
	return !s.FailModel
}

// Recorder is an output channel keeping the lemmas it receives
type Recorder struct {
	Lemmas []inference.Lemma
}

func (r *Recorder) Lemma(l inference.Lemma) {
	r.Lemmas = append(r.Lemmas, l)
}

// Nodes returns the formulas of the received lemmas
func (r *Recorder) Nodes() []*term.Node {
	res := make([]*term.Node, len(r.Lemmas))
	for i, l := range r.Lemmas {
		res[i] = l.Node
	}
	return res
}

// Harness wires an engine to a State and a Recorder
type Harness struct {
	Terms  *term.Manager
	State  *State
	Out    *Recorder
	User   *context.Context
	Sat    *context.Context
	Engine *quantifiers.Engine
	Env    *quantifiers.Env
}

// New creates a harness without modules
func New(c config.QuantifiersConfig) *Harness {
	h := &Harness{
		Terms: term.NewManager(),
		State: NewState(),
		Out:   &Recorder{},
		User:  context.New("user"),
		Sat:   context.New("sat"),
	}
	h.Engine = quantifiers.NewEngine(c, h.Terms, h.State, h.Out, h.User, h.Sat, log.NewDiscard())
	h.Env = h.Engine.Env()
	return h
}

// Assert pre-registers q and asserts it positively
func (h *Harness) Assert(q *term.Node) {
	h.Engine.PreRegisterQuantifier(q)
	h.Engine.AssertQuantifier(q, true)
}

// AddTerms registers ground terms
func (h *Harness) AddTerms(ts ...*term.Node) {
	for _, t := range ts {
		h.Engine.NotifyNewTerm(t)
	}
}

// Instance is the lemma expected for the instantiation of q by terms
func (h *Harness) Instance(q *term.Node, terms ...*term.Node) *term.Node {
	return h.Terms.Rewrite(h.Terms.Or(h.Terms.Not(q), h.Terms.Instantiate(q, terms)))
}
