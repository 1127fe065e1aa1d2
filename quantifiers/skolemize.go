package quantifiers

import (
	"sort"

	"github.com/netrixframework/qengine/context"
	"github.com/netrixframework/qengine/inference"
	"github.com/netrixframework/qengine/log"
	"github.com/netrixframework/qengine/term"
)

// Skolemize produces the lemmas for negatively asserted quantified formulas:
// q or (not body[k]) with fresh constants k, once per formula and user context.
type Skolemize struct {
	env *Env
	// skolem constants, shared by all user contexts
	constants map[term.ID][]*term.Node
	quants    map[term.ID]*term.Node
	done      *context.CDSet[term.ID]
}

// NewSkolemize creates the utility
func NewSkolemize(env *Env) *Skolemize {
	return &Skolemize{
		env:       env,
		constants: make(map[term.ID][]*term.Node),
		quants:    make(map[term.ID]*term.Node),
		done:      context.NewCDSet[term.ID](env.UserContext),
	}
}

// Process returns the skolemization lemma of q. ok is false if q was
// already skolemized in the current user context.
func (s *Skolemize) Process(q *term.Node) (inference.Lemma, bool) {
	if !s.done.Insert(q.ID()) {
		return inference.Lemma{}, false
	}
	sks := s.Constants(q)
	body := s.env.Terms.Instantiate(q, sks)
	lem := s.env.Terms.Or(q, s.env.Terms.Not(body))
	s.env.Logger.With(log.LogParams{
		"quantifier": q.String(),
		"lemma":      lem.String(),
	}).Debug("Skolemize")
	return inference.Lemma{Node: lem, ID: inference.QuantifiersSkolemize}, true
}

// Constants returns the skolem constants of q, creating them on first use
func (s *Skolemize) Constants(q *term.Node) []*term.Node {
	if sks, ok := s.constants[q.ID()]; ok {
		return sks
	}
	sks := make([]*term.Node, 0, q.NumBoundVars())
	for _, v := range q.BoundVars() {
		sks = append(sks, s.env.Terms.Fresh("sk_"+v.Op(), v.Sort()))
	}
	s.constants[q.ID()] = sks
	s.quants[q.ID()] = q
	return sks
}

// SkolemTermVectors returns the skolem constants of the formulas skolemized
// in the current user context, by formula
func (s *Skolemize) SkolemTermVectors() map[*term.Node][]*term.Node {
	res := make(map[*term.Node][]*term.Node)
	for id, q := range s.quants {
		if s.done.Contains(id) {
			res[q] = s.constants[id]
		}
	}
	return res
}

// Skolemized returns the formulas skolemized in the current user context, ordered by id
func (s *Skolemize) Skolemized() []*term.Node {
	res := make([]*term.Node, 0)
	for id, q := range s.quants {
		if s.done.Contains(id) {
			res = append(res, q)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID() < res[j].ID() })
	return res
}
