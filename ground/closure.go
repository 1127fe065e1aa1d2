package ground

import (
	"fmt"
	"strings"

	"github.com/go-air/gini/z"
	"github.com/netrixframework/qengine/log"
	"github.com/netrixframework/qengine/term"
)

// find returns the representative of the class of t
func (s *Solver) find(t *term.Node) *term.Node {
	p, ok := s.parent[t.ID()]
	if !ok || p == t {
		return t
	}
	r := s.find(p)
	s.parent[t.ID()] = r
	return r
}

// union merges the classes of a and b. Values represent their class, then
// the oldest term. Returns false if they were already merged.
func (s *Solver) union(a, b *term.Node) bool {
	ra, rb := s.find(a), s.find(b)
	if ra == rb {
		return false
	}
	if rb.IsConstValue() || (!ra.IsConstValue() && rb.ID() < ra.ID()) {
		ra, rb = rb, ra
	}
	s.parent[rb.ID()] = ra
	if rb.IsConstValue() && ra.IsConstValue() {
		s.consistent = false
	}
	return true
}

func (s *Solver) signature(op string, kind term.Kind, args []*term.Node) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s/%s", kind, op)
	for _, a := range args {
		fmt.Fprintf(&b, " %d", s.find(a).ID())
	}
	return b.String()
}

// readModel reads the assignment of the atoms and computes the congruence
// closure of the equalities it makes true. consistent is false if the
// assignment contradicts the equalities.
func (s *Solver) readModel() {
	s.consistent = true
	s.values = make(map[term.ID]bool, len(s.atoms))
	for _, a := range s.atoms {
		s.values[a.ID()] = s.g.Value(s.atomLits[a.ID()])
	}
	s.parent = make(map[term.ID]*term.Node, len(s.terms))
	for _, e := range s.eqs {
		if s.values[e.ID()] {
			s.union(e.Child(0), e.Child(1))
		}
	}
	for changed := true; changed; {
		changed = false
		sigs := make(map[string]*term.Node)
		for _, t := range s.terms {
			if t.NumChildren() == 0 {
				continue
			}
			key := s.signature(t.Op(), t.Kind(), t.Children())
			if other, ok := sigs[key]; ok {
				if s.union(t, other) {
					changed = true
				}
				continue
			}
			sigs[key] = t
		}
	}
	s.diseqs = make(map[[2]term.ID]bool)
	for _, e := range s.eqs {
		if s.values[e.ID()] {
			continue
		}
		ra, rb := s.find(e.Child(0)), s.find(e.Child(1))
		if ra == rb {
			s.consistent = false
		}
		s.diseqs[pairKey(ra, rb)] = true
	}
	s.predValues = make(map[string]bool)
	for _, p := range s.preds {
		key := s.signature(p.Op(), p.Kind(), p.Children())
		v := s.values[p.ID()]
		if prev, ok := s.predValues[key]; ok && prev != v {
			s.consistent = false
		}
		s.predValues[key] = v
	}
}

func pairKey(a, b *term.Node) [2]term.ID {
	if b.ID() < a.ID() {
		a, b = b, a
	}
	return [2]term.ID{a.ID(), b.ID()}
}

// block excludes the current assignment of the equalities and predicates
func (s *Solver) block() {
	n := 0
	for _, a := range s.atoms {
		if a.IsQuantifier() || a.Is(term.KindConst) {
			continue
		}
		l := s.atomLits[a.ID()]
		if s.values[a.ID()] {
			l = l.Not()
		}
		s.g.Add(l)
		n++
	}
	s.g.Add(z.LitNull)
	s.blocked++
	s.Logger.With(log.LogParams{"literals": n}).Debug("Blocked inconsistent assignment")
}
