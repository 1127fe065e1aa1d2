package ground

import (
	"github.com/go-air/gini/z"
	"github.com/netrixframework/qengine/term"
)

// encode returns the literal of the formula n, creating the circuit of its
// boolean structure. Atoms get fresh input literals.
func (s *Solver) encode(n *term.Node) z.Lit {
	if l, ok := s.lits[n.ID()]; ok {
		return l
	}
	var l z.Lit
	switch n.Kind() {
	case term.KindBool:
		l = s.c.F
		if n.IsTrue() {
			l = s.c.T
		}
	case term.KindNot:
		l = s.encode(n.Child(0)).Not()
	case term.KindAnd:
		l = s.c.Ands(s.encodeAll(n.Children())...)
	case term.KindOr:
		l = s.c.Ors(s.encodeAll(n.Children())...)
	case term.KindImplies:
		l = s.c.Or(s.encode(n.Child(0)).Not(), s.encode(n.Child(1)))
	case term.KindEq:
		if n.Child(0).Sort() == term.SortBool {
			a, b := s.encode(n.Child(0)), s.encode(n.Child(1))
			l = s.c.And(s.c.Or(a.Not(), b), s.c.Or(a, b.Not()))
			break
		}
		l = s.atom(n)
	default:
		l = s.atom(n)
	}
	s.lits[n.ID()] = l
	return l
}

func (s *Solver) encodeAll(ns []*term.Node) []z.Lit {
	res := make([]z.Lit, len(ns))
	for i, n := range ns {
		res[i] = s.encode(n)
	}
	return res
}

func (s *Solver) atom(n *term.Node) z.Lit {
	l := s.c.Lit()
	s.atoms = append(s.atoms, n)
	s.atomLits[n.ID()] = l
	switch {
	case n.IsQuantifier():
		s.quants = append(s.quants, n)
		s.newQuants = append(s.newQuants, n)
	case n.Is(term.KindEq):
		s.eqs = append(s.eqs, n)
		s.addTerm(n.Child(0))
		s.addTerm(n.Child(1))
	case n.Is(term.KindApply):
		s.preds = append(s.preds, n)
		for _, c := range n.Children() {
			s.addTerm(c)
		}
	}
	return l
}

// addTerm adds the ground terms of t to the congruence closure
func (s *Solver) addTerm(t *term.Node) {
	if _, ok := s.known[t.ID()]; ok || !t.IsGround() || t.IsQuantifier() {
		return
	}
	for _, c := range t.Children() {
		s.addTerm(c)
	}
	s.known[t.ID()] = t
	s.terms = append(s.terms, t)
	if t.Is(term.KindPlus) && !(t.Child(0).IsNumeral() && t.Child(1).IsNumeral()) {
		s.approx = true
	}
	if elems, ok := s.domains[t.Sort()]; ok && !s.isDomainElement(t) {
		closure := make([]*term.Node, len(elems))
		for i, el := range elems {
			closure[i] = s.tm.Eq(t, el)
		}
		s.queue = append(s.queue, s.tm.Rewrite(s.tm.Or(closure...)))
	}
}

func (s *Solver) isDomainElement(t *term.Node) bool {
	for _, el := range s.domains[t.Sort()] {
		if el == t {
			return true
		}
	}
	return false
}

// eval is the value of the ground formula n in the current model, if known
func (s *Solver) eval(n *term.Node) (bool, bool) {
	switch n.Kind() {
	case term.KindBool:
		return n.IsTrue(), true
	case term.KindNot:
		v, ok := s.eval(n.Child(0))
		return !v, ok
	case term.KindAnd, term.KindOr:
		stop := n.Is(term.KindOr)
		known := true
		for _, c := range n.Children() {
			v, ok := s.eval(c)
			if !ok {
				known = false
				continue
			}
			if v == stop {
				return stop, true
			}
		}
		return !stop, known
	case term.KindImplies:
		return s.eval(s.tm.Or(s.tm.Not(n.Child(0)), n.Child(1)))
	case term.KindEq:
		if n.Child(0).Sort() == term.SortBool {
			a, aok := s.eval(n.Child(0))
			b, bok := s.eval(n.Child(1))
			return a == b, aok && bok
		}
	}
	return s.Value(n)
}
