package quantifiers

import (
	"github.com/netrixframework/qengine/context"
	"github.com/netrixframework/qengine/log"
	"github.com/netrixframework/qengine/term"
)

// TermRegistry is the database of ground terms known to the engine. Terms
// follow the user context; the per sort and per operator indexes are
// rebuilt at every reset.
type TermRegistry struct {
	env    *Env
	terms  *context.CDList[*term.Node]
	known  *context.CDSet[term.ID]
	levels map[term.ID]int

	bySort    map[term.Sort][]*term.Node
	byOp      map[string][]*term.Node
	indexed   map[term.ID]bool
	arbitrary map[term.Sort]*term.Node
}

// NewTermRegistry creates an empty registry
func NewTermRegistry(env *Env) *TermRegistry {
	t := &TermRegistry{
		env:       env,
		terms:     context.NewCDList[*term.Node](env.UserContext),
		known:     context.NewCDSet[term.ID](env.UserContext),
		levels:    make(map[term.ID]int),
		arbitrary: make(map[term.Sort]*term.Node),
	}
	t.rebuild()
	return t
}

func (t *TermRegistry) Identify() string {
	return "term-registry"
}

func (t *TermRegistry) Reset(e Effort) bool {
	t.rebuild()
	return true
}

func (t *TermRegistry) RegisterQuantifier(q *term.Node) {}

func (t *TermRegistry) CheckComplete() bool {
	return true
}

// Presolve rebuilds the indexes from the terms registered before solving
func (t *TermRegistry) Presolve() {
	t.rebuild()
	t.env.Logger.With(log.LogParams{"terms": t.terms.Len()}).Debug("Term registry presolve")
}

func (t *TermRegistry) rebuild() {
	t.bySort = make(map[term.Sort][]*term.Node)
	t.byOp = make(map[string][]*term.Node)
	t.indexed = make(map[term.ID]bool)
	for _, n := range t.terms.Items() {
		t.index(n)
	}
}

func (t *TermRegistry) index(n *term.Node) {
	if t.indexed[n.ID()] {
		return
	}
	t.indexed[n.ID()] = true
	t.bySort[n.Sort()] = append(t.bySort[n.Sort()], n)
	if n.Is(term.KindApply) {
		t.byOp[n.Op()] = append(t.byOp[n.Op()], n)
	}
}

// AddTerm registers the ground subterms of n. Quantified subformulas are not
// entered. Terms not coming from an instantiation get level 0.
func (t *TermRegistry) AddTerm(n *term.Node, withinQuant bool) {
	if n.IsQuantifier() {
		if withinQuant {
			t.AddTerm(n.Body(), true)
		}
		return
	}
	for _, c := range n.Children() {
		t.AddTerm(c, withinQuant)
	}
	if !n.IsGround() || n.IsBoolConst() {
		return
	}
	switch n.Kind() {
	case term.KindApply, term.KindConst, term.KindNumeral:
	default:
		return
	}
	if !t.known.Insert(n.ID()) {
		return
	}
	t.terms.Append(n)
	t.index(n)
	if _, ok := t.levels[n.ID()]; !ok && !withinQuant {
		t.levels[n.ID()] = 0
	}
}

// Contains checks if n is a registered ground term
func (t *TermRegistry) Contains(n *term.Node) bool {
	return t.known.Contains(n.ID())
}

// TermsOfSort returns the registered terms of sort s in registration order
func (t *TermRegistry) TermsOfSort(s term.Sort) []*term.Node {
	return t.bySort[s]
}

// TermsWithOp returns the registered applications of op
func (t *TermRegistry) TermsWithOp(op string) []*term.Node {
	return t.byOp[op]
}

// NumTerms returns the number of registered terms
func (t *TermRegistry) NumTerms() int {
	return t.terms.Len()
}

// TermForType returns a ground term of sort s, creating an arbitrary
// constant when no term of that sort is known.
func (t *TermRegistry) TermForType(s term.Sort) *term.Node {
	if s == term.SortBool {
		return t.env.Terms.True()
	}
	if ts := t.bySort[s]; len(ts) > 0 {
		return ts[0]
	}
	if a, ok := t.arbitrary[s]; ok {
		return a
	}
	a := t.env.Terms.Fresh("arb_"+string(s), s)
	t.arbitrary[s] = a
	t.AddTerm(a, false)
	return a
}

// Level returns the instantiation level of n
func (t *TermRegistry) Level(n *term.Node) (int, bool) {
	l, ok := t.levels[n.ID()]
	return l, ok
}

// SetLevel sets the instantiation level of n and its subterms that have none
func (t *TermRegistry) SetLevel(n *term.Node, level int) {
	if _, ok := t.levels[n.ID()]; ok {
		return
	}
	t.levels[n.ID()] = level
	if n.IsQuantifier() {
		return
	}
	for _, c := range n.Children() {
		t.SetLevel(c, level)
	}
}

// IsEntailed is a fast check that n is true in the current assignment. It
// never calls a decision procedure: unknown atoms make it answer false.
func (t *TermRegistry) IsEntailed(n *term.Node) bool {
	v, ok := t.evaluate(n)
	return ok && v
}

func (t *TermRegistry) evaluate(n *term.Node) (bool, bool) {
	switch n.Kind() {
	case term.KindBool:
		return n.IsTrue(), true
	case term.KindNot:
		v, ok := t.evaluate(n.Child(0))
		return !v, ok
	case term.KindAnd, term.KindOr:
		// the absorbing value of the junction
		stop := n.Is(term.KindOr)
		known := true
		for _, c := range n.Children() {
			v, ok := t.evaluate(c)
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
		a, aok := t.evaluate(n.Child(0))
		b, bok := t.evaluate(n.Child(1))
		if (aok && !a) || (bok && b) {
			return true, true
		}
		return false, aok && bok
	case term.KindEq:
		a, b := n.Child(0), n.Child(1)
		if a == b {
			return true, true
		}
		if a.Sort() == term.SortBool {
			va, aok := t.evaluate(a)
			vb, bok := t.evaluate(b)
			return va == vb, aok && bok
		}
		if !n.IsGround() {
			return false, false
		}
		ra, rb := t.env.State.Representative(a), t.env.State.Representative(b)
		if ra == rb {
			return true, true
		}
		if ra.IsConstValue() && rb.IsConstValue() {
			return false, true
		}
		return t.env.State.Value(n)
	case term.KindApply, term.KindConst, term.KindForall:
		if !n.IsGround() {
			return false, false
		}
		return t.env.State.Value(n)
	}
	return false, false
}
