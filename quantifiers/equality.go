package quantifiers

import (
	"github.com/netrixframework/qengine/term"
)

// EqualityQuery answers equality questions over the ground terms using the
// equivalence classes of the ground search
type EqualityQuery struct {
	env *Env
	// internal representatives chosen this round, by representative id
	internal map[term.ID]*term.Node
}

// NewEqualityQuery creates the utility
func NewEqualityQuery(env *Env) *EqualityQuery {
	return &EqualityQuery{
		env:      env,
		internal: make(map[term.ID]*term.Node),
	}
}

func (q *EqualityQuery) Identify() string {
	return "equality-query"
}

func (q *EqualityQuery) Reset(e Effort) bool {
	q.internal = make(map[term.ID]*term.Node)
	return true
}

func (q *EqualityQuery) RegisterQuantifier(_ *term.Node) {}

func (q *EqualityQuery) CheckComplete() bool {
	return true
}

// Representative returns the representative of the class of t
func (q *EqualityQuery) Representative(t *term.Node) *term.Node {
	return q.env.State.Representative(t)
}

// AreEqual is true if a and b are in the same class
func (q *EqualityQuery) AreEqual(a, b *term.Node) bool {
	if a == b {
		return true
	}
	if !a.IsGround() || !b.IsGround() || a.Sort() != b.Sort() {
		return false
	}
	return q.Representative(a) == q.Representative(b)
}

// InternalRepresentative returns the registered term of the class of t with
// the lowest instantiation level. Terms are chosen once per round so
// instantiations of the same round agree on representatives.
func (q *EqualityQuery) InternalRepresentative(t *term.Node) *term.Node {
	if !t.IsGround() {
		return t
	}
	rep := q.Representative(t)
	if r, ok := q.internal[rep.ID()]; ok {
		return r
	}
	best := t
	bestLevel, ok := q.env.TermRegistry.Level(t)
	if !ok {
		bestLevel = int(^uint(0) >> 1)
	}
	for _, c := range q.env.TermRegistry.TermsOfSort(t.Sort()) {
		if c == best || q.Representative(c) != rep {
			continue
		}
		level, ok := q.env.TermRegistry.Level(c)
		if !ok {
			continue
		}
		if level < bestLevel || (level == bestLevel && c.ID() < best.ID()) {
			best, bestLevel = c, level
		}
	}
	q.internal[rep.ID()] = best
	return best
}
