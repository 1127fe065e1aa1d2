package term

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterning(t *testing.T) {
	m := NewManager()
	x := m.BoundVar("x", SortInt)
	p1 := m.Apply("P", SortBool, x)
	p2 := m.Apply("P", SortBool, m.BoundVar("x", SortInt))
	assert.Same(t, p1, p2)
	assert.Equal(t, p1.ID(), p2.ID())

	q := m.Forall([]*Node{x}, p1)
	assert.True(t, q.IsQuantifier())
	assert.True(t, q.IsGround())
	assert.False(t, p1.IsGround())
	assert.Equal(t, []*Node{x}, q.BoundVars())
	assert.Same(t, p1, q.Body())
	assert.Equal(t, "(forall ((x Int)) (P x))", q.String())

	n, ok := m.Lookup(q.ID())
	require.True(t, ok)
	assert.Same(t, q, n)
}

func TestFresh(t *testing.T) {
	m := NewManager()
	m.Const("sk_0", SortInt)
	f := m.Fresh("sk", SortInt)
	assert.NotEqual(t, "sk_0", f.Op())
	assert.NotSame(t, f, m.Fresh("sk", SortInt))
}

func TestSubstitute(t *testing.T) {
	m := NewManager()
	x := m.BoundVar("x", SortInt)
	y := m.BoundVar("y", SortInt)
	five := m.Int(5)
	body := m.And(m.Apply("P", SortBool, x), m.Forall([]*Node{x}, m.Apply("Q", SortBool, x, y)))

	res := m.Substitute(body, []*Node{x, y}, []*Node{five, m.Int(1)})
	// the inner binder shadows x
	expected := m.And(m.Apply("P", SortBool, five), m.Forall([]*Node{x}, m.Apply("Q", SortBool, x, m.Int(1))))
	assert.Same(t, expected, res)

	// nil terms keep the variable
	partial := m.Substitute(m.Apply("R", SortBool, x, y), []*Node{x, y}, []*Node{five, nil})
	assert.Same(t, m.Apply("R", SortBool, five, y), partial)
}

func TestRewrite(t *testing.T) {
	m := NewManager()
	a := m.Const("a", SortInt)
	p := m.Apply("P", SortBool, a)

	assert.Same(t, m.Int(5), m.Rewrite(m.Plus(m.Int(4), m.Int(1))))
	assert.Same(t, m.True(), m.Rewrite(m.Eq(a, a)))
	assert.Same(t, m.False(), m.Rewrite(m.Eq(m.Int(1), m.Int(2))))
	assert.Same(t, m.True(), m.Rewrite(m.Or(p, m.Not(p))))
	assert.Same(t, m.False(), m.Rewrite(m.And(p, m.Not(p))))
	assert.Same(t, p, m.Rewrite(m.Not(m.Not(p))))
	assert.Same(t, p, m.Rewrite(m.Implies(m.True(), p)))
	assert.Same(t, m.Apply("P", SortBool, m.Int(5)), m.Rewrite(m.Apply("P", SortBool, m.Plus(m.Int(4), m.Int(1)))))

	// flattening and ordering make equal disjunctions identical
	q := m.Apply("Q", SortBool, a)
	r := m.Apply("R", SortBool, a)
	assert.Same(t, m.Rewrite(m.Or(p, m.Or(q, r))), m.Rewrite(m.Or(r, q, p, m.False())))
	assert.Same(t, m.Rewrite(m.Eq(a, m.Int(3))), m.Rewrite(m.Eq(m.Int(3), a)))
}

func TestCanonical(t *testing.T) {
	m := NewManager()
	x := m.BoundVar("x", SortInt)
	y := m.BoundVar("y", SortInt)
	q1 := m.Forall([]*Node{x}, m.Apply("P", SortBool, x))
	q2 := m.Forall([]*Node{y}, m.Apply("P", SortBool, y))
	q3 := m.Forall([]*Node{y}, m.Apply("Q", SortBool, y))

	assert.NotSame(t, q1, q2)
	assert.Same(t, m.Canonical(q1), m.Canonical(q2))
	assert.NotSame(t, m.Canonical(q1), m.Canonical(q3))
}
