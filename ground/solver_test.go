package ground

import (
	"testing"

	"github.com/netrixframework/qengine/config"
	"github.com/netrixframework/qengine/inference"
	"github.com/netrixframework/qengine/log"
	"github.com/netrixframework/qengine/quantifiers"
	"github.com/netrixframework/qengine/term"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	tm *term.Manager
	s  *Solver
}

func setup(t *testing.T, modify func(c *config.Config), domains map[term.Sort][]*term.Node, tm *term.Manager) *fixture {
	t.Helper()
	c := config.DefaultConfig()
	if modify != nil {
		modify(c)
	}
	if tm == nil {
		tm = term.NewManager()
	}
	s, err := New(c, tm, domains, log.NewDiscard())
	require.NoError(t, err)
	return &fixture{tm: tm, s: s}
}

func (f *fixture) assert(t *testing.T, formulas ...*term.Node) {
	t.Helper()
	for _, n := range formulas {
		require.NoError(t, f.s.Assert(n))
	}
}

func pred(tm *term.Manager, name string, args ...*term.Node) *term.Node {
	return tm.Apply(name, term.SortBool, args...)
}

func TestPropositional(t *testing.T) {
	f := setup(t, nil, nil, nil)
	p := f.tm.Const("p", term.SortBool)
	q := f.tm.Const("q", term.SortBool)
	f.assert(t, f.tm.Or(p, q), f.tm.Not(p))
	assert.Equal(t, Sat, f.s.Solve())

	f.assert(t, f.tm.Implies(q, p))
	assert.Equal(t, Unsat, f.s.Solve())
}

func TestCongruence(t *testing.T) {
	f := setup(t, nil, nil, nil)
	a := f.tm.Const("a", term.SortInt)
	b := f.tm.Const("b", term.SortInt)
	fa := f.tm.Apply("f", term.SortInt, a)
	fb := f.tm.Apply("f", term.SortInt, b)
	f.assert(t, f.tm.Eq(a, b), f.tm.Not(f.tm.Eq(fa, fb)))
	assert.Equal(t, Unsat, f.s.Solve())
	assert.Equal(t, 1, f.s.blocked)
}

func TestDistinctNumerals(t *testing.T) {
	f := setup(t, nil, nil, nil)
	a := f.tm.Const("a", term.SortInt)
	f.assert(t, f.tm.Eq(a, f.tm.Int(1)), f.tm.Eq(a, f.tm.Int(2)))
	assert.Equal(t, Unsat, f.s.Solve())
}

func TestInstantiationRefutes(t *testing.T) {
	f := setup(t, nil, nil, nil)
	a := f.tm.Const("a", term.SortInt)
	x := f.tm.BoundVar("x", term.SortInt)
	q := f.tm.Forall([]*term.Node{x}, pred(f.tm, "P", x))
	f.assert(t, q, f.tm.Not(pred(f.tm, "P", a)))

	assert.Equal(t, Unsat, f.s.Solve())
	assert.Equal(t, 1, f.s.Rounds())
	env := f.s.Engine().Env()
	assert.Equal(t, [][]*term.Node{{a}}, env.Instantiate.InstantiationTermVectors(q))
	assert.Equal(t, 1, env.Inferences.Counts()[inference.QuantifiersInstEMatch])
}

func TestRoundBound(t *testing.T) {
	f := setup(t, func(c *config.Config) { c.Ground.MaxRounds = 1 }, nil, nil)
	a := f.tm.Const("a", term.SortInt)
	x := f.tm.BoundVar("x", term.SortInt)
	q := f.tm.Forall([]*term.Node{x}, pred(f.tm, "P", x))
	f.assert(t, q, f.tm.Not(pred(f.tm, "P", a)))
	assert.Equal(t, Unknown, f.s.Solve())
}

func TestFiniteDomainSat(t *testing.T) {
	tm := term.NewManager()
	u := term.Sort("U")
	u1, u2 := tm.Const("u1", u), tm.Const("u2", u)
	f := setup(t, nil, map[term.Sort][]*term.Node{u: {u1, u2}}, tm)
	x := tm.BoundVar("x", u)
	c := tm.Const("c", u)
	q := tm.Forall([]*term.Node{x}, tm.Or(pred(tm, "P", x), pred(tm, "R", x)))
	f.assert(t, q, tm.Not(pred(tm, "P", c)))

	assert.Equal(t, Sat, f.s.Solve())
	assert.Equal(t, quantifiers.VerdictSaturated, f.s.Engine().Verdict())
	assert.Equal(t, "finite", f.s.Engine().Env().Registry.Owner(q).Identify())
}

func TestFiniteDomainUnsat(t *testing.T) {
	tm := term.NewManager()
	u := term.Sort("U")
	u1, u2 := tm.Const("u1", u), tm.Const("u2", u)
	f := setup(t, nil, map[term.Sort][]*term.Node{u: {u1, u2}}, tm)
	x := tm.BoundVar("x", u)
	c := tm.Const("c", u)
	// every element but c satisfies P, and P(c) is false
	q := tm.Forall([]*term.Node{x}, pred(tm, "P", x))
	f.assert(t, q, tm.Not(pred(tm, "P", c)))
	assert.Equal(t, Unsat, f.s.Solve())
}

func TestIncompleteIsUnknown(t *testing.T) {
	f := setup(t, nil, nil, nil)
	a := f.tm.Const("a", term.SortInt)
	x := f.tm.BoundVar("x", term.SortInt)
	q := f.tm.Forall([]*term.Node{x}, pred(f.tm, "P", x))
	f.assert(t, q, pred(f.tm, "P", a))

	assert.Equal(t, Unknown, f.s.Solve())
	assert.Equal(t, quantifiers.VerdictIncomplete, f.s.Engine().Verdict())
}

func TestSkolemization(t *testing.T) {
	f := setup(t, nil, nil, nil)
	x := f.tm.BoundVar("x", term.SortInt)
	q := f.tm.Forall([]*term.Node{x}, pred(f.tm, "P", x))
	f.assert(t, f.tm.Not(q))

	assert.Equal(t, Sat, f.s.Solve())
	skolems := f.s.Engine().Env().Skolemize.SkolemTermVectors()
	require.Len(t, skolems[q], 1)
	assert.Equal(t, term.SortInt, skolems[q][0].Sort())
}

func TestAssertRejectsOpenFormula(t *testing.T) {
	f := setup(t, nil, nil, nil)
	x := f.tm.BoundVar("x", term.SortInt)
	assert.ErrorIs(t, f.s.Assert(pred(f.tm, "P", x)), ErrNotFormula)
	assert.ErrorIs(t, f.s.Assert(f.tm.Int(1)), ErrNotFormula)
}

func TestUnknownStrategy(t *testing.T) {
	c := config.DefaultConfig()
	c.Quantifiers.Strategies = []string{"ematch", "mbqi"}
	_, err := New(c, term.NewManager(), nil, log.NewDiscard())
	assert.Error(t, err)
}
