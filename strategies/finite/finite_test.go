package finite

import (
	"testing"

	"github.com/netrixframework/qengine/config"
	"github.com/netrixframework/qengine/inference"
	"github.com/netrixframework/qengine/quantifiers"
	"github.com/netrixframework/qengine/quantifiers/qtest"
	"github.com/netrixframework/qengine/term"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sortU = term.Sort("U")

type fixture struct {
	*qtest.Harness
	m      *Finite
	u1, u2 *term.Node
	x      *term.Node
}

func setup(modify func(c *config.QuantifiersConfig)) *fixture {
	c := config.DefaultQuantifiersConfig()
	if modify != nil {
		modify(&c)
	}
	h := qtest.New(c)
	f := &fixture{
		Harness: h,
		u1:      h.Terms.Const("u1", sortU),
		u2:      h.Terms.Const("u2", sortU),
		x:       h.Terms.BoundVar("x", sortU),
	}
	f.m = NewFinite(h.Env, map[term.Sort][]*term.Node{sortU: {f.u1, f.u2}})
	h.Engine.RegisterModule(f.m)
	return f
}

func (f *fixture) forall(pred string) *term.Node {
	return f.Terms.Forall([]*term.Node{f.x}, f.Terms.Apply(pred, term.SortBool, f.x))
}

func TestOwnership(t *testing.T) {
	f := setup(nil)
	f.Engine.Presolve()
	q := f.forall("S")
	y := f.Terms.BoundVar("y", term.SortInt)
	mixed := f.Terms.Forall([]*term.Node{f.x, y}, f.Terms.Apply("R", term.SortBool, f.x, y))
	f.Assert(q)
	f.Assert(mixed)

	assert.Same(t, f.m, f.Env.Registry.Owner(q))
	assert.Nil(t, f.Env.Registry.Owner(mixed))
	assert.True(t, f.Env.TermRegistry.Contains(f.u1))
	assert.Equal(t, quantifiers.QEffortModel, f.m.NeedsModel(quantifiers.EffortLastCall))
}

func TestSaturation(t *testing.T) {
	f := setup(nil)
	f.Engine.Presolve()
	q := f.forall("S")
	f.Assert(q)

	f.Engine.Check(quantifiers.EffortLastCall)
	assert.Equal(t, 1, f.State.Builds)
	require.Len(t, f.Out.Lemmas, 2)
	assert.Equal(t, []*term.Node{f.Instance(q, f.u1), f.Instance(q, f.u2)}, f.Out.Nodes())
	assert.Equal(t, inference.QuantifiersInstFinite, f.Out.Lemmas[0].ID)
	assert.Equal(t, quantifiers.VerdictNone, f.Engine.Verdict())

	f.Engine.Check(quantifiers.EffortLastCall)
	assert.Len(t, f.Out.Lemmas, 2)
	assert.True(t, f.m.CheckCompleteFor(q))
	assert.Equal(t, quantifiers.VerdictSaturated, f.Engine.Verdict())
}

func TestEntailedInstanceIsCovered(t *testing.T) {
	f := setup(nil)
	f.Engine.Presolve()
	q := f.forall("T")
	f.State.SetValue(f.Terms.Apply("T", term.SortBool, f.u1), true)
	f.Assert(q)

	f.Engine.Check(quantifiers.EffortLastCall)
	require.Len(t, f.Out.Lemmas, 1)
	assert.Same(t, f.Instance(q, f.u2), f.Out.Lemmas[0].Node)

	f.Engine.Check(quantifiers.EffortLastCall)
	assert.Equal(t, quantifiers.VerdictSaturated, f.Engine.Verdict())
}

func TestUncoveredTupleIsIncomplete(t *testing.T) {
	f := setup(func(c *config.QuantifiersConfig) { c.InstMaxLevel = 0 })
	f.Env.TermRegistry.SetLevel(f.u2, 1)
	f.Engine.Presolve()
	q := f.forall("S")
	f.Assert(q)

	f.Engine.Check(quantifiers.EffortLastCall)
	require.Len(t, f.Out.Lemmas, 1)
	f.Engine.Check(quantifiers.EffortLastCall)
	assert.Len(t, f.Out.Lemmas, 1)
	assert.False(t, f.m.CheckCompleteFor(q))
	assert.Equal(t, quantifiers.VerdictIncomplete, f.Engine.Verdict())
}
