package ematch

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

func setup() (*qtest.Harness, *EMatch) {
	h := qtest.New(config.DefaultQuantifiersConfig())
	m := NewEMatch(h.Env)
	h.Engine.RegisterModule(m)
	return h, m
}

func TestSelectTrigger(t *testing.T) {
	tm := term.NewManager()
	x := tm.BoundVar("x", term.SortInt)
	y := tm.BoundVar("y", term.SortInt)
	px := tm.Apply("P", term.SortBool, x)
	qxy := tm.Apply("Q", term.SortBool, x, y)
	fx := tm.Apply("f", term.SortInt, x)

	assert.Same(t, qxy, selectTrigger(tm.Forall([]*term.Node{x, y}, tm.Or(px, qxy))))
	assert.Same(t, fx, selectTrigger(tm.Forall([]*term.Node{x}, tm.Apply("P", term.SortBool, fx))))
	assert.Nil(t, selectTrigger(tm.Forall([]*term.Node{x}, tm.Eq(x, tm.Int(0)))))
}

func TestMatchRegisteredTerms(t *testing.T) {
	h, m := setup()
	tm := h.Terms
	a := tm.Const("a", term.SortInt)
	b := tm.Const("b", term.SortInt)
	x := tm.BoundVar("x", term.SortInt)
	q := tm.Forall([]*term.Node{x}, tm.Apply("P", term.SortBool, tm.Apply("f", term.SortInt, x)))
	h.AddTerms(tm.Apply("f", term.SortInt, a), tm.Apply("f", term.SortInt, b), tm.Apply("g", term.SortInt, a))
	h.Assert(q)

	trigger, ok := m.Trigger(q)
	require.True(t, ok)
	assert.Equal(t, "f", trigger.Op())

	// standard effort does not run the module
	h.Engine.Check(quantifiers.EffortStandard)
	assert.Empty(t, h.Out.Lemmas)

	h.Engine.Check(quantifiers.EffortFull)
	require.Len(t, h.Out.Lemmas, 2)
	assert.Equal(t, []*term.Node{h.Instance(q, a), h.Instance(q, b)}, h.Out.Nodes())
	for _, l := range h.Out.Lemmas {
		assert.Equal(t, inference.QuantifiersInstEMatch, l.ID)
	}

	// nothing new in the next round
	h.Engine.Check(quantifiers.EffortFull)
	assert.Len(t, h.Out.Lemmas, 2)
}

func TestMatchModuloEquality(t *testing.T) {
	h, _ := setup()
	tm := h.Terms
	a := tm.Const("a", term.SortInt)
	c := tm.Const("c", term.SortInt)
	x := tm.BoundVar("x", term.SortInt)
	ga := tm.Apply("g", term.SortInt, a)
	fc := tm.Apply("f", term.SortInt, c)
	q := tm.Forall([]*term.Node{x}, tm.Apply("P", term.SortBool, tm.Apply("f", term.SortInt, tm.Apply("g", term.SortInt, x))))
	h.AddTerms(fc, ga)
	h.Assert(q)

	// f(c) matches f(g(x)) only once c = g(a)
	h.Engine.Check(quantifiers.EffortFull)
	assert.Empty(t, h.Out.Lemmas)

	h.State.Merge(ga, c)
	h.Engine.Check(quantifiers.EffortFull)
	require.Len(t, h.Out.Lemmas, 1)
	assert.Same(t, h.Instance(q, a), h.Out.Lemmas[0].Node)
}

func TestRepeatedVariable(t *testing.T) {
	h, _ := setup()
	tm := h.Terms
	a := tm.Const("a", term.SortInt)
	b := tm.Const("b", term.SortInt)
	x := tm.BoundVar("x", term.SortInt)
	q := tm.Forall([]*term.Node{x}, tm.Apply("R", term.SortBool, x, x))
	h.AddTerms(tm.Apply("R", term.SortBool, a, b), tm.Apply("R", term.SortBool, a, a))
	h.Assert(q)

	h.Engine.Check(quantifiers.EffortFull)
	require.Len(t, h.Out.Lemmas, 1)
	assert.Same(t, h.Instance(q, a), h.Out.Lemmas[0].Node)
}

func TestOwnedByAnotherModule(t *testing.T) {
	h, m := setup()
	tm := h.Terms
	a := tm.Const("a", term.SortInt)
	x := tm.BoundVar("x", term.SortInt)
	q := tm.Forall([]*term.Node{x}, tm.Apply("P", term.SortBool, x))
	h.AddTerms(tm.Apply("P", term.SortBool, a))
	h.Env.Registry.SetOwner(q, quantifiers.Module(&otherModule{BaseModule: quantifiers.NewBaseModule(h.Env)}))
	h.Assert(q)

	assert.Empty(t, h.Env.Model.AssertedQuantifiersFor(m))
	h.Engine.Check(quantifiers.EffortFull)
	assert.Empty(t, h.Out.Lemmas)
}

type otherModule struct {
	quantifiers.BaseModule
}

func (o *otherModule) Identify() string                              { return "other" }
func (o *otherModule) Check(quantifiers.Effort, quantifiers.QEffort) {}
