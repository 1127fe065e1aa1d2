package inference

import (
	"testing"

	"github.com/netrixframework/qengine/context"
	"github.com/netrixframework/qengine/log"
	"github.com/netrixframework/qengine/term"
	"github.com/stretchr/testify/assert"
)

type recorder struct {
	lemmas []Lemma
}

func (r *recorder) Lemma(l Lemma) {
	r.lemmas = append(r.lemmas, l)
}

func TestPendingFlush(t *testing.T) {
	tm := term.NewManager()
	ctx := context.New("user")
	out := &recorder{}
	m := NewManager(out, ctx, log.NewDiscard())

	p := tm.Apply("P", term.SortBool, tm.Int(1))
	q := tm.Apply("P", term.SortBool, tm.Int(2))
	assert.True(t, m.AddPendingLemma(Lemma{Node: p, ID: QuantifiersInstance}))
	assert.False(t, m.AddPendingLemma(Lemma{Node: p, ID: QuantifiersInstance}))
	assert.True(t, m.AddPendingLemma(Lemma{Node: q, ID: QuantifiersInstEnum}))
	assert.Equal(t, 2, m.NumPendingLemmas())
	assert.False(t, m.HasSentLemma())
	assert.Empty(t, out.lemmas)

	m.DoPending()
	assert.True(t, m.HasSentLemma())
	assert.True(t, m.HasLemma(p))
	assert.False(t, m.HasLemma(tm.Apply("P", term.SortBool, tm.Int(3))))
	assert.False(t, m.HasPendingLemma())
	if assert.Len(t, out.lemmas, 2) {
		assert.Same(t, p, out.lemmas[0].Node)
		assert.Same(t, q, out.lemmas[1].Node)
	}
	assert.Equal(t, 1, m.Counts()[QuantifiersInstEnum])

	// already sent
	assert.False(t, m.Lemma(Lemma{Node: q}))
	m.Reset()
	assert.False(t, m.HasSentLemma())
}

func TestCacheFollowsUserContext(t *testing.T) {
	tm := term.NewManager()
	ctx := context.New("user")
	out := &recorder{}
	m := NewManager(out, ctx, log.NewDiscard())
	p := tm.Apply("P", term.SortBool, tm.Int(1))

	ctx.Push()
	assert.True(t, m.Lemma(Lemma{Node: p}))
	assert.False(t, m.Lemma(Lemma{Node: p}))
	ctx.Pop()
	assert.True(t, m.AddPendingLemma(Lemma{Node: p}))
	m.ClearPending()
	assert.False(t, m.HasPendingLemma())
}

func TestIncomplete(t *testing.T) {
	m := NewManager(OutputFunc(func(Lemma) {}), context.New("user"), log.NewDiscard())
	assert.False(t, m.Incomplete())
	m.SetIncomplete()
	assert.True(t, m.Incomplete())
	m.ClearIncomplete()
	assert.False(t, m.Incomplete())
}
