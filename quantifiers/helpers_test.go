package quantifiers

import (
	"testing"

	"github.com/netrixframework/qengine/config"
	"github.com/netrixframework/qengine/context"
	"github.com/netrixframework/qengine/inference"
	"github.com/netrixframework/qengine/log"
	"github.com/netrixframework/qengine/term"
)

type fakeState struct {
	inconsistent bool
	conflict     bool
	failModel    bool
	builds       int
	reps         map[term.ID]*term.Node
	values       map[term.ID]bool
}

func newFakeState() *fakeState {
	return &fakeState{
		reps:   make(map[term.ID]*term.Node),
		values: make(map[term.ID]bool),
	}
}

func (s *fakeState) Consistent() bool { return !s.inconsistent }
func (s *fakeState) InConflict() bool { return s.conflict }

func (s *fakeState) Representative(t *term.Node) *term.Node {
	if r, ok := s.reps[t.ID()]; ok {
		return r
	}
	return t
}

func (s *fakeState) Value(f *term.Node) (bool, bool) {
	v, ok := s.values[f.ID()]
	return v, ok
}

func (s *fakeState) BuildModel() bool {
	s.builds++
	return !s.failModel
}

type recorder struct {
	lemmas []inference.Lemma
}

func (r *recorder) Lemma(l inference.Lemma) {
	r.lemmas = append(r.lemmas, l)
}

type checkCall struct {
	effort  Effort
	qeffort QEffort
}

// testModule is a module whose answers are set by the test
type testModule struct {
	BaseModule
	name       string
	always     bool
	inactive   bool
	model      QEffort
	owns       bool
	incomplete bool
	completeOn map[term.ID]bool
	onCheck    func(m *testModule, e Effort, qe QEffort)
	onRegister func(m *testModule, q *term.Node)

	calls      []checkCall
	registered []*term.Node
	asserted   []*term.Node
	preregs    []*term.Node
	resets     int
}

func newTestModule(env *Env, name string) *testModule {
	return &testModule{
		BaseModule: NewBaseModule(env),
		name:       name,
		always:     true,
		model:      QEffortNone,
		completeOn: make(map[term.ID]bool),
	}
}

func (m *testModule) Identify() string { return m.name }

func (m *testModule) NeedsCheck(e Effort) bool {
	if m.inactive {
		return false
	}
	return m.always || m.BaseModule.NeedsCheck(e)
}

func (m *testModule) NeedsModel(e Effort) QEffort { return m.model }

func (m *testModule) ResetRound(e Effort) { m.resets++ }

func (m *testModule) CheckOwnership(q *term.Node) {
	if m.owns {
		m.Env.Registry.SetOwner(q, m)
	}
}

func (m *testModule) RegisterQuantifier(q *term.Node) {
	m.registered = append(m.registered, q)
	if m.onRegister != nil {
		m.onRegister(m, q)
	}
}

func (m *testModule) PreRegisterQuantifier(q *term.Node) {
	m.preregs = append(m.preregs, q)
}

func (m *testModule) AssertNode(q *term.Node) {
	m.asserted = append(m.asserted, q)
}

func (m *testModule) Check(e Effort, qe QEffort) {
	m.calls = append(m.calls, checkCall{effort: e, qeffort: qe})
	if m.onCheck != nil {
		m.onCheck(m, e, qe)
	}
}

func (m *testModule) CheckComplete() bool { return !m.incomplete }

func (m *testModule) CheckCompleteFor(q *term.Node) bool {
	return m.completeOn[q.ID()]
}

// instantiateAll instantiates every asserted formula the module may handle with the given terms
func instantiateAll(terms ...*term.Node) func(m *testModule, e Effort, qe QEffort) {
	return func(m *testModule, e Effort, qe QEffort) {
		for _, q := range m.Env.Model.AssertedQuantifiersFor(m) {
			ts := make([]*term.Node, q.NumBoundVars())
			copy(ts, terms)
			m.Env.Instantiate.AddInstantiation(q, ts, InstOptions{ID: inference.QuantifiersInstance, Source: m})
		}
	}
}

type harness struct {
	tm     *term.Manager
	state  *fakeState
	out    *recorder
	user   *context.Context
	sat    *context.Context
	engine *Engine
	env    *Env
}

func newHarness(t *testing.T, modify func(c *config.QuantifiersConfig)) *harness {
	t.Helper()
	c := config.DefaultQuantifiersConfig()
	if modify != nil {
		modify(&c)
	}
	h := &harness{
		tm:    term.NewManager(),
		state: newFakeState(),
		out:   &recorder{},
		user:  context.New("user"),
		sat:   context.New("sat"),
	}
	h.engine = NewEngine(c, h.tm, h.state, h.out, h.user, h.sat, log.NewDiscard())
	h.env = h.engine.Env()
	return h
}

func (h *harness) module(name string) *testModule {
	m := newTestModule(h.env, name)
	h.engine.RegisterModule(m)
	return m
}

// forall x:Int. P(x)
func (h *harness) forallP(name string) *term.Node {
	x := h.tm.BoundVar(name, term.SortInt)
	return h.tm.Forall([]*term.Node{x}, h.tm.Apply("P", term.SortBool, x))
}

func (h *harness) lemmaNodes() []*term.Node {
	res := make([]*term.Node, len(h.out.lemmas))
	for i, l := range h.out.lemmas {
		res[i] = l.Node
	}
	return res
}
