package apiserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/netrixframework/qengine/config"
	"github.com/netrixframework/qengine/log"
	"github.com/netrixframework/qengine/quantifiers"
	"github.com/netrixframework/qengine/quantifiers/qtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticSource struct {
	s *quantifiers.Snapshot
}

func (f *staticSource) Snapshot() *quantifiers.Snapshot {
	return f.s
}

func newTestServer(s *quantifiers.Snapshot) (*APIServer, *quantifiers.Stats) {
	stats := quantifiers.NewStats()
	return NewAPIServer("", &staticSource{s: s}, stats.Registry(), log.NewDiscard()), stats
}

func get(t *testing.T, a *APIServer, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, req)
	return rec
}

func testSnapshot() *quantifiers.Snapshot {
	return &quantifiers.Snapshot{
		Round: quantifiers.RoundInfo{
			Number:    2,
			Effort:    "last_call",
			Modules:   []string{"enum"},
			SentLemma: true,
		},
		Verdict: "none",
		Quantifiers: []quantifiers.QuantifierInfo{
			{ID: 7, Formula: "(forall ((x Int)) (P x))", Owner: "", Asserted: true, TotalInstantiations: 1,
				TermVectors: [][]string{{"a"}}},
		},
		Summary: quantifiers.Summarize([]float64{1}),
		Lemmas:  map[string]int{"QUANTIFIERS_INST_ENUM": 1},
	}
}

func TestQuantifiers(t *testing.T) {
	a, _ := newTestServer(testSnapshot())
	rec := get(t, a, "/quantifiers")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Quantifiers []quantifiers.QuantifierInfo `json:"quantifiers"`
		Summary     quantifiers.InstantiationSummary
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Quantifiers, 1)
	assert.Equal(t, [][]string{{"a"}}, body.Quantifiers[0].TermVectors)
	assert.Equal(t, 1, body.Summary.Total)
}

func TestQuantifierGet(t *testing.T) {
	a, _ := newTestServer(testSnapshot())

	rec := get(t, a, "/quantifiers/7")
	require.Equal(t, http.StatusOK, rec.Code)
	var info quantifiers.QuantifierInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.Equal(t, "(forall ((x Int)) (P x))", info.Formula)

	assert.Equal(t, http.StatusNotFound, get(t, a, "/quantifiers/8").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, a, "/quantifiers/x").Code)
}

func TestRound(t *testing.T) {
	a, _ := newTestServer(testSnapshot())
	rec := get(t, a, "/round")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Round   quantifiers.RoundInfo `json:"round"`
		Verdict string                `json:"verdict"`
		Lemmas  map[string]int        `json:"lemmas"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Round.Number)
	assert.Equal(t, []string{"enum"}, body.Round.Modules)
	assert.Equal(t, 1, body.Lemmas["QUANTIFIERS_INST_ENUM"])
}

func TestNoSnapshot(t *testing.T) {
	a, _ := newTestServer(nil)
	for _, path := range []string{"/quantifiers", "/quantifiers/1", "/round"} {
		assert.Equal(t, http.StatusServiceUnavailable, get(t, a, path).Code, path)
	}
}

func TestEngineBeforeFirstCheck(t *testing.T) {
	h := qtest.New(config.DefaultQuantifiersConfig())
	a := NewAPIServer("", h.Engine, h.Env.Stats.Registry(), log.NewDiscard())
	assert.Equal(t, http.StatusServiceUnavailable, get(t, a, "/round").Code)

	h.Engine.Check(quantifiers.EffortLastCall)
	assert.Equal(t, http.StatusOK, get(t, a, "/round").Code)
}

func TestStartStop(t *testing.T) {
	a, _ := newTestServer(nil)
	a.addr = "127.0.0.1:0"
	a.server.Addr = a.addr
	require.NoError(t, a.Start())
	assert.True(t, a.Running())
	require.NoError(t, a.Stop())
	assert.False(t, a.Running())
}

func TestMetrics(t *testing.T) {
	a, stats := newTestServer(nil)
	stats.Quantifiers.Inc()
	rec := get(t, a, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "qengine_")
}
