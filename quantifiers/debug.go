package quantifiers

import (
	"github.com/netrixframework/qengine/term"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// RoundInfo describes the last round that did some work
type RoundInfo struct {
	ID        string   `json:"id"`
	Number    int      `json:"number"`
	Effort    string   `json:"effort"`
	Modules   []string `json:"modules"`
	SentLemma bool     `json:"sent_lemma"`
	Verdict   string   `json:"verdict"`
}

// QuantifierInfo describes a registered quantified formula
type QuantifierInfo struct {
	ID                  term.ID    `json:"id"`
	Formula             string     `json:"formula"`
	Owner               string     `json:"owner"`
	Asserted            bool       `json:"asserted"`
	RoundInstantiations int        `json:"round_instantiations"`
	TotalInstantiations int        `json:"total_instantiations"`
	TermVectors         [][]string `json:"term_vectors"`
	Skolems             []string   `json:"skolems,omitempty"`
}

// InstantiationSummary summarizes the number of instantiations per formula
type InstantiationSummary struct {
	Formulas int     `json:"formulas"`
	Total    int     `json:"total"`
	Mean     float64 `json:"mean"`
	StdDev   float64 `json:"std_dev"`
	Max      float64 `json:"max"`
}

// Snapshot is an immutable view of the engine for diagnostics
type Snapshot struct {
	Round       RoundInfo            `json:"round"`
	Verdict     string               `json:"verdict"`
	Quantifiers []QuantifierInfo     `json:"quantifiers"`
	Summary     InstantiationSummary `json:"summary"`
	Lemmas      map[string]int       `json:"lemmas"`
}

// Quantifier returns the info of the formula with the given id
func (s *Snapshot) Quantifier(id term.ID) (QuantifierInfo, bool) {
	for _, q := range s.Quantifiers {
		if q.ID == id {
			return q, true
		}
	}
	return QuantifierInfo{}, false
}

// Summarize computes the mean, standard deviation and maximum of counts
func Summarize(counts []float64) InstantiationSummary {
	s := InstantiationSummary{Formulas: len(counts)}
	if len(counts) == 0 {
		return s
	}
	s.Total = int(floats.Sum(counts))
	s.Mean = stat.Mean(counts, nil)
	s.Max = floats.Max(counts)
	if len(counts) > 1 {
		s.StdDev = stat.StdDev(counts, nil)
	}
	return s
}

func stringsOf(terms []*term.Node) []string {
	res := make([]string, len(terms))
	for i, t := range terms {
		res[i] = t.String()
	}
	return res
}

func (e *Engine) buildSnapshot() *Snapshot {
	in := e.env.Instantiate
	skolems := e.env.Skolemize.SkolemTermVectors()
	s := &Snapshot{
		Round:       e.round,
		Verdict:     e.verdict.String(),
		Quantifiers: make([]QuantifierInfo, 0),
		Lemmas:      make(map[string]int),
	}
	s.Round.Modules = append([]string(nil), e.round.Modules...)
	counts := make([]float64, 0)
	seen := make(map[term.ID]bool)
	add := func(q *term.Node) {
		if seen[q.ID()] {
			return
		}
		seen[q.ID()] = true
		info := QuantifierInfo{
			ID:                  q.ID(),
			Formula:             q.String(),
			Owner:               "",
			Asserted:            e.env.Model.IsAsserted(q),
			RoundInstantiations: in.RoundCount(q),
			TotalInstantiations: in.TotalCount(q),
			TermVectors:         make([][]string, 0),
		}
		if owner := e.env.Registry.Owner(q); owner != nil {
			info.Owner = owner.Identify()
		}
		for _, v := range in.InstantiationTermVectors(q) {
			info.TermVectors = append(info.TermVectors, stringsOf(v))
		}
		if sks, ok := skolems[q]; ok {
			info.Skolems = stringsOf(sks)
		}
		counts = append(counts, float64(info.TotalInstantiations))
		s.Quantifiers = append(s.Quantifiers, info)
	}
	for _, q := range e.env.Registry.Quantifiers() {
		add(q)
	}
	for _, q := range e.env.Skolemize.Skolemized() {
		add(q)
	}
	s.Summary = Summarize(counts)
	for id, c := range e.env.Inferences.Counts() {
		s.Lemmas[id.String()] = c
	}
	return s
}

func (e *Engine) publish() {
	s := e.buildSnapshot()
	e.lock.Lock()
	defer e.lock.Unlock()
	e.snapshot = s
}

// Snapshot returns the view published at the end of the last check, nil
// before the first check. It is safe to call from other goroutines.
func (e *Engine) Snapshot() *Snapshot {
	e.lock.Lock()
	defer e.lock.Unlock()
	return e.snapshot
}
