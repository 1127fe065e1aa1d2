package quantifiers

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "qengine"

// Rejection reasons of an instantiation
const (
	RejectIllTyped       = "ill_typed"
	RejectLevel          = "level"
	RejectEntailed       = "entailed"
	RejectDuplicate      = "duplicate"
	RejectDuplicateLemma = "duplicate_lemma"
	RejectOwnership      = "ownership"
)

// Stats are the counters of one engine. Every engine has its own registry
// so several engines can live in one process.
type Stats struct {
	registry *prometheus.Registry

	Quantifiers    prometheus.Counter
	Rounds         *prometheus.CounterVec
	Instantiations *prometheus.CounterVec
	Rejected       *prometheus.CounterVec
	Reductions     prometheus.Counter
	Skolemizations prometheus.Counter
	ModelBuilds    prometheus.Counter
	Incomplete     prometheus.Counter
}

// NewStats creates the counters on a fresh registry
func NewStats() *Stats {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Stats{
		registry: reg,
		Quantifiers: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "quantifiers_total",
			Help:      "Number of registered quantified formulas",
		}),
		Rounds: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "rounds_total",
			Help:      "Instantiation rounds by effort",
		}, []string{"effort"}),
		Instantiations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "instantiations_total",
			Help:      "Accepted instantiations by inference",
		}, []string{"inference"}),
		Rejected: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "instantiations_rejected_total",
			Help:      "Rejected instantiations by reason",
		}, []string{"reason"}),
		Reductions: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "reductions_alpha_equivalence_total",
			Help:      "Quantified formulas reduced by alpha equivalence",
		}),
		Skolemizations: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "skolemizations_total",
			Help:      "Skolemization lemmas",
		}),
		ModelBuilds: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "model_builds_total",
			Help:      "Models requested from the ground search",
		}),
		Incomplete: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "incomplete_total",
			Help:      "Last call rounds that ended incomplete",
		}),
	}
}

// Registry returns the registry holding the counters
func (s *Stats) Registry() *prometheus.Registry {
	return s.registry
}
