// Package quantifiers implements the quantifier instantiation engine: the
// store of instantiations, the module contract and the coordinator running
// the modules in rounds of increasing effort.
package quantifiers

import (
	"sync"

	"github.com/google/uuid"
	"github.com/netrixframework/qengine/config"
	"github.com/netrixframework/qengine/context"
	"github.com/netrixframework/qengine/inference"
	"github.com/netrixframework/qengine/log"
	"github.com/netrixframework/qengine/term"
)

// Verdict is the outcome of the last check at last call effort
type Verdict int

const (
	// VerdictNone means no last call check ended without a lemma
	VerdictNone Verdict = iota
	// VerdictSaturated means every module and utility certified that no
	// instance is missing
	VerdictSaturated
	// VerdictIncomplete means some formula may have missing instances, the
	// answer must be unknown instead of sat
	VerdictIncomplete
)

func (v Verdict) String() string {
	switch v {
	case VerdictSaturated:
		return "saturated"
	case VerdictIncomplete:
		return "incomplete"
	}
	return "none"
}

// Engine coordinates the instantiation modules
type Engine struct {
	env     *Env
	modules []Module
	utils   []Util
	alpha   *AlphaEquivalence

	// formulas pre-registered in the user context
	preregistered *context.CDSet[term.ID]
	// whether a formula was reduced, in the user context
	reduced *context.CDMap[term.ID, bool]
	// reduction lemma per formula, nil if it has none
	reductions map[term.ID]*term.Node

	verdict Verdict
	rounds  int
	round   RoundInfo

	snapshot *Snapshot
	lock     *sync.Mutex

	Logger *log.Logger
}

// NewEngine creates an engine without modules. Lemmas are flushed to out.
func NewEngine(
	c config.QuantifiersConfig,
	terms *term.Manager,
	state State,
	out inference.OutputChannel,
	userCtx *context.Context,
	satCtx *context.Context,
	logger *log.Logger,
) *Engine {
	env := &Env{
		Config:      c,
		Terms:       terms,
		State:       state,
		Inferences:  inference.NewManager(out, userCtx, logger),
		UserContext: userCtx,
		SatContext:  satCtx,
		Stats:       NewStats(),
		Logger:      logger,
	}
	env.Registry = NewRegistry()
	env.TermRegistry = NewTermRegistry(env)
	env.Equality = NewEqualityQuery(env)
	env.Model = NewModel(env)
	env.Instantiate = NewInstantiate(env)
	env.Skolemize = NewSkolemize(env)

	e := &Engine{
		env:     env,
		modules: make([]Module, 0),
		utils: []Util{
			env.Registry,
			env.TermRegistry,
			env.Equality,
			env.Instantiate,
		},
		preregistered: context.NewCDSet[term.ID](userCtx),
		reduced:       context.NewCDMap[term.ID, bool](userCtx),
		reductions:    make(map[term.ID]*term.Node),
		lock:          new(sync.Mutex),
		Logger:        logger.Tagged("quant-engine"),
	}
	if c.AlphaEquivalence {
		e.alpha = NewAlphaEquivalence(env)
	}
	return e
}

// Env returns the handle modules are constructed with
func (e *Engine) Env() *Env {
	return e.env
}

// RegisterModule appends m to the modules. Modules are checked in the order
// they are registered.
func (e *Engine) RegisterModule(m Module) {
	e.Logger.With(log.LogParams{"module": m.Identify()}).Debug("Registering module")
	e.modules = append(e.modules, m)
}

// Modules returns the registered modules in order
func (e *Engine) Modules() []Module {
	res := make([]Module, len(e.modules))
	copy(res, e.modules)
	return res
}

// Verdict returns the outcome of the last check
func (e *Engine) Verdict() Verdict {
	return e.verdict
}

// Presolve is called at the start of an incremental solving unit
func (e *Engine) Presolve() {
	e.Logger.Debug("Presolve")
	e.env.Inferences.ClearPending()
	for _, m := range e.modules {
		m.Presolve()
	}
	e.env.TermRegistry.Presolve()
}

// Restart forgets the instantiations kept across user contexts
func (e *Engine) Restart() {
	e.Logger.Debug("Restart")
	e.env.Instantiate.Clear()
	e.env.Inferences.ClearIncomplete()
	e.verdict = VerdictNone
}

// NotifyNewTerm registers a ground term created by the ground search
func (e *Engine) NotifyNewTerm(t *term.Node) {
	e.env.TermRegistry.AddTerm(t, false)
}

func (e *Engine) reduceQuantifier(q *term.Node) bool {
	if r, ok := e.reduced.Get(q.ID()); ok {
		return r
	}
	lem, tried := e.reductions[q.ID()]
	if !tried {
		if e.alpha != nil {
			lem = e.alpha.ReduceQuantifier(q)
			if lem != nil {
				e.Logger.With(log.LogParams{
					"quantifier": q.String(),
					"lemma":      lem.String(),
				}).Debug("Reduced by alpha equivalence")
				e.env.Stats.Reductions.Inc()
			}
		}
		e.reductions[q.ID()] = lem
	}
	if lem != nil {
		e.env.Inferences.Lemma(inference.Lemma{Node: lem, ID: inference.QuantifiersReduceAlphaEq})
	}
	e.reduced.Set(q.ID(), lem != nil)
	return lem != nil
}

func (e *Engine) registerQuantifier(q *term.Node) {
	if e.env.Registry.IsRegistered(q) {
		return
	}
	e.env.invariant(q.IsQuantifier(), "registering a formula that is not quantified", log.LogParams{
		"formula": q.String(),
	})
	pending := e.env.Inferences.NumPendingLemmas()
	e.env.Stats.Quantifiers.Inc()
	for _, u := range e.utils {
		u.RegisterQuantifier(q)
	}
	for _, m := range e.modules {
		m.CheckOwnership(q)
	}
	owner := "[none]"
	if m := e.env.Registry.Owner(q); m != nil {
		owner = m.Identify()
	}
	e.Logger.With(log.LogParams{
		"quantifier": q.String(),
		"owner":      owner,
	}).Debug("Registered quantifier")
	for _, m := range e.modules {
		m.RegisterQuantifier(q)
		e.env.invariant(e.env.Inferences.NumPendingLemmas() == pending, "lemma added while registering", log.LogParams{
			"quantifier": q.String(),
			"module":     m.Identify(),
		})
	}
}

// PreRegisterQuantifier registers q unless it reduces to a lemma. It is a
// no-op for a formula already pre-registered in the user context.
func (e *Engine) PreRegisterQuantifier(q *term.Node) {
	if !e.preregistered.Insert(q.ID()) {
		return
	}
	if e.reduceQuantifier(q) {
		return
	}
	e.registerQuantifier(q)
	for _, m := range e.modules {
		m.PreRegisterQuantifier(q)
	}
	e.env.Inferences.DoPending()
}

// AssertQuantifier notifies that q is asserted with polarity pol in the
// current assignment. A negative assertion is skolemized.
func (e *Engine) AssertQuantifier(q *term.Node, pol bool) {
	if e.reduceQuantifier(q) {
		return
	}
	if !pol {
		if lem, ok := e.env.Skolemize.Process(q); ok {
			e.env.Stats.Skolemizations.Inc()
			e.env.Inferences.Lemma(lem)
		}
		return
	}
	e.registerQuantifier(q)
	e.env.Model.AssertQuantifier(q)
	for _, m := range e.modules {
		m.AssertNode(q)
	}
	e.env.TermRegistry.AddTerm(q, true)
}

// Check runs one round at effort ef. At most one batch of lemmas is sent:
// the round ends as soon as a tier produced a lemma.
func (e *Engine) Check(ef Effort) {
	e.verdict = VerdictNone
	defer e.publish()
	inf := e.env.Inferences
	state := e.env.State
	if !state.Consistent() {
		e.Logger.Debug("Equality state not consistent, return")
		return
	}
	if state.InConflict() {
		if ef < EffortLastCall {
			e.Logger.Debug("Conflicting lemma already reported, return")
			return
		}
		e.env.invariant(false, "conflicting lemma reported before last call check", log.LogParams{
			"effort": ef.String(),
		})
	}

	needsCheck := inf.HasPendingLemma()
	needsModel := QEffortNone
	active := make([]Module, 0, len(e.modules))
	if e.env.Model.CheckNeeded() {
		needsCheck = needsCheck || ef >= EffortLastCall
		for _, m := range e.modules {
			if !m.NeedsCheck(ef) {
				continue
			}
			active = append(active, m)
			needsCheck = true
			// a model is only requested at last call
			if ef >= EffortLastCall {
				if me := m.NeedsModel(ef); me < needsModel {
					needsModel = me
				}
			}
		}
	}

	inf.Reset()
	incomplete := false
	if needsCheck {
		e.rounds++
		e.round = RoundInfo{
			ID:      uuid.New().String(),
			Number:  e.rounds,
			Effort:  ef.String(),
			Modules: moduleNames(active),
		}
		logger := e.Logger.With(log.LogParams{
			"round":  e.round.ID,
			"effort": ef.String(),
		})
		logger.With(log.LogParams{
			"modules":     e.round.Modules,
			"quantifiers": e.env.Model.NumAssertedQuantifiers(),
			"pending":     inf.NumPendingLemmas(),
			"needs_model": needsModel.String(),
		}).Debug("Quantifiers engine round")

		inf.DoPending()
		if inf.HasSentLemma() {
			e.round.SentLemma = true
			return
		}
		for _, u := range e.utils {
			if u.Reset(ef) {
				continue
			}
			inf.DoPending()
			if inf.HasSentLemma() {
				e.round.SentLemma = true
				return
			}
			e.env.invariant(false, "utility reset failed without a lemma", log.LogParams{
				"util": u.Identify(),
			})
			return
		}
		e.env.Model.ResetRound()
		for _, m := range e.modules {
			m.ResetRound(ef)
		}
		inf.DoPending()
		if inf.HasSentLemma() {
			e.round.SentLemma = true
			return
		}
		e.env.Stats.Rounds.WithLabelValues(ef.String()).Inc()

		for qe := QEffortConflict; qe <= QEffortLastCall; qe++ {
			if needsModel == qe {
				logger.Debug("Build model")
				e.env.Stats.ModelBuilds.Inc()
				if !state.BuildModel() {
					logger.Debug("Model building failed")
					inf.DoPending()
					incomplete = true
					break
				}
			}
			if !inf.HasSentLemma() {
				for _, m := range active {
					m.Check(ef, qe)
					if state.InConflict() {
						logger.With(log.LogParams{"module": m.Identify()}).Debug("Conflict")
						break
					}
				}
				inf.DoPending()
			}
			if inf.HasSentLemma() {
				break
			}
			if qe == QEffortModel && ef == EffortLastCall {
				incomplete = e.checkIncomplete(logger)
				if !incomplete {
					break
				}
			}
		}
		e.round.SentLemma = inf.HasSentLemma()
		if inf.HasSentLemma() && (e.env.Config.DebugInst || logger.IsDebug()) {
			w := logger.Writer()
			e.env.Instantiate.DebugPrint(w)
			w.Close()
		}
		logger.With(log.LogParams{"sent_lemma": inf.HasSentLemma()}).Debug("Finished quantifiers engine round")
	}

	if ef == EffortLastCall && !inf.HasSentLemma() {
		if incomplete {
			e.Logger.Debug("Set incomplete flag")
			inf.SetIncomplete()
			e.env.Stats.Incomplete.Inc()
			e.verdict = VerdictIncomplete
		} else {
			e.verdict = VerdictSaturated
		}
		e.round.Verdict = e.verdict.String()
		if e.Logger.IsDebug() {
			w := e.Logger.Writer()
			e.env.Instantiate.DebugPrintModel(w)
			w.Close()
		}
	}
}

// checkIncomplete polls completeness, cheapest first, and stops at the first
// negative vote
func (e *Engine) checkIncomplete(logger *log.Logger) bool {
	for _, u := range e.utils {
		if !u.CheckComplete() {
			logger.With(log.LogParams{"util": u.Identify()}).Debug("Incomplete because of utility")
			return true
		}
	}
	if e.env.State.InConflict() {
		return true
	}
	for _, m := range e.modules {
		if !m.CheckComplete() {
			logger.With(log.LogParams{"module": m.Identify()}).Debug("Incomplete because of module")
			return true
		}
	}
	for _, q := range e.env.Model.AssertedQuantifiers() {
		complete := false
		if owner := e.env.Registry.Owner(q); owner != nil {
			complete = owner.CheckCompleteFor(q)
		} else {
			for _, m := range e.modules {
				if m.CheckCompleteFor(q) {
					complete = true
					break
				}
			}
		}
		if !complete {
			logger.With(log.LogParams{"quantifier": q.String()}).Debug("Incomplete because formula was not fully processed")
			return true
		}
	}
	return false
}

func moduleNames(modules []Module) []string {
	res := make([]string, len(modules))
	for i, m := range modules {
		res[i] = m.Identify()
	}
	return res
}
