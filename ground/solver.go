// Package ground drives the quantifiers engine with a propositional search
// over gini. The boolean structure of the assertions is sent to the SAT
// solver, equalities are checked by congruence closure on every assignment
// and the quantified atoms are handed to the engine, whose lemmas are added
// as clauses until it saturates.
package ground

import (
	"github.com/go-air/gini"
	"github.com/go-air/gini/logic"
	"github.com/go-air/gini/z"
	"github.com/netrixframework/qengine/config"
	"github.com/netrixframework/qengine/context"
	"github.com/netrixframework/qengine/inference"
	"github.com/netrixframework/qengine/log"
	"github.com/netrixframework/qengine/quantifiers"
	"github.com/netrixframework/qengine/strategies"
	"github.com/netrixframework/qengine/term"
	"github.com/pkg/errors"
)

var (
	ErrNotFormula = errors.New("assertion is not a closed formula")
)

// Result of Solve
type Result int

const (
	Unknown Result = iota
	Sat
	Unsat
)

func (r Result) String() string {
	switch r {
	case Sat:
		return "sat"
	case Unsat:
		return "unsat"
	}
	return "unknown"
}

const defaultMaxRounds = 100

// Solver is the ground search. It implements quantifiers.State and
// inference.OutputChannel for its engine.
type Solver struct {
	tm      *term.Manager
	engine  *quantifiers.Engine
	user    *context.Context
	sat     *context.Context
	domains map[term.Sort][]*term.Node

	maxRounds int
	rounds    int
	blocked   int
	builds    int

	c        *logic.C
	g        *gini.Gini
	marks    []int8
	lits     map[term.ID]z.Lit
	atomLits map[term.ID]z.Lit

	atoms     []*term.Node
	quants    []*term.Node
	newQuants []*term.Node
	eqs       []*term.Node
	preds     []*term.Node
	known     map[term.ID]*term.Node
	terms     []*term.Node
	queue     []*term.Node

	// current model
	values     map[term.ID]bool
	parent     map[term.ID]*term.Node
	diseqs     map[[2]term.ID]bool
	predValues map[string]bool
	consistent bool
	conflict   bool
	// an operator is interpreted as uninterpreted, sat answers are not trusted
	approx bool

	Logger *log.Logger
}

var _ quantifiers.State = &Solver{}
var _ inference.OutputChannel = &Solver{}

// New creates a solver whose engine runs the strategies of c. domains are
// the elements of the sorts declared finite.
func New(c *config.Config, tm *term.Manager, domains map[term.Sort][]*term.Node, logger *log.Logger) (*Solver, error) {
	if domains == nil {
		domains = make(map[term.Sort][]*term.Node)
	}
	s := &Solver{
		tm:         tm,
		user:       context.New("user"),
		sat:        context.New("sat"),
		domains:    domains,
		maxRounds:  c.Ground.MaxRounds,
		c:          logic.NewC(),
		g:          gini.New(),
		marks:      make([]int8, 0),
		lits:       make(map[term.ID]z.Lit),
		atomLits:   make(map[term.ID]z.Lit),
		known:      make(map[term.ID]*term.Node),
		values:     make(map[term.ID]bool),
		parent:     make(map[term.ID]*term.Node),
		diseqs:     make(map[[2]term.ID]bool),
		predValues: make(map[string]bool),
		consistent: true,
		Logger:     logger.Tagged("ground"),
	}
	if s.maxRounds <= 0 {
		s.maxRounds = defaultMaxRounds
	}
	s.g.Add(s.c.T)
	s.g.Add(z.LitNull)
	s.engine = quantifiers.NewEngine(c.Quantifiers, tm, s, s, s.user, s.sat, logger)
	if err := strategies.Register(s.engine, c.Quantifiers.Strategies, strategies.Params{Domains: domains}); err != nil {
		return nil, err
	}
	for _, elems := range domains {
		for i := range elems {
			for j := i + 1; j < len(elems); j++ {
				s.queue = append(s.queue, s.tm.Rewrite(s.tm.Not(s.tm.Eq(elems[i], elems[j]))))
			}
		}
	}
	return s, nil
}

// Engine returns the quantifiers engine driven by the solver
func (s *Solver) Engine() *quantifiers.Engine {
	return s.engine
}

// Rounds returns the number of propositional models examined by the last Solve
func (s *Solver) Rounds() int {
	return s.rounds
}

// Assert adds the closed formula f
func (s *Solver) Assert(f *term.Node) error {
	if f.Sort() != term.SortBool || !f.IsGround() {
		return ErrNotFormula
	}
	s.queue = append(s.queue, s.tm.Rewrite(f))
	return nil
}

// Lemma receives a lemma of the engine. It is added as a clause before the
// next search.
func (s *Solver) Lemma(l inference.Lemma) {
	s.queue = append(s.queue, l.Node)
	if v, ok := s.eval(l.Node); ok && !v {
		s.conflict = true
	}
}

// drain adds the queued formulas to the SAT solver and registers their
// terms and quantified atoms with the engine
func (s *Solver) drain() {
	for len(s.queue) > 0 {
		f := s.queue[0]
		s.queue = s.queue[1:]
		l := s.encode(f)
		if n := s.c.Len(); len(s.marks) < n {
			s.marks = append(s.marks, make([]int8, n-len(s.marks))...)
		}
		s.marks, _ = s.c.CnfSince(s.g, s.marks, l)
		s.g.Add(l)
		s.g.Add(z.LitNull)
		s.engine.NotifyNewTerm(f)
		quants := s.newQuants
		s.newQuants = nil
		for _, q := range quants {
			s.engine.PreRegisterQuantifier(q)
		}
	}
}

// Solve searches for a model of the assertions. Sat is only answered when
// the engine saturated on the model.
func (s *Solver) Solve() Result {
	s.engine.Presolve()
	s.drain()
	for s.rounds = 0; s.rounds < s.maxRounds; s.rounds++ {
		switch s.g.Solve() {
		case -1:
			s.Logger.With(log.LogParams{"rounds": s.rounds}).Info("Unsat")
			return Unsat
		case 1:
		default:
			return Unknown
		}
		s.readModel()
		if !s.consistent {
			s.block()
			continue
		}
		verdict := s.check()
		if len(s.queue) > 0 {
			s.drain()
			continue
		}
		s.Logger.With(log.LogParams{
			"rounds":  s.rounds,
			"verdict": verdict.String(),
		}).Info("Engine finished")
		if verdict == quantifiers.VerdictSaturated && !s.approx {
			return Sat
		}
		return Unknown
	}
	s.Logger.With(log.LogParams{"rounds": s.rounds}).Info("Round bound reached")
	return Unknown
}

// check runs the engine on the current model in a pushed SAT context
func (s *Solver) check() quantifiers.Verdict {
	s.sat.Push()
	defer s.sat.Pop()
	s.conflict = false
	for _, q := range s.quants {
		s.engine.AssertQuantifier(q, s.values[q.ID()])
	}
	for _, ef := range []quantifiers.Effort{quantifiers.EffortFull, quantifiers.EffortLastCall} {
		if len(s.queue) > 0 {
			break
		}
		s.engine.Check(ef)
	}
	return s.engine.Verdict()
}

func (s *Solver) Consistent() bool {
	return s.consistent
}

func (s *Solver) InConflict() bool {
	return s.conflict
}

func (s *Solver) Representative(t *term.Node) *term.Node {
	return s.find(t)
}

func (s *Solver) Value(f *term.Node) (bool, bool) {
	if v, ok := s.values[f.ID()]; ok {
		return v, true
	}
	switch {
	case f.IsBoolConst():
		return f.IsTrue(), true
	case f.Is(term.KindEq) && f.Child(0).Sort() != term.SortBool:
		ra, rb := s.find(f.Child(0)), s.find(f.Child(1))
		if ra == rb {
			return true, true
		}
		if (ra.IsConstValue() && rb.IsConstValue()) || s.diseqs[pairKey(ra, rb)] {
			return false, true
		}
	case f.Is(term.KindApply) && f.Sort() == term.SortBool:
		v, ok := s.predValues[s.signature(f.Op(), f.Kind(), f.Children())]
		return v, ok
	}
	return false, false
}

func (s *Solver) BuildModel() bool {
	s.builds++
	return s.consistent
}
