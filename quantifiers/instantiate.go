package quantifiers

import (
	"fmt"
	"io"
	"sort"

	"github.com/netrixframework/qengine/context"
	"github.com/netrixframework/qengine/inference"
	"github.com/netrixframework/qengine/log"
	"github.com/netrixframework/qengine/term"
)

// InstantiationRewriter rewrites the body of an instantiation before the
// lemma is built
type InstantiationRewriter interface {
	RewriteInstantiation(q *term.Node, terms []*term.Node, body *term.Node, doVts bool) *term.Node
}

// InstOptions parameterize AddInstantiation
type InstOptions struct {
	// MkRep replaces every term by the internal representative of its class
	MkRep bool
	// ModEq rejects substitutions equal to a previous one modulo equality
	ModEq bool
	// DoVts applies the instantiation rewriters with virtual term substitution
	DoVts bool
	// ID is the inference the lemma is tagged with
	ID inference.ID
	// Proof is attached to the lemma
	Proof inference.Proof
	// Source is the module producing the instantiation. If set, it must
	// own the formula or the formula must have no owner.
	Source Module
}

type recordedInst struct {
	q     *term.Node
	terms []*term.Node
}

// Instantiate builds instantiation lemmas and keeps the substitutions used
// for every quantified formula, so that no substitution is added twice.
type Instantiate struct {
	env *Env

	trie     map[term.ID]*InstMatchTrie
	cdTrie   map[term.ID]*CDInstMatchTrie
	cdDomain *context.CDSet[term.ID]
	quants   map[term.ID]*term.Node

	rewriters []InstantiationRewriter
	recorded  []recordedInst

	roundCount map[term.ID]int
	totalCount *context.CDMap[term.ID, int]

	Logger *log.Logger
}

// NewInstantiate creates the instantiation store
func NewInstantiate(env *Env) *Instantiate {
	return &Instantiate{
		env:        env,
		trie:       make(map[term.ID]*InstMatchTrie),
		cdTrie:     make(map[term.ID]*CDInstMatchTrie),
		cdDomain:   context.NewCDSet[term.ID](env.UserContext),
		quants:     make(map[term.ID]*term.Node),
		rewriters:  make([]InstantiationRewriter, 0),
		recorded:   make([]recordedInst, 0),
		roundCount: make(map[term.ID]int),
		totalCount: context.NewCDMap[term.ID, int](env.UserContext),
		Logger:     env.Logger.Tagged("inst"),
	}
}

func (in *Instantiate) Identify() string {
	return "instantiate"
}

// Reset forgets the substitutions recorded without a lemma during the
// previous round
func (in *Instantiate) Reset(e Effort) bool {
	if len(in.recorded) > 0 {
		in.Logger.With(log.LogParams{"count": len(in.recorded)}).Debug("Removing recorded instantiations")
		for _, r := range in.recorded {
			in.removeInstantiation(r.q, r.terms)
		}
		in.recorded = in.recorded[:0]
	}
	if in.env.Config.Incremental {
		in.cdDomain.Compact()
	}
	in.roundCount = make(map[term.ID]int)
	return true
}

func (in *Instantiate) RegisterQuantifier(q *term.Node) {}

// CheckComplete is false while substitutions recorded without a lemma exist
func (in *Instantiate) CheckComplete() bool {
	if len(in.recorded) > 0 {
		in.Logger.Debug("Incomplete due to recorded instantiations")
		return false
	}
	return true
}

// AddRewriter appends an instantiation rewriter
func (in *Instantiate) AddRewriter(r InstantiationRewriter) {
	in.rewriters = append(in.rewriters, r)
}

// Clear drops the context independent tries, on a full restart
func (in *Instantiate) Clear() {
	in.trie = make(map[term.ID]*InstMatchTrie)
	in.recorded = in.recorded[:0]
}

func (in *Instantiate) reject(reason string) bool {
	in.env.Stats.Rejected.WithLabelValues(reason).Inc()
	return false
}

// AddInstantiation adds the lemma (not q) or body[terms] to the pending
// lemmas. It returns false, without any side effect on the pending lemmas,
// if the substitution is ill typed, uses a term above the maximal
// instantiation level, yields an entailed body, or duplicates a previous
// substitution or lemma. A nil entry of terms is replaced by an arbitrary
// term of the sort of its variable. terms is updated in place with the
// terms actually used.
func (in *Instantiate) AddInstantiation(q *term.Node, terms []*term.Node, opts InstOptions) bool {
	r := in.addInstantiation(q, terms, opts)
	if r.reason == "" {
		return true
	}
	return in.reject(r.reason)
}

// rejection explains why addInstantiation refused a substitution. at is
// the position whose term alone causes the rejection, -1 when the
// rejection does not depend on a single position.
type rejection struct {
	reason string
	at     int
}

var accepted = rejection{at: -1}

func (in *Instantiate) addInstantiation(q *term.Node, terms []*term.Node, opts InstOptions) rejection {
	vars := q.BoundVars()
	if len(vars) != len(terms) {
		in.env.invariant(false, "substitution arity mismatch", log.LogParams{
			"quantifier": q.String(),
			"vars":       len(vars),
			"terms":      len(terms),
		})
		return rejection{reason: RejectIllTyped, at: -1}
	}
	if opts.Source != nil && !in.env.Registry.HasOwnership(q, opts.Source) {
		in.env.invariant(false, "instantiation of a formula owned by another module", log.LogParams{
			"quantifier": q.String(),
			"module":     opts.Source.Identify(),
		})
		return rejection{reason: RejectOwnership, at: -1}
	}
	for i, v := range vars {
		if terms[i] == nil {
			terms[i] = in.env.TermRegistry.TermForType(v.Sort())
		}
		if opts.MkRep {
			terms[i] = in.env.Equality.InternalRepresentative(terms[i])
		}
		if terms[i].Sort() != v.Sort() || !terms[i].IsGround() {
			in.Logger.With(log.LogParams{
				"quantifier": q.String(),
				"term":       terms[i].String(),
				"index":      i,
			}).Debug("Ill-typed instantiation")
			return rejection{reason: RejectIllTyped, at: i}
		}
	}
	if bound := in.env.Config.InstMaxLevel; bound >= 0 {
		for i, t := range terms {
			if l, ok := in.env.TermRegistry.Level(t); ok && l > bound {
				return rejection{reason: RejectLevel, at: i}
			}
		}
	}
	if in.env.Config.InstNoEntail {
		body := in.env.Terms.Instantiate(q, terms)
		if in.env.TermRegistry.IsEntailed(body) {
			return rejection{reason: RejectEntailed, at: -1}
		}
	}
	if !in.recordInstantiation(q, terms, opts.ModEq, true) {
		return rejection{reason: RejectDuplicate, at: -1}
	}

	body := in.GetInstantiation(q, vars, terms, opts.DoVts)
	lem := in.env.Terms.Rewrite(in.env.Terms.Or(in.env.Terms.Not(q), body))
	if lem.IsTrue() {
		in.removeInstantiation(q, terms)
		return rejection{reason: RejectEntailed, at: -1}
	}
	if !in.env.Inferences.AddPendingLemma(inference.Lemma{Node: lem, ID: opts.ID, Proof: opts.Proof}) {
		in.removeInstantiation(q, terms)
		return rejection{reason: RejectDuplicateLemma, at: -1}
	}

	maxLevel := 0
	for _, t := range terms {
		if l, ok := in.env.TermRegistry.Level(t); ok && l > maxLevel {
			maxLevel = l
		}
	}
	in.env.TermRegistry.SetLevel(body, maxLevel+1)

	in.quants[q.ID()] = q
	in.roundCount[q.ID()]++
	total, _ := in.totalCount.Get(q.ID())
	in.totalCount.Set(q.ID(), total+1)
	in.env.Stats.Instantiations.WithLabelValues(opts.ID.String()).Inc()

	if in.Logger.IsDebug() {
		in.Logger.With(log.LogParams{
			"quantifier": q.String(),
			"terms":      termsString(terms),
			"inference":  opts.ID.String(),
		}).Debug("Added instantiation")
	}
	return accepted
}

// AddInstantiationExpFail is AddInstantiation computing, when the
// instantiation is rejected, a mask of the positions of terms that are
// responsible for the rejection. Every substitution that agrees with terms
// on the positions set in the mask is rejected as well.
//
// An ill-typed term or a term above the level bound is responsible on its
// own. Otherwise positions are examined from the last to the first: a
// position is not responsible if the rejection persists with its variable
// left in place. With expFull false the examination stops at the first
// responsible position, so only a suffix of the mask is cleared.
func (in *Instantiate) AddInstantiationExpFail(q *term.Node, terms []*term.Node, opts InstOptions, expFull bool) (bool, []bool) {
	r := in.addInstantiation(q, terms, opts)
	if r.reason == "" {
		return true, nil
	}
	in.reject(r.reason)
	size := len(terms)
	mask := make([]bool, size)
	for i := range mask {
		mask[i] = true
	}
	switch r.reason {
	case RejectIllTyped, RejectLevel:
		if r.at < 0 {
			return false, mask
		}
		for i := r.at + 1; i < size; i++ {
			mask[i] = false
		}
		if expFull {
			for i := 0; i < r.at; i++ {
				mask[i] = false
			}
		}
		return false, mask
	case RejectOwnership:
		return false, mask
	}
	if size <= 1 || size != q.NumBoundVars() {
		return false, mask
	}
	for _, t := range terms {
		if t == nil {
			return false, mask
		}
	}
	vars := q.BoundVars()
	current := make([]*term.Node, size)
	copy(current, terms)
	ibody := in.env.Terms.Rewrite(in.GetInstantiation(q, vars, current, opts.DoVts))
	substituted := size
	for i := 0; i < size; i++ {
		ii := size - 1 - i
		prev := current[ii]
		current[ii] = vars[ii]
		substituted--
		if substituted == 0 {
			break
		}
		body := in.GetInstantiation(q, vars, current, opts.DoVts)
		persists := false
		if in.env.Config.InstNoEntail {
			persists = in.env.TermRegistry.IsEntailed(body)
		}
		if !persists {
			persists = in.env.Terms.Rewrite(body) == ibody
		}
		if persists {
			mask[ii] = false
			continue
		}
		current[ii] = prev
		substituted++
		if !expFull {
			break
		}
	}
	return false, mask
}

// RecordInstantiation marks terms as used for q without adding a lemma.
// Recorded substitutions are forgotten at the next reset.
func (in *Instantiate) RecordInstantiation(q *term.Node, terms []*term.Node, modEq bool) bool {
	return in.recordInstantiation(q, terms, modEq, false)
}

func (in *Instantiate) equal() equalFunc {
	return in.env.Equality.AreEqual
}

func (in *Instantiate) recordInstantiation(q *term.Node, terms []*term.Node, modEq bool, addedLemma bool) bool {
	in.env.invariant(len(terms) == q.NumBoundVars(), "recorded substitution arity mismatch", log.LogParams{
		"quantifier": q.String(),
		"terms":      len(terms),
	})
	var added bool
	if in.env.Config.Incremental {
		t, ok := in.cdTrie[q.ID()]
		if !ok {
			t = NewCDInstMatchTrie(in.env.UserContext)
			in.cdTrie[q.ID()] = t
		}
		in.cdDomain.Insert(q.ID())
		added = t.Add(terms, modEq, in.equal())
	} else {
		t, ok := in.trie[q.ID()]
		if !ok {
			t = NewInstMatchTrie()
			in.trie[q.ID()] = t
		}
		added = t.Add(terms, modEq, in.equal())
	}
	// only substitutions inserted here are removed at the next reset
	if added && !addedLemma {
		in.recorded = append(in.recorded, recordedInst{q: q, terms: append([]*term.Node(nil), terms...)})
	}
	return added
}

func (in *Instantiate) removeInstantiation(q *term.Node, terms []*term.Node) bool {
	if in.env.Config.Incremental {
		if t, ok := in.cdTrie[q.ID()]; ok {
			return t.Remove(terms)
		}
		return false
	}
	if t, ok := in.trie[q.ID()]; ok {
		return t.Remove(terms)
	}
	return false
}

// ExistsInstantiation checks if terms were added or recorded for q
func (in *Instantiate) ExistsInstantiation(q *term.Node, terms []*term.Node, modEq bool) bool {
	if in.env.Config.Incremental {
		if !in.cdDomain.Contains(q.ID()) {
			return false
		}
		if t, ok := in.cdTrie[q.ID()]; ok {
			return t.Exists(terms, modEq, in.equal())
		}
		return false
	}
	if t, ok := in.trie[q.ID()]; ok {
		return t.Exists(terms, modEq, in.equal())
	}
	return false
}

// GetInstantiation returns the body of q with vars replaced by terms. vars
// may be a prefix of the bound variables of q.
func (in *Instantiate) GetInstantiation(q *term.Node, vars, terms []*term.Node, doVts bool) *term.Node {
	body := in.env.Terms.Substitute(q.Body(), vars, terms)
	for _, r := range in.rewriters {
		body = r.RewriteInstantiation(q, terms, body, doVts)
	}
	return body
}

// GetInstantiationFor is GetInstantiation over all the bound variables of q
func (in *Instantiate) GetInstantiationFor(q *term.Node, terms []*term.Node, doVts bool) *term.Node {
	return in.GetInstantiation(q, q.BoundVars(), terms, doVts)
}

// InstantiatedQuantifiedFormulas returns the formulas with at least one
// instantiation in the current user context, ordered by id
func (in *Instantiate) InstantiatedQuantifiedFormulas() []*term.Node {
	res := make([]*term.Node, 0)
	for id, q := range in.quants {
		if in.env.Config.Incremental {
			if !in.cdDomain.Contains(id) {
				continue
			}
			if len(in.cdTrie[id].Instantiations(q.NumBoundVars())) == 0 {
				continue
			}
		} else if t, ok := in.trie[id]; !ok || t.Empty() {
			continue
		}
		res = append(res, q)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID() < res[j].ID() })
	return res
}

// InstantiationTermVectors returns the substitutions stored for q
func (in *Instantiate) InstantiationTermVectors(q *term.Node) [][]*term.Node {
	if in.env.Config.Incremental {
		if t, ok := in.cdTrie[q.ID()]; ok && in.cdDomain.Contains(q.ID()) {
			return t.Instantiations(q.NumBoundVars())
		}
		return nil
	}
	if t, ok := in.trie[q.ID()]; ok {
		return t.Instantiations(q.NumBoundVars())
	}
	return nil
}

// RoundCount returns the number of instantiations of q added this round
func (in *Instantiate) RoundCount(q *term.Node) int {
	return in.roundCount[q.ID()]
}

// TotalCount returns the number of instantiations of q added in the current user context
func (in *Instantiate) TotalCount(q *term.Node) int {
	c, _ := in.totalCount.Get(q.ID())
	return c
}

// DebugPrint writes the number of instantiations per formula added this
// round and in total
func (in *Instantiate) DebugPrint(w io.Writer) {
	ids := make([]term.ID, 0, len(in.roundCount))
	for id := range in.roundCount {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		q := in.quants[id]
		fmt.Fprintf(w, "(num-instantiations %s %d %d)\n", q, in.roundCount[id], in.TotalCount(q))
	}
}

// DebugPrintModel writes the asserted formulas with their substitutions
func (in *Instantiate) DebugPrintModel(w io.Writer) {
	for _, q := range in.env.Model.AssertedQuantifiers() {
		vectors := in.InstantiationTermVectors(q)
		fmt.Fprintf(w, "(instantiations %s\n", q)
		for _, v := range vectors {
			fmt.Fprintf(w, "  %s\n", termsString(v))
		}
		fmt.Fprintf(w, ")\n")
	}
}

func termsString(terms []*term.Node) string {
	s := "("
	for i, t := range terms {
		if i > 0 {
			s += " "
		}
		if t == nil {
			s += "_"
		} else {
			s += t.String()
		}
	}
	return s + ")"
}
