// Package inference implements the pending-lemma queue shared by the
// quantifiers engine and its modules.
package inference

import (
	"github.com/netrixframework/qengine/context"
	"github.com/netrixframework/qengine/log"
	"github.com/netrixframework/qengine/term"
	"github.com/netrixframework/qengine/types"
)

// Manager buffers lemmas until they are flushed to the output channel.
// A lemma is sent at most once per user context.
type Manager struct {
	out     OutputChannel
	pending *types.List[Lemma]
	cache   *context.CDSet[term.ID]
	counts  *types.Map[ID, int]

	sentLemma  bool
	incomplete bool

	Logger *log.Logger
}

// NewManager creates a Manager sending to out. The lemma cache follows userCtx.
func NewManager(out OutputChannel, userCtx *context.Context, logger *log.Logger) *Manager {
	return &Manager{
		out:     out,
		pending: types.NewEmptyList[Lemma](),
		cache:   context.NewCDSet[term.ID](userCtx),
		counts:  types.NewMap[ID, int](),
		Logger:  logger.Tagged("inference"),
	}
}

// AddPendingLemma buffers l. Returns false if l was already sent or is
// already pending.
func (m *Manager) AddPendingLemma(l Lemma) bool {
	if !m.cache.Insert(l.Node.ID()) {
		return false
	}
	m.pending.Append(l)
	return true
}

// Lemma sends l immediately. Returns false if l is a duplicate.
func (m *Manager) Lemma(l Lemma) bool {
	if !m.cache.Insert(l.Node.ID()) {
		return false
	}
	m.send(l)
	return true
}

func (m *Manager) send(l Lemma) {
	m.sentLemma = true
	m.counts.Update(l.ID, func(c int, _ bool) int { return c + 1 })
	if m.Logger.IsDebug() {
		m.Logger.With(log.LogParams{
			"id":    l.ID.String(),
			"lemma": l.Node.String(),
		}).Debug("Sending lemma")
	}
	m.out.Lemma(l)
}

// HasLemma is true if n was sent or is pending in the current user context
func (m *Manager) HasLemma(n *term.Node) bool {
	return m.cache.Contains(n.ID())
}

// DoPending flushes the pending lemmas in the order they were added
func (m *Manager) DoPending() {
	for _, l := range m.pending.Drain() {
		m.send(l)
	}
}

// ClearPending drops the pending lemmas without sending them
func (m *Manager) ClearPending() {
	m.pending.Drain()
}

// HasPendingLemma is true if a lemma is waiting to be flushed
func (m *Manager) HasPendingLemma() bool {
	return m.pending.Size() > 0
}

// NumPendingLemmas returns the number of buffered lemmas
func (m *Manager) NumPendingLemmas() int {
	return m.pending.Size()
}

// HasSentLemma is true if a lemma was sent since the last Reset
func (m *Manager) HasSentLemma() bool {
	return m.sentLemma
}

// Reset starts a new round
func (m *Manager) Reset() {
	m.sentLemma = false
}

// SetIncomplete records that the last round could not certify saturation
func (m *Manager) SetIncomplete() {
	m.incomplete = true
}

// Incomplete returns the flag set by SetIncomplete
func (m *Manager) Incomplete() bool {
	return m.incomplete
}

// ClearIncomplete resets the incomplete flag
func (m *Manager) ClearIncomplete() {
	m.incomplete = false
}

// Counts returns the number of lemmas sent per inference id
func (m *Manager) Counts() map[ID]int {
	return m.counts.ToMap()
}
