package quantifiers

import "github.com/netrixframework/qengine/term"

// Util is a shared utility reset at the start of every engine round, before
// the modules.
type Util interface {
	Identify() string
	// Reset prepares the utility for a round at effort e. Returning false
	// means the utility added a lemma and the round must be aborted.
	Reset(e Effort) bool
	RegisterQuantifier(q *term.Node)
	// CheckComplete is false if the utility is a source of incompleteness
	CheckComplete() bool
}
