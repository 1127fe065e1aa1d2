package quantifiers

import "github.com/netrixframework/qengine/term"

// State is the view of the ground search the engine and its modules work
// against. It is owned by the ground search.
type State interface {
	// Consistent is false when the equality state of the ground search is inconsistent
	Consistent() bool
	// InConflict is true when a lemma false in the current assignment was reported
	InConflict() bool
	// Representative returns the representative of the equivalence class of t
	Representative(t *term.Node) *term.Node
	// Value returns the value of a ground formula in the current assignment.
	// ok is false if the value is not known.
	Value(f *term.Node) (value bool, ok bool)
	// BuildModel builds a full model of the current assignment
	BuildModel() bool
}
