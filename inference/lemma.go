package inference

import "github.com/netrixframework/qengine/term"

// Proof is an opaque justification attached to a lemma. The engine never
// looks inside it.
type Proof interface {
	String() string
}

// Lemma is a formula sent to the ground search
type Lemma struct {
	Node  *term.Node
	ID    ID
	Proof Proof
}

// OutputChannel receives the lemmas once they are flushed
type OutputChannel interface {
	Lemma(Lemma)
}

// OutputFunc adapts a function to an OutputChannel
type OutputFunc func(Lemma)

func (f OutputFunc) Lemma(l Lemma) {
	f(l)
}
