// Package term defines the hash-consed terms the quantifiers engine operates on.
//
// Terms are created through a Manager which interns them, so two structurally
// equal terms built by the same Manager are the same *Node and structural
// equality is pointer equality.
package term

import (
	"fmt"
	"strings"
)

// ID uniquely identifies a term within its Manager
type ID uint64

// Sort is the type of a term
type Sort string

const (
	// SortBool is the sort of formulas
	SortBool Sort = "Bool"
	// SortInt is the sort of integer terms
	SortInt Sort = "Int"
)

// Kind of a term node
type Kind uint8

const (
	KindBoundVar Kind = iota
	KindConst
	KindNumeral
	KindBool
	KindApply
	KindEq
	KindNot
	KindAnd
	KindOr
	KindImplies
	KindPlus
	KindForall
)

var kindNames = map[Kind]string{
	KindBoundVar: "var",
	KindConst:    "const",
	KindNumeral:  "numeral",
	KindBool:     "bool",
	KindApply:    "apply",
	KindEq:       "=",
	KindNot:      "not",
	KindAnd:      "and",
	KindOr:       "or",
	KindImplies:  "=>",
	KindPlus:     "+",
	KindForall:   "forall",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Node is an immutable term
type Node struct {
	id       ID
	hash     uint64
	kind     Kind
	op       string
	sort     Sort
	value    int64
	children []*Node
	// free bound variables, ordered by id
	free []*Node
}

func (n *Node) ID() ID              { return n.id }
func (n *Node) Hash() uint64        { return n.hash }
func (n *Node) Kind() Kind          { return n.kind }
func (n *Node) Op() string          { return n.op }
func (n *Node) Sort() Sort          { return n.sort }
func (n *Node) NumChildren() int    { return len(n.children) }
func (n *Node) Child(i int) *Node   { return n.children[i] }
func (n *Node) Is(kind Kind) bool   { return n.kind == kind }
func (n *Node) IsQuantifier() bool  { return n.kind == KindForall }
func (n *Node) FreeVars() []*Node   { return n.free }
func (n *Node) IsGround() bool      { return len(n.free) == 0 }
func (n *Node) IsBoundVar() bool    { return n.kind == KindBoundVar }
func (n *Node) IsBoolConst() bool   { return n.kind == KindBool }
func (n *Node) IsNumeral() bool     { return n.kind == KindNumeral }
func (n *Node) IsTrue() bool        { return n.kind == KindBool && n.value == 1 }
func (n *Node) IsFalse() bool       { return n.kind == KindBool && n.value == 0 }
func (n *Node) IsConstValue() bool  { return n.kind == KindNumeral || n.kind == KindBool }
func (n *Node) Value() int64        { return n.value }

// Children returns a copy of the children of n
func (n *Node) Children() []*Node {
	res := make([]*Node, len(n.children))
	copy(res, n.children)
	return res
}

// BoundVars returns the variables bound by a quantified formula
func (n *Node) BoundVars() []*Node {
	if n.kind != KindForall {
		return nil
	}
	return n.children[:len(n.children)-1]
}

// NumBoundVars returns the number of variables bound by a quantified formula
func (n *Node) NumBoundVars() int {
	if n.kind != KindForall {
		return 0
	}
	return len(n.children) - 1
}

// Body returns the body of a quantified formula
func (n *Node) Body() *Node {
	if n.kind != KindForall {
		return nil
	}
	return n.children[len(n.children)-1]
}

// IsAtom is true for formulas without boolean structure: predicate
// applications, equalities between non-boolean terms, boolean constants
// and quantified formulas.
func (n *Node) IsAtom() bool {
	switch n.kind {
	case KindApply, KindConst, KindBoundVar:
		return n.sort == SortBool
	case KindEq:
		return n.children[0].sort != SortBool
	case KindBool, KindForall:
		return true
	}
	return false
}

// Contains returns true if t occurs in n, not descending into quantified formulas
func (n *Node) Contains(t *Node) bool {
	if n == t {
		return true
	}
	if n.kind == KindForall {
		return false
	}
	for _, c := range n.children {
		if c.Contains(t) {
			return true
		}
	}
	return false
}

func (n *Node) String() string {
	var b strings.Builder
	n.write(&b)
	return b.String()
}

func (n *Node) write(b *strings.Builder) {
	switch n.kind {
	case KindBoundVar, KindConst:
		b.WriteString(n.op)
	case KindNumeral:
		fmt.Fprintf(b, "%d", n.value)
	case KindBool:
		if n.value == 1 {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case KindForall:
		b.WriteString("(forall (")
		for i, v := range n.BoundVars() {
			if i > 0 {
				b.WriteByte(' ')
			}
			fmt.Fprintf(b, "(%s %s)", v.op, v.sort)
		}
		b.WriteString(") ")
		n.Body().write(b)
		b.WriteByte(')')
	default:
		b.WriteByte('(')
		if n.kind == KindApply {
			b.WriteString(n.op)
		} else {
			b.WriteString(n.kind.String())
		}
		for _, c := range n.children {
			b.WriteByte(' ')
			c.write(b)
		}
		b.WriteByte(')')
	}
}
