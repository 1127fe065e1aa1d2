package term

import (
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/cespare/xxhash/v2"
	"github.com/netrixframework/qengine/util"
)

// Manager creates and interns terms. It is not safe for concurrent use.
type Manager struct {
	table   map[uint64][]*Node
	byID    map[ID]*Node
	ids     *util.Counter
	fresh   *util.Counter
	rewrite map[ID]*Node

	trueN  *Node
	falseN *Node
}

// NewManager creates an empty term manager
func NewManager() *Manager {
	m := &Manager{
		table:   make(map[uint64][]*Node),
		byID:    make(map[ID]*Node),
		ids:     util.NewCounterFrom(1),
		fresh:   util.NewCounter(),
		rewrite: make(map[ID]*Node),
	}
	m.trueN = m.mk(KindBool, "", SortBool, 1, nil)
	m.falseN = m.mk(KindBool, "", SortBool, 0, nil)
	return m
}

// Lookup returns the term with the given id
func (m *Manager) Lookup(id ID) (*Node, bool) {
	n, ok := m.byID[id]
	return n, ok
}

// Size returns the number of distinct terms created so far
func (m *Manager) Size() int {
	return len(m.byID)
}

func hashNode(kind Kind, op string, s Sort, value int64, children []*Node) uint64 {
	d := xxhash.New()
	var buf [8]byte
	d.Write([]byte{byte(kind)})
	d.WriteString(op)
	d.Write([]byte{0})
	d.WriteString(string(s))
	d.Write([]byte{0})
	binary.LittleEndian.PutUint64(buf[:], uint64(value))
	d.Write(buf[:])
	for _, c := range children {
		binary.LittleEndian.PutUint64(buf[:], uint64(c.id))
		d.Write(buf[:])
	}
	return d.Sum64()
}

func sameNode(n *Node, kind Kind, op string, s Sort, value int64, children []*Node) bool {
	if n.kind != kind || n.op != op || n.sort != s || n.value != value || len(n.children) != len(children) {
		return false
	}
	for i, c := range children {
		if n.children[i] != c {
			return false
		}
	}
	return true
}

func (m *Manager) mk(kind Kind, op string, s Sort, value int64, children []*Node) *Node {
	h := hashNode(kind, op, s, value, children)
	for _, n := range m.table[h] {
		if sameNode(n, kind, op, s, value, children) {
			return n
		}
	}
	n := &Node{
		id:       ID(m.ids.Next()),
		hash:     h,
		kind:     kind,
		op:       op,
		sort:     s,
		value:    value,
		children: children,
	}
	n.free = computeFree(n)
	m.table[h] = append(m.table[h], n)
	m.byID[n.id] = n
	return n
}

func computeFree(n *Node) []*Node {
	switch n.kind {
	case KindBoundVar:
		return []*Node{n}
	case KindForall:
		bound := make(map[ID]bool)
		for _, v := range n.BoundVars() {
			bound[v.id] = true
		}
		var res []*Node
		for _, v := range n.Body().free {
			if !bound[v.id] {
				res = append(res, v)
			}
		}
		return res
	}
	if len(n.children) == 0 {
		return nil
	}
	seen := make(map[ID]*Node)
	for _, c := range n.children {
		for _, v := range c.free {
			seen[v.id] = v
		}
	}
	if len(seen) == 0 {
		return nil
	}
	res := make([]*Node, 0, len(seen))
	for _, v := range seen {
		res = append(res, v)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].id < res[j].id })
	return res
}

// rebuild returns a node like n with different children
func (m *Manager) rebuild(n *Node, children []*Node) *Node {
	return m.mk(n.kind, n.op, n.sort, n.value, children)
}

// BoundVar returns the bound variable with the given name and sort
func (m *Manager) BoundVar(name string, s Sort) *Node {
	return m.mk(KindBoundVar, name, s, 0, nil)
}

// Const returns the uninterpreted constant with the given name and sort
func (m *Manager) Const(name string, s Sort) *Node {
	return m.mk(KindConst, name, s, 0, nil)
}

// Fresh returns a constant that was never created before
func (m *Manager) Fresh(prefix string, s Sort) *Node {
	for {
		name := fmt.Sprintf("%s_%d", prefix, m.fresh.Next())
		h := hashNode(KindConst, name, s, 0, nil)
		exists := false
		for _, n := range m.table[h] {
			if sameNode(n, KindConst, name, s, 0, nil) {
				exists = true
				break
			}
		}
		if !exists {
			return m.Const(name, s)
		}
	}
}

// Int returns the integer numeral v
func (m *Manager) Int(v int64) *Node {
	return m.mk(KindNumeral, "", SortInt, v, nil)
}

// Bool returns the boolean constant b
func (m *Manager) Bool(b bool) *Node {
	if b {
		return m.trueN
	}
	return m.falseN
}

func (m *Manager) True() *Node  { return m.trueN }
func (m *Manager) False() *Node { return m.falseN }

// Apply returns the application of the uninterpreted symbol op to args
func (m *Manager) Apply(op string, s Sort, args ...*Node) *Node {
	if len(args) == 0 {
		return m.Const(op, s)
	}
	return m.mk(KindApply, op, s, 0, copyNodes(args))
}

// Eq returns the equality a = b
func (m *Manager) Eq(a, b *Node) *Node {
	if a.sort != b.sort {
		panic(fmt.Sprintf("term: equality between sorts %s and %s", a.sort, b.sort))
	}
	return m.mk(KindEq, "", SortBool, 0, []*Node{a, b})
}

// Not returns the negation of a
func (m *Manager) Not(a *Node) *Node {
	return m.mk(KindNot, "", SortBool, 0, []*Node{a})
}

// And returns the conjunction of args
func (m *Manager) And(args ...*Node) *Node {
	switch len(args) {
	case 0:
		return m.trueN
	case 1:
		return args[0]
	}
	return m.mk(KindAnd, "", SortBool, 0, copyNodes(args))
}

// Or returns the disjunction of args
func (m *Manager) Or(args ...*Node) *Node {
	switch len(args) {
	case 0:
		return m.falseN
	case 1:
		return args[0]
	}
	return m.mk(KindOr, "", SortBool, 0, copyNodes(args))
}

// Implies returns a => b
func (m *Manager) Implies(a, b *Node) *Node {
	return m.mk(KindImplies, "", SortBool, 0, []*Node{a, b})
}

// Plus returns a + b
func (m *Manager) Plus(a, b *Node) *Node {
	return m.mk(KindPlus, "", SortInt, 0, []*Node{a, b})
}

// Forall returns the quantified formula binding vars in body
func (m *Manager) Forall(vars []*Node, body *Node) *Node {
	if len(vars) == 0 {
		panic("term: forall without bound variables")
	}
	children := make([]*Node, 0, len(vars)+1)
	for _, v := range vars {
		if v.kind != KindBoundVar {
			panic(fmt.Sprintf("term: %s is not a bound variable", v))
		}
		children = append(children, v)
	}
	children = append(children, body)
	return m.mk(KindForall, "", SortBool, 0, children)
}

func copyNodes(ns []*Node) []*Node {
	res := make([]*Node, len(ns))
	copy(res, ns)
	return res
}
