package quantifiers

import (
	"sort"

	"github.com/netrixframework/qengine/context"
	"github.com/netrixframework/qengine/term"
)

type cdTrieNode struct {
	key      *term.Node
	tag      context.Tag
	children map[term.ID]int
}

// CDInstMatchTrie is an InstMatchTrie whose entries follow a context. Nodes
// live in an arena and carry the scope that validated them; a node whose
// scope was popped is invisible and is validated again when a later
// insertion passes through it.
type CDInstMatchTrie struct {
	ctx   *context.Context
	nodes []cdTrieNode
}

// NewCDInstMatchTrie creates an empty trie following ctx
func NewCDInstMatchTrie(ctx *context.Context) *CDInstMatchTrie {
	t := &CDInstMatchTrie{ctx: ctx}
	t.nodes = append(t.nodes, cdTrieNode{
		tag:      context.Dead(),
		children: make(map[term.ID]int),
	})
	return t
}

func (t *CDInstMatchTrie) valid(i int) bool {
	return t.ctx.Live(t.nodes[i].tag)
}

// Add inserts terms. Returns false if they are already present in the
// current scope, see InstMatchTrie.Add.
func (t *CDInstMatchTrie) Add(terms []*term.Node, modEq bool, eq equalFunc) bool {
	return t.add(0, terms, 0, modEq, eq, false)
}

// Exists checks if terms are present in the current scope
func (t *CDInstMatchTrie) Exists(terms []*term.Node, modEq bool, eq equalFunc) bool {
	return !t.add(0, terms, 0, modEq, eq, true)
}

func (t *CDInstMatchTrie) add(node int, terms []*term.Node, index int, modEq bool, eq equalFunc, onlyExist bool) bool {
	reset := false
	if !t.valid(node) {
		if onlyExist {
			return true
		}
		t.nodes[node].tag = t.ctx.Tag()
		reset = true
	}
	if index == len(terms) {
		return reset
	}
	n := terms[index]
	if c, ok := t.nodes[node].children[n.ID()]; ok {
		ret := t.add(c, terms, index+1, modEq, eq, onlyExist)
		if !onlyExist || !ret {
			return reset || ret
		}
	}
	if modEq && eq != nil {
		for _, c := range t.sortedChildren(node) {
			key := t.nodes[c].key
			if key == n || !t.valid(c) || !eq(key, n) {
				continue
			}
			if !t.add(c, terms, index+1, modEq, eq, true) {
				return false
			}
		}
	}
	if !onlyExist {
		c, ok := t.nodes[node].children[n.ID()]
		if !ok {
			c = len(t.nodes)
			t.nodes = append(t.nodes, cdTrieNode{
				key:      n,
				tag:      context.Dead(),
				children: make(map[term.ID]int),
			})
			t.nodes[node].children[n.ID()] = c
		}
		t.add(c, terms, index+1, modEq, eq, false)
	}
	return true
}

func (t *CDInstMatchTrie) sortedChildren(node int) []int {
	res := make([]int, 0, len(t.nodes[node].children))
	for _, c := range t.nodes[node].children {
		res = append(res, c)
	}
	sort.Ints(res)
	return res
}

// Remove invalidates the path of terms. Returns false if it was not present.
func (t *CDInstMatchTrie) Remove(terms []*term.Node) bool {
	node := 0
	for _, n := range terms {
		if !t.valid(node) {
			return false
		}
		c, ok := t.nodes[node].children[n.ID()]
		if !ok {
			return false
		}
		node = c
	}
	if !t.valid(node) {
		return false
	}
	t.nodes[node].tag = context.Dead()
	return true
}

// Instantiations returns the substitutions visible in the current scope
func (t *CDInstMatchTrie) Instantiations(arity int) [][]*term.Node {
	res := make([][]*term.Node, 0)
	if t.valid(0) {
		t.collect(0, make([]*term.Node, 0, arity), arity, &res)
	}
	return res
}

func (t *CDInstMatchTrie) collect(node int, prefix []*term.Node, arity int, res *[][]*term.Node) {
	if len(prefix) == arity {
		*res = append(*res, append([]*term.Node(nil), prefix...))
		return
	}
	for _, c := range t.sortedChildren(node) {
		if t.valid(c) {
			t.collect(c, append(prefix, t.nodes[c].key), arity, res)
		}
	}
}

// Size returns the number of nodes in the arena, live or not
func (t *CDInstMatchTrie) Size() int {
	return len(t.nodes)
}
