package quantifiers

import (
	"sort"

	"github.com/netrixframework/qengine/term"
)

// equalFunc decides equality of terms modulo the current equivalence classes
type equalFunc func(a, b *term.Node) bool

// InstMatchTrie stores the substitutions of one quantified formula as paths
// keyed on the terms, in bound variable order.
type InstMatchTrie struct {
	data map[term.ID]*instMatchTrieNode
}

type instMatchTrieNode struct {
	key   *term.Node
	child *InstMatchTrie
}

// NewInstMatchTrie creates an empty trie
func NewInstMatchTrie() *InstMatchTrie {
	return &InstMatchTrie{data: make(map[term.ID]*instMatchTrieNode)}
}

// Add inserts terms. Returns false if terms (or, when modEq is set and eq is
// not nil, terms equal to them position wise) are already present.
func (t *InstMatchTrie) Add(terms []*term.Node, modEq bool, eq equalFunc) bool {
	return t.add(terms, 0, modEq, eq, false)
}

// Exists checks if terms are present, without modifying the trie
func (t *InstMatchTrie) Exists(terms []*term.Node, modEq bool, eq equalFunc) bool {
	return !t.add(terms, 0, modEq, eq, true)
}

func (t *InstMatchTrie) add(terms []*term.Node, index int, modEq bool, eq equalFunc, onlyExist bool) bool {
	if index == len(terms) {
		return false
	}
	n := terms[index]
	if c, ok := t.data[n.ID()]; ok {
		ret := c.child.add(terms, index+1, modEq, eq, onlyExist)
		if !onlyExist || !ret {
			return ret
		}
	}
	if modEq && eq != nil {
		for _, c := range t.sortedChildren() {
			if c.key == n || !eq(c.key, n) {
				continue
			}
			if !c.child.add(terms, index+1, modEq, eq, true) {
				return false
			}
		}
	}
	if !onlyExist {
		child := NewInstMatchTrie()
		t.data[n.ID()] = &instMatchTrieNode{key: n, child: child}
		child.add(terms, index+1, modEq, eq, false)
	}
	return true
}

func (t *InstMatchTrie) sortedChildren() []*instMatchTrieNode {
	res := make([]*instMatchTrieNode, 0, len(t.data))
	for _, c := range t.data {
		res = append(res, c)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].key.ID() < res[j].key.ID() })
	return res
}

// Remove deletes the path of terms. Returns false if it was not present.
func (t *InstMatchTrie) Remove(terms []*term.Node) bool {
	return t.remove(terms, 0)
}

func (t *InstMatchTrie) remove(terms []*term.Node, index int) bool {
	if index == len(terms) {
		return true
	}
	c, ok := t.data[terms[index].ID()]
	if !ok || !c.child.remove(terms, index+1) {
		return false
	}
	if len(c.child.data) == 0 {
		delete(t.data, terms[index].ID())
	}
	return true
}

// Empty is true if the trie holds no substitution
func (t *InstMatchTrie) Empty() bool {
	return len(t.data) == 0
}

// Instantiations returns the stored substitutions of length arity
func (t *InstMatchTrie) Instantiations(arity int) [][]*term.Node {
	res := make([][]*term.Node, 0)
	t.collect(make([]*term.Node, 0, arity), arity, &res)
	return res
}

func (t *InstMatchTrie) collect(prefix []*term.Node, arity int, res *[][]*term.Node) {
	if len(prefix) == arity {
		*res = append(*res, append([]*term.Node(nil), prefix...))
		return
	}
	for _, c := range t.sortedChildren() {
		c.child.collect(append(prefix, c.key), arity, res)
	}
}
