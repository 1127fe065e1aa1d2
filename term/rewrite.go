package term

import "sort"

// Rewrite returns the normal form of n: numerals are folded, equalities
// between identical terms or distinct values are decided, implications are
// eliminated and conjunctions/disjunctions are flattened and simplified.
// Results are cached for the lifetime of the Manager.
func (m *Manager) Rewrite(n *Node) *Node {
	if r, ok := m.rewrite[n.id]; ok {
		return r
	}
	r := m.rewriteNode(n)
	m.rewrite[n.id] = r
	m.rewrite[r.id] = r
	return r
}

func (m *Manager) rewriteChildren(n *Node) []*Node {
	children := make([]*Node, len(n.children))
	for i, c := range n.children {
		children[i] = m.Rewrite(c)
	}
	return children
}

func (m *Manager) rewriteNode(n *Node) *Node {
	switch n.kind {
	case KindBoundVar, KindConst, KindNumeral, KindBool:
		return n
	case KindApply:
		return m.rebuild(n, m.rewriteChildren(n))
	case KindPlus:
		c := m.rewriteChildren(n)
		if c[0].kind == KindNumeral && c[1].kind == KindNumeral {
			return m.Int(c[0].value + c[1].value)
		}
		if c[0].kind == KindNumeral && c[0].value == 0 {
			return c[1]
		}
		if c[1].kind == KindNumeral && c[1].value == 0 {
			return c[0]
		}
		return m.rebuild(n, c)
	case KindEq:
		c := m.rewriteChildren(n)
		a, b := c[0], c[1]
		if a == b {
			return m.trueN
		}
		if a.IsConstValue() && b.IsConstValue() {
			return m.falseN
		}
		if a.sort == SortBool {
			switch {
			case a.IsTrue():
				return b
			case b.IsTrue():
				return a
			case a.IsFalse():
				return m.Rewrite(m.Not(b))
			case b.IsFalse():
				return m.Rewrite(m.Not(a))
			}
		}
		if b.id < a.id {
			a, b = b, a
		}
		return m.Eq(a, b)
	case KindNot:
		c := m.Rewrite(n.children[0])
		switch {
		case c.IsTrue():
			return m.falseN
		case c.IsFalse():
			return m.trueN
		case c.kind == KindNot:
			return c.children[0]
		}
		return m.Not(c)
	case KindImplies:
		return m.Rewrite(m.Or(m.Not(n.children[0]), n.children[1]))
	case KindAnd:
		return m.rewriteJunction(n, KindAnd)
	case KindOr:
		return m.rewriteJunction(n, KindOr)
	case KindForall:
		body := m.Rewrite(n.Body())
		if body.IsBoolConst() {
			return body
		}
		return m.rebuild(n, append(copyNodes(n.BoundVars()), body))
	}
	return n
}

// rewriteJunction simplifies a conjunction (kind = KindAnd) or a
// disjunction (kind = KindOr).
func (m *Manager) rewriteJunction(n *Node, kind Kind) *Node {
	absorbing, neutral := m.falseN, m.trueN
	if kind == KindOr {
		absorbing, neutral = m.trueN, m.falseN
	}
	seen := make(map[ID]bool)
	var args []*Node
	var collect func(c *Node)
	collect = func(c *Node) {
		if c.kind == kind {
			for _, cc := range c.children {
				collect(m.Rewrite(cc))
			}
			return
		}
		if c == neutral || seen[c.id] {
			return
		}
		seen[c.id] = true
		args = append(args, c)
	}
	for _, c := range n.children {
		collect(m.Rewrite(c))
	}
	for _, a := range args {
		if a == absorbing {
			return absorbing
		}
		if a.kind == KindNot && seen[a.children[0].id] {
			return absorbing
		}
	}
	switch len(args) {
	case 0:
		return neutral
	case 1:
		return args[0]
	}
	sort.Slice(args, func(i, j int) bool { return args[i].id < args[j].id })
	return m.mk(kind, "", SortBool, 0, args)
}
