package term

import "fmt"

// Substitute replaces the free occurrences of vars[i] in n by terms[i]. A nil
// entry in terms leaves the corresponding variable in place.
func (m *Manager) Substitute(n *Node, vars, terms []*Node) *Node {
	if len(vars) != len(terms) {
		panic(fmt.Sprintf("term: substitution of %d variables by %d terms", len(vars), len(terms)))
	}
	subs := make(map[ID]*Node, len(vars))
	for i, v := range vars {
		if terms[i] != nil && terms[i] != v {
			subs[v.id] = terms[i]
		}
	}
	if len(subs) == 0 {
		return n
	}
	return m.substitute(n, subs, make(map[ID]*Node))
}

func (m *Manager) substitute(n *Node, subs map[ID]*Node, cache map[ID]*Node) *Node {
	if n.IsGround() {
		return n
	}
	if r, ok := cache[n.id]; ok {
		return r
	}
	var res *Node
	switch n.kind {
	case KindBoundVar:
		res = n
		if t, ok := subs[n.id]; ok {
			res = t
		}
	case KindForall:
		shadowed := false
		for _, v := range n.BoundVars() {
			if _, ok := subs[v.id]; ok {
				shadowed = true
				break
			}
		}
		inner := subs
		innerCache := cache
		if shadowed {
			inner = make(map[ID]*Node, len(subs))
			for k, v := range subs {
				inner[k] = v
			}
			for _, v := range n.BoundVars() {
				delete(inner, v.id)
			}
			innerCache = make(map[ID]*Node)
		}
		body := m.substitute(n.Body(), inner, innerCache)
		children := append(copyNodes(n.BoundVars()), body)
		res = m.rebuild(n, children)
	default:
		changed := false
		children := make([]*Node, len(n.children))
		for i, c := range n.children {
			children[i] = m.substitute(c, subs, cache)
			if children[i] != c {
				changed = true
			}
		}
		res = n
		if changed {
			res = m.rebuild(n, children)
		}
	}
	cache[n.id] = res
	return res
}

// Instantiate returns the body of q with its bound variables replaced by terms
func (m *Manager) Instantiate(q *Node, terms []*Node) *Node {
	if q.kind != KindForall {
		panic(fmt.Sprintf("term: %s is not a quantified formula", q))
	}
	return m.Substitute(q.Body(), q.BoundVars(), terms)
}

// Canonical returns the alpha normal form of n: every bound variable is
// renamed after the position of its binder, so alpha equivalent formulas
// have the same canonical form.
func (m *Manager) Canonical(n *Node) *Node {
	next := 0
	return m.canonical(n, make(map[ID]*Node), &next)
}

func (m *Manager) canonical(n *Node, renaming map[ID]*Node, next *int) *Node {
	switch n.kind {
	case KindBoundVar:
		if r, ok := renaming[n.id]; ok {
			return r
		}
		return n
	case KindForall:
		inner := make(map[ID]*Node, len(renaming)+n.NumBoundVars())
		for k, v := range renaming {
			inner[k] = v
		}
		vars := make([]*Node, 0, n.NumBoundVars())
		for _, v := range n.BoundVars() {
			cv := m.BoundVar(fmt.Sprintf("_a%d", *next), v.sort)
			*next++
			inner[v.id] = cv
			vars = append(vars, cv)
		}
		return m.Forall(vars, m.canonical(n.Body(), inner, next))
	}
	if len(n.children) == 0 {
		return n
	}
	children := make([]*Node, len(n.children))
	for i, c := range n.children {
		children[i] = m.canonical(c, renaming, next)
	}
	return m.rebuild(n, children)
}
