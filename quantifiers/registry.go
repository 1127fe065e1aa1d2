package quantifiers

import (
	"github.com/hashicorp/go-set/v3"
	"github.com/netrixframework/qengine/term"
)

// Registry keeps the registered quantified formulas and their owners
type Registry struct {
	quants *set.Set[term.ID]
	order  []*term.Node
	owner  map[term.ID]Module
}

// NewRegistry creates an empty Registry
func NewRegistry() *Registry {
	return &Registry{
		quants: set.New[term.ID](0),
		order:  make([]*term.Node, 0),
		owner:  make(map[term.ID]Module),
	}
}

func (r *Registry) Identify() string {
	return "registry"
}

func (r *Registry) Reset(e Effort) bool {
	return true
}

func (r *Registry) RegisterQuantifier(q *term.Node) {
	if r.quants.Insert(q.ID()) {
		r.order = append(r.order, q)
	}
}

func (r *Registry) CheckComplete() bool {
	return true
}

// IsRegistered checks if q was registered
func (r *Registry) IsRegistered(q *term.Node) bool {
	return r.quants.Contains(q.ID())
}

// Quantifiers returns the registered formulas in registration order
func (r *Registry) Quantifiers() []*term.Node {
	res := make([]*term.Node, len(r.order))
	copy(res, r.order)
	return res
}

// SetOwner makes m the owner of q unless q already has one. Returns true if
// m owns q afterwards.
func (r *Registry) SetOwner(q *term.Node, m Module) bool {
	if cur, ok := r.owner[q.ID()]; ok {
		return cur == m
	}
	r.owner[q.ID()] = m
	return true
}

// Owner returns the owner of q, nil if q has none
func (r *Registry) Owner(q *term.Node) Module {
	return r.owner[q.ID()]
}

// HasOwnership is true if m may produce instances of q
func (r *Registry) HasOwnership(q *term.Node, m Module) bool {
	owner, ok := r.owner[q.ID()]
	return !ok || owner == m
}
