// Package types holds the generic containers and the service scaffolding
// shared by the engine packages.
package types

import (
	"sync"

	"golang.org/x/exp/constraints"
)

// Map is a thread safe map
type Map[K constraints.Ordered, V any] struct {
	m    map[K]V
	lock *sync.Mutex
}

func NewMap[K constraints.Ordered, V any]() *Map[K, V] {
	return &Map[K, V]{
		m:    make(map[K]V),
		lock: new(sync.Mutex),
	}
}

// Update stores f(old, exists) under key and returns it
func (s *Map[K, V]) Update(key K, f func(V, bool) V) V {
	s.lock.Lock()
	defer s.lock.Unlock()
	old, ok := s.m[key]
	val := f(old, ok)
	s.m[key] = val
	return val
}

// ToMap returns a copy of the contents
func (s *Map[K, V]) ToMap() map[K]V {
	s.lock.Lock()
	defer s.lock.Unlock()
	m := make(map[K]V, len(s.m))
	for k, v := range s.m {
		m[k] = v
	}
	return m
}

// List is a thread safe append-only buffer that is emptied with Drain
type List[V any] struct {
	elems []V
	lock  *sync.Mutex
}

func NewEmptyList[V any]() *List[V] {
	return &List[V]{
		elems: make([]V, 0),
		lock:  new(sync.Mutex),
	}
}

func (l *List[V]) Append(e V) {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.elems = append(l.elems, e)
}

func (l *List[V]) Size() int {
	l.lock.Lock()
	defer l.lock.Unlock()
	return len(l.elems)
}

// Drain empties the list and returns the removed elements in insertion order
func (l *List[V]) Drain() []V {
	l.lock.Lock()
	defer l.lock.Unlock()
	res := l.elems
	l.elems = make([]V, 0)
	return res
}
