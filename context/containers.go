package context

// CDSet is a set whose insertions are undone when the inserting scope is popped
type CDSet[T comparable] struct {
	ctx     *Context
	entries map[T]Tag
}

// NewCDSet creates an empty set following ctx
func NewCDSet[T comparable](ctx *Context) *CDSet[T] {
	return &CDSet[T]{
		ctx:     ctx,
		entries: make(map[T]Tag),
	}
}

// Insert adds v to the set. Returns false if v was already present.
func (s *CDSet[T]) Insert(v T) bool {
	if t, ok := s.entries[v]; ok && s.ctx.Live(t) {
		return false
	}
	s.entries[v] = s.ctx.Tag()
	return true
}

// Contains checks if v is in the set
func (s *CDSet[T]) Contains(v T) bool {
	t, ok := s.entries[v]
	return ok && s.ctx.Live(t)
}

// Len returns the number of live elements
func (s *CDSet[T]) Len() int {
	count := 0
	for _, t := range s.entries {
		if s.ctx.Live(t) {
			count++
		}
	}
	return count
}

// Compact drops entries of popped scopes
func (s *CDSet[T]) Compact() {
	for v, t := range s.entries {
		if !s.ctx.Live(t) {
			delete(s.entries, v)
		}
	}
}

type cdEntry[V any] struct {
	tag   Tag
	value V
}

// CDMap is a map where every Set is undone when its scope is popped,
// restoring the value of the enclosing scope.
type CDMap[K comparable, V any] struct {
	ctx     *Context
	entries map[K][]cdEntry[V]
}

// NewCDMap creates an empty map following ctx
func NewCDMap[K comparable, V any](ctx *Context) *CDMap[K, V] {
	return &CDMap[K, V]{
		ctx:     ctx,
		entries: make(map[K][]cdEntry[V]),
	}
}

// live drops the dead suffix of the stack of key and returns what remains
func (m *CDMap[K, V]) live(key K) []cdEntry[V] {
	stack := m.entries[key]
	i := len(stack)
	for i > 0 && !m.ctx.Live(stack[i-1].tag) {
		i--
	}
	if i != len(stack) {
		if i == 0 {
			delete(m.entries, key)
			return nil
		}
		stack = stack[:i]
		m.entries[key] = stack
	}
	return stack
}

// Get returns the value of key visible in the current scope
func (m *CDMap[K, V]) Get(key K) (V, bool) {
	stack := m.live(key)
	if len(stack) == 0 {
		var zero V
		return zero, false
	}
	return stack[len(stack)-1].value, true
}

// Set assigns value to key in the current scope
func (m *CDMap[K, V]) Set(key K, value V) {
	stack := m.live(key)
	tag := m.ctx.Tag()
	if n := len(stack); n > 0 && stack[n-1].tag == tag {
		stack[n-1].value = value
		return
	}
	m.entries[key] = append(stack, cdEntry[V]{tag: tag, value: value})
}

// Contains checks if key has a value in the current scope
func (m *CDMap[K, V]) Contains(key K) bool {
	_, ok := m.Get(key)
	return ok
}

// CDList is an append-only list truncated back when scopes are popped
type CDList[T any] struct {
	ctx   *Context
	items []cdEntry[T]
}

// NewCDList creates an empty list following ctx
func NewCDList[T any](ctx *Context) *CDList[T] {
	return &CDList[T]{ctx: ctx}
}

func (l *CDList[T]) trim() {
	i := len(l.items)
	for i > 0 && !l.ctx.Live(l.items[i-1].tag) {
		i--
	}
	l.items = l.items[:i]
}

// Append adds v at the end of the list
func (l *CDList[T]) Append(v T) {
	l.trim()
	l.items = append(l.items, cdEntry[T]{tag: l.ctx.Tag(), value: v})
}

// Len returns the number of live elements
func (l *CDList[T]) Len() int {
	l.trim()
	return len(l.items)
}

// Items returns a copy of the live elements in insertion order
func (l *CDList[T]) Items() []T {
	l.trim()
	res := make([]T, len(l.items))
	for i, e := range l.items {
		res[i] = e.value
	}
	return res
}
