// Package util holds small helpers shared by the engine packages.
package util

import (
	"sync"
)

// Counter hands out increasing numbers and is safe for concurrent use. Term
// ids and context scope ids come from counters.
type Counter struct {
	next uint64
	mtx  *sync.Mutex
}

// NewCounter returns a counter starting at 0
func NewCounter() *Counter {
	return NewCounterFrom(0)
}

// NewCounterFrom returns a counter whose first value is start
func NewCounterFrom(start uint64) *Counter {
	return &Counter{
		next: start,
		mtx:  new(sync.Mutex),
	}
}

// Next returns the current value and advances the counter
func (c *Counter) Next() uint64 {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	cur := c.next
	c.next++
	return cur
}
