// Package context implements the scoped (push/pop) contexts of an incremental
// solving session and the containers whose contents follow them.
//
// Every entry of a context-dependent container is tagged with the scope that
// inserted it. Popping a scope does not touch the containers, the entries
// simply stop being visible. A later push opens a new scope, so entries of a
// popped scope never become visible again.
package context

import (
	"fmt"

	"github.com/netrixframework/qengine/util"
)

// Tag identifies the scope an entry was inserted in
type Tag struct {
	Level int
	Scope uint64
}

// deadTag is never live
var deadTag = Tag{Level: -1}

// Context is a stack of scopes. Level 0 is the base scope, it is never popped.
type Context struct {
	scopes  []uint64
	counter *util.Counter
	name    string
}

// New creates a context at level 0
func New(name string) *Context {
	return &Context{
		scopes:  []uint64{0},
		counter: util.NewCounterFrom(1),
		name:    name,
	}
}

// Name of the context, e.g. "user" or "sat"
func (c *Context) Name() string {
	return c.name
}

// Level returns the number of open scopes above the base scope
func (c *Context) Level() int {
	return len(c.scopes) - 1
}

// Push opens a new scope
func (c *Context) Push() {
	c.scopes = append(c.scopes, c.counter.Next())
}

// Pop closes the innermost scope
func (c *Context) Pop() {
	if c.Level() == 0 {
		panic(fmt.Sprintf("context %s: pop at level 0", c.name))
	}
	c.scopes = c.scopes[:len(c.scopes)-1]
}

// PopTo pops scopes until the context is at the given level
func (c *Context) PopTo(level int) {
	for c.Level() > level {
		c.Pop()
	}
}

// Tag returns the tag of the current scope
func (c *Context) Tag() Tag {
	level := c.Level()
	return Tag{Level: level, Scope: c.scopes[level]}
}

// Live is true if the scope of t is still open
func (c *Context) Live(t Tag) bool {
	if t.Level < 0 || t.Level > c.Level() {
		return false
	}
	return c.scopes[t.Level] == t.Scope
}

// Dead returns a tag that is never live
func Dead() Tag {
	return deadTag
}
