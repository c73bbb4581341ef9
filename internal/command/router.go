// internal/command/router.go

// Package command implements a stack of named, no-argument action
// tables. Pushing a table makes its bindings active until popped; a
// handler decides whether the trigger stops with it or keeps
// propagating to the tables underneath (so an edit session can shadow
// the host's defaults and still fall through to them selectively).
package command

import (
	"sync"

	"github.com/ferrule/celled/internal/logger"
)

// Result tells the router whether to keep walking down the stack.
type Result int

const (
	// Stop consumes the trigger; no lower table sees it.
	Stop Result = iota
	// Continue propagates the trigger to the next table that binds it.
	Continue
)

// Handler is a named action. It takes no arguments; any state it needs
// is captured at table construction time.
type Handler func() Result

// Table maps command names to handlers. Tables are built once and never
// mutated after being pushed.
type Table map[string]Handler

type entry struct {
	id    int
	table Table
}

// Router holds the active table stack.
type Router struct {
	mu     sync.Mutex
	nextID int
	stack  []entry
}

// NewRouter creates an empty router.
func NewRouter() *Router {
	return &Router{}
}

// Push makes t the topmost active table and returns a pop handle.
// Popping removes t wherever it sits (a session disposing out of order
// must not pop someone else's table). The handle is idempotent.
func (r *Router) Push(t Table) (pop func()) {
	r.mu.Lock()
	r.nextID++
	id := r.nextID
	r.stack = append(r.stack, entry{id: id, table: t})
	r.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			r.mu.Lock()
			defer r.mu.Unlock()
			for i := len(r.stack) - 1; i >= 0; i-- {
				if r.stack[i].id == id {
					r.stack = append(r.stack[:i], r.stack[i+1:]...)
					return
				}
			}
		})
	}
}

// Trigger runs the topmost binding for name. When that handler returns
// Continue, the walk resumes with the next table down, until a handler
// returns Stop or the stack is exhausted. Returns Stop when some handler
// consumed the trigger, Continue otherwise.
func (r *Router) Trigger(name string) Result {
	r.mu.Lock()
	stackCopy := make([]entry, len(r.stack))
	copy(stackCopy, r.stack)
	r.mu.Unlock()

	for i := len(stackCopy) - 1; i >= 0; i-- {
		h, ok := stackCopy[i].table[name]
		if !ok {
			continue
		}
		if h() == Stop {
			return Stop
		}
		// Continue: fall through to the next table down.
	}
	logger.Debugf("Router: trigger '%s' ran to bottom of stack", name)
	return Continue
}

// Depth returns the number of active tables, for diagnostics.
func (r *Router) Depth() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.stack)
}
