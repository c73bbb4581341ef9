// internal/event/notifier.go
package event

import (
	"sync"

	"github.com/ferrule/celled/internal/logger"
)

// Handler is the function signature for lifecycle subscribers.
type Handler func(ev LifecycleEvent)

// Notifier delivers lifecycle events to subscribers: synchronous,
// in subscription order, with no replay of past events.
type Notifier struct {
	mu       sync.Mutex
	nextID   int
	handlers map[Kind][]subscription
}

type subscription struct {
	id int
	fn Handler
}

// NewNotifier creates an empty notifier.
func NewNotifier() *Notifier {
	return &Notifier{
		handlers: make(map[Kind][]subscription),
	}
}

// On subscribes fn to a kind and returns a detach handle. Detaching is
// idempotent and safe to call during dispatch.
func (n *Notifier) On(kind Kind, fn Handler) (detach func()) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.nextID++
	id := n.nextID
	n.handlers[kind] = append(n.handlers[kind], subscription{id: id, fn: fn})

	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		subs := n.handlers[kind]
		for i, s := range subs {
			if s.id == id {
				n.handlers[kind] = append(subs[:i:i], subs[i+1:]...)
				return
			}
		}
	}
}

// Emit delivers ev to every current subscriber of kind. Handlers run on
// the caller's goroutine; a handler detaching itself mid-dispatch does
// not disturb delivery to the others.
func (n *Notifier) Emit(kind Kind, ev LifecycleEvent) {
	n.mu.Lock()
	subs := n.handlers[kind]
	handlersCopy := make([]subscription, len(subs))
	copy(handlersCopy, subs)
	n.mu.Unlock()

	if len(handlersCopy) == 0 {
		return
	}
	logger.Debugf("Notifier: emitting %s to %d handler(s)", kind, len(handlersCopy))

	for _, s := range handlersCopy {
		s.fn(ev)
	}
}
