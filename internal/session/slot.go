// internal/session/slot.go
package session

import (
	"sync"

	"github.com/ferrule/celled/internal/widget"
)

// ownedSlot holds the session's single live widget. Assigning a new
// occupant tears down the previous one (its detach plus any cleanup,
// such as a live-channel unsubscribe) before installing the next, so at
// most one widget is ever alive.
type ownedSlot struct {
	mu      sync.Mutex
	w       widget.Widget
	cleanup func()
}

// Set installs w, disposing the previous occupant first.
func (s *ownedSlot) Set(w widget.Widget, cleanup func()) {
	s.mu.Lock()
	oldW, oldCleanup := s.w, s.cleanup
	s.w, s.cleanup = w, cleanup
	s.mu.Unlock()

	if oldCleanup != nil {
		oldCleanup()
	}
	if oldW != nil {
		oldW.Detach()
	}
}

// Get returns the occupant, with ok=false when the slot is empty.
func (s *ownedSlot) Get() (widget.Widget, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w, s.w != nil
}

// Clear empties the slot, disposing the occupant.
func (s *ownedSlot) Clear() {
	s.Set(nil, nil)
}
