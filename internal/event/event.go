// internal/event/event.go
package event

import (
	"github.com/ferrule/celled/internal/types"
)

// Kind identifies the lifecycle event being emitted.
type Kind int

const (
	KindUnknown Kind = iota

	// KindSave fires when a session committed (or decided to skip) its
	// write and is about to dispose.
	KindSave

	// KindCancel fires when a session is torn down without persisting.
	KindCancel

	// KindChange fires on every live edit inside the active widget.
	KindChange
)

// String returns a short name for the kind, used in logs.
func (k Kind) String() string {
	switch k {
	case KindSave:
		return "save"
	case KindCancel:
		return "cancel"
	case KindChange:
		return "change"
	default:
		return "unknown"
	}
}

// LifecycleEvent is the payload delivered for save, cancel and change.
// State is the widget's serializable snapshot at emission time; its
// concrete shape is editor-specific.
type LifecycleEvent struct {
	Position    types.CellPosition
	WasModified bool
	State       interface{}
	Type        string // the column's declared value-type tag
}
