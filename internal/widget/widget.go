// internal/widget/widget.go

// Package widget defines the editor-widget contract the session is
// polymorphic over, plus the two built-in variants: a plain value
// editor and a formula editor. Widgets own a single line of editable
// text with grapheme-aware cursor movement; rendering is the host's
// business (it reads the widget state through the contract).
package widget

import (
	"context"
)

// State is a widget's serializable snapshot: enough to rebuild the
// editor verbatim after an interruption.
type State struct {
	Text      string `json:"text"`
	CursorPos int    `json:"cursorPos"`
}

// Anchor is the host surface a widget mounts on (the analog of a cell's
// editing overlay).
type Anchor interface {
	Mount(w Widget)
	Unmount(w Widget)
}

// Widget is the capability set the session drives an editor through.
type Widget interface {
	// Attach mounts the widget on the host surface.
	Attach(a Anchor)
	// Detach unmounts the widget; safe to call when never attached.
	Detach()
	// Dom returns the surface the widget is mounted on, nil when
	// detached.
	Dom() Anchor
	// CellValue returns the value the edit would commit, typed per the
	// column.
	CellValue() interface{}
	// TextValue returns the current editable text.
	TextValue() string
	// CursorPos returns the cursor's rune index within the text.
	CursorPos() int
	// PrepareForSave settles any in-flight internal state (for example
	// an open completion) before the value is read. It may suspend.
	PrepareForSave(ctx context.Context) error
	// Snapshot returns the current serializable state.
	Snapshot() State
}

// LiveWidget is implemented by widgets exposing a live-state channel.
// The session subscribes to it to track modification and emit change
// events.
type LiveWidget interface {
	Widget
	Notify(fn func(State)) (detach func())
}

// QuickAccept is the optional static fast-accept rule of a widget
// variant: given the typed text and the prior cell value, it may yield
// a replacement value to commit directly without opening an editor.
type QuickAccept func(typed string, prev interface{}) (interface{}, bool)

// Options parameterizes widget construction. The session computes the
// display text (formula text, censored blank or raw value) before
// construction; widgets do not look at the document.
type Options struct {
	ColRef    string
	ColType   string      // value-type tag
	OrigValue interface{} // stored cell value at edit start
	OrigText  string      // display text of the stored value
	Text      string      // initial editable text
	CursorPos int         // initial cursor (rune index)
	ReadOnly  bool
}

// Ctor bundles a widget constructor with its variant-level fast-accept
// rule (nil when the variant has none).
type Ctor struct {
	New         func(opts Options) Widget
	QuickAccept QuickAccept
}
