// internal/session/cleanup.go
package session

import (
	"context"
)

// FocusHost is the focus/navigation collaborator. A clipboard-focus
// event fires when input focus returns to a non-editing surface (the
// click-away signal); the leave guard is consulted before navigating
// away from the document.
type FocusHost interface {
	OnClipboardFocus(fn func()) (detach func())
	RegisterLeaveGuard(fn func(ctx context.Context) (safe bool, err error)) (detach func())
}

// wireEditable registers the editable cleanup policy: click-away saves,
// and navigation is held up while the edit is unsaved. Returns the
// detach handles for disposal.
func wireEditable(host FocusHost, save func(), unsaved func() bool) []func() {
	if host == nil {
		return nil
	}
	d1 := host.OnClipboardFocus(save)
	d2 := host.RegisterLeaveGuard(func(ctx context.Context) (bool, error) {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		return !unsaved(), nil
	})
	return []func(){d1, d2}
}

// wireReadonly registers the read-only cleanup policy: click-away
// cancels, nothing guards navigation (there is nothing to lose).
func wireReadonly(host FocusHost, cancel func()) []func() {
	if host == nil {
		return nil
	}
	return []func(){host.OnClipboardFocus(cancel)}
}
