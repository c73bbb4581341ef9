// internal/session/fastaccept.go
package session

import (
	"github.com/ferrule/celled/internal/docmodel"
	"github.com/ferrule/celled/internal/logger"
	"github.com/ferrule/celled/internal/widget"
)

// MaybeAcceptWithoutEditor commits a single keystroke directly when the
// widget variant declares a fast-accept rule for it (a boolean cell
// toggled by space, for example) without ever opening an editor.
// Returns handled=true when the keystroke was consumed this way; the
// equality gate still applies, so re-typing the current value writes
// nothing.
func MaybeAcceptWithoutEditor(doc *docmodel.Document, col *docmodel.Column, rowID int64, ctor widget.Ctor, typed string) (handled bool, err error) {
	if col.IsFormula || ctor.QuickAccept == nil {
		return false, nil
	}
	prev, err := doc.Value(rowID, col.Ref)
	if err != nil {
		return false, err
	}
	value, ok := ctor.QuickAccept(typed, prev)
	if !ok {
		return false, nil
	}
	wrote, err := doc.SetIfChanged(rowID, col.Ref, value)
	if err != nil {
		return true, err
	}
	logger.Debugf("Session: fast-accepted %q into %s/%d (wrote=%v)", typed, col.Ref, rowID, wrote)
	return true, nil
}
