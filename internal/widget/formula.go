// internal/widget/formula.go
package widget

import (
	"context"
	"sync"
)

// FormulaWidget edits formula text. It supports an in-flight completion
// suggestion: the host may stage one while the user types, and
// PrepareForSave accepts it before the formula text is read, so a save
// triggered mid-completion commits what the user saw.
type FormulaWidget struct {
	*textCore

	pendingMu sync.Mutex
	pending   string // staged completion suffix, applied on save
}

// NewFormulaCtor returns the formula editor constructor. Formula cells
// have no fast-accept rule; a formula always opens the editor.
func NewFormulaCtor() Ctor {
	return Ctor{
		New: func(opts Options) Widget {
			return &FormulaWidget{
				textCore: newTextCore(opts.Text, opts.CursorPos, opts.ReadOnly),
			}
		},
	}
}

func (w *FormulaWidget) Attach(a Anchor) {
	w.textCore.Attach(a)
	a.Mount(w)
}

func (w *FormulaWidget) Detach() {
	if a := w.Dom(); a != nil {
		a.Unmount(w)
	}
	w.textCore.detach()
}

// StageCompletion records a completion suffix to accept at save time.
// An empty string clears it.
func (w *FormulaWidget) StageCompletion(suffix string) {
	w.pendingMu.Lock()
	w.pending = suffix
	w.pendingMu.Unlock()
}

// PrepareForSave accepts any staged completion so TextValue reflects the
// finished formula.
func (w *FormulaWidget) PrepareForSave(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	w.pendingMu.Lock()
	suffix := w.pending
	w.pending = ""
	w.pendingMu.Unlock()

	if suffix != "" {
		w.CursorEnd()
		for _, r := range suffix {
			w.InsertRune(r)
		}
	}
	return nil
}

// CellValue for a formula editor is the formula text itself; the save
// path persists it through the column definition, not the cell.
func (w *FormulaWidget) CellValue() interface{} {
	return w.TextValue()
}
