// internal/session/standalone.go
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/ferrule/celled/internal/command"
	"github.com/ferrule/celled/internal/docmodel"
	"github.com/ferrule/celled/internal/logger"
	"github.com/ferrule/celled/internal/widget"
)

// FormulaParams parameterizes a standalone formula edit (a column
// properties panel, not a grid cell). SaveFn, when set, replaces the
// default persistence of the formula text to the column.
type FormulaParams struct {
	Doc    *docmodel.Document
	Col    *docmodel.Column
	Anchor widget.Anchor
	Router *command.Router
	Host   FocusHost
	Sink   func(error)
	SaveFn func(formula string) error
}

// FormulaSession is the reduced, self-contained formula-editing flow
// used outside the grid. It owns a single formula widget and the same
// save-or-cancel-exactly-once contract as a full session.
type FormulaSession struct {
	doc    *docmodel.Document
	col    *docmodel.Column
	router *command.Router
	sink   func(error)
	saveFn func(formula string) error

	mu         sync.Mutex
	disposed   bool
	hasChanged bool

	widget      ownedSlot
	flight      *saveFlight
	popCommands func()
	cleanups    []func()
}

// NewFormulaSession opens a standalone formula edit on the column's
// current formula text.
func NewFormulaSession(p FormulaParams) (*FormulaSession, error) {
	if p.Doc == nil || p.Col == nil || p.Router == nil {
		return nil, fmt.Errorf("session.NewFormulaSession: missing required collaborator")
	}
	fs := &FormulaSession{
		doc:    p.Doc,
		col:    p.Col,
		router: p.Router,
		sink:   p.Sink,
		saveFn: p.SaveFn,
		flight: newSaveFlight(),
	}

	// Highlight formula-entry affordances right away when the column is
	// not yet a formula column.
	if !p.Col.IsFormula {
		p.Col.SetEditingFormula(true)
	}

	text := p.Col.Formula
	ctor := widget.NewFormulaCtor()
	w := ctor.New(widget.Options{
		ColRef:    p.Col.Ref,
		ColType:   p.Col.Type,
		Text:      text,
		CursorPos: len([]rune(text)),
	})
	var unsubscribe func()
	if lw, ok := w.(widget.LiveWidget); ok {
		unsubscribe = lw.Notify(func(widget.State) {
			fs.mu.Lock()
			fs.hasChanged = true
			fs.mu.Unlock()
		})
	}
	fs.widget.Set(w, unsubscribe)
	if p.Anchor != nil {
		w.Attach(p.Anchor)
	}

	fs.popCommands = p.Router.Push(command.Table{
		command.ConfirmHere: func() command.Result {
			fs.Save() //nolint:errcheck // outcome surfaces via the sink
			return command.Stop
		},
		command.ConfirmAndAdvance: func() command.Result {
			fs.Save() //nolint:errcheck
			return command.Stop
		},
		command.CancelEdit: func() command.Result {
			fs.Cancel()
			return command.Stop
		},
	})

	fs.cleanups = wireEditable(p.Host, func() { fs.Save() }, fs.hasUnsaved)

	logger.Debugf("FormulaSession: opened for column '%s'", p.Col.Ref)
	return fs, nil
}

// Widget returns the live formula widget, for the host to render.
func (fs *FormulaSession) Widget() (widget.Widget, bool) {
	return fs.widget.Get()
}

// Disposed reports whether the session is closed.
func (fs *FormulaSession) Disposed() bool {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.disposed
}

func (fs *FormulaSession) hasUnsaved() bool {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.hasChanged && !fs.disposed
}

// Save commits the formula, single-flight.
func (fs *FormulaSession) Save() error {
	_, err := fs.flight.do(func() (SaveResult, error) {
		return SaveResult{}, fs.doSave()
	})
	return err
}

func (fs *FormulaSession) doSave() error {
	w, ok := fs.widget.Get()
	if !ok {
		logger.Warnf("FormulaSession: save with no live widget; ignoring")
		return nil
	}
	if err := w.PrepareForSave(context.Background()); err != nil {
		fs.report(err)
		fs.dispose()
		return err
	}
	if fs.Disposed() {
		logger.Warnf("FormulaSession: disposed during prepare-for-save; abandoning save")
		return nil
	}
	formula := w.TextValue()
	fs.dispose()

	var err error
	switch {
	case fs.saveFn != nil:
		err = fs.saveFn(formula)
	case !fs.col.IsFormula || fs.col.Formula != formula:
		err = fs.doc.UpdateColumnValues(fs.col.Ref, docmodel.ColumnUpdate{
			IsFormula: true,
			Formula:   formula,
		})
	}
	if err != nil {
		logger.Errorf("FormulaSession: save failed: %v", err)
		fs.report(err)
	}
	return err
}

// Cancel tears the edit down without persisting; idempotent.
func (fs *FormulaSession) Cancel() {
	fs.dispose()
}

func (fs *FormulaSession) report(err error) {
	if fs.sink != nil && err != nil {
		fs.sink(err)
	}
}

func (fs *FormulaSession) dispose() {
	fs.mu.Lock()
	if fs.disposed {
		fs.mu.Unlock()
		return
	}
	fs.disposed = true
	cleanups := fs.cleanups
	fs.cleanups = nil
	fs.mu.Unlock()

	fs.widget.Clear()
	if fs.popCommands != nil {
		fs.popCommands()
	}
	for _, detach := range cleanups {
		detach()
	}
	fs.col.SetEditingFormula(false)
	logger.Debugf("FormulaSession: disposed column '%s'", fs.col.Ref)
}
