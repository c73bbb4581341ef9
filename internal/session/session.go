// internal/session/session.go

// Package session implements the cell-edit lifecycle: the transition of
// one cell from displaying a value to being edited and back, with
// exactly-once save-or-cancel semantics, formula/value mode switching,
// read-only behavior and crash-recovery snapshots.
package session

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/ferrule/celled/internal/command"
	"github.com/ferrule/celled/internal/docmodel"
	"github.com/ferrule/celled/internal/errfetch"
	"github.com/ferrule/celled/internal/event"
	"github.com/ferrule/celled/internal/formulamode"
	"github.com/ferrule/celled/internal/logger"
	"github.com/ferrule/celled/internal/monitor"
	"github.com/ferrule/celled/internal/types"
	"github.com/ferrule/celled/internal/widget"
)

// Cursor exposes the grid cursor's current row index. The save path
// compares it across the write to detect re-sort side effects.
type Cursor interface {
	RowIndex() int
}

// ConversionOffer is the tooltip collaborator presenting the one-shot
// "convert to formula" offer when '=' is typed into a non-empty column.
type ConversionOffer interface {
	Offer(accept func())
	Dismiss()
}

// Params are the construction parameters of an editable session.
type Params struct {
	Doc       *docmodel.Document
	Col       *docmodel.Column
	Cursor    Cursor
	RowID     int64
	SectionID int
	TableID   string

	Anchor    widget.Anchor
	ValueCtor widget.Ctor // plain-value editor constructor

	TypedText *string           // initial typed text, nil when opened without typing
	Restored  *monitor.Snapshot // restored serialized state after a reload

	Readonly bool

	Router   *command.Router
	Notifier *event.Notifier
	Monitor  *monitor.Monitor
	Host     FocusHost
	Offer    ConversionOffer
	Fetcher  errfetch.Fetcher
	Sink     func(error)
}

// Session owns one edit's full lifecycle. It is created open and is
// disposed exactly once: by completed save, by cancel, or by its owner
// tearing down. A disposed session cannot be reopened.
type Session struct {
	doc       *docmodel.Document
	col       *docmodel.Column
	cursor    Cursor
	rowID     int64
	sectionID int
	tableID   string

	anchor      widget.Anchor
	valueCtor   widget.Ctor
	formulaCtor widget.Ctor

	notifier *event.Notifier
	router   *command.Router
	offer    ConversionOffer
	fetcher  errfetch.Fetcher
	sink     func(error)

	readonly bool

	mu         sync.Mutex
	disposed   bool
	isFormula  bool
	hasChanged bool
	lastState  widget.State

	widget ownedSlot
	flight *saveFlight

	popCommands func()
	cleanups    []func()
	deregister  func()
	errObs      *errfetch.Observable
}

// New constructs a session and opens the edit. See Params.
func New(p Params) (*Session, error) {
	if p.Doc == nil || p.Col == nil || p.Cursor == nil || p.Router == nil || p.Notifier == nil {
		return nil, fmt.Errorf("session.New: missing required collaborator")
	}

	s := &Session{
		doc:         p.Doc,
		col:         p.Col,
		cursor:      p.Cursor,
		rowID:       p.RowID,
		sectionID:   p.SectionID,
		tableID:     p.TableID,
		anchor:      p.Anchor,
		valueCtor:   p.ValueCtor,
		formulaCtor: widget.NewFormulaCtor(),
		notifier:    p.Notifier,
		router:      p.Router,
		offer:       p.Offer,
		fetcher:     p.Fetcher,
		sink:        p.Sink,
		readonly:    p.Readonly,
		flight:      newSaveFlight(),
	}

	// Decide the starting interpretation from the typed text and the
	// column's state.
	typed := ""
	if p.TypedText != nil {
		typed = *p.TypedText
	}
	initial := formulamode.DecideInitial(typed, p.Col.IsFormula, p.Doc.ColumnIsEmpty(p.Col.Ref))
	s.isFormula = initial.IsFormula
	if p.Restored != nil {
		// A restored session resumes the mode it snapshot in.
		s.isFormula = p.Restored.IsFormula
	}
	if initial.OfferConvert && s.offer != nil && !s.readonly {
		s.offer.Offer(s.AcceptConversionOffer)
	}

	// The command table shadows the host's defaults while the edit is
	// active; read-only sessions get a distinct table.
	if s.readonly {
		s.popCommands = s.router.Push(s.readonlyCommands())
	} else {
		s.popCommands = s.router.Push(s.editableCommands())
	}

	var editValue *string
	cursorPos := 0
	if p.TypedText != nil {
		editValue = &initial.Text
		cursorPos = len([]rune(initial.Text))
	}
	var restoredState *widget.State
	if p.Restored != nil {
		restoredState = &p.Restored.State
	}
	s.rebuild(editValue, cursorPos, restoredState)

	// Register with the editor monitor so an interrupted edit can be
	// reconstructed verbatim.
	if p.Monitor != nil {
		s.deregister = p.Monitor.Register(s.snapshotForMonitor)
	}

	if s.readonly {
		s.cleanups = wireReadonly(p.Host, s.Cancel)
	} else {
		s.cleanups = wireEditable(p.Host, func() { s.Save() }, s.hasUnsaved)
	}

	logger.Debugf("Session: opened cell %s row %d (formula=%v, readonly=%v)",
		p.Col.Ref, p.RowID, s.isFormula, s.readonly)
	return s, nil
}

// Position returns the cell identity of this session.
func (s *Session) Position() types.CellPosition {
	return types.CellPosition{RowID: s.rowID, ColRef: s.col.Ref, SectionID: s.sectionID}
}

// IsFormula reports the current editing interpretation.
func (s *Session) IsFormula() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isFormula
}

// HasChanged reports whether the live widget has been edited.
func (s *Session) HasChanged() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasChanged
}

// Disposed reports whether the session is closed.
func (s *Session) Disposed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.disposed
}

// Widget returns the live widget, for the host to render.
func (s *Session) Widget() (widget.Widget, bool) {
	return s.widget.Get()
}

// ErrorDetail returns the exception observable attached at rebuild, if
// the cell currently holds a raised-exception value.
func (s *Session) ErrorDetail() *errfetch.Observable {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errObs
}

func (s *Session) hasUnsaved() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasChanged && !s.disposed
}

// rebuild selects the widget variant for the current mode, computes the
// text to display, and swaps the owned slot (the previous widget is
// disposed first). editValue non-nil means the caller supplied explicit
// text (typed entry or a mode switch); nil means "edit what is stored".
func (s *Session) rebuild(editValue *string, cursorPos int, restored *widget.State) {
	s.mu.Lock()
	isFormula := s.isFormula
	s.hasChanged = false
	s.mu.Unlock()

	rawValue, err := s.doc.Value(s.rowID, s.col.Ref)
	if err != nil {
		logger.Warnf("Session: reading cell %s/%d: %v", s.col.Ref, s.rowID, err)
	}

	// The display form of what is stored; the widget treats text equal
	// to it as an untouched edit.
	var origText string
	switch {
	case s.col.IsFormula:
		origText = s.col.Formula
	case types.IsCensored(rawValue):
		origText = ""
	default:
		origText = FormatValue(rawValue)
	}

	text := origText
	switch {
	case restored != nil:
		text = restored.Text
		cursorPos = restored.CursorPos
	case editValue != nil:
		text = *editValue
	}

	// A raised exception under a formula or trigger-formula column gets
	// an observable; richer detail arrives asynchronously.
	s.attachErrorDetail(rawValue)

	// Mark the column as being edited as a formula only when the mode is
	// formula AND the caller supplied explicit text. This keeps
	// double-click entry on a formula column distinguishable from
	// type-'=' entry until the user actually engages formula editing.
	s.col.SetEditingFormula(isFormula && editValue != nil)

	ctor := s.valueCtor
	if isFormula {
		ctor = s.formulaCtor
	}
	w := ctor.New(widget.Options{
		ColRef:    s.col.Ref,
		ColType:   s.col.Type,
		OrigValue: rawValue,
		OrigText:  origText,
		Text:      text,
		CursorPos: cursorPos,
		ReadOnly:  s.readonly,
	})

	var unsubscribe func()
	if lw, ok := w.(widget.LiveWidget); ok {
		unsubscribe = lw.Notify(s.onLiveChange)
	}
	s.mu.Lock()
	s.lastState = w.Snapshot()
	s.mu.Unlock()

	s.widget.Set(w, unsubscribe)
	if s.anchor != nil {
		w.Attach(s.anchor)
	}
}

// attachErrorDetail creates (or clears) the exception observable for
// the value being edited.
func (s *Session) attachErrorDetail(rawValue interface{}) {
	exc, isExc := types.AsException(rawValue)
	formulaLike := s.col.IsFormula || s.col.Formula != ""

	s.mu.Lock()
	old := s.errObs
	s.errObs = nil
	if isExc && formulaLike {
		s.errObs = errfetch.NewObservable(exc)
	}
	obs := s.errObs
	s.mu.Unlock()

	if old != nil {
		old.Dispose()
	}
	if obs != nil {
		errfetch.Fetch(context.Background(), s.fetcher, errfetch.Key{
			TableID: s.tableID,
			ColRef:  s.col.Ref,
			RowID:   s.rowID,
		}, obs, s.sink)
	}
}

// onLiveChange runs on every edit inside the widget.
func (s *Session) onLiveChange(st widget.State) {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return
	}
	s.hasChanged = true
	s.lastState = st
	s.mu.Unlock()

	s.notifier.Emit(event.KindChange, s.lifecycleEvent(st))
}

func (s *Session) lifecycleEvent(st widget.State) event.LifecycleEvent {
	s.mu.Lock()
	modified := s.hasChanged
	s.mu.Unlock()
	return event.LifecycleEvent{
		Position:    s.Position(),
		WasModified: modified,
		State:       st,
		Type:        s.col.Type,
	}
}

func (s *Session) snapshotForMonitor() monitor.Snapshot {
	s.mu.Lock()
	st := s.lastState
	isFormula := s.isFormula
	s.mu.Unlock()
	if w, ok := s.widget.Get(); ok {
		st = w.Snapshot()
	}
	return monitor.Snapshot{
		Position:  s.Position(),
		State:     st,
		IsFormula: isFormula,
	}
}

// AcceptConversionOffer converts the edit to formula mode after the
// user accepts the tooltip offer: a leading '=' is stripped and the
// editor rebuilds with the cursor at the start.
func (s *Session) AcceptConversionOffer() {
	s.mu.Lock()
	if s.disposed || s.isFormula {
		s.mu.Unlock()
		return
	}
	s.isFormula = true
	s.mu.Unlock()

	text := ""
	if w, ok := s.widget.Get(); ok {
		text = formulamode.AcceptOffer(w.TextValue())
	}
	s.rebuild(&text, 0, nil)
}

// Cancel tears the session down without persisting. Calling it on an
// already-disposed session is a no-op.
func (s *Session) Cancel() {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return
	}
	st := s.lastState
	s.mu.Unlock()

	if w, ok := s.widget.Get(); ok {
		st = w.Snapshot()
	}
	s.notifier.Emit(event.KindCancel, s.lifecycleEvent(st))
	s.dispose()
}

// Save commits the edit. It is single-flight: concurrent triggers
// collapse into one underlying operation and every caller observes the
// same outcome.
func (s *Session) Save() (SaveResult, error) {
	return s.flight.do(s.doSave)
}

// doSave is the underlying save operation; it runs at most once.
func (s *Session) doSave() (SaveResult, error) {
	startRowIndex := s.cursor.RowIndex()

	w, ok := s.widget.Get()
	if !ok {
		logger.Warnf("Session: save with no live widget; ignoring")
		return SaveResult{}, nil
	}

	// The widget may need to settle internal state (e.g. accept an open
	// completion) before its value is read. The session can be disposed
	// from under us while that runs.
	if err := w.PrepareForSave(context.Background()); err != nil {
		logger.Errorf("Session: prepare-for-save failed: %v", err)
		s.reportError(err)
		// Save and cancel are the only exits; a failed settle still
		// closes the session, it just persists nothing.
		s.Cancel()
		return SaveResult{}, err
	}
	if s.Disposed() {
		logger.Warnf("Session: disposed during prepare-for-save; abandoning save")
		return SaveResult{}, nil
	}

	s.mu.Lock()
	isFormula := s.isFormula
	s.mu.Unlock()
	snapshot := w.Snapshot()

	persist, suppress, err := s.buildPersist(w, isFormula)
	if err != nil {
		s.reportError(err)
	}

	// Ordering contract: the save event fires and the session disposes
	// before the persistence write is awaited. Observers reacting to
	// disposal must not assume the write has committed.
	s.notifier.Emit(event.KindSave, s.lifecycleEvent(snapshot))
	s.dispose()

	if persist != nil {
		if perr := persist(); perr != nil {
			logger.Errorf("Session: persistence write failed: %v", perr)
			s.reportError(perr)
			return SaveResult{SuppressAdvance: suppress}, perr
		}
	}

	if !suppress && s.cursor.RowIndex() != startRowIndex {
		// A re-sort moved the row while saving; advancing the cursor on
		// top of that would land somewhere surprising.
		suppress = true
	}
	return SaveResult{SuppressAdvance: suppress}, err
}

// buildPersist inspects the widget's produced value and returns the
// deferred persistence write (nil when nothing changed), plus whether
// the default cursor advance must be suppressed.
func (s *Session) buildPersist(w widget.Widget, isFormula bool) (persist func() error, suppress bool, err error) {
	if isFormula {
		formula := w.TextValue()

		// The formula-UI flag can lag the actual mode on fast
		// double-click-and-type entry; a mismatch here is a known,
		// harmless edge. Trust the mode, note the lag.
		if !s.col.EditingFormula() {
			logger.Warnf("Session: column '%s' not flagged as formula-editing at formula save", s.col.Ref)
		}

		if s.col.IsFormula && s.col.Formula == formula {
			return nil, true, nil
		}
		rowID := s.rowID
		return func() error {
			return s.doc.BundleActions("Update formula", func() error {
				if rowID == types.NewRowID && formula != "" {
					// Materialize a real row so the computed result has
					// somewhere visible to land.
					if _, err := s.doc.AddEmptyRow(); err != nil {
						return err
					}
				}
				return s.doc.UpdateColumnValues(s.col.Ref, docmodel.ColumnUpdate{
					IsFormula: true,
					Formula:   formula,
				})
			})
		}, true, nil
	}

	// Value mode. Writing a plain value into a genuine formula column is
	// a programming error: log it and do not persist.
	if s.col.IsFormula {
		logger.Warnf("Session: refusing to save a plain value into formula column '%s'", s.col.Ref)
		return nil, false, nil
	}

	value := w.CellValue()
	rowID := s.rowID
	colRef := s.col.Ref
	if rowID == types.NewRowID {
		if value == nil || value == "" {
			return nil, false, nil
		}
		return func() error {
			return s.doc.BundleActions("Add row", func() error {
				newID, err := s.doc.AddEmptyRow()
				if err != nil {
					return err
				}
				_, err = s.doc.SetIfChanged(newID, colRef, value)
				return err
			})
		}, false, nil
	}
	return func() error {
		_, err := s.doc.SetIfChanged(rowID, colRef, value)
		return err
	}, false, nil
}

func (s *Session) reportError(err error) {
	if s.sink != nil && err != nil {
		s.sink(err)
	}
}

// dispose is the single exit gate: it releases the widget, the command
// table, the focus hooks, the monitor registration and the error
// observable. It is idempotent and safe to run re-entrantly from inside
// a command handler.
func (s *Session) dispose() {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return
	}
	s.disposed = true
	obs := s.errObs
	s.errObs = nil
	cleanups := s.cleanups
	s.cleanups = nil
	s.mu.Unlock()

	s.widget.Clear()
	if s.popCommands != nil {
		s.popCommands()
	}
	for _, detach := range cleanups {
		detach()
	}
	if s.deregister != nil {
		s.deregister()
	}
	if obs != nil {
		obs.Dispose()
	}
	if s.offer != nil {
		s.offer.Dismiss()
	}
	s.col.SetEditingFormula(false)
	logger.Debugf("Session: disposed cell %s row %d", s.col.Ref, s.rowID)
}

// Dispose closes the session without an event, for owners tearing the
// whole view down. Prefer Cancel or Save from user-driven paths.
func (s *Session) Dispose() {
	s.dispose()
}

// FormatValue renders a stored cell value as editable text.
func FormatValue(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		if t {
			return "true"
		}
		return "false"
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case int64:
		return strconv.FormatInt(t, 10)
	case int:
		return strconv.Itoa(t)
	case types.RaisedException:
		return "#" + t.Code
	default:
		return fmt.Sprintf("%v", t)
	}
}
