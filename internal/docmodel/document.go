// internal/docmodel/document.go

// Package docmodel is the document mutation layer the editing core
// persists into: columns, rows, equality-gated cell writes and bundled
// undo. It knows nothing about sessions or widgets.
package docmodel

import (
	"fmt"
	"sync"

	"github.com/ferrule/celled/internal/logger"
	"github.com/ferrule/celled/internal/types"
)

// Column describes one column of the document.
type Column struct {
	Ref       string // stable column reference
	Label     string
	Type      string // value-type tag (types.TypeText, ...)
	IsFormula bool   // the column's stored definition is a formula
	Formula   string // formula text; meaningful even when IsFormula is
	// false (a cleared formula keeps its text around for re-entry)

	// editingFormula is a transient view flag: the column is currently
	// shown with formula-entry affordances. Never persisted.
	editingFormula bool
}

// SetEditingFormula flips the transient formula-entry UI flag.
func (c *Column) SetEditingFormula(on bool) { c.editingFormula = on }

// EditingFormula reports the transient formula-entry UI flag.
func (c *Column) EditingFormula() bool { return c.editingFormula }

// ColumnUpdate carries a column definition change.
type ColumnUpdate struct {
	IsFormula bool
	Formula   string
}

// Row is one record. The virtual "new row" placeholder (types.NewRowID)
// is never stored here; it exists only in the view.
type Row struct {
	ID    int64
	Cells map[string]interface{}
}

// Document owns columns and ordered rows.
type Document struct {
	mu       sync.Mutex
	columns  []*Column
	colByRef map[string]*Column
	rows     []*Row
	rowByID  map[int64]*Row
	nextRow  int64
	history  *History
	onChange func()
}

// NewDocument creates an empty document with the given columns.
func NewDocument(columns ...*Column) *Document {
	d := &Document{
		colByRef: make(map[string]*Column),
		rowByID:  make(map[int64]*Row),
		nextRow:  1,
		history:  NewHistory(DefaultMaxHistory),
	}
	for _, c := range columns {
		d.columns = append(d.columns, c)
		d.colByRef[c.Ref] = c
	}
	return d
}

// SetOnChange registers a callback invoked after every applied write
// (the demo grid redraws from it).
func (d *Document) SetOnChange(fn func()) {
	d.mu.Lock()
	d.onChange = fn
	d.mu.Unlock()
}

func (d *Document) notifyChanged() {
	if d.onChange != nil {
		d.onChange()
	}
}

// Column returns the column with the given ref.
func (d *Document) Column(ref string) (*Column, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	c, ok := d.colByRef[ref]
	if !ok {
		return nil, fmt.Errorf("no such column '%s'", ref)
	}
	return c, nil
}

// Columns returns the ordered column list.
func (d *Document) Columns() []*Column {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]*Column, len(d.columns))
	copy(out, d.columns)
	return out
}

// RowCount returns the number of real rows.
func (d *Document) RowCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.rows)
}

// RowIDAt returns the row ID at a view index, or types.NewRowID for the
// placeholder index just past the last real row.
func (d *Document) RowIDAt(index int) int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	if index >= 0 && index < len(d.rows) {
		return d.rows[index].ID
	}
	return types.NewRowID
}

// RowIndex returns the view index of a row, or -1 when absent. The
// placeholder sits just past the last real row.
func (d *Document) RowIndex(rowID int64) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	if rowID == types.NewRowID {
		return len(d.rows)
	}
	for i, r := range d.rows {
		if r.ID == rowID {
			return i
		}
	}
	return -1
}

// Value reads a cell. The placeholder row always reads as nil.
func (d *Document) Value(rowID int64, colRef string) (interface{}, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.colByRef[colRef]; !ok {
		return nil, fmt.Errorf("no such column '%s'", colRef)
	}
	if rowID == types.NewRowID {
		return nil, nil
	}
	r, ok := d.rowByID[rowID]
	if !ok {
		return nil, fmt.Errorf("no such row %d", rowID)
	}
	return r.Cells[colRef], nil
}

// ColumnIsEmpty reports whether every real row is blank in the column.
func (d *Document) ColumnIsEmpty(colRef string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, r := range d.rows {
		v := r.Cells[colRef]
		if v == nil {
			continue
		}
		if s, ok := v.(string); ok && s == "" {
			continue
		}
		return false
	}
	return true
}

// AddEmptyRow materializes a new real row and returns its ID.
func (d *Document) AddEmptyRow() (int64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	id := d.nextRow
	d.nextRow++
	row := &Row{ID: id, Cells: make(map[string]interface{})}
	d.rows = append(d.rows, row)
	d.rowByID[id] = row
	d.history.record(change{kind: changeAddRow, rowID: id})

	logger.Debugf("Document: added empty row %d", id)
	d.notifyChanged()
	return id, nil
}

// UpdateColumnValues changes a column's formula definition.
func (d *Document) UpdateColumnValues(colRef string, upd ColumnUpdate) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	c, ok := d.colByRef[colRef]
	if !ok {
		return fmt.Errorf("no such column '%s'", colRef)
	}
	d.history.record(change{
		kind:         changeColumn,
		colRef:       colRef,
		oldIsFormula: c.IsFormula,
		oldFormula:   c.Formula,
		newIsFormula: upd.IsFormula,
		newFormula:   upd.Formula,
	})
	c.IsFormula = upd.IsFormula
	c.Formula = upd.Formula

	logger.Debugf("Document: column '%s' updated (isFormula=%v)", colRef, upd.IsFormula)
	d.notifyChanged()
	return nil
}

// UpdateRowValues writes several cells of one row.
func (d *Document) UpdateRowValues(rowID int64, values map[string]interface{}) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	r, ok := d.rowByID[rowID]
	if !ok {
		return fmt.Errorf("no such row %d", rowID)
	}
	for colRef, v := range values {
		if _, ok := d.colByRef[colRef]; !ok {
			return fmt.Errorf("no such column '%s'", colRef)
		}
		d.history.record(change{
			kind:   changeCell,
			rowID:  rowID,
			colRef: colRef,
			oldVal: r.Cells[colRef],
			newVal: v,
		})
		r.Cells[colRef] = v
	}
	d.notifyChanged()
	return nil
}

// SetIfChanged writes a single cell only when the candidate differs from
// the current value under deep equality. Reports whether a write was
// issued.
func (d *Document) SetIfChanged(rowID int64, colRef string, value interface{}) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.colByRef[colRef]; !ok {
		return false, fmt.Errorf("no such column '%s'", colRef)
	}
	r, ok := d.rowByID[rowID]
	if !ok {
		return false, fmt.Errorf("no such row %d", rowID)
	}
	current := r.Cells[colRef]
	if ValuesEqual(current, value) {
		logger.Debugf("Document: skip-equal write to row %d col '%s'", rowID, colRef)
		return false, nil
	}
	d.history.record(change{
		kind:   changeCell,
		rowID:  rowID,
		colRef: colRef,
		oldVal: current,
		newVal: value,
	})
	r.Cells[colRef] = value
	d.notifyChanged()
	return true, nil
}

// BundleActions groups every write issued inside fn into one undo unit.
// Bundles nest; only the outermost one closes the unit. An error from fn
// still closes the bundle (partial writes stay applied and stay undoable
// as the same unit).
func (d *Document) BundleActions(label string, fn func() error) error {
	d.mu.Lock()
	d.history.begin(label)
	d.mu.Unlock()

	err := fn()

	d.mu.Lock()
	d.history.end()
	d.mu.Unlock()
	return err
}

// Undo reverts the most recent bundle (or single write) as a unit.
func (d *Document) Undo() (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	bundle, ok := d.history.pop()
	if !ok {
		return false, nil
	}
	for i := len(bundle.changes) - 1; i >= 0; i-- {
		if err := d.applyInverse(bundle.changes[i]); err != nil {
			return false, fmt.Errorf("undo '%s': %w", bundle.label, err)
		}
	}
	logger.Debugf("Document: undid bundle '%s' (%d change(s))", bundle.label, len(bundle.changes))
	d.notifyChanged()
	return true, nil
}

// applyInverse reverts one recorded change. Caller holds the lock.
func (d *Document) applyInverse(ch change) error {
	switch ch.kind {
	case changeCell:
		r, ok := d.rowByID[ch.rowID]
		if !ok {
			return fmt.Errorf("row %d vanished", ch.rowID)
		}
		r.Cells[ch.colRef] = ch.oldVal
	case changeColumn:
		c, ok := d.colByRef[ch.colRef]
		if !ok {
			return fmt.Errorf("column '%s' vanished", ch.colRef)
		}
		c.IsFormula = ch.oldIsFormula
		c.Formula = ch.oldFormula
	case changeAddRow:
		r, ok := d.rowByID[ch.rowID]
		if !ok {
			return fmt.Errorf("row %d vanished", ch.rowID)
		}
		delete(d.rowByID, ch.rowID)
		for i, row := range d.rows {
			if row == r {
				d.rows = append(d.rows[:i], d.rows[i+1:]...)
				break
			}
		}
	}
	return nil
}
