// internal/types/cell.go
package types

// CellPosition identifies a cell uniquely within a view section.
// It is computed once per edit session; row and column identity do not
// change mid-edit.
type CellPosition struct {
	RowID     int64  // Row identity (0 = the virtual "new row" placeholder)
	ColRef    string // Column reference (stable column identifier)
	SectionID int    // View section the edit happens in
}

// NewRowID is the reserved row identity of the virtual "new row"
// placeholder shown at the bottom of a table view. Writes targeting it
// must first materialize a real row.
const NewRowID int64 = 0

// Column value-type tags. These mirror the declared type of a column,
// carried on lifecycle events so observers can interpret the value.
const (
	TypeText    = "Text"
	TypeNumeric = "Numeric"
	TypeInt     = "Int"
	TypeBool    = "Bool"
	TypeDate    = "Date"
	TypeAny     = "Any"
)
