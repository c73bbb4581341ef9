// internal/docmodel/document_test.go
package docmodel

import (
	"errors"
	"testing"

	"github.com/ferrule/celled/internal/types"
)

func newTestDoc(t *testing.T) *Document {
	t.Helper()
	return NewDocument(
		&Column{Ref: "a", Label: "A", Type: types.TypeText},
		&Column{Ref: "b", Label: "B", Type: types.TypeNumeric},
		&Column{Ref: "f", Label: "F", Type: types.TypeNumeric, IsFormula: true, Formula: "a*2"},
	)
}

func TestRowPlaceholder(t *testing.T) {
	doc := newTestDoc(t)

	if got := doc.RowIDAt(0); got != types.NewRowID {
		t.Errorf("RowIDAt(0) on empty doc = %d, want placeholder %d", got, types.NewRowID)
	}

	id, err := doc.AddEmptyRow()
	if err != nil {
		t.Fatalf("AddEmptyRow: %v", err)
	}
	if id == types.NewRowID {
		t.Fatalf("real row got the placeholder ID %d", id)
	}
	if got := doc.RowIDAt(0); got != id {
		t.Errorf("RowIDAt(0) = %d, want %d", got, id)
	}
	if got := doc.RowIDAt(1); got != types.NewRowID {
		t.Errorf("RowIDAt(1) = %d, want placeholder", got)
	}
	if got := doc.RowIndex(types.NewRowID); got != 1 {
		t.Errorf("RowIndex(placeholder) = %d, want 1 (just past last row)", got)
	}

	// The placeholder row always reads as nil.
	v, err := doc.Value(types.NewRowID, "a")
	if err != nil {
		t.Fatalf("Value(placeholder): %v", err)
	}
	if v != nil {
		t.Errorf("Value(placeholder) = %v, want nil", v)
	}
}

func TestSetIfChanged(t *testing.T) {
	doc := newTestDoc(t)
	id, _ := doc.AddEmptyRow()

	tests := []struct {
		name      string
		setup     interface{}
		candidate interface{}
		wantWrite bool
	}{
		{"new value writes", nil, "x", true},
		{"equal string skips", "x", "x", false},
		{"different string writes", "x", "y", true},
		{"nil onto nil skips", nil, nil, false},
		{"equal float skips", 1.5, 1.5, false},
		{"type change writes", int64(1), 1.5, true},
		{
			"equal nested list skips",
			[]interface{}{"a", []interface{}{types.Censored{}}},
			[]interface{}{"a", []interface{}{types.Censored{}}},
			false,
		},
		{
			"different nested list writes",
			[]interface{}{"a", []interface{}{types.Censored{}}},
			[]interface{}{"a", []interface{}{types.RaisedException{Code: "X"}}},
			true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := doc.UpdateRowValues(id, map[string]interface{}{"a": tt.setup}); err != nil {
				t.Fatalf("setup: %v", err)
			}
			wrote, err := doc.SetIfChanged(id, "a", tt.candidate)
			if err != nil {
				t.Fatalf("SetIfChanged: %v", err)
			}
			if wrote != tt.wantWrite {
				t.Errorf("SetIfChanged wrote = %v, want %v", wrote, tt.wantWrite)
			}
		})
	}
}

func TestSetIfChangedUnknownTargets(t *testing.T) {
	doc := newTestDoc(t)
	if _, err := doc.SetIfChanged(99, "a", "x"); err == nil {
		t.Error("SetIfChanged on missing row should fail")
	}
	id, _ := doc.AddEmptyRow()
	if _, err := doc.SetIfChanged(id, "nope", "x"); err == nil {
		t.Error("SetIfChanged on missing column should fail")
	}
}

func TestColumnIsEmpty(t *testing.T) {
	doc := newTestDoc(t)
	if !doc.ColumnIsEmpty("a") {
		t.Error("column of an empty doc should be empty")
	}

	id, _ := doc.AddEmptyRow()
	if !doc.ColumnIsEmpty("a") {
		t.Error("column with only nil cells should be empty")
	}

	doc.UpdateRowValues(id, map[string]interface{}{"a": ""})
	if !doc.ColumnIsEmpty("a") {
		t.Error("empty strings still count as empty")
	}

	doc.UpdateRowValues(id, map[string]interface{}{"a": "x"})
	if doc.ColumnIsEmpty("a") {
		t.Error("column with a value is not empty")
	}
}

func TestBundleUndoAsUnit(t *testing.T) {
	doc := newTestDoc(t)

	err := doc.BundleActions("Add row", func() error {
		id, err := doc.AddEmptyRow()
		if err != nil {
			return err
		}
		_, err = doc.SetIfChanged(id, "a", "hello")
		return err
	})
	if err != nil {
		t.Fatalf("BundleActions: %v", err)
	}
	if doc.RowCount() != 1 {
		t.Fatalf("RowCount = %d, want 1", doc.RowCount())
	}

	undone, err := doc.Undo()
	if err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if !undone {
		t.Fatal("Undo reported nothing to undo")
	}
	if doc.RowCount() != 0 {
		t.Errorf("RowCount after undo = %d, want 0 (row add and cell write undone together)", doc.RowCount())
	}

	if undone, _ := doc.Undo(); undone {
		t.Error("second Undo should find nothing")
	}
}

func TestNestedBundlesCloseOnce(t *testing.T) {
	doc := newTestDoc(t)
	id, _ := doc.AddEmptyRow()

	doc.BundleActions("outer", func() error {
		doc.SetIfChanged(id, "a", "one")
		return doc.BundleActions("inner", func() error {
			_, err := doc.SetIfChanged(id, "b", 2.0)
			return err
		})
	})

	// One undo removes both writes; the row-add from setup remains.
	doc.Undo()
	if v, _ := doc.Value(id, "a"); v != nil {
		t.Errorf("cell a after undo = %v, want nil", v)
	}
	if v, _ := doc.Value(id, "b"); v != nil {
		t.Errorf("cell b after undo = %v, want nil", v)
	}
}

func TestBundleErrorKeepsPartialWritesUndoable(t *testing.T) {
	doc := newTestDoc(t)
	id, _ := doc.AddEmptyRow()
	boom := errors.New("boom")

	err := doc.BundleActions("partial", func() error {
		doc.SetIfChanged(id, "a", "written")
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("BundleActions err = %v, want boom", err)
	}
	if v, _ := doc.Value(id, "a"); v != "written" {
		t.Fatalf("partial write lost: %v", v)
	}
	doc.Undo()
	if v, _ := doc.Value(id, "a"); v != nil {
		t.Errorf("undo of failed bundle left %v", v)
	}
}

func TestUpdateColumnValuesUndo(t *testing.T) {
	doc := newTestDoc(t)

	if err := doc.UpdateColumnValues("b", ColumnUpdate{IsFormula: true, Formula: "a+1"}); err != nil {
		t.Fatalf("UpdateColumnValues: %v", err)
	}
	col, _ := doc.Column("b")
	if !col.IsFormula || col.Formula != "a+1" {
		t.Fatalf("column not updated: %+v", col)
	}

	doc.Undo()
	if col.IsFormula || col.Formula != "" {
		t.Errorf("column update not undone: %+v", col)
	}
}

func TestValuesEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b interface{}
		want bool
	}{
		{"both nil", nil, nil, true},
		{"nil vs value", nil, "x", false},
		{"equal strings", "x", "x", true},
		{"different types", int64(1), 1.0, false},
		{"equal markers", types.Censored{}, types.Censored{}, true},
		{"equal exceptions", types.RaisedException{Code: "A"}, types.RaisedException{Code: "A"}, true},
		{"different exceptions", types.RaisedException{Code: "A"}, types.RaisedException{Code: "B"}, false},
		{"equal slices", []interface{}{1, "a"}, []interface{}{1, "a"}, true},
		{"different slices", []interface{}{1}, []interface{}{2}, false},
		{"slice vs scalar", []interface{}{1}, 1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValuesEqual(tt.a, tt.b); got != tt.want {
				t.Errorf("ValuesEqual(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}
