// internal/widget/widget_test.go
package widget

import (
	"context"
	"testing"

	"github.com/ferrule/celled/internal/types"
)

func newTestText(text string, cursor int) *TextWidget {
	ctor := NewTextCtor(types.TypeText)
	return ctor.New(Options{ColType: types.TypeText, Text: text, CursorPos: cursor}).(*TextWidget)
}

func TestTextCoreEditing(t *testing.T) {
	w := newTestText("ab", 1)

	w.InsertRune('x')
	if got := w.TextValue(); got != "axb" {
		t.Errorf("after insert: %q, want %q", got, "axb")
	}
	if w.CursorPos() != 2 {
		t.Errorf("cursor = %d, want 2", w.CursorPos())
	}

	w.DeleteBackward()
	if got := w.TextValue(); got != "ab" {
		t.Errorf("after backspace: %q, want %q", got, "ab")
	}

	w.CursorHome()
	w.DeleteForward()
	if got := w.TextValue(); got != "b" {
		t.Errorf("after delete forward at home: %q, want %q", got, "b")
	}

	w.CursorEnd()
	w.DeleteForward() // nothing after the end
	if got := w.TextValue(); got != "b" {
		t.Errorf("delete forward at end changed text: %q", got)
	}
	w.CursorHome()
	w.DeleteBackward() // nothing before the start
	if got := w.TextValue(); got != "b" {
		t.Errorf("backspace at start changed text: %q", got)
	}
}

func TestTextCoreGraphemeClusters(t *testing.T) {
	// "e" plus a combining acute accent is one cluster of two runes.
	combined := "é"
	w := newTestText("a"+combined+"b", 0)
	w.CursorEnd()
	if w.CursorPos() != 4 {
		t.Fatalf("cursor at end = %d, want 4 runes", w.CursorPos())
	}

	w.CursorLeft() // over 'b'
	w.CursorLeft() // over the whole cluster
	if w.CursorPos() != 1 {
		t.Errorf("cursor after crossing cluster = %d, want 1", w.CursorPos())
	}

	w.CursorEnd()
	w.DeleteBackward() // 'b'
	w.DeleteBackward() // the whole cluster, not half of it
	if got := w.TextValue(); got != "a" {
		t.Errorf("after deleting cluster: %q, want %q", got, "a")
	}
}

func TestTextCoreCursorClamping(t *testing.T) {
	w := newTestText("ab", 99)
	if w.CursorPos() != 2 {
		t.Errorf("over-large initial cursor = %d, want 2", w.CursorPos())
	}
	w2 := newTestText("ab", -5)
	if w2.CursorPos() != 0 {
		t.Errorf("negative initial cursor = %d, want 0", w2.CursorPos())
	}
}

func TestSeekByte(t *testing.T) {
	// "héllo": 'h' is 1 byte, 'é' is 2.
	w := newTestText("héllo", 0)
	tests := []struct {
		off  int
		want int
	}{
		{0, 0},
		{1, 1},
		{2, 1}, // inside 'é' rounds down
		{3, 2},
		{6, 5},
		{99, 5}, // past the end clamps
		{-1, 0},
	}
	for _, tt := range tests {
		w.SeekByte(tt.off)
		if got := w.CursorPos(); got != tt.want {
			t.Errorf("SeekByte(%d): cursor = %d, want %d", tt.off, got, tt.want)
		}
	}
}

func TestReadOnlyBlocksEdits(t *testing.T) {
	ctor := NewTextCtor(types.TypeText)
	w := ctor.New(Options{ColType: types.TypeText, Text: "ab", CursorPos: 1, ReadOnly: true}).(*TextWidget)

	w.InsertRune('x')
	w.DeleteBackward()
	w.DeleteForward()
	if got := w.TextValue(); got != "ab" {
		t.Errorf("read-only text changed: %q", got)
	}
}

func TestNotifyLiveChanges(t *testing.T) {
	w := newTestText("", 0)
	var states []State
	detach := w.Notify(func(st State) { states = append(states, st) })

	w.InsertRune('h')
	w.InsertRune('i')
	if len(states) != 2 {
		t.Fatalf("notifications = %d, want 2", len(states))
	}
	if states[1].Text != "hi" || states[1].CursorPos != 2 {
		t.Errorf("last state = %+v", states[1])
	}

	detach()
	w.InsertRune('!')
	if len(states) != 2 {
		t.Error("detached subscriber still notified")
	}
}

func TestCellValueUntouchedReturnsOriginal(t *testing.T) {
	orig := 3.14
	ctor := NewTextCtor(types.TypeNumeric)
	w := ctor.New(Options{ColType: types.TypeNumeric, OrigValue: orig, OrigText: "3.14", Text: "3.14"}).(*TextWidget)

	if got := w.CellValue(); got != orig {
		t.Errorf("untouched CellValue = %v, want the original %v", got, orig)
	}

	w.CursorEnd()
	w.InsertRune('1')
	got, ok := w.CellValue().(float64)
	if !ok || got != 3.141 {
		t.Errorf("edited CellValue = %v, want 3.141", w.CellValue())
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		colType string
		want    interface{}
	}{
		{"plain text", "hello", types.TypeText, "hello"},
		{"numeric", "2.5", types.TypeNumeric, 2.5},
		{"numeric trims spaces", " 2.5 ", types.TypeNumeric, 2.5},
		{"numeric empty is nil", "", types.TypeNumeric, nil},
		{"unparseable numeric stays text", "abc", types.TypeNumeric, "abc"},
		{"int", "42", types.TypeInt, int64(42)},
		{"int empty is nil", "", types.TypeInt, nil},
		{"bool true", "true", types.TypeBool, true},
		{"bool x", "x", types.TypeBool, true},
		{"bool empty is false", "", types.TypeBool, false},
		{"bool no", "no", types.TypeBool, false},
		{"unparseable bool stays text", "maybe", types.TypeBool, "maybe"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseValue(tt.text, tt.colType); got != tt.want {
				t.Errorf("ParseValue(%q, %s) = %v (%T), want %v (%T)",
					tt.text, tt.colType, got, got, tt.want, tt.want)
			}
		})
	}
}

func TestQuickAcceptRule(t *testing.T) {
	boolCtor := NewTextCtor(types.TypeBool)
	if boolCtor.QuickAccept == nil {
		t.Fatal("bool columns must have a fast-accept rule")
	}
	textCtor := NewTextCtor(types.TypeText)
	if textCtor.QuickAccept != nil {
		t.Fatal("text columns must not have a fast-accept rule")
	}

	tests := []struct {
		name    string
		typed   string
		prev    interface{}
		want    interface{}
		handled bool
	}{
		{"space toggles false to true", " ", false, true, true},
		{"space toggles true to false", " ", true, false, true},
		{"space on nil reads as toggle to true", " ", nil, true, true},
		{"x sets true", "x", false, true, true},
		{"1 sets true", "1", false, true, true},
		{"0 sets false", "0", true, false, true},
		{"other keystroke not handled", "a", false, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, handled := boolCtor.QuickAccept(tt.typed, tt.prev)
			if handled != tt.handled {
				t.Fatalf("handled = %v, want %v", handled, tt.handled)
			}
			if handled && got != tt.want {
				t.Errorf("value = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFormulaStagedCompletion(t *testing.T) {
	ctor := NewFormulaCtor()
	if ctor.QuickAccept != nil {
		t.Fatal("formula widgets must not fast-accept")
	}
	w := ctor.New(Options{Text: "su", CursorPos: 2}).(*FormulaWidget)

	w.StageCompletion("m(a)")
	if err := w.PrepareForSave(context.Background()); err != nil {
		t.Fatalf("PrepareForSave: %v", err)
	}
	if got := w.TextValue(); got != "sum(a)" {
		t.Errorf("text after accepted completion = %q, want %q", got, "sum(a)")
	}

	// A second prepare must not re-apply the suffix.
	if err := w.PrepareForSave(context.Background()); err != nil {
		t.Fatalf("PrepareForSave: %v", err)
	}
	if got := w.TextValue(); got != "sum(a)" {
		t.Errorf("text after second prepare = %q", got)
	}
}

func TestAnchorMountUnmount(t *testing.T) {
	a := &recordingAnchor{}
	w := newTestText("x", 0)
	w.Attach(a)
	if a.mounted != w {
		t.Fatal("Attach did not mount on the anchor")
	}
	w.Detach()
	if a.mounted != nil {
		t.Fatal("Detach did not unmount")
	}
	w.Detach() // safe when already detached
}

type recordingAnchor struct {
	mounted Widget
}

func (a *recordingAnchor) Mount(w Widget)   { a.mounted = w }
func (a *recordingAnchor) Unmount(w Widget) { a.mounted = nil }
