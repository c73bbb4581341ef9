// internal/widget/value.go
package widget

import (
	"context"
	"strconv"
	"strings"

	"github.com/ferrule/celled/internal/types"
)

// TextWidget edits a plain (non-formula) cell value as text and parses
// it back per the column's declared type on commit.
type TextWidget struct {
	*textCore
	colType   string
	origValue interface{}
	origText  string
}

// NewTextCtor returns the plain-value editor constructor, with the
// built-in fast-accept rule for the given column type (nil for types
// that have none).
func NewTextCtor(colType string) Ctor {
	return Ctor{
		New: func(opts Options) Widget {
			return &TextWidget{
				textCore:  newTextCore(opts.Text, opts.CursorPos, opts.ReadOnly),
				colType:   opts.ColType,
				origValue: opts.OrigValue,
				origText:  opts.OrigText,
			}
		},
		QuickAccept: quickAcceptFor(colType),
	}
}

func (w *TextWidget) Attach(a Anchor) {
	w.textCore.Attach(a)
	a.Mount(w)
}

func (w *TextWidget) Detach() {
	if a := w.Dom(); a != nil {
		a.Unmount(w)
	}
	w.textCore.detach()
}

// PrepareForSave has nothing to settle for plain text editing.
func (w *TextWidget) PrepareForSave(ctx context.Context) error {
	return ctx.Err()
}

// CellValue parses the edited text per the column type. Text matching
// the stored value's display form returns the original value unchanged,
// so an open-and-confirm edit is a no-op write (the equality gate then
// skips it).
func (w *TextWidget) CellValue() interface{} {
	text := w.TextValue()
	if text == w.origText {
		return w.origValue
	}
	return ParseValue(text, w.colType)
}

// ParseValue converts edited text to a typed cell value. Unparseable
// input stays a string; the document stores what the user typed.
func ParseValue(text, colType string) interface{} {
	switch colType {
	case types.TypeBool:
		switch strings.ToLower(strings.TrimSpace(text)) {
		case "true", "yes", "1", "x":
			return true
		case "false", "no", "0", "":
			return false
		}
		return text
	case types.TypeNumeric:
		if text == "" {
			return nil
		}
		if f, err := strconv.ParseFloat(strings.TrimSpace(text), 64); err == nil {
			return f
		}
		return text
	case types.TypeInt:
		if text == "" {
			return nil
		}
		if n, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64); err == nil {
			return n
		}
		return text
	default:
		return text
	}
}

// quickAcceptFor returns the variant-level fast-accept rule. Bool cells
// commit straight from a single keystroke: space toggles, "x"/"1" set
// true, "0" sets false.
func quickAcceptFor(colType string) QuickAccept {
	if colType != types.TypeBool {
		return nil
	}
	return func(typed string, prev interface{}) (interface{}, bool) {
		switch typed {
		case " ":
			b, _ := prev.(bool)
			return !b, true
		case "x", "X", "1":
			return true, true
		case "0":
			return false, true
		}
		return nil, false
	}
}
