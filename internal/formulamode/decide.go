// internal/formulamode/decide.go

// Package formulamode holds the pure decision logic for moving a cell
// edit between plain-value and formula interpretation. It has no state;
// the session owns the mode and calls in here at the decision points.
package formulamode

import "strings"

// Initial decides the starting interpretation of an edit.
//
// Formula editing starts when the column already holds a real formula,
// or when the typed text begins with '=' and the column is empty (the
// '=' is then stripped from the editable text). Typing '=' into a
// non-empty, non-formula column stays in value mode and instead offers
// a one-shot conversion.
type Initial struct {
	IsFormula    bool
	Text         string // editable text after any '=' stripping
	OfferConvert bool
}

// DecideInitial applies the decision table to the typed text (empty
// when the edit opened without typing) and the column's state.
func DecideInitial(typed string, colIsFormula, colEmpty bool) Initial {
	if colIsFormula {
		return Initial{IsFormula: true, Text: strings.TrimPrefix(typed, "=")}
	}
	if strings.HasPrefix(typed, "=") {
		if colEmpty {
			return Initial{IsFormula: true, Text: typed[1:]}
		}
		return Initial{IsFormula: false, Text: typed, OfferConvert: true}
	}
	return Initial{IsFormula: false, Text: typed}
}

// CanEnter reports whether typing '=' at the start of the text switches
// an active value edit into formula mode. A non-empty column never
// switches silently; the caller presents the conversion offer instead.
func CanEnter(inFormulaUI, colEmpty bool) bool {
	return !inFormulaUI && colEmpty
}

// CanExit reports whether backspacing over the leading position may undo
// a formula conversion. Only an unsaved conversion can be undone; a
// column whose stored definition is a genuine formula stays in formula
// mode.
func CanExit(inFormulaUI, colIsFormula bool) bool {
	return inFormulaUI && !colIsFormula
}

// ExitText re-prepends the literal '=' the user originally typed, so a
// further backspace removes it like any character. The cursor belongs
// just after it.
func ExitText(text string) (newText string, cursorPos int) {
	return "=" + text, 1
}

// AcceptOffer converts the current text for an accepted conversion
// offer: one leading '=' is stripped, the cursor moves to the start.
func AcceptOffer(text string) string {
	return strings.TrimPrefix(text, "=")
}
