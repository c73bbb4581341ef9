// internal/input/keymap_test.go
package input

import (
	"testing"

	"github.com/gdamore/tcell/v2"
)

func TestProcessEvent(t *testing.T) {
	p := NewProcessor()

	tests := []struct {
		name string
		ev   *tcell.EventKey
		want Action
	}{
		{"enter confirms", tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), ActionConfirm},
		{"ctrl-enter confirms in place", tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModCtrl), ActionConfirmAdvance},
		{"tab moves to next field", tcell.NewEventKey(tcell.KeyTab, 0, tcell.ModNone), ActionNextField},
		{"backtab moves to previous field", tcell.NewEventKey(tcell.KeyBacktab, 0, tcell.ModShift), ActionPrevField},
		{"escape cancels", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), ActionCancel},
		{"backspace deletes backward", tcell.NewEventKey(tcell.KeyBackspace2, 0, tcell.ModNone), ActionDeleteBackward},
		{"delete deletes forward", tcell.NewEventKey(tcell.KeyDelete, 0, tcell.ModNone), ActionDeleteForward},
		{"arrows move", tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModNone), ActionMoveDown},
		{"f5 reloads", tcell.NewEventKey(tcell.KeyF5, 0, tcell.ModNone), ActionReload},
		{"ctrl-q quits", tcell.NewEventKey(tcell.KeyCtrlQ, 0, tcell.ModCtrl), ActionQuit},
		{"ctrl-c yanks", tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl), ActionYankCell},
		{"ctrl-z undoes", tcell.NewEventKey(tcell.KeyCtrlZ, 0, tcell.ModCtrl), ActionUndo},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.ProcessEvent(tt.ev)
			if got.Action != tt.want {
				t.Errorf("ProcessEvent = %v, want %v", got.Action, tt.want)
			}
		})
	}
}

func TestProcessEventRunes(t *testing.T) {
	p := NewProcessor()

	got := p.ProcessEvent(tcell.NewEventKey(tcell.KeyRune, '=', tcell.ModNone))
	if got.Action != ActionTypeRune || got.Rune != '=' {
		t.Errorf("rune event = %+v, want ActionTypeRune with '='", got)
	}

	// An unbound chord decodes to unknown rather than a stray rune.
	got = p.ProcessEvent(tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModAlt))
	if got.Action != ActionUnknown {
		t.Errorf("alt-x = %+v, want ActionUnknown", got)
	}
}
