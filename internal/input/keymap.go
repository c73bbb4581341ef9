// internal/input/keymap.go
package input

import (
	"github.com/gdamore/tcell/v2"
)

// Keymap maps special keys (Enter, arrows, ...) to actions.
type Keymap map[tcell.Key]Action

// ModKeymap maps keys combined with a modifier mask to actions.
type ModKeymap map[tcell.ModMask]Keymap

// Processor translates tcell key events into ActionEvents. The host
// interprets the action according to whether an edit is active.
type Processor struct {
	keymap    Keymap
	modKeymap ModKeymap
}

// NewProcessor creates a processor with the default bindings.
func NewProcessor() *Processor {
	p := &Processor{
		keymap:    make(Keymap),
		modKeymap: make(ModKeymap),
	}
	p.loadDefaultBindings()
	return p
}

func (p *Processor) loadDefaultBindings() {
	p.keymap[tcell.KeyUp] = ActionMoveUp
	p.keymap[tcell.KeyDown] = ActionMoveDown
	p.keymap[tcell.KeyLeft] = ActionMoveLeft
	p.keymap[tcell.KeyRight] = ActionMoveRight
	p.keymap[tcell.KeyHome] = ActionCursorHome
	p.keymap[tcell.KeyEnd] = ActionCursorEnd
	p.keymap[tcell.KeyEnter] = ActionConfirm
	p.keymap[tcell.KeyTab] = ActionNextField
	p.keymap[tcell.KeyBacktab] = ActionPrevField
	p.keymap[tcell.KeyEscape] = ActionCancel
	p.keymap[tcell.KeyBackspace] = ActionDeleteBackward
	p.keymap[tcell.KeyBackspace2] = ActionDeleteBackward
	p.keymap[tcell.KeyDelete] = ActionDeleteForward
	p.keymap[tcell.KeyF5] = ActionReload

	ctrlMap := make(Keymap)
	ctrlMap[tcell.KeyEnter] = ActionConfirmAdvance
	ctrlMap[tcell.KeyCtrlQ] = ActionQuit
	ctrlMap[tcell.KeyCtrlC] = ActionYankCell
	ctrlMap[tcell.KeyCtrlZ] = ActionUndo
	p.modKeymap[tcell.ModCtrl] = ctrlMap
}

// ProcessEvent decodes a tcell key event. Plain runes come back as
// ActionTypeRune with the rune attached; the host decides whether that
// begins an edit or inserts into the active widget.
func (p *Processor) ProcessEvent(ev *tcell.EventKey) ActionEvent {
	key := ev.Key()
	mod := ev.Modifiers()

	if modMap, ok := p.modKeymap[mod]; ok {
		if action, ok := modMap[key]; ok {
			return ActionEvent{Action: action}
		}
	}
	// tcell encodes Ctrl+letter as a distinct Key; strip the modifier so
	// the plain-key map below is not consulted with a stale mask.
	if key >= tcell.KeyCtrlA && key <= tcell.KeyCtrlZ {
		mod &^= tcell.ModCtrl
	}

	if mod == tcell.ModNone || mod == tcell.ModShift {
		if action, ok := p.keymap[key]; ok {
			return ActionEvent{Action: action}
		}
	}

	if key == tcell.KeyRune && mod == tcell.ModNone {
		return ActionEvent{Action: ActionTypeRune, Rune: ev.Rune()}
	}

	return ActionEvent{Action: ActionUnknown}
}
