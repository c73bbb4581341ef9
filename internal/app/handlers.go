// internal/app/handlers.go
package app

import (
	"github.com/ferrule/celled/internal/command"
	"github.com/ferrule/celled/internal/input"
	"github.com/ferrule/celled/internal/session"
	"github.com/gdamore/tcell/v2"
)

// textEditor is the editing surface both widget variants expose; the
// host drives it for keys the command router does not intercept.
type textEditor interface {
	InsertRune(r rune)
	DeleteBackward()
	DeleteForward()
	CursorLeft()
	CursorRight()
	CursorHome()
	CursorEnd()
}

func (a *App) handleKeyEvent(ev *tcell.EventKey) {
	actionEvent := a.processor.ProcessEvent(ev)

	if s := a.activeSession(); s != nil {
		a.handleEditingAction(actionEvent, s)
		return
	}
	a.handleGridAction(actionEvent)
}

// handleEditingAction routes keys while an edit session is active.
func (a *App) handleEditingAction(ae input.ActionEvent, s *session.Session) {
	w, haveWidget := s.Widget()
	var ed textEditor
	if haveWidget {
		ed, _ = w.(textEditor)
	}

	switch ae.Action {
	case input.ActionTypeRune:
		if a.offer.Pending() {
			if ae.Rune == 'y' || ae.Rune == 'Y' {
				a.offer.Accept()
				return
			}
			a.offer.Dismiss()
		}
		if ae.Rune == '=' && haveWidget && w.CursorPos() == 0 {
			if a.router.Trigger(command.EnterFormulaMode) == command.Stop {
				return
			}
		}
		if ed != nil {
			ed.InsertRune(ae.Rune)
		}

	case input.ActionDeleteBackward:
		if haveWidget && w.CursorPos() == 0 {
			if a.router.Trigger(command.ExitFormulaMode) == command.Stop {
				return
			}
		}
		if ed != nil {
			ed.DeleteBackward()
		}

	case input.ActionDeleteForward:
		if ed != nil {
			ed.DeleteForward()
		}

	case input.ActionConfirm:
		a.checkpoint()
		a.router.Trigger(command.ConfirmHere)

	case input.ActionConfirmAdvance:
		a.checkpoint()
		a.router.Trigger(command.ConfirmAndAdvance)

	case input.ActionNextField:
		a.checkpoint()
		a.router.Trigger(command.MoveToNextField)

	case input.ActionPrevField:
		a.checkpoint()
		a.router.Trigger(command.MoveToPrevField)

	case input.ActionCancel:
		a.router.Trigger(command.CancelEdit)

	case input.ActionMoveLeft:
		if ed != nil {
			ed.CursorLeft()
		}
	case input.ActionMoveRight:
		if ed != nil {
			ed.CursorRight()
		}
	case input.ActionCursorHome:
		if ed != nil {
			ed.CursorHome()
		}
	case input.ActionCursorEnd:
		if ed != nil {
			ed.CursorEnd()
		}

	case input.ActionMoveUp, input.ActionMoveDown:
		// Moving rows mid-edit confirms first, like the grid does.
		a.checkpoint()
		a.router.Trigger(command.ConfirmHere)

	case input.ActionReload:
		a.simulateReload()

	case input.ActionQuit:
		a.requestQuit()
	}
}

// handleGridAction routes keys while no edit is active.
func (a *App) handleGridAction(ae input.ActionEvent) {
	switch ae.Action {
	case input.ActionMoveUp:
		a.cursor.move(-1, 0, a.maxRow(), a.maxCol())
	case input.ActionMoveDown:
		a.cursor.move(1, 0, a.maxRow(), a.maxCol())
	case input.ActionMoveLeft:
		a.cursor.move(0, -1, a.maxRow(), a.maxCol())
	case input.ActionMoveRight:
		a.cursor.move(0, 1, a.maxRow(), a.maxCol())
	case input.ActionNextField:
		a.router.Trigger(command.MoveToNextField)
	case input.ActionPrevField:
		a.router.Trigger(command.MoveToPrevField)

	case input.ActionTypeRune:
		typed := string(ae.Rune)
		a.openSession(&typed)

	case input.ActionConfirm:
		// Enter opens the cell for editing its existing content, the
		// double-click analog.
		a.openSession(nil)

	case input.ActionYankCell:
		a.yankCell()

	case input.ActionUndo:
		if _, err := a.doc.Undo(); err != nil {
			a.errorSink(err)
		}

	case input.ActionReload:
		a.simulateReload()

	case input.ActionQuit:
		a.requestQuit()
	}
}
