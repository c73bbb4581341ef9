// internal/session/commands.go
package session

import (
	"github.com/ferrule/celled/internal/command"
	"github.com/ferrule/celled/internal/formulamode"
)

// editableCommands is the table an editable session shadows the host
// with. Handlers return Continue to fall through to the host's default
// binding for the same name.
func (s *Session) editableCommands() command.Table {
	return command.Table{
		command.ConfirmHere: func() command.Result {
			res, err := s.Save()
			if err != nil || res.SuppressAdvance {
				return command.Stop
			}
			// Plain value save with a stable row: let the host's default
			// cursor-advance handler run.
			return command.Continue
		},
		command.ConfirmAndAdvance: func() command.Result {
			s.Save() //nolint:errcheck // outcome surfaces via the sink
			return command.Stop
		},
		command.CancelEdit: func() command.Result {
			s.Cancel()
			return command.Stop
		},
		command.MoveToPrevField: s.saveThenNavigate(command.MoveToPrevField),
		command.MoveToNextField: s.saveThenNavigate(command.MoveToNextField),
		command.EnterFormulaMode: func() command.Result {
			return s.enterFormulaMode()
		},
		command.ExitFormulaMode: func() command.Result {
			return s.exitFormulaMode()
		},
	}
}

// readonlyCommands replaces the editable table for read-only contexts:
// confirmation cancels and defers to the host, mode switches are inert.
func (s *Session) readonlyCommands() command.Table {
	cancelThenContinue := func() command.Result {
		s.Cancel()
		return command.Continue
	}
	passthrough := func() command.Result { return command.Continue }

	return command.Table{
		command.ConfirmHere:       cancelThenContinue,
		command.ConfirmAndAdvance: cancelThenContinue,
		command.CancelEdit: func() command.Result {
			s.Cancel()
			return command.Stop
		},
		command.MoveToPrevField:  s.cancelThenNavigate(command.MoveToPrevField),
		command.MoveToNextField:  s.cancelThenNavigate(command.MoveToNextField),
		command.EnterFormulaMode: passthrough,
		command.ExitFormulaMode:  passthrough,
	}
}

// saveThenNavigate commits, then replays the navigation command. With
// the session's table popped at dispose, the replay lands on the host's
// default binding.
func (s *Session) saveThenNavigate(name string) command.Handler {
	return func() command.Result {
		if _, err := s.Save(); err == nil {
			s.router.Trigger(name)
		}
		return command.Stop
	}
}

func (s *Session) cancelThenNavigate(name string) command.Handler {
	return func() command.Result {
		s.Cancel()
		s.router.Trigger(name)
		return command.Stop
	}
}

// enterFormulaMode handles '=' typed at the start of the text. An empty
// column switches to formula editing; a non-empty one gets the one-shot
// conversion offer and the keystroke keeps propagating.
func (s *Session) enterFormulaMode() command.Result {
	w, ok := s.widget.Get()
	if !ok || w.CursorPos() != 0 {
		return command.Continue
	}
	s.mu.Lock()
	inFormula := s.isFormula
	disposed := s.disposed
	s.mu.Unlock()
	if disposed || inFormula {
		return command.Continue
	}

	if formulamode.CanEnter(inFormula, s.doc.ColumnIsEmpty(s.col.Ref)) {
		s.mu.Lock()
		s.isFormula = true
		s.mu.Unlock()
		text := w.TextValue()
		s.rebuild(&text, 0, nil)
		return command.Stop
	}

	if s.offer != nil {
		s.offer.Offer(s.AcceptConversionOffer)
	}
	return command.Continue
}

// exitFormulaMode handles backspace at the start of formula text. Only
// an unsaved conversion may be undone; the '=' comes back as a literal
// so a second backspace removes it.
func (s *Session) exitFormulaMode() command.Result {
	w, ok := s.widget.Get()
	if !ok || w.CursorPos() != 0 {
		return command.Continue
	}
	s.mu.Lock()
	inFormula := s.isFormula
	disposed := s.disposed
	s.mu.Unlock()
	if disposed || !formulamode.CanExit(inFormula, s.col.IsFormula) {
		return command.Continue
	}

	s.mu.Lock()
	s.isFormula = false
	s.mu.Unlock()
	text, pos := formulamode.ExitText(w.TextValue())
	s.rebuild(&text, pos, nil)
	return command.Stop
}
