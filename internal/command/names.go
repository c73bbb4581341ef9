// internal/command/names.go
package command

// Command names shared between the edit session tables and the host's
// base table. The session shadows a subset of the host's bindings while
// an edit is active; anything it returns Continue for falls through to
// the host's default handler.
const (
	ConfirmHere       = "confirm-here"        // commit, cursor stays (host may advance)
	ConfirmAndAdvance = "confirm-and-advance" // commit, never re-propagates
	CancelEdit        = "cancel"              // tear down without persisting
	MoveToPrevField   = "move-to-previous-field"
	MoveToNextField   = "move-to-next-field"
	EnterFormulaMode  = "enter-formula-mode"
	ExitFormulaMode   = "exit-formula-mode"
)
