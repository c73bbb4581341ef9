// internal/input/action.go
package input

// Action represents an operation requested by a key event, before the
// host decides whether the grid or an active edit session handles it.
type Action int

const (
	// --- Meta ---
	ActionUnknown Action = iota
	ActionQuit

	// --- Grid cursor movement ---
	ActionMoveUp
	ActionMoveDown
	ActionMoveLeft
	ActionMoveRight

	// --- Editing lifecycle ---
	ActionConfirm        // Enter: open an edit, or confirm the active one
	ActionConfirmAdvance // Ctrl+Enter: confirm without replaying into the grid
	ActionCancel         // Escape
	ActionPrevField      // Shift+Tab
	ActionNextField      // Tab
	ActionTypeRune       // plain rune: begin typing into a cell / insert into widget
	ActionDeleteBackward // Backspace
	ActionDeleteForward  // Delete

	// --- Widget-local cursor movement (only while editing) ---
	ActionCursorHome
	ActionCursorEnd

	// --- Host extras ---
	ActionYankCell // copy the current cell's display text
	ActionUndo
	ActionReload // simulate an interruption + restore from snapshot
)

// ActionEvent is a decoded input event, carrying the rune payload for
// ActionTypeRune.
type ActionEvent struct {
	Action Action
	Rune   rune
}
