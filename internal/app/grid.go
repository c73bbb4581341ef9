// internal/app/grid.go
package app

import (
	"sync"

	"github.com/ferrule/celled/internal/command"
	"github.com/ferrule/celled/internal/docmodel"
)

// gridCursor tracks the selected cell by view indices. It implements
// session.Cursor; the save path watches RowIndex across the write.
type gridCursor struct {
	mu  sync.Mutex
	row int
	col int
}

func (c *gridCursor) RowIndex() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.row
}

func (c *gridCursor) Row() int {
	return c.RowIndex()
}

func (c *gridCursor) Col() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.col
}

func (c *gridCursor) move(dRow, dCol, maxRow, maxCol int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.row = clampInt(c.row+dRow, 0, maxRow)
	c.col = clampInt(c.col+dCol, 0, maxCol)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// maxRow returns the last selectable row index: the new-row placeholder
// sits just past the real rows.
func (a *App) maxRow() int {
	return a.doc.RowCount()
}

func (a *App) maxCol() int {
	return len(a.doc.Columns()) - 1
}

func (a *App) currentColumn() *docmodel.Column {
	cols := a.doc.Columns()
	idx := a.cursor.Col()
	if idx < 0 || idx >= len(cols) {
		return nil
	}
	return cols[idx]
}

// baseCommands is the host's default table at the bottom of the router
// stack. The session's confirm handlers fall through (or replay) into
// these.
func (a *App) baseCommands() command.Table {
	return command.Table{
		command.ConfirmHere: func() command.Result {
			// Default cursor-advance behavior after a confirmed edit.
			a.cursor.move(1, 0, a.maxRow(), a.maxCol())
			return command.Stop
		},
		command.ConfirmAndAdvance: func() command.Result {
			a.cursor.move(1, 0, a.maxRow(), a.maxCol())
			return command.Stop
		},
		command.MoveToNextField: func() command.Result {
			a.cursor.move(0, 1, a.maxRow(), a.maxCol())
			return command.Stop
		},
		command.MoveToPrevField: func() command.Result {
			a.cursor.move(0, -1, a.maxRow(), a.maxCol())
			return command.Stop
		},
	}
}
