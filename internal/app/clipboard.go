// internal/app/clipboard.go
package app

import (
	"github.com/atotto/clipboard"

	"github.com/ferrule/celled/internal/logger"
	"github.com/ferrule/celled/internal/session"
)

// yankCell copies the rendered value of the cell under the cursor to
// the system clipboard, when enabled in the config.
func (a *App) yankCell() {
	if !a.cfg.Editor.SystemClipboard {
		a.statusBar.SetTemporaryMessage("System clipboard disabled")
		return
	}
	col := a.currentColumn()
	if col == nil {
		return
	}
	rowID := a.doc.RowIDAt(a.cursor.Row())
	raw, err := a.doc.Value(rowID, col.Ref)
	if err != nil {
		a.errorSink(err)
		return
	}
	text := session.FormatValue(raw)
	if err := clipboard.WriteAll(text); err != nil {
		logger.Errorf("App: clipboard write failed: %v", err)
		a.statusBar.SetTemporaryMessage("Clipboard error: %v", err)
		return
	}
	a.statusBar.SetTemporaryMessage("Yanked %q", text)
}
