// internal/app/ui.go
package app

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/ferrule/celled/internal/session"
	"github.com/ferrule/celled/internal/types"
	"github.com/ferrule/celled/internal/widget"
)

const (
	colWidth  = 14
	rowLabelW = 5
	gridTop   = 1

	placeholderGlyph = "~"
)

var (
	styleDefault = tcell.StyleDefault
	styleHeader  = tcell.StyleDefault.Bold(true).Foreground(tcell.ColorYellow)
	styleCursor  = tcell.StyleDefault.Reverse(true)
	styleEditing = tcell.StyleDefault.Background(tcell.ColorDarkBlue).Foreground(tcell.ColorWhite)
	styleError   = tcell.StyleDefault.Foreground(tcell.ColorRed)
)

func (a *App) draw() {
	a.screen.Clear()
	width, height := a.screen.Size()

	a.drawHeaders(width)
	a.drawRows(width, height)
	a.drawEditOverlay(width)
	a.updateStatusBar()
	a.statusBar.Draw(a.screen, width, height)

	a.screen.Show()
}

func (a *App) drawHeaders(width int) {
	cols := a.doc.Columns()
	x := rowLabelW
	for _, col := range cols {
		if x >= width {
			break
		}
		label := col.Label
		if col.IsFormula {
			label = "ƒ " + label
		}
		drawText(a.screen, x, 0, colWidth, styleHeader, label)
		x += colWidth + 1
	}
}

func (a *App) drawRows(width, height int) {
	cols := a.doc.Columns()
	rowCount := a.doc.RowCount()
	maxVisible := height - gridTop - 1

	for i := 0; i <= rowCount && i < maxVisible; i++ {
		y := gridTop + i
		if i < rowCount {
			drawText(a.screen, 0, y, rowLabelW-1, styleDefault, fmt.Sprintf("%4d", i+1))
		} else {
			// The new-row placeholder past the last real row.
			drawText(a.screen, 0, y, rowLabelW-1, styleDefault, fmt.Sprintf("%4s", placeholderGlyph))
		}
		rowID := a.doc.RowIDAt(i)

		x := rowLabelW
		for c, col := range cols {
			if x >= width {
				break
			}
			style := styleDefault
			if a.cursor.Row() == i && a.cursor.Col() == c {
				style = styleCursor
			}

			var text string
			if i < rowCount {
				raw, err := a.doc.Value(rowID, col.Ref)
				if err == nil {
					text = session.FormatValue(raw)
					if _, isExc := types.AsException(raw); isExc && style == styleDefault {
						style = styleError
					}
				}
			}
			drawText(a.screen, x, y, colWidth, style, padTo(text, colWidth))
			x += colWidth + 1
		}
	}
}

// drawEditOverlay renders the mounted editor in place of the cell under
// the cursor, with its own cursor shown by the terminal.
func (a *App) drawEditOverlay(width int) {
	w, ok := a.overlay.Current()
	if !ok {
		a.screen.HideCursor()
		return
	}

	y := gridTop + a.cursor.Row()
	x := rowLabelW + a.cursor.Col()*(colWidth+1)
	text := w.TextValue()

	prefix := ""
	if s := a.activeSession(); s != nil && s.IsFormula() {
		prefix = "="
	}
	drawText(a.screen, x, y, colWidth, styleEditing, padTo(prefix+text, colWidth))

	// Place the terminal cursor at the widget's rune cursor, offset by
	// the visual width of the text before it.
	cursorX := x + textWidth(prefix) + textWidth(string([]rune(text)[:clampInt(w.CursorPos(), 0, len([]rune(text)))]))
	if cursorX < x+colWidth && cursorX < width {
		a.screen.ShowCursor(cursorX, y)
	} else {
		a.screen.HideCursor()
	}
}

// clickInOverlay maps a click inside the editing cell to a cursor
// position in the widget. Clicks elsewhere return false and fall back
// to the click-away path.
func (a *App) clickInOverlay(x, y int, w widget.Widget) bool {
	cellY := gridTop + a.cursor.Row()
	cellX := rowLabelW + a.cursor.Col()*(colWidth+1)
	if y != cellY || x < cellX || x >= cellX+colWidth {
		return false
	}

	col := x - cellX
	if s := a.activeSession(); s != nil && s.IsFormula() {
		col-- // the rendered "=" prefix is not part of the text
	}
	if seeker, ok := w.(interface{ SeekByte(int) }); ok {
		seeker.SeekByte(byteOffsetAt(w.TextValue(), col))
	}
	return true
}

// byteOffsetAt walks grapheme clusters up to the visual column and
// returns the byte offset under it, len(text) past the end.
func byteOffsetAt(text string, col int) int {
	if col <= 0 {
		return 0
	}
	off := 0
	width := 0
	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		if width >= col {
			break
		}
		width += gr.Width()
		_, off = gr.Positions()
	}
	return off
}

func (a *App) updateStatusBar() {
	col := a.currentColumn()
	label := ""
	if col != nil {
		label = fmt.Sprintf("%s:%d", col.Ref, a.cursor.Row()+1)
	}
	a.statusBar.SetCellInfo(label)

	mode := ""
	prompt := ""
	if s := a.activeSession(); s != nil {
		mode = "EDIT"
		if s.IsFormula() {
			mode = "FORMULA"
		}
		if a.cfg.Editor.Readonly {
			mode = "READONLY"
		}
		if obs := s.ErrorDetail(); obs != nil {
			exc := obs.Get()
			if exc.Detail != "" {
				prompt = fmt.Sprintf("#%s: %s", exc.Code, exc.Detail)
			} else {
				prompt = fmt.Sprintf("#%s: %s", exc.Code, exc.Summary)
			}
		}
	}
	if a.offer.Pending() {
		prompt = "Convert column to formula? (y to accept, keep typing to dismiss)"
	}
	a.statusBar.SetMode(mode)
	a.statusBar.SetPrompt(prompt)
}

// drawText writes a string clipped to maxWidth visual cells.
func drawText(screen tcell.Screen, x, y, maxWidth int, style tcell.Style, text string) {
	gr := uniseg.NewGraphemes(text)
	currentX := x
	for gr.Next() {
		clusterWidth := gr.Width()
		if currentX-x+clusterWidth > maxWidth {
			break
		}
		runes := gr.Runes()
		if len(runes) > 0 {
			var combining []rune
			if len(runes) > 1 {
				combining = runes[1:]
			}
			screen.SetContent(currentX, y, runes[0], combining, style)
		}
		currentX += clusterWidth
	}
}

func padTo(text string, width int) string {
	w := textWidth(text)
	for w < width {
		text += " "
		w++
	}
	return text
}

func textWidth(text string) int {
	w := 0
	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		w += gr.Width()
	}
	return w
}
