// internal/app/statusbar.go
package app

import (
	"fmt"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"
)

// statusBarConfig defines the appearance and behavior of the status bar.
type statusBarConfig struct {
	StyleDefault   tcell.Style
	StyleMessage   tcell.Style
	StylePrompt    tcell.Style
	MessageTimeout time.Duration
}

func defaultStatusBarConfig() statusBarConfig {
	return statusBarConfig{
		StyleDefault:   tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorBlue),
		StyleMessage:   tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlue).Bold(true),
		StylePrompt:    tcell.StyleDefault.Foreground(tcell.ColorGreen).Background(tcell.ColorBlue).Bold(true),
		MessageTimeout: 4 * time.Second,
	}
}

// statusBar renders the bottom status line: cursor position, edit mode,
// and temporary messages (save errors, conversion prompts).
type statusBar struct {
	config statusBarConfig
	mu     sync.RWMutex

	cellLabel string
	mode      string
	prompt    string

	tempMessage     string
	tempMessageTime time.Time
}

func newStatusBar() *statusBar {
	return &statusBar{config: defaultStatusBarConfig()}
}

// SetCellInfo updates the current cell label shown in the status bar.
func (sb *statusBar) SetCellInfo(label string) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.cellLabel = label
}

// SetMode updates the displayed edit mode (e.g. "EDIT", "FORMULA").
func (sb *statusBar) SetMode(mode string) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.mode = mode
}

// SetPrompt shows a persistent prompt until cleared (conversion offers).
func (sb *statusBar) SetPrompt(prompt string) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.prompt = prompt
}

// SetTemporaryMessage displays a message for a configured duration.
func (sb *statusBar) SetTemporaryMessage(format string, args ...interface{}) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.tempMessage = fmt.Sprintf(format, args...)
	sb.tempMessageTime = time.Now()
}

func (sb *statusBar) defaultDisplayText() string {
	label := sb.cellLabel
	if label == "" {
		label = "[No Cell]"
	}
	modeIndicator := ""
	if sb.mode != "" {
		modeIndicator = fmt.Sprintf(" -- %s", sb.mode)
	}
	return fmt.Sprintf("%s%s", label, modeIndicator)
}

// Draw renders the status bar onto the last screen row.
func (sb *statusBar) Draw(screen tcell.Screen, width, height int) {
	if height <= 0 || width <= 0 {
		return
	}
	y := height - 1

	sb.mu.Lock()
	isTempMsgActive := !sb.tempMessageTime.IsZero() && time.Since(sb.tempMessageTime) <= sb.config.MessageTimeout
	if !sb.tempMessageTime.IsZero() && !isTempMsgActive {
		sb.tempMessage = ""
		sb.tempMessageTime = time.Time{}
	}

	var style tcell.Style
	var text string
	switch {
	case sb.prompt != "":
		text = sb.prompt
		style = sb.config.StylePrompt
	case isTempMsgActive:
		text = sb.tempMessage
		style = sb.config.StyleMessage
	default:
		text = sb.defaultDisplayText()
		style = sb.config.StyleDefault
	}
	sb.mu.Unlock()

	for x := 0; x < width; x++ {
		screen.SetContent(x, y, ' ', nil, style)
	}

	gr := uniseg.NewGraphemes(text)
	currentX := 0
	for gr.Next() {
		clusterWidth := gr.Width()
		if currentX+clusterWidth > width {
			break
		}
		runes := gr.Runes()
		if len(runes) > 0 {
			mainRune := runes[0]
			var combiningRunes []rune
			if len(runes) > 1 {
				combiningRunes = runes[1:]
			}
			screen.SetContent(currentX, y, mainRune, combiningRunes, style)
		}
		currentX += clusterWidth
	}
}
