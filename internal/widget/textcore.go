// internal/widget/textcore.go
package widget

import (
	"sync"
	"unicode/utf8"

	"github.com/ferrule/celled/internal/utils"
	"github.com/rivo/uniseg"
)

// textCore is the single-line editing engine both variants share.
// Cursor positions are rune indices; movement and deletion operate on
// grapheme clusters so combined characters never split.
type textCore struct {
	mu       sync.Mutex
	text     string
	cursor   int // rune index
	readOnly bool
	anchor   Anchor

	nextSub int
	subs    map[int]func(State)
}

func newTextCore(text string, cursor int, readOnly bool) *textCore {
	tc := &textCore{
		text:     text,
		readOnly: readOnly,
		subs:     make(map[int]func(State)),
	}
	tc.cursor = tc.clamp(cursor)
	return tc
}

func (tc *textCore) clamp(pos int) int {
	n := utf8.RuneCountInString(tc.text)
	if pos < 0 {
		return 0
	}
	if pos > n {
		return n
	}
	return pos
}

// Notify subscribes to live-state snapshots; every edit delivers one.
func (tc *textCore) Notify(fn func(State)) (detach func()) {
	tc.mu.Lock()
	tc.nextSub++
	id := tc.nextSub
	tc.subs[id] = fn
	tc.mu.Unlock()
	return func() {
		tc.mu.Lock()
		delete(tc.subs, id)
		tc.mu.Unlock()
	}
}

// notifyLocked snapshots under the lock, then delivers outside it.
func (tc *textCore) notify() {
	tc.mu.Lock()
	snap := State{Text: tc.text, CursorPos: tc.cursor}
	fns := make([]func(State), 0, len(tc.subs))
	for _, fn := range tc.subs {
		fns = append(fns, fn)
	}
	tc.mu.Unlock()
	for _, fn := range fns {
		fn(snap)
	}
}

func (tc *textCore) TextValue() string {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	return tc.text
}

func (tc *textCore) CursorPos() int {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	return tc.cursor
}

func (tc *textCore) Snapshot() State {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	return State{Text: tc.text, CursorPos: tc.cursor}
}

func (tc *textCore) Attach(a Anchor) {
	tc.mu.Lock()
	tc.anchor = a
	tc.mu.Unlock()
}

// Dom returns the mounted surface, nil when detached.
func (tc *textCore) Dom() Anchor {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	return tc.anchor
}

func (tc *textCore) detach() {
	tc.mu.Lock()
	tc.anchor = nil
	tc.mu.Unlock()
}

// InsertRune inserts r at the cursor.
func (tc *textCore) InsertRune(r rune) {
	tc.mu.Lock()
	if tc.readOnly {
		tc.mu.Unlock()
		return
	}
	off := utils.RuneIndexToByteOffset(tc.text, tc.cursor)
	tc.text = tc.text[:off] + string(r) + tc.text[off:]
	tc.cursor++
	tc.mu.Unlock()
	tc.notify()
}

// DeleteBackward removes the grapheme cluster before the cursor.
func (tc *textCore) DeleteBackward() {
	tc.mu.Lock()
	if tc.readOnly || tc.cursor == 0 {
		tc.mu.Unlock()
		return
	}
	start, end := tc.clusterBefore(tc.cursor)
	startOff := utils.RuneIndexToByteOffset(tc.text, start)
	endOff := utils.RuneIndexToByteOffset(tc.text, end)
	tc.text = tc.text[:startOff] + tc.text[endOff:]
	tc.cursor = start
	tc.mu.Unlock()
	tc.notify()
}

// DeleteForward removes the grapheme cluster after the cursor.
func (tc *textCore) DeleteForward() {
	tc.mu.Lock()
	if tc.readOnly || tc.cursor >= utf8.RuneCountInString(tc.text) {
		tc.mu.Unlock()
		return
	}
	start, end := tc.clusterAfter(tc.cursor)
	startOff := utils.RuneIndexToByteOffset(tc.text, start)
	endOff := utils.RuneIndexToByteOffset(tc.text, end)
	tc.text = tc.text[:startOff] + tc.text[endOff:]
	tc.mu.Unlock()
	tc.notify()
}

// CursorLeft moves one grapheme cluster left.
func (tc *textCore) CursorLeft() {
	tc.mu.Lock()
	if tc.cursor > 0 {
		start, _ := tc.clusterBefore(tc.cursor)
		tc.cursor = start
	}
	tc.mu.Unlock()
}

// CursorRight moves one grapheme cluster right.
func (tc *textCore) CursorRight() {
	tc.mu.Lock()
	if tc.cursor < utf8.RuneCountInString(tc.text) {
		_, end := tc.clusterAfter(tc.cursor)
		tc.cursor = end
	}
	tc.mu.Unlock()
}

// CursorHome moves to the start of the text.
func (tc *textCore) CursorHome() {
	tc.mu.Lock()
	tc.cursor = 0
	tc.mu.Unlock()
}

// CursorEnd moves past the last rune.
func (tc *textCore) CursorEnd() {
	tc.mu.Lock()
	tc.cursor = utf8.RuneCountInString(tc.text)
	tc.mu.Unlock()
}

// SeekByte places the cursor at the rune covering the given byte
// offset, for pointer-driven positioning within the rendered text.
// Offsets inside a rune round down; out-of-range offsets clamp.
func (tc *textCore) SeekByte(off int) {
	tc.mu.Lock()
	tc.cursor = utils.ByteOffsetToRuneIndex(tc.text, off)
	tc.mu.Unlock()
}

// clusterBefore returns the rune range [start, end) of the grapheme
// cluster ending at rune index pos. Caller holds the lock.
func (tc *textCore) clusterBefore(pos int) (int, int) {
	gr := uniseg.NewGraphemes(tc.text)
	runeIdx := 0
	start, end := pos-1, pos
	for gr.Next() {
		n := len(gr.Runes())
		if runeIdx+n >= pos {
			start, end = runeIdx, runeIdx+n
			break
		}
		runeIdx += n
	}
	return start, end
}

// clusterAfter returns the rune range [start, end) of the grapheme
// cluster starting at or covering rune index pos. Caller holds the lock.
func (tc *textCore) clusterAfter(pos int) (int, int) {
	gr := uniseg.NewGraphemes(tc.text)
	runeIdx := 0
	for gr.Next() {
		n := len(gr.Runes())
		if runeIdx+n > pos {
			return runeIdx, runeIdx + n
		}
		runeIdx += n
	}
	return pos, pos + 1
}
