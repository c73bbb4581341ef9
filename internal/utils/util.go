package utils

import (
	"sync"
	"time"
	"unicode/utf8"
)

// RuneIndexToByteOffset converts a rune index to a byte offset in s.
// Returns len(s) when runeIndex points just past the end, -1 when it is
// out of bounds.
func RuneIndexToByteOffset(s string, runeIndex int) int {
	if runeIndex <= 0 {
		return 0
	}
	byteOffset := 0
	currentRune := 0
	for byteOffset < len(s) {
		if currentRune == runeIndex {
			return byteOffset
		}
		_, size := utf8.DecodeRuneInString(s[byteOffset:])
		byteOffset += size
		currentRune++
	}
	if currentRune == runeIndex {
		return len(s)
	}
	return -1
}

// ByteOffsetToRuneIndex converts a byte offset to a rune index in s.
// Offsets inside a rune round down; out-of-range offsets clamp.
func ByteOffsetToRuneIndex(s string, byteOffset int) int {
	if byteOffset <= 0 {
		return 0
	}
	if byteOffset > len(s) {
		byteOffset = len(s)
	}
	runeIndex := 0
	currentOffset := 0
	for currentOffset < byteOffset {
		_, size := utf8.DecodeRuneInString(s[currentOffset:])
		if currentOffset+size > byteOffset {
			break
		}
		currentOffset += size
		runeIndex++
	}
	return runeIndex
}

// Debouncer coalesces bursts of calls into one delayed invocation.
type Debouncer struct {
	mutex sync.Mutex
	timer *time.Timer
}

// Debounce schedules fn after d, cancelling any pending call.
func (db *Debouncer) Debounce(d time.Duration, fn func()) {
	db.mutex.Lock()
	defer db.mutex.Unlock()
	if db.timer != nil {
		db.timer.Stop()
	}
	db.timer = time.AfterFunc(d, fn)
}

// Stop cancels any pending invocation.
func (db *Debouncer) Stop() {
	db.mutex.Lock()
	defer db.mutex.Unlock()
	if db.timer != nil {
		db.timer.Stop()
		db.timer = nil
	}
}
