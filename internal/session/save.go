// internal/session/save.go
package session

import "sync"

// SaveResult tells the caller how to behave after the save settles.
type SaveResult struct {
	// SuppressAdvance means the host must not run its default
	// cursor-advance behavior: the save was a formula commit, or the
	// row's view index moved while the save was in flight.
	SuppressAdvance bool
}

// saveFlight is a guarded lazy cell making the save single-flight: the
// first trigger runs the operation, concurrent and later triggers block
// on the same settled outcome. The cell never resets; one session
// performs at most one save.
type saveFlight struct {
	once sync.Once
	done chan struct{}
	res  SaveResult
	err  error
}

func newSaveFlight() *saveFlight {
	return &saveFlight{done: make(chan struct{})}
}

// do runs fn exactly once and returns its settled outcome to every
// caller.
func (f *saveFlight) do(fn func() (SaveResult, error)) (SaveResult, error) {
	f.once.Do(func() {
		defer close(f.done)
		f.res, f.err = fn()
	})
	<-f.done
	return f.res, f.err
}

// settled reports whether the save has run to completion.
func (f *saveFlight) settled() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}
