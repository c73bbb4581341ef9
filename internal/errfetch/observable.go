// internal/errfetch/observable.go

// Package errfetch resolves richer detail for a formula cell whose last
// evaluation raised an error. The editor shows the short summary
// immediately; the detail arrives asynchronously and replaces it.
package errfetch

import (
	"context"
	"sync"

	"github.com/ferrule/celled/internal/logger"
	"github.com/ferrule/celled/internal/types"
)

// Observable holds the exception value shown next to a formula editor.
// It is seeded with the raw marker, fulfilled at most once with the
// fetched detail, and disposed with its session.
type Observable struct {
	mu        sync.Mutex
	value     types.RaisedException
	fulfilled bool
	disposed  bool
	nextSub   int
	subs      map[int]func(types.RaisedException)
}

// NewObservable seeds an observable with the raw exception marker.
func NewObservable(seed types.RaisedException) *Observable {
	return &Observable{
		value: seed,
		subs:  make(map[int]func(types.RaisedException)),
	}
}

// Get returns the current exception value.
func (o *Observable) Get() types.RaisedException {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.value
}

// Notify subscribes to replacements. No replay of the seed value.
func (o *Observable) Notify(fn func(types.RaisedException)) (detach func()) {
	o.mu.Lock()
	o.nextSub++
	id := o.nextSub
	o.subs[id] = fn
	o.mu.Unlock()
	return func() {
		o.mu.Lock()
		delete(o.subs, id)
		o.mu.Unlock()
	}
}

// Set fulfills the observable. Only the first call takes effect; later
// calls and calls after Dispose are dropped.
func (o *Observable) Set(v types.RaisedException) {
	o.mu.Lock()
	if o.fulfilled || o.disposed {
		o.mu.Unlock()
		return
	}
	o.fulfilled = true
	o.value = v
	fns := make([]func(types.RaisedException), 0, len(o.subs))
	for _, fn := range o.subs {
		fns = append(fns, fn)
	}
	o.mu.Unlock()
	for _, fn := range fns {
		fn(v)
	}
}

// Dispose drops subscribers and blocks any later fulfillment.
func (o *Observable) Dispose() {
	o.mu.Lock()
	o.disposed = true
	o.subs = make(map[int]func(types.RaisedException))
	o.mu.Unlock()
}

// Key identifies the cell whose error detail is requested.
type Key struct {
	TableID string
	ColRef  string
	RowID   int64
}

// Fetcher retrieves richer error detail from the backend.
type Fetcher interface {
	FetchErrorDetail(ctx context.Context, key Key) (types.RaisedException, error)
}

// Fetch requests detail asynchronously, outside the render path, and
// fulfills obs on success. Failure goes to the error sink and leaves
// editing untouched.
func Fetch(ctx context.Context, fetcher Fetcher, key Key, obs *Observable, sink func(error)) {
	if fetcher == nil {
		return
	}
	go func() {
		detail, err := fetcher.FetchErrorDetail(ctx, key)
		if err != nil {
			logger.Errorf("errfetch: detail fetch for %v failed: %v", key, err)
			if sink != nil {
				sink(err)
			}
			return
		}
		obs.Set(detail)
	}()
}
