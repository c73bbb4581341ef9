// internal/app/focus.go
package app

import (
	"context"
	"sync"

	"github.com/ferrule/celled/internal/widget"
)

// focusHost implements session.FocusHost for the terminal grid: a mouse
// click on the grid while editing is the click-away signal, and quit is
// held up by the registered leave guards.
type focusHost struct {
	mu        sync.Mutex
	nextID    int
	focusSubs map[int]func()
	guards    map[int]func(ctx context.Context) (bool, error)
	order     []int
}

func newFocusHost() *focusHost {
	return &focusHost{
		focusSubs: make(map[int]func()),
		guards:    make(map[int]func(ctx context.Context) (bool, error)),
	}
}

func (h *focusHost) OnClipboardFocus(fn func()) (detach func()) {
	h.mu.Lock()
	h.nextID++
	id := h.nextID
	h.focusSubs[id] = fn
	h.mu.Unlock()
	return func() {
		h.mu.Lock()
		delete(h.focusSubs, id)
		h.mu.Unlock()
	}
}

func (h *focusHost) RegisterLeaveGuard(fn func(ctx context.Context) (bool, error)) (detach func()) {
	h.mu.Lock()
	h.nextID++
	id := h.nextID
	h.guards[id] = fn
	h.order = append(h.order, id)
	h.mu.Unlock()
	return func() {
		h.mu.Lock()
		delete(h.guards, id)
		for i, v := range h.order {
			if v == id {
				h.order = append(h.order[:i], h.order[i+1:]...)
				break
			}
		}
		h.mu.Unlock()
	}
}

func (h *focusHost) fireClipboardFocus() {
	h.mu.Lock()
	fns := make([]func(), 0, len(h.focusSubs))
	for _, fn := range h.focusSubs {
		fns = append(fns, fn)
	}
	h.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

func (h *focusHost) leaveGuards() []func(ctx context.Context) (bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]func(ctx context.Context) (bool, error), 0, len(h.order))
	for _, id := range h.order {
		if g, ok := h.guards[id]; ok {
			out = append(out, g)
		}
	}
	return out
}

// editOverlay is the widget.Anchor the grid mounts editors on; drawing
// reads the mounted widget through it.
type editOverlay struct {
	mu sync.Mutex
	w  widget.Widget
}

func (o *editOverlay) Mount(w widget.Widget) {
	o.mu.Lock()
	o.w = w
	o.mu.Unlock()
}

func (o *editOverlay) Unmount(w widget.Widget) {
	o.mu.Lock()
	if o.w == w {
		o.w = nil
	}
	o.mu.Unlock()
}

func (o *editOverlay) Current() (widget.Widget, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.w, o.w != nil
}

// conversionPrompt implements session.ConversionOffer as a statusbar
// prompt: 'y' accepts while it is pending.
type conversionPrompt struct {
	mu     sync.Mutex
	accept func()
}

func (p *conversionPrompt) Offer(accept func()) {
	p.mu.Lock()
	p.accept = accept
	p.mu.Unlock()
}

func (p *conversionPrompt) Dismiss() {
	p.mu.Lock()
	p.accept = nil
	p.mu.Unlock()
}

func (p *conversionPrompt) Pending() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.accept != nil
}

func (p *conversionPrompt) Accept() {
	p.mu.Lock()
	accept := p.accept
	p.accept = nil
	p.mu.Unlock()
	if accept != nil {
		accept()
	}
}
