// internal/monitor/monitor.go

// Package monitor tracks the in-flight editor state of active sessions
// so an interrupted edit (crash, page reload) can be reconstructed
// verbatim. Snapshots travel as JSON documents: written field by field
// with sjson, read back tolerantly with gjson so a snapshot from an
// older build degrades to zero values instead of failing the restore.
package monitor

import (
	"sync"

	"github.com/ferrule/celled/internal/logger"
	"github.com/ferrule/celled/internal/types"
	"github.com/ferrule/celled/internal/widget"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Snapshot is what a session must preserve to come back after an
// interruption.
type Snapshot struct {
	Position  types.CellPosition
	State     widget.State
	IsFormula bool
}

// Encode serializes a snapshot to its JSON wire form.
func Encode(s Snapshot) string {
	doc := "{}"
	doc, _ = sjson.Set(doc, "pos.rowId", s.Position.RowID)
	doc, _ = sjson.Set(doc, "pos.colRef", s.Position.ColRef)
	doc, _ = sjson.Set(doc, "pos.sectionId", s.Position.SectionID)
	doc, _ = sjson.Set(doc, "state.text", s.State.Text)
	doc, _ = sjson.Set(doc, "state.cursorPos", s.State.CursorPos)
	doc, _ = sjson.Set(doc, "isFormula", s.IsFormula)
	return doc
}

// Decode parses a snapshot from its JSON wire form. Missing fields read
// as zero values; only structurally invalid JSON is rejected.
func Decode(doc string) (Snapshot, bool) {
	if !gjson.Valid(doc) {
		return Snapshot{}, false
	}
	return Snapshot{
		Position: types.CellPosition{
			RowID:     gjson.Get(doc, "pos.rowId").Int(),
			ColRef:    gjson.Get(doc, "pos.colRef").String(),
			SectionID: int(gjson.Get(doc, "pos.sectionId").Int()),
		},
		State: widget.State{
			Text:      gjson.Get(doc, "state.text").String(),
			CursorPos: int(gjson.Get(doc, "state.cursorPos").Int()),
		},
		IsFormula: gjson.Get(doc, "isFormula").Bool(),
	}, true
}

// Provider yields a session's current snapshot on demand.
type Provider func() Snapshot

// Monitor holds the providers of all live sessions. The host asks for
// the latest snapshot whenever it wants to checkpoint (periodically, or
// right before navigation).
type Monitor struct {
	mu        sync.Mutex
	nextID    int
	order     []int
	providers map[int]Provider
}

// New creates an empty monitor.
func New() *Monitor {
	return &Monitor{providers: make(map[int]Provider)}
}

// Register adds a session's provider and returns its deregister handle.
func (m *Monitor) Register(p Provider) (deregister func()) {
	m.mu.Lock()
	m.nextID++
	id := m.nextID
	m.providers[id] = p
	m.order = append(m.order, id)
	m.mu.Unlock()

	logger.Debugf("Monitor: session %d registered", id)
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if _, ok := m.providers[id]; !ok {
			return
		}
		delete(m.providers, id)
		for i, v := range m.order {
			if v == id {
				m.order = append(m.order[:i], m.order[i+1:]...)
				break
			}
		}
	}
}

// Latest returns the most recently registered session's snapshot, in
// wire form, or ok=false when no session is live.
func (m *Monitor) Latest() (doc string, ok bool) {
	m.mu.Lock()
	var p Provider
	if n := len(m.order); n > 0 {
		p = m.providers[m.order[n-1]]
	}
	m.mu.Unlock()

	if p == nil {
		return "", false
	}
	return Encode(p()), true
}
