// internal/monitor/monitor_test.go
package monitor

import (
	"testing"

	"github.com/ferrule/celled/internal/types"
	"github.com/ferrule/celled/internal/widget"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	snap := Snapshot{
		Position:  types.CellPosition{RowID: 42, ColRef: "price", SectionID: 3},
		State:     widget.State{Text: "=sum(a)", CursorPos: 4},
		IsFormula: true,
	}

	doc := Encode(snap)
	got, ok := Decode(doc)
	if !ok {
		t.Fatalf("Decode rejected %q", doc)
	}
	if got != snap {
		t.Errorf("round trip = %+v, want %+v", got, snap)
	}
}

func TestDecodeTolerant(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		ok   bool
		want Snapshot
	}{
		{
			name: "missing fields read as zero values",
			doc:  `{"pos":{"colRef":"a"}}`,
			ok:   true,
			want: Snapshot{Position: types.CellPosition{ColRef: "a"}},
		},
		{
			name: "unknown fields are ignored",
			doc:  `{"pos":{"rowId":1},"future":"stuff"}`,
			ok:   true,
			want: Snapshot{Position: types.CellPosition{RowID: 1}},
		},
		{
			name: "empty object",
			doc:  `{}`,
			ok:   true,
		},
		{
			name: "structurally invalid JSON is rejected",
			doc:  `{"pos":`,
			ok:   false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Decode(tt.doc)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("Decode = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestLatestFollowsRegistrationOrder(t *testing.T) {
	m := New()
	if _, ok := m.Latest(); ok {
		t.Fatal("Latest on an empty monitor must report no session")
	}

	d1 := m.Register(func() Snapshot {
		return Snapshot{Position: types.CellPosition{ColRef: "first"}}
	})
	d2 := m.Register(func() Snapshot {
		return Snapshot{Position: types.CellPosition{ColRef: "second"}}
	})

	doc, ok := m.Latest()
	if !ok {
		t.Fatal("Latest reported no session")
	}
	snap, _ := Decode(doc)
	if snap.Position.ColRef != "second" {
		t.Errorf("Latest = %q, want the most recent registration", snap.Position.ColRef)
	}

	// Deregistering the latest falls back to the one before it.
	d2()
	doc, ok = m.Latest()
	if !ok {
		t.Fatal("Latest reported no session after one deregister")
	}
	snap, _ = Decode(doc)
	if snap.Position.ColRef != "first" {
		t.Errorf("Latest after deregister = %q, want %q", snap.Position.ColRef, "first")
	}

	d2() // idempotent
	d1()
	if _, ok := m.Latest(); ok {
		t.Error("Latest after all deregisters must report no session")
	}
}
