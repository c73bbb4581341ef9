// internal/docmodel/history.go
package docmodel

const DefaultMaxHistory = 100

type changeKind int

const (
	changeCell changeKind = iota
	changeColumn
	changeAddRow
)

// change is one recorded write, carrying enough to apply its inverse.
type change struct {
	kind   changeKind
	rowID  int64
	colRef string
	oldVal interface{}
	newVal interface{}

	oldIsFormula bool
	oldFormula   string
	newIsFormula bool
	newFormula   string
}

// bundle is a group of changes undone as one unit.
type bundle struct {
	label   string
	changes []change
}

// History keeps a bounded stack of undoable bundles. Writes issued
// outside an explicit bundle become single-change bundles. Methods are
// not locked; the owning Document serializes access.
type History struct {
	bundles []bundle
	open    *bundle
	depth   int // bundle nesting depth; only the outermost closes
	max     int
}

// NewHistory creates a history with a maximum bundle count.
func NewHistory(max int) *History {
	if max <= 0 {
		max = DefaultMaxHistory
	}
	return &History{max: max}
}

// begin opens a bundle (or deepens an already-open one).
func (h *History) begin(label string) {
	h.depth++
	if h.depth == 1 {
		h.open = &bundle{label: label}
	}
}

// end closes the current nesting level; the outermost close pushes the
// bundle if it recorded anything.
func (h *History) end() {
	if h.depth == 0 {
		return
	}
	h.depth--
	if h.depth > 0 {
		return
	}
	if h.open != nil && len(h.open.changes) > 0 {
		h.push(*h.open)
	}
	h.open = nil
}

// record adds a change to the open bundle, or pushes it alone.
func (h *History) record(ch change) {
	if h.open != nil {
		h.open.changes = append(h.open.changes, ch)
		return
	}
	h.push(bundle{label: "edit", changes: []change{ch}})
}

func (h *History) push(b bundle) {
	h.bundles = append(h.bundles, b)
	if len(h.bundles) > h.max {
		h.bundles = h.bundles[len(h.bundles)-h.max:]
	}
}

// pop removes and returns the most recent bundle.
func (h *History) pop() (bundle, bool) {
	if len(h.bundles) == 0 {
		return bundle{}, false
	}
	b := h.bundles[len(h.bundles)-1]
	h.bundles = h.bundles[:len(h.bundles)-1]
	return b, true
}

// Len reports how many bundles are undoable.
func (h *History) Len() int {
	return len(h.bundles)
}
