package editor

import "github.com/matzehuels/glycodraw/pkg/core/glycan"

// Edit is one committed insertion.
type Edit struct {
	Parent glycan.NodeID
	Node   glycan.NodeID
}

// History is a bounded stack of committed insertions.
type History struct {
	edits []Edit
	max   int
}

// NewHistory keeps at most max edits; max <= 0 selects 50.
func NewHistory(max int) *History {
	if max <= 0 {
		max = 50
	}
	return &History{edits: make([]Edit, 0, max), max: max}
}

// Push records an edit, dropping the oldest one when full.
func (h *History) Push(e Edit) {
	h.edits = append(h.edits, e)
	if len(h.edits) > h.max {
		h.edits = h.edits[1:]
	}
}

// Pop removes and returns the most recent edit.
func (h *History) Pop() (Edit, bool) {
	if len(h.edits) == 0 {
		return Edit{}, false
	}
	e := h.edits[len(h.edits)-1]
	h.edits = h.edits[:len(h.edits)-1]
	return e, true
}

// Len returns the number of undoable edits.
func (h *History) Len() int { return len(h.edits) }

// Clear forgets every edit.
func (h *History) Clear() { h.edits = h.edits[:0] }
