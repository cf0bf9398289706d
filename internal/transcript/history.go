package transcript

import "github.com/google/uuid"

// snapshot is a copy of document content taken before a mutation. Its
// segment boundaries and text never change once recorded; ApplyTranslation
// may still set the translation of a segment whose id and text match.
type snapshot struct {
	segments []Segment
	selected uuid.UUID
}

// history is a linear undo/redo stack pair. Recording a new entry clears
// the redo stack.
type history struct {
	undo []snapshot
	redo []snapshot
}

func (h *history) record(s snapshot) {
	h.undo = append(h.undo, s)
	h.redo = nil
}

func (h *history) clear() {
	h.undo = nil
	h.redo = nil
}

func popSnapshot(stack *[]snapshot) (snapshot, bool) {
	n := len(*stack)
	if n == 0 {
		return snapshot{}, false
	}
	s := (*stack)[n-1]
	(*stack)[n-1] = snapshot{}
	*stack = (*stack)[:n-1]
	return s, true
}
