package transcript

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Snapshot is the serialized form of one history entry.
type Snapshot struct {
	Segments []Segment     `json:"segments"`
	Selected uuid.NullUUID `json:"selected"`
}

// State is the complete serialized document, history included.
type State struct {
	Language string        `json:"language,omitempty"`
	Segments []Segment     `json:"segments"`
	Selected uuid.NullUUID `json:"selected"`
	Undo     []Snapshot    `json:"undo,omitempty"`
	Redo     []Snapshot    `json:"redo,omitempty"`
}

// State captures the document for persistence.
func (d *Document) State() State {
	return State{
		Language: d.language,
		Segments: cloneSegments(d.segments),
		Selected: nullID(d.selected),
		Undo:     exportStack(d.history.undo),
		Redo:     exportStack(d.history.redo),
	}
}

// Restore rebuilds a document from a captured state. Segments must be
// non-empty with unique ids and a selection, when present, must exist.
func Restore(state State) (*Document, error) {
	if err := validateSegments(state.Segments, state.Selected); err != nil {
		return nil, err
	}
	undo, err := importStack(state.Undo)
	if err != nil {
		return nil, fmt.Errorf("undo history: %w", err)
	}
	redo, err := importStack(state.Redo)
	if err != nil {
		return nil, fmt.Errorf("redo history: %w", err)
	}
	return &Document{
		segments: cloneSegments(state.Segments),
		selected: state.Selected.UUID,
		language: state.Language,
		history:  history{undo: undo, redo: redo},
	}, nil
}

// MarshalState encodes the document state as JSON.
func MarshalState(d *Document) ([]byte, error) {
	data, err := json.Marshal(d.State())
	if err != nil {
		return nil, fmt.Errorf("encode document state: %w", err)
	}
	return data, nil
}

// UnmarshalState decodes and restores a document.
func UnmarshalState(data []byte) (*Document, error) {
	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("decode document state: %w", err)
	}
	return Restore(state)
}

func validateSegments(segments []Segment, selected uuid.NullUUID) error {
	seen := make(map[uuid.UUID]struct{}, len(segments))
	for i, s := range segments {
		if s.ID == uuid.Nil {
			return fmt.Errorf("segment %d has no id", i)
		}
		if len(s.Words) == 0 {
			return fmt.Errorf("segment %s: %w", s.ID, ErrEmptySegment)
		}
		if _, dup := seen[s.ID]; dup {
			return fmt.Errorf("duplicate segment id %s", s.ID)
		}
		seen[s.ID] = struct{}{}
	}
	if selected.Valid {
		if _, ok := seen[selected.UUID]; !ok {
			return fmt.Errorf("selected %s: %w", selected.UUID, ErrSegmentNotFound)
		}
	}
	return nil
}

func nullID(id uuid.UUID) uuid.NullUUID {
	return uuid.NullUUID{UUID: id, Valid: id != uuid.Nil}
}

func exportStack(stack []snapshot) []Snapshot {
	if len(stack) == 0 {
		return nil
	}
	out := make([]Snapshot, len(stack))
	for i, s := range stack {
		out[i] = Snapshot{Segments: cloneSegments(s.segments), Selected: nullID(s.selected)}
	}
	return out
}

func importStack(stack []Snapshot) ([]snapshot, error) {
	if len(stack) == 0 {
		return nil, nil
	}
	out := make([]snapshot, len(stack))
	for i, s := range stack {
		if err := validateSegments(s.Segments, s.Selected); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		out[i] = snapshot{segments: cloneSegments(s.Segments), selected: s.Selected.UUID}
	}
	return out, nil
}
