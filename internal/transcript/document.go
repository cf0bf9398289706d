package transcript

import (
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"framescribe/internal/observation"
)

// Document is the authoritative segment list with selection and history.
type Document struct {
	segments []Segment
	selected uuid.UUID
	language string
	history  history
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{}
}

// Load partitions words into segments with boundary and replaces the whole
// document. History is cleared; the loaded state is the new baseline.
func (d *Document) Load(words []Word, boundary BoundaryFunc) error {
	return d.LoadSegments(Partition(words, boundary))
}

// LoadSegments replaces the document with one segment per word group,
// preserving the given boundaries. Any empty group fails the whole load.
func (d *Document) LoadSegments(groups [][]Word) error {
	segments := make([]Segment, 0, len(groups))
	for i, group := range groups {
		seg, err := NewSegment(group)
		if err != nil {
			return fmt.Errorf("segment %d: %w", i, err)
		}
		segments = append(segments, seg)
	}
	d.segments = segments
	d.selected = uuid.Nil
	d.history.clear()
	return nil
}

// Language returns the transcript language tag.
func (d *Document) Language() string { return d.language }

// SetLanguage records the transcript language tag. It is metadata and does
// not enter history.
func (d *Document) SetLanguage(lang string) { d.language = strings.TrimSpace(lang) }

// Len returns the segment count.
func (d *Document) Len() int { return len(d.segments) }

// Segments returns a deep copy of the current segments.
func (d *Document) Segments() []Segment {
	return cloneSegments(d.segments)
}

// Segment looks up a segment by id and returns a copy with its index.
func (d *Document) Segment(id uuid.UUID) (Segment, int, bool) {
	i := d.indexOf(id)
	if i < 0 {
		return Segment{}, -1, false
	}
	return d.segments[i].clone(), i, true
}

// Words returns every word in document order.
func (d *Document) Words() []Word {
	var out []Word
	for _, s := range d.segments {
		out = append(out, s.Words...)
	}
	return out
}

// Selected returns the selected segment id, if any.
func (d *Document) Selected() (uuid.UUID, bool) {
	return d.selected, d.selected != uuid.Nil
}

// Select changes the selection without recording history. uuid.Nil clears it.
func (d *Document) Select(id uuid.UUID) error {
	if id != uuid.Nil && d.indexOf(id) < 0 {
		return fmt.Errorf("select %s: %w", id, ErrSegmentNotFound)
	}
	d.selected = id
	return nil
}

// SplitAt replaces the segment with two new segments holding words
// [0, wordIndex) and [wordIndex, end). wordIndex must satisfy
// 0 < wordIndex < len(words). The second half becomes selected.
func (d *Document) SplitAt(id uuid.UUID, wordIndex int) (uuid.UUID, uuid.UUID, error) {
	i := d.indexOf(id)
	if i < 0 {
		return uuid.Nil, uuid.Nil, fmt.Errorf("split %s: %w", id, ErrSegmentNotFound)
	}
	target := d.segments[i]
	if wordIndex <= 0 || wordIndex >= len(target.Words) {
		return uuid.Nil, uuid.Nil, fmt.Errorf("split %s at word %d of %d: %w", id, wordIndex, len(target.Words), ErrInvalidIndex)
	}
	first, err := NewSegment(target.Words[:wordIndex])
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	second, err := NewSegment(target.Words[wordIndex:])
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}

	d.checkpoint()
	d.segments = slices.Replace(d.segments, i, i+1, first, second)
	d.selected = second.ID
	return first.ID, second.ID, nil
}

// Merge joins segments index and index+1 into one new segment, earlier
// words first. index must not refer to the last segment. The merged
// segment becomes selected.
func (d *Document) Merge(index int) (uuid.UUID, error) {
	if index < 0 || index >= len(d.segments)-1 {
		return uuid.Nil, fmt.Errorf("merge at %d of %d segments: %w", index, len(d.segments), ErrInvalidIndex)
	}
	words := make([]Word, 0, len(d.segments[index].Words)+len(d.segments[index+1].Words))
	words = append(words, d.segments[index].Words...)
	words = append(words, d.segments[index+1].Words...)
	merged, err := NewSegment(words)
	if err != nil {
		return uuid.Nil, err
	}

	d.checkpoint()
	d.segments = slices.Replace(d.segments, index, index+2, merged)
	d.selected = merged.ID
	return merged.ID, nil
}

// ReplaceText retokenizes text on whitespace into new words. Every new word
// spans the segment's original start and end with confidence 1.0, so
// word-level timing is lost for edited segments. The segment id is kept and
// any translation is cleared. Text equal to the current text after
// whitespace normalization is a no-op and records no history.
func (d *Document) ReplaceText(id uuid.UUID, text string) error {
	i := d.indexOf(id)
	if i < 0 {
		return fmt.Errorf("edit %s: %w", id, ErrSegmentNotFound)
	}
	tokens := strings.Fields(text)
	if len(tokens) == 0 {
		return fmt.Errorf("edit %s: %w", id, ErrEmptySegment)
	}
	target := d.segments[i]
	if strings.Join(tokens, " ") == target.Text() {
		return nil
	}
	start, end := target.Start(), target.End()
	words := make([]Word, len(tokens))
	for j, tok := range tokens {
		words[j] = Word{Text: tok, Start: start, End: end, Confidence: 1.0}
	}

	d.checkpoint()
	d.segments[i] = Segment{ID: target.ID, Words: words}
	return nil
}

// Undo restores the most recent snapshot. It reports false when there is
// nothing to undo.
func (d *Document) Undo() bool {
	prev, ok := popSnapshot(&d.history.undo)
	if !ok {
		return false
	}
	d.history.redo = append(d.history.redo, d.current())
	d.restore(prev)
	return true
}

// Redo reapplies the most recently undone state. It reports false when
// there is nothing to redo.
func (d *Document) Redo() bool {
	next, ok := popSnapshot(&d.history.redo)
	if !ok {
		return false
	}
	d.history.undo = append(d.history.undo, d.current())
	d.restore(next)
	return true
}

// CanUndo reports whether Undo would change the document.
func (d *Document) CanUndo() bool { return len(d.history.undo) > 0 }

// CanRedo reports whether Redo would change the document.
func (d *Document) CanRedo() bool { return len(d.history.redo) > 0 }

// HistoryDepth returns the undo and redo stack sizes.
func (d *Document) HistoryDepth() (undo, redo int) {
	return len(d.history.undo), len(d.history.redo)
}

// SegmentAt returns the first segment whose [Start, End] contains t.
func (d *Document) SegmentAt(t float64) (Segment, int, bool) {
	for i, s := range d.segments {
		if s.Contains(t) {
			return s.clone(), i, true
		}
	}
	return Segment{}, -1, false
}

// Search returns segments whose original or translated text contains
// keyword, compared with Unicode case folding.
func (d *Document) Search(keyword string) []Segment {
	var out []Segment
	for _, s := range d.segments {
		if observation.ContainsFold(s.Text(), keyword) || observation.ContainsFold(s.TranslatedText, keyword) {
			out = append(out, s.clone())
		}
	}
	return out
}

// ApplyTranslation sets the translated text of the segment with id. It
// reports false when the id no longer exists. Translations are not
// recorded in history; history snapshots holding the same segment with the
// same text receive the translation too, so undo does not drop it.
func (d *Document) ApplyTranslation(id uuid.UUID, text string) bool {
	i := d.indexOf(id)
	if i < 0 {
		return false
	}
	text = strings.TrimSpace(text)
	d.segments[i].TranslatedText = text
	source := d.segments[i].Text()
	for _, stack := range [][]snapshot{d.history.undo, d.history.redo} {
		for _, snap := range stack {
			for j := range snap.segments {
				if snap.segments[j].ID == id && snap.segments[j].Text() == source {
					snap.segments[j].TranslatedText = text
				}
			}
		}
	}
	return true
}

func (d *Document) indexOf(id uuid.UUID) int {
	if id == uuid.Nil {
		return -1
	}
	return slices.IndexFunc(d.segments, func(s Segment) bool { return s.ID == id })
}

func (d *Document) current() snapshot {
	return snapshot{segments: cloneSegments(d.segments), selected: d.selected}
}

func (d *Document) restore(s snapshot) {
	d.segments = cloneSegments(s.segments)
	d.selected = s.selected
}

func (d *Document) checkpoint() {
	d.history.record(d.current())
}
