package transcript

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"framescribe/internal/logging"
)

// Session serializes access to one Document. All mutations, including
// asynchronous translation results, go through it.
type Session struct {
	mu     sync.Mutex
	doc    *Document
	logger *slog.Logger
}

// NewSession takes ownership of doc. Callers must not touch doc afterwards.
func NewSession(doc *Document, logger *slog.Logger) *Session {
	if doc == nil {
		doc = NewDocument()
	}
	return &Session{doc: doc, logger: logging.NewComponentLogger(logger, "transcript")}
}

// View runs fn with read access. fn must not retain or mutate the document.
func (s *Session) View(fn func(*Document)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.doc)
}

// Update runs fn as a single serialized mutation.
func (s *Session) Update(fn func(*Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.doc)
}

// Segments returns a copy of the current segments.
func (s *Session) Segments() []Segment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Segments()
}

// State captures the document state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.State()
}

// Select changes the selection.
func (s *Session) Select(id uuid.UUID) error {
	return s.Update(func(d *Document) error { return d.Select(id) })
}

// SplitAt splits a segment and logs the result.
func (s *Session) SplitAt(id uuid.UUID, wordIndex int) (uuid.UUID, uuid.UUID, error) {
	var first, second uuid.UUID
	err := s.Update(func(d *Document) error {
		var err error
		first, second, err = d.SplitAt(id, wordIndex)
		return err
	})
	if err != nil {
		s.logger.Debug("split rejected", logging.String(logging.FieldSegmentID, id.String()), logging.Error(err))
		return uuid.Nil, uuid.Nil, err
	}
	s.logger.Debug("segment split",
		logging.String(logging.FieldSegmentID, id.String()),
		logging.Int("word_index", wordIndex),
		logging.String("first_id", first.String()),
		logging.String("second_id", second.String()),
	)
	return first, second, nil
}

// Merge merges a segment with its successor.
func (s *Session) Merge(index int) (uuid.UUID, error) {
	var merged uuid.UUID
	err := s.Update(func(d *Document) error {
		var err error
		merged, err = d.Merge(index)
		return err
	})
	if err != nil {
		s.logger.Debug("merge rejected", logging.Int("index", index), logging.Error(err))
		return uuid.Nil, err
	}
	s.logger.Debug("segments merged", logging.Int("index", index), logging.String(logging.FieldSegmentID, merged.String()))
	return merged, nil
}

// ReplaceText edits a segment's text.
func (s *Session) ReplaceText(id uuid.UUID, text string) error {
	err := s.Update(func(d *Document) error { return d.ReplaceText(id, text) })
	if err != nil {
		s.logger.Debug("edit rejected", logging.String(logging.FieldSegmentID, id.String()), logging.Error(err))
		return err
	}
	s.logger.Debug("segment edited", logging.String(logging.FieldSegmentID, id.String()))
	return nil
}

// Undo reverts the last mutation.
func (s *Session) Undo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Undo()
}

// Redo reapplies the last undone mutation.
func (s *Session) Redo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Redo()
}

// ApplyTranslation sets a translation by segment id. Results for segments
// that no longer exist, or whose text changed since sourceText was read,
// are dropped and reported as false.
func (s *Session) ApplyTranslation(id uuid.UUID, sourceText, translated string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	seg, _, ok := s.doc.Segment(id)
	if !ok || seg.Text() != sourceText {
		return false
	}
	return s.doc.ApplyTranslation(id, translated)
}
