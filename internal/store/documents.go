package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"framescribe/internal/transcript"
)

// ErrAmbiguous reports a reference that matches more than one document.
var ErrAmbiguous = errors.New("ambiguous document reference")

// Record is a stored document with its metadata.
type Record struct {
	ID           string
	Name         string
	Language     string
	SourcePath   string
	SegmentCount int
	StateJSON    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ShortID returns the first eight characters of the id.
func (r *Record) ShortID() string {
	if len(r.ID) <= 8 {
		return r.ID
	}
	return r.ID[:8]
}

// Document decodes the stored state.
func (r *Record) Document() (*transcript.Document, error) {
	doc, err := transcript.UnmarshalState([]byte(r.StateJSON))
	if err != nil {
		return nil, fmt.Errorf("document %s: %w", r.ShortID(), err)
	}
	return doc, nil
}

// timeLayout is fixed width so text ordering matches time ordering.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const documentColumns = "id, name, language, source_path, segment_count, state_json, created_at, updated_at"

// Create inserts a new document.
func (s *Store) Create(ctx context.Context, name, sourcePath string, doc *transcript.Document) (*Record, error) {
	if doc == nil {
		return nil, errors.New("document is nil")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("document name is required")
	}
	state, err := transcript.MarshalState(doc)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	rec := &Record{
		ID:           uuid.NewString(),
		Name:         name,
		Language:     doc.Language(),
		SourcePath:   sourcePath,
		SegmentCount: doc.Len(),
		StateJSON:    string(state),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	timestamp := now.Format(timeLayout)
	_, err = s.execWithRetry(ctx,
		`INSERT INTO documents (`+documentColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.Name,
		nullableString(rec.Language),
		nullableString(rec.SourcePath),
		rec.SegmentCount,
		rec.StateJSON,
		timestamp,
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert document: %w", err)
	}
	return rec, nil
}

// Save stores doc as the new state of rec.
func (s *Store) Save(ctx context.Context, rec *Record, doc *transcript.Document) error {
	if rec == nil || doc == nil {
		return errors.New("record and document are required")
	}
	state, err := transcript.MarshalState(doc)
	if err != nil {
		return err
	}
	rec.StateJSON = string(state)
	rec.SegmentCount = doc.Len()
	rec.Language = doc.Language()
	rec.UpdatedAt = time.Now().UTC()

	res, err := s.execWithRetry(ctx,
		`UPDATE documents
         SET name = ?, language = ?, source_path = ?, segment_count = ?, state_json = ?, updated_at = ?
         WHERE id = ?`,
		rec.Name,
		nullableString(rec.Language),
		nullableString(rec.SourcePath),
		rec.SegmentCount,
		rec.StateJSON,
		rec.UpdatedAt.Format(timeLayout),
		rec.ID,
	)
	if err != nil {
		return fmt.Errorf("update document: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("update document %s: %w", rec.ShortID(), sql.ErrNoRows)
	}
	return nil
}

// Get fetches a document by full id. It returns nil, nil when absent.
func (s *Store) Get(ctx context.Context, id string) (*Record, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+documentColumns+` FROM documents WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}
	return rec, nil
}

// Resolve finds a document by full id, unique id prefix, or exact name. It
// returns nil, nil when nothing matches.
func (s *Store) Resolve(ctx context.Context, ref string) (*Record, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, errors.New("document reference is required")
	}
	if rec, err := s.Get(ctx, ref); err != nil || rec != nil {
		return rec, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE id LIKE ? ESCAPE '\' OR name = ? ORDER BY created_at`,
		escapeLike(strings.ToLower(ref))+"%", ref,
	)
	if err != nil {
		return nil, fmt.Errorf("resolve document: %w", err)
	}
	defer rows.Close()

	var matches []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	switch len(matches) {
	case 0:
		return nil, nil
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("%w: %q matches %d documents", ErrAmbiguous, ref, len(matches))
	}
}

// List returns all documents ordered by creation time.
func (s *Store) List(ctx context.Context) ([]*Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+documentColumns+` FROM documents ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Delete removes a document. It reports whether a row was removed.
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete document: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func scanRecord(scanner interface{ Scan(dest ...any) error }) (*Record, error) {
	var (
		rec        Record
		language   sql.NullString
		sourcePath sql.NullString
		createdRaw string
		updatedRaw string
	)
	if err := scanner.Scan(
		&rec.ID,
		&rec.Name,
		&language,
		&sourcePath,
		&rec.SegmentCount,
		&rec.StateJSON,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}
	rec.Language = language.String
	rec.SourcePath = sourcePath.String
	rec.CreatedAt = parseTime(createdRaw)
	rec.UpdatedAt = parseTime(updatedRaw)
	return &rec, nil
}

func parseTime(raw string) time.Time {
	t, err := time.Parse(timeLayout, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}

func escapeLike(value string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(value)
}
