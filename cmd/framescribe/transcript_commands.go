package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"framescribe/internal/language"
	"framescribe/internal/logging"
	"framescribe/internal/store"
	"framescribe/internal/subtitles"
	"framescribe/internal/transcript"
)

func newTranscriptCommand(ctx *commandContext) *cobra.Command {
	transcriptCmd := &cobra.Command{
		Use:     "transcript",
		Aliases: []string{"doc"},
		Short:   "Import, inspect, and edit transcript documents",
	}

	transcriptCmd.AddCommand(newTranscriptImportCommand(ctx))
	transcriptCmd.AddCommand(newTranscriptListCommand(ctx))
	transcriptCmd.AddCommand(newTranscriptShowCommand(ctx))
	transcriptCmd.AddCommand(newTranscriptSelectCommand(ctx))
	transcriptCmd.AddCommand(newTranscriptSplitCommand(ctx))
	transcriptCmd.AddCommand(newTranscriptMergeCommand(ctx))
	transcriptCmd.AddCommand(newTranscriptEditCommand(ctx))
	transcriptCmd.AddCommand(newTranscriptUndoCommand(ctx))
	transcriptCmd.AddCommand(newTranscriptRedoCommand(ctx))
	transcriptCmd.AddCommand(newTranscriptAtCommand(ctx))
	transcriptCmd.AddCommand(newTranscriptDeleteCommand(ctx))

	return transcriptCmd
}

func newTranscriptImportCommand(ctx *commandContext) *cobra.Command {
	var (
		name      string
		maxChars  int
		lang      string
		resegment bool
	)

	cmd := &cobra.Command{
		Use:   "import <transcript.json|->",
		Short: "Create a document from recognized words",
		Long: `Accepts either a structured transcript ({"segments":[{"words":[...]}]}),
whose segment boundaries are kept, or a flat array of words, which is split
into segments at sentence punctuation and the character limit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.loggerValue()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("max-chars") {
				maxChars = cfg.Transcript.MaxSegmentChars
			}

			input, closeInput, err := openInput(cmd, args[0])
			if err != nil {
				return err
			}
			defer closeInput()

			doc, err := decodeDocument(input, transcript.DefaultBoundary(maxChars), resegment)
			if err != nil {
				return fmt.Errorf("import %s: %w", args[0], err)
			}
			if doc.Len() == 0 {
				return fmt.Errorf("import %s: no words found", args[0])
			}
			switch {
			case strings.TrimSpace(lang) != "":
				doc.SetLanguage(lang)
			case doc.Language() == "":
				doc.SetLanguage(cfg.Transcript.Language)
			}
			if tag, err := language.CanonicalTag(doc.Language()); err == nil && tag != "" {
				doc.SetLanguage(tag)
			}

			docName := strings.TrimSpace(name)
			if docName == "" {
				docName = defaultDocumentName(args[0])
			}
			sourcePath := ""
			if args[0] != "-" {
				if abs, err := filepath.Abs(args[0]); err == nil {
					sourcePath = abs
				}
			}

			return ctx.withStore(func(st *store.Store) error {
				rec, err := st.Create(cmd.Context(), docName, sourcePath, doc)
				if err != nil {
					return err
				}
				logging.NewComponentLogger(logger, "transcript").Info("document imported",
					logging.String(logging.FieldDocumentID, rec.ID),
					logging.String("name", rec.Name),
					logging.Int("segments", rec.SegmentCount),
				)
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %q as %s (%d segments, %d words)\n",
					rec.Name, rec.ShortID(), rec.SegmentCount, len(doc.Words()))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Document name (defaults to the file name)")
	cmd.Flags().IntVar(&maxChars, "max-chars", 0, "Maximum characters per segment when splitting words (overrides transcript.max_segment_chars)")
	cmd.Flags().StringVar(&lang, "language", "", "Language tag of the transcript")
	cmd.Flags().BoolVar(&resegment, "resegment", false, "Ignore segment boundaries in the input and split words again")
	return cmd
}

// decodeDocument reads either a flat word array or a structured transcript.
func decodeDocument(r io.Reader, boundary transcript.BoundaryFunc, resegment bool) (*transcript.Document, error) {
	br := bufio.NewReader(r)
	first, err := peekNonSpace(br)
	if err != nil {
		return nil, fmt.Errorf("%w: empty input", subtitles.ErrDecode)
	}

	doc := transcript.NewDocument()
	if first == '[' {
		words, err := subtitles.DecodeWordList(br)
		if err != nil {
			return nil, err
		}
		if err := doc.Load(words, boundary); err != nil {
			return nil, err
		}
		return doc, nil
	}

	payload, err := subtitles.DecodeJSON(br)
	if err != nil {
		return nil, err
	}
	if !resegment {
		return payload.Document()
	}
	var words []transcript.Word
	for _, group := range payload.WordGroups() {
		words = append(words, group...)
	}
	if err := doc.Load(words, boundary); err != nil {
		return nil, err
	}
	doc.SetLanguage(payload.Language)
	return doc, nil
}

func peekNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.Peek(1)
		if err != nil {
			return 0, err
		}
		switch b[0] {
		case ' ', '\t', '\r', '\n':
			if _, err := br.ReadByte(); err != nil {
				return 0, err
			}
		case 0xEF:
			// UTF-8 byte order mark.
			bom, err := br.Peek(3)
			if err == nil && string(bom) == "\xef\xbb\xbf" {
				if _, err := br.Discard(3); err != nil {
					return 0, err
				}
				continue
			}
			return b[0], nil
		default:
			return b[0], nil
		}
	}
}

func defaultDocumentName(path string) string {
	if path == "-" {
		return "stdin-" + time.Now().UTC().Format("20060102-150405")
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func newTranscriptListCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(st *store.Store) error {
				records, err := st.List(cmd.Context())
				if err != nil {
					return err
				}
				if jsonOutput {
					items := make([]documentSummary, 0, len(records))
					for _, rec := range records {
						items = append(items, summarizeRecord(rec))
					}
					return writeJSON(cmd, items)
				}
				if len(records) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No documents")
					return nil
				}
				rows := make([][]string, 0, len(records))
				for _, rec := range records {
					rows = append(rows, []string{
						rec.ShortID(),
						rec.Name,
						rec.Language,
						strconv.Itoa(rec.SegmentCount),
						rec.UpdatedAt.Local().Format("2006-01-02 15:04"),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"ID", "Name", "Lang", "Segments", "Updated"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
				))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print documents as JSON")
	return cmd
}

type documentSummary struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Language   string    `json:"language,omitempty"`
	SourcePath string    `json:"source_path,omitempty"`
	Segments   int       `json:"segments"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func summarizeRecord(rec *store.Record) documentSummary {
	return documentSummary{
		ID:         rec.ID,
		Name:       rec.Name,
		Language:   rec.Language,
		SourcePath: rec.SourcePath,
		Segments:   rec.SegmentCount,
		CreatedAt:  rec.CreatedAt,
		UpdatedAt:  rec.UpdatedAt,
	}
}

type segmentView struct {
	Index       int     `json:"index"`
	ID          string  `json:"id"`
	Start       float64 `json:"start"`
	End         float64 `json:"end"`
	Text        string  `json:"text"`
	Translation string  `json:"translation,omitempty"`
	Words       int     `json:"words"`
	Selected    bool    `json:"selected,omitempty"`
}

func newTranscriptShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show <doc>",
		Short: "Show the segments of a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withDocument(cmd.Context(), args[0], func(rec *store.Record, doc *transcript.Document) (bool, error) {
				views := segmentViews(doc)
				if jsonOutput {
					return false, writeJSON(cmd, views)
				}
				out := cmd.OutOrStdout()
				undo, redo := doc.HistoryDepth()
				fmt.Fprintf(out, "%s  %s  lang=%s  undo=%d redo=%d\n", rec.ShortID(), rec.Name, doc.Language(), undo, redo)
				fmt.Fprintln(out, renderSegmentViews(views))
				return false, nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print segments as JSON")
	return cmd
}

func segmentViews(doc *transcript.Document) []segmentView {
	selected, hasSelection := doc.Selected()
	segments := doc.Segments()
	views := make([]segmentView, 0, len(segments))
	for i, seg := range segments {
		views = append(views, segmentView{
			Index:       i + 1,
			ID:          seg.ID.String(),
			Start:       seg.Start(),
			End:         seg.End(),
			Text:        seg.Text(),
			Translation: seg.TranslatedText,
			Words:       len(seg.Words),
			Selected:    hasSelection && seg.ID == selected,
		})
	}
	return views
}

func renderSegmentViews(views []segmentView) string {
	withTranslation := false
	for _, v := range views {
		if v.Translation != "" {
			withTranslation = true
			break
		}
	}
	headers := []string{"", "#", "ID", "Start", "End", "Text"}
	aligns := []columnAlignment{alignLeft, alignRight, alignLeft, alignLeft, alignLeft, alignLeft}
	if withTranslation {
		headers = append(headers, "Translation")
		aligns = append(aligns, alignLeft)
	}
	rows := make([][]string, 0, len(views))
	for _, v := range views {
		marker := ""
		if v.Selected {
			marker = "*"
		}
		row := []string{marker, strconv.Itoa(v.Index), v.ID[:8], formatTime(v.Start), formatTime(v.End), preview(v.Text)}
		if withTranslation {
			row = append(row, preview(v.Translation))
		}
		rows = append(rows, row)
	}
	return renderTable(headers, rows, aligns)
}

// findSegment accepts a 1-based position, a segment id or id prefix, or
// "selected". Positions win over all-digit id prefixes.
func findSegment(doc *transcript.Document, ref string) (transcript.Segment, int, error) {
	ref = strings.ToLower(strings.TrimSpace(ref))
	segments := doc.Segments()
	if ref == "selected" {
		id, ok := doc.Selected()
		if !ok {
			return transcript.Segment{}, -1, fmt.Errorf("no segment is selected: %w", transcript.ErrSegmentNotFound)
		}
		seg, idx, _ := doc.Segment(id)
		return seg, idx, nil
	}
	pos, posErr := strconv.Atoi(ref)
	if posErr == nil && pos >= 1 && pos <= len(segments) {
		return segments[pos-1], pos - 1, nil
	}
	match := -1
	for i, seg := range segments {
		if strings.HasPrefix(seg.ID.String(), ref) {
			if match >= 0 {
				return transcript.Segment{}, -1, fmt.Errorf("segment %q is ambiguous", ref)
			}
			match = i
		}
	}
	if match < 0 && posErr == nil {
		return transcript.Segment{}, -1, fmt.Errorf("segment %d of %d: %w", pos, len(segments), transcript.ErrInvalidIndex)
	}
	if match < 0 {
		return transcript.Segment{}, -1, fmt.Errorf("segment %q: %w", ref, transcript.ErrSegmentNotFound)
	}
	return segments[match], match, nil
}

func newTranscriptSelectCommand(ctx *commandContext) *cobra.Command {
	var clearSelection bool

	cmd := &cobra.Command{
		Use:   "select <doc> [segment]",
		Short: "Select a segment (or clear the selection)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !clearSelection && len(args) < 2 {
				return errors.New("segment reference required (or pass --clear)")
			}
			return ctx.withDocument(cmd.Context(), args[0], func(rec *store.Record, doc *transcript.Document) (bool, error) {
				if clearSelection {
					if err := doc.Select(uuid.Nil); err != nil {
						return false, err
					}
					fmt.Fprintln(cmd.OutOrStdout(), "Selection cleared")
					return true, nil
				}
				seg, idx, err := findSegment(doc, args[1])
				if err != nil {
					return false, err
				}
				if err := doc.Select(seg.ID); err != nil {
					return false, err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Selected segment %d: %s\n", idx+1, preview(seg.Text()))
				return true, nil
			})
		},
	}
	cmd.Flags().BoolVar(&clearSelection, "clear", false, "Clear the selection")
	return cmd
}

func newTranscriptSplitCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "split <doc> <segment> <words>",
		Short: "Split a segment after its first <words> words",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			count, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("word count %q: %w", args[2], err)
			}
			return ctx.mutateDocument(cmd, args[0], "segment split", func(doc *transcript.Document) (string, error) {
				seg, idx, err := findSegment(doc, args[1])
				if err != nil {
					return "", err
				}
				if _, _, err := doc.SplitAt(seg.ID, count); err != nil {
					return "", err
				}
				return fmt.Sprintf("Split segment %d into %d and %d", idx+1, idx+1, idx+2), nil
			})
		},
	}
}

func newTranscriptMergeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "merge <doc> <segment>",
		Short: "Merge a segment with the one that follows it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.mutateDocument(cmd, args[0], "segments merged", func(doc *transcript.Document) (string, error) {
				_, idx, err := findSegment(doc, args[1])
				if err != nil {
					return "", err
				}
				if _, err := doc.Merge(idx); err != nil {
					return "", err
				}
				return fmt.Sprintf("Merged segments %d and %d", idx+1, idx+2), nil
			})
		},
	}
}

func newTranscriptEditCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <doc> <segment> <text...>",
		Short: "Replace the text of a segment",
		Long:  "Replacing text discards word-level timing for the segment and clears its translation.",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args[2:], " ")
			return ctx.mutateDocument(cmd, args[0], "segment edited", func(doc *transcript.Document) (string, error) {
				seg, idx, err := findSegment(doc, args[1])
				if err != nil {
					return "", err
				}
				if err := doc.ReplaceText(seg.ID, text); err != nil {
					return "", err
				}
				return fmt.Sprintf("Updated segment %d", idx+1), nil
			})
		},
	}
}

func newTranscriptUndoCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "undo <doc>",
		Short: "Undo the most recent edit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withDocument(cmd.Context(), args[0], func(rec *store.Record, doc *transcript.Document) (bool, error) {
				if !doc.Undo() {
					fmt.Fprintln(cmd.OutOrStdout(), "Nothing to undo")
					return false, nil
				}
				undo, redo := doc.HistoryDepth()
				fmt.Fprintf(cmd.OutOrStdout(), "Undone (undo=%d redo=%d)\n", undo, redo)
				return true, nil
			})
		},
	}
}

func newTranscriptRedoCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "redo <doc>",
		Short: "Redo the most recently undone edit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withDocument(cmd.Context(), args[0], func(rec *store.Record, doc *transcript.Document) (bool, error) {
				if !doc.Redo() {
					fmt.Fprintln(cmd.OutOrStdout(), "Nothing to redo")
					return false, nil
				}
				undo, redo := doc.HistoryDepth()
				fmt.Fprintf(cmd.OutOrStdout(), "Redone (undo=%d redo=%d)\n", undo, redo)
				return true, nil
			})
		},
	}
}

func newTranscriptAtCommand(ctx *commandContext) *cobra.Command {
	var selectIt bool

	cmd := &cobra.Command{
		Use:   "at <doc> <seconds>",
		Short: "Show the segment playing at a time",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			seconds, err := parseSeconds(args[1])
			if err != nil {
				return err
			}
			return ctx.withDocument(cmd.Context(), args[0], func(rec *store.Record, doc *transcript.Document) (bool, error) {
				seg, idx, ok := doc.SegmentAt(seconds)
				if !ok {
					fmt.Fprintf(cmd.OutOrStdout(), "No segment at %s\n", formatTime(seconds))
					return false, nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d  %s --> %s  %s\n", idx+1, formatTime(seg.Start()), formatTime(seg.End()), seg.Text())
				if !selectIt {
					return false, nil
				}
				return true, doc.Select(seg.ID)
			})
		},
	}
	cmd.Flags().BoolVar(&selectIt, "select", false, "Also select the segment")
	return cmd
}

// parseSeconds accepts plain seconds or an SRT-style timestamp.
func parseSeconds(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if seconds, err := strconv.ParseFloat(value, 64); err == nil {
		return seconds, nil
	}
	seconds, err := subtitles.ParseTimestamp(value)
	if err != nil {
		return 0, fmt.Errorf("time %q: expected seconds or HH:MM:SS,mmm", value)
	}
	return seconds, nil
}

func newTranscriptDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <doc>",
		Short: "Delete a stored document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(st *store.Store) error {
				rec, err := resolveDocument(cmd.Context(), st, args[0])
				if err != nil {
					return err
				}
				removed, err := st.Delete(cmd.Context(), rec.ID)
				if err != nil {
					return err
				}
				if !removed {
					return fmt.Errorf("document %s was already removed", rec.ShortID())
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %q (%s)\n", rec.Name, rec.ShortID())
				return nil
			})
		},
	}
}

// editFunc applies one recorded edit and returns a summary line.
type editFunc func(doc *transcript.Document) (string, error)

// mutateDocument runs fn against a stored document, saves it, and logs the
// edit with the resulting history depth.
func (c *commandContext) mutateDocument(cmd *cobra.Command, ref, event string, fn editFunc) error {
	logger, err := c.loggerValue()
	if err != nil {
		return err
	}
	return c.withDocument(cmd.Context(), ref, func(rec *store.Record, doc *transcript.Document) (bool, error) {
		summary, err := fn(doc)
		if err != nil {
			return false, err
		}
		undo, _ := doc.HistoryDepth()
		logging.WithContext(logging.WithDocumentID(cmd.Context(), rec.ID), logging.NewComponentLogger(logger, "transcript")).
			Info(event, logging.Int("segments", doc.Len()), logging.Int("undo_depth", undo))
		fmt.Fprintln(cmd.OutOrStdout(), summary)
		return true, nil
	})
}
