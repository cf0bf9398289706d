package subtitles

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"framescribe/internal/transcript"
)

// ErrDecode reports JSON input that does not match the transcript schema.
var ErrDecode = errors.New("transcript decode error")

// JSONWord is one word in the structured transcript.
type JSONWord struct {
	Word        string  `json:"word"`
	Start       float64 `json:"start"`
	End         float64 `json:"end"`
	Probability float64 `json:"probability"`
}

// UnmarshalJSON accepts "score" as a fallback for "probability".
func (w *JSONWord) UnmarshalJSON(data []byte) error {
	var aux struct {
		Word        string   `json:"word"`
		Start       float64  `json:"start"`
		End         float64  `json:"end"`
		Probability *float64 `json:"probability"`
		Score       *float64 `json:"score"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*w = JSONWord{Word: aux.Word, Start: aux.Start, End: aux.End}
	switch {
	case aux.Probability != nil:
		w.Probability = *aux.Probability
	case aux.Score != nil:
		w.Probability = *aux.Score
	}
	return nil
}

// JSONSegment is one segment in the structured transcript.
type JSONSegment struct {
	Start       float64    `json:"start"`
	End         float64    `json:"end"`
	Text        string     `json:"text"`
	Words       []JSONWord `json:"words"`
	Translation string     `json:"translation,omitempty"`
}

// JSONTranscript is the structured transcript file.
type JSONTranscript struct {
	Text     string        `json:"text"`
	Segments []JSONSegment `json:"segments"`
	Language string        `json:"language"`
}

// NewJSONTranscript converts document segments.
func NewJSONTranscript(segments []transcript.Segment, language string) JSONTranscript {
	out := JSONTranscript{Segments: make([]JSONSegment, 0, len(segments)), Language: language}
	texts := make([]string, 0, len(segments))
	for _, seg := range segments {
		words := make([]JSONWord, len(seg.Words))
		for i, w := range seg.Words {
			words[i] = JSONWord{Word: w.Text, Start: w.Start, End: w.End, Probability: w.Confidence}
		}
		text := seg.Text()
		texts = append(texts, text)
		out.Segments = append(out.Segments, JSONSegment{
			Start:       seg.Start(),
			End:         seg.End(),
			Text:        text,
			Words:       words,
			Translation: seg.TranslatedText,
		})
	}
	out.Text = strings.Join(texts, " ")
	return out
}

// EncodeJSON writes the transcript pretty-printed with indent spaces. An
// indent of zero writes compact JSON.
func EncodeJSON(w io.Writer, segments []transcript.Segment, language string, indent int) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if indent > 0 {
		enc.SetIndent("", strings.Repeat(" ", indent))
	}
	if err := enc.Encode(NewJSONTranscript(segments, language)); err != nil {
		return fmt.Errorf("encode transcript json: %w", err)
	}
	return nil
}

// DecodeJSON reads a structured transcript. Whisper-style payloads that
// omit the top-level text or language fields are accepted.
func DecodeJSON(r io.Reader) (JSONTranscript, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return JSONTranscript{}, fmt.Errorf("read transcript json: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return JSONTranscript{}, fmt.Errorf("%w: empty input", ErrDecode)
	}
	var payload JSONTranscript
	if err := json.Unmarshal(data, &payload); err != nil {
		return JSONTranscript{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if payload.Segments == nil {
		return JSONTranscript{}, fmt.Errorf("%w: missing segments", ErrDecode)
	}
	for i := 1; i < len(payload.Segments); i++ {
		if payload.Segments[i].Start < payload.Segments[i-1].Start {
			return JSONTranscript{}, fmt.Errorf("%w: segment %d starts before segment %d", ErrDecode, i, i-1)
		}
	}
	return payload, nil
}

// WordGroups converts decoded segments into word groups with boundaries
// preserved. A segment without words but with text gets synthesized words
// spanning its range at confidence 1.0. Segments with neither are dropped.
func (t JSONTranscript) WordGroups() [][]transcript.Word {
	groups := make([][]transcript.Word, 0, len(t.Segments))
	for _, seg := range t.Segments {
		var words []transcript.Word
		for _, w := range seg.Words {
			words = append(words, transcript.Word{Text: w.Word, Start: w.Start, End: w.End, Confidence: w.Probability})
		}
		if len(words) == 0 {
			for _, tok := range strings.Fields(seg.Text) {
				words = append(words, transcript.Word{Text: tok, Start: seg.Start, End: seg.End, Confidence: 1.0})
			}
		}
		if len(words) > 0 {
			groups = append(groups, words)
		}
	}
	return groups
}

// Document loads the decoded transcript into a new document, carrying
// translations and the language tag.
func (t JSONTranscript) Document() (*transcript.Document, error) {
	doc := transcript.NewDocument()
	if err := doc.LoadSegments(t.WordGroups()); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	doc.SetLanguage(t.Language)

	segments := doc.Segments()
	i := 0
	for _, seg := range t.Segments {
		if len(seg.Words) == 0 && len(strings.Fields(seg.Text)) == 0 {
			continue
		}
		if seg.Translation != "" {
			doc.ApplyTranslation(segments[i].ID, seg.Translation)
		}
		i++
	}
	return doc, nil
}

// DecodeWordList reads a flat JSON array of words, the shape produced by
// word-level recognizers without segment grouping. Words must be ordered by
// start time.
func DecodeWordList(r io.Reader) ([]transcript.Word, error) {
	var raw []JSONWord
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	words := make([]transcript.Word, 0, len(raw))
	for i, w := range raw {
		if i > 0 && w.Start < raw[i-1].Start {
			return nil, fmt.Errorf("%w: word %d starts before word %d", ErrDecode, i, i-1)
		}
		words = append(words, transcript.Word{Text: w.Word, Start: w.Start, End: w.End, Confidence: w.Probability})
	}
	return words, nil
}
