package testsupport

import (
	"context"
	"testing"

	"framescribe/internal/config"
	"framescribe/internal/store"
	"framescribe/internal/transcript"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// Words builds evenly spaced words, one second apart, from texts.
func Words(texts ...string) []transcript.Word {
	out := make([]transcript.Word, len(texts))
	for i, text := range texts {
		out[i] = transcript.Word{
			Text:       text,
			Start:      float64(i),
			End:        float64(i) + 0.8,
			Confidence: 0.9,
		}
	}
	return out
}

// NewDocument stores a document loaded from texts with punctuation boundaries.
func NewDocument(t testing.TB, st *store.Store, name string, texts ...string) *store.Record {
	t.Helper()

	doc := transcript.NewDocument()
	if err := doc.Load(Words(texts...), transcript.PunctuationBoundary); err != nil {
		t.Fatalf("Load: %v", err)
	}
	doc.SetLanguage("en")
	rec, err := st.Create(context.Background(), name, "", doc)
	if err != nil {
		t.Fatalf("store.Create: %v", err)
	}
	return rec
}
