package transcript

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"framescribe/internal/logging"
)

type upperTranslator struct {
	mu   sync.Mutex
	seen map[string]bool
	fail string
	hook func()
}

func (u *upperTranslator) Translate(_ context.Context, req TranslationRequest) (string, error) {
	u.mu.Lock()
	if u.seen == nil {
		u.seen = make(map[string]bool)
	}
	u.seen[req.CorrelationID.String()] = true
	hook := u.hook
	u.mu.Unlock()
	if hook != nil {
		hook()
	}
	if req.Text == u.fail {
		return "", errors.New("service unavailable")
	}
	return strings.ToUpper(req.Text) + " [" + req.TargetLanguage + "]", nil
}

func TestSessionSerializesEdits(t *testing.T) {
	doc := loadedDoc(t, []string{"a", "b", "c", "d"})
	session := NewSession(doc, logging.NewNop())
	id := session.Segments()[0].ID

	if _, _, err := session.SplitAt(id, 2); err != nil {
		t.Fatalf("SplitAt: %v", err)
	}
	if _, _, err := session.SplitAt(id, 1); !errors.Is(err, ErrSegmentNotFound) {
		t.Fatalf("second split of replaced id = %v", err)
	}
	var wg sync.WaitGroup
	for range 8 {
		wg.Go(func() {
			session.Undo()
			session.Redo()
		})
	}
	wg.Wait()
	if got := len(session.Segments()); got != 2 {
		t.Fatalf("segments = %d, want 2", got)
	}
}

func TestTranslateAllAppliesByID(t *testing.T) {
	doc := loadedDoc(t, []string{"hello"}, []string{"world"}, []string{"broken"})
	doc.SetLanguage("en")
	session := NewSession(doc, nil)
	tr := &upperTranslator{fail: "broken"}

	res, err := TranslateAll(context.Background(), session, tr, TranslateOptions{Workers: 2, TargetLanguage: "fr"})
	if err != nil {
		t.Fatalf("TranslateAll: %v", err)
	}
	if res.Requested != 3 || res.Applied != 2 || res.Failed != 1 || res.Stale != 0 {
		t.Fatalf("result = %+v", res)
	}
	if len(tr.seen) != 3 {
		t.Fatalf("correlation ids not unique: %d", len(tr.seen))
	}
	segs := session.Segments()
	if segs[0].TranslatedText != "HELLO [fr]" || segs[2].TranslatedText != "" {
		t.Fatalf("translations = %q %q", segs[0].TranslatedText, segs[2].TranslatedText)
	}

	again, err := TranslateAll(context.Background(), session, tr, TranslateOptions{Workers: 2, TargetLanguage: "fr"})
	if err != nil {
		t.Fatal(err)
	}
	if again.Requested != 1 {
		t.Fatalf("already translated segments requested again: %+v", again)
	}
}

func TestTranslateAllSkipsBlankSegments(t *testing.T) {
	doc := loadedDoc(t, []string{"hello"}, []string{" "})
	session := NewSession(doc, nil)
	tr := &upperTranslator{}

	res, err := TranslateAll(context.Background(), session, tr, TranslateOptions{TargetLanguage: "de"})
	if err != nil {
		t.Fatalf("TranslateAll: %v", err)
	}
	if res.Requested != 1 || res.Applied != 1 || res.Failed != 0 {
		t.Fatalf("result = %+v", res)
	}
	if got := session.Segments()[1].TranslatedText; got != "" {
		t.Fatalf("blank segment translated to %q", got)
	}
}

func TestTranslateAllDropsStaleResults(t *testing.T) {
	doc := loadedDoc(t, []string{"first"}, []string{"second"})
	session := NewSession(doc, nil)
	var once sync.Once
	tr := &upperTranslator{hook: func() {
		once.Do(func() {
			if _, err := session.Merge(0); err != nil {
				t.Errorf("Merge: %v", err)
			}
		})
	}}

	res, err := TranslateAll(context.Background(), session, tr, TranslateOptions{Workers: 1})
	if err != nil {
		t.Fatalf("TranslateAll: %v", err)
	}
	if res.Stale != 2 || res.Applied != 0 {
		t.Fatalf("result = %+v, want both stale", res)
	}
	if segs := session.Segments(); len(segs) != 1 || segs[0].TranslatedText != "" {
		t.Fatalf("stale translation applied: %+v", segs)
	}
}

func TestApplyTranslationChecksSourceText(t *testing.T) {
	doc := loadedDoc(t, []string{"old", "text"})
	session := NewSession(doc, nil)
	id := session.Segments()[0].ID
	if err := session.ReplaceText(id, "new text"); err != nil {
		t.Fatal(err)
	}
	if session.ApplyTranslation(id, "old text", "vieux texte") {
		t.Fatalf("translation of replaced text was applied")
	}
	if !session.ApplyTranslation(id, "new text", "nouveau texte") {
		t.Fatalf("translation of current text was rejected")
	}
}
