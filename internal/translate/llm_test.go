package translate

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"framescribe/internal/transcript"
)

func completionHandler(t *testing.T, content string) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		payload := map[string]any{
			"choices": []any{
				map[string]any{"message": map[string]any{"content": content}},
			},
		}
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			t.Errorf("encode response: %v", err)
		}
	}
}

func TestLLMTranslatorSendsPrompt(t *testing.T) {
	var got chatRequest
	var auth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		completionHandler(t, `{"translation":"bonjour le monde"}`)(w, r)
	}))
	defer server.Close()

	tr := NewLLMTranslator(LLMConfig{APIKey: "test", BaseURL: server.URL, Model: "demo-model"})
	out, err := tr.Translate(context.Background(), transcript.TranslationRequest{
		Text:           "hello world",
		SourceLanguage: "en",
		TargetLanguage: "fr",
	})
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if out != "bonjour le monde" {
		t.Fatalf("Translate = %q", out)
	}
	if auth != "Bearer test" {
		t.Fatalf("Authorization = %q", auth)
	}
	if got.Model != "demo-model" || len(got.Messages) != 2 {
		t.Fatalf("request = %+v", got)
	}
	if !strings.Contains(got.Messages[0].Content, "English to French") {
		t.Fatalf("system prompt = %q, want language names", got.Messages[0].Content)
	}
	if got.Messages[1].Content != "hello world" {
		t.Fatalf("user content = %q", got.Messages[1].Content)
	}
}

func TestLLMTranslatorCodeFence(t *testing.T) {
	server := httptest.NewServer(completionHandler(t, "```json\n{\"translation\":\"hola\"}\n```"))
	defer server.Close()

	tr := NewLLMTranslator(LLMConfig{APIKey: "test", BaseURL: server.URL, Model: "demo"})
	out, err := tr.Translate(context.Background(), transcript.TranslationRequest{Text: "hi", TargetLanguage: "es"})
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if out != "hola" {
		t.Fatalf("Translate = %q, want hola", out)
	}
}

func TestLLMTranslatorRetriesRateLimit(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.Header().Set("Retry-After", "2")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		completionHandler(t, `{"translation":"ok"}`)(w, r)
	}))
	defer server.Close()

	var sleeps []time.Duration
	tr := NewLLMTranslator(
		LLMConfig{APIKey: "test", BaseURL: server.URL, Model: "demo"},
		WithSleeper(func(d time.Duration) { sleeps = append(sleeps, d) }),
	)
	out, err := tr.Translate(context.Background(), transcript.TranslationRequest{Text: "x", TargetLanguage: "fr"})
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if out != "ok" || calls.Load() != 3 {
		t.Fatalf("out = %q after %d calls", out, calls.Load())
	}
	if len(sleeps) != 2 || sleeps[0] != 2*time.Second {
		t.Fatalf("sleeps = %v, want two Retry-After delays", sleeps)
	}
}

func TestLLMTranslatorDoesNotRetryUnauthorized(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
	}))
	defer server.Close()

	tr := NewLLMTranslator(
		LLMConfig{APIKey: "bad", BaseURL: server.URL, Model: "demo"},
		WithSleeper(func(time.Duration) {}),
	)
	_, err := tr.Translate(context.Background(), transcript.TranslationRequest{Text: "x", TargetLanguage: "fr"})
	if err == nil || !strings.Contains(err.Error(), "http 401") {
		t.Fatalf("err = %v, want http 401", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("calls = %d, want 1", calls.Load())
	}
}

func TestLLMTranslatorGivesUpAfterMaxAttempts(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	tr := NewLLMTranslator(
		LLMConfig{APIKey: "test", BaseURL: server.URL, Model: "demo"},
		WithRetryMaxAttempts(2),
		WithSleeper(func(time.Duration) {}),
	)
	_, err := tr.Translate(context.Background(), transcript.TranslationRequest{Text: "x", TargetLanguage: "fr"})
	if err == nil || !strings.Contains(err.Error(), "failed after 2 attempts") {
		t.Fatalf("err = %v", err)
	}
	var statusErr *statusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusBadGateway {
		t.Fatalf("err = %v, want wrapped http 502", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("calls = %d, want 2", calls.Load())
	}
}

func TestLLMTranslatorSkipsBlankText(t *testing.T) {
	tr := NewLLMTranslator(LLMConfig{})
	out, err := tr.Translate(context.Background(), transcript.TranslationRequest{Text: "   "})
	if err != nil || out != "" {
		t.Fatalf("Translate = %q, %v", out, err)
	}
}

func TestBackoffDelayDoublesToCap(t *testing.T) {
	tr := NewLLMTranslator(LLMConfig{}, WithRetryBackoff(time.Second, 5*time.Second))
	want := []time.Duration{time.Second, 2 * time.Second, 4 * time.Second, 5 * time.Second}
	for i, w := range want {
		if got := tr.backoffDelay(i + 1); got != w {
			t.Fatalf("backoffDelay(%d) = %v, want %v", i+1, got, w)
		}
	}
}

func TestDecodeJSONContentExtractsObject(t *testing.T) {
	var out struct {
		Translation string `json:"translation"`
	}
	if err := decodeJSONContent(`Sure! {"translation":"ja"} hope that helps`, &out); err != nil {
		t.Fatalf("decodeJSONContent: %v", err)
	}
	if out.Translation != "ja" {
		t.Fatalf("translation = %q", out.Translation)
	}
	if err := decodeJSONContent("no json here", &out); err == nil {
		t.Fatal("expected error for payload without an object")
	}
}
