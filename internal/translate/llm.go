package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"framescribe/internal/language"
	"framescribe/internal/transcript"
)

const (
	defaultLLMBaseURL     = "https://openrouter.ai/api/v1/chat/completions"
	defaultLLMTimeout     = 30 * time.Second
	defaultRetryAttempts  = 5
	defaultRetryBaseDelay = 1 * time.Second
	defaultRetryMaxDelay  = 10 * time.Second
)

const llmSystemPrompt = `You translate subtitle lines from %s to %s.
Keep the meaning, tone and line length close to the original.
Do not add notes or explanations.
Respond with JSON only: {"translation": "<translated text>"}`

// LLMConfig captures the settings for a chat-completions endpoint.
type LLMConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// LLMTranslator sends each segment to an OpenAI-compatible chat completion
// endpoint and expects a JSON object carrying the translation.
type LLMTranslator struct {
	cfg        LLMConfig
	httpClient *http.Client

	retryMaxAttempts int
	retryBaseDelay   time.Duration
	retryMaxDelay    time.Duration
	sleeper          func(time.Duration)
}

// LLMOption customizes an LLMTranslator.
type LLMOption func(*LLMTranslator)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) LLMOption {
	return func(t *LLMTranslator) {
		if client != nil {
			t.httpClient = client
		}
	}
}

// WithRetryMaxAttempts overrides the retry count.
func WithRetryMaxAttempts(attempts int) LLMOption {
	return func(t *LLMTranslator) {
		t.retryMaxAttempts = attempts
	}
}

// WithRetryBackoff overrides the retry backoff delays.
func WithRetryBackoff(baseDelay, maxDelay time.Duration) LLMOption {
	return func(t *LLMTranslator) {
		t.retryBaseDelay = baseDelay
		t.retryMaxDelay = maxDelay
	}
}

// WithSleeper overrides how retry sleeps are performed.
func WithSleeper(sleeper func(time.Duration)) LLMOption {
	return func(t *LLMTranslator) {
		t.sleeper = sleeper
	}
}

// NewLLMTranslator constructs a translator for cfg.
func NewLLMTranslator(cfg LLMConfig, opts ...LLMOption) *LLMTranslator {
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	cfg.BaseURL = strings.TrimSpace(cfg.BaseURL)
	cfg.Model = strings.TrimSpace(cfg.Model)
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultLLMBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultLLMTimeout
	}
	t := &LLMTranslator{
		cfg:              cfg,
		httpClient:       &http.Client{Timeout: cfg.Timeout},
		retryMaxAttempts: defaultRetryAttempts,
		retryBaseDelay:   defaultRetryBaseDelay,
		retryMaxDelay:    defaultRetryMaxDelay,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Available reports whether the translator has the credentials it needs.
func (t *LLMTranslator) Available() error {
	if t.cfg.APIKey == "" {
		return errors.New("translation.api_key required (or set FRAMESCRIBE_TRANSLATION_API_KEY)")
	}
	if t.cfg.Model == "" {
		return errors.New("translation.model required")
	}
	return nil
}

// Describe names the backend for status output.
func (t *LLMTranslator) Describe() string {
	return fmt.Sprintf("llm %s", t.cfg.Model)
}

// Translate implements transcript.Translator.
func (t *LLMTranslator) Translate(ctx context.Context, req transcript.TranslationRequest) (string, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return "", nil
	}
	if err := t.Available(); err != nil {
		return "", err
	}
	payload := chatRequest{
		Model: t.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: fmt.Sprintf(llmSystemPrompt, languageLabel(req.SourceLanguage), languageLabel(req.TargetLanguage))},
			{Role: "user", Content: text},
		},
		ResponseFormat: map[string]string{"type": "json_object"},
	}

	content, err := t.completeWithRetry(ctx, payload)
	if err != nil {
		return "", err
	}
	var parsed struct {
		Translation string `json:"translation"`
	}
	if err := decodeJSONContent(content, &parsed); err != nil {
		return "", fmt.Errorf("llm translate: parse payload: %w", err)
	}
	out := strings.TrimSpace(parsed.Translation)
	if out == "" {
		return "", fmt.Errorf("llm translate: empty translation (payload snippet: %s)", snippet(content))
	}
	return out, nil
}

func languageLabel(code string) string {
	if strings.TrimSpace(code) == "" {
		return "the detected source language"
	}
	return language.DisplayName(code)
}

type chatRequest struct {
	Model          string            `json:"model"`
	Messages       []chatMessage     `json:"messages"`
	Temperature    float64           `json:"temperature"`
	ResponseFormat map[string]string `json:"response_format"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		// Some providers return the streaming schema even when stream=false.
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

type statusError struct {
	StatusCode int
	Body       string
	RetryAfter time.Duration
}

func (e *statusError) Error() string {
	return fmt.Sprintf("llm request: http %d: %s", e.StatusCode, e.Body)
}

var errEmptyContent = errors.New("llm request: empty content")

func (t *LLMTranslator) completeWithRetry(ctx context.Context, payload chatRequest) (string, error) {
	attempts := max(t.retryMaxAttempts, 1)
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		content, err := t.completeOnce(ctx, payload)
		if err == nil {
			return content, nil
		}
		lastErr = err
		delay, retry := t.retryDelay(ctx, err, attempt)
		if !retry {
			return "", err
		}
		if attempt == attempts {
			break
		}
		if err := t.sleep(ctx, delay); err != nil {
			return "", err
		}
	}
	return "", fmt.Errorf("llm translate: failed after %d attempts: %w", attempts, lastErr)
}

func (t *LLMTranslator) completeOnce(ctx context.Context, payload chatRequest) (string, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("llm request: encode body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.cfg.BaseURL, bytes.NewReader(encoded))
	if err != nil {
		return "", fmt.Errorf("llm request: new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+t.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Title", "framescribe")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("llm request: http error (timeout=%s): %w", t.httpClient.Timeout, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("llm request: read body: %w", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		retryAfter, _ := parseRetryAfter(resp.Header.Get("Retry-After"))
		return "", &statusError{StatusCode: resp.StatusCode, Body: snippet(string(body)), RetryAfter: retryAfter}
	}

	var completion chatResponse
	if err := json.Unmarshal(body, &completion); err != nil {
		return "", fmt.Errorf("llm request: decode response: %w", err)
	}
	if completion.Error != nil {
		return "", fmt.Errorf("llm request: api error: %s", strings.TrimSpace(completion.Error.Message))
	}
	for _, choice := range completion.Choices {
		for _, content := range []string{choice.Message.Content, choice.Delta.Content} {
			if trimmed := strings.TrimSpace(content); trimmed != "" {
				return trimmed, nil
			}
		}
	}
	return "", fmt.Errorf("%w (response snippet: %s)", errEmptyContent, snippet(string(body)))
}

// retryDelay reports whether err is transient and how long to wait before
// the next attempt.
func (t *LLMTranslator) retryDelay(ctx context.Context, err error, attempt int) (time.Duration, bool) {
	if ctx.Err() != nil {
		return 0, false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return 0, false
	}
	if errors.Is(err, errEmptyContent) {
		return t.backoffDelay(attempt), true
	}

	var statusErr *statusError
	if errors.As(err, &statusErr) {
		switch {
		case statusErr.StatusCode == http.StatusRequestTimeout,
			statusErr.StatusCode == http.StatusTooManyRequests,
			statusErr.StatusCode >= http.StatusInternalServerError:
			if statusErr.RetryAfter > 0 {
				return t.capDelay(statusErr.RetryAfter), true
			}
			return t.backoffDelay(attempt), true
		default:
			return 0, false
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return t.backoffDelay(attempt), true
	}
	return 0, false
}

// backoffDelay doubles from the base delay: attempt 1 waits base, attempt 2
// waits base*2, and so on up to the cap.
func (t *LLMTranslator) backoffDelay(attempt int) time.Duration {
	if t.retryBaseDelay <= 0 {
		return 0
	}
	delay := t.retryBaseDelay
	for i := 1; i < attempt; i++ {
		if t.retryMaxDelay > 0 && delay > t.retryMaxDelay/2 {
			return t.retryMaxDelay
		}
		delay *= 2
	}
	return t.capDelay(delay)
}

func (t *LLMTranslator) capDelay(delay time.Duration) time.Duration {
	if delay < 0 {
		return 0
	}
	if t.retryMaxDelay > 0 && delay > t.retryMaxDelay {
		return t.retryMaxDelay
	}
	return delay
}

func (t *LLMTranslator) sleep(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	if t.sleeper != nil {
		t.sleeper(delay)
		return ctx.Err()
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func parseRetryAfter(value string) (time.Duration, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		if seconds < 0 {
			return 0, false
		}
		return time.Duration(seconds) * time.Second, true
	}
	if when, err := http.ParseTime(value); err == nil {
		if delay := time.Until(when); delay > 0 {
			return delay, true
		}
	}
	return 0, false
}

// decodeJSONContent tolerates models that wrap the object in a code fence or
// surround it with prose.
func decodeJSONContent(content string, target any) error {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return errors.New("empty payload")
	}
	directErr := json.Unmarshal([]byte(trimmed), target)
	if directErr == nil {
		return nil
	}
	sanitized := stripCodeFence(trimmed)
	if start := strings.Index(sanitized, "{"); start >= 0 {
		if end := strings.LastIndex(sanitized, "}"); end > start {
			sanitized = sanitized[start : end+1]
		}
	}
	if sanitized == trimmed {
		return fmt.Errorf("%w (payload snippet: %s)", directErr, snippet(trimmed))
	}
	if err := json.Unmarshal([]byte(sanitized), target); err != nil {
		return fmt.Errorf("%w (sanitized payload snippet: %s)", err, snippet(sanitized))
	}
	return nil
}

func stripCodeFence(content string) string {
	if !strings.HasPrefix(content, "```") {
		return content
	}
	body := strings.TrimLeft(content[3:], " \t\r\n")
	if len(body) >= 4 && strings.EqualFold(body[:4], "json") {
		body = strings.TrimLeft(body[4:], " \t\r\n")
	}
	if idx := strings.LastIndex(body, "```"); idx >= 0 {
		body = body[:idx]
	}
	return strings.TrimSpace(body)
}

func snippet(content string) string {
	clean := strings.Join(strings.Fields(content), " ")
	if clean == "" {
		return "<empty>"
	}
	const limit = 160
	if runes := []rune(clean); len(runes) > limit {
		return string(runes[:limit]) + "..."
	}
	return clean
}
