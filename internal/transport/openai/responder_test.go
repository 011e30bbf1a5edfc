package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/mindsync/internal/domain"
	domjournal "github.com/kailas-cloud/mindsync/internal/domain/journal"
	"github.com/kailas-cloud/mindsync/internal/metrics"
)

func TestMain(m *testing.M) {
	metrics.Register()
	os.Exit(m.Run())
}

// chatRequest is the subset of the chat completions request the tests inspect.
type chatRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
	MaxTokens int `json:"max_tokens"`
}

func chatServer(t *testing.T, reply string, got *chatRequest) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("unexpected auth header: %s", r.Header.Get("Authorization"))
		}
		if got != nil {
			if err := json.NewDecoder(r.Body).Decode(got); err != nil {
				t.Errorf("decode request: %v", err)
			}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":     "chatcmpl-1",
			"object": "chat.completion",
			"model":  "test-model",
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": reply},
				"finish_reason": "stop",
			}},
			"usage": map[string]any{"prompt_tokens": 30, "completion_tokens": 12, "total_tokens": 42},
		})
	}))
}

func newTestResponder(url string, ratePerSec float64) *Responder {
	return NewResponder(&Config{
		APIKey:     "test-key",
		BaseURL:    url,
		Model:      "test-model",
		MaxTokens:  200,
		RatePerSec: ratePerSec,
		Logger:     zap.NewNop(),
	})
}

func TestResponder_Respond(t *testing.T) {
	var req chatRequest
	server := chatServer(t, "  You sound proud of that session.  ", &req)
	defer server.Close()

	r := newTestResponder(server.URL, 0)
	excerpts := []domjournal.Excerpt{{Text: "Went to the gym", Metadata: domjournal.Metadata{Mood: domjournal.MoodHappy}}}

	got, err := r.Respond(context.Background(), "how was my workout", excerpts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "You sound proud of that session." {
		t.Errorf("reply = %q", got)
	}

	if req.Model != "test-model" || req.MaxTokens != 200 {
		t.Errorf("request model/max_tokens = %q/%d", req.Model, req.MaxTokens)
	}
	if len(req.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(req.Messages))
	}
	if req.Messages[0].Role != "system" || !strings.Contains(req.Messages[0].Content, "Entry 1 (Unknown date (Mood: happy)):\nWent to the gym") {
		t.Errorf("system message = %q", req.Messages[0].Content)
	}
	if req.Messages[1].Role != "user" || req.Messages[1].Content != "how was my workout" {
		t.Errorf("user message = %+v", req.Messages[1])
	}
}

func TestResponder_NoExcerpts(t *testing.T) {
	var req chatRequest
	server := chatServer(t, "Tell me more.", &req)
	defer server.Close()

	if _, err := newTestResponder(server.URL, 0).Respond(context.Background(), "hi", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(req.Messages[0].Content, domjournal.NoContext) {
		t.Errorf("system message should carry the empty context block: %q", req.Messages[0].Content)
	}
}

func TestResponder_EmptyCompletion(t *testing.T) {
	server := chatServer(t, "   ", nil)
	defer server.Close()

	_, err := newTestResponder(server.URL, 0).Respond(context.Background(), "q", nil)
	if !errors.Is(err, domain.ErrResponderError) {
		t.Fatalf("expected ErrResponderError, got %v", err)
	}
}

func TestResponder_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "model overloaded", "type": "server_error"},
		})
	}))
	defer server.Close()

	_, err := newTestResponder(server.URL, 0).Respond(context.Background(), "q", nil)
	if !errors.Is(err, domain.ErrResponderError) {
		t.Fatalf("expected ErrResponderError, got %v", err)
	}
	if !strings.Contains(err.Error(), "model overloaded") {
		t.Errorf("error should carry the provider message: %v", err)
	}
}

func TestResponder_UpstreamRateLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "rate limit exceeded", "type": "rate_limit_error"},
		})
	}))
	defer server.Close()

	_, err := newTestResponder(server.URL, 0).Respond(context.Background(), "q", nil)
	if !errors.Is(err, domain.ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
}

func TestResponder_Throttled(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{"message": map[string]any{"role": "assistant", "content": "ok"}}},
		})
	}))
	defer server.Close()

	// one token, refilled every 1000s
	r := newTestResponder(server.URL, 0.001)

	if _, err := r.Respond(context.Background(), "first", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := r.Respond(context.Background(), "second", nil)
	if !errors.Is(err, domain.ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
	if calls != 1 {
		t.Errorf("upstream called %d times, want 1", calls)
	}
}

func TestParseAPIError_Detail(t *testing.T) {
	err := parseAPIError(&openai.RequestError{
		HTTPStatusCode: http.StatusBadRequest,
		Body:           []byte(`{"detail":"bad model"}`),
	})
	if !errors.Is(err, domain.ErrResponderError) || !strings.Contains(err.Error(), "bad model") {
		t.Errorf("parseAPIError = %v", err)
	}
}
