// Package openai answers journal questions with an OpenAI-compatible chat model.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/kailas-cloud/mindsync/internal/domain"
	domjournal "github.com/kailas-cloud/mindsync/internal/domain/journal"
	"github.com/kailas-cloud/mindsync/internal/metrics"
)

const providerName = "openai"

const systemPrompt = `You are a warm, supportive journaling companion.
Answer the user's question using only the journal entries below.
If the entries do not cover the question, say so gently and invite the user to share more.
Keep the reply under 120 words.

Journal entries:
%s`

// Responder generates replies through the chat completions API.
type Responder struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
	limiter     *rate.Limiter
	logger      *zap.Logger
}

// Config holds the responder settings.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float32
	// RatePerSec limits requests per second. 0 disables the limit.
	RatePerSec float64
	Logger     *zap.Logger
}

// NewResponder creates an OpenAI-compatible responder.
func NewResponder(cfg *Config) *Responder {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	var limiter *rate.Limiter
	if cfg.RatePerSec > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSec), 1)
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return &Responder{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		limiter:     limiter,
		logger:      log,
	}
}

// Name identifies the responder in logs and metrics.
func (r *Responder) Name() string { return providerName }

// Respond asks the model to answer query grounded on the excerpts.
// Returns domain.ErrRateLimited when throttled and domain.ErrResponderError on API failure.
func (r *Responder) Respond(ctx context.Context, query string, excerpts []domjournal.Excerpt) (string, error) {
	if r.limiter != nil && !r.limiter.Allow() {
		metrics.ResponderRequestsTotal.WithLabelValues(providerName, "rate_limited").Inc()
		return "", fmt.Errorf("responder throttled: %w", domain.ErrRateLimited)
	}

	req := openai.ChatCompletionRequest{
		Model: r.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: fmt.Sprintf(systemPrompt, domjournal.BuildContext(excerpts))},
			{Role: openai.ChatMessageRoleUser, Content: query},
		},
		MaxTokens:   r.maxTokens,
		Temperature: r.temperature,
	}

	start := time.Now()
	resp, err := r.client.CreateChatCompletion(ctx, req)
	if err != nil {
		metrics.ResponderRequestsTotal.WithLabelValues(providerName, "error").Inc()
		return "", parseAPIError(err)
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		metrics.ResponderRequestsTotal.WithLabelValues(providerName, "error").Inc()
		return "", fmt.Errorf("empty completion: %w", domain.ErrResponderError)
	}

	metrics.ResponderRequestsTotal.WithLabelValues(providerName, "success").Inc()
	if resp.Usage.TotalTokens > 0 {
		metrics.ResponderTokensTotal.WithLabelValues(providerName, "prompt").Add(float64(resp.Usage.PromptTokens))
		metrics.ResponderTokensTotal.WithLabelValues(providerName, "completion").Add(float64(resp.Usage.CompletionTokens))
	}

	r.logger.Debug("chat completion",
		zap.String("model", r.model),
		zap.Duration("duration", time.Since(start)),
		zap.Int("total_tokens", resp.Usage.TotalTokens),
	)
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (r *Responder) HealthCheck(ctx context.Context) error {
	if _, err := r.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

// parseAPIError keeps the provider's message and wraps domain.ErrResponderError.
func parseAPIError(err error) error {
	wrap := domain.ErrResponderError

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		detail := extractDetail(reqErr.Body)
		if detail == "" {
			detail = string(reqErr.Body)
		}
		return fmt.Errorf("chat API error %d: %s: %w", reqErr.HTTPStatusCode, detail, wrap)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.HTTPStatusCode == 429 {
			wrap = domain.ErrRateLimited
		}
		return fmt.Errorf("chat API error %d: %s: %w", apiErr.HTTPStatusCode, apiErr.Message, wrap)
	}

	return fmt.Errorf("chat request failed: %v: %w", err, wrap)
}

// extractDetail reads the "detail" field some compatible providers return instead of "error".
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return ""
}
