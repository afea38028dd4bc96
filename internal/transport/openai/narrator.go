// Package openai generates restaurant narratives using an OpenAI-compatible
// chat completion API.
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

	"github.com/dinerank/dinerank/internal/domain"
	"github.com/dinerank/dinerank/internal/domain/analysis"
	"github.com/dinerank/dinerank/internal/metrics"
)

const systemPrompt = `You are a concise restaurant critic. Given structured review analysis data, reply with JSON only: {"summary": "<2-3 sentence narrative>", "highlights": ["<short phrase>", ...]}. Up to 4 highlights. No markdown, no extra keys.`

// Narrator is a narrative provider using the OpenAI-compatible API.
type Narrator struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
	provider    string
	logger      *zap.Logger
}

// Config holds the narrative provider settings.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float32
	Provider    string
	Logger      *zap.Logger
}

// NewNarrator creates an OpenAI-compatible narrative provider.
func NewNarrator(cfg *Config) *Narrator {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 400
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Narrator{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		maxTokens:   maxTokens,
		temperature: cfg.Temperature,
		provider:    cfg.Provider,
		logger:      logger,
	}
}

// Narrate implements profile.Narrator. Returns the generated narrative with
// transport-level metrics.
func (n *Narrator) Narrate(ctx context.Context, res analysis.Result) (*analysis.Narrative, error) {
	req := openai.ChatCompletionRequest{
		Model:       n.model,
		MaxTokens:   n.maxTokens,
		Temperature: n.temperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(res)},
		},
	}

	start := time.Now()

	resp, err := n.client.CreateChatCompletion(ctx, req)

	duration := time.Since(start)

	if err != nil {
		metrics.NarrativeRequestsTotal.WithLabelValues(n.provider, n.model, "error").Inc()
		return nil, parseAPIError(err)
	}

	if len(resp.Choices) == 0 {
		metrics.NarrativeRequestsTotal.WithLabelValues(n.provider, n.model, "error").Inc()
		return nil, fmt.Errorf("empty completion response: %w", domain.ErrNarrativeUnavailable)
	}

	narrative, err := parseNarrative(resp.Choices[0].Message.Content)
	if err != nil {
		metrics.NarrativeRequestsTotal.WithLabelValues(n.provider, n.model, "error").Inc()
		return nil, err
	}

	metrics.NarrativeRequestsTotal.WithLabelValues(n.provider, n.model, "success").Inc()
	metrics.NarrativeRequestDuration.WithLabelValues(n.provider, n.model).Observe(duration.Seconds())

	if resp.Usage.TotalTokens > 0 {
		metrics.NarrativeTokensTotal.WithLabelValues(n.provider, n.model, "prompt").Add(float64(resp.Usage.PromptTokens))
		metrics.NarrativeTokensTotal.WithLabelValues(n.provider, n.model, "total").Add(float64(resp.Usage.TotalTokens))
	}

	return narrative, nil
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (n *Narrator) HealthCheck(ctx context.Context) error {
	if _, err := n.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

// buildPrompt serializes the analysis facts the narrative is grounded on.
// Review texts are excluded on purpose: the model writes from aggregates, so
// it cannot quote a single reviewer verbatim.
func buildPrompt(res analysis.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Restaurant: %s\n", res.DisplayName)
	fmt.Fprintf(&b, "Unified score: %.1f/5 across %d reviews (confidence %d/100, data quality %s)\n",
		res.UnifiedScore, res.TotalReviews, res.Confidence, res.Quality)
	fmt.Fprintf(&b, "Rating trend: %s\n", res.Trend)
	fmt.Fprintf(&b, "Sentiment: %.0f%% positive, %.0f%% neutral, %.0f%% negative\n",
		res.Sentiment.Positive, res.Sentiment.Neutral, res.Sentiment.Negative)
	for _, th := range res.Themes {
		if th.Mentions == 0 {
			continue
		}
		fmt.Fprintf(&b, "Theme %s: mentioned in %.0f%% of reviews, sentiment-adjusted %.1f/5, keywords: %s\n",
			th.Theme, th.MentionPercent, th.SentimentScore, strings.Join(th.Keywords, ", "))
	}
	return b.String()
}

func parseNarrative(content string) (*analysis.Narrative, error) {
	var n analysis.Narrative
	if err := json.Unmarshal([]byte(content), &n); err != nil {
		return nil, fmt.Errorf("parse narrative reply: %w: %w", domain.ErrNarrativeUnavailable, err)
	}
	if n.Summary == "" {
		return nil, fmt.Errorf("narrative reply missing summary: %w", domain.ErrNarrativeUnavailable)
	}
	return &n, nil
}

// parseAPIError extracts a human-readable error from the API response.
// All errors are wrapped with domain.ErrNarrativeUnavailable.
func parseAPIError(err error) error {
	wrap := domain.ErrNarrativeUnavailable

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		detail := extractDetail(reqErr.Body)
		if detail != "" {
			return fmt.Errorf("completion API error %d: %s: %w",
				reqErr.HTTPStatusCode, detail, wrap)
		}
		return fmt.Errorf("completion API error %d: %s: %w",
			reqErr.HTTPStatusCode, string(reqErr.Body), wrap)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("completion API error %d: %s: %w",
			apiErr.HTTPStatusCode, apiErr.Message, wrap)
	}

	return fmt.Errorf("completion request failed: %w", wrap)
}

// extractDetail extracts the "detail" field from a JSON error body.
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return ""
}
