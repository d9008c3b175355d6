// Package anthropic provides a completion adapter for the Anthropic
// messages API.
package anthropic

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/liushuangls/go-anthropic/v2"
	"go.uber.org/zap"

	"github.com/gplanner/gplan/internal/core/domain"
	"github.com/gplanner/gplan/internal/core/ports/driven"
	"github.com/gplanner/gplan/internal/logger"
)

// Ensure Service implements the interface.
var _ driven.CompletionService = (*Service)(nil)

// Default configuration values.
const (
	DefaultModel     = "claude-3-5-sonnet-latest"
	DefaultTimeout   = 120 * time.Second
	DefaultMaxTokens = 2048
)

// Config holds configuration for the Anthropic service.
type Config struct {
	// APIKey is the Anthropic API key (required).
	APIKey string

	// URL overrides the API base, e.g. "https://api.anthropic.com/v1".
	URL string

	// Model is the model to request.
	Model string

	// MaxTokens caps the response length (default: 2048).
	MaxTokens int

	// Timeout is the HTTP client timeout (default: 120s).
	Timeout time.Duration
}

// Service sends messages to the Anthropic API.
type Service struct {
	client    *anthropic.Client
	model     string
	maxTokens int
	log       *zap.Logger
}

// New creates an Anthropic completion service.
func New(cfg Config) (*Service, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("anthropic: API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	opts := []anthropic.ClientOption{
		anthropic.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
	}
	if url := strings.TrimSuffix(strings.TrimSpace(cfg.URL), "/"); url != "" {
		opts = append(opts, anthropic.WithBaseURL(strings.TrimSuffix(url, "/messages")))
	}

	return &Service{
		client:    anthropic.NewClient(cfg.APIKey, opts...),
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		log:       logger.Named("completion.anthropic"),
	}, nil
}

// Complete sends one user message with a system prompt.
func (s *Service) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	s.log.Debug("completion request", zap.String("model", s.model), zap.Int("prompt_len", len(userPrompt)))
	start := time.Now()

	resp, err := s.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:     anthropic.Model(s.model),
		System:    systemPrompt,
		MaxTokens: s.maxTokens,
		Messages: []anthropic.Message{
			anthropic.NewUserTextMessage(userPrompt),
		},
	})
	if err != nil {
		s.log.Warn("completion failed", zap.Duration("elapsed", time.Since(start)), zap.Error(err))
		return "", classify(err)
	}

	text, ok := firstText(resp)
	if !ok {
		return "", &domain.RequestFailed{Message: "no text in response"}
	}
	s.log.Debug("completion done", zap.Duration("elapsed", time.Since(start)))
	return text, nil
}

// ModelName returns the configured model.
func (s *Service) ModelName() string {
	return s.model
}

// Close releases resources.
func (s *Service) Close() error {
	return nil
}

func firstText(resp anthropic.MessagesResponse) (string, bool) {
	for _, block := range resp.Content {
		if block.Type == "text" && block.Text != nil {
			return *block.Text, true
		}
	}
	return "", false
}

func classify(err error) error {
	var reqErr *anthropic.RequestError
	if errors.As(err, &reqErr) {
		return &domain.RequestFailed{StatusCode: reqErr.StatusCode, Err: err}
	}
	var apiErr *anthropic.APIError
	if errors.As(err, &apiErr) {
		return &domain.RequestFailed{Message: apiErr.Message, Err: err}
	}
	return &domain.RequestFailed{Err: fmt.Errorf("anthropic: %w", err)}
}
