// Package openai provides a completion adapter for OpenAI-compatible
// chat completion endpoints.
package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/gplanner/gplan/internal/core/domain"
	"github.com/gplanner/gplan/internal/core/ports/driven"
	"github.com/gplanner/gplan/internal/logger"
)

// Ensure Service implements the interface.
var _ driven.CompletionService = (*Service)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultModel   = "gpt-3.5-turbo"
	DefaultTimeout = 120 * time.Second

	chatPath = "/chat/completions"
)

// Config holds configuration for the OpenAI-compatible service.
type Config struct {
	// APIKey is sent as a bearer token. Local servers may not need one.
	APIKey string

	// URL is either the API base ("https://api.openai.com/v1") or the full
	// chat completions URL; a trailing /chat/completions is stripped.
	URL string

	// Model is the model to request (default: gpt-3.5-turbo).
	Model string

	// Timeout is the HTTP client timeout (default: 120s).
	Timeout time.Duration

	// HTTPClient overrides the client built from Timeout.
	HTTPClient *http.Client
}

// Service sends chat completions to an OpenAI-compatible endpoint.
type Service struct {
	client  *openai.Client
	baseURL string
	model   string
	log     *zap.Logger
}

// BaseURL normalises a configured URL to the API base.
func BaseURL(url string) string {
	url = strings.TrimSpace(url)
	if url == "" {
		return DefaultBaseURL
	}
	url = strings.TrimSuffix(url, "/")
	url = strings.TrimSuffix(url, chatPath)
	return strings.TrimSuffix(url, "/")
}

// New creates an OpenAI-compatible completion service.
func New(cfg Config) (*Service, error) {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	clientConfig.BaseURL = BaseURL(cfg.URL)
	if cfg.HTTPClient != nil {
		clientConfig.HTTPClient = cfg.HTTPClient
	} else {
		clientConfig.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &Service{
		client:  openai.NewClientWithConfig(clientConfig),
		baseURL: clientConfig.BaseURL,
		model:   cfg.Model,
		log:     logger.Named("completion.openai"),
	}, nil
}

// Complete sends a system and a user message and returns the first choice.
func (s *Service) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if systemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role: openai.ChatMessageRoleSystem, Content: systemPrompt,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role: openai.ChatMessageRoleUser, Content: userPrompt,
	})

	s.log.Debug("completion request",
		zap.String("model", s.model),
		zap.Int("prompt_len", len(userPrompt)))
	start := time.Now()

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    s.model,
		Messages: messages,
	})
	if err != nil {
		s.log.Warn("completion failed", zap.Duration("elapsed", time.Since(start)), zap.Error(err))
		return "", classify(err)
	}
	if len(resp.Choices) == 0 {
		return "", &domain.RequestFailed{Message: "no choices in response"}
	}

	s.log.Debug("completion done",
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
		zap.Duration("elapsed", time.Since(start)))
	return resp.Choices[0].Message.Content, nil
}

// Ping checks the endpoint by listing models.
func (s *Service) Ping(ctx context.Context) error {
	if _, err := s.client.ListModels(ctx); err != nil {
		return classify(err)
	}
	return nil
}

// ModelName returns the configured model.
func (s *Service) ModelName() string {
	return s.model
}

// Close releases resources.
func (s *Service) Close() error {
	return nil
}

// classify maps client errors to RequestFailed with the HTTP status when known.
func classify(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &domain.RequestFailed{StatusCode: apiErr.HTTPStatusCode, Message: apiErr.Message, Err: err}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &domain.RequestFailed{StatusCode: reqErr.HTTPStatusCode, Err: err}
	}
	return &domain.RequestFailed{Err: fmt.Errorf("openai: %w", err)}
}
