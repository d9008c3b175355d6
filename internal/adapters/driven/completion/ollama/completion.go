// Package ollama provides a completion adapter for a local Ollama server.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/gplanner/gplan/internal/core/domain"
	"github.com/gplanner/gplan/internal/core/ports/driven"
	"github.com/gplanner/gplan/internal/logger"
)

// Ensure Service implements the interface.
var _ driven.CompletionService = (*Service)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "http://localhost:11434"
	DefaultModel   = "llama3.2"
	DefaultTimeout = 120 * time.Second
)

// Config holds configuration for the Ollama service.
type Config struct {
	// BaseURL is the Ollama API base URL (default: http://localhost:11434).
	BaseURL string

	// Model is the model to use (default: llama3.2).
	Model string

	// Timeout is the request timeout (default: 120s).
	Timeout time.Duration
}

// Service runs chat completions against Ollama.
type Service struct {
	client  *http.Client
	baseURL string
	model   string
	log     *zap.Logger
}

// chatRequest is the Ollama /api/chat request format.
type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

// chatMessage is the Ollama chat message format.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is the Ollama /api/chat response format.
type chatResponse struct {
	Message chatMessage `json:"message"`
	Done    bool        `json:"done"`
	Error   string      `json:"error,omitempty"`
}

// New creates an Ollama completion service.
func New(cfg Config) *Service {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Service{
		client:  &http.Client{Timeout: cfg.Timeout},
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		model:   cfg.Model,
		log:     logger.Named("completion.ollama"),
	}
}

// Complete sends a non-streaming chat request.
func (s *Service) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	messages := make([]chatMessage, 0, 2)
	if systemPrompt != "" {
		messages = append(messages, chatMessage{Role: "system", Content: systemPrompt})
	}
	messages = append(messages, chatMessage{Role: "user", Content: userPrompt})

	jsonBody, err := json.Marshal(chatRequest{Model: s.model, Messages: messages})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/api/chat", bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	s.log.Debug("completion request", zap.String("model", s.model))
	resp, err := s.client.Do(req)
	if err != nil {
		return "", &domain.RequestFailed{Err: fmt.Errorf("send request: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &domain.RequestFailed{StatusCode: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}
	if resp.StatusCode != http.StatusOK {
		s.log.Warn("completion failed", zap.Int("status", resp.StatusCode))
		return "", &domain.RequestFailed{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", &domain.RequestFailed{StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	if chatResp.Error != "" {
		return "", &domain.RequestFailed{StatusCode: resp.StatusCode, Message: chatResp.Error}
	}
	return chatResp.Message.Content, nil
}

// Ping checks the server by listing local models.
func (s *Service) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/api/tags", http.NoBody)
	if err != nil {
		return fmt.Errorf("ollama: failed to create ping request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return &domain.RequestFailed{Err: fmt.Errorf("ollama: ping failed: %w", err)}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return &domain.RequestFailed{StatusCode: resp.StatusCode, Message: "ollama ping"}
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
