// Package ai builds completion services from AI profiles.
package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/gplanner/gplan/internal/adapters/driven/completion/anthropic"
	"github.com/gplanner/gplan/internal/adapters/driven/completion/ollama"
	"github.com/gplanner/gplan/internal/adapters/driven/completion/openai"
	"github.com/gplanner/gplan/internal/core/domain"
	"github.com/gplanner/gplan/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for connectivity validation.
const pingTimeout = 5 * time.Second

// Ensure Factory implements the interface.
var _ driven.CompletionFactory = (*Factory)(nil)

// Factory creates completion services for profiles.
type Factory struct {
	// Timeout is passed to each client. Zero keeps the adapter default.
	Timeout time.Duration
}

// NewFactory creates a factory.
func NewFactory(timeout time.Duration) *Factory {
	return &Factory{Timeout: timeout}
}

// Create returns a client for the profile.
func (f *Factory) Create(profile domain.AIProfile) (driven.CompletionService, error) {
	switch profile.Provider {
	case domain.AIProviderOpenAI:
		return openai.New(openai.Config{
			APIKey:  profile.Key,
			URL:     profile.URL,
			Model:   profile.Model,
			Timeout: f.Timeout,
		})
	case domain.AIProviderAnthropic:
		return anthropic.New(anthropic.Config{
			APIKey:  profile.Key,
			URL:     profile.URL,
			Model:   profile.Model,
			Timeout: f.Timeout,
		})
	case domain.AIProviderOllama:
		return ollama.New(ollama.Config{
			BaseURL: profile.URL,
			Model:   profile.Model,
			Timeout: f.Timeout,
		}), nil
	default:
		return nil, fmt.Errorf("ai provider %q: %w", profile.Provider, domain.ErrUnsupportedType)
	}
}

// CreateForSettings builds a client for the active profile. It returns
// nil without error when no usable profile is configured.
func (f *Factory) CreateForSettings(settings *domain.AppSettings) (driven.CompletionService, error) {
	if settings == nil {
		return nil, nil
	}
	profile, ok := settings.ActiveProfile()
	if !ok || !profile.IsConfigured() {
		return nil, nil
	}
	return f.Create(profile)
}

// pinger is implemented by clients that can check connectivity cheaply.
type pinger interface {
	Ping(ctx context.Context) error
}
