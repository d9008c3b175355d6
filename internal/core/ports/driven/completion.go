package driven

import (
	"context"

	"github.com/gplanner/gplan/internal/core/domain"
)

// CompletionService sends a system and a user prompt and returns plain text.
// This is an optional service - when nil, AI features report
// domain.ErrCompletionUnavailable.
//
// Implementations may include:
//   - OpenAI-compatible chat completion endpoints
//   - Anthropic (Claude)
//   - Ollama (local models)
//
// Failures are reported as *domain.RequestFailed. Implementations never retry.
type CompletionService interface {
	// Complete runs one completion.
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)

	// ModelName returns the model identifier requests are sent to.
	ModelName() string

	// Close releases resources.
	Close() error
}

// CompletionFactory builds a CompletionService for an AI profile.
type CompletionFactory interface {
	// Create returns a client for the profile.
	// Returns domain.ErrUnsupportedType for unknown providers.
	Create(profile domain.AIProfile) (CompletionService, error)
}
