package driving

import (
	"context"

	"github.com/gplanner/gplan/internal/core/domain"
)

// AssistantService runs AI completions on behalf of the editors.
type AssistantService interface {
	// Available reports whether a completion service is configured.
	Available() bool

	// ModelName returns the configured model, or empty.
	ModelName() string

	// Complete sends raw prompts.
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)

	// SummarizeNode runs an AI card and writes the result back into it.
	SummarizeNode(ctx context.Context, nodeID string, mode domain.SummaryMode) (string, error)

	// DocAssist runs a document assistant action and returns the text.
	DocAssist(ctx context.Context, mode domain.AssistMode, text string) (string, error)
}
