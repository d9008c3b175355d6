package driven

import (
	"context"

	"github.com/gplanner/gplan/internal/core/domain"
)

// ProfileValidator checks that an AI profile can reach its endpoint.
type ProfileValidator interface {
	// Validate returns nil when the profile is configured and reachable.
	Validate(ctx context.Context, profile domain.AIProfile) error
}
