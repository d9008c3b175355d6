package ai

import (
	"context"
	"fmt"

	"github.com/gplanner/gplan/internal/core/domain"
	"github.com/gplanner/gplan/internal/core/ports/driven"
)

// Ensure ProfileValidator implements the interface.
var _ driven.ProfileValidator = (*ProfileValidator)(nil)

// ProfileValidator checks profiles by building a client and pinging it.
type ProfileValidator struct {
	factory driven.CompletionFactory
}

// NewProfileValidator creates a validator using factory.
func NewProfileValidator(factory driven.CompletionFactory) *ProfileValidator {
	return &ProfileValidator{factory: factory}
}

// Validate builds a client for profile and pings it when the adapter
// supports a cheap check. Adapters without one are only constructed.
func (v *ProfileValidator) Validate(ctx context.Context, profile domain.AIProfile) error {
	if !profile.Provider.IsValid() {
		return domain.NewValidationError("provider", "unknown provider %q", profile.Provider)
	}
	if !profile.IsConfigured() {
		return domain.NewValidationError("profile", "%s is missing a model, URL or key", profile.Name)
	}
	svc, err := v.factory.Create(profile)
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}
	defer svc.Close()

	if p, ok := svc.(pinger); ok {
		ctx, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()
		return p.Ping(ctx)
	}
	return nil
}
