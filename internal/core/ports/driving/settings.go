package driving

import (
	"context"

	"github.com/gplanner/gplan/internal/core/domain"
)

// SettingsService manages user settings.
type SettingsService interface {
	// Get retrieves current settings.
	Get() (*domain.AppSettings, error)

	// Save persists settings.
	Save(settings *domain.AppSettings) error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings

	// AddProfile stores a new AI profile and returns it with its id.
	AddProfile(profile domain.AIProfile) (domain.AIProfile, error)

	// RemoveProfile deletes an AI profile.
	RemoveProfile(id string) error

	// UseProfile makes id the active AI profile.
	UseProfile(id string) error

	// TestProfile checks that a stored profile reaches its endpoint.
	TestProfile(ctx context.Context, id string) error

	// ActiveProfile returns the active AI profile.
	ActiveProfile() (domain.AIProfile, bool)

	// SetActiveProject remembers the last opened project.
	SetActiveProject(id string) error

	// SetBoardLimits changes the card resize bounds.
	SetBoardLimits(limits domain.SizeLimits) error
}
