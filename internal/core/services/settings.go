package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/gplanner/gplan/internal/core/domain"
	"github.com/gplanner/gplan/internal/core/ports/driven"
	"github.com/gplanner/gplan/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyAIProfiles    = "ai.profiles"
	keyAIActive      = "ai.active"
	keyProjectActive = "project.active"
	keyBoardMinW     = "board.min_width"
	keyBoardMinH     = "board.min_height"
	keyBoardMaxW     = "board.max_width"
	keyBoardMaxH     = "board.max_height"
)

// SettingsService manages user settings.
type SettingsService struct {
	configStore driven.ConfigStore
	validator   driven.ProfileValidator
	newID       func() string
}

// NewSettingsService creates a new settings service. validator may be nil,
// in which case TestProfile only checks that the profile is complete.
func NewSettingsService(configStore driven.ConfigStore, validator driven.ProfileValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		validator:   validator,
		newID:       uuid.NewString,
	}
}

// Get retrieves current settings. Missing values take their defaults.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Profiles:        s.getProfiles(defaults.Profiles),
		ActiveProfileID: s.getString(keyAIActive, defaults.ActiveProfileID),
		ActiveProjectID: s.configStore.GetString(keyProjectActive),
		Board: domain.BoardSettings{
			Limits: domain.SizeLimits{
				Min: domain.Size{
					W: s.getFloat(keyBoardMinW, defaults.Board.Limits.Min.W),
					H: s.getFloat(keyBoardMinH, defaults.Board.Limits.Min.H),
				},
				Max: domain.Size{
					W: s.getFloat(keyBoardMaxW, defaults.Board.Limits.Max.W),
					H: s.getFloat(keyBoardMaxH, defaults.Board.Limits.Max.H),
				},
			},
		},
	}
	return settings, nil
}

// Save persists settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if err := validateLimits(settings.Board.Limits); err != nil {
		return err
	}

	tables := make([]map[string]any, 0, len(settings.Profiles))
	for _, p := range settings.Profiles {
		tables = append(tables, profileToTable(p))
	}
	if err := s.configStore.Set(keyAIProfiles, tables); err != nil {
		return fmt.Errorf("save ai profiles: %w", err)
	}
	if err := s.configStore.Set(keyAIActive, settings.ActiveProfileID); err != nil {
		return fmt.Errorf("save active profile: %w", err)
	}
	if err := s.configStore.Set(keyProjectActive, settings.ActiveProjectID); err != nil {
		return fmt.Errorf("save active project: %w", err)
	}
	return s.saveLimits(settings.Board.Limits)
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// AddProfile stores a new profile. Blank fields take the template values.
func (s *SettingsService) AddProfile(profile domain.AIProfile) (domain.AIProfile, error) {
	tpl := domain.NewProfileTemplate()
	if profile.Provider == "" {
		profile.Provider = tpl.Provider
	}
	if !profile.Provider.IsValid() {
		return domain.AIProfile{}, domain.NewValidationError("provider", "unknown provider %q", profile.Provider)
	}
	if strings.TrimSpace(profile.Name) == "" {
		profile.Name = tpl.Name
	}
	if profile.Model == "" && profile.Provider == tpl.Provider {
		profile.Model = tpl.Model
	}
	if profile.URL == "" && profile.Provider == tpl.Provider {
		profile.URL = tpl.URL
	}
	profile.ID = s.newID()

	settings, err := s.Get()
	if err != nil {
		return domain.AIProfile{}, err
	}
	settings.Profiles = append(settings.Profiles, profile)
	if err := s.Save(settings); err != nil {
		return domain.AIProfile{}, err
	}
	return profile, nil
}

// RemoveProfile deletes a profile. The last profile cannot be removed.
// Removing the active profile activates the first remaining one.
func (s *SettingsService) RemoveProfile(id string) error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	idx := -1
	for i, p := range settings.Profiles {
		if p.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("profile %s: %w", id, domain.ErrNotFound)
	}
	if len(settings.Profiles) == 1 {
		return domain.NewValidationError("profile", "cannot remove the last profile")
	}
	settings.Profiles = append(settings.Profiles[:idx], settings.Profiles[idx+1:]...)
	if settings.ActiveProfileID == id {
		settings.ActiveProfileID = settings.Profiles[0].ID
	}
	return s.Save(settings)
}

// UseProfile makes id the active profile.
func (s *SettingsService) UseProfile(id string) error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	if _, ok := findProfile(settings.Profiles, id); !ok {
		return fmt.Errorf("profile %s: %w", id, domain.ErrNotFound)
	}
	return s.configStore.Set(keyAIActive, id)
}

// TestProfile validates a stored profile against its endpoint.
func (s *SettingsService) TestProfile(ctx context.Context, id string) error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	profile, ok := findProfile(settings.Profiles, id)
	if !ok {
		return fmt.Errorf("profile %s: %w", id, domain.ErrNotFound)
	}
	if s.validator == nil {
		if !profile.IsConfigured() {
			return domain.NewValidationError("profile", "%s is missing a model, URL or key", profile.Name)
		}
		return nil
	}
	return s.validator.Validate(ctx, profile)
}

// ActiveProfile returns the active profile, falling back to the first.
func (s *SettingsService) ActiveProfile() (domain.AIProfile, bool) {
	settings, err := s.Get()
	if err != nil {
		return domain.AIProfile{}, false
	}
	return settings.ActiveProfile()
}

// SetActiveProject remembers the last opened project. Empty clears it.
func (s *SettingsService) SetActiveProject(id string) error {
	if id == "" {
		return s.configStore.Delete(keyProjectActive)
	}
	return s.configStore.Set(keyProjectActive, id)
}

// SetBoardLimits changes the card resize bounds.
func (s *SettingsService) SetBoardLimits(limits domain.SizeLimits) error {
	if err := validateLimits(limits); err != nil {
		return err
	}
	return s.saveLimits(limits)
}

func (s *SettingsService) saveLimits(l domain.SizeLimits) error {
	values := []struct {
		key string
		v   float64
	}{
		{keyBoardMinW, l.Min.W},
		{keyBoardMinH, l.Min.H},
		{keyBoardMaxW, l.Max.W},
		{keyBoardMaxH, l.Max.H},
	}
	for _, kv := range values {
		if err := s.configStore.Set(kv.key, kv.v); err != nil {
			return fmt.Errorf("save %s: %w", kv.key, err)
		}
	}
	return nil
}

// Helper methods for reading config values with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	if val := s.configStore.GetString(key); val != "" {
		return val
	}
	return defaultVal
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	if val := s.configStore.GetFloat(key); val > 0 {
		return val
	}
	return defaultVal
}

func (s *SettingsService) getProfiles(defaultVal []domain.AIProfile) []domain.AIProfile {
	tables := s.configStore.GetTables(keyAIProfiles)
	var out []domain.AIProfile
	for _, t := range tables {
		p := profileFromTable(t)
		if p.ID == "" {
			continue
		}
		out = append(out, p)
	}
	if len(out) == 0 {
		return defaultVal
	}
	return out
}

func validateLimits(l domain.SizeLimits) error {
	if !l.Min.Finite() || !l.Max.Finite() {
		return domain.NewValidationError("limits", "sizes must be finite numbers")
	}
	if l.Min.W <= 0 || l.Min.H <= 0 {
		return domain.NewValidationError("limits", "minimum size must be positive")
	}
	if l.Max.W < l.Min.W || l.Max.H < l.Min.H {
		return domain.NewValidationError("limits", "maximum size must not be below the minimum")
	}
	return nil
}

func findProfile(profiles []domain.AIProfile, id string) (domain.AIProfile, bool) {
	for _, p := range profiles {
		if p.ID == id {
			return p, true
		}
	}
	return domain.AIProfile{}, false
}

func profileToTable(p domain.AIProfile) map[string]any {
	return map[string]any{
		"id":       p.ID,
		"name":     p.Name,
		"provider": p.Provider.String(),
		"url":      p.URL,
		"key":      p.Key,
		"model":    p.Model,
	}
}

func profileFromTable(t map[string]any) domain.AIProfile {
	str := func(k string) string {
		v, _ := t[k].(string)
		return v
	}
	return domain.AIProfile{
		ID:       str("id"),
		Name:     str("name"),
		Provider: domain.AIProvider(str("provider")),
		URL:      str("url"),
		Key:      str("key"),
		Model:    str("model"),
	}
}
