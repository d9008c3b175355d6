package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gplanner/gplan/internal/adapters/driven/storage/memory"
	"github.com/gplanner/gplan/internal/core/domain"
)

type stubValidator struct {
	err  error
	seen []domain.AIProfile
}

func (v *stubValidator) Validate(_ context.Context, p domain.AIProfile) error {
	v.seen = append(v.seen, p)
	return v.err
}

func newTestSettings(t *testing.T) (*SettingsService, *memory.ConfigStore) {
	t.Helper()
	store := memory.NewConfigStore()
	s := NewSettingsService(store, nil)
	s.newID = sequentialIDs("profile")
	return s, store
}

func TestSettingsService_Get_ReturnsDefaults(t *testing.T) {
	s, _ := newTestSettings(t)

	settings, err := s.Get()
	require.NoError(t, err)
	assert.Equal(t, s.GetDefaults(), *settings)
}

func TestSettingsService_Get_ReturnsStoredValues(t *testing.T) {
	s, store := newTestSettings(t)
	_ = store.Set("ai.profiles", []any{
		map[string]any{"id": "a", "name": "Local", "provider": "ollama", "model": "llama3.2"},
		map[string]any{"name": "no id is skipped"},
	})
	_ = store.Set("ai.active", "a")
	_ = store.Set("board.max_width", int64(1200))
	_ = store.Set("board.min_height", 0)

	settings, err := s.Get()
	require.NoError(t, err)
	require.Len(t, settings.Profiles, 1)
	assert.Equal(t, domain.AIProviderOllama, settings.Profiles[0].Provider)
	assert.Equal(t, 1200.0, settings.Board.Limits.Max.W)
	assert.Equal(t, domain.DefaultSizeLimits().Min.H, settings.Board.Limits.Min.H, "non-positive falls back")

	active, ok := s.ActiveProfile()
	require.True(t, ok)
	assert.Equal(t, "Local", active.Name)
}

func TestSettingsService_SaveRoundTrip(t *testing.T) {
	s, _ := newTestSettings(t)
	settings := s.GetDefaults()
	settings.ActiveProjectID = "p1"
	settings.Profiles[0].Key = "sk-123"

	require.NoError(t, s.Save(&settings))

	got, err := s.Get()
	require.NoError(t, err)
	assert.Equal(t, settings, *got)
}

func TestSettingsService_AddProfileUsesTemplate(t *testing.T) {
	s, _ := newTestSettings(t)

	p, err := s.AddProfile(domain.AIProfile{Key: "sk"})
	require.NoError(t, err)
	assert.Equal(t, "profile-1", p.ID)
	assert.Equal(t, "New Profile", p.Name)
	assert.Equal(t, "gpt-3.5-turbo", p.Model)

	local, err := s.AddProfile(domain.AIProfile{Name: "Box", Provider: domain.AIProviderOllama})
	require.NoError(t, err)
	assert.Empty(t, local.URL, "template URL only applies to openai")

	_, err = s.AddProfile(domain.AIProfile{Provider: "cohere"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	settings, _ := s.Get()
	assert.Len(t, settings.Profiles, 3)
}

func TestSettingsService_UseAndRemoveProfile(t *testing.T) {
	s, _ := newTestSettings(t)
	p, _ := s.AddProfile(domain.AIProfile{Name: "Second"})

	require.NoError(t, s.UseProfile(p.ID))
	active, _ := s.ActiveProfile()
	assert.Equal(t, p.ID, active.ID)
	assert.ErrorIs(t, s.UseProfile("nope"), domain.ErrNotFound)

	require.NoError(t, s.RemoveProfile(p.ID))
	active, _ = s.ActiveProfile()
	assert.Equal(t, domain.DefaultProfileID, active.ID)

	assert.ErrorIs(t, s.RemoveProfile(p.ID), domain.ErrNotFound)
	assert.ErrorIs(t, s.RemoveProfile(domain.DefaultProfileID), domain.ErrInvalidInput, "last profile stays")
}

func TestSettingsService_TestProfile(t *testing.T) {
	s, _ := newTestSettings(t)
	err := s.TestProfile(context.Background(), domain.DefaultProfileID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "default profile has no key")

	v := &stubValidator{err: errors.New("unreachable")}
	s.validator = v
	err = s.TestProfile(context.Background(), domain.DefaultProfileID)
	assert.ErrorContains(t, err, "unreachable")
	require.Len(t, v.seen, 1)
	assert.Equal(t, domain.DefaultProfileID, v.seen[0].ID)

	assert.ErrorIs(t, s.TestProfile(context.Background(), "nope"), domain.ErrNotFound)
}

func TestSettingsService_ActiveProject(t *testing.T) {
	s, store := newTestSettings(t)

	require.NoError(t, s.SetActiveProject("p9"))
	got, _ := s.Get()
	assert.Equal(t, "p9", got.ActiveProjectID)

	require.NoError(t, s.SetActiveProject(""))
	_, exists := store.Get("project.active")
	assert.False(t, exists)
}

func TestSettingsService_SetBoardLimits(t *testing.T) {
	s, _ := newTestSettings(t)

	limits := domain.SizeLimits{Min: domain.Size{W: 50, H: 50}, Max: domain.Size{W: 400, H: 300}}
	require.NoError(t, s.SetBoardLimits(limits))
	got, _ := s.Get()
	assert.Equal(t, limits, got.Board.Limits)

	bad := domain.SizeLimits{Min: domain.Size{W: 500, H: 50}, Max: domain.Size{W: 400, H: 300}}
	assert.ErrorIs(t, s.SetBoardLimits(bad), domain.ErrInvalidInput)
	assert.ErrorIs(t, s.SetBoardLimits(domain.SizeLimits{}), domain.ErrInvalidInput)
}
