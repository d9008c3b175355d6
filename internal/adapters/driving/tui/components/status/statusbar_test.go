package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gplanner/gplan/internal/adapters/driving/tui/keymap"
	"github.com/gplanner/gplan/internal/adapters/driving/tui/styles"
	"github.com/gplanner/gplan/internal/core/domain"
)

func TestNewBar(t *testing.T) {
	bar := NewBar(styles.DefaultStyles(), keymap.DefaultKeyMap())

	require.NotNil(t, bar)
	assert.Equal(t, StateReady, bar.State())
	assert.Empty(t, bar.Message())
	assert.Equal(t, domain.StatusSaved, bar.SaveStatus())
	assert.Nil(t, bar.Init())
}

func TestNewBar_NilStyles(t *testing.T) {
	bar := NewBar(nil, nil)

	require.NotNil(t, bar)
	assert.NotNil(t, bar.styles)
	assert.NotNil(t, bar.keymap)
}

func TestBar_ViewReady(t *testing.T) {
	bar := NewBar(nil, nil)

	view := bar.View()

	assert.Contains(t, view, "Ready")
	assert.Contains(t, view, "quit")
}

func TestBar_ViewShowsProjectAndSaveStatus(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetWidth(120)
	bar.SetProject("Space Miner")
	bar.SetSaveStatus(domain.StatusUnsaved)

	view := bar.View()

	assert.Contains(t, view, "Space Miner")
	assert.Contains(t, view, "unsaved")
	assert.NotContains(t, view, "Ready")
}

func TestBar_ViewError(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetWidth(120)
	bar.SetState(StateError)
	bar.SetMessage("disk full")

	assert.Contains(t, bar.View(), "Error: disk full")
}

func TestBar_ViewNotice(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetWidth(120)
	bar.SetState(StateNotice)
	bar.SetMessage("Saved")

	assert.Contains(t, bar.View(), "Saved")
}

func TestBar_SetBindings(t *testing.T) {
	km := keymap.DefaultKeyMap()
	bar := NewBar(nil, km)
	bar.SetWidth(160)

	bar.SetBindings(km.PlayerHelp())

	view := bar.View()
	assert.Contains(t, view, "restart")
}

func TestBar_Clear(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetProject("Arena")
	bar.SetState(StateError)
	bar.SetMessage("boom")

	bar.Clear()

	assert.Equal(t, StateReady, bar.State())
	assert.Empty(t, bar.Message())
	assert.Equal(t, "Arena", bar.Project())
}

func TestBar_Width(t *testing.T) {
	bar := NewBar(nil, nil)

	bar.SetWidth(42)

	assert.Equal(t, 42, bar.Width())
}
