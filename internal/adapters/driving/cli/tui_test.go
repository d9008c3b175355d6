package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTUICmd_Exists(t *testing.T) {
	// Verify the tui command is registered
	found := false
	for _, cmd := range rootCmd.Commands() {
		if cmd.Use == "tui" {
			found = true
			break
		}
	}
	assert.True(t, found, "tui command should be registered")
}

func TestTUICmd_ShortDescription(t *testing.T) {
	assert.Equal(t, "Launch the interactive terminal UI", tuiCmd.Short)
}

func TestTUICmd_LongDescription(t *testing.T) {
	assert.Contains(t, tuiCmd.Long, "interactive terminal user interface")
	assert.Contains(t, tuiCmd.Long, "Controls:")
}

func TestSetTUIConfig(t *testing.T) {
	config := &TUIConfig{
		Watch: func(ctx context.Context, _ func()) error {
			<-ctx.Done()
			return nil
		},
	}

	SetTUIConfig(config)

	assert.Equal(t, config, tuiConfig)

	// Cleanup
	tuiConfig = nil
}

func TestTUICmd_HelpOutput(t *testing.T) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs([]string{"tui", "--help"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()

	require.NoError(t, err)
	output := buf.String()
	assert.Contains(t, output, "interactive terminal user interface")
	assert.Contains(t, output, "Controls:")
}

func TestTUIPorts(t *testing.T) {
	t.Run("wires services", func(t *testing.T) {
		svc := setupTestServices(t)

		ports := tuiPorts()

		assert.Equal(t, svc.Projects, ports.Projects)
		assert.Equal(t, svc.Board, ports.Board)
		assert.Equal(t, svc.Documents, ports.Documents)
		assert.Equal(t, svc.Team, ports.Team)
		assert.Equal(t, svc.Prototype, ports.Prototype)
		assert.Equal(t, svc.Settings, ports.Settings)
		assert.Nil(t, ports.Watch)
		assert.NoError(t, ports.Validate())
	})

	t.Run("passes the watcher through", func(t *testing.T) {
		setupTestServices(t)
		called := false
		SetTUIConfig(&TUIConfig{Watch: func(context.Context, func()) error {
			called = true
			return nil
		}})
		defer SetTUIConfig(nil)

		ports := tuiPorts()
		require.NotNil(t, ports.Watch)
		require.NoError(t, ports.Watch(context.Background(), func() {}))
		assert.True(t, called)
	})

	t.Run("without services", func(t *testing.T) {
		SetServices(Services{})
		assert.Error(t, tuiPorts().Validate())
	})
}
