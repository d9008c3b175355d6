package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gplanner/gplan/internal/adapters/driven/export"
	"github.com/gplanner/gplan/internal/adapters/driven/richtext"
	"github.com/gplanner/gplan/internal/adapters/driven/storage/memory"
	"github.com/gplanner/gplan/internal/core/domain"
	"github.com/gplanner/gplan/internal/core/services"
)

// stubCompletion answers every prompt with reply.
type stubCompletion struct {
	reply   string
	prompts []string
}

func (s *stubCompletion) Complete(_ context.Context, _, user string) (string, error) {
	s.prompts = append(s.prompts, user)
	return s.reply, nil
}

func (s *stubCompletion) ModelName() string { return "stub-model" }

func (s *stubCompletion) Close() error { return nil }

// setupTestServices wires real services over in-memory stores and resets
// every flag.
func setupTestServices(t *testing.T) Services {
	t.Helper()
	resetFlags()

	ws := services.NewWorkspace(memory.NewStore(),
		services.WithAutosaveDelay(time.Hour),
		services.WithProjectExporter(export.NewYAMLExporter()),
	)
	require.NoError(t, ws.Load(context.Background()))

	board := services.NewBoardService(ws, domain.DefaultSizeLimits())
	svc := Services{
		Projects:  ws,
		Board:     board,
		Documents: services.NewDocumentService(ws, richtext.New(), export.NewHTMLExporter()),
		Team:      services.NewTeamService(ws),
		Prototype: services.NewPrototypeService(ws),
		Assistant: services.NewAssistantService(&stubCompletion{reply: "a summary"}, nil, board,
			services.WithRateLimit(1000, 10)),
		Settings: services.NewSettingsService(memory.NewConfigStore(), nil),
	}
	SetServices(svc)

	t.Cleanup(func() {
		_ = ws.Close(context.Background())
		SetServices(Services{})
		resetFlags()
	})
	return svc
}

func resetFlags() {
	projectFlag, verboseFlag = "", false
	projectJSON, projectOutput, projectClearCov = false, "", false
	teamJSON, todoAssignee = false, ""
	boardJSON, boardAt, boardCycle, boardZoomAt, boardReset = false, "", false, "", false
	docAll, docParent, docTemplate, docFile, docAppend, docOutput = false, "", "blank", "", false, ""
	uiKind, uiText, uiAt, uiTarget, uiParam = string(domain.ComponentSprite), "", "", "", ""
	uiPlayStdin, uiPlayStartAt = false, ""
	aiSystem, aiMode, aiDoc, aiReplace, aiFromDocBody = "", string(domain.SummaryInputs), "", false, false
	profileName, profileProvider, profileURL, profileModel, profileKey, profileUse = "", "", "", "", "", false
}

// runCmd executes the root command and returns its combined output.
func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return runCmdWithInput(t, "", args...)
}

func runCmdWithInput(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(input))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.ExecuteContext(context.Background())
	resetFlags()
	return out.String(), err
}

// newOpenProject creates a project through the CLI. The project is opened
// and remembered as the default.
func newOpenProject(t *testing.T, name string) domain.ProjectMeta {
	t.Helper()
	_, err := runCmd(t, "project", "new", name)
	require.NoError(t, err)
	meta, err := findProject(name)
	require.NoError(t, err)
	return meta
}

func TestRootCommand(t *testing.T) {
	assert.Equal(t, "gplan", rootCmd.Use)
	assert.True(t, rootCmd.SilenceUsage)
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("project"))
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("verbose"))

	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"project", "board", "doc", "team", "todo", "ui", "ai", "settings", "tui", "mcp", "version"} {
		assert.True(t, names[want], "missing command %s", want)
	}
}

func TestUseProject(t *testing.T) {
	t.Run("without service", func(t *testing.T) {
		SetServices(Services{})
		_, err := useProject(rootCmd)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "project service not configured")
	})

	t.Run("nothing open", func(t *testing.T) {
		setupTestServices(t)
		rootCmd.SetContext(context.Background())
		_, err := useProject(rootCmd)
		assert.ErrorIs(t, err, domain.ErrNoActiveProject)
	})

	t.Run("remembered project", func(t *testing.T) {
		svc := setupTestServices(t)
		meta := newOpenProject(t, "Dungeon")

		rootCmd.SetContext(context.Background())
		got, err := useProject(rootCmd)
		require.NoError(t, err)
		assert.Equal(t, meta.ID, got.ID)

		active, ok := svc.Projects.Active()
		require.True(t, ok)
		assert.Equal(t, meta.ID, active.ID)
	})

	t.Run("flag wins over remembered project", func(t *testing.T) {
		setupTestServices(t)
		newOpenProject(t, "First")
		second := newOpenProject(t, "Second")
		newOpenProject(t, "Third")

		projectFlag = "second"
		rootCmd.SetContext(context.Background())
		got, err := useProject(rootCmd)
		require.NoError(t, err)
		assert.Equal(t, second.ID, got.ID)
	})

	t.Run("unknown project", func(t *testing.T) {
		setupTestServices(t)
		projectFlag = "ghost"
		rootCmd.SetContext(context.Background())
		_, err := useProject(rootCmd)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestFindProject(t *testing.T) {
	setupTestServices(t)
	meta := newOpenProject(t, "Space Farm")

	byID, err := findProject(meta.ID)
	require.NoError(t, err)
	assert.Equal(t, "Space Farm", byID.Name)

	byName, err := findProject("SPACE FARM")
	require.NoError(t, err)
	assert.Equal(t, meta.ID, byName.ID)

	_, err = findProject("Farm")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"spread   over\nlines", 40, "spread over lines"},
		{"abcdefghij", 8, "abcde..."},
		{"ééééééé", 6, "ééé..."},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, truncate(tt.in, tt.n))
	}
}

func TestRequireService(t *testing.T) {
	err := requireService(nil, "board")
	require.Error(t, err)
	assert.Equal(t, "board service not configured", err.Error())

	assert.NoError(t, requireService(struct{}{}, "board"))
}

func TestCommandsWithoutServices(t *testing.T) {
	SetServices(Services{})
	resetFlags()

	for _, args := range [][]string{
		{"project", "list"},
		{"board", "list"},
		{"doc", "tree"},
		{"team", "list"},
		{"ui", "pages"},
		{"ai", "complete", "hi"},
		{"settings", "show"},
	} {
		_, err := runCmd(t, args...)
		assert.Error(t, err, "%v", args)
	}
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)

	require.NoError(t, printJSON(cmd, map[string]int{"cards": 2}))
	assert.Equal(t, "{\n  \"cards\": 2\n}\n", buf.String())
}
