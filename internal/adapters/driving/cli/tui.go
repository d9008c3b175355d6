package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/gplanner/gplan/internal/adapters/driving/tui"
)

// TUIConfig holds configuration for the TUI command.
type TUIConfig struct {
	// Watch enables live reload when the store changes on disk. Optional.
	Watch tui.WatchFunc
}

// tuiConfig holds the current TUI configuration.
var tuiConfig *TUIConfig

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface for gplan.

The dashboard lists your projects and summarises the open one. The
player runs the open project's UI prototype.

Controls:
  ↑/k, ↓/j - Navigate projects
  Enter    - Open project
  n        - New project
  d        - Delete project
  s        - Save now
  p        - Play the UI prototype
  1-9      - Click a component (player)
  r        - Restart (player)
  Esc      - Back / Cancel
  ?        - Toggle help
  q        - Quit`,
	RunE: runTUI,
}

// SetTUIConfig sets the configuration for the TUI command.
func SetTUIConfig(config *TUIConfig) {
	tuiConfig = config
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

// tuiPorts builds the TUI ports from the configured services.
func tuiPorts() *tui.Ports {
	ports := &tui.Ports{
		Projects:  projectService,
		Board:     boardService,
		Documents: documentService,
		Team:      teamService,
		Prototype: prototypeService,
		Settings:  settingsService,
	}
	if tuiConfig != nil {
		ports.Watch = tuiConfig.Watch
	}
	return ports
}

func runTUI(cmd *cobra.Command, _ []string) error {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	if projectFlag != "" {
		if _, err := useProject(cmd); err != nil {
			return err
		}
	}

	app, err := tui.NewApp(tuiPorts())
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	app.WithContext(cmd.Context())

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
