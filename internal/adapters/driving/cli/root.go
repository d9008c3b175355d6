// Package cli implements the gplan command line.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gplanner/gplan/internal/core/domain"
	"github.com/gplanner/gplan/internal/core/ports/driving"
	"github.com/gplanner/gplan/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	projectFlag string
	verboseFlag bool
)

// Services holds the ports the commands drive.
type Services struct {
	Projects  driving.ProjectService
	Board     driving.BoardService
	Documents driving.DocumentService
	Team      driving.TeamService
	Prototype driving.PrototypeService
	Assistant driving.AssistantService
	Settings  driving.SettingsService
}

var (
	projectService   driving.ProjectService
	boardService     driving.BoardService
	documentService  driving.DocumentService
	teamService      driving.TeamService
	prototypeService driving.PrototypeService
	assistantService driving.AssistantService
	settingsService  driving.SettingsService
)

var rootCmd = &cobra.Command{
	Use:   "gplan",
	Short: "Plan games from the terminal",
	Long: `gplan keeps game design projects in one local store: a brainstorm
whiteboard, a design document tree, a team roster with todos and a
clickable UI prototype.

Most commands act on the open project. Pick it with --project or
"gplan project open".`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if verboseFlag {
			logger.SetVerbose(true)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&projectFlag, "project", "P", "", "project id or name to act on")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "print debug logs to stderr")
}

// SetServices wires the services used by every command.
func SetServices(s Services) {
	projectService = s.Projects
	boardService = s.Board
	documentService = s.Documents
	teamService = s.Team
	prototypeService = s.Prototype
	assistantService = s.Assistant
	settingsService = s.Settings
}

// SetVersion sets the version reported by "gplan version".
func SetVersion(v string) {
	version = v
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// useProject opens the project named by --project, or the one remembered
// in settings.
func useProject(cmd *cobra.Command) (domain.ProjectMeta, error) {
	if projectService == nil {
		return domain.ProjectMeta{}, errors.New("project service not configured")
	}

	ref := projectFlag
	if ref == "" && settingsService != nil {
		if s, err := settingsService.Get(); err == nil {
			ref = s.ActiveProjectID
		}
	}
	if ref == "" {
		if meta, ok := projectService.Active(); ok {
			return meta, nil
		}
		return domain.ProjectMeta{}, fmt.Errorf("%w: pass --project or run \"gplan project open\"", domain.ErrNoActiveProject)
	}

	meta, err := findProject(ref)
	if err != nil {
		return domain.ProjectMeta{}, err
	}
	if err := projectService.Open(cmd.Context(), meta.ID); err != nil {
		return domain.ProjectMeta{}, fmt.Errorf("failed to open project: %w", err)
	}
	return meta, nil
}

// findProject resolves an id, falling back to a case-insensitive name match.
func findProject(ref string) (domain.ProjectMeta, error) {
	projects := projectService.List()
	for _, p := range projects {
		if p.ID == ref {
			return p, nil
		}
	}
	for _, p := range projects {
		if strings.EqualFold(p.Name, ref) {
			return p, nil
		}
	}
	return domain.ProjectMeta{}, fmt.Errorf("project %q: %w", ref, domain.ErrNotFound)
}

func requireService(svc any, name string) error {
	if svc == nil {
		return fmt.Errorf("%s service not configured", name)
	}
	return nil
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func truncate(s string, n int) string {
	r := []rune(strings.Join(strings.Fields(s), " "))
	if len(r) <= n {
		return string(r)
	}
	return string(r[:n-3]) + "..."
}
