package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/gplanner/gplan/internal/core/services"
)

var (
	projectJSON     bool
	projectOutput   string
	projectClearCov bool
)

var projectCmd = &cobra.Command{
	Use:     "project",
	Aliases: []string{"projects"},
	Short:   "Manage projects",
	Long:    `List, create, rename, delete, open and export projects.`,
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects, newest first",
	Args:  cobra.NoArgs,
	RunE:  runProjectList,
}

var projectNewCmd = &cobra.Command{
	Use:   "new [name]",
	Short: "Create a project",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runProjectNew,
}

var projectRenameCmd = &cobra.Command{
	Use:   "rename [project] [name]",
	Short: "Rename a project",
	Args:  cobra.ExactArgs(2),
	RunE:  runProjectRename,
}

var projectCoverCmd = &cobra.Command{
	Use:   "cover [project] [image-file]",
	Short: "Set a project's cover image",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runProjectCover,
}

var projectDeleteCmd = &cobra.Command{
	Use:   "delete [project]",
	Short: "Delete a project and all its content",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectDelete,
}

var projectOpenCmd = &cobra.Command{
	Use:   "open [project]",
	Short: "Make a project the default for other commands",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectOpen,
}

var projectExportCmd = &cobra.Command{
	Use:   "export [project]",
	Short: "Export a project snapshot",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectExport,
}

func init() {
	projectListCmd.Flags().BoolVar(&projectJSON, "json", false, "output as JSON")
	projectExportCmd.Flags().StringVarP(&projectOutput, "output", "o", "", "output file (default: <name><ext>, - for stdout)")
	projectCoverCmd.Flags().BoolVar(&projectClearCov, "clear", false, "remove the cover image")

	projectCmd.AddCommand(projectListCmd)
	projectCmd.AddCommand(projectNewCmd)
	projectCmd.AddCommand(projectRenameCmd)
	projectCmd.AddCommand(projectCoverCmd)
	projectCmd.AddCommand(projectDeleteCmd)
	projectCmd.AddCommand(projectOpenCmd)
	projectCmd.AddCommand(projectExportCmd)
	rootCmd.AddCommand(projectCmd)
}

func runProjectList(cmd *cobra.Command, _ []string) error {
	if err := requireService(projectService, "project"); err != nil {
		return err
	}

	projects := projectService.List()
	if projectJSON {
		return printJSON(cmd, projects)
	}
	if len(projects) == 0 {
		cmd.Println("No projects yet. Create one with: gplan project new \"My Game\"")
		return nil
	}

	active := ""
	if settingsService != nil {
		if s, err := settingsService.Get(); err == nil {
			active = s.ActiveProjectID
		}
	}

	cmd.Println("Projects:")
	cmd.Println()
	for _, p := range projects {
		marker := " "
		if p.ID == active {
			marker = "*"
		}
		cmd.Printf("%s %s\n", marker, p.Name)
		cmd.Printf("    ID: %s\n", p.ID)
		cmd.Printf("    Modified: %s\n", p.Modified().Format(time.DateTime))
	}
	cmd.Println()
	cmd.Printf("Total: %d projects\n", len(projects))
	return nil
}

func runProjectNew(cmd *cobra.Command, args []string) error {
	if err := requireService(projectService, "project"); err != nil {
		return err
	}

	name := ""
	if len(args) == 1 {
		name = args[0]
	}
	meta, err := projectService.Create(name)
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}
	if err := projectService.Open(cmd.Context(), meta.ID); err != nil {
		return fmt.Errorf("failed to open project: %w", err)
	}
	if settingsService != nil {
		if err := settingsService.SetActiveProject(meta.ID); err != nil {
			return fmt.Errorf("failed to remember project: %w", err)
		}
	}

	cmd.Printf("Created project %q (%s)\n", meta.Name, meta.ID)
	return nil
}

func runProjectRename(cmd *cobra.Command, args []string) error {
	if err := requireService(projectService, "project"); err != nil {
		return err
	}
	meta, err := findProject(args[0])
	if err != nil {
		return err
	}
	if err := projectService.Rename(meta.ID, args[1]); err != nil {
		return fmt.Errorf("failed to rename project: %w", err)
	}
	cmd.Printf("Renamed %q to %q\n", meta.Name, args[1])
	return nil
}

func runProjectCover(cmd *cobra.Command, args []string) error {
	if err := requireService(projectService, "project"); err != nil {
		return err
	}
	meta, err := findProject(args[0])
	if err != nil {
		return err
	}

	cover := ""
	switch {
	case projectClearCov:
	case len(args) == 2:
		data, err := os.ReadFile(args[1])
		if err != nil {
			return fmt.Errorf("failed to read cover: %w", err)
		}
		mimeType := services.SniffMedia(args[1], data)
		if !strings.HasPrefix(mimeType, "image/") {
			return fmt.Errorf("%s is not an image (%s)", args[1], mimeType)
		}
		cover = services.DataURI(mimeType, data)
	default:
		return errors.New("pass an image file or --clear")
	}

	if err := projectService.SetCover(meta.ID, cover); err != nil {
		return fmt.Errorf("failed to set cover: %w", err)
	}
	if cover == "" {
		cmd.Printf("Cleared cover of %q\n", meta.Name)
	} else {
		cmd.Printf("Set cover of %q\n", meta.Name)
	}
	return nil
}

func runProjectDelete(cmd *cobra.Command, args []string) error {
	if err := requireService(projectService, "project"); err != nil {
		return err
	}
	meta, err := findProject(args[0])
	if err != nil {
		return err
	}
	if err := projectService.Delete(meta.ID); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	if settingsService != nil {
		if s, err := settingsService.Get(); err == nil && s.ActiveProjectID == meta.ID {
			_ = settingsService.SetActiveProject("")
		}
	}
	cmd.Printf("Deleted project %q\n", meta.Name)
	return nil
}

func runProjectOpen(cmd *cobra.Command, args []string) error {
	if err := requireService(projectService, "project"); err != nil {
		return err
	}
	meta, err := findProject(args[0])
	if err != nil {
		return err
	}
	if err := projectService.Open(cmd.Context(), meta.ID); err != nil {
		return fmt.Errorf("failed to open project: %w", err)
	}
	if settingsService != nil {
		if err := settingsService.SetActiveProject(meta.ID); err != nil {
			return fmt.Errorf("failed to remember project: %w", err)
		}
	}
	cmd.Printf("Opened %q\n", meta.Name)
	return nil
}

func runProjectExport(cmd *cobra.Command, args []string) error {
	if err := requireService(projectService, "project"); err != nil {
		return err
	}
	meta, err := findProject(args[0])
	if err != nil {
		return err
	}

	if projectOutput == "-" {
		return projectService.Export(meta.ID, cmd.OutOrStdout())
	}
	path := projectOutput
	if path == "" {
		path = fileName(meta.Name) + projectService.ExportExtension()
	}
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if err := projectService.Export(meta.ID, f); err != nil {
		return err
	}
	cmd.Printf("Exported %q to %s\n", meta.Name, path)
	return nil
}

// fileName turns a title into a safe file name.
func fileName(title string) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, strings.TrimSpace(title))
	if name == "" {
		return "untitled"
	}
	return name
}
