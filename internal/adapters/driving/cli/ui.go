package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gplanner/gplan/internal/core/domain"
	"github.com/gplanner/gplan/internal/core/services"
)

var (
	uiKind        string
	uiText        string
	uiAt          string
	uiTarget      string
	uiParam       string
	uiPlayStdin   bool
	uiPlayStartAt string
)

var uiCmd = &cobra.Command{
	Use:     "ui",
	Aliases: []string{"prototype"},
	Short:   "Build and play the UI prototype",
	Long: `Lay out mock screens, give components click behaviour and play the
result. Interactions: navigate, open_modal, close_modal, back, toggle,
increment, trigger_cond.`,
}

var uiPagesCmd = &cobra.Command{
	Use:   "pages",
	Short: "List pages and their components",
	Args:  cobra.NoArgs,
	RunE:  runUIPages,
}

var uiPageAddCmd = &cobra.Command{
	Use:   "page-add [preset]",
	Short: "Add a page from a preset",
	Args:  cobra.ExactArgs(1),
	RunE:  runUIPageAdd,
}

var uiPageRenameCmd = &cobra.Command{
	Use:   "page-rename [page-id] [name]",
	Short: "Rename a page",
	Args:  cobra.ExactArgs(2),
	RunE:  runUIPageRename,
}

var uiPageDeleteCmd = &cobra.Command{
	Use:   "page-delete [page-id]",
	Short: "Delete a page",
	Args:  cobra.ExactArgs(1),
	RunE:  runUIPageDelete,
}

var uiStartCmd = &cobra.Command{
	Use:   "start [page-id]",
	Short: "Set the page a run starts on",
	Args:  cobra.ExactArgs(1),
	RunE:  runUIStart,
}

var uiAddCmd = &cobra.Command{
	Use:   "add [page-id] [asset-id]",
	Short: "Add a component to a page",
	Long: `Add a sprite from the asset catalog, or another component kind with
--kind (text, status, image, video, audio). Media kinds read --text as a
file path and embed it.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runUIAdd,
}

var uiMoveCmd = &cobra.Command{
	Use:   "move [page-id] [component-id] [x] [y]",
	Short: "Move a component",
	Args:  cobra.ExactArgs(4),
	RunE:  runUIMove,
}

var uiRemoveCmd = &cobra.Command{
	Use:   "remove [page-id] [component-id]",
	Short: "Remove a component",
	Args:  cobra.ExactArgs(2),
	RunE:  runUIRemove,
}

var uiInteractCmd = &cobra.Command{
	Use:   "interact [page-id] [component-id] [kind]",
	Short: "Set what clicking a component does",
	Long: `Set what clicking a component does.

  navigate / open_modal  need --target
  increment              takes --param as the variable (default COUNT)
  trigger_cond           needs --target and takes --param as the condition,
                         for example "GOLD >= 10"`,
	Args: cobra.ExactArgs(3),
	RunE: runUIInteract,
}

var uiAssetsCmd = &cobra.Command{
	Use:   "assets",
	Short: "List sprite assets",
	Args:  cobra.NoArgs,
	RunE:  runUIAssets,
}

var uiAssetAddCmd = &cobra.Command{
	Use:   "asset-add [label] [sheet-file] [x] [y] [w] [h]",
	Short: "Cut a custom sprite from a sheet image",
	Args:  cobra.ExactArgs(6),
	RunE:  runUIAssetAdd,
}

var uiPresetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List page presets",
	Args:  cobra.NoArgs,
	RunE:  runUIPresets,
}

var uiPlayCmd = &cobra.Command{
	Use:   "play [component-id...]",
	Short: "Play the prototype",
	Long: `Run the prototype, clicking the given components in order, then print
the final screen. With --stdin, read one component id per line and print
the screen after each click.`,
	RunE: runUIPlay,
}

func init() {
	uiAddCmd.Flags().StringVar(&uiKind, "kind", string(domain.ComponentSprite), "component kind")
	uiAddCmd.Flags().StringVar(&uiText, "text", "", "text content, or a file path for media kinds")
	uiAddCmd.Flags().StringVar(&uiAt, "at", "", "centre position as x,y (sprites only)")
	uiInteractCmd.Flags().StringVar(&uiTarget, "target", "", "target page id")
	uiInteractCmd.Flags().StringVar(&uiParam, "param", "", "variable or condition")
	uiPlayCmd.Flags().BoolVar(&uiPlayStdin, "stdin", false, "read clicks from stdin")
	uiPlayCmd.Flags().StringVar(&uiPlayStartAt, "from", "", "start on this page instead of the start page")

	uiCmd.AddCommand(uiPagesCmd)
	uiCmd.AddCommand(uiPageAddCmd)
	uiCmd.AddCommand(uiPageRenameCmd)
	uiCmd.AddCommand(uiPageDeleteCmd)
	uiCmd.AddCommand(uiStartCmd)
	uiCmd.AddCommand(uiAddCmd)
	uiCmd.AddCommand(uiMoveCmd)
	uiCmd.AddCommand(uiRemoveCmd)
	uiCmd.AddCommand(uiInteractCmd)
	uiCmd.AddCommand(uiAssetsCmd)
	uiCmd.AddCommand(uiAssetAddCmd)
	uiCmd.AddCommand(uiPresetsCmd)
	uiCmd.AddCommand(uiPlayCmd)
	rootCmd.AddCommand(uiCmd)
}

func uiReady(cmd *cobra.Command) error {
	if err := requireService(prototypeService, "prototype"); err != nil {
		return err
	}
	_, err := useProject(cmd)
	return err
}

func runUIPages(cmd *cobra.Command, _ []string) error {
	if err := uiReady(cmd); err != nil {
		return err
	}
	pages, err := prototypeService.Pages()
	if err != nil {
		return fmt.Errorf("failed to list pages: %w", err)
	}
	if len(pages) == 0 {
		cmd.Println("No pages yet. Add one with: gplan ui page-add pc")
		return nil
	}
	start, _ := prototypeService.StartPageID()

	for _, p := range pages {
		marker := " "
		if p.ID == start {
			marker = ">"
		}
		cmd.Printf("%s %s [%s %gx%g] (%s)\n", marker, p.Name, p.Kind, p.Width, p.Height, p.ID)
		for _, c := range p.Components {
			line := fmt.Sprintf("    %s %s [%s]", c.ID, c.Name, c.Kind)
			if c.Interaction.Kind != domain.InteractionNone {
				line += " on click: " + string(c.Interaction.Kind)
				if c.Interaction.TargetPageID != "" {
					line += " " + c.Interaction.TargetPageID
				}
				if c.Interaction.Param != "" {
					line += " " + strconv.Quote(c.Interaction.Param)
				}
			}
			cmd.Println(line)
		}
	}
	return nil
}

func runUIPageAdd(cmd *cobra.Command, args []string) error {
	if err := uiReady(cmd); err != nil {
		return err
	}
	page, err := prototypeService.AddPage(args[0])
	if err != nil {
		return fmt.Errorf("failed to add page: %w", err)
	}
	cmd.Printf("Added page %q (%s)\n", page.Name, page.ID)
	return nil
}

func runUIPageRename(cmd *cobra.Command, args []string) error {
	if err := uiReady(cmd); err != nil {
		return err
	}
	if err := prototypeService.RenamePage(args[0], args[1]); err != nil {
		return fmt.Errorf("failed to rename page: %w", err)
	}
	cmd.Printf("Renamed %s to %q\n", args[0], args[1])
	return nil
}

func runUIPageDelete(cmd *cobra.Command, args []string) error {
	if err := uiReady(cmd); err != nil {
		return err
	}
	if err := prototypeService.DeletePage(args[0]); err != nil {
		return fmt.Errorf("failed to delete page: %w", err)
	}
	cmd.Printf("Deleted page %s\n", args[0])
	return nil
}

func runUIStart(cmd *cobra.Command, args []string) error {
	if err := uiReady(cmd); err != nil {
		return err
	}
	if err := prototypeService.SetStartPage(args[0]); err != nil {
		return fmt.Errorf("failed to set start page: %w", err)
	}
	cmd.Printf("Runs now start on %s\n", args[0])
	return nil
}

func runUIAdd(cmd *cobra.Command, args []string) error {
	if err := uiReady(cmd); err != nil {
		return err
	}
	kind := domain.ComponentKind(strings.ToLower(uiKind))

	var (
		comp domain.Component
		err  error
	)
	if kind == domain.ComponentSprite {
		if len(args) < 2 {
			return errors.New("pass an asset id; see gplan ui assets")
		}
		var at *domain.Point
		if uiAt != "" {
			p, perr := parsePoint(uiAt)
			if perr != nil {
				return perr
			}
			at = &p
		}
		comp, err = prototypeService.AddComponent(args[0], args[1], at)
	} else {
		content := uiText
		if kind.IsMedia() && content != "" {
			if content, err = embedFile(content); err != nil {
				return err
			}
		}
		comp, err = prototypeService.AddItem(args[0], kind, content)
	}
	if err != nil {
		return fmt.Errorf("failed to add component: %w", err)
	}
	cmd.Printf("Added %s %q (%s)\n", comp.Kind, comp.Name, comp.ID)
	return nil
}

func embedFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return services.DataURI(services.SniffMedia(path, data), data), nil
}

func runUIMove(cmd *cobra.Command, args []string) error {
	if err := uiReady(cmd); err != nil {
		return err
	}
	x, y, err := parsePair(args[2], args[3])
	if err != nil {
		return err
	}
	if err := prototypeService.MoveComponent(args[0], args[1], domain.Point{X: x, Y: y}); err != nil {
		return fmt.Errorf("failed to move component: %w", err)
	}
	cmd.Printf("Moved %s to (%g, %g)\n", args[1], x, y)
	return nil
}

func runUIRemove(cmd *cobra.Command, args []string) error {
	if err := uiReady(cmd); err != nil {
		return err
	}
	if err := prototypeService.DeleteComponent(args[0], args[1]); err != nil {
		return fmt.Errorf("failed to remove component: %w", err)
	}
	cmd.Printf("Removed %s\n", args[1])
	return nil
}

func runUIInteract(cmd *cobra.Command, args []string) error {
	if err := uiReady(cmd); err != nil {
		return err
	}
	kind := domain.InteractionKind(strings.ToLower(args[2]))
	if err := prototypeService.SetInteraction(args[0], args[1], kind, uiTarget, uiParam); err != nil {
		return fmt.Errorf("failed to set interaction: %w", err)
	}
	cmd.Printf("Clicking %s now does %s\n", args[1], kind)
	return nil
}

func runUIAssets(cmd *cobra.Command, _ []string) error {
	if err := uiReady(cmd); err != nil {
		return err
	}
	assets, err := prototypeService.Assets()
	if err != nil {
		return fmt.Errorf("failed to list assets: %w", err)
	}
	for _, a := range assets {
		origin := "built-in"
		if a.Source != "" {
			origin = "custom"
		}
		cmd.Printf("  %-20s %-16s %gx%g  %s\n", a.ID, a.Label, a.W, a.H, origin)
	}
	return nil
}

func runUIAssetAdd(cmd *cobra.Command, args []string) error {
	if err := uiReady(cmd); err != nil {
		return err
	}
	source, err := embedFile(args[1])
	if err != nil {
		return err
	}
	x, y, err := parsePair(args[2], args[3])
	if err != nil {
		return err
	}
	w, h, err := parsePair(args[4], args[5])
	if err != nil {
		return err
	}
	asset, err := prototypeService.AddAsset(args[0], source, domain.Rect{X: x, Y: y, W: w, H: h})
	if err != nil {
		return fmt.Errorf("failed to add asset: %w", err)
	}
	cmd.Printf("Added asset %s (%s)\n", asset.ID, asset.Label)
	return nil
}

func runUIPresets(cmd *cobra.Command, _ []string) error {
	if err := requireService(prototypeService, "prototype"); err != nil {
		return err
	}
	for _, p := range prototypeService.Presets() {
		cmd.Printf("  %-10s %-12s %s %gx%g\n", p.ID, p.Label, p.Kind, p.Width, p.Height)
	}
	return nil
}

func runUIPlay(cmd *cobra.Command, args []string) error {
	if err := uiReady(cmd); err != nil {
		return err
	}
	player, err := prototypeService.Play()
	if err != nil {
		return fmt.Errorf("failed to start player: %w", err)
	}
	if uiPlayStartAt != "" {
		if err := player.Start(uiPlayStartAt); err != nil {
			return err
		}
	}
	if player.PageID() == "" {
		return errors.New("the prototype has no pages")
	}

	out := cmd.OutOrStdout()
	click := func(id string) error {
		res, err := player.Click(id)
		if err != nil {
			return fmt.Errorf("component %q is not on screen: %w", id, err)
		}
		if !res.Changed {
			fmt.Fprintf(out, "(clicking %s did nothing)\n", id)
		}
		return nil
	}

	if uiPlayStdin {
		RenderFrame(out, player.Frame())
		scanner := bufio.NewScanner(cmd.InOrStdin())
		for scanner.Scan() {
			id := strings.TrimSpace(scanner.Text())
			if id == "" {
				continue
			}
			if err := click(id); err != nil {
				fmt.Fprintln(out, err)
				continue
			}
			RenderFrame(out, player.Frame())
		}
		return scanner.Err()
	}

	for _, id := range args {
		if err := click(id); err != nil {
			return err
		}
	}
	RenderFrame(out, player.Frame())
	return nil
}

// RenderFrame prints a text rendering of a player frame.
func RenderFrame(w io.Writer, f domain.Frame) {
	renderPage(w, f.Page, "")
	if f.Modal != nil {
		renderPage(w, f.Modal, "  | ")
	}
	if len(f.Vars) > 0 {
		names := make([]string, 0, len(f.Vars))
		for k := range f.Vars {
			names = append(names, k)
		}
		sort.Strings(names)
		parts := make([]string, len(names))
		for i, k := range names {
			parts[i] = fmt.Sprintf("%s=%g", k, f.Vars[k])
		}
		fmt.Fprintf(w, "vars: %s\n", strings.Join(parts, " "))
	}
}

func renderPage(w io.Writer, p *domain.RenderedPage, indent string) {
	if p == nil {
		return
	}
	fmt.Fprintf(w, "%s== %s (%s) ==\n", indent, p.Name, p.Kind)
	for _, c := range p.Components {
		label := c.Name
		switch {
		case c.Placeholder:
			label += " [missing asset]"
		case c.Kind == domain.ComponentText || c.Kind == domain.ComponentStatus:
			label = fmt.Sprintf("%s %q", c.Name, c.Text)
		}
		if c.Counter != nil {
			label += fmt.Sprintf(" (%g)", *c.Counter)
		}
		if c.Dimmed {
			label += " [off]"
		}
		if c.Opacity < 1 {
			label += " [disabled]"
		}
		fmt.Fprintf(w, "%s  - %s  <%s>\n", indent, label, c.ID)
	}
}
