package cli

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gplanner/gplan/internal/core/domain"
	"github.com/gplanner/gplan/internal/core/ports/driving"
)

var (
	boardJSON   bool
	boardAt     string
	boardCycle  bool
	boardZoomAt string
	boardReset  bool
)

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Edit the brainstorm whiteboard",
	Long: `Add, move and connect cards on the open project's whiteboard.

Positions are world coordinates. Cards added without --at land in the
middle of the current view.`,
}

var boardListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cards and connections",
	Args:  cobra.NoArgs,
	RunE:  runBoardList,
}

var boardAddCmd = &cobra.Command{
	Use:   "add [kind] [content]",
	Short: "Add a card",
	Long: `Add a card of the given kind.

Kinds: text, image, status, video, audio, link, code, ai`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runBoardAdd,
}

var boardIngestCmd = &cobra.Command{
	Use:   "ingest [file...]",
	Short: "Add image, video and audio files as cards",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runBoardIngest,
}

var boardMoveCmd = &cobra.Command{
	Use:   "move [card-id] [x] [y]",
	Short: "Move a card",
	Args:  cobra.ExactArgs(3),
	RunE:  runBoardMove,
}

var boardResizeCmd = &cobra.Command{
	Use:   "resize [card-id] [width] [height]",
	Short: "Resize a card within the configured limits",
	Args:  cobra.ExactArgs(3),
	RunE:  runBoardResize,
}

var boardEditCmd = &cobra.Command{
	Use:   "edit [card-id] [content]",
	Short: "Replace a card's content",
	Long:  `Replace a card's content. Use --cycle on a status card to advance its status.`,
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runBoardEdit,
}

var boardDeleteCmd = &cobra.Command{
	Use:   "delete [card-id]",
	Short: "Delete a card and its connections",
	Args:  cobra.ExactArgs(1),
	RunE:  runBoardDelete,
}

var boardConnectCmd = &cobra.Command{
	Use:   "connect [from-id] [to-id]",
	Short: "Connect two cards",
	Args:  cobra.ExactArgs(2),
	RunE:  runBoardConnect,
}

var boardDisconnectCmd = &cobra.Command{
	Use:   "disconnect [edge-id]",
	Short: "Remove a connection",
	Args:  cobra.ExactArgs(1),
	RunE:  runBoardDisconnect,
}

var boardInputsCmd = &cobra.Command{
	Use:   "inputs [card-id]",
	Short: "Show the text that feeds a card",
	Args:  cobra.ExactArgs(1),
	RunE:  runBoardInputs,
}

var boardPanCmd = &cobra.Command{
	Use:   "pan [dx] [dy]",
	Short: "Pan the view by a screen offset",
	Long:  `Pan the view by a screen offset. Put -- before negative values.`,
	Args:  cobra.ExactArgs(2),
	RunE:  runBoardPan,
}

var boardZoomCmd = &cobra.Command{
	Use:   "zoom [delta]",
	Short: "Zoom the view",
	Long: `Zoom around a screen point (default: the view centre). Negative
deltas zoom in, matching a mouse wheel. Use --reset to restore scale 1.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBoardZoom,
}

func init() {
	boardListCmd.Flags().BoolVar(&boardJSON, "json", false, "output as JSON")
	boardAddCmd.Flags().StringVar(&boardAt, "at", "", "world position as x,y")
	boardEditCmd.Flags().BoolVar(&boardCycle, "cycle", false, "advance a status card")
	boardZoomCmd.Flags().StringVar(&boardZoomAt, "at", "", "screen point as x,y")
	boardZoomCmd.Flags().BoolVar(&boardReset, "reset", false, "reset pan and zoom")

	boardCmd.AddCommand(boardListCmd)
	boardCmd.AddCommand(boardAddCmd)
	boardCmd.AddCommand(boardIngestCmd)
	boardCmd.AddCommand(boardMoveCmd)
	boardCmd.AddCommand(boardResizeCmd)
	boardCmd.AddCommand(boardEditCmd)
	boardCmd.AddCommand(boardDeleteCmd)
	boardCmd.AddCommand(boardConnectCmd)
	boardCmd.AddCommand(boardDisconnectCmd)
	boardCmd.AddCommand(boardInputsCmd)
	boardCmd.AddCommand(boardPanCmd)
	boardCmd.AddCommand(boardZoomCmd)
	rootCmd.AddCommand(boardCmd)
}

// boardReady checks the service and opens the project.
func boardReady(cmd *cobra.Command) error {
	if err := requireService(boardService, "board"); err != nil {
		return err
	}
	_, err := useProject(cmd)
	return err
}

func runBoardList(cmd *cobra.Command, _ []string) error {
	if err := boardReady(cmd); err != nil {
		return err
	}
	nodes, err := boardService.Nodes()
	if err != nil {
		return fmt.Errorf("failed to list cards: %w", err)
	}
	edges, err := boardService.Connections()
	if err != nil {
		return fmt.Errorf("failed to list connections: %w", err)
	}

	if boardJSON {
		return printJSON(cmd, map[string]any{"nodes": nodes, "edges": edges})
	}
	if len(nodes) == 0 {
		cmd.Println("The board is empty.")
		return nil
	}

	cmd.Println("Cards:")
	for _, n := range nodes {
		size := n.EffectiveSize()
		cmd.Printf("  %s [%s] at (%g, %g) %gx%g\n", n.ID, n.Kind, n.Position.X, n.Position.Y, size.W, size.H)
		if n.Content != "" {
			cmd.Printf("      %s\n", preview(n))
		}
	}
	if len(edges) > 0 {
		cmd.Println()
		cmd.Println("Connections:")
		for _, e := range edges {
			cmd.Printf("  %s: %s -> %s\n", e.ID, e.StartNodeID, e.EndNodeID)
		}
	}
	return nil
}

func preview(n domain.Node) string {
	if n.Kind.IsMedia() && strings.HasPrefix(n.Content, "data:") {
		mimeType, _, _ := strings.Cut(strings.TrimPrefix(n.Content, "data:"), ";")
		return fmt.Sprintf("<%s, %d bytes>", mimeType, len(n.Content))
	}
	return truncate(n.Content, 60)
}

func runBoardAdd(cmd *cobra.Command, args []string) error {
	if err := boardReady(cmd); err != nil {
		return err
	}
	kind := domain.NodeKind(strings.ToLower(args[0]))
	content := ""
	if len(args) == 2 {
		content = args[1]
	}
	var pos *domain.Point
	if boardAt != "" {
		p, err := parsePoint(boardAt)
		if err != nil {
			return err
		}
		pos = &p
	}

	node, err := boardService.AddNode(kind, pos, content)
	if err != nil {
		return fmt.Errorf("failed to add card: %w", err)
	}
	cmd.Printf("Added %s card %s at (%g, %g)\n", node.Kind, node.ID, node.Position.X, node.Position.Y)
	return nil
}

func runBoardIngest(cmd *cobra.Command, args []string) error {
	if err := boardReady(cmd); err != nil {
		return err
	}
	files := make([]driving.MediaFile, 0, len(args))
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		files = append(files, driving.MediaFile{Name: filepath.Base(path), Data: data})
	}

	nodes, err := boardService.IngestFiles(files)
	if err != nil {
		return fmt.Errorf("failed to ingest files: %w", err)
	}
	for _, n := range nodes {
		cmd.Printf("Added %s card %s\n", n.Kind, n.ID)
	}
	if skipped := len(files) - len(nodes); skipped > 0 {
		cmd.Printf("Skipped %d file(s) that are not image, video or audio\n", skipped)
	}
	return nil
}

func runBoardMove(cmd *cobra.Command, args []string) error {
	if err := boardReady(cmd); err != nil {
		return err
	}
	x, y, err := parsePair(args[1], args[2])
	if err != nil {
		return err
	}
	if err := boardService.MoveNode(args[0], domain.Point{X: x, Y: y}); err != nil {
		return fmt.Errorf("failed to move card: %w", err)
	}
	cmd.Printf("Moved %s to (%g, %g)\n", args[0], x, y)
	return nil
}

func runBoardResize(cmd *cobra.Command, args []string) error {
	if err := boardReady(cmd); err != nil {
		return err
	}
	w, h, err := parsePair(args[1], args[2])
	if err != nil {
		return err
	}
	size, err := boardService.ResizeNode(args[0], domain.Size{W: w, H: h})
	if err != nil {
		return fmt.Errorf("failed to resize card: %w", err)
	}
	cmd.Printf("Resized %s to %gx%g\n", args[0], size.W, size.H)
	return nil
}

func runBoardEdit(cmd *cobra.Command, args []string) error {
	if err := boardReady(cmd); err != nil {
		return err
	}
	if boardCycle {
		status, err := boardService.CycleStatus(args[0])
		if err != nil {
			return fmt.Errorf("failed to cycle status: %w", err)
		}
		cmd.Printf("Status of %s is now %s\n", args[0], status)
		return nil
	}
	if len(args) < 2 {
		return errors.New("pass the new content or --cycle")
	}
	if err := boardService.UpdateContent(args[0], args[1]); err != nil {
		return fmt.Errorf("failed to edit card: %w", err)
	}
	cmd.Printf("Updated %s\n", args[0])
	return nil
}

func runBoardDelete(cmd *cobra.Command, args []string) error {
	if err := boardReady(cmd); err != nil {
		return err
	}
	if err := boardService.DeleteNode(args[0]); err != nil {
		return fmt.Errorf("failed to delete card: %w", err)
	}
	cmd.Printf("Deleted %s\n", args[0])
	return nil
}

func runBoardConnect(cmd *cobra.Command, args []string) error {
	if err := boardReady(cmd); err != nil {
		return err
	}
	edge, created, err := boardService.Connect(args[0], args[1])
	if err != nil {
		return fmt.Errorf("failed to connect cards: %w", err)
	}
	if !created {
		cmd.Println("Nothing to do: the cards are already connected or identical.")
		return nil
	}
	cmd.Printf("Connected %s -> %s (%s)\n", edge.StartNodeID, edge.EndNodeID, edge.ID)
	return nil
}

func runBoardDisconnect(cmd *cobra.Command, args []string) error {
	if err := boardReady(cmd); err != nil {
		return err
	}
	if err := boardService.Disconnect(args[0]); err != nil {
		return fmt.Errorf("failed to disconnect: %w", err)
	}
	cmd.Printf("Removed connection %s\n", args[0])
	return nil
}

func runBoardInputs(cmd *cobra.Command, args []string) error {
	if err := boardReady(cmd); err != nil {
		return err
	}
	inputs, err := boardService.InputsOf(args[0])
	if err != nil {
		return fmt.Errorf("failed to collect inputs: %w", err)
	}
	if len(inputs) == 0 {
		cmd.Printf("No text feeds into %s\n", args[0])
		return nil
	}
	for i, in := range inputs {
		cmd.Printf("%d. %s\n", i+1, in)
	}
	return nil
}

func runBoardPan(cmd *cobra.Command, args []string) error {
	if err := boardReady(cmd); err != nil {
		return err
	}
	dx, dy, err := parsePair(args[0], args[1])
	if err != nil {
		return err
	}
	v, err := boardService.Pan(domain.Point{X: dx, Y: dy})
	if err != nil {
		return fmt.Errorf("failed to pan: %w", err)
	}
	printViewport(cmd, v)
	return nil
}

func runBoardZoom(cmd *cobra.Command, args []string) error {
	if err := boardReady(cmd); err != nil {
		return err
	}
	if boardReset {
		v, err := boardService.ResetView()
		if err != nil {
			return fmt.Errorf("failed to reset view: %w", err)
		}
		printViewport(cmd, v)
		return nil
	}
	if len(args) == 0 {
		return errors.New("pass a zoom delta or --reset")
	}
	delta, err := parseNumber(args[0])
	if err != nil {
		return err
	}

	current, err := boardService.Viewport()
	if err != nil {
		return err
	}
	at := current.ScreenCenter()
	if boardZoomAt != "" {
		if at, err = parsePoint(boardZoomAt); err != nil {
			return err
		}
	}
	v, err := boardService.ZoomAt(at, delta)
	if err != nil {
		return fmt.Errorf("failed to zoom: %w", err)
	}
	printViewport(cmd, v)
	return nil
}

func printViewport(cmd *cobra.Command, v domain.Viewport) {
	cmd.Printf("Scale: %.2f  Offset: (%g, %g)\n", v.EffectiveScale(), v.Offset.X, v.Offset.Y)
}

// parsePoint parses "x,y".
func parsePoint(s string) (domain.Point, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return domain.Point{}, fmt.Errorf("invalid point %q: want x,y", s)
	}
	x, y, err := parsePair(strings.TrimSpace(xs), strings.TrimSpace(ys))
	if err != nil {
		return domain.Point{}, err
	}
	return domain.Point{X: x, Y: y}, nil
}

func parsePair(a, b string) (float64, float64, error) {
	x, err := parseNumber(a)
	if err != nil {
		return 0, 0, err
	}
	y, err := parseNumber(b)
	if err != nil {
		return 0, 0, err
	}
	return x, y, nil
}

// parseNumber parses a finite float. NaN and Inf are rejected.
func parseNumber(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return v, nil
}
