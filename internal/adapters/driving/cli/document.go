package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

var (
	docAll      bool
	docParent   string
	docTemplate string
	docFile     string
	docAppend   bool
	docOutput   string
)

var documentCmd = &cobra.Command{
	Use:     "doc",
	Aliases: []string{"docs", "document"},
	Short:   "Edit design documents",
	Long:    `Create, edit and export the open project's design document tree.`,
}

var documentTreeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Show the document tree",
	Args:  cobra.NoArgs,
	RunE:  runDocumentTree,
}

var documentNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Create a document from a template",
	Long:  `Create a document from a template. Templates: blank, gdd, level, char. Use --parent to nest it under another document.`,
	Args:  cobra.NoArgs,
	RunE:  runDocumentNew,
}

var documentShowCmd = &cobra.Command{
	Use:   "show [doc-id]",
	Short: "Print a document's HTML body",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentShow,
}

var documentRenameCmd = &cobra.Command{
	Use:   "rename [doc-id] [title]",
	Short: "Rename a document",
	Args:  cobra.ExactArgs(2),
	RunE:  runDocumentRename,
}

var documentWriteCmd = &cobra.Command{
	Use:   "write [doc-id] [html]",
	Short: "Replace a document's body",
	Long: `Replace a document's body with HTML given as an argument, read from
--file, or read from stdin when neither is given.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runDocumentWrite,
}

var documentDeleteCmd = &cobra.Command{
	Use:   "delete [doc-id]",
	Short: "Delete a document and everything under it",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentDelete,
}

var documentToggleCmd = &cobra.Command{
	Use:   "toggle [doc-id]",
	Short: "Expand or collapse a document in the tree",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentToggle,
}

var documentOutlineCmd = &cobra.Command{
	Use:   "outline [doc-id]",
	Short: "List a document's headings",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentOutline,
}

var documentExportCmd = &cobra.Command{
	Use:   "export [doc-id]",
	Short: "Export a document as a standalone page",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentExport,
}

func init() {
	documentTreeCmd.Flags().BoolVarP(&docAll, "all", "a", false, "include children of collapsed documents")
	documentNewCmd.Flags().StringVar(&docParent, "parent", "", "parent document id")
	documentNewCmd.Flags().StringVarP(&docTemplate, "template", "t", "blank", "template id")
	documentWriteCmd.Flags().StringVarP(&docFile, "file", "f", "", "read the body from a file")
	documentWriteCmd.Flags().BoolVar(&docAppend, "append", false, "append instead of replacing")
	documentExportCmd.Flags().StringVarP(&docOutput, "output", "o", "", "output file (default: <title><ext>, - for stdout)")

	documentCmd.AddCommand(documentTreeCmd)
	documentCmd.AddCommand(documentNewCmd)
	documentCmd.AddCommand(documentShowCmd)
	documentCmd.AddCommand(documentRenameCmd)
	documentCmd.AddCommand(documentWriteCmd)
	documentCmd.AddCommand(documentDeleteCmd)
	documentCmd.AddCommand(documentToggleCmd)
	documentCmd.AddCommand(documentOutlineCmd)
	documentCmd.AddCommand(documentExportCmd)
	rootCmd.AddCommand(documentCmd)
}

func documentReady(cmd *cobra.Command) error {
	if err := requireService(documentService, "document"); err != nil {
		return err
	}
	_, err := useProject(cmd)
	return err
}

func runDocumentTree(cmd *cobra.Command, _ []string) error {
	if err := documentReady(cmd); err != nil {
		return err
	}
	entries, err := documentService.Tree(docAll)
	if err != nil {
		return fmt.Errorf("failed to read documents: %w", err)
	}
	if len(entries) == 0 {
		cmd.Println("No documents yet. Create one with: gplan doc new --template gdd")
		return nil
	}

	for _, e := range entries {
		marker := "-"
		if !e.Doc.Expanded {
			marker = "+"
		}
		cmd.Printf("%s%s %s  (%s)\n", strings.Repeat("  ", e.Depth), marker, e.Doc.Title, e.Doc.ID)
	}
	return nil
}

func runDocumentNew(cmd *cobra.Command, _ []string) error {
	if err := documentReady(cmd); err != nil {
		return err
	}
	doc, err := documentService.Create(docParent, docTemplate)
	if err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}
	cmd.Printf("Created %q (%s)\n", doc.Title, doc.ID)
	return nil
}

func runDocumentShow(cmd *cobra.Command, args []string) error {
	if err := documentReady(cmd); err != nil {
		return err
	}
	doc, err := documentService.Get(args[0])
	if err != nil {
		return err
	}
	cmd.Printf("# %s\n\n", doc.Title)
	cmd.Println(doc.Content)
	return nil
}

func runDocumentRename(cmd *cobra.Command, args []string) error {
	if err := documentReady(cmd); err != nil {
		return err
	}
	if err := documentService.Rename(args[0], args[1]); err != nil {
		return fmt.Errorf("failed to rename document: %w", err)
	}
	cmd.Printf("Renamed %s to %q\n", args[0], args[1])
	return nil
}

func runDocumentWrite(cmd *cobra.Command, args []string) error {
	if err := documentReady(cmd); err != nil {
		return err
	}

	var body string
	switch {
	case len(args) == 2:
		body = args[1]
	case docFile != "":
		data, err := os.ReadFile(docFile)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", docFile, err)
		}
		body = string(data)
	default:
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		body = string(data)
	}

	if docAppend {
		doc, err := documentService.Get(args[0])
		if err != nil {
			return err
		}
		body = doc.Content + body
	}
	if err := documentService.SetContent(args[0], body); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}

	outline, _ := documentService.Outline(args[0])
	cmd.Printf("Saved %s (%d headings)\n", args[0], len(outline))
	return nil
}

func runDocumentDelete(cmd *cobra.Command, args []string) error {
	if err := documentReady(cmd); err != nil {
		return err
	}
	n, err := documentService.Delete(args[0])
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	cmd.Printf("Deleted %d document(s)\n", n)
	return nil
}

func runDocumentToggle(cmd *cobra.Command, args []string) error {
	if err := documentReady(cmd); err != nil {
		return err
	}
	expanded, err := documentService.ToggleExpanded(args[0])
	if err != nil {
		return fmt.Errorf("failed to toggle document: %w", err)
	}
	state := "collapsed"
	if expanded {
		state = "expanded"
	}
	cmd.Printf("%s is now %s\n", args[0], state)
	return nil
}

func runDocumentOutline(cmd *cobra.Command, args []string) error {
	if err := documentReady(cmd); err != nil {
		return err
	}
	outline, err := documentService.Outline(args[0])
	if err != nil {
		return fmt.Errorf("failed to read outline: %w", err)
	}
	if len(outline) == 0 {
		cmd.Println("No headings.")
		return nil
	}
	for _, h := range outline {
		text := h.Text
		if text == "" {
			text = "(empty)"
		}
		cmd.Printf("%s%s\n", strings.Repeat("  ", h.Level-1), text)
	}
	return nil
}

func runDocumentExport(cmd *cobra.Command, args []string) error {
	if err := documentReady(cmd); err != nil {
		return err
	}
	doc, err := documentService.Get(args[0])
	if err != nil {
		return err
	}

	if docOutput == "-" {
		return documentService.Export(doc.ID, cmd.OutOrStdout())
	}
	path := docOutput
	if path == "" {
		path = fileName(doc.Title) + documentService.ExportExtension()
	}
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if err := documentService.Export(doc.ID, f); err != nil {
		return errors.Join(err, os.Remove(path))
	}
	cmd.Printf("Exported %q to %s\n", doc.Title, path)
	return nil
}
