package driving

import (
	"io"

	"github.com/gplanner/gplan/internal/core/domain"
)

// DocumentService edits the open project's document tree.
type DocumentService interface {
	// Templates lists the starting points for new documents.
	Templates() []domain.DocTemplate

	// Create adds a document from a template under parentID (empty for a
	// root). The parent is expanded and the new document becomes active.
	Create(parentID, templateID string) (domain.DocNode, error)

	// Get returns a document.
	Get(id string) (domain.DocNode, error)

	// Rename replaces a title.
	Rename(id, title string) error

	// SetContent replaces a body.
	SetContent(id, body string) error

	// Delete removes a document and all its descendants and returns how
	// many were removed.
	Delete(id string) (int, error)

	// ToggleExpanded flips the expanded flag and returns the new value.
	ToggleExpanded(id string) (bool, error)

	// Tree returns documents in display order. When all is false the
	// children of collapsed documents are omitted.
	Tree(all bool) ([]domain.DocEntry, error)

	// Select makes id the active document.
	Select(id string) error

	// Active returns the active document.
	Active() (domain.DocNode, bool)

	// Outline returns the headings of a document.
	Outline(id string) ([]domain.Heading, error)

	// OnOutline registers a listener for outline changes.
	OnOutline(fn func(docID string, outline []domain.Heading))

	// Export writes a standalone copy of a document.
	Export(id string, w io.Writer) error

	// ExportExtension returns the file extension Export produces.
	ExportExtension() string

	// InsertAIText converts completion output to HTML and appends it, or
	// replaces the body when replace is set.
	InsertAIText(id, text string, replace bool) error
}
