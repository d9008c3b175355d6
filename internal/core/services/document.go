package services

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/gplanner/gplan/internal/core/domain"
	"github.com/gplanner/gplan/internal/core/ports/driven"
	"github.com/gplanner/gplan/internal/core/ports/driving"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DocumentService edits the document tree of the open project.
type DocumentService struct {
	projects driving.ProjectService
	richText driven.RichText
	exporter driven.DocumentExporter
	outlines *OutlineTracker
	newID    func() string

	mu       sync.Mutex
	activeID string
}

// NewDocumentService creates a document service.
func NewDocumentService(
	projects driving.ProjectService,
	richText driven.RichText,
	exporter driven.DocumentExporter,
) *DocumentService {
	return &DocumentService{
		projects: projects,
		richText: richText,
		exporter: exporter,
		outlines: NewOutlineTracker(),
		newID:    uuid.NewString,
	}
}

// Templates lists the built-in templates.
func (s *DocumentService) Templates() []domain.DocTemplate {
	return domain.DocTemplates()
}

// Create adds a document. Unknown templates fall back to blank.
func (s *DocumentService) Create(parentID, templateID string) (domain.DocNode, error) {
	tpl := domain.FindDocTemplate(templateID)
	doc := domain.DocNode{
		ID:       s.newID(),
		Title:    tpl.DocTitle(),
		Content:  tpl.Content,
		Expanded: true,
	}

	err := s.projects.Mutate(func(c *domain.ProjectContent) error {
		if parentID != "" {
			parent := c.Docs.Find(parentID)
			if parent == nil {
				return docErr(parentID, domain.ErrNotFound)
			}
			parent.Expanded = true
			pid := parentID
			doc.ParentID = &pid
		}
		c.Docs = append(c.Docs, doc)
		return nil
	})
	if err != nil {
		return domain.DocNode{}, err
	}

	s.mu.Lock()
	s.activeID = doc.ID
	s.mu.Unlock()
	s.publish(doc)
	return doc, nil
}

// Get returns a copy of a document.
func (s *DocumentService) Get(id string) (domain.DocNode, error) {
	var out domain.DocNode
	err := s.projects.View(func(c *domain.ProjectContent) error {
		d := c.Docs.Find(id)
		if d == nil {
			return docErr(id, domain.ErrNotFound)
		}
		out = *d
		return nil
	})
	return out, err
}

// Rename sets a title.
func (s *DocumentService) Rename(id, title string) error {
	return s.edit(id, func(d *domain.DocNode) { d.Title = title })
}

// SetContent replaces a body and publishes the outline if it changed.
func (s *DocumentService) SetContent(id, body string) error {
	var updated domain.DocNode
	err := s.edit(id, func(d *domain.DocNode) {
		d.Content = body
		updated = *d
	})
	if err != nil {
		return err
	}
	s.publish(updated)
	return nil
}

// Delete removes id and its descendants.
func (s *DocumentService) Delete(id string) (int, error) {
	var removed map[string]bool
	err := s.projects.Mutate(func(c *domain.ProjectContent) error {
		if c.Docs.Find(id) == nil {
			return docErr(id, domain.ErrNotFound)
		}
		removed = c.Docs.Subtree(id)
		c.Docs = c.Docs.Without(removed)
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	if removed[s.activeID] {
		s.activeID = ""
	}
	s.mu.Unlock()
	for docID := range removed {
		s.outlines.Forget(docID)
	}
	return len(removed), nil
}

// ToggleExpanded flips a document's expanded flag.
func (s *DocumentService) ToggleExpanded(id string) (bool, error) {
	var expanded bool
	err := s.edit(id, func(d *domain.DocNode) {
		d.Expanded = !d.Expanded
		expanded = d.Expanded
	})
	return expanded, err
}

// Tree returns the documents in display order.
func (s *DocumentService) Tree(all bool) ([]domain.DocEntry, error) {
	var out []domain.DocEntry
	err := s.projects.View(func(c *domain.ProjectContent) error {
		out = c.Docs.Flatten(all)
		return nil
	})
	return out, err
}

// Select makes id the active document.
func (s *DocumentService) Select(id string) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	s.mu.Lock()
	s.activeID = id
	s.mu.Unlock()
	return nil
}

// Active returns the active document. With no selection, or a selection
// that no longer exists, the first document is returned.
func (s *DocumentService) Active() (domain.DocNode, bool) {
	s.mu.Lock()
	id := s.activeID
	s.mu.Unlock()

	var out domain.DocNode
	var ok bool
	_ = s.projects.View(func(c *domain.ProjectContent) error {
		if d := c.Docs.Find(id); d != nil {
			out, ok = *d, true
		} else if id == "" && len(c.Docs) > 0 {
			out, ok = c.Docs[0], true
		}
		return nil
	})
	return out, ok
}

// Outline returns the headings of a document.
func (s *DocumentService) Outline(id string) ([]domain.Heading, error) {
	doc, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	return s.richText.Outline(doc.Content), nil
}

// OnOutline registers a listener for outline changes.
func (s *DocumentService) OnOutline(fn func(docID string, outline []domain.Heading)) {
	s.outlines.Subscribe(fn)
}

// Export writes a document through the configured exporter.
func (s *DocumentService) Export(id string, w io.Writer) error {
	doc, err := s.Get(id)
	if err != nil {
		return err
	}
	if err := s.exporter.ExportDocument(w, doc); err != nil {
		return fmt.Errorf("export document %s: %w", id, err)
	}
	return nil
}

// ExportExtension returns the exporter's file extension.
func (s *DocumentService) ExportExtension() string {
	return s.exporter.Extension()
}

// InsertAIText converts text to HTML and appends it to the body, or
// replaces the body.
func (s *DocumentService) InsertAIText(id, text string, replace bool) error {
	html := text
	if !strings.HasPrefix(strings.TrimSpace(text), "<") {
		html = s.richText.FromMarkdown(text)
	}

	var updated domain.DocNode
	err := s.edit(id, func(d *domain.DocNode) {
		switch {
		case replace, strings.TrimSpace(d.Content) == "":
			d.Content = html
		default:
			d.Content += "<br>" + html
		}
		updated = *d
	})
	if err != nil {
		return err
	}
	s.publish(updated)
	return nil
}

func (s *DocumentService) edit(id string, fn func(*domain.DocNode)) error {
	return s.projects.Mutate(func(c *domain.ProjectContent) error {
		d := c.Docs.Find(id)
		if d == nil {
			return docErr(id, domain.ErrNotFound)
		}
		fn(d)
		return nil
	})
}

func (s *DocumentService) publish(doc domain.DocNode) {
	s.outlines.Publish(doc.ID, s.richText.Outline(doc.Content))
}

func docErr(id string, err error) error {
	return fmt.Errorf("document %s: %w", id, err)
}
