package services

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gplanner/gplan/internal/core/domain"
)

// stubRichText treats each "<h1>" as a heading and marks converted text.
type stubRichText struct{}

func (stubRichText) Outline(body string) []domain.Heading {
	var out []domain.Heading
	for i, part := range strings.Split(body, "<h1>")[1:] {
		text, _, _ := strings.Cut(part, "</h1>")
		out = append(out, domain.Heading{Level: 1, Text: text, Position: i})
	}
	return out
}

func (stubRichText) PlainText(body string) string { return body }

func (stubRichText) FromMarkdown(text string) string { return "<p>" + text + "</p>" }

type stubExporter struct{ err error }

func (e stubExporter) ExportDocument(w io.Writer, doc domain.DocNode) error {
	if e.err != nil {
		return e.err
	}
	_, err := io.WriteString(w, doc.Title+":"+doc.Content)
	return err
}

func (stubExporter) Extension() string { return ".txt" }

func newTestDocs(t *testing.T) (*DocumentService, *Workspace) {
	t.Helper()
	ws, _ := newTestWorkspace(t)
	openProject(t, ws)
	s := NewDocumentService(ws, stubRichText{}, stubExporter{})
	s.newID = sequentialIDs("doc")
	return s, ws
}

func TestDocuments_RequiresOpenProject(t *testing.T) {
	ws, _ := newTestWorkspace(t)
	s := NewDocumentService(ws, stubRichText{}, stubExporter{})

	_, err := s.Create("", "gdd")
	assert.ErrorIs(t, err, domain.ErrNoActiveProject)
	_, ok := s.Active()
	assert.False(t, ok)
}

func TestDocuments_CreateFromTemplate(t *testing.T) {
	s, _ := newTestDocs(t)

	gdd, err := s.Create("", "gdd")
	require.NoError(t, err)
	assert.Equal(t, "Game Design Document", gdd.Title)
	assert.True(t, gdd.Expanded)
	assert.True(t, gdd.IsRoot())

	blank, err := s.Create("", "no-such-template")
	require.NoError(t, err)
	assert.Equal(t, domain.UntitledDocument, blank.Title)
	assert.Empty(t, blank.Content)

	active, ok := s.Active()
	require.True(t, ok)
	assert.Equal(t, blank.ID, active.ID)
}

func TestDocuments_CreateChildExpandsParent(t *testing.T) {
	s, _ := newTestDocs(t)
	root, _ := s.Create("", "blank")
	_, err := s.ToggleExpanded(root.ID)
	require.NoError(t, err)

	child, err := s.Create(root.ID, "level")
	require.NoError(t, err)
	require.NotNil(t, child.ParentID)
	assert.Equal(t, root.ID, *child.ParentID)

	parent, _ := s.Get(root.ID)
	assert.True(t, parent.Expanded)

	_, err = s.Create("missing", "blank")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocuments_TreeHidesCollapsedChildren(t *testing.T) {
	s, _ := newTestDocs(t)
	root, _ := s.Create("", "blank")
	_, _ = s.Create(root.ID, "blank")

	tree, err := s.Tree(false)
	require.NoError(t, err)
	require.Len(t, tree, 2)
	assert.Equal(t, 1, tree[1].Depth)

	expanded, err := s.ToggleExpanded(root.ID)
	require.NoError(t, err)
	assert.False(t, expanded)

	tree, _ = s.Tree(false)
	assert.Len(t, tree, 1)
	tree, _ = s.Tree(true)
	assert.Len(t, tree, 2)
}

func TestDocuments_DeleteCascades(t *testing.T) {
	s, _ := newTestDocs(t)
	root, _ := s.Create("", "blank")
	child, _ := s.Create(root.ID, "blank")
	_, _ = s.Create(child.ID, "blank")
	other, _ := s.Create("", "blank")
	require.NoError(t, s.Select(child.ID))

	n, err := s.Delete(root.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	tree, _ := s.Tree(true)
	require.Len(t, tree, 1)
	assert.Equal(t, other.ID, tree[0].Doc.ID)

	active, ok := s.Active()
	require.True(t, ok, "falls back to the first document")
	assert.Equal(t, other.ID, active.ID)

	_, err = s.Delete(root.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocuments_SelectMissing(t *testing.T) {
	s, _ := newTestDocs(t)
	assert.ErrorIs(t, s.Select("nope"), domain.ErrNotFound)
}

func TestDocuments_RenameAndContent(t *testing.T) {
	s, ws := newTestDocs(t)
	doc, _ := s.Create("", "blank")

	require.NoError(t, s.Rename(doc.ID, "Lore"))
	require.NoError(t, s.SetContent(doc.ID, "<h1>World</h1><p>x</p>"))

	got, err := s.Get(doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lore", got.Title)
	assert.Equal(t, domain.StatusUnsaved, ws.Status())

	outline, err := s.Outline(doc.ID)
	require.NoError(t, err)
	require.Len(t, outline, 1)
	assert.Equal(t, "World", outline[0].Text)

	assert.ErrorIs(t, s.Rename("nope", "x"), domain.ErrNotFound)
}

func TestDocuments_OutlineListenersSkipUnchanged(t *testing.T) {
	s, _ := newTestDocs(t)
	doc, _ := s.Create("", "blank")

	var calls [][]domain.Heading
	s.OnOutline(func(docID string, outline []domain.Heading) {
		assert.Equal(t, doc.ID, docID)
		calls = append(calls, outline)
	})

	require.NoError(t, s.SetContent(doc.ID, "<h1>A</h1>"))
	require.NoError(t, s.SetContent(doc.ID, "<h1>A</h1><p>more body</p>"))
	require.NoError(t, s.SetContent(doc.ID, "<h1>B</h1>"))

	require.Len(t, calls, 2)
	assert.Equal(t, "B", calls[1][0].Text)
}

func TestDocuments_InsertAIText(t *testing.T) {
	s, _ := newTestDocs(t)
	doc, _ := s.Create("", "blank")

	require.NoError(t, s.InsertAIText(doc.ID, "first", false))
	got, _ := s.Get(doc.ID)
	assert.Equal(t, "<p>first</p>", got.Content, "empty body is replaced")

	require.NoError(t, s.InsertAIText(doc.ID, "<p>second</p>", false))
	got, _ = s.Get(doc.ID)
	assert.Equal(t, "<p>first</p><br><p>second</p>", got.Content, "html is inserted as is")

	require.NoError(t, s.InsertAIText(doc.ID, "third", true))
	got, _ = s.Get(doc.ID)
	assert.Equal(t, "<p>third</p>", got.Content)
}

func TestDocuments_Export(t *testing.T) {
	s, ws := newTestDocs(t)
	doc, _ := s.Create("", "blank")
	require.NoError(t, s.SetContent(doc.ID, "body"))

	var buf bytes.Buffer
	require.NoError(t, s.Export(doc.ID, &buf))
	assert.Equal(t, domain.UntitledDocument+":body", buf.String())
	assert.Equal(t, ".txt", s.ExportExtension())

	failing := NewDocumentService(ws, stubRichText{}, stubExporter{err: errors.New("disk full")})
	err := failing.Export(doc.ID, &buf)
	assert.ErrorContains(t, err, "disk full")
	assert.ErrorIs(t, failing.Export("nope", &buf), domain.ErrNotFound)
}
