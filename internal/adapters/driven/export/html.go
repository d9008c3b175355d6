// Package export writes documents and projects to portable formats.
package export

import (
	"fmt"
	"html/template"
	"io"

	"github.com/gplanner/gplan/internal/core/domain"
	"github.com/gplanner/gplan/internal/core/ports/driven"
)

// Ensure HTMLExporter implements the interface.
var _ driven.DocumentExporter = (*HTMLExporter)(nil)

var documentPage = template.Must(template.New("doc").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>body { font-family: sans-serif; padding: 20px; line-height: 1.6; max-width: 800px; margin: 0 auto; } img { max-width: 100%; }</style>
</head>
<body>
<h1>{{.Title}}</h1>
{{.Body}}
</body>
</html>
`))

// HTMLExporter writes a document as a standalone HTML page.
type HTMLExporter struct{}

// NewHTMLExporter creates an HTML exporter.
func NewHTMLExporter() *HTMLExporter {
	return &HTMLExporter{}
}

// ExportDocument writes doc to w. The title is escaped; the body is
// already HTML and is written as is.
func (e *HTMLExporter) ExportDocument(w io.Writer, doc domain.DocNode) error {
	data := struct {
		Title string
		Body  template.HTML
	}{
		Title: doc.Title,
		Body:  template.HTML(doc.Content), //nolint:gosec // document bodies are authored HTML
	}
	if err := documentPage.Execute(w, data); err != nil {
		return fmt.Errorf("render document: %w", err)
	}
	return nil
}

// Extension returns ".html".
func (e *HTMLExporter) Extension() string {
	return ".html"
}
