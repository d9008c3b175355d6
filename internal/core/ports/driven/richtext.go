package driven

import "github.com/gplanner/gplan/internal/core/domain"

// RichText understands the HTML bodies of documents.
type RichText interface {
	// Outline returns the headings of body in document order.
	Outline(body string) []domain.Heading

	// PlainText strips markup from body.
	PlainText(body string) string

	// FromMarkdown converts completion output (headings, bold, plain
	// lines) into HTML suitable for insertion into a document.
	FromMarkdown(text string) string
}
