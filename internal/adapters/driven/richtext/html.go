// Package richtext reads and writes the HTML bodies of documents.
package richtext

import (
	"html"
	"regexp"
	"strings"

	nethtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/gplanner/gplan/internal/core/domain"
	"github.com/gplanner/gplan/internal/core/ports/driven"
)

// Ensure HTML implements the interface.
var _ driven.RichText = (*HTML)(nil)

// HTML implements RichText over golang.org/x/net/html.
type HTML struct{}

// New creates a rich text helper.
func New() *HTML {
	return &HTML{}
}

var headingLevels = map[atom.Atom]int{
	atom.H1: 1, atom.H2: 2, atom.H3: 3, atom.H4: 4, atom.H5: 5, atom.H6: 6,
}

// blockElements end a line when rendered as plain text.
var blockElements = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Li: true, atom.Br: true, atom.Tr: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Blockquote: true, atom.Pre: true,
}

// Outline returns h1..h6 headings in document order. Position is the byte
// offset of the opening tag in body. Empty headings are kept.
func (h *HTML) Outline(body string) []domain.Heading {
	var out []domain.Heading
	var text strings.Builder
	level, start, offset := 0, 0, 0

	z := nethtml.NewTokenizer(strings.NewReader(body))
	for {
		tt := z.Next()
		pos := offset
		offset += len(z.Raw())

		switch tt {
		case nethtml.ErrorToken:
			if level > 0 {
				out = append(out, domain.Heading{Level: level, Text: collapse(text.String()), Position: start})
			}
			return out
		case nethtml.StartTagToken:
			if l := headingLevel(z); l > 0 && level == 0 {
				level, start = l, pos
				text.Reset()
			}
		case nethtml.EndTagToken:
			// Any closing heading tag ends the open heading, as browsers do.
			if level > 0 && headingLevel(z) > 0 {
				out = append(out, domain.Heading{Level: level, Text: collapse(text.String()), Position: start})
				level = 0
			}
		case nethtml.TextToken:
			if level > 0 {
				text.Write(z.Text())
			}
		}
	}
}

func headingLevel(z *nethtml.Tokenizer) int {
	name, _ := z.TagName()
	return headingLevels[atom.Lookup(name)]
}

// PlainText strips markup, keeping one line per block element.
func (h *HTML) PlainText(body string) string {
	nodes, err := parse(body)
	if err != nil {
		return body
	}
	var b strings.Builder
	var walk func(n *nethtml.Node)
	walk = func(n *nethtml.Node) {
		switch n.Type {
		case nethtml.TextNode:
			b.WriteString(n.Data)
		case nethtml.ElementNode:
			if n.DataAtom == atom.Script || n.DataAtom == atom.Style {
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == nethtml.ElementNode && blockElements[n.DataAtom] {
			b.WriteString("\n")
		}
	}
	for _, n := range nodes {
		walk(n)
	}

	lines := strings.Split(b.String(), "\n")
	kept := lines[:0]
	for _, l := range lines {
		if l = collapse(l); l != "" {
			kept = append(kept, l)
		}
	}
	return strings.Join(kept, "\n")
}

var boldPattern = regexp.MustCompile(`\*\*(.*?)\*\*`)

// FromMarkdown converts headings (#, ##, ###), **bold** and plain lines
// to HTML. Lines that already start with a tag pass through.
func (h *HTML) FromMarkdown(text string) string {
	var b strings.Builder
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			continue
		case strings.HasPrefix(trimmed, "<"):
			b.WriteString(trimmed)
		case strings.HasPrefix(trimmed, "### "):
			b.WriteString("<h3>" + inline(trimmed[4:]) + "</h3>")
		case strings.HasPrefix(trimmed, "## "):
			b.WriteString("<h2>" + inline(trimmed[3:]) + "</h2>")
		case strings.HasPrefix(trimmed, "# "):
			b.WriteString("<h1>" + inline(trimmed[2:]) + "</h1>")
		default:
			b.WriteString("<p>" + inline(trimmed) + "</p>")
		}
	}
	return b.String()
}

func inline(s string) string {
	return boldPattern.ReplaceAllString(html.EscapeString(s), "<strong>$1</strong>")
}

func parse(body string) ([]*nethtml.Node, error) {
	ctx := &nethtml.Node{Type: nethtml.ElementNode, Data: "body", DataAtom: atom.Body}
	return nethtml.ParseFragment(strings.NewReader(body), ctx)
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
