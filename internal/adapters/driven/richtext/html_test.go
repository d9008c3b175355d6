package richtext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gplanner/gplan/internal/core/domain"
)

func TestOutline(t *testing.T) {
	body := `<h1>Project <em>Name</em></h1><p>intro</p><h2>1. Overview</h2>` +
		`<div><h3> Nested </h3></div><h2></h2><p><strong>not a heading</strong></p>`

	got := New().Outline(body)

	assert.Equal(t, []domain.Heading{
		{Level: 1, Text: "Project Name", Position: 0},
		{Level: 2, Text: "1. Overview", Position: 42},
		{Level: 3, Text: "Nested", Position: 67},
		{Level: 2, Text: "", Position: 90},
	}, got)
}

func TestOutline_PositionIsByteOffset(t *testing.T) {
	body := `<p>Café &amp; bar</p><h2>Tom &amp; Jerry</h2>`

	got := New().Outline(body)

	require.Len(t, got, 1)
	assert.Equal(t, "Tom & Jerry", got[0].Text)
	assert.Equal(t, 22, got[0].Position)
	assert.Equal(t, "<h2>", body[got[0].Position:got[0].Position+4])
}

func TestOutline_SamePositionsAcrossEdits(t *testing.T) {
	before := New().Outline(`<h1>A</h1><h2></h2>`)
	after := New().Outline(`<h1>A</h1><h2>B</h2>`)

	require.Len(t, before, 2)
	require.Len(t, after, 2)
	assert.Equal(t, before[1].Position, after[1].Position, "filling an empty heading keeps its offset")
	assert.NotEqual(t, before[1].Text, after[1].Text)
}

func TestOutline_UnclosedHeading(t *testing.T) {
	got := New().Outline(`<p>x</p><h3>Tail`)

	assert.Equal(t, []domain.Heading{{Level: 3, Text: "Tail", Position: 8}}, got)
}

func TestOutline_Empty(t *testing.T) {
	assert.Empty(t, New().Outline(""))
	assert.Empty(t, New().Outline("plain words"))
}

func TestPlainText(t *testing.T) {
	body := `<h1>Title</h1><p>First   line</p><ul><li>a</li><li>b</li></ul><script>x()</script>text<br>more`
	assert.Equal(t, "Title\nFirst line\na\nb\ntext\nmore", New().PlainText(body))
}

func TestFromMarkdown(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"headings", "# A\n## B\n### C", "<h1>A</h1><h2>B</h2><h3>C</h3>"},
		{"bold", "a **b** c", "<p>a <strong>b</strong> c</p>"},
		{"blank lines dropped", "x\n\n  \ny", "<p>x</p><p>y</p>"},
		{"tags pass through", "<ul><li>x</li></ul>\nline", "<ul><li>x</li></ul><p>line</p>"},
		{"escapes text", "1 < 2 & 3", "<p>1 &lt; 2 &amp; 3</p>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, New().FromMarkdown(tt.in))
		})
	}
}
