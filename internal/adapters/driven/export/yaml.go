package export

import (
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/gplanner/gplan/internal/core/domain"
	"github.com/gplanner/gplan/internal/core/ports/driven"
)

// Ensure YAMLExporter implements the interface.
var _ driven.ProjectExporter = (*YAMLExporter)(nil)

// YAMLExporter writes a project snapshot as YAML. Embedded media is
// replaced by its size so the file stays readable.
type YAMLExporter struct {
	// KeepMedia writes data URIs in full.
	KeepMedia bool

	now func() time.Time
}

// NewYAMLExporter creates a YAML exporter.
func NewYAMLExporter() *YAMLExporter {
	return &YAMLExporter{now: time.Now}
}

type projectDoc struct {
	Project  projectHeader `yaml:"project"`
	Board    boardDoc      `yaml:"board"`
	Members  []memberDoc   `yaml:"members,omitempty"`
	Todos    []todoDoc     `yaml:"todos,omitempty"`
	Docs     []docDoc      `yaml:"docs,omitempty"`
	Pages    []pageDoc     `yaml:"pages,omitempty"`
	Start    string        `yaml:"start_page,omitempty"`
	Assets   []assetDoc    `yaml:"assets,omitempty"`
	Exported string        `yaml:"exported_at"`
}

type projectHeader struct {
	ID           string `yaml:"id"`
	Name         string `yaml:"name"`
	LastModified string `yaml:"last_modified"`
	HasCover     bool   `yaml:"has_cover,omitempty"`
}

type boardDoc struct {
	Nodes []nodeDoc `yaml:"nodes,omitempty"`
	Edges []edgeDoc `yaml:"edges,omitempty"`
}

type nodeDoc struct {
	ID      string  `yaml:"id"`
	Kind    string  `yaml:"kind"`
	X       float64 `yaml:"x"`
	Y       float64 `yaml:"y"`
	Content string  `yaml:"content,omitempty"`
}

type edgeDoc struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

type memberDoc struct {
	Name  string `yaml:"name"`
	Role  string `yaml:"role"`
	Color string `yaml:"color"`
}

type todoDoc struct {
	Text     string `yaml:"text"`
	Done     bool   `yaml:"done"`
	Assignee string `yaml:"assignee"`
}

type docDoc struct {
	Title    string `yaml:"title"`
	Depth    int    `yaml:"depth"`
	Content  string `yaml:"content,omitempty"`
	Children int    `yaml:"children,omitempty"`
}

type pageDoc struct {
	Name       string         `yaml:"name"`
	Kind       string         `yaml:"kind"`
	Size       string         `yaml:"size"`
	Components []componentDoc `yaml:"components,omitempty"`
}

type componentDoc struct {
	Name   string `yaml:"name"`
	Kind   string `yaml:"kind"`
	Asset  string `yaml:"asset,omitempty"`
	Text   string `yaml:"text,omitempty"`
	Action string `yaml:"on_click,omitempty"`
}

type assetDoc struct {
	ID    string `yaml:"id"`
	Label string `yaml:"label"`
	Slice string `yaml:"slice"`
}

// ExportProject writes the project to w.
func (e *YAMLExporter) ExportProject(w io.Writer, meta domain.ProjectMeta, content *domain.ProjectContent) error {
	if content == nil {
		content = domain.NewProjectContent()
	}
	doc := projectDoc{
		Project: projectHeader{
			ID:           meta.ID,
			Name:         meta.Name,
			LastModified: meta.Modified().UTC().Format(time.RFC3339),
			HasCover:     meta.Cover != "",
		},
		Start:    content.UIMock.StartPageID,
		Exported: e.now().UTC().Format(time.RFC3339),
	}

	for _, n := range content.Whiteboard.Nodes {
		doc.Board.Nodes = append(doc.Board.Nodes, nodeDoc{
			ID: n.ID, Kind: n.Kind.String(), X: n.Position.X, Y: n.Position.Y,
			Content: e.media(n.Content, n.Kind.IsMedia()),
		})
	}
	for _, edge := range content.Whiteboard.Edges {
		doc.Board.Edges = append(doc.Board.Edges, edgeDoc{From: edge.StartNodeID, To: edge.EndNodeID})
	}
	for _, m := range content.Members {
		doc.Members = append(doc.Members, memberDoc{Name: m.Name, Role: m.Role, Color: m.Color})
	}
	for _, t := range content.Todos {
		doc.Todos = append(doc.Todos, todoDoc{Text: t.Text, Done: t.Done, Assignee: t.AssigneeName(content.Members)})
	}
	for _, entry := range content.Docs.Flatten(true) {
		doc.Docs = append(doc.Docs, docDoc{
			Title:    entry.Doc.Title,
			Depth:    entry.Depth,
			Content:  entry.Doc.Content,
			Children: len(content.Docs.Children(entry.Doc.ID)),
		})
	}
	for _, p := range content.UIMock.Pages {
		pd := pageDoc{Name: p.Name, Kind: string(p.Kind), Size: fmt.Sprintf("%gx%g", p.Width, p.Height)}
		for _, c := range p.Components {
			pd.Components = append(pd.Components, componentDoc{
				Name:   c.Name,
				Kind:   string(c.Kind),
				Asset:  e.media(c.AssetRef, c.Kind.IsMedia()),
				Text:   c.Text,
				Action: describeInteraction(c.Interaction, &content.UIMock),
			})
		}
		doc.Pages = append(doc.Pages, pd)
	}
	for _, a := range content.UIMock.Assets {
		doc.Assets = append(doc.Assets, assetDoc{
			ID: a.ID, Label: a.Label, Slice: fmt.Sprintf("%g,%g %gx%g", a.X, a.Y, a.W, a.H),
		})
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode project: %w", err)
	}
	return enc.Close()
}

// Extension returns ".yaml".
func (e *YAMLExporter) Extension() string {
	return ".yaml"
}

func (e *YAMLExporter) media(v string, isMedia bool) string {
	if !isMedia || e.KeepMedia || len(v) < 5 || v[:5] != "data:" {
		return v
	}
	return fmt.Sprintf("<embedded %d bytes>", len(v))
}

func describeInteraction(in domain.Interaction, mock *domain.UIMock) string {
	target := in.TargetPageID
	if p := mock.Page(target); p != nil {
		target = p.Name
	}
	switch in.Kind {
	case domain.InteractionNone, "":
		return ""
	case domain.InteractionNavigate, domain.InteractionOpenModal:
		return fmt.Sprintf("%s %s", in.Kind, target)
	case domain.InteractionIncrement:
		return fmt.Sprintf("%s %s", in.Kind, in.Counter())
	case domain.InteractionCondition:
		return fmt.Sprintf("if %s then navigate %s", in.Param, target)
	default:
		return string(in.Kind)
	}
}
