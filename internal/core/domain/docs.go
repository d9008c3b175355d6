package domain

// DocNode is one page of the document tree. Content is HTML.
type DocNode struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Content  string  `json:"content"`
	ParentID *string `json:"parentId"`
	Expanded bool    `json:"expanded"`
}

// IsRoot returns true if the document has no parent.
func (d DocNode) IsRoot() bool {
	return d.ParentID == nil || *d.ParentID == ""
}

// Heading is one outline entry extracted from a document body. Position is
// the byte offset of the heading in the body.
type Heading struct {
	Level    int    `json:"level"`
	Text     string `json:"text"`
	Position int    `json:"pos"`
}

// DocTemplate is starting content for a new document.
type DocTemplate struct {
	ID      string
	Name    string
	Content string
}

// BlankTemplateID names the empty template.
const BlankTemplateID = "blank"

// UntitledDocument is the title given to blank documents.
const UntitledDocument = "Untitled Document"

var docTemplates = []DocTemplate{
	{ID: BlankTemplateID, Name: "Blank Document", Content: ""},
	{
		ID:   "gdd",
		Name: "Game Design Document",
		Content: "<h1>Project Name</h1><h2>1. Overview</h2>" +
			"<p><strong>Core concept:</strong> describe the game in one sentence.</p>" +
			"<p><strong>Genre:</strong> RPG / FPS / RTS...</p>",
	},
	{
		ID:      "level",
		Name:    "Level Design Template",
		Content: "<h1>Level: [Level 1]</h1><h2>1. Objectives</h2><p>What must the player do to clear the level?</p>",
	},
	{
		ID:      "char",
		Name:    "Character Sheet",
		Content: "<h1>Character: [Name]</h1><h2>1. Basics</h2><ul><li><strong>Age:</strong> 18</li></ul>",
	},
}

// DocTemplates returns the built-in document templates.
func DocTemplates() []DocTemplate {
	out := make([]DocTemplate, len(docTemplates))
	copy(out, docTemplates)
	return out
}

// FindDocTemplate returns the template with id, falling back to blank.
func FindDocTemplate(id string) DocTemplate {
	for _, t := range docTemplates {
		if t.ID == id {
			return t
		}
	}
	return docTemplates[0]
}

// DocTitle returns the title a document created from t starts with.
func (t DocTemplate) DocTitle() string {
	if t.ID == BlankTemplateID {
		return UntitledDocument
	}
	return t.Name
}

// DocTree is a parent-pointer forest of documents.
type DocTree []DocNode

// Find returns a pointer to the document with id, or nil.
func (t DocTree) Find(id string) *DocNode {
	for i := range t {
		if t[i].ID == id {
			return &t[i]
		}
	}
	return nil
}

// Children returns the direct children of parentID in insertion order.
// An empty parentID selects the roots.
func (t DocTree) Children(parentID string) []DocNode {
	var out []DocNode
	for _, d := range t {
		if parentID == "" {
			if d.IsRoot() {
				out = append(out, d)
			}
			continue
		}
		if d.ParentID != nil && *d.ParentID == parentID {
			out = append(out, d)
		}
	}
	return out
}

// Subtree returns id and every document reachable from it by following
// parent pointers forward.
func (t DocTree) Subtree(id string) map[string]bool {
	set := map[string]bool{id: true}
	for changed := true; changed; {
		changed = false
		for _, d := range t {
			if set[d.ID] || d.ParentID == nil {
				continue
			}
			if set[*d.ParentID] {
				set[d.ID] = true
				changed = true
			}
		}
	}
	return set
}

// Without returns the tree minus the documents in ids.
func (t DocTree) Without(ids map[string]bool) DocTree {
	out := make(DocTree, 0, len(t))
	for _, d := range t {
		if !ids[d.ID] {
			out = append(out, d)
		}
	}
	return out
}

// DocEntry is a document placed in display order with its depth.
type DocEntry struct {
	Doc   DocNode
	Depth int
}

// Flatten walks the forest depth first. Children of collapsed documents
// are skipped unless all is set. Documents whose parent no longer exists
// are shown as roots.
func (t DocTree) Flatten(all bool) []DocEntry {
	known := make(map[string]bool, len(t))
	for _, d := range t {
		known[d.ID] = true
	}
	var out []DocEntry
	var walk func(d DocNode, depth int)
	walk = func(d DocNode, depth int) {
		out = append(out, DocEntry{Doc: d, Depth: depth})
		if !d.Expanded && !all {
			return
		}
		for _, c := range t.Children(d.ID) {
			walk(c, depth+1)
		}
	}
	for _, d := range t {
		if d.IsRoot() || !known[*d.ParentID] {
			walk(d, 0)
		}
	}
	return out
}
