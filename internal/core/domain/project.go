package domain

import (
	"encoding/json"
	"time"
)

// UntitledProject is the name given to new projects.
const UntitledProject = "Untitled Project"

// ProjectMeta is the listing entry for a project.
type ProjectMeta struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	// Cover is a data URI or empty.
	Cover string `json:"cover"`

	// LastModified is unix milliseconds.
	LastModified int64 `json:"lastModified"`
}

// Modified returns LastModified as a time.
func (p ProjectMeta) Modified() time.Time {
	return time.UnixMilli(p.LastModified)
}

// Touch sets LastModified to t.
func (p *ProjectMeta) Touch(t time.Time) {
	p.LastModified = t.UnixMilli()
}

// ProjectContent is everything a project holds. It is always loaded and
// saved as one unit.
type ProjectContent struct {
	Whiteboard Whiteboard   `json:"brainstorm"`
	Members    []TeamMember `json:"members"`
	Todos      []TodoItem   `json:"todos"`
	Docs       DocTree      `json:"docs"`
	UIMock     UIMock       `json:"ui"`
}

// NewProjectContent returns empty content with every collection allocated.
func NewProjectContent() *ProjectContent {
	c := &ProjectContent{}
	c.Normalize()
	return c
}

// Normalize defaults every optional field so callers never see nil
// collections. It is the tolerant half of loading older stores.
func (c *ProjectContent) Normalize() {
	if c.Whiteboard.Nodes == nil {
		c.Whiteboard.Nodes = []Node{}
	}
	if c.Whiteboard.Edges == nil {
		c.Whiteboard.Edges = []Edge{}
	}
	for i := range c.Whiteboard.Nodes {
		if !c.Whiteboard.Nodes[i].Kind.IsValid() {
			c.Whiteboard.Nodes[i].Kind = NodeText
		}
	}
	if c.Members == nil {
		c.Members = []TeamMember{}
	}
	if c.Todos == nil {
		c.Todos = []TodoItem{}
	}
	if c.Docs == nil {
		c.Docs = DocTree{}
	}
	if c.UIMock.Pages == nil {
		c.UIMock.Pages = []Page{}
	}
	if c.UIMock.Assets == nil {
		c.UIMock.Assets = []Asset{}
	}
	for i := range c.UIMock.Pages {
		p := &c.UIMock.Pages[i]
		if !p.Kind.IsValid() {
			p.Kind = PageScreen
		}
		if p.Components == nil {
			p.Components = []Component{}
		}
		for j := range p.Components {
			comp := &p.Components[j]
			if comp.ZIndex == 0 {
				comp.ZIndex = 1
			}
			if comp.Scale == 0 {
				comp.Scale = 1
			}
			comp.Interaction.Normalize()
		}
	}
}

// Clone returns a deep copy.
func (c *ProjectContent) Clone() *ProjectContent {
	b, err := json.Marshal(c)
	if err != nil {
		return NewProjectContent()
	}
	out := &ProjectContent{}
	if err := json.Unmarshal(b, out); err != nil {
		return NewProjectContent()
	}
	out.Normalize()
	return out
}

// Store is the whole persisted state: every project and its content.
type Store struct {
	Projects []ProjectMeta              `json:"projects"`
	Contents map[string]*ProjectContent `json:"contents"`
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{Projects: []ProjectMeta{}, Contents: map[string]*ProjectContent{}}
}

// Normalize gives every listed project content and drops content whose
// project no longer exists.
func (s *Store) Normalize() {
	if s.Projects == nil {
		s.Projects = []ProjectMeta{}
	}
	if s.Contents == nil {
		s.Contents = map[string]*ProjectContent{}
	}
	listed := make(map[string]bool, len(s.Projects))
	for _, p := range s.Projects {
		listed[p.ID] = true
		c, ok := s.Contents[p.ID]
		if !ok || c == nil {
			s.Contents[p.ID] = NewProjectContent()
			continue
		}
		c.Normalize()
	}
	for id := range s.Contents {
		if !listed[id] {
			delete(s.Contents, id)
		}
	}
}

// Project returns a pointer to the meta with id, or nil.
func (s *Store) Project(id string) *ProjectMeta {
	for i := range s.Projects {
		if s.Projects[i].ID == id {
			return &s.Projects[i]
		}
	}
	return nil
}

// Content returns the content for id, creating an empty one if missing.
func (s *Store) Content(id string) *ProjectContent {
	if s.Contents == nil {
		s.Contents = map[string]*ProjectContent{}
	}
	c, ok := s.Contents[id]
	if !ok || c == nil {
		c = NewProjectContent()
		s.Contents[id] = c
	}
	return c
}

// Remove deletes a project and its content.
func (s *Store) Remove(id string) bool {
	for i := range s.Projects {
		if s.Projects[i].ID == id {
			s.Projects = append(s.Projects[:i], s.Projects[i+1:]...)
			delete(s.Contents, id)
			return true
		}
	}
	return false
}

// Clone returns a deep copy.
func (s *Store) Clone() *Store {
	out := &Store{
		Projects: make([]ProjectMeta, len(s.Projects)),
		Contents: make(map[string]*ProjectContent, len(s.Contents)),
	}
	copy(out.Projects, s.Projects)
	for id, c := range s.Contents {
		if c != nil {
			out.Contents[id] = c.Clone()
		}
	}
	return out
}
