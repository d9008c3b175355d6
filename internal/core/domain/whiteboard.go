package domain

import "strings"

// NodeKind identifies what a whiteboard card holds.
type NodeKind string

// Available node kinds.
const (
	NodeText   NodeKind = "text"
	NodeImage  NodeKind = "image"
	NodeStatus NodeKind = "status"
	NodeVideo  NodeKind = "video"
	NodeAudio  NodeKind = "audio"
	NodeLink   NodeKind = "link"
	NodeCode   NodeKind = "code"
	NodeAI     NodeKind = "ai"
)

// AllNodeKinds returns every node kind in menu order.
func AllNodeKinds() []NodeKind {
	return []NodeKind{NodeText, NodeImage, NodeStatus, NodeVideo, NodeAudio, NodeLink, NodeCode, NodeAI}
}

// IsValid returns true if the node kind is recognised.
func (k NodeKind) IsValid() bool {
	switch k {
	case NodeText, NodeImage, NodeStatus, NodeVideo, NodeAudio, NodeLink, NodeCode, NodeAI:
		return true
	default:
		return false
	}
}

// IsTextLike reports whether the kind's content can feed an AI node.
func (k NodeKind) IsTextLike() bool {
	return k == NodeText || k == NodeCode || k == NodeAI
}

// IsMedia reports whether content is an embedded media payload.
func (k NodeKind) IsMedia() bool {
	return k == NodeImage || k == NodeVideo || k == NodeAudio
}

// String returns the string representation.
func (k NodeKind) String() string {
	return string(k)
}

// DefaultSize returns the card size used when none is given.
func (k NodeKind) DefaultSize() Size {
	switch k {
	case NodeText:
		return Size{W: 200, H: 150}
	case NodeAI:
		return Size{W: 300, H: 400}
	case NodeCode:
		return Size{W: 400, H: 300}
	case NodeImage:
		return Size{W: 300, H: 200}
	case NodeStatus:
		return Size{W: 160, H: 50}
	default:
		return Size{W: 250, H: 160}
	}
}

// StatusValues is the cycle order of status cards.
var StatusValues = []string{"used", "unused", "deprecated", "verify", "core"}

// DefaultStatus is the content of a fresh status card.
const DefaultStatus = "unused"

// NextStatus returns the status after current in the cycle. Unknown values
// count as DefaultStatus.
func NextStatus(current string) string {
	idx := -1
	for i, s := range StatusValues {
		if s == current {
			idx = i
			break
		}
	}
	if idx < 0 {
		for i, s := range StatusValues {
			if s == DefaultStatus {
				idx = i
			}
		}
	}
	return StatusValues[(idx+1)%len(StatusValues)]
}

// SizeLimits bounds card resizing.
type SizeLimits struct {
	Min Size
	Max Size
}

// DefaultSizeLimits returns the stock resize bounds.
func DefaultSizeLimits() SizeLimits {
	return SizeLimits{Min: Size{W: 100, H: 50}, Max: Size{W: 800, H: 800}}
}

// Node is a card on the whiteboard.
type Node struct {
	ID       string   `json:"id"`
	Kind     NodeKind `json:"type"`
	Content  string   `json:"content"`
	Position Point    `json:"position"`
	Size     *Size    `json:"size,omitempty"`
}

// EffectiveSize returns the stored size or the kind's default.
func (n Node) EffectiveSize() Size {
	if n.Size != nil {
		return *n.Size
	}
	return n.Kind.DefaultSize()
}

// Bounds returns the node's world-space rectangle.
func (n Node) Bounds() Rect {
	s := n.EffectiveSize()
	return Rect{X: n.Position.X, Y: n.Position.Y, W: s.W, H: s.H}
}

// Edge connects two nodes. Start and End carry no meaning beyond the
// direction used for AI inputs.
type Edge struct {
	ID          string `json:"id"`
	StartNodeID string `json:"start"`
	EndNodeID   string `json:"end"`
}

// Touches reports whether the edge is incident to nodeID.
func (e Edge) Touches(nodeID string) bool {
	return e.StartNodeID == nodeID || e.EndNodeID == nodeID
}

// Joins reports whether the edge connects a and b in either direction.
func (e Edge) Joins(a, b string) bool {
	return (e.StartNodeID == a && e.EndNodeID == b) || (e.StartNodeID == b && e.EndNodeID == a)
}

// Whiteboard is the brainstorm canvas of a project.
type Whiteboard struct {
	Nodes    []Node    `json:"items"`
	Edges    []Edge    `json:"connections"`
	Viewport *Viewport `json:"viewport,omitempty"`
}

// View returns the board viewport, or an identity one when unset.
func (w *Whiteboard) View() Viewport {
	if w.Viewport == nil {
		return NewViewport(DefaultViewportWidth, DefaultViewportHeight)
	}
	return *w.Viewport
}

// SetView stores v as the board viewport.
func (w *Whiteboard) SetView(v Viewport) {
	w.Viewport = &v
}

// Node returns a pointer to the node with id, or nil.
func (w *Whiteboard) Node(id string) *Node {
	for i := range w.Nodes {
		if w.Nodes[i].ID == id {
			return &w.Nodes[i]
		}
	}
	return nil
}

// AddNode appends n. Its size defaults from the kind table.
func (w *Whiteboard) AddNode(n Node) Node {
	if n.Size == nil {
		s := n.Kind.DefaultSize()
		n.Size = &s
	}
	w.Nodes = append(w.Nodes, n)
	return n
}

// MoveNode replaces the node's position.
func (w *Whiteboard) MoveNode(id string, p Point) error {
	if err := requireFinite("position", p.Finite()); err != nil {
		return err
	}
	n := w.Node(id)
	if n == nil {
		return ErrNotFound
	}
	n.Position = p
	return nil
}

// ResizeNode sets the node size clamped to limits and returns the size
// actually applied.
func (w *Whiteboard) ResizeNode(id string, s Size, limits SizeLimits) (Size, error) {
	if err := requireFinite("size", s.Finite()); err != nil {
		return Size{}, err
	}
	n := w.Node(id)
	if n == nil {
		return Size{}, ErrNotFound
	}
	applied := s.Clamp(limits.Min, limits.Max)
	n.Size = &applied
	return applied, nil
}

// SetContent replaces the node's content.
func (w *Whiteboard) SetContent(id, content string) error {
	n := w.Node(id)
	if n == nil {
		return ErrNotFound
	}
	n.Content = content
	return nil
}

// DeleteNode removes the node and every edge touching it in one step.
// It returns the number of edges removed.
func (w *Whiteboard) DeleteNode(id string) (int, error) {
	idx := -1
	for i := range w.Nodes {
		if w.Nodes[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return 0, ErrNotFound
	}
	w.Nodes = append(w.Nodes[:idx], w.Nodes[idx+1:]...)

	kept := w.Edges[:0]
	removed := 0
	for _, e := range w.Edges {
		if e.Touches(id) {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	w.Edges = kept
	return removed, nil
}

// HasEdge reports whether a and b are already connected.
func (w *Whiteboard) HasEdge(a, b string) bool {
	for _, e := range w.Edges {
		if e.Joins(a, b) {
			return true
		}
	}
	return false
}

// Connect adds an edge a→b with the given id. Self-loops and duplicates of
// an existing unordered pair are no-ops and return false.
func (w *Whiteboard) Connect(edgeID, a, b string) (Edge, bool, error) {
	if a == b {
		return Edge{}, false, nil
	}
	if w.Node(a) == nil || w.Node(b) == nil {
		return Edge{}, false, ErrNotFound
	}
	if w.HasEdge(a, b) {
		return Edge{}, false, nil
	}
	e := Edge{ID: edgeID, StartNodeID: a, EndNodeID: b}
	w.Edges = append(w.Edges, e)
	return e, true, nil
}

// Disconnect removes the edge with edgeID.
func (w *Whiteboard) Disconnect(edgeID string) error {
	for i := range w.Edges {
		if w.Edges[i].ID == edgeID {
			w.Edges = append(w.Edges[:i], w.Edges[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// InputsOf returns, in edge order, the non-empty content of text-like nodes
// with an edge ending at nodeID.
func (w *Whiteboard) InputsOf(nodeID string) []string {
	var inputs []string
	for _, e := range w.Edges {
		if e.EndNodeID != nodeID {
			continue
		}
		src := w.Node(e.StartNodeID)
		if src == nil || !src.Kind.IsTextLike() {
			continue
		}
		if strings.TrimSpace(src.Content) == "" {
			continue
		}
		inputs = append(inputs, src.Content)
	}
	return inputs
}

// EdgeSegment is the drawable geometry of an edge in world space.
type EdgeSegment struct {
	EdgeID string
	From   Point
	To     Point
}

// EdgeGeometry derives edge endpoints from the current node positions.
// Edges whose endpoints are missing are hidden.
func (w *Whiteboard) EdgeGeometry() []EdgeSegment {
	segs := make([]EdgeSegment, 0, len(w.Edges))
	for _, e := range w.Edges {
		a, b := w.Node(e.StartNodeID), w.Node(e.EndNodeID)
		if a == nil || b == nil {
			continue
		}
		segs = append(segs, EdgeSegment{
			EdgeID: e.ID,
			From:   a.Bounds().Center(),
			To:     b.Bounds().Center(),
		})
	}
	return segs
}

// NodeAt returns the topmost node whose bounds contain the world point.
func (w *Whiteboard) NodeAt(p Point) *Node {
	for i := len(w.Nodes) - 1; i >= 0; i-- {
		if w.Nodes[i].Bounds().Contains(p) {
			return &w.Nodes[i]
		}
	}
	return nil
}
