package driving

import "github.com/gplanner/gplan/internal/core/domain"

// MediaFile is a dropped or selected file.
type MediaFile struct {
	Name string
	Data []byte
}

// BoardService edits the open project's whiteboard.
type BoardService interface {
	// Nodes returns the cards in paint order.
	Nodes() ([]domain.Node, error)

	// Connections returns the stored edges.
	Connections() ([]domain.Edge, error)

	// Edges returns edge geometry derived from current node positions.
	Edges() ([]domain.EdgeSegment, error)

	// AddNode creates a card. A nil position places it at the visible centre.
	AddNode(kind domain.NodeKind, pos *domain.Point, content string) (domain.Node, error)

	// IngestFiles turns media files into image, video or audio cards,
	// staggered around the visible centre.
	IngestFiles(files []MediaFile) ([]domain.Node, error)

	// MoveNode replaces a card's position.
	MoveNode(id string, pos domain.Point) error

	// ResizeNode sets a card's size within the configured limits and
	// returns the size applied.
	ResizeNode(id string, size domain.Size) (domain.Size, error)

	// UpdateContent replaces a card's content.
	UpdateContent(id, content string) error

	// CycleStatus advances a status card and returns the new value.
	CycleStatus(id string) (string, error)

	// DeleteNode removes a card and its edges.
	DeleteNode(id string) error

	// Connect links two cards. created is false for self-links and
	// duplicates.
	Connect(a, b string) (edge domain.Edge, created bool, err error)

	// Disconnect removes an edge.
	Disconnect(edgeID string) error

	// InputsOf returns the text fed into a card.
	InputsOf(id string) ([]string, error)

	// BeginConnect starts a connect gesture from sourceID.
	BeginConnect(sourceID string) error

	// CompleteConnect finishes the gesture on targetID.
	CompleteConnect(targetID string) (domain.Edge, bool, error)

	// CancelConnect abandons the gesture.
	CancelConnect()

	// PendingConnect returns the gesture source, if any.
	PendingConnect() (string, bool)

	// Viewport returns the board's pan/zoom state.
	Viewport() (domain.Viewport, error)

	// Pan moves the view by a screen delta.
	Pan(delta domain.Point) (domain.Viewport, error)

	// ZoomAt zooms around a screen point.
	ZoomAt(p domain.Point, delta float64) (domain.Viewport, error)

	// ResetView restores scale 1 and zero offset.
	ResetView() (domain.Viewport, error)
}
