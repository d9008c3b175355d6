package services

import (
	"fmt"
	"math"
	"sync"

	"github.com/google/uuid"

	"github.com/gplanner/gplan/internal/core/domain"
	"github.com/gplanner/gplan/internal/core/ports/driving"
	"github.com/gplanner/gplan/internal/logger"
)

// Ensure BoardService implements the interface.
var _ driving.BoardService = (*BoardService)(nil)

// mediaCardSize is the size given to ingested media.
var mediaCardSize = domain.Size{W: 300, H: 200}

// BoardService edits the open project's whiteboard.
type BoardService struct {
	projects driving.ProjectService
	newID    func() string

	mu      sync.Mutex
	limits  domain.SizeLimits
	gesture domain.ConnectGesture

	// gestureProject is the project the gesture was started in.
	gestureProject string
}

// NewBoardService creates a board service over the workspace.
func NewBoardService(projects driving.ProjectService, limits domain.SizeLimits) *BoardService {
	return &BoardService{
		projects: projects,
		newID:    uuid.NewString,
		limits:   limits,
	}
}

// SetLimits changes the resize bounds.
func (s *BoardService) SetLimits(limits domain.SizeLimits) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.limits = limits
}

// Nodes returns a copy of the cards.
func (s *BoardService) Nodes() ([]domain.Node, error) {
	var out []domain.Node
	err := s.projects.View(func(c *domain.ProjectContent) error {
		out = make([]domain.Node, len(c.Whiteboard.Nodes))
		copy(out, c.Whiteboard.Nodes)
		return nil
	})
	return out, err
}

// Connections returns a copy of the stored edges.
func (s *BoardService) Connections() ([]domain.Edge, error) {
	var out []domain.Edge
	err := s.projects.View(func(c *domain.ProjectContent) error {
		out = make([]domain.Edge, len(c.Whiteboard.Edges))
		copy(out, c.Whiteboard.Edges)
		return nil
	})
	return out, err
}

// Edges recomputes edge geometry from the current node positions.
func (s *BoardService) Edges() ([]domain.EdgeSegment, error) {
	var out []domain.EdgeSegment
	err := s.projects.View(func(c *domain.ProjectContent) error {
		out = c.Whiteboard.EdgeGeometry()
		return nil
	})
	return out, err
}

// AddNode creates a card.
func (s *BoardService) AddNode(kind domain.NodeKind, pos *domain.Point, content string) (domain.Node, error) {
	if !kind.IsValid() {
		return domain.Node{}, fmt.Errorf("%w: node kind %q", domain.ErrUnsupportedType, kind)
	}
	if pos != nil && !pos.Finite() {
		return domain.Node{}, domain.NewValidationError("position", "must be a finite number")
	}
	if kind == domain.NodeStatus && content == "" {
		content = domain.DefaultStatus
	}

	var added domain.Node
	err := s.projects.Mutate(func(c *domain.ProjectContent) error {
		p := c.Whiteboard.View().PlacementFor(0)
		if pos != nil {
			p = *pos
		}
		added = c.Whiteboard.AddNode(domain.Node{
			ID:       s.newID(),
			Kind:     kind,
			Content:  content,
			Position: p,
		})
		return nil
	})
	if err != nil {
		return domain.Node{}, err
	}
	logger.Debug("board: added %s card %s", kind, added.ID)
	return added, nil
}

// IngestFiles embeds media files as data URIs. Files that are not image,
// video or audio are skipped; if none qualify a ValidationError is returned.
func (s *BoardService) IngestFiles(files []driving.MediaFile) ([]domain.Node, error) {
	type media struct {
		kind    domain.NodeKind
		content string
	}
	var accepted []media
	for _, f := range files {
		mimeType := SniffMedia(f.Name, f.Data)
		kind, ok := MediaKind(mimeType)
		if !ok {
			logger.Debug("board: skipping %s (%s)", f.Name, mimeType)
			continue
		}
		accepted = append(accepted, media{kind: kind, content: DataURI(mimeType, f.Data)})
	}
	if len(accepted) == 0 {
		return nil, domain.NewValidationError("files", "no image, video or audio files")
	}

	var added []domain.Node
	err := s.projects.Mutate(func(c *domain.ProjectContent) error {
		view := c.Whiteboard.View()
		for i, m := range accepted {
			size := mediaCardSize
			added = append(added, c.Whiteboard.AddNode(domain.Node{
				ID:       s.newID(),
				Kind:     m.kind,
				Content:  m.content,
				Position: view.PlacementFor(i),
				Size:     &size,
			}))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return added, nil
}

// MoveNode replaces a card's position.
func (s *BoardService) MoveNode(id string, pos domain.Point) error {
	return s.projects.Mutate(func(c *domain.ProjectContent) error {
		return wrapNode(id, c.Whiteboard.MoveNode(id, pos))
	})
}

// ResizeNode clamps and applies a size.
func (s *BoardService) ResizeNode(id string, size domain.Size) (domain.Size, error) {
	s.mu.Lock()
	limits := s.limits
	s.mu.Unlock()

	var applied domain.Size
	err := s.projects.Mutate(func(c *domain.ProjectContent) error {
		var err error
		applied, err = c.Whiteboard.ResizeNode(id, size, limits)
		return wrapNode(id, err)
	})
	return applied, err
}

// UpdateContent replaces a card's content.
func (s *BoardService) UpdateContent(id, content string) error {
	return s.projects.Mutate(func(c *domain.ProjectContent) error {
		return wrapNode(id, c.Whiteboard.SetContent(id, content))
	})
}

// CycleStatus advances a status card through the status list.
func (s *BoardService) CycleStatus(id string) (string, error) {
	var next string
	err := s.projects.Mutate(func(c *domain.ProjectContent) error {
		n := c.Whiteboard.Node(id)
		if n == nil {
			return wrapNode(id, domain.ErrNotFound)
		}
		if n.Kind != domain.NodeStatus {
			return domain.NewValidationError("kind", "card %s is a %s card, not a status card", id, n.Kind)
		}
		next = domain.NextStatus(n.Content)
		n.Content = next
		return nil
	})
	return next, err
}

// DeleteNode removes a card and every edge touching it.
func (s *BoardService) DeleteNode(id string) error {
	err := s.projects.Mutate(func(c *domain.ProjectContent) error {
		removed, err := c.Whiteboard.DeleteNode(id)
		if err != nil {
			return wrapNode(id, err)
		}
		logger.Debug("board: deleted card %s and %d edges", id, removed)
		return nil
	})
	if err == nil {
		s.mu.Lock()
		if src, ok := s.gesture.Source(); ok && src == id {
			s.gesture.Cancel()
		}
		s.mu.Unlock()
	}
	return err
}

// Connect links a to b.
func (s *BoardService) Connect(a, b string) (domain.Edge, bool, error) {
	var (
		edge    domain.Edge
		created bool
	)
	err := s.projects.Mutate(func(c *domain.ProjectContent) error {
		var err error
		edge, created, err = c.Whiteboard.Connect(s.newID(), a, b)
		if err != nil {
			return fmt.Errorf("connect %s to %s: %w", a, b, err)
		}
		return nil
	})
	return edge, created, err
}

// Disconnect removes an edge.
func (s *BoardService) Disconnect(edgeID string) error {
	return s.projects.Mutate(func(c *domain.ProjectContent) error {
		if err := c.Whiteboard.Disconnect(edgeID); err != nil {
			return fmt.Errorf("edge %s: %w", edgeID, err)
		}
		return nil
	})
}

// InputsOf returns the text of cards connected into id.
func (s *BoardService) InputsOf(id string) ([]string, error) {
	var inputs []string
	err := s.projects.View(func(c *domain.ProjectContent) error {
		if c.Whiteboard.Node(id) == nil {
			return wrapNode(id, domain.ErrNotFound)
		}
		inputs = c.Whiteboard.InputsOf(id)
		return nil
	})
	return inputs, err
}

// BeginConnect selects the source of a connect gesture.
func (s *BoardService) BeginConnect(sourceID string) error {
	err := s.projects.View(func(c *domain.ProjectContent) error {
		if c.Whiteboard.Node(sourceID) == nil {
			return wrapNode(sourceID, domain.ErrNotFound)
		}
		return nil
	})
	if err != nil {
		return err
	}
	active, _ := s.projects.Active()
	s.mu.Lock()
	s.gesture.Begin(sourceID)
	s.gestureProject = active.ID
	s.mu.Unlock()
	return nil
}

// dropStaleGesture cancels a gesture started in a project that is no
// longer open. Callers hold s.mu.
func (s *BoardService) dropStaleGesture() {
	if _, ok := s.gesture.Source(); !ok {
		return
	}
	if active, _ := s.projects.Active(); active.ID != s.gestureProject {
		logger.Debug("board: project changed, cancelling connect gesture")
		s.gesture.Cancel()
	}
}

// CompleteConnect ends the gesture on targetID. Without an active gesture,
// or on the source itself, nothing is created.
func (s *BoardService) CompleteConnect(targetID string) (domain.Edge, bool, error) {
	s.mu.Lock()
	s.dropStaleGesture()
	from, to, ok := s.gesture.Complete(targetID)
	s.mu.Unlock()
	if !ok {
		return domain.Edge{}, false, nil
	}
	return s.Connect(from, to)
}

// CancelConnect abandons the gesture.
func (s *BoardService) CancelConnect() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gesture.Cancel()
}

// PendingConnect returns the gesture source.
func (s *BoardService) PendingConnect() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dropStaleGesture()
	return s.gesture.Source()
}

// Viewport returns the board's pan/zoom state.
func (s *BoardService) Viewport() (domain.Viewport, error) {
	var v domain.Viewport
	err := s.projects.View(func(c *domain.ProjectContent) error {
		v = c.Whiteboard.View()
		return nil
	})
	return v, err
}

// Pan moves the view by a screen-space delta.
func (s *BoardService) Pan(delta domain.Point) (domain.Viewport, error) {
	if !delta.Finite() {
		return domain.Viewport{}, domain.NewValidationError("delta", "must be a finite number")
	}
	return s.updateView(func(v domain.Viewport) domain.Viewport { return v.Pan(delta) })
}

// ZoomAt zooms around a screen point, keeping it fixed.
func (s *BoardService) ZoomAt(p domain.Point, delta float64) (domain.Viewport, error) {
	if !p.Finite() || math.IsNaN(delta) || math.IsInf(delta, 0) {
		return domain.Viewport{}, domain.NewValidationError("zoom", "must be finite numbers")
	}
	return s.updateView(func(v domain.Viewport) domain.Viewport { return v.ZoomAt(p, delta) })
}

// ResetView restores scale 1 and zero offset.
func (s *BoardService) ResetView() (domain.Viewport, error) {
	return s.updateView(domain.Viewport.Reset)
}

func (s *BoardService) updateView(fn func(domain.Viewport) domain.Viewport) (domain.Viewport, error) {
	var v domain.Viewport
	err := s.projects.Mutate(func(c *domain.ProjectContent) error {
		v = fn(c.Whiteboard.View())
		c.Whiteboard.SetView(v)
		return nil
	})
	return v, err
}

func wrapNode(id string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("card %s: %w", id, err)
}
