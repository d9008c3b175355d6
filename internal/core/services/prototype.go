package services

import (
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/gplanner/gplan/internal/core/domain"
	"github.com/gplanner/gplan/internal/core/ports/driving"
)

// Ensure PrototypeService implements the interface.
var _ driving.PrototypeService = (*PrototypeService)(nil)

// Placement constants for new components.
const (
	spriteScale     = 2
	spriteBaseZ     = 10
	missingSprite   = 32
	itemZIndex      = 20
	itemWidth       = 200
	itemHeight      = 150
	statusWidth     = 128
	statusHeight    = 40
	customIDLength  = 8
	defaultItemName = "New %s"
)

// PrototypeService edits the UI mock of the open project.
type PrototypeService struct {
	projects driving.ProjectService
	newID    func() string
}

// NewPrototypeService creates a prototype service.
func NewPrototypeService(projects driving.ProjectService) *PrototypeService {
	return &PrototypeService{projects: projects, newID: uuid.NewString}
}

// Presets lists the page presets.
func (s *PrototypeService) Presets() []domain.PagePreset {
	return domain.PagePresets()
}

// Pages returns a copy of every page.
func (s *PrototypeService) Pages() ([]domain.Page, error) {
	var out []domain.Page
	err := s.projects.View(func(c *domain.ProjectContent) error {
		out = make([]domain.Page, len(c.UIMock.Pages))
		for i, p := range c.UIMock.Pages {
			out[i] = copyPage(p)
		}
		return nil
	})
	return out, err
}

// Page returns a copy of one page.
func (s *PrototypeService) Page(id string) (domain.Page, error) {
	var out domain.Page
	err := s.projects.View(func(c *domain.ProjectContent) error {
		p := c.UIMock.Page(id)
		if p == nil {
			return pageErr(id, domain.ErrNotFound)
		}
		out = copyPage(*p)
		return nil
	})
	return out, err
}

// StartPageID returns the page a run starts on.
func (s *PrototypeService) StartPageID() (string, error) {
	var id string
	err := s.projects.View(func(c *domain.ProjectContent) error {
		id = c.UIMock.StartPageID
		return nil
	})
	return id, err
}

// AddPage appends a page sized from a preset and named after it.
func (s *PrototypeService) AddPage(presetID string) (domain.Page, error) {
	preset, ok := domain.FindPagePreset(presetID)
	if !ok {
		return domain.Page{}, domain.NewValidationError("preset", "unknown preset %q", presetID)
	}
	var page domain.Page
	err := s.projects.Mutate(func(c *domain.ProjectContent) error {
		page = domain.Page{
			ID:              s.newID(),
			Name:            fmt.Sprintf("%s %d", preset.Label, len(c.UIMock.Pages)+1),
			Kind:            preset.Kind,
			Width:           preset.Width,
			Height:          preset.Height,
			BackgroundColor: preset.Kind.BackgroundColor(),
			Components:      []domain.Component{},
		}
		c.UIMock.Pages = append(c.UIMock.Pages, page)
		return nil
	})
	if err != nil {
		return domain.Page{}, err
	}
	return page, nil
}

// RenamePage sets a page name.
func (s *PrototypeService) RenamePage(id, name string) error {
	return s.editPage(id, func(_ *domain.UIMock, p *domain.Page) error {
		p.Name = name
		return nil
	})
}

// DeletePage removes a page. Interactions targeting it are kept and
// become no-ops; a start page pointing at it is cleared.
func (s *PrototypeService) DeletePage(id string) error {
	return s.projects.Mutate(func(c *domain.ProjectContent) error {
		for i := range c.UIMock.Pages {
			if c.UIMock.Pages[i].ID == id {
				c.UIMock.Pages = append(c.UIMock.Pages[:i], c.UIMock.Pages[i+1:]...)
				if c.UIMock.StartPageID == id {
					c.UIMock.StartPageID = ""
				}
				return nil
			}
		}
		return pageErr(id, domain.ErrNotFound)
	})
}

// SetStartPage marks the page a run starts on.
func (s *PrototypeService) SetStartPage(id string) error {
	return s.editPage(id, func(u *domain.UIMock, _ *domain.Page) error {
		u.StartPageID = id
		return nil
	})
}

// AddComponent drops a sprite centred on at, or on the page centre.
// The sprite is drawn at twice the size of its slice. Unknown assets are
// accepted and rendered as placeholders.
func (s *PrototypeService) AddComponent(pageID, assetRef string, at *domain.Point) (domain.Component, error) {
	if at != nil && !at.Finite() {
		return domain.Component{}, domain.NewValidationError("position", "must be a finite number")
	}
	var comp domain.Component
	err := s.editPage(pageID, func(u *domain.UIMock, p *domain.Page) error {
		name := assetRef
		w, h := float64(missingSprite), float64(missingSprite)
		if a, ok := u.ResolveAsset(assetRef); ok {
			name = a.Label
			w, h = a.W*spriteScale, a.H*spriteScale
		}
		center := domain.Point{X: p.Width / 2, Y: p.Height / 2}
		if at != nil {
			center = *at
		}
		comp = newComponent(s.newID(), name, domain.ComponentSprite)
		comp.AssetRef = assetRef
		comp.X, comp.Y = center.X-w/2, center.Y-h/2
		comp.Width, comp.Height = w, h
		comp.ZIndex = len(p.Components) + spriteBaseZ
		p.Components = append(p.Components, comp)
		return nil
	})
	if err != nil {
		return domain.Component{}, err
	}
	return comp, nil
}

// AddItem places a text, status or media component near the page centre.
// Media kinds store content as their source; the others as text.
func (s *PrototypeService) AddItem(pageID string, kind domain.ComponentKind, content string) (domain.Component, error) {
	if !kind.IsValid() {
		return domain.Component{}, fmt.Errorf("component kind %q: %w", kind, domain.ErrUnsupportedType)
	}
	var comp domain.Component
	err := s.editPage(pageID, func(_ *domain.UIMock, p *domain.Page) error {
		comp = newComponent(s.newID(), fmt.Sprintf(defaultItemName, kind), kind)
		if kind.IsMedia() {
			comp.AssetRef = content
		} else {
			comp.Text = content
		}
		comp.X, comp.Y = p.Width/2-100, p.Height/2-50
		comp.Width, comp.Height = itemWidth, itemHeight
		if kind == domain.ComponentStatus {
			comp.Width, comp.Height = statusWidth, statusHeight
		}
		comp.ZIndex = itemZIndex
		p.Components = append(p.Components, comp)
		return nil
	})
	if err != nil {
		return domain.Component{}, err
	}
	return comp, nil
}

// MoveComponent sets a component's top-left corner.
func (s *PrototypeService) MoveComponent(pageID, componentID string, pos domain.Point) error {
	if !pos.Finite() {
		return domain.NewValidationError("position", "must be a finite number")
	}
	return s.editComponent(pageID, componentID, func(c *domain.Component) error {
		c.X, c.Y = pos.X, pos.Y
		return nil
	})
}

// UpdateComponent applies the non-nil fields of patch.
func (s *PrototypeService) UpdateComponent(pageID, componentID string, patch driving.ComponentPatch) error {
	if patch.Size != nil && (!patch.Size.Finite() || patch.Size.W <= 0 || patch.Size.H <= 0) {
		return domain.NewValidationError("size", "must be positive")
	}
	if patch.Scale != nil && (!(*patch.Scale > 0) || math.IsInf(*patch.Scale, 0)) {
		return domain.NewValidationError("scale", "must be positive")
	}
	return s.editComponent(pageID, componentID, func(c *domain.Component) error {
		if patch.Name != nil {
			c.Name = *patch.Name
		}
		if patch.Text != nil {
			c.Text = *patch.Text
		}
		if patch.Size != nil {
			c.Width, c.Height = patch.Size.W, patch.Size.H
		}
		if patch.ZIndex != nil {
			c.ZIndex = *patch.ZIndex
		}
		if patch.Scale != nil {
			c.Scale = *patch.Scale
		}
		if patch.State != nil {
			c.State = *patch.State
		}
		return nil
	})
}

// DeleteComponent removes a component from a page.
func (s *PrototypeService) DeleteComponent(pageID, componentID string) error {
	return s.editPage(pageID, func(_ *domain.UIMock, p *domain.Page) error {
		for i := range p.Components {
			if p.Components[i].ID == componentID {
				p.Components = append(p.Components[:i], p.Components[i+1:]...)
				return nil
			}
		}
		return componentErr(componentID, domain.ErrNotFound)
	})
}

// SetInteraction validates and stores a component's click behaviour.
// Targets are not required to exist; a missing page is a no-op at run time.
func (s *PrototypeService) SetInteraction(pageID, componentID string, kind domain.InteractionKind, target, param string) error {
	in, err := domain.NewInteraction(kind, target, param)
	if err != nil {
		return err
	}
	if kind.NeedsTarget() && target == "" {
		return domain.NewValidationError("target", "%s needs a target page", kind)
	}
	return s.editComponent(pageID, componentID, func(c *domain.Component) error {
		c.Interaction = in
		return nil
	})
}

// AddAsset stores a custom sprite slice cut from source.
func (s *PrototypeService) AddAsset(label, source string, slice domain.Rect) (domain.Asset, error) {
	if source == "" {
		return domain.Asset{}, domain.NewValidationError("source", "must not be empty")
	}
	if !slice.Finite() || slice.W <= 0 || slice.H <= 0 {
		return domain.Asset{}, domain.NewValidationError("slice", "must have a positive size")
	}
	label = strings.TrimSpace(label)
	asset := domain.Asset{
		ID:     domain.CustomAssetPrefix + shortID(s.newID()),
		Label:  label,
		Source: source,
		Rect:   slice,
	}
	if asset.Label == "" {
		asset.Label = asset.ID
	}
	err := s.projects.Mutate(func(c *domain.ProjectContent) error {
		c.UIMock.Assets = append(c.UIMock.Assets, asset)
		return nil
	})
	if err != nil {
		return domain.Asset{}, err
	}
	return asset, nil
}

// Assets returns built-in assets followed by custom ones.
func (s *PrototypeService) Assets() ([]domain.Asset, error) {
	var out []domain.Asset
	err := s.projects.View(func(c *domain.ProjectContent) error {
		out = c.UIMock.Catalog()
		return nil
	})
	return out, err
}

// Play starts a player over a snapshot of the mock. Later edits do not
// affect a running player.
func (s *PrototypeService) Play() (*domain.Player, error) {
	var snapshot *domain.ProjectContent
	err := s.projects.View(func(c *domain.ProjectContent) error {
		snapshot = c.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return domain.NewPlayer(&snapshot.UIMock), nil
}

func (s *PrototypeService) editPage(id string, fn func(*domain.UIMock, *domain.Page) error) error {
	return s.projects.Mutate(func(c *domain.ProjectContent) error {
		p := c.UIMock.Page(id)
		if p == nil {
			return pageErr(id, domain.ErrNotFound)
		}
		return fn(&c.UIMock, p)
	})
}

func (s *PrototypeService) editComponent(pageID, componentID string, fn func(*domain.Component) error) error {
	return s.editPage(pageID, func(_ *domain.UIMock, p *domain.Page) error {
		c := p.Component(componentID)
		if c == nil {
			return componentErr(componentID, domain.ErrNotFound)
		}
		return fn(c)
	})
}

func newComponent(id, name string, kind domain.ComponentKind) domain.Component {
	return domain.Component{
		ID:          id,
		Name:        name,
		Kind:        kind,
		Scale:       1,
		State:       domain.VisualState{Visible: true},
		Interaction: domain.Interaction{Kind: domain.InteractionNone},
	}
}

func copyPage(p domain.Page) domain.Page {
	p.Components = append([]domain.Component(nil), p.Components...)
	return p
}

func shortID(id string) string {
	id = strings.ReplaceAll(id, "-", "")
	if len(id) > customIDLength {
		return id[:customIDLength]
	}
	return id
}

func pageErr(id string, err error) error {
	return fmt.Errorf("page %s: %w", id, err)
}

func componentErr(id string, err error) error {
	return fmt.Errorf("component %s: %w", id, err)
}
