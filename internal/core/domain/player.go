package domain

import "sort"

// DefaultGlobals returns the variable table a prototype run starts with.
func DefaultGlobals() map[string]float64 {
	return map[string]float64{"HP": 100, "GOLD": 0, "KEY": 0}
}

// Player runs a UI mock interactively. It is runtime state only and is
// never persisted. A Player is not safe for concurrent use.
type Player struct {
	mock    *UIMock
	pageID  string
	modalID string
	vars    map[string]float64
	toggled map[string]bool // component id -> on; toggles start off
}

// NewPlayer starts at the mock's start page, or its first page.
func NewPlayer(mock *UIMock) *Player {
	p := &Player{
		mock:    mock,
		vars:    DefaultGlobals(),
		toggled: map[string]bool{},
	}
	if mock.Page(mock.StartPageID) != nil {
		p.pageID = mock.StartPageID
	} else if len(mock.Pages) > 0 {
		p.pageID = mock.Pages[0].ID
	}
	return p
}

// Start jumps to pageID and clears any modal.
func (p *Player) Start(pageID string) error {
	if p.mock.Page(pageID) == nil {
		return ErrNotFound
	}
	p.pageID = pageID
	p.modalID = ""
	return nil
}

// PageID returns the active page.
func (p *Player) PageID() string { return p.pageID }

// ModalID returns the open modal, or empty.
func (p *Player) ModalID() string { return p.modalID }

// Vars returns a copy of the variable table.
func (p *Player) Vars() map[string]float64 {
	out := make(map[string]float64, len(p.vars))
	for k, v := range p.vars {
		out[k] = v
	}
	return out
}

// ClickResult reports what a click did.
type ClickResult struct {
	Kind    InteractionKind
	Changed bool
}

// find locates a clickable component, looking in the modal first.
func (p *Player) find(componentID string) *Component {
	for _, id := range []string{p.modalID, p.pageID} {
		if id == "" {
			continue
		}
		if page := p.mock.Page(id); page != nil {
			if c := page.Component(componentID); c != nil {
				return c
			}
		}
	}
	return nil
}

// Click activates a component on the active page or modal.
// Hidden components ignore clicks. Targets that no longer exist are
// ignored rather than reported.
func (p *Player) Click(componentID string) (ClickResult, error) {
	c := p.find(componentID)
	if c == nil {
		return ClickResult{}, ErrNotFound
	}
	in := c.Interaction
	res := ClickResult{Kind: in.Kind}
	if !c.State.Visible {
		return res, nil
	}

	switch in.Kind {
	case InteractionNavigate:
		res.Changed = p.navigate(in.TargetPageID)
	case InteractionOpenModal:
		if p.mock.Page(in.TargetPageID) != nil {
			p.modalID = in.TargetPageID
			res.Changed = true
		}
	case InteractionCloseModal, InteractionBack:
		if p.modalID != "" {
			p.modalID = ""
			res.Changed = true
		}
	case InteractionToggle:
		p.toggled[c.ID] = !p.toggled[c.ID]
		res.Changed = true
	case InteractionIncrement:
		p.vars[in.Counter()]++
		res.Changed = true
	case InteractionCondition:
		if in.Satisfied(p.vars) {
			res.Changed = p.navigate(in.TargetPageID)
		}
	}
	return res, nil
}

func (p *Player) navigate(target string) bool {
	if target == "" || p.mock.Page(target) == nil {
		return false
	}
	p.pageID = target
	p.modalID = ""
	return true
}

// RenderedComponent is a component resolved for display.
type RenderedComponent struct {
	Component

	// Asset is the resolved sprite; nil for non-sprites and misses.
	Asset *Asset

	// Placeholder is set when a sprite's asset is missing. The component
	// is drawn as a marked box showing its name.
	Placeholder bool

	// Dimmed is set for toggles that are off.
	Dimmed bool

	Opacity float64

	// Counter holds the variable value shown on increment buttons.
	Counter *float64
}

// RenderedPage is a page with its visible components in paint order.
type RenderedPage struct {
	ID              string
	Name            string
	Kind            PageKind
	Width           float64
	Height          float64
	BackgroundColor string
	Components      []RenderedComponent
}

// Frame is a snapshot of what the player shows.
type Frame struct {
	Page  *RenderedPage
	Modal *RenderedPage
	Vars  map[string]float64
}

// Frame renders the active page and modal.
func (p *Player) Frame() Frame {
	f := Frame{Vars: p.Vars()}
	if page := p.mock.Page(p.pageID); page != nil {
		f.Page = p.render(page)
	}
	if p.modalID != "" {
		if modal := p.mock.Page(p.modalID); modal != nil {
			f.Modal = p.render(modal)
		}
	}
	return f
}

func (p *Player) render(page *Page) *RenderedPage {
	rp := &RenderedPage{
		ID:              page.ID,
		Name:            page.Name,
		Kind:            page.Kind,
		Width:           page.Width,
		Height:          page.Height,
		BackgroundColor: page.BackgroundColor,
	}
	for _, c := range page.Components {
		if !c.State.Visible {
			continue
		}
		rc := RenderedComponent{Component: c, Opacity: 1}
		if c.State.Disabled {
			rc.Opacity = 0.5
		}
		if c.Kind == ComponentSprite || c.Kind == "" {
			if a, ok := p.mock.ResolveAsset(c.AssetRef); ok {
				rc.Asset = &a
			} else {
				rc.Placeholder = true
			}
		}
		if c.Interaction.Kind == InteractionToggle && !p.toggled[c.ID] {
			rc.Dimmed = true
		}
		if c.Interaction.Kind == InteractionIncrement {
			v := p.vars[c.Interaction.Counter()]
			rc.Counter = &v
		}
		rp.Components = append(rp.Components, rc)
	}
	sort.SliceStable(rp.Components, func(i, j int) bool {
		return rp.Components[i].ZIndex < rp.Components[j].ZIndex
	})
	return rp
}
