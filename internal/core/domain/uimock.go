package domain

import (
	"bytes"
	"encoding/json"
	"strings"
)

// PageKind is the layout role of a mock page.
type PageKind string

// Available page kinds.
const (
	PageScreen      PageKind = "screen"
	PageModalCenter PageKind = "modal_center"
	PageModalBottom PageKind = "modal_bottom"
	PageSidebar     PageKind = "sidebar_left"
	PageToast       PageKind = "toast"
)

// IsValid returns true if the page kind is recognised.
func (k PageKind) IsValid() bool {
	switch k {
	case PageScreen, PageModalCenter, PageModalBottom, PageSidebar, PageToast:
		return true
	default:
		return false
	}
}

// IsModal reports whether pages of this kind overlay another page.
func (k PageKind) IsModal() bool {
	return strings.Contains(string(k), "modal")
}

// BackgroundColor returns the default background for new pages.
func (k PageKind) BackgroundColor() string {
	if k.IsModal() {
		return "#2a2a2a"
	}
	return "#1e1e1e"
}

// PagePreset is a canned page size.
type PagePreset struct {
	ID     string
	Label  string
	Kind   PageKind
	Width  float64
	Height float64
}

var pagePresets = []PagePreset{
	{ID: "pc", Label: "PC", Kind: PageScreen, Width: 1280, Height: 720},
	{ID: "iphone", Label: "iPhone", Kind: PageScreen, Width: 390, Height: 844},
	{ID: "tablet", Label: "Tablet", Kind: PageScreen, Width: 1024, Height: 768},
	{ID: "modal", Label: "Modal", Kind: PageModalCenter, Width: 500, Height: 400},
	{ID: "drawer", Label: "Bottom Drawer", Kind: PageModalBottom, Width: 390, Height: 300},
	{ID: "sidebar", Label: "Sidebar", Kind: PageSidebar, Width: 300, Height: 720},
	{ID: "toast", Label: "Toast", Kind: PageToast, Width: 200, Height: 60},
}

// PagePresets returns the available page presets.
func PagePresets() []PagePreset {
	out := make([]PagePreset, len(pagePresets))
	copy(out, pagePresets)
	return out
}

// FindPagePreset looks up a preset by id.
func FindPagePreset(id string) (PagePreset, bool) {
	for _, p := range pagePresets {
		if p.ID == id {
			return p, true
		}
	}
	return PagePreset{}, false
}

// ComponentKind is what a mock component renders.
type ComponentKind string

// Available component kinds.
const (
	ComponentSprite ComponentKind = "sprite"
	ComponentText   ComponentKind = "text"
	ComponentImage  ComponentKind = "image"
	ComponentVideo  ComponentKind = "video"
	ComponentAudio  ComponentKind = "audio"
	ComponentStatus ComponentKind = "status"
)

// IsValid returns true if the component kind is recognised.
func (k ComponentKind) IsValid() bool {
	switch k {
	case ComponentSprite, ComponentText, ComponentImage, ComponentVideo, ComponentAudio, ComponentStatus:
		return true
	default:
		return false
	}
}

// IsMedia reports whether the component carries its payload in AssetRef.
func (k ComponentKind) IsMedia() bool {
	switch k {
	case ComponentSprite, ComponentImage, ComponentVideo, ComponentAudio:
		return true
	default:
		return false
	}
}

// InteractionKind selects what a click on a component does.
type InteractionKind string

// Available interaction kinds.
const (
	InteractionNone       InteractionKind = "none"
	InteractionNavigate   InteractionKind = "navigate"
	InteractionOpenModal  InteractionKind = "open_modal"
	InteractionCloseModal InteractionKind = "close_modal"
	InteractionBack       InteractionKind = "back"
	InteractionToggle     InteractionKind = "toggle"
	InteractionIncrement  InteractionKind = "increment"
	InteractionCondition  InteractionKind = "trigger_cond"
)

// IsValid returns true if the interaction kind is recognised.
func (k InteractionKind) IsValid() bool {
	switch k {
	case InteractionNone, InteractionNavigate, InteractionOpenModal, InteractionCloseModal,
		InteractionBack, InteractionToggle, InteractionIncrement, InteractionCondition:
		return true
	default:
		return false
	}
}

// NeedsTarget reports whether the kind requires a target page.
func (k InteractionKind) NeedsTarget() bool {
	return k == InteractionNavigate || k == InteractionOpenModal || k == InteractionCondition
}

// DefaultCounter is the variable incremented when none is named.
const DefaultCounter = "VAR"

// Interaction is the click behaviour of a component. Param holds the
// counter name for increment and the condition source for trigger_cond.
type Interaction struct {
	Kind         InteractionKind `json:"type"`
	TargetPageID string          `json:"targetId,omitempty"`
	Param        string          `json:"param,omitempty"`

	// Condition is parsed from Param for trigger_cond. Nil with a
	// non-empty Param means the expression was malformed.
	Condition *Condition `json:"-"`
}

// NewInteraction builds an interaction, parsing the condition once.
func NewInteraction(kind InteractionKind, target, param string) (Interaction, error) {
	if !kind.IsValid() {
		return Interaction{}, NewValidationError("interaction", "unknown kind %q", kind)
	}
	in := Interaction{Kind: kind, TargetPageID: target, Param: strings.TrimSpace(param)}
	if kind == InteractionCondition && in.Param != "" {
		c, err := ParseCondition(in.Param)
		if err != nil {
			return Interaction{}, err
		}
		in.Condition = &c
	}
	return in, nil
}

// Normalize defaults the kind and re-derives the parsed condition.
// Malformed stored conditions leave Condition nil.
func (in *Interaction) Normalize() {
	if in.Kind == "" {
		in.Kind = InteractionNone
	}
	in.Condition = nil
	if in.Kind == InteractionCondition && strings.TrimSpace(in.Param) != "" {
		if c, err := ParseCondition(in.Param); err == nil {
			in.Condition = &c
		}
	}
}

// Counter returns the variable an increment interaction updates.
func (in Interaction) Counter() string {
	if in.Param == "" {
		return DefaultCounter
	}
	return in.Param
}

// Satisfied evaluates a trigger_cond interaction. An empty expression is
// always satisfied; a malformed one never is.
func (in Interaction) Satisfied(vars map[string]float64) bool {
	if strings.TrimSpace(in.Param) == "" {
		return true
	}
	if in.Condition == nil {
		return false
	}
	return in.Condition.Eval(vars)
}

// VisualState holds a component's display flags.
type VisualState struct {
	Visible  bool `json:"isVisible"`
	Active   bool `json:"isActive"`
	Disabled bool `json:"isDisabled"`
}

// UnmarshalJSON treats a missing isVisible as true.
func (s *VisualState) UnmarshalJSON(b []byte) error {
	type plain VisualState
	p := plain{Visible: true}
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*s = VisualState(p)
	return nil
}

// Component is an absolutely positioned element on a page. AssetRef is a
// weak reference into the asset catalog for sprites, or a data URI for
// other media.
type Component struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Kind        ComponentKind `json:"type"`
	AssetRef    string        `json:"src,omitempty"`
	Text        string        `json:"text,omitempty"`
	X           float64       `json:"x"`
	Y           float64       `json:"y"`
	Width       float64       `json:"width"`
	Height      float64       `json:"height"`
	ZIndex      int           `json:"zIndex"`
	Scale       float64       `json:"customScale"`
	State       VisualState   `json:"state"`
	Interaction Interaction   `json:"interaction"`
}

// UnmarshalJSON fills defaults for fields older stores omitted.
func (c *Component) UnmarshalJSON(b []byte) error {
	type plain Component
	p := plain{
		ZIndex:      1,
		Scale:       1,
		State:       VisualState{Visible: true},
		Interaction: Interaction{Kind: InteractionNone},
	}
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*c = Component(p)
	c.Interaction.Normalize()
	return nil
}

// Position returns the component's top-left corner.
func (c Component) Position() Point {
	return Point{X: c.X, Y: c.Y}
}

// Bounds returns the component's rectangle in page coordinates.
func (c Component) Bounds() Rect {
	return Rect{X: c.X, Y: c.Y, W: c.Width, H: c.Height}
}

// Page is one screen or overlay of the mockup.
type Page struct {
	ID              string      `json:"id"`
	Name            string      `json:"name"`
	Kind            PageKind    `json:"type"`
	Width           float64     `json:"width"`
	Height          float64     `json:"height"`
	BackgroundColor string      `json:"backgroundColor"`
	Components      []Component `json:"components"`
}

// UnmarshalJSON defaults a missing page kind to screen.
func (p *Page) UnmarshalJSON(b []byte) error {
	type plain Page
	v := plain{Kind: PageScreen}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	if !v.Kind.IsValid() {
		v.Kind = PageScreen
	}
	if v.Components == nil {
		v.Components = []Component{}
	}
	*p = Page(v)
	return nil
}

// Component returns a pointer to the component with id, or nil.
func (p *Page) Component(id string) *Component {
	for i := range p.Components {
		if p.Components[i].ID == id {
			return &p.Components[i]
		}
	}
	return nil
}

// Asset is a sprite slice. Source is the sheet image; empty means the
// built-in sheet.
type Asset struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Source string `json:"imageUrl,omitempty"`
	Rect
}

// CustomAssetPrefix starts every user-defined asset id.
const CustomAssetPrefix = "custom_"

var builtinAssets = []Asset{
	{ID: "btn_blue_normal", Label: "Blue Button", Rect: Rect{X: 0, Y: 16, W: 16, H: 16}},
	{ID: "btn_red_normal", Label: "Red Button", Rect: Rect{X: 50, Y: 0, W: 48, H: 16}},
	{ID: "panel_bg", Label: "Panel", Rect: Rect{X: 0, Y: 32, W: 96, H: 96}},
	{ID: "bar_empty", Label: "Bar Empty", Rect: Rect{X: 100, Y: 0, W: 64, H: 10}},
	{ID: "bar_full", Label: "Bar Full", Rect: Rect{X: 100, Y: 12, W: 64, H: 10}},
	{ID: "Play", Label: "Play", Rect: Rect{X: 160, Y: 16, W: 115, H: 33}},
	{ID: "setting", Label: "Settings", Rect: Rect{X: 128, Y: 16, W: 16, H: 16}},
}

// BuiltinAssets returns the stock sprite catalog.
func BuiltinAssets() []Asset {
	out := make([]Asset, len(builtinAssets))
	copy(out, builtinAssets)
	return out
}

// UIMock is the page set of a project.
type UIMock struct {
	Pages       []Page  `json:"pages"`
	StartPageID string  `json:"startPageId,omitempty"`
	Assets      []Asset `json:"assets"`
}

// UnmarshalJSON accepts the legacy form, a bare array of pages.
func (u *UIMock) UnmarshalJSON(b []byte) error {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var pages []Page
		if err := json.Unmarshal(trimmed, &pages); err != nil {
			return err
		}
		*u = UIMock{Pages: pages}
		return nil
	}
	type plain UIMock
	var v plain
	if err := json.Unmarshal(trimmed, &v); err != nil {
		return err
	}
	*u = UIMock(v)
	return nil
}

// Page returns a pointer to the page with id, or nil.
func (u *UIMock) Page(id string) *Page {
	for i := range u.Pages {
		if u.Pages[i].ID == id {
			return &u.Pages[i]
		}
	}
	return nil
}

// Catalog returns built-in assets followed by the project's own.
func (u *UIMock) Catalog() []Asset {
	return append(BuiltinAssets(), u.Assets...)
}

// ResolveAsset looks ref up in the catalog. A miss is not an error: the
// caller renders a placeholder.
func (u *UIMock) ResolveAsset(ref string) (Asset, bool) {
	for _, a := range u.Catalog() {
		if a.ID == ref {
			return a, true
		}
	}
	return Asset{}, false
}
