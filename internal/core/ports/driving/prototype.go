package driving

import "github.com/gplanner/gplan/internal/core/domain"

// ComponentPatch lists the component fields to change. Nil fields are kept.
type ComponentPatch struct {
	Name   *string
	Text   *string
	Size   *domain.Size
	ZIndex *int
	Scale  *float64
	State  *domain.VisualState
}

// PrototypeService edits the open project's UI mock.
type PrototypeService interface {
	Presets() []domain.PagePreset
	Pages() ([]domain.Page, error)
	Page(id string) (domain.Page, error)
	StartPageID() (string, error)

	// AddPage creates a page from a preset.
	AddPage(presetID string) (domain.Page, error)
	RenamePage(id, name string) error
	DeletePage(id string) error
	SetStartPage(id string) error

	// AddComponent places a sprite from the asset catalog. A nil point
	// centres it on the page.
	AddComponent(pageID, assetRef string, at *domain.Point) (domain.Component, error)

	// AddItem places a text, status or media component.
	AddItem(pageID string, kind domain.ComponentKind, content string) (domain.Component, error)

	MoveComponent(pageID, componentID string, pos domain.Point) error
	UpdateComponent(pageID, componentID string, patch ComponentPatch) error
	DeleteComponent(pageID, componentID string) error

	// SetInteraction validates and stores click behaviour. Malformed
	// conditions are rejected with a *domain.ValidationError.
	SetInteraction(pageID, componentID string, kind domain.InteractionKind, target, param string) error

	// AddAsset saves a custom sprite slice.
	AddAsset(label, source string, slice domain.Rect) (domain.Asset, error)

	// Assets returns built-in and custom assets.
	Assets() ([]domain.Asset, error)

	// Play starts a player over a snapshot of the mock.
	Play() (*domain.Player, error)
}
