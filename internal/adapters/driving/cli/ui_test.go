package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gplanner/gplan/internal/core/domain"
)

// addPage runs "ui page-add" and returns the new page.
func addPage(t *testing.T, svc Services, preset string) domain.Page {
	t.Helper()
	_, err := runCmd(t, "ui", "page-add", preset)
	require.NoError(t, err)
	pages, err := svc.Prototype.Pages()
	require.NoError(t, err)
	require.NotEmpty(t, pages)
	return pages[len(pages)-1]
}

// addComponent runs "ui add" and returns the new component.
func addComponent(t *testing.T, svc Services, pageID string, args ...string) domain.Component {
	t.Helper()
	_, err := runCmd(t, append([]string{"ui", "add", pageID}, args...)...)
	require.NoError(t, err)
	page, err := svc.Prototype.Page(pageID)
	require.NoError(t, err)
	require.NotEmpty(t, page.Components)
	return page.Components[len(page.Components)-1]
}

func TestUIPages(t *testing.T) {
	svc := setupTestServices(t)
	newOpenProject(t, "Mock")

	out, err := runCmd(t, "ui", "pages")
	require.NoError(t, err)
	assert.Contains(t, out, "No pages yet")

	out, err = runCmd(t, "ui", "page-add", "pc")
	require.NoError(t, err)
	assert.Contains(t, out, `Added page "PC 1"`)
	home := addPage(t, svc, "iphone")
	assert.Equal(t, "iPhone 2", home.Name)

	out, err = runCmd(t, "ui", "start", home.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Runs now start on "+home.ID)

	out, err = runCmd(t, "ui", "pages")
	require.NoError(t, err)
	assert.Contains(t, out, "  PC 1 [screen 1280x720]")
	assert.Contains(t, out, "> iPhone 2 [screen 390x844] ("+home.ID+")")

	_, err = runCmd(t, "ui", "page-add", "watch")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUIPageRenameAndDelete(t *testing.T) {
	svc := setupTestServices(t)
	newOpenProject(t, "Mock")
	page := addPage(t, svc, "pc")
	_, err := runCmd(t, "ui", "start", page.ID)
	require.NoError(t, err)

	out, err := runCmd(t, "ui", "page-rename", page.ID, "Title Screen")
	require.NoError(t, err)
	assert.Contains(t, out, `Renamed `+page.ID+` to "Title Screen"`)

	out, err = runCmd(t, "ui", "page-delete", page.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted page "+page.ID)

	start, err := svc.Prototype.StartPageID()
	require.NoError(t, err)
	assert.Empty(t, start)

	_, err = runCmd(t, "ui", "page-delete", page.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUIPresets(t *testing.T) {
	setupTestServices(t)

	out, err := runCmd(t, "ui", "presets")
	require.NoError(t, err)
	assert.Contains(t, out, "pc")
	assert.Contains(t, out, "toast")
}

func TestUIAdd(t *testing.T) {
	svc := setupTestServices(t)
	newOpenProject(t, "Mock")
	page := addPage(t, svc, "pc")

	out, err := runCmd(t, "ui", "add", page.ID, "btn_blue_normal", "--at", "100,100")
	require.NoError(t, err)
	assert.Contains(t, out, `Added sprite "Blue Button"`)

	p, err := svc.Prototype.Page(page.ID)
	require.NoError(t, err)
	require.Len(t, p.Components, 1)
	sprite := p.Components[0]
	assert.Equal(t, 32.0, sprite.Width)
	assert.Equal(t, 84.0, sprite.X)

	text := addComponent(t, svc, page.ID, "--kind", "text", "--text", "Score")
	assert.Equal(t, domain.ComponentText, text.Kind)
	assert.Equal(t, "Score", text.Text)

	missing := addComponent(t, svc, page.ID, "no_such_sprite")
	assert.Equal(t, 32.0, missing.Width)

	_, err = runCmd(t, "ui", "add", page.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pass an asset id")

	_, err = runCmd(t, "ui", "add", page.ID, "--kind", "hologram")
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
}

func TestUIAdd_MediaFile(t *testing.T) {
	svc := setupTestServices(t)
	newOpenProject(t, "Mock")
	page := addPage(t, svc, "pc")

	img := filepath.Join(t.TempDir(), "logo.png")
	require.NoError(t, os.WriteFile(img, pngHeader, 0o600))

	comp := addComponent(t, svc, page.ID, "--kind", "image", "--text", img)
	assert.Equal(t, domain.ComponentImage, comp.Kind)
	assert.True(t, strings.HasPrefix(comp.AssetRef, "data:image/png;base64,"))
}

func TestUIMoveAndRemove(t *testing.T) {
	svc := setupTestServices(t)
	newOpenProject(t, "Mock")
	page := addPage(t, svc, "pc")
	comp := addComponent(t, svc, page.ID, "btn_blue_normal")

	out, err := runCmd(t, "ui", "move", page.ID, comp.ID, "5", "6")
	require.NoError(t, err)
	assert.Contains(t, out, "Moved "+comp.ID+" to (5, 6)")

	p, err := svc.Prototype.Page(page.ID)
	require.NoError(t, err)
	assert.Equal(t, 5.0, p.Components[0].X)
	assert.Equal(t, 6.0, p.Components[0].Y)

	out, err = runCmd(t, "ui", "remove", page.ID, comp.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Removed "+comp.ID)

	_, err = runCmd(t, "ui", "remove", page.ID, comp.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUIInteract(t *testing.T) {
	svc := setupTestServices(t)
	newOpenProject(t, "Mock")
	home := addPage(t, svc, "pc")
	shop := addPage(t, svc, "pc")
	btn := addComponent(t, svc, home.ID, "btn_blue_normal")

	_, err := runCmd(t, "ui", "interact", home.ID, btn.ID, "navigate")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = runCmd(t, "ui", "interact", home.ID, btn.ID, "teleport")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = runCmd(t, "ui", "interact", home.ID, btn.ID, "trigger_cond", "--target", shop.ID, "--param", "GOLD ~ 1")
	assert.Error(t, err)

	out, err := runCmd(t, "ui", "interact", home.ID, btn.ID, "navigate", "--target", shop.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Clicking "+btn.ID+" now does navigate")

	out, err = runCmd(t, "ui", "pages")
	require.NoError(t, err)
	assert.Contains(t, out, btn.ID+" Blue Button [sprite] on click: navigate "+shop.ID)
}

func TestUIAssets(t *testing.T) {
	svc := setupTestServices(t)
	newOpenProject(t, "Mock")

	sheet := filepath.Join(t.TempDir(), "sheet.png")
	require.NoError(t, os.WriteFile(sheet, pngHeader, 0o600))

	out, err := runCmd(t, "ui", "asset-add", "Gem", sheet, "0", "0", "8", "8")
	require.NoError(t, err)
	assert.Contains(t, out, "Added asset "+domain.CustomAssetPrefix)

	out, err = runCmd(t, "ui", "assets")
	require.NoError(t, err)
	assert.Contains(t, out, "btn_blue_normal")
	assert.Contains(t, out, "built-in")
	assert.Contains(t, out, "Gem")
	assert.Contains(t, out, "custom")

	assets, err := svc.Prototype.Assets()
	require.NoError(t, err)
	gem := assets[len(assets)-1]
	assert.Equal(t, "Gem", gem.Label)

	_, err = runCmd(t, "ui", "asset-add", "Bad", sheet, "0", "0", "0", "8")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// buildShop creates a home page with a coin button and a door that only
// opens with gold, plus the shop page behind it.
func buildShop(t *testing.T, svc Services) (home, shop domain.Page, coin, door domain.Component) {
	t.Helper()
	home = addPage(t, svc, "pc")
	shop = addPage(t, svc, "pc")
	coin = addComponent(t, svc, home.ID, "btn_blue_normal")
	door = addComponent(t, svc, home.ID, "btn_blue_normal")

	_, err := runCmd(t, "ui", "interact", home.ID, coin.ID, "increment", "--param", "GOLD")
	require.NoError(t, err)
	_, err = runCmd(t, "ui", "interact", home.ID, door.ID, "trigger_cond", "--target", shop.ID, "--param", "GOLD >= 1")
	require.NoError(t, err)
	return home, shop, coin, door
}

func TestUIPlay_Scripted(t *testing.T) {
	svc := setupTestServices(t)
	newOpenProject(t, "Mock")
	_, _, coin, door := buildShop(t, svc)

	out, err := runCmd(t, "ui", "play", door.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "(clicking "+door.ID+" did nothing)")
	assert.Contains(t, out, "== PC 1 (screen) ==")

	out, err = runCmd(t, "ui", "play", coin.ID, door.ID)
	require.NoError(t, err)
	assert.NotContains(t, out, "did nothing")
	assert.Contains(t, out, "== PC 2 (screen) ==")
	assert.Contains(t, out, "vars: GOLD=1 HP=100 KEY=0")

	_, err = runCmd(t, "ui", "play", "ghost")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `component "ghost" is not on screen`)
}

func TestUIPlay_FromPage(t *testing.T) {
	svc := setupTestServices(t)
	newOpenProject(t, "Mock")
	_, shop, _, _ := buildShop(t, svc)

	out, err := runCmd(t, "ui", "play", "--from", shop.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "== PC 2 (screen) ==")

	_, err = runCmd(t, "ui", "play", "--from", "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUIPlay_Stdin(t *testing.T) {
	svc := setupTestServices(t)
	newOpenProject(t, "Mock")
	_, _, coin, door := buildShop(t, svc)

	input := coin.ID + "\n\nghost\n" + door.ID + "\n"
	out, err := runCmdWithInput(t, input, "ui", "play", "--stdin")
	require.NoError(t, err)
	assert.Contains(t, out, `component "ghost" is not on screen`)
	assert.Contains(t, out, "Blue Button (1)")
	assert.Contains(t, out, "== PC 2 (screen) ==")
}

func TestUIPlay_NoPages(t *testing.T) {
	setupTestServices(t)
	newOpenProject(t, "Mock")

	_, err := runCmd(t, "ui", "play")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "the prototype has no pages")
}

func TestRenderFrame(t *testing.T) {
	counter := 3.0
	frame := domain.Frame{
		Page: &domain.RenderedPage{
			Name: "Home",
			Kind: domain.PageScreen,
			Components: []domain.RenderedComponent{
				{Component: domain.Component{ID: "t1", Name: "Title", Kind: domain.ComponentText, Text: "Hello"}, Opacity: 1},
				{Component: domain.Component{ID: "s1", Name: "ghost", Kind: domain.ComponentSprite}, Placeholder: true, Opacity: 1},
				{Component: domain.Component{ID: "c1", Name: "Coins", Kind: domain.ComponentSprite}, Counter: &counter, Dimmed: true, Opacity: 0.5},
			},
		},
		Modal: &domain.RenderedPage{Name: "Popup", Kind: domain.PageModalCenter},
		Vars:  map[string]float64{"KEY": 1, "GOLD": 2},
	}

	var buf bytes.Buffer
	RenderFrame(&buf, frame)

	want := strings.Join([]string{
		"== Home (screen) ==",
		`  - Title "Hello"  <t1>`,
		"  - ghost [missing asset]  <s1>",
		"  - Coins (3) [off] [disabled]  <c1>",
		"  | == Popup (modal_center) ==",
		"vars: GOLD=2 KEY=1",
		"",
	}, "\n")
	assert.Equal(t, want, buf.String())
}
