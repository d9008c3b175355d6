package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gplanner/gplan/internal/core/domain"
)

// addCard runs "board add" and returns the new card.
func addCard(t *testing.T, svc Services, args ...string) domain.Node {
	t.Helper()
	before, err := svc.Board.Nodes()
	require.NoError(t, err)

	_, err = runCmd(t, append([]string{"board", "add"}, args...)...)
	require.NoError(t, err)

	nodes, err := svc.Board.Nodes()
	require.NoError(t, err)
	require.Len(t, nodes, len(before)+1)
	return nodes[len(nodes)-1]
}

func TestBoard_RequiresProject(t *testing.T) {
	setupTestServices(t)

	_, err := runCmd(t, "board", "list")
	assert.ErrorIs(t, err, domain.ErrNoActiveProject)
}

func TestBoardAdd(t *testing.T) {
	svc := setupTestServices(t)
	newOpenProject(t, "Board")

	out, err := runCmd(t, "board", "add", "text", "jump higher", "--at", "10,20")
	require.NoError(t, err)
	assert.Contains(t, out, "Added text card")
	assert.Contains(t, out, "at (10, 20)")

	nodes, err := svc.Board.Nodes()
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, "jump higher", nodes[0].Content)
	assert.Equal(t, domain.Point{X: 10, Y: 20}, nodes[0].Position)

	status := addCard(t, svc, "status")
	assert.Equal(t, domain.DefaultStatus, status.Content)
}

func TestBoardAdd_Rejects(t *testing.T) {
	setupTestServices(t)
	newOpenProject(t, "Board")

	_, err := runCmd(t, "board", "add", "hologram")
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)

	_, err = runCmd(t, "board", "add", "text", "x", "--at", "10")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "want x,y")
}

func TestBoardList(t *testing.T) {
	svc := setupTestServices(t)
	newOpenProject(t, "Board")

	out, err := runCmd(t, "board", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "The board is empty.")

	a := addCard(t, svc, "text", "first idea", "--at", "0,0")
	b := addCard(t, svc, "ai", "", "--at", "300,0")
	_, err = runCmd(t, "board", "connect", a.ID, b.ID)
	require.NoError(t, err)

	out, err = runCmd(t, "board", "list")
	require.NoError(t, err)
	assert.Contains(t, out, a.ID+" [text] at (0, 0)")
	assert.Contains(t, out, "first idea")
	assert.Contains(t, out, "Connections:")
	assert.Contains(t, out, a.ID+" -> "+b.ID)

	out, err = runCmd(t, "board", "list", "--json")
	require.NoError(t, err)
	var got struct {
		Nodes []domain.Node `json:"nodes"`
		Edges []domain.Edge `json:"edges"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Len(t, got.Nodes, 2)
	assert.Len(t, got.Edges, 1)
}

func TestBoardConnect(t *testing.T) {
	svc := setupTestServices(t)
	newOpenProject(t, "Board")
	a := addCard(t, svc, "text", "a")
	b := addCard(t, svc, "text", "b")

	out, err := runCmd(t, "board", "connect", a.ID, b.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Connected "+a.ID+" -> "+b.ID)

	out, err = runCmd(t, "board", "connect", b.ID, a.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "already connected or identical")

	out, err = runCmd(t, "board", "connect", a.ID, a.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "already connected or identical")

	edges, err := svc.Board.Connections()
	require.NoError(t, err)
	require.Len(t, edges, 1)

	out, err = runCmd(t, "board", "disconnect", edges[0].ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Removed connection")
	edges, err = svc.Board.Connections()
	require.NoError(t, err)
	assert.Empty(t, edges)
}

func TestBoardInputs(t *testing.T) {
	svc := setupTestServices(t)
	newOpenProject(t, "Board")
	target := addCard(t, svc, "ai")
	lore := addCard(t, svc, "text", "dragons sleep in winter")
	img := addCard(t, svc, "image", "data:image/png;base64,AA==")

	out, err := runCmd(t, "board", "inputs", target.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "No text feeds into "+target.ID)

	_, err = runCmd(t, "board", "connect", lore.ID, target.ID)
	require.NoError(t, err)
	_, err = runCmd(t, "board", "connect", img.ID, target.ID)
	require.NoError(t, err)

	out, err = runCmd(t, "board", "inputs", target.ID)
	require.NoError(t, err)
	assert.Equal(t, "1. dragons sleep in winter\n", out)
}

func TestBoardMoveResizeEdit(t *testing.T) {
	svc := setupTestServices(t)
	newOpenProject(t, "Board")
	card := addCard(t, svc, "text", "old")

	out, err := runCmd(t, "board", "move", card.ID, "40", "50")
	require.NoError(t, err)
	assert.Contains(t, out, "Moved "+card.ID+" to (40, 50)")

	out, err = runCmd(t, "board", "resize", card.ID, "2000", "10")
	require.NoError(t, err)
	assert.Contains(t, out, "Resized "+card.ID+" to 800x50")

	out, err = runCmd(t, "board", "edit", card.ID, "new")
	require.NoError(t, err)
	assert.Contains(t, out, "Updated "+card.ID)

	nodes, err := svc.Board.Nodes()
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, "new", nodes[0].Content)
	assert.Equal(t, domain.Point{X: 40, Y: 50}, nodes[0].Position)
	assert.Equal(t, domain.Size{W: 800, H: 50}, nodes[0].EffectiveSize())

	_, err = runCmd(t, "board", "edit", card.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pass the new content or --cycle")

	_, err = runCmd(t, "board", "move", card.ID, "x", "1")
	assert.Error(t, err)
}

func TestBoardEdit_CycleStatus(t *testing.T) {
	svc := setupTestServices(t)
	newOpenProject(t, "Board")
	status := addCard(t, svc, "status")

	out, err := runCmd(t, "board", "edit", status.ID, "--cycle")
	require.NoError(t, err)
	assert.Contains(t, out, "Status of "+status.ID+" is now ")

	nodes, err := svc.Board.Nodes()
	require.NoError(t, err)
	assert.NotEqual(t, domain.DefaultStatus, nodes[0].Content)
}

func TestBoardDelete(t *testing.T) {
	svc := setupTestServices(t)
	newOpenProject(t, "Board")
	a := addCard(t, svc, "text", "a")
	b := addCard(t, svc, "text", "b")
	_, err := runCmd(t, "board", "connect", a.ID, b.ID)
	require.NoError(t, err)

	out, err := runCmd(t, "board", "delete", a.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted "+a.ID)

	edges, err := svc.Board.Connections()
	require.NoError(t, err)
	assert.Empty(t, edges)

	_, err = runCmd(t, "board", "delete", a.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBoardIngest(t *testing.T) {
	svc := setupTestServices(t)
	newOpenProject(t, "Board")
	dir := t.TempDir()

	img := filepath.Join(dir, "hero.png")
	require.NoError(t, os.WriteFile(img, pngHeader, 0o600))
	txt := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(txt, []byte("words"), 0o600))

	out, err := runCmd(t, "board", "ingest", img, txt)
	require.NoError(t, err)
	assert.Contains(t, out, "Added image card")
	assert.Contains(t, out, "Skipped 1 file(s)")

	nodes, err := svc.Board.Nodes()
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, domain.NodeImage, nodes[0].Kind)

	out, err = runCmd(t, "board", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "<image/png, ")

	_, err = runCmd(t, "board", "ingest", filepath.Join(dir, "missing.png"))
	assert.Error(t, err)
}

func TestBoardPanAndZoom(t *testing.T) {
	setupTestServices(t)
	newOpenProject(t, "Board")

	out, err := runCmd(t, "board", "pan", "30", "40")
	require.NoError(t, err)
	assert.Contains(t, out, "Scale: 1.00  Offset: (30, 40)")

	out, err = runCmd(t, "board", "zoom", "--at", "0,0", "--", "-100")
	require.NoError(t, err)
	assert.NotContains(t, out, "Scale: 1.00 ")

	out, err = runCmd(t, "board", "zoom", "--reset")
	require.NoError(t, err)
	assert.Contains(t, out, "Scale: 1.00  Offset: (0, 0)")

	_, err = runCmd(t, "board", "zoom")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pass a zoom delta or --reset")
}

func TestParsePoint(t *testing.T) {
	p, err := parsePoint(" 1.5, -2 ")
	require.NoError(t, err)
	assert.Equal(t, domain.Point{X: 1.5, Y: -2}, p)

	_, err = parsePoint("1;2")
	assert.Error(t, err)
	_, err = parsePoint("a,2")
	assert.Error(t, err)
	_, err = parsePoint("NaN,2")
	assert.Error(t, err)
	_, err = parsePoint("1,-Inf")
	assert.Error(t, err)
}

func TestBoard_RejectsNonFiniteNumbers(t *testing.T) {
	svc := setupTestServices(t)
	newOpenProject(t, "Board")
	card := addCard(t, svc, "text", "idea")

	_, err := runCmd(t, "board", "resize", card.ID, "NaN", "Inf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid number "NaN"`)

	_, err = runCmd(t, "board", "zoom", "--", "+Inf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid number")

	nodes, err := svc.Board.Nodes()
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, card.Size, nodes[0].Size)
}
