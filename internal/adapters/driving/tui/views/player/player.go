// Package player runs the UI prototype inside the terminal.
package player

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gplanner/gplan/internal/adapters/driving/tui/messages"
	"github.com/gplanner/gplan/internal/adapters/driving/tui/styles"
	"github.com/gplanner/gplan/internal/core/domain"
)

// maxChoices is the number of clickable components reachable by digit keys.
const maxChoices = 9

// View shows the player's current frame. Clickable components are
// numbered; pressing the number clicks them. While a modal is open only
// its components can be clicked.
type View struct {
	styles *styles.Styles
	player *domain.Player
	frame  domain.Frame
	last   string
	width  int
	height int
	ready  bool
}

// NewView creates a player view.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{styles: s, width: 80, height: 24}
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// SetPlayer replaces the running player.
func (v *View) SetPlayer(p *domain.Player) {
	v.player = p
	v.last = ""
	v.refresh()
}

// Player returns the running player.
func (v *View) Player() *domain.Player {
	return v.player
}

// Update handles key presses.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewDashboard} }
		case "r":
			return v, func() tea.Msg { return messages.PlayRequested{} }
		}
		if n, err := strconv.Atoi(msg.String()); err == nil && n >= 1 && n <= maxChoices {
			v.click(n - 1)
		}
	}
	return v, nil
}

func (v *View) click(i int) {
	if v.player == nil {
		return
	}
	choices := v.Choices()
	if i >= len(choices) {
		return
	}
	c := choices[i]
	res, err := v.player.Click(c.ID)
	switch {
	case err != nil:
		v.last = err.Error()
	case res.Changed:
		v.last = fmt.Sprintf("%s: %s", c.Name, res.Kind)
	default:
		v.last = fmt.Sprintf("%s: nothing happened", c.Name)
	}
	v.refresh()
}

func (v *View) refresh() {
	if v.player == nil {
		v.frame = domain.Frame{}
		return
	}
	v.frame = v.player.Frame()
}

// Choices returns the components the digit keys click, in display order.
func (v *View) Choices() []domain.RenderedComponent {
	page := v.frame.Page
	if v.frame.Modal != nil {
		page = v.frame.Modal
	}
	if page == nil {
		return nil
	}
	var out []domain.RenderedComponent
	for _, c := range page.Components {
		if c.Interaction.Kind == domain.InteractionNone || c.Interaction.Kind == "" {
			continue
		}
		out = append(out, c)
		if len(out) == maxChoices {
			break
		}
	}
	return out
}

// View renders the frame.
func (v *View) View() string {
	if v.player == nil || v.frame.Page == nil {
		return v.styles.Muted.Render("This project has no pages to play. Press esc to go back.")
	}

	numbers := make(map[string]int)
	for i, c := range v.Choices() {
		numbers[c.ID] = i + 1
	}

	screen := v.renderPage(v.frame.Page, numbers, v.frame.Modal == nil)
	if v.frame.Modal != nil {
		modal := v.styles.Modal.Render(v.renderPage(v.frame.Modal, numbers, true))
		screen = lipgloss.JoinVertical(lipgloss.Left, screen, modal)
	}

	var b strings.Builder
	b.WriteString(screen)
	b.WriteString("\n")
	b.WriteString(v.renderVars())
	if v.last != "" {
		b.WriteString("\n")
		b.WriteString(v.styles.Muted.Render(v.last))
	}
	return b.String()
}

func (v *View) renderPage(p *domain.RenderedPage, numbers map[string]int, active bool) string {
	var b strings.Builder
	b.WriteString(v.styles.Title.Render(p.Name))
	b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  %s %gx%g", p.Kind, p.Width, p.Height)))
	b.WriteString("\n")
	for _, c := range p.Components {
		b.WriteString(v.renderComponent(c, numbers[c.ID], active))
		b.WriteString("\n")
	}
	style := v.styles.Screen
	if p.BackgroundColor != "" {
		style = style.BorderForeground(lipgloss.Color(p.BackgroundColor))
	}
	return style.Render(strings.TrimRight(b.String(), "\n"))
}

func (v *View) renderComponent(c domain.RenderedComponent, n int, active bool) string {
	label := c.Name
	switch {
	case c.Placeholder:
		label += " [?]"
	case c.Kind == domain.ComponentText || c.Kind == domain.ComponentStatus:
		if c.Text != "" {
			label = c.Text
		}
	case c.Asset != nil:
		label = c.Asset.Label
	}
	if c.Counter != nil {
		label += fmt.Sprintf(" (%g)", *c.Counter)
	}

	prefix := "    "
	style := v.styles.Normal
	if n > 0 && active {
		prefix = fmt.Sprintf("[%d] ", n)
		style = v.styles.Clickable
	}
	if c.Dimmed || c.Opacity < 1 {
		style = v.styles.Disabled
	}
	return prefix + style.Render(label)
}

func (v *View) renderVars() string {
	names := make([]string, 0, len(v.frame.Vars))
	for k := range v.frame.Vars {
		names = append(names, k)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, k := range names {
		parts[i] = fmt.Sprintf("%s %g", k, v.frame.Vars[k])
	}
	return v.styles.Subtitle.Render(strings.Join(parts, "  "))
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}
