// Package dashboard provides the project list and overview view for the TUI.
package dashboard

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gplanner/gplan/internal/adapters/driving/tui/components/input"
	"github.com/gplanner/gplan/internal/adapters/driving/tui/messages"
	"github.com/gplanner/gplan/internal/adapters/driving/tui/styles"
	"github.com/gplanner/gplan/internal/core/domain"
	"github.com/gplanner/gplan/internal/core/ports/driving"
)

const recentDocs = 5

type mode int

const (
	modeBrowse mode = iota
	modeNaming
	modeConfirmDelete
)

// Services are the ports the dashboard reads from. Only Projects is
// required; a nil section service leaves its overview line blank.
type Services struct {
	Projects  driving.ProjectService
	Board     driving.BoardService
	Documents driving.DocumentService
	Team      driving.TeamService
	Prototype driving.PrototypeService
}

// View lists projects and summarises the open one.
type View struct {
	styles   *styles.Styles
	services Services

	projects []domain.ProjectMeta
	activeID string
	overview *messages.Overview
	selected int
	mode     mode
	prompt   *input.Prompt
	width    int
	height   int
	ready    bool
	err      error
}

// NewView creates a dashboard view.
func NewView(s *styles.Styles, services Services) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:   s,
		services: services,
		prompt:   input.NewPrompt(s, "Project name", domain.UntitledProject),
		width:    80,
		height:   24,
	}
}

// Init loads the project list.
func (v *View) Init() tea.Cmd {
	return v.LoadProjects()
}

// LoadProjects returns a command that reads the project list.
func (v *View) LoadProjects() tea.Cmd {
	projects := v.services.Projects
	return func() tea.Msg {
		if projects == nil {
			return messages.ErrorOccurred{Err: fmt.Errorf("project service not available")}
		}
		msg := messages.ProjectsLoaded{Projects: projects.List()}
		if active, ok := projects.Active(); ok {
			msg.ActiveID = active.ID
		}
		return msg
	}
}

// Update handles messages for the dashboard.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.ProjectsLoaded:
		v.projects = msg.Projects
		v.activeID = msg.ActiveID
		v.selected = v.indexOf(msg.ActiveID)
		if msg.ActiveID == "" {
			v.overview = nil
			return v, nil
		}
		return v, v.loadOverview()

	case messages.OverviewLoaded:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		o := msg.Overview
		v.overview = &o
		return v, nil

	case messages.ProjectCreated:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		return v, v.open(msg.Project.ID)

	case messages.ProjectOpened:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		return v, v.LoadProjects()

	case messages.ProjectDeleted:
		if msg.Err != nil {
			v.err = msg.Err
		}
		return v, v.LoadProjects()

	case tea.KeyMsg:
		return v.handleKey(msg)
	}

	if v.mode == modeNaming {
		var cmd tea.Cmd
		v.prompt, cmd = v.prompt.Update(msg)
		return v, cmd
	}
	return v, nil
}

func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch v.mode {
	case modeNaming:
		switch msg.String() {
		case "enter":
			name := strings.TrimSpace(v.prompt.Value())
			v.mode = modeBrowse
			v.prompt.Reset()
			return v, v.create(name)
		case "esc":
			v.mode = modeBrowse
			v.prompt.Reset()
			return v, nil
		}
		var cmd tea.Cmd
		v.prompt, cmd = v.prompt.Update(msg)
		return v, cmd

	case modeConfirmDelete:
		v.mode = modeBrowse
		if msg.String() == "y" {
			if p, ok := v.Selected(); ok {
				return v, v.remove(p.ID)
			}
		}
		return v, nil
	}

	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
	case "down", "j":
		if v.selected < len(v.projects)-1 {
			v.selected++
		}
	case "enter":
		if p, ok := v.Selected(); ok {
			return v, v.open(p.ID)
		}
	case "n":
		v.mode = modeNaming
		v.err = nil
		return v, v.prompt.Init()
	case "d":
		if len(v.projects) > 0 {
			v.mode = modeConfirmDelete
		}
	case "p":
		if v.activeID == "" {
			v.err = domain.ErrNoActiveProject
			return v, nil
		}
		return v, func() tea.Msg { return messages.PlayRequested{} }
	case "s":
		return v, v.save()
	}
	return v, nil
}

func (v *View) create(name string) tea.Cmd {
	projects := v.services.Projects
	return func() tea.Msg {
		meta, err := projects.Create(name)
		return messages.ProjectCreated{Project: meta, Err: err}
	}
}

func (v *View) open(id string) tea.Cmd {
	projects := v.services.Projects
	return func() tea.Msg {
		if err := projects.Open(context.Background(), id); err != nil {
			return messages.ProjectOpened{Err: err}
		}
		meta, _ := projects.Active()
		return messages.ProjectOpened{Project: meta}
	}
}

func (v *View) remove(id string) tea.Cmd {
	projects := v.services.Projects
	return func() tea.Msg {
		return messages.ProjectDeleted{ID: id, Err: projects.Delete(id)}
	}
}

func (v *View) save() tea.Cmd {
	projects := v.services.Projects
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return messages.SaveCompleted{Err: projects.Save(ctx)}
	}
}

func (v *View) loadOverview() tea.Cmd {
	svc := v.services
	return func() tea.Msg {
		o, err := BuildOverview(svc)
		return messages.OverviewLoaded{Overview: o, Err: err}
	}
}

// BuildOverview counts the open project's cards, documents, team and pages.
func BuildOverview(svc Services) (messages.Overview, error) {
	var o messages.Overview
	if svc.Board != nil {
		nodes, err := svc.Board.Nodes()
		if err != nil {
			return o, err
		}
		edges, err := svc.Board.Connections()
		if err != nil {
			return o, err
		}
		o.Cards, o.Connections = len(nodes), len(edges)
	}
	if svc.Documents != nil {
		docs, err := svc.Documents.Tree(true)
		if err != nil {
			return o, err
		}
		o.Documents = len(docs)
		for i := 0; i < len(docs) && i < recentDocs; i++ {
			o.RecentTitles = append(o.RecentTitles, docs[i].Doc.Title)
		}
	}
	if svc.Team != nil {
		members, err := svc.Team.Members()
		if err != nil {
			return o, err
		}
		todos, err := svc.Team.Todos()
		if err != nil {
			return o, err
		}
		o.Members, o.TodosTotal = len(members), len(todos)
		for _, t := range todos {
			if !t.Done {
				o.TodosOpen++
			}
		}
	}
	if svc.Prototype != nil {
		pages, err := svc.Prototype.Pages()
		if err != nil {
			return o, err
		}
		start, err := svc.Prototype.StartPageID()
		if err != nil {
			return o, err
		}
		o.Pages = len(pages)
		for _, p := range pages {
			if p.ID == start {
				o.StartPage = p.Name
			}
		}
	}
	return o, nil
}

// View renders the dashboard.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	left := v.renderProjects()
	right := v.renderOverview()
	body := lipgloss.JoinHorizontal(lipgloss.Top,
		v.styles.Panel.Width(v.width/2-2).Render(left),
		v.styles.Panel.Width(v.width/2-2).Render(right),
	)

	var b strings.Builder
	b.WriteString(v.styles.Title.Render("gplan"))
	b.WriteString("\n")
	b.WriteString(v.styles.Subtitle.Render("Game design planner"))
	b.WriteString("\n\n")
	b.WriteString(body)
	b.WriteString("\n")

	switch v.mode {
	case modeNaming:
		b.WriteString("\n")
		b.WriteString(v.prompt.View())
		b.WriteString("\n")
	case modeConfirmDelete:
		if p, ok := v.Selected(); ok {
			b.WriteString("\n")
			b.WriteString(v.styles.Warning.Render(fmt.Sprintf("Delete %q? [y/N]", p.Name)))
			b.WriteString("\n")
		}
	}
	if v.err != nil {
		b.WriteString("\n")
		b.WriteString(v.styles.Error.Render(v.err.Error()))
		b.WriteString("\n")
	}
	return b.String()
}

func (v *View) renderProjects() string {
	var b strings.Builder
	b.WriteString(v.styles.Subtitle.Render("Projects"))
	b.WriteString("\n\n")
	if len(v.projects) == 0 {
		b.WriteString(v.styles.Muted.Render("No projects yet. Press n to create one."))
		return b.String()
	}
	for i, p := range v.projects {
		cursor := "  "
		style := v.styles.Normal
		if i == v.selected {
			cursor = "> "
			style = v.styles.Selected
		}
		line := cursor + style.Render(p.Name)
		if p.ID == v.activeID {
			line += v.styles.Success.Render(" (open)")
		}
		b.WriteString(line)
		b.WriteString("  ")
		b.WriteString(v.styles.Muted.Render(p.Modified().Format("2006-01-02 15:04")))
		b.WriteString("\n")
	}
	return b.String()
}

func (v *View) renderOverview() string {
	var b strings.Builder
	b.WriteString(v.styles.Subtitle.Render("Overview"))
	b.WriteString("\n\n")
	if v.overview == nil {
		b.WriteString(v.styles.Muted.Render("Open a project to see its summary."))
		return b.String()
	}
	o := v.overview
	fmt.Fprintf(&b, "Board:     %d cards, %d connections\n", o.Cards, o.Connections)
	fmt.Fprintf(&b, "Documents: %d\n", o.Documents)
	fmt.Fprintf(&b, "Team:      %d members, %d of %d todos open\n", o.Members, o.TodosOpen, o.TodosTotal)
	start := o.StartPage
	if start == "" {
		start = "none"
	}
	fmt.Fprintf(&b, "UI mock:   %d pages, start %s\n", o.Pages, start)
	if len(o.RecentTitles) > 0 {
		b.WriteString("\n")
		for _, t := range o.RecentTitles {
			b.WriteString(v.styles.Muted.Render("  • " + t))
			b.WriteString("\n")
		}
	}
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.prompt.SetWidth(width / 2)
}

// Selected returns the highlighted project.
func (v *View) Selected() (domain.ProjectMeta, bool) {
	if v.selected < 0 || v.selected >= len(v.projects) {
		return domain.ProjectMeta{}, false
	}
	return v.projects[v.selected], true
}

// ActiveID returns the open project's id.
func (v *View) ActiveID() string {
	return v.activeID
}

// Capturing reports whether key presses go to the name prompt or the
// delete confirmation rather than global bindings.
func (v *View) Capturing() bool {
	return v.mode != modeBrowse
}

// Err returns the last error shown.
func (v *View) Err() error {
	return v.err
}

func (v *View) indexOf(id string) int {
	for i, p := range v.projects {
		if p.ID == id {
			return i
		}
	}
	if v.selected < len(v.projects) {
		return v.selected
	}
	return 0
}
