// Package status provides status bar components for the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gplanner/gplan/internal/adapters/driving/tui/keymap"
	"github.com/gplanner/gplan/internal/adapters/driving/tui/styles"
	"github.com/gplanner/gplan/internal/core/domain"
)

// State represents the current application state for display.
type State string

const (
	StateReady  State = "ready"
	StateBusy   State = "busy"
	StateError  State = "error"
	StateNotice State = "notice"
)

// Bar displays the open project, its save status and keybinding hints.
type Bar struct {
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	state    State
	message  string
	project  string
	save     domain.SaveStatus
	bindings []key.Binding
	width    int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles:   s,
		keymap:   km,
		state:    StateReady,
		save:     domain.StatusSaved,
		bindings: km.ShortHelp(),
		width:    80,
	}
}

// Init initialises the status bar.
func (s *Bar) Init() tea.Cmd {
	return nil
}

// Update handles status bar messages.
func (s *Bar) Update(msg tea.Msg) (*Bar, tea.Cmd) {
	// Bar is passive, updated via Set methods
	return s, nil
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	padding := s.width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

func (s *Bar) renderLeft() string {
	var parts []string
	if s.project != "" {
		parts = append(parts, s.styles.Normal.Render(s.project), s.styles.SaveStatus(s.save))
	}

	switch s.state {
	case StateBusy:
		msg := s.message
		if msg == "" {
			msg = "Working..."
		}
		parts = append(parts, s.styles.Muted.Render(msg))
	case StateError:
		if s.message != "" {
			parts = append(parts, s.styles.Error.Render(fmt.Sprintf("Error: %s", s.message)))
		} else {
			parts = append(parts, s.styles.Error.Render("Error"))
		}
	case StateNotice:
		parts = append(parts, s.styles.Success.Render(s.message))
	case StateReady:
		if len(parts) == 0 {
			parts = append(parts, s.styles.Muted.Render("Ready"))
		}
	}
	return strings.Join(parts, "  ")
}

func (s *Bar) renderRight() string {
	hints := make([]string, 0, len(s.bindings))
	for _, b := range s.bindings {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

// SetState sets the current state.
func (s *Bar) SetState(state State) {
	s.state = state
}

// State returns the current state.
func (s *Bar) State() State {
	return s.state
}

// SetMessage sets the message shown for busy, error and notice states.
func (s *Bar) SetMessage(message string) {
	s.message = message
}

// Message returns the current message.
func (s *Bar) Message() string {
	return s.message
}

// SetProject sets the open project's name. Empty hides the save status.
func (s *Bar) SetProject(name string) {
	s.project = name
}

// Project returns the displayed project name.
func (s *Bar) Project() string {
	return s.project
}

// SetSaveStatus sets the autosave indicator.
func (s *Bar) SetSaveStatus(status domain.SaveStatus) {
	s.save = status
}

// SaveStatus returns the displayed autosave state.
func (s *Bar) SaveStatus() domain.SaveStatus {
	return s.save
}

// SetBindings replaces the keybinding hints.
func (s *Bar) SetBindings(bindings []key.Binding) {
	s.bindings = bindings
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Width returns the current width.
func (s *Bar) Width() int {
	return s.width
}

// Clear resets the state and message. The project and save status stay.
func (s *Bar) Clear() {
	s.state = StateReady
	s.message = ""
}
