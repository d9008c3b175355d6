package services

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/gplanner/gplan/internal/core/domain"
	"github.com/gplanner/gplan/internal/core/ports/driving"
)

// Ensure TeamService implements the interface.
var _ driving.TeamService = (*TeamService)(nil)

// TeamService edits the roster and todo list of the open project.
type TeamService struct {
	projects driving.ProjectService
	newID    func() string
}

// NewTeamService creates a team service.
func NewTeamService(projects driving.ProjectService) *TeamService {
	return &TeamService{projects: projects, newID: uuid.NewString}
}

// Members returns a copy of the roster.
func (s *TeamService) Members() ([]domain.TeamMember, error) {
	var out []domain.TeamMember
	err := s.projects.View(func(c *domain.ProjectContent) error {
		out = append([]domain.TeamMember(nil), c.Members...)
		return nil
	})
	return out, err
}

// AddMember appends a member with the default role. Colours are taken
// from the palette by roster size.
func (s *TeamService) AddMember(name string) (domain.TeamMember, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.TeamMember{}, &domain.ValidationError{Field: "name", Message: "must not be empty"}
	}
	var m domain.TeamMember
	err := s.projects.Mutate(func(c *domain.ProjectContent) error {
		m = domain.TeamMember{
			ID:    s.newID(),
			Name:  name,
			Role:  domain.DefaultRole,
			Color: domain.MemberColors[len(c.Members)%len(domain.MemberColors)],
		}
		c.Members = append(c.Members, m)
		return nil
	})
	if err != nil {
		return domain.TeamMember{}, err
	}
	return m, nil
}

// RenameMember changes a member's name.
func (s *TeamService) RenameMember(id, name string) error {
	if strings.TrimSpace(name) == "" {
		return &domain.ValidationError{Field: "name", Message: "must not be empty"}
	}
	return s.editMember(id, func(m *domain.TeamMember) { m.Name = strings.TrimSpace(name) })
}

// SetRole changes a member's role.
func (s *TeamService) SetRole(id, role string) error {
	return s.editMember(id, func(m *domain.TeamMember) { m.Role = role })
}

// SetAvatar sets a member's avatar image.
func (s *TeamService) SetAvatar(id, avatar string) error {
	return s.editMember(id, func(m *domain.TeamMember) { m.Avatar = avatar })
}

// RemoveMember deletes a member. Todos assigned to it are left alone.
func (s *TeamService) RemoveMember(id string) error {
	return s.projects.Mutate(func(c *domain.ProjectContent) error {
		for i := range c.Members {
			if c.Members[i].ID == id {
				c.Members = append(c.Members[:i], c.Members[i+1:]...)
				return nil
			}
		}
		return fmt.Errorf("member %s: %w", id, domain.ErrNotFound)
	})
}

// Todos returns the task list with assignees resolved.
func (s *TeamService) Todos() ([]driving.TodoView, error) {
	var out []driving.TodoView
	err := s.projects.View(func(c *domain.ProjectContent) error {
		out = make([]driving.TodoView, 0, len(c.Todos))
		for _, t := range c.Todos {
			out = append(out, driving.TodoView{TodoItem: t, Assignee: t.AssigneeName(c.Members)})
		}
		return nil
	})
	return out, err
}

// AddTodo appends a task. assigneeID may be empty.
func (s *TeamService) AddTodo(text, assigneeID string) (domain.TodoItem, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.TodoItem{}, &domain.ValidationError{Field: "text", Message: "must not be empty"}
	}
	var t domain.TodoItem
	err := s.projects.Mutate(func(c *domain.ProjectContent) error {
		if assigneeID != "" && domain.MemberByID(c.Members, assigneeID) == nil {
			return fmt.Errorf("member %s: %w", assigneeID, domain.ErrNotFound)
		}
		t = domain.TodoItem{ID: s.newID(), Text: text, AssigneeID: assigneeID}
		c.Todos = append(c.Todos, t)
		return nil
	})
	if err != nil {
		return domain.TodoItem{}, err
	}
	return t, nil
}

// ToggleTodo flips a task's done flag and returns the new value.
func (s *TeamService) ToggleTodo(id string) (bool, error) {
	var done bool
	err := s.editTodo(id, func(t *domain.TodoItem) {
		t.Done = !t.Done
		done = t.Done
	})
	return done, err
}

// AssignTodo sets or clears (empty id) a task's assignee.
func (s *TeamService) AssignTodo(id, assigneeID string) error {
	return s.projects.Mutate(func(c *domain.ProjectContent) error {
		if assigneeID != "" && domain.MemberByID(c.Members, assigneeID) == nil {
			return fmt.Errorf("member %s: %w", assigneeID, domain.ErrNotFound)
		}
		t := findTodo(c.Todos, id)
		if t == nil {
			return fmt.Errorf("todo %s: %w", id, domain.ErrNotFound)
		}
		t.AssigneeID = assigneeID
		return nil
	})
}

// RemoveTodo deletes a task.
func (s *TeamService) RemoveTodo(id string) error {
	return s.projects.Mutate(func(c *domain.ProjectContent) error {
		for i := range c.Todos {
			if c.Todos[i].ID == id {
				c.Todos = append(c.Todos[:i], c.Todos[i+1:]...)
				return nil
			}
		}
		return fmt.Errorf("todo %s: %w", id, domain.ErrNotFound)
	})
}

func (s *TeamService) editMember(id string, fn func(*domain.TeamMember)) error {
	return s.projects.Mutate(func(c *domain.ProjectContent) error {
		m := domain.MemberByID(c.Members, id)
		if m == nil {
			return fmt.Errorf("member %s: %w", id, domain.ErrNotFound)
		}
		fn(m)
		return nil
	})
}

func (s *TeamService) editTodo(id string, fn func(*domain.TodoItem)) error {
	return s.projects.Mutate(func(c *domain.ProjectContent) error {
		t := findTodo(c.Todos, id)
		if t == nil {
			return fmt.Errorf("todo %s: %w", id, domain.ErrNotFound)
		}
		fn(t)
		return nil
	})
}

func findTodo(todos []domain.TodoItem, id string) *domain.TodoItem {
	for i := range todos {
		if todos[i].ID == id {
			return &todos[i]
		}
	}
	return nil
}
