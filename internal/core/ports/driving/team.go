package driving

import "github.com/gplanner/gplan/internal/core/domain"

// TodoView is a todo with its assignee resolved for display.
type TodoView struct {
	domain.TodoItem
	Assignee string
}

// TeamService edits the open project's roster and task list.
type TeamService interface {
	Members() ([]domain.TeamMember, error)
	AddMember(name string) (domain.TeamMember, error)
	RenameMember(id, name string) error
	SetRole(id, role string) error
	SetAvatar(id, avatar string) error

	// RemoveMember deletes a member. Todos keep the stale assignee id and
	// show as unassigned.
	RemoveMember(id string) error

	Todos() ([]TodoView, error)
	AddTodo(text, assigneeID string) (domain.TodoItem, error)
	ToggleTodo(id string) (bool, error)
	AssignTodo(id, assigneeID string) error
	RemoveTodo(id string) error
}
