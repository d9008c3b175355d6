package domain

// DefaultRole is assigned to new team members.
const DefaultRole = "Designer"

// Unassigned is shown for todos without a resolvable assignee.
const Unassigned = "unassigned"

// MemberColors is the palette new members draw their tag from.
var MemberColors = []string{"red", "blue", "emerald", "purple", "yellow", "orange", "pink"}

// TeamMember is a person on the project.
type TeamMember struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	Color  string `json:"color"`
	Avatar string `json:"avatar,omitempty"`
}

// TodoItem is a task. AssigneeID is a weak reference to a TeamMember.
type TodoItem struct {
	ID         string `json:"id"`
	Text       string `json:"text"`
	Done       bool   `json:"done"`
	AssigneeID string `json:"assigneeId,omitempty"`
}

// MemberByID returns the member with id, or nil.
func MemberByID(members []TeamMember, id string) *TeamMember {
	if id == "" {
		return nil
	}
	for i := range members {
		if members[i].ID == id {
			return &members[i]
		}
	}
	return nil
}

// AssigneeName resolves the todo's assignee, degrading to Unassigned.
func (t TodoItem) AssigneeName(members []TeamMember) string {
	if m := MemberByID(members, t.AssigneeID); m != nil {
		return m.Name
	}
	return Unassigned
}

// PendingTodos counts todos not yet done.
func PendingTodos(todos []TodoItem) int {
	n := 0
	for _, t := range todos {
		if !t.Done {
			n++
		}
	}
	return n
}
