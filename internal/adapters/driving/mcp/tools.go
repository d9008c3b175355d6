package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/gplanner/gplan/internal/core/domain"
)

// ListProjectsInput is the input schema for the list_projects tool.
type ListProjectsInput struct{}

// ProjectOutput describes one project.
type ProjectOutput struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	LastModified int64  `json:"last_modified"`
	Open         bool   `json:"open"`
}

// ListProjectsOutput is the output schema for the list_projects tool.
type ListProjectsOutput struct {
	Projects []ProjectOutput `json:"projects"`
	Count    int             `json:"count"`
}

// BoardInputsInput is the input schema for the board_inputs tool.
type BoardInputsInput struct {
	Project string `json:"project,omitempty" jsonschema:"project id or name; defaults to the open project"`
	CardID  string `json:"card_id" jsonschema:"the card whose incoming connections to read"`
}

// BoardInputsOutput is the output schema for the board_inputs tool.
type BoardInputsOutput struct {
	Inputs []string `json:"inputs"`
	Count  int      `json:"count"`
}

// DocumentOutlineInput is the input schema for the document_outline tool.
type DocumentOutlineInput struct {
	Project    string `json:"project,omitempty" jsonschema:"project id or name; defaults to the open project"`
	DocumentID string `json:"document_id" jsonschema:"the document to outline"`
}

// HeadingOutput is one outline entry.
type HeadingOutput struct {
	Level    int    `json:"level"`
	Text     string `json:"text"`
	Position int    `json:"pos"`
}

// DocumentOutlineOutput is the output schema for the document_outline tool.
type DocumentOutlineOutput struct {
	Title    string          `json:"title"`
	Headings []HeadingOutput `json:"headings"`
}

// EvaluateConditionInput is the input schema for the evaluate_condition tool.
type EvaluateConditionInput struct {
	Expression string             `json:"expression" jsonschema:"a condition such as 'GOLD >= 10'"`
	Vars       map[string]float64 `json:"vars,omitempty" jsonschema:"variable values; HP, GOLD and KEY default to 100, 0 and 0"`
}

// EvaluateConditionOutput is the output schema for the evaluate_condition tool.
type EvaluateConditionOutput struct {
	Valid  bool   `json:"valid"`
	Result bool   `json:"result"`
	Error  string `json:"error,omitempty"`
}

// AddNoteInput is the input schema for the add_note tool.
type AddNoteInput struct {
	Project string   `json:"project,omitempty" jsonschema:"project id or name; defaults to the open project"`
	Text    string   `json:"text" jsonschema:"the note text"`
	X       *float64 `json:"x,omitempty" jsonschema:"world x; omit to place at the visible centre"`
	Y       *float64 `json:"y,omitempty" jsonschema:"world y; omit to place at the visible centre"`
}

// AddNoteOutput is the output schema for the add_note tool.
type AddNoteOutput struct {
	CardID string `json:"card_id"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_projects",
		Description: "List game design projects, newest first",
	}, s.handleListProjects)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "board_inputs",
		Description: "Read the text of every card connected into a whiteboard card",
	}, s.handleBoardInputs)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "document_outline",
		Description: "List the headings of a design document",
	}, s.handleDocumentOutline)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "evaluate_condition",
		Description: "Check a UI prototype condition against variable values",
	}, s.handleEvaluateCondition)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "add_note",
		Description: "Add a text card to a project's whiteboard",
	}, s.handleAddNote)
}

func (s *Server) handleListProjects(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ ListProjectsInput,
) (*mcp.CallToolResult, ListProjectsOutput, error) {
	active, _ := s.ports.Projects.Active()
	list := s.ports.Projects.List()

	output := ListProjectsOutput{
		Projects: make([]ProjectOutput, len(list)),
		Count:    len(list),
	}
	for i, p := range list {
		output.Projects[i] = ProjectOutput{
			ID:           p.ID,
			Name:         p.Name,
			LastModified: p.LastModified,
			Open:         p.ID == active.ID,
		}
	}
	return nil, output, nil
}

func (s *Server) handleBoardInputs(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input BoardInputsInput,
) (*mcp.CallToolResult, BoardInputsOutput, error) {
	if s.ports.Board == nil {
		return nil, BoardInputsOutput{}, fmt.Errorf("board_inputs: %w", ErrToolUnavailable)
	}
	if err := s.useProject(ctx, input.Project); err != nil {
		return nil, BoardInputsOutput{}, err
	}

	inputs, err := s.ports.Board.InputsOf(input.CardID)
	if err != nil {
		return nil, BoardInputsOutput{}, err
	}
	if inputs == nil {
		inputs = []string{}
	}
	return nil, BoardInputsOutput{Inputs: inputs, Count: len(inputs)}, nil
}

func (s *Server) handleDocumentOutline(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DocumentOutlineInput,
) (*mcp.CallToolResult, DocumentOutlineOutput, error) {
	if s.ports.Documents == nil {
		return nil, DocumentOutlineOutput{}, fmt.Errorf("document_outline: %w", ErrToolUnavailable)
	}
	if err := s.useProject(ctx, input.Project); err != nil {
		return nil, DocumentOutlineOutput{}, err
	}

	doc, err := s.ports.Documents.Get(input.DocumentID)
	if err != nil {
		return nil, DocumentOutlineOutput{}, err
	}
	headings, err := s.ports.Documents.Outline(input.DocumentID)
	if err != nil {
		return nil, DocumentOutlineOutput{}, err
	}

	output := DocumentOutlineOutput{
		Title:    doc.Title,
		Headings: make([]HeadingOutput, len(headings)),
	}
	for i, h := range headings {
		output.Headings[i] = HeadingOutput{Level: h.Level, Text: h.Text, Position: h.Position}
	}
	return nil, output, nil
}

func (s *Server) handleEvaluateCondition(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input EvaluateConditionInput,
) (*mcp.CallToolResult, EvaluateConditionOutput, error) {
	cond, err := domain.ParseCondition(input.Expression)
	if err != nil {
		return nil, EvaluateConditionOutput{Error: err.Error()}, nil
	}

	vars := domain.DefaultGlobals()
	for k, v := range input.Vars {
		vars[k] = v
	}
	return nil, EvaluateConditionOutput{Valid: true, Result: cond.Eval(vars)}, nil
}

func (s *Server) handleAddNote(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AddNoteInput,
) (*mcp.CallToolResult, AddNoteOutput, error) {
	if s.ports.Board == nil {
		return nil, AddNoteOutput{}, fmt.Errorf("add_note: %w", ErrToolUnavailable)
	}
	if strings.TrimSpace(input.Text) == "" {
		return nil, AddNoteOutput{}, domain.NewValidationError("text", "must not be empty")
	}
	if err := s.useProject(ctx, input.Project); err != nil {
		return nil, AddNoteOutput{}, err
	}

	var pos *domain.Point
	if input.X != nil && input.Y != nil {
		pos = &domain.Point{X: *input.X, Y: *input.Y}
	}
	node, err := s.ports.Board.AddNode(domain.NodeText, pos, input.Text)
	if err != nil {
		return nil, AddNoteOutput{}, err
	}
	return nil, AddNoteOutput{CardID: node.ID}, nil
}

// useProject opens the project named by ref (id or case-insensitive name).
// An empty ref keeps the open project.
func (s *Server) useProject(ctx context.Context, ref string) error {
	if ref == "" {
		if _, ok := s.ports.Projects.Active(); !ok {
			return domain.ErrNoActiveProject
		}
		return nil
	}
	for _, p := range s.ports.Projects.List() {
		if p.ID == ref || strings.EqualFold(p.Name, ref) {
			if active, ok := s.ports.Projects.Active(); ok && active.ID == p.ID {
				return nil
			}
			return s.ports.Projects.Open(ctx, p.ID)
		}
	}
	return fmt.Errorf("project %s: %w", ref, domain.ErrNotFound)
}
