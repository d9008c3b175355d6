package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	teamJSON     bool
	todoAssignee string
)

var teamCmd = &cobra.Command{
	Use:   "team",
	Short: "Manage the project roster",
}

var teamListCmd = &cobra.Command{
	Use:   "list",
	Short: "List team members",
	Args:  cobra.NoArgs,
	RunE:  runTeamList,
}

var teamAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Add a team member",
	Args:  cobra.ExactArgs(1),
	RunE:  runTeamAdd,
}

var teamRenameCmd = &cobra.Command{
	Use:   "rename [member-id] [name]",
	Short: "Rename a team member",
	Args:  cobra.ExactArgs(2),
	RunE:  runTeamRename,
}

var teamRoleCmd = &cobra.Command{
	Use:   "role [member-id] [role]",
	Short: "Set a member's role",
	Args:  cobra.ExactArgs(2),
	RunE:  runTeamRole,
}

var teamRemoveCmd = &cobra.Command{
	Use:   "remove [member-id]",
	Short: "Remove a team member",
	Long:  `Remove a team member. Their todos stay and show as unassigned.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runTeamRemove,
}

var todoCmd = &cobra.Command{
	Use:     "todo",
	Aliases: []string{"todos"},
	Short:   "Manage the project task list",
}

var todoListCmd = &cobra.Command{
	Use:   "list",
	Short: "List todos",
	Args:  cobra.NoArgs,
	RunE:  runTodoList,
}

var todoAddCmd = &cobra.Command{
	Use:   "add [text]",
	Short: "Add a todo",
	Args:  cobra.ExactArgs(1),
	RunE:  runTodoAdd,
}

var todoDoneCmd = &cobra.Command{
	Use:   "done [todo-id]",
	Short: "Toggle a todo's done flag",
	Args:  cobra.ExactArgs(1),
	RunE:  runTodoDone,
}

var todoAssignCmd = &cobra.Command{
	Use:   "assign [todo-id] [member-id]",
	Short: "Assign a todo, or clear the assignee when no member is given",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runTodoAssign,
}

var todoRemoveCmd = &cobra.Command{
	Use:   "remove [todo-id]",
	Short: "Remove a todo",
	Args:  cobra.ExactArgs(1),
	RunE:  runTodoRemove,
}

func init() {
	teamListCmd.Flags().BoolVar(&teamJSON, "json", false, "output as JSON")
	todoAddCmd.Flags().StringVarP(&todoAssignee, "assign", "a", "", "member id to assign")

	teamCmd.AddCommand(teamListCmd)
	teamCmd.AddCommand(teamAddCmd)
	teamCmd.AddCommand(teamRenameCmd)
	teamCmd.AddCommand(teamRoleCmd)
	teamCmd.AddCommand(teamRemoveCmd)
	rootCmd.AddCommand(teamCmd)

	todoCmd.AddCommand(todoListCmd)
	todoCmd.AddCommand(todoAddCmd)
	todoCmd.AddCommand(todoDoneCmd)
	todoCmd.AddCommand(todoAssignCmd)
	todoCmd.AddCommand(todoRemoveCmd)
	rootCmd.AddCommand(todoCmd)
}

func teamReady(cmd *cobra.Command) error {
	if err := requireService(teamService, "team"); err != nil {
		return err
	}
	_, err := useProject(cmd)
	return err
}

func runTeamList(cmd *cobra.Command, _ []string) error {
	if err := teamReady(cmd); err != nil {
		return err
	}
	members, err := teamService.Members()
	if err != nil {
		return fmt.Errorf("failed to list members: %w", err)
	}
	if teamJSON {
		return printJSON(cmd, members)
	}
	if len(members) == 0 {
		cmd.Println("No team members yet.")
		return nil
	}
	for _, m := range members {
		cmd.Printf("  %s  %s (%s) %s\n", m.ID, m.Name, m.Role, m.Color)
	}
	return nil
}

func runTeamAdd(cmd *cobra.Command, args []string) error {
	if err := teamReady(cmd); err != nil {
		return err
	}
	m, err := teamService.AddMember(args[0])
	if err != nil {
		return fmt.Errorf("failed to add member: %w", err)
	}
	cmd.Printf("Added %s as %s (%s)\n", m.Name, m.Role, m.ID)
	return nil
}

func runTeamRename(cmd *cobra.Command, args []string) error {
	if err := teamReady(cmd); err != nil {
		return err
	}
	if err := teamService.RenameMember(args[0], args[1]); err != nil {
		return fmt.Errorf("failed to rename member: %w", err)
	}
	cmd.Printf("Renamed %s to %s\n", args[0], args[1])
	return nil
}

func runTeamRole(cmd *cobra.Command, args []string) error {
	if err := teamReady(cmd); err != nil {
		return err
	}
	if err := teamService.SetRole(args[0], args[1]); err != nil {
		return fmt.Errorf("failed to set role: %w", err)
	}
	cmd.Printf("%s is now %s\n", args[0], args[1])
	return nil
}

func runTeamRemove(cmd *cobra.Command, args []string) error {
	if err := teamReady(cmd); err != nil {
		return err
	}
	if err := teamService.RemoveMember(args[0]); err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}
	cmd.Printf("Removed %s\n", args[0])
	return nil
}

func runTodoList(cmd *cobra.Command, _ []string) error {
	if err := teamReady(cmd); err != nil {
		return err
	}
	todos, err := teamService.Todos()
	if err != nil {
		return fmt.Errorf("failed to list todos: %w", err)
	}
	if len(todos) == 0 {
		cmd.Println("Nothing to do.")
		return nil
	}
	pending := 0
	for _, t := range todos {
		box := "[ ]"
		if t.Done {
			box = "[x]"
		} else {
			pending++
		}
		cmd.Printf("%s %s  @%s  (%s)\n", box, t.Text, t.Assignee, t.ID)
	}
	cmd.Println()
	cmd.Printf("%d of %d open\n", pending, len(todos))
	return nil
}

func runTodoAdd(cmd *cobra.Command, args []string) error {
	if err := teamReady(cmd); err != nil {
		return err
	}
	t, err := teamService.AddTodo(args[0], todoAssignee)
	if err != nil {
		return fmt.Errorf("failed to add todo: %w", err)
	}
	cmd.Printf("Added todo %s\n", t.ID)
	return nil
}

func runTodoDone(cmd *cobra.Command, args []string) error {
	if err := teamReady(cmd); err != nil {
		return err
	}
	done, err := teamService.ToggleTodo(args[0])
	if err != nil {
		return fmt.Errorf("failed to toggle todo: %w", err)
	}
	if done {
		cmd.Printf("Marked %s done\n", args[0])
	} else {
		cmd.Printf("Reopened %s\n", args[0])
	}
	return nil
}

func runTodoAssign(cmd *cobra.Command, args []string) error {
	if err := teamReady(cmd); err != nil {
		return err
	}
	member := ""
	if len(args) == 2 {
		member = args[1]
	}
	if err := teamService.AssignTodo(args[0], member); err != nil {
		return fmt.Errorf("failed to assign todo: %w", err)
	}
	if member == "" {
		cmd.Printf("Unassigned %s\n", args[0])
	} else {
		cmd.Printf("Assigned %s to %s\n", args[0], member)
	}
	return nil
}

func runTodoRemove(cmd *cobra.Command, args []string) error {
	if err := teamReady(cmd); err != nil {
		return err
	}
	if err := teamService.RemoveTodo(args[0]); err != nil {
		return fmt.Errorf("failed to remove todo: %w", err)
	}
	cmd.Printf("Removed %s\n", args[0])
	return nil
}
