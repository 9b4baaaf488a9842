package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/flowvera/flowvera/pkg/client"
	"github.com/spf13/cobra"
)

func newTaskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "task",
		Aliases: []string{"tasks"},
		Short:   "Manage the tasks of a project",
	}

	cmd.PersistentFlags().StringP("project", "p", "", "project ID")
	_ = cmd.MarkPersistentFlagRequired("project")

	cmd.AddCommand(newTaskListCmd())
	cmd.AddCommand(newTaskCreateCmd())
	cmd.AddCommand(newTaskUpdateCmd())
	cmd.AddCommand(newTaskDoneCmd())
	cmd.AddCommand(newTaskDeleteCmd())

	return cmd
}

func projectFlag(cmd *cobra.Command) string {
	id, _ := cmd.Flags().GetString("project")
	return id
}

func renderTasks(w io.Writer, tasks []client.Task) {
	t := NewTable(w, "ID", "TITLE", "STATUS", "PRIORITY", "DUE")
	for _, task := range tasks {
		t.AddRow(task.ID, truncate(task.Title, 40), formatStatus(task.Status), formatPriority(task.Priority), formatDate(task.DueDate))
	}
	t.Render()
}

func newTaskListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			tasks, err := apiClient.Tasks.List(context.Background(), projectFlag(cmd))
			if err != nil {
				return fmt.Errorf("failed to list tasks: %w", err)
			}

			out := cmd.OutOrStdout()
			if ok, err := structured(out, tasks); ok {
				return err
			}
			renderTasks(out, tasks)
			return nil
		},
	}
}

func newTaskCreateCmd() *cobra.Command {
	var title, description, priority, assignee, due string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a task",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := client.CreateTaskRequest{Title: title, Priority: priority}
			if description != "" {
				req.Description = &description
			}
			if assignee != "" {
				req.AssignedTo = &assignee
			}
			if due != "" {
				req.DueDate = &due
			}

			task, err := apiClient.Tasks.Create(context.Background(), projectFlag(cmd), req)
			if err != nil {
				return fmt.Errorf("failed to create task: %w", err)
			}

			out := cmd.OutOrStdout()
			if ok, err := structured(out, task); ok {
				return err
			}
			fmt.Fprintf(out, "Task created: %s (%s)\n", task.Title, task.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "task title")
	cmd.Flags().StringVar(&description, "description", "", "task description")
	cmd.Flags().StringVar(&priority, "priority", "", "priority (low, medium, high, urgent)")
	cmd.Flags().StringVar(&assignee, "assign", "", "assignee user ID")
	cmd.Flags().StringVar(&due, "due", "", "due date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func newTaskUpdateCmd() *cobra.Command {
	var title, description, status, priority, assignee, due string

	cmd := &cobra.Command{
		Use:   "update <task-id>",
		Short: "Update a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var req client.UpdateTaskRequest
			flags := cmd.Flags()
			for name, dst := range map[string]**string{
				"title":       &req.Title,
				"description": &req.Description,
				"status":      &req.Status,
				"priority":    &req.Priority,
				"assign":      &req.AssignedTo,
				"due":         &req.DueDate,
			} {
				if flags.Changed(name) {
					v, _ := flags.GetString(name)
					*dst = &v
				}
			}

			return updateTask(cmd, args[0], req)
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "task title")
	cmd.Flags().StringVar(&description, "description", "", "task description")
	cmd.Flags().StringVar(&status, "status", "", "status (todo, in_progress, in_review, done)")
	cmd.Flags().StringVar(&priority, "priority", "", "priority (low, medium, high, urgent)")
	cmd.Flags().StringVar(&assignee, "assign", "", "assignee user ID")
	cmd.Flags().StringVar(&due, "due", "", "due date (YYYY-MM-DD)")

	return cmd
}

func newTaskDoneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "done <task-id>",
		Short: "Mark a task as done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			done := "done"
			return updateTask(cmd, args[0], client.UpdateTaskRequest{Status: &done})
		},
	}
}

func updateTask(cmd *cobra.Command, id string, req client.UpdateTaskRequest) error {
	task, err := apiClient.Tasks.Update(context.Background(), projectFlag(cmd), id, req)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}

	out := cmd.OutOrStdout()
	if ok, err := structured(out, task); ok {
		return err
	}
	fmt.Fprintf(out, "Task updated: %s (%s)\n", task.ID, task.Status)
	return nil
}

func newTaskDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <task-id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := apiClient.Tasks.Delete(context.Background(), projectFlag(cmd), args[0]); err != nil {
				return fmt.Errorf("failed to delete task: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Task deleted successfully")
			return nil
		},
	}
}
