package cli

import (
	"context"
	"fmt"

	"github.com/flowvera/flowvera/pkg/client"
	"github.com/spf13/cobra"
)

func newProjectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "project",
		Aliases: []string{"projects"},
		Short:   "Manage projects",
	}

	cmd.AddCommand(newProjectListCmd())
	cmd.AddCommand(newProjectGetCmd())
	cmd.AddCommand(newProjectCreateCmd())
	cmd.AddCommand(newProjectUpdateCmd())
	cmd.AddCommand(newProjectDeleteCmd())

	return cmd
}

func newProjectListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			projects, err := apiClient.Projects.List(context.Background())
			if err != nil {
				return fmt.Errorf("failed to list projects: %w", err)
			}

			out := cmd.OutOrStdout()
			if ok, err := structured(out, projects); ok {
				return err
			}

			t := NewTable(out, "ID", "NAME", "STATUS", "CREATED")
			for _, p := range projects {
				t.AddRow(p.ID, truncate(p.Name, 40), formatStatus(p.Status), p.CreatedAt.Format("2006-01-02"))
			}
			t.Render()
			fmt.Fprintf(out, "\n%d projects\n", len(projects))
			return nil
		},
	}
}

func newProjectGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <project-id>",
		Short: "Show a project and its tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			project, err := apiClient.Projects.Get(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to get project: %w", err)
			}
			tasks, err := apiClient.Tasks.List(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to list tasks: %w", err)
			}

			out := cmd.OutOrStdout()
			if ok, err := structured(out, map[string]interface{}{"project": project, "tasks": tasks}); ok {
				return err
			}

			fmt.Fprintf(out, "ID:          %s\n", project.ID)
			fmt.Fprintf(out, "Name:        %s\n", project.Name)
			fmt.Fprintf(out, "Status:      %s\n", formatStatus(project.Status))
			if project.Description != nil {
				fmt.Fprintf(out, "Description: %s\n", *project.Description)
			}
			fmt.Fprintf(out, "Tasks:       %d\n", len(tasks))
			if len(tasks) > 0 {
				fmt.Fprintln(out)
				renderTasks(out, tasks)
			}
			return nil
		},
	}
}

func newProjectCreateCmd() *cobra.Command {
	var name, description, status string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := client.CreateProjectRequest{Name: name, Status: status}
			if description != "" {
				req.Description = &description
			}

			project, err := apiClient.Projects.Create(context.Background(), req)
			if err != nil {
				return fmt.Errorf("failed to create project: %w", err)
			}

			out := cmd.OutOrStdout()
			if ok, err := structured(out, project); ok {
				return err
			}
			fmt.Fprintf(out, "Project created: %s (%s)\n", project.Name, project.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "project name")
	cmd.Flags().StringVar(&description, "description", "", "project description")
	cmd.Flags().StringVar(&status, "status", "", "initial status (active, on_hold, completed, archived)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newProjectUpdateCmd() *cobra.Command {
	var name, description, status string

	cmd := &cobra.Command{
		Use:   "update <project-id>",
		Short: "Update a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var req client.UpdateProjectRequest
			flags := cmd.Flags()
			if flags.Changed("name") {
				req.Name = &name
			}
			if flags.Changed("description") {
				req.Description = &description
			}
			if flags.Changed("status") {
				req.Status = &status
			}

			project, err := apiClient.Projects.Update(context.Background(), args[0], req)
			if err != nil {
				return fmt.Errorf("failed to update project: %w", err)
			}

			out := cmd.OutOrStdout()
			if ok, err := structured(out, project); ok {
				return err
			}
			fmt.Fprintf(out, "Project updated: %s\n", project.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "project name")
	cmd.Flags().StringVar(&description, "description", "", "project description")
	cmd.Flags().StringVar(&status, "status", "", "status (active, on_hold, completed, archived)")

	return cmd
}

func newProjectDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <project-id>",
		Short: "Delete a project and all of its tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := apiClient.Projects.Delete(context.Background(), args[0]); err != nil {
				return fmt.Errorf("failed to delete project: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Project deleted successfully")
			return nil
		},
	}
}
