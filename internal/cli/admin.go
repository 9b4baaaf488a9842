package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/flowvera/flowvera/pkg/client"
	"github.com/spf13/cobra"
)

func newAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "User administration (admin role required)",
	}

	users := &cobra.Command{
		Use:   "users",
		Short: "Manage users",
	}
	users.AddCommand(newAdminUsersListCmd())
	users.AddCommand(newAdminUsersUpdateCmd())
	users.AddCommand(newAdminUsersDeleteCmd())
	cmd.AddCommand(users)

	return cmd
}

func newAdminUsersListCmd() *cobra.Command {
	var page, pageSize int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List users",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := apiClient.Admin.ListUsers(context.Background(), page, pageSize)
			if err != nil {
				return fmt.Errorf("failed to list users: %w", err)
			}

			out := cmd.OutOrStdout()
			if ok, err := structured(out, result); ok {
				return err
			}

			t := NewTable(out, "ID", "EMAIL", "NAME", "ROLE", "ACTIVE")
			for _, u := range result.Data {
				u := u
				t.AddRow(u.ID, u.Email, displayName(&u, "-"), u.Role, strconv.FormatBool(u.IsActive))
			}
			t.Render()
			fmt.Fprintf(out, "\nPage %d of %d (%d users)\n", result.Page, result.TotalPages, result.TotalItems)
			return nil
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 20, "users per page")

	return cmd
}

func newAdminUsersUpdateCmd() *cobra.Command {
	var active bool

	cmd := &cobra.Command{
		Use:   "update <user-id>",
		Short: "Change a user's name, role or active flag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			req := client.UpdateUserRequest{
				FirstName: optional(flags, "first-name"),
				LastName:  optional(flags, "last-name"),
				Role:      optional(flags, "role"),
			}
			if flags.Changed("active") {
				req.IsActive = &active
			}

			user, err := apiClient.Admin.UpdateUser(context.Background(), args[0], req)
			if err != nil {
				return fmt.Errorf("failed to update user: %w", err)
			}

			out := cmd.OutOrStdout()
			if ok, err := structured(out, user); ok {
				return err
			}
			fmt.Fprintf(out, "User updated: %s (%s, active=%t)\n", user.Email, user.Role, user.IsActive)
			return nil
		},
	}

	cmd.Flags().String("first-name", "", "first name")
	cmd.Flags().String("last-name", "", "last name")
	cmd.Flags().String("role", "", "role (admin, manager, user)")
	cmd.Flags().BoolVar(&active, "active", true, "whether the user may sign in")

	return cmd
}

func newAdminUsersDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <user-id>",
		Short: "Delete a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := apiClient.Admin.DeleteUser(context.Background(), args[0]); err != nil {
				return fmt.Errorf("failed to delete user: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "User deleted successfully")
			return nil
		},
	}
}
