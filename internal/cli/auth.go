package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"

	"github.com/flowvera/flowvera/pkg/client"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authentication commands",
	}

	cmd.AddCommand(withAccess(newAuthLoginCmd(), accessPublic))
	cmd.AddCommand(withAccess(newAuthRegisterCmd(), accessPublic))
	cmd.AddCommand(withAccess(newAuthRefreshCmd(), accessPublic))
	cmd.AddCommand(withAccess(newAuthLogoutCmd(), accessOffline))
	cmd.AddCommand(newAuthWhoamiCmd())
	cmd.AddCommand(newAuthPasswordCmd())

	return cmd
}

func newAuthLoginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Login with email and password",
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" {
				email = promptInput(cmd, "Email: ")
			}
			if password == "" {
				password = promptPassword(cmd, "Password: ")
			}

			resp, err := apiClient.Auth.Login(context.Background(), email, password)
			if err != nil {
				return fmt.Errorf("login failed: %w", err)
			}
			if err := storeCredentials(resp); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", displayName(resp.User, email))
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password")

	return cmd
}

func newAuthRegisterCmd() *cobra.Command {
	var email, password, firstName, lastName string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a new account",
		Long:  "Register a new account. New accounts start on the free trial.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" {
				email = promptInput(cmd, "Email: ")
			}
			if password == "" {
				password = promptPassword(cmd, "Password: ")
				confirm := promptPassword(cmd, "Confirm password: ")
				if password != confirm {
					return fmt.Errorf("passwords do not match")
				}
			}

			req := client.RegisterRequest{Email: email, Password: password}
			if firstName != "" {
				req.FirstName = &firstName
			}
			if lastName != "" {
				req.LastName = &lastName
			}

			resp, err := apiClient.Auth.Register(context.Background(), req)
			if err != nil {
				return fmt.Errorf("registration failed: %w", err)
			}
			if err := storeCredentials(resp); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Account created. Logged in as %s\n", email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password")
	cmd.Flags().StringVar(&firstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&lastName, "last-name", "", "last name")

	return cmd
}

func newAuthRefreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Exchange the stored refresh token for new tokens",
		RunE: func(cmd *cobra.Command, args []string) error {
			refreshToken := viper.GetString("auth.refresh_token")
			if refreshToken == "" {
				return fmt.Errorf("no refresh token stored. Run 'flowvera auth login' first")
			}

			resp, err := apiClient.Auth.Refresh(context.Background(), refreshToken)
			if err != nil {
				return fmt.Errorf("refresh failed: %w", err)
			}
			if err := storeCredentials(resp); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Tokens refreshed")
			return nil
		},
	}
}

func newAuthLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear stored credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			viper.Set("auth.token", "")
			viper.Set("auth.refresh_token", "")
			viper.Set("auth.email", "")

			if _, err := writeConfig(); err != nil {
				return fmt.Errorf("failed to clear credentials: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Logged out successfully")
			return nil
		},
	}
}

func newAuthWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show current user info",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := apiClient.Auth.Profile(context.Background())
			if err != nil {
				return fmt.Errorf("failed to get user info: %w", err)
			}

			out := cmd.OutOrStdout()
			if ok, err := structured(out, user); ok {
				return err
			}

			fmt.Fprintf(out, "Email:  %s\n", user.Email)
			if name := displayName(user, ""); name != "" {
				fmt.Fprintf(out, "Name:   %s\n", name)
			}
			fmt.Fprintf(out, "Role:   %s\n", user.Role)
			fmt.Fprintf(out, "Active: %t\n", user.IsActive)
			fmt.Fprintf(out, "ID:     %s\n", user.ID)
			return nil
		},
	}
}

func newAuthPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "password",
		Short: "Change your password",
		RunE: func(cmd *cobra.Command, args []string) error {
			current := promptPassword(cmd, "Current password: ")
			next := promptPassword(cmd, "New password: ")
			if next != promptPassword(cmd, "Confirm new password: ") {
				return fmt.Errorf("passwords do not match")
			}

			if err := apiClient.Auth.ChangePassword(context.Background(), current, next); err != nil {
				return fmt.Errorf("failed to change password: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Password changed")
			return nil
		},
	}
}

func storeCredentials(resp *client.AuthResponse) error {
	viper.Set("auth.token", resp.AccessToken)
	if resp.RefreshToken != "" {
		viper.Set("auth.refresh_token", resp.RefreshToken)
	}
	if resp.User != nil {
		viper.Set("auth.email", resp.User.Email)
	}

	if _, err := writeConfig(); err != nil {
		return fmt.Errorf("failed to save credentials: %w", err)
	}
	return nil
}

func displayName(u *client.User, fallback string) string {
	if u == nil {
		return fallback
	}
	name := strings.TrimSpace(deref(u.FirstName) + " " + deref(u.LastName))
	if name == "" {
		return fallback
	}
	return name
}

var (
	promptSource io.Reader
	promptReader *bufio.Reader
)

// readLine keeps one buffered reader per input so consecutive prompts
// do not lose piped data.
func readLine(cmd *cobra.Command) string {
	in := cmd.InOrStdin()
	if in != promptSource {
		promptSource = in
		promptReader = bufio.NewReader(in)
	}
	line, _ := promptReader.ReadString('\n')
	return strings.TrimSpace(line)
}

func promptInput(cmd *cobra.Command, prompt string) string {
	fmt.Fprint(cmd.OutOrStdout(), prompt)
	return readLine(cmd)
}

// promptPassword hides input on a terminal and falls back to a plain read
// when stdin is piped.
func promptPassword(cmd *cobra.Command, prompt string) string {
	out := cmd.OutOrStdout()
	fmt.Fprint(out, prompt)

	if in, ok := cmd.InOrStdin().(*os.File); ok && in == os.Stdin && term.IsTerminal(int(syscall.Stdin)) {
		password, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Fprintln(out)
		if err != nil {
			return ""
		}
		return string(password)
	}
	return readLine(cmd)
}
