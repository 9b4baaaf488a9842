package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/flowvera/flowvera/pkg/client"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type statusSummary struct {
	Server     string `json:"server"`
	Version    string `json:"version,omitempty"`
	Healthy    bool   `json:"healthy"`
	Ready      string `json:"ready"`
	User       string `json:"user,omitempty"`
	Plan       string `json:"plan,omitempty"`
	PlanStatus string `json:"planStatus,omitempty"`
	DaysLeft   int    `json:"daysRemaining,omitempty"`
	HasAccess  bool   `json:"hasAccess"`
	Projects   int    `json:"projects"`
	Contacts   int    `json:"contacts"`
	Companies  int    `json:"companies"`
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show server health and a workspace summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			summary := collectStatus(ctx)

			out := cmd.OutOrStdout()
			if ok, err := structured(out, summary); ok {
				return err
			}

			fmt.Fprintln(out, "Flowvera")
			fmt.Fprintln(out, strings.Repeat("=", 40))
			health := "[-] unreachable"
			if summary.Healthy {
				health = "[+] ok"
				if summary.Version != "" {
					health += " (" + summary.Version + ")"
				}
			}
			fmt.Fprintf(out, "  Server:     %s %s\n", summary.Server, health)
			if summary.Healthy {
				fmt.Fprintf(out, "  Readiness:  %s\n", summary.Ready)
			}

			if summary.User == "" {
				fmt.Fprintln(out, "  Account:    not logged in")
				return nil
			}
			fmt.Fprintf(out, "  Account:    %s\n", summary.User)
			if summary.Plan != "" {
				fmt.Fprintf(out, "  Plan:       %s (%s, %d days left)\n", summary.Plan, formatStatus(summary.PlanStatus), summary.DaysLeft)
			} else {
				fmt.Fprintln(out, "  Plan:       none")
			}
			fmt.Fprintf(out, "  Projects:   %d\n", summary.Projects)
			fmt.Fprintf(out, "  Contacts:   %d\n", summary.Contacts)
			fmt.Fprintf(out, "  Companies:  %d\n", summary.Companies)
			return nil
		},
	}
}

// collectStatus never fails; sections that cannot be loaded stay empty
func collectStatus(ctx context.Context) statusSummary {
	summary := statusSummary{Server: viper.GetString("server_url")}
	if serverURL != "" {
		summary.Server = serverURL
	}

	if health, err := apiClient.Health(ctx); err == nil {
		summary.Healthy = true
		summary.Version = health.Version
	}
	summary.Ready = "ready"
	if _, err := apiClient.Ready(ctx); err != nil {
		summary.Ready = err.Error()
		if apiErr, ok := client.AsAPIError(err); ok {
			summary.Ready = apiErr.Message
		}
	}

	token := viper.GetString("auth.token")
	if token == "" {
		return summary
	}
	apiClient.SetToken(token)

	user, err := apiClient.Auth.Profile(ctx)
	if err != nil {
		return summary
	}
	summary.User = user.Email

	if info, err := apiClient.Subscriptions.Get(ctx); err == nil {
		summary.Plan = info.PlanName
		summary.PlanStatus = info.Status
		summary.DaysLeft = info.DaysRemaining
		summary.HasAccess = info.HasAccess
	}
	if projects, err := apiClient.Projects.List(ctx); err == nil {
		summary.Projects = len(projects)
	}
	if contacts, err := apiClient.CRM.ListContacts(ctx); err == nil {
		summary.Contacts = len(contacts)
	}
	if companies, err := apiClient.CRM.ListCompanies(ctx); err == nil {
		summary.Companies = len(companies)
	}
	return summary
}
