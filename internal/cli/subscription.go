package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/flowvera/flowvera/pkg/client"
	"github.com/spf13/cobra"
)

func newSubscriptionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "subscription",
		Aliases: []string{"sub"},
		Short:   "View plans and manage your subscription",
	}

	cmd.AddCommand(withAccess(newSubscriptionPlansCmd(), accessPublic))
	cmd.AddCommand(newSubscriptionShowCmd())
	cmd.AddCommand(newSubscriptionMutateCmd("subscribe", "Subscribe to a plan", true))
	cmd.AddCommand(newSubscriptionMutateCmd("change", "Move to another plan", true))
	cmd.AddCommand(newSubscriptionMutateCmd("cancel", "Cancel your subscription", false))

	return cmd
}

func newSubscriptionPlansCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plans",
		Short: "List available plans",
		RunE: func(cmd *cobra.Command, args []string) error {
			plans, err := apiClient.Subscriptions.Plans(context.Background())
			if err != nil {
				return fmt.Errorf("failed to list plans: %w", err)
			}

			out := cmd.OutOrStdout()
			if ok, err := structured(out, plans); ok {
				return err
			}

			t := NewTable(out, "ID", "NAME", "PRICE/USER", "USERS", "PROJECTS", "CONTACTS")
			for _, p := range plans {
				t.AddRow(p.ID, p.Name, fmt.Sprintf("%.2f %s", p.PricePerUser, p.Currency),
					limit(p.Limits.MaxUsers), limit(p.Limits.MaxProjects), limit(p.Limits.MaxContacts))
			}
			t.Render()
			return nil
		},
	}
}

// limit renders -1 as unlimited
func limit(n int) string {
	if n < 0 {
		return "unlimited"
	}
	return fmt.Sprint(n)
}

func newSubscriptionShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show your current subscription",
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := apiClient.Subscriptions.Get(context.Background())
			if err != nil {
				if apiErr, ok := client.AsAPIError(err); ok && apiErr.IsNotFound() {
					fmt.Fprintln(cmd.OutOrStdout(), "No subscription. Run 'flowvera subscription plans' to pick one.")
					return nil
				}
				return fmt.Errorf("failed to get subscription: %w", err)
			}

			out := cmd.OutOrStdout()
			if ok, err := structured(out, info); ok {
				return err
			}
			fmt.Fprintf(out, "Plan:       %s (%s)\n", info.PlanName, info.Plan)
			fmt.Fprintf(out, "Status:     %s\n", formatStatus(info.Status))
			fmt.Fprintf(out, "Access:     %t\n", info.HasAccess)
			fmt.Fprintf(out, "Ends:       %s (%d days left)\n", formatDate(&info.EndDate), info.DaysRemaining)
			if info.TrialEndsAt != nil {
				fmt.Fprintf(out, "Trial ends: %s\n", formatDate(info.TrialEndsAt))
			}
			fmt.Fprintf(out, "Price:      %.2f %s per user\n", info.PricePerUser, info.Currency)
			return nil
		},
	}
}

func newSubscriptionMutateCmd(use, short string, needsPlan bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
	}
	if needsPlan {
		cmd.Use = use + " <plan>"
		cmd.Args = cobra.ExactArgs(1)
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		subs := apiClient.Subscriptions

		var res *client.SubscriptionResult
		var err error
		switch use {
		case "subscribe":
			res, err = subs.Create(ctx, args[0])
		case "change":
			res, err = subs.Change(ctx, args[0])
		default:
			res, err = subs.Cancel(ctx)
		}
		if err != nil {
			return fmt.Errorf("%s failed: %w", use, err)
		}

		out := cmd.OutOrStdout()
		if ok, err := structured(out, res); ok {
			return err
		}
		printSubscriptionResult(out, res)
		return nil
	}
	return cmd
}

func printSubscriptionResult(w io.Writer, res *client.SubscriptionResult) {
	fmt.Fprintln(w, res.Message)
	if res.Subscription != nil {
		fmt.Fprintf(w, "Plan: %s  Status: %s  Ends: %s\n", res.Subscription.Plan, res.Subscription.Status, formatDate(&res.Subscription.EndDate))
	}
}

func newBillingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "billing",
		Short: "Checkout and billing portal links",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "checkout <plan>",
		Short: "Start a checkout for a paid plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := apiClient.Billing.Checkout(context.Background(), args[0])
			if err != nil {
				return fmt.Errorf("checkout failed: %w", err)
			}

			out := cmd.OutOrStdout()
			if ok, err := structured(out, session); ok {
				return err
			}
			if session.MockMode {
				fmt.Fprintln(out, "Billing runs in mock mode; the plan was activated directly.")
			}
			fmt.Fprintf(out, "Open: %s\n", session.URL)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "portal",
		Short: "Open the billing portal",
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := apiClient.Billing.Portal(context.Background())
			if err != nil {
				return fmt.Errorf("portal failed: %w", err)
			}

			out := cmd.OutOrStdout()
			if ok, err := structured(out, session); ok {
				return err
			}
			fmt.Fprintf(out, "Open: %s\n", session.URL)
			return nil
		},
	})

	return cmd
}
