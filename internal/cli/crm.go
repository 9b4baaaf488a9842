package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/flowvera/flowvera/pkg/client"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// optional returns a pointer to the flag value when the flag was given
func optional(flags *pflag.FlagSet, name string) *string {
	if !flags.Changed(name) {
		return nil
	}
	v, _ := flags.GetString(name)
	return &v
}

func newContactCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "contact",
		Aliases: []string{"contacts"},
		Short:   "Manage CRM contacts",
	}

	cmd.AddCommand(newContactListCmd())
	cmd.AddCommand(newContactGetCmd())
	cmd.AddCommand(newContactCreateCmd())
	cmd.AddCommand(newContactUpdateCmd())
	cmd.AddCommand(newContactDeleteCmd())

	return cmd
}

func renderContacts(w io.Writer, contacts []client.Contact) {
	t := NewTable(w, "ID", "NAME", "EMAIL", "TYPE", "COMPANY")
	for _, c := range contacts {
		company := "-"
		if c.CompanyID != nil {
			company = *c.CompanyID
		}
		name := strings.TrimSpace(c.FirstName + " " + c.LastName)
		t.AddRow(c.ID, truncate(name, 30), c.Email, formatStatus(c.Type), company)
	}
	t.Render()
}

func newContactListCmd() *cobra.Command {
	var companyID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List contacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			var contacts []client.Contact
			var err error
			if companyID != "" {
				contacts, err = apiClient.CRM.ListCompanyContacts(ctx, companyID)
			} else {
				contacts, err = apiClient.CRM.ListContacts(ctx)
			}
			if err != nil {
				return fmt.Errorf("failed to list contacts: %w", err)
			}

			out := cmd.OutOrStdout()
			if ok, err := structured(out, contacts); ok {
				return err
			}
			renderContacts(out, contacts)
			return nil
		},
	}

	cmd.Flags().StringVar(&companyID, "company", "", "only contacts of this company")

	return cmd
}

func newContactGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <contact-id>",
		Short: "Show a contact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			contact, err := apiClient.CRM.GetContact(context.Background(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get contact: %w", err)
			}

			out := cmd.OutOrStdout()
			if ok, err := structured(out, contact); ok {
				return err
			}
			fmt.Fprintf(out, "ID:      %s\n", contact.ID)
			fmt.Fprintf(out, "Name:    %s %s\n", contact.FirstName, contact.LastName)
			fmt.Fprintf(out, "Email:   %s\n", contact.Email)
			fmt.Fprintf(out, "Type:    %s\n", contact.Type)
			if contact.Phone != nil {
				fmt.Fprintf(out, "Phone:   %s\n", *contact.Phone)
			}
			if contact.CompanyID != nil {
				fmt.Fprintf(out, "Company: %s\n", *contact.CompanyID)
			}
			if contact.Notes != nil {
				fmt.Fprintf(out, "Notes:   %s\n", *contact.Notes)
			}
			return nil
		},
	}
}

func newContactCreateCmd() *cobra.Command {
	var firstName, lastName, email, contactType string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a contact",
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			contact, err := apiClient.CRM.CreateContact(context.Background(), client.CreateContactRequest{
				FirstName: firstName,
				LastName:  lastName,
				Email:     email,
				Type:      contactType,
				Phone:     optional(flags, "phone"),
				CompanyID: optional(flags, "company"),
				Notes:     optional(flags, "notes"),
			})
			if err != nil {
				return fmt.Errorf("failed to create contact: %w", err)
			}

			out := cmd.OutOrStdout()
			if ok, err := structured(out, contact); ok {
				return err
			}
			fmt.Fprintf(out, "Contact created: %s %s (%s)\n", contact.FirstName, contact.LastName, contact.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&firstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&lastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&contactType, "type", "", "contact type (lead, client, prospect)")
	cmd.Flags().String("phone", "", "phone number")
	cmd.Flags().String("company", "", "company ID")
	cmd.Flags().String("notes", "", "free-form notes")
	_ = cmd.MarkFlagRequired("first-name")
	_ = cmd.MarkFlagRequired("last-name")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func newContactUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <contact-id>",
		Short: "Update a contact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			contact, err := apiClient.CRM.UpdateContact(context.Background(), args[0], client.UpdateContactRequest{
				FirstName: optional(flags, "first-name"),
				LastName:  optional(flags, "last-name"),
				Email:     optional(flags, "email"),
				Phone:     optional(flags, "phone"),
				CompanyID: optional(flags, "company"),
				Type:      optional(flags, "type"),
				Notes:     optional(flags, "notes"),
			})
			if err != nil {
				return fmt.Errorf("failed to update contact: %w", err)
			}

			out := cmd.OutOrStdout()
			if ok, err := structured(out, contact); ok {
				return err
			}
			fmt.Fprintf(out, "Contact updated: %s\n", contact.ID)
			return nil
		},
	}

	cmd.Flags().String("first-name", "", "first name")
	cmd.Flags().String("last-name", "", "last name")
	cmd.Flags().String("email", "", "email address")
	cmd.Flags().String("type", "", "contact type (lead, client, prospect)")
	cmd.Flags().String("phone", "", "phone number")
	cmd.Flags().String("company", "", "company ID")
	cmd.Flags().String("notes", "", "free-form notes")

	return cmd
}

func newContactDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <contact-id>",
		Short: "Delete a contact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := apiClient.CRM.DeleteContact(context.Background(), args[0]); err != nil {
				return fmt.Errorf("failed to delete contact: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Contact deleted successfully")
			return nil
		},
	}
}

func newCompanyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "company",
		Aliases: []string{"companies"},
		Short:   "Manage CRM companies",
	}

	cmd.AddCommand(newCompanyListCmd())
	cmd.AddCommand(newCompanyGetCmd())
	cmd.AddCommand(newCompanyCreateCmd())
	cmd.AddCommand(newCompanyUpdateCmd())
	cmd.AddCommand(newCompanyDeleteCmd())

	return cmd
}

func newCompanyListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List companies",
		RunE: func(cmd *cobra.Command, args []string) error {
			companies, err := apiClient.CRM.ListCompanies(context.Background())
			if err != nil {
				return fmt.Errorf("failed to list companies: %w", err)
			}

			out := cmd.OutOrStdout()
			if ok, err := structured(out, companies); ok {
				return err
			}

			t := NewTable(out, "ID", "NAME", "INDUSTRY", "SIZE", "WEBSITE")
			for _, c := range companies {
				t.AddRow(c.ID, truncate(c.Name, 30), deref(c.Industry), deref(c.Size), deref(c.Website))
			}
			t.Render()
			return nil
		},
	}
}

func newCompanyGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <company-id>",
		Short: "Show a company and its contacts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			company, err := apiClient.CRM.GetCompany(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to get company: %w", err)
			}
			contacts, err := apiClient.CRM.ListCompanyContacts(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to list contacts: %w", err)
			}

			out := cmd.OutOrStdout()
			if ok, err := structured(out, map[string]interface{}{"company": company, "contacts": contacts}); ok {
				return err
			}
			fmt.Fprintf(out, "ID:       %s\n", company.ID)
			fmt.Fprintf(out, "Name:     %s\n", company.Name)
			if company.Industry != nil {
				fmt.Fprintf(out, "Industry: %s\n", *company.Industry)
			}
			if company.Size != nil {
				fmt.Fprintf(out, "Size:     %s\n", *company.Size)
			}
			if company.Website != nil {
				fmt.Fprintf(out, "Website:  %s\n", *company.Website)
			}
			fmt.Fprintf(out, "Contacts: %d\n", len(contacts))
			if len(contacts) > 0 {
				fmt.Fprintln(out)
				renderContacts(out, contacts)
			}
			return nil
		},
	}
}

func companyFlags(cmd *cobra.Command) {
	cmd.Flags().String("industry", "", "industry")
	cmd.Flags().String("size", "", "size (small, medium, large, enterprise)")
	cmd.Flags().String("website", "", "website URL")
	cmd.Flags().String("address", "", "postal address")
	cmd.Flags().String("notes", "", "free-form notes")
}

func newCompanyCreateCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a company",
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			company, err := apiClient.CRM.CreateCompany(context.Background(), client.CreateCompanyRequest{
				Name:     name,
				Industry: optional(flags, "industry"),
				Size:     optional(flags, "size"),
				Website:  optional(flags, "website"),
				Address:  optional(flags, "address"),
				Notes:    optional(flags, "notes"),
			})
			if err != nil {
				return fmt.Errorf("failed to create company: %w", err)
			}

			out := cmd.OutOrStdout()
			if ok, err := structured(out, company); ok {
				return err
			}
			fmt.Fprintf(out, "Company created: %s (%s)\n", company.Name, company.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "company name")
	companyFlags(cmd)
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newCompanyUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <company-id>",
		Short: "Update a company",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			company, err := apiClient.CRM.UpdateCompany(context.Background(), args[0], client.UpdateCompanyRequest{
				Name:     optional(flags, "name"),
				Industry: optional(flags, "industry"),
				Size:     optional(flags, "size"),
				Website:  optional(flags, "website"),
				Address:  optional(flags, "address"),
				Notes:    optional(flags, "notes"),
			})
			if err != nil {
				return fmt.Errorf("failed to update company: %w", err)
			}

			out := cmd.OutOrStdout()
			if ok, err := structured(out, company); ok {
				return err
			}
			fmt.Fprintf(out, "Company updated: %s\n", company.ID)
			return nil
		},
	}

	cmd.Flags().String("name", "", "company name")
	companyFlags(cmd)

	return cmd
}

func newCompanyDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <company-id>",
		Short: "Delete a company; its contacts are kept and unlinked",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := apiClient.CRM.DeleteCompany(context.Background(), args[0]); err != nil {
				return fmt.Errorf("failed to delete company: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Company deleted successfully")
			return nil
		},
	}
}
