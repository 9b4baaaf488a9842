package crm

import "context"

// Service defines owner-scoped CRM operations
type Service interface {
	CreateContact(ctx context.Context, ownerID string, in CreateContactInput) (*Contact, error)
	ListContacts(ctx context.Context, ownerID string) ([]*Contact, error)
	GetContact(ctx context.Context, id, ownerID string) (*Contact, error)
	UpdateContact(ctx context.Context, id, ownerID string, in UpdateContactInput) (*Contact, error)
	DeleteContact(ctx context.Context, id, ownerID string) error

	CreateCompany(ctx context.Context, ownerID string, in CreateCompanyInput) (*Company, error)
	ListCompanies(ctx context.Context, ownerID string) ([]*Company, error)
	GetCompany(ctx context.Context, id, ownerID string) (*Company, error)
	UpdateCompany(ctx context.Context, id, ownerID string, in UpdateCompanyInput) (*Company, error)
	DeleteCompany(ctx context.Context, id, ownerID string) error
	ListContactsByCompany(ctx context.Context, companyID, ownerID string) ([]*Contact, error)
}
