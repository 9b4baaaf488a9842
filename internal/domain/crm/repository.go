package crm

import "context"

// ContactRepository defines the interface for contact data access
type ContactRepository interface {
	Create(ctx context.Context, c *Contact) error
	GetByID(ctx context.Context, id string) (*Contact, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*Contact, error)
	ListByCompany(ctx context.Context, companyID, ownerID string) ([]*Contact, error)
	Update(ctx context.Context, c *Contact) error
	Delete(ctx context.Context, id string) error
}

// CompanyRepository defines the interface for company data access
type CompanyRepository interface {
	Create(ctx context.Context, c *Company) error
	GetByID(ctx context.Context, id string) (*Company, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*Company, error)
	Update(ctx context.Context, c *Company) error
	// Delete clears company_id on the owner's contacts that reference the
	// company, then deletes it, in one transaction
	Delete(ctx context.Context, id, ownerID string) error
}
