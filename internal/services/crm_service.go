package services

import (
	"context"

	"github.com/flowvera/flowvera/internal/domain/crm"
	"github.com/flowvera/flowvera/internal/pkg/errors"
	"github.com/flowvera/flowvera/internal/pkg/logger"
	"github.com/google/uuid"
)

// CRMService implements crm.Service
type CRMService struct {
	contacts  crm.ContactRepository
	companies crm.CompanyRepository
	logger    *logger.Logger
	now       Clock
}

// NewCRMService creates a new CRM service
func NewCRMService(contacts crm.ContactRepository, companies crm.CompanyRepository, log *logger.Logger) *CRMService {
	return &CRMService{
		contacts:  contacts,
		companies: companies,
		logger:    log,
		now:       SystemClock,
	}
}

// WithClock replaces the time source
func (s *CRMService) WithClock(c Clock) *CRMService {
	s.now = c
	return s
}

// CreateContact creates a contact. CompanyID is stored as given.
func (s *CRMService) CreateContact(ctx context.Context, ownerID string, in crm.CreateContactInput) (*crm.Contact, error) {
	typ := in.Type
	if typ == "" {
		typ = crm.ContactLead
	}
	if !typ.Valid() {
		return nil, errors.BadRequest("Invalid contact type")
	}

	now := s.now()
	c := &crm.Contact{
		ID:        uuid.NewString(),
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Phone:     in.Phone,
		CompanyID: in.CompanyID,
		Type:      typ,
		Notes:     in.Notes,
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.contacts.Create(ctx, c); err != nil {
		s.logger.ErrorWithErr(err, "Failed to create contact")
		return nil, err
	}
	return c, nil
}

// ListContacts returns the owner's contacts
func (s *CRMService) ListContacts(ctx context.Context, ownerID string) ([]*crm.Contact, error) {
	return s.contacts.ListByOwner(ctx, ownerID)
}

// GetContact returns a contact the caller owns
func (s *CRMService) GetContact(ctx context.Context, id, ownerID string) (*crm.Contact, error) {
	c, err := s.contacts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.OwnerID != ownerID {
		return nil, errors.Forbidden("You do not have access to this contact")
	}
	return c, nil
}

// UpdateContact merges the given fields into the contact
func (s *CRMService) UpdateContact(ctx context.Context, id, ownerID string, in crm.UpdateContactInput) (*crm.Contact, error) {
	if in.Type != nil && !in.Type.Valid() {
		return nil, errors.BadRequest("Invalid contact type")
	}

	c, err := s.GetContact(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	in.Apply(c)
	c.UpdatedAt = s.now()
	if err := s.contacts.Update(ctx, c); err != nil {
		s.logger.ErrorWithErr(err, "Failed to update contact")
		return nil, err
	}
	return c, nil
}

// DeleteContact removes a contact
func (s *CRMService) DeleteContact(ctx context.Context, id, ownerID string) error {
	if _, err := s.GetContact(ctx, id, ownerID); err != nil {
		return err
	}
	return s.contacts.Delete(ctx, id)
}

// CreateCompany creates a company
func (s *CRMService) CreateCompany(ctx context.Context, ownerID string, in crm.CreateCompanyInput) (*crm.Company, error) {
	if in.Size != nil && !in.Size.Valid() {
		return nil, errors.BadRequest("Invalid company size")
	}

	now := s.now()
	c := &crm.Company{
		ID:        uuid.NewString(),
		Name:      in.Name,
		Industry:  in.Industry,
		Size:      in.Size,
		Website:   in.Website,
		Address:   in.Address,
		Notes:     in.Notes,
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.companies.Create(ctx, c); err != nil {
		s.logger.ErrorWithErr(err, "Failed to create company")
		return nil, err
	}
	return c, nil
}

// ListCompanies returns the owner's companies
func (s *CRMService) ListCompanies(ctx context.Context, ownerID string) ([]*crm.Company, error) {
	return s.companies.ListByOwner(ctx, ownerID)
}

// GetCompany returns a company the caller owns
func (s *CRMService) GetCompany(ctx context.Context, id, ownerID string) (*crm.Company, error) {
	c, err := s.companies.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.OwnerID != ownerID {
		return nil, errors.Forbidden("You do not have access to this company")
	}
	return c, nil
}

// UpdateCompany merges the given fields into the company
func (s *CRMService) UpdateCompany(ctx context.Context, id, ownerID string, in crm.UpdateCompanyInput) (*crm.Company, error) {
	if in.Size != nil && !in.Size.Valid() {
		return nil, errors.BadRequest("Invalid company size")
	}

	c, err := s.GetCompany(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	in.Apply(c)
	c.UpdatedAt = s.now()
	if err := s.companies.Update(ctx, c); err != nil {
		s.logger.ErrorWithErr(err, "Failed to update company")
		return nil, err
	}
	return c, nil
}

// DeleteCompany detaches the owner's contacts and deletes the company
func (s *CRMService) DeleteCompany(ctx context.Context, id, ownerID string) error {
	if _, err := s.GetCompany(ctx, id, ownerID); err != nil {
		return err
	}
	if err := s.companies.Delete(ctx, id, ownerID); err != nil {
		s.logger.ErrorWithErr(err, "Failed to delete company")
		return err
	}

	s.logger.WithFields(map[string]interface{}{
		"user_id":    ownerID,
		"company_id": id,
	}).Info("Company deleted")
	return nil
}

// ListContactsByCompany returns the owner's contacts linked to a company
func (s *CRMService) ListContactsByCompany(ctx context.Context, companyID, ownerID string) ([]*crm.Contact, error) {
	if _, err := s.GetCompany(ctx, companyID, ownerID); err != nil {
		return nil, err
	}
	return s.contacts.ListByCompany(ctx, companyID, ownerID)
}

var _ crm.Service = (*CRMService)(nil)
