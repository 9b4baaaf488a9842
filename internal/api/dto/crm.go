package dto

import "github.com/flowvera/flowvera/internal/domain/crm"

// CreateContactRequest represents a contact creation request
type CreateContactRequest struct {
	FirstName string  `json:"firstName" validate:"required,max=100"`
	LastName  string  `json:"lastName" validate:"required,max=100"`
	Email     string  `json:"email" validate:"required,email"`
	Phone     *string `json:"phone,omitempty"`
	CompanyID *string `json:"companyId,omitempty"`
	Type      string  `json:"type,omitempty" validate:"omitempty,oneof=lead client prospect"`
	Notes     *string `json:"notes,omitempty"`
}

// ToInput converts the request to the service input
func (r CreateContactRequest) ToInput() crm.CreateContactInput {
	return crm.CreateContactInput{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
		Phone:     r.Phone,
		CompanyID: r.CompanyID,
		Type:      crm.ContactType(r.Type),
		Notes:     r.Notes,
	}
}

// UpdateContactRequest represents a partial contact update
type UpdateContactRequest struct {
	FirstName *string `json:"firstName,omitempty" validate:"omitempty,min=1,max=100"`
	LastName  *string `json:"lastName,omitempty" validate:"omitempty,min=1,max=100"`
	Email     *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone     *string `json:"phone,omitempty"`
	CompanyID *string `json:"companyId,omitempty"`
	Type      *string `json:"type,omitempty" validate:"omitempty,oneof=lead client prospect"`
	Notes     *string `json:"notes,omitempty"`
}

// ToInput converts the request to the service input
func (r UpdateContactRequest) ToInput() crm.UpdateContactInput {
	in := crm.UpdateContactInput{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
		Phone:     r.Phone,
		CompanyID: r.CompanyID,
		Notes:     r.Notes,
	}
	if r.Type != nil {
		t := crm.ContactType(*r.Type)
		in.Type = &t
	}
	return in
}

// CreateCompanyRequest represents a company creation request
type CreateCompanyRequest struct {
	Name     string  `json:"name" validate:"required,max=200"`
	Industry *string `json:"industry,omitempty"`
	Size     *string `json:"size,omitempty" validate:"omitempty,oneof=small medium large enterprise"`
	Website  *string `json:"website,omitempty" validate:"omitempty,url"`
	Address  *string `json:"address,omitempty"`
	Notes    *string `json:"notes,omitempty"`
}

// ToInput converts the request to the service input
func (r CreateCompanyRequest) ToInput() crm.CreateCompanyInput {
	return crm.CreateCompanyInput{
		Name:     r.Name,
		Industry: r.Industry,
		Size:     companySize(r.Size),
		Website:  r.Website,
		Address:  r.Address,
		Notes:    r.Notes,
	}
}

// UpdateCompanyRequest represents a partial company update
type UpdateCompanyRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Industry *string `json:"industry,omitempty"`
	Size     *string `json:"size,omitempty" validate:"omitempty,oneof=small medium large enterprise"`
	Website  *string `json:"website,omitempty" validate:"omitempty,url"`
	Address  *string `json:"address,omitempty"`
	Notes    *string `json:"notes,omitempty"`
}

// ToInput converts the request to the service input
func (r UpdateCompanyRequest) ToInput() crm.UpdateCompanyInput {
	return crm.UpdateCompanyInput{
		Name:     r.Name,
		Industry: r.Industry,
		Size:     companySize(r.Size),
		Website:  r.Website,
		Address:  r.Address,
		Notes:    r.Notes,
	}
}

func companySize(s *string) *crm.CompanySize {
	if s == nil {
		return nil
	}
	size := crm.CompanySize(*s)
	return &size
}
