package postgres

import (
	"context"
	"database/sql"
	stderrors "errors"

	"github.com/flowvera/flowvera/internal/domain/crm"
	"github.com/flowvera/flowvera/internal/pkg/errors"
)

// ContactRepository implements crm.ContactRepository
type ContactRepository struct {
	db *sql.DB
}

// NewContactRepository creates a new contact repository
func NewContactRepository(db *sql.DB) crm.ContactRepository {
	return &ContactRepository{db: db}
}

const contactColumns = `id, first_name, last_name, email, phone, company_id, type, notes, owner_id, created_at, updated_at`

// Create stores a new contact
func (r *ContactRepository) Create(ctx context.Context, c *crm.Contact) error {
	query := `
		INSERT INTO contacts (` + contactColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.FirstName, c.LastName, c.Email, nullString(c.Phone), nullString(c.CompanyID),
		string(c.Type), nullString(c.Notes), c.OwnerID, c.CreatedAt.Unix(), c.UpdatedAt.Unix(),
	)
	if err != nil {
		return errors.DatabaseError("Failed to create contact", err)
	}
	return nil
}

// GetByID retrieves a contact by ID
func (r *ContactRepository) GetByID(ctx context.Context, id string) (*crm.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE id = $1`

	c, err := scanContact(r.db.QueryRowContext(ctx, query, id))
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.NotFoundWithID("Contact", id)
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get contact", err)
	}
	return c, nil
}

// ListByOwner lists an owner's contacts, newest first
func (r *ContactRepository) ListByOwner(ctx context.Context, ownerID string) ([]*crm.Contact, error) {
	query := `
		SELECT ` + contactColumns + `
		FROM contacts
		WHERE owner_id = $1
		ORDER BY created_at DESC, id
	`
	return r.list(ctx, query, ownerID)
}

// ListByCompany lists the owner's contacts linked to a company
func (r *ContactRepository) ListByCompany(ctx context.Context, companyID, ownerID string) ([]*crm.Contact, error) {
	query := `
		SELECT ` + contactColumns + `
		FROM contacts
		WHERE company_id = $1 AND owner_id = $2
		ORDER BY created_at DESC, id
	`
	return r.list(ctx, query, companyID, ownerID)
}

func (r *ContactRepository) list(ctx context.Context, query string, args ...interface{}) ([]*crm.Contact, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list contacts", err)
	}
	defer rows.Close()

	contacts := []*crm.Contact{}
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, errors.DatabaseError("Failed to scan contact", err)
		}
		contacts = append(contacts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.DatabaseError("Failed to list contacts", err)
	}

	return contacts, nil
}

// Update updates a contact
func (r *ContactRepository) Update(ctx context.Context, c *crm.Contact) error {
	query := `
		UPDATE contacts
		SET first_name = $1, last_name = $2, email = $3, phone = $4, company_id = $5,
		    type = $6, notes = $7, updated_at = $8
		WHERE id = $9
	`

	result, err := r.db.ExecContext(ctx, query,
		c.FirstName, c.LastName, c.Email, nullString(c.Phone), nullString(c.CompanyID),
		string(c.Type), nullString(c.Notes), c.UpdatedAt.Unix(), c.ID,
	)
	if err != nil {
		return errors.DatabaseError("Failed to update contact", err)
	}

	return expectAffected(result, "Contact")
}

// Delete deletes a contact
func (r *ContactRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM contacts WHERE id = $1`, id)
	if err != nil {
		return errors.DatabaseError("Failed to delete contact", err)
	}

	return expectAffected(result, "Contact")
}

func scanContact(s scanner) (*crm.Contact, error) {
	var c crm.Contact
	var phone, companyID, notes sql.NullString
	var contactType string
	var createdAt, updatedAt int64

	err := s.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email, &phone, &companyID,
		&contactType, &notes, &c.OwnerID, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	c.Phone = stringPtr(phone)
	c.CompanyID = stringPtr(companyID)
	c.Type = crm.ContactType(contactType)
	c.Notes = stringPtr(notes)
	c.CreatedAt = fromUnix(createdAt)
	c.UpdatedAt = fromUnix(updatedAt)

	return &c, nil
}
