package postgres

import (
	"context"
	"database/sql"
	stderrors "errors"
	"time"

	"github.com/flowvera/flowvera/internal/domain/crm"
	"github.com/flowvera/flowvera/internal/pkg/errors"
)

// CompanyRepository implements crm.CompanyRepository
type CompanyRepository struct {
	db *sql.DB
}

// NewCompanyRepository creates a new company repository
func NewCompanyRepository(db *sql.DB) crm.CompanyRepository {
	return &CompanyRepository{db: db}
}

const companyColumns = `id, name, industry, size, website, address, notes, owner_id, created_at, updated_at`

// Create stores a new company
func (r *CompanyRepository) Create(ctx context.Context, c *crm.Company) error {
	query := `
		INSERT INTO companies (` + companyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.Name, nullString(c.Industry), nullSize(c.Size), nullString(c.Website),
		nullString(c.Address), nullString(c.Notes), c.OwnerID, c.CreatedAt.Unix(), c.UpdatedAt.Unix(),
	)
	if err != nil {
		return errors.DatabaseError("Failed to create company", err)
	}
	return nil
}

// GetByID retrieves a company by ID
func (r *CompanyRepository) GetByID(ctx context.Context, id string) (*crm.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE id = $1`

	c, err := scanCompany(r.db.QueryRowContext(ctx, query, id))
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.NotFoundWithID("Company", id)
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get company", err)
	}
	return c, nil
}

// ListByOwner lists an owner's companies, newest first
func (r *CompanyRepository) ListByOwner(ctx context.Context, ownerID string) ([]*crm.Company, error) {
	query := `
		SELECT ` + companyColumns + `
		FROM companies
		WHERE owner_id = $1
		ORDER BY created_at DESC, id
	`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list companies", err)
	}
	defer rows.Close()

	companies := []*crm.Company{}
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, errors.DatabaseError("Failed to scan company", err)
		}
		companies = append(companies, c)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.DatabaseError("Failed to list companies", err)
	}

	return companies, nil
}

// Update updates a company
func (r *CompanyRepository) Update(ctx context.Context, c *crm.Company) error {
	query := `
		UPDATE companies
		SET name = $1, industry = $2, size = $3, website = $4, address = $5, notes = $6, updated_at = $7
		WHERE id = $8
	`

	result, err := r.db.ExecContext(ctx, query,
		c.Name, nullString(c.Industry), nullSize(c.Size), nullString(c.Website),
		nullString(c.Address), nullString(c.Notes), c.UpdatedAt.Unix(), c.ID,
	)
	if err != nil {
		return errors.DatabaseError("Failed to update company", err)
	}

	return expectAffected(result, "Company")
}

// Delete detaches the owner's contacts from the company and deletes it in
// one transaction. Contacts are kept.
func (r *CompanyRepository) Delete(ctx context.Context, id, ownerID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.DatabaseError("Failed to start transaction", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`UPDATE contacts SET company_id = NULL, updated_at = $1 WHERE company_id = $2 AND owner_id = $3`,
		time.Now().Unix(), id, ownerID,
	)
	if err != nil {
		return errors.DatabaseError("Failed to detach company contacts", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM companies WHERE id = $1`, id)
	if err != nil {
		return errors.DatabaseError("Failed to delete company", err)
	}
	if err := expectAffected(result, "Company"); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return errors.DatabaseError("Failed to commit company delete", err)
	}
	return nil
}

func nullSize(s *crm.CompanySize) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(*s), Valid: true}
}

func scanCompany(s scanner) (*crm.Company, error) {
	var c crm.Company
	var industry, size, website, address, notes sql.NullString
	var createdAt, updatedAt int64

	err := s.Scan(&c.ID, &c.Name, &industry, &size, &website, &address, &notes,
		&c.OwnerID, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	c.Industry = stringPtr(industry)
	if size.Valid {
		sz := crm.CompanySize(size.String)
		c.Size = &sz
	}
	c.Website = stringPtr(website)
	c.Address = stringPtr(address)
	c.Notes = stringPtr(notes)
	c.CreatedAt = fromUnix(createdAt)
	c.UpdatedAt = fromUnix(updatedAt)

	return &c, nil
}
