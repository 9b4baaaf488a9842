package postgres

import (
	"context"
	"database/sql"
	stderrors "errors"

	"github.com/flowvera/flowvera/internal/domain/project"
	"github.com/flowvera/flowvera/internal/pkg/errors"
)

// ProjectRepository implements project.Repository
type ProjectRepository struct {
	db *sql.DB
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db *sql.DB) project.Repository {
	return &ProjectRepository{db: db}
}

const projectColumns = `id, name, description, status, owner_id, created_at, updated_at`

// Create stores a new project
func (r *ProjectRepository) Create(ctx context.Context, p *project.Project) error {
	query := `
		INSERT INTO projects (` + projectColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.Name, nullString(p.Description), string(p.Status), p.OwnerID,
		p.CreatedAt.Unix(), p.UpdatedAt.Unix(),
	)
	if err != nil {
		return errors.DatabaseError("Failed to create project", err)
	}
	return nil
}

// GetByID retrieves a project by ID
func (r *ProjectRepository) GetByID(ctx context.Context, id string) (*project.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`

	p, err := scanProject(r.db.QueryRowContext(ctx, query, id))
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.NotFoundWithID("Project", id)
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get project", err)
	}
	return p, nil
}

// ListByOwner lists an owner's projects, newest first
func (r *ProjectRepository) ListByOwner(ctx context.Context, ownerID string) ([]*project.Project, error) {
	query := `
		SELECT ` + projectColumns + `
		FROM projects
		WHERE owner_id = $1
		ORDER BY created_at DESC, id
	`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list projects", err)
	}
	defer rows.Close()

	projects := []*project.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, errors.DatabaseError("Failed to scan project", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.DatabaseError("Failed to list projects", err)
	}

	return projects, nil
}

// Update updates a project
func (r *ProjectRepository) Update(ctx context.Context, p *project.Project) error {
	query := `
		UPDATE projects
		SET name = $1, description = $2, status = $3, updated_at = $4
		WHERE id = $5
	`

	result, err := r.db.ExecContext(ctx, query,
		p.Name, nullString(p.Description), string(p.Status), p.UpdatedAt.Unix(), p.ID,
	)
	if err != nil {
		return errors.DatabaseError("Failed to update project", err)
	}

	return expectAffected(result, "Project")
}

// Delete removes the project's tasks and then the project in one transaction
func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.DatabaseError("Failed to start transaction", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE project_id = $1`, id); err != nil {
		return errors.DatabaseError("Failed to delete project tasks", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return errors.DatabaseError("Failed to delete project", err)
	}
	if err := expectAffected(result, "Project"); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return errors.DatabaseError("Failed to commit project delete", err)
	}
	return nil
}

func scanProject(s scanner) (*project.Project, error) {
	var p project.Project
	var description sql.NullString
	var status string
	var createdAt, updatedAt int64

	if err := s.Scan(&p.ID, &p.Name, &description, &status, &p.OwnerID, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	p.Description = stringPtr(description)
	p.Status = project.Status(status)
	p.CreatedAt = fromUnix(createdAt)
	p.UpdatedAt = fromUnix(updatedAt)

	return &p, nil
}
