package db

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/sameera474/buildvault-backend/internal/models"
)

// ProjectRepository handles project database operations
type ProjectRepository struct {
	db *Database
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db *Database) *ProjectRepository {
	return &ProjectRepository{db: db}
}

const projectColumns = `id, company_id, name, description, location, status, manager_id,
	start_date, end_date, created_at, updated_at`

func scanProject(row pgx.Row) (*models.Project, error) {
	var p models.Project
	err := row.Scan(&p.ID, &p.CompanyID, &p.Name, &p.Description, &p.Location, &p.Status,
		&p.ManagerID, &p.StartDate, &p.EndDate, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan project: %w", err)
	}
	return &p, nil
}

// ListByCompany returns all projects of a tenant
func (r *ProjectRepository) ListByCompany(ctx context.Context, companyID string) ([]models.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE company_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.Pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query projects: %w", err)
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, *p)
	}
	return projects, rows.Err()
}

// GetByID retrieves a project scoped to a company
func (r *ProjectRepository) GetByID(ctx context.Context, companyID, id string) (*models.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1 AND company_id = $2`
	return scanProject(r.db.Pool.QueryRow(ctx, query, id, companyID))
}

// defaultRoadNames seeds new projects with a starter road set.
var defaultRoadNames = []string{"Main Alignment", "Access Road"}

// Create inserts a new project and seeds its default roads. companyID
// is the caller's resolved tenant; any client-supplied value is gone
// by the time we get here.
func (r *ProjectRepository) Create(ctx context.Context, companyID string, req models.ProjectCreateRequest) (*models.Project, error) {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO projects (id, company_id, name, description, location, status, manager_id, start_date, end_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		RETURNING ` + projectColumns
	row := tx.QueryRow(ctx, query, uuid.NewString(), companyID, req.Name, req.Description,
		req.Location, models.ProjectActive, req.ManagerID, req.StartDate, req.EndDate)
	p, err := scanProject(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}

	// Seed default roads in the same transaction so a failure cannot
	// leave a road-less project behind.
	for _, name := range defaultRoadNames {
		_, err = tx.Exec(ctx,
			`INSERT INTO project_roads (id, project_id, company_id, name, created_at) VALUES ($1, $2, $3, $4, NOW())`,
			uuid.NewString(), p.ID, companyID, name)
		if err != nil {
			return nil, fmt.Errorf("failed to seed default roads: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit project create: %w", err)
	}

	log.Printf("[DB] Created project %s for company %s with %d default roads", p.ID, companyID, len(defaultRoadNames))
	return p, nil
}

// Update applies a partial update to a project within the tenant
func (r *ProjectRepository) Update(ctx context.Context, companyID, id string, req models.ProjectUpdateRequest) error {
	var sets []string
	var args []interface{}
	argIndex := 1

	if req.Name != nil {
		sets = append(sets, fmt.Sprintf("name = $%d", argIndex))
		args = append(args, *req.Name)
		argIndex++
	}
	if req.Description != nil {
		sets = append(sets, fmt.Sprintf("description = $%d", argIndex))
		args = append(args, *req.Description)
		argIndex++
	}
	if req.Location != nil {
		sets = append(sets, fmt.Sprintf("location = $%d", argIndex))
		args = append(args, *req.Location)
		argIndex++
	}
	if req.Status != nil {
		sets = append(sets, fmt.Sprintf("status = $%d", argIndex))
		args = append(args, *req.Status)
		argIndex++
	}
	if req.ManagerID != nil {
		sets = append(sets, fmt.Sprintf("manager_id = $%d", argIndex))
		args = append(args, *req.ManagerID)
		argIndex++
	}
	if req.StartDate != nil {
		sets = append(sets, fmt.Sprintf("start_date = $%d", argIndex))
		args = append(args, *req.StartDate)
		argIndex++
	}
	if req.EndDate != nil {
		sets = append(sets, fmt.Sprintf("end_date = $%d", argIndex))
		args = append(args, *req.EndDate)
		argIndex++
	}
	if len(sets) == 0 {
		return nil
	}
	sets = append(sets, "updated_at = NOW()")

	query := fmt.Sprintf("UPDATE projects SET %s WHERE id = $%d AND company_id = $%d",
		strings.Join(sets, ", "), argIndex, argIndex+1)
	args = append(args, id, companyID)

	tag, err := r.db.Pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a project within the tenant
func (r *ProjectRepository) Delete(ctx context.Context, companyID, id string) error {
	tag, err := r.db.Pool.Exec(ctx,
		`DELETE FROM projects WHERE id = $1 AND company_id = $2`, id, companyID)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
