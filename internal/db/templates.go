package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/sameera474/buildvault-backend/internal/models"
)

// TemplateRepository handles report template database operations
type TemplateRepository struct {
	db *Database
}

// NewTemplateRepository creates a new template repository
func NewTemplateRepository(db *Database) *TemplateRepository {
	return &TemplateRepository{db: db}
}

const templateColumns = `id, company_id, name, test_type, description, fields, is_default,
	created_by, created_at, updated_at`

func scanTemplate(row pgx.Row) (*models.Template, error) {
	var t models.Template
	err := row.Scan(&t.ID, &t.CompanyID, &t.Name, &t.TestType, &t.Description, &t.Fields,
		&t.IsDefault, &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan template: %w", err)
	}
	return &t, nil
}

// ListVisible returns the tenant's templates plus the shared defaults.
// Default templates are the only entities visible across tenants.
func (r *TemplateRepository) ListVisible(ctx context.Context, companyID string) ([]models.Template, error) {
	query := `SELECT ` + templateColumns + ` FROM templates
		WHERE company_id = $1 OR (company_id IS NULL AND is_default = true)
		ORDER BY is_default DESC, name`
	rows, err := r.db.Pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query templates: %w", err)
	}
	defer rows.Close()

	var templates []models.Template
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, *t)
	}
	return templates, rows.Err()
}

// GetVisibleByID retrieves a template the tenant may use
func (r *TemplateRepository) GetVisibleByID(ctx context.Context, companyID, id string) (*models.Template, error) {
	query := `SELECT ` + templateColumns + ` FROM templates
		WHERE id = $1 AND (company_id = $2 OR (company_id IS NULL AND is_default = true))`
	return scanTemplate(r.db.Pool.QueryRow(ctx, query, id, companyID))
}

// Create inserts a company-scoped template
func (r *TemplateRepository) Create(ctx context.Context, companyID, createdBy string, req models.TemplateCreateRequest) (*models.Template, error) {
	query := `
		INSERT INTO templates (id, company_id, name, test_type, description, fields, is_default, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, false, $7, NOW(), NOW())
		RETURNING ` + templateColumns
	row := r.db.Pool.QueryRow(ctx, query, uuid.NewString(), companyID, req.Name, req.TestType,
		req.Description, req.Fields, createdBy)
	t, err := scanTemplate(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return t, nil
}

// Update applies a partial update to a company-scoped template.
// Shared defaults are immutable through this path.
func (r *TemplateRepository) Update(ctx context.Context, companyID, id string, req models.TemplateUpdateRequest) error {
	var sets []string
	var args []interface{}
	argIndex := 1

	if req.Name != nil {
		sets = append(sets, fmt.Sprintf("name = $%d", argIndex))
		args = append(args, *req.Name)
		argIndex++
	}
	if req.TestType != nil {
		sets = append(sets, fmt.Sprintf("test_type = $%d", argIndex))
		args = append(args, *req.TestType)
		argIndex++
	}
	if req.Description != nil {
		sets = append(sets, fmt.Sprintf("description = $%d", argIndex))
		args = append(args, *req.Description)
		argIndex++
	}
	if req.Fields != nil {
		sets = append(sets, fmt.Sprintf("fields = $%d", argIndex))
		args = append(args, req.Fields)
		argIndex++
	}
	if len(sets) == 0 {
		return nil
	}
	sets = append(sets, "updated_at = NOW()")

	query := fmt.Sprintf("UPDATE templates SET %s WHERE id = $%d AND company_id = $%d AND is_default = false",
		strings.Join(sets, ", "), argIndex, argIndex+1)
	args = append(args, id, companyID)

	tag, err := r.db.Pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update template: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a company-scoped template
func (r *TemplateRepository) Delete(ctx context.Context, companyID, id string) error {
	tag, err := r.db.Pool.Exec(ctx,
		`DELETE FROM templates WHERE id = $1 AND company_id = $2 AND is_default = false`,
		id, companyID)
	if err != nil {
		return fmt.Errorf("failed to delete template: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
