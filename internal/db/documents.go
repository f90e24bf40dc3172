package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/sameera474/buildvault-backend/internal/models"
)

// DocumentRepository handles document metadata database operations
type DocumentRepository struct {
	db *Database
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(db *Database) *DocumentRepository {
	return &DocumentRepository{db: db}
}

const documentColumns = `id, company_id, project_id, name, object_key, content_type,
	size_bytes, uploaded_by, created_at`

func scanDocument(row pgx.Row) (*models.Document, error) {
	var d models.Document
	err := row.Scan(&d.ID, &d.CompanyID, &d.ProjectID, &d.Name, &d.ObjectKey,
		&d.ContentTyp, &d.SizeBytes, &d.UploadedBy, &d.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan document: %w", err)
	}
	return &d, nil
}

// ListByCompany returns the tenant's documents, optionally filtered by project
func (r *DocumentRepository) ListByCompany(ctx context.Context, companyID string, projectID *string) ([]models.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE company_id = $1`
	args := []interface{}{companyID}
	if projectID != nil {
		query += ` AND project_id = $2`
		args = append(args, *projectID)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer rows.Close()

	var docs []models.Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *d)
	}
	return docs, rows.Err()
}

// GetByID retrieves a document scoped to a company
func (r *DocumentRepository) GetByID(ctx context.Context, companyID, id string) (*models.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE id = $1 AND company_id = $2`
	return scanDocument(r.db.Pool.QueryRow(ctx, query, id, companyID))
}

// Create records an uploaded object's metadata
func (r *DocumentRepository) Create(ctx context.Context, companyID, uploadedBy, name, objectKey, contentType string, sizeBytes int64, projectID *string) (*models.Document, error) {
	query := `
		INSERT INTO documents (id, company_id, project_id, name, object_key, content_type, size_bytes, uploaded_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		RETURNING ` + documentColumns
	row := r.db.Pool.QueryRow(ctx, query, uuid.NewString(), companyID, projectID, name,
		objectKey, contentType, sizeBytes, uploadedBy)
	return scanDocument(row)
}

// Delete removes a document row within the tenant
func (r *DocumentRepository) Delete(ctx context.Context, companyID, id string) error {
	tag, err := r.db.Pool.Exec(ctx,
		`DELETE FROM documents WHERE id = $1 AND company_id = $2`, id, companyID)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
