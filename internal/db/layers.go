package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/sameera474/buildvault-backend/internal/models"
)

// LayerRepository handles construction layer database operations
type LayerRepository struct {
	db *Database
}

// NewLayerRepository creates a new layer repository
func NewLayerRepository(db *Database) *LayerRepository {
	return &LayerRepository{db: db}
}

const layerColumns = `id, company_id, name, order_no, is_default, created_at`

func scanLayer(row pgx.Row) (*models.ConstructionLayer, error) {
	var l models.ConstructionLayer
	err := row.Scan(&l.ID, &l.CompanyID, &l.Name, &l.OrderNo, &l.IsDefault, &l.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan layer: %w", err)
	}
	return &l, nil
}

// ListByCompany returns the tenant's construction layers in pavement order
func (r *LayerRepository) ListByCompany(ctx context.Context, companyID string) ([]models.ConstructionLayer, error) {
	query := `SELECT ` + layerColumns + ` FROM construction_layers WHERE company_id = $1 ORDER BY order_no, name`
	rows, err := r.db.Pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query layers: %w", err)
	}
	defer rows.Close()

	var layers []models.ConstructionLayer
	for rows.Next() {
		l, err := scanLayer(rows)
		if err != nil {
			return nil, err
		}
		layers = append(layers, *l)
	}
	return layers, rows.Err()
}

// Create inserts a custom layer for the tenant
func (r *LayerRepository) Create(ctx context.Context, companyID string, req models.LayerCreateRequest) (*models.ConstructionLayer, error) {
	query := `
		INSERT INTO construction_layers (id, company_id, name, order_no, is_default, created_at)
		VALUES ($1, $2, $3, $4, false, NOW())
		RETURNING ` + layerColumns
	row := r.db.Pool.QueryRow(ctx, query, uuid.NewString(), companyID, req.Name, req.OrderNo)
	l, err := scanLayer(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return l, nil
}

// Delete removes a non-default layer within the tenant
func (r *LayerRepository) Delete(ctx context.Context, companyID, id string) error {
	tag, err := r.db.Pool.Exec(ctx,
		`DELETE FROM construction_layers WHERE id = $1 AND company_id = $2 AND is_default = false`,
		id, companyID)
	if err != nil {
		return fmt.Errorf("failed to delete layer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
