package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/sameera474/buildvault-backend/internal/models"
)

// RoadRepository handles project road database operations
type RoadRepository struct {
	db *Database
}

// NewRoadRepository creates a new road repository
func NewRoadRepository(db *Database) *RoadRepository {
	return &RoadRepository{db: db}
}

const roadColumns = `id, project_id, company_id, name, start_chainage, end_chainage, created_at`

func scanRoad(row pgx.Row) (*models.ProjectRoad, error) {
	var rd models.ProjectRoad
	err := row.Scan(&rd.ID, &rd.ProjectID, &rd.CompanyID, &rd.Name, &rd.StartCh, &rd.EndCh, &rd.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan road: %w", err)
	}
	return &rd, nil
}

// ListByProject returns the roads of a project within the tenant
func (r *RoadRepository) ListByProject(ctx context.Context, companyID, projectID string) ([]models.ProjectRoad, error) {
	query := `SELECT ` + roadColumns + ` FROM project_roads WHERE project_id = $1 AND company_id = $2 ORDER BY created_at`
	rows, err := r.db.Pool.Query(ctx, query, projectID, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query roads: %w", err)
	}
	defer rows.Close()

	var roads []models.ProjectRoad
	for rows.Next() {
		rd, err := scanRoad(rows)
		if err != nil {
			return nil, err
		}
		roads = append(roads, *rd)
	}
	return roads, rows.Err()
}

// Create adds a road to a project. The project must belong to the tenant.
func (r *RoadRepository) Create(ctx context.Context, companyID, projectID string, req models.RoadCreateRequest) (*models.ProjectRoad, error) {
	// ownership check: the insert below trusts projectID
	var exists bool
	err := r.db.Pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM projects WHERE id = $1 AND company_id = $2)`, projectID, companyID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to verify project ownership: %w", err)
	}
	if !exists {
		return nil, ErrNotFound
	}

	query := `
		INSERT INTO project_roads (id, project_id, company_id, name, start_chainage, end_chainage, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING ` + roadColumns
	row := r.db.Pool.QueryRow(ctx, query, uuid.NewString(), projectID, companyID, req.Name, req.StartCh, req.EndCh)
	return scanRoad(row)
}

// Delete removes a road within the tenant
func (r *RoadRepository) Delete(ctx context.Context, companyID, id string) error {
	tag, err := r.db.Pool.Exec(ctx,
		`DELETE FROM project_roads WHERE id = $1 AND company_id = $2`, id, companyID)
	if err != nil {
		return fmt.Errorf("failed to delete road: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
