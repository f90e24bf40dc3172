package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/sameera474/buildvault-backend/internal/models"
)

// CompanyRepository handles company (tenant) database operations
type CompanyRepository struct {
	db *Database
}

// NewCompanyRepository creates a new company repository
func NewCompanyRepository(db *Database) *CompanyRepository {
	return &CompanyRepository{db: db}
}

const companyColumns = `id, name, country, logo_url, subscription_status, trial_ends_at,
	is_demo, created_at, updated_at`

func scanCompany(row pgx.Row) (*models.Company, error) {
	var co models.Company
	err := row.Scan(&co.ID, &co.Name, &co.Country, &co.LogoURL, &co.SubscriptionStatus,
		&co.TrialEndsAt, &co.IsDemo, &co.CreatedAt, &co.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan company: %w", err)
	}
	return &co, nil
}

// GetByID retrieves a company by id
func (r *CompanyRepository) GetByID(ctx context.Context, id string) (*models.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE id = $1`
	return scanCompany(r.db.Pool.QueryRow(ctx, query, id))
}

// List returns all companies. Platform administration only.
func (r *CompanyRepository) List(ctx context.Context) ([]models.Company, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT `+companyColumns+` FROM companies ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query companies: %w", err)
	}
	defer rows.Close()

	var companies []models.Company
	for rows.Next() {
		co, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		companies = append(companies, *co)
	}
	return companies, rows.Err()
}

// Create inserts a new company starting a trial
func (r *CompanyRepository) Create(ctx context.Context, name string, isDemo bool, trialDays int) (*models.Company, error) {
	trialEnds := time.Now().Add(time.Duration(trialDays) * 24 * time.Hour)
	query := `
		INSERT INTO companies (id, name, subscription_status, trial_ends_at, is_demo, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING ` + companyColumns
	row := r.db.Pool.QueryRow(ctx, query, uuid.NewString(), name, models.SubscriptionTrial, trialEnds, isDemo)
	co, err := scanCompany(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return co, nil
}

// Update applies a partial update to company settings
func (r *CompanyRepository) Update(ctx context.Context, id string, req models.CompanyUpdateRequest) error {
	var sets []string
	var args []interface{}
	argIndex := 1

	if req.Name != nil {
		sets = append(sets, fmt.Sprintf("name = $%d", argIndex))
		args = append(args, *req.Name)
		argIndex++
	}
	if req.Country != nil {
		sets = append(sets, fmt.Sprintf("country = $%d", argIndex))
		args = append(args, *req.Country)
		argIndex++
	}
	if req.LogoURL != nil {
		sets = append(sets, fmt.Sprintf("logo_url = $%d", argIndex))
		args = append(args, *req.LogoURL)
		argIndex++
	}
	if len(sets) == 0 {
		return nil
	}
	sets = append(sets, "updated_at = NOW()")

	query := fmt.Sprintf("UPDATE companies SET %s WHERE id = $%d", strings.Join(sets, ", "), argIndex)
	args = append(args, id)

	tag, err := r.db.Pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update company: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetSubscriptionStatus records a billing state change
func (r *CompanyRepository) SetSubscriptionStatus(ctx context.Context, id string, status models.SubscriptionStatus) error {
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE companies SET subscription_status = $1, updated_at = NOW() WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update subscription status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a company row. Compensation path only: a company
// created for a new account whose credential or profile insert failed.
func (r *CompanyRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM companies WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete company: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteDemo removes a demo company and its data. Refuses to touch
// non-demo tenants.
func (r *CompanyRepository) DeleteDemo(ctx context.Context, id string) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM companies WHERE id = $1 AND is_demo = true`, id)
	if err != nil {
		return fmt.Errorf("failed to delete demo company: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
