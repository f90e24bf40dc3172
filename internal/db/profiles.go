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

// ProfileRepository handles profile database operations
type ProfileRepository struct {
	db *Database
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *Database) *ProfileRepository {
	return &ProfileRepository{db: db}
}

const profileColumns = `id, user_id, company_id, role, name, email, phone, avatar_url,
	is_super_admin, is_active, last_active_at, created_at, updated_at`

func scanProfile(row pgx.Row) (*models.Profile, error) {
	var p models.Profile
	err := row.Scan(&p.ID, &p.UserID, &p.CompanyID, &p.Role, &p.Name, &p.Email,
		&p.Phone, &p.AvatarURL, &p.IsSuperAdmin, &p.IsActive, &p.LastActiveAt,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan profile: %w", err)
	}
	return &p, nil
}

// GetByUserID resolves the profile for an authenticated user id. Every
// tenant-scoped operation starts here; callers abort on ErrNotFound
// before touching any other table.
func (r *ProfileRepository) GetByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE user_id = $1 AND is_active = true`
	return scanProfile(r.db.Pool.QueryRow(ctx, query, userID))
}

// GetByEmail retrieves a profile by email, active or not
func (r *ProfileRepository) GetByEmail(ctx context.Context, email string) (*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE LOWER(email) = LOWER($1)`
	return scanProfile(r.db.Pool.QueryRow(ctx, query, email))
}

// GetByID retrieves a profile by primary key scoped to a company
func (r *ProfileRepository) GetByID(ctx context.Context, companyID, id string) (*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1 AND company_id = $2`
	return scanProfile(r.db.Pool.QueryRow(ctx, query, id, companyID))
}

// ListByCompany returns the active and inactive profiles of a tenant
func (r *ProfileRepository) ListByCompany(ctx context.Context, companyID string) ([]models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE company_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.Pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query profiles: %w", err)
	}
	defer rows.Close()

	var profiles []models.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, *p)
	}
	return profiles, rows.Err()
}

// Create inserts a new profile. The company id comes from the caller's
// resolved tenant, never from client input.
func (r *ProfileRepository) Create(ctx context.Context, companyID, userID, role, name, email string, isSuperAdmin bool) (*models.Profile, error) {
	query := `
		INSERT INTO profiles (id, user_id, company_id, role, name, email, is_super_admin, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, true, NOW(), NOW())
		RETURNING ` + profileColumns
	row := r.db.Pool.QueryRow(ctx, query, uuid.NewString(), userID, companyID, role, name, email, isSuperAdmin)
	p, err := scanProfile(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return p, nil
}

// Update applies a partial update to a profile within the tenant
func (r *ProfileRepository) Update(ctx context.Context, companyID, id string, req models.ProfileUpdateRequest) error {
	var sets []string
	var args []interface{}
	argIndex := 1

	if req.Name != nil {
		sets = append(sets, fmt.Sprintf("name = $%d", argIndex))
		args = append(args, *req.Name)
		argIndex++
	}
	if req.Phone != nil {
		sets = append(sets, fmt.Sprintf("phone = $%d", argIndex))
		args = append(args, *req.Phone)
		argIndex++
	}
	if req.AvatarURL != nil {
		sets = append(sets, fmt.Sprintf("avatar_url = $%d", argIndex))
		args = append(args, *req.AvatarURL)
		argIndex++
	}
	if req.Role != nil {
		sets = append(sets, fmt.Sprintf("role = $%d", argIndex))
		args = append(args, *req.Role)
		argIndex++
	}
	if req.IsActive != nil {
		sets = append(sets, fmt.Sprintf("is_active = $%d", argIndex))
		args = append(args, *req.IsActive)
		argIndex++
	}
	if len(sets) == 0 {
		return nil
	}
	sets = append(sets, "updated_at = NOW()")

	query := fmt.Sprintf("UPDATE profiles SET %s WHERE id = $%d AND company_id = $%d",
		strings.Join(sets, ", "), argIndex, argIndex+1)
	args = append(args, id, companyID)

	tag, err := r.db.Pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Deactivate soft-deletes a profile (is_active = false)
func (r *ProfileRepository) Deactivate(ctx context.Context, companyID, id string) error {
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE profiles SET is_active = false, updated_at = NOW() WHERE id = $1 AND company_id = $2`,
		id, companyID)
	if err != nil {
		return fmt.Errorf("failed to deactivate profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete hard-deletes a profile. Only administrative cleanup paths
// (demo users, signup compensation) use this.
func (r *ProfileRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM profiles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// TouchActivity updates the last-active timestamp, best effort
func (r *ProfileRepository) TouchActivity(ctx context.Context, userID string, at time.Time) {
	_, _ = r.db.Pool.Exec(ctx,
		`UPDATE profiles SET last_active_at = $1 WHERE user_id = $2`, at, userID)
}

// isUniqueViolation detects Postgres unique-constraint failures
func isUniqueViolation(err error) bool {
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "duplicate") || strings.Contains(s, "unique")
}
