package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/sameera474/buildvault-backend/internal/models"
)

// ErrInvitationAccepted is returned when the invitation was already used.
var ErrInvitationAccepted = errors.New("invitation already accepted")

// ErrInvitationExpired is returned when the invitation is past its expiry.
var ErrInvitationExpired = errors.New("invitation expired")

// InvitationRepository handles team invitation database operations
type InvitationRepository struct {
	db *Database
}

// NewInvitationRepository creates a new invitation repository
func NewInvitationRepository(db *Database) *InvitationRepository {
	return &InvitationRepository{db: db}
}

const invitationColumns = `id, company_id, email, role, token, invited_by, expires_at, accepted_at, created_at`

func scanInvitation(row pgx.Row) (*models.TeamInvitation, error) {
	var inv models.TeamInvitation
	err := row.Scan(&inv.ID, &inv.CompanyID, &inv.Email, &inv.Role, &inv.Token,
		&inv.InvitedBy, &inv.ExpiresAt, &inv.AcceptedAt, &inv.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan invitation: %w", err)
	}
	return &inv, nil
}

// Create inserts a new invitation with a fresh random token
func (r *InvitationRepository) Create(ctx context.Context, companyID, email, role, invitedBy string, ttl time.Duration) (*models.TeamInvitation, error) {
	query := `
		INSERT INTO team_invitations (id, company_id, email, role, token, invited_by, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING ` + invitationColumns
	row := r.db.Pool.QueryRow(ctx, query, uuid.NewString(), companyID, email, role,
		uuid.NewString(), invitedBy, time.Now().Add(ttl))
	inv, err := scanInvitation(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return inv, nil
}

// GetByToken retrieves an invitation by its token
func (r *InvitationRepository) GetByToken(ctx context.Context, token string) (*models.TeamInvitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM team_invitations WHERE token = $1`
	return scanInvitation(r.db.Pool.QueryRow(ctx, query, token))
}

// ListByCompany returns the tenant's invitations, newest first
func (r *InvitationRepository) ListByCompany(ctx context.Context, companyID string) ([]models.TeamInvitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM team_invitations WHERE company_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.Pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query invitations: %w", err)
	}
	defer rows.Close()

	var invitations []models.TeamInvitation
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, err
		}
		invitations = append(invitations, *inv)
	}
	return invitations, rows.Err()
}

// MarkAccepted stamps accepted_at, but only once: a second accept of
// the same token matches zero rows and returns ErrInvitationAccepted.
func (r *InvitationRepository) MarkAccepted(ctx context.Context, token string) (*models.TeamInvitation, error) {
	inv, err := r.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if inv.AcceptedAt != nil {
		return nil, ErrInvitationAccepted
	}
	if time.Now().After(inv.ExpiresAt) {
		return nil, ErrInvitationExpired
	}

	query := `
		UPDATE team_invitations SET accepted_at = NOW()
		WHERE token = $1 AND accepted_at IS NULL
		RETURNING ` + invitationColumns
	updated, err := scanInvitation(r.db.Pool.QueryRow(ctx, query, token))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// raced with another accept
			return nil, ErrInvitationAccepted
		}
		return nil, err
	}
	return updated, nil
}

// ReleaseAccepted clears accepted_at so the token can be used again.
// Compensation path: profile creation failed after the accept stamp.
func (r *InvitationRepository) ReleaseAccepted(ctx context.Context, id string) error {
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE team_invitations SET accepted_at = NULL WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to release invitation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete revokes a pending invitation within the tenant
func (r *InvitationRepository) Delete(ctx context.Context, companyID, id string) error {
	tag, err := r.db.Pool.Exec(ctx,
		`DELETE FROM team_invitations WHERE id = $1 AND company_id = $2 AND accepted_at IS NULL`,
		id, companyID)
	if err != nil {
		return fmt.Errorf("failed to delete invitation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
