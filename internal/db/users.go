package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

// AuthUser is a credential row in the users table. Profiles reference
// it by user_id; administrative flows create the pair together and
// compensate by deleting the credential when the profile insert fails.
type AuthUser struct {
	ID        string    `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// UserRepository handles auth credential database operations
type UserRepository struct {
	db *Database
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *Database) *UserRepository {
	return &UserRepository{db: db}
}

// GetByEmail retrieves an auth user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*AuthUser, error) {
	var u AuthUser
	err := r.db.Pool.QueryRow(ctx,
		`SELECT id, email, created_at FROM users WHERE LOWER(email) = LOWER($1)`, email).
		Scan(&u.ID, &u.Email, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query auth user: %w", err)
	}
	return &u, nil
}

// Create inserts a credential row with a bcrypt-hashed password
func (r *UserRepository) Create(ctx context.Context, email, password string) (*AuthUser, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	var u AuthUser
	err = r.db.Pool.QueryRow(ctx, `
		INSERT INTO users (id, email, password_hash, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, email, created_at`,
		uuid.NewString(), email, string(hash)).
		Scan(&u.ID, &u.Email, &u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("failed to create auth user: %w", err)
	}
	return &u, nil
}

// Delete removes a credential row. Used by the compensation path when
// a profile insert fails after the credential was created.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete auth user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
