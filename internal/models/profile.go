package models

import (
	"time"
)

// Profile represents a user profile within a company (tenant).
type Profile struct {
	ID           string     `json:"id" db:"id"`
	UserID       string     `json:"user_id" db:"user_id"`
	CompanyID    string     `json:"company_id" db:"company_id"`
	Role         string     `json:"role" db:"role"`
	Name         string     `json:"name" db:"name"`
	Email        string     `json:"email" db:"email"`
	Phone        *string    `json:"phone,omitempty" db:"phone"`
	AvatarURL    *string    `json:"avatar_url,omitempty" db:"avatar_url"`
	IsSuperAdmin bool       `json:"is_super_admin" db:"is_super_admin"`
	IsActive     bool       `json:"is_active" db:"is_active"`
	LastActiveAt *time.Time `json:"last_active_at,omitempty" db:"last_active_at"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// ProfileUpdateRequest represents a self-service or admin profile update
type ProfileUpdateRequest struct {
	Name      *string `json:"name,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
	Role      *string `json:"role,omitempty"`
	IsActive  *bool   `json:"is_active,omitempty"`
}

// ProfileListResponse wraps a page of profiles
type ProfileListResponse struct {
	Profiles []Profile `json:"profiles"`
	Total    int       `json:"total"`
	Page     int       `json:"page"`
	Limit    int       `json:"limit"`
}
