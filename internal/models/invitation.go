package models

import (
	"time"
)

// TeamInvitation is a pending invitation to join a company.
type TeamInvitation struct {
	ID         string     `json:"id" db:"id"`
	CompanyID  string     `json:"company_id" db:"company_id"`
	Email      string     `json:"email" db:"email"`
	Role       string     `json:"role" db:"role"`
	Token      string     `json:"-" db:"token"`
	InvitedBy  string     `json:"invited_by" db:"invited_by"`
	ExpiresAt  time.Time  `json:"expires_at" db:"expires_at"`
	AcceptedAt *time.Time `json:"accepted_at,omitempty" db:"accepted_at"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
}

// SendInvitationRequest represents the payload for inviting a team member
type SendInvitationRequest struct {
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role" binding:"required"`
	Name  *string `json:"name,omitempty"`
}

// AcceptInvitationRequest represents the payload for accepting an
// invitation. The accepting user is identified by their credential,
// not by the payload.
type AcceptInvitationRequest struct {
	Token string `json:"token" binding:"required"`
	Name  string `json:"name" binding:"required"`
}
