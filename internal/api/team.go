package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sameera474/buildvault-backend/internal/db"
	"github.com/sameera474/buildvault-backend/internal/logging"
	"github.com/sameera474/buildvault-backend/internal/models"
	"github.com/sameera474/buildvault-backend/internal/rbac"
)

// invitationTTL is how long a team invitation stays valid.
const invitationTTL = 7 * 24 * time.Hour

// ListTeam handles GET /api/team
func (h *Handler) ListTeam(c *gin.Context) {
	ctx, cancel := requestContext(c, 10*time.Second)
	defer cancel()

	profile := currentProfile(c)
	members, err := h.Profiles.ListByCompany(ctx, profile.CompanyID)
	if err != nil {
		respondRepoError(c, err, "Failed to retrieve team members")
		return
	}
	invitations, err := h.Invitations.ListByCompany(ctx, profile.CompanyID)
	if err != nil {
		respondRepoError(c, err, "Failed to retrieve invitations")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"members":     members,
		"invitations": invitations,
	})
}

// UpdateTeamMember handles PUT /api/team/{profile_id}
func (h *Handler) UpdateTeamMember(c *gin.Context) {
	ctx, cancel := requestContext(c, 10*time.Second)
	defer cancel()

	var req models.ProfileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid request data",
			Message: err.Error(),
		})
		return
	}
	if req.Role != nil && !rbac.ValidRole(*req.Role) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid role",
			Message: "The specified role is not valid",
		})
		return
	}

	profile := currentProfile(c)
	logging.Audit("team.update", profile.Email, profile.Role, map[string]interface{}{
		"target_profile_id": c.Param("profile_id"),
	})

	if err := h.Profiles.Update(ctx, profile.CompanyID, c.Param("profile_id"), req); err != nil {
		respondRepoError(c, err, "Failed to update team member")
		return
	}
	c.JSON(http.StatusOK, models.SuccessResponse{Message: "Team member updated successfully"})
}

// DeactivateTeamMember handles DELETE /api/team/{profile_id}.
// Profiles are soft-deactivated, never hard-deleted here.
func (h *Handler) DeactivateTeamMember(c *gin.Context) {
	ctx, cancel := requestContext(c, 10*time.Second)
	defer cancel()

	profile := currentProfile(c)
	if c.Param("profile_id") == profile.ID {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid request",
			Message: "You cannot deactivate your own profile",
		})
		return
	}

	logging.Audit("team.deactivate", profile.Email, profile.Role, map[string]interface{}{
		"target_profile_id": c.Param("profile_id"),
	})

	if err := h.Profiles.Deactivate(ctx, profile.CompanyID, c.Param("profile_id")); err != nil {
		respondRepoError(c, err, "Failed to deactivate team member")
		return
	}
	c.JSON(http.StatusOK, models.SuccessResponse{Message: "Team member deactivated successfully"})
}

// SendInvitation handles POST /api/team/invitations
func (h *Handler) SendInvitation(c *gin.Context) {
	ctx, cancel := requestContext(c, 10*time.Second)
	defer cancel()

	var req models.SendInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid request data",
			Message: err.Error(),
		})
		return
	}
	if !rbac.ValidRole(req.Role) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid role",
			Message: "The specified role is not valid",
		})
		return
	}
	if rbac.Role(req.Role) == rbac.RoleSuperAdmin {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid role",
			Message: "Platform administrators cannot be created by invitation",
		})
		return
	}

	profile := currentProfile(c)

	// an active member with this email makes the invitation pointless
	if existing, err := h.Profiles.GetByEmail(ctx, req.Email); err == nil && existing.IsActive {
		c.JSON(http.StatusConflict, models.ErrorResponse{
			Error:   "Already a member",
			Message: "A profile with this email already exists",
		})
		return
	} else if err != nil && !errors.Is(err, db.ErrNotFound) {
		respondRepoError(c, err, "Failed to check existing profiles")
		return
	}

	inv, err := h.Invitations.Create(ctx, profile.CompanyID, req.Email, req.Role, profile.UserID, invitationTTL)
	if err != nil {
		respondRepoError(c, err, "Failed to create invitation")
		return
	}

	company, err := h.Companies.GetByID(ctx, profile.CompanyID)
	if err != nil {
		respondRepoError(c, err, "Failed to load company")
		return
	}

	if h.Email == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "Email service unavailable",
			Message: "Email service not configured",
		})
		return
	}
	if err := h.Email.SendTeamInvitation(ctx, req.Email, company.Name, req.Role, inv.Token, inv.ExpiresAt); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "Failed to send invitation email",
			Message: err.Error(),
		})
		return
	}

	logging.Audit("invitation.send", profile.Email, profile.Role, map[string]interface{}{
		"invitation_id": inv.ID,
		"email":         req.Email,
		"invited_role":  req.Role,
	})
	c.JSON(http.StatusCreated, models.SuccessResponse{
		Message: "Invitation sent successfully",
		Data:    inv,
	})
}

// RevokeInvitation handles DELETE /api/team/invitations/{invitation_id}
func (h *Handler) RevokeInvitation(c *gin.Context) {
	ctx, cancel := requestContext(c, 10*time.Second)
	defer cancel()

	profile := currentProfile(c)
	if err := h.Invitations.Delete(ctx, profile.CompanyID, c.Param("invitation_id")); err != nil {
		respondRepoError(c, err, "Failed to revoke invitation")
		return
	}
	c.JSON(http.StatusOK, models.SuccessResponse{Message: "Invitation revoked successfully"})
}

// AcceptInvitation handles POST /api/invitations/accept. The caller is
// authenticated but has no profile yet; an accepted or expired token
// performs no mutation.
func (h *Handler) AcceptInvitation(c *gin.Context) {
	ctx, cancel := requestContext(c, 10*time.Second)
	defer cancel()

	var req models.AcceptInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid request data",
			Message: err.Error(),
		})
		return
	}

	inv, err := h.Invitations.MarkAccepted(ctx, req.Token)
	if err != nil {
		switch {
		case errors.Is(err, db.ErrInvitationAccepted):
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:   "Invitation already accepted",
				Message: "This invitation has already been used",
			})
		case errors.Is(err, db.ErrInvitationExpired):
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:   "Invitation expired",
				Message: "This invitation is no longer valid",
			})
		case errors.Is(err, db.ErrNotFound):
			c.JSON(http.StatusNotFound, models.ErrorResponse{
				Error:   "Invitation not found",
				Message: "No invitation matches this token",
			})
		default:
			respondRepoError(c, err, "Failed to accept invitation")
		}
		return
	}

	userID := c.GetString(ctxUserID)
	profile, err := h.Profiles.Create(ctx, inv.CompanyID, userID, inv.Role, req.Name, inv.Email, false)
	if err != nil {
		// hand the token back so a later attempt can still succeed
		if relErr := h.Invitations.ReleaseAccepted(ctx, inv.ID); relErr != nil {
			logging.LogKV("error", "invitation release failed after profile insert", map[string]interface{}{
				"invitation_id": inv.ID,
				"error":         relErr.Error(),
			})
		}
		respondRepoError(c, err, "Failed to create profile")
		return
	}

	logging.Audit("invitation.accept", inv.Email, inv.Role, map[string]interface{}{
		"invitation_id": inv.ID,
		"company_id":    inv.CompanyID,
	})
	c.JSON(http.StatusOK, models.SuccessResponse{
		Message: "Invitation accepted successfully",
		Data:    profile,
	})
}
