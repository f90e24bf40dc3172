package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sameera474/buildvault-backend/internal/db"
	"github.com/sameera474/buildvault-backend/internal/logging"
	"github.com/sameera474/buildvault-backend/internal/models"
	"github.com/sameera474/buildvault-backend/internal/rbac"
)

const demoTrialDays = 14

// createAccount inserts the credential and then the profile. If the
// profile insert fails the credential row is deleted so a retry with
// the same email does not hit the unique constraint.
func (h *Handler) createAccount(c *gin.Context, companyID, email, password, name, role string, isSuperAdmin bool) (*models.Profile, bool) {
	ctx, cancel := requestContext(c, 15*time.Second)
	defer cancel()

	user, err := h.Users.Create(ctx, email, password)
	if err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			c.JSON(http.StatusConflict, models.ErrorResponse{
				Error:   "User already exists",
				Message: "A user with this email already exists",
			})
			return nil, false
		}
		respondRepoError(c, err, "Failed to create user")
		return nil, false
	}

	profile, err := h.Profiles.Create(ctx, companyID, user.ID, role, name, email, isSuperAdmin)
	if err != nil {
		if delErr := h.Users.Delete(ctx, user.ID); delErr != nil {
			logging.LogKV("error", "credential cleanup failed after profile insert", map[string]interface{}{
				"user_id": user.ID,
				"error":   delErr.Error(),
			})
		}
		respondRepoError(c, err, "Failed to create profile")
		return nil, false
	}
	return profile, true
}

// removeOrphanCompany deletes a company created for an account whose
// credential or profile insert failed.
func (h *Handler) removeOrphanCompany(ctx context.Context, companyID string) {
	if err := h.Companies.Delete(ctx, companyID); err != nil {
		logging.LogKV("error", "company cleanup failed after account creation", map[string]interface{}{
			"company_id": companyID,
			"error":      err.Error(),
		})
	}
}

// CreateSuperAdmin handles POST /functions/create-super-admin
func (h *Handler) CreateSuperAdmin(c *gin.Context) {
	var req models.CreateSuperAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid request data",
			Message: err.Error(),
		})
		return
	}

	ctx, cancel := requestContext(c, 15*time.Second)
	defer cancel()

	company, err := h.Companies.Create(ctx, req.CompanyName, false, 0)
	if err != nil {
		respondRepoError(c, err, "Failed to create company")
		return
	}

	profile, ok := h.createAccount(c, company.ID, req.Email, req.Password, req.Name, string(rbac.RoleSuperAdmin), true)
	if !ok {
		h.removeOrphanCompany(ctx, company.ID)
		return
	}

	actor := currentProfile(c)
	logging.Audit("admin.create_super_admin", actor.Email, actor.Role, map[string]interface{}{
		"email":      req.Email,
		"company_id": company.ID,
	})
	c.JSON(http.StatusCreated, models.SuccessResponse{
		Message: "Super admin created successfully",
		Data:    gin.H{"profile": profile, "company": company},
	})
}

// CreateDemoUser handles POST /functions/create-demo-user. Calling it
// again with the same email is not an error; the existing account is
// reported instead.
func (h *Handler) CreateDemoUser(c *gin.Context) {
	var req models.CreateDemoUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid request data",
			Message: err.Error(),
		})
		return
	}
	if !rbac.ValidRole(req.Role) || rbac.Role(req.Role) == rbac.RoleSuperAdmin {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid role",
			Message: "The specified role is not valid for a demo user",
		})
		return
	}

	ctx, cancel := requestContext(c, 15*time.Second)
	defer cancel()

	if existing, err := h.Users.GetByEmail(ctx, req.Email); err == nil {
		c.JSON(http.StatusOK, models.SuccessResponse{
			Message: "Demo user already exists",
			Data:    existing,
		})
		return
	} else if !errors.Is(err, db.ErrNotFound) {
		respondRepoError(c, err, "Failed to check existing users")
		return
	}

	company, err := h.Companies.Create(ctx, req.CompanyName, true, demoTrialDays)
	if err != nil {
		respondRepoError(c, err, "Failed to create demo company")
		return
	}

	profile, ok := h.createAccount(c, company.ID, req.Email, req.Password, req.Name, req.Role, false)
	if !ok {
		h.removeOrphanCompany(ctx, company.ID)
		return
	}

	actor := currentProfile(c)
	logging.Audit("admin.create_demo_user", actor.Email, actor.Role, map[string]interface{}{
		"email":      req.Email,
		"role":       req.Role,
		"company_id": company.ID,
	})
	c.JSON(http.StatusCreated, models.SuccessResponse{
		Message: "Demo user created successfully",
		Data:    gin.H{"profile": profile, "company": company},
	})
}

// FixDemoUsers handles POST /functions/fix-demo-users. It reactivates
// demo profiles and restores demo companies to an active subscription.
func (h *Handler) FixDemoUsers(c *gin.Context) {
	ctx, cancel := requestContext(c, 30*time.Second)
	defer cancel()

	companies, err := h.Companies.List(ctx)
	if err != nil {
		respondRepoError(c, err, "Failed to list companies")
		return
	}

	fixed := 0
	active := true
	for _, company := range companies {
		if !company.IsDemo {
			continue
		}
		if err := h.Companies.SetSubscriptionStatus(ctx, company.ID, models.SubscriptionActive); err != nil {
			respondRepoError(c, err, "Failed to update demo company subscription")
			return
		}
		profiles, err := h.Profiles.ListByCompany(ctx, company.ID)
		if err != nil {
			respondRepoError(c, err, "Failed to list demo profiles")
			return
		}
		for _, p := range profiles {
			if p.IsActive {
				continue
			}
			if err := h.Profiles.Update(ctx, company.ID, p.ID, models.ProfileUpdateRequest{IsActive: &active}); err != nil {
				respondRepoError(c, err, "Failed to reactivate demo profile")
				return
			}
			fixed++
		}
	}

	actor := currentProfile(c)
	logging.Audit("admin.fix_demo_users", actor.Email, actor.Role, map[string]interface{}{
		"profiles_fixed": fixed,
	})
	c.JSON(http.StatusOK, models.SuccessResponse{
		Message: fmt.Sprintf("Fixed %d demo profiles", fixed),
	})
}

// DeleteDemoUsers handles POST /functions/delete-demo-users. It removes
// demo companies together with their profiles and credentials.
func (h *Handler) DeleteDemoUsers(c *gin.Context) {
	ctx, cancel := requestContext(c, 30*time.Second)
	defer cancel()

	companies, err := h.Companies.List(ctx)
	if err != nil {
		respondRepoError(c, err, "Failed to list companies")
		return
	}

	deleted := 0
	for _, company := range companies {
		if !company.IsDemo {
			continue
		}
		profiles, err := h.Profiles.ListByCompany(ctx, company.ID)
		if err != nil {
			respondRepoError(c, err, "Failed to list demo profiles")
			return
		}
		for _, p := range profiles {
			if err := h.Profiles.Delete(ctx, p.ID); err != nil && !errors.Is(err, db.ErrNotFound) {
				respondRepoError(c, err, "Failed to delete demo profile")
				return
			}
			if err := h.Users.Delete(ctx, p.UserID); err != nil && !errors.Is(err, db.ErrNotFound) {
				respondRepoError(c, err, "Failed to delete demo credential")
				return
			}
		}
		if err := h.Companies.DeleteDemo(ctx, company.ID); err != nil {
			respondRepoError(c, err, "Failed to delete demo company")
			return
		}
		deleted++
	}

	actor := currentProfile(c)
	logging.Audit("admin.delete_demo_users", actor.Email, actor.Role, map[string]interface{}{
		"companies_deleted": deleted,
	})
	c.JSON(http.StatusOK, models.SuccessResponse{
		Message: fmt.Sprintf("Deleted %d demo companies", deleted),
	})
}

// CreateTeamMember handles POST /functions/create-team-member
func (h *Handler) CreateTeamMember(c *gin.Context) {
	var req models.CreateTeamMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid request data",
			Message: err.Error(),
		})
		return
	}
	if !rbac.ValidRole(req.Role) || rbac.Role(req.Role) == rbac.RoleSuperAdmin {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid role",
			Message: "The specified role is not valid for a team member",
		})
		return
	}

	ctx, cancel := requestContext(c, 15*time.Second)
	defer cancel()

	if _, err := h.Companies.GetByID(ctx, req.CompanyID); err != nil {
		respondRepoError(c, err, "Failed to load company")
		return
	}

	profile, ok := h.createAccount(c, req.CompanyID, req.Email, req.Password, req.Name, req.Role, false)
	if !ok {
		return
	}

	actor := currentProfile(c)
	logging.Audit("admin.create_team_member", actor.Email, actor.Role, map[string]interface{}{
		"email":      req.Email,
		"role":       req.Role,
		"company_id": req.CompanyID,
	})
	c.JSON(http.StatusCreated, models.SuccessResponse{
		Message: "Team member created successfully",
		Data:    profile,
	})
}

// AdminInviteCompanyUser handles POST /functions/admin-invite-company-user
func (h *Handler) AdminInviteCompanyUser(c *gin.Context) {
	var req models.AdminInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid request data",
			Message: err.Error(),
		})
		return
	}
	if !rbac.ValidRole(req.Role) || rbac.Role(req.Role) == rbac.RoleSuperAdmin {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid role",
			Message: "The specified role is not valid for an invitation",
		})
		return
	}

	ctx, cancel := requestContext(c, 15*time.Second)
	defer cancel()

	company, err := h.Companies.GetByID(ctx, req.CompanyID)
	if err != nil {
		respondRepoError(c, err, "Failed to load company")
		return
	}

	actor := currentProfile(c)
	inv, err := h.Invitations.Create(ctx, req.CompanyID, req.Email, req.Role, actor.UserID, invitationTTL)
	if err != nil {
		respondRepoError(c, err, "Failed to create invitation")
		return
	}

	if h.Email != nil {
		if err := h.Email.SendTeamInvitation(ctx, req.Email, company.Name, req.Role, inv.Token, inv.ExpiresAt); err != nil {
			logging.LogKV("error", "invitation email failed", map[string]interface{}{
				"invitation_id": inv.ID,
				"error":         err.Error(),
			})
		}
	}

	logging.Audit("admin.invite_company_user", actor.Email, actor.Role, map[string]interface{}{
		"email":      req.Email,
		"role":       req.Role,
		"company_id": req.CompanyID,
	})
	c.JSON(http.StatusCreated, models.SuccessResponse{
		Message: "Invitation created successfully",
		Data:    inv,
	})
}

// AdminListCompanyUsers handles GET /functions/admin-list-company-users
func (h *Handler) AdminListCompanyUsers(c *gin.Context) {
	companyID := c.Query("company_id")
	if companyID == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Missing company_id",
			Message: "company_id query parameter is required",
		})
		return
	}

	ctx, cancel := requestContext(c, 10*time.Second)
	defer cancel()

	profiles, err := h.Profiles.ListByCompany(ctx, companyID)
	if err != nil {
		respondRepoError(c, err, "Failed to list company users")
		return
	}
	c.JSON(http.StatusOK, models.ProfileListResponse{
		Profiles: profiles,
		Total:    len(profiles),
		Page:     1,
		Limit:    len(profiles),
	})
}

// AdminUpdateCompanyUser handles POST /functions/admin-update-company-user
func (h *Handler) AdminUpdateCompanyUser(c *gin.Context) {
	var req models.AdminProfileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid request data",
			Message: err.Error(),
		})
		return
	}
	if req.Update.Role != nil && !rbac.ValidRole(*req.Update.Role) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid role",
			Message: "The specified role is not valid",
		})
		return
	}

	ctx, cancel := requestContext(c, 10*time.Second)
	defer cancel()

	if err := h.Profiles.Update(ctx, req.CompanyID, req.ProfileID, req.Update); err != nil {
		respondRepoError(c, err, "Failed to update company user")
		return
	}

	actor := currentProfile(c)
	logging.Audit("admin.update_company_user", actor.Email, actor.Role, map[string]interface{}{
		"company_id": req.CompanyID,
		"profile_id": req.ProfileID,
	})
	c.JSON(http.StatusOK, models.SuccessResponse{Message: "Company user updated successfully"})
}

// AdminCreateProject handles POST /functions/admin-create-project
func (h *Handler) AdminCreateProject(c *gin.Context) {
	var req models.AdminProjectCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid request data",
			Message: err.Error(),
		})
		return
	}
	if req.Project.Name == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid request data",
			Message: "project.name is required",
		})
		return
	}

	ctx, cancel := requestContext(c, 15*time.Second)
	defer cancel()

	if _, err := h.Companies.GetByID(ctx, req.CompanyID); err != nil {
		respondRepoError(c, err, "Failed to load company")
		return
	}

	project, err := h.Projects.Create(ctx, req.CompanyID, req.Project)
	if err != nil {
		respondRepoError(c, err, "Failed to create project")
		return
	}

	actor := currentProfile(c)
	logging.Audit("admin.create_project", actor.Email, actor.Role, map[string]interface{}{
		"company_id": req.CompanyID,
		"project_id": project.ID,
	})
	c.JSON(http.StatusCreated, models.SuccessResponse{
		Message: "Project created successfully",
		Data:    project,
	})
}

// AdminUpdateProject handles POST /functions/admin-update-project
func (h *Handler) AdminUpdateProject(c *gin.Context) {
	var req models.AdminProjectUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid request data",
			Message: err.Error(),
		})
		return
	}
	if req.Update.Status != nil && !models.ValidateProjectStatus(*req.Update.Status) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid status",
			Message: "The specified project status is not valid",
		})
		return
	}

	ctx, cancel := requestContext(c, 10*time.Second)
	defer cancel()

	if err := h.Projects.Update(ctx, req.CompanyID, req.ProjectID, req.Update); err != nil {
		respondRepoError(c, err, "Failed to update project")
		return
	}

	actor := currentProfile(c)
	logging.Audit("admin.update_project", actor.Email, actor.Role, map[string]interface{}{
		"company_id": req.CompanyID,
		"project_id": req.ProjectID,
	})
	c.JSON(http.StatusOK, models.SuccessResponse{Message: "Project updated successfully"})
}

// AdminListProjects handles GET /functions/admin-list-projects
func (h *Handler) AdminListProjects(c *gin.Context) {
	companyID := c.Query("company_id")
	if companyID == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Missing company_id",
			Message: "company_id query parameter is required",
		})
		return
	}

	ctx, cancel := requestContext(c, 10*time.Second)
	defer cancel()

	projects, err := h.Projects.ListByCompany(ctx, companyID)
	if err != nil {
		respondRepoError(c, err, "Failed to list projects")
		return
	}
	c.JSON(http.StatusOK, gin.H{"projects": projects, "total": len(projects)})
}

// SendContactConfirmation handles POST /functions/send-contact-confirmation
func (h *Handler) SendContactConfirmation(c *gin.Context) {
	var req models.ContactConfirmationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid request data",
			Message: err.Error(),
		})
		return
	}
	if h.Email == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "Email service unavailable",
			Message: "Email service not configured",
		})
		return
	}

	ctx, cancel := requestContext(c, 15*time.Second)
	defer cancel()

	if err := h.Email.SendContactConfirmation(ctx, req.Email, req.Name); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "Failed to send email",
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, models.SuccessResponse{Message: "Confirmation email sent"})
}

// SendWorkflowNotification handles POST /functions/send-workflow-notification
func (h *Handler) SendWorkflowNotification(c *gin.Context) {
	var req models.WorkflowNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid request data",
			Message: err.Error(),
		})
		return
	}
	if h.Email == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "Email service unavailable",
			Message: "Email service not configured",
		})
		return
	}

	ctx, cancel := requestContext(c, 15*time.Second)
	defer cancel()

	if err := h.Email.SendWorkflowNotification(ctx, req.Email, req.ReportNumber, req.Decision, req.Note); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "Failed to send email",
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, models.SuccessResponse{Message: "Notification email sent"})
}

// ExportMonthlySummaryPdf handles GET /functions/export-monthly-summary-pdf
func (h *Handler) ExportMonthlySummaryPdf(c *gin.Context) {
	companyID := c.Query("company_id")
	if companyID == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Missing company_id",
			Message: "company_id query parameter is required",
		})
		return
	}
	now := time.Now().UTC()
	year, _ := strconv.Atoi(c.DefaultQuery("year", strconv.Itoa(now.Year())))
	month, _ := strconv.Atoi(c.DefaultQuery("month", strconv.Itoa(int(now.Month()))))
	if month < 1 || month > 12 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid month",
			Message: "month must be between 1 and 12",
		})
		return
	}

	ctx, cancel := requestContext(c, 30*time.Second)
	defer cancel()

	company, err := h.Companies.GetByID(ctx, companyID)
	if err != nil {
		respondRepoError(c, err, "Failed to load company")
		return
	}
	rows, err := h.Dashboards.MonthlySummaries(ctx, companyID, year, month)
	if err != nil {
		respondRepoError(c, err, "Failed to build monthly summary")
		return
	}

	pdf, err := h.Pdf.MonthlySummary(company.Name, year, time.Month(month), rows)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "Failed to render PDF",
			Message: err.Error(),
		})
		return
	}

	filename := fmt.Sprintf("summary-%s-%04d-%02d.pdf", companyID, year, month)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// GetStripeRevenue handles GET /functions/get-stripe-revenue
func (h *Handler) GetStripeRevenue(c *gin.Context) {
	now := time.Now().UTC()
	from := now.AddDate(0, -1, 0)
	to := now
	if v := c.Query("from"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:   "Invalid from",
				Message: "from must be an RFC3339 timestamp",
			})
			return
		}
		from = parsed
	}
	if v := c.Query("to"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:   "Invalid to",
				Message: "to must be an RFC3339 timestamp",
			})
			return
		}
		to = parsed
	}
	if !to.After(from) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid range",
			Message: "to must be after from",
		})
		return
	}

	if !h.Billing.Enabled() {
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{
			Error:   "Billing unavailable",
			Message: "Stripe is not configured",
		})
		return
	}

	report, err := h.Billing.Revenue(from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "Failed to query revenue",
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, models.SuccessResponse{
		Message: "Revenue report generated",
		Data:    report,
	})
}
