package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sameera474/buildvault-backend/internal/models"
	"github.com/sameera474/buildvault-backend/internal/rbac"
)

// Dashboard handles GET /api/dashboard. The blocks returned depend on
// the caller's role: project numbers for project visibility, approval
// queue for approvers, authored-report count for field staff, and team
// size for user managers.
func (h *Handler) Dashboard(c *gin.Context) {
	ctx, cancel := requestContext(c, 15*time.Second)
	defer cancel()

	profile := currentProfile(c)
	role := currentRole(c)
	stats := models.DashboardStats{RedirectPath: rbac.DashboardPath(role)}

	if rbac.HasPermission(role, rbac.PermViewProjects) {
		total, active, err := h.Dashboards.ProjectCounts(ctx, profile.CompanyID)
		if err != nil {
			respondRepoError(c, err, "Failed to compute dashboard")
			return
		}
		stats.TotalProjects = &total
		stats.ActiveProjects = &active
	}

	if rbac.HasPermission(role, rbac.PermViewReports) {
		total, draft, pending, approved, rejected, err := h.Dashboards.ReportCounts(ctx, profile.CompanyID)
		if err != nil {
			respondRepoError(c, err, "Failed to compute dashboard")
			return
		}
		stats.TotalReports = &total
		stats.DraftReports = &draft
		stats.ApprovedReports = &approved
		stats.RejectedReports = &rejected
		if rbac.HasAnyPermission(role, rbac.PermApproveReports, rbac.PermRejectReports) {
			stats.PendingApproval = &pending
		}

		recent, err := h.Reports.List(ctx, profile.CompanyID, models.ReportSearchParams{Page: 1, Limit: 5})
		if err != nil {
			respondRepoError(c, err, "Failed to compute dashboard")
			return
		}
		stats.RecentActivity = recent.Reports
	}

	if rbac.HasPermission(role, rbac.PermViewAnalytics) {
		rate, err := h.Dashboards.PassRate(ctx, profile.CompanyID)
		if err != nil {
			respondRepoError(c, err, "Failed to compute dashboard")
			return
		}
		stats.PassRate = &rate
	}

	if rbac.HasPermission(role, rbac.PermManageCompanyUsers) {
		members, err := h.Dashboards.TeamMemberCount(ctx, profile.CompanyID)
		if err != nil {
			respondRepoError(c, err, "Failed to compute dashboard")
			return
		}
		stats.TeamMembers = &members
	}

	if rbac.HasPermission(role, rbac.PermCreateReports) {
		mine, err := h.Reports.CountByTechnician(ctx, profile.CompanyID, profile.UserID)
		if err != nil {
			respondRepoError(c, err, "Failed to compute dashboard")
			return
		}
		stats.MyReports = &mine
	}

	c.JSON(http.StatusOK, stats)
}

// Menu handles GET /api/menu, the navigation entries for the caller
func (h *Handler) Menu(c *gin.Context) {
	role := currentRole(c)
	c.JSON(http.StatusOK, gin.H{
		"menu":          rbac.MenuFor(role),
		"redirect_path": rbac.DashboardPath(role),
	})
}
