package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sameera474/buildvault-backend/internal/logging"
	"github.com/sameera474/buildvault-backend/internal/models"
	"github.com/sameera474/buildvault-backend/internal/workflow"
)

// ListReports handles GET /api/reports
func (h *Handler) ListReports(c *gin.Context) {
	ctx, cancel := requestContext(c, 10*time.Second)
	defer cancel()

	params := models.ReportSearchParams{Page: 1, Limit: 20}
	if page := c.Query("page"); page != "" {
		if p, err := strconv.Atoi(page); err == nil && p > 0 {
			params.Page = p
		}
	}
	if limit := c.Query("limit"); limit != "" {
		if l, err := strconv.Atoi(limit); err == nil && l > 0 && l <= 100 {
			params.Limit = l
		}
	}
	params.ProjectID = c.Query("project_id")
	if status := c.Query("status"); status != "" && models.ValidateReportStatus(status) {
		s := models.ReportStatus(status)
		params.Status = &s
	}
	if search := c.Query("search"); search != "" {
		params.Search = strings.TrimSpace(search)
	}

	profile := currentProfile(c)
	response, err := h.Reports.List(ctx, profile.CompanyID, params)
	if err != nil {
		respondRepoError(c, err, "Failed to retrieve reports")
		return
	}
	c.JSON(http.StatusOK, response)
}

// PendingApprovals handles GET /api/reports/pending-approval. Only
// reports with compliance_status still pending appear here; a decision
// removes them.
func (h *Handler) PendingApprovals(c *gin.Context) {
	ctx, cancel := requestContext(c, 10*time.Second)
	defer cancel()

	profile := currentProfile(c)
	reports, err := h.Reports.PendingApproval(ctx, profile.CompanyID)
	if err != nil {
		respondRepoError(c, err, "Failed to retrieve pending reports")
		return
	}
	c.JSON(http.StatusOK, gin.H{"reports": reports})
}

// GetReport handles GET /api/reports/{report_id}
func (h *Handler) GetReport(c *gin.Context) {
	ctx, cancel := requestContext(c, 10*time.Second)
	defer cancel()

	profile := currentProfile(c)
	report, err := h.Reports.GetByID(ctx, profile.CompanyID, c.Param("report_id"))
	if err != nil {
		respondRepoError(c, err, "Failed to retrieve report")
		return
	}
	c.JSON(http.StatusOK, gin.H{"report": report})
}

// CreateReport handles POST /api/reports. Reports are born as drafts;
// the tenant and author come from the caller's profile.
func (h *Handler) CreateReport(c *gin.Context) {
	ctx, cancel := requestContext(c, 10*time.Second)
	defer cancel()

	var req models.ReportCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid request data",
			Message: err.Error(),
		})
		return
	}

	profile := currentProfile(c)

	// the project must belong to the caller's tenant
	if _, err := h.Projects.GetByID(ctx, profile.CompanyID, req.ProjectID); err != nil {
		respondRepoError(c, err, "Failed to verify project")
		return
	}

	report, err := h.Reports.Create(ctx, profile.CompanyID, profile.UserID, req)
	if err != nil {
		respondRepoError(c, err, "Failed to create report")
		return
	}
	c.JSON(http.StatusCreated, models.SuccessResponse{
		Message: "Report created successfully",
		Data:    report,
	})
}

// UpdateReport handles PUT /api/reports/{report_id}. Workflow fields
// are not updatable here; illegal attempts are rejected up front.
func (h *Handler) UpdateReport(c *gin.Context) {
	ctx, cancel := requestContext(c, 10*time.Second)
	defer cancel()

	var raw map[string]any
	if err := c.ShouldBindJSON(&raw); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid request body",
			Message: err.Error(),
		})
		return
	}
	for _, field := range []string{"status", "compliance_status", "approved_by", "approved_at"} {
		if _, present := raw[field]; present {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:   "Invalid field",
				Message: "Workflow fields can only change through the submit/approve/reject/reopen endpoints",
			})
			return
		}
	}

	req, err := bindReportUpdate(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid request body",
			Message: err.Error(),
		})
		return
	}

	profile := currentProfile(c)
	if err := h.Reports.Update(ctx, profile.CompanyID, c.Param("report_id"), req); err != nil {
		respondRepoError(c, err, "Failed to update report")
		return
	}
	c.JSON(http.StatusOK, models.SuccessResponse{Message: "Report updated successfully"})
}

// DeleteReport handles DELETE /api/reports/{report_id}
func (h *Handler) DeleteReport(c *gin.Context) {
	ctx, cancel := requestContext(c, 10*time.Second)
	defer cancel()

	profile := currentProfile(c)
	if err := h.Reports.Delete(ctx, profile.CompanyID, c.Param("report_id")); err != nil {
		respondRepoError(c, err, "Failed to delete report")
		return
	}
	c.JSON(http.StatusOK, models.SuccessResponse{Message: "Report deleted successfully"})
}

// SubmitReport handles POST /api/reports/{report_id}/submit
func (h *Handler) SubmitReport(c *gin.Context) {
	h.transitionReport(c, workflow.ActionSubmit)
}

// ApproveReport handles POST /api/reports/{report_id}/approve
func (h *Handler) ApproveReport(c *gin.Context) {
	h.transitionReport(c, workflow.ActionApprove)
}

// RejectReport handles POST /api/reports/{report_id}/reject
func (h *Handler) RejectReport(c *gin.Context) {
	h.transitionReport(c, workflow.ActionReject)
}

// ReopenReport handles POST /api/reports/{report_id}/reopen
func (h *Handler) ReopenReport(c *gin.Context) {
	h.transitionReport(c, workflow.ActionReopen)
}

// transitionReport validates the workflow move, applies it with a
// conditional update, and notifies the author on decisions. Exactly
// one of two racing approvers can win; the other receives 409.
func (h *Handler) transitionReport(c *gin.Context, action workflow.Action) {
	ctx, cancel := requestContext(c, 10*time.Second)
	defer cancel()

	var req models.ReportDecisionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:   "Invalid request body",
				Message: err.Error(),
			})
			return
		}
	}

	profile := currentProfile(c)
	reportID := c.Param("report_id")

	report, err := h.Reports.GetByID(ctx, profile.CompanyID, reportID)
	if err != nil {
		respondRepoError(c, err, "Failed to retrieve report")
		return
	}

	next, compliance, err := workflow.Next(currentRole(c), report.Status, action)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	var approverID *string
	var approvedAt *time.Time
	var note *string
	if workflow.RecordsApprover(action) {
		now := time.Now().UTC()
		approverID = &profile.UserID
		approvedAt = &now
		note = req.Note
	}

	updated, err := h.Reports.Transition(ctx, profile.CompanyID, reportID,
		report.Status, next, compliance, approverID, approvedAt, note)
	if err != nil {
		respondRepoError(c, err, "Failed to update report status")
		return
	}

	logging.Audit("report."+string(action), profile.Email, profile.Role, map[string]interface{}{
		"report_id":     updated.ID,
		"report_number": updated.ReportNumber,
		"status":        updated.Status,
	})

	if workflow.RecordsApprover(action) {
		// the resulting status doubles as the past-tense decision word
		h.notifyDecision(updated, string(updated.Status))
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Message: "Report " + string(action) + " successful",
		Data:    updated,
	})
}

// notifyDecision emails and optionally texts the report author about
// an approval decision. Best effort; failures are logged, not surfaced.
func (h *Handler) notifyDecision(report *models.TestReport, decision string) {
	ctx, cancel := requestContextBackground(10 * time.Second)
	defer cancel()

	author, err := h.Profiles.GetByUserID(ctx, report.CreatedBy)
	if err != nil {
		logging.LogKV("warn", "decision notification skipped", map[string]interface{}{
			"report_id": report.ID, "reason": err.Error(),
		})
		return
	}

	if h.Email != nil {
		if err := h.Email.SendWorkflowNotification(ctx, author.Email, report.ReportNumber, decision, report.ApprovalNote); err != nil {
			logging.LogKV("warn", "decision email failed", map[string]interface{}{
				"report_id": report.ID, "error": err.Error(),
			})
		}
	}
	if h.Sms != nil && author.Phone != nil && *author.Phone != "" {
		if err := h.Sms.SendSMS(ctx, *author.Phone, decisionNotice(report.ReportNumber, decision)); err != nil {
			logging.LogKV("warn", "decision sms failed", map[string]interface{}{
				"report_id": report.ID, "error": err.Error(),
			})
		}
	}
}

// decisionNotice is the SMS body for a report decision. The decision
// word is the resulting status, which reads as past tense.
func decisionNotice(reportNumber, decision string) string {
	return "BuildVault: report " + reportNumber + " was " + decision + "."
}

// bindReportUpdate maps the already-screened raw body onto the update
// struct through the same JSON machinery gin would have used.
func bindReportUpdate(raw map[string]any) (models.ReportUpdateRequest, error) {
	var req models.ReportUpdateRequest
	b, err := json.Marshal(raw)
	if err != nil {
		return req, err
	}
	if err := json.Unmarshal(b, &req); err != nil {
		return req, err
	}
	return req, nil
}
