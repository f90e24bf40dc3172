package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sameera474/buildvault-backend/internal/models"
)

// ListTemplates handles GET /api/templates. Returns the tenant's
// templates plus the shared defaults.
func (h *Handler) ListTemplates(c *gin.Context) {
	ctx, cancel := requestContext(c, 10*time.Second)
	defer cancel()

	profile := currentProfile(c)
	templates, err := h.Templates.ListVisible(ctx, profile.CompanyID)
	if err != nil {
		respondRepoError(c, err, "Failed to retrieve templates")
		return
	}
	c.JSON(http.StatusOK, gin.H{"templates": templates})
}

// GetTemplate handles GET /api/templates/{template_id}
func (h *Handler) GetTemplate(c *gin.Context) {
	ctx, cancel := requestContext(c, 10*time.Second)
	defer cancel()

	profile := currentProfile(c)
	template, err := h.Templates.GetVisibleByID(ctx, profile.CompanyID, c.Param("template_id"))
	if err != nil {
		respondRepoError(c, err, "Failed to retrieve template")
		return
	}
	c.JSON(http.StatusOK, gin.H{"template": template})
}

// CreateTemplate handles POST /api/templates
func (h *Handler) CreateTemplate(c *gin.Context) {
	ctx, cancel := requestContext(c, 10*time.Second)
	defer cancel()

	var req models.TemplateCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid request data",
			Message: err.Error(),
		})
		return
	}

	profile := currentProfile(c)
	template, err := h.Templates.Create(ctx, profile.CompanyID, profile.UserID, req)
	if err != nil {
		respondRepoError(c, err, "Failed to create template")
		return
	}
	c.JSON(http.StatusCreated, models.SuccessResponse{
		Message: "Template created successfully",
		Data:    template,
	})
}

// UpdateTemplate handles PUT /api/templates/{template_id}
func (h *Handler) UpdateTemplate(c *gin.Context) {
	ctx, cancel := requestContext(c, 10*time.Second)
	defer cancel()

	var req models.TemplateUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid request body",
			Message: err.Error(),
		})
		return
	}

	profile := currentProfile(c)
	if err := h.Templates.Update(ctx, profile.CompanyID, c.Param("template_id"), req); err != nil {
		respondRepoError(c, err, "Failed to update template")
		return
	}
	c.JSON(http.StatusOK, models.SuccessResponse{Message: "Template updated successfully"})
}

// DeleteTemplate handles DELETE /api/templates/{template_id}
func (h *Handler) DeleteTemplate(c *gin.Context) {
	ctx, cancel := requestContext(c, 10*time.Second)
	defer cancel()

	profile := currentProfile(c)
	if err := h.Templates.Delete(ctx, profile.CompanyID, c.Param("template_id")); err != nil {
		respondRepoError(c, err, "Failed to delete template")
		return
	}
	c.JSON(http.StatusOK, models.SuccessResponse{Message: "Template deleted successfully"})
}
