package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sameera474/buildvault-backend/internal/logging"
	"github.com/sameera474/buildvault-backend/internal/models"
)

// GetCompany handles GET /api/company, the caller's own tenant
func (h *Handler) GetCompany(c *gin.Context) {
	ctx, cancel := requestContext(c, 10*time.Second)
	defer cancel()

	profile := currentProfile(c)
	company, err := h.Companies.GetByID(ctx, profile.CompanyID)
	if err != nil {
		respondRepoError(c, err, "Failed to retrieve company")
		return
	}
	c.JSON(http.StatusOK, company)
}

// UpdateCompany handles PUT /api/company. Subscription status is not
// updatable here; it changes through billing events only.
func (h *Handler) UpdateCompany(c *gin.Context) {
	ctx, cancel := requestContext(c, 10*time.Second)
	defer cancel()

	var req models.CompanyUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid request data",
			Message: err.Error(),
		})
		return
	}

	profile := currentProfile(c)
	if err := h.Companies.Update(ctx, profile.CompanyID, req); err != nil {
		respondRepoError(c, err, "Failed to update company")
		return
	}

	logging.Audit("company.update", profile.Email, profile.Role, map[string]interface{}{
		"company_id": profile.CompanyID,
	})
	c.JSON(http.StatusOK, models.SuccessResponse{Message: "Company updated successfully"})
}
