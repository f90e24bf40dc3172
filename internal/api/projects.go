package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sameera474/buildvault-backend/internal/logging"
	"github.com/sameera474/buildvault-backend/internal/models"
)

// ListProjects handles GET /api/projects
func (h *Handler) ListProjects(c *gin.Context) {
	ctx, cancel := requestContext(c, 10*time.Second)
	defer cancel()

	profile := currentProfile(c)
	projects, err := h.Projects.ListByCompany(ctx, profile.CompanyID)
	if err != nil {
		respondRepoError(c, err, "Failed to retrieve projects")
		return
	}
	c.JSON(http.StatusOK, gin.H{"projects": projects})
}

// GetProject handles GET /api/projects/{project_id}
func (h *Handler) GetProject(c *gin.Context) {
	ctx, cancel := requestContext(c, 10*time.Second)
	defer cancel()

	profile := currentProfile(c)
	project, err := h.Projects.GetByID(ctx, profile.CompanyID, c.Param("project_id"))
	if err != nil {
		respondRepoError(c, err, "Failed to retrieve project")
		return
	}
	c.JSON(http.StatusOK, gin.H{"project": project})
}

// CreateProject handles POST /api/projects. The tenant always comes
// from the caller's profile; a company_id in the payload is ignored.
func (h *Handler) CreateProject(c *gin.Context) {
	ctx, cancel := requestContext(c, 10*time.Second)
	defer cancel()

	var req models.ProjectCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid request data",
			Message: err.Error(),
		})
		return
	}

	profile := currentProfile(c)
	project, err := h.Projects.Create(ctx, profile.CompanyID, req)
	if err != nil {
		respondRepoError(c, err, "Failed to create project")
		return
	}

	logging.Audit("project.create", profile.Email, profile.Role, map[string]interface{}{
		"project_id": project.ID,
		"company_id": project.CompanyID,
	})
	c.JSON(http.StatusCreated, models.SuccessResponse{
		Message: "Project created successfully",
		Data:    project,
	})
}

// UpdateProject handles PUT /api/projects/{project_id}
func (h *Handler) UpdateProject(c *gin.Context) {
	ctx, cancel := requestContext(c, 10*time.Second)
	defer cancel()

	var req models.ProjectUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid request body",
			Message: err.Error(),
		})
		return
	}
	if req.Status != nil && !models.ValidateProjectStatus(*req.Status) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid status",
			Message: "The specified project status is not valid",
		})
		return
	}

	profile := currentProfile(c)
	if err := h.Projects.Update(ctx, profile.CompanyID, c.Param("project_id"), req); err != nil {
		respondRepoError(c, err, "Failed to update project")
		return
	}

	logging.Audit("project.update", profile.Email, profile.Role, map[string]interface{}{
		"project_id": c.Param("project_id"),
	})
	c.JSON(http.StatusOK, models.SuccessResponse{Message: "Project updated successfully"})
}

// DeleteProject handles DELETE /api/projects/{project_id}
func (h *Handler) DeleteProject(c *gin.Context) {
	ctx, cancel := requestContext(c, 10*time.Second)
	defer cancel()

	profile := currentProfile(c)
	if err := h.Projects.Delete(ctx, profile.CompanyID, c.Param("project_id")); err != nil {
		respondRepoError(c, err, "Failed to delete project")
		return
	}

	logging.Audit("project.delete", profile.Email, profile.Role, map[string]interface{}{
		"project_id": c.Param("project_id"),
	})
	c.JSON(http.StatusOK, models.SuccessResponse{Message: "Project deleted successfully"})
}

// ListProjectRoads handles GET /api/projects/{project_id}/roads
func (h *Handler) ListProjectRoads(c *gin.Context) {
	ctx, cancel := requestContext(c, 10*time.Second)
	defer cancel()

	profile := currentProfile(c)
	roads, err := h.Roads.ListByProject(ctx, profile.CompanyID, c.Param("project_id"))
	if err != nil {
		respondRepoError(c, err, "Failed to retrieve roads")
		return
	}
	c.JSON(http.StatusOK, gin.H{"roads": roads})
}

// CreateProjectRoad handles POST /api/projects/{project_id}/roads
func (h *Handler) CreateProjectRoad(c *gin.Context) {
	ctx, cancel := requestContext(c, 10*time.Second)
	defer cancel()

	var req models.RoadCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid request data",
			Message: err.Error(),
		})
		return
	}

	profile := currentProfile(c)
	road, err := h.Roads.Create(ctx, profile.CompanyID, c.Param("project_id"), req)
	if err != nil {
		respondRepoError(c, err, "Failed to create road")
		return
	}
	c.JSON(http.StatusCreated, models.SuccessResponse{
		Message: "Road created successfully",
		Data:    road,
	})
}

// DeleteRoad handles DELETE /api/roads/{road_id}
func (h *Handler) DeleteRoad(c *gin.Context) {
	ctx, cancel := requestContext(c, 10*time.Second)
	defer cancel()

	profile := currentProfile(c)
	if err := h.Roads.Delete(ctx, profile.CompanyID, c.Param("road_id")); err != nil {
		respondRepoError(c, err, "Failed to delete road")
		return
	}
	c.JSON(http.StatusOK, models.SuccessResponse{Message: "Road deleted successfully"})
}

// ListLayers handles GET /api/layers
func (h *Handler) ListLayers(c *gin.Context) {
	ctx, cancel := requestContext(c, 10*time.Second)
	defer cancel()

	profile := currentProfile(c)
	layers, err := h.Layers.ListByCompany(ctx, profile.CompanyID)
	if err != nil {
		respondRepoError(c, err, "Failed to retrieve layers")
		return
	}
	c.JSON(http.StatusOK, gin.H{"layers": layers})
}

// CreateLayer handles POST /api/layers
func (h *Handler) CreateLayer(c *gin.Context) {
	ctx, cancel := requestContext(c, 10*time.Second)
	defer cancel()

	var req models.LayerCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid request data",
			Message: err.Error(),
		})
		return
	}

	profile := currentProfile(c)
	layer, err := h.Layers.Create(ctx, profile.CompanyID, req)
	if err != nil {
		respondRepoError(c, err, "Failed to create layer")
		return
	}
	c.JSON(http.StatusCreated, models.SuccessResponse{
		Message: "Layer created successfully",
		Data:    layer,
	})
}

// DeleteLayer handles DELETE /api/layers/{layer_id}
func (h *Handler) DeleteLayer(c *gin.Context) {
	ctx, cancel := requestContext(c, 10*time.Second)
	defer cancel()

	profile := currentProfile(c)
	if err := h.Layers.Delete(ctx, profile.CompanyID, c.Param("layer_id")); err != nil {
		respondRepoError(c, err, "Failed to delete layer")
		return
	}
	c.JSON(http.StatusOK, models.SuccessResponse{Message: "Layer deleted successfully"})
}
