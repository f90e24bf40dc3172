package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sameera474/buildvault-backend/internal/db"
	"github.com/sameera474/buildvault-backend/internal/models"
	"github.com/sameera474/buildvault-backend/internal/workflow"
)

// respondRepoError maps repository sentinel errors to HTTP statuses.
// Backend errors surface only their message string, never internals.
func respondRepoError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, db.ErrNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "Not found",
			Message: "The requested resource does not exist",
		})
	case errors.Is(err, db.ErrDuplicate):
		c.JSON(http.StatusConflict, models.ErrorResponse{
			Error:   "Already exists",
			Message: "A resource with the same identifier already exists",
		})
	case errors.Is(err, db.ErrStaleState):
		c.JSON(http.StatusConflict, models.ErrorResponse{
			Error:   "Stale state",
			Message: "The report was modified by another user; reload and try again",
		})
	default:
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   fallback,
			Message: err.Error(),
		})
	}
}

// respondWorkflowError maps workflow validation failures: permission
// problems are 403, illegal transitions are 400.
func respondWorkflowError(c *gin.Context, err error) {
	var denied *workflow.ErrNotPermitted
	if errors.As(err, &denied) {
		c.JSON(http.StatusForbidden, models.ErrorResponse{
			Error:   "Permission denied",
			Message: err.Error(),
		})
		return
	}
	var invalid *workflow.ErrInvalidTransition
	if errors.As(err, &invalid) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid transition",
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusInternalServerError, models.ErrorResponse{
		Error:   "Workflow error",
		Message: err.Error(),
	})
}
