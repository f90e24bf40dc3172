package api

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sameera474/buildvault-backend/internal/logging"
	"github.com/sameera474/buildvault-backend/internal/models"
	"github.com/sameera474/buildvault-backend/internal/storage"
)

// maxUploadBytes caps document uploads at 25 MiB.
const maxUploadBytes = 25 << 20

// ListDocuments handles GET /api/documents
func (h *Handler) ListDocuments(c *gin.Context) {
	ctx, cancel := requestContext(c, 10*time.Second)
	defer cancel()

	profile := currentProfile(c)
	var projectID *string
	if p := c.Query("project_id"); p != "" {
		projectID = &p
	}
	docs, err := h.Documents.ListByCompany(ctx, profile.CompanyID, projectID)
	if err != nil {
		respondRepoError(c, err, "Failed to retrieve documents")
		return
	}
	c.JSON(http.StatusOK, gin.H{"documents": docs})
}

// UploadDocument handles POST /api/documents (multipart form)
func (h *Handler) UploadDocument(c *gin.Context) {
	ctx, cancel := requestContext(c, 30*time.Second)
	defer cancel()

	if h.Store == nil || !h.Store.Enabled(storage.BucketDocuments) {
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{
			Error:   "Storage unavailable",
			Message: "Document storage is not configured",
		})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid request data",
			Message: "A file field is required",
		})
		return
	}
	if fileHeader.Size > maxUploadBytes {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "File too large",
			Message: "Documents are limited to 25 MB",
		})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid file",
			Message: err.Error(),
		})
		return
	}
	defer f.Close()

	body, err := io.ReadAll(io.LimitReader(f, maxUploadBytes))
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "Failed to read file",
			Message: err.Error(),
		})
		return
	}

	profile := currentProfile(c)
	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	key := storage.ObjectKey(profile.CompanyID, fileHeader.Filename)

	if err := h.Store.Upload(ctx, storage.BucketDocuments, key, contentType, body); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "Failed to upload document",
			Message: err.Error(),
		})
		return
	}

	var projectID *string
	if p := c.PostForm("project_id"); p != "" {
		projectID = &p
	}
	doc, err := h.Documents.Create(ctx, profile.CompanyID, profile.UserID,
		fileHeader.Filename, key, contentType, fileHeader.Size, projectID)
	if err != nil {
		// compensate: don't leave an unreferenced object behind
		if rmErr := h.Store.Remove(ctx, storage.BucketDocuments, key); rmErr != nil {
			logging.LogKV("error", "orphaned document object", map[string]interface{}{
				"key": key, "error": rmErr.Error(),
			})
		}
		respondRepoError(c, err, "Failed to record document")
		return
	}

	c.JSON(http.StatusCreated, models.SuccessResponse{
		Message: "Document uploaded successfully",
		Data:    doc,
	})
}

// GetDocumentURL handles GET /api/documents/{document_id}/url,
// returning a time-limited signed URL for the private object.
func (h *Handler) GetDocumentURL(c *gin.Context) {
	ctx, cancel := requestContext(c, 10*time.Second)
	defer cancel()

	profile := currentProfile(c)
	doc, err := h.Documents.GetByID(ctx, profile.CompanyID, c.Param("document_id"))
	if err != nil {
		respondRepoError(c, err, "Failed to retrieve document")
		return
	}

	url, err := h.Store.SignedURL(ctx, doc.ObjectKey, 15*time.Minute)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "Failed to sign document URL",
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url, "expires_in_seconds": 900})
}

// DeleteDocument handles DELETE /api/documents/{document_id}
func (h *Handler) DeleteDocument(c *gin.Context) {
	ctx, cancel := requestContext(c, 10*time.Second)
	defer cancel()

	profile := currentProfile(c)
	doc, err := h.Documents.GetByID(ctx, profile.CompanyID, c.Param("document_id"))
	if err != nil {
		respondRepoError(c, err, "Failed to retrieve document")
		return
	}

	if err := h.Documents.Delete(ctx, profile.CompanyID, doc.ID); err != nil {
		respondRepoError(c, err, "Failed to delete document")
		return
	}
	if err := h.Store.Remove(ctx, storage.BucketDocuments, doc.ObjectKey); err != nil {
		logging.LogKV("warn", "document object removal failed", map[string]interface{}{
			"key": doc.ObjectKey, "error": err.Error(),
		})
	}

	c.JSON(http.StatusOK, models.SuccessResponse{Message: "Document deleted successfully"})
}

// UploadAvatar handles POST /api/me/avatar, storing into the public
// avatars bucket and saving the URL on the profile.
func (h *Handler) UploadAvatar(c *gin.Context) {
	h.uploadPublicImage(c, storage.BucketAvatars, func(url string) error {
		profile := currentProfile(c)
		ctx, cancel := requestContext(c, 10*time.Second)
		defer cancel()
		return h.Profiles.Update(ctx, profile.CompanyID, profile.ID,
			models.ProfileUpdateRequest{AvatarURL: &url})
	})
}

// UploadLogo handles POST /api/company/logo, storing into the public
// logos bucket and saving the URL on the company.
func (h *Handler) UploadLogo(c *gin.Context) {
	h.uploadPublicImage(c, storage.BucketLogos, func(url string) error {
		profile := currentProfile(c)
		ctx, cancel := requestContext(c, 10*time.Second)
		defer cancel()
		return h.Companies.Update(ctx, profile.CompanyID,
			models.CompanyUpdateRequest{LogoURL: &url})
	})
}

func (h *Handler) uploadPublicImage(c *gin.Context, bucket storage.Bucket, save func(string) error) {
	ctx, cancel := requestContext(c, 30*time.Second)
	defer cancel()

	if h.Store == nil || !h.Store.Enabled(bucket) {
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{
			Error:   "Storage unavailable",
			Message: "Image storage is not configured",
		})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid request data",
			Message: "A file field is required",
		})
		return
	}
	contentType := fileHeader.Header.Get("Content-Type")
	if contentType != "image/png" && contentType != "image/jpeg" && contentType != "image/webp" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid file type",
			Message: "Only PNG, JPEG, and WebP images are accepted",
		})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid file",
			Message: err.Error(),
		})
		return
	}
	defer f.Close()

	body, err := io.ReadAll(io.LimitReader(f, maxUploadBytes))
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "Failed to read file",
			Message: err.Error(),
		})
		return
	}

	profile := currentProfile(c)
	key := storage.ObjectKey(profile.CompanyID, fileHeader.Filename)
	if err := h.Store.Upload(ctx, bucket, key, contentType, body); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "Failed to upload image",
			Message: err.Error(),
		})
		return
	}

	url := h.Store.PublicURL(bucket, key)
	if err := save(url); err != nil {
		respondRepoError(c, err, "Failed to save image URL")
		return
	}
	c.JSON(http.StatusOK, models.SuccessResponse{
		Message: "Image uploaded successfully",
		Data:    gin.H{"url": url},
	})
}
