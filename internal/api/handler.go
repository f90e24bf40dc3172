package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sameera474/buildvault-backend/internal/db"
	"github.com/sameera474/buildvault-backend/internal/models"
	"github.com/sameera474/buildvault-backend/internal/rbac"
	"github.com/sameera474/buildvault-backend/internal/services"
	"github.com/sameera474/buildvault-backend/internal/storage"
)

// Narrow store contracts over the pgx repositories. Handlers talk to
// these instead of the concrete types so request-path behavior can be
// tested without a live database.
type profileStore interface {
	GetByUserID(ctx context.Context, userID string) (*models.Profile, error)
	GetByEmail(ctx context.Context, email string) (*models.Profile, error)
	ListByCompany(ctx context.Context, companyID string) ([]models.Profile, error)
	Create(ctx context.Context, companyID, userID, role, name, email string, isSuperAdmin bool) (*models.Profile, error)
	Update(ctx context.Context, companyID, id string, req models.ProfileUpdateRequest) error
	Deactivate(ctx context.Context, companyID, id string) error
	Delete(ctx context.Context, id string) error
	TouchActivity(ctx context.Context, userID string, at time.Time)
}

type companyStore interface {
	GetByID(ctx context.Context, id string) (*models.Company, error)
	List(ctx context.Context) ([]models.Company, error)
	Create(ctx context.Context, name string, isDemo bool, trialDays int) (*models.Company, error)
	Update(ctx context.Context, id string, req models.CompanyUpdateRequest) error
	SetSubscriptionStatus(ctx context.Context, id string, status models.SubscriptionStatus) error
	Delete(ctx context.Context, id string) error
	DeleteDemo(ctx context.Context, id string) error
}

type projectStore interface {
	ListByCompany(ctx context.Context, companyID string) ([]models.Project, error)
	GetByID(ctx context.Context, companyID, id string) (*models.Project, error)
	Create(ctx context.Context, companyID string, req models.ProjectCreateRequest) (*models.Project, error)
	Update(ctx context.Context, companyID, id string, req models.ProjectUpdateRequest) error
	Delete(ctx context.Context, companyID, id string) error
}

type reportStore interface {
	List(ctx context.Context, companyID string, params models.ReportSearchParams) (*models.ReportListResponse, error)
	PendingApproval(ctx context.Context, companyID string) ([]models.TestReport, error)
	GetByID(ctx context.Context, companyID, id string) (*models.TestReport, error)
	Create(ctx context.Context, companyID, createdBy string, req models.ReportCreateRequest) (*models.TestReport, error)
	Update(ctx context.Context, companyID, id string, req models.ReportUpdateRequest) error
	Transition(ctx context.Context, companyID, id string,
		expected, next models.ReportStatus, compliance models.ComplianceStatus,
		approverID *string, approvedAt *time.Time, note *string) (*models.TestReport, error)
	Delete(ctx context.Context, companyID, id string) error
	CountByTechnician(ctx context.Context, companyID, userID string) (int, error)
}

type userStore interface {
	GetByEmail(ctx context.Context, email string) (*db.AuthUser, error)
	Create(ctx context.Context, email, password string) (*db.AuthUser, error)
	Delete(ctx context.Context, id string) error
}

type invitationStore interface {
	Create(ctx context.Context, companyID, email, role, invitedBy string, ttl time.Duration) (*models.TeamInvitation, error)
	ListByCompany(ctx context.Context, companyID string) ([]models.TeamInvitation, error)
	MarkAccepted(ctx context.Context, token string) (*models.TeamInvitation, error)
	ReleaseAccepted(ctx context.Context, id string) error
	Delete(ctx context.Context, companyID, id string) error
}

// Handler handles HTTP requests
type Handler struct {
	DB          *db.Database
	Profiles    profileStore
	Companies   companyStore
	Projects    projectStore
	Roads       *db.RoadRepository
	Layers      *db.LayerRepository
	Reports     reportStore
	Templates   *db.TemplateRepository
	Invitations invitationStore
	Documents   *db.DocumentRepository
	Dashboards  *db.DashboardRepository
	Users       userStore

	Email   *services.EmailService
	Sms     *services.SmsService
	Pdf     *services.PdfService
	Billing *services.BillingService
	Store   *storage.Store
}

// NewHandler creates a new handler. database may be nil at startup;
// /ready reports accordingly and tenant routes fail until it recovers.
func NewHandler(database *db.Database, email *services.EmailService, sms *services.SmsService, store *storage.Store) *Handler {
	h := &Handler{
		DB:      database,
		Email:   email,
		Sms:     sms,
		Pdf:     services.NewPdfService(),
		Billing: services.NewBillingService(),
		Store:   store,
	}
	if database != nil {
		h.Profiles = db.NewProfileRepository(database)
		h.Companies = db.NewCompanyRepository(database)
		h.Projects = db.NewProjectRepository(database)
		h.Roads = db.NewRoadRepository(database)
		h.Layers = db.NewLayerRepository(database)
		h.Reports = db.NewReportRepository(database)
		h.Templates = db.NewTemplateRepository(database)
		h.Invitations = db.NewInvitationRepository(database)
		h.Documents = db.NewDocumentRepository(database)
		h.Dashboards = db.NewDashboardRepository(database)
		h.Users = db.NewUserRepository(database)
	}
	return h
}

// Health handles readiness checks (DB ping)
func (h *Handler) Health(c *gin.Context) {
	if h.DB == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "unavailable",
			"service": "buildvault-backend",
			"reason":  "database not initialized",
		})
		return
	}
	ctx, cancel := requestContext(c, 5*time.Second)
	defer cancel()
	if err := h.DB.Health(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "unavailable",
			"service": "buildvault-backend",
			"reason":  err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   "buildvault-backend",
		"timestamp": time.Now().UTC(),
	})
}

// Me returns the caller's profile together with the derived RBAC view:
// permission set, visible menu, and the post-login redirect path.
func (h *Handler) Me(c *gin.Context) {
	profile := currentProfile(c)
	role := rbac.ParseRole(profile.Role)
	c.JSON(http.StatusOK, gin.H{
		"profile":       profile,
		"permissions":   rbac.PermissionsFor(role),
		"menu":          rbac.MenuFor(role),
		"redirect_path": rbac.DashboardPath(role),
	})
}

// UpdateMe applies a self-service profile update (name, phone, avatar).
// Role and activation changes require the team management endpoints.
func (h *Handler) UpdateMe(c *gin.Context) {
	profile := currentProfile(c)

	var req models.ProfileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid request data",
			Message: err.Error(),
		})
		return
	}
	// self-service cannot escalate
	req.Role = nil
	req.IsActive = nil

	ctx, cancel := requestContext(c, 10*time.Second)
	defer cancel()

	if err := h.Profiles.Update(ctx, profile.CompanyID, profile.ID, req); err != nil {
		respondRepoError(c, err, "Failed to update profile")
		return
	}
	c.JSON(http.StatusOK, models.SuccessResponse{Message: "Profile updated successfully"})
}
