package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/sameera474/buildvault-backend/internal/api"
	"github.com/sameera474/buildvault-backend/internal/db"
	"github.com/sameera474/buildvault-backend/internal/logging"
	"github.com/sameera474/buildvault-backend/internal/rbac"
	"github.com/sameera474/buildvault-backend/internal/services"
	"github.com/sameera474/buildvault-backend/internal/storage"
)

func main() {
	// Load environment variables from .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	log.SetOutput(os.Stdout)
	log.Printf("BuildVault backend starting (GIT_SHA=%s BUILD_TIME=%s)", os.Getenv("GIT_SHA"), os.Getenv("BUILD_TIME"))

	// Initialize database connection (non-fatal; allow process to start for /live)
	database, err := db.NewDatabase()
	if err != nil {
		log.Printf("[WARN] Database initialization failed at startup: %v", err)
	}
	if database != nil {
		defer database.Close()
	}

	// AWS configs: separate loads so a region override for one service
	// does not leak into the others
	sesCfg, sesErr := config.LoadDefaultConfig(context.Background(),
		config.WithRegion(awsRegion("SES_AWS_REGION")),
	)
	if sesErr != nil {
		log.Printf("[WARN] SES AWS config load failed: %v", sesErr)
	}
	snsCfg, snsErr := config.LoadDefaultConfig(context.Background(),
		config.WithRegion(awsRegion("SNS_AWS_REGION")),
	)
	if snsErr != nil {
		log.Printf("[WARN] SNS AWS config load failed: %v", snsErr)
	}

	var emailService *services.EmailService
	if sesErr == nil {
		emailService = services.NewEmailService(sesCfg)
	} else {
		log.Printf("[WARN] Email service not initialized due to SES config error")
	}
	var smsService *services.SmsService
	if snsErr == nil {
		smsService = services.NewSmsService(snsCfg)
	} else {
		log.Printf("[WARN] SMS service not initialized due to SNS config error")
	}

	store, storeErr := storage.NewStore(context.Background())
	if storeErr != nil {
		log.Printf("[WARN] S3 store not initialized: %v", storeErr)
	}

	// Initialize handlers (DB may be nil; /ready will report accordingly)
	handler := api.NewHandler(database, emailService, smsService, store)
	if database == nil {
		log.Println("[WARN] Database unavailable at startup; readiness will report accordingly")
	}

	router := setupRouter(handler)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	go func() {
		log.Printf("Starting BuildVault backend on port %s", port)
		if err := router.Run(":" + port); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down BuildVault backend...")
}

// awsRegion resolves the region for a service-specific env var, falling
// back to AWS_DEFAULT_REGION and then eu-central-1.
func awsRegion(envVar string) string {
	if v := os.Getenv(envVar); v != "" {
		return v
	}
	if v := os.Getenv("AWS_DEFAULT_REGION"); v != "" {
		return v
	}
	return "eu-central-1"
}

func setupRouter(handler *api.Handler) *gin.Engine {
	// Set Gin mode based on environment
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(logging.JSONLogger())
	router.Use(gin.Recovery())

	corsCfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Authorization", "Content-Type"},
	}
	if origin := os.Getenv("APP_ORIGIN"); origin != "" {
		corsCfg.AllowOrigins = []string{origin}
	} else {
		corsCfg.AllowAllOrigins = true
	}
	router.Use(cors.New(corsCfg))

	// Liveness and readiness endpoints
	// /live returns 200 if the process is running (no DB checks)
	router.GET("/live", func(c *gin.Context) { c.Status(http.StatusOK) })
	// /ready performs DB checks
	router.GET("/ready", handler.Health)
	// /health stays liveness-only for legacy health checks
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	// Invitation acceptance: the caller holds a valid token but has no
	// profile yet, so only bearer authentication applies here.
	accept := router.Group("/api/invitations")
	accept.Use(api.AuthMiddleware())
	{
		accept.POST("/accept", handler.AcceptInvitation)
	}

	// Tenant routes: authenticated, profile-resolved, subscription-gated
	apiGroup := router.Group("/api")
	apiGroup.Use(api.AuthMiddleware(), handler.RequireProfile(), handler.SubscriptionGuard())
	{
		apiGroup.GET("/me", handler.Me)
		apiGroup.PUT("/me", handler.UpdateMe)
		apiGroup.POST("/me/avatar", handler.UploadAvatar)

		apiGroup.GET("/dashboard", handler.Dashboard)
		apiGroup.GET("/menu", handler.Menu)

		projects := apiGroup.Group("/projects")
		{
			projects.GET("", handler.ListProjects)
			projects.POST("", api.RequirePermission(rbac.PermManageProjects), handler.CreateProject)
			projects.GET("/:project_id", handler.GetProject)
			projects.PUT("/:project_id", api.RequirePermission(rbac.PermManageProjects), handler.UpdateProject)
			projects.DELETE("/:project_id", api.RequirePermission(rbac.PermManageProjects), handler.DeleteProject)
			projects.GET("/:project_id/roads", handler.ListProjectRoads)
			projects.POST("/:project_id/roads", api.RequirePermission(rbac.PermManageRoads), handler.CreateProjectRoad)
		}
		apiGroup.DELETE("/roads/:road_id", api.RequirePermission(rbac.PermManageRoads), handler.DeleteRoad)

		layers := apiGroup.Group("/layers")
		{
			layers.GET("", handler.ListLayers)
			layers.POST("", api.RequirePermission(rbac.PermManageLayers), handler.CreateLayer)
			layers.DELETE("/:layer_id", api.RequirePermission(rbac.PermManageLayers), handler.DeleteLayer)
		}

		reports := apiGroup.Group("/reports")
		{
			reports.GET("", api.RequirePermission(rbac.PermViewReports), handler.ListReports)
			reports.GET("/pending-approval", api.RequirePermission(rbac.PermApproveReports, rbac.PermRejectReports), handler.PendingApprovals)
			reports.POST("", api.RequirePermission(rbac.PermCreateReports), handler.CreateReport)
			reports.GET("/:report_id", api.RequirePermission(rbac.PermViewReports), handler.GetReport)
			reports.PUT("/:report_id", api.RequirePermission(rbac.PermEditReports), handler.UpdateReport)
			reports.DELETE("/:report_id", api.RequirePermission(rbac.PermEditReports), handler.DeleteReport)
			reports.POST("/:report_id/submit", handler.SubmitReport)
			reports.POST("/:report_id/approve", handler.ApproveReport)
			reports.POST("/:report_id/reject", handler.RejectReport)
			reports.POST("/:report_id/reopen", handler.ReopenReport)
		}

		templates := apiGroup.Group("/templates")
		{
			templates.GET("", handler.ListTemplates)
			templates.GET("/:template_id", handler.GetTemplate)
			templates.POST("", api.RequirePermission(rbac.PermManageTemplates), handler.CreateTemplate)
			templates.PUT("/:template_id", api.RequirePermission(rbac.PermManageTemplates), handler.UpdateTemplate)
			templates.DELETE("/:template_id", api.RequirePermission(rbac.PermManageTemplates), handler.DeleteTemplate)
		}

		documents := apiGroup.Group("/documents")
		{
			documents.GET("", handler.ListDocuments)
			documents.POST("", api.RequirePermission(rbac.PermManageDocuments), handler.UploadDocument)
			documents.GET("/:document_id/url", handler.GetDocumentURL)
			documents.DELETE("/:document_id", api.RequirePermission(rbac.PermManageDocuments), handler.DeleteDocument)
		}

		team := apiGroup.Group("/team")
		team.Use(api.RequirePermission(rbac.PermManageCompanyUsers))
		{
			team.GET("", handler.ListTeam)
			team.PUT("/:profile_id", handler.UpdateTeamMember)
			team.DELETE("/:profile_id", handler.DeactivateTeamMember)
			team.POST("/invitations", handler.SendInvitation)
			team.DELETE("/invitations/:invitation_id", handler.RevokeInvitation)
		}

		apiGroup.GET("/company", handler.GetCompany)
		apiGroup.PUT("/company", api.RequirePermission(rbac.PermManageCompany), handler.UpdateCompany)
		apiGroup.POST("/company/logo", api.RequirePermission(rbac.PermManageCompany), handler.UploadLogo)
	}

	// Administrative functions: authenticated, profile-resolved, then
	// admin or super-admin per route. No subscription gate here.
	functions := router.Group("/functions")
	functions.Use(api.AuthMiddleware(), handler.RequireProfile())
	{
		super := functions.Group("")
		super.Use(api.RequireSuperAdmin())
		{
			super.POST("/create-super-admin", handler.CreateSuperAdmin)
			super.POST("/create-demo-user", handler.CreateDemoUser)
			super.POST("/fix-demo-users", handler.FixDemoUsers)
			super.POST("/delete-demo-users", handler.DeleteDemoUsers)
			super.GET("/get-stripe-revenue", handler.GetStripeRevenue)
		}

		admin := functions.Group("")
		admin.Use(api.RequireAdmin())
		{
			admin.POST("/create-team-member", handler.CreateTeamMember)
			admin.POST("/admin-invite-company-user", handler.AdminInviteCompanyUser)
			admin.GET("/admin-list-company-users", handler.AdminListCompanyUsers)
			admin.POST("/admin-update-company-user", handler.AdminUpdateCompanyUser)
			admin.POST("/admin-create-project", handler.AdminCreateProject)
			admin.POST("/admin-update-project", handler.AdminUpdateProject)
			admin.GET("/admin-list-projects", handler.AdminListProjects)
			admin.POST("/send-contact-confirmation", handler.SendContactConfirmation)
			admin.POST("/send-workflow-notification", handler.SendWorkflowNotification)
			admin.GET("/export-monthly-summary-pdf", handler.ExportMonthlySummaryPdf)
		}
	}

	// Root endpoint for basic info
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": "buildvault-backend",
			"version": "1.0.0",
			"status":  "running",
		})
	})

	return router
}
