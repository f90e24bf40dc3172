package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sameera474/buildvault-backend/internal/db"
	"github.com/sameera474/buildvault-backend/internal/models"
	"github.com/sameera474/buildvault-backend/internal/rbac"
)

func qualityManager() *models.Profile {
	return &models.Profile{
		ID: "profile-qm", UserID: "qm-1", CompanyID: "co-1",
		Role: string(rbac.RoleQualityManager), Name: "QM", Email: "qm@example.com",
		IsActive: true,
	}
}

func superAdmin() *models.Profile {
	return &models.Profile{
		ID: "profile-sa", UserID: "sa-1", CompanyID: "co-root",
		Role: string(rbac.RoleSuperAdmin), Name: "Root", Email: "root@example.com",
		IsSuperAdmin: true, IsActive: true,
	}
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// Two approvers race on the same submitted report. The conditional
// update admits exactly one; the loser gets a conflict and the stored
// report is transitioned once.
func TestApproveReport_ConcurrentApproverLoses(t *testing.T) {
	setGinTestMode()

	reports := &fakeReportStore{
		report: &models.TestReport{
			ID: "r1", CompanyID: "co-1", ReportNumber: "R-001",
			Status: models.ReportSubmitted, ComplianceStatus: models.CompliancePending,
			CreatedBy: "tech-1",
		},
		casCapacity: 1,
	}
	profiles := &fakeProfileStore{profile: &models.Profile{
		ID: "profile-t", UserID: "tech-1", CompanyID: "co-1",
		Role: string(rbac.RoleTechnician), Email: "tech@example.com",
	}}

	h := NewHandler(nil, nil, nil, nil)
	h.Reports = reports
	h.Profiles = profiles

	r := gin.New()
	r.Use(withProfile(qualityManager()))
	r.POST("/reports/:report_id/approve", h.ApproveReport)

	first := postJSON(r, "/reports/r1/approve", `{"note":"ok"}`)
	require.Equal(t, http.StatusOK, first.Code)
	assert.Contains(t, first.Body.String(), `"status":"approved"`)

	second := postJSON(r, "/reports/r1/approve", `{"note":"me too"}`)
	assert.Equal(t, http.StatusConflict, second.Code)
	assert.Contains(t, second.Body.String(), "Stale state")
	assert.Equal(t, 2, reports.transitions)
}

// A valid token whose account has no profile is rejected before any
// tenant handler runs, so the request performs no writes.
func TestRequireProfile_UnknownAccountWritesNothing(t *testing.T) {
	setGinTestMode()

	profiles := &fakeProfileStore{getErr: db.ErrNotFound}
	projects := &fakeProjectStore{}

	h := NewHandler(nil, nil, nil, nil)
	h.Profiles = profiles
	h.Projects = projects

	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set(ctxUserID, "u-ghost"); c.Next() })
	r.Use(h.RequireProfile())
	r.POST("/projects", h.CreateProject)

	w := postJSON(r, "/projects", `{"name":"Ring Road"}`)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Profile not found")
	assert.Equal(t, 0, projects.createCalls)
}

// Provisioning a demo account for an email that already has one
// reports the existing account instead of creating anything.
func TestCreateDemoUser_ExistingEmailCreatesNothing(t *testing.T) {
	setGinTestMode()

	users := &fakeUserStore{existing: &db.AuthUser{ID: "u-demo", Email: "demo@example.com"}}
	companies := &fakeCompanyStore{}
	profiles := &fakeProfileStore{}

	h := NewHandler(nil, nil, nil, nil)
	h.Users = users
	h.Companies = companies
	h.Profiles = profiles

	r := gin.New()
	r.Use(withProfile(superAdmin()))
	r.POST("/create-demo-user", h.CreateDemoUser)

	body := `{"email":"demo@example.com","password":"secret123","name":"Demo","role":"technician","company_name":"Demo Co"}`
	w := postJSON(r, "/create-demo-user", body)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Demo user already exists")
	assert.Equal(t, 0, users.createCalls)
	assert.Equal(t, 0, companies.createCalls)
	assert.Equal(t, 0, profiles.createCalls)
}

// A token that was already consumed yields a clear error and must not
// mint a second profile.
func TestAcceptInvitation_AlreadyAcceptedLeavesNoProfile(t *testing.T) {
	setGinTestMode()

	invitations := &fakeInvitationStore{markErr: db.ErrInvitationAccepted}
	profiles := &fakeProfileStore{}

	h := NewHandler(nil, nil, nil, nil)
	h.Invitations = invitations
	h.Profiles = profiles

	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set(ctxUserID, "u-2"); c.Next() })
	r.POST("/invitations/accept", h.AcceptInvitation)

	w := postJSON(r, "/invitations/accept", `{"token":"tok-used","name":"Late Joiner"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invitation already accepted")
	assert.Equal(t, 0, profiles.createCalls)
	assert.Equal(t, 0, invitations.releaseCalls)
}

// If the profile insert fails after the token was stamped accepted,
// the stamp is rolled back so the invitee can retry.
func TestAcceptInvitation_ProfileInsertFailureReleasesToken(t *testing.T) {
	setGinTestMode()

	invitations := &fakeInvitationStore{invitation: &models.TeamInvitation{
		ID: "inv-1", CompanyID: "co-1", Email: "new@example.com", Role: "technician",
	}}
	profiles := &fakeProfileStore{createErr: db.ErrDuplicate}

	h := NewHandler(nil, nil, nil, nil)
	h.Invitations = invitations
	h.Profiles = profiles

	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set(ctxUserID, "u-2"); c.Next() })
	r.POST("/invitations/accept", h.AcceptInvitation)

	w := postJSON(r, "/invitations/accept", `{"token":"tok-1","name":"New Tech"}`)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, 1, profiles.createCalls)
	assert.Equal(t, 1, invitations.releaseCalls)
}

// A company created for a super admin whose account cannot be
// provisioned is removed again, along with the credential row.
func TestCreateSuperAdmin_AccountFailureRemovesCompany(t *testing.T) {
	setGinTestMode()

	users := &fakeUserStore{}
	companies := &fakeCompanyStore{}
	profiles := &fakeProfileStore{createErr: db.ErrDuplicate}

	h := NewHandler(nil, nil, nil, nil)
	h.Users = users
	h.Companies = companies
	h.Profiles = profiles

	r := gin.New()
	r.Use(withProfile(superAdmin()))
	r.POST("/create-super-admin", h.CreateSuperAdmin)

	body := `{"email":"boss@example.com","password":"secret123","name":"Boss","company_name":"Boss Co"}`
	w := postJSON(r, "/create-super-admin", body)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, 1, companies.createCalls)
	assert.Equal(t, 1, companies.deleteCalls)
	assert.Equal(t, 1, users.createCalls)
	assert.Equal(t, 1, users.deleteCalls)
}

// Same compensation for demo provisioning.
func TestCreateDemoUser_AccountFailureRemovesCompany(t *testing.T) {
	setGinTestMode()

	users := &fakeUserStore{createErr: db.ErrDuplicate}
	companies := &fakeCompanyStore{}
	profiles := &fakeProfileStore{}

	h := NewHandler(nil, nil, nil, nil)
	h.Users = users
	h.Companies = companies
	h.Profiles = profiles

	r := gin.New()
	r.Use(withProfile(superAdmin()))
	r.POST("/create-demo-user", h.CreateDemoUser)

	body := `{"email":"demo2@example.com","password":"secret123","name":"Demo","role":"technician","company_name":"Demo Co"}`
	w := postJSON(r, "/create-demo-user", body)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, 1, companies.createCalls)
	assert.Equal(t, 1, companies.deleteCalls)
	assert.Equal(t, 0, profiles.createCalls)
}
