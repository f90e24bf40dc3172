package api

import (
	"context"
	"time"

	"github.com/sameera474/buildvault-backend/internal/db"
	"github.com/sameera474/buildvault-backend/internal/models"
)

// Hand-rolled fakes for the store contracts. Each returns inert
// defaults unless the test sets a field, and counts the writes the
// tests assert on.

type fakeProfileStore struct {
	profile     *models.Profile
	getErr      error
	createErr   error
	createCalls int
}

func (f *fakeProfileStore) GetByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.profile, nil
}

func (f *fakeProfileStore) GetByEmail(ctx context.Context, email string) (*models.Profile, error) {
	return nil, db.ErrNotFound
}

func (f *fakeProfileStore) ListByCompany(ctx context.Context, companyID string) ([]models.Profile, error) {
	return nil, nil
}

func (f *fakeProfileStore) Create(ctx context.Context, companyID, userID, role, name, email string, isSuperAdmin bool) (*models.Profile, error) {
	f.createCalls++
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &models.Profile{
		ID: "profile-new", UserID: userID, CompanyID: companyID,
		Role: role, Name: name, Email: email,
		IsSuperAdmin: isSuperAdmin, IsActive: true,
	}, nil
}

func (f *fakeProfileStore) Update(ctx context.Context, companyID, id string, req models.ProfileUpdateRequest) error {
	return nil
}

func (f *fakeProfileStore) Deactivate(ctx context.Context, companyID, id string) error { return nil }
func (f *fakeProfileStore) Delete(ctx context.Context, id string) error                { return nil }
func (f *fakeProfileStore) TouchActivity(ctx context.Context, userID string, at time.Time) {}

type fakeCompanyStore struct {
	company     *models.Company
	createCalls int
	deleteCalls int
}

func (f *fakeCompanyStore) GetByID(ctx context.Context, id string) (*models.Company, error) {
	if f.company == nil {
		return nil, db.ErrNotFound
	}
	return f.company, nil
}

func (f *fakeCompanyStore) List(ctx context.Context) ([]models.Company, error) { return nil, nil }

func (f *fakeCompanyStore) Create(ctx context.Context, name string, isDemo bool, trialDays int) (*models.Company, error) {
	f.createCalls++
	return &models.Company{ID: "company-new", Name: name, IsDemo: isDemo}, nil
}

func (f *fakeCompanyStore) Update(ctx context.Context, id string, req models.CompanyUpdateRequest) error {
	return nil
}

func (f *fakeCompanyStore) SetSubscriptionStatus(ctx context.Context, id string, status models.SubscriptionStatus) error {
	return nil
}

func (f *fakeCompanyStore) Delete(ctx context.Context, id string) error {
	f.deleteCalls++
	return nil
}

func (f *fakeCompanyStore) DeleteDemo(ctx context.Context, id string) error { return nil }

type fakeProjectStore struct {
	createCalls int
}

func (f *fakeProjectStore) ListByCompany(ctx context.Context, companyID string) ([]models.Project, error) {
	return nil, nil
}

func (f *fakeProjectStore) GetByID(ctx context.Context, companyID, id string) (*models.Project, error) {
	return nil, db.ErrNotFound
}

func (f *fakeProjectStore) Create(ctx context.Context, companyID string, req models.ProjectCreateRequest) (*models.Project, error) {
	f.createCalls++
	return &models.Project{ID: "project-new", CompanyID: companyID, Name: req.Name, Status: models.ProjectActive}, nil
}

func (f *fakeProjectStore) Update(ctx context.Context, companyID, id string, req models.ProjectUpdateRequest) error {
	return nil
}

func (f *fakeProjectStore) Delete(ctx context.Context, companyID, id string) error { return nil }

// fakeReportStore serves a single report. casCapacity bounds how many
// Transition calls may succeed; later calls lose the conditional
// update, as when another approver got there first.
type fakeReportStore struct {
	report      *models.TestReport
	casCapacity int
	transitions int
	createCalls int
}

func (f *fakeReportStore) List(ctx context.Context, companyID string, params models.ReportSearchParams) (*models.ReportListResponse, error) {
	return &models.ReportListResponse{Page: params.Page, Limit: params.Limit}, nil
}

func (f *fakeReportStore) PendingApproval(ctx context.Context, companyID string) ([]models.TestReport, error) {
	return nil, nil
}

func (f *fakeReportStore) GetByID(ctx context.Context, companyID, id string) (*models.TestReport, error) {
	if f.report == nil {
		return nil, db.ErrNotFound
	}
	cp := *f.report
	return &cp, nil
}

func (f *fakeReportStore) Create(ctx context.Context, companyID, createdBy string, req models.ReportCreateRequest) (*models.TestReport, error) {
	f.createCalls++
	return &models.TestReport{ID: "report-new", CompanyID: companyID, CreatedBy: createdBy, ReportNumber: req.ReportNumber}, nil
}

func (f *fakeReportStore) Update(ctx context.Context, companyID, id string, req models.ReportUpdateRequest) error {
	return nil
}

func (f *fakeReportStore) Transition(ctx context.Context, companyID, id string,
	expected, next models.ReportStatus, compliance models.ComplianceStatus,
	approverID *string, approvedAt *time.Time, note *string) (*models.TestReport, error) {
	f.transitions++
	if f.transitions > f.casCapacity {
		return nil, db.ErrStaleState
	}
	cp := *f.report
	cp.Status = next
	cp.ComplianceStatus = compliance
	cp.ApprovedBy = approverID
	cp.ApprovedAt = approvedAt
	cp.ApprovalNote = note
	return &cp, nil
}

func (f *fakeReportStore) Delete(ctx context.Context, companyID, id string) error { return nil }

func (f *fakeReportStore) CountByTechnician(ctx context.Context, companyID, userID string) (int, error) {
	return 0, nil
}

type fakeUserStore struct {
	existing    *db.AuthUser
	createErr   error
	createCalls int
	deleteCalls int
}

func (f *fakeUserStore) GetByEmail(ctx context.Context, email string) (*db.AuthUser, error) {
	if f.existing == nil {
		return nil, db.ErrNotFound
	}
	return f.existing, nil
}

func (f *fakeUserStore) Create(ctx context.Context, email, password string) (*db.AuthUser, error) {
	f.createCalls++
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &db.AuthUser{ID: "user-new", Email: email}, nil
}

func (f *fakeUserStore) Delete(ctx context.Context, id string) error {
	f.deleteCalls++
	return nil
}

type fakeInvitationStore struct {
	invitation   *models.TeamInvitation
	markErr      error
	releaseCalls int
}

func (f *fakeInvitationStore) Create(ctx context.Context, companyID, email, role, invitedBy string, ttl time.Duration) (*models.TeamInvitation, error) {
	return f.invitation, nil
}

func (f *fakeInvitationStore) ListByCompany(ctx context.Context, companyID string) ([]models.TeamInvitation, error) {
	return nil, nil
}

func (f *fakeInvitationStore) MarkAccepted(ctx context.Context, token string) (*models.TeamInvitation, error) {
	if f.markErr != nil {
		return nil, f.markErr
	}
	return f.invitation, nil
}

func (f *fakeInvitationStore) ReleaseAccepted(ctx context.Context, id string) error {
	f.releaseCalls++
	return nil
}

func (f *fakeInvitationStore) Delete(ctx context.Context, companyID, id string) error { return nil }
