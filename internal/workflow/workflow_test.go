package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sameera474/buildvault-backend/internal/models"
	"github.com/sameera474/buildvault-backend/internal/rbac"
)

func TestLegalTransitions(t *testing.T) {
	cases := []struct {
		role   rbac.Role
		from   models.ReportStatus
		action Action
		want   models.ReportStatus
		compl  models.ComplianceStatus
	}{
		{rbac.RoleTechnician, models.ReportDraft, ActionSubmit, models.ReportSubmitted, models.CompliancePending},
		{rbac.RoleQualityManager, models.ReportSubmitted, ActionApprove, models.ReportApproved, models.CompliancePass},
		{rbac.RoleQualityManager, models.ReportSubmitted, ActionReject, models.ReportRejected, models.ComplianceFail},
		{rbac.RoleTechnician, models.ReportRejected, ActionSubmit, models.ReportSubmitted, models.CompliancePending},
		{rbac.RoleTechnician, models.ReportApproved, ActionReopen, models.ReportDraft, models.CompliancePending},
		{rbac.RoleTechnician, models.ReportRejected, ActionReopen, models.ReportDraft, models.CompliancePending},
		{rbac.RoleAdmin, models.ReportSubmitted, ActionReopen, models.ReportDraft, models.CompliancePending},
	}
	for _, tc := range cases {
		next, compl, err := Next(tc.role, tc.from, tc.action)
		require.NoError(t, err, "%s %s from %s", tc.role, tc.action, tc.from)
		assert.Equal(t, tc.want, next)
		assert.Equal(t, tc.compl, compl)
	}
}

func TestIllegalTransitionsFailValidation(t *testing.T) {
	// approver role, so only the table can say no
	cases := []struct {
		from   models.ReportStatus
		action Action
	}{
		{models.ReportDraft, ActionApprove},
		{models.ReportDraft, ActionReject},
		{models.ReportApproved, ActionApprove},
		{models.ReportApproved, ActionSubmit},
		{models.ReportRejected, ActionApprove},
		{models.ReportRejected, ActionReject},
	}
	for _, tc := range cases {
		_, _, err := Next(rbac.RoleQualityManager, tc.from, tc.action)
		require.Error(t, err, "%s from %s", tc.action, tc.from)
		var inv *ErrInvalidTransition
		assert.ErrorAs(t, err, &inv)
	}
}

func TestPermissionCheckedBeforeTable(t *testing.T) {
	// technician may not approve, regardless of report status
	for _, from := range []models.ReportStatus{models.ReportDraft, models.ReportSubmitted, models.ReportApproved} {
		_, _, err := Next(rbac.RoleTechnician, from, ActionApprove)
		require.Error(t, err)
		var denied *ErrNotPermitted
		assert.ErrorAs(t, err, &denied)
	}
	// consultant_technician is read-only: may not even submit
	_, _, err := Next(rbac.RoleConsultantTechnician, models.ReportDraft, ActionSubmit)
	var denied *ErrNotPermitted
	assert.ErrorAs(t, err, &denied)
}

func TestUnknownRoleDeniedEverything(t *testing.T) {
	for _, action := range []Action{ActionSubmit, ActionApprove, ActionReject, ActionReopen} {
		_, _, err := Next(rbac.RoleUnknown, models.ReportSubmitted, action)
		var denied *ErrNotPermitted
		require.ErrorAs(t, err, &denied, "action %s", action)
	}
}

func TestComplianceDerivation(t *testing.T) {
	assert.Equal(t, models.CompliancePass, ComplianceFor(models.ReportApproved))
	assert.Equal(t, models.ComplianceFail, ComplianceFor(models.ReportRejected))
	assert.Equal(t, models.CompliancePending, ComplianceFor(models.ReportDraft))
	assert.Equal(t, models.CompliancePending, ComplianceFor(models.ReportSubmitted))
}

func TestRecordsApprover(t *testing.T) {
	assert.True(t, RecordsApprover(ActionApprove))
	assert.True(t, RecordsApprover(ActionReject))
	assert.False(t, RecordsApprover(ActionSubmit))
	assert.False(t, RecordsApprover(ActionReopen))
}
