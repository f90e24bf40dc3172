// Package workflow defines the test-report approval state machine.
// Status and compliance move together: compliance is derived from the
// workflow state, so an "approved but pending" report is unrepresentable
// through this package.
package workflow

import (
	"fmt"

	"github.com/sameera474/buildvault-backend/internal/models"
	"github.com/sameera474/buildvault-backend/internal/rbac"
)

// Action is a workflow verb applied to a report.
type Action string

const (
	ActionSubmit  Action = "submit"
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
	ActionReopen  Action = "reopen"
)

// ErrInvalidTransition is returned when the action is not legal from
// the report's current status.
type ErrInvalidTransition struct {
	From   models.ReportStatus
	Action Action
}

func (e *ErrInvalidTransition) Error() string {
	return fmt.Sprintf("cannot %s a report in status %q", e.Action, e.From)
}

// ErrNotPermitted is returned when the caller's role lacks the
// permission the action requires.
type ErrNotPermitted struct {
	Role   rbac.Role
	Action Action
}

func (e *ErrNotPermitted) Error() string {
	return fmt.Sprintf("role %q is not permitted to %s reports", e.Role, e.Action)
}

// transitions is the strict table of legal moves. Anything absent
// fails validation; a direct draft→approved is rejected here.
var transitions = map[models.ReportStatus]map[Action]models.ReportStatus{
	models.ReportDraft: {
		ActionSubmit: models.ReportSubmitted,
		ActionReopen: models.ReportDraft,
	},
	models.ReportSubmitted: {
		ActionApprove: models.ReportApproved,
		ActionReject:  models.ReportRejected,
		ActionReopen:  models.ReportDraft,
	},
	models.ReportApproved: {
		ActionReopen: models.ReportDraft,
	},
	models.ReportRejected: {
		// Resubmission is allowed directly; a full rework goes back
		// through draft via reopen.
		ActionSubmit: models.ReportSubmitted,
		ActionReopen: models.ReportDraft,
	},
}

// requiredPermission maps each action to the capability that unlocks it.
var requiredPermission = map[Action]rbac.Permission{
	ActionSubmit:  rbac.PermEditReports,
	ActionApprove: rbac.PermApproveReports,
	ActionReject:  rbac.PermRejectReports,
	ActionReopen:  rbac.PermEditReports,
}

// ComplianceFor derives the compliance judgment from a workflow status.
func ComplianceFor(status models.ReportStatus) models.ComplianceStatus {
	switch status {
	case models.ReportApproved:
		return models.CompliancePass
	case models.ReportRejected:
		return models.ComplianceFail
	default:
		return models.CompliancePending
	}
}

// Next validates a transition and returns the resulting status and its
// derived compliance. The role check runs before the table lookup so a
// technician attempting approve on a draft sees the permission error.
func Next(role rbac.Role, from models.ReportStatus, action Action) (models.ReportStatus, models.ComplianceStatus, error) {
	perm, ok := requiredPermission[action]
	if !ok {
		return "", "", fmt.Errorf("unknown workflow action %q", action)
	}
	if !rbac.HasPermission(role, perm) {
		return "", "", &ErrNotPermitted{Role: role, Action: action}
	}
	next, ok := transitions[from][action]
	if !ok {
		return "", "", &ErrInvalidTransition{From: from, Action: action}
	}
	return next, ComplianceFor(next), nil
}

// RecordsApprover reports whether the action records approver identity
// and timestamp on the report.
func RecordsApprover(action Action) bool {
	return action == ActionApprove || action == ActionReject
}
