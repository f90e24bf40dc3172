package models

import (
	"time"
)

// ReportStatus enumerates the workflow states of a test report.
type ReportStatus string

const (
	ReportDraft     ReportStatus = "draft"
	ReportSubmitted ReportStatus = "submitted"
	ReportApproved  ReportStatus = "approved"
	ReportRejected  ReportStatus = "rejected"
)

// ValidateReportStatus checks if the provided status string is valid
func ValidateReportStatus(status string) bool {
	switch ReportStatus(status) {
	case ReportDraft, ReportSubmitted, ReportApproved, ReportRejected:
		return true
	}
	return false
}

// ComplianceStatus is the pass/fail judgment attached to a report.
// It is derived from the approval decision, never set directly.
type ComplianceStatus string

const (
	CompliancePending        ComplianceStatus = "pending"
	CompliancePass           ComplianceStatus = "pass"
	ComplianceFail           ComplianceStatus = "fail"
	ComplianceReviewRequired ComplianceStatus = "review_required"
)

// TestReport is a single materials test record. ReportNumber is unique
// per company. Status and ComplianceStatus always move together through
// the approval workflow; generic updates cannot touch either field.
type TestReport struct {
	ID               string           `json:"id" db:"id"`
	CompanyID        string           `json:"company_id" db:"company_id"`
	ProjectID        string           `json:"project_id" db:"project_id"`
	RoadID           *string          `json:"road_id,omitempty" db:"road_id"`
	LayerID          *string          `json:"layer_id,omitempty" db:"layer_id"`
	TemplateID       *string          `json:"template_id,omitempty" db:"template_id"`
	ReportNumber     string           `json:"report_number" db:"report_number"`
	TestType         string           `json:"test_type" db:"test_type"`
	TechnicianName   string           `json:"technician_name" db:"technician_name"`
	TechnicianID     *string          `json:"technician_id,omitempty" db:"technician_id"`
	Status           ReportStatus     `json:"status" db:"status"`
	ComplianceStatus ComplianceStatus `json:"compliance_status" db:"compliance_status"`
	TestDate         *time.Time       `json:"test_date,omitempty" db:"test_date"`
	Chainage         *string          `json:"chainage,omitempty" db:"chainage"`
	TestData         map[string]any   `json:"test_data,omitempty" db:"test_data"`
	Notes            *string          `json:"notes,omitempty" db:"notes"`
	ApprovedBy       *string          `json:"approved_by,omitempty" db:"approved_by"`
	ApprovedAt       *time.Time       `json:"approved_at,omitempty" db:"approved_at"`
	ApprovalNote     *string          `json:"approval_note,omitempty" db:"approval_note"`
	CreatedBy        string           `json:"created_by" db:"created_by"`
	CreatedAt        time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at" db:"updated_at"`
}

// ReportCreateRequest represents the payload for creating a test report
type ReportCreateRequest struct {
	ProjectID      string         `json:"project_id" binding:"required"`
	RoadID         *string        `json:"road_id,omitempty"`
	LayerID        *string        `json:"layer_id,omitempty"`
	TemplateID     *string        `json:"template_id,omitempty"`
	ReportNumber   string         `json:"report_number" binding:"required"`
	TestType       string         `json:"test_type" binding:"required"`
	TechnicianName string         `json:"technician_name" binding:"required"`
	TestDate       *time.Time     `json:"test_date,omitempty"`
	Chainage       *string        `json:"chainage,omitempty"`
	TestData       map[string]any `json:"test_data,omitempty"`
	Notes          *string        `json:"notes,omitempty"`
	// CompanyID is accepted for wire compatibility but never trusted.
	CompanyID *string `json:"company_id,omitempty"`
}

// ReportUpdateRequest represents a partial report update. Workflow
// fields (status, compliance, approver) are deliberately absent.
type ReportUpdateRequest struct {
	RoadID         *string        `json:"road_id,omitempty"`
	LayerID        *string        `json:"layer_id,omitempty"`
	TestType       *string        `json:"test_type,omitempty"`
	TechnicianName *string        `json:"technician_name,omitempty"`
	TestDate       *time.Time     `json:"test_date,omitempty"`
	Chainage       *string        `json:"chainage,omitempty"`
	TestData       map[string]any `json:"test_data,omitempty"`
	Notes          *string        `json:"notes,omitempty"`
}

// ReportDecisionRequest carries the optional note for approve/reject
type ReportDecisionRequest struct {
	Note *string `json:"note,omitempty"`
}

// ReportSearchParams filters report listings
type ReportSearchParams struct {
	ProjectID  string
	Status     *ReportStatus
	Compliance *ComplianceStatus
	Search     string
	Page       int
	Limit      int
}

// ReportListResponse wraps a page of reports
type ReportListResponse struct {
	Reports []TestReport `json:"reports"`
	Total   int          `json:"total"`
	Page    int          `json:"page"`
	Limit   int          `json:"limit"`
}
