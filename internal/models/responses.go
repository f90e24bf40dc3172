package models

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Details string `json:"details,omitempty"`
}

// SuccessResponse represents a success response
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// DashboardStats is the per-role aggregate view. Blocks a role is not
// entitled to are left nil and omitted from the JSON body.
type DashboardStats struct {
	TotalProjects   *int         `json:"total_projects,omitempty"`
	ActiveProjects  *int         `json:"active_projects,omitempty"`
	TotalReports    *int         `json:"total_reports,omitempty"`
	DraftReports    *int         `json:"draft_reports,omitempty"`
	PendingApproval *int         `json:"pending_approval,omitempty"`
	ApprovedReports *int         `json:"approved_reports,omitempty"`
	RejectedReports *int         `json:"rejected_reports,omitempty"`
	PassRate        *float64     `json:"pass_rate,omitempty"`
	TeamMembers     *int         `json:"team_members,omitempty"`
	MyReports       *int         `json:"my_reports,omitempty"`
	RecentActivity  []TestReport `json:"recent_activity,omitempty"`
	RedirectPath    string       `json:"redirect_path"`
}
