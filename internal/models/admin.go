package models

// CreateSuperAdminRequest bootstraps a platform administrator together
// with its own company.
type CreateSuperAdminRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	Name        string `json:"name" binding:"required"`
	CompanyName string `json:"company_name" binding:"required"`
}

// CreateDemoUserRequest provisions a demo account in a demo company
type CreateDemoUserRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	Name        string `json:"name" binding:"required"`
	Role        string `json:"role" binding:"required"`
	CompanyName string `json:"company_name" binding:"required"`
}

// CreateTeamMemberRequest creates credential and profile in one call,
// for use by administrators provisioning a company directly.
type CreateTeamMemberRequest struct {
	CompanyID string `json:"company_id" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	Name      string `json:"name" binding:"required"`
	Role      string `json:"role" binding:"required"`
}

// AdminInviteRequest invites a user into an arbitrary company
type AdminInviteRequest struct {
	CompanyID string `json:"company_id" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Role      string `json:"role" binding:"required"`
}

// AdminProfileUpdateRequest targets a profile in an arbitrary company
type AdminProfileUpdateRequest struct {
	CompanyID string               `json:"company_id" binding:"required"`
	ProfileID string               `json:"profile_id" binding:"required"`
	Update    ProfileUpdateRequest `json:"update"`
}

// AdminProjectCreateRequest creates a project in an arbitrary company
type AdminProjectCreateRequest struct {
	CompanyID string               `json:"company_id" binding:"required"`
	Project   ProjectCreateRequest `json:"project"`
}

// AdminProjectUpdateRequest updates a project in an arbitrary company
type AdminProjectUpdateRequest struct {
	CompanyID string               `json:"company_id" binding:"required"`
	ProjectID string               `json:"project_id" binding:"required"`
	Update    ProjectUpdateRequest `json:"update"`
}

// ContactConfirmationRequest acknowledges a contact-form submission
type ContactConfirmationRequest struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name" binding:"required"`
}

// WorkflowNotificationRequest re-sends a report decision email
type WorkflowNotificationRequest struct {
	Email        string  `json:"email" binding:"required,email"`
	ReportNumber string  `json:"report_number" binding:"required"`
	Decision     string  `json:"decision" binding:"required"`
	Note         *string `json:"note,omitempty"`
}
