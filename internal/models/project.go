package models

import (
	"time"
)

// ProjectStatus enumerates the lifecycle states of a project.
type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "active"
	ProjectCompleted ProjectStatus = "completed"
	ProjectOnHold    ProjectStatus = "on_hold"
	ProjectCancelled ProjectStatus = "cancelled"
)

// ValidateProjectStatus checks if the provided status string is valid
func ValidateProjectStatus(status string) bool {
	switch ProjectStatus(status) {
	case ProjectActive, ProjectCompleted, ProjectOnHold, ProjectCancelled:
		return true
	}
	return false
}

// Project is a company-scoped container for test reports and roads.
type Project struct {
	ID          string        `json:"id" db:"id"`
	CompanyID   string        `json:"company_id" db:"company_id"`
	Name        string        `json:"name" db:"name"`
	Description *string       `json:"description,omitempty" db:"description"`
	Location    *string       `json:"location,omitempty" db:"location"`
	Status      ProjectStatus `json:"status" db:"status"`
	ManagerID   *string       `json:"manager_id,omitempty" db:"manager_id"`
	StartDate   *time.Time    `json:"start_date,omitempty" db:"start_date"`
	EndDate     *time.Time    `json:"end_date,omitempty" db:"end_date"`
	CreatedAt   time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at" db:"updated_at"`
}

// ProjectCreateRequest represents the payload for creating a project.
// Any company_id supplied by the client is ignored; the server derives
// the tenant from the caller's profile.
type ProjectCreateRequest struct {
	Name        string     `json:"name" binding:"required,min=2"`
	Description *string    `json:"description,omitempty"`
	Location    *string    `json:"location,omitempty"`
	ManagerID   *string    `json:"manager_id,omitempty"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	// CompanyID is accepted for wire compatibility but never trusted.
	CompanyID *string `json:"company_id,omitempty"`
}

// ProjectUpdateRequest represents a partial project update
type ProjectUpdateRequest struct {
	Name        *string    `json:"name,omitempty"`
	Description *string    `json:"description,omitempty"`
	Location    *string    `json:"location,omitempty"`
	Status      *string    `json:"status,omitempty"`
	ManagerID   *string    `json:"manager_id,omitempty"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
}

// ProjectRoad is a road (chainage section) belonging to a project.
type ProjectRoad struct {
	ID        string    `json:"id" db:"id"`
	ProjectID string    `json:"project_id" db:"project_id"`
	CompanyID string    `json:"company_id" db:"company_id"`
	Name      string    `json:"name" db:"name"`
	StartCh   *string   `json:"start_chainage,omitempty" db:"start_chainage"`
	EndCh     *string   `json:"end_chainage,omitempty" db:"end_chainage"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// RoadCreateRequest represents the payload for adding a road to a project
type RoadCreateRequest struct {
	Name    string  `json:"name" binding:"required"`
	StartCh *string `json:"start_chainage,omitempty"`
	EndCh   *string `json:"end_chainage,omitempty"`
}

// ConstructionLayer is a pavement layer definition used by test reports.
type ConstructionLayer struct {
	ID        string    `json:"id" db:"id"`
	CompanyID string    `json:"company_id" db:"company_id"`
	Name      string    `json:"name" db:"name"`
	OrderNo   int       `json:"order_no" db:"order_no"`
	IsDefault bool      `json:"is_default" db:"is_default"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// LayerCreateRequest represents the payload for creating a construction layer
type LayerCreateRequest struct {
	Name    string `json:"name" binding:"required"`
	OrderNo int    `json:"order_no"`
}
