package models

import (
	"time"
)

// Template is a test-report form definition. Company-scoped, except
// default templates (CompanyID nil) which are visible to every tenant.
type Template struct {
	ID          string         `json:"id" db:"id"`
	CompanyID   *string        `json:"company_id,omitempty" db:"company_id"`
	Name        string         `json:"name" db:"name"`
	TestType    string         `json:"test_type" db:"test_type"`
	Description *string        `json:"description,omitempty" db:"description"`
	Fields      map[string]any `json:"fields,omitempty" db:"fields"`
	IsDefault   bool           `json:"is_default" db:"is_default"`
	CreatedBy   *string        `json:"created_by,omitempty" db:"created_by"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at" db:"updated_at"`
}

// TemplateCreateRequest represents the payload for creating a template
type TemplateCreateRequest struct {
	Name        string         `json:"name" binding:"required"`
	TestType    string         `json:"test_type" binding:"required"`
	Description *string        `json:"description,omitempty"`
	Fields      map[string]any `json:"fields,omitempty"`
}

// TemplateUpdateRequest represents a partial template update
type TemplateUpdateRequest struct {
	Name        *string        `json:"name,omitempty"`
	TestType    *string        `json:"test_type,omitempty"`
	Description *string        `json:"description,omitempty"`
	Fields      map[string]any `json:"fields,omitempty"`
}
