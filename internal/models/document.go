package models

import (
	"time"
)

// Document is a stored file's metadata row. The object itself lives in
// the documents bucket under ObjectKey.
type Document struct {
	ID         string    `json:"id" db:"id"`
	CompanyID  string    `json:"company_id" db:"company_id"`
	ProjectID  *string   `json:"project_id,omitempty" db:"project_id"`
	Name       string    `json:"name" db:"name"`
	ObjectKey  string    `json:"object_key" db:"object_key"`
	ContentTyp string    `json:"content_type" db:"content_type"`
	SizeBytes  int64     `json:"size_bytes" db:"size_bytes"`
	UploadedBy string    `json:"uploaded_by" db:"uploaded_by"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
