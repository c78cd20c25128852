// Package documents stores uploaded guidelines PDFs for a project.
// Metadata lives in Postgres and file contents in blob storage.
package documents

import (
	"time"

	"github.com/google/uuid"
)

// Document is the metadata of an uploaded guidelines file.
type Document struct {
	ID          uuid.UUID `json:"id"`
	ProjectID   uuid.UUID `json:"project_id"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	PageCount   *int      `json:"page_count"`
	StorageKey  string    `json:"storage_key"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// CreateCommand carries the data and metadata for a document upload.
type CreateCommand struct {
	ProjectID   uuid.UUID
	Data        []byte
	Filename    string
	ContentType string
	PageCount   *int
}
