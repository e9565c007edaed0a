package model

import (
	"time"
)

// Document is a metadata row pointing at an uploaded blob.
type Document struct {
	ID          string    `json:"id" db:"id"`
	MoveID      string    `json:"move_id" db:"move_id"`
	Filename    string    `json:"filename" db:"filename"`
	FileURL     string    `json:"file_url" db:"file_url"`
	StoragePath string    `json:"-" db:"storage_path"`
	FileSize    int64     `json:"file_size" db:"file_size"`
	ContentType string    `json:"content_type" db:"content_type"`
	UploadedAt  time.Time `json:"uploaded_at" db:"uploaded_at"`
}
