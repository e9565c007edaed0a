package storage

import (
	"context"
	"io"
	"mime/multipart"

	"github.com/yourorg/moving-portal/internal/config"
)

// Blob describes a stored document blob.
type Blob struct {
	// Path is the storage-internal location, namespaced by move id.
	Path string
	// URL is the public retrieval URL.
	URL string
	// Size is the stored size in bytes.
	Size int64
}

// Storage defines the interface for document blob operations
type Storage interface {
	// Store saves an uploaded file under a path namespaced by move id with a
	// randomized filename and returns the stored blob.
	Store(ctx context.Context, file *multipart.FileHeader, moveID string) (*Blob, error)

	// Open retrieves a stored blob for reading
	Open(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete removes a stored blob
	Delete(ctx context.Context, path string) error
}

// NewStorage creates a storage implementation based on the configuration
func NewStorage(cfg *config.StorageConfig) (Storage, error) {
	switch cfg.Type {
	case "s3":
		return NewS3Storage(&cfg.S3)
	default:
		return NewLocalStorage(&cfg.Local)
	}
}
