package storage

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/yourorg/moving-portal/internal/config"

	"github.com/google/uuid"
)

// LocalStorage implements the Storage interface for the local filesystem
type LocalStorage struct {
	basePath string
	baseURL  string
}

// NewLocalStorage creates a new LocalStorage
func NewLocalStorage(cfg *config.LocalStorageConfig) (*LocalStorage, error) {
	// Create base directory if it doesn't exist
	if err := os.MkdirAll(cfg.BasePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}

	return &LocalStorage{
		basePath: cfg.BasePath,
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
	}, nil
}

// Store saves an uploaded file to the local filesystem
func (s *LocalStorage) Store(ctx context.Context, file *multipart.FileHeader, moveID string) (*Blob, error) {
	dirPath := filepath.Join(s.basePath, "documents", moveID)
	if err := os.MkdirAll(dirPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	// Randomized filename avoids collisions between uploads of the same name.
	ext := filepath.Ext(file.Filename)
	filename := uuid.New().String() + ext
	filePath := filepath.Join(dirPath, filename)

	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	written, err := io.Copy(dst, src)
	if err != nil {
		// Clean up the partial file so a failed upload leaves nothing behind.
		os.Remove(filePath)
		return nil, fmt.Errorf("failed to copy file content: %w", err)
	}

	relPath := filepath.ToSlash(filepath.Join("documents", moveID, filename))

	return &Blob{
		Path: relPath,
		URL:  fmt.Sprintf("%s/%s", s.baseURL, relPath),
		Size: written,
	}, nil
}

// Open retrieves a stored blob for reading
func (s *LocalStorage) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	file, err := os.Open(filepath.Join(s.basePath, filepath.FromSlash(path)))
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return file, nil
}

// Delete removes a stored blob from the local filesystem
func (s *LocalStorage) Delete(ctx context.Context, path string) error {
	if err := os.Remove(filepath.Join(s.basePath, filepath.FromSlash(path))); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
