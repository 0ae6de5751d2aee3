// Package storage archives uploaded documents so extracted records keep
// an auditable source file.
package storage

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
)

// FileInfo contains metadata about a stored file
type FileInfo struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type"`
	Path        string    `json:"path"` // Internal storage path
	CreatedAt   time.Time `json:"created_at"`
}

// Storage defines the interface for file storage operations
type Storage interface {
	// Upload stores a file and returns its metadata
	Upload(ctx context.Context, filename string, contentType string, r io.Reader) (*FileInfo, error)

	// List returns all archived files
	List(ctx context.Context) ([]*FileInfo, error)

	// GetReader returns a reader for a stored file
	GetReader(ctx context.Context, fileID uuid.UUID) (io.ReadCloser, error)

	// Delete removes a file by its ID
	Delete(ctx context.Context, fileID uuid.UUID) error
}
