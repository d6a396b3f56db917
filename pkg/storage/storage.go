// Package storage archives raw import uploads on the local filesystem.
package storage

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
)

// ImportsNamespace groups archived import uploads.
const ImportsNamespace = "imports"

// FileInfo contains metadata about a stored file
type FileInfo struct {
	ID          uuid.UUID         `json:"id"`
	Name        string            `json:"name"`
	Size        int64             `json:"size"`
	ContentType string            `json:"content_type"`
	Path        string            `json:"path"` // Internal storage path
	Labels      map[string]string `json:"labels,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}

// Storage defines the interface for file storage operations
type Storage interface {
	// Upload stores a file under namespace and returns its metadata
	Upload(ctx context.Context, namespace, filename, contentType string, labels map[string]string, r io.Reader) (*FileInfo, error)

	// Delete removes a file by its ID
	Delete(ctx context.Context, namespace string, fileID uuid.UUID) error

	// List returns all files in a namespace
	List(ctx context.Context, namespace string) ([]*FileInfo, error)

	// GetInfo returns metadata for a file without downloading
	GetInfo(ctx context.Context, namespace string, fileID uuid.UUID) (*FileInfo, error)

	// PruneOlderThan deletes every file in namespace created before cutoff
	PruneOlderThan(ctx context.Context, namespace string, cutoff time.Time) (int, error)
}
