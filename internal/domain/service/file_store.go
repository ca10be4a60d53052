package service

import (
	"context"

	"userhub/internal/domain/entity"
)

// FileStore defines the interface for storing uploaded binary content, e.g.
// avatars. The implementation exclusively owns the mapping from the logical
// reference to the backing storage location; every operation re-checks that
// the resolved path stays inside the storage root before touching storage.
type FileStore interface {
	// Store validates and persists content, returning the stored reference.
	// The stored name is generated and collision-free, never the original
	// filename. A failed write leaves no partial file under its final name.
	Store(ctx context.Context, content []byte, contentType, filename, subdir string) (*entity.StoredFile, error)

	// Load reads back the content behind a stored reference.
	Load(ctx context.Context, ref string) ([]byte, error)

	// Delete removes the file behind a stored reference.
	Delete(ctx context.Context, ref string) error

	// GetInfo describes the file behind a stored reference without reading it.
	GetInfo(ctx context.Context, ref string) (*entity.StoredFile, error)

	// List enumerates stored files, optionally restricted to one subdirectory.
	List(ctx context.Context, subdir string) ([]*entity.StoredFile, error)

	// CleanupOlderThan removes files whose modification time is older than
	// the given number of days and reports how many were removed.
	CleanupOlderThan(ctx context.Context, days int) (int, error)
}
