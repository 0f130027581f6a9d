package repositories

import (
	"context"
	"time"
)

// BlobStore is the object storage holding document payloads. Failures are
// reported as *domain.StorageError so callers can distinguish the tolerated
// classes (not-found, access-denied) from real faults.
type BlobStore interface {
	// Delete removes the object at the given storage path
	Delete(ctx context.Context, path string) error

	// PresignedURL returns a time-limited download URL for the object
	PresignedURL(ctx context.Context, path string, expiry time.Duration) (string, error)
}
