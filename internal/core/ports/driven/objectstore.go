package driven

import (
	"context"

	"github.com/contargo/s3sync/internal/core/domain"
)

// ObjectStore provides the destination bucket primitives.
type ObjectStore interface {
	// EnsureBucket creates the destination bucket if it does not exist.
	// An already existing or already owned bucket is not an error.
	EnsureBucket(ctx context.Context) error

	// Put writes an object, overwriting any previous content under key.
	Put(ctx context.Context, key string, data []byte, contentType string) error

	// IsEmpty reports whether the bucket currently holds no objects.
	// A missing bucket counts as empty.
	IsEmpty(ctx context.Context) (bool, error)

	// List returns metadata for all objects in the bucket.
	// A missing bucket yields an empty list.
	List(ctx context.Context) ([]domain.ObjectInfo, error)

	// Get downloads one object. Returns domain.ErrObjectNotFound when
	// the key or the bucket does not exist.
	Get(ctx context.Context, key string) (*domain.ObjectContent, error)
}
