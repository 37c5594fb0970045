package storage

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when an object does not exist in the store.
	ErrNotFound = errors.New("object not found")

	// ErrPreconditionFailed is returned when a conditional write loses the
	// race against another writer.
	ErrPreconditionFailed = errors.New("write precondition failed")
)

// Descriptor identifies one stored object.
type Descriptor struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// Precondition constrains a Put. DoesNotExist makes the write fail with
// ErrPreconditionFailed instead of clobbering a concurrent writer's
// object.
type Precondition struct {
	DoesNotExist bool
}

// ObjectStore is the blob store boundary: list, stat, fetch, store and
// URL issuance. Implementations must be safe for concurrent use.
type ObjectStore interface {
	List(ctx context.Context, prefix string) ([]Descriptor, error)
	Metadata(ctx context.Context, name string) (Descriptor, error)
	Get(ctx context.Context, name string) ([]byte, error)
	Put(ctx context.Context, name string, data []byte, pre *Precondition) error
	PublicURL(name string) string
	SignedURL(ctx context.Context, name string, ttl time.Duration) (string, error)
}
