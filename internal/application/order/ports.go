package order

import "context"

type IDGenerator interface {
	NewID() string
}

// Cache is the invalidation surface consumed by the creation pipeline.
// Only key removal is needed; reads happen elsewhere.
type Cache interface {
	Remove(ctx context.Context, key string) error
}
