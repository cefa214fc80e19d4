package repository

import "context"

// KV is the durable key-value contract backing the local product store and
// the per-user cart and wishlist state. Values are opaque JSON documents
// written whole; there are no partial updates.
type KV interface {
	// Get retrieves the value stored under key. Returns an error wrapping
	// apperrors.ErrNotFound when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, overwriting any existing value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key from the store. Deleting an absent key is not an
	// error.
	Delete(ctx context.Context, key string) error
}
