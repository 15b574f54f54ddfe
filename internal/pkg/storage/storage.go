// internal/pkg/storage/storage.go
package storage

import "context"

// Keys used by the auth session.
const (
	KeyAuthToken   = "authToken"
	KeyUserProfile = "userProfile"
)

// Storage is a durable key-value store that survives process restarts.
type Storage interface {
	// Get returns the value and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	// Delete removes keys; missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error
	// Clear removes every key owned by this store.
	Clear(ctx context.Context) error
}
