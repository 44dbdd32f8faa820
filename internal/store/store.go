package store

import "context"

// Session storage keys.
const (
	KeyToken = "session.token"
	KeyUser  = "session.user"
)

// Store is the persisted key-value store backing the client's session state.
// Get returns "" without error for missing keys.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error

	Migrate(ctx context.Context) error
	Close() error
}
