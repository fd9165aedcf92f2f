package storage

import "context"

// SnapshotStore persists the engine's state as a plain JSON tree, one entry
// per store name, restored verbatim at process start.
type SnapshotStore interface {
	Save(ctx context.Context, store string, value interface{}) error

	// Load unmarshals the named snapshot into out. A missing snapshot is
	// reported through found, not an error.
	Load(ctx context.Context, store string, out interface{}) (found bool, err error)

	Close() error
}
