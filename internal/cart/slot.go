package cart

import "context"

// Slot is the durable key-value location holding the serialized cart. One
// slot may be shared by several stores (browser tabs, storefront replicas);
// writes are not coordinated, so the consistency model is last write
// observed wins.
type Slot interface {
	// Load returns the stored bytes, or nil when the slot has never been
	// written.
	Load(ctx context.Context) ([]byte, error)

	// Store replaces the slot contents.
	Store(ctx context.Context, data []byte) error

	// Watch delivers writes made by other owners of the same slot. A slot
	// never echoes its own writes back. The channel closes when ctx is
	// cancelled or the slot is closed.
	Watch(ctx context.Context) (<-chan []byte, error)

	// Close tears down the watch subscription.
	Close() error
}
