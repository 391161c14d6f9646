// internal/domain/cart/store_port.go
package cart

import "context"

// Store is a persistence port for session carts.
//
// Not-found policy:
// - Get returns (nil, nil) when no cart exists for the session; the
//   application layer treats nil as "no cart yet".
//
// TTL:
// - Implementations refresh an expiry timestamp on each Save so idle
//   carts can be reclaimed.
type Store interface {
	// Get returns the cart for the session, or (nil, nil) when absent.
	Get(ctx context.Context, sessionID string) (*Cart, error)

	// Save persists the cart for the session (create or update).
	Save(ctx context.Context, sessionID string, c *Cart) error

	// Delete removes the cart for the session (e.g. after checkout).
	Delete(ctx context.Context, sessionID string) error

	// RemoveProduct deletes the line for productID from every stored
	// cart. Called when a product leaves the catalog so no cart keeps a
	// dangling reference.
	RemoveProduct(ctx context.Context, productID int64) error
}
