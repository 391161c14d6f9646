// internal/domain/product/repository_port.go
package product

import "context"

// Repository is a persistence port for Product.
//
// Not-found policy:
// - GetByID returns (nil, ErrNotFound) when the id does not exist.
// - Delete is idempotent: deleting a missing id is not an error.
type Repository interface {
	// Add persists a new product and returns it with the assigned ID.
	Add(ctx context.Context, p *Product) (*Product, error)

	// Update overwrites the stored product identified by p.ID.
	Update(ctx context.Context, p *Product) error

	// Delete removes the product. Missing id is a no-op.
	Delete(ctx context.Context, id int64) error

	// GetByID returns the product or ErrNotFound.
	GetByID(ctx context.Context, id int64) (*Product, error)

	// GetAll returns every product in the catalog.
	GetAll(ctx context.Context) ([]Product, error)
}
