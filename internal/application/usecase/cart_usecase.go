// internal/application/usecase/cart_usecase.go
package usecase

import (
	"context"
	"errors"
	"strings"

	cartdom "boutique/internal/domain/cart"
	productdom "boutique/internal/domain/product"
)

var (
	ErrCartInvalidArgument = errors.New("cart_usecase: invalid argument")
	ErrCartNotFound        = errors.New("cart_usecase: not found")
)

// CartUsecase coordinates session cart operations against the cart
// store and the product catalog.
type CartUsecase struct {
	store    cartdom.Store
	products productdom.Repository
}

func NewCartUsecase(store cartdom.Store, products productdom.Repository) *CartUsecase {
	return &CartUsecase{store: store, products: products}
}

// Get returns the cart for the session.
// If the cart does not exist, returns (nil, ErrCartNotFound).
func (uc *CartUsecase) Get(ctx context.Context, sessionID string) (*cartdom.Cart, error) {
	sid := strings.TrimSpace(sessionID)
	if sid == "" {
		return nil, ErrCartInvalidArgument
	}

	c, err := uc.store.Get(ctx, sid)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCartNotFound
	}
	return c, nil
}

// GetOrCreate returns an existing cart; if absent, creates an empty one
// and persists it.
func (uc *CartUsecase) GetOrCreate(ctx context.Context, sessionID string) (*cartdom.Cart, error) {
	sid := strings.TrimSpace(sessionID)
	if sid == "" {
		return nil, ErrCartInvalidArgument
	}

	c, err := uc.store.Get(ctx, sid)
	if err != nil {
		return nil, err
	}
	if c != nil {
		return c, nil
	}

	c = cartdom.New()
	if err := uc.store.Save(ctx, sid, c); err != nil {
		return nil, err
	}
	return c, nil
}

// AddItem fetches the product from the catalog, merges qty into the
// session cart and persists it. qty must be >= 1.
func (uc *CartUsecase) AddItem(ctx context.Context, sessionID string, productID int64, qty int) (*cartdom.Cart, error) {
	sid := strings.TrimSpace(sessionID)
	if sid == "" || productID == 0 || qty <= 0 {
		return nil, ErrCartInvalidArgument
	}

	p, err := uc.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	c, err := uc.store.Get(ctx, sid)
	if err != nil {
		return nil, err
	}
	if c == nil {
		c = cartdom.New()
	}

	if err := c.AddItem(p, qty); err != nil {
		return nil, err
	}
	if err := uc.store.Save(ctx, sid, c); err != nil {
		return nil, err
	}
	return c, nil
}

// RemoveItem removes productID from the session cart. Removing an
// absent line is not an error.
func (uc *CartUsecase) RemoveItem(ctx context.Context, sessionID string, productID int64) (*cartdom.Cart, error) {
	sid := strings.TrimSpace(sessionID)
	if sid == "" || productID == 0 {
		return nil, ErrCartInvalidArgument
	}

	c, err := uc.store.Get(ctx, sid)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCartNotFound
	}

	c.RemoveLine(productID)
	if err := uc.store.Save(ctx, sid, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Clear deletes the session cart.
func (uc *CartUsecase) Clear(ctx context.Context, sessionID string) error {
	sid := strings.TrimSpace(sessionID)
	if sid == "" {
		return ErrCartInvalidArgument
	}
	return uc.store.Delete(ctx, sid)
}
