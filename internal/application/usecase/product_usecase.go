// internal/application/usecase/product_usecase.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"boutique/internal/application/dto"
	cartdom "boutique/internal/domain/cart"
	orderdom "boutique/internal/domain/order"
	productdom "boutique/internal/domain/product"
)

var (
	ErrProductInvalidArgument = errors.New("product_usecase: invalid argument")
	ErrProductFormNotValid    = errors.New("product_usecase: form not validated")
	ErrCheckoutEmptyCart      = errors.New("product_usecase: checkout on empty cart")
)

// OrderNotifier is an outbound port for post-checkout notification
// (mail adapter in production). Failures are logged, never fatal.
type OrderNotifier interface {
	NotifyOrderPlaced(ctx context.Context, o *orderdom.Order) error
}

// ProductUsecase bridges the session cart and the persisted catalog.
//
// It is bound to one session's cart, the way a request-scoped service
// would be: the session layer resolves the cart handle and constructs
// the usecase around it. cart may be nil for admin flows that never
// touch a cart.
type ProductUsecase struct {
	cart     *cartdom.Cart
	products productdom.Repository
	orders   orderdom.Repository

	// optional
	sessionID string
	carts     cartdom.Store
	notifier  OrderNotifier
	clock     Clock
}

func NewProductUsecase(c *cartdom.Cart, products productdom.Repository, orders orderdom.Repository) *ProductUsecase {
	return &ProductUsecase{
		cart:     c,
		products: products,
		orders:   orders,
		clock:    systemClock{},
	}
}

// BindSession attaches the session id and the cart store, enabling
// catalog-wide cart purges on delete and order attribution at checkout.
func (uc *ProductUsecase) BindSession(sessionID string, carts cartdom.Store) *ProductUsecase {
	uc.sessionID = sessionID
	uc.carts = carts
	return uc
}

// WithNotifier attaches the post-checkout notifier.
func (uc *ProductUsecase) WithNotifier(n OrderNotifier) *ProductUsecase {
	uc.notifier = n
	return uc
}

// WithClock is useful for tests.
func (uc *ProductUsecase) WithClock(clock Clock) *ProductUsecase {
	if clock != nil {
		uc.clock = clock
	}
	return uc
}

// SaveProduct converts a validated form into a Product and persists it.
// The form must already have passed Validate; this method does not
// re-run the field rules, it only refuses values that fail conversion.
func (uc *ProductUsecase) SaveProduct(ctx context.Context, form dto.ProductForm) (*productdom.Product, error) {
	price, err := form.PriceValue()
	if err != nil {
		return nil, fmt.Errorf("%w: price %q", ErrProductFormNotValid, form.Price)
	}
	stock, err := form.StockValue()
	if err != nil {
		return nil, fmt.Errorf("%w: stock %q", ErrProductFormNotValid, form.Stock)
	}

	p, err := productdom.New(form.Name, form.Description, form.Details, price, stock)
	if err != nil {
		return nil, err
	}

	saved, err := uc.products.Add(ctx, p)
	if err != nil {
		return nil, err
	}

	log.Printf("[product_uc] product saved id=%d name=%q stock=%d", saved.ID, saved.Name, saved.Quantity)
	return saved, nil
}

// DeleteProduct removes the product from the catalog. Deletion is
// idempotent: a missing id is a no-op. Any cart line referencing the
// product is purged (the bound session cart, plus every stored cart
// when a store is attached) so no dangling reference survives.
func (uc *ProductUsecase) DeleteProduct(ctx context.Context, id int64) error {
	if id == 0 {
		return ErrProductInvalidArgument
	}

	if err := uc.products.Delete(ctx, id); err != nil {
		return err
	}

	if uc.cart != nil {
		uc.cart.RemoveLine(id)
	}
	if uc.carts != nil {
		if err := uc.carts.RemoveProduct(ctx, id); err != nil {
			return fmt.Errorf("product_usecase: purge cart lines for product %d: %w", id, err)
		}
	}

	log.Printf("[product_uc] product deleted id=%d", id)
	return nil
}

// GetProductByID returns the product or productdom.ErrNotFound.
func (uc *ProductUsecase) GetProductByID(ctx context.Context, id int64) (*productdom.Product, error) {
	if id == 0 {
		return nil, ErrProductInvalidArgument
	}
	return uc.products.GetByID(ctx, id)
}

// GetAllProducts lists the catalog.
func (uc *ProductUsecase) GetAllProducts(ctx context.Context) ([]productdom.Product, error) {
	return uc.products.GetAll(ctx)
}

// UpdateProductQuantities reconciles the session cart against stored
// stock at checkout: every line's quantity is drained from its
// product's stock, one order record is written, and the cart is
// cleared.
//
// The business rule is all-or-nothing: stock for every line is loaded
// and decremented in memory first, so a missing product or an
// insufficient-stock line aborts before any write. A repository failure
// while persisting the decrements stops the loop and surfaces the
// failing product id; the cart is left intact so the caller can retry.
func (uc *ProductUsecase) UpdateProductQuantities(ctx context.Context) (*orderdom.Order, error) {
	if uc.cart == nil {
		return nil, ErrProductInvalidArgument
	}

	lines := uc.cart.Lines()
	if len(lines) == 0 {
		return nil, ErrCheckoutEmptyCart
	}

	// Phase 1: load + decrement in memory. No writes yet.
	updated := make([]*productdom.Product, 0, len(lines))
	snaps := make([]orderdom.LineSnapshot, 0, len(lines))
	for _, ln := range lines {
		p, err := uc.products.GetByID(ctx, ln.Product.ID)
		if err != nil {
			return nil, fmt.Errorf("product_usecase: checkout line product %d: %w", ln.Product.ID, err)
		}
		if err := p.DecrementStock(ln.Quantity); err != nil {
			return nil, fmt.Errorf("product_usecase: checkout line product %d: %w", p.ID, err)
		}
		updated = append(updated, p)
		snaps = append(snaps, orderdom.LineSnapshot{
			ProductID: p.ID,
			Name:      p.Name,
			UnitPrice: p.Price,
			Quantity:  ln.Quantity,
		})
	}

	// Phase 2: persist the decrements.
	for _, p := range updated {
		if err := uc.products.Update(ctx, p); err != nil {
			return nil, fmt.Errorf("product_usecase: apply stock for product %d: %w", p.ID, err)
		}
	}

	sid := uc.sessionID
	if sid == "" {
		sid = uuid.NewString()
	}
	now := uc.clock.Now()
	ord, err := orderdom.New(uuid.NewString(), sid, snaps, now)
	if err != nil {
		return nil, err
	}
	if err := uc.orders.Add(ctx, ord); err != nil {
		// Stock is already drained; the order record is the missing
		// piece. Surface it and keep the cart so the caller can see
		// what happened.
		return nil, fmt.Errorf("product_usecase: record order: %w", err)
	}

	uc.cart.Clear()

	if uc.notifier != nil {
		if nErr := uc.notifier.NotifyOrderPlaced(ctx, ord); nErr != nil {
			log.Printf("[product_uc] WARN: order notification failed orderId=%s err=%v", ord.ID, nErr)
		}
	}

	log.Printf("[product_uc] checkout applied orderId=%s lines=%d total=%s elapsed=%s",
		ord.ID, len(ord.Lines), ord.Total.String(), time.Since(now))
	return ord, nil
}
