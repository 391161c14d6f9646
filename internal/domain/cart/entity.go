// internal/domain/cart/entity.go
package cart

import (
	"errors"
	"sync"

	"github.com/shopspring/decimal"

	productdom "boutique/internal/domain/product"
)

var (
	ErrEmptyCart       = errors.New("cart: empty")
	ErrInvalidProduct  = errors.New("cart: invalid product")
	ErrInvalidQuantity = errors.New("cart: invalid quantity")
)

// Line is one (product, quantity) pairing inside a Cart.
//
// The Product held here is a display snapshot. Line identity is the
// product ID only; stock truth lives in the product repository.
type Line struct {
	Product  *productdom.Product `json:"product"`
	Quantity int                 `json:"quantity"`
}

// Cart is a session-scoped aggregate of lines representing a pending
// purchase. At most one line exists per product ID; lines keep insertion
// order for stable display.
//
// A cart instance may be reached by parallel requests of the same
// session, so every operation holds the cart mutex for its whole
// read-then-write.
type Cart struct {
	mu    sync.Mutex
	lines []Line
}

// New creates an empty cart.
func New() *Cart {
	return &Cart{lines: []Line{}}
}

// NewFromLines rebuilds a cart from stored lines (repository loads).
// Invalid lines are dropped, duplicate product IDs are merged.
func NewFromLines(lines []Line) *Cart {
	c := New()
	for _, ln := range lines {
		if ln.Product == nil || ln.Product.ID == 0 || ln.Quantity <= 0 {
			continue
		}
		_ = c.AddItem(ln.Product, ln.Quantity)
	}
	return c
}

// AddItem merges qty into the line for p.ID, creating the line when the
// product is not in the cart yet. qty must be >= 1.
//
// Two distinct Product values with the same ID target the same line.
func (c *Cart) AddItem(p *productdom.Product, qty int) error {
	if c == nil || p == nil || p.ID == 0 {
		return ErrInvalidProduct
	}
	if qty <= 0 {
		return ErrInvalidQuantity
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].Product.ID == p.ID {
			c.lines[i].Quantity += qty
			return nil
		}
	}
	c.lines = append(c.lines, Line{Product: p, Quantity: qty})
	return nil
}

// RemoveLine removes the line whose product ID matches. Absent id is a
// no-op.
func (c *Cart) RemoveLine(productID int64) {
	if c == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].Product.ID == productID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

// Clear empties the cart unconditionally.
func (c *Cart) Clear() {
	if c == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.lines = []Line{}
}

// Lines returns a copy of the lines in insertion order.
func (c *Cart) Lines() []Line {
	if c == nil {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// TotalQuantity is the sum of the quantities across lines.
func (c *Cart) TotalQuantity() int {
	if c == nil {
		return 0
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	return c.totalQuantityLocked()
}

// TotalValue is the sum of price*quantity over all lines. Empty cart
// totals zero.
func (c *Cart) TotalValue() decimal.Decimal {
	if c == nil {
		return decimal.Zero
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	return c.totalValueLocked()
}

// AverageValue is TotalValue divided by TotalQuantity.
// An empty cart (zero total quantity) returns ErrEmptyCart rather than
// dividing by zero.
func (c *Cart) AverageValue() (decimal.Decimal, error) {
	if c == nil {
		return decimal.Zero, ErrEmptyCart
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	qty := c.totalQuantityLocked()
	if qty == 0 {
		return decimal.Zero, ErrEmptyCart
	}
	return c.totalValueLocked().Div(decimal.NewFromInt(int64(qty))), nil
}

func (c *Cart) totalQuantityLocked() int {
	total := 0
	for _, ln := range c.lines {
		total += ln.Quantity
	}
	return total
}

func (c *Cart) totalValueLocked() decimal.Decimal {
	total := decimal.Zero
	for _, ln := range c.lines {
		total = total.Add(ln.Product.Price.Mul(decimal.NewFromInt(int64(ln.Quantity))))
	}
	return total
}
