// internal/domain/product/entity.go
package product

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// ===============================
// Errors
// ===============================

var (
	ErrNotFound          = errors.New("product: not found")
	ErrInvalidID         = errors.New("product: invalid id")
	ErrInvalidName       = errors.New("product: invalid name")
	ErrInvalidPrice      = errors.New("product: invalid price")
	ErrInvalidQuantity   = errors.New("product: invalid quantity")
	ErrInsufficientStock = errors.New("product: insufficient stock")
)

// MinPrice is the lowest price the catalog accepts.
var MinPrice = decimal.NewFromFloat(0.01)

// Product is one catalog item.
//
// ID is assigned by the repository on Add and must not change afterwards.
// Quantity is the stock available in the catalog; quantity reserved in a
// cart is not pre-decremented here (see cart package).
type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Details     string          `json:"details"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
}

// New builds a Product without an ID (the repository assigns one).
func New(name, description, details string, price decimal.Decimal, quantity int) (*Product, error) {
	p := &Product{
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		Details:     strings.TrimSpace(details),
		Price:       price,
		Quantity:    quantity,
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// DecrementStock reduces available stock by n.
// n must be >= 1 and must not exceed the current stock.
func (p *Product) DecrementStock(n int) error {
	if p == nil {
		return ErrInvalidQuantity
	}
	if n <= 0 {
		return ErrInvalidQuantity
	}
	if n > p.Quantity {
		return ErrInsufficientStock
	}
	p.Quantity -= n
	return nil
}

func (p *Product) validate() error {
	if p == nil {
		return ErrInvalidName
	}
	if strings.TrimSpace(p.Name) == "" {
		return ErrInvalidName
	}
	if p.Price.Cmp(MinPrice) < 0 {
		return ErrInvalidPrice
	}
	if p.Quantity < 0 {
		return ErrInvalidQuantity
	}
	return nil
}
