// internal/domain/product/entity_test.go
package product

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		pname   string
		price   string
		qty     int
		wantErr error
	}{
		{name: "valid", pname: "Product 1", price: "15.5", qty: 10},
		{name: "minimum price", pname: "Product 1", price: "0.01", qty: 0},
		{name: "empty name", pname: "  ", price: "15.5", qty: 10, wantErr: ErrInvalidName},
		{name: "zero price", pname: "Product 1", price: "0", qty: 10, wantErr: ErrInvalidPrice},
		{name: "negative price", pname: "Product 1", price: "-2.3", qty: 10, wantErr: ErrInvalidPrice},
		{name: "negative quantity", pname: "Product 1", price: "15.5", qty: -1, wantErr: ErrInvalidQuantity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := New(tt.pname, "desc", "details", decimal.RequireFromString(tt.price), tt.qty)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.pname, p.Name)
			assert.Equal(t, tt.qty, p.Quantity)
		})
	}
}

func TestDecrementStock(t *testing.T) {
	p, err := New("Product 1", "", "", decimal.RequireFromString("10.00"), 5)
	require.NoError(t, err)

	require.NoError(t, p.DecrementStock(2))
	assert.Equal(t, 3, p.Quantity)

	require.NoError(t, p.DecrementStock(3))
	assert.Equal(t, 0, p.Quantity)
}

func TestDecrementStockRejectsOverdraw(t *testing.T) {
	p, err := New("Product 1", "", "", decimal.RequireFromString("10.00"), 2)
	require.NoError(t, err)

	assert.ErrorIs(t, p.DecrementStock(3), ErrInsufficientStock)
	assert.Equal(t, 2, p.Quantity, "stock must be untouched after a rejected decrement")
}

func TestDecrementStockRejectsNonPositive(t *testing.T) {
	p, err := New("Product 1", "", "", decimal.RequireFromString("10.00"), 2)
	require.NoError(t, err)

	assert.ErrorIs(t, p.DecrementStock(0), ErrInvalidQuantity)
	assert.ErrorIs(t, p.DecrementStock(-1), ErrInvalidQuantity)
}
