// internal/domain/cart/entity_test.go
package cart

import (
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	productdom "boutique/internal/domain/product"
)

func mustProduct(t *testing.T, id int64, name, price string, qty int) *productdom.Product {
	t.Helper()
	p, err := productdom.New(name, "", "", decimal.RequireFromString(price), qty)
	require.NoError(t, err)
	p.ID = id
	return p
}

func seededCart(t *testing.T) (*Cart, *productdom.Product, *productdom.Product, *productdom.Product) {
	t.Helper()
	p1 := mustProduct(t, 1, "Product 1", "0.5", 5)
	p2 := mustProduct(t, 2, "Product 2", "10", 10)
	p3 := mustProduct(t, 3, "Product 3", "20", 500)

	c := New()
	require.NoError(t, c.AddItem(p1, 1))
	require.NoError(t, c.AddItem(p2, 5))
	require.NoError(t, c.AddItem(p3, 10))
	return c, p1, p2, p3
}

func lineFor(c *Cart, productID int64) *Line {
	for _, ln := range c.Lines() {
		if ln.Product.ID == productID {
			return &ln
		}
	}
	return nil
}

func TestAddItem(t *testing.T) {
	c, _, p2, _ := seededCart(t)

	require.Len(t, c.Lines(), 3)
	ln := lineFor(c, p2.ID)
	require.NotNil(t, ln)
	assert.Equal(t, 5, ln.Quantity)
}

func TestAddTwiceSameItem(t *testing.T) {
	c, p1, _, _ := seededCart(t)

	require.NoError(t, c.AddItem(p1, 1))

	require.Len(t, c.Lines(), 3)
	ln := lineFor(c, p1.ID)
	require.NotNil(t, ln)
	assert.Equal(t, 2, ln.Quantity)
}

func TestAddItemMatchesByIDNotByReference(t *testing.T) {
	c, p1, _, _ := seededCart(t)

	// a lightweight product carrying only the identity targets the
	// same line
	alias := &productdom.Product{ID: p1.ID, Name: p1.Name}
	require.NoError(t, c.AddItem(alias, 3))

	require.Len(t, c.Lines(), 3)
	ln := lineFor(c, p1.ID)
	require.NotNil(t, ln)
	assert.Equal(t, 4, ln.Quantity)
}

func TestAddItemRejectsNonPositiveQuantity(t *testing.T) {
	c := New()
	p := mustProduct(t, 1, "Product 1", "1", 1)

	assert.ErrorIs(t, c.AddItem(p, 0), ErrInvalidQuantity)
	assert.ErrorIs(t, c.AddItem(p, -2), ErrInvalidQuantity)
	assert.Empty(t, c.Lines())
}

func TestRemoveLine(t *testing.T) {
	c, _, p2, _ := seededCart(t)

	c.RemoveLine(p2.ID)

	require.Len(t, c.Lines(), 2)
	assert.Nil(t, lineFor(c, p2.ID))
}

func TestRemoveLineAbsentIsNoOp(t *testing.T) {
	c, _, _, _ := seededCart(t)

	c.RemoveLine(99)

	assert.Len(t, c.Lines(), 3)
}

func TestClear(t *testing.T) {
	c, _, _, _ := seededCart(t)

	c.Clear()

	assert.Empty(t, c.Lines())
	assert.True(t, c.TotalValue().IsZero())
}

func TestGetTotalValue(t *testing.T) {
	c, _, _, _ := seededCart(t)

	// 0.5*1 + 10*5 + 20*10
	assert.True(t, c.TotalValue().Equal(decimal.RequireFromString("250.5")),
		"total = %s", c.TotalValue())
}

func TestGetTotalValueEmptyCart(t *testing.T) {
	assert.True(t, New().TotalValue().IsZero())
}

func TestGetAverageValue(t *testing.T) {
	c, _, _, _ := seededCart(t)

	avg, err := c.AverageValue()
	require.NoError(t, err)
	// 250.5 / 16
	assert.InDelta(t, 15.66, avg.InexactFloat64(), 0.01)
}

func TestGetAverageValueEmptyCart(t *testing.T) {
	_, err := New().AverageValue()
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestNewFromLinesMergesAndDropsInvalid(t *testing.T) {
	p1 := mustProduct(t, 1, "Product 1", "2", 5)
	c := NewFromLines([]Line{
		{Product: p1, Quantity: 2},
		{Product: p1, Quantity: 3},
		{Product: nil, Quantity: 1},
		{Product: mustProduct(t, 2, "Product 2", "1", 1), Quantity: 0},
	})

	require.Len(t, c.Lines(), 1)
	assert.Equal(t, 5, c.Lines()[0].Quantity)
}

func TestConcurrentAddItem(t *testing.T) {
	c := New()
	p := mustProduct(t, 1, "Product 1", "1", 1000)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = c.AddItem(p, 1)
		}()
	}
	wg.Wait()

	require.Len(t, c.Lines(), 1)
	assert.Equal(t, 50, c.Lines()[0].Quantity)
}
