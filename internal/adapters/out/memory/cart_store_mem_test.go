// internal/adapters/out/memory/cart_store_mem_test.go
package memory

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartdom "boutique/internal/domain/cart"
	productdom "boutique/internal/domain/product"
)

func testCart(t *testing.T, productID int64) *cartdom.Cart {
	t.Helper()
	c := cartdom.New()
	p := &productdom.Product{ID: productID, Name: "name", Price: decimal.NewFromInt(1)}
	require.NoError(t, c.AddItem(p, 1))
	return c
}

func TestSaveAndGet(t *testing.T) {
	store := NewCartStoreMem()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "session-1", testCart(t, 1)))

	got, err := store.Get(ctx, "session-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 1, got.TotalQuantity())
}

func TestGetMissingReturnsNilNil(t *testing.T) {
	store := NewCartStoreMem()

	got, err := store.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestGetRejectsBlankSession(t *testing.T) {
	store := NewCartStoreMem()

	_, err := store.Get(context.Background(), "   ")
	assert.Error(t, err)
}

func TestDelete(t *testing.T) {
	store := NewCartStoreMem()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "session-1", testCart(t, 1)))
	require.NoError(t, store.Delete(ctx, "session-1"))

	got, err := store.Get(ctx, "session-1")
	require.NoError(t, err)
	assert.Nil(t, got)

	// deleting again is a no-op
	assert.NoError(t, store.Delete(ctx, "session-1"))
}

func TestExpiredCartIsGone(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	store := NewCartStoreMemWithClock(time.Hour, func() time.Time { return now })
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "session-1", testCart(t, 1)))

	now = now.Add(30 * time.Minute)
	got, err := store.Get(ctx, "session-1")
	require.NoError(t, err)
	assert.NotNil(t, got, "cart is alive within its ttl")

	now = now.Add(2 * time.Hour)
	got, err = store.Get(ctx, "session-1")
	require.NoError(t, err)
	assert.Nil(t, got, "cart is gone past its ttl")
}

func TestSaveRefreshesTTL(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	store := NewCartStoreMemWithClock(time.Hour, func() time.Time { return now })
	ctx := context.Background()

	c := testCart(t, 1)
	require.NoError(t, store.Save(ctx, "session-1", c))

	now = now.Add(45 * time.Minute)
	require.NoError(t, store.Save(ctx, "session-1", c))

	now = now.Add(45 * time.Minute)
	got, err := store.Get(ctx, "session-1")
	require.NoError(t, err)
	assert.NotNil(t, got, "re-saving a cart extends its life")
}

func TestRemoveProductPurgesEveryCart(t *testing.T) {
	store := NewCartStoreMem()
	ctx := context.Background()

	c1 := testCart(t, 1)
	require.NoError(t, c1.AddItem(&productdom.Product{ID: 2, Name: "other", Price: decimal.NewFromInt(1)}, 1))
	require.NoError(t, store.Save(ctx, "session-1", c1))
	require.NoError(t, store.Save(ctx, "session-2", testCart(t, 1)))

	require.NoError(t, store.RemoveProduct(ctx, 1))

	got1, err := store.Get(ctx, "session-1")
	require.NoError(t, err)
	require.Len(t, got1.Lines(), 1)
	assert.Equal(t, int64(2), got1.Lines()[0].Product.ID)

	got2, err := store.Get(ctx, "session-2")
	require.NoError(t, err)
	assert.Empty(t, got2.Lines())
}

func TestPurgeExpired(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	store := NewCartStoreMemWithClock(time.Hour, func() time.Time { return now })
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "old", testCart(t, 1)))

	now = now.Add(2 * time.Hour)
	require.NoError(t, store.Save(ctx, "fresh", testCart(t, 2)))

	purged, err := store.PurgeExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 1, purged)

	got, err := store.Get(ctx, "fresh")
	require.NoError(t, err)
	assert.NotNil(t, got)
}
