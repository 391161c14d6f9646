// internal/application/usecase/product_usecase_test.go
package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"boutique/internal/adapters/out/memory"
	"boutique/internal/application/dto"
	cartdom "boutique/internal/domain/cart"
	orderdom "boutique/internal/domain/order"
	productdom "boutique/internal/domain/product"
)

// ----------------------------
// fakes
// ----------------------------

type fakeProductRepo struct {
	products map[int64]productdom.Product
	nextID   int64

	failUpdate bool
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: map[int64]productdom.Product{}, nextID: 1}
}

func (r *fakeProductRepo) Add(_ context.Context, p *productdom.Product) (*productdom.Product, error) {
	cp := *p
	cp.ID = r.nextID
	r.nextID++
	r.products[cp.ID] = cp
	return &cp, nil
}

func (r *fakeProductRepo) Update(_ context.Context, p *productdom.Product) error {
	if r.failUpdate {
		return errors.New("update failed")
	}
	if _, ok := r.products[p.ID]; !ok {
		return productdom.ErrNotFound
	}
	r.products[p.ID] = *p
	return nil
}

func (r *fakeProductRepo) Delete(_ context.Context, id int64) error {
	delete(r.products, id)
	return nil
}

func (r *fakeProductRepo) GetByID(_ context.Context, id int64) (*productdom.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, productdom.ErrNotFound
	}
	cp := p
	return &cp, nil
}

func (r *fakeProductRepo) GetAll(_ context.Context) ([]productdom.Product, error) {
	var out []productdom.Product
	for _, p := range r.products {
		out = append(out, p)
	}
	return out, nil
}

type fakeOrderRepo struct {
	orders  []*orderdom.Order
	failAdd bool
}

func (r *fakeOrderRepo) Add(_ context.Context, o *orderdom.Order) error {
	if r.failAdd {
		return errors.New("insert failed")
	}
	r.orders = append(r.orders, o)
	return nil
}

type fakeNotifier struct {
	notified []*orderdom.Order
	fail     bool
}

func (n *fakeNotifier) NotifyOrderPlaced(_ context.Context, o *orderdom.Order) error {
	if n.fail {
		return errors.New("mail down")
	}
	n.notified = append(n.notified, o)
	return nil
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func seedProduct(t *testing.T, repo *fakeProductRepo, name, price string, stock int) *productdom.Product {
	t.Helper()
	p, err := productdom.New(name, "", "", decimal.RequireFromString(price), stock)
	require.NoError(t, err)
	saved, err := repo.Add(context.Background(), p)
	require.NoError(t, err)
	return saved
}

// ----------------------------
// SaveProduct
// ----------------------------

func TestSaveProduct(t *testing.T) {
	repo := newFakeProductRepo()
	uc := NewProductUsecase(nil, repo, &fakeOrderRepo{})

	form := dto.ProductForm{Name: "Produit pour test", Price: "9.99", Stock: "10"}
	require.Empty(t, form.Validate())

	saved, err := uc.SaveProduct(context.Background(), form)
	require.NoError(t, err)

	assert.NotZero(t, saved.ID)
	stored, err := repo.GetByID(context.Background(), saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "Produit pour test", stored.Name)
	assert.Equal(t, "9.99", stored.Price.String())
	assert.Equal(t, 10, stored.Quantity)
}

func TestSaveProductRejectsUnvalidatedForm(t *testing.T) {
	uc := NewProductUsecase(nil, newFakeProductRepo(), &fakeOrderRepo{})

	_, err := uc.SaveProduct(context.Background(), dto.ProductForm{Name: "P", Price: "not a price", Stock: "10"})
	assert.ErrorIs(t, err, ErrProductFormNotValid)
}

// ----------------------------
// DeleteProduct
// ----------------------------

func TestDeleteProduct(t *testing.T) {
	repo := newFakeProductRepo()
	p := seedProduct(t, repo, "Produit pour test", "99.50", 5)

	uc := NewProductUsecase(nil, repo, &fakeOrderRepo{})
	require.NoError(t, uc.DeleteProduct(context.Background(), p.ID))

	_, err := repo.GetByID(context.Background(), p.ID)
	assert.ErrorIs(t, err, productdom.ErrNotFound)
}

func TestDeleteProductIsIdempotent(t *testing.T) {
	uc := NewProductUsecase(nil, newFakeProductRepo(), &fakeOrderRepo{})
	assert.NoError(t, uc.DeleteProduct(context.Background(), 42))
}

func TestDeleteProductPurgesCartLine(t *testing.T) {
	repo := newFakeProductRepo()
	p := seedProduct(t, repo, "Produit pour test", "99.50", 5)

	c := cartdom.New()
	require.NoError(t, c.AddItem(p, 1))

	uc := NewProductUsecase(c, repo, &fakeOrderRepo{})
	require.NoError(t, uc.DeleteProduct(context.Background(), p.ID))

	_, err := repo.GetByID(context.Background(), p.ID)
	assert.ErrorIs(t, err, productdom.ErrNotFound)
	assert.Empty(t, c.Lines(), "no dangling cart line may survive product deletion")
}

func TestDeleteProductPurgesStoredCarts(t *testing.T) {
	repo := newFakeProductRepo()
	p := seedProduct(t, repo, "Produit pour test", "99.50", 5)

	store := memory.NewCartStoreMem()
	other := cartdom.New()
	require.NoError(t, other.AddItem(p, 2))
	require.NoError(t, store.Save(context.Background(), "other-session", other))

	uc := NewProductUsecase(nil, repo, &fakeOrderRepo{}).BindSession("", store)
	require.NoError(t, uc.DeleteProduct(context.Background(), p.ID))

	reloaded, err := store.Get(context.Background(), "other-session")
	require.NoError(t, err)
	assert.Empty(t, reloaded.Lines())
}

// ----------------------------
// GetProductByID
// ----------------------------

func TestGetProductByID(t *testing.T) {
	repo := newFakeProductRepo()
	p := seedProduct(t, repo, "Test product infos", "545.45", 130)

	uc := NewProductUsecase(nil, repo, &fakeOrderRepo{})

	got, err := uc.GetProductByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Test product infos", got.Name)
	assert.Equal(t, "545.45", got.Price.String())
	assert.Equal(t, 130, got.Quantity)
}

func TestGetProductByIDNotFound(t *testing.T) {
	uc := NewProductUsecase(nil, newFakeProductRepo(), &fakeOrderRepo{})

	_, err := uc.GetProductByID(context.Background(), 42)
	assert.ErrorIs(t, err, productdom.ErrNotFound)
}

// ----------------------------
// UpdateProductQuantities
// ----------------------------

func TestUpdateProductQuantities(t *testing.T) {
	repo := newFakeProductRepo()
	orders := &fakeOrderRepo{}
	p := seedProduct(t, repo, "Produit pour test", "10.00", 5)

	// the cart deliberately holds a minimal alias, not the stored
	// entity: identity is the id
	c := cartdom.New()
	require.NoError(t, c.AddItem(&productdom.Product{ID: p.ID, Name: p.Name, Price: p.Price}, 2))

	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	uc := NewProductUsecase(c, repo, orders).
		BindSession("session-1", nil).
		WithClock(fixedClock{t: now})

	ord, err := uc.UpdateProductQuantities(context.Background())
	require.NoError(t, err)

	updated, err := repo.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, updated.Quantity)

	require.Len(t, orders.orders, 1)
	assert.Equal(t, ord, orders.orders[0])
	assert.Equal(t, "session-1", ord.SessionID)
	assert.Equal(t, now, ord.CreatedAt)
	require.Len(t, ord.Lines, 1)
	assert.Equal(t, p.ID, ord.Lines[0].ProductID)
	assert.Equal(t, 2, ord.Lines[0].Quantity)
	assert.Equal(t, "20", ord.Total.String())

	assert.Empty(t, c.Lines(), "cart is cleared after a successful checkout")
}

func TestUpdateProductQuantitiesEmptyCart(t *testing.T) {
	uc := NewProductUsecase(cartdom.New(), newFakeProductRepo(), &fakeOrderRepo{})

	_, err := uc.UpdateProductQuantities(context.Background())
	assert.ErrorIs(t, err, ErrCheckoutEmptyCart)
}

func TestUpdateProductQuantitiesInsufficientStock(t *testing.T) {
	repo := newFakeProductRepo()
	orders := &fakeOrderRepo{}
	p1 := seedProduct(t, repo, "Product 1", "10.00", 10)
	p2 := seedProduct(t, repo, "Product 2", "5.00", 1)

	c := cartdom.New()
	require.NoError(t, c.AddItem(p1, 2))
	require.NoError(t, c.AddItem(p2, 3)) // more than stock

	uc := NewProductUsecase(c, repo, orders)

	_, err := uc.UpdateProductQuantities(context.Background())
	assert.ErrorIs(t, err, productdom.ErrInsufficientStock)

	// all-or-nothing: no line was applied
	s1, _ := repo.GetByID(context.Background(), p1.ID)
	s2, _ := repo.GetByID(context.Background(), p2.ID)
	assert.Equal(t, 10, s1.Quantity)
	assert.Equal(t, 1, s2.Quantity)
	assert.Empty(t, orders.orders)
	assert.Len(t, c.Lines(), 2, "cart is intact after a rejected checkout")
}

func TestUpdateProductQuantitiesMissingProduct(t *testing.T) {
	repo := newFakeProductRepo()
	c := cartdom.New()
	require.NoError(t, c.AddItem(&productdom.Product{ID: 42, Name: "ghost"}, 1))

	uc := NewProductUsecase(c, repo, &fakeOrderRepo{})

	_, err := uc.UpdateProductQuantities(context.Background())
	assert.ErrorIs(t, err, productdom.ErrNotFound)
	assert.Len(t, c.Lines(), 1)
}

func TestUpdateProductQuantitiesOrderRecordFailure(t *testing.T) {
	repo := newFakeProductRepo()
	orders := &fakeOrderRepo{failAdd: true}
	p := seedProduct(t, repo, "Produit pour test", "10.00", 5)

	c := cartdom.New()
	require.NoError(t, c.AddItem(p, 2))

	uc := NewProductUsecase(c, repo, orders)

	_, err := uc.UpdateProductQuantities(context.Background())
	require.Error(t, err)
	assert.Len(t, c.Lines(), 1, "cart stays visible when the order record failed")
}

func TestUpdateProductQuantitiesNotifies(t *testing.T) {
	repo := newFakeProductRepo()
	p := seedProduct(t, repo, "Produit pour test", "10.00", 5)

	c := cartdom.New()
	require.NoError(t, c.AddItem(p, 1))

	notifier := &fakeNotifier{}
	uc := NewProductUsecase(c, repo, &fakeOrderRepo{}).WithNotifier(notifier)

	ord, err := uc.UpdateProductQuantities(context.Background())
	require.NoError(t, err)
	require.Len(t, notifier.notified, 1)
	assert.Equal(t, ord.ID, notifier.notified[0].ID)
}

func TestUpdateProductQuantitiesNotifierFailureIsNonFatal(t *testing.T) {
	repo := newFakeProductRepo()
	p := seedProduct(t, repo, "Produit pour test", "10.00", 5)

	c := cartdom.New()
	require.NoError(t, c.AddItem(p, 1))

	uc := NewProductUsecase(c, repo, &fakeOrderRepo{}).WithNotifier(&fakeNotifier{fail: true})

	_, err := uc.UpdateProductQuantities(context.Background())
	assert.NoError(t, err)
	assert.Empty(t, c.Lines())
}
