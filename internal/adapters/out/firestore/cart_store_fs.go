// internal/adapters/out/firestore/cart_store_fs.go
package firestore

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/shopspring/decimal"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	cartdom "boutique/internal/domain/cart"
	productdom "boutique/internal/domain/product"
)

// DefaultCartTTL is the inactivity window after which a session cart
// becomes eligible for deletion (Firestore TTL should be configured on
// expiresAt; PurgeExpired exists for manual sweeps).
const DefaultCartTTL = 7 * 24 * time.Hour

// CartStoreFS implements cart.Store using Firestore.
//
// Collection design:
// - collection: carts
// - docId: sessionId (docId is the source of truth)
// - fields: lines(map productId -> line), productIds(aux array for
//   queries), createdAt, updatedAt, expiresAt
type CartStoreFS struct {
	Client *firestore.Client
}

func NewCartStoreFS(client *firestore.Client) *CartStoreFS {
	return &CartStoreFS{Client: client}
}

func (s *CartStoreFS) col() *firestore.CollectionRef {
	return s.Client.Collection("carts")
}

// Get returns (nil, nil) if not found (nil policy).
func (s *CartStoreFS) Get(ctx context.Context, sessionID string) (*cartdom.Cart, error) {
	if s == nil || s.Client == nil {
		return nil, errors.New("cart_store_fs: firestore client is nil")
	}

	sid := strings.TrimSpace(sessionID)
	if sid == "" {
		return nil, errors.New("cart_store_fs: sessionID is empty")
	}

	snap, err := s.col().Doc(sid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, err
	}

	var doc cartDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, err
	}
	return doc.toDomain()
}

// Save overwrites the full doc (simple & predictable) and refreshes
// expiresAt.
func (s *CartStoreFS) Save(ctx context.Context, sessionID string, c *cartdom.Cart) error {
	if s == nil || s.Client == nil {
		return errors.New("cart_store_fs: firestore client is nil")
	}
	if c == nil {
		return errors.New("cart_store_fs: cart is nil")
	}

	sid := strings.TrimSpace(sessionID)
	if sid == "" {
		return errors.New("cart_store_fs: sessionID is empty")
	}

	now := time.Now().UTC()
	doc := cartDocFromDomain(c, now)
	_, err := s.col().Doc(sid).Set(ctx, doc)
	return err
}

func (s *CartStoreFS) Delete(ctx context.Context, sessionID string) error {
	if s == nil || s.Client == nil {
		return errors.New("cart_store_fs: firestore client is nil")
	}

	sid := strings.TrimSpace(sessionID)
	if sid == "" {
		return errors.New("cart_store_fs: sessionID is empty")
	}

	_, err := s.col().Doc(sid).Delete(ctx)
	return err
}

// RemoveProduct strips the line for productID from every stored cart.
// The productIds aux array keeps the query cheap.
func (s *CartStoreFS) RemoveProduct(ctx context.Context, productID int64) error {
	if s == nil || s.Client == nil {
		return errors.New("cart_store_fs: firestore client is nil")
	}
	if productID == 0 {
		return errors.New("cart_store_fs: productID is zero")
	}

	key := strconv.FormatInt(productID, 10)
	it := s.col().Where("productIds", "array-contains", key).Documents(ctx)
	defer it.Stop()

	for {
		snap, err := it.Next()
		if err == iterator.Done {
			return nil
		}
		if err != nil {
			return err
		}

		var doc cartDoc
		if err := snap.DataTo(&doc); err != nil {
			return err
		}

		c, err := doc.toDomain()
		if err != nil {
			return err
		}
		c.RemoveLine(productID)

		now := time.Now().UTC()
		if _, err := snap.Ref.Set(ctx, cartDocFromDomain(c, now)); err != nil {
			return err
		}
	}
}

// PurgeExpired deletes carts whose expiresAt is before now and returns
// the number removed. Meant for periodic sweeps when Firestore TTL is
// not configured on the collection.
func (s *CartStoreFS) PurgeExpired(ctx context.Context, now time.Time) (int, error) {
	if s == nil || s.Client == nil {
		return 0, errors.New("cart_store_fs: firestore client is nil")
	}

	it := s.col().Where("expiresAt", "<", now).Documents(ctx)
	defer it.Stop()

	purged := 0
	for {
		snap, err := it.Next()
		if err == iterator.Done {
			return purged, nil
		}
		if err != nil {
			return purged, err
		}
		if _, err := snap.Ref.Delete(ctx); err != nil {
			return purged, err
		}
		purged++
	}
}

// -----------------------------------------
// Firestore DTO
// -----------------------------------------

type cartDoc struct {
	// Lines: productId (decimal string key) -> line snapshot.
	// The domain struct is not stored directly so the schema can move
	// without breaking old docs.
	Lines map[string]cartLineDoc `firestore:"lines"`

	// ProductIDs mirrors the line keys for array-contains queries and
	// preserves the cart's insertion order; reloads rebuild lines by
	// walking this array, never by ranging over the map.
	ProductIDs []string `firestore:"productIds"`

	CreatedAt time.Time `firestore:"createdAt"`
	UpdatedAt time.Time `firestore:"updatedAt"`
	ExpiresAt time.Time `firestore:"expiresAt"`
}

type cartLineDoc struct {
	ProductID int64  `firestore:"productId"`
	Name      string `firestore:"name"`
	Price     string `firestore:"price"`
	Qty       int    `firestore:"qty"`
}

func cartDocFromDomain(c *cartdom.Cart, now time.Time) cartDoc {
	lines := map[string]cartLineDoc{}
	var ids []string
	for _, ln := range c.Lines() {
		if ln.Product == nil || ln.Product.ID == 0 || ln.Quantity <= 0 {
			continue
		}
		key := strconv.FormatInt(ln.Product.ID, 10)
		lines[key] = cartLineDoc{
			ProductID: ln.Product.ID,
			Name:      ln.Product.Name,
			Price:     ln.Product.Price.String(),
			Qty:       ln.Quantity,
		}
		ids = append(ids, key)
	}

	return cartDoc{
		Lines:      lines,
		ProductIDs: ids,
		CreatedAt:  now,
		UpdatedAt:  now,
		ExpiresAt:  now.Add(DefaultCartTTL),
	}
}

func (d cartDoc) toDomain() (*cartdom.Cart, error) {
	keys := d.ProductIDs
	if len(keys) == 0 {
		// legacy docs predate the productIds array; fall back to
		// numeric key order so reloads at least stay deterministic
		keys = make([]string, 0, len(d.Lines))
		for k := range d.Lines {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool {
			a, _ := strconv.ParseInt(keys[i], 10, 64)
			b, _ := strconv.ParseInt(keys[j], 10, 64)
			return a < b
		})
	}

	lines := make([]cartdom.Line, 0, len(keys))
	for _, key := range keys {
		ln, ok := d.Lines[key]
		if !ok {
			continue
		}

		pid := ln.ProductID
		if pid == 0 {
			// legacy docs keyed the line without the productId field
			if v, err := strconv.ParseInt(strings.TrimSpace(key), 10, 64); err == nil {
				pid = v
			}
		}
		if pid == 0 || ln.Qty <= 0 {
			continue
		}

		price, err := decimal.NewFromString(strings.TrimSpace(ln.Price))
		if err != nil {
			// corrupt price: drop the line, same as bad id/qty
			continue
		}

		lines = append(lines, cartdom.Line{
			Product: &productdom.Product{
				ID:    pid,
				Name:  ln.Name,
				Price: price,
			},
			Quantity: ln.Qty,
		})
	}
	return cartdom.NewFromLines(lines), nil
}
