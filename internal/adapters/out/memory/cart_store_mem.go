// internal/adapters/out/memory/cart_store_mem.go
package memory

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	cartdom "boutique/internal/domain/cart"
)

// DefaultCartTTL matches the Firestore store's inactivity window.
const DefaultCartTTL = 7 * 24 * time.Hour

// CartStoreMem implements cart.Store in process memory. Used by tests
// and single-node runs without Firestore.
type CartStoreMem struct {
	mu    sync.RWMutex
	carts map[string]*entry
	ttl   time.Duration
	now   func() time.Time
}

type entry struct {
	cart      *cartdom.Cart
	expiresAt time.Time
}

func NewCartStoreMem() *CartStoreMem {
	return &CartStoreMem{
		carts: map[string]*entry{},
		ttl:   DefaultCartTTL,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// NewCartStoreMemWithClock is useful for TTL tests.
func NewCartStoreMemWithClock(ttl time.Duration, now func() time.Time) *CartStoreMem {
	if ttl <= 0 {
		ttl = DefaultCartTTL
	}
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &CartStoreMem{carts: map[string]*entry{}, ttl: ttl, now: now}
}

// Get returns (nil, nil) when the session has no live cart.
func (s *CartStoreMem) Get(_ context.Context, sessionID string) (*cartdom.Cart, error) {
	sid := strings.TrimSpace(sessionID)
	if sid == "" {
		return nil, errors.New("cart_store_mem: sessionID is empty")
	}

	s.mu.RLock()
	e, ok := s.carts[sid]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	if s.now().After(e.expiresAt) {
		s.mu.Lock()
		delete(s.carts, sid)
		s.mu.Unlock()
		return nil, nil
	}
	return e.cart, nil
}

func (s *CartStoreMem) Save(_ context.Context, sessionID string, c *cartdom.Cart) error {
	sid := strings.TrimSpace(sessionID)
	if sid == "" {
		return errors.New("cart_store_mem: sessionID is empty")
	}
	if c == nil {
		return errors.New("cart_store_mem: cart is nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[sid] = &entry{cart: c, expiresAt: s.now().Add(s.ttl)}
	return nil
}

func (s *CartStoreMem) Delete(_ context.Context, sessionID string) error {
	sid := strings.TrimSpace(sessionID)
	if sid == "" {
		return errors.New("cart_store_mem: sessionID is empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, sid)
	return nil
}

func (s *CartStoreMem) RemoveProduct(_ context.Context, productID int64) error {
	if productID == 0 {
		return errors.New("cart_store_mem: productID is zero")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.carts {
		e.cart.RemoveLine(productID)
	}
	return nil
}

// PurgeExpired drops idle carts and returns the number removed.
func (s *CartStoreMem) PurgeExpired(_ context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	purged := 0
	for sid, e := range s.carts {
		if now.After(e.expiresAt) {
			delete(s.carts, sid)
			purged++
		}
	}
	return purged, nil
}
