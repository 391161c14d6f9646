// internal/adapters/in/http/handlers/checkout_handler.go
package handlers

import (
	"errors"
	"log"
	"net/http"

	"boutique/internal/application/usecase"
	cartdom "boutique/internal/domain/cart"
	orderdom "boutique/internal/domain/order"
	productdom "boutique/internal/domain/product"
)

// CheckoutHandler drains the session cart against stored stock.
//
//	POST /checkout
//
// On success the stock decrements are persisted, one order is recorded
// and the session cart is deleted.
type CheckoutHandler struct {
	products productdom.Repository
	orders   orderdom.Repository
	carts    cartdom.Store
	notifier usecase.OrderNotifier
}

func NewCheckoutHandler(products productdom.Repository, orders orderdom.Repository, carts cartdom.Store, notifier usecase.OrderNotifier) http.Handler {
	return &CheckoutHandler{
		products: products,
		orders:   orders,
		carts:    carts,
		notifier: notifier,
	}
}

func (h *CheckoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	sid := readSessionID(r, false)
	if sid == "" {
		writeErr(w, http.StatusBadRequest, "missing session id")
		return
	}

	c, err := h.carts.Get(r.Context(), sid)
	if err != nil {
		log.Printf("[checkout_handler] load cart session=%s failed: %v", sid, err)
		writeErr(w, http.StatusInternalServerError, "could not load cart")
		return
	}
	if c == nil {
		notFound(w)
		return
	}

	uc := usecase.NewProductUsecase(c, h.products, h.orders).
		BindSession(sid, h.carts).
		WithNotifier(h.notifier)

	ord, err := uc.UpdateProductQuantities(r.Context())
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrCheckoutEmptyCart):
			writeErr(w, http.StatusBadRequest, "cart is empty")
		case errors.Is(err, productdom.ErrInsufficientStock):
			writeErr(w, http.StatusConflict, "insufficient stock for a cart line")
		case errors.Is(err, productdom.ErrNotFound):
			writeErr(w, http.StatusConflict, "a cart line references a product no longer in the catalog")
		default:
			log.Printf("[checkout_handler] checkout session=%s failed: %v", sid, err)
			writeErr(w, http.StatusInternalServerError, "checkout failed")
		}
		return
	}

	// Cart is cleared in memory; drop the stored doc as well.
	if err := h.carts.Delete(r.Context(), sid); err != nil {
		log.Printf("[checkout_handler] WARN: delete cart session=%s after checkout: %v", sid, err)
	}

	writeJSON(w, http.StatusOK, ord)
}
