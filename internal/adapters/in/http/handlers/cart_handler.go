// internal/adapters/in/http/handlers/cart_handler.go
package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"boutique/internal/application/usecase"
	cartdom "boutique/internal/domain/cart"
	productdom "boutique/internal/domain/product"
)

// CartHandler serves storefront cart endpoints.
//
//	GET    /cart               current cart (creates one when absent)
//	DELETE /cart               clear cart
//	POST   /cart/items         add item {productId, quantity}
//	DELETE /cart/items/{id}    remove line
//
// The session travels in the X-Session-Id header (query fallback
// sessionId). GET and POST mint a session when none is supplied and
// echo it back in the response header and body.
type CartHandler struct {
	uc *usecase.CartUsecase
}

func NewCartHandler(uc *usecase.CartUsecase) http.Handler {
	return &CartHandler{uc: uc}
}

func (h *CartHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimRight(r.URL.Path, "/")
	if path == "" {
		path = "/"
	}

	isCart := strings.HasSuffix(path, "/cart")
	isItems := strings.HasSuffix(path, "/cart/items")
	itemID, hasItemID := pathIDAfter(path, "/cart/items")

	switch {
	case r.Method == http.MethodGet && isCart:
		h.handleGet(w, r)
	case r.Method == http.MethodDelete && isCart:
		h.handleClear(w, r)
	case r.Method == http.MethodPost && isItems:
		h.handleAddItem(w, r)
	case r.Method == http.MethodDelete && hasItemID:
		h.handleRemoveItem(w, r, itemID)
	default:
		methodNotAllowed(w)
	}
}

func pathIDAfter(path, marker string) (int64, bool) {
	i := strings.Index(path, marker)
	if i < 0 {
		return 0, false
	}
	return pathID(path, path[:i]+marker)
}

func (h *CartHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	sid := readSessionID(r, true)

	c, err := h.uc.GetOrCreate(r.Context(), sid)
	if err != nil {
		log.Printf("[cart_handler] get session=%s failed: %v", sid, err)
		writeErr(w, http.StatusInternalServerError, "could not load cart")
		return
	}
	writeCart(w, http.StatusOK, sid, c)
}

func (h *CartHandler) handleClear(w http.ResponseWriter, r *http.Request) {
	sid := readSessionID(r, false)
	if sid == "" {
		writeErr(w, http.StatusBadRequest, "missing session id")
		return
	}

	if err := h.uc.Clear(r.Context(), sid); err != nil {
		log.Printf("[cart_handler] clear session=%s failed: %v", sid, err)
		writeErr(w, http.StatusInternalServerError, "could not clear cart")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type addItemReq struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

func (h *CartHandler) handleAddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json body")
		return
	}

	sid := readSessionID(r, true)

	c, err := h.uc.AddItem(r.Context(), sid, req.ProductID, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, productdom.ErrNotFound):
			notFound(w)
		case errors.Is(err, usecase.ErrCartInvalidArgument),
			errors.Is(err, cartdom.ErrInvalidQuantity),
			errors.Is(err, cartdom.ErrInvalidProduct):
			writeErr(w, http.StatusBadRequest, "invalid product or quantity")
		default:
			log.Printf("[cart_handler] add item session=%s product=%d failed: %v", sid, req.ProductID, err)
			writeErr(w, http.StatusInternalServerError, "could not add item")
		}
		return
	}
	writeCart(w, http.StatusOK, sid, c)
}

func (h *CartHandler) handleRemoveItem(w http.ResponseWriter, r *http.Request, productID int64) {
	sid := readSessionID(r, false)
	if sid == "" {
		writeErr(w, http.StatusBadRequest, "missing session id")
		return
	}

	c, err := h.uc.RemoveItem(r.Context(), sid, productID)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrCartNotFound):
			notFound(w)
		case errors.Is(err, usecase.ErrCartInvalidArgument):
			writeErr(w, http.StatusBadRequest, "invalid session or product id")
		default:
			log.Printf("[cart_handler] remove item session=%s product=%d failed: %v", sid, productID, err)
			writeErr(w, http.StatusInternalServerError, "could not remove item")
		}
		return
	}
	writeCart(w, http.StatusOK, sid, c)
}

// -------------------------
// response DTO
// -------------------------

type cartLineRes struct {
	ProductID int64  `json:"productId"`
	Name      string `json:"name"`
	UnitPrice string `json:"unitPrice"`
	Quantity  int    `json:"quantity"`
}

type cartRes struct {
	SessionID     string        `json:"sessionId"`
	Lines         []cartLineRes `json:"lines"`
	TotalQuantity int           `json:"totalQuantity"`
	TotalValue    string        `json:"totalValue"`
	AverageValue  string        `json:"averageValue,omitempty"`
}

func writeCart(w http.ResponseWriter, status int, sessionID string, c *cartdom.Cart) {
	res := cartRes{
		SessionID:     sessionID,
		Lines:         []cartLineRes{},
		TotalQuantity: c.TotalQuantity(),
		TotalValue:    c.TotalValue().String(),
	}
	for _, ln := range c.Lines() {
		res.Lines = append(res.Lines, cartLineRes{
			ProductID: ln.Product.ID,
			Name:      ln.Product.Name,
			UnitPrice: ln.Product.Price.String(),
			Quantity:  ln.Quantity,
		})
	}
	if avg, err := c.AverageValue(); err == nil {
		res.AverageValue = avg.StringFixed(2)
	}

	w.Header().Set("X-Session-Id", sessionID)
	writeJSON(w, status, res)
}
