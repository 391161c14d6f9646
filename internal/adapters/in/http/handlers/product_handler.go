// internal/adapters/in/http/handlers/product_handler.go
package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"boutique/internal/adapters/out/i18n"
	"boutique/internal/application/dto"
	"boutique/internal/application/usecase"
	cartdom "boutique/internal/domain/cart"
	orderdom "boutique/internal/domain/order"
	productdom "boutique/internal/domain/product"
)

// ProductHandler serves admin catalog endpoints.
//
//	GET    /admin/products          list catalog
//	POST   /admin/products          create (validated form)
//	GET    /admin/products/{id}     fetch one
//	DELETE /admin/products/{id}     delete (idempotent, purges cart lines)
type ProductHandler struct {
	products  productdom.Repository
	orders    orderdom.Repository
	carts     cartdom.Store
	localizer i18n.Localizer
}

func NewProductHandler(products productdom.Repository, orders orderdom.Repository, carts cartdom.Store, localizer i18n.Localizer) http.Handler {
	return &ProductHandler{
		products:  products,
		orders:    orders,
		carts:     carts,
		localizer: localizer,
	}
}

func (h *ProductHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimRight(r.URL.Path, "/")
	if path == "" {
		path = "/"
	}

	isCollection := strings.HasSuffix(path, "/admin/products")
	id, hasID := pathID(path, collectionPrefix(path))

	switch {
	case r.Method == http.MethodGet && isCollection:
		h.handleList(w, r)
	case r.Method == http.MethodPost && isCollection:
		h.handleCreate(w, r)
	case r.Method == http.MethodGet && hasID:
		h.handleGet(w, r, id)
	case r.Method == http.MethodDelete && hasID:
		h.handleDelete(w, r, id)
	default:
		methodNotAllowed(w)
	}
}

// collectionPrefix keeps id parsing stable under route-prefix mounting.
func collectionPrefix(path string) string {
	if i := strings.Index(path, "/admin/products"); i >= 0 {
		return path[:i] + "/admin/products"
	}
	return "/admin/products"
}

func (h *ProductHandler) handleList(w http.ResponseWriter, r *http.Request) {
	uc := usecase.NewProductUsecase(nil, h.products, h.orders)
	items, err := uc.GetAllProducts(r.Context())
	if err != nil {
		log.Printf("[product_handler] list failed: %v", err)
		writeErr(w, http.StatusInternalServerError, "could not list products")
		return
	}
	if items == nil {
		items = []productdom.Product{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"products": items})
}

func (h *ProductHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var form dto.ProductForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json body")
		return
	}

	if fieldErrs := form.Validate(); len(fieldErrs) > 0 {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"errors": h.localizeFieldErrors(fieldErrs),
		})
		return
	}

	uc := usecase.NewProductUsecase(nil, h.products, h.orders)
	p, err := uc.SaveProduct(r.Context(), form)
	if err != nil {
		log.Printf("[product_handler] create failed name=%q: %v", form.Name, err)
		writeErr(w, http.StatusInternalServerError, "could not save product")
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *ProductHandler) handleGet(w http.ResponseWriter, r *http.Request, id int64) {
	uc := usecase.NewProductUsecase(nil, h.products, h.orders)
	p, err := uc.GetProductByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, productdom.ErrNotFound) {
			notFound(w)
			return
		}
		log.Printf("[product_handler] get id=%d failed: %v", id, err)
		writeErr(w, http.StatusInternalServerError, "could not fetch product")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ProductHandler) handleDelete(w http.ResponseWriter, r *http.Request, id int64) {
	uc := usecase.NewProductUsecase(nil, h.products, h.orders).
		BindSession("", h.carts)
	if err := uc.DeleteProduct(r.Context(), id); err != nil {
		log.Printf("[product_handler] delete id=%d failed: %v", id, err)
		writeErr(w, http.StatusInternalServerError, "could not delete product")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type fieldErrorRes struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (h *ProductHandler) localizeFieldErrors(fieldErrs []dto.FieldError) []fieldErrorRes {
	out := make([]fieldErrorRes, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msg := fe.Code
		if h.localizer != nil {
			msg = h.localizer.Localize(fe.Code)
		}
		out = append(out, fieldErrorRes{Field: fe.Field, Code: fe.Code, Message: msg})
	}
	return out
}
