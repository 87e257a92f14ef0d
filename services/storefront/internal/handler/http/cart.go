package http

import (
	"log/slog"
	"net/http"

	"github.com/pr-poehali-dev/product-catalog-table/pkg/httputil"
	"github.com/pr-poehali-dev/product-catalog-table/pkg/validator"
	"github.com/pr-poehali-dev/product-catalog-table/services/storefront/internal/catalog"
)

// CartHandler handles HTTP requests for cart endpoints.
type CartHandler struct {
	catalog catalog.Provider
	logger  *slog.Logger
}

// NewCartHandler creates a new cart HTTP handler.
func NewCartHandler(provider catalog.Provider, logger *slog.Logger) *CartHandler {
	return &CartHandler{catalog: provider, logger: logger}
}

// AddItemRequest is the JSON request body for adding a product to the cart.
type AddItemRequest struct {
	ProductID int `json:"product_id" validate:"required,gt=0"`
}

// UpdateQuantityRequest is the JSON request body for changing a line's
// quantity. Values below 1 are stored as 1.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// GetCart handles GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	s := sessionFromContext(r.Context())
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: newCartView(s.Cart())})
}

// AddItem handles POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	p, err := h.catalog.Product(r.Context(), req.ProductID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	s := sessionFromContext(r.Context())
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: newCartView(s.AddItem(r.Context(), p))})
}

// UpdateItemQuantity handles PUT /api/v1/cart/items/{id}. Unknown ids leave
// the cart unchanged.
func (h *CartHandler) UpdateItemQuantity(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	var req UpdateQuantityRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	snap, _ := sessionFromContext(r.Context()).UpdateQuantity(id, req.Quantity)
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: newCartView(snap)})
}

// RemoveItem handles DELETE /api/v1/cart/items/{id}. Unknown ids leave the
// cart unchanged.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	s := sessionFromContext(r.Context())
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: newCartView(s.RemoveItem(r.Context(), id))})
}

// ClearCart handles DELETE /api/v1/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	s := sessionFromContext(r.Context())
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: newCartView(s.ClearCart())})
}
