package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/pr-poehali-dev/product-catalog-table/pkg/errors"
	"github.com/pr-poehali-dev/product-catalog-table/pkg/httputil"
	"github.com/pr-poehali-dev/product-catalog-table/pkg/pagination"
	"github.com/pr-poehali-dev/product-catalog-table/services/storefront/internal/catalog"
)

// CatalogHandler serves the product catalog.
type CatalogHandler struct {
	catalog catalog.Provider
	logger  *slog.Logger
}

// NewCatalogHandler creates a new catalog HTTP handler.
func NewCatalogHandler(provider catalog.Provider, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: provider, logger: logger}
}

// ListProducts handles GET /api/v1/catalog/products?q=&category=&page=&per_page=
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	found := h.catalog.Search(r.Context(), catalog.Filter{
		Query:    q.Get("q"),
		Category: q.Get("category"),
	})

	views := make([]productView, 0, len(found))
	for _, p := range found {
		views = append(views, newProductView(p))
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: pagination.Slice(views, pagination.FromQuery(q)),
	})
}

// GetProduct handles GET /api/v1/catalog/products/{id}
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	p, err := h.catalog.Product(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: newProductView(p)})
}

// ListCategories handles GET /api/v1/catalog/categories
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: h.catalog.Categories(r.Context())})
}

// pathID parses the {id} URL parameter.
func pathID(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, apperrors.InvalidInput("id must be a positive integer")
	}
	return id, nil
}
