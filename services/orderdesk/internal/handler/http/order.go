package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	apperrors "github.com/pr-poehali-dev/product-catalog-table/pkg/errors"
	"github.com/pr-poehali-dev/product-catalog-table/pkg/httputil"
	"github.com/pr-poehali-dev/product-catalog-table/pkg/logger"
	"github.com/pr-poehali-dev/product-catalog-table/pkg/middleware"
	"github.com/pr-poehali-dev/product-catalog-table/pkg/pagination"
	"github.com/pr-poehali-dev/product-catalog-table/services/orderdesk/internal/domain"
	"github.com/pr-poehali-dev/product-catalog-table/services/orderdesk/internal/service"
)

// MessageOrderSent acknowledges an accepted order.
const MessageOrderSent = "Order sent successfully"

// Orders is the behavior the handler needs from the order service.
type Orders interface {
	PlaceOrder(ctx context.Context, req *domain.OrderRequest) (*service.Receipt, error)
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
	ListOrders(ctx context.Context, params pagination.Params) (pagination.Result[domain.Order], error)
}

// OrderHandler serves the order desk endpoints. Errors are written as a flat
// {"error": "..."} object.
type OrderHandler struct {
	orders Orders
	logger *slog.Logger
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orders Orders, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{orders: orders, logger: logger}
}

type createOrderResponse struct {
	Message string `json:"message"`
	OrderID string `json:"orderId"`
}

// CreateOrder handles POST /api/v1/orders.
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req domain.OrderRequest
	if err := decodeOrder(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	receipt, err := h.orders.PlaceOrder(r.Context(), &req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, createOrderResponse{
		Message: MessageOrderSent,
		OrderID: receipt.Number,
	})
}

// GetOrder handles GET /api/v1/admin/orders/{id}.
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		h.writeError(w, r, apperrors.NotFound("order", id))
		return
	}

	order, err := h.orders.GetOrder(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, order)
}

// ListOrders handles GET /api/v1/admin/orders.
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	result, err := h.orders.ListOrders(r.Context(), pagination.FromRequest(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

// decodeOrder reads a size-limited JSON body. An empty body decodes as an
// empty order, which then fails the required-field check.
func decodeOrder(w http.ResponseWriter, r *http.Request, dst *domain.OrderRequest) error {
	r.Body = http.MaxBytesReader(w, r.Body, httputil.MaxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return apperrors.InvalidInput(fmt.Sprintf("invalid request body: %v", err))
	}
	return nil
}

func (h *OrderHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperrors.HTTPStatus(err)
	message := err.Error()

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		message = appErr.Message
	}

	if status >= http.StatusInternalServerError {
		logger.WithContext(r.Context(), h.logger).ErrorContext(r.Context(), "order request failed",
			slog.String("error", err.Error()),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)
	}
	middleware.FlatError(w, r, status, "", message)
}
