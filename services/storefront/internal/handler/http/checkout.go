package http

import (
	"log/slog"
	"net/http"

	"github.com/pr-poehali-dev/product-catalog-table/pkg/httputil"
	"github.com/pr-poehali-dev/product-catalog-table/pkg/logger"
	"github.com/pr-poehali-dev/product-catalog-table/pkg/middleware"
	"github.com/pr-poehali-dev/product-catalog-table/services/storefront/internal/checkout"
	"github.com/pr-poehali-dev/product-catalog-table/services/storefront/internal/domain"
	"github.com/pr-poehali-dev/product-catalog-table/services/storefront/internal/session"
)

// CheckoutHandler serves the checkout form, order submission and the
// shopper's notifications.
type CheckoutHandler struct {
	sessions *session.Registry
	logger   *slog.Logger
}

// NewCheckoutHandler creates a new checkout HTTP handler.
func NewCheckoutHandler(sessions *session.Registry, logger *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{sessions: sessions, logger: logger}
}

type sessionResponse struct {
	SessionID string `json:"session_id"`
}

// CreateSession handles POST /api/v1/sessions
func (h *CheckoutHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	s, err := h.sessions.Create()
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	w.Header().Set(middleware.SessionHeader, s.ID())
	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: sessionResponse{SessionID: s.ID()}})
}

// GetCustomer handles GET /api/v1/checkout/customer
func (h *CheckoutHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	s := sessionFromContext(r.Context())
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: s.Customer()})
}

// PutCustomer handles PUT /api/v1/checkout/customer. The form is stored as
// entered; it is validated on submit.
func (h *CheckoutHandler) PutCustomer(w http.ResponseWriter, r *http.Request) {
	var info domain.CustomerInfo
	if err := httputil.DecodeJSON(w, r, &info); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	s := sessionFromContext(r.Context())
	s.SetCustomer(info)
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: info})
}

// Submit handles POST /api/v1/checkout/submit
func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	s := sessionFromContext(r.Context())
	out, err := s.Submit(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	if out.Succeeded() {
		httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: out})
		return
	}

	status, code, message := failureResponse(out)
	resp := httputil.Response{
		Data: out,
		Error: &httputil.ErrorResponse{
			Code:      code,
			Message:   message,
			RequestID: logger.CorrelationIDFromContext(r.Context()),
		},
	}
	httputil.WriteJSON(w, status, resp)
}

func failureResponse(out checkout.Outcome) (int, string, string) {
	switch out.Reason {
	case checkout.ReasonValidationFailed:
		return http.StatusUnprocessableEntity, "VALIDATION_FAILED", checkout.MessageFormInvalid
	case checkout.ReasonSubmissionTimedOut:
		return http.StatusGatewayTimeout, "SUBMISSION_TIMED_OUT", checkout.MessageSendFailed
	default:
		return http.StatusBadGateway, "SUBMISSION_REJECTED", checkout.MessageSendFailed
	}
}

// Status handles GET /api/v1/checkout/status
func (h *CheckoutHandler) Status(w http.ResponseWriter, r *http.Request) {
	s := sessionFromContext(r.Context())
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: s.Status()})
}

// Notifications handles GET /api/v1/notifications and drains the queue.
func (h *CheckoutHandler) Notifications(w http.ResponseWriter, r *http.Request) {
	s := sessionFromContext(r.Context())
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: s.Notifications()})
}
