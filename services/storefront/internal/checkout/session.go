package checkout

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	apperrors "github.com/pr-poehali-dev/product-catalog-table/pkg/errors"
	"github.com/pr-poehali-dev/product-catalog-table/services/storefront/internal/cart"
	"github.com/pr-poehali-dev/product-catalog-table/services/storefront/internal/domain"
	"github.com/pr-poehali-dev/product-catalog-table/services/storefront/internal/notify"
)

// Shopper-facing checkout messages.
const (
	titleSent  = "Заказ отправлен!"
	descSent   = "Мы свяжемся с вами в ближайшее время"
	titleError = "Ошибка"

	MessageFormInvalid = "Заполните все обязательные поля"
	MessageSendFailed  = "Не удалось отправить заказ. Попробуйте позже."
)

var (
	// ErrCartEmpty is returned by Submit when there is nothing to order.
	ErrCartEmpty = &apperrors.AppError{
		Code:    "CART_EMPTY",
		Message: "cart is empty",
		Status:  http.StatusBadRequest,
		Err:     apperrors.ErrInvalidInput,
	}
	// ErrSubmissionInFlight is returned by Submit while another submission
	// for the same session is still running.
	ErrSubmissionInFlight = &apperrors.AppError{
		Code:    "SUBMISSION_IN_FLIGHT",
		Message: "order submission already in progress",
		Status:  http.StatusConflict,
		Err:     apperrors.ErrConflict,
	}
)

// CartSnapshot is a consistent read of the cart with its derived totals.
type CartSnapshot struct {
	Items       []domain.LineItem
	TotalItems  int
	TotalAmount int64
}

// Status describes the session's checkout progress.
type Status struct {
	State State    `json:"state"`
	Last  *Outcome `json:"last_outcome,omitempty"`
}

// Session is one shopper's cart, checkout form and submitter. All methods
// are safe for concurrent use; the network call runs without holding the lock.
type Session struct {
	id     string
	logger *slog.Logger

	mu        sync.Mutex
	cart      *cart.Store
	customer  domain.CustomerInfo
	inFlight  bool
	last      *Outcome
	submitter *Submitter
	toasts    *notify.Queue
	sink      notify.Sink
}

// NewSession creates an empty session. Notifications go to the session's own
// queue and to every extra sink.
func NewSession(id string, submitter *Submitter, logger *slog.Logger, extra ...notify.Sink) *Session {
	toasts := notify.NewQueue(notify.DefaultQueueSize)
	sink := append(notify.Multi{toasts}, extra...)
	return &Session{
		id:        id,
		logger:    logger.With(slog.String("session_id", id)),
		cart:      cart.New(sink),
		submitter: submitter,
		toasts:    toasts,
		sink:      sink,
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// AddItem adds one unit of p to the cart.
func (s *Session) AddItem(ctx context.Context, p domain.Product) CartSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.AddItem(ctx, p)
	return s.snapshot()
}

// UpdateQuantity sets a line's quantity, clamped to at least 1. The bool
// reports whether the line exists.
func (s *Session) UpdateQuantity(id, quantity int) (CartSnapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ok := s.cart.UpdateQuantity(id, quantity)
	return s.snapshot(), ok
}

// RemoveItem deletes a line if present.
func (s *Session) RemoveItem(ctx context.Context, id int) CartSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.RemoveItem(ctx, id)
	return s.snapshot()
}

// ClearCart empties the cart.
func (s *Session) ClearCart() CartSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.Clear()
	return s.snapshot()
}

// Cart returns the current cart.
func (s *Session) Cart() CartSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

func (s *Session) snapshot() CartSnapshot {
	return CartSnapshot{
		Items:       s.cart.Items(),
		TotalItems:  s.cart.TotalItems(),
		TotalAmount: s.cart.TotalAmount(),
	}
}

// Customer returns the checkout form contents.
func (s *Session) Customer() domain.CustomerInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.customer
}

// SetCustomer replaces the checkout form contents.
func (s *Session) SetCustomer(info domain.CustomerInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.customer = info
}

// Status reports the submitter state and the last outcome, if any.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := Status{State: s.submitter.State()}
	if s.last != nil {
		last := *s.last
		st.Last = &last
	}
	return st
}

// Notifications drains the pending toasts.
func (s *Session) Notifications() []domain.Notification {
	return s.toasts.Drain()
}

// Submit sends the cart and form to the order desk. It refuses to run on an
// empty cart or while another submission is in flight. On success the cart
// and the form are cleared; on failure both are left as they were.
//
// The submission is not canceled when ctx is; only the submitter's own
// timeout bounds it.
func (s *Session) Submit(ctx context.Context) (Outcome, error) {
	s.mu.Lock()
	if s.cart.IsEmpty() {
		s.mu.Unlock()
		return Outcome{}, ErrCartEmpty
	}
	if s.inFlight {
		s.mu.Unlock()
		return Outcome{}, ErrSubmissionInFlight
	}
	items := s.cart.Items()
	info := s.customer
	s.inFlight = true
	s.mu.Unlock()

	out := s.submitter.Submit(context.WithoutCancel(ctx), items, info)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight = false
	s.last = &out

	switch out.Reason {
	case ReasonNone:
		s.cart.Clear()
		s.customer = domain.CustomerInfo{}
		s.sink.Notify(ctx, domain.Info(titleSent, descSent))
	case ReasonValidationFailed:
		s.sink.Notify(ctx, domain.Error(titleError, MessageFormInvalid))
	default:
		s.sink.Notify(ctx, domain.Error(titleError, MessageSendFailed))
	}
	s.submitter.Reset()

	attrs := []any{
		slog.String("state", out.State.String()),
		slog.String("reason", string(out.Reason)),
	}
	if !out.Succeeded() {
		attrs = append(attrs,
			slog.Int("status_code", out.StatusCode),
			slog.String("message", out.Message),
			slog.Any("fields", out.Fields),
		)
		if out.Err != nil {
			attrs = append(attrs, slog.String("error", out.Err.Error()))
		}
	}
	s.logger.InfoContext(ctx, "checkout finished", attrs...)
	return out, nil
}
