package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	apperrors "github.com/pr-poehali-dev/product-catalog-table/pkg/errors"
	"github.com/pr-poehali-dev/product-catalog-table/pkg/pagination"
	"github.com/pr-poehali-dev/product-catalog-table/pkg/tracing"
	"github.com/pr-poehali-dev/product-catalog-table/pkg/validator"
	"github.com/pr-poehali-dev/product-catalog-table/services/orderdesk/internal/dedup"
	"github.com/pr-poehali-dev/product-catalog-table/services/orderdesk/internal/domain"
	"github.com/pr-poehali-dev/product-catalog-table/services/orderdesk/internal/event"
	"github.com/pr-poehali-dev/product-catalog-table/services/orderdesk/internal/mailer"
	"github.com/pr-poehali-dev/product-catalog-table/services/orderdesk/internal/repository"
)

// MessageMissingFields is returned when a customer contact field is empty.
const MessageMissingFields = "Missing required fields"

// ErrMissingFields rejects orders without name, e-mail or phone.
var ErrMissingFields = apperrors.InvalidInput(MessageMissingFields)

// MessageInProgress answers a duplicate of an order that is still being processed.
const MessageInProgress = "order is being processed"

// ErrOrderInProgress rejects a duplicate submission while the first one is
// unfinished, so the client never sees success before the order is accepted.
var ErrOrderInProgress = apperrors.Conflict(MessageInProgress)

// Options configures an OrderService.
type Options struct {
	// AdminEmail receives order notifications.
	AdminEmail string
	// Sender is the From address of notifications.
	Sender string
	// Location is the time zone of order numbers and e-mail timestamps.
	Location *time.Location
	// ReplayWindow is how long an identical submission maps to the first
	// order. Zero disables the guard.
	ReplayWindow time.Duration
	// MailTimeout bounds one delivery attempt. Zero means no bound.
	MailTimeout time.Duration
}

// Receipt is what the desk answers for an accepted order.
type Receipt struct {
	OrderID string
	Number  string
	// Replayed is set when the submission repeated an order already accepted
	// within the replay window.
	Replayed bool
}

// OrderService receives orders from the storefront.
type OrderService struct {
	repo   repository.OrderRepository
	guard  dedup.Guard
	mailer mailer.Mailer
	events *event.Producer
	opts   Options
	now    func() time.Time
	logger *slog.Logger
}

// NewOrderService creates an OrderService. A nil Location means UTC.
func NewOrderService(
	repo repository.OrderRepository,
	guard dedup.Guard,
	m mailer.Mailer,
	events *event.Producer,
	opts Options,
	logger *slog.Logger,
) *OrderService {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &OrderService{
		repo:   repo,
		guard:  guard,
		mailer: m,
		events: events,
		opts:   opts,
		now:    time.Now,
		logger: logger,
	}
}

// PlaceOrder validates req, records the order, notifies the administrator
// and publishes an order.received event. Publishing failures are logged only.
func (s *OrderService) PlaceOrder(ctx context.Context, req *domain.OrderRequest) (_ *Receipt, err error) {
	if err := validator.Validate(req); err != nil {
		ordersTotal.WithLabelValues(resultInvalid).Inc()
		return nil, ErrMissingFields
	}

	order := domain.NewOrder(*req, s.now().In(s.opts.Location))

	ctx, span := tracing.StartSpan(ctx, "orderdesk", "PlaceOrder",
		attribute.String("order.number", order.Number),
		attribute.Int("order.items", len(order.Items)),
	)
	defer func() { tracing.EndSpan(span, err) }()

	claimed := false
	if s.opts.ReplayWindow > 0 {
		existing, ok, err := s.guard.Claim(ctx, order.Fingerprint, s.opts.ReplayWindow)
		switch {
		case errors.Is(err, dedup.ErrInProgress):
			ordersTotal.WithLabelValues(resultInProgress).Inc()
			s.logger.InfoContext(ctx, "duplicate of an order still in progress")
			return nil, ErrOrderInProgress
		case err != nil:
			s.logger.WarnContext(ctx, "replay guard unavailable, processing order",
				slog.String("error", err.Error()),
			)
		case !ok:
			ordersTotal.WithLabelValues(resultReplayed).Inc()
			s.logger.InfoContext(ctx, "replayed order submission",
				slog.String("order_number", existing),
			)
			return &Receipt{Number: existing, Replayed: true}, nil
		default:
			claimed = true
		}
	}

	receipt, err := s.accept(ctx, order)
	if err != nil {
		ordersTotal.WithLabelValues(resultFailed).Inc()
		if claimed {
			if rerr := s.guard.Release(context.WithoutCancel(ctx), order.Fingerprint); rerr != nil {
				s.logger.WarnContext(ctx, "failed to release order fingerprint",
					slog.String("error", rerr.Error()),
				)
			}
		}
		return nil, err
	}

	if claimed {
		if cerr := s.guard.Confirm(context.WithoutCancel(ctx), order.Fingerprint, receipt.Number); cerr != nil {
			s.logger.WarnContext(ctx, "failed to confirm order fingerprint",
				slog.String("error", cerr.Error()),
			)
		}
	}

	ordersTotal.WithLabelValues(resultAccepted).Inc()
	return receipt, nil
}

func (s *OrderService) accept(ctx context.Context, order *domain.Order) (*Receipt, error) {
	if err := s.repo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("record order: %w", err)
	}

	sendErr := s.notify(ctx, order)
	if err := s.repo.UpdateEmailStatus(ctx, order.ID, order.EmailStatus); err != nil {
		s.logger.ErrorContext(ctx, "failed to record e-mail status",
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()),
		)
	}
	if sendErr != nil {
		return nil, sendErr
	}

	if err := s.events.PublishOrderReceived(ctx, order); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.received event",
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "order received",
		slog.String("order_id", order.ID),
		slog.String("order_number", order.Number),
		slog.Int64("total_amount", order.TotalAmount),
		slog.String("email_status", string(order.EmailStatus)),
	)
	return &Receipt{OrderID: order.ID, Number: order.Number}, nil
}

// notify sends the admin e-mail and sets order.EmailStatus.
func (s *OrderService) notify(ctx context.Context, order *domain.Order) error {
	transport := s.mailer.Transport()

	msg, err := mailer.RenderOrder(order, s.opts.Sender, s.opts.AdminEmail)
	if err != nil {
		order.EmailStatus = domain.EmailFailed
		emailsTotal.WithLabelValues(transport, string(order.EmailStatus)).Inc()
		return err
	}

	// A client that hangs up mid-delivery does not abort the e-mail of an
	// order that is already recorded.
	sendCtx := context.WithoutCancel(ctx)
	if s.opts.MailTimeout > 0 {
		var cancel context.CancelFunc
		sendCtx, cancel = context.WithTimeout(sendCtx, s.opts.MailTimeout)
		defer cancel()
	}

	if err := s.mailer.Send(sendCtx, msg); err != nil {
		order.EmailStatus = domain.EmailFailed
		emailsTotal.WithLabelValues(transport, string(order.EmailStatus)).Inc()
		return fmt.Errorf("send order e-mail: %w", err)
	}

	order.EmailStatus = domain.EmailSent
	if transport == mailer.TransportLog {
		order.EmailStatus = domain.EmailLogged
	}
	emailsTotal.WithLabelValues(transport, string(order.EmailStatus)).Inc()
	return nil
}

// GetOrder returns one recorded order.
func (s *OrderService) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	return s.repo.GetByID(ctx, id)
}

// ListOrders returns a page of recorded orders, newest first.
func (s *OrderService) ListOrders(ctx context.Context, params pagination.Params) (pagination.Result[domain.Order], error) {
	orders, total, err := s.repo.List(ctx, params.Offset, params.PerPage)
	if err != nil {
		return pagination.Result[domain.Order]{}, fmt.Errorf("list orders: %w", err)
	}
	return pagination.NewResult(orders, total, params), nil
}
