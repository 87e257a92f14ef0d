package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/pr-poehali-dev/product-catalog-table/pkg/httpclient"
	"github.com/pr-poehali-dev/product-catalog-table/pkg/logger"
	"github.com/pr-poehali-dev/product-catalog-table/pkg/tracing"
	"github.com/pr-poehali-dev/product-catalog-table/services/storefront/internal/domain"
)

// DefaultDiagnostic is used when a rejected response carries no "error" text.
const DefaultDiagnostic = "Ошибка отправки"

const maxAcceptedBody = 64 << 10

// Doer sends one HTTP request. *httpclient.Client and
// *httpclient.CircuitBreakerClient both satisfy it.
type Doer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// Submitter posts orders to the order desk. It performs exactly one request
// per Submit and never retries.
type Submitter struct {
	client   Doer
	endpoint string
	timeout  time.Duration
	logger   *slog.Logger
	state    atomicState
}

// NewSubmitter creates a submitter for endpoint. A positive timeout bounds
// each submission; zero leaves it to ctx.
func NewSubmitter(client Doer, endpoint string, timeout time.Duration, logger *slog.Logger) *Submitter {
	return &Submitter{
		client:   client,
		endpoint: endpoint,
		timeout:  timeout,
		logger:   logger,
	}
}

// State returns the current state. Safe for concurrent use.
func (s *Submitter) State() State {
	return s.state.Load()
}

// Reset acknowledges a terminal outcome and returns to StateIdle.
// It has no effect while a submission is in progress.
func (s *Submitter) Reset() {
	if !s.state.CompareAndSwap(StateSucceeded, StateIdle) {
		s.state.CompareAndSwap(StateFailed, StateIdle)
	}
}

// Submit validates info and, when valid, posts the order built from items.
// Invalid input fails without any network call. Callers apply the effects
// of the outcome to the cart and the form.
func (s *Submitter) Submit(ctx context.Context, items []domain.LineItem, info domain.CustomerInfo) Outcome {
	l := logger.WithContext(ctx, s.logger)

	if v := Validate(info); !v.Valid {
		l.InfoContext(ctx, "checkout form rejected", slog.Any("fields", v.Fields))
		return s.finish(Outcome{State: StateFailed, Reason: ReasonValidationFailed, Fields: v.Fields})
	}

	s.state.Store(StateSubmitting)
	order := domain.NewOrderRequest(items, info)

	ctx, span := tracing.StartSpan(ctx, "storefront/checkout", "checkout.submit",
		attribute.Int("order.items", len(order.Items)),
		attribute.Int64("order.total_amount", order.TotalAmount),
	)
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	out := s.post(ctx, order)
	submissionDuration.Observe(time.Since(start).Seconds())
	tracing.EndSpan(span, out.Err)

	attrs := []slog.Attr{
		slog.String("state", out.State.String()),
		slog.Int("items", len(order.Items)),
		slog.Int64("total_amount", order.TotalAmount),
		slog.Duration("duration", time.Since(start)),
	}
	if out.Succeeded() {
		l.LogAttrs(ctx, slog.LevelInfo, "order submitted", append(attrs, slog.String("order_id", out.OrderID))...)
	} else {
		attrs = append(attrs,
			slog.String("reason", string(out.Reason)),
			slog.Int("status_code", out.StatusCode),
			slog.String("message", out.Message),
		)
		if out.Err != nil {
			attrs = append(attrs, slog.String("error", out.Err.Error()))
		}
		l.LogAttrs(ctx, slog.LevelWarn, "order submission failed", attrs...)
	}

	return s.finish(out)
}

func (s *Submitter) finish(o Outcome) Outcome {
	s.state.Store(o.State)
	observe(o)
	return o
}

func (s *Submitter) post(ctx context.Context, order domain.OrderRequest) Outcome {
	body, err := json.Marshal(order)
	if err != nil {
		return rejected(0, DefaultDiagnostic, fmt.Errorf("marshal order: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return rejected(0, DefaultDiagnostic, fmt.Errorf("create order request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	if id := logger.CorrelationIDFromContext(ctx); id != "" {
		req.Header.Set("X-Correlation-ID", id)
	}

	resp, err := s.client.Do(ctx, req)
	if err != nil {
		return classify(ctx, err)
	}

	if !httpclient.IsSuccess(resp.StatusCode) {
		se := httpclient.ParseStatusError(resp, DefaultDiagnostic)
		if httpclient.IsClientError(se.StatusCode) {
			logger.WithContext(ctx, s.logger).WarnContext(ctx, "order desk refused the order",
				slog.Int("status_code", se.StatusCode),
				slog.String("message", se.Message),
			)
		}
		return rejected(se.StatusCode, se.Message, se)
	}

	defer func() { _ = resp.Body.Close() }()
	out := Outcome{State: StateSucceeded, StatusCode: resp.StatusCode}

	var accepted struct {
		OrderID string `json:"orderId"`
	}
	if raw, err := io.ReadAll(io.LimitReader(resp.Body, maxAcceptedBody)); err == nil {
		if json.Unmarshal(raw, &accepted) == nil {
			out.OrderID = accepted.OrderID
		}
	}
	return out
}

// classify maps a failed round trip onto an outcome.
func classify(ctx context.Context, err error) Outcome {
	if isTimeout(ctx, err) {
		return Outcome{State: StateFailed, Reason: ReasonSubmissionTimedOut, Message: DefaultDiagnostic, Err: err}
	}
	var se *httpclient.StatusError
	if errors.As(err, &se) {
		return rejected(se.StatusCode, httpclient.ErrorMessage(se.Body, DefaultDiagnostic), err)
	}
	return rejected(0, DefaultDiagnostic, err)
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func rejected(status int, message string, err error) Outcome {
	return Outcome{
		State:      StateFailed,
		Reason:     ReasonSubmissionRejected,
		StatusCode: status,
		Message:    message,
		Err:        err,
	}
}
