// Package notify delivers shopper-facing notifications (toasts).
package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/pr-poehali-dev/product-catalog-table/services/storefront/internal/domain"
)

// Sink accepts notifications. Delivery is fire-and-forget.
type Sink interface {
	Notify(ctx context.Context, n domain.Notification)
}

// Func adapts a function to Sink.
type Func func(ctx context.Context, n domain.Notification)

// Notify calls f.
func (f Func) Notify(ctx context.Context, n domain.Notification) { f(ctx, n) }

// Multi fans a notification out to every sink in order.
type Multi []Sink

// Notify delivers n to each sink.
func (m Multi) Notify(ctx context.Context, n domain.Notification) {
	for _, s := range m {
		s.Notify(ctx, n)
	}
}

// LogSink writes notifications to a structured logger.
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink creates a sink that logs at info level, or warn for errors.
func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

// Notify logs n.
func (s *LogSink) Notify(ctx context.Context, n domain.Notification) {
	level := slog.LevelInfo
	if n.Kind == domain.NotificationError {
		level = slog.LevelWarn
	}
	s.logger.LogAttrs(ctx, level, "notification",
		slog.String("kind", string(n.Kind)),
		slog.String("title", n.Title),
		slog.String("description", n.Description),
	)
}

// DefaultQueueSize bounds a session's pending notifications.
const DefaultQueueSize = 32

// Queue buffers notifications until the UI drains them. When full, the
// oldest notification is dropped.
type Queue struct {
	mu    sync.Mutex
	items []domain.Notification
	size  int
	now   func() time.Time
}

var _ Sink = (*Queue)(nil)

// NewQueue creates a queue holding at most size notifications.
func NewQueue(size int) *Queue {
	if size <= 0 {
		size = DefaultQueueSize
	}
	return &Queue{size: size, now: time.Now}
}

// Notify appends n, stamping CreatedAt when unset.
func (q *Queue) Notify(_ context.Context, n domain.Notification) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if n.CreatedAt.IsZero() {
		n.CreatedAt = q.now().UTC()
	}
	if len(q.items) == q.size {
		q.items = q.items[1:]
	}
	q.items = append(q.items, n)
}

// Drain returns the pending notifications oldest first and empties the queue.
func (q *Queue) Drain() []domain.Notification {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := q.items
	q.items = nil
	if out == nil {
		out = []domain.Notification{}
	}
	return out
}

// Len reports the number of pending notifications.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
