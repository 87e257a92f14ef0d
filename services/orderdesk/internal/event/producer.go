package event

import (
	"context"
	"fmt"
	"log/slog"

	pkgkafka "github.com/pr-poehali-dev/product-catalog-table/pkg/kafka"
	"github.com/pr-poehali-dev/product-catalog-table/services/orderdesk/internal/domain"
)

// TopicOrderReceived carries one event per accepted order.
const TopicOrderReceived = "souvenirs.order.received"

const (
	EventTypeOrderReceived = "order.received"
	AggregateTypeOrder     = "order"
	SourceOrderDesk        = "orderdesk"
)

// OrderReceivedData is the payload of an order.received event.
type OrderReceivedData struct {
	ID            string             `json:"id"`
	Number        string             `json:"number"`
	CustomerName  string             `json:"customer_name"`
	CustomerEmail string             `json:"customer_email"`
	CustomerPhone string             `json:"customer_phone"`
	Comment       string             `json:"comment,omitempty"`
	Items         []domain.OrderItem `json:"items"`
	TotalAmount   int64              `json:"total_amount"`
	EmailStatus   string             `json:"email_status"`
}

// Producer publishes order desk events.
type Producer struct {
	publisher pkgkafka.Publisher
	logger    *slog.Logger
}

// NewProducer creates a new event producer.
func NewProducer(publisher pkgkafka.Publisher, logger *slog.Logger) *Producer {
	return &Producer{publisher: publisher, logger: logger}
}

// PublishOrderReceived publishes an order.received event for o.
func (p *Producer) PublishOrderReceived(ctx context.Context, o *domain.Order) error {
	items := o.Items
	if items == nil {
		items = []domain.OrderItem{}
	}

	evt, err := pkgkafka.NewEvent(ctx, EventTypeOrderReceived, o.ID, AggregateTypeOrder, SourceOrderDesk, OrderReceivedData{
		ID:            o.ID,
		Number:        o.Number,
		CustomerName:  o.CustomerName,
		CustomerEmail: o.CustomerEmail,
		CustomerPhone: o.CustomerPhone,
		Comment:       o.Comment,
		Items:         items,
		TotalAmount:   o.TotalAmount,
		EmailStatus:   string(o.EmailStatus),
	})
	if err != nil {
		return fmt.Errorf("create order.received event: %w", err)
	}
	evt.WithMetadata("order_number", o.Number)

	if err := p.publisher.Publish(ctx, TopicOrderReceived, evt); err != nil {
		return fmt.Errorf("publish order.received event: %w", err)
	}

	p.logger.DebugContext(ctx, "published order.received event",
		slog.String("order_id", o.ID),
		slog.String("event_id", evt.EventID),
	)
	return nil
}
