package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// NumberLayout is the timestamp layout of customer-facing order numbers.
const NumberLayout = "20060102-150405"

// EmailStatus tracks what happened to the admin notification of an order.
type EmailStatus string

const (
	EmailPending EmailStatus = "pending"
	EmailSent    EmailStatus = "sent"
	EmailLogged  EmailStatus = "logged"
	EmailFailed  EmailStatus = "failed"
)

// OrderItem is one line of a submitted order. Total is taken as sent.
type OrderItem struct {
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Quantity int    `json:"quantity"`
	Total    int64  `json:"total"`
}

// OrderRequest is the body the storefront posts to the order desk.
type OrderRequest struct {
	CustomerName  string      `json:"customerName" validate:"required"`
	CustomerEmail string      `json:"customerEmail" validate:"required"`
	CustomerPhone string      `json:"customerPhone" validate:"required"`
	Comment       string      `json:"comment"`
	Items         []OrderItem `json:"items"`
	TotalAmount   int64       `json:"totalAmount"`
}

// Fingerprint identifies identical submissions. Two requests with the same
// customer, items and totals share a fingerprint.
func (r OrderRequest) Fingerprint() string {
	if r.Items == nil {
		r.Items = []OrderItem{}
	}
	data, _ := json.Marshal(r)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Order is a received order as recorded by the desk.
type Order struct {
	ID            string      `json:"id"`
	Number        string      `json:"number"`
	CustomerName  string      `json:"customer_name"`
	CustomerEmail string      `json:"customer_email"`
	CustomerPhone string      `json:"customer_phone"`
	Comment       string      `json:"comment,omitempty"`
	Items         []OrderItem `json:"items,omitempty"`
	TotalAmount   int64       `json:"total_amount"`
	Fingerprint   string      `json:"-"`
	EmailStatus   EmailStatus `json:"email_status"`
	ReceivedAt    time.Time   `json:"received_at"`
}

// OrderNumber formats the customer-facing number for an order received at t.
func OrderNumber(t time.Time) string {
	return "ORD-" + t.Format(NumberLayout)
}

// NewOrder builds a pending order from req. Numbers are second-granular and
// may repeat; ID is the unique key.
func NewOrder(req OrderRequest, receivedAt time.Time) *Order {
	items := make([]OrderItem, len(req.Items))
	copy(items, req.Items)

	return &Order{
		ID:            uuid.New().String(),
		Number:        OrderNumber(receivedAt),
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
		Comment:       req.Comment,
		Items:         items,
		TotalAmount:   req.TotalAmount,
		Fingerprint:   req.Fingerprint(),
		EmailStatus:   EmailPending,
		ReceivedAt:    receivedAt,
	}
}
