package repository

import (
	"context"

	"github.com/pr-poehali-dev/product-catalog-table/services/orderdesk/internal/domain"
)

// OrderRepository defines persistence for received orders.
type OrderRepository interface {
	// Create inserts an order and its items atomically.
	Create(ctx context.Context, order *domain.Order) error

	// UpdateEmailStatus records the outcome of the admin notification.
	UpdateEmailStatus(ctx context.Context, id string, status domain.EmailStatus) error

	// GetByID retrieves an order with its items.
	GetByID(ctx context.Context, id string) (*domain.Order, error)

	// List returns orders newest first without their items, plus the total count.
	List(ctx context.Context, offset, limit int) ([]domain.Order, int, error)
}
