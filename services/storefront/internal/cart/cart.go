// Package cart holds a shopper's in-memory cart.
package cart

import (
	"context"

	"github.com/pr-poehali-dev/product-catalog-table/services/storefront/internal/domain"
	"github.com/pr-poehali-dev/product-catalog-table/services/storefront/internal/notify"
)

// Notification texts shown to the shopper.
const (
	addedTitle   = "Товар добавлен"
	removedTitle = "Товар удалён"
	removedDesc  = "Товар удалён из корзины"
)

// Store is one session's cart. Line items keep first-add order and there is
// at most one line per product id.
//
// Store is not safe for concurrent use; callers serialize access.
type Store struct {
	items []domain.LineItem
	sink  notify.Sink
}

// New creates an empty cart that reports changes to sink. A nil sink
// discards notifications.
func New(sink notify.Sink) *Store {
	if sink == nil {
		sink = notify.Multi(nil)
	}
	return &Store{sink: sink}
}

// AddItem adds one unit of p. An existing line is incremented; otherwise a
// new line snapshots p's id, name, price and image with quantity 1.
func (s *Store) AddItem(ctx context.Context, p domain.Product) {
	if i := s.index(p.ID); i >= 0 {
		s.items[i].Quantity++
	} else {
		s.items = append(s.items, domain.LineItem{
			ID:       p.ID,
			Name:     p.Name,
			Price:    p.Price,
			Image:    p.Image,
			Quantity: 1,
		})
	}
	mutations.WithLabelValues("add").Inc()
	s.sink.Notify(ctx, domain.Info(addedTitle, p.Name+" добавлен в корзину"))
}

// UpdateQuantity sets the quantity of line id, clamped to at least 1.
// It reports whether the line exists; a missing id is a no-op.
func (s *Store) UpdateQuantity(id, quantity int) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.items[i].Quantity = max(1, quantity)
	mutations.WithLabelValues("update").Inc()
	return true
}

// RemoveItem deletes line id and reports whether it was present.
// The shopper is notified only when a line was actually removed.
func (s *Store) RemoveItem(ctx context.Context, id int) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	mutations.WithLabelValues("remove").Inc()
	s.sink.Notify(ctx, domain.Info(removedTitle, removedDesc))
	return true
}

// Clear empties the cart.
func (s *Store) Clear() {
	s.items = nil
	mutations.WithLabelValues("clear").Inc()
}

// Items returns a copy of the line items in first-add order.
func (s *Store) Items() []domain.LineItem {
	out := make([]domain.LineItem, len(s.items))
	copy(out, s.items)
	return out
}

// Len returns the number of distinct lines.
func (s *Store) Len() int { return len(s.items) }

// IsEmpty reports whether the cart has no lines.
func (s *Store) IsEmpty() bool { return len(s.items) == 0 }

// TotalItems sums quantities.
func (s *Store) TotalItems() int { return domain.TotalItems(s.items) }

// TotalAmount sums price times quantity over all lines.
func (s *Store) TotalAmount() int64 { return domain.TotalAmount(s.items) }

func (s *Store) index(id int) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}
