package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/pr-poehali-dev/product-catalog-table/pkg/database"
	apperrors "github.com/pr-poehali-dev/product-catalog-table/pkg/errors"
	"github.com/pr-poehali-dev/product-catalog-table/services/orderdesk/internal/domain"
	"github.com/pr-poehali-dev/product-catalog-table/services/orderdesk/internal/repository"
)

// OrderRepository implements repository.OrderRepository using PostgreSQL.
type OrderRepository struct {
	pool database.DBTX
}

var _ repository.OrderRepository = (*OrderRepository)(nil)

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool database.DBTX) *OrderRepository {
	return &OrderRepository{pool: pool}
}

const insertOrderQuery = `
	INSERT INTO orders (id, number, customer_name, customer_email, customer_phone, comment, total_amount, fingerprint, email_status, received_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

const insertItemQuery = `
	INSERT INTO order_items (order_id, position, name, price, quantity, total)
	VALUES ($1, $2, $3, $4, $5, $6)`

// Create inserts o and its items within one transaction.
func (r *OrderRepository) Create(ctx context.Context, o *domain.Order) (err error) {
	ctx, done := database.TraceQuery(ctx, "insert", insertOrderQuery)
	defer func() { done(err) }()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, insertOrderQuery,
		o.ID,
		o.Number,
		o.CustomerName,
		o.CustomerEmail,
		o.CustomerPhone,
		o.Comment,
		o.TotalAmount,
		o.Fingerprint,
		string(o.EmailStatus),
		o.ReceivedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for i, item := range o.Items {
		_, err = tx.Exec(ctx, insertItemQuery,
			o.ID,
			i,
			item.Name,
			item.Price,
			item.Quantity,
			item.Total,
		)
		if err != nil {
			return fmt.Errorf("insert order item %d: %w", i, err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

const updateEmailStatusQuery = `UPDATE orders SET email_status = $2 WHERE id = $1`

// UpdateEmailStatus implements repository.OrderRepository.
func (r *OrderRepository) UpdateEmailStatus(ctx context.Context, id string, status domain.EmailStatus) (err error) {
	ctx, done := database.TraceQuery(ctx, "update", updateEmailStatusQuery)
	defer func() { done(err) }()

	tag, err := r.pool.Exec(ctx, updateEmailStatusQuery, id, string(status))
	if err != nil {
		return fmt.Errorf("update email status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("order", id)
	}
	return nil
}

const selectOrderQuery = `
	SELECT id, number, customer_name, customer_email, customer_phone, comment, total_amount, fingerprint, email_status, received_at
	FROM orders
	WHERE id = $1`

const selectItemsQuery = `
	SELECT name, price, quantity, total
	FROM order_items
	WHERE order_id = $1
	ORDER BY position`

// GetByID retrieves an order by id, loading its items in position order.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (_ *domain.Order, err error) {
	ctx, done := database.TraceQuery(ctx, "select", selectOrderQuery)
	defer func() { done(err) }()

	var (
		o      domain.Order
		status string
	)
	err = r.pool.QueryRow(ctx, selectOrderQuery, id).Scan(
		&o.ID,
		&o.Number,
		&o.CustomerName,
		&o.CustomerEmail,
		&o.CustomerPhone,
		&o.Comment,
		&o.TotalAmount,
		&o.Fingerprint,
		&status,
		&o.ReceivedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("order", id)
		}
		return nil, fmt.Errorf("scan order: %w", err)
	}
	o.EmailStatus = domain.EmailStatus(status)

	rows, err := r.pool.Query(ctx, selectItemsQuery, id)
	if err != nil {
		return nil, fmt.Errorf("load order items: %w", err)
	}
	defer rows.Close()

	o.Items = make([]domain.OrderItem, 0)
	for rows.Next() {
		var item domain.OrderItem
		if err = rows.Scan(&item.Name, &item.Price, &item.Quantity, &item.Total); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		o.Items = append(o.Items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order items: %w", err)
	}

	return &o, nil
}

const listOrdersQuery = `
	SELECT id, number, customer_name, customer_email, customer_phone, comment, total_amount, fingerprint, email_status, received_at,
		count(*) OVER() AS total_count
	FROM orders
	ORDER BY received_at DESC
	LIMIT $1 OFFSET $2`

// List implements repository.OrderRepository.
func (r *OrderRepository) List(ctx context.Context, offset, limit int) (_ []domain.Order, _ int, err error) {
	ctx, done := database.TraceQuery(ctx, "select", listOrdersQuery)
	defer func() { done(err) }()

	rows, err := r.pool.Query(ctx, listOrdersQuery, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var totalCount int
	orders := make([]domain.Order, 0)
	for rows.Next() {
		var (
			o      domain.Order
			status string
		)
		if err = rows.Scan(
			&o.ID,
			&o.Number,
			&o.CustomerName,
			&o.CustomerEmail,
			&o.CustomerPhone,
			&o.Comment,
			&o.TotalAmount,
			&o.Fingerprint,
			&status,
			&o.ReceivedAt,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("scan order row: %w", err)
		}
		o.EmailStatus = domain.EmailStatus(status)
		orders = append(orders, o)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate order rows: %w", err)
	}

	return orders, totalCount, nil
}
