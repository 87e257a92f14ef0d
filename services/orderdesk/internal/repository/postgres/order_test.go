package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pr-poehali-dev/product-catalog-table/pkg/database"
	apperrors "github.com/pr-poehali-dev/product-catalog-table/pkg/errors"
	"github.com/pr-poehali-dev/product-catalog-table/services/orderdesk/internal/domain"
)

// --- Test Helpers ---

func newTestRepo(t *testing.T) (*OrderRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewOrderRepository(mock), mock
}

func sampleOrder() *domain.Order {
	return &domain.Order{
		ID:            "6b1f4a8e-1d2c-4f5a-9b3e-7c8d9e0f1a2b",
		Number:        "ORD-20240305-140709",
		CustomerName:  "Анна",
		CustomerEmail: "anna@example.com",
		CustomerPhone: "+7 900 000-00-00",
		Comment:       "",
		Items: []domain.OrderItem{
			{Name: "Матрешка классическая", Price: 2500, Quantity: 1, Total: 2500},
			{Name: "Брелок сувенирный", Price: 850, Quantity: 2, Total: 1700},
		},
		TotalAmount: 4200,
		Fingerprint: "abc123",
		EmailStatus: domain.EmailPending,
		ReceivedAt:  time.Date(2024, time.March, 5, 14, 7, 9, 0, time.UTC),
	}
}

func orderColumns() []string {
	return []string{"id", "number", "customer_name", "customer_email", "customer_phone", "comment", "total_amount", "fingerprint", "email_status", "received_at"}
}

func orderValues(o *domain.Order) []any {
	return []any{o.ID, o.Number, o.CustomerName, o.CustomerEmail, o.CustomerPhone, o.Comment, o.TotalAmount, o.Fingerprint, string(o.EmailStatus), o.ReceivedAt}
}

// --- Create ---

func TestOrderRepository_Create_Success(t *testing.T) {
	repo, mock := newTestRepo(t)
	o := sampleOrder()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO orders").
		WithArgs(orderValues(o)...).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	for i, item := range o.Items {
		mock.ExpectExec("INSERT INTO order_items").
			WithArgs(o.ID, i, item.Name, item.Price, item.Quantity, item.Total).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
	}
	mock.ExpectCommit()

	require.NoError(t, repo.Create(context.Background(), o))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_Create_NoItems(t *testing.T) {
	repo, mock := newTestRepo(t)
	o := sampleOrder()
	o.Items = nil

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO orders").
		WithArgs(orderValues(o)...).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Create(context.Background(), o))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_Create_ItemFailureRollsBack(t *testing.T) {
	repo, mock := newTestRepo(t)
	o := sampleOrder()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO orders").
		WithArgs(orderValues(o)...).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO order_items").
		WithArgs(o.ID, 0, o.Items[0].Name, o.Items[0].Price, o.Items[0].Quantity, o.Items[0].Total).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := repo.Create(context.Background(), o)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert order item 0")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_Create_BeginFails(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectBegin().WillReturnError(errors.New("connection refused"))

	err := repo.Create(context.Background(), sampleOrder())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "begin transaction")
	assert.NoError(t, mock.ExpectationsWereMet())
}

// --- UpdateEmailStatus ---

func TestOrderRepository_UpdateEmailStatus(t *testing.T) {
	repo, mock := newTestRepo(t)
	o := sampleOrder()

	mock.ExpectExec("UPDATE orders SET email_status").
		WithArgs(o.ID, "sent").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, repo.UpdateEmailStatus(context.Background(), o.ID, domain.EmailSent))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_UpdateEmailStatus_NotFound(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectExec("UPDATE orders SET email_status").
		WithArgs("missing", "failed").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.UpdateEmailStatus(context.Background(), "missing", domain.EmailFailed)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// --- GetByID ---

func TestOrderRepository_GetByID(t *testing.T) {
	repo, mock := newTestRepo(t)
	o := sampleOrder()

	mock.ExpectQuery("SELECT (.+) FROM orders").
		WithArgs(o.ID).
		WillReturnRows(pgxmock.NewRows(orderColumns()).AddRow(orderValues(o)...))

	items := pgxmock.NewRows([]string{"name", "price", "quantity", "total"})
	for _, item := range o.Items {
		items.AddRow(item.Name, item.Price, item.Quantity, item.Total)
	}
	mock.ExpectQuery("SELECT (.+) FROM order_items").
		WithArgs(o.ID).
		WillReturnRows(items)

	got, err := repo.GetByID(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, o, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM orders").
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	got, err := repo.GetByID(context.Background(), "missing")
	assert.Nil(t, got)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// --- List ---

func TestOrderRepository_List(t *testing.T) {
	repo, mock := newTestRepo(t)
	first := sampleOrder()
	second := sampleOrder()
	second.ID = "0a9e2c4d-5b6f-4a1e-8c3d-2b1a0f9e8d7c"
	second.Number = "ORD-20240305-150000"
	second.EmailStatus = domain.EmailSent

	rows := pgxmock.NewRows(append(orderColumns(), "total_count")).
		AddRow(append(orderValues(second), 7)...).
		AddRow(append(orderValues(first), 7)...)
	mock.ExpectQuery("SELECT (.+) FROM orders").
		WithArgs(2, 4).
		WillReturnRows(rows)

	orders, total, err := repo.List(context.Background(), 4, 2)
	require.NoError(t, err)
	assert.Equal(t, 7, total)
	require.Len(t, orders, 2)
	assert.Equal(t, second.Number, orders[0].Number)
	assert.Equal(t, domain.EmailSent, orders[0].EmailStatus)
	assert.Nil(t, orders[1].Items)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_List_Empty(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM orders").
		WithArgs(10, 0).
		WillReturnRows(pgxmock.NewRows(append(orderColumns(), "total_count")))

	orders, total, err := repo.List(context.Background(), 0, 10)
	require.NoError(t, err)
	assert.Equal(t, 0, total)
	assert.NotNil(t, orders)
	assert.Empty(t, orders)
	assert.NoError(t, mock.ExpectationsWereMet())
}
