package mailer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pr-poehali-dev/product-catalog-table/pkg/money"
	"github.com/pr-poehali-dev/product-catalog-table/services/orderdesk/internal/domain"
)

func sampleOrder() *domain.Order {
	return &domain.Order{
		ID:            "5f0c7a5e-0000-4000-8000-000000000001",
		Number:        "ORD-20240305-140709",
		CustomerName:  "Анна",
		CustomerEmail: "anna@example.com",
		CustomerPhone: "+7 900 000-00-00",
		Items: []domain.OrderItem{
			{Name: "Матрешка классическая", Price: 2500, Quantity: 1, Total: 2500},
			{Name: "Брелок сувенирный", Price: 850, Quantity: 2, Total: 1700},
		},
		TotalAmount: 4200,
		ReceivedAt:  time.Date(2024, time.March, 5, 14, 7, 9, 0, time.UTC),
	}
}

func TestRenderOrder(t *testing.T) {
	msg, err := RenderOrder(sampleOrder(), "shop@example.com", "admin@example.com")
	require.NoError(t, err)

	assert.Equal(t, OrderSubject, msg.Subject)
	assert.Equal(t, "shop@example.com", msg.From)
	assert.Equal(t, "admin@example.com", msg.To)

	html := msg.HTML
	assert.Contains(t, html, "<h2 style=\"color: #0EA5E9;")
	assert.Contains(t, html, "Данные покупателя:")
	assert.Contains(t, html, "<strong>Имя:</strong> Анна")
	assert.Contains(t, html, "<strong>Телефон:</strong> &#43;7 900 000-00-00")
	assert.NotContains(t, html, "Комментарий")
	assert.Contains(t, html, "Матрешка классическая</td>")
	assert.Contains(t, html, ">2 шт.</td>")
	assert.Contains(t, html, money.Format(2500))
	assert.Contains(t, html, money.Format(1700))
	assert.Contains(t, html, "Итого: "+money.Format(4200))
	assert.Contains(t, html, "Заказ получен: 05.03.2024 14:07")

	assert.Contains(t, msg.Text, "Брелок сувенирный, 2 шт.")
	assert.Contains(t, msg.Text, "Итого: "+money.Format(4200))
}

func TestRenderOrder_Comment(t *testing.T) {
	o := sampleOrder()
	o.Comment = "Позвоните после 18:00"

	msg, err := RenderOrder(o, "shop@example.com", "admin@example.com")
	require.NoError(t, err)

	assert.Contains(t, msg.HTML, "<strong>Комментарий:</strong> Позвоните после 18:00")
	assert.Contains(t, msg.Text, "Комментарий: Позвоните после 18:00")
}

func TestRenderOrder_EscapesCustomerInput(t *testing.T) {
	o := sampleOrder()
	o.CustomerName = "<script>alert(1)</script>"
	o.Items[0].Name = "<b>bold</b>"

	msg, err := RenderOrder(o, "shop@example.com", "admin@example.com")
	require.NoError(t, err)

	assert.NotContains(t, msg.HTML, "<script>")
	assert.NotContains(t, msg.HTML, "<b>bold</b>")
	assert.Contains(t, msg.HTML, "&lt;script&gt;")
}

func TestRenderOrder_NoItems(t *testing.T) {
	o := sampleOrder()
	o.Items = nil
	o.TotalAmount = 0

	msg, err := RenderOrder(o, "shop@example.com", "admin@example.com")
	require.NoError(t, err)
	assert.Contains(t, msg.HTML, "Итого: "+money.Format(0))
}
