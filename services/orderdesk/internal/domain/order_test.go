package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRequest() OrderRequest {
	return OrderRequest{
		CustomerName:  "Анна",
		CustomerEmail: "anna@example.com",
		CustomerPhone: "+7 900 000-00-00",
		Items: []OrderItem{
			{Name: "Матрешка классическая", Price: 2500, Quantity: 1, Total: 2500},
			{Name: "Брелок сувенирный", Price: 850, Quantity: 2, Total: 1700},
		},
		TotalAmount: 4200,
	}
}

func TestOrderNumber(t *testing.T) {
	at := time.Date(2024, time.March, 5, 14, 7, 9, 0, time.UTC)
	assert.Equal(t, "ORD-20240305-140709", OrderNumber(at))
}

func TestNewOrder(t *testing.T) {
	req := sampleRequest()
	at := time.Date(2024, time.March, 5, 14, 7, 9, 0, time.UTC)

	o := NewOrder(req, at)

	require.NotEmpty(t, o.ID)
	assert.Equal(t, "ORD-20240305-140709", o.Number)
	assert.Equal(t, EmailPending, o.EmailStatus)
	assert.Equal(t, int64(4200), o.TotalAmount)
	assert.Equal(t, req.Items, o.Items)
	assert.Equal(t, req.Fingerprint(), o.Fingerprint)

	req.Items[0].Quantity = 9
	assert.Equal(t, 1, o.Items[0].Quantity, "order keeps its own copy of the items")
}

func TestNewOrder_UniqueIDsForSameSecond(t *testing.T) {
	at := time.Now()
	a := NewOrder(sampleRequest(), at)
	b := NewOrder(sampleRequest(), at)

	assert.Equal(t, a.Number, b.Number)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestFingerprint(t *testing.T) {
	a := sampleRequest()
	b := sampleRequest()
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())

	b.Comment = "позвоните до обеда"
	assert.NotEqual(t, a.Fingerprint(), b.Fingerprint())

	empty := OrderRequest{CustomerName: "a", CustomerEmail: "b", CustomerPhone: "c"}
	withEmpty := empty
	withEmpty.Items = []OrderItem{}
	assert.Equal(t, empty.Fingerprint(), withEmpty.Fingerprint())
	assert.Len(t, a.Fingerprint(), 64)
}
