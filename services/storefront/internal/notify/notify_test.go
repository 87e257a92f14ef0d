package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pr-poehali-dev/product-catalog-table/services/storefront/internal/domain"
)

func TestQueue_DrainOrderAndReset(t *testing.T) {
	q := NewQueue(4)
	ctx := context.Background()

	q.Notify(ctx, domain.Info("a", "1"))
	q.Notify(ctx, domain.Error("b", "2"))
	assert.Equal(t, 2, q.Len())

	got := q.Drain()
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Title)
	assert.Equal(t, domain.NotificationError, got[1].Kind)
	assert.Zero(t, q.Len())
	assert.Empty(t, q.Drain())
}

func TestQueue_DropsOldestWhenFull(t *testing.T) {
	q := NewQueue(2)
	ctx := context.Background()
	for _, title := range []string{"1", "2", "3"} {
		q.Notify(ctx, domain.Info(title, ""))
	}

	got := q.Drain()
	require.Len(t, got, 2)
	assert.Equal(t, "2", got[0].Title)
	assert.Equal(t, "3", got[1].Title)
}

func TestQueue_StampsCreatedAt(t *testing.T) {
	fixed := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	q := NewQueue(0)
	q.now = func() time.Time { return fixed }

	q.Notify(context.Background(), domain.Info("x", ""))
	assert.Equal(t, fixed, q.Drain()[0].CreatedAt)
}

func TestMultiAndFunc(t *testing.T) {
	var seen []string
	rec := Func(func(_ context.Context, n domain.Notification) { seen = append(seen, n.Title) })
	q := NewQueue(1)

	Multi{rec, q}.Notify(context.Background(), domain.Info("hello", ""))

	assert.Equal(t, []string{"hello"}, seen)
	assert.Equal(t, 1, q.Len())
}

func TestLogSink_LevelFollowsKind(t *testing.T) {
	var buf bytes.Buffer
	sink := NewLogSink(slog.New(slog.NewJSONHandler(&buf, nil)))

	sink.Notify(context.Background(), domain.Error("Ошибка", "Не удалось"))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "WARN", line["level"])
	assert.Equal(t, "Ошибка", line["title"])
}
