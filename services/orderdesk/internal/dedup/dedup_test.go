package dedup

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisGuard(t *testing.T) (*RedisGuard, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisGuard(client), mr
}

func TestRedisGuard_ClaimConfirm(t *testing.T) {
	g, mr := newRedisGuard(t)
	ctx := context.Background()

	existing, claimed, err := g.Claim(ctx, "fp1", time.Minute)
	require.NoError(t, err)
	assert.True(t, claimed)
	assert.Empty(t, existing)
	assert.Equal(t, time.Minute, mr.TTL(KeyPrefix+"fp1"))

	_, claimed, err = g.Claim(ctx, "fp1", time.Minute)
	assert.ErrorIs(t, err, ErrInProgress)
	assert.False(t, claimed)

	mr.FastForward(20 * time.Second)
	require.NoError(t, g.Confirm(ctx, "fp1", "ORD-20240305-140709"))
	assert.Equal(t, 40*time.Second, mr.TTL(KeyPrefix+"fp1"), "confirm keeps the claim expiry")

	existing, claimed, err = g.Claim(ctx, "fp1", time.Minute)
	require.NoError(t, err)
	assert.False(t, claimed)
	assert.Equal(t, "ORD-20240305-140709", existing)
}

func TestRedisGuard_ConfirmAfterExpiry(t *testing.T) {
	g, mr := newRedisGuard(t)
	ctx := context.Background()

	_, _, err := g.Claim(ctx, "fp1", 30*time.Second)
	require.NoError(t, err)
	mr.FastForward(31 * time.Second)

	require.NoError(t, g.Confirm(ctx, "fp1", "ORD-1"))
	assert.False(t, mr.Exists(KeyPrefix+"fp1"))
}

func TestRedisGuard_Expiry(t *testing.T) {
	g, mr := newRedisGuard(t)
	ctx := context.Background()

	_, _, err := g.Claim(ctx, "fp1", 30*time.Second)
	require.NoError(t, err)

	mr.FastForward(31 * time.Second)

	_, claimed, err := g.Claim(ctx, "fp1", 30*time.Second)
	require.NoError(t, err)
	assert.True(t, claimed)
}

func TestRedisGuard_Release(t *testing.T) {
	g, mr := newRedisGuard(t)
	ctx := context.Background()

	_, _, err := g.Claim(ctx, "fp1", time.Minute)
	require.NoError(t, err)
	require.NoError(t, g.Release(ctx, "fp1"))
	assert.False(t, mr.Exists(KeyPrefix+"fp1"))

	_, claimed, err := g.Claim(ctx, "fp1", time.Minute)
	require.NoError(t, err)
	assert.True(t, claimed)
}

func TestRedisGuard_Unavailable(t *testing.T) {
	g, mr := newRedisGuard(t)
	mr.Close()

	_, claimed, err := g.Claim(context.Background(), "fp1", time.Minute)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInProgress)
	assert.False(t, claimed)
}

func TestMemoryGuard(t *testing.T) {
	g := NewMemoryGuard()
	now := time.Date(2024, time.March, 5, 14, 0, 0, 0, time.UTC)
	g.now = func() time.Time { return now }
	ctx := context.Background()

	_, claimed, err := g.Claim(ctx, "fp1", time.Minute)
	require.NoError(t, err)
	assert.True(t, claimed)

	_, claimed, err = g.Claim(ctx, "fp1", time.Minute)
	assert.ErrorIs(t, err, ErrInProgress)
	assert.False(t, claimed)

	require.NoError(t, g.Confirm(ctx, "fp1", "ORD-1"))
	existing, claimed, err := g.Claim(ctx, "fp1", time.Minute)
	require.NoError(t, err)
	assert.False(t, claimed)
	assert.Equal(t, "ORD-1", existing)

	_, claimed, _ = g.Claim(ctx, "fp2", time.Minute)
	assert.True(t, claimed)
	assert.Equal(t, 2, g.Len())

	now = now.Add(time.Minute)
	_, claimed, err = g.Claim(ctx, "fp1", time.Minute)
	require.NoError(t, err)
	assert.True(t, claimed)
	assert.Equal(t, 1, g.Len(), "expired fp2 is dropped")

	require.NoError(t, g.Release(ctx, "fp1"))
	assert.Equal(t, 0, g.Len())
}

func TestMemoryGuard_ConfirmAfterExpiry(t *testing.T) {
	g := NewMemoryGuard()
	now := time.Date(2024, time.March, 5, 14, 0, 0, 0, time.UTC)
	g.now = func() time.Time { return now }
	ctx := context.Background()

	_, _, err := g.Claim(ctx, "fp1", time.Minute)
	require.NoError(t, err)
	now = now.Add(2 * time.Minute)

	require.NoError(t, g.Confirm(ctx, "fp1", "ORD-1"))
	_, claimed, err := g.Claim(ctx, "fp1", time.Minute)
	require.NoError(t, err)
	assert.True(t, claimed)
}
