package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type view struct {
	TotalDevices int `json:"total_devices"`
}

func TestKey(t *testing.T) {
	userID := uuid.MustParse("0b6f4a52-6f7e-4c55-9a57-3a3b1a0d2c11")

	assert.Equal(t, "energy-insights:0b6f4a52-6f7e-4c55-9a57-3a3b1a0d2c11:dashboard", Key(ViewDashboard, userID))
}

func TestViewCache_DisabledIsNoop(t *testing.T) {
	c := New(nil, time.Minute)
	ctx := context.Background()
	userID := uuid.New()

	assert.False(t, c.Enabled())
	require.NoError(t, c.Set(ctx, ViewDashboard, userID, view{TotalDevices: 2}))

	var got view
	hit, err := c.Get(ctx, ViewDashboard, userID, &got)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.NoError(t, c.Invalidate(ctx, userID))
}

func TestViewCache_Redis(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set, skipping redis tests")
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })

	c := New(client, time.Minute)
	ctx := context.Background()
	userID := uuid.New()

	require.NoError(t, c.Set(ctx, ViewDeviceInsights, userID, view{TotalDevices: 4}))

	var got view
	hit, err := c.Get(ctx, ViewDeviceInsights, userID, &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 4, got.TotalDevices)

	require.NoError(t, c.Invalidate(ctx, userID))

	hit, err = c.Get(ctx, ViewDeviceInsights, userID, &got)
	require.NoError(t, err)
	assert.False(t, hit)
}
