package database

import (
	"context"
	"testing"
	"time"

	"approval-reminders/internal/common/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisClient_RoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	c := NewRedis(config.RedisConfig{Address: mr.Addr()})
	defer c.Close()

	ctx := context.Background()
	require.NoError(t, c.Ping(ctx))

	require.NoError(t, c.Set(ctx, "reminders:account:u-1", "Acme Smelting", time.Minute))
	got, err := c.Get(ctx, "reminders:account:u-1")
	require.NoError(t, err)
	assert.Equal(t, "Acme Smelting", got)

	mr.FastForward(2 * time.Minute)
	_, err = c.Get(ctx, "reminders:account:u-1")
	assert.ErrorIs(t, err, redis.Nil)

	require.NoError(t, c.Set(ctx, "k", "v", 0))
	require.NoError(t, c.Del(ctx, "k"))
	assert.False(t, mr.Exists("k"))
}

func TestRedisClient_PingFailure(t *testing.T) {
	mr := miniredis.RunT(t)
	c := NewRedis(config.RedisConfig{Address: mr.Addr()})
	defer c.Close()
	mr.Close()

	err := c.Ping(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis ping failed")
}
