package middleware

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wasata/internal/common"
)

func TestRedisLimiter(t *testing.T) {
	url := os.Getenv("REDIS_TEST_URL")
	if url == "" {
		t.Skip("REDIS_TEST_URL not set")
	}
	opts, err := redis.ParseURL(url)
	require.NoError(t, err)
	client := redis.NewClient(opts)
	defer client.Close()
	require.NoError(t, client.Ping(context.Background()).Err())

	limiter := NewRedisLimiter(client, "test:", nil)
	key := "apply:" + common.NewUUID().String()
	assert.True(t, limiter.Allow(key, 2, time.Minute))
	assert.True(t, limiter.Allow(key, 2, time.Minute))
	assert.False(t, limiter.Allow(key, 2, time.Minute))
}

func TestRedisLimiterFailsOpen(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond, MaxRetries: -1})
	defer client.Close()
	limiter := NewRedisLimiter(client, "", nil)
	assert.True(t, limiter.Allow("login:1.1.1.1", 1, time.Minute))
	assert.True(t, limiter.Allow("login:1.1.1.1", 1, time.Minute))

	var nilLimiter *RedisLimiter
	assert.True(t, nilLimiter.Allow("x", 1, time.Minute))
	assert.Nil(t, NewRedisLimiter(nil, "", nil))
}
