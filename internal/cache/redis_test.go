package cache

import (
	"context"
	"errors"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubRedis(t *testing.T, pingErr error) *string {
	t.Helper()

	origNewClient := newRedisClient
	origPing := pingRedis
	t.Cleanup(func() {
		newRedisClient = origNewClient
		pingRedis = origPing
	})

	var capturedAddr string
	newRedisClient = func(opts *redis.Options) *redis.Client {
		capturedAddr = opts.Addr
		return redis.NewClient(opts)
	}
	pingRedis = func(ctx context.Context, client *redis.Client) error {
		return pingErr
	}
	return &capturedAddr
}

func TestInitRedisWithCustomAddr(t *testing.T) {
	addr := stubRedis(t, nil)

	client, err := InitRedis(context.Background(), "redis:9999")
	require.NoError(t, err)
	assert.NotNil(t, client)
	assert.Equal(t, "redis:9999", *addr)
}

func TestInitRedisDefaults(t *testing.T) {
	addr := stubRedis(t, nil)

	_, err := InitRedis(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "localhost:6379", *addr)
}

func TestInitRedisParsesURL(t *testing.T) {
	addr := stubRedis(t, nil)

	_, err := InitRedis(context.Background(), "redis://cache.internal:6380/2")
	require.NoError(t, err)
	assert.Equal(t, "cache.internal:6380", *addr)
}

func TestInitRedisPingFailure(t *testing.T) {
	stubRedis(t, errors.New("connection refused"))

	_, err := InitRedis(context.Background(), "redis:9999")
	assert.ErrorContains(t, err, "connection refused")
}
