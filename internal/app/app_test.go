package app

import (
	"context"
	"errors"
	"testing"

	"tickerdash/internal/cache"
	"tickerdash/internal/config"
	"tickerdash/internal/provider"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var testTracer = noop.NewTracerProvider().Tracer("app-test")

func TestNewProviderSelectsBackend(t *testing.T) {
	p := NewProvider(&config.Config{MarketDataProvider: config.ProviderYahoo, YahooRatePerMin: 60}, testTracer)
	assert.IsType(t, &provider.YahooProvider{}, p)

	p = NewProvider(&config.Config{MarketDataProvider: config.ProviderFinanceGo}, testTracer)
	assert.IsType(t, &provider.FinanceGoProvider{}, p)
}

func TestNewStoreMemory(t *testing.T) {
	store, closeFn := NewStore(context.Background(), &config.Config{CacheBackend: config.CacheBackendMemory}, zap.NewNop())
	assert.IsType(t, &cache.MemoryStore{}, store)
	assert.NoError(t, closeFn())
}

func TestNewStoreRedisFallsBackToMemory(t *testing.T) {
	orig := initRedis
	t.Cleanup(func() { initRedis = orig })
	initRedis = func(context.Context, string) (*redis.Client, error) {
		return nil, errors.New("connection refused")
	}

	core, logs := observer.New(zapcore.WarnLevel)
	store, closeFn := NewStore(context.Background(), &config.Config{
		CacheBackend: config.CacheBackendRedis,
		RedisURL:     "localhost:6379",
	}, zap.New(core))

	assert.IsType(t, &cache.MemoryStore{}, store)
	assert.NoError(t, closeFn())
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "redis unavailable, using in-memory cache", logs.All()[0].Message)
}

func TestNewStoreRedis(t *testing.T) {
	orig := initRedis
	t.Cleanup(func() { initRedis = orig })
	initRedis = func(_ context.Context, addr string) (*redis.Client, error) {
		return redis.NewClient(&redis.Options{Addr: addr}), nil
	}

	store, closeFn := NewStore(context.Background(), &config.Config{
		CacheBackend: config.CacheBackendRedis,
		RedisURL:     "localhost:6379",
	}, zap.NewNop())

	assert.IsType(t, &cache.RedisStore{}, store)
	assert.NoError(t, closeFn())
}

func TestNewMarketDataService(t *testing.T) {
	svc, closeFn := NewMarketDataService(context.Background(), &config.Config{
		CacheBackend:       config.CacheBackendMemory,
		CacheTTLSecs:       60,
		MarketDataProvider: config.ProviderYahoo,
		YahooRatePerMin:    60,
	}, testTracer, zap.NewNop())

	require.NotNil(t, svc)
	assert.NoError(t, closeFn())
}
