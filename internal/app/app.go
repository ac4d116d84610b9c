// Package app wires configuration into the provider, cache and service
// shared by the HTTP and SSH entrypoints.
package app

import (
	"context"
	"time"

	"tickerdash/internal/cache"
	"tickerdash/internal/config"
	"tickerdash/internal/provider"
	"tickerdash/internal/service"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var initRedis = cache.InitRedis

// NewProvider returns the market data backend named by cfg.
func NewProvider(cfg *config.Config, tracer trace.Tracer) service.MarketDataProvider {
	if cfg.MarketDataProvider == config.ProviderFinanceGo {
		return provider.NewFinanceGoProvider(tracer)
	}
	return provider.NewYahooProvider(tracer, cfg.YahooBaseURL, cfg.YahooRatePerMin)
}

// NewStore returns the cache backend named by cfg. An unreachable Redis
// falls back to the in-memory store. The returned close func is never nil.
func NewStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (cache.Store, func() error) {
	noop := func() error { return nil }
	if cfg.CacheBackend != config.CacheBackendRedis {
		return cache.NewMemoryStore(), noop
	}

	client, err := initRedis(ctx, cfg.RedisURL)
	if err != nil {
		logger.Warn("redis unavailable, using in-memory cache", zap.Error(err))
		return cache.NewMemoryStore(), noop
	}
	logger.Info("connected to redis", zap.String("addr", client.Options().Addr))
	return cache.NewRedisStore(client), client.Close
}

// NewMarketDataService builds the cached data fetcher from cfg.
func NewMarketDataService(ctx context.Context, cfg *config.Config, tracer trace.Tracer, logger *zap.Logger) (*service.MarketDataService, func() error) {
	store, closeStore := NewStore(ctx, cfg, logger)
	ttl := time.Duration(cfg.CacheTTLSecs) * time.Second
	svc := service.NewMarketDataService(tracer, NewProvider(cfg, tracer), store, ttl, logger)
	logger.Info("market data service ready",
		zap.String("provider", cfg.MarketDataProvider),
		zap.String("cache", cfg.CacheBackend),
		zap.Duration("ttl", ttl),
	)
	return svc, closeStore
}
