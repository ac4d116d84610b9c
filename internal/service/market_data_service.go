package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"tickerdash/internal/cache"
	"tickerdash/internal/domain"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// DefaultCacheTTL is the retention window for fetched series and snapshots.
const DefaultCacheTTL = time.Hour

// MarketDataProvider is the external source of bars and company attributes.
type MarketDataProvider interface {
	FetchBars(ctx context.Context, symbol string, rng domain.TimeRange, interval domain.Interval) (*domain.PriceSeries, error)
	FetchSnapshot(ctx context.Context, symbol string) (domain.CompanySnapshot, error)
}

// MarketDataService fetches series and snapshots through the cache.
type MarketDataService struct {
	tracer   trace.Tracer
	provider MarketDataProvider
	store    cache.Store
	ttl      time.Duration
	logger   *zap.Logger
}

func NewMarketDataService(
	tracer trace.Tracer,
	provider MarketDataProvider,
	store cache.Store,
	ttl time.Duration,
	logger *zap.Logger,
) *MarketDataService {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MarketDataService{
		tracer:   tracer,
		provider: provider,
		store:    store,
		ttl:      ttl,
		logger:   logger,
	}
}

// FetchSeries returns the bar series for req. A cached entry for the exact
// (symbol, range, interval) key is returned while it is younger than the TTL.
// Empty results and provider failures both match domain.ErrNotFound; neither
// is cached.
func (s *MarketDataService) FetchSeries(ctx context.Context, req domain.FetchRequest) (*domain.PriceSeries, error) {
	ctx, span := s.tracer.Start(ctx, "market-data-service.fetch-series")
	defer span.End()

	req.Symbol = domain.NormalizeSymbol(req.Symbol)
	if err := req.Validate(); err != nil {
		return nil, err
	}
	key := req.CacheKey()
	span.SetAttributes(attribute.String("cache.key", key))

	var series domain.PriceSeries
	if s.readCache(ctx, key, &series) {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return &series, nil
	}

	fetched, err := s.provider.FetchBars(ctx, req.Symbol, req.Range, req.Interval)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "provider failure")
		s.logger.Warn("provider failure",
			zap.String("op", "fetch-bars"),
			zap.String("symbol", req.Symbol),
			zap.String("range", req.Range.String()),
			zap.String("interval", string(req.Interval)),
			zap.Error(err),
		)
		return nil, &domain.ProviderError{Op: "fetch-bars", Symbol: req.Symbol, Err: err}
	}
	if fetched == nil || fetched.Empty() {
		return nil, fmt.Errorf("series for %s: %w", req.Symbol, domain.ErrNotFound)
	}
	if fetched.Symbol == "" {
		fetched.Symbol = req.Symbol
	}

	if err := s.storeAndDecode(ctx, key, fetched, &series); err != nil {
		return nil, err
	}
	return &series, nil
}

// FetchSnapshot returns the company attributes for symbol under the same
// caching and failure policy as FetchSeries, keyed on the symbol alone.
func (s *MarketDataService) FetchSnapshot(ctx context.Context, symbol string) (domain.CompanySnapshot, error) {
	ctx, span := s.tracer.Start(ctx, "market-data-service.fetch-snapshot")
	defer span.End()

	symbol = domain.NormalizeSymbol(symbol)
	if symbol == "" {
		return nil, domain.ErrEmptySymbol
	}
	key := SnapshotCacheKey(symbol)
	span.SetAttributes(attribute.String("cache.key", key))

	var snapshot domain.CompanySnapshot
	if s.readCache(ctx, key, &snapshot) {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return snapshot, nil
	}

	fetched, err := s.provider.FetchSnapshot(ctx, symbol)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "provider failure")
		s.logger.Warn("provider failure",
			zap.String("op", "fetch-snapshot"),
			zap.String("symbol", symbol),
			zap.Error(err),
		)
		return nil, &domain.ProviderError{Op: "fetch-snapshot", Symbol: symbol, Err: err}
	}
	if len(fetched) == 0 {
		return nil, fmt.Errorf("snapshot for %s: %w", symbol, domain.ErrNotFound)
	}

	if err := s.storeAndDecode(ctx, key, fetched, &snapshot); err != nil {
		return nil, err
	}
	return snapshot, nil
}

func SnapshotCacheKey(symbol string) string {
	return "snapshot:" + symbol
}

func (s *MarketDataService) readCache(ctx context.Context, key string, out any) bool {
	if s.store == nil {
		return false
	}
	data, ok, err := s.store.Get(ctx, key)
	if err != nil {
		s.logger.Warn("cache read error", zap.String("key", key), zap.Error(err))
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		s.logger.Warn("cache decode error", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// storeAndDecode serializes value, caches the bytes and decodes them into out,
// so a miss returns exactly what a later hit will.
func (s *MarketDataService) storeAndDecode(ctx context.Context, key string, value, out any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if s.store != nil {
		if err := s.store.Set(ctx, key, data, s.ttl); err != nil {
			s.logger.Warn("cache write error", zap.String("key", key), zap.Error(err))
		}
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

// IsNotFound reports whether err should be shown to the user as "could not
// retrieve data".
func IsNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}
