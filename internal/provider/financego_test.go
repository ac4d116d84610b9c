package provider

import (
	"context"
	"errors"
	"testing"
	"time"

	"tickerdash/internal/domain"

	finance "github.com/piquette/finance-go"
	"github.com/piquette/finance-go/chart"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

type fakeIter struct {
	bars []*finance.ChartBar
	pos  int
	err  error
}

func (f *fakeIter) Next() bool {
	if f.pos >= len(f.bars) {
		return false
	}
	f.pos++
	return true
}

func (f *fakeIter) Bar() *finance.ChartBar { return f.bars[f.pos-1] }
func (f *fakeIter) Err() error             { return f.err }

func chartBar(day time.Time, open, close float64, volume int) *finance.ChartBar {
	return &finance.ChartBar{
		Open:      decimal.NewFromFloat(open),
		High:      decimal.NewFromFloat(close + 1),
		Low:       decimal.NewFromFloat(open - 1),
		Close:     decimal.NewFromFloat(close),
		AdjClose:  decimal.NewFromFloat(close),
		Volume:    volume,
		Timestamp: int(day.Unix()),
	}
}

func TestFinanceGoFetchBarsResolvesPreset(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	d1 := time.Date(2024, 6, 10, 13, 30, 0, 0, time.UTC)
	d2 := time.Date(2024, 6, 11, 13, 30, 0, 0, time.UTC)

	var got *chart.Params
	p := NewFinanceGoProvider(noop.NewTracerProvider().Tracer("test"))
	p.now = func() time.Time { return now }
	p.getChart = func(params *chart.Params) barIterator {
		got = params
		return &fakeIter{bars: []*finance.ChartBar{chartBar(d2, 11, 12, 200), chartBar(d1, 10, 11, 100)}}
	}

	series, err := p.FetchBars(context.Background(), "MSFT", domain.PresetRange(domain.Period1M), domain.Interval1D)
	require.NoError(t, err)

	require.NotNil(t, got)
	assert.Equal(t, "MSFT", got.Symbol)
	assert.Equal(t, "1d", string(got.Interval))
	assert.Equal(t, 2024, got.Start.Year)
	assert.Equal(t, 5, got.Start.Month)
	assert.Equal(t, 15, got.End.Day)

	require.Len(t, series.Bars, 2)
	assert.True(t, series.HasAdjClose)
	assert.Equal(t, "2024-06-10", series.Bars[0].Time.Format("2006-01-02"))
	assert.Equal(t, 10.0, series.Bars[0].Open)
	assert.Equal(t, 11.0, series.Bars[0].Close)
	assert.Equal(t, int64(100), series.Bars[0].Volume)
}

func TestFinanceGoFetchBarsError(t *testing.T) {
	p := NewFinanceGoProvider(noop.NewTracerProvider().Tracer("test"))
	p.getChart = func(*chart.Params) barIterator {
		return &fakeIter{err: errors.New("remote error")}
	}

	_, err := p.FetchBars(context.Background(), "MSFT", domain.PresetRange(domain.Period1Y), domain.Interval1D)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "remote error")
}

func TestFinanceGoFetchSnapshot(t *testing.T) {
	p := NewFinanceGoProvider(noop.NewTracerProvider().Tracer("test"))
	p.getEquity = func(symbol string) (*finance.Equity, error) {
		eq := &finance.Equity{}
		eq.ShortName = "Microsoft"
		eq.RegularMarketPrice = 420.5
		eq.RegularMarketVolume = 1500
		eq.FiftyTwoWeekLow = 300
		eq.FiftyTwoWeekHigh = 450
		eq.MarketCap = 3_100_000_000_000
		eq.TrailingPE = 35.2
		return eq, nil
	}

	snap, err := p.FetchSnapshot(context.Background(), "MSFT")
	require.NoError(t, err)
	assert.Equal(t, "Microsoft", snap["shortName"])
	assert.Equal(t, 420.5, snap["currentPrice"])
	assert.Equal(t, 1500.0, snap["volume"])
	assert.Equal(t, 3.1e12, snap["marketCap"])
	assert.NotContains(t, snap, "forwardPE")
}

func TestFinanceGoFetchSnapshotUnknown(t *testing.T) {
	p := NewFinanceGoProvider(noop.NewTracerProvider().Tracer("test"))
	p.getEquity = func(string) (*finance.Equity, error) { return nil, nil }

	snap, err := p.FetchSnapshot(context.Background(), "NOPE")
	require.NoError(t, err)
	assert.Empty(t, snap)
}
