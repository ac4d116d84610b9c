package provider

import (
	"context"
	"fmt"
	"time"

	"tickerdash/internal/domain"

	finance "github.com/piquette/finance-go"
	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/piquette/finance-go/equity"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type barIterator interface {
	Next() bool
	Bar() *finance.ChartBar
	Err() error
}

// FinanceGoProvider serves the same contract as YahooProvider through the
// piquette/finance-go client. finance-go has no preset ranges, so presets are
// resolved to explicit dates first.
type FinanceGoProvider struct {
	tracer    trace.Tracer
	now       func() time.Time
	getChart  func(*chart.Params) barIterator
	getEquity func(string) (*finance.Equity, error)
}

func NewFinanceGoProvider(tracer trace.Tracer) *FinanceGoProvider {
	return &FinanceGoProvider{
		tracer: tracer,
		now:    time.Now,
		getChart: func(p *chart.Params) barIterator {
			return chart.Get(p)
		},
		getEquity: equity.Get,
	}
}

func (p *FinanceGoProvider) FetchBars(ctx context.Context, symbol string, rng domain.TimeRange, interval domain.Interval) (*domain.PriceSeries, error) {
	_, span := p.tracer.Start(ctx, "financego.fetch-bars")
	defer span.End()
	span.SetAttributes(attribute.String("symbol", symbol), attribute.String("range", rng.Key()))

	start, end := rng.Resolve(p.now())
	params := &chart.Params{
		Symbol:   symbol,
		Interval: datetime.Interval(interval),
		Start:    toDatetime(start),
		End:      toDatetime(end),
	}

	iter := p.getChart(params)
	var bars []domain.Bar
	hasAdj := false
	for iter.Next() {
		b := iter.Bar()
		if b == nil {
			continue
		}
		bar := domain.Bar{
			Time:     time.Unix(int64(b.Timestamp), 0).UTC().Truncate(24 * time.Hour),
			Open:     toFloat(b.Open),
			High:     toFloat(b.High),
			Low:      toFloat(b.Low),
			Close:    toFloat(b.Close),
			AdjClose: toFloat(b.AdjClose),
			Volume:   int64(b.Volume),
		}
		if !b.AdjClose.IsZero() {
			hasAdj = true
		}
		bars = append(bars, bar)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("finance-go chart for %s: %w", symbol, err)
	}

	return &domain.PriceSeries{
		Symbol:      symbol,
		Interval:    interval,
		Timezone:    "UTC",
		HasAdjClose: hasAdj,
		Bars:        domain.NormalizeBars(bars),
	}, nil
}

func (p *FinanceGoProvider) FetchSnapshot(ctx context.Context, symbol string) (domain.CompanySnapshot, error) {
	_, span := p.tracer.Start(ctx, "financego.fetch-snapshot")
	defer span.End()
	span.SetAttributes(attribute.String("symbol", symbol))

	eq, err := p.getEquity(symbol)
	if err != nil {
		return nil, fmt.Errorf("finance-go equity for %s: %w", symbol, err)
	}
	snapshot := domain.CompanySnapshot{}
	if eq == nil {
		return snapshot, nil
	}

	setString := func(key, v string) {
		if v != "" {
			snapshot[key] = v
		}
	}
	// finance-go decodes absent numbers as zero; treat zero as absent.
	setFloat := func(key string, v float64) {
		if v != 0 {
			snapshot[key] = v
		}
	}

	setString("shortName", eq.ShortName)
	setString("longName", eq.LongName)
	setFloat("currentPrice", eq.RegularMarketPrice)
	setFloat("previousClose", eq.RegularMarketPreviousClose)
	setFloat("open", eq.RegularMarketOpen)
	setFloat("dayLow", eq.RegularMarketDayLow)
	setFloat("dayHigh", eq.RegularMarketDayHigh)
	setFloat("volume", float64(eq.RegularMarketVolume))
	setFloat("averageVolume", float64(eq.AverageDailyVolume3Month))
	setFloat("fiftyTwoWeekLow", eq.FiftyTwoWeekLow)
	setFloat("fiftyTwoWeekHigh", eq.FiftyTwoWeekHigh)
	setFloat("fiftyDayAverage", eq.FiftyDayAverage)
	setFloat("twoHundredDayAverage", eq.TwoHundredDayAverage)
	setFloat("marketCap", float64(eq.MarketCap))
	setFloat("trailingPE", eq.TrailingPE)
	setFloat("forwardPE", eq.ForwardPE)
	setFloat("trailingAnnualDividendYield", eq.TrailingAnnualDividendYield)

	return snapshot, nil
}

func toDatetime(t time.Time) *datetime.Datetime {
	return &datetime.Datetime{
		Year:  t.Year(),
		Month: int(t.Month()),
		Day:   t.Day(),
	}
}

func toFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}
