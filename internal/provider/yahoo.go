package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"tickerdash/internal/domain"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	yahooBaseURL   = "https://query2.finance.yahoo.com"
	yahooCookieURL = "https://fc.yahoo.com"
	yahooUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
)

// snapshotModules are the quoteSummary modules merged into a CompanySnapshot,
// in precedence order.
var snapshotModules = []string{"price", "summaryDetail", "financialData", "defaultKeyStatistics", "assetProfile"}

// YahooProvider fetches bar series and company snapshots from the Yahoo Finance
// public endpoints.
type YahooProvider struct {
	client    *http.Client
	baseURL   string
	cookieURL string
	tracer    trace.Tracer
	limiter   *RateLimiter

	mu    sync.Mutex
	crumb string
}

// NewYahooProvider creates a provider limited to ratePerMin requests per minute.
// An empty baseURL uses the public query host.
func NewYahooProvider(tracer trace.Tracer, baseURL string, ratePerMin int) *YahooProvider {
	if baseURL == "" {
		baseURL = yahooBaseURL
	}
	if ratePerMin <= 0 {
		ratePerMin = 60
	}
	jar, _ := cookiejar.New(nil)
	return &YahooProvider{
		client:    &http.Client{Timeout: 30 * time.Second, Jar: jar},
		baseURL:   baseURL,
		cookieURL: yahooCookieURL,
		tracer:    tracer,
		limiter:   NewRateLimiter(ratePerMin, time.Minute/time.Duration(ratePerMin)),
	}
}

type yahooError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

func (e *yahooError) notFound() bool {
	return e != nil && strings.EqualFold(e.Code, "Not Found")
}

type yahooChartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol               string `json:"symbol"`
				Currency             string `json:"currency"`
				ExchangeTimezoneName string `json:"exchangeTimezoneName"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
				AdjClose []struct {
					AdjClose []*float64 `json:"adjclose"`
				} `json:"adjclose"`
			} `json:"indicators"`
		} `json:"result"`
		Error *yahooError `json:"error"`
	} `json:"chart"`
}

// FetchBars returns the bar series for symbol. A preset range is passed to
// Yahoo as-is; an explicit range is sent as period1/period2 with an exclusive end.
// A symbol Yahoo does not know yields an empty series and no error.
func (p *YahooProvider) FetchBars(ctx context.Context, symbol string, rng domain.TimeRange, interval domain.Interval) (*domain.PriceSeries, error) {
	ctx, span := p.tracer.Start(ctx, "yahoo.fetch-bars")
	defer span.End()
	span.SetAttributes(
		attribute.String("symbol", symbol),
		attribute.String("range", rng.Key()),
		attribute.String("interval", string(interval)),
	)

	q := url.Values{}
	q.Set("interval", string(interval))
	q.Set("events", "div,split")
	q.Set("includeAdjustedClose", "true")
	if rng.IsPreset() {
		q.Set("range", string(rng.Period))
	} else {
		q.Set("period1", strconv.FormatInt(rng.Start.Unix(), 10))
		q.Set("period2", strconv.FormatInt(rng.End.Unix(), 10))
	}
	u := fmt.Sprintf("%s/v8/finance/chart/%s?%s", p.baseURL, url.PathEscape(symbol), q.Encode())

	body, status, err := p.doRequest(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("fetch chart for %s: %w", symbol, err)
	}

	var raw yahooChartResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		if status != http.StatusOK {
			return nil, fmt.Errorf("yahoo API error %d: %s", status, truncate(body))
		}
		return nil, fmt.Errorf("parse chart for %s: %w", symbol, err)
	}

	series := &domain.PriceSeries{Symbol: symbol, Interval: interval}
	if raw.Chart.Error.notFound() {
		return series, nil
	}
	if raw.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo chart error for %s: %s", symbol, raw.Chart.Error.Description)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("yahoo API error %d: %s", status, truncate(body))
	}
	if len(raw.Chart.Result) == 0 {
		return series, nil
	}

	result := raw.Chart.Result[0]
	series.Timezone = result.Meta.ExchangeTimezoneName
	loc := exchangeLocation(series.Timezone)
	if len(result.Indicators.Quote) == 0 {
		return series, nil
	}
	quote := result.Indicators.Quote[0]

	var adj []*float64
	if len(result.Indicators.AdjClose) > 0 {
		adj = result.Indicators.AdjClose[0].AdjClose
		series.HasAdjClose = len(adj) > 0
	}

	bars := make([]domain.Bar, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		o, h, l, c := at(quote.Open, i), at(quote.High, i), at(quote.Low, i), at(quote.Close, i)
		if o == nil && h == nil && l == nil && c == nil {
			continue
		}
		bar := domain.Bar{
			Time:   barTime(ts, loc),
			Open:   deref(o),
			High:   deref(h),
			Low:    deref(l),
			Close:  deref(c),
			Volume: int64(deref(at(quote.Volume, i))),
		}
		if series.HasAdjClose {
			bar.AdjClose = deref(at(adj, i))
		}
		bars = append(bars, bar)
	}
	series.Bars = domain.NormalizeBars(bars)

	span.SetAttributes(attribute.Int("bars", len(series.Bars)))
	return series, nil
}

type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []map[string]json.RawMessage `json:"result"`
		Error  *yahooError                  `json:"error"`
	} `json:"quoteSummary"`
}

// FetchSnapshot returns the company attributes for symbol, flattened into the
// yfinance "info" vocabulary. An unknown symbol yields an empty snapshot.
func (p *YahooProvider) FetchSnapshot(ctx context.Context, symbol string) (domain.CompanySnapshot, error) {
	ctx, span := p.tracer.Start(ctx, "yahoo.fetch-snapshot")
	defer span.End()
	span.SetAttributes(attribute.String("symbol", symbol))

	q := url.Values{}
	q.Set("modules", strings.Join(snapshotModules, ","))
	if crumb := p.ensureCrumb(ctx); crumb != "" {
		q.Set("crumb", crumb)
	}
	u := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?%s", p.baseURL, url.PathEscape(symbol), q.Encode())

	body, status, err := p.doRequest(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("fetch quote summary for %s: %w", symbol, err)
	}
	// Yahoo answers a stale crumb with 401 under either a quoteSummary or a
	// finance envelope; the next call redoes the handshake.
	if status == http.StatusUnauthorized {
		p.resetCrumb()
	}

	var raw quoteSummaryResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		if status != http.StatusOK {
			return nil, fmt.Errorf("yahoo API error %d: %s", status, truncate(body))
		}
		return nil, fmt.Errorf("parse quote summary for %s: %w", symbol, err)
	}

	snapshot := domain.CompanySnapshot{}
	if raw.QuoteSummary.Error.notFound() {
		return snapshot, nil
	}
	if raw.QuoteSummary.Error != nil {
		return nil, fmt.Errorf("yahoo quote summary error for %s: %s", symbol, raw.QuoteSummary.Error.Description)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("yahoo API error %d: %s", status, truncate(body))
	}
	if len(raw.QuoteSummary.Result) == 0 {
		return snapshot, nil
	}

	modules := raw.QuoteSummary.Result[0]
	for _, name := range snapshotModules {
		module, ok := modules[name]
		if !ok {
			continue
		}
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(module, &fields); err != nil {
			continue
		}
		for key, value := range fields {
			if key == "maxAge" {
				continue
			}
			v, ok := flattenValue(value)
			if !ok {
				continue
			}
			if existing, set := snapshot[key]; set && existing != nil {
				continue
			}
			snapshot[key] = v
		}
	}

	span.SetAttributes(attribute.Int("attributes", len(snapshot)))
	return snapshot, nil
}

// ensureCrumb performs the cookie + crumb handshake quoteSummary requires.
// Failures are swallowed: the request goes out without a crumb and Yahoo's
// own error is reported instead. The handshake runs without holding mu, so
// concurrent callers may each fetch a crumb; the last one stored wins.
func (p *YahooProvider) ensureCrumb(ctx context.Context) string {
	p.mu.Lock()
	crumb := p.crumb
	p.mu.Unlock()
	if crumb != "" {
		return crumb
	}

	crumb = p.fetchCrumb(ctx)
	if crumb == "" {
		return ""
	}
	p.mu.Lock()
	p.crumb = crumb
	p.mu.Unlock()
	return crumb
}

func (p *YahooProvider) fetchCrumb(ctx context.Context) string {
	if _, _, err := p.doRequest(ctx, p.cookieURL); err != nil {
		return ""
	}
	body, status, err := p.doRequest(ctx, p.baseURL+"/v1/test/getcrumb")
	if err != nil || status != http.StatusOK {
		return ""
	}
	crumb := strings.TrimSpace(string(body))
	if crumb == "" || strings.ContainsAny(crumb, "<{ ") {
		return ""
	}
	return crumb
}

func (p *YahooProvider) resetCrumb() {
	p.mu.Lock()
	p.crumb = ""
	p.mu.Unlock()
}

func (p *YahooProvider) doRequest(ctx context.Context, u string) ([]byte, int, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, 0, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", yahooUserAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return body, resp.StatusCode, nil
}

// flattenValue unwraps Yahoo's {"raw": x, "fmt": "..."} envelopes. An empty
// object means the attribute is known but has no value and maps to nil.
// Nested objects, arrays and booleans are dropped.
func flattenValue(raw json.RawMessage) (any, bool) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, false
	}
	switch t := v.(type) {
	case nil:
		return nil, true
	case float64, string:
		return t, true
	case map[string]any:
		if len(t) == 0 {
			return nil, true
		}
		inner, ok := t["raw"]
		if !ok {
			return nil, false
		}
		switch inner.(type) {
		case float64, string:
			return inner, true
		}
		return nil, false
	default:
		return nil, false
	}
}

func exchangeLocation(name string) *time.Location {
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

// barTime maps a bar timestamp to midnight of its trading date in the
// exchange timezone. Every supported interval is daily or coarser.
func barTime(ts int64, loc *time.Location) time.Time {
	t := time.Unix(ts, 0).In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

func at(values []*float64, i int) *float64 {
	if i < len(values) {
		return values[i]
	}
	return nil
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func truncate(body []byte) string {
	const limit = 200
	if len(body) > limit {
		return string(body[:limit]) + "..."
	}
	return string(body)
}
