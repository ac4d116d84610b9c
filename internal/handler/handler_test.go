package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"tickerdash/internal/cache"
	"tickerdash/internal/domain"
	"tickerdash/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var testTracer = noop.NewTracerProvider().Tracer("handler-test")

type stubProvider struct {
	barsCalls int
	lastRange domain.TimeRange
}

func (p *stubProvider) FetchBars(_ context.Context, symbol string, rng domain.TimeRange, interval domain.Interval) (*domain.PriceSeries, error) {
	p.barsCalls++
	p.lastRange = rng
	if symbol != "AAPL" {
		return &domain.PriceSeries{Symbol: symbol}, nil
	}
	day := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	return &domain.PriceSeries{
		Symbol:   symbol,
		Interval: interval,
		Bars: []domain.Bar{
			{Time: day, Open: 187.15, High: 188.44, Low: 183.89, Close: 185.64, Volume: 82488700},
			{Time: day.AddDate(0, 0, 1), Open: 184.22, High: 185.88, Low: 183.43, Close: 184.25, Volume: 58414500},
		},
	}, nil
}

func (p *stubProvider) FetchSnapshot(_ context.Context, symbol string) (domain.CompanySnapshot, error) {
	if symbol != "AAPL" {
		return domain.CompanySnapshot{}, nil
	}
	return domain.CompanySnapshot{
		"shortName":           "Apple Inc.",
		"currentPrice":        189.5,
		"marketCap":           2.95e12,
		"trailingPE":          29.4,
		"fiftyTwoWeekLow":     164.08,
		"fiftyTwoWeekHigh":    199.62,
		"dividendYield":       0.0051,
		"longBusinessSummary": "Apple designs <b>phones</b>.",
	}, nil
}

func newTestRouter(t *testing.T) (*gin.Engine, *stubProvider) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	provider := &stubProvider{}
	svc := service.NewMarketDataService(testTracer, provider, cache.NewMemoryStore(), time.Hour, nil)
	h := New(testTracer, svc, nil)
	h.now = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }

	r := gin.New()
	h.RegisterRoutes(r)
	return r, provider
}

func get(r http.Handler, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	r, _ := newTestRouter(t)

	w := get(r, "/health")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "2024-06-01T12:00:00Z", body["time"])
}

func TestIndexShowsIdleView(t *testing.T) {
	r, provider := newTestRouter(t)

	w := get(r, "/")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()

	assert.Contains(t, body, "Stock Data Visualization Tool")
	assert.Contains(t, body, "Enter a stock symbol in the sidebar and click &#39;Fetch Stock Data&#39; to begin.")
	assert.Contains(t, body, "Popular Stocks")
	assert.Contains(t, body, "JPMorgan Chase &amp; Co.")
	assert.Contains(t, body, `value="2023-06-02"`)
	assert.Contains(t, body, "Data provided by Yahoo Finance.")
	assert.NotContains(t, body, "Plotly.newPlot")
	assert.Zero(t, provider.barsCalls)
}

func TestDashboardRendersResult(t *testing.T) {
	r, _ := newTestRouter(t)

	w := get(r, "/dashboard?symbol=aapl&mode=preset&period=1y&interval=1d")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()

	assert.Contains(t, body, "Apple Inc. (AAPL)")
	assert.Contains(t, body, "$189.50")
	assert.Contains(t, body, "$2950.00B")
	assert.Contains(t, body, "$164.08 - $199.62")
	assert.Contains(t, body, "0.51%")
	assert.Contains(t, body, "Plotly.newPlot")
	assert.Contains(t, body, `download="AAPL_data.csv"`)
	assert.Contains(t, body, "data:file/csv;base64,")
	assert.Contains(t, body, "About the Company")
	assert.Contains(t, body, "Apple designs &lt;b&gt;phones&lt;/b&gt;.")
	assert.NotContains(t, body, "Popular Stocks")
}

func TestDashboardEmptySymbol(t *testing.T) {
	r, provider := newTestRouter(t)

	w := get(r, "/dashboard?symbol=+++")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()

	assert.Contains(t, body, "Please enter a stock symbol")
	assert.Contains(t, body, "Popular Stocks")
	assert.Zero(t, provider.barsCalls)
}

func TestDashboardUnknownSymbol(t *testing.T) {
	r, _ := newTestRouter(t)

	w := get(r, "/dashboard?symbol=ZZZZINVALID")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()

	assert.Equal(t, 1, strings.Count(body, "Could not retrieve data for ZZZZINVALID."))
	assert.NotContains(t, body, "Plotly.newPlot")
	assert.NotContains(t, body, "Download CSV File")
}

func TestDashboardRejectsBadQuery(t *testing.T) {
	r, provider := newTestRouter(t)

	w := get(r, "/dashboard?symbol=AAPL&interval=2h")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid input")
	assert.Zero(t, provider.barsCalls)
}

func TestDashboardDateMode(t *testing.T) {
	r, provider := newTestRouter(t)

	w := get(r, "/dashboard?symbol=AAPL&mode=dates&start=2024-01-01&end=2024-02-01&period=1y")
	require.Equal(t, http.StatusOK, w.Code)
	require.False(t, provider.lastRange.IsPreset())
	assert.Equal(t, "2024-01-01", provider.lastRange.Start.Format(time.DateOnly))
	assert.Equal(t, "2024-02-01", provider.lastRange.End.Format(time.DateOnly))
}

func TestGetSeries(t *testing.T) {
	r, provider := newTestRouter(t)

	w := get(r, "/api/series/aapl?period=6mo&interval=1wk")
	require.Equal(t, http.StatusOK, w.Code)

	var series domain.PriceSeries
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &series))
	assert.Equal(t, "AAPL", series.Symbol)
	assert.Len(t, series.Bars, 2)
	assert.Equal(t, domain.PresetRange(domain.Period6M), provider.lastRange)
}

func TestGetSeriesInfersDateRange(t *testing.T) {
	r, provider := newTestRouter(t)

	w := get(r, "/api/series/AAPL?start=2024-01-01&end=2024-03-01")
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, provider.lastRange.IsPreset())
}

func TestGetSeriesErrors(t *testing.T) {
	r, _ := newTestRouter(t)

	tests := []struct {
		name   string
		target string
		status int
	}{
		{"unknown symbol", "/api/series/ZZZZINVALID", http.StatusNotFound},
		{"blank symbol", "/api/series/%20", http.StatusBadRequest},
		{"bad period", "/api/series/AAPL?period=7y", http.StatusBadRequest},
		{"bad date", "/api/series/AAPL?start=01-01-2024", http.StatusBadRequest},
		{"reversed dates", "/api/series/AAPL?mode=dates&start=2024-03-01&end=2024-01-01", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(r, tt.target)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}
}

func TestGetSnapshotAndMetrics(t *testing.T) {
	r, _ := newTestRouter(t)

	w := get(r, "/api/snapshot/AAPL")
	require.Equal(t, http.StatusOK, w.Code)
	var snapshot map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snapshot))
	assert.Equal(t, "Apple Inc.", snapshot["shortName"])

	w = get(r, "/api/metrics/AAPL")
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Symbol   string `json:"symbol"`
		Name     string `json:"name"`
		Headline struct {
			CurrentPrice string `json:"current_price"`
		} `json:"headline"`
		Metrics []domain.DisplayMetric `json:"metrics"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Apple Inc.", resp.Name)
	assert.Equal(t, "$189.50", resp.Headline.CurrentPrice)
	assert.Contains(t, resp.Metrics, domain.DisplayMetric{Label: "Dividend Yield", Value: "0.51%"})

	w = get(r, "/api/metrics/NOPE")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetChartWithOverlays(t *testing.T) {
	r, _ := newTestRouter(t)

	w := get(r, "/api/chart/AAPL?overlays=sma20,ema20")
	require.Equal(t, http.StatusOK, w.Code)

	var fig struct {
		Data []struct {
			Name string `json:"name"`
		} `json:"data"`
		Layout struct {
			Height int `json:"height"`
		} `json:"layout"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fig))
	require.Len(t, fig.Data, 4)
	assert.Equal(t, "SMA 20", fig.Data[2].Name)
	assert.Equal(t, 600, fig.Layout.Height)
}

func TestExportCSV(t *testing.T) {
	r, _ := newTestRouter(t)

	w := get(r, "/api/export/aapl")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="AAPL_data.csv"`, w.Header().Get("Content-Disposition"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "Date,Open,High,Low,Close,Volume\n2024-01-02,187.15"))
}

func TestRequestIDAndAccessLog(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.InfoLevel)

	r := gin.New()
	r.Use(RequestID(), AccessLog(zap.New(core)))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	w := get(r, "/ping")
	id := w.Header().Get(RequestIDHeader)
	assert.Len(t, id, 36)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "abc")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc", w.Header().Get(RequestIDHeader))

	entries := logs.FilterMessage("http request").All()
	require.Len(t, entries, 2)
	fields := entries[1].ContextMap()
	assert.Equal(t, "abc", fields["request_id"])
	assert.Equal(t, int64(200), fields["status"])
	assert.Equal(t, "/ping", fields["path"])
}
