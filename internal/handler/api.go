package handler

import (
	"errors"
	"fmt"
	"net/http"

	"tickerdash/internal/chart"
	"tickerdash/internal/dashboard"
	"tickerdash/internal/domain"
	"tickerdash/internal/export"
	"tickerdash/internal/metrics"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

// MetricsResponse is the formatted view of a company snapshot.
type MetricsResponse struct {
	Symbol   string                 `json:"symbol"`
	Name     string                 `json:"name,omitempty"`
	Headline metrics.Headline       `json:"headline"`
	Metrics  []domain.DisplayMetric `json:"metrics"`
	Summary  string                 `json:"summary,omitempty"`
}

// request binds the symbol path parameter and range query into a request.
func (h *Handler) request(c *gin.Context) (domain.FetchRequest, dashboard.Inputs, bool) {
	var q rangeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return domain.FetchRequest{}, dashboard.Inputs{}, false
	}
	in := q.apply(dashboard.DefaultInputs(h.now()))
	in.Symbol = c.Param("symbol")
	return in.Request(), in, true
}

func (h *Handler) writeError(c *gin.Context, symbol string, err error) {
	switch {
	case errors.Is(err, domain.ErrEmptySymbol):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please enter a stock symbol"})
	case errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": fmt.Sprintf("Could not retrieve data for %s. Please verify the stock symbol and try again.", symbol),
		})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// GetSeries godoc
// @Summary      Get historical OHLCV bars
// @Description  Returns the bar series for a symbol over a preset period or an explicit date range
// @Tags         market-data
// @Produce      json
// @Param        symbol    path   string  true   "Ticker symbol (e.g., AAPL)"
// @Param        period    query  string  false  "Preset period (1d, 5d, 1mo, 3mo, 6mo, 1y, 2y, 5y, 10y, ytd, max)"  default(1y)
// @Param        interval  query  string  false  "Interval (1d, 5d, 1wk, 1mo, 3mo)"  default(1d)
// @Param        start     query  string  false  "Start date (YYYY-MM-DD)"
// @Param        end       query  string  false  "End date (YYYY-MM-DD, exclusive)"
// @Success      200  {object}  domain.PriceSeries
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/series/{symbol} [get]
func (h *Handler) GetSeries(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-series")
	defer span.End()

	req, _, ok := h.request(c)
	if !ok {
		return
	}
	span.SetAttributes(attribute.String("symbol", req.Symbol))

	series, err := h.data.FetchSeries(ctx, req)
	if err != nil {
		h.writeError(c, req.Symbol, err)
		return
	}
	c.JSON(http.StatusOK, series)
}

// GetSnapshot godoc
// @Summary      Get company snapshot
// @Description  Returns the raw company attributes for a symbol
// @Tags         market-data
// @Produce      json
// @Param        symbol  path  string  true  "Ticker symbol (e.g., AAPL)"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/snapshot/{symbol} [get]
func (h *Handler) GetSnapshot(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-snapshot")
	defer span.End()

	symbol := domain.NormalizeSymbol(c.Param("symbol"))
	span.SetAttributes(attribute.String("symbol", symbol))

	snapshot, err := h.data.FetchSnapshot(ctx, symbol)
	if err != nil {
		h.writeError(c, symbol, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

// GetMetrics godoc
// @Summary      Get formatted metrics
// @Description  Returns the headline figures and the formatted metrics table for a symbol
// @Tags         market-data
// @Produce      json
// @Param        symbol  path  string  true  "Ticker symbol (e.g., AAPL)"
// @Success      200  {object}  MetricsResponse
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/metrics/{symbol} [get]
func (h *Handler) GetMetrics(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-metrics")
	defer span.End()

	symbol := domain.NormalizeSymbol(c.Param("symbol"))
	span.SetAttributes(attribute.String("symbol", symbol))

	snapshot, err := h.data.FetchSnapshot(ctx, symbol)
	if err != nil {
		h.writeError(c, symbol, err)
		return
	}
	resp := MetricsResponse{
		Symbol:   symbol,
		Headline: metrics.BuildHeadline(snapshot),
		Metrics:  metrics.Format(snapshot),
	}
	resp.Name, _ = snapshot.String("shortName")
	resp.Summary, _ = snapshot.String("longBusinessSummary")
	c.JSON(http.StatusOK, resp)
}

// GetChart godoc
// @Summary      Get chart figure
// @Description  Returns the Plotly figure (candlestick and volume, optional moving averages) for a symbol
// @Tags         market-data
// @Produce      json
// @Param        symbol    path   string  true   "Ticker symbol (e.g., AAPL)"
// @Param        period    query  string  false  "Preset period"  default(1y)
// @Param        interval  query  string  false  "Interval"  default(1d)
// @Param        start     query  string  false  "Start date (YYYY-MM-DD)"
// @Param        end       query  string  false  "End date (YYYY-MM-DD, exclusive)"
// @Param        overlays  query  string  false  "Comma-separated overlays (sma20, sma50, sma200, ema20)"
// @Success      200  {object}  chart.Figure
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/chart/{symbol} [get]
func (h *Handler) GetChart(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-chart")
	defer span.End()

	req, in, ok := h.request(c)
	if !ok {
		return
	}
	span.SetAttributes(attribute.String("symbol", req.Symbol))

	series, err := h.data.FetchSeries(ctx, req)
	if err != nil {
		h.writeError(c, req.Symbol, err)
		return
	}
	c.JSON(http.StatusOK, chart.Build(req.Symbol, series, chart.Options{Overlays: in.Overlays}))
}

// ExportCSV godoc
// @Summary      Download bars as CSV
// @Description  Returns the bar series as a CSV attachment named {SYMBOL}_data.csv
// @Tags         market-data
// @Produce      text/csv
// @Param        symbol    path   string  true   "Ticker symbol (e.g., AAPL)"
// @Param        period    query  string  false  "Preset period"  default(1y)
// @Param        interval  query  string  false  "Interval"  default(1d)
// @Param        start     query  string  false  "Start date (YYYY-MM-DD)"
// @Param        end       query  string  false  "End date (YYYY-MM-DD, exclusive)"
// @Success      200  {string}  string
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/export/{symbol} [get]
func (h *Handler) ExportCSV(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.export-csv")
	defer span.End()

	req, _, ok := h.request(c)
	if !ok {
		return
	}
	span.SetAttributes(attribute.String("symbol", req.Symbol))

	series, err := h.data.FetchSeries(ctx, req)
	if err != nil {
		h.writeError(c, req.Symbol, err)
		return
	}
	data, err := export.CSV(series)
	if err != nil {
		h.writeError(c, req.Symbol, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, export.Filename(req.Symbol)))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}
