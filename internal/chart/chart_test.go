package chart

import (
	"encoding/json"
	"testing"
	"time"

	"tickerdash/internal/domain"

	grob "github.com/MetalBlueberry/go-plotly/generated/v2.34.0/graph_objects"
	"github.com/MetalBlueberry/go-plotly/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func series(n int) *domain.PriceSeries {
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	bars := make([]domain.Bar, n)
	for i := range bars {
		p := float64(100 + i)
		bars[i] = domain.Bar{Time: start.AddDate(0, 0, i), Open: p, High: p + 1, Low: p - 1, Close: p + 0.5, Volume: int64(1000 * (i + 1))}
	}
	return &domain.PriceSeries{Symbol: "AAPL", Interval: domain.Interval1D, Bars: bars}
}

func TestBuildDefaultFigure(t *testing.T) {
	fig := Build("AAPL", series(3), Options{})

	require.Len(t, fig.Data, 2)
	candle, ok := fig.Data[0].(*grob.Candlestick)
	require.True(t, ok)
	volume, ok := fig.Data[1].(*grob.Bar)
	require.True(t, ok)

	assert.Equal(t, types.S("Candlestick"), candle.Name)
	assert.Equal(t, []string{"2024-01-02", "2024-01-03", "2024-01-04"}, candle.X.Value())
	assert.Equal(t, []float64{100, 101, 102}, candle.Open.Value())
	assert.Equal(t, []float64{100.5, 101.5, 102.5}, candle.Close.Value())
	assert.Empty(t, candle.Yaxis)

	assert.Equal(t, types.S("Volume"), volume.Name)
	assert.Equal(t, types.S("y2"), volume.Yaxis)
	assert.Equal(t, []int64{1000, 2000, 3000}, volume.Y.Value())

	l := fig.Layout
	require.NotNil(t, l)
	assert.Equal(t, types.S("AAPL Stock Price and Volume"), l.Title.Text)
	assert.Equal(t, types.S("Date"), l.Xaxis.Title.Text)
	assert.Equal(t, types.S("Price ($)"), l.Yaxis.Title.Text)
	require.NotNil(t, l.YAxis2)
	assert.Equal(t, types.S("Volume"), l.YAxis2.Title.Text)
	assert.Equal(t, grob.LayoutYaxisOverlaying("y"), l.YAxis2.Overlaying)
	assert.Equal(t, grob.LayoutYaxisSideRight, l.YAxis2.Side)
	require.NotNil(t, l.YAxis2.Showgrid)
	assert.False(t, *l.YAxis2.Showgrid)
	assert.Equal(t, float64(600), *l.Height)
	assert.Equal(t, grob.LayoutHovermodeXUnified, l.Hovermode)
	assert.Equal(t, grob.LayoutLegendOrientationH, l.Legend.Orientation)
}

func TestBuildWithOverlays(t *testing.T) {
	fig := Build("MSFT", series(25), Options{Overlays: []Overlay{SMA20, EMA20}})

	require.Len(t, fig.Data, 4)
	sma, ok := fig.Data[2].(*grob.Scatter)
	require.True(t, ok)
	assert.Equal(t, types.S("SMA 20"), sma.Name)
	assert.Equal(t, grob.ScatterModeLines, sma.Mode)

	values, ok := sma.Y.Value().([]*float64)
	require.True(t, ok)
	require.Len(t, values, 25)
	assert.Nil(t, values[18])
	require.NotNil(t, values[19])
	assert.InDelta(t, 110.0, *values[19], 1e-9)

	ema, ok := fig.Data[3].(*grob.Scatter)
	require.True(t, ok)
	assert.Equal(t, types.S("EMA 20"), ema.Name)
}

func TestBuildEmptySeries(t *testing.T) {
	fig := Build("NONE", nil, Options{})
	require.Len(t, fig.Data, 2)
	assert.Empty(t, fig.Data[0].(*grob.Candlestick).X.Value())

	raw, err := JSON(fig)
	require.NoError(t, err)
	assert.Contains(t, raw, `"x":[]`)
}

func TestFigureJSONUsesPlotlyKeys(t *testing.T) {
	raw, err := JSON(Build("AAPL", series(2), Options{Overlays: []Overlay{SMA50}}))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &decoded))
	layout := decoded["layout"].(map[string]any)
	assert.Equal(t, "x unified", layout["hovermode"])
	assert.Equal(t, float64(600), layout["height"])
	yaxis2 := layout["yaxis2"].(map[string]any)
	assert.Equal(t, false, yaxis2["showgrid"])
	assert.Equal(t, "y", yaxis2["overlaying"])
	assert.Equal(t, "right", yaxis2["side"])

	traces := decoded["data"].([]any)
	require.Len(t, traces, 3)
	candle := traces[0].(map[string]any)
	assert.Equal(t, "candlestick", candle["type"])
	volume := traces[1].(map[string]any)
	assert.Equal(t, "bar", volume["type"])
	assert.Equal(t, "y2", volume["yaxis"])
	assert.Equal(t, "rgba(0, 0, 255, 0.3)", volume["marker"].(map[string]any)["color"])
	overlay := traces[2].(map[string]any)
	assert.Equal(t, "scatter", overlay["type"])
	assert.Equal(t, []any{nil, nil}, overlay["y"])
}

func TestParseOverlays(t *testing.T) {
	assert.Equal(t, []Overlay{SMA20, EMA20}, ParseOverlays("sma20, EMA20,bogus"))
	assert.Empty(t, ParseOverlays(""))
}
