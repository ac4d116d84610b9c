// Package chart builds the Plotly figure for a price series: candlesticks on
// the primary axis and volume bars on a secondary axis overlaying it.
package chart

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"tickerdash/internal/domain"
	"tickerdash/internal/ta"

	grob "github.com/MetalBlueberry/go-plotly/generated/v2.34.0/graph_objects"
	"github.com/MetalBlueberry/go-plotly/pkg/types"
)

const (
	Height         = 600
	VolumeColor    = "rgba(0, 0, 255, 0.3)"
	dateLayout     = time.DateOnly
	candleName     = "Candlestick"
	volumeName     = "Volume"
	secondaryYAxis = "y2"
)

// Overlay is an optional moving average drawn over the candlesticks.
type Overlay string

const (
	SMA20  Overlay = "sma20"
	SMA50  Overlay = "sma50"
	SMA200 Overlay = "sma200"
	EMA20  Overlay = "ema20"
)

var SupportedOverlays = []Overlay{SMA20, SMA50, SMA200, EMA20}

var overlayColors = map[Overlay]string{
	SMA20:  "#ff7f0e",
	SMA50:  "#2ca02c",
	SMA200: "#d62728",
	EMA20:  "#9467bd",
}

// ParseOverlays reads a comma-separated overlay list, ignoring unknown names.
func ParseOverlays(s string) []Overlay {
	var out []Overlay
	for _, part := range strings.Split(s, ",") {
		name := Overlay(strings.ToLower(strings.TrimSpace(part)))
		for _, o := range SupportedOverlays {
			if o == name {
				out = append(out, o)
				break
			}
		}
	}
	return out
}

func (o Overlay) window() (int, bool) {
	switch o {
	case SMA20:
		return 20, false
	case SMA50:
		return 50, false
	case SMA200:
		return 200, false
	case EMA20:
		return 20, true
	}
	return 0, false
}

func (o Overlay) label() string {
	n, exp := o.window()
	if exp {
		return fmt.Sprintf("EMA %d", n)
	}
	return fmt.Sprintf("SMA %d", n)
}

// Figure is the Plotly figure handed to Plotly.newPlot.
type Figure = grob.Fig

type Options struct {
	Overlays []Overlay
}

// Build returns the figure for series. It has no side effects; an empty
// series yields a figure with empty traces.
func Build(symbol string, series *domain.PriceSeries, opts Options) *Figure {
	var bars []domain.Bar
	if series != nil {
		bars = series.Bars
	}

	x := make([]string, len(bars))
	open := make([]float64, len(bars))
	high := make([]float64, len(bars))
	low := make([]float64, len(bars))
	closes := make([]float64, len(bars))
	volume := make([]int64, len(bars))
	for i, b := range bars {
		x[i] = b.Time.Format(dateLayout)
		open[i], high[i], low[i], closes[i] = b.Open, b.High, b.Low, b.Close
		volume[i] = b.Volume
	}

	fig := &grob.Fig{}
	fig.AddTraces(
		&grob.Candlestick{
			Name:  types.S(candleName),
			X:     types.DataArray(x),
			Open:  types.DataArray(open),
			High:  types.DataArray(high),
			Low:   types.DataArray(low),
			Close: types.DataArray(closes),
		},
		&grob.Bar{
			Name:   types.S(volumeName),
			X:      types.DataArray(x),
			Y:      types.DataArray(volume),
			Yaxis:  types.S(secondaryYAxis),
			Marker: &grob.BarMarker{Color: types.ArrayOKValue(types.UseColor(VolumeColor))},
		},
	)
	for _, o := range opts.Overlays {
		n, exp := o.window()
		if n == 0 {
			continue
		}
		values := ta.SMASeries(closes, n)
		if exp {
			values = ta.EMASeries(closes, n)
		}
		fig.AddTraces(&grob.Scatter{
			Mode: grob.ScatterModeLines,
			Name: types.S(o.label()),
			X:    types.DataArray(x),
			Y:    types.DataArray(ta.Nullable(values)),
			Line: &grob.ScatterLine{Color: types.C(overlayColors[o]), Width: types.N(1.5)},
		})
	}

	fig.Layout = &grob.Layout{
		Title: &grob.LayoutTitle{Text: types.S(fmt.Sprintf("%s Stock Price and Volume", symbol))},
		Xaxis: &grob.LayoutXaxis{Title: &grob.LayoutXaxisTitle{Text: "Date"}},
		Yaxis: &grob.LayoutYaxis{Title: &grob.LayoutYaxisTitle{Text: "Price ($)"}},
		YAxis2: &grob.LayoutYaxis{
			Title:      &grob.LayoutYaxisTitle{Text: "Volume"},
			Overlaying: "y",
			Side:       grob.LayoutYaxisSideRight,
			Showgrid:   types.False,
		},
		Height:    types.N(Height),
		Hovermode: grob.LayoutHovermodeXUnified,
		Legend: &grob.LayoutLegend{
			Orientation: grob.LayoutLegendOrientationH,
			Yanchor:     grob.LayoutLegendYanchorBottom,
			Y:           types.N(1.02),
			Xanchor:     grob.LayoutLegendXanchorRight,
			X:           types.N(1),
		},
	}
	return fig
}

// JSON encodes fig for Plotly.newPlot.
func JSON(fig *Figure) (string, error) {
	data, err := json.Marshal(fig)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
