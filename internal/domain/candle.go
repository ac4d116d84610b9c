package domain

import (
	"sort"
	"time"
)

// Bar represents a single OHLCV record for one sampling interval.
type Bar struct {
	Time     time.Time `json:"time"`
	Open     float64   `json:"open"`
	High     float64   `json:"high"`
	Low      float64   `json:"low"`
	Close    float64   `json:"close"`
	AdjClose float64   `json:"adj_close,omitempty"`
	Volume   int64     `json:"volume"`
}

// PriceSeries is a time-ordered bar series for one symbol and interval.
// Bars are strictly increasing by Time.
type PriceSeries struct {
	Symbol      string   `json:"symbol"`
	Interval    Interval `json:"interval"`
	Timezone    string   `json:"timezone,omitempty"`
	HasAdjClose bool     `json:"has_adj_close"`
	Bars        []Bar    `json:"bars"`
}

func (s *PriceSeries) Empty() bool {
	return s == nil || len(s.Bars) == 0
}

// Span returns the time between the first and last bar.
func (s *PriceSeries) Span() time.Duration {
	if s.Empty() {
		return 0
	}
	return s.Bars[len(s.Bars)-1].Time.Sub(s.Bars[0].Time)
}

// Closes returns the close column in bar order.
func (s *PriceSeries) Closes() []float64 {
	if s == nil {
		return nil
	}
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Close
	}
	return out
}

// NormalizeBars sorts bars ascending and drops duplicate timestamps,
// keeping the last occurrence.
func NormalizeBars(bars []Bar) []Bar {
	if len(bars) == 0 {
		return bars
	}
	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })

	out := bars[:0]
	for _, b := range bars {
		if n := len(out); n > 0 && out[n-1].Time.Equal(b.Time) {
			out[n-1] = b
			continue
		}
		out = append(out, b)
	}
	return out
}
