package handler

import (
	"time"

	"tickerdash/internal/chart"
	"tickerdash/internal/dashboard"
	"tickerdash/internal/domain"
)

// rangeQuery carries the range and interval controls. Empty fields keep the
// dashboard defaults.
type rangeQuery struct {
	Mode     string `form:"mode" binding:"omitempty,oneof=preset dates"`
	Period   string `form:"period" binding:"omitempty,oneof=1d 5d 1mo 3mo 6mo 1y 2y 5y 10y ytd max"`
	Interval string `form:"interval" binding:"omitempty,oneof=1d 5d 1wk 1mo 3mo"`
	Start    string `form:"start" binding:"omitempty,datetime=2006-01-02"`
	End      string `form:"end" binding:"omitempty,datetime=2006-01-02"`
	Overlays string `form:"overlays"`
}

type pageQuery struct {
	rangeQuery
	Symbol string `form:"symbol"`
}

// apply overlays the query on top of in. The API infers date mode when both
// dates are given and no mode is named.
func (q rangeQuery) apply(in dashboard.Inputs) dashboard.Inputs {
	if q.Period != "" {
		in.Period = domain.Period(q.Period)
	}
	if q.Interval != "" {
		in.Interval = domain.Interval(q.Interval)
	}
	if t, err := time.Parse(time.DateOnly, q.Start); err == nil {
		in.Start = t
	}
	if t, err := time.Parse(time.DateOnly, q.End); err == nil {
		in.End = t
	}
	switch q.Mode {
	case "dates":
		in.Mode = dashboard.ModeDates
	case "preset":
		in.Mode = dashboard.ModePreset
	default:
		if q.Start != "" && q.End != "" && q.Period == "" {
			in.Mode = dashboard.ModeDates
		}
	}
	in.Overlays = chart.ParseOverlays(q.Overlays)
	return in
}
