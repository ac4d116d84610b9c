// Package dashboard holds the presentation flow shared by the web, SSH and
// Telegram surfaces: the user's selections, the fetch state machine and the
// view model every renderer draws from.
package dashboard

import (
	"strings"
	"time"

	"tickerdash/internal/chart"
	"tickerdash/internal/domain"
)

// DefaultSymbol pre-fills the symbol field.
const DefaultSymbol = "AAPL"

// RangeMode selects which half of the range controls is active.
type RangeMode int

const (
	ModePreset RangeMode = iota
	ModeDates
)

func (m RangeMode) String() string {
	if m == ModeDates {
		return "dates"
	}
	return "preset"
}

// Inputs are the current control values. They never trigger a fetch.
type Inputs struct {
	Symbol   string
	Mode     RangeMode
	Period   domain.Period
	Start    time.Time
	End      time.Time
	Interval domain.Interval
	Overlays []chart.Overlay
}

// DefaultInputs selects a one-year preset at daily interval, with the date
// pickers set to the year ending now.
func DefaultInputs(now time.Time) Inputs {
	return Inputs{
		Symbol:   DefaultSymbol,
		Mode:     ModePreset,
		Period:   domain.DefaultPeriod,
		Start:    now.AddDate(0, 0, -365),
		End:      now,
		Interval: domain.DefaultInterval,
	}
}

// NormalizedSymbol is the uppercased symbol. Blank stays blank.
func (in Inputs) NormalizedSymbol() string {
	return domain.NormalizeSymbol(in.Symbol)
}

// Request builds the fetch request for the active range mode.
func (in Inputs) Request() domain.FetchRequest {
	req := domain.FetchRequest{
		Symbol:   in.NormalizedSymbol(),
		Interval: in.Interval,
	}
	if in.Mode == ModeDates {
		req.Range = domain.DateRange(truncateDay(in.Start), truncateDay(in.End))
	} else {
		req.Range = domain.PresetRange(in.Period)
	}
	return req
}

// CyclePeriod advances the preset selection, wrapping at the end.
func (in *Inputs) CyclePeriod(step int) {
	in.Period = cycle(domain.SupportedPeriods, in.Period, step)
}

// CycleInterval advances the interval selection, wrapping at the end.
func (in *Inputs) CycleInterval(step int) {
	in.Interval = cycle(domain.SupportedIntervals, in.Interval, step)
}

func (in Inputs) OverlayList() string {
	names := make([]string, len(in.Overlays))
	for i, o := range in.Overlays {
		names[i] = string(o)
	}
	return strings.Join(names, ",")
}

func cycle[T comparable](values []T, current T, step int) T {
	idx := 0
	for i, v := range values {
		if v == current {
			idx = i
			break
		}
	}
	n := len(values)
	return values[((idx+step)%n+n)%n]
}

func truncateDay(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
