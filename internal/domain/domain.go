package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Asset is a ticker symbol paired with its company name.
type Asset struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

// PopularSymbols is the static listing shown before the first fetch.
var PopularSymbols = []Asset{
	{Symbol: "AAPL", Name: "Apple Inc."},
	{Symbol: "MSFT", Name: "Microsoft Corporation"},
	{Symbol: "GOOGL", Name: "Alphabet Inc."},
	{Symbol: "AMZN", Name: "Amazon.com, Inc."},
	{Symbol: "TSLA", Name: "Tesla, Inc."},
	{Symbol: "META", Name: "Meta Platforms, Inc."},
	{Symbol: "NVDA", Name: "NVIDIA Corporation"},
	{Symbol: "JPM", Name: "JPMorgan Chase & Co."},
	{Symbol: "V", Name: "Visa Inc."},
	{Symbol: "WMT", Name: "Walmart Inc."},
}

// Period is a named relative time range resolved by the data provider.
type Period string

const (
	Period1D  Period = "1d"
	Period5D  Period = "5d"
	Period1M  Period = "1mo"
	Period3M  Period = "3mo"
	Period6M  Period = "6mo"
	Period1Y  Period = "1y"
	Period2Y  Period = "2y"
	Period5Y  Period = "5y"
	Period10Y Period = "10y"
	PeriodYTD Period = "ytd"
	PeriodMax Period = "max"
)

// SupportedPeriods lists presets in the order the UI offers them.
var SupportedPeriods = []Period{
	Period1D, Period5D, Period1M, Period3M, Period6M,
	Period1Y, Period2Y, Period5Y, Period10Y, PeriodYTD, PeriodMax,
}

const DefaultPeriod = Period1Y

// Interval is the sampling granularity of a bar series.
type Interval string

const (
	Interval1D Interval = "1d"
	Interval5D Interval = "5d"
	Interval1W Interval = "1wk"
	Interval1M Interval = "1mo"
	Interval3M Interval = "3mo"
)

// SupportedIntervals lists intervals in the order the UI offers them.
var SupportedIntervals = []Interval{Interval1D, Interval5D, Interval1W, Interval1M, Interval3M}

const DefaultInterval = Interval1D

// TimeRange is either a preset Period or an explicit Start/End date pair.
// Exactly one of the two forms is set.
type TimeRange struct {
	Period Period    `json:"period,omitempty"`
	Start  time.Time `json:"start,omitempty"`
	End    time.Time `json:"end,omitempty"`
}

func PresetRange(p Period) TimeRange {
	return TimeRange{Period: p}
}

func DateRange(start, end time.Time) TimeRange {
	return TimeRange{Start: start, End: end}
}

// IsPreset reports whether the range is resolved by the provider.
func (r TimeRange) IsPreset() bool {
	return r.Period != ""
}

// Key is the cache-key fragment identifying the range.
func (r TimeRange) Key() string {
	if r.IsPreset() {
		return "p=" + string(r.Period)
	}
	return fmt.Sprintf("s=%s,e=%s", r.Start.Format(time.DateOnly), r.End.Format(time.DateOnly))
}

// Resolve returns concrete start and end times for the range relative to now.
// Explicit ranges are returned unchanged.
func (r TimeRange) Resolve(now time.Time) (time.Time, time.Time) {
	if !r.IsPreset() {
		return r.Start, r.End
	}
	switch r.Period {
	case Period1D:
		return now.AddDate(0, 0, -1), now
	case Period5D:
		return now.AddDate(0, 0, -5), now
	case Period1M:
		return now.AddDate(0, -1, 0), now
	case Period3M:
		return now.AddDate(0, -3, 0), now
	case Period6M:
		return now.AddDate(0, -6, 0), now
	case Period1Y:
		return now.AddDate(-1, 0, 0), now
	case Period2Y:
		return now.AddDate(-2, 0, 0), now
	case Period5Y:
		return now.AddDate(-5, 0, 0), now
	case Period10Y:
		return now.AddDate(-10, 0, 0), now
	case PeriodYTD:
		return time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location()), now
	default:
		return time.Unix(0, 0).UTC(), now
	}
}

func (r TimeRange) String() string {
	if r.IsPreset() {
		return string(r.Period)
	}
	return r.Start.Format(time.DateOnly) + " to " + r.End.Format(time.DateOnly)
}

// FetchRequest identifies one series fetch: symbol, range and interval.
type FetchRequest struct {
	Symbol   string    `json:"symbol"`
	Range    TimeRange `json:"range"`
	Interval Interval  `json:"interval"`
}

type requestRules struct {
	Period   Period    `validate:"omitempty,oneof=1d 5d 1mo 3mo 6mo 1y 2y 5y 10y ytd max"`
	Interval Interval  `validate:"required,oneof=1d 5d 1wk 1mo 3mo"`
	Start    time.Time `validate:"required_without=Period"`
	End      time.Time `validate:"required_without=Period"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// NormalizeSymbol trims and uppercases a user supplied ticker.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// Validate checks the request invariants. A blank symbol returns ErrEmptySymbol.
func (r FetchRequest) Validate() error {
	if strings.TrimSpace(r.Symbol) == "" {
		return ErrEmptySymbol
	}
	if r.Range.IsPreset() && (!r.Range.Start.IsZero() || !r.Range.End.IsZero()) {
		return fmt.Errorf("%w: both a preset period and explicit dates are set", ErrInvalidRequest)
	}
	rules := requestRules{
		Period:   r.Range.Period,
		Interval: r.Interval,
		Start:    r.Range.Start,
		End:      r.Range.End,
	}
	if err := validate.Struct(rules); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if !r.Range.IsPreset() && r.Range.End.Before(r.Range.Start) {
		return fmt.Errorf("%w: start date is after end date", ErrInvalidRequest)
	}
	return nil
}

// CacheKey identifies the request in the series cache.
func (r FetchRequest) CacheKey() string {
	return "series:" + NormalizeSymbol(r.Symbol) + ":" + r.Range.Key() + ":" + string(r.Interval)
}

func ParsePeriod(s string) (Period, bool) {
	for _, p := range SupportedPeriods {
		if string(p) == s {
			return p, true
		}
	}
	return "", false
}

func ParseInterval(s string) (Interval, bool) {
	for _, i := range SupportedIntervals {
		if string(i) == s {
			return i, true
		}
	}
	return "", false
}
