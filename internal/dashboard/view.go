package dashboard

import (
	"fmt"
	"time"

	"tickerdash/internal/chart"
	"tickerdash/internal/domain"
	"tickerdash/internal/export"
	"tickerdash/internal/metrics"
)

const (
	Title        = "Stock Data Visualization Tool"
	Intro        = "This application fetches financial data from Yahoo Finance based on the stock symbol you provide. You can view key financial metrics, analyze stock price trends, and download the data as a CSV file."
	Instructions = "Enter a stock symbol in the sidebar and click 'Fetch Stock Data' to begin."
	Footer       = "Data provided by Yahoo Finance. This tool is for informational purposes only."
	SummaryTitle = "About the Company"
)

// View is everything a renderer needs for one screen. Exactly one of the
// idle listing or the result sections is populated.
type View struct {
	State        State
	Inputs       Inputs
	Error        string
	BusyMessage  string
	Idle         bool
	Instructions string
	Popular      []domain.Asset

	Header   string
	Caption  string
	Headline metrics.Headline
	Figure   *chart.Figure
	Closes   []float64
	Metrics  []domain.DisplayMetric
	Columns  []string
	Rows     [][]string
	Download export.Download
	Summary  string
}

// HasSummary reports whether the collapsible company section is shown.
func (v View) HasSummary() bool {
	return v.Summary != ""
}

// View builds the view for the shell's current state.
func (s *Shell) View() View {
	state, inputs, result, message := s.Snapshot()
	return BuildView(state, inputs, result, message)
}

// BuildView maps a state and its data to a view. Result is only read in
// StateSuccess.
func BuildView(state State, inputs Inputs, result *Result, message string) View {
	v := View{State: state, Inputs: inputs}

	switch state {
	case StateFetching:
		v.BusyMessage = fmt.Sprintf("Fetching data for %s...", inputs.NormalizedSymbol())
		return v
	case StateSuccess:
		if result != nil {
			if err := fillResult(&v, result); err == nil {
				return v
			}
			// An empty or unexportable series is reported like any other failure.
			v = View{State: StateFailed, Inputs: inputs}
			message = fmt.Sprintf(notFoundFormat, result.Request.Symbol)
		}
	}

	v.Error = message
	v.Idle = true
	v.Instructions = Instructions
	v.Popular = domain.PopularSymbols
	return v
}

func fillResult(v *View, r *Result) error {
	symbol := r.Request.Symbol
	if r.Series.Empty() {
		return domain.ErrNotFound
	}
	download, err := export.Link(r.Series)
	if err != nil {
		return err
	}

	name := symbol
	if short, ok := r.Snapshot.String("shortName"); ok && short != "" {
		name = short
	}
	v.Header = fmt.Sprintf("%s (%s)", name, symbol)
	v.Caption = caption(r.Request, r.Series)
	v.Headline = metrics.BuildHeadline(r.Snapshot)
	v.Figure = chart.Build(symbol, r.Series, chart.Options{Overlays: v.Inputs.Overlays})
	v.Closes = r.Series.Closes()
	v.Metrics = metrics.Format(r.Snapshot)
	v.Columns = export.Header(r.Series)
	v.Rows = make([][]string, 0, len(r.Series.Bars))
	for _, bar := range r.Series.Bars {
		v.Rows = append(v.Rows, export.Row(bar, r.Series.HasAdjClose))
	}
	v.Download = download
	if summary, ok := r.Snapshot.String("longBusinessSummary"); ok {
		v.Summary = summary
	}
	return nil
}

func caption(req domain.FetchRequest, series *domain.PriceSeries) string {
	if series.Empty() {
		return ""
	}
	first := series.Bars[0].Time.Format(time.DateOnly)
	last := series.Bars[len(series.Bars)-1].Time.Format(time.DateOnly)
	return fmt.Sprintf("%d bars from %s to %s (range %s, interval %s)", len(series.Bars), first, last, req.Range, req.Interval)
}
