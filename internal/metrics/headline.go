package metrics

import (
	"fmt"

	"tickerdash/internal/domain"
)

const (
	// NotAvailable replaces a headline figure that cannot be formatted.
	NotAvailable = "N/A"
	// WarningMessage is the banner shown when any headline figure degraded.
	WarningMessage = "Some financial metrics are not available for this stock"
)

// Headline holds the four summary figures shown above the chart.
type Headline struct {
	CurrentPrice string  `json:"current_price"`
	MarketCap    string  `json:"market_cap"`
	PERatio      string  `json:"pe_ratio"`
	Range52W     string  `json:"range_52w"`
	Warning      string  `json:"warning,omitempty"`
	Errors       []error `json:"-"`
}

// Degraded reports whether at least one figure could not be formatted.
func (h Headline) Degraded() bool {
	return len(h.Errors) > 0
}

// BuildHeadline formats current price, market cap, trailing P/E and the
// 52-week range. Each figure degrades to N/A on its own and sets Warning.
func BuildHeadline(snapshot domain.CompanySnapshot) Headline {
	var h Headline
	number := func(key string) (float64, bool) {
		v, ok := snapshot.Float(key)
		if !ok {
			h.Errors = append(h.Errors, &domain.FormatError{Key: key, Value: snapshot[key]})
		}
		return v, ok
	}

	h.CurrentPrice = NotAvailable
	if v, ok := number("currentPrice"); ok {
		h.CurrentPrice = fmt.Sprintf("$%.2f", v)
	}

	h.MarketCap = NotAvailable
	if v, ok := number("marketCap"); ok {
		h.MarketCap = fmt.Sprintf("$%.2fB", v/1e9)
	}

	h.PERatio = NotAvailable
	if v, ok := number("trailingPE"); ok {
		h.PERatio = fmt.Sprintf("%.2f", v)
	}

	h.Range52W = NotAvailable
	low, lowOK := number("fiftyTwoWeekLow")
	high, highOK := number("fiftyTwoWeekHigh")
	if lowOK && highOK {
		h.Range52W = fmt.Sprintf("$%.2f - $%.2f", low, high)
	}

	if h.Degraded() {
		h.Warning = WarningMessage
	}
	return h
}
