// Package metrics turns a company snapshot into display rows and the four
// headline figures.
package metrics

import (
	"fmt"
	"strings"

	"tickerdash/internal/domain"

	"github.com/dustin/go-humanize"
)

// Keys is the allow-list of snapshot attributes shown in the metrics table,
// in display order.
var Keys = []string{
	"previousClose",
	"open",
	"dayLow",
	"dayHigh",
	"volume",
	"averageVolume",
	"fiftyDayAverage",
	"twoHundredDayAverage",
	"marketCap",
	"beta",
	"trailingPE",
	"forwardPE",
	"dividendYield",
	"trailingAnnualDividendYield",
	"earningsQuarterlyGrowth",
	"priceToSalesTrailing12Months",
}

var labels = map[string]string{
	"previousClose":                "Previous Close",
	"open":                         "Open",
	"dayLow":                       "Day Low",
	"dayHigh":                      "Day High",
	"volume":                       "Volume",
	"averageVolume":                "Average Volume",
	"fiftyDayAverage":              "50-Day Average",
	"twoHundredDayAverage":         "200-Day Average",
	"marketCap":                    "Market Cap",
	"beta":                         "Beta",
	"trailingPE":                   "Trailing P/E",
	"forwardPE":                    "Forward P/E",
	"dividendYield":                "Dividend Yield",
	"trailingAnnualDividendYield":  "Trailing Annual Dividend Yield",
	"earningsQuarterlyGrowth":      "Earnings Quarterly Growth",
	"priceToSalesTrailing12Months": "Price to Sales (TTM)",
}

// Label returns the human-readable name for key, or key itself.
func Label(key string) string {
	if l, ok := labels[key]; ok {
		return l
	}
	return key
}

type category int

const (
	categoryDecimal category = iota
	categoryInteger
	categoryPercent
)

func categorize(key string) category {
	lower := strings.ToLower(key)
	switch {
	case strings.Contains(lower, "volume") || key == "marketCap":
		return categoryInteger
	case strings.Contains(lower, "yield"):
		return categoryPercent
	default:
		return categoryDecimal
	}
}

// FormatValue renders one attribute by category: volume-like fields and
// marketCap as thousands-grouped integers, yields as percentages with two
// decimals, other numbers with two decimals. Strings pass through. A nil
// value reports ok=false and is skipped by callers.
func FormatValue(key string, value any) (string, bool) {
	if value == nil {
		return "", false
	}
	if s, isString := value.(string); isString {
		return s, true
	}
	n, numeric := domain.CompanySnapshot{key: value}.Float(key)
	if !numeric {
		return fmt.Sprint(value), true
	}
	switch categorize(key) {
	case categoryInteger:
		return humanize.Comma(int64(n)), true
	case categoryPercent:
		return fmt.Sprintf("%.2f%%", n*100), true
	default:
		return fmt.Sprintf("%.2f", n), true
	}
}

// Format returns the display rows for every allow-listed key present in the
// snapshot with a non-nil value.
func Format(snapshot domain.CompanySnapshot) []domain.DisplayMetric {
	rows := make([]domain.DisplayMetric, 0, len(Keys))
	for _, key := range Keys {
		value, ok := snapshot[key]
		if !ok {
			continue
		}
		formatted, ok := FormatValue(key, value)
		if !ok {
			continue
		}
		rows = append(rows, domain.DisplayMetric{Label: Label(key), Value: formatted})
	}
	return rows
}
