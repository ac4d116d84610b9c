package domain

import "math"

// CompanySnapshot maps yfinance-style attribute names (currentPrice, marketCap,
// shortName, ...) to float64, string or nil values. Missing keys are normal.
type CompanySnapshot map[string]any

func (s CompanySnapshot) Has(key string) bool {
	_, ok := s[key]
	return ok
}

// Float returns the attribute as a float64 when it holds a finite number.
func (s CompanySnapshot) Float(key string) (float64, bool) {
	switch v := s[key].(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, false
		}
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

func (s CompanySnapshot) String(key string) (string, bool) {
	v, ok := s[key].(string)
	return v, ok
}

// DisplayMetric is one formatted row of the metrics table.
type DisplayMetric struct {
	Label string `json:"label"`
	Value string `json:"value"`
}
