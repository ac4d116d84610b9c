// Package export renders a price series as CSV and packages it as a
// base64 data URI for download links.
package export

import (
	"bytes"
	"encoding/base64"
	"encoding/csv"
	"fmt"
	"html/template"
	"io"
	"strconv"
	"time"

	"tickerdash/internal/domain"
)

const dataURIPrefix = "data:file/csv;base64,"

// Header returns the CSV column names for series.
func Header(series *domain.PriceSeries) []string {
	if series != nil && series.HasAdjClose {
		return []string{"Date", "Open", "High", "Low", "Close", "Adj Close", "Volume"}
	}
	return []string{"Date", "Open", "High", "Low", "Close", "Volume"}
}

// Row formats one bar in Header order.
func Row(bar domain.Bar, withAdj bool) []string {
	row := []string{
		bar.Time.Format(time.DateOnly),
		formatFloat(bar.Open),
		formatFloat(bar.High),
		formatFloat(bar.Low),
		formatFloat(bar.Close),
	}
	if withAdj {
		row = append(row, formatFloat(bar.AdjClose))
	}
	return append(row, strconv.FormatInt(bar.Volume, 10))
}

// WriteCSV writes a header and one row per bar.
func WriteCSV(w io.Writer, series *domain.PriceSeries) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header(series)); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	if series != nil {
		for _, bar := range series.Bars {
			if err := cw.Write(Row(bar, series.HasAdjClose)); err != nil {
				return fmt.Errorf("write csv row: %w", err)
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// CSV returns the series as CSV bytes.
func CSV(series *domain.PriceSeries) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, series); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func DataURI(csvData []byte) string {
	return dataURIPrefix + base64.StdEncoding.EncodeToString(csvData)
}

// DecodeDataURI reverses DataURI.
func DecodeDataURI(uri string) ([]byte, error) {
	if len(uri) < len(dataURIPrefix) || uri[:len(dataURIPrefix)] != dataURIPrefix {
		return nil, fmt.Errorf("not a csv data uri")
	}
	return base64.StdEncoding.DecodeString(uri[len(dataURIPrefix):])
}

func Filename(symbol string) string {
	return domain.NormalizeSymbol(symbol) + "_data.csv"
}

// Download is a ready-to-render CSV link.
type Download struct {
	Filename string       `json:"filename"`
	URI      template.URL `json:"uri"`
}

// Link encodes the series for an anchor with a download attribute.
func Link(series *domain.PriceSeries) (Download, error) {
	data, err := CSV(series)
	if err != nil {
		return Download{}, err
	}
	symbol := ""
	if series != nil {
		symbol = series.Symbol
	}
	return Download{
		Filename: Filename(symbol),
		// Base64 output cannot carry markup, so the URI is safe as an href.
		URI: template.URL(DataURI(data)),
	}, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
