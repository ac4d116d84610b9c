package export

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"strings"
	"testing"
	"time"

	"tickerdash/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample(withAdj bool) *domain.PriceSeries {
	day := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	return &domain.PriceSeries{
		Symbol:      "AAPL",
		Interval:    domain.Interval1D,
		HasAdjClose: withAdj,
		Bars: []domain.Bar{
			{Time: day, Open: 187.15, High: 188.44, Low: 183.89, Close: 185.64, AdjClose: 184.9, Volume: 82488700},
			{Time: day.AddDate(0, 0, 1), Open: 184.22, High: 185.88, Low: 183.43, Close: 184.25, AdjClose: 183.5, Volume: 58414500},
		},
	}
}

func TestWriteCSVRoundTrip(t *testing.T) {
	for _, withAdj := range []bool{false, true} {
		series := sample(withAdj)
		series.Bars = append(series.Bars, domain.Bar{
			Time: time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC), Open: 182.1500015258789, High: 183.08999633789062,
			Low: 180.8800048828125, Close: 181.91000366210938, AdjClose: 181.1729278564453, Volume: 71983600,
		})

		var buf bytes.Buffer
		require.NoError(t, WriteCSV(&buf, series))

		records, err := csv.NewReader(&buf).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, len(series.Bars)+1)
		assert.Equal(t, Header(series), records[0])

		for i, bar := range series.Bars {
			rec := records[i+1]
			require.Len(t, rec, len(records[0]), "row %d", i)

			ts, err := time.Parse(time.DateOnly, rec[0])
			require.NoError(t, err)
			assert.True(t, bar.Time.Equal(ts), "row %d time", i)

			got := make([]float64, 0, 5)
			for _, field := range rec[1 : len(rec)-1] {
				v, err := strconv.ParseFloat(field, 64)
				require.NoError(t, err)
				got = append(got, v)
			}
			want := []float64{bar.Open, bar.High, bar.Low, bar.Close}
			if withAdj {
				want = append(want, bar.AdjClose)
			}
			assert.Equal(t, want, got, "row %d prices", i)

			vol, err := strconv.ParseInt(rec[len(rec)-1], 10, 64)
			require.NoError(t, err)
			assert.Equal(t, bar.Volume, vol, "row %d volume", i)
		}
	}
}

func TestWriteCSVWithAdjClose(t *testing.T) {
	data, err := CSV(sample(true))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Date,Open,High,Low,Close,Adj Close,Volume", lines[0])
	assert.Equal(t, "2024-01-03,184.22,185.88,183.43,184.25,183.5,58414500", lines[2])
}

func TestWriteCSVEmptySeries(t *testing.T) {
	data, err := CSV(&domain.PriceSeries{Symbol: "X"})
	require.NoError(t, err)
	assert.Equal(t, "Date,Open,High,Low,Close,Volume\n", string(data))
}

func TestLinkDecodesToCSV(t *testing.T) {
	series := sample(false)
	link, err := Link(series)
	require.NoError(t, err)

	assert.Equal(t, "AAPL_data.csv", link.Filename)
	assert.True(t, strings.HasPrefix(string(link.URI), "data:file/csv;base64,"))

	decoded, err := DecodeDataURI(string(link.URI))
	require.NoError(t, err)
	want, err := CSV(series)
	require.NoError(t, err)
	assert.Equal(t, want, decoded)
}

func TestFilenameUppercases(t *testing.T) {
	assert.Equal(t, "MSFT_data.csv", Filename(" msft "))
}

func TestDecodeDataURIRejectsOtherSchemes(t *testing.T) {
	_, err := DecodeDataURI("data:text/plain;base64,AAAA")
	require.Error(t, err)
}
