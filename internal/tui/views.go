package tui

import (
	"fmt"
	"strings"

	"tickerdash/internal/dashboard"
	"tickerdash/internal/domain"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
)

func newSymbolInput(value string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "AAPL"
	ti.CharLimit = 16
	ti.Width = 20
	ti.SetValue(value)
	ti.Focus()
	return ti
}

func newPopularTable() table.Model {
	rows := make([]table.Row, 0, len(domain.PopularSymbols))
	for _, a := range domain.PopularSymbols {
		rows = append(rows, table.Row{a.Symbol, a.Name})
	}
	return table.New(
		table.WithColumns([]table.Column{{Title: "Symbol", Width: 8}, {Title: "Company Name", Width: 26}}),
		table.WithRows(rows),
		table.WithHeight(len(rows)+1),
	)
}

func newMetricsTable(metrics []domain.DisplayMetric) table.Model {
	rows := make([]table.Row, 0, len(metrics))
	for _, dm := range metrics {
		rows = append(rows, table.Row{dm.Label, dm.Value})
	}
	return table.New(
		table.WithColumns([]table.Column{{Title: "Metric", Width: 32}, {Title: "Value", Width: 22}}),
		table.WithRows(rows),
		table.WithHeight(len(rows)+1),
	)
}

func newBarsTable(columns []string, data [][]string) table.Model {
	cols := make([]table.Column, len(columns))
	for i, c := range columns {
		width := 10
		if c == "Volume" {
			width = 12
		}
		cols[i] = table.Column{Title: c, Width: width}
	}
	rows := make([]table.Row, len(data))
	for i, r := range data {
		rows[i] = table.Row(r)
	}
	return table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithHeight(len(rows)+1),
	)
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(dashboard.Title))
	b.WriteString("\n\n")
	b.WriteString(m.controls())
	b.WriteString("\n")

	v := m.view
	if v.BusyMessage != "" {
		b.WriteString(m.spinner.View() + " " + infoStyle.Render(v.BusyMessage))
		b.WriteString("\n")
	}
	if v.Error != "" {
		b.WriteString(errorStyle.Render(v.Error))
		b.WriteString("\n")
	}

	switch {
	case v.Idle:
		b.WriteString(infoStyle.Render(instructions))
		b.WriteString("\n\n")
		b.WriteString(headerStyle.Render("Popular Stocks"))
		b.WriteString("\n")
		b.WriteString(m.popularTable.View())
		b.WriteString("\n")
	case v.State == dashboard.StateSuccess:
		b.WriteString(m.result())
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("enter: fetch • tab: period • shift+tab: interval • ctrl+r: reset • esc: quit"))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(dashboard.Footer))
	return b.String()
}

func (m Model) controls() string {
	return fmt.Sprintf("Symbol %s   Period %s   Interval %s",
		m.symbolInput.View(),
		valueStyle.Render(string(m.inputs.Period)),
		valueStyle.Render(string(m.inputs.Interval)),
	)
}

func (m Model) result() string {
	v := m.view
	var b strings.Builder

	b.WriteString(headerStyle.Render(v.Header))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render(v.Caption))
	b.WriteString("\n\n")

	if v.Headline.Warning != "" {
		b.WriteString(warningStyle.Render(v.Headline.Warning))
		b.WriteString("\n")
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		metricBox("Current Price", v.Headline.CurrentPrice),
		metricBox("Market Cap", v.Headline.MarketCap),
		metricBox("P/E Ratio", v.Headline.PERatio),
		metricBox("52W Range", v.Headline.Range52W),
	))
	b.WriteString("\n")

	b.WriteString(headerStyle.Render("Close"))
	b.WriteString(" ")
	b.WriteString(Sparkline(v.Closes, m.width-8))
	b.WriteString("\n\n")

	b.WriteString(headerStyle.Render("Key Financial Metrics"))
	b.WriteString("\n")
	b.WriteString(m.metricsTable.View())
	b.WriteString("\n\n")
	b.WriteString(headerStyle.Render(fmt.Sprintf("Historical Data (last %d of %d)", min(recentBars, len(v.Rows)), len(v.Rows))))
	b.WriteString("\n")
	b.WriteString(m.barsTable.View())
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("CSV: " + v.Download.Filename + " (available from the web dashboard)"))
	b.WriteString("\n")

	if v.HasSummary() {
		b.WriteString("\n")
		b.WriteString(headerStyle.Render(dashboard.SummaryTitle))
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Width(max(m.width-4, 20)).Render(v.Summary))
		b.WriteString("\n")
	}
	return b.String()
}

func metricBox(label, value string) string {
	return boxStyle.Render(labelStyle.Render(label) + "\n" + valueStyle.Render(value))
}

var sparkBlocks = []rune("▁▂▃▄▅▆▇█")

// Sparkline renders values as a single line of block characters, sampling
// down to at most width points.
func Sparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}
	if len(values) > width {
		sampled := make([]float64, width)
		for i := range sampled {
			sampled[i] = values[i*len(values)/width]
		}
		values = sampled
	}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}

	out := make([]rune, len(values))
	for i, v := range values {
		idx := 0
		if hi > lo {
			idx = int((v - lo) / (hi - lo) * float64(len(sparkBlocks)-1))
		}
		out[i] = sparkBlocks[idx]
	}
	return string(out)
}
