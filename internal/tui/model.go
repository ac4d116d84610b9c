// Package tui is the terminal rendition of the dashboard, served over SSH.
package tui

import (
	"context"
	"time"

	"tickerdash/internal/dashboard"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

const instructions = "Type a stock symbol and press enter to fetch its data."

// recentBars is how many of the latest bars the data table shows.
const recentBars = 15

type fetchDoneMsg struct {
	state dashboard.State
}

// Model drives one dashboard.Shell from keyboard input.
type Model struct {
	ctx    context.Context
	shell  *dashboard.Shell
	inputs dashboard.Inputs

	symbolInput  textinput.Model
	spinner      spinner.Model
	metricsTable table.Model
	barsTable    table.Model
	popularTable table.Model

	view   dashboard.View
	width  int
	height int
}

// NewModel creates a model in the idle state. ctx bounds every fetch the
// session starts.
func NewModel(ctx context.Context, fetcher dashboard.Fetcher, logger *zap.Logger, now time.Time) Model {
	shell := dashboard.NewShell(fetcher, logger)
	inputs := dashboard.DefaultInputs(now)

	m := Model{
		ctx:          ctx,
		shell:        shell,
		inputs:       inputs,
		symbolInput:  newSymbolInput(inputs.Symbol),
		spinner:      spinner.New(spinner.WithSpinner(spinner.Dot)),
		popularTable: newPopularTable(),
		width:        100,
		height:       40,
	}
	m.refresh()
	return m
}

// SetSize records the terminal size reported by the SSH pty.
func (m *Model) SetSize(width, height int) {
	if width > 0 {
		m.width = width
	}
	if height > 0 {
		m.height = height
	}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			return m.submit()
		case "tab":
			m.inputs.CyclePeriod(1)
			return m, nil
		case "shift+tab":
			m.inputs.CycleInterval(1)
			return m, nil
		case "ctrl+r":
			if m.shell.State() != dashboard.StateFetching {
				m.shell.Reset()
				m.refresh()
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case fetchDoneMsg:
		m.refresh()
		return m, nil

	case spinner.TickMsg:
		if m.shell.State() != dashboard.StateFetching {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.symbolInput, cmd = m.symbolInput.Update(msg)
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	m.inputs.Symbol = m.symbolInput.Value()
	state, err := m.shell.Trigger(m.inputs)
	m.refresh()
	if err != nil || state != dashboard.StateFetching {
		return m, nil
	}

	shell, ctx := m.shell, m.ctx
	run := func() tea.Msg {
		return fetchDoneMsg{state: shell.Run(ctx)}
	}
	return m, tea.Batch(m.spinner.Tick, run)
}

// refresh rebuilds the view and tables from the shell.
func (m *Model) refresh() {
	m.view = m.shell.View()
	if m.view.State == dashboard.StateSuccess {
		m.metricsTable = newMetricsTable(m.view.Metrics)
		m.barsTable = newBarsTable(m.view.Columns, lastRows(m.view.Rows, recentBars))
	}
}

func lastRows(rows [][]string, n int) [][]string {
	if len(rows) <= n {
		return rows
	}
	return rows[len(rows)-n:]
}
