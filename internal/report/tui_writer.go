package report

import (
	"fmt"
	"os"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"sirsim/internal/config"
	"sirsim/internal/record"
)

const (
	colorReset  = "\x1b[0m"
	colorRed    = "\x1b[31m"
	colorGreen  = "\x1b[32m"
	colorYellow = "\x1b[33m"
	colorBlue   = "\x1b[34m"
	colorCyan   = "\x1b[36m"
	colorGray   = "\x1b[90m"
)

// teaProgram abstracts bubbletea.Program for testing.
type teaProgram interface {
	Send(tea.Msg)
}

// logMsg carries a trajectory line for the viewport.
type logMsg struct{ line string }

// summaryMsg adds a finished run to the summary table.
type summaryMsg struct{ record.SummaryRow }

// TUIWriter renders a sweep live using a bubbletea TUI.
type TUIWriter struct {
	program    teaProgram
	done       chan struct{}
	sendSignal atomic.Bool
}

// NewTUIWriter starts a bubbletea program and returns a TUIWriter. Quitting
// the TUI interrupts the process so the sweep stops.
func NewTUIWriter(cfg *config.SimulationConfig) *TUIWriter {
	w := &TUIWriter{done: make(chan struct{})}
	w.sendSignal.Store(true)
	p := tea.NewProgram(newTUIModel(cfg), tea.WithAltScreen())
	w.program = p
	go func() {
		_, _ = p.Run()
		close(w.done)
		if w.sendSignal.Load() {
			if proc, err := os.FindProcess(os.Getpid()); err == nil {
				_ = proc.Signal(os.Interrupt)
			}
		}
	}()
	return w
}

// WriteTrajectory implements TrajectoryWriter.
func (w *TUIWriter) WriteTrajectory(row record.TrajectoryRow) error {
	iColor := colorGreen
	if row.Overloaded {
		iColor = colorRed
	}
	line := fmt.Sprintf("%s[day %03d]%s %s%s%s %sS=%.0f%s %sI=%.1f%s %sR=%.0f%s %sgamma=%.4f%s",
		colorGray, row.Day, colorReset,
		colorBlue, row.Scenario, colorReset,
		colorCyan, row.S, colorReset,
		iColor, row.I, colorReset,
		colorYellow, row.R, colorReset,
		colorGray, row.GammaEff, colorReset)
	w.program.Send(logMsg{line: line})
	return nil
}

// WriteTrajectories outputs multiple trajectory rows.
func (w *TUIWriter) WriteTrajectories(rows []record.TrajectoryRow) error {
	for _, r := range rows {
		_ = w.WriteTrajectory(r)
	}
	return nil
}

// WriteSummary implements SummaryWriter.
func (w *TUIWriter) WriteSummary(row record.SummaryRow) error {
	w.program.Send(summaryMsg{row})
	return nil
}

// Close shuts down the TUI program and waits for cleanup.
func (w *TUIWriter) Close() error {
	w.sendSignal.Store(false)
	if w.program != nil {
		w.program.Send(tea.Quit())
	}
	if w.done != nil {
		<-w.done
	}
	return nil
}

type tuiModel struct {
	params     table.Model
	runs       table.Model
	vp         viewport.Model
	logs       []string
	wrap       bool
	autoscroll bool
	height     int
}

func newTUIModel(cfg *config.SimulationConfig) tuiModel {
	cols := []table.Column{
		{Title: "Parameter", Width: 18},
		{Title: "Value", Width: 12},
		{Title: "Parameter", Width: 18},
		{Title: "Value", Width: 12},
	}
	rows := []table.Row{
		{"Population", fmt.Sprintf("%.0f", cfg.Population), "Initial infected", fmt.Sprintf("%.0f", cfg.InitialInfected)},
		{"Beta baseline", fmt.Sprintf("%.3f", cfg.BetaBaseline), "Beta policy", fmt.Sprintf("%.3f", cfg.PolicyBeta())},
		{"Gamma", fmt.Sprintf("%.4f", cfg.GammaBase), "Capacity", fmt.Sprintf("%.0f", cfg.CapacityValue())},
		{"Days", fmt.Sprintf("%d", cfg.Days), "School year", fmt.Sprintf("%d", cfg.SchoolYearDays)},
	}
	params := table.New(table.WithColumns(cols), table.WithRows(rows), table.WithHeight(len(rows)+1))
	runs := table.New(table.WithColumns([]table.Column{
		{Title: "Scenario", Width: 34},
		{Title: "I_max", Width: 9},
		{Title: "T_peak", Width: 7},
		{Title: "T_breach", Width: 9},
		{Title: "R_inf", Width: 9},
		{Title: "Overload", Width: 9},
	}), table.WithHeight(2))
	return tuiModel{
		params:     params,
		runs:       runs,
		vp:         viewport.New(0, 0),
		autoscroll: true,
	}
}

func (m tuiModel) Init() tea.Cmd { return nil }

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.vp.Width = msg.Width
		m.height = msg.Height
		m.updateViewportHeight()
		m.refreshViewport()
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "w":
			m.wrap = !m.wrap
			m.refreshViewport()
		case "s":
			m.autoscroll = !m.autoscroll
			if m.autoscroll {
				m.vp.GotoBottom()
			}
		default:
			var cmd tea.Cmd
			m.vp, cmd = m.vp.Update(msg)
			return m, cmd
		}
	case logMsg:
		m.logs = append(m.logs, msg.line)
		m.refreshViewport()
	case summaryMsg:
		r := msg.SummaryRow
		rows := append(m.runs.Rows(), table.Row{
			r.Scenario,
			fmt.Sprintf("%.0f", r.IMax),
			fmt.Sprintf("%d", r.TPeak),
			fmt.Sprintf("%d", r.TBreach),
			fmt.Sprintf("%.0f", r.RInfinity),
			fmt.Sprintf("%.2f", r.MaxOverloadFactor),
		})
		m.runs.SetRows(rows)
		m.runs.SetHeight(len(rows) + 1)
		m.updateViewportHeight()
	}
	return m, nil
}

func (m *tuiModel) updateViewportHeight() {
	used := lipgloss.Height(m.renderHeader()) + lipgloss.Height(m.runs.View()) + lipgloss.Height(m.renderBottom()) + 3
	h := m.height - used
	if h < 0 {
		h = 0
	}
	m.vp.Height = h
	if m.autoscroll {
		m.vp.GotoBottom()
	}
}

func (m *tuiModel) refreshViewport() {
	m.vp.SetContent(renderLogs(m.logs, m.wrap, m.vp.Width))
	if m.autoscroll {
		m.vp.GotoBottom()
	}
}

func renderLogs(logs []string, wrap bool, width int) string {
	if !wrap || width <= 0 {
		return strings.Join(logs, "\n")
	}
	lines := make([]string, len(logs))
	for i, l := range logs {
		lines[i] = wordwrap.String(l, width)
	}
	return strings.Join(lines, "\n")
}

func (m tuiModel) renderHeader() string {
	title := lipgloss.NewStyle().Bold(true).Render("SIR capacity sweep")
	return lipgloss.JoinVertical(lipgloss.Left, title, m.params.View())
}

func (m tuiModel) renderBottom() string {
	flag := func(on bool) string {
		if on {
			return "on"
		}
		return "off"
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(
		fmt.Sprintf("q quit  w wrap (%s)  s autoscroll (%s)  %d rows", flag(m.wrap), flag(m.autoscroll), len(m.logs)))
}

func (m tuiModel) View() string {
	divider := strings.Repeat("─", m.vp.Width)
	return strings.Join([]string{
		m.renderHeader(),
		divider,
		m.runs.View(),
		divider,
		m.vp.View(),
		divider,
		m.renderBottom(),
	}, "\n")
}
