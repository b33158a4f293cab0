package report

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"sirsim/internal/config"
)

type fakeProgram struct{ msgs []tea.Msg }

func (f *fakeProgram) Send(msg tea.Msg) { f.msgs = append(f.msgs, msg) }

func TestTUIWriterMessages(t *testing.T) {
	p := &fakeProgram{}
	w := &TUIWriter{program: p}
	if err := w.WriteTrajectories(sampleRows()); err != nil {
		t.Fatalf("write: %v", err)
	}
	if len(p.msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(p.msgs))
	}
	lm, ok := p.msgs[1].(logMsg)
	if !ok {
		t.Fatalf("expected logMsg, got %T", p.msgs[1])
	}
	if !strings.Contains(lm.line, colorRed) || !strings.Contains(lm.line, "crisis") {
		t.Fatalf("overloaded day should be highlighted: %q", lm.line)
	}
	if err := w.WriteSummary(sampleSummary()); err != nil {
		t.Fatalf("summary: %v", err)
	}
	if _, ok := p.msgs[2].(summaryMsg); !ok {
		t.Fatalf("expected summaryMsg, got %T", p.msgs[2])
	}
}

func TestTUIModelSummaryRows(t *testing.T) {
	m := newTUIModel(config.Default())
	mi, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m = mi.(tuiModel)
	mi, _ = m.Update(summaryMsg{sampleSummary()})
	m = mi.(tuiModel)
	rows := m.runs.Rows()
	if len(rows) != 1 || rows[0][0] != "crisis" || rows[0][3] != "35" {
		t.Fatalf("unexpected rows %v", rows)
	}
}

func TestTUIModelToggles(t *testing.T) {
	m := newTUIModel(config.Default())
	mi, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'w'}})
	m = mi.(tuiModel)
	if !m.wrap {
		t.Fatalf("wrap not toggled")
	}
	mi, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})
	m = mi.(tuiModel)
	if m.autoscroll {
		t.Fatalf("autoscroll not toggled")
	}
	mi, _ = m.Update(logMsg{line: "one"})
	m = mi.(tuiModel)
	if len(m.logs) != 1 {
		t.Fatalf("log not appended")
	}
}

func TestRenderLogsWrap(t *testing.T) {
	logs := []string{"one two three four five six"}
	if got := renderLogs(logs, false, 10); strings.Contains(got, "\n") {
		t.Fatalf("unexpected wrap without toggle: %q", got)
	}
	if got := renderLogs(logs, true, 10); !strings.Contains(got, "\n") {
		t.Fatalf("expected wrapped output, got %q", got)
	}
}
