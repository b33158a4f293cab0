package report

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/term"

	"sirsim/internal/record"
	"sirsim/internal/scenario"
)

const defaultWrapWidth = 100

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	breachStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	safeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
)

// TableWriter collects summary rows and prints them as an aligned table on
// Flush. Rows that breached capacity are highlighted when out is a terminal.
type TableWriter struct {
	out   io.Writer
	color bool
	width int

	mu   sync.Mutex
	rows []record.SummaryRow
}

// NewTableWriter creates a TableWriter writing to os.Stdout.
func NewTableWriter() *TableWriter {
	return NewTableWriterTo(os.Stdout)
}

// NewTableWriterTo creates a TableWriter on out. Colour and wrap width are
// taken from the terminal when out is one.
func NewTableWriterTo(out io.Writer) *TableWriter {
	w := &TableWriter{out: out, width: defaultWrapWidth}
	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		w.color = true
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
			w.width = width
		}
	}
	return w
}

// WriteSummary buffers a summary row.
func (w *TableWriter) WriteSummary(row record.SummaryRow) error {
	w.mu.Lock()
	w.rows = append(w.rows, row)
	w.mu.Unlock()
	return nil
}

// WriteSummaries buffers multiple summary rows.
func (w *TableWriter) WriteSummaries(rows []record.SummaryRow) error {
	w.mu.Lock()
	w.rows = append(w.rows, rows...)
	w.mu.Unlock()
	return nil
}

// Flush prints the buffered rows and clears the buffer.
func (w *TableWriter) Flush() error {
	w.mu.Lock()
	rows := w.rows
	w.rows = nil
	w.mu.Unlock()
	if len(rows) == 0 {
		return nil
	}

	var buf bytes.Buffer
	tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Scenario\tR0\tI_max\tT_peak\tT_breach\tR_inf\tT_end\tOverload")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%.2f\t%.0f\t%d\t%d\t%.0f\t%d\t%.2f\n",
			r.Scenario, r.R0, r.IMax, r.TPeak, r.TBreach, r.RInfinity, r.TEnd, r.MaxOverloadFactor)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	for i, line := range lines {
		if w.color {
			switch {
			case i == 0:
				line = headerStyle.Render(line)
			case rows[i-1].TBreach > 0:
				line = breachStyle.Render(line)
			default:
				line = safeStyle.Render(line)
			}
		}
		if _, err := fmt.Fprintln(w.out, line); err != nil {
			return err
		}
	}
	return nil
}

// WriteFindings prints analysis findings wrapped to the output width.
func (w *TableWriter) WriteFindings(findings []scenario.Finding) error {
	if len(findings) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w.out, "\nFindings:"); err != nil {
		return err
	}
	for _, f := range findings {
		title := f.Title
		if w.color {
			title = titleStyle.Render(title)
		}
		text := wordwrap.String(f.Text, max(w.width-4, 20))
		text = strings.ReplaceAll(text, "\n", "\n    ")
		if _, err := fmt.Fprintf(w.out, "  %s\n    %s\n", title, text); err != nil {
			return err
		}
	}
	return nil
}

// Close flushes any buffered rows.
func (w *TableWriter) Close() error {
	return w.Flush()
}
