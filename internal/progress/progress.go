// Package progress renders a single self-overwriting status line for one
// batch of work and accumulates that batch's errors and warnings.
package progress

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	DefaultTitleWidth = 26
	DefaultBarWidth   = 46

	truncationMarker = "[...]"
)

// Severity is the display state of a batch.
type Severity string

const (
	SeverityOK      Severity = "ok"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// State is a snapshot of a batch's progress.
type State struct {
	Title    string
	Current  int
	Max      int
	Errors   []string
	Warnings []string
}

// Severity is error once any error was recorded, else warning once any
// warning was recorded, else ok. Neither list ever shrinks during a batch, so
// the result never downgrades.
func (s State) Severity() Severity {
	switch {
	case len(s.Errors) > 0:
		return SeverityError
	case len(s.Warnings) > 0:
		return SeverityWarning
	default:
		return SeverityOK
	}
}

// Reporter tracks one batch. It is owned by a single dispatch loop and is
// not safe for concurrent use.
type Reporter struct {
	out        io.Writer
	state      State
	titleWidth int
	barWidth   int
	styles     map[Severity]lipgloss.Style
	rendered   bool
	err        error
}

// Option configures a Reporter.
type Option func(*Reporter)

// WithTitleWidth sets the display width of the title column.
func WithTitleWidth(n int) Option {
	return func(r *Reporter) {
		if n > len(truncationMarker) {
			r.titleWidth = n
		}
	}
}

// WithBarWidth sets the number of cells in the bar.
func WithBarWidth(n int) Option {
	return func(r *Reporter) {
		if n > 0 {
			r.barWidth = n
		}
	}
}

// New creates a reporter for a batch of total units starting at initial.
func New(out io.Writer, initial, total int, opts ...Option) *Reporter {
	renderer := lipgloss.NewRenderer(out)
	r := &Reporter{
		out:        out,
		state:      State{Current: initial, Max: total},
		titleWidth: DefaultTitleWidth,
		barWidth:   DefaultBarWidth,
		styles: map[Severity]lipgloss.Style{
			SeverityOK:      renderer.NewStyle().Foreground(lipgloss.Color("4")),
			SeverityWarning: renderer.NewStyle().Foreground(lipgloss.Color("3")),
			SeverityError:   renderer.NewStyle().Foreground(lipgloss.Color("1")),
		},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SetTitle replaces the title and re-renders.
func (r *Reporter) SetTitle(title string) {
	r.state.Title = title
	r.render()
}

// Advance moves the counter forward by n. Negative values are ignored.
func (r *Reporter) Advance(n int) {
	if n < 0 {
		return
	}
	r.state.Current += n
	r.render()
}

// AddError records an error; the batch stays in error state from now on.
func (r *Reporter) AddError(msg string) {
	r.state.Errors = append(r.state.Errors, msg)
	r.render()
}

// AddWarning records a warning.
func (r *Reporter) AddWarning(msg string) {
	r.state.Warnings = append(r.state.Warnings, msg)
	r.render()
}

// State returns a copy of the current state.
func (r *Reporter) State() State {
	s := r.state
	s.Errors = append([]string(nil), r.state.Errors...)
	s.Warnings = append([]string(nil), r.state.Warnings...)
	return s
}

// Finish terminates the status line with a blank line so later output does
// not overwrite it. It returns the first write error seen by the reporter.
func (r *Reporter) Finish() error {
	if r.rendered && r.err == nil {
		_, r.err = io.WriteString(r.out, "\n\n")
	}
	return r.err
}

func (r *Reporter) render() {
	if r.state.Max == 0 || r.err != nil {
		return
	}
	line := r.Line()
	_, r.err = fmt.Fprint(r.out, "\r"+r.styles[r.state.Severity()].Render(line))
	r.rendered = true
}

// Line returns the uncoloured status line for the current state.
func (r *Reporter) Line() string {
	if r.state.Max == 0 {
		return ""
	}
	percent := float64(r.state.Current) / float64(r.state.Max)
	filled := int(float64(r.barWidth) * percent)
	filled = max(0, min(filled, r.barWidth))

	bar := strings.Repeat("█", filled) + strings.Repeat("-", r.barWidth-filled)
	return fmt.Sprintf("%s |%s| %3.1f%%", TruncateTitle(r.state.Title, r.titleWidth), bar, percent*100)
}

// TruncateTitle shortens title to width runes by replacing its head with
// "[...]", keeping the most specific tail of a path.
func TruncateTitle(title string, width int) string {
	runes := []rune(title)
	if len(runes) <= width {
		return title
	}
	keep := width - len(truncationMarker)
	if keep <= 0 {
		return truncationMarker
	}
	return truncationMarker + string(runes[len(runes)-keep:])
}
