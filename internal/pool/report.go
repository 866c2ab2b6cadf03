package pool

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"git.home.luguber.info/inful/assetbuilder/internal/jobs"
)

// ReportStyles colours the issue report.
type ReportStyles struct {
	Error   lipgloss.Style
	Warning lipgloss.Style
}

// NewReportStyles binds the report colours to w's terminal capabilities.
func NewReportStyles(w io.Writer) ReportStyles {
	r := lipgloss.NewRenderer(w)
	return ReportStyles{
		Error:   r.NewStyle().Foreground(lipgloss.Color("1")),
		Warning: r.NewStyle().Foreground(lipgloss.Color("3")),
	}
}

// PrintReport prints an issue block for every task of the outcome that had
// errors or warnings, in submission order.
func PrintReport(w io.Writer, o Outcome) {
	styles := NewReportStyles(w)
	for i, res := range o.Results {
		if res.OK() {
			continue
		}
		printIssues(w, styles, o.Tasks[i].Path, res)
	}
}

// PrintIssues prints the issue block of a single file. It prints nothing for
// a clean result.
func PrintIssues(w io.Writer, file string, res jobs.Result) {
	if res.OK() {
		return
	}
	printIssues(w, NewReportStyles(w), file, res)
}

func printIssues(w io.Writer, styles ReportStyles, file string, res jobs.Result) {
	header := styles.Warning
	if res.Failed() {
		header = styles.Error
	}
	_, _ = fmt.Fprintln(w, header.Render("  "+file))
	for _, e := range res.Errors {
		_, _ = fmt.Fprintln(w, styles.Error.Render("    ERROR: "+e))
	}
	for _, warn := range res.Warnings {
		_, _ = fmt.Fprintln(w, styles.Warning.Render("    WARNING: "+warn))
	}
	_, _ = fmt.Fprintln(w)
}
