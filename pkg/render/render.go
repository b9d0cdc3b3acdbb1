// Package render prints the plan explanation and per-action status for
// the terminal.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sameehj/junior/pkg/plan"
	"github.com/sameehj/junior/pkg/session"
	"github.com/sameehj/junior/pkg/tool"
)

var (
	Success = lipgloss.Color("#8BC34A")
	Failure = lipgloss.Color("#e53935")
	Skipped = lipgloss.Color("#FFC107")
	Muted   = lipgloss.Color("#6b7280")
	Accent  = lipgloss.Color("#2196F3")
)

type styles struct {
	title   lipgloss.Style
	ok      lipgloss.Style
	fail    lipgloss.Style
	skip    lipgloss.Style
	muted   lipgloss.Style
	payload lipgloss.Style
}

// Printer writes styled summaries. Color is dropped automatically when w is
// not a terminal.
type Printer struct {
	w io.Writer
	s styles
}

func NewPrinter(w io.Writer) *Printer {
	r := lipgloss.NewRenderer(w)
	return &Printer{
		w: w,
		s: styles{
			title:   r.NewStyle().Bold(true).Foreground(Accent),
			ok:      r.NewStyle().Foreground(Success),
			fail:    r.NewStyle().Foreground(Failure).Bold(true),
			skip:    r.NewStyle().Foreground(Skipped),
			muted:   r.NewStyle().Foreground(Muted),
			payload: r.NewStyle().PaddingLeft(4),
		},
	}
}

// Summary prints the explanation followed by one line per result.
func (p *Printer) Summary(pl *plan.Plan, results []tool.Result) {
	if pl != nil && pl.Explanation != "" {
		fmt.Fprintln(p.w, p.s.title.Render(pl.Explanation))
		fmt.Fprintln(p.w)
	}
	if len(results) == 0 {
		fmt.Fprintln(p.w, p.s.muted.Render("no actions"))
		return
	}
	for _, res := range results {
		fmt.Fprintln(p.w, p.line(res))
		if payload := payloadOf(res); payload != "" {
			fmt.Fprintln(p.w, p.s.payload.Render(payload))
		}
	}
}

func (p *Printer) line(res tool.Result) string {
	var mark string
	switch res.Status {
	case tool.StatusSuccess:
		mark = p.s.ok.Render("✓")
	case tool.StatusSkipped:
		mark = p.s.skip.Render("-")
	default:
		mark = p.s.fail.Render("✗")
	}
	target := strings.Join(res.Action.Paths(), " -> ")
	detail := res.Detail
	if res.Status == tool.StatusFailure {
		detail = p.s.fail.Render(detail)
	} else {
		detail = p.s.muted.Render(detail)
	}
	return fmt.Sprintf("%s [%d] %s %s  %s", mark, res.Index+1, res.Action.Type(), target, detail)
}

func payloadOf(res tool.Result) string {
	switch {
	case res.Status != tool.StatusSuccess:
		return ""
	case res.Content != nil:
		return strings.TrimRight(string(res.Content), "\n")
	case res.Entries != nil:
		return strings.Join(res.Entries, "\n")
	}
	return ""
}

// ParseFailure reports a response that could not be turned into a plan.
func (p *Printer) ParseFailure(err error) {
	fmt.Fprintln(p.w, p.s.fail.Render("could not parse model response: "+err.Error()))
}

// Notice prints a dimmed informational line.
func (p *Printer) Notice(format string, args ...any) {
	fmt.Fprintln(p.w, p.s.muted.Render(fmt.Sprintf(format, args...)))
}

// History lists transcripts.
func (p *Printer) History(entries []session.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(p.w, p.s.muted.Render("no sessions recorded"))
		return
	}
	for _, e := range entries {
		fmt.Fprintf(p.w, "%s  %s\n", e.Name, p.s.muted.Render(e.Timestamp.Local().Format("2006-01-02 15:04:05")))
	}
}

// Definitions lists the actions offered to the model.
func (p *Printer) Definitions(defs []tool.Definition) {
	for _, d := range defs {
		fmt.Fprintf(p.w, "%s  %s\n", p.s.title.Render(d.Name), d.Description)
	}
}
