// Package console prints migration progress for a person watching the run.
package console

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
)

var (
	successColor = lipgloss.Color("#10B981")
	warningColor = lipgloss.Color("#F59E0B")
	errorColor   = lipgloss.Color("#F87171")
	mutedColor   = lipgloss.Color("#9CA3AF")
)

// Summary is what the closing line reports.
type Summary struct {
	Created        int
	Failed         int
	Skipped        int
	CommentsAdded  int
	CommentsFailed int
	Warnings       int
	Elapsed        time.Duration
	DryRun         bool
}

type Printer struct {
	mu  sync.Mutex
	out io.Writer

	title   lipgloss.Style
	success lipgloss.Style
	warning lipgloss.Style
	failure lipgloss.Style
	muted   lipgloss.Style
}

// NewPrinter styles for the terminal behind out; plain writers get plain text.
func NewPrinter(out io.Writer) *Printer {
	r := lipgloss.NewRenderer(out)
	return &Printer{
		out:     out,
		title:   r.NewStyle().Bold(true),
		success: r.NewStyle().Foreground(successColor),
		warning: r.NewStyle().Foreground(warningColor),
		failure: r.NewStyle().Foreground(errorColor).Bold(true),
		muted:   r.NewStyle().Foreground(mutedColor),
	}
}

func (p *Printer) println(line string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.out, line)
}

func (p *Printer) Start(source string, total int, dryRun bool) {
	mode := ""
	if dryRun {
		mode = p.muted.Render(" (dry run)")
	}
	p.println(p.title.Render(fmt.Sprintf("Migrating %s from %s", english.Plural(total, "task", ""), source)) + mode)
}

func (p *Printer) Created(taskID, listID, text, destID string) {
	p.println(fmt.Sprintf("%s [%s/%s] %s %s",
		p.success.Render("created"), listID, taskID, text, p.muted.Render("-> "+destID)))
}

func (p *Printer) Failed(taskID, listID string, err error) {
	p.println(fmt.Sprintf("%s [%s/%s] %v", p.failure.Render("failed"), listID, taskID, err))
}

func (p *Printer) CommentFailed(taskID, listID string, err error) {
	p.println(fmt.Sprintf("%s [%s/%s] %v", p.warning.Render("comment failed"), listID, taskID, err))
}

func (p *Printer) Skipped(taskID, listID, reason string) {
	p.println(fmt.Sprintf("%s [%s/%s] %s", p.muted.Render("skipped"), listID, taskID, reason))
}

func (p *Printer) Warning(msg string) {
	p.println(fmt.Sprintf("%s %s", p.warning.Render("warning"), msg))
}

func (p *Printer) Summary(s Summary) {
	parts := []string{
		english.Plural(s.Created, "task", "") + " created",
		humanize.Comma(int64(s.Failed)) + " failed",
		humanize.Comma(int64(s.Skipped)) + " skipped",
		english.Plural(s.CommentsAdded, "comment", "") + " added",
	}
	if s.CommentsFailed > 0 {
		parts = append(parts, english.Plural(s.CommentsFailed, "comment", "")+" failed")
	}
	if s.Warnings > 0 {
		parts = append(parts, english.Plural(s.Warnings, "warning", ""))
	}

	style := p.success
	switch {
	case s.Failed > 0:
		style = p.failure
	case s.CommentsFailed > 0 || s.Warnings > 0:
		style = p.warning
	}

	line := style.Render("Done: ") + strings.Join(parts, ", ")
	if s.Elapsed > 0 {
		line += p.muted.Render(" in " + elapsed(s.Elapsed))
	}
	if s.DryRun {
		line += p.muted.Render(" (dry run, nothing was sent)")
	}
	p.println(line)
}

// RelTime reads "now" below one second.
func elapsed(d time.Duration) string {
	if d < time.Second {
		return d.Round(time.Millisecond).String()
	}
	now := time.Now()
	return strings.TrimSpace(humanize.RelTime(now.Add(-d), now, "", ""))
}
