// Package render draws notices and the execution journal for the terminal.
package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"

	"github.com/starford/bulletin/internal/models"
)

const dateLayout = "Mon, 02 Jan 2006 15:04 MST"

// Renderer writes notices to a terminal or any other writer. Colors are
// used only when the writer supports them.
type Renderer struct {
	out    io.Writer
	lg     *lipgloss.Renderer
	box    lipgloss.Style
	header lipgloss.Style
	loc    *time.Location
	now    func() time.Time
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithLocation sets the time zone dates are shown in.
func WithLocation(loc *time.Location) Option {
	return func(r *Renderer) { r.loc = loc }
}

// WithClock overrides time.Now for relative dates.
func WithClock(now func() time.Time) Option {
	return func(r *Renderer) { r.now = now }
}

// New creates a Renderer writing to w.
func New(w io.Writer, opts ...Option) *Renderer {
	lg := lipgloss.NewRenderer(w)
	r := &Renderer{
		out: w,
		lg:  lg,
		box: lg.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1).
			TabWidth(lipgloss.NoTabConversion),
		header: lg.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
		loc:    time.Local,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Header returns the author and date line of n.
func (r *Renderer) Header(n models.Notice) string {
	date := n.Date.In(r.loc)
	return fmt.Sprintf("%s · %s (%s)", n.Author, date.Format(dateLayout),
		humanize.RelTime(n.Date, r.now(), "ago", "from now"))
}

// Notice draws one notice. Every content line, command lines included, is
// shown as written.
func (r *Renderer) Notice(n models.Notice) error {
	content := strings.ReplaceAll(n.Content, "\r\n", "\n")
	body := r.header.Render(r.Header(n)) + "\n\n" + content
	if _, err := fmt.Fprintln(r.out, r.box.Render(body)); err != nil {
		return fmt.Errorf("render: notice %s: %w", n.ID, err)
	}
	return nil
}

// History draws journal entries as a table.
func (r *Renderer) History(entries []models.Execution) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(r.out, "No commands have been run yet.")
		return err
	}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		exit := "-"
		if e.State == models.StateExecuted {
			exit = strconv.Itoa(e.ExitCode)
		}
		rows = append(rows, []string{
			humanize.RelTime(e.StartedAt, r.now(), "ago", "from now"),
			e.NoticeID,
			string(e.State),
			exit,
			e.Command,
		})
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(r.lg.NewStyle().Foreground(lipgloss.Color("63"))).
		Headers("WHEN", "NOTICE", "STATE", "EXIT", "COMMAND").
		Rows(rows...)
	if _, err := fmt.Fprintln(r.out, t.Render()); err != nil {
		return fmt.Errorf("render: history: %w", err)
	}
	return nil
}
