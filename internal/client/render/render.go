// Package render formats command results for the terminal.
//
// Four modes exist: human (styled with lipgloss when writing to a terminal),
// json, plain (tab-separated, for piping) and markdown. Verbose output adds
// engagement metrics and timestamps.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

type Mode string

const (
	Human    Mode = "human"
	JSON     Mode = "json"
	Plain    Mode = "plain"
	Markdown Mode = "markdown"
)

const defaultWidth = 100

type styles struct {
	title  lipgloss.Style
	author lipgloss.Style
	muted  lipgloss.Style
	ok     lipgloss.Style
	warn   lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		title:  r.NewStyle().Bold(true).Underline(true),
		author: r.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		muted:  r.NewStyle().Foreground(lipgloss.Color("245")),
		ok:     r.NewStyle().Foreground(lipgloss.Color("42")),
		warn:   r.NewStyle().Foreground(lipgloss.Color("214")),
	}
}

// Renderer writes results to w in one mode.
type Renderer struct {
	w       io.Writer
	mode    Mode
	verbose bool
	width   int
	st      styles
}

func New(w io.Writer, mode Mode, verbose bool) *Renderer {
	width := defaultWidth
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if cols, _, err := term.GetSize(int(f.Fd())); err == nil && cols > 20 {
			width = cols
		}
	}

	return &Renderer{
		w:       w,
		mode:    mode,
		verbose: verbose,
		width:   width,
		st:      newStyles(lipgloss.NewRenderer(w)),
	}
}

func (r *Renderer) Mode() Mode { return r.mode }

func (r *Renderer) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.w, format, args...)
}

func (r *Renderer) writeJSON(v any) error {
	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// StatusURL is the canonical link to a tweet.
func StatusURL(username, id string) string {
	if username == "" {
		username = "i/web"
	}
	return fmt.Sprintf("https://x.com/%s/status/%s", username, id)
}

// oneLine collapses whitespace, tabs and newlines included.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 1 || len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format(time.RFC3339)
}
