// Package debug renders the connection and event log overlay.
package debug

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/urfd-dashboard/tui/internal/theme"
)

const maxEntries = 200

// Entry is one log line. Identical consecutive lines are folded into a
// single entry with Count > 1.
type Entry struct {
	Time    time.Time
	Kind    string // "ws", "http", "evt", "swp", "err"
	Message string
	Count   int
}

// Model holds the log buffer and scroll position.
type Model struct {
	Entries []Entry
	Offset  int // lines scrolled up from the newest entry
	Errors  int

	now func() time.Time
}

// New creates an empty log.
func New() Model {
	return Model{now: time.Now}
}

// Addf appends a formatted entry.
func (m *Model) Addf(kind, format string, args ...any) {
	m.Add(kind, fmt.Sprintf(format, args...))
}

// Add appends an entry, folding it into the previous one when identical.
func (m *Model) Add(kind, message string) {
	now := time.Now()
	if m.now != nil {
		now = m.now()
	}
	if kind == "err" {
		m.Errors++
	}
	m.Offset = 0

	if n := len(m.Entries); n > 0 {
		last := &m.Entries[n-1]
		if last.Kind == kind && last.Message == message {
			last.Count++
			last.Time = now
			return
		}
	}
	m.Entries = append(m.Entries, Entry{Time: now, Kind: kind, Message: message, Count: 1})
	if over := len(m.Entries) - maxEntries; over > 0 {
		m.Entries = m.Entries[over:]
	}
}

// ScrollUp moves towards older entries.
func (m *Model) ScrollUp(n int) {
	m.Offset = min(m.Offset+n, max(0, len(m.Entries)-1))
}

// ScrollDown moves towards the newest entry.
func (m *Model) ScrollDown(n int) {
	m.Offset = max(0, m.Offset-n)
}

// View renders the log as a bordered overlay of the given outer size.
func (m Model) View(width, height int) string {
	inner := max(20, width-4)
	rows := max(3, height-6)

	title := theme.StyleHeader.Render(" EVENT LOG ")
	footer := theme.StyleDimmed.Render(fmt.Sprintf("j/k:scroll  esc:close  %d entries  %d errors", len(m.Entries), m.Errors))

	var body string
	if len(m.Entries) == 0 {
		body = theme.StyleDimmed.Render("  Nothing logged yet.")
	} else {
		end := max(0, len(m.Entries)-m.Offset)
		start := max(0, end-rows)
		lines := make([]string, 0, end-start)
		for _, e := range m.Entries[start:end] {
			lines = append(lines, renderEntry(e, inner))
		}
		body = strings.Join(lines, "\n")
		if m.Offset > 0 {
			body += "\n" + theme.StyleDimmed.Render(fmt.Sprintf(" ↓ %d newer", m.Offset))
		}
	}

	return lipgloss.NewStyle().
		Width(inner).
		Padding(1, 2).
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(theme.ColorBorder).
		Render(lipgloss.JoinVertical(lipgloss.Left, title, "", body, "", footer))
}

func renderEntry(e Entry, width int) string {
	ts := theme.StyleDimmed.Render(e.Time.Format("15:04:05"))
	kind := lipgloss.NewStyle().Foreground(kindToColor(e.Kind)).Width(5).Render(e.Kind)
	msg := e.Message
	if e.Count > 1 {
		msg = fmt.Sprintf("%s (x%d)", msg, e.Count)
	}
	if limit := width - 20; limit > 3 {
		if r := []rune(msg); len(r) > limit {
			msg = string(r[:limit-3]) + "..."
		}
	}
	return ts + " " + kind + " " + msg
}

func kindToColor(kind string) lipgloss.Color {
	switch kind {
	case "ws":
		return theme.ColorAccent
	case "http":
		return theme.ColorM17
	case "err":
		return theme.ColorDanger
	case "evt":
		return theme.ColorYSF
	case "swp":
		return theme.ColorWarning
	default:
		return theme.ColorDimmed
	}
}
