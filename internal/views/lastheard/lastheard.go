// Package lastheard renders the last-heard table for the urfd dashboard.
package lastheard

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/urfd-dashboard/tui/internal/client"
	"github.com/urfd-dashboard/tui/internal/theme"
)

// Model holds the last-heard table state.
type Model struct {
	Width  int
	Height int
	Offset int // first visible row

	rows  []client.HearingRecord
	onAir map[int64]bool
	now   func() time.Time
}

// New creates an empty table.
func New() Model {
	return Model{onAir: make(map[int64]bool), now: time.Now}
}

// SetHearings replaces the rows. isActive is consulted once per row.
func (m *Model) SetHearings(rows []client.HearingRecord, isActive func(int64) bool) {
	m.rows = rows
	m.onAir = make(map[int64]bool, len(rows))
	for _, h := range rows {
		if isActive(h.ID) {
			m.onAir[h.ID] = true
		}
	}
	m.clampOffset()
}

// Len returns the number of rows.
func (m Model) Len() int { return len(m.rows) }

// Selected returns the top visible row.
func (m Model) Selected() (client.HearingRecord, bool) {
	if m.Offset >= len(m.rows) {
		return client.HearingRecord{}, false
	}
	return m.rows[m.Offset], true
}

// ScrollUp moves the viewport towards the newest hearing.
func (m *Model) ScrollUp(n int) {
	m.Offset -= n
	m.clampOffset()
}

// ScrollDown moves the viewport towards older hearings.
func (m *Model) ScrollDown(n int) {
	m.Offset += n
	m.clampOffset()
}

func (m *Model) clampOffset() {
	max := len(m.rows) - 1
	if max < 0 {
		max = 0
	}
	if m.Offset > max {
		m.Offset = max
	}
	if m.Offset < 0 {
		m.Offset = 0
	}
}

// Column widths (fixed layout).
const (
	colMark     = 2
	colSince    = 9
	colCallsign = 10
	colDest     = 10
	colRpt      = 10
	colModule   = 4
	colProtocol = 8
	colDuration = 8
)

// View renders the table.
func (m Model) View() string {
	header := theme.StyleHeader.Render("  Last Heard")
	if len(m.rows) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left,
			header,
			theme.StyleDimmed.Render("  Nothing heard yet"),
		)
	}

	colHeader := theme.StyleDimmed.Render(strings.Join([]string{
		pad("", colMark),
		pad("Since", colSince),
		pad("Callsign", colCallsign),
		pad("To", colDest),
		pad("Via", colRpt),
		pad("Gateway", colRpt),
		pad("Mod", colModule),
		pad("Proto", colProtocol),
		pad("Dur", colDuration),
	}, " "))

	visible := m.Height - 2
	if visible < 1 {
		visible = len(m.rows)
	}
	end := m.Offset + visible
	if end > len(m.rows) {
		end = len(m.rows)
	}

	now := m.now
	if now == nil {
		now = time.Now
	}

	lines := []string{header, colHeader}
	for i, h := range m.rows[m.Offset:end] {
		lines = append(lines, m.renderRow(h, now(), i == 0))
	}
	if m.Offset > 0 || end < len(m.rows) {
		lines = append(lines, theme.StyleDimmed.Render(
			fmt.Sprintf("  rows %d-%d of %d", m.Offset+1, end, len(m.rows))))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) renderRow(h client.HearingRecord, now time.Time, selected bool) string {
	onAir := m.onAir[h.ID]

	mark := theme.StyleDimmed.Render(pad(theme.SessionGlyph(false), colMark))
	callsign := pad(h.Source, colCallsign)
	if selected {
		callsign = theme.StyleSelected.Render(callsign)
	}
	duration := FormatDuration(h.Duration)
	if onAir {
		mark = theme.StyleOnAir.Render(pad(theme.SessionGlyph(true), colMark))
		callsign = theme.StyleOnAir.Render(callsign)
		duration = "on air"
	}

	proto := lipgloss.NewStyle().Foreground(theme.ProtocolColor(h.Protocol)).
		Render(pad(h.Protocol, colProtocol))

	return strings.Join([]string{
		mark,
		pad(FormatSince(h.CreatedAt, now), colSince),
		callsign,
		pad(h.Destination, colDest),
		pad(h.Repeater1, colRpt),
		pad(h.Repeater2, colRpt),
		pad(h.Module, colModule),
		proto,
		pad(duration, colDuration),
	}, " ")
}

// FormatSince renders the time elapsed from t to now the way the web
// dashboard does: "3d 4h", "2h 5m", "7m 12s", "42s". Zero times render as
// "-" and future times as "Just now".
func FormatSince(t, now time.Time) string {
	if t.IsZero() {
		return "-"
	}
	d := now.Sub(t)
	if d < 0 {
		return "Just now"
	}

	seconds := int(d / time.Second)
	minutes := seconds / 60
	hours := minutes / 60
	days := hours / 24

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh", days, hours%24)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes%60)
	case minutes > 0:
		return fmt.Sprintf("%dm %ds", minutes, seconds%60)
	default:
		return fmt.Sprintf("%ds", seconds)
	}
}

// FormatDuration renders a transmission length in seconds.
func FormatDuration(seconds float64) string {
	if seconds <= 0 {
		return "-"
	}
	return fmt.Sprintf("%.1fs", seconds)
}

// pad truncates or right-pads s to exactly n cells.
func pad(s string, n int) string {
	if lipgloss.Width(s) > n {
		r := []rune(s)
		for len(r) > 0 && lipgloss.Width(string(r))+1 > n {
			r = r[:len(r)-1]
		}
		s = string(r) + "…"
	}
	return s + strings.Repeat(" ", max(0, n-lipgloss.Width(s)))
}
