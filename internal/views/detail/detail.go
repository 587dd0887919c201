// Package detail renders the hearing detail flyout overlay.
package detail

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/urfd-dashboard/tui/internal/client"
	"github.com/urfd-dashboard/tui/internal/theme"
)

const (
	panelWidth = 56
	labelWidth = 12
)

var (
	stylePanel = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.ColorBorder).
			Padding(0, 1)

	styleLabel = lipgloss.NewStyle().
			Foreground(theme.ColorDimmed).
			Width(labelWidth)

	styleValue = lipgloss.NewStyle().
			Foreground(theme.ColorBright)

	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.ColorBright)

	styleFooter = lipgloss.NewStyle().
			Foreground(theme.ColorDimmed)
)

// Model tracks one hearing by id. The record is re-read from the history on
// every Sync so the flyout follows closes and corrections.
type Model struct {
	ID int64

	hearing client.HearingRecord
	found   bool
	onAir   bool
	now     func() time.Time
}

// New creates a flyout for the hearing with the given id.
func New(id int64) Model {
	return Model{ID: id, now: time.Now}
}

// Sync refreshes the tracked record from rows.
func (m *Model) Sync(rows []client.HearingRecord, isActive func(int64) bool) {
	m.found = false
	for _, h := range rows {
		if h.ID == m.ID {
			m.hearing = h
			m.found = true
			break
		}
	}
	m.onAir = m.found && isActive(m.ID)
}

// Found reports whether the hearing is still in the history.
func (m Model) Found() bool { return m.found }

// View renders the flyout. It is empty once the hearing has left the
// history.
func (m Model) View() string {
	if !m.found {
		return ""
	}
	return stylePanel.Width(panelWidth).Render(m.renderInner())
}

func (m Model) renderInner() string {
	h := m.hearing
	now := time.Now()
	if m.now != nil {
		now = m.now()
	}

	var b strings.Builder
	b.WriteString(styleTitle.Render("Hearing: "+h.Source) + "\n")
	b.WriteString(strings.Repeat("─", panelWidth-4) + "\n")

	writeRow(&b, "Session", fmt.Sprintf("%d", h.ID))
	writeRow(&b, "To", orDash(h.Destination))
	writeRow(&b, "Via", orDash(h.Repeater1))
	writeRow(&b, "Gateway", orDash(h.Repeater2))
	writeRow(&b, "Module", orDash(h.Module))
	writeRow(&b, "Protocol", lipgloss.NewStyle().Foreground(theme.ProtocolColor(h.Protocol)).Render(orDash(h.Protocol)))

	b.WriteString("\n")

	if !h.CreatedAt.IsZero() {
		writeRow(&b, "Started", h.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	}
	if m.onAir {
		elapsed := now.Sub(h.CreatedAt).Seconds()
		if h.CreatedAt.IsZero() || elapsed < 0 {
			elapsed = 0
		}
		writeRow(&b, "Status", theme.StyleOnAir.Render(theme.SessionGlyph(true)+" on air"))
		writeRow(&b, "Elapsed", fmt.Sprintf("%.0fs", elapsed))
	} else {
		writeRow(&b, "Status", string(orStatus(h.Status)))
		writeRow(&b, "Duration", durationText(h.Duration))
	}

	b.WriteString("\n")
	b.WriteString(styleFooter.Render("[esc] close"))
	return b.String()
}

func writeRow(b *strings.Builder, label, value string) {
	b.WriteString(styleLabel.Render(label+":") + styleValue.Render(value) + "\n")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func orStatus(s client.HearingStatus) client.HearingStatus {
	if s == "" {
		return client.StatusEnded
	}
	return s
}

func durationText(seconds float64) string {
	if seconds <= 0 {
		return "-"
	}
	return fmt.Sprintf("%.1fs", seconds)
}
