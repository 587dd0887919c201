// Package dashboard provides a traffic summary row and a top-talkers
// leaderboard built from the last-heard history.
package dashboard

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/urfd-dashboard/tui/internal/client"
	"github.com/urfd-dashboard/tui/internal/theme"
)

// maxTalkers caps the leaderboard.
const maxTalkers = 10

// Talker aggregates the hearings of one source callsign.
type Talker struct {
	Callsign string
	Count    int
	Airtime  float64 // seconds, ended hearings only
	Protocol string  // protocol of the most recent hearing
	OnAir    bool
}

// Model holds the dashboard state.
type Model struct {
	Width int

	talkers []Talker
	total   int
	onAir   int
	airtime float64
}

// New creates a dashboard model.
func New() Model {
	return Model{}
}

// SetHearings rebuilds the aggregates. hearings must be newest first.
func (m *Model) SetHearings(hearings []client.HearingRecord, isActive func(int64) bool) {
	byCall := make(map[string]*Talker)
	m.total, m.onAir, m.airtime = len(hearings), 0, 0

	for _, h := range hearings {
		t, ok := byCall[h.Source]
		if !ok {
			t = &Talker{Callsign: h.Source, Protocol: h.Protocol}
			byCall[h.Source] = t
		}
		t.Count++
		if isActive(h.ID) {
			t.OnAir = true
			m.onAir++
			continue
		}
		t.Airtime += h.Duration
		m.airtime += h.Duration
	}

	m.talkers = make([]Talker, 0, len(byCall))
	for _, t := range byCall {
		m.talkers = append(m.talkers, *t)
	}
	sort.Slice(m.talkers, func(i, j int) bool {
		a, b := m.talkers[i], m.talkers[j]
		if a.Airtime != b.Airtime {
			return a.Airtime > b.Airtime
		}
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Callsign < b.Callsign
	})
}

// Talkers returns the ranked talkers.
func (m Model) Talkers() []Talker { return m.talkers }

// View renders the stats row and leaderboard.
func (m Model) View() string {
	width := max(m.Width, 40)
	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderStatsRow(width),
		m.renderLeaderboard(width),
	)
}

func (m Model) renderStatsRow(width int) string {
	statStyle := lipgloss.NewStyle().Padding(0, 1)
	stats := []string{
		statStyle.Foreground(theme.ColorOnAir).Render(fmt.Sprintf("On air: %d", m.onAir)),
		statStyle.Foreground(theme.ColorBright).Render(fmt.Sprintf("Heard: %d", m.total)),
		statStyle.Foreground(theme.ColorAccent).Render(fmt.Sprintf("Callsigns: %d", len(m.talkers))),
		statStyle.Foreground(theme.ColorHealthy).Render(fmt.Sprintf("Airtime: %s", formatAirtime(m.airtime))),
	}
	content := strings.Join(stats, lipgloss.NewStyle().Foreground(theme.ColorBorder).Render(" | "))

	return lipgloss.NewStyle().
		Width(width).
		Padding(0, 1).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.ColorBorder).
		Render(content)
}

func (m Model) renderLeaderboard(width int) string {
	header := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorBright).Render("  Top Talkers")
	if len(m.talkers) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, header, theme.StyleDimmed.Render("  No traffic"))
	}

	const (
		colRank  = 4
		colCall  = 12
		colProto = 8
		colCount = 6
		colAir   = 10
	)
	dim := lipgloss.NewStyle().Foreground(theme.ColorDimmed)
	bright := lipgloss.NewStyle().Foreground(theme.ColorBright).Bold(true)

	tableHeader := fmt.Sprintf("  %-*s %-*s %-*s %*s %*s",
		colRank, "#", colCall, "Callsign", colProto, "Proto", colCount, "Count", colAir, "Airtime")
	lines := []string{
		header,
		dim.Render(tableHeader),
		dim.Render("  " + strings.Repeat("─", min(width-4, colRank+colCall+colProto+colCount+colAir+4))),
	}

	for i, t := range m.talkers[:min(len(m.talkers), maxTalkers)] {
		call := lipgloss.NewStyle().Width(colCall).Render(t.Callsign)
		if t.OnAir {
			call = theme.StyleOnAir.Width(colCall).Render(t.Callsign)
		}
		proto := lipgloss.NewStyle().Foreground(theme.ProtocolColor(t.Protocol)).Width(colProto).Render(t.Protocol)
		lines = append(lines, fmt.Sprintf("  %-*d %s %s %s %s",
			colRank, i+1,
			call,
			proto,
			bright.Width(colCount).Align(lipgloss.Right).Render(fmt.Sprintf("%d", t.Count)),
			bright.Width(colAir).Align(lipgloss.Right).Render(formatAirtime(t.Airtime)),
		))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// formatAirtime renders seconds as "42s", "3m 12s" or "1h 5m".
func formatAirtime(seconds float64) string {
	s := int(seconds)
	switch {
	case s < 60:
		return fmt.Sprintf("%ds", s)
	case s < 3600:
		return fmt.Sprintf("%dm %ds", s/60, s%60)
	default:
		return fmt.Sprintf("%dh %dm", s/3600, (s%3600)/60)
	}
}
