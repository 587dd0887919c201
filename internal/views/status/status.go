package status

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/urfd-dashboard/tui/internal/theme"
)

// Model holds the status bar state.
type Model struct {
	Connected bool
	Reflector string
	OnAir     int
	Clients   int
	Users     int
	Peers     int
	Width     int
}

// New creates a status bar model.
func New() Model {
	return Model{}
}

// SetCounts updates the entity counts.
func (m *Model) SetCounts(onAir, clients, users, peers int) {
	m.OnAir = onAir
	m.Clients = clients
	m.Users = users
	m.Peers = peers
}

// View renders the status bar.
func (m Model) View() string {
	width := m.Width
	if width < 40 {
		width = 40
	}

	var connStr string
	if m.Connected {
		connStr = lipgloss.NewStyle().Foreground(theme.ColorHealthy).Render("● Connected")
	} else {
		connStr = lipgloss.NewStyle().Foreground(theme.ColorDanger).Render("○ Reconnecting...")
	}

	onAir := fmt.Sprintf("%d on air", m.OnAir)
	if m.OnAir > 0 {
		onAir = theme.StyleOnAir.Render(onAir)
	}
	counts := fmt.Sprintf("%s  %d clients  %d users  %d peers",
		onAir, m.Clients, m.Users, m.Peers)

	sep := lipgloss.NewStyle().Foreground(theme.ColorBorder).Render(" | ")
	content := connStr + sep + counts
	if m.Reflector != "" {
		content = theme.StyleHeader.Render(m.Reflector) + sep + content
	}

	bar := lipgloss.NewStyle().
		Width(width).
		Padding(0, 1).
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(theme.ColorBorder).
		Render(content)

	return bar
}
