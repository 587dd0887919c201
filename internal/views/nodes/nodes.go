// Package nodes renders the reflector's connected clients, heard users and
// linked peers.
package nodes

import (
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/urfd-dashboard/tui/internal/client"
	"github.com/urfd-dashboard/tui/internal/theme"
	"github.com/urfd-dashboard/tui/internal/views/lastheard"
)

// Section selects which collection the view shows.
type Section int

const (
	SectionClients Section = iota
	SectionUsers
	SectionPeers
)

// Name returns a display label.
func (s Section) Name() string {
	switch s {
	case SectionClients:
		return "Clients"
	case SectionUsers:
		return "Users"
	case SectionPeers:
		return "Peers"
	default:
		return "?"
	}
}

// Model holds the node tables.
type Model struct {
	Section Section
	Module  string // when set, only rows on this module are shown

	clients []client.Client
	users   []client.User
	peers   []client.Peer
	now     func() time.Time
}

// New creates an empty model.
func New() Model {
	return Model{now: time.Now}
}

// SetState replaces all three collections.
func (m *Model) SetState(clients []client.Client, users []client.User, peers []client.Peer) {
	m.clients = clients
	m.users = users
	m.peers = peers
}

// View renders the selected section.
func (m Model) View() string {
	now := time.Now()
	if m.now != nil {
		now = m.now()
	}

	title := m.Section.Name()
	if m.Module != "" && m.Section != SectionPeers {
		title += " on module " + m.Module
	}
	header := theme.StyleHeader.Render("  " + title)

	var rows [][]string
	var cols []string
	switch m.Section {
	case SectionClients:
		cols = []string{"Callsign", "Protocol", "Mod", "Connected"}
		list := append([]client.Client(nil), m.clients...)
		sort.SliceStable(list, func(i, j int) bool { return list[i].ConnectTime.After(list[j].ConnectTime) })
		for _, c := range list {
			if m.Module != "" && c.OnModule != m.Module {
				continue
			}
			rows = append(rows, []string{c.Callsign, c.Protocol, c.OnModule, lastheard.FormatSince(c.ConnectTime, now)})
		}
	case SectionUsers:
		cols = []string{"Callsign", "Repeater", "Mod", "Via", "Heard"}
		list := append([]client.User(nil), m.users...)
		sort.SliceStable(list, func(i, j int) bool { return list[i].LastHeard.After(list[j].LastHeard) })
		for _, u := range list {
			if m.Module != "" && u.OnModule != m.Module {
				continue
			}
			rows = append(rows, []string{u.Callsign, u.Repeater, u.OnModule, u.ViaPeer, lastheard.FormatSince(u.LastHeard, now)})
		}
	case SectionPeers:
		cols = []string{"Callsign", "Protocol", "Connected"}
		for _, p := range m.peers {
			rows = append(rows, []string{p.Callsign, p.Protocol, lastheard.FormatSince(p.ConnectTime, now)})
		}
	}

	if len(rows) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left,
			header,
			theme.StyleDimmed.Render("  None"),
		)
	}

	widths := make([]int, len(cols))
	for i, c := range cols {
		widths[i] = lipgloss.Width(c)
	}
	for _, r := range rows {
		for i, cell := range r {
			if w := lipgloss.Width(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	lines := []string{header, theme.StyleDimmed.Render("  " + joinRow(cols, widths))}
	for _, r := range rows {
		lines = append(lines, "  "+joinRow(r, widths))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func joinRow(cells []string, widths []int) string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = c + strings.Repeat(" ", widths[i]-lipgloss.Width(c))
	}
	return strings.TrimRight(strings.Join(out, "  "), " ")
}
