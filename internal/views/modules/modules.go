// Package modules renders one lane per reflector module, grouped by how
// recently the module carried traffic.
package modules

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/urfd-dashboard/tui/internal/client"
	"github.com/urfd-dashboard/tui/internal/theme"
)

// Lane summarises one module.
type Lane struct {
	Module  string
	Latest  *client.HearingRecord // on-air hearing if any, else the newest
	OnAir   bool
	Clients int
	Users   int
}

// Model holds the module board state.
type Model struct {
	Width int

	lanes []Lane
	now   func() time.Time
}

// New creates an empty board.
func New() Model {
	return Model{now: time.Now}
}

// SetState rebuilds the lanes. hearings must be newest first.
func (m *Model) SetState(hearings []client.HearingRecord, isActive func(int64) bool, clients []client.Client, users []client.User) {
	byModule := make(map[string]*Lane)
	lane := func(module string) *Lane {
		l, ok := byModule[module]
		if !ok {
			l = &Lane{Module: module}
			byModule[module] = l
		}
		return l
	}

	for i := range hearings {
		h := &hearings[i]
		if h.Module == "" {
			continue
		}
		l := lane(h.Module)
		if l.OnAir {
			continue
		}
		if isActive(h.ID) {
			l.Latest, l.OnAir = h, true
		} else if l.Latest == nil {
			l.Latest = h
		}
	}
	for _, c := range clients {
		if c.OnModule != "" {
			lane(c.OnModule).Clients++
		}
	}
	for _, u := range users {
		if u.OnModule != "" {
			lane(u.OnModule).Users++
		}
	}

	m.lanes = make([]Lane, 0, len(byModule))
	for _, l := range byModule {
		m.lanes = append(m.lanes, *l)
	}
	sort.Slice(m.lanes, func(i, j int) bool { return m.lanes[i].Module < m.lanes[j].Module })
}

// Lanes returns the lanes sorted by module.
func (m Model) Lanes() []Lane { return m.lanes }

// Counts returns the number of lanes in each activity group.
func (m Model) Counts() (onAir, recent, quiet int) {
	now := m.clock()
	for _, l := range m.lanes {
		switch Classify(l.Latest, l.OnAir, now) {
		case ActivityOnAir:
			onAir++
		case ActivityRecent:
			recent++
		default:
			quiet++
		}
	}
	return onAir, recent, quiet
}

// View renders the board.
func (m Model) View() string {
	width := max(m.Width, 60)
	now := m.clock()

	groups := map[Activity][]Lane{}
	for _, l := range m.lanes {
		a := Classify(l.Latest, l.OnAir, now)
		groups[a] = append(groups[a], l)
	}

	var sections []string
	for _, a := range []Activity{ActivityOnAir, ActivityRecent, ActivityQuiet} {
		sections = append(sections, groupHeader(a, width))
		if len(groups[a]) == 0 {
			sections = append(sections, theme.StyleDimmed.Render("  none"))
			continue
		}
		for _, l := range groups[a] {
			sections = append(sections, renderLane(l, a, now))
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) clock() time.Time {
	if m.now == nil {
		return time.Now()
	}
	return m.now()
}

func groupHeader(a Activity, width int) string {
	if a == ActivityOnAir {
		text := "═══ " + a.Name() + " "
		return theme.StyleHeader.Render(text + strings.Repeat("═", max(4, width-len(text)-2)))
	}
	text := "─── " + a.Name() + " "
	return theme.StyleDimmed.Render(text + strings.Repeat("─", max(4, width-len(text)-2)))
}

func renderLane(l Lane, a Activity, now time.Time) string {
	var b strings.Builder
	b.WriteString("  ")
	if a == ActivityOnAir {
		b.WriteString(theme.StyleOnAir.Render(theme.SessionGlyph(true)))
	} else {
		b.WriteString(theme.StyleDimmed.Render(theme.SessionGlyph(false)))
	}
	b.WriteString(" ")
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(theme.ColorBright).Render(fmt.Sprintf("%-3s", l.Module)))

	if h := l.Latest; h != nil {
		call := fmt.Sprintf("%-10s", h.Source)
		if a == ActivityOnAir {
			call = theme.StyleOnAir.Render(call)
		}
		b.WriteString(call)
		b.WriteString(lipgloss.NewStyle().Foreground(theme.ProtocolColor(h.Protocol)).Render(fmt.Sprintf("%-7s", h.Protocol)))
		if a == ActivityOnAir {
			b.WriteString(fmt.Sprintf("%-10s", elapsed(h.CreatedAt, now)))
		} else {
			b.WriteString(fmt.Sprintf("%-10s", elapsed(h.CreatedAt, now)+" ago"))
		}
	} else {
		b.WriteString(theme.StyleDimmed.Render(fmt.Sprintf("%-27s", "no traffic")))
	}

	b.WriteString(theme.StyleDimmed.Render(fmt.Sprintf("%d clients  %d users", l.Clients, l.Users)))
	return b.String()
}

// elapsed renders the time since t compactly ("42s", "3m", "2h").
func elapsed(t, now time.Time) string {
	if t.IsZero() {
		return "-"
	}
	d := now.Sub(t)
	switch {
	case d < 0:
		return "0s"
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	default:
		return fmt.Sprintf("%dh", int(d.Hours()))
	}
}
