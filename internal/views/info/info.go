// Package info renders the reflector description and configuration panel.
package info

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/glamour"
	"github.com/urfd-dashboard/tui/internal/client"
)

// Model holds the info panel state.
type Model struct {
	Style string // glamour standard style name

	info     *client.ReflectorInfo
	config   map[string]any
	viewport viewport.Model
	width    int
	dirty    bool
}

// New creates an info panel.
func New() Model {
	return Model{Style: "dark", viewport: viewport.New(80, 20), width: 80, dirty: true}
}

// SetInfo stores the display configuration fetched from the backend.
func (m *Model) SetInfo(info *client.ReflectorInfo) {
	m.info = info
	m.dirty = true
}

// SetConfig stores the reflector's configuration mapping.
func (m *Model) SetConfig(cfg map[string]any) {
	m.config = cfg
	m.dirty = true
}

// SetSize resizes the panel.
func (m *Model) SetSize(width, height int) {
	if width < 20 {
		width = 20
	}
	if height < 3 {
		height = 3
	}
	if width != m.width {
		m.dirty = true
	}
	m.width = width
	m.viewport.Width = width
	m.viewport.Height = height
}

// Scroll moves the viewport by n lines; negative values scroll up.
func (m *Model) Scroll(n int) {
	m.refresh()
	m.viewport.SetYOffset(m.viewport.YOffset + n)
}

// View renders the panel.
func (m *Model) View() string {
	m.refresh()
	return m.viewport.View()
}

func (m *Model) refresh() {
	if !m.dirty {
		return
	}
	m.dirty = false
	md := m.markdown()
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(m.Style),
		glamour.WithWordWrap(m.width-2),
	)
	if err == nil {
		if out, err := r.Render(md); err == nil {
			m.viewport.SetContent(out)
			return
		}
	}
	m.viewport.SetContent(md)
}

// markdown builds the panel source.
func (m *Model) markdown() string {
	var b strings.Builder
	name := "Reflector"
	if m.info != nil && m.info.Name != "" {
		name = m.info.Name
	}
	fmt.Fprintf(&b, "# %s\n\n", name)
	if m.info != nil {
		if m.info.Description != "" {
			b.WriteString(m.info.Description)
			b.WriteString("\n\n")
		}
		if m.info.Version != "" {
			fmt.Fprintf(&b, "Version **%s**\n\n", m.info.Version)
		}
	} else {
		b.WriteString("_Display configuration not available._\n\n")
	}

	if len(m.config) > 0 {
		b.WriteString("## Configuration\n\n| Key | Value |\n| --- | --- |\n")
		keys := make([]string, 0, len(m.config))
		for k := range m.config {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "| %s | %v |\n", k, m.config[k])
		}
	}
	return b.String()
}
