// Package theme provides the Lip Gloss color palette and reusable styles
// for the urfd dashboard TUI. It is a leaf package with no internal imports
// to avoid import cycles.
package theme

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Protocol colors.
var (
	ColorDStar   = lipgloss.Color("#3b82f6")
	ColorDMR     = lipgloss.Color("#a855f7")
	ColorYSF     = lipgloss.Color("#06b6d4")
	ColorM17     = lipgloss.Color("#22c55e")
	ColorP25     = lipgloss.Color("#d97706")
	ColorNXDN    = lipgloss.Color("#f59e0b")
	ColorURF     = lipgloss.Color("#67e8f9")
	ColorDefault = lipgloss.Color("#9ca3af")
)

// Session colors.
var (
	ColorOnAir = lipgloss.Color("#dc2626")
	ColorEnded = lipgloss.Color("#6b7280")
)

// UI chrome colors.
var (
	ColorBorder  = lipgloss.Color("#4b5563")
	ColorDimmed  = lipgloss.Color("#6b7280")
	ColorBright  = lipgloss.Color("#f9fafb")
	ColorBg      = lipgloss.Color("#111827")
	ColorAccent  = lipgloss.Color("#2563eb")
	ColorHealthy = lipgloss.Color("#22c55e")
	ColorWarning = lipgloss.Color("#d97706")
	ColorDanger  = lipgloss.Color("#dc2626")
)

// ProtocolColor returns the Lip Gloss color for a protocol label.
func ProtocolColor(protocol string) lipgloss.Color {
	p := strings.ToLower(protocol)
	switch {
	case p == "dmr" || p == "mmdvm" || p == "bm":
		return ColorDMR
	case p == "ysf":
		return ColorYSF
	case p == "m17":
		return ColorM17
	case p == "p25":
		return ColorP25
	case p == "nxdn":
		return ColorNXDN
	case p == "urf":
		return ColorURF
	case strings.HasPrefix(p, "d"):
		// DPlus, DCS, DExtra, DStar, G3.
		return ColorDStar
	default:
		return ColorDefault
	}
}

// SessionGlyph returns the marker shown next to a hearing.
func SessionGlyph(onAir bool) string {
	if onAir {
		return "●"
	}
	return "·"
}

// Reusable styles.
var (
	StyleBorder = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder)

	StyleHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorBright)

	StyleDimmed = lipgloss.NewStyle().
			Foreground(ColorDimmed)

	StyleSelected = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorBright)

	StyleOnAir = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorOnAir)

	StyleTab = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(ColorDimmed)

	StyleTabActive = lipgloss.NewStyle().
			Padding(0, 1).
			Bold(true).
			Foreground(ColorBright).
			Background(ColorAccent)
)
