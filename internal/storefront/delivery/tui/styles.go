// Package tui renders the storefront in the terminal with bubbletea.
package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/tair/affiliate-reviews/internal/storefront/domain"
)

// Palette is the set of colors of one theme
type Palette struct {
	Foreground lipgloss.Color
	Muted      lipgloss.Color
	Primary    lipgloss.Color
	Accent     lipgloss.Color
	Border     lipgloss.Color
	Danger     lipgloss.Color
	Success    lipgloss.Color
}

var (
	lightPalette = Palette{
		Foreground: lipgloss.Color("#111827"),
		Muted:      lipgloss.Color("#6B7280"),
		Primary:    lipgloss.Color("#4F46E5"),
		Accent:     lipgloss.Color("#7C3AED"),
		Border:     lipgloss.Color("#D1D5DB"),
		Danger:     lipgloss.Color("#B91C1C"),
		Success:    lipgloss.Color("#15803D"),
	}
	darkPalette = Palette{
		Foreground: lipgloss.Color("#F3F4F6"),
		Muted:      lipgloss.Color("#9CA3AF"),
		Primary:    lipgloss.Color("#818CF8"),
		Accent:     lipgloss.Color("#C4B5FD"),
		Border:     lipgloss.Color("#374151"),
		Danger:     lipgloss.Color("#FCA5A5"),
		Success:    lipgloss.Color("#86EFAC"),
	}
)

// Styles holds the styled components for one theme
type Styles struct {
	Theme domain.Theme

	Header   lipgloss.Style
	Title    lipgloss.Style
	Muted    lipgloss.Style
	Selected lipgloss.Style
	Price    lipgloss.Style
	Card     lipgloss.Style
	AIBadge  lipgloss.Style
	Error    lipgloss.Style
	Success  lipgloss.Style
	Help     lipgloss.Style
}

// NewStyles builds the styles of theme
func NewStyles(theme domain.Theme) Styles {
	p := lightPalette
	if theme == domain.ThemeDark {
		p = darkPalette
	}

	return Styles{
		Theme: theme,
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Primary).
			Padding(0, 1),
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Foreground),
		Muted: lipgloss.NewStyle().
			Foreground(p.Muted),
		Selected: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Accent),
		Price: lipgloss.NewStyle().
			Foreground(p.Success),
		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Border).
			Padding(0, 1),
		AIBadge: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Accent),
		Error: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Danger),
		Success: lipgloss.NewStyle().
			Foreground(p.Success),
		Help: lipgloss.NewStyle().
			Foreground(p.Muted).
			Italic(true),
	}
}
