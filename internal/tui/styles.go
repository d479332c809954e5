package tui

import "github.com/charmbracelet/lipgloss"

// Palette
var (
	ColorIce   = lipgloss.Color("#A8D8EA") // Accents
	ColorDeep  = lipgloss.Color("#596E79") // Secondary text
	ColorDark  = lipgloss.Color("#2C3E50") // Dark background elements
	ColorText  = lipgloss.Color("#E0E0E0") // Primary text
	ColorAlert = lipgloss.Color("#FF6B6B") // block
	ColorGood  = lipgloss.Color("#4ECDC4") // permit
	ColorWarn  = lipgloss.Color("#FFE66D") // warning
	ColorMuted = lipgloss.Color("#6c757d")
)

// Styles
var (
	StyleTitle = lipgloss.NewStyle().
			Foreground(ColorIce).
			Bold(true)

	StyleSubtitle = lipgloss.NewStyle().
			Foreground(ColorDeep).
			Italic(true)

	StyleCard = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorDeep).
			Padding(0, 1)

	StyleApp = lipgloss.NewStyle().Margin(1, 2)

	StyleTopBar = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(ColorDeep).
			Padding(0, 1).
			MarginBottom(1)

	StyleMenuItem = lipgloss.NewStyle().
			Foreground(ColorDeep).
			Padding(0, 1)

	StyleMenuItemActive = lipgloss.NewStyle().
				Foreground(ColorDark).
				Background(ColorIce).
				Bold(true).
				Padding(0, 1)

	StyleMenuKey = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Faint(true)

	StyleHelp = lipgloss.NewStyle().Foreground(ColorMuted)
)
