package dialog

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Spacing units
const (
	SpaceXS = 1
	SpaceSM = 2

	minBoxWidth = 40
)

// Color Palette - Semantic colors with consistent light/dark mode support
var (
	ColorPrimary = lipgloss.AdaptiveColor{
		Light: "#5A56E0",
		Dark:  "#7571F9",
	}
	ColorSuccess = lipgloss.AdaptiveColor{
		Light: "#059669",
		Dark:  "#10B981",
	}
	ColorError = lipgloss.AdaptiveColor{
		Light: "#DC2626",
		Dark:  "#EF4444",
	}
	ColorSurfaceAlt = lipgloss.AdaptiveColor{
		Light: "#F3F4F6",
		Dark:  "#262626",
	}
	ColorBorder = lipgloss.AdaptiveColor{
		Light: "#E5E7EB",
		Dark:  "#404040",
	}
	ColorBorderFocus = lipgloss.AdaptiveColor{
		Light: "#5A56E0",
		Dark:  "#7571F9",
	}
	ColorText = lipgloss.AdaptiveColor{
		Light: "#111827",
		Dark:  "#F9FAFB",
	}
	ColorTextSecondary = lipgloss.AdaptiveColor{
		Light: "#6B7280",
		Dark:  "#9CA3AF",
	}
	ColorBackground = lipgloss.AdaptiveColor{
		Light: "#FFFFFF",
		Dark:  "#0F0F0F",
	}
	ColorBackgroundOverlay = lipgloss.AdaptiveColor{
		Light: "#FFFFFF",
		Dark:  "#1E1E1E",
	}
)

var (
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorderFocus).
			Background(ColorBackgroundOverlay).
			Foreground(ColorText).
			Padding(1, SpaceSM)

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			MarginBottom(SpaceXS)

	TextStyle = lipgloss.NewStyle().
			Foreground(ColorText).
			MarginBottom(SpaceXS)

	ItemStyle = lipgloss.NewStyle().
			PaddingLeft(SpaceSM)

	ItemSelectedStyle = ItemStyle.
				Foreground(ColorPrimary).
				Bold(true)

	TagStyle = lipgloss.NewStyle().
			Bold(true)

	DescriptionStyle = lipgloss.NewStyle().
				Foreground(ColorTextSecondary)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorTextSecondary)

	InputStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(ColorBorder)

	InputFocusedStyle = InputStyle.
				BorderForeground(ColorBorderFocus)

	ButtonStyle = lipgloss.NewStyle().
			Padding(0, SpaceSM).
			Background(ColorPrimary).
			Foreground(ColorBackground).
			Bold(true)

	ButtonSecondaryStyle = ButtonStyle.
				Background(ColorSurfaceAlt).
				Foreground(ColorText).
				Bold(false)

	ErrorTextStyle = lipgloss.NewStyle().
			Foreground(ColorError)

	SuccessTextStyle = lipgloss.NewStyle().
				Foreground(ColorSuccess)

	HelpStyle = lipgloss.NewStyle().
			MarginTop(SpaceXS)
)

// truncate shortens s to width display cells, marking the cut with an ellipsis.
func truncate(s string, width int) string {
	if width <= 0 {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}
