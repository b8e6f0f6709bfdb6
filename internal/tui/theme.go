package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/notefeed/internal/content"
)

// Catppuccin Mocha, https://catppuccin.com/palette
const (
	colorPink     lipgloss.Color = "#f5c2e7"
	colorMauve    lipgloss.Color = "#cba6f7"
	colorRed      lipgloss.Color = "#f38ba8"
	colorPeach    lipgloss.Color = "#fab387"
	colorYellow   lipgloss.Color = "#f9e2af"
	colorGreen    lipgloss.Color = "#a6e3a1"
	colorTeal     lipgloss.Color = "#94e2d5"
	colorSky      lipgloss.Color = "#89dceb"
	colorBlue     lipgloss.Color = "#89b4fa"
	colorLavender lipgloss.Color = "#b4befe"

	colorText     lipgloss.Color = "#cdd6f4"
	colorSubtext0 lipgloss.Color = "#a6adc8"
	colorOverlay1 lipgloss.Color = "#7f849c"
	colorSurface1 lipgloss.Color = "#45475a"
)

const (
	colorAccent  = colorPink
	colorFocus   = colorLavender
	colorSuccess = colorGreen
	colorError   = colorRed
	colorWarning = colorYellow
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorText)
	mutedStyle    = lipgloss.NewStyle().Foreground(colorOverlay1)
	labelStyle    = lipgloss.NewStyle().Foreground(colorSubtext0)
	sectionStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorMauve)
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorFocus)
	errorStyle    = lipgloss.NewStyle().Foreground(colorError)
	successStyle  = lipgloss.NewStyle().Foreground(colorSuccess)
	warningStyle  = lipgloss.NewStyle().Foreground(colorWarning)
	linkStyle     = lipgloss.NewStyle().Underline(true).Foreground(colorBlue)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSurface1).
			Padding(0, 1)
	focusedCardStyle = cardStyle.BorderForeground(colorFocus)
	modalStyle       = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorAccent).
				Padding(1, 2)
)

// kindColor gives each view kind a stable accent in the feed.
func kindColor(k content.ViewKind) lipgloss.Color {
	switch k {
	case content.ViewDocument:
		return colorBlue
	case content.ViewImage:
		return colorPeach
	case content.ViewVideo:
		return colorRed
	case content.ViewAudio:
		return colorTeal
	case content.ViewCode:
		return colorGreen
	case content.ViewLink:
		return colorSky
	case content.ViewWidget:
		return colorMauve
	default:
		return colorOverlay1
	}
}
