package render

import "github.com/charmbracelet/lipgloss"

var (
	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444466")).
		Padding(1, 2)

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#00ffff"))

	Subtle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688"))

	MetricLabel = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888899"))

	MetricValue = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00ccff")).
			Bold(true)

	// Fit quality by R².
	QualityGood = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff88"))
	QualityFair = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffcc00"))
	QualityPoor = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff4444"))

	Warning = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#ffaa00"))

	KeyHint = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688")).
		Italic(true)

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffffff")).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(lipgloss.Color("#444466"))

	ActiveTab = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ff00ff")).
			Padding(0, 1)

	InactiveTab = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666688")).
			Padding(0, 1)
)

// Quality picks the style for an R² value.
func Quality(r2 float64) lipgloss.Style {
	switch {
	case r2 >= 0.99:
		return QualityGood
	case r2 >= 0.9:
		return QualityFair
	default:
		return QualityPoor
	}
}
