package cli

import "github.com/charmbracelet/lipgloss"

var (
	logStyle   = lipgloss.NewStyle()
	redStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F5F"))
	greenStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#5FD75F"))
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFA500")).Bold(true)
)
