package menu

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorAccent = lipgloss.Color("34")  // green
	colorMuted  = lipgloss.Color("245") // gray
)

// Banner renders the welcome box shown when the interactive menu starts.
func Banner(dataSource string) string {
	title := lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Render("DhartiMetrics")
	muted := lipgloss.NewStyle().Foreground(colorMuted)

	body := strings.Join([]string{
		title,
		"A climate data analysis tool",
		"Focus: Plastic Waste and Wastewater Discharge",
		"",
		muted.Render("Data Source: " + dataSource + " (Indian Government Open Data)"),
	}, "\n")

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorAccent).
		Padding(1, 4).
		Align(lipgloss.Center).
		Render(body)
}
