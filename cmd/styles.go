package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"forecastwatch/internal/record"
)

var (
	colorEarly  = lipgloss.AdaptiveColor{Light: "#2E8B57", Dark: "#3CB371"}
	colorOnTime = lipgloss.AdaptiveColor{Light: "#FF8C00", Dark: "#FFA500"}
	colorLate   = lipgloss.AdaptiveColor{Light: "#DC143C", Dark: "#FF6B6B"}
	colorDim    = lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#626262"}
	colorHeader = lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7571F9"}

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorHeader)

	sectorStyle = lipgloss.NewStyle().
			Bold(true).
			PaddingTop(1)

	dimStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	earlyStyle  = lipgloss.NewStyle().Foreground(colorEarly).Bold(true)
	onTimeStyle = lipgloss.NewStyle().Foreground(colorOnTime).Bold(true)
	lateStyle   = lipgloss.NewStyle().Foreground(colorLate).Bold(true)
)

func renderStatus(s record.Status) string {
	switch s {
	case record.StatusEarly:
		return earlyStyle.Render(string(s))
	case record.StatusOnTime:
		return onTimeStyle.Render(string(s))
	case record.StatusLate:
		return lateStyle.Render(string(s))
	default:
		return dimStyle.Render(string(s))
	}
}

func renderValue(v record.Value) string {
	if v.Unit == "" {
		return fmt.Sprintf("%g", v.Amount)
	}
	return fmt.Sprintf("%g %s", v.Amount, v.Unit)
}
