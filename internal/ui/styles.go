package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/orbit/internal/task"
)

var (
	colorSubtle  = lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#5C5C5C"}
	colorAccent  = lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7571F9"}
	colorWarning = lipgloss.AdaptiveColor{Light: "#C2410C", Dark: "#FB923C"}
	colorError   = lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#F87171"}
	colorSuccess = lipgloss.AdaptiveColor{Light: "#047857", Dark: "#34D399"}

	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	subtleStyle  = lipgloss.NewStyle().Foreground(colorSubtle)
	errorStyle   = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	confirmStyle = lipgloss.NewStyle().Foreground(colorWarning).Bold(true)
	bannerStyle  = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
	tagStyle     = lipgloss.NewStyle().Foreground(colorAccent).Italic(true)
	doneStyle    = lipgloss.NewStyle().Foreground(colorSubtle).Strikethrough(true)

	selectedSubtaskStyle = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)

	columnStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSubtle).
			Padding(0, 1)
	activeColumnStyle = columnStyle.BorderForeground(colorAccent)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(colorSubtle).
			Padding(0, 1)
	selectedCardStyle = cardStyle.Border(lipgloss.ThickBorder()).BorderForeground(colorAccent)
	carriedCardStyle  = cardStyle.Border(lipgloss.DoubleBorder()).BorderForeground(colorWarning)

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorAccent).
			Padding(1, 2)
	labelStyle        = lipgloss.NewStyle().Width(10).Foreground(colorSubtle)
	focusedLabelStyle = labelStyle.Foreground(colorAccent).Bold(true)
)

func priorityStyle(p task.Priority) lipgloss.Style {
	switch p {
	case task.PriorityHigh:
		return lipgloss.NewStyle().Foreground(colorError).Bold(true)
	case task.PriorityLow:
		return lipgloss.NewStyle().Foreground(colorSubtle)
	default:
		return lipgloss.NewStyle().Foreground(colorWarning)
	}
}
