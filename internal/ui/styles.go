package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/josephgoksu/tasksage/internal/schedule"
	"github.com/josephgoksu/tasksage/internal/task"
)

var (
	// Colors
	ColorPrimary   = lipgloss.Color("205") // Pink
	ColorSecondary = lipgloss.Color("241") // Gray
	ColorSuccess   = lipgloss.Color("42")  // Green
	ColorError     = lipgloss.Color("160") // Red
	ColorWarning   = lipgloss.Color("214") // Orange/Yellow
	ColorText      = lipgloss.Color("252") // White/Gray
	ColorCyan      = lipgloss.Color("87")

	// Base Styles
	StyleTitle   = lipgloss.NewStyle().Foreground(ColorText).Bold(true)
	StyleSubtle  = lipgloss.NewStyle().Foreground(ColorSecondary)
	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess)
	StyleError   = lipgloss.NewStyle().Foreground(ColorError)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning)
	StyleText    = lipgloss.NewStyle().Foreground(ColorText)

	StyleSectionTitle = lipgloss.NewStyle().
				Foreground(ColorPrimary).
				Bold(true).
				Underline(true)

	StyleBriefingBox = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(ColorCyan).
				Padding(0, 1)
)

// PriorityStyle colors a priority label.
func PriorityStyle(p task.Priority) lipgloss.Style {
	switch p {
	case task.PriorityCritical:
		return StyleError.Bold(true)
	case task.PriorityHigh:
		return StyleWarning
	case task.PriorityMedium:
		return StyleText
	default:
		return StyleSubtle
	}
}

// DifficultyStyle colors a difficulty rating.
func DifficultyStyle(d schedule.Difficulty) lipgloss.Style {
	switch d {
	case schedule.DifficultyHigh:
		return StyleError
	case schedule.DifficultyMedium:
		return StyleWarning
	default:
		return StyleSuccess
	}
}
