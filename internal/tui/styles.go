// package tui provides the terminal user interface
package tui

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	// colors - teal/blue palette, chezmoi-ish
	primaryColor   = lipgloss.Color("45")  // cyan
	secondaryColor = lipgloss.Color("39")  // blue
	accentColor    = lipgloss.Color("87")  // light cyan
	successColor   = lipgloss.Color("86")  // green
	errorColor     = lipgloss.Color("203") // red
	warnColor      = lipgloss.Color("214") // orange
	mutedColor     = lipgloss.Color("241") // gray

	// title style - big and bold
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			MarginBottom(1)

	// subtitle for section headers
	subtitleStyle = lipgloss.NewStyle().
			Foreground(secondaryColor).
			Bold(true).
			MarginTop(1)

	// muted text for descriptions
	mutedStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Italic(true)

	// selected item in a list
	selectedStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true).
			PaddingLeft(2)

	// error message style
	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor).
			Bold(true).
			Padding(1)

	// success message style
	successStyle = lipgloss.NewStyle().
			Foreground(successColor).
			Bold(true)

	// warning / notice style
	warnStyle = lipgloss.NewStyle().
			Foreground(warnColor)

	// help text at the bottom
	helpStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			MarginTop(1)

	// diff additions (green)
	diffAddStyle = lipgloss.NewStyle().
			Foreground(successColor)

	// diff deletions (red)
	diffDelStyle = lipgloss.NewStyle().
			Foreground(errorColor)

	// diff file headers (cyan)
	diffHeaderStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true)

	// diff context (gray)
	diffContextStyle = lipgloss.NewStyle().
				Foreground(mutedColor)

	// confirm dialog box
	confirmBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(errorColor).
			Padding(1, 2)

	// spinner style for loading
	spinnerStyle = lipgloss.NewStyle().
			Foreground(primaryColor)

	// toggled-on option marker
	checkedStyle = lipgloss.NewStyle().
			Foreground(successColor).
			Bold(true)
)

// formatTitle renders a title with the app name
func formatTitle(text string) string {
	return titleStyle.Render(text)
}

// formatSubtitle renders a section header
func formatSubtitle(text string) string {
	return subtitleStyle.Render(text)
}

// formatError renders an error message
func formatError(text string) string {
	return errorStyle.Render(text)
}

// formatSuccess renders a success message
func formatSuccess(text string) string {
	return successStyle.Render(text)
}

// formatHelp renders help text
func formatHelp(text string) string {
	return helpStyle.Render(text)
}

// formatDiffLine colorizes a diff line based on its prefix
func formatDiffLine(line string) string {
	if len(line) == 0 {
		return line
	}

	switch {
	case len(line) > 10 && line[:11] == "diff --git ":
		return diffHeaderStyle.Render(line)
	case line[0] == '+':
		return diffAddStyle.Render(line)
	case line[0] == '-':
		return diffDelStyle.Render(line)
	default:
		return diffContextStyle.Render(line)
	}
}
