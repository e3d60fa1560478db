// Package style defines lipgloss styles for the TUI.
package style

import "github.com/charmbracelet/lipgloss"

// UI styles using lipgloss.
// These are package-level for convenience; lipgloss styles are value types
// and safe for concurrent use.
var (
	// Brand is the IMPERIA wordmark on the welcome step.
	Brand = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("33"))

	// Title is used for step titles and card headers.
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("33"))

	// Subtitle is used for secondary text.
	Subtitle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	// Success is used for the completion mark.
	Success = lipgloss.NewStyle().
		Foreground(lipgloss.Color("42"))

	// Recording is used for the live recording indicator.
	Recording = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))

	// Card frames each panel of the questionnaire step.
	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62")).
		Padding(0, 1)

	// SelectedCard frames the chosen QR image.
	SelectedCard = Card.
			BorderForeground(lipgloss.Color("33")).
			Bold(true)

	// Button renders an action label.
	Button = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("255")).
		Background(lipgloss.Color("33")).
		Padding(0, 2)

	// Help is used for keyboard shortcut hints.
	Help = lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	// Key is used for highlighting keyboard keys.
	Key = lipgloss.NewStyle().
		Foreground(lipgloss.Color("33")).
		Bold(true)

	// Label is used for form labels.
	Label = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("255"))

	// Muted is used for de-emphasized text and locked inputs.
	Muted = lipgloss.NewStyle().
		Foreground(lipgloss.Color("245"))
)
