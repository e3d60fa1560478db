// Package labeledspinner renders a spinner next to a status line.
package labeledspinner

import (
	"strings"

	"github.com/alkime/promo/internal/tui/style"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Model shows a spinner, a status label and an optional hint below it.
// The questionnaire uses it while the capture device is being opened.
type Model struct {
	Spinner spinner.Model
	Label   string
	Hint    string
}

// New creates a labeled spinner.
func New(s spinner.Spinner, label, hint string) Model {
	sp := spinner.New()
	sp.Spinner = s

	return Model{
		Spinner: sp,
		Label:   label,
		Hint:    hint,
	}
}

// Init starts the spinner.
func (ls Model) Init() tea.Cmd {
	return ls.Spinner.Tick
}

// Update advances the spinner on its own ticks and ignores everything else.
func (ls Model) Update(teaMsg tea.Msg) (Model, tea.Cmd) {
	if tickMsg, ok := teaMsg.(spinner.TickMsg); ok {
		var cmd tea.Cmd
		ls.Spinner, cmd = ls.Spinner.Update(tickMsg)

		return ls, cmd
	}

	return ls, nil
}

// View renders the spinner with its label and hint.
func (ls Model) View() string {
	var sb strings.Builder

	sb.WriteString(ls.Spinner.View())
	sb.WriteString(" ")
	sb.WriteString(style.Subtitle.Render(ls.Label))

	if ls.Hint != "" {
		sb.WriteString("\n")
		sb.WriteString(style.Muted.Render(ls.Hint))
	}

	return sb.String()
}

// Frame renders the spinner alone, for status lines that carry their own text.
func (ls Model) Frame() string {
	return ls.Spinner.View()
}
