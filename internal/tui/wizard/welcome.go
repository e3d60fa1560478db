package wizard

import (
	"strings"

	"github.com/alkime/promo/internal/tui/components/phases"
	"github.com/alkime/promo/internal/tui/style"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type welcomeKeyMap struct {
	NewLead key.Binding
}

func defaultWelcomeKeyMap() welcomeKeyMap {
	return welcomeKeyMap{
		NewLead: key.NewBinding(
			key.WithKeys("enter", "+"),
			key.WithHelp("enter", "новый лид"),
		),
	}
}

type welcomeStep struct {
	keys welcomeKeyMap
}

// NewWelcome creates the landing step.
func NewWelcome() tea.Model {
	return &welcomeStep{keys: defaultWelcomeKeyMap()}
}

func (w *welcomeStep) Init() tea.Cmd {
	return nil
}

func (w *welcomeStep) Update(teaMsg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := teaMsg.(tea.KeyMsg); ok && key.Matches(km, w.keys.NewLead) {
		return w, phases.NextPhaseCmd
	}

	return w, nil
}

func (w *welcomeStep) View() string {
	var sb strings.Builder

	sb.WriteString(style.Brand.Render("IMPERIA"))
	sb.WriteString("\n")
	sb.WriteString(style.Subtitle.Render("промо"))
	sb.WriteString("\n\n")
	sb.WriteString(renderButton("+ новый лид"))
	sb.WriteString("\n\n")
	sb.WriteString(renderKeyHelp(w.keys.NewLead, "\n"))
	sb.WriteString(renderGlobalKeyHelp())

	return sb.String()
}
