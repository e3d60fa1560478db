// Package tui wires the wizard steps into a single bubbletea program.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/alkime/promo/internal/lead"
	"github.com/alkime/promo/internal/tui/components/phases"
	"github.com/alkime/promo/internal/tui/style"
	"github.com/alkime/promo/internal/tui/wizard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Config holds what the TUI needs from the command line.
type Config struct {
	// Cancel is called on quit.
	Cancel context.CancelFunc
	// Release frees the capture device on quit, including mid-recording.
	Release func()
	// Reset prepares the capture hardware for a new lead.
	Reset func()
}

// KeyMap defines the global key bindings.
type KeyMap struct {
	Quit      key.Binding
	ForceQuit key.Binding
}

// DefaultKeyMap returns the global key bindings. Letter keys are left to the
// questionnaire inputs.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "выход"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "выход"),
		),
	}
}

type model struct {
	config Config
	keys   KeyMap
	state  *lead.State
	phases phases.Model
}

// New creates the wizard program model over the given session state.
func New(
	ctx context.Context,
	config Config,
	state *lead.State,
	controls wizard.RecordingControls,
	sharer wizard.Sharer,
) tea.Model {
	return &model{
		config: config,
		keys:   DefaultKeyMap(),
		state:  state,
		phases: phases.New([]phases.Phase{
			phases.NewPhase(lead.StepWelcome.String(), wizard.NewWelcome()),
			phases.NewPhase(lead.StepSelectQR.String(), wizard.NewQRSelect(state)),
			phases.NewPhase(lead.StepQuestionnaire.String(), wizard.NewQuestionnaire(state, controls)),
			phases.NewPhase(lead.StepShare.String(), wizard.NewShare(ctx, state, sharer)),
		}),
	}
}

// Init returns the initial command.
func (m *model) Init() tea.Cmd {
	return m.phases.Init()
}

// Update handles all messages.
func (m *model) Update(teaMsg tea.Msg) (tea.Model, tea.Cmd) {
	switch typedMsg := teaMsg.(type) {
	case tea.KeyMsg:
		if key.Matches(typedMsg, m.keys.ForceQuit) || key.Matches(typedMsg, m.keys.Quit) {
			m.quit()
			return m, tea.Quit
		}

	case phases.NextPhaseMsg:
		m.state.Advance()

	case phases.ResetMsg:
		m.state.Reset()
		if m.config.Reset != nil {
			m.config.Reset()
		}
	}

	updatedPhases, cmd := m.phases.Update(teaMsg)
	m.phases = updatedPhases.(phases.Model) //nolint:forcetypeassert // phases.Model always returns phases.Model

	return m, cmd
}

func (m *model) quit() {
	if m.config.Release != nil {
		m.config.Release()
	}

	if m.config.Cancel != nil {
		m.config.Cancel()
	}
}

// View renders the current step.
func (m *model) View() string {
	var sb strings.Builder

	sb.WriteString(style.Subtitle.Render(m.state.Step.Title()))
	sb.WriteString(style.Muted.Render(" · шаг "))
	sb.WriteString(style.Muted.Render(stepCounter(m.state.Step)))
	sb.WriteString("\n\n")
	sb.WriteString(m.phases.View())

	return sb.String()
}

func stepCounter(s lead.Step) string {
	return fmt.Sprintf("%d/%d", s, lead.LastStep)
}
