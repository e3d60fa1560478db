// Package phases renders one screen at a time out of a fixed, forward-only sequence.
package phases

import (
	tea "github.com/charmbracelet/bubbletea"
)

// NextPhaseMsg moves the container to the following phase. It is ignored on the last one.
type NextPhaseMsg struct{}

// ResetMsg moves the container back to the first phase.
type ResetMsg struct{}

// NextPhaseCmd emits NextPhaseMsg.
func NextPhaseCmd() tea.Msg { return NextPhaseMsg{} }

// ResetCmd emits ResetMsg.
func ResetCmd() tea.Msg { return ResetMsg{} }

// Phase is a named screen.
type Phase struct {
	Name  string
	model tea.Model
}

func NewPhase(name string, mdl tea.Model) Phase {
	return Phase{Name: name, model: mdl}
}

// Model holds the sequence and the position in it. Only the active phase
// receives messages; a phase is re-initialised every time it is entered.
type Model struct {
	phases []Phase
	curr   int
}

func New(phases []Phase) Model {
	return Model{phases: phases}
}

func (m Model) Init() tea.Cmd {
	return m.phases[m.curr].model.Init()
}

func (m Model) Update(teaMsg tea.Msg) (tea.Model, tea.Cmd) {
	switch teaMsg.(type) {
	case NextPhaseMsg:
		return m.enter(m.curr + 1)
	case ResetMsg:
		return m.enter(0)
	}

	active := &m.phases[m.curr]

	var cmd tea.Cmd
	active.model, cmd = active.model.Update(teaMsg)

	return m, cmd
}

// enter activates phase i. Positions past the end leave the model unchanged.
func (m Model) enter(i int) (Model, tea.Cmd) {
	if i >= len(m.phases) {
		return m, nil
	}

	m.curr = i

	return m, m.phases[i].model.Init()
}

func (m Model) View() string {
	return m.phases[m.curr].model.View()
}

// CurrentPhaseName returns the name of the active phase.
func (m Model) CurrentPhaseName() string {
	return m.phases[m.curr].Name
}

// Index returns the zero-based position of the active phase.
func (m Model) Index() int {
	return m.curr
}

// Len returns the number of phases.
func (m Model) Len() int {
	return len(m.phases)
}
