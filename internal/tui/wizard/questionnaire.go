package wizard

import (
	"strings"
	"time"

	"github.com/alkime/promo/internal/lead"
	"github.com/alkime/promo/internal/tui/components/labeledspinner"
	"github.com/alkime/promo/internal/tui/components/phases"
	"github.com/alkime/promo/internal/tui/components/waveform"
	"github.com/alkime/promo/internal/tui/style"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/stopwatch"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// captureOpenedMsg reports the outcome of a pending capture request.
type captureOpenedMsg struct {
	started bool
}

type questionnaireKeyMap struct {
	NextField key.Binding
	PrevField key.Binding
	Record    key.Binding
	Next      key.Binding
}

func defaultQuestionnaireKeyMap() questionnaireKeyMap {
	return questionnaireKeyMap{
		NextField: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab", "следующее поле"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
		),
		Record: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "записать/стоп"),
		),
		Next: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "далее"),
		),
	}
}

type questionnaireStep struct {
	keys      questionnaireKeyMap
	state     *lead.State
	controls  RecordingControls
	now       func() time.Time
	fields    []lead.Field
	inputs    []textinput.Model
	focus     int
	pending   bool
	waiting   labeledspinner.Model
	meter     waveform.Model
	stopwatch stopwatch.Model
}

const (
	meterWidth  = 24
	meterHeight = 2
)

// NewQuestionnaire creates the form + quality-control recording step.
func NewQuestionnaire(state *lead.State, controls RecordingControls) tea.Model {
	fields := lead.Fields()
	inputs := make([]textinput.Model, len(fields))
	for i := range fields {
		ti := textinput.New()
		ti.CharLimit = 64
		ti.Width = 30
		ti.Prompt = "› "
		inputs[i] = ti
	}

	return &questionnaireStep{
		keys:      defaultQuestionnaireKeyMap(),
		state:     state,
		controls:  controls,
		now:       time.Now,
		fields:    fields,
		inputs:    inputs,
		waiting:   labeledspinner.New(spinner.Points, "ожидание доступа к устройству", "разрешите доступ к микрофону"),
		meter:     waveform.New(controls.Levels, meterWidth, meterHeight),
		stopwatch: stopwatch.NewWithInterval(time.Second),
	}
}

// Init loads the inputs from the shared state; a reset lead starts empty.
func (q *questionnaireStep) Init() tea.Cmd {
	for i, f := range q.fields {
		q.inputs[i].SetValue(q.state.Form.Get(f))
	}

	q.pending = false
	q.stopwatch = stopwatch.NewWithInterval(time.Second)
	q.focus = 0

	return tea.Batch(q.refocus(), q.waiting.Init())
}

func (q *questionnaireStep) Update(teaMsg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch typedMsg := teaMsg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(typedMsg, q.keys.Record):
			return q, q.toggleRecording()

		case key.Matches(typedMsg, q.keys.Next):
			if q.state.CanAdvance() {
				return q, phases.NextPhaseCmd
			}

			return q, q.moveFocus(1)

		case key.Matches(typedMsg, q.keys.NextField):
			return q, q.moveFocus(1)

		case key.Matches(typedMsg, q.keys.PrevField):
			return q, q.moveFocus(-1)
		}

		if q.state.FormLocked() {
			return q, nil
		}

		var cmd tea.Cmd
		q.inputs[q.focus], cmd = q.inputs[q.focus].Update(typedMsg)
		q.state.SetField(q.fields[q.focus], q.inputs[q.focus].Value())

		return q, cmd

	case captureOpenedMsg:
		q.pending = false
		if !typedMsg.started {
			// refusal is already logged by the capture adapter
			return q, nil
		}

		q.state.BeginRecording(q.now())
		q.blurAll()

		return q, tea.Batch(q.stopwatch.Start(), q.meter.Init())

	case spinner.TickMsg:
		var cmd tea.Cmd
		q.waiting, cmd = q.waiting.Update(typedMsg)
		cmds = append(cmds, cmd)

	case waveform.TickMsg:
		// the meter stops ticking once the recording ends
		if q.state.IsRecording {
			var cmd tea.Cmd
			q.meter, cmd = q.meter.Update(typedMsg)
			cmds = append(cmds, cmd)
		}

	default:
		// cursor blink and friends
		if !q.state.FormLocked() {
			var cmd tea.Cmd
			q.inputs[q.focus], cmd = q.inputs[q.focus].Update(typedMsg)
			cmds = append(cmds, cmd)
		}
	}

	var swCmd tea.Cmd
	q.stopwatch, swCmd = q.stopwatch.Update(teaMsg)
	cmds = append(cmds, swCmd)

	return q, tea.Batch(cmds...)
}

// toggleRecording walks the Записать → Стоп → Далее cycle.
func (q *questionnaireStep) toggleRecording() tea.Cmd {
	switch {
	case q.pending || q.state.RecordedVideo != nil:
		return nil

	case q.state.IsRecording:
		q.controls.Capture.Off()
		q.state.FinishRecording(q.now())

		return q.stopwatch.Stop()

	default:
		q.pending = true
		knob := q.controls.Capture

		return func() tea.Msg {
			knob.On()
			return captureOpenedMsg{started: knob.Read()}
		}
	}
}

func (q *questionnaireStep) moveFocus(delta int) tea.Cmd {
	n := len(q.inputs)
	q.focus = (q.focus + delta + n) % n

	return q.refocus()
}

func (q *questionnaireStep) refocus() tea.Cmd {
	q.blurAll()
	if q.state.FormLocked() {
		return nil
	}

	return q.inputs[q.focus].Focus()
}

func (q *questionnaireStep) blurAll() {
	for i := range q.inputs {
		q.inputs[i].Blur()
	}
}

func (q *questionnaireStep) View() string {
	panels := lipgloss.JoinHorizontal(lipgloss.Top,
		q.renderImage(),
		q.renderForm(),
		q.renderRecorder(),
	)

	var sb strings.Builder

	sb.WriteString(panels)
	sb.WriteString("\n\n")
	sb.WriteString(renderKeyHelp(q.keys.NextField, " "))
	sb.WriteString(renderKeyHelp(q.keys.Record, " "))

	if q.state.CanAdvance() {
		sb.WriteString(renderKeyHelp(q.keys.Next, ""))
	}

	sb.WriteString("\n")
	sb.WriteString(renderGlobalKeyHelp())

	return sb.String()
}

func (q *questionnaireStep) renderImage() string {
	body := style.Muted.Render("—")
	if q.state.SelectedImage != "" {
		body = "QR " + itoa(lead.ImageIndex(q.state.SelectedImage)+1) + "\n" +
			style.Muted.Render(shortImageName(q.state.SelectedImage))
	}

	return style.Card.Render(style.Label.Render("Выбранный QR") + "\n\n" + body)
}

func (q *questionnaireStep) renderForm() string {
	var sb strings.Builder

	sb.WriteString(style.Title.Render("Анкета"))
	sb.WriteString("\n\n")

	locked := q.state.FormLocked()
	for i, f := range q.fields {
		sb.WriteString(style.Label.Render(f.Label()))
		sb.WriteString("\n")

		if locked {
			sb.WriteString(style.Muted.Render("  " + q.state.Form.Get(f)))
		} else {
			sb.WriteString(q.inputs[i].View())
		}

		sb.WriteString("\n")
	}

	return style.Card.Render(sb.String())
}

func (q *questionnaireStep) renderRecorder() string {
	var sb strings.Builder

	sb.WriteString(style.Title.Render("контроль качества"))
	sb.WriteString("\n\n")

	switch {
	case q.pending:
		sb.WriteString(q.waiting.View())

	case q.state.IsRecording:
		sb.WriteString(q.waiting.Frame())
		sb.WriteString(" ")
		sb.WriteString(style.Recording.Render("● REC"))
		sb.WriteString(" ")
		sb.WriteString(style.Subtitle.Render(q.stopwatch.View()))
		sb.WriteString("\n")
		sb.WriteString(q.meter.View())
		sb.WriteString("\n")
		sb.WriteString(style.Muted.Render(formatKB(q.captured())))
		sb.WriteString("\n\n")
		sb.WriteString(renderButton("■ Стоп"))

	case q.state.RecordedVideo != nil:
		sb.WriteString(style.Success.Render("✓ записано "))
		sb.WriteString(style.Subtitle.Render(q.state.RecordedVideo.Duration().Round(time.Second).String()))
		sb.WriteString("\n\n")
		sb.WriteString(renderButton("→ Далее"))

	default:
		sb.WriteString(style.Muted.Render("камера не активна"))
		sb.WriteString("\n\n")
		sb.WriteString(renderButton("● Записать"))
	}

	return style.Card.Render(sb.String())
}

func (q *questionnaireStep) captured() int64 {
	if q.controls.Captured == nil {
		return 0
	}

	return q.controls.Captured.Read()
}
