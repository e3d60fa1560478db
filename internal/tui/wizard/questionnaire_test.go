package wizard

import (
	"testing"
	"time"

	"github.com/alkime/promo/internal/lead"
	"github.com/alkime/promo/internal/tui/components/phases"
	"github.com/alkime/promo/internal/tui/components/waveform"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func questionnaireAt(t *testing.T, knob *mockKnob) (*lead.State, *questionnaireStep) {
	t.Helper()

	state := lead.New()
	state.Advance()
	require.NoError(t, state.SelectImageAt(0))
	state.Advance()

	q, ok := NewQuestionnaire(state, RecordingControls{
		Capture:  knob,
		Captured: &mockDial{value: 2048},
		Levels:   &mockLevels{peaks: []int16{32767, 32767, 32767}},
	}).(*questionnaireStep)
	require.True(t, ok)

	clock := time.Date(2026, 10, 14, 10, 0, 0, 0, time.UTC)
	q.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	q.Init()

	return state, q
}

func typeText(q tea.Model, s string) {
	for _, r := range s {
		q.Update(keyRunes(string(r)))
	}
}

func startRecording(t *testing.T, q *questionnaireStep) {
	t.Helper()

	_, cmd := q.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	require.NotNil(t, cmd)

	msg := cmd()
	require.IsType(t, captureOpenedMsg{}, msg)
	q.Update(msg)
}

func TestQuestionnaire_FillRecordAndAdvance(t *testing.T) {
	knob := &mockKnob{}
	state, q := questionnaireAt(t, knob)

	view := q.View()
	for _, label := range []string{"Анкета", "Имя родителя", "Имя ребенка", "Возраст", "контроль качества", "Записать"} {
		assert.Contains(t, view, label)
	}

	typeText(q, "Anna")
	q.Update(tea.KeyMsg{Type: tea.KeyTab})
	typeText(q, "Leo")
	q.Update(tea.KeyMsg{Type: tea.KeyTab})
	typeText(q, "5")

	require.Equal(t, lead.FormData{ParentName: "Anna", ChildName: "Leo", Age: "5"}, state.Form)

	// enter before recording just moves between fields
	q.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, 0, q.focus)

	startRecording(t, q)
	require.True(t, state.IsRecording)
	assert.True(t, knob.Read())
	assert.Contains(t, q.View(), "Стоп")
	assert.Contains(t, q.View(), "2.0 KB")

	typeText(q, "zzz")
	assert.Equal(t, "5", state.Form.Age, "form is locked while recording")

	_, _ = q.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	assert.False(t, state.IsRecording)
	assert.False(t, knob.Read(), "hardware released on stop")
	require.NotNil(t, state.RecordedVideo)
	assert.Contains(t, q.View(), "Далее")

	typeText(q, "zzz")
	assert.Equal(t, "5", state.Form.Age, "form stays locked once recorded")

	// a second recording is not offered
	_, cmd := q.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	assert.Nil(t, cmd)
	assert.Equal(t, 1, knob.ons)

	_, cmd = q.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, phases.NextPhaseMsg{}, cmd())
}

func TestQuestionnaire_DeniedCaptureStaysIdle(t *testing.T) {
	knob := &mockKnob{denied: true}
	state, q := questionnaireAt(t, knob)

	startRecording(t, q)

	assert.False(t, state.IsRecording)
	assert.Nil(t, state.RecordedVideo)
	assert.Contains(t, q.View(), "Записать")
	assert.False(t, state.FormLocked())

	typeText(q, "Anna")
	assert.Equal(t, "Anna", state.Form.ParentName, "form still editable after refusal")

	q.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, 1, q.focus, "no next step without a recording")
}

func TestQuestionnaire_PendingRequestIgnoresRepeats(t *testing.T) {
	knob := &mockKnob{}
	_, q := questionnaireAt(t, knob)

	_, first := q.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	require.NotNil(t, first)
	assert.Contains(t, q.View(), "ожидание доступа")

	_, second := q.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	assert.Nil(t, second)

	q.Update(first())
	assert.Equal(t, 1, knob.ons)
	assert.Contains(t, q.View(), "Стоп")
}

func TestQuestionnaire_InitReloadsFromState(t *testing.T) {
	knob := &mockKnob{}
	state, q := questionnaireAt(t, knob)

	typeText(q, "Anna")
	state.Reset()
	q.Init()

	assert.Empty(t, q.inputs[0].Value())
	assert.Contains(t, q.View(), "Записать")
}

func TestQuestionnaire_TeatestRecording(t *testing.T) {
	knob := &mockKnob{}
	_, q := questionnaireAt(t, knob)

	tm := teatest.NewTestModel(t, q, teatest.WithInitialTermSize(160, 40))
	checker := defaultChecker()

	checker.checkString(t, tm, "Записать")

	tm.Send(tea.KeyMsg{Type: tea.KeyCtrlR})
	checker.checkString(t, tm, "Стоп")

	tm.Send(tea.KeyMsg{Type: tea.KeyCtrlR})
	checker.checkString(t, tm, "Далее")

	require.NoError(t, tm.Quit())
}

func TestQuestionnaire_MeterWhileRecording(t *testing.T) {
	knob := &mockKnob{}
	state, q := questionnaireAt(t, knob)

	assert.NotContains(t, q.View(), "███", "no meter before recording")

	_, cmd := q.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	require.NotNil(t, cmd)
	assert.Contains(t, q.View(), "разрешите доступ к микрофону")

	q.Update(cmd())
	require.True(t, state.IsRecording)
	assert.Contains(t, q.View(), "███", "full-scale input fills the meter")

	_, cmd = q.Update(waveform.TickMsg{})
	assert.NotNil(t, cmd, "meter keeps ticking while recording")

	q.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	require.False(t, state.IsRecording)
	assert.NotContains(t, q.View(), "███")

	_, cmd = q.Update(waveform.TickMsg{})
	assert.Nil(t, cmd, "meter ticker stops after the recording")
}
