package tui_test

import (
	"bytes"
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alkime/promo/internal/lead"
	"github.com/alkime/promo/internal/share"
	"github.com/alkime/promo/internal/tui"
	"github.com/alkime/promo/internal/tui/wizard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//nolint:gochecknoinits // recommend for CI by bubbletea folks
func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

type knob struct {
	mu sync.Mutex
	on bool
}

func (k *knob) Read() bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.on
}

func (k *knob) On() {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.on = true
}

func (k *knob) Off() {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.on = false
}

type dial struct{}

func (dial) Read() int64 { return 0 }

type sharer struct {
	mu    sync.Mutex
	links []string
}

func (s *sharer) Share(_ context.Context, p share.Platform, fd lead.FormData) (string, error) {
	link, err := share.URL(p, fd, "")
	s.mu.Lock()
	s.links = append(s.links, link)
	s.mu.Unlock()
	return link, err
}

func (s *sharer) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.links)
}

func waitFor(t *testing.T, tm *teatest.TestModel, substr string) {
	t.Helper()
	teatest.WaitFor(t, tm.Output(), func(buf []byte) bool {
		return bytes.Contains(buf, []byte(substr))
	}, teatest.WithCheckInterval(50*time.Millisecond), teatest.WithDuration(3*time.Second))
}

func typeRunes(tm *teatest.TestModel, s string) {
	for _, r := range s {
		tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

//nolint:funlen // end-to-end walk through all four steps
func TestWizard_FullLeadAndReset(t *testing.T) {
	state := lead.New()
	k := &knob{}
	sh := &sharer{}

	var resets atomic.Int32
	cfg := tui.Config{
		Reset: func() { resets.Add(1) },
	}

	m := tui.New(context.Background(), cfg, state,
		wizard.RecordingControls{Capture: k, Captured: dial{}}, sh)
	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(180, 50))

	waitFor(t, tm, "IMPERIA")
	tm.Send(tea.KeyMsg{Type: tea.KeyEnter})

	waitFor(t, tm, "выберите QR")
	tm.Send(tea.KeyMsg{Type: tea.KeyEnter}) // nothing selected yet, stays put
	typeRunes(tm, "2")
	waitFor(t, tm, "далее")
	tm.Send(tea.KeyMsg{Type: tea.KeyEnter})

	waitFor(t, tm, "Анкета")
	typeRunes(tm, "Anna")
	tm.Send(tea.KeyMsg{Type: tea.KeyTab})
	typeRunes(tm, "Leo")
	tm.Send(tea.KeyMsg{Type: tea.KeyTab})
	typeRunes(tm, "5")

	tm.Send(tea.KeyMsg{Type: tea.KeyCtrlR})
	waitFor(t, tm, "Стоп")
	tm.Send(tea.KeyMsg{Type: tea.KeyCtrlR})
	waitFor(t, tm, "Далее")
	tm.Send(tea.KeyMsg{Type: tea.KeyEnter})

	waitFor(t, tm, "Готово!")
	typeRunes(tm, "w")
	waitFor(t, tm, "Открыто: WhatsApp")
	assert.Equal(t, 1, sh.count())

	typeRunes(tm, "n")
	waitFor(t, tm, "шаг 1/4")

	tm.Send(tea.KeyMsg{Type: tea.KeyCtrlC})
	tm.WaitFinished(t, teatest.WithFinalTimeout(3*time.Second))

	assert.Equal(t, lead.StepWelcome, state.Step)
	assert.Empty(t, state.SelectedImage)
	assert.Nil(t, state.RecordedVideo)
	assert.Equal(t, lead.FormData{}, state.Form)
	assert.Equal(t, int32(1), resets.Load())
}

func TestWizard_StepTracksPhase(t *testing.T) {
	state := lead.New()
	m := tui.New(context.Background(), tui.Config{}, state,
		wizard.RecordingControls{Capture: &knob{}, Captured: dial{}}, &sharer{})
	m.Init()

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	// the step only moves once the phase command's message comes back
	require.Equal(t, lead.StepWelcome, state.Step)

	m, _ = m.Update(cmd())
	assert.Equal(t, lead.StepSelectQR, state.Step)
	assert.Contains(t, m.View(), "выберите QR")
	assert.Contains(t, m.View(), "шаг 2/4")
	assert.Contains(t, m.View(), "Выбор QR")
	assert.NotContains(t, m.View(), "Select QR")
}

func TestWizard_QuitReleasesCapture(t *testing.T) {
	var released, cancelled bool
	cfg := tui.Config{
		Release: func() { released = true },
		Cancel:  func() { cancelled = true },
	}

	m := tui.New(context.Background(), cfg, lead.New(),
		wizard.RecordingControls{Capture: &knob{}, Captured: dial{}}, &sharer{})

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
	assert.True(t, released)
	assert.True(t, cancelled)
}
