package wizard

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alkime/promo/internal/lead"
	"github.com/alkime/promo/internal/share"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/muesli/termenv"
)

//nolint:gochecknoinits // recommend for CI by bubbletea folks
func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

// outputChecker provides helpers for testing teatest output.
type outputChecker struct {
	intervl, timeout time.Duration
}

func defaultChecker() outputChecker {
	return outputChecker{
		intervl: 100 * time.Millisecond,
		timeout: 3 * time.Second,
	}
}

func (o outputChecker) check(t *testing.T, tm *teatest.TestModel, checkFunc func(buf []byte) bool) {
	t.Helper()
	teatest.WaitFor(t, tm.Output(), checkFunc,
		teatest.WithCheckInterval(o.intervl),
		teatest.WithDuration(o.timeout))
}

func (o outputChecker) checkString(t *testing.T, tm *teatest.TestModel, substr string) {
	t.Helper()
	o.check(t, tm, func(buf []byte) bool {
		return bytes.Contains(buf, []byte(substr))
	})
}

// mockKnob implements uictl.Knob for testing. A denied knob never turns on.
type mockKnob struct {
	mu     sync.Mutex
	state  bool
	denied bool
	ons    int
	offs   int
}

func (m *mockKnob) Read() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *mockKnob) On() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ons++
	m.state = !m.denied
}

func (m *mockKnob) Off() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.offs++
	m.state = false
}

// mockDial implements uictl.Dial[int64] for testing.
type mockDial struct {
	value int64
}

func (m *mockDial) Read() int64 { return m.value }

// mockLevels implements uictl.Levels[int16] for testing.
type mockLevels struct {
	peaks []int16
}

func (m *mockLevels) Read() []int16 { return m.peaks }

// mockSharer implements Sharer for testing.
type mockSharer struct {
	mu     sync.Mutex
	shared []share.Platform
	forms  []lead.FormData
}

func (m *mockSharer) Share(_ context.Context, p share.Platform, fd lead.FormData) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shared = append(m.shared, p)
	m.forms = append(m.forms, fd)
	return share.URL(p, fd, "https://promo.example/")
}

func (m *mockSharer) calls() []share.Platform {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]share.Platform(nil), m.shared...)
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}
