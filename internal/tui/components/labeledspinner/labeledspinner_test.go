package labeledspinner_test

import (
	"testing"

	"github.com/alkime/promo/internal/tui/components/labeledspinner"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
)

//nolint:gochecknoinits // recommend for CI by bubbletea folks
func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

func TestLabeledSpinner(t *testing.T) {
	m := labeledspinner.New(spinner.Points, "ожидание доступа", "разрешите доступ")

	t.Run("initial state", func(t *testing.T) {
		assert.Equal(t, "ожидание доступа", m.Label)
		assert.Equal(t, "разрешите доступ", m.Hint)
		assert.Equal(t, spinner.Points, m.Spinner.Spinner)
	})

	v0 := m.View()
	t.Run("view output", func(t *testing.T) {
		assert.Contains(t, v0, "ожидание доступа")
		assert.Contains(t, v0, "разрешите доступ")
		assert.Contains(t, v0, spinner.Points.Frames[0])
		assert.Contains(t, m.Frame(), spinner.Points.Frames[0])
	})

	t.Run("spinner ticks advance frames", func(t *testing.T) {
		m, _ = m.Update(spinner.TickMsg{})
		assert.Contains(t, m.View(), spinner.Points.Frames[1])
		m, _ = m.Update(spinner.TickMsg{})
		assert.Contains(t, m.View(), spinner.Points.Frames[2])
	})

	t.Run("other messages are ignored", func(t *testing.T) {
		before := m.View()
		next, cmd := m.Update("noise")
		assert.Nil(t, cmd)
		assert.Equal(t, before, next.View())
	})
}

func TestLabeledSpinner_NoHint(t *testing.T) {
	m := labeledspinner.New(spinner.Dot, "ждём", "")
	assert.NotContains(t, m.View(), "\n")
}
