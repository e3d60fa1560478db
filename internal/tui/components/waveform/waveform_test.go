package waveform_test

import (
	"strings"
	"testing"

	"github.com/alkime/promo/internal/tui/components/waveform"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//nolint:gochecknoinits // recommend for CI by bubbletea folks
func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

// mockLevels implements uictl.Levels[int16] for testing.
type mockLevels struct {
	peaks []int16
}

func (m *mockLevels) Read() []int16 {
	return m.peaks
}

func TestWaveform_Baseline(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "▁▁▁▁▁", waveform.New(&mockLevels{}, 5, 1).View())
	assert.Equal(t, "▁▁▁▁▁", waveform.New(nil, 5, 1).View())
}

func TestWaveform_BaselineMultiRow(t *testing.T) {
	t.Parallel()

	rows := strings.Split(waveform.New(nil, 3, 2).View(), "\n")
	require.Len(t, rows, 2)
	assert.Equal(t, "   ", rows[0])
	assert.Equal(t, "▁▁▁", rows[1])
}

func TestWaveform_FullScale(t *testing.T) {
	t.Parallel()

	m := waveform.New(&mockLevels{peaks: []int16{32767, 32767, 32767}}, 3, 2)
	assert.Equal(t, "███\n███", m.View())
}

func TestWaveform_Silence(t *testing.T) {
	t.Parallel()

	m := waveform.New(&mockLevels{peaks: []int16{0, 0, 0}}, 3, 1)
	assert.Equal(t, "   ", m.View())
}

func TestWaveform_RightAlignsShortHistory(t *testing.T) {
	t.Parallel()

	m := waveform.New(&mockLevels{peaks: []int16{32767}}, 4, 1)
	assert.Equal(t, "   █", m.View())
}

func TestWaveform_KeepsNewestPeaks(t *testing.T) {
	t.Parallel()

	m := waveform.New(&mockLevels{peaks: []int16{32767, 32767, 0, 0}}, 2, 1)
	assert.Equal(t, "  ", m.View())
}

func TestWaveform_QuietInputStillVisible(t *testing.T) {
	t.Parallel()

	// about 2% of full scale still reaches the first block
	m := waveform.New(&mockLevels{peaks: []int16{600}}, 1, 1)
	assert.NotEqual(t, " ", m.View())
}

func TestWaveform_TickReschedules(t *testing.T) {
	t.Parallel()

	m := waveform.New(nil, 1, 1)
	_, cmd := m.Update(waveform.TickMsg{})
	require.NotNil(t, cmd)

	_, cmd = m.Update(struct{}{})
	assert.Nil(t, cmd)
}
