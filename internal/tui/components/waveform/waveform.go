// Package waveform draws a live input meter from recent peak amplitudes.
package waveform

import (
	"math"
	"strings"
	"time"

	"github.com/alkime/promo/internal/tui/style"
	"github.com/alkime/promo/pkg/uictl"
	tea "github.com/charmbracelet/bubbletea"
)

// Eight fill levels per row, index 0 is empty.
const blockChars = " ▁▂▃▄▅▆▇█"

const maxAmplitude = 32767.0

// TickMsg triggers a redraw.
type TickMsg struct{}

// Model renders one bar per peak, newest on the right. When there are more
// peaks than columns the oldest are cut; when there are fewer, the bars are
// right-aligned.
type Model struct {
	levels uictl.Levels[int16]
	width  int
	height int
}

// New creates a meter of the given size in cells.
func New(levels uictl.Levels[int16], width, height int) Model {
	return Model{
		levels: levels,
		width:  max(1, width),
		height: max(1, height),
	}
}

// Init starts the redraw ticker.
func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update keeps the ticker running. Callers stop forwarding TickMsg to stop it.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if _, ok := msg.(TickMsg); ok {
		return m, m.tick()
	}

	return m, nil
}

func (m Model) View() string {
	var peaks []int16
	if m.levels != nil {
		peaks = m.levels.Read()
	}

	if len(peaks) == 0 {
		return m.baseline()
	}

	if len(peaks) > m.width {
		peaks = peaks[len(peaks)-m.width:]
	}

	cols := make([]int, m.width)
	offset := m.width - len(peaks)
	for i, p := range peaks {
		cols[offset+i] = fill(p, m.height*8)
	}

	runes := []rune(blockChars)
	rows := make([]string, m.height)

	for row := range m.height {
		base := (m.height - 1 - row) * 8

		var sb strings.Builder
		for _, level := range cols {
			sb.WriteRune(runes[min(8, max(0, level-base))])
		}

		rows[row] = style.Recording.Render(sb.String())
	}

	return strings.Join(rows, "\n")
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(50*time.Millisecond, func(time.Time) tea.Msg {
		return TickMsg{}
	})
}

func (m Model) baseline() string {
	blank := strings.Repeat(" ", m.width)
	rows := make([]string, m.height)

	for row := range m.height - 1 {
		rows[row] = style.Muted.Render(blank)
	}
	rows[m.height-1] = style.Muted.Render(strings.Repeat("▁", m.width))

	return strings.Join(rows, "\n")
}

// fill maps a peak to 0..maxFill on a square-root curve so quiet speech still shows.
func fill(peak int16, maxFill int) int {
	if peak <= 0 {
		return 0
	}

	scaled := math.Sqrt(float64(peak)/maxAmplitude) * float64(maxFill)

	return min(int(scaled), maxFill)
}
