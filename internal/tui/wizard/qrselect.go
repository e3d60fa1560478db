package wizard

import (
	"fmt"
	"strings"

	"github.com/alkime/promo/internal/lead"
	"github.com/alkime/promo/internal/tui/components/phases"
	"github.com/alkime/promo/internal/tui/style"
	"github.com/alkime/promo/pkg/collections"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const gridColumns = 2

type qrSelectKeyMap struct {
	Left   key.Binding
	Right  key.Binding
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Next   key.Binding
}

func defaultQRSelectKeyMap() qrSelectKeyMap {
	return qrSelectKeyMap{
		Left:  key.NewBinding(key.WithKeys("left", "h")),
		Right: key.NewBinding(key.WithKeys("right", "l")),
		Up:    key.NewBinding(key.WithKeys("up", "k")),
		Down:  key.NewBinding(key.WithKeys("down", "j")),
		Select: key.NewBinding(
			key.WithKeys(" ", "space", "1", "2", "3", "4"),
			key.WithHelp("space/1-4", "выбрать"),
		),
		Next: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "далее"),
		),
	}
}

type qrSelectStep struct {
	keys   qrSelectKeyMap
	state  *lead.State
	cursor int
}

// NewQRSelect creates the image selection step.
func NewQRSelect(state *lead.State) tea.Model {
	return &qrSelectStep{
		keys:  defaultQRSelectKeyMap(),
		state: state,
	}
}

func (q *qrSelectStep) Init() tea.Cmd {
	q.cursor = max(lead.ImageIndex(q.state.SelectedImage), 0)
	return nil
}

func (q *qrSelectStep) Update(teaMsg tea.Msg) (tea.Model, tea.Cmd) {
	km, ok := teaMsg.(tea.KeyMsg)
	if !ok {
		return q, nil
	}

	n := len(lead.SampleImages)

	switch {
	case key.Matches(km, q.keys.Left):
		q.cursor = (q.cursor + n - 1) % n
	case key.Matches(km, q.keys.Right):
		q.cursor = (q.cursor + 1) % n
	case key.Matches(km, q.keys.Up):
		q.cursor = (q.cursor + n - gridColumns) % n
	case key.Matches(km, q.keys.Down):
		q.cursor = (q.cursor + gridColumns) % n
	case key.Matches(km, q.keys.Select):
		if d := km.String(); d >= "1" && d <= "4" {
			q.cursor = int(d[0] - '1')
		}

		// the cursor is always in range
		_ = q.state.SelectImageAt(q.cursor)
	case key.Matches(km, q.keys.Next):
		// "далее" only exists once an image is chosen
		if q.state.CanAdvance() {
			return q, phases.NextPhaseCmd
		}
	}

	return q, nil
}

func (q *qrSelectStep) View() string {
	var sb strings.Builder

	sb.WriteString(style.Title.Render("выберите QR"))
	sb.WriteString("\n\n")

	cards := collections.ApplyIndexed(lead.SampleImages, q.renderCard)
	for row := 0; row < len(cards); row += gridColumns {
		end := min(row+gridColumns, len(cards))
		sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cards[row:end]...))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")

	if q.state.SelectedImage != "" {
		sb.WriteString(renderButton("→ далее"))
		sb.WriteString("\n\n")
		sb.WriteString(renderKeyHelp(q.keys.Select, " "))
		sb.WriteString(renderKeyHelp(q.keys.Next, "\n"))
	} else {
		sb.WriteString(renderKeyHelp(q.keys.Select, "\n"))
	}

	sb.WriteString(renderGlobalKeyHelp())

	return sb.String()
}

func (q *qrSelectStep) renderCard(i int, image string) string {
	marker := "  "
	if i == q.cursor {
		marker = "> "
	}

	body := fmt.Sprintf("%sQR %d\n%s", marker, i+1, style.Muted.Render(shortImageName(image)))

	if image == q.state.SelectedImage {
		return style.SelectedCard.Render(body + "\n✓ выбран")
	}

	return style.Card.Render(body + "\n")
}

// shortImageName trims a sample image URL down to its photo id.
func shortImageName(image string) string {
	name := image
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}

	if i := strings.Index(name, "?"); i >= 0 {
		name = name[:i]
	}

	return name
}
