// Package wizard implements the four lead-capture steps as bubbletea models.
// Every step shares the same *lead.State; the root model keeps the state's
// step counter in lockstep with the phases container.
package wizard

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alkime/promo/internal/tui/style"
	"github.com/charmbracelet/bubbles/key"
)

func renderKeyHelp(keyBinding key.Binding, suffix ...string) string {
	s := style.Help.Render("[") + style.Key.Render(keyBinding.Help().Key) +
		style.Help.Render("] ") +
		style.Help.Render(keyBinding.Help().Desc)

	s += strings.Join(suffix, "")

	return s
}

func renderGlobalKeyHelp() string {
	return style.Help.Render("[") + style.Key.Render("esc") + style.Help.Render("] выход") + "\n"
}

func renderButton(label string) string {
	return style.Button.Render(label)
}

func itoa(i int) string {
	return strconv.Itoa(i)
}

func formatKB(n int64) string {
	return fmt.Sprintf("%.1f KB", float64(n)/1024)
}
