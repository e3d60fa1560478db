package wizard

import (
	"context"
	"log/slog"
	"strings"

	"github.com/alkime/promo/internal/lead"
	"github.com/alkime/promo/internal/share"
	"github.com/alkime/promo/internal/tui/components/phases"
	"github.com/alkime/promo/internal/tui/style"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// sharedMsg reports that a deep link was handed to the OS.
type sharedMsg struct {
	platform share.Platform
	link     string
}

type shareKeyMap struct {
	Telegram key.Binding
	WhatsApp key.Binding
	NewLead  key.Binding
}

func defaultShareKeyMap() shareKeyMap {
	return shareKeyMap{
		Telegram: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "Telegram"),
		),
		WhatsApp: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "WhatsApp"),
		),
		NewLead: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "новый лид"),
		),
	}
}

type shareStep struct {
	ctx    context.Context //nolint:containedctx // share links are opened from tea.Cmds
	keys   shareKeyMap
	state  *lead.State
	sharer Sharer
	last   *sharedMsg
}

// NewShare creates the final step that hands the lead to a messenger.
func NewShare(ctx context.Context, state *lead.State, sharer Sharer) tea.Model {
	return &shareStep{
		ctx:    ctx,
		keys:   defaultShareKeyMap(),
		state:  state,
		sharer: sharer,
	}
}

func (s *shareStep) Init() tea.Cmd {
	s.last = nil
	return nil
}

func (s *shareStep) Update(teaMsg tea.Msg) (tea.Model, tea.Cmd) {
	switch typedMsg := teaMsg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(typedMsg, s.keys.Telegram):
			return s, s.shareCmd(share.Telegram)
		case key.Matches(typedMsg, s.keys.WhatsApp):
			return s, s.shareCmd(share.WhatsApp)
		case key.Matches(typedMsg, s.keys.NewLead):
			return s, phases.ResetCmd
		}

	case sharedMsg:
		s.last = &typedMsg
	}

	return s, nil
}

// shareCmd opens the link off the UI loop. An unreachable messenger is the
// platform's problem; failures are logged only.
func (s *shareStep) shareCmd(p share.Platform) tea.Cmd {
	ctx, sharer, form := s.ctx, s.sharer, s.state.Form

	return func() tea.Msg {
		link, err := sharer.Share(ctx, p, form)
		if err != nil {
			slog.Warn("share failed", "platform", string(p), "error", err)
		}

		if link == "" {
			return nil
		}

		return sharedMsg{platform: p, link: link}
	}
}

func (s *shareStep) View() string {
	var sb strings.Builder

	sb.WriteString(style.Success.Render("✓"))
	sb.WriteString(" ")
	sb.WriteString(style.Title.Render("Готово!"))
	sb.WriteString("\n")
	sb.WriteString(style.Subtitle.Render("Отправьте данные в мессенджер"))
	sb.WriteString("\n\n")

	sb.WriteString(renderButton("Отправить в Telegram"))
	sb.WriteString("  ")
	sb.WriteString(renderButton("Отправить в WhatsApp"))
	sb.WriteString("\n\n")
	sb.WriteString(style.Muted.Render("Создать новый лид"))
	sb.WriteString("\n\n")

	if s.last != nil {
		sb.WriteString(style.Label.Render("Открыто: "))
		sb.WriteString(s.last.platform.DisplayName())
		sb.WriteString("\n")
		sb.WriteString(style.Muted.Render(s.last.link))
		sb.WriteString("\n\n")
	}

	sb.WriteString(renderKeyHelp(s.keys.Telegram, " "))
	sb.WriteString(renderKeyHelp(s.keys.WhatsApp, " "))
	sb.WriteString(renderKeyHelp(s.keys.NewLead, "\n"))
	sb.WriteString(renderGlobalKeyHelp())

	return sb.String()
}
