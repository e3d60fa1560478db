package wizard

import (
	"context"
	"testing"

	"github.com/alkime/promo/internal/lead"
	"github.com/alkime/promo/internal/share"
	"github.com/alkime/promo/internal/tui/components/phases"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func shareAt(t *testing.T) (*lead.State, *mockSharer, tea.Model) {
	t.Helper()

	state := lead.New()
	state.Form = lead.FormData{ParentName: "Anna", ChildName: "Leo", Age: "5"}
	sharer := &mockSharer{}

	s := NewShare(context.Background(), state, sharer)
	s.Init()

	return state, sharer, s
}

func TestShare_View(t *testing.T) {
	_, _, s := shareAt(t)

	view := s.View()
	for _, label := range []string{"Готово!", "Отправьте данные в мессенджер", "Отправить в Telegram",
		"Отправить в WhatsApp", "Создать новый лид"} {
		assert.Contains(t, view, label)
	}
}

func TestShare_WhatsApp(t *testing.T) {
	_, sharer, s := shareAt(t)

	_, cmd := s.Update(keyRunes("w"))
	require.NotNil(t, cmd)

	msg := cmd()
	require.IsType(t, sharedMsg{}, msg)
	s.Update(msg)

	assert.Equal(t, []share.Platform{share.WhatsApp}, sharer.calls())
	assert.Equal(t, lead.FormData{ParentName: "Anna", ChildName: "Leo", Age: "5"}, sharer.forms[0])
	assert.Contains(t, s.View(), "https://wa.me/?text=IMPERIA%20")
}

func TestShare_NewLeadResets(t *testing.T) {
	_, _, s := shareAt(t)

	_, cmd := s.Update(keyRunes("n"))
	require.NotNil(t, cmd)
	assert.Equal(t, phases.ResetMsg{}, cmd())
}

func TestShare_TeatestTelegram(t *testing.T) {
	_, sharer, s := shareAt(t)

	tm := teatest.NewTestModel(t, s, teatest.WithInitialTermSize(200, 40))
	checker := defaultChecker()

	checker.checkString(t, tm, "Готово!")
	tm.Send(keyRunes("t"))
	checker.checkString(t, tm, "Открыто: Telegram")

	assert.Equal(t, []share.Platform{share.Telegram}, sharer.calls())
	require.NoError(t, tm.Quit())
}
