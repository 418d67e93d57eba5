package tui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/soyeahso/safetalk/internal/backend"
	"github.com/soyeahso/safetalk/internal/community"
	"github.com/soyeahso/safetalk/internal/domain"
	"github.com/soyeahso/safetalk/internal/flow"
	"github.com/soyeahso/safetalk/internal/logging"
	"github.com/soyeahso/safetalk/internal/masking"
	"github.com/soyeahso/safetalk/internal/reveal"
	"github.com/soyeahso/safetalk/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type classifierFunc func(ctx context.Context, msg domain.InboundMessage) domain.ClassificationResult

func (f classifierFunc) Classify(ctx context.Context, msg domain.InboundMessage) domain.ClassificationResult {
	return f(ctx, msg)
}

type responderFunc func(ctx context.Context, messages []backend.ChatMessage, model string) (string, error)

func (f responderFunc) ChatAvatar(ctx context.Context, messages []backend.ChatMessage, model string) (string, error) {
	return f(ctx, messages, model)
}

func safeClassifier() classifierFunc {
	return func(_ context.Context, msg domain.InboundMessage) domain.ClassificationResult {
		return domain.ClassificationResult{MessageID: msg.ID, Status: domain.StatusDone}
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeText(m *Model, text string) {
	for _, r := range text {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

// nextEvent blocks for the next surface event and applies it.
func nextEvent(t *testing.T, m *Model) {
	t.Helper()
	done := make(chan tea.Msg, 1)
	go func() { done <- m.waitEvent()() }()
	select {
	case msg := <-done:
		require.IsType(t, surfaceMsg{}, msg)
		m.Update(msg)
	case <-time.After(2 * time.Second):
		t.Fatal("no surface event")
	}
}

// waitClassified applies events until message idx has a final result.
func waitClassified(t *testing.T, m *Model, idx int) {
	t.Helper()
	for m.view.Index != idx || m.view.Result.Status == domain.StatusPending {
		nextEvent(t, m)
	}
}

func newTestModel(t *testing.T, d Deps) (*Model, *reveal.FakeClock) {
	t.Helper()
	clock := reveal.NewFakeClock()
	d.Clock = clock
	d.Log = logging.Nop()
	if d.Classifier == nil {
		d.Classifier = safeClassifier()
	}
	if d.Now == nil {
		d.Now = func() time.Time { return time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC) }
	}
	m := New(d)
	m.Init()
	t.Cleanup(m.Close)
	return m, clock
}

func TestPhoneRevealAndOpenSafe(t *testing.T) {
	defer goleak.VerifyNone(t)

	m, clock := newTestModel(t, Deps{})
	assert.False(t, m.view.Present)
	assert.Contains(t, m.View(), "No notifications yet")

	clock.Advance(2 * time.Second)
	nextEvent(t, m)
	assert.Equal(t, 0, m.view.Index)
	nextEvent(t, m)
	assert.True(t, m.view.Safe)
	assert.Contains(t, m.View(), "sup twin wanna hang out?")

	m.Update(key("l"))
	assert.True(t, m.surface.View().Liked)

	m.Update(key("enter"))
	require.Equal(t, screenConversation, m.screen)
	require.NotNil(t, m.conv)
	assert.False(t, m.conv.Flagged())

	m.Update(key("i"))
	typeText(m, "hey!")
	m.Update(key("enter"))
	mine := m.conv.MyMessages()
	require.Len(t, mine, 1)
	assert.Equal(t, "hey!", mine[0].Text)
	assert.Equal(t, "09:30", mine[0].Time)
	m.Close()
}

func TestHardFlaggedFlowToCommunity(t *testing.T) {
	defer goleak.VerifyNone(t)

	board := community.Load(context.Background(), store.NewMemoryKV(), logging.Nop())
	m, clock := newTestModel(t, Deps{Board: board})

	clock.Advance(12 * time.Second)
	waitClassified(t, m, reveal.HardFlaggedIndex)
	require.Equal(t, reveal.HardFlaggedIndex, m.view.Index)
	assert.True(t, m.view.Masked)
	assert.Equal(t, masking.Mask("I hate you, you are stupid 😜😔👻🎉💖"), m.view.DisplayText)

	m.Update(key("o"))
	require.True(t, m.conv.Flagged())
	assert.Equal(t, flow.StateChoices, m.conv.State())
	assert.Contains(t, m.View(), "[b] Block")

	m.Update(key("r"))
	assert.Equal(t, flow.StateResponding, m.conv.State())
	assert.Contains(t, m.View(), flow.RecommendedResponses[0])

	m.Update(key("2"))
	assert.Equal(t, flow.StateSharePrompt, m.conv.State())
	require.Len(t, m.conv.MyMessages(), 1)
	assert.Equal(t, flow.RecommendedResponses[1], m.conv.MyMessages()[0].Text)

	m.Update(key("g"))
	require.Equal(t, screenCommunity, m.screen)

	m.Update(key("s"))
	typeText(m, "it happened to me too")
	m.Update(key("enter"))
	list := board.List()
	require.Len(t, list, len(community.Defaults())+1)
	assert.Equal(t, "it happened to me too", list[0].Text)
	assert.Equal(t, "anonymous", list[0].Name)
	m.Close()
}

func TestNamedStoryUsesFormName(t *testing.T) {
	prof := domain.AvatarProfile{Name: "Sam", Ethnicity: "asian", Hairstyle: "short"}
	board := community.Load(context.Background(), store.NewMemoryKV(), logging.Nop())
	m, _ := newTestModel(t, Deps{Board: board, Avatar: &prof})
	m.gotoCommunity()

	m.Update(key("a"))
	require.False(t, m.anonymous)
	m.Update(key("n"))
	require.Equal(t, inputName, m.target)
	typeText(m, " Riley ")
	m.Update(key("enter"))
	assert.Equal(t, "Riley", m.storyName)

	m.Update(key("s"))
	typeText(m, "it got better")
	m.Update(key("enter"))
	list := board.List()
	assert.Equal(t, "it got better", list[0].Text)
	assert.Equal(t, "nonymous: Riley", list[0].Name)
	m.Close()
}

func TestBlockEndsChoices(t *testing.T) {
	m, clock := newTestModel(t, Deps{})
	clock.Advance(12 * time.Second)
	waitClassified(t, m, reveal.HardFlaggedIndex)
	m.Update(key("enter"))
	m.Update(key("b"))
	assert.Equal(t, flow.StateBlocked, m.conv.State())
	assert.Contains(t, m.View(), "You blocked this user")

	m.Update(key("i"))
	assert.Equal(t, inputNone, m.target)

	m.Update(key("esc"))
	assert.Equal(t, screenPhone, m.screen)
	assert.Nil(t, m.conv)
}

func TestReplyModeSendsDraft(t *testing.T) {
	m, clock := newTestModel(t, Deps{})
	clock.Advance(2 * time.Second)
	nextEvent(t, m)

	m.Update(key("r"))
	require.Equal(t, inputReply, m.target)
	m.Update(key("enter"))
	assert.Equal(t, inputReply, m.target, "blank draft stays in reply mode")

	typeText(m, "later")
	assert.Equal(t, "later", m.surface.View().ReplyDraft)
	m.Update(key("enter"))
	assert.Equal(t, inputNone, m.target)
	assert.Equal(t, "Reply sent", m.status)
	assert.False(t, m.surface.View().ReplyMode)
}

func TestAvatarChat(t *testing.T) {
	prof := domain.AvatarProfile{Name: "Sam", Ethnicity: "asian", Hairstyle: "short"}
	var seen []backend.ChatMessage
	m, _ := newTestModel(t, Deps{
		Avatar: &prof,
		Responder: responderFunc(func(_ context.Context, msgs []backend.ChatMessage, _ string) (string, error) {
			seen = msgs
			return "I'm here for you", nil
		}),
	})
	m.gotoCommunity()

	m.Update(key("t"))
	require.Equal(t, inputChat, m.target)
	typeText(m, "rough day")
	_, cmd := m.Update(key("enter"))
	require.NotNil(t, cmd)
	assert.True(t, m.session.InFlight())

	m.Update(cmd())
	assert.False(t, m.session.InFlight())
	tr := m.session.Transcript()
	require.Len(t, tr, 3)
	assert.Equal(t, "rough day", tr[1].Content)
	assert.Equal(t, "I'm here for you", tr[2].Content)
	require.NotEmpty(t, seen)
	assert.Contains(t, m.vp.View(), "Sam")
}

func TestChatRequiresAvatar(t *testing.T) {
	m, _ := newTestModel(t, Deps{
		Responder: responderFunc(func(context.Context, []backend.ChatMessage, string) (string, error) {
			return "", nil
		}),
	})
	m.gotoCommunity()
	m.Update(key("t"))
	assert.Equal(t, inputNone, m.target)
}

func TestCloseIsIdempotent(t *testing.T) {
	defer goleak.VerifyNone(t)

	m, clock := newTestModel(t, Deps{})
	m.Close()
	m.Close()
	clock.Advance(time.Minute)
	assert.False(t, m.surface.View().Present)
	assert.Nil(t, m.waitEvent()())
}

func TestQuitCommand(t *testing.T) {
	m, _ := newTestModel(t, Deps{})
	_, cmd := m.Update(key("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.True(t, m.closed)
}
