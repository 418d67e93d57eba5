// Package tui renders the phone surface in a terminal: the notification
// feed, the conversation opened from it, and the community view with the
// avatar chat.
package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/soyeahso/safetalk/internal/chat"
	"github.com/soyeahso/safetalk/internal/community"
	"github.com/soyeahso/safetalk/internal/domain"
	"github.com/soyeahso/safetalk/internal/flow"
	"github.com/soyeahso/safetalk/internal/hooks"
	"github.com/soyeahso/safetalk/internal/logging"
	"github.com/soyeahso/safetalk/internal/masking"
	"github.com/soyeahso/safetalk/internal/notify"
	"github.com/soyeahso/safetalk/internal/reveal"
)

type screen int

const (
	screenPhone screen = iota
	screenConversation
	screenCommunity
)

type inputTarget int

const (
	inputNone inputTarget = iota
	inputReply
	inputConversation
	inputStory
	inputName
	inputChat
)

// Deps are the collaborators the terminal app drives.
type Deps struct {
	Classifier    notify.Classifier
	Responder     chat.Responder
	Board         *community.Board
	Avatar        *domain.AvatarProfile
	Catalog       reveal.Catalog
	Clock         reveal.Clock
	ClassifyLimit time.Duration
	ChatModel     string
	Hooks         hooks.Emitter
	Log           *logging.Logger
	Now           func() time.Time
}

type surfaceMsg struct{ ev notify.Event }

type chatDoneMsg struct {
	p   *chat.Pending
	out chat.Outcome
}

// Model is the bubbletea model for the whole app.
type Model struct {
	deps   Deps
	styles Styles
	screen screen
	width  int
	height int

	events  chan notify.Event
	done    chan struct{}
	surface *notify.Surface
	handle  *reveal.Handle
	view    notify.View

	conv    *flow.Conversation
	session *chat.Session

	input     textinput.Model
	target    inputTarget
	anonymous bool
	storyName string
	spin      spinner.Model
	vp        viewport.Model
	status    string
	closed    bool
}

// New builds the model. Nothing runs until Init.
func New(d Deps) *Model {
	if d.Clock == nil {
		d.Clock = reveal.RealClock{}
	}
	if d.Catalog == nil {
		d.Catalog = reveal.DefaultCatalog(nil)
	}
	if d.Hooks == nil {
		d.Hooks = hooks.Nop{}
	}
	if d.Log == nil {
		d.Log = logging.Nop()
	}
	if d.Now == nil {
		d.Now = time.Now
	}

	ti := textinput.New()
	ti.Prompt = "│ "
	ti.CharLimit = 1000
	ti.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := &Model{
		deps:      d,
		styles:    DefaultStyles(),
		events:    make(chan notify.Event, 16),
		done:      make(chan struct{}),
		input:     ti,
		anonymous: true,
		spin:      sp,
		vp:        viewport.New(60, 16),
	}
	opts := []notify.Option{
		notify.WithListener(m.deliver),
		notify.WithHooks(d.Hooks),
		notify.WithLogger(d.Log),
	}
	if d.ClassifyLimit > 0 {
		opts = append(opts, notify.WithTimeout(d.ClassifyLimit))
	}
	m.surface = notify.New(d.Classifier, masking.NewPolicy(reveal.HardFlaggedIndex), opts...)
	if d.Responder != nil {
		m.session = chat.NewSession(d.Responder, chat.WithModel(d.ChatModel), chat.WithHooks(d.Hooks), chat.WithLogger(d.Log))
	}
	return m
}

// Init starts the reveal schedule.
func (m *Model) Init() tea.Cmd {
	m.handle = reveal.New(m.deps.Catalog, reveal.WithClock(m.deps.Clock), reveal.WithLogger(m.deps.Log)).Start(m.surface.Show)
	return tea.Batch(m.waitEvent(), m.spin.Tick)
}

// Close cancels pending reveals and classifications. Safe to call twice.
func (m *Model) Close() {
	if m.closed {
		return
	}
	m.closed = true
	close(m.done)
	if m.handle != nil {
		m.handle.Cancel()
	}
	m.surface.Close()
}

// deliver runs on timer and classifier goroutines. It gives up once the
// model is closed so Cancel and Close never wait on a full channel.
func (m *Model) deliver(ev notify.Event) {
	select {
	case m.events <- ev:
	case <-m.done:
	}
}

func (m *Model) waitEvent() tea.Cmd {
	return func() tea.Msg {
		select {
		case ev := <-m.events:
			return surfaceMsg{ev: ev}
		case <-m.done:
			return nil
		}
	}
}

func (m *Model) focus(target inputTarget, placeholder string) tea.Cmd {
	m.target = target
	m.input.Placeholder = placeholder
	m.input.SetValue("")
	return m.input.Focus()
}

func (m *Model) blur() {
	m.target = inputNone
	m.input.Blur()
	m.input.SetValue("")
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.input.Width = max(msg.Width-6, 10)
		m.vp.Width = max(msg.Width-4, 10)
		m.vp.Height = max(msg.Height-10, 4)
		m.refreshCommunity()
		return m, nil

	case surfaceMsg:
		m.view = msg.ev.View
		return m, m.waitEvent()

	case chatDoneMsg:
		msg.p.Complete(msg.out)
		if !msg.out.OK && m.target == inputChat {
			m.input.SetValue(m.session.Input())
		}
		m.refreshCommunity()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.Close()
			return m, tea.Quit
		}
		if m.target != inputNone {
			return m.updateInput(msg)
		}
		switch m.screen {
		case screenPhone:
			return m.updatePhone(msg)
		case screenConversation:
			return m.updateConversation(msg)
		case screenCommunity:
			return m.updateCommunity(msg)
		}
	}

	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	return m, cmd
}

func (m *Model) updatePhone(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		m.Close()
		return m, tea.Quit
	case "l":
		m.surface.Like()
		m.view = m.surface.View()
	case "r":
		if m.surface.EnterReply() {
			m.view = m.surface.View()
			return m, m.focus(inputReply, "Reply...")
		}
	case "enter", "o":
		m.openConversation()
	case "c":
		m.gotoCommunity()
	}
	return m, nil
}

// openConversation hands the current notification to a new conversation.
func (m *Model) openConversation() {
	p, ok := m.surface.Open()
	if !ok {
		return
	}
	m.conv = flow.Open(p,
		flow.WithNow(m.deps.Now),
		flow.WithCommunity(m.gotoCommunity),
		flow.WithHooks(m.deps.Hooks),
		flow.WithLogger(m.deps.Log),
	)
	m.screen = screenConversation
	m.status = ""
}

func (m *Model) gotoCommunity() {
	m.screen = screenCommunity
	m.status = ""
	m.refreshCommunity()
}

func (m *Model) updateConversation(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	c := m.conv
	switch msg.String() {
	case "esc":
		m.conv = nil
		m.screen = screenPhone
		return m, nil
	case "b":
		if c.Flagged() {
			_ = c.Block()
			return m, nil
		}
	case "r":
		if c.Flagged() {
			_ = c.Respond()
			return m, nil
		}
	case "1", "2", "3":
		if c.State() == flow.StateResponding {
			_, _ = c.PickSuggestion(int(msg.String()[0] - '1'))
			return m, nil
		}
	case "g":
		if c.State() == flow.StateSharePrompt {
			_ = c.GoToCommunity()
			return m, nil
		}
	}
	if !c.Flagged() || c.State().AcceptsInput() {
		switch msg.String() {
		case "i", "enter":
			return m, m.focus(inputConversation, "Message...")
		}
	}
	return m, nil
}

func (m *Model) updateCommunity(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.screen = screenPhone
		return m, nil
	case "s":
		if m.deps.Board != nil {
			return m, m.focus(inputStory, "Share your experience...")
		}
	case "a":
		m.anonymous = !m.anonymous
		return m, nil
	case "n":
		if m.deps.Board != nil {
			cmd := m.focus(inputName, "Your name")
			m.input.SetValue(m.storyName)
			return m, cmd
		}
	case "t":
		if m.session != nil && m.deps.Avatar != nil {
			cmd := m.focus(inputChat, "Talk to your avatar...")
			m.input.SetValue(m.session.Input())
			return m, cmd
		}
	}
	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	return m, cmd
}

func (m *Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		if m.target == inputChat {
			m.session.SetInput(m.input.Value())
		}
		m.blur()
		return m, nil
	case tea.KeyEnter:
		return m, m.submit()
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.target == inputReply {
		m.surface.SetDraft(m.input.Value())
	}
	return m, cmd
}

// submit sends the input to whatever it is bound to.
func (m *Model) submit() tea.Cmd {
	text := m.input.Value()
	switch m.target {
	case inputReply:
		m.surface.SetDraft(text)
		if m.surface.SendReply() {
			m.status = "Reply sent"
			m.blur()
		}
		m.view = m.surface.View()
	case inputConversation:
		if _, err := m.conv.SendText(text); err == nil {
			m.input.SetValue("")
			if m.conv.Flagged() && !m.conv.State().AcceptsInput() {
				m.blur()
			}
		}
	case inputName:
		m.storyName = strings.TrimSpace(text)
		m.blur()
		m.refreshCommunity()
	case inputStory:
		if _, err := m.deps.Board.Share(context.Background(), m.storyName, text, m.anonymous, m.deps.Now()); err == nil {
			m.status = "Thanks for sharing"
			m.blur()
			m.refreshCommunity()
		}
	case inputChat:
		m.session.SetInput(text)
		p, err := m.session.Begin()
		if err != nil {
			return nil
		}
		m.input.SetValue("")
		m.refreshCommunity()
		return func() tea.Msg {
			return chatDoneMsg{p: p, out: p.Do(context.Background())}
		}
	}
	return nil
}

// Run starts the full-screen app and blocks until the user quits.
func Run(d Deps) error {
	m := New(d)
	defer m.Close()
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
