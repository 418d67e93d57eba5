package flow

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/soyeahso/safetalk/internal/domain"
	"github.com/soyeahso/safetalk/internal/hooks"
	"github.com/soyeahso/safetalk/internal/logging"
)

// SupportMessage opens every flagged conversation.
const SupportMessage = "I think you got hate messages. You don't deserve that, you're the best. Do you need help how to respond?"

// SharePrompt is shown once the user has responded.
const SharePrompt = " you are not alone <3 see other personal experiences and you can share your own experience ."

// RecommendedResponses are offered as one-tap replies while responding.
var RecommendedResponses = []string{
	"I don't appreciate that kind of language.",
	"that's rude , i think you need assistance with that , yr nice so be nice.",
	"I'd prefer we don't talk like that.",
}

// Conversation is one opened conversation. Flagged conversations run the
// support flow; others are a plain transcript with free-text send.
type Conversation struct {
	mu       sync.Mutex
	contact  string
	flagged  bool
	state    State
	messages []domain.ConversationMessage
	input    string
	lastID   int64

	now         func() time.Time
	onCommunity func()
	hooks       hooks.Emitter
	log         *logging.Logger
}

// Option configures a Conversation.
type Option func(*Conversation)

// WithNow replaces the clock used for message timestamps.
func WithNow(now func() time.Time) Option {
	return func(c *Conversation) { c.now = now }
}

// WithCommunity sets the host callback that navigates to the community view.
func WithCommunity(f func()) Option {
	return func(c *Conversation) { c.onCommunity = f }
}

// WithHooks publishes flow transitions.
func WithHooks(e hooks.Emitter) Option {
	return func(c *Conversation) { c.hooks = e }
}

// WithLogger sets the logger.
func WithLogger(log *logging.Logger) Option {
	return func(c *Conversation) { c.log = log.Sub("flow") }
}

// Open starts a conversation from a notification hand-off. A flagged
// payload starts in StateChoices with the support message; any other
// payload is seeded with its display text.
func Open(p domain.OpenPayload, opts ...Option) *Conversation {
	c := &Conversation{
		contact: p.SenderID,
		flagged: p.IsHateSpeech,
		now:     time.Now,
		hooks:   hooks.Nop{},
		log:     logging.Nop(),
	}
	for _, o := range opts {
		o(c)
	}

	first := p.DisplayText
	if c.flagged {
		first = SupportMessage
		c.state = StateChoices
	}
	msgTime := p.Time
	if msgTime == "" {
		msgTime = domain.ClockTime(c.now())
	}
	c.lastID = 1
	c.messages = []domain.ConversationMessage{{ID: 1, Text: first, Sender: domain.SenderOther, Time: msgTime}}
	return c
}

// Contact is the other party's display name.
func (c *Conversation) Contact() string {
	return c.contact
}

// Flagged reports whether the support flow is active.
func (c *Conversation) Flagged() bool {
	return c.flagged
}

// State returns the flow state. Non-flagged conversations return "".
func (c *Conversation) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Messages returns a copy of the transcript.
func (c *Conversation) Messages() []domain.ConversationMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.ConversationMessage, len(c.messages))
	copy(out, c.messages)
	return out
}

// MyMessages returns the entries sent by the user, in order.
func (c *Conversation) MyMessages() []domain.ConversationMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []domain.ConversationMessage
	for _, m := range c.messages {
		if m.Sender == domain.SenderMe {
			out = append(out, m)
		}
	}
	return out
}

// Input returns the compose buffer.
func (c *Conversation) Input() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.input
}

// SetInput replaces the compose buffer.
func (c *Conversation) SetInput(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.input = text
}

// Suggestions returns the one-tap replies available now.
func (c *Conversation) Suggestions() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.flagged && c.state == StateResponding {
		return append([]string(nil), RecommendedResponses...)
	}
	return nil
}

// Prompt returns the avatar speech for the current state, or "".
func (c *Conversation) Prompt() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateSharePrompt {
		return SharePrompt
	}
	return ""
}

// Block moves choices to blocked.
func (c *Conversation) Block() error {
	return c.apply(ActionBlock)
}

// Respond moves choices to responding.
func (c *Conversation) Respond() error {
	return c.apply(ActionRespond)
}

func (c *Conversation) apply(a Action) error {
	c.mu.Lock()
	if !c.flagged {
		c.mu.Unlock()
		return ErrInvalidTransition
	}
	from := c.state
	to, err := Next(from, a)
	if err != nil {
		c.mu.Unlock()
		return err
	}
	c.state = to
	c.mu.Unlock()

	c.transitioned(from, to, a)
	return nil
}

// Send appends the compose buffer as a "me" message.
func (c *Conversation) Send() (domain.ConversationMessage, error) {
	c.mu.Lock()
	text := c.input
	c.mu.Unlock()
	return c.SendText(text)
}

// PickSuggestion sends one of the recommended responses immediately.
func (c *Conversation) PickSuggestion(i int) (domain.ConversationMessage, error) {
	if i < 0 || i >= len(RecommendedResponses) {
		return domain.ConversationMessage{}, ErrInvalidTransition
	}
	return c.SendText(RecommendedResponses[i])
}

// SendText appends text as a "me" message and clears the compose buffer.
// Blank text changes nothing and returns ErrEmptyMessage. In the support
// flow, sending is only accepted while responding or at the share prompt,
// and a send while responding moves to the share prompt.
func (c *Conversation) SendText(text string) (domain.ConversationMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.ConversationMessage{}, ErrEmptyMessage
	}

	c.mu.Lock()
	from := c.state
	to := from
	if c.flagged {
		var err error
		if to, err = Next(from, ActionSend); err != nil {
			c.mu.Unlock()
			return domain.ConversationMessage{}, err
		}
	}

	c.lastID++
	msg := domain.ConversationMessage{
		ID:     c.lastID,
		Text:   text,
		Sender: domain.SenderMe,
		Time:   domain.ClockTime(c.now()),
	}
	c.messages = append(c.messages, msg)
	c.input = ""
	c.state = to
	c.mu.Unlock()

	if to != from {
		c.transitioned(from, to, ActionSend)
	}
	return msg, nil
}

// GoToCommunity signals the host to show the community view. It is only
// offered at the share prompt.
func (c *Conversation) GoToCommunity() error {
	c.mu.Lock()
	state := c.state
	c.mu.Unlock()
	if state != StateSharePrompt {
		return ErrInvalidTransition
	}
	if c.onCommunity != nil {
		c.onCommunity()
	}
	return nil
}

func (c *Conversation) transitioned(from, to State, a Action) {
	c.log.Debug().Str("from", string(from)).Str("to", string(to)).Str("action", string(a)).Msg("flow transition")
	c.hooks.Emit(context.Background(), hooks.EventFlowTransition, map[string]any{
		"contact": c.contact,
		"from":    string(from),
		"to":      string(to),
		"action":  string(a),
	})
}
