// Package chat runs the best-effort avatar chat: optimistic sends with
// rollback when the backend cannot answer.
package chat

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/soyeahso/safetalk/internal/backend"
	"github.com/soyeahso/safetalk/internal/domain"
	"github.com/soyeahso/safetalk/internal/hooks"
	"github.com/soyeahso/safetalk/internal/logging"
)

// Greeting is the avatar's opening line.
const Greeting = "Hello ! do you wanna talk about what happened ,you seem sad ,or feel free to dm me ,i'm here to help"

// FallbackError is shown when a failure carries no detail.
const FallbackError = "Could not reach the chat. Is the backend running and Ollama running (e.g. ollama run phi)?"

var (
	// ErrSendInFlight is returned when a send is attempted while one is outstanding.
	ErrSendInFlight = errors.New("chat: send already in flight")
	// ErrEmptyMessage is returned when the compose buffer is blank.
	ErrEmptyMessage = errors.New("chat: empty message")
)

// Responder answers a chat transcript.
type Responder interface {
	ChatAvatar(ctx context.Context, messages []backend.ChatMessage, model string) (string, error)
}

// Outcome is the result of one exchange: OK with Reply, or not OK with Err.
type Outcome struct {
	OK    bool
	Reply string
	Err   string
}

// Session holds one chat transcript and its compose buffer.
type Session struct {
	responder Responder
	model     string
	hooks     hooks.Emitter
	log       *logging.Logger

	mu       sync.Mutex
	entries  []domain.ChatEntry
	input    string
	inFlight bool
	lastErr  string
}

// Option configures a Session.
type Option func(*Session)

// WithModel asks the backend for a specific model.
func WithModel(model string) Option {
	return func(s *Session) { s.model = model }
}

// WithHooks publishes chat outcomes.
func WithHooks(e hooks.Emitter) Option {
	return func(s *Session) { s.hooks = e }
}

// WithLogger sets the logger.
func WithLogger(log *logging.Logger) Option {
	return func(s *Session) { s.log = log.Sub("chat") }
}

// NewSession starts a transcript containing only the greeting.
func NewSession(r Responder, opts ...Option) *Session {
	s := &Session{
		responder: r,
		hooks:     hooks.Nop{},
		log:       logging.Nop(),
		entries:   []domain.ChatEntry{{ID: uuid.NewString(), Role: domain.RoleAssistant, Content: Greeting}},
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Transcript returns a copy of the entries.
func (s *Session) Transcript() []domain.ChatEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.ChatEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Input returns the compose buffer.
func (s *Session) Input() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.input
}

// SetInput replaces the compose buffer.
func (s *Session) SetInput(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.input = text
}

// InFlight reports whether a send is outstanding.
func (s *Session) InFlight() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight
}

// Error returns the inline error from the last failed exchange.
func (s *Session) Error() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Pending is an exchange that has been appended optimistically and awaits
// its reply.
type Pending struct {
	s        *Session
	entry    domain.ChatEntry
	messages []backend.ChatMessage
}

// Text is the user text being sent.
func (p *Pending) Text() string {
	return p.entry.Content
}

// Begin appends the compose buffer as a user entry, clears the buffer and
// marks the session busy. The returned Pending carries the transcript
// including the new entry.
func (s *Session) Begin() (*Pending, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight {
		return nil, ErrSendInFlight
	}
	text := strings.TrimSpace(s.input)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	entry := domain.ChatEntry{ID: uuid.NewString(), Role: domain.RoleUser, Content: text}
	s.entries = append(s.entries, entry)
	s.input = ""
	s.inFlight = true
	s.lastErr = ""

	msgs := make([]backend.ChatMessage, len(s.entries))
	for i, e := range s.entries {
		msgs[i] = backend.ChatMessage{Role: e.Role, Content: e.Content}
	}
	return &Pending{s: s, entry: entry, messages: msgs}, nil
}

// Do calls the responder. It does not touch the session.
func (p *Pending) Do(ctx context.Context) Outcome {
	reply, err := p.s.responder.ChatAvatar(ctx, p.messages, p.s.model)
	if err != nil {
		p.s.log.Warn().Err(err).Msg("avatar chat failed")
		msg := backend.Detail(err)
		if msg == "" {
			msg = FallbackError
		}
		return Outcome{Err: msg}
	}
	return Outcome{OK: true, Reply: reply}
}

// Complete applies the outcome: the reply is appended, or the optimistic
// entry is removed and its text restored into the compose buffer.
func (p *Pending) Complete(out Outcome) {
	s := p.s
	s.mu.Lock()
	s.inFlight = false
	if out.OK {
		s.entries = append(s.entries, domain.ChatEntry{ID: uuid.NewString(), Role: domain.RoleAssistant, Content: out.Reply})
	} else {
		if n := len(s.entries); n > 0 && s.entries[n-1].ID == p.entry.ID {
			s.entries = s.entries[:n-1]
		}
		s.input = p.entry.Content
		s.lastErr = out.Err
	}
	s.mu.Unlock()

	if out.OK {
		s.hooks.Emit(context.Background(), hooks.EventChatReplied, map[string]any{"chars": len(out.Reply)})
	} else {
		s.hooks.Emit(context.Background(), hooks.EventChatFailed, map[string]any{"error": out.Err})
	}
}

// Send runs a whole exchange. Blank input and re-entrant sends return an
// error and change nothing.
func (s *Session) Send(ctx context.Context) (Outcome, error) {
	p, err := s.Begin()
	if err != nil {
		return Outcome{}, err
	}
	out := p.Do(ctx)
	p.Complete(out)
	return out, nil
}
