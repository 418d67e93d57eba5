// Package notify owns the single visible inbound notification: its
// classification lifecycle, masking and like/reply micro-interactions.
package notify

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/soyeahso/safetalk/internal/domain"
	"github.com/soyeahso/safetalk/internal/hooks"
	"github.com/soyeahso/safetalk/internal/logging"
	"github.com/soyeahso/safetalk/internal/masking"
)

// Classifier scores a message. Implementations never fail; an unreachable
// classifier yields a Failed result.
type Classifier interface {
	Classify(ctx context.Context, msg domain.InboundMessage) domain.ClassificationResult
}

// DefaultClassifyTimeout bounds a classification when no timeout is configured.
const DefaultClassifyTimeout = 15 * time.Second

// EventKind tags a surface change.
type EventKind string

const (
	// EventCurrent fires when a new message becomes current.
	EventCurrent EventKind = "current"
	// EventClassified fires when the current message's result arrives.
	EventClassified EventKind = "classified"
)

// Event is delivered to the Listener after every visible change.
type Event struct {
	Kind EventKind
	View View
}

// Listener receives events in order. It must not call back into the Surface.
type Listener func(Event)

// View is a snapshot of what the notification shows.
type View struct {
	Present     bool                        `json:"present"`
	Index       int                         `json:"index"`
	Message     domain.InboundMessage       `json:"message"`
	Result      domain.ClassificationResult `json:"result"`
	DisplayText string                      `json:"displayText"`
	Masked      bool                        `json:"masked"`
	Safe        bool                        `json:"safe"`
	HardFlagged bool                        `json:"hardFlagged"`
	Liked       bool                        `json:"liked"`
	ReplyMode   bool                        `json:"replyMode"`
	ReplyDraft  string                      `json:"replyDraft"`
}

// Surface is the notification state machine.
type Surface struct {
	classifier Classifier
	policy     masking.Policy
	listener   Listener
	hooks      hooks.Emitter
	timeout    time.Duration
	log        *logging.Logger

	// emitMu keeps listener events in state order.
	emitMu sync.Mutex

	mu      sync.Mutex
	present bool
	index   int
	msg     domain.InboundMessage
	result  domain.ClassificationResult
	liked   bool
	reply   bool
	draft   string
	gen     uint64
	cancel  context.CancelFunc
	closed  bool
	wg      sync.WaitGroup
}

// Option configures a Surface.
type Option func(*Surface)

// WithListener sets the event listener.
func WithListener(l Listener) Option {
	return func(s *Surface) { s.listener = l }
}

// WithHooks publishes lifecycle events.
func WithHooks(e hooks.Emitter) Option {
	return func(s *Surface) { s.hooks = e }
}

// WithTimeout bounds each classification request.
func WithTimeout(d time.Duration) Option {
	return func(s *Surface) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(log *logging.Logger) Option {
	return func(s *Surface) { s.log = log.Sub("notify") }
}

// New creates an empty Surface.
func New(classifier Classifier, policy masking.Policy, opts ...Option) *Surface {
	s := &Surface{
		classifier: classifier,
		policy:     policy,
		hooks:      hooks.Nop{},
		timeout:    DefaultClassifyTimeout,
		log:        logging.Nop(),
		index:      -1,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Show makes msg current. Interaction state resets, the result goes to
// Pending and a classification request is issued. Any result still in
// flight for the previous message is discarded when it arrives.
func (s *Surface) Show(index int, msg domain.InboundMessage) {
	s.emitMu.Lock()
	defer s.emitMu.Unlock()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	if s.cancel != nil {
		s.cancel()
	}
	s.gen++
	gen := s.gen
	s.present = true
	s.index = index
	s.msg = msg
	s.result = domain.Pending(msg.ID)
	s.liked = false
	s.reply = false
	s.draft = ""

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	s.cancel = cancel
	s.wg.Add(1)
	view := s.viewLocked()
	s.mu.Unlock()

	s.log.Debug().Int("index", index).Str("messageId", msg.ID).Msg("message revealed")
	s.hooks.Emit(context.Background(), hooks.EventNotificationRevealed, map[string]any{
		"index":     index,
		"messageId": msg.ID,
	})
	s.emit(Event{Kind: EventCurrent, View: view})

	go s.classify(ctx, gen, msg)
}

func (s *Surface) classify(ctx context.Context, gen uint64, msg domain.InboundMessage) {
	defer s.wg.Done()
	res := s.classifier.Classify(ctx, msg)
	res.MessageID = msg.ID
	s.applyResult(gen, res)
}

func (s *Surface) applyResult(gen uint64, res domain.ClassificationResult) {
	s.emitMu.Lock()
	defer s.emitMu.Unlock()

	s.mu.Lock()
	if s.closed || gen != s.gen || s.result.Status != domain.StatusPending {
		s.mu.Unlock()
		s.log.Debug().Str("messageId", res.MessageID).Msg("discarding stale classification")
		return
	}
	if res.Status == domain.StatusPending {
		res = domain.Failed(res.MessageID)
	}
	s.result = res
	view := s.viewLocked()
	s.mu.Unlock()

	if res.Status == domain.StatusFailed {
		s.log.Warn().Str("messageId", res.MessageID).Msg("classification unavailable")
	}
	s.hooks.Emit(context.Background(), hooks.EventNotificationClassified, map[string]any{
		"messageId": res.MessageID,
		"status":    string(res.Status),
		"isHate":    res.IsHate,
	})
	s.emit(Event{Kind: EventClassified, View: view})
}

func (s *Surface) emit(ev Event) {
	if s.listener != nil {
		s.listener(ev)
	}
}

// View returns the current snapshot.
func (s *Surface) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

func (s *Surface) viewLocked() View {
	if !s.present {
		return View{Index: -1}
	}
	display := s.policy.DisplayText(s.index, s.msg, s.result)
	return View{
		Present:     true,
		Index:       s.index,
		Message:     s.msg,
		Result:      s.result,
		DisplayText: display,
		Masked:      s.policy.Flagged(s.index, s.result),
		Safe:        s.policy.ShowSafe(s.index, s.result),
		HardFlagged: s.policy.HardFlagged(s.index),
		Liked:       s.liked,
		ReplyMode:   s.reply,
		ReplyDraft:  s.draft,
	}
}

// Like marks the message liked. It is one-shot: it reports false when there
// is no message or it was already liked.
func (s *Surface) Like() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.present || s.liked {
		return false
	}
	s.liked = true
	return true
}

// EnterReply switches to reply mode.
func (s *Surface) EnterReply() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.present {
		return false
	}
	s.reply = true
	return true
}

// SetDraft replaces the reply draft. Ignored outside reply mode.
func (s *Surface) SetDraft(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.reply {
		s.draft = text
	}
}

// SendReply acknowledges the draft locally: a non-blank draft is cleared and
// reply mode ends. Blank drafts are a no-op. Nothing is appended to any
// conversation.
func (s *Surface) SendReply() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.reply || strings.TrimSpace(s.draft) == "" {
		return false
	}
	s.draft = ""
	s.reply = false
	return true
}

// Open hands the current message off to the host. ok is false when nothing
// is showing.
func (s *Surface) Open() (domain.OpenPayload, bool) {
	s.mu.Lock()
	if !s.present {
		s.mu.Unlock()
		return domain.OpenPayload{}, false
	}
	p := domain.OpenPayload{
		SenderID:     s.msg.Sender,
		Time:         s.msg.Time,
		DisplayText:  s.policy.DisplayText(s.index, s.msg, s.result),
		IsHateSpeech: s.policy.Flagged(s.index, s.result),
	}
	s.mu.Unlock()

	s.hooks.Emit(context.Background(), hooks.EventNotificationOpened, map[string]any{
		"sender":       p.SenderID,
		"isHateSpeech": p.IsHateSpeech,
	})
	return p, true
}

// Close cancels any in-flight classification and waits for it to return.
// Show is a no-op afterwards.
func (s *Surface) Close() {
	s.mu.Lock()
	s.closed = true
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()
	s.wg.Wait()
}
