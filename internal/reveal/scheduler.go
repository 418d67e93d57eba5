// Package reveal times the staged appearance of inbound notifications.
package reveal

import (
	"sync"

	"github.com/soyeahso/safetalk/internal/domain"
	"github.com/soyeahso/safetalk/internal/logging"
)

// RevealFunc is called when catalog entry index becomes current.
type RevealFunc func(index int, msg domain.InboundMessage)

// Scheduler reveals a Catalog one message at a time.
type Scheduler struct {
	catalog Catalog
	clock   Clock
	log     *logging.Logger
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithClock replaces the real clock.
func WithClock(c Clock) Option {
	return func(s *Scheduler) { s.clock = c }
}

// WithLogger sets the logger.
func WithLogger(log *logging.Logger) Option {
	return func(s *Scheduler) { s.log = log.Sub("reveal") }
}

// New creates a Scheduler for catalog.
func New(catalog Catalog, opts ...Option) *Scheduler {
	s := &Scheduler{
		catalog: catalog,
		clock:   RealClock{},
		log:     logging.Nop(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Start arms one timer per catalog entry and returns the handle that owns
// them. onReveal runs with the handle locked and must not call back into it.
func (s *Scheduler) Start(onReveal RevealFunc) *Handle {
	h := &Handle{current: -1, catalog: s.catalog}
	h.mu.Lock()
	defer h.mu.Unlock()

	for i, e := range s.catalog {
		idx, entry := i, e
		h.timers = append(h.timers, s.clock.AfterFunc(entry.Delay, func() {
			h.fire(idx, entry.Message, onReveal)
		}))
	}
	s.log.Debug().Int("messages", len(s.catalog)).Msg("reveal scheduled")
	return h
}

// Handle owns the timers of one activation.
type Handle struct {
	mu        sync.Mutex
	timers    []Timer
	catalog   Catalog
	current   int
	cancelled bool
}

func (h *Handle) fire(idx int, msg domain.InboundMessage, onReveal RevealFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()

	// A reveal never goes backwards and never happens after Cancel.
	if h.cancelled || idx <= h.current {
		return
	}
	h.current = idx
	if onReveal != nil {
		onReveal(idx, msg)
	}
}

// Cancel stops every pending timer. After Cancel returns no reveal
// callback is running or will run.
func (h *Handle) Cancel() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cancelled {
		return
	}
	h.cancelled = true
	for _, t := range h.timers {
		t.Stop()
	}
	h.timers = nil
}

// Current returns the index and message currently shown, if any.
func (h *Handle) Current() (int, domain.InboundMessage, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.current < 0 {
		return -1, domain.InboundMessage{}, false
	}
	return h.current, h.catalog[h.current].Message, true
}

// Cancelled reports whether Cancel has been called.
func (h *Handle) Cancelled() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cancelled
}
