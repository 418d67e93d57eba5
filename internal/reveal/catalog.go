package reveal

import (
	"time"

	"github.com/soyeahso/safetalk/internal/domain"
)

// Entry is one catalog message and its delay relative to activation.
type Entry struct {
	Message domain.InboundMessage
	Delay   time.Duration
}

// Catalog is the fixed, ordered list of messages a Scheduler reveals.
type Catalog []Entry

// HardFlaggedIndex is the catalog position that is always treated as hate
// speech, whatever the classifier says.
const HardFlaggedIndex = 1

// DefaultMessages returns the reference inbound messages.
func DefaultMessages() []domain.InboundMessage {
	return []domain.InboundMessage{
		{
			ID:     "1",
			Sender: "charlie kirk",
			App:    "Instagram",
			Time:   "20:02",
			Text:   "sup twin wanna hang out?",
			Emojis: "😊😂😍",
		},
		{
			ID:     "2",
			Sender: "esrgh_4",
			App:    "Instagram",
			Time:   "20:02",
			Text:   "I hate you, you are stupid",
			Emojis: "😜😔👻🎉💖",
		},
	}
}

// DefaultDelays are the reference reveal times, measured from activation.
var DefaultDelays = []time.Duration{2 * time.Second, 12 * time.Second}

// NewCatalog pairs messages with delays. Messages beyond the last delay are
// dropped; a nil delays slice uses DefaultDelays.
func NewCatalog(messages []domain.InboundMessage, delays []time.Duration) Catalog {
	if delays == nil {
		delays = DefaultDelays
	}
	n := min(len(messages), len(delays))
	c := make(Catalog, n)
	for i := range n {
		c[i] = Entry{Message: messages[i], Delay: delays[i]}
	}
	return c
}

// DefaultCatalog is the reference catalog with the given delays.
func DefaultCatalog(delays []time.Duration) Catalog {
	return NewCatalog(DefaultMessages(), delays)
}
