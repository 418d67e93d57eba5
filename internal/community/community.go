// Package community keeps the list of shared experiences.
package community

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/soyeahso/safetalk/internal/domain"
	"github.com/soyeahso/safetalk/internal/logging"
	"github.com/soyeahso/safetalk/internal/store"
)

// StorageKey is the persistence key for the list.
const StorageKey = "community-experiences-racism"

// TimestampLayout formats the time a story was shared.
const TimestampLayout = "15:04, 1/2/2006"

// ErrEmptyStory is returned when sharing blank text.
var ErrEmptyStory = errors.New("community: empty story")

// Board is the experience list backed by local persistence.
type Board struct {
	kv  store.KeyValue
	log *logging.Logger

	mu      sync.Mutex
	entries []domain.CommunityExperience
}

// Load reads the list. Missing, empty, unreadable or malformed data yields
// the defaults.
func Load(ctx context.Context, kv store.KeyValue, log *logging.Logger) *Board {
	b := &Board{kv: kv, log: log.Sub("community")}
	b.entries = b.read(ctx)
	return b
}

func (b *Board) read(ctx context.Context) []domain.CommunityExperience {
	raw, err := b.kv.Get(ctx, StorageKey)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			b.log.Warn().Err(err).Msg("failed to read experiences")
		}
		return Defaults()
	}
	var list []domain.CommunityExperience
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		b.log.Warn().Err(err).Msg("stored experiences are malformed")
		return Defaults()
	}
	if len(list) == 0 {
		return Defaults()
	}
	return list
}

// List returns the entries, newest first.
func (b *Board) List() []domain.CommunityExperience {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]domain.CommunityExperience(nil), b.entries...)
}

// DisplayName is the author label for a story.
func DisplayName(name string, anonymous bool) string {
	if anonymous {
		return "anonymous"
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = "anonymous"
	}
	return "nonymous: " + name
}

// Share prepends a story and persists the list. Blank text changes
// nothing. A persistence failure is logged; the story stays in memory.
func (b *Board) Share(ctx context.Context, name, text string, anonymous bool, now time.Time) (domain.CommunityExperience, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.CommunityExperience{}, ErrEmptyStory
	}
	exp := domain.CommunityExperience{
		ID:        uuid.NewString(),
		Timestamp: now.Format(TimestampLayout),
		Name:      DisplayName(name, anonymous),
		Text:      text,
	}

	b.mu.Lock()
	b.entries = append([]domain.CommunityExperience{exp}, b.entries...)
	snapshot := append([]domain.CommunityExperience(nil), b.entries...)
	b.mu.Unlock()

	if err := b.save(ctx, snapshot); err != nil {
		b.log.Warn().Err(err).Msg("failed to save experiences")
	}
	return exp, nil
}

func (b *Board) save(ctx context.Context, list []domain.CommunityExperience) error {
	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("encoding experiences: %w", err)
	}
	return b.kv.Set(ctx, StorageKey, string(data))
}
