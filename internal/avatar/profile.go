package avatar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/soyeahso/safetalk/internal/domain"
	"github.com/soyeahso/safetalk/internal/logging"
	"github.com/soyeahso/safetalk/internal/store"
)

// StorageKey is the persistence key for the profile.
const StorageKey = "safetalk_avatar"

// Profiles loads and saves the single avatar profile.
type Profiles struct {
	kv  store.KeyValue
	log *logging.Logger
}

// NewProfiles creates a Profiles over kv.
func NewProfiles(kv store.KeyValue, log *logging.Logger) *Profiles {
	return &Profiles{kv: kv, log: log.Sub("avatar")}
}

// Load returns the stored profile with defaults filled in. A missing,
// unreadable or malformed record reports false.
func (p *Profiles) Load(ctx context.Context) (domain.AvatarProfile, bool) {
	raw, err := p.kv.Get(ctx, StorageKey)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			p.log.Warn().Err(err).Msg("failed to read avatar")
		}
		return domain.AvatarProfile{}, false
	}
	var prof domain.AvatarProfile
	if err := json.Unmarshal([]byte(raw), &prof); err != nil {
		p.log.Warn().Err(err).Msg("stored avatar is malformed")
		return domain.AvatarProfile{}, false
	}
	if prof.Ethnicity == "" && prof.Hairstyle == "" {
		return domain.AvatarProfile{}, false
	}
	return WithDefaults(prof), true
}

// Save stores prof. Failures are logged and returned.
func (p *Profiles) Save(ctx context.Context, prof domain.AvatarProfile) error {
	data, err := json.Marshal(prof)
	if err != nil {
		return fmt.Errorf("encoding avatar: %w", err)
	}
	if err := p.kv.Set(ctx, StorageKey, string(data)); err != nil {
		p.log.Warn().Err(err).Msg("failed to save avatar")
		return fmt.Errorf("saving avatar: %w", err)
	}
	p.log.Debug().Str("name", prof.Name).Msg("avatar saved")
	return nil
}
