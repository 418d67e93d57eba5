package cli

import (
	"github.com/soyeahso/safetalk/internal/backend"
	"github.com/soyeahso/safetalk/internal/hooks"
	"github.com/soyeahso/safetalk/internal/logging"
	"github.com/soyeahso/safetalk/internal/store"
)

// openStore opens the local database at the configured storage path.
func openStore(l *logging.Logger) (*store.DB, error) {
	if err := paths.EnsureDirs(); err != nil {
		return nil, err
	}
	return store.Open(paths.StoragePath(cfg.Storage), l)
}

// newBackendClient targets client.apiUrl with the configured bounds.
func newBackendClient(l *logging.Logger) *backend.Client {
	return backend.New(cfg.Client.APIURL,
		backend.WithTimeouts(cfg.Client.DetectTimeout, cfg.Client.ChatTimeout),
		backend.WithLogger(l),
	)
}

// newHooks returns a manager with event logging attached when enabled.
func newHooks(l *logging.Logger) *hooks.Manager {
	m := hooks.NewManager(l)
	if cfg.HooksEnabled() {
		hooks.RegisterLogging(m, l)
	}
	return m
}
