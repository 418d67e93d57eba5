package llm

import (
	"fmt"
	"sort"
	"sync"

	"github.com/soyeahso/safetalk/internal/config"
	"github.com/soyeahso/safetalk/internal/logging"
)

// Purposes the backend resolves clients for.
const (
	PurposeDetector = "detector"
	PurposeAvatar   = "avatar"
)

// Registry manages LLM provider clients and resolves names to clients.
type Registry struct {
	mu       sync.RWMutex
	clients  map[string]Client // provider name → client
	aliases  map[string]string // alias → provider name
	fallback string            // default provider name
	log      *logging.Logger
}

// NewRegistry creates an empty provider registry.
func NewRegistry(log *logging.Logger) *Registry {
	return &Registry{
		clients: make(map[string]Client),
		aliases: make(map[string]string),
		log:     log.Sub("llm.registry"),
	}
}

// Register adds a client under the given provider name.
func (r *Registry) Register(name string, client Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[name] = client
	r.log.Info().Str("provider", name).Msg("registered LLM provider")
}

// Alias maps a purpose or alias to a provider.
// e.g., Alias("avatar", "ollama") means "avatar" resolves to the "ollama" provider.
func (r *Registry) Alias(alias, provider string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.aliases[alias] = provider
}

// SetFallback sets the default provider used when no match is found.
func (r *Registry) SetFallback(provider string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallback = provider
}

// Resolve returns the Client for the given name.
// Resolution order: exact provider name → alias → fallback.
func (r *Registry) Resolve(name string) (Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if c, ok := r.clients[name]; ok {
		return c, nil
	}

	if provider, ok := r.aliases[name]; ok {
		if c, ok := r.clients[provider]; ok {
			return c, nil
		}
	}

	if r.fallback != "" {
		if c, ok := r.clients[r.fallback]; ok {
			return c, nil
		}
	}

	return nil, fmt.Errorf("no LLM provider for %q", name)
}

// List returns all registered provider names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.clients))
	for n := range r.clients {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// NewRegistryFromConfig registers the Ollama avatar client and the
// configured detector provider, aliased by purpose.
func NewRegistryFromConfig(cfg config.Config, log *logging.Logger) *Registry {
	reg := NewRegistry(log)

	ollama := NewOllamaClient(cfg.AvatarChat.OllamaBase, cfg.AvatarChat.Model, cfg.AvatarChat.Timeout)
	reg.Register(ollama.Name(), ollama)
	reg.Alias(PurposeAvatar, ollama.Name())

	switch cfg.Detector.Provider {
	case "ollama":
		det := ollama
		if cfg.Detector.Model != "" && cfg.Detector.Model != cfg.AvatarChat.Model {
			det = NewOllamaClient(cfg.AvatarChat.OllamaBase, cfg.Detector.Model, cfg.Detector.Timeout)
			reg.Register("ollama-detector", det)
			reg.Alias(PurposeDetector, "ollama-detector")
		} else {
			reg.Alias(PurposeDetector, ollama.Name())
		}
	default:
		if cfg.Detector.APIKey == "" {
			if cfg.Detector.FallbackOllama {
				reg.log.Warn().Str("provider", cfg.Detector.Provider).Msg("no detector API key; classifying with Ollama")
				reg.Alias(PurposeDetector, ollama.Name())
				break
			}
			reg.log.Warn().Str("provider", cfg.Detector.Provider).Msg("no detector API key; detection will be unavailable")
			break
		}
		name := cfg.Detector.Provider
		if name == "" {
			name = "openrouter"
		}
		client := NewOpenAIClient(name, cfg.Detector.BaseURL, cfg.Detector.APIKey, cfg.Detector.Model, cfg.Detector.Timeout)
		reg.Register(name, client)
		reg.Alias(PurposeDetector, name)
		if cfg.Detector.FallbackOllama {
			chain := NewFailoverClient(log, client, ollama)
			reg.Register(chain.Name(), chain)
			reg.Alias(PurposeDetector, chain.Name())
		}
	}

	return reg
}
