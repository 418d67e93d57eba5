package config

import (
	"fmt"
	"time"
)

// ConfigError represents a configuration error.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s", e.Message)
}

const (
	DefaultPort          = 8000
	DefaultAPIURL        = "http://localhost:8000"
	DefaultDetectTimeout = 15 * time.Second
	DefaultChatTimeout   = 60 * time.Second
	DefaultOpenRouterURL = "https://openrouter.ai/api/v1"
	DefaultDetectorModel = "mistralai/mistral-7b-instruct"
	DefaultOllamaBase    = "http://127.0.0.1:11434"
	DefaultAvatarModel   = "deepseek-r1:1.5b"
	DefaultMaxReplyChars = 280
	DefaultStoragePath   = "data/safetalk.db"
)

// Defaults returns a Config with sensible defaults applied.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Port:           DefaultPort,
			Bind:           "loopback",
			AllowedOrigins: []string{"http://localhost:3000", "http://127.0.0.1:3000"},
			RateLimit: RateLimitConfig{
				RPS:   5,
				Burst: 10,
			},
		},
		Client: ClientConfig{
			APIURL:        DefaultAPIURL,
			DetectTimeout: DefaultDetectTimeout,
			ChatTimeout:   DefaultChatTimeout,
		},
		Detector: DetectorConfig{
			Provider: "openrouter",
			BaseURL:  DefaultOpenRouterURL,
			Model:    DefaultDetectorModel,
			Timeout:  30 * time.Second,
		},
		AvatarChat: AvatarChatConfig{
			OllamaBase:    DefaultOllamaBase,
			Model:         DefaultAvatarModel,
			Timeout:       DefaultChatTimeout,
			MaxReplyChars: DefaultMaxReplyChars,
		},
		Reveal: RevealConfig{
			Delays: []time.Duration{2 * time.Second, 12 * time.Second},
		},
		Storage: StorageConfig{
			Path: DefaultStoragePath,
		},
		Logging: LoggingConfig{
			Level:        "info",
			ConsoleStyle: "pretty",
		},
	}
}

// HooksEnabled reports whether lifecycle hook logging is on. Defaults to true.
func (c *Config) HooksEnabled() bool {
	return c.Hooks.Enabled == nil || *c.Hooks.Enabled
}
