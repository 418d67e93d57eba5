package config

import "time"

// Config is the root configuration for Safe Talk.
type Config struct {
	Server     ServerConfig     `yaml:"server,omitempty"`
	Client     ClientConfig     `yaml:"client,omitempty"`
	Detector   DetectorConfig   `yaml:"detector,omitempty"`
	AvatarChat AvatarChatConfig `yaml:"avatarChat,omitempty"`
	Reveal     RevealConfig     `yaml:"reveal,omitempty"`
	Storage    StorageConfig    `yaml:"storage,omitempty"`
	Logging    LoggingConfig    `yaml:"logging,omitempty"`
	Hooks      HooksConfig      `yaml:"hooks,omitempty"`
}

// ServerConfig controls the detection backend HTTP/WebSocket server.
type ServerConfig struct {
	Port           int             `yaml:"port,omitempty"`
	Bind           string          `yaml:"bind,omitempty"` // "auto" | "lan" | "loopback" | "custom"
	CustomBindHost string          `yaml:"customBindHost,omitempty"`
	AllowedOrigins []string        `yaml:"allowedOrigins,omitempty"`
	RateLimit      RateLimitConfig `yaml:"rateLimit,omitempty"`
}

// RateLimitConfig bounds per-IP request rates on the POST endpoints.
type RateLimitConfig struct {
	RPS   float64 `yaml:"rps,omitempty"`
	Burst int     `yaml:"burst,omitempty"`
}

// ClientConfig configures the consumer side of /detect-hate and /chat-avatar.
type ClientConfig struct {
	APIURL        string        `yaml:"apiUrl,omitempty"`
	DetectTimeout time.Duration `yaml:"detectTimeout,omitempty"`
	ChatTimeout   time.Duration `yaml:"chatTimeout,omitempty"`
	ChatModel     string        `yaml:"chatModel,omitempty"`
}

// DetectorConfig configures the LLM behind /detect-hate.
type DetectorConfig struct {
	Provider string        `yaml:"provider,omitempty"` // "openrouter" | "ollama"
	BaseURL  string        `yaml:"baseUrl,omitempty"`
	APIKey   string        `yaml:"apiKey,omitempty"`
	Model    string        `yaml:"model,omitempty"`
	Timeout  time.Duration `yaml:"timeout,omitempty"`
	// FallbackOllama retries failed OpenRouter calls against the local
	// Ollama avatar model, and stands in for OpenRouter when no key is set.
	FallbackOllama bool `yaml:"fallbackOllama,omitempty"`
}

// AvatarChatConfig configures the Ollama model behind /chat-avatar.
type AvatarChatConfig struct {
	OllamaBase    string        `yaml:"ollamaBase,omitempty"`
	Model         string        `yaml:"model,omitempty"`
	Timeout       time.Duration `yaml:"timeout,omitempty"`
	MaxReplyChars int           `yaml:"maxReplyChars,omitempty"`
	SystemPrompt  string        `yaml:"systemPrompt,omitempty"`
}

// RevealConfig holds the delay, relative to activation, of each catalog message.
type RevealConfig struct {
	Delays []time.Duration `yaml:"delays,omitempty"`
}

// StorageConfig locates the local persistence database.
// A relative path is resolved against Paths.Base.
type StorageConfig struct {
	Path string `yaml:"path,omitempty"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level        string `yaml:"level,omitempty"` // "silent" | "fatal" | "error" | "warn" | "info" | "debug" | "trace"
	File         string `yaml:"file,omitempty"`
	ConsoleStyle string `yaml:"consoleStyle,omitempty"` // "pretty" | "compact" | "json"
}

// HooksConfig toggles lifecycle event logging.
type HooksConfig struct {
	Enabled *bool `yaml:"enabled,omitempty"`
}
