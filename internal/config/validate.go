package config

import (
	"fmt"
	"net/url"
	"slices"
)

// ValidationIssue describes a problem with a config value.
type ValidationIssue struct {
	Path    string
	Message string
}

func (v ValidationIssue) String() string {
	return fmt.Sprintf("%s: %s", v.Path, v.Message)
}

// Validate checks a Config for issues. Returns nil if valid.
func Validate(cfg *Config) []ValidationIssue {
	var issues []ValidationIssue
	add := func(path, format string, args ...any) {
		issues = append(issues, ValidationIssue{Path: path, Message: fmt.Sprintf(format, args...)})
	}

	// Server
	if cfg.Server.Port < 0 || cfg.Server.Port > 65535 {
		add("server.port", "port must be 0-65535, got %d", cfg.Server.Port)
	}

	validBinds := []string{"auto", "lan", "loopback", "custom"}
	if cfg.Server.Bind != "" && !slices.Contains(validBinds, cfg.Server.Bind) {
		add("server.bind", "must be one of %v, got %q", validBinds, cfg.Server.Bind)
	}
	if cfg.Server.Bind == "custom" && cfg.Server.CustomBindHost == "" {
		add("server.customBindHost", "required when bind is custom")
	}
	if cfg.Server.RateLimit.RPS < 0 {
		add("server.rateLimit.rps", "must not be negative, got %v", cfg.Server.RateLimit.RPS)
	}
	if cfg.Server.RateLimit.Burst < 0 {
		add("server.rateLimit.burst", "must not be negative, got %d", cfg.Server.RateLimit.Burst)
	}

	// Client
	if cfg.Client.APIURL != "" {
		if u, err := url.Parse(cfg.Client.APIURL); err != nil || u.Scheme == "" || u.Host == "" {
			add("client.apiUrl", "must be an absolute URL, got %q", cfg.Client.APIURL)
		}
	}
	if cfg.Client.DetectTimeout < 0 {
		add("client.detectTimeout", "must not be negative, got %s", cfg.Client.DetectTimeout)
	}
	if cfg.Client.ChatTimeout < 0 {
		add("client.chatTimeout", "must not be negative, got %s", cfg.Client.ChatTimeout)
	}

	// Detector
	validProviders := []string{"openrouter", "ollama"}
	if cfg.Detector.Provider != "" && !slices.Contains(validProviders, cfg.Detector.Provider) {
		add("detector.provider", "must be one of %v, got %q", validProviders, cfg.Detector.Provider)
	}
	if cfg.Detector.Timeout < 0 {
		add("detector.timeout", "must not be negative, got %s", cfg.Detector.Timeout)
	}

	// Avatar chat
	if cfg.AvatarChat.Timeout < 0 {
		add("avatarChat.timeout", "must not be negative, got %s", cfg.AvatarChat.Timeout)
	}
	if cfg.AvatarChat.MaxReplyChars < 0 {
		add("avatarChat.maxReplyChars", "must not be negative, got %d", cfg.AvatarChat.MaxReplyChars)
	}

	// Reveal delays are relative to activation and must be strictly increasing
	// so that at most one message is current at a time.
	for i, d := range cfg.Reveal.Delays {
		if d < 0 {
			add(fmt.Sprintf("reveal.delays[%d]", i), "must not be negative, got %s", d)
			continue
		}
		if i > 0 && d <= cfg.Reveal.Delays[i-1] {
			add(fmt.Sprintf("reveal.delays[%d]", i), "must be greater than %s, got %s", cfg.Reveal.Delays[i-1], d)
		}
	}

	// Logging
	validLogLevels := []string{"silent", "fatal", "error", "warn", "info", "debug", "trace"}
	if cfg.Logging.Level != "" && !slices.Contains(validLogLevels, cfg.Logging.Level) {
		add("logging.level", "must be one of %v, got %q", validLogLevels, cfg.Logging.Level)
	}

	validConsoleStyles := []string{"pretty", "compact", "json"}
	if cfg.Logging.ConsoleStyle != "" && !slices.Contains(validConsoleStyles, cfg.Logging.ConsoleStyle) {
		add("logging.consoleStyle", "must be one of %v, got %q", validConsoleStyles, cfg.Logging.ConsoleStyle)
	}

	return issues
}

// ValidateServer adds the checks that only matter when running the backend.
func ValidateServer(cfg *Config) []ValidationIssue {
	issues := Validate(cfg)
	if cfg.Detector.Provider == "openrouter" && cfg.Detector.APIKey == "" && !cfg.Detector.FallbackOllama {
		issues = append(issues, ValidationIssue{
			Path:    "detector.apiKey",
			Message: "required for openrouter (set OPENROUTER_API_KEY)",
		})
	}
	return issues
}
