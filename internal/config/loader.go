package config

import (
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// envVarPattern matches ${VAR_NAME} patterns in strings.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// expandEnvVars replaces ${VAR} patterns with environment variable values.
// Unset variables are left unchanged.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[2 : len(match)-1]
		if val, ok := os.LookupEnv(varName); ok {
			return val
		}
		return match
	})
}

// expandSensitiveFields processes environment variable references in
// credential and endpoint fields so they can be stored as ${ENV_VAR}.
func expandSensitiveFields(cfg *Config) {
	cfg.Detector.APIKey = expandEnvVars(cfg.Detector.APIKey)
	cfg.Detector.BaseURL = expandEnvVars(cfg.Detector.BaseURL)
	cfg.AvatarChat.OllamaBase = expandEnvVars(cfg.AvatarChat.OllamaBase)
	cfg.Client.APIURL = expandEnvVars(cfg.Client.APIURL)
}

// LoadDotEnv loads KEY=VALUE pairs from the given .env files into the
// process environment without overriding variables that are already set.
// Missing files are ignored.
func LoadDotEnv(files ...string) error {
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return err
		}
		if err := godotenv.Load(f); err != nil {
			return &ConfigError{Message: "failed to load " + f + ": " + err.Error()}
		}
	}
	return nil
}

// Load reads the config file, applies environment overrides, and returns
// a merged Config. Missing files produce defaults only.
func Load(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnvOverrides(&cfg)
			return cfg, nil
		}
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, &ConfigError{Message: "failed to parse config: " + err.Error()}
	}

	applyDefaults(&cfg)
	expandSensitiveFields(&cfg)
	applyEnvOverrides(&cfg)
	return cfg, nil
}

// LoadRaw reads the config file into a generic map for path-based access.
func LoadRaw(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]any{}, nil
		}
		return nil, err
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &ConfigError{Message: "failed to parse config: " + err.Error()}
	}
	if raw == nil {
		raw = map[string]any{}
	}
	return raw, nil
}

// SaveRaw writes a generic map back to a YAML config file.
func SaveRaw(path string, raw map[string]any) error {
	data, err := yaml.Marshal(raw)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// applyDefaults fills zero-value fields with sensible defaults.
func applyDefaults(cfg *Config) {
	d := Defaults()
	if cfg.Server.Port == 0 {
		cfg.Server.Port = d.Server.Port
	}
	if cfg.Server.Bind == "" {
		cfg.Server.Bind = d.Server.Bind
	}
	if len(cfg.Server.AllowedOrigins) == 0 {
		cfg.Server.AllowedOrigins = d.Server.AllowedOrigins
	}
	if cfg.Server.RateLimit.RPS == 0 {
		cfg.Server.RateLimit.RPS = d.Server.RateLimit.RPS
	}
	if cfg.Server.RateLimit.Burst == 0 {
		cfg.Server.RateLimit.Burst = d.Server.RateLimit.Burst
	}
	if cfg.Client.APIURL == "" {
		cfg.Client.APIURL = d.Client.APIURL
	}
	if cfg.Client.DetectTimeout == 0 {
		cfg.Client.DetectTimeout = d.Client.DetectTimeout
	}
	if cfg.Client.ChatTimeout == 0 {
		cfg.Client.ChatTimeout = d.Client.ChatTimeout
	}
	if cfg.Detector.Provider == "" {
		cfg.Detector.Provider = d.Detector.Provider
	}
	if cfg.Detector.BaseURL == "" && cfg.Detector.Provider == "openrouter" {
		cfg.Detector.BaseURL = d.Detector.BaseURL
	}
	if cfg.Detector.Model == "" {
		cfg.Detector.Model = d.Detector.Model
	}
	if cfg.Detector.Timeout == 0 {
		cfg.Detector.Timeout = d.Detector.Timeout
	}
	if cfg.AvatarChat.OllamaBase == "" {
		cfg.AvatarChat.OllamaBase = d.AvatarChat.OllamaBase
	}
	if cfg.AvatarChat.Model == "" {
		cfg.AvatarChat.Model = d.AvatarChat.Model
	}
	if cfg.AvatarChat.Timeout == 0 {
		cfg.AvatarChat.Timeout = d.AvatarChat.Timeout
	}
	if cfg.AvatarChat.MaxReplyChars == 0 {
		cfg.AvatarChat.MaxReplyChars = d.AvatarChat.MaxReplyChars
	}
	if len(cfg.Reveal.Delays) == 0 {
		cfg.Reveal.Delays = d.Reveal.Delays
	}
	if cfg.Storage.Path == "" {
		cfg.Storage.Path = d.Storage.Path
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = d.Logging.Level
	}
	if cfg.Logging.ConsoleStyle == "" {
		cfg.Logging.ConsoleStyle = d.Logging.ConsoleStyle
	}
}

// applyEnvOverrides reads SAFETALK_* and service environment variables and
// overrides config values.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SAFETALK_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("SAFETALK_BIND"); v != "" {
		cfg.Server.Bind = v
	}
	if v := os.Getenv("REACT_APP_API_URL"); v != "" {
		cfg.Client.APIURL = v
	}
	if v := os.Getenv("SAFETALK_API_URL"); v != "" {
		cfg.Client.APIURL = v
	}
	if v := os.Getenv("OPENROUTER_API_KEY"); v != "" && (cfg.Detector.APIKey == "" || strings.HasPrefix(cfg.Detector.APIKey, "${")) {
		cfg.Detector.APIKey = v
	}
	if v := os.Getenv("OLLAMA_BASE"); v != "" {
		cfg.AvatarChat.OllamaBase = v
	}
	if v := os.Getenv("OLLAMA_AVATAR_MODEL"); v != "" {
		cfg.AvatarChat.Model = v
	}
	if v := os.Getenv("SAFETALK_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
}
