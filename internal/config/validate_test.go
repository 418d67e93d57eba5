package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func issuePaths(issues []ValidationIssue) []string {
	var paths []string
	for _, i := range issues {
		paths = append(paths, i.Path)
	}
	return paths
}

func TestValidate_ValidDefaults(t *testing.T) {
	cfg := Defaults()
	assert.Empty(t, Validate(&cfg))
}

func TestValidate_InvalidPort(t *testing.T) {
	for _, port := range []int{-1, 65536, 99999} {
		cfg := Defaults()
		cfg.Server.Port = port
		issues := Validate(&cfg)
		require.Len(t, issues, 1)
		assert.Equal(t, "server.port", issues[0].Path)
	}
}

func TestValidate_Binds(t *testing.T) {
	for _, bind := range []string{"auto", "lan", "loopback"} {
		cfg := Defaults()
		cfg.Server.Bind = bind
		assert.Empty(t, Validate(&cfg), bind)
	}

	cfg := Defaults()
	cfg.Server.Bind = "tailnet"
	assert.Equal(t, []string{"server.bind"}, issuePaths(Validate(&cfg)))

	cfg = Defaults()
	cfg.Server.Bind = "custom"
	assert.Equal(t, []string{"server.customBindHost"}, issuePaths(Validate(&cfg)))

	cfg.Server.CustomBindHost = "10.0.0.5"
	assert.Empty(t, Validate(&cfg))
}

func TestValidate_APIURL(t *testing.T) {
	cfg := Defaults()
	cfg.Client.APIURL = "localhost"
	assert.Equal(t, []string{"client.apiUrl"}, issuePaths(Validate(&cfg)))
}

func TestValidate_NegativeTimeouts(t *testing.T) {
	cfg := Defaults()
	cfg.Client.DetectTimeout = -time.Second
	cfg.Client.ChatTimeout = -time.Second
	cfg.AvatarChat.Timeout = -time.Second
	assert.ElementsMatch(t,
		[]string{"client.detectTimeout", "client.chatTimeout", "avatarChat.timeout"},
		issuePaths(Validate(&cfg)))
}

func TestValidate_RevealDelays(t *testing.T) {
	tests := []struct {
		name   string
		delays []time.Duration
		want   []string
	}{
		{"reference", []time.Duration{2 * time.Second, 12 * time.Second}, nil},
		{"empty", nil, nil},
		{"zero first", []time.Duration{0, time.Second}, nil},
		{"equal", []time.Duration{time.Second, time.Second}, []string{"reveal.delays[1]"}},
		{"decreasing", []time.Duration{5 * time.Second, time.Second}, []string{"reveal.delays[1]"}},
		{"negative", []time.Duration{-time.Second}, []string{"reveal.delays[0]"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			cfg.Reveal.Delays = tt.delays
			assert.Equal(t, tt.want, issuePaths(Validate(&cfg)))
		})
	}
}

func TestValidate_LogLevels(t *testing.T) {
	for _, level := range []string{"silent", "fatal", "error", "warn", "info", "debug", "trace"} {
		cfg := Defaults()
		cfg.Logging.Level = level
		assert.Empty(t, Validate(&cfg), level)
	}

	cfg := Defaults()
	cfg.Logging.Level = "verbose"
	assert.Equal(t, []string{"logging.level"}, issuePaths(Validate(&cfg)))
}

func TestValidate_ConsoleStyle(t *testing.T) {
	cfg := Defaults()
	cfg.Logging.ConsoleStyle = "fancy"
	assert.Equal(t, []string{"logging.consoleStyle"}, issuePaths(Validate(&cfg)))
}

func TestValidate_DetectorProvider(t *testing.T) {
	cfg := Defaults()
	cfg.Detector.Provider = "claude"
	assert.Equal(t, []string{"detector.provider"}, issuePaths(Validate(&cfg)))
}

func TestValidate_MultipleIssues(t *testing.T) {
	cfg := Defaults()
	cfg.Server.Port = -1
	cfg.Logging.Level = "bogus"
	cfg.Server.RateLimit.Burst = -3
	assert.Len(t, Validate(&cfg), 3)
}

func TestValidateServer_RequiresAPIKey(t *testing.T) {
	cfg := Defaults()
	assert.Equal(t, []string{"detector.apiKey"}, issuePaths(ValidateServer(&cfg)))

	cfg.Detector.APIKey = "sk-test"
	assert.Empty(t, ValidateServer(&cfg))

	cfg.Detector.APIKey = ""
	cfg.Detector.Provider = "ollama"
	assert.Empty(t, ValidateServer(&cfg))

	cfg.Detector.Provider = "openrouter"
	cfg.Detector.FallbackOllama = true
	assert.Empty(t, ValidateServer(&cfg))
}

func TestValidationIssueString(t *testing.T) {
	issue := ValidationIssue{Path: "server.port", Message: "bad"}
	assert.Equal(t, "server.port: bad", issue.String())
}
