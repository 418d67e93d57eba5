package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfigPath(t *testing.T) {
	tests := []struct {
		input   string
		want    []string
		wantErr bool
	}{
		{"server.port", []string{"server", "port"}, false},
		{"avatarChat.model", []string{"avatarChat", "model"}, false},
		{"server.rateLimit.rps", []string{"server", "rateLimit", "rps"}, false},
		{"single", []string{"single"}, false},
		{"", nil, true},
		{"a..b", nil, true},
		{".leading", nil, true},
		{"trailing.", nil, true},
		{"__proto__.x", nil, true},
		{"x.constructor", nil, true},
		{"prototype", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseConfigPath(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				var cfgErr *ConfigError
				assert.ErrorAs(t, err, &cfgErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestGetValueAtPath(t *testing.T) {
	root := map[string]any{
		"server": map[string]any{
			"port": 8000,
			"rateLimit": map[string]any{
				"burst": 10,
			},
		},
		"flat": "value",
	}

	tests := []struct {
		name   string
		path   []string
		want   any
		wantOK bool
	}{
		{"nested", []string{"server", "port"}, 8000, true},
		{"deep", []string{"server", "rateLimit", "burst"}, 10, true},
		{"top level", []string{"flat"}, "value", true},
		{"missing leaf", []string{"server", "bind"}, nil, false},
		{"missing root", []string{"nope"}, nil, false},
		{"through non-map", []string{"flat", "x"}, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := GetValueAtPath(root, tt.path)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestSetValueAtPath_CreatesIntermediates(t *testing.T) {
	root := map[string]any{}
	SetValueAtPath(root, []string{"avatarChat", "model"}, "phi")

	val, ok := GetValueAtPath(root, []string{"avatarChat", "model"})
	assert.True(t, ok)
	assert.Equal(t, "phi", val)
}

func TestSetValueAtPath_OverwritesNonMap(t *testing.T) {
	root := map[string]any{"server": "oops"}
	SetValueAtPath(root, []string{"server", "port"}, 9000)

	val, ok := GetValueAtPath(root, []string{"server", "port"})
	assert.True(t, ok)
	assert.Equal(t, 9000, val)
}

func TestUnsetValueAtPath(t *testing.T) {
	root := map[string]any{
		"server": map[string]any{"port": 8000, "bind": "lan"},
	}

	assert.True(t, UnsetValueAtPath(root, []string{"server", "port"}))
	_, ok := GetValueAtPath(root, []string{"server", "port"})
	assert.False(t, ok)

	val, ok := GetValueAtPath(root, []string{"server", "bind"})
	assert.True(t, ok, "siblings are preserved")
	assert.Equal(t, "lan", val)

	assert.False(t, UnsetValueAtPath(root, []string{"server", "port"}))
	assert.False(t, UnsetValueAtPath(root, []string{"missing", "key"}))
	assert.False(t, UnsetValueAtPath(root, []string{"server", "bind", "deeper"}))
}
