package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/longkey1/leethint/internal/leethint"
	"github.com/longkey1/leethint/internal/leethint/prompt"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
	SetDefaults()
}

func TestLoadConfigDefaults(t *testing.T) {
	resetViper(t)
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, leethint.DefaultModel, cfg.Model)
	assert.Equal(t, "https://openrouter.ai/api/v1", cfg.BaseURL)
	assert.Equal(t, "C++", cfg.Language)
	assert.Equal(t, "127.0.0.1:8787", cfg.ListenAddr)
	assert.Equal(t, []string{"https://leetcode.com", "https://leetcode.cn"}, cfg.AllowedOrigins)
	assert.Equal(t, filepath.Join(home, ".config", "leethint", CredentialFileName), cfg.CredentialFile)

	p, err := cfg.LoadPrompt()
	require.NoError(t, err)
	assert.Equal(t, prompt.DefaultSystem, p.System)
}

func TestLoadConfigFromFile(t *testing.T) {
	resetViper(t)
	dir := t.TempDir()
	t.Setenv("LEETHINT_TEST_BASE_URL", "http://localhost:9999/v1")

	configFile := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(configFile, []byte(`
model = "anthropic/claude-3.5-sonnet"
base_url = "$LEETHINT_TEST_BASE_URL"
language = "Go"
allowed_origins = ["chrome-extension://abcdef"]
prompt_file = "prompts/tutor.toml"
`), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "prompts"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "prompts", "tutor.toml"), []byte(`system = "Help with {{problem_statement}}"`), 0644))

	viper.SetConfigFile(configFile)
	require.NoError(t, viper.ReadInConfig())

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "anthropic/claude-3.5-sonnet", cfg.Model)
	assert.Equal(t, "http://localhost:9999/v1", cfg.BaseURL)
	assert.Equal(t, "Go", cfg.Language)
	assert.Equal(t, []string{"chrome-extension://abcdef"}, cfg.AllowedOrigins)
	assert.Equal(t, filepath.Join(dir, "prompts", "tutor.toml"), cfg.PromptFile)
	assert.Equal(t, filepath.Join(dir, CredentialFileName), cfg.CredentialFile)

	p, err := cfg.LoadPrompt()
	require.NoError(t, err)
	assert.Equal(t, "Help with {{problem_statement}}", p.System)
}

func TestLoadConfigRejectsBadModel(t *testing.T) {
	resetViper(t)
	viper.Set("model", "gpt-4")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestExpandEnvVar(t *testing.T) {
	t.Setenv("LEETHINT_TEST_VALUE", "expanded")

	tests := []struct {
		input string
		want  string
	}{
		{"plain", "plain"},
		{"$LEETHINT_TEST_VALUE", "expanded"},
		{"${LEETHINT_TEST_VALUE}", "expanded"},
		{"$LEETHINT_TEST_UNSET", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, expandEnvVar(tt.input), "input %q", tt.input)
	}
}
