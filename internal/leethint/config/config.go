package config

import (
	"fmt"
	"path/filepath"

	"github.com/longkey1/leethint/internal/leethint"
	"github.com/longkey1/leethint/internal/leethint/prompt"
	"github.com/longkey1/leethint/internal/openrouter"
	"github.com/spf13/viper"
)

// CredentialFileName is the default name of the file holding the API key
const CredentialFileName = "credentials.toml"

// Config holds the configuration for leethint
type Config struct {
	Model          string   `toml:"model" mapstructure:"model"`                     // OpenRouter model id (e.g., "deepseek/deepseek-chat-v3-0324:free")
	BaseURL        string   `toml:"base_url" mapstructure:"base_url"`               // OpenRouter API base URL
	Language       string   `toml:"language" mapstructure:"language"`               // Programming language label used in the prompt
	PromptFile     string   `toml:"prompt_file" mapstructure:"prompt_file"`         // Optional TOML prompt file overriding the built-in template
	CredentialFile string   `toml:"credential_file" mapstructure:"credential_file"` // Where the API key is stored (default: <config dir>/credentials.toml)
	ListenAddr     string   `toml:"listen_addr" mapstructure:"listen_addr"`         // Address for 'leethint serve'
	RenderStyle    string   `toml:"render_style" mapstructure:"render_style"`       // glamour style for terminal output ("auto", "dark", "light", "notty")
	AllowedOrigins []string `toml:"allowed_origins" mapstructure:"allowed_origins"` // Page origins allowed to call 'leethint serve'
}

// DefaultAllowedOrigins are the LeetCode sites the page overlay runs on
var DefaultAllowedOrigins = []string{"https://leetcode.com", "https://leetcode.cn"}

// NewDefaultConfig returns a new Config with default values
func NewDefaultConfig() *Config {
	return &Config{
		Model:          leethint.DefaultModel,
		BaseURL:        openrouter.DefaultBaseURL,
		Language:       "C++",
		PromptFile:     "",
		CredentialFile: "",
		ListenAddr:     "127.0.0.1:8787",
		RenderStyle:    "auto",
		AllowedOrigins: append([]string(nil), DefaultAllowedOrigins...),
	}
}

// SetDefaults registers the default values with viper
func SetDefaults() {
	d := NewDefaultConfig()
	viper.SetDefault("model", d.Model)
	viper.SetDefault("base_url", d.BaseURL)
	viper.SetDefault("language", d.Language)
	viper.SetDefault("prompt_file", d.PromptFile)
	viper.SetDefault("credential_file", d.CredentialFile)
	viper.SetDefault("listen_addr", d.ListenAddr)
	viper.SetDefault("render_style", d.RenderStyle)
	viper.SetDefault("allowed_origins", d.AllowedOrigins)
}

// LoadConfig loads configuration from viper
func LoadConfig() (*Config, error) {
	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	config.BaseURL = expandEnvVar(config.BaseURL)
	config.PromptFile = expandEnvVar(config.PromptFile)
	config.CredentialFile = expandEnvVar(config.CredentialFile)

	if _, _, err := leethint.ParseModelID(config.Model); err != nil {
		return nil, fmt.Errorf("invalid model in config: %w", err)
	}

	if config.PromptFile != "" {
		absPath, err := ResolvePath(config.PromptFile)
		if err != nil {
			return nil, fmt.Errorf("error resolving prompt file path '%s': %w", config.PromptFile, err)
		}
		config.PromptFile = absPath
	}

	if config.CredentialFile == "" {
		dir, err := ConfigDir()
		if err != nil {
			return nil, err
		}
		config.CredentialFile = filepath.Join(dir, CredentialFileName)
	} else {
		absPath, err := ResolvePath(config.CredentialFile)
		if err != nil {
			return nil, fmt.Errorf("error resolving credential file path '%s': %w", config.CredentialFile, err)
		}
		config.CredentialFile = absPath
	}

	return config, nil
}

// LoadPrompt returns the configured prompt template, or the built-in one
func (c *Config) LoadPrompt() (*prompt.Prompt, error) {
	if c.PromptFile == "" {
		return prompt.Default(), nil
	}
	return prompt.LoadPrompt(c.PromptFile)
}
