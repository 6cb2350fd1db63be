package cmd

import (
	"fmt"

	"github.com/longkey1/leethint/internal/leethint"
	"github.com/longkey1/leethint/internal/leethint/config"
	"github.com/longkey1/leethint/internal/leethint/credential"
	"github.com/longkey1/leethint/internal/leethint/prompt"
	"github.com/longkey1/leethint/internal/openrouter"
)

// newClient creates the OpenRouter client for the configured base URL
func newClient(cfg *config.Config) *openrouter.Client {
	return openrouter.NewClient(cfg.BaseURL, openrouter.WithLogger(logger))
}

// newStore opens the credential store backed by the configured file
func newStore(cfg *config.Config) *credential.Store {
	return credential.NewStore(credential.NewFileKV(cfg.CredentialFile), logger)
}

// newComposer creates a composer using the configured prompt template
func newComposer(cfg *config.Config, code prompt.CodeSource) (*prompt.Composer, error) {
	p, err := cfg.LoadPrompt()
	if err != nil {
		return nil, fmt.Errorf("loading prompt: %w", err)
	}
	return prompt.NewComposer(p, code, logger), nil
}

// resolveModel applies the --model flag over the configured model
func resolveModel(cfg *config.Config, flagModel string) error {
	if flagModel == "" {
		return nil
	}
	if _, _, err := leethint.ParseModelID(flagModel); err != nil {
		return fmt.Errorf("invalid model from flag: %w", err)
	}
	cfg.Model = flagModel
	return nil
}
