package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// expandEnvVar expands an environment variable reference in the given value
// Supports both $VAR and ${VAR} syntax. If the variable is not set, returns empty string.
func expandEnvVar(value string) string {
	if !strings.HasPrefix(value, "$") {
		return value
	}

	var envVarName string
	if strings.HasPrefix(value, "${") && strings.HasSuffix(value, "}") {
		envVarName = value[2 : len(value)-1]
	} else {
		envVarName = strings.TrimPrefix(value, "$")
	}

	return os.Getenv(envVarName)
}

// ConfigDir returns the directory holding leethint's files.
// If a config file is used, that is the directory of the config file.
// Otherwise, defaults to $HOME/.config/leethint
func ConfigDir() (string, error) {
	configFile := viper.ConfigFileUsed()
	if configFile != "" {
		configDir := filepath.Dir(configFile)
		if !filepath.IsAbs(configDir) {
			cwd, err := os.Getwd()
			if err != nil {
				return "", fmt.Errorf("failed to get current working directory: %w", err)
			}
			configDir = filepath.Join(cwd, configDir)
		}
		return configDir, nil
	}

	return UserConfigDir()
}

// UserConfigDir returns $HOME/.config/leethint
func UserConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(home, ".config", "leethint"), nil
}

// ResolvePath converts a relative path to absolute path if needed.
// Relative paths are resolved against the config file directory, or the
// current working directory when no config file is used.
func ResolvePath(path string) (string, error) {
	if filepath.IsAbs(path) {
		return path, nil
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("error getting user home directory: %w", err)
		}
		return filepath.Join(home, path[2:]), nil
	}

	if viper.ConfigFileUsed() == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("error getting current working directory: %w", err)
		}
		return filepath.Join(cwd, path), nil
	}

	configDir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, path), nil
}
