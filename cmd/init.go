package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/longkey1/leethint/internal/leethint/config"
	"github.com/spf13/cobra"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the configuration file",
	Long: `Initialize the configuration file with default settings.
The config file will be created at $HOME/.config/leethint/config.toml by default.
You can specify a different location using the --config option.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configFile := cfgFile
		if configFile == "" {
			dir, err := config.UserConfigDir()
			if err != nil {
				return err
			}
			configFile = filepath.Join(dir, "config.toml")
		}

		configDir := filepath.Dir(configFile)
		if err := os.MkdirAll(configDir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}

		if _, err := os.Stat(configFile); err == nil {
			return fmt.Errorf("config file already exists at: %s", configFile)
		}

		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("failed to create config file: %w", err)
		}
		defer f.Close()

		if err := toml.NewEncoder(f).Encode(config.NewDefaultConfig()); err != nil {
			return fmt.Errorf("failed to encode config: %w", err)
		}

		fmt.Printf("Configuration file created at: %s\n", configFile)
		fmt.Println("Next, store your OpenRouter API key with: leethint key set")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
