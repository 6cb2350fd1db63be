package cmd

import (
	"fmt"
	"strings"

	"github.com/longkey1/leethint/internal/leethint/config"
	"github.com/longkey1/leethint/internal/leethint/credential"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const configFields = "configfile, model, base_url, language, prompt_file, credential_file, listen_addr, render_style, allowed_origins, api_key"

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config [field]",
	Short: "Display current configuration",
	Long: `Display the current configuration values.
This command shows all configuration values loaded from the config file and environment variables.

If a field name is specified, only that field's value is displayed.
Available fields: ` + configFields + `

Examples:
  leethint config              # Show all configuration
  leethint config model        # Show only model
  leethint config api_key      # Show the stored API key (masked)`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		apiKey := "(not configured)"
		if key, ok := newStore(cfg).Load(); ok {
			apiKey = credential.Mask(key)
		}

		if len(args) > 0 {
			field := strings.ToLower(args[0])
			switch field {
			case "configfile":
				fmt.Println(viper.ConfigFileUsed())
			case "model":
				fmt.Println(cfg.Model)
			case "base_url", "baseurl":
				fmt.Println(cfg.BaseURL)
			case "language":
				fmt.Println(cfg.Language)
			case "prompt_file", "promptfile":
				fmt.Println(cfg.PromptFile)
			case "credential_file", "credentialfile":
				fmt.Println(cfg.CredentialFile)
			case "listen_addr", "listenaddr":
				fmt.Println(cfg.ListenAddr)
			case "render_style", "renderstyle":
				fmt.Println(cfg.RenderStyle)
			case "allowed_origins", "allowedorigins":
				fmt.Println(strings.Join(cfg.AllowedOrigins, ","))
			case "api_key", "apikey":
				fmt.Println(apiKey)
			default:
				return fmt.Errorf("unknown field: %s (available fields: %s)", args[0], configFields)
			}
			return nil
		}

		fmt.Printf("ConfigFile: %s\n", viper.ConfigFileUsed())
		fmt.Printf("Model: %s\n", cfg.Model)
		fmt.Printf("BaseURL: %s\n", cfg.BaseURL)
		fmt.Printf("Language: %s\n", cfg.Language)
		fmt.Printf("PromptFile: %s\n", cfg.PromptFile)
		fmt.Printf("CredentialFile: %s\n", cfg.CredentialFile)
		fmt.Printf("APIKey: %s\n", apiKey)
		fmt.Printf("ListenAddr: %s\n", cfg.ListenAddr)
		fmt.Printf("RenderStyle: %s\n", cfg.RenderStyle)
		fmt.Printf("AllowedOrigins: %s\n", strings.Join(cfg.AllowedOrigins, ","))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
