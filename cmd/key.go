package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/longkey1/leethint/internal/leethint/config"
	"github.com/longkey1/leethint/internal/leethint/credential"
	"github.com/spf13/cobra"
)

// keyCmd represents the key command
var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Manage the OpenRouter API key",
	Long: `Manage the OpenRouter API key used for chat requests.
The key is stored in the credential file (default: $HOME/.config/leethint/credentials.toml).`,
}

var keySetCmd = &cobra.Command{
	Use:   "set [key]",
	Short: "Store the OpenRouter API key",
	Long: `Store the OpenRouter API key, replacing any previous one.
If no key is given as an argument, it is read from stdin.
Keys must start with sk-or-v1- and contain no spaces.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		var candidate string
		if len(args) > 0 {
			candidate = args[0]
		} else {
			input, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("reading from stdin: %w", err)
			}
			candidate = strings.TrimRight(string(input), "\r\n")
		}

		if err := newStore(cfg).Save(candidate); err != nil {
			var formatErr *credential.InvalidFormatError
			if errors.As(err, &formatErr) {
				return errors.New(formatErr.Reason)
			}
			return err
		}

		fmt.Fprintf(os.Stderr, "API key saved to %s\n", cfg.CredentialFile)
		return nil
	},
}

var keyShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the stored API key (masked)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		key, ok := newStore(cfg).Load()
		if !ok {
			fmt.Println("(not configured)")
			return nil
		}
		fmt.Println(credential.Mask(key))
		return nil
	},
}

var keyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the stored API key",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		if err := newStore(cfg).Clear(); err != nil {
			return fmt.Errorf("clearing API key: %w", err)
		}
		fmt.Fprintln(os.Stderr, "API key removed")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(keyCmd)
	keyCmd.AddCommand(keySetCmd)
	keyCmd.AddCommand(keyShowCmd)
	keyCmd.AddCommand(keyClearCmd)
}
