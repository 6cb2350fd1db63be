/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/longkey1/leethint/internal/leethint/config"
	"github.com/spf13/cobra"
)

// promptCmd represents the prompt command
var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Show the system prompt sent with each question",
	Long: `Print the system prompt that would be sent to the model for the given
problem, language and code, with every placeholder filled in.

The template comes from prompt_file in the configuration, or the built-in tutor
prompt. A prompt file is TOML with a single key:
system = "... {{problem_statement}} ... {{programming_language}} ... {{user_code}} ..."`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		pc, code, err := loadProblemContext(cfg)
		if err != nil {
			return err
		}

		composer, err := newComposer(cfg, code)
		if err != nil {
			return err
		}

		var current string
		if code != nil {
			current, err = code.CurrentCode(cmd.Context())
			if err != nil {
				return err
			}
		}

		if verbose && cfg.PromptFile != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "Prompt file: %s\n", cfg.PromptFile)
		}
		fmt.Fprintln(cmd.OutOrStdout(), composer.SystemPrompt(pc, current))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(promptCmd)
	addProblemFlags(promptCmd)
}
