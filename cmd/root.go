/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/longkey1/leethint/internal/leethint/config"
	"github.com/longkey1/leethint/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	cfgFile string
	verbose bool

	// logger is ready once PersistentPreRunE has run.
	logger = zap.NewNop()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "leethint",
	Short: "A coding tutor for LeetCode problems",
	Long: `leethint is a chat assistant that helps you work through LeetCode problems.
It sends your question, the problem statement and your current code to a model
on OpenRouter and renders the tutor's replies in the terminal.

Use 'leethint key set' to store your OpenRouter API key, then 'leethint chat'.
You can configure the tool using a TOML configuration file.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := logging.New(verbose)
		if err != nil {
			return fmt.Errorf("initializing logger: %w", err)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/leethint/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// A .env file in the working directory may carry LEETHINT_* variables
	if err := godotenv.Load(); err == nil && verbose {
		fmt.Fprintln(os.Stderr, "Loaded environment from .env")
	}

	viper.SetEnvPrefix("LEETHINT")
	viper.AutomaticEnv()

	userConfigDir, err := config.UserConfigDir()
	cobra.CheckErr(err)

	config.SetDefaults()

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			fmt.Fprintf(os.Stderr, "Error reading config file: %v\n", err)
		}
	} else {
		// Load system-wide config first (lower priority)
		systemConfigPaths := []string{
			"/etc/leethint",
			"/usr/local/etc/leethint",
		}

		systemConfigLoaded := false
		for _, path := range systemConfigPaths {
			viper.AddConfigPath(path)
		}
		viper.SetConfigType("toml")
		viper.SetConfigName("config")

		if err := viper.ReadInConfig(); err == nil {
			systemConfigLoaded = true
			if verbose {
				fmt.Fprintln(os.Stderr, "Loaded system-wide config:", viper.ConfigFileUsed())
			}
		}

		// Load user config (higher priority) - merge with system config
		viper.AddConfigPath(userConfigDir)
		if systemConfigLoaded {
			if err := viper.MergeInConfig(); err != nil {
				if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
					fmt.Fprintf(os.Stderr, "Error merging user config file: %v\n", err)
				}
			} else if verbose {
				fmt.Fprintln(os.Stderr, "Merged user config:", viper.ConfigFileUsed())
			}
		} else {
			if err := viper.ReadInConfig(); err != nil {
				if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
					fmt.Fprintf(os.Stderr, "Error reading config file: %v\n", err)
				}
			}
		}
	}

	if verbose {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		fmt.Fprintln(os.Stderr, "Environment variables:")
		fmt.Fprintln(os.Stderr, "  LEETHINT_MODEL:", viper.GetString("model"))
		fmt.Fprintln(os.Stderr, "  LEETHINT_BASE_URL:", viper.GetString("base_url"))
		fmt.Fprintln(os.Stderr, "  LEETHINT_LANGUAGE:", viper.GetString("language"))
		fmt.Fprintln(os.Stderr, "  LEETHINT_CREDENTIAL_FILE:", viper.GetString("credential_file"))
	}
}
