package cmd

import (
	"fmt"

	"github.com/longkey1/leethint/internal/leethint/config"
	"github.com/longkey1/leethint/internal/leethint/credential"
	"github.com/longkey1/leethint/internal/server"
	"github.com/spf13/cobra"
)

var (
	listenAddr string
	ephemeral  bool
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the chat API for the page overlay",
	Long: `Start a local HTTP server that the LeetCode page overlay talks to.

Each overlay opens a session with the problem statement, then posts questions
together with the current editor contents and polls the session for the reply.
Sessions are kept in memory only.

Only pages from allowed_origins (default: the LeetCode sites) may call the API
from a browser.

With --ephemeral the API key is kept in memory and never written to disk.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if cmd.Flags().Changed("listen") {
			cfg.ListenAddr = listenAddr
		}
		if err := resolveModel(cfg, model); err != nil {
			return err
		}

		p, err := cfg.LoadPrompt()
		if err != nil {
			return fmt.Errorf("loading prompt: %w", err)
		}

		store := newStore(cfg)
		if ephemeral {
			store = credential.NewStore(credential.NewMemoryKV(), logger)
		}

		srv := server.New(server.Config{
			Model:          cfg.Model,
			Language:       cfg.Language,
			Prompt:         p,
			AllowedOrigins: cfg.AllowedOrigins,
		}, store, newClient(cfg), logger)

		fmt.Fprintf(cmd.ErrOrStderr(), "Listening on http://%s\n", cfg.ListenAddr)
		return srv.ListenAndServe(cmd.Context(), cfg.ListenAddr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&listenAddr, "listen", "", "Address to listen on (default from config, 127.0.0.1:8787)")
	serveCmd.Flags().BoolVar(&ephemeral, "ephemeral", false, "Keep the API key in memory only")
	serveCmd.Flags().StringVarP(&model, "model", "m", "", "OpenRouter model id (e.g., deepseek/deepseek-chat-v3-0324:free)")
}
