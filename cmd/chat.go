/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/longkey1/leethint/internal/leethint"
	"github.com/longkey1/leethint/internal/leethint/config"
	"github.com/longkey1/leethint/internal/leethint/prompt"
	"github.com/longkey1/leethint/internal/leethint/session"
	"github.com/longkey1/leethint/internal/page"
	"github.com/longkey1/leethint/internal/render"
	"github.com/spf13/cobra"
)

var (
	model       string
	problemFile string
	codeFile    string
	language    string
	renderWidth int
)

// chatCmd represents the chat command
var chatCmd = &cobra.Command{
	Use:   "chat [message]",
	Short: "Ask the tutor about a problem",
	Long: `Start a tutoring conversation about a LeetCode problem.

The problem statement is read from --problem, which may be plain text or a saved
problem page. Your code is read from --code before every question, so edits you
save between questions are picked up. A saved editor page (.html) is accepted too.

If a message is given as an argument, it is sent once and the reply is printed.
Otherwise an interactive session starts. Type '/help' inside it for commands.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if err := resolveModel(cfg, model); err != nil {
			return err
		}

		pc, code, err := loadProblemContext(cfg)
		if err != nil {
			return err
		}

		composer, err := newComposer(cfg, code)
		if err != nil {
			return err
		}

		store := newStore(cfg)
		if _, ok := store.Load(); !ok {
			fmt.Fprintln(os.Stderr, "No OpenRouter API key configured. Run 'leethint key set' first.")
		}

		renderer, err := render.New(cfg.RenderStyle, renderWidth)
		if err != nil {
			return fmt.Errorf("creating renderer: %w", err)
		}

		sess := session.New(cfg.Model, pc, composer, newClient(cfg), store, session.WithLogger(logger))

		if len(args) > 0 {
			entry, err := sess.Ask(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return fmt.Errorf("chat request failed: %w", err)
			}
			fmt.Println(renderer.Body(entry))
			if entry == leethint.ErrorEntry(session.ErrorText) {
				return errors.New("no response was generated")
			}
			return nil
		}

		return runInteractiveMode(cmd.Context(), sess, renderer)
	},
}

// loadProblemContext reads the problem statement and sets up the code source
func loadProblemContext(cfg *config.Config) (leethint.Context, prompt.CodeSource, error) {
	pc := leethint.Context{ProgrammingLanguage: cfg.Language}
	if language != "" {
		pc.ProgrammingLanguage = language
	}

	if problemFile != "" {
		statement, err := page.LoadProblem(problemFile)
		if err != nil {
			return pc, nil, err
		}
		pc.ProblemStatement = statement
	}

	var code prompt.CodeSource
	if codeFile != "" {
		if _, err := os.Stat(codeFile); err != nil {
			return pc, nil, fmt.Errorf("code file: %w", err)
		}
		code = page.FileCodeSource{Path: codeFile}
	}

	return pc, code, nil
}

// runInteractiveMode starts an interactive chat session
func runInteractiveMode(ctx context.Context, sess *session.Session, renderer *render.Renderer) error {
	fmt.Fprintf(os.Stderr, "\n=== LeetHint [%s] ===\n", sess.ShortID())
	fmt.Fprintf(os.Stderr, "Model: %s\n", sess.Model)
	fmt.Fprintf(os.Stderr, "Language: %s\n", sess.Context.ProgrammingLanguage)
	fmt.Fprintf(os.Stderr, "Type '/help' for commands, '/exit' or 'Ctrl+D' to quit\n")
	fmt.Fprintf(os.Stderr, "=====================\n\n")

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "You> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		Stdout:          os.Stderr,
	})
	if err != nil {
		return fmt.Errorf("initializing input: %w", err)
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if line == "" {
				fmt.Fprintln(os.Stderr, "Goodbye!")
				return nil
			}
			continue
		}
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(os.Stderr, "\nGoodbye!")
			return nil
		}
		if err != nil {
			return fmt.Errorf("input error: %w", err)
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			if handleSpecialCommand(input, sess, renderer) {
				continue
			}
			return nil
		}

		done, err := sess.Submit(ctx, input)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			continue
		}

		stop := make(chan struct{})
		stopped := make(chan struct{})
		go func() {
			showSpinner(sess, stop)
			close(stopped)
		}()

		entry, err := awaitReply(ctx, done)
		close(stop)
		<-stopped
		if err != nil {
			fmt.Fprintln(os.Stderr, "Interrupted.")
			return nil
		}

		fmt.Printf("\nAssistant> %s\n\n", renderer.Body(entry))
	}
}

// awaitReply waits for the turn's reply or for ctx to end, whichever is first.
// An abandoned turn still completes and is appended to the session.
func awaitReply(ctx context.Context, done <-chan leethint.ChatEntry) (leethint.ChatEntry, error) {
	select {
	case entry := <-done:
		return entry, nil
	case <-ctx.Done():
		return leethint.ChatEntry{}, ctx.Err()
	}
}

// showSpinner displays a spinner animation while the turn is in progress
func showSpinner(sess *session.Session, stop <-chan struct{}) {
	spinners := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	ticker := time.NewTicker(80 * time.Millisecond)
	defer ticker.Stop()

	i := 0
	for {
		label := "Reading your code..."
		if sess.State() == session.AwaitingResponse {
			label = "Waiting for response..."
		}
		fmt.Fprintf(os.Stderr, "\r\033[K%s %s", spinners[i], label)
		i = (i + 1) % len(spinners)

		select {
		case <-stop:
			// Clear the spinner line
			fmt.Fprint(os.Stderr, "\r\033[K")
			return
		case <-ticker.C:
		}
	}
}

// handleSpecialCommand processes special commands in interactive mode
// Returns true to continue the loop, false to exit
func handleSpecialCommand(command string, sess *session.Session, renderer *render.Renderer) bool {
	command = strings.ToLower(strings.TrimSpace(command))

	switch command {
	case "/help", "/h":
		fmt.Fprintln(os.Stderr, "\nAvailable commands:")
		fmt.Fprintln(os.Stderr, "  /help, /h     - Show this help message")
		fmt.Fprintln(os.Stderr, "  /info, /i     - Show session information")
		fmt.Fprintln(os.Stderr, "  /history      - Show the conversation so far")
		fmt.Fprintln(os.Stderr, "  /clear, /c    - Clear screen (Unix/Linux only)")
		fmt.Fprintln(os.Stderr, "  /exit, /quit  - Exit interactive mode")
		fmt.Fprintln(os.Stderr, "  Ctrl+D        - Exit interactive mode")
		fmt.Fprintln(os.Stderr, "")
		return true

	case "/info", "/i":
		fmt.Fprintln(os.Stderr, "\nSession Information:")
		fmt.Fprintf(os.Stderr, "  ID: %s\n", sess.ShortID())
		fmt.Fprintf(os.Stderr, "  Full ID: %s\n", sess.ID)
		fmt.Fprintf(os.Stderr, "  Model: %s\n", sess.Model)
		fmt.Fprintf(os.Stderr, "  Language: %s\n", sess.Context.ProgrammingLanguage)
		fmt.Fprintf(os.Stderr, "  Messages: %d\n", sess.Len())
		fmt.Fprintf(os.Stderr, "  Created: %s\n", sess.CreatedAt.Format("2006-01-02 15:04:05"))
		if problem := firstLine(sess.Context.ProblemStatement); problem != "" {
			fmt.Fprintf(os.Stderr, "  Problem: %s\n", problem)
		}
		fmt.Fprintln(os.Stderr, "")
		return true

	case "/history":
		entries := sess.Entries()
		if len(entries) == 0 {
			fmt.Fprintln(os.Stderr, "No messages yet.")
			return true
		}
		for _, e := range entries {
			fmt.Printf("\n%s\n", renderer.Entry(e))
		}
		fmt.Println()
		return true

	case "/clear", "/c":
		// Clear screen (Unix/Linux)
		fmt.Print("\033[H\033[2J")
		return true

	case "/exit", "/quit", "/q":
		fmt.Fprintln(os.Stderr, "Goodbye!")
		return false

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s (type '/help' for available commands)\n", command)
		return true
	}
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if r := []rune(s); len(r) > 80 {
		s = string(r[:77]) + "..."
	}
	return s
}

// addProblemFlags registers the flags describing the problem being worked on
func addProblemFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&problemFile, "problem", "p", "", "File with the problem statement (plain text or saved problem page)")
	cmd.Flags().StringVarP(&codeFile, "code", "c", "", "File with your current code (re-read before every question)")
	cmd.Flags().StringVarP(&language, "language", "l", "", "Programming language (default from config)")
}

func init() {
	rootCmd.AddCommand(chatCmd)

	addProblemFlags(chatCmd)
	chatCmd.Flags().StringVarP(&model, "model", "m", "", "OpenRouter model id (e.g., deepseek/deepseek-chat-v3-0324:free)")
	chatCmd.Flags().IntVar(&renderWidth, "width", 100, "Word wrap width for rendered replies")
}
