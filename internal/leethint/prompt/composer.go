// Package prompt builds the message list sent to the provider: a system
// message grounded in the problem being solved, the conversation so far, and
// the new question.
package prompt

import (
	"context"
	"strings"

	"github.com/longkey1/leethint/internal/leethint"
	"go.uber.org/zap"
)

// CodeSource supplies a snapshot of the user's current code.
type CodeSource interface {
	CurrentCode(ctx context.Context) (string, error)
}

// Composer renders the system template and assembles outbound messages.
type Composer struct {
	prompt *Prompt
	code   CodeSource
	logger *zap.Logger
}

// NewComposer creates a Composer. A nil prompt selects the built-in template;
// a nil code source always yields empty code.
func NewComposer(p *Prompt, code CodeSource, logger *zap.Logger) *Composer {
	if p == nil {
		p = Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Composer{prompt: p, code: code, logger: logger}
}

// SystemPrompt substitutes the problem context and code into the template.
// Substitution happens in a single pass, so placeholder text inside the
// substituted values is left alone.
func (c *Composer) SystemPrompt(pc leethint.Context, code string) string {
	r := strings.NewReplacer(
		ProblemStatementPlaceholder, pc.ProblemStatement,
		ProgrammingLanguagePlaceholder, pc.ProgrammingLanguage,
		UserCodePlaceholder, code,
	)
	return r.Replace(c.prompt.System)
}

// Compose returns [system, history..., user]. The code snapshot is read at
// call time; a failing source is logged and treated as empty code.
// History is not truncated.
func (c *Composer) Compose(ctx context.Context, pc leethint.Context, history []leethint.ChatEntry, newUserText string) []leethint.Message {
	messages := make([]leethint.Message, 0, len(history)+2)
	messages = append(messages, leethint.Message{
		Role:    leethint.RoleSystem,
		Content: c.SystemPrompt(pc, c.currentCode(ctx)),
	})
	for _, entry := range history {
		messages = append(messages, entry.Message())
	}
	messages = append(messages, leethint.Message{
		Role:    leethint.RoleUser,
		Content: newUserText,
	})
	return messages
}

func (c *Composer) currentCode(ctx context.Context) string {
	if c.code == nil {
		return ""
	}
	code, err := c.code.CurrentCode(ctx)
	if err != nil {
		c.logger.Warn("failed to read current code", zap.Error(err))
		return ""
	}
	return code
}
