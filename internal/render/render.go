// Package render formats chat entries for a terminal.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/longkey1/leethint/internal/leethint"
)

// Renderer turns entries into printable text. Markdown entries go through
// glamour when a style is configured; everything else is printed as-is.
type Renderer struct {
	md *glamour.TermRenderer
}

// New creates a Renderer that styles markdown for a terminal of the given width.
// style is a glamour style name ("auto", "dark", "light", "notty", ...).
func New(style string, width int) (*Renderer, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if style == "" || style == "auto" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}

	md, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	return &Renderer{md: md}, nil
}

// Plain returns a Renderer that prints markdown source unchanged.
func Plain() *Renderer {
	return &Renderer{}
}

// Markdown renders content, falling back to the source text on failure.
func (r *Renderer) Markdown(content string) (result string) {
	defer func() {
		if rec := recover(); rec != nil {
			result = content
		}
	}()

	if r.md != nil && content != "" {
		rendered, err := r.md.Render(content)
		if err == nil {
			return strings.TrimRight(rendered, "\n")
		}
	}
	return content
}

// Body renders the text of an entry according to its render kind.
func (r *Renderer) Body(e leethint.ChatEntry) string {
	if e.RenderKind == leethint.RenderMarkdown {
		return r.Markdown(e.Text)
	}
	return e.Text
}

// Entry renders an entry with a role label.
func (r *Renderer) Entry(e leethint.ChatEntry) string {
	label := "You"
	if e.Role == leethint.RoleAssistant {
		label = "Assistant"
	}
	return fmt.Sprintf("%s> %s", label, r.Body(e))
}
