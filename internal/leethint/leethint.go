// Package leethint provides the core types shared by the assistant's components.
// The credential store, prompt composer, request client and chat session all
// exchange values of the types defined here.
package leethint

import (
	"fmt"
	"strings"
	"unicode"
)

// DefaultModel is the OpenRouter model every chat request is routed to
// unless the configuration overrides it.
const DefaultModel = "deepseek/deepseek-chat-v3-0324:free"

// Context is the per-session snapshot of the problem being worked on.
// It is captured once when a session starts and never changes afterwards.
type Context struct {
	ProblemStatement    string `json:"problemStatement"`
	ProgrammingLanguage string `json:"programmingLanguage"`
}

// ParseModelID splits an OpenRouter model id in "vendor/model[:variant]" format.
// Returns (vendor, model, error).
//
// Example:
//
//	vendor, model, err := ParseModelID("deepseek/deepseek-chat-v3-0324:free")
//	// vendor = "deepseek", model = "deepseek-chat-v3-0324:free"
func ParseModelID(id string) (string, string, error) {
	if strings.IndexFunc(id, unicode.IsSpace) >= 0 {
		return "", "", fmt.Errorf("invalid model id: %q (must not contain whitespace)", id)
	}

	parts := strings.SplitN(id, "/", 2)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("invalid model id: %s (expected format: vendor/model, e.g., %s)", id, DefaultModel)
	}

	if parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("vendor and model cannot be empty")
	}

	return parts[0], parts[1], nil
}
