package prompt

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Placeholders substituted into the system template.
const (
	ProblemStatementPlaceholder    = "{{problem_statement}}"
	ProgrammingLanguagePlaceholder = "{{programming_language}}"
	UserCodePlaceholder            = "{{user_code}}"
)

// DefaultSystem is the instruction template used when no prompt file is configured.
const DefaultSystem = `You are LeetHint, a patient programming tutor helping a user who is working on a coding problem.

Your goal is to guide the user toward solving the problem on their own. Give hints, point out bugs,
explain concepts and ask leading questions. Do not hand over a complete solution unless the user
explicitly asks for one after trying.

Problem statement:
{{problem_statement}}

The user is writing the solution in {{programming_language}}. This is their current code:

` + "```" + `
{{user_code}}
` + "```" + `

Keep answers short and focused on the user's question. Use markdown for formatting and put code in
fenced code blocks.`

// Prompt represents the structure of a TOML prompt file
type Prompt struct {
	System string `toml:"system"`
}

// Default returns the built-in prompt
func Default() *Prompt {
	return &Prompt{System: DefaultSystem}
}

// LoadPrompt loads a prompt file and returns its contents
func LoadPrompt(filePath string) (*Prompt, error) {
	var prompt Prompt
	if _, err := toml.DecodeFile(filePath, &prompt); err != nil {
		return nil, fmt.Errorf("error decoding prompt file: %w", err)
	}
	if prompt.System == "" {
		return nil, fmt.Errorf("prompt file %s has no system template", filePath)
	}
	return &prompt, nil
}
