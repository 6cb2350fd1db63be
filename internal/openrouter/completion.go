package openrouter

import (
	"encoding/json"
	"fmt"
)

// APIError is the error object OpenRouter embeds in response bodies.
// It can appear with a non-success status or, for some upstream failures,
// inside a 200 response.
type APIError struct {
	Code    json.RawMessage `json:"code,omitempty"`
	Message string          `json:"message"`
}

// ChatResponse is the expected shape of a successful response body
type ChatResponse struct {
	ID      string       `json:"id,omitempty"`
	Model   string       `json:"model,omitempty"`
	Choices []ChatChoice `json:"choices"`
	Error   *APIError    `json:"error,omitempty"`
}

// ChatChoice represents one completion choice
type ChatChoice struct {
	Message ChatChoiceMessage `json:"message"`
}

// ChatChoiceMessage carries the assistant content. Content is kept raw because
// models routed through the aggregator do not all return a JSON string here.
type ChatChoiceMessage struct {
	Role    string          `json:"role"`
	Content json.RawMessage `json:"content"`
}

// Completion is the outcome of decoding a response body
type Completion struct {
	// Content is the first choice's message content, when present.
	Content string
	// HasContent is false when the body is not the expected envelope or the
	// first choice carries no content.
	HasContent bool
	// Err is the in-band error object, if the body carried one.
	Err *APIError
}

// DecodeCompletion extracts choices[0].message.content from a response body.
// Content that is not a JSON string is returned as its raw JSON text so the
// caller can normalize it.
func DecodeCompletion(body []byte) Completion {
	var resp ChatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return Completion{}
	}

	c := Completion{Err: resp.Error}
	if len(resp.Choices) == 0 {
		return c
	}

	raw := resp.Choices[0].Message.Content
	if len(raw) == 0 || string(raw) == "null" {
		return c
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		c.Content = s
		c.HasContent = s != ""
		return c
	}

	c.Content = string(raw)
	c.HasContent = true
	return c
}

// Error implements error for in-band API errors
func (e *APIError) Error() string {
	if len(e.Code) > 0 {
		return fmt.Sprintf("OpenRouter error %s: %s", string(e.Code), e.Message)
	}
	return "OpenRouter error: " + e.Message
}
