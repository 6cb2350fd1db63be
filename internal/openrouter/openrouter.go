// Package openrouter implements the single HTTP call the assistant makes:
// a chat completion request against the OpenRouter aggregator.
package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/longkey1/leethint/internal/leethint"
	"go.uber.org/zap"
)

const (
	DefaultBaseURL = "https://openrouter.ai/api/v1"

	genericErrorMessage = "OpenRouter API error"
)

// ChatRequest represents the request body for the chat completions endpoint
type ChatRequest struct {
	Model    string             `json:"model"`
	Messages []leethint.Message `json:"messages"`
}

// ErrorKind distinguishes why a request failed
type ErrorKind int

const (
	// KindStatus means the server answered with a non-success status.
	KindStatus ErrorKind = iota
	// KindTransport means no response was received.
	KindTransport
)

// RequestError is returned by Send when no successful response body is available
type RequestError struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
	Err        error
}

func (e *RequestError) Error() string {
	if e.Kind == KindTransport {
		return fmt.Sprintf("error sending request: %v", e.Err)
	}
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Message)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// Client sends chat completion requests to OpenRouter
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the logger used for request diagnostics
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a new OpenRouter client. An empty baseURL selects DefaultBaseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the chat completions URL
func (c *Client) Endpoint() string {
	return c.baseURL + "/chat/completions"
}

// Send posts messages to the chat completions endpoint and returns the raw response body.
// Exactly one request is made; there is no retry.
func (c *Client) Send(ctx context.Context, model string, messages []leethint.Message, credential string) ([]byte, error) {
	jsonData, err := json.Marshal(ChatRequest{Model: model, Messages: messages})
	if err != nil {
		return nil, fmt.Errorf("error marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint(), bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+credential)

	start := time.Now()
	c.logger.Debug("sending chat request",
		zap.String("model", model),
		zap.Int("messages", len(messages)))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &RequestError{Kind: KindTransport, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RequestError{Kind: KindTransport, Err: fmt.Errorf("error reading response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		reqErr := &RequestError{
			Kind:       KindStatus,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(body),
		}
		c.logger.Warn("chat request rejected",
			zap.Int("status", resp.StatusCode),
			zap.String("message", reqErr.Message),
			zap.ByteString("body", body))
		return nil, reqErr
	}

	c.logger.Debug("chat request completed",
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("bytes", len(body)))
	return body, nil
}

// errorMessage extracts error.message from an error body, falling back to a generic message
func errorMessage(body []byte) string {
	var envelope struct {
		Error *APIError `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || envelope.Error == nil || envelope.Error.Message == "" {
		return genericErrorMessage
	}
	return envelope.Error.Message
}
