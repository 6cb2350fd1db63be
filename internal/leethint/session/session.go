// Package session orchestrates one chat conversation about one problem.
//
// A Session owns an append-only log of ChatEntry values. Submit records the
// user's entry immediately and hands the rest of the turn (compose, send,
// normalize) to a background task; the task appends exactly one reply entry
// and returns the session to Idle.
package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/longkey1/leethint/internal/leethint"
	"github.com/longkey1/leethint/internal/leethint/normalize"
	"github.com/longkey1/leethint/internal/openrouter"
	"go.uber.org/zap"
)

// ErrorText is shown in place of a reply whenever one could not be produced.
const ErrorText = "Error generating response. Please try again."

var (
	ErrEmptyInput        = errors.New("message is empty")
	ErrBusy              = errors.New("a response is already being generated")
	ErrMissingCredential = errors.New("OpenRouter API key is not configured")
)

// State is the position of a Session in its turn cycle.
type State int

const (
	Idle State = iota
	Composing
	AwaitingResponse
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Composing:
		return "composing"
	case AwaitingResponse:
		return "awaiting_response"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Sender performs the provider call.
type Sender interface {
	Send(ctx context.Context, model string, messages []leethint.Message, credential string) ([]byte, error)
}

// Credentials supplies the API key.
type Credentials interface {
	Load() (string, bool)
}

// Composer builds the outbound message list.
type Composer interface {
	Compose(ctx context.Context, pc leethint.Context, history []leethint.ChatEntry, newUserText string) []leethint.Message
}

// Session is one conversation. It is safe for concurrent use.
type Session struct {
	ID        string
	Model     string
	Context   leethint.Context
	CreatedAt time.Time

	composer Composer
	sender   Sender
	creds    Credentials
	logger   *zap.Logger
	observer func(leethint.ChatEntry)

	mu      sync.Mutex
	state   State
	entries []leethint.ChatEntry
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger that receives failure details.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithObserver registers fn to be called once for every appended entry, in
// log order. fn runs outside the session lock and may call back into the
// session.
func WithObserver(fn func(leethint.ChatEntry)) Option {
	return func(s *Session) {
		s.observer = fn
	}
}

// New creates an idle session with an empty log.
func New(model string, pc leethint.Context, composer Composer, sender Sender, creds Credentials, opts ...Option) *Session {
	s := &Session{
		ID:        uuid.New().String(),
		Model:     model,
		Context:   pc,
		CreatedAt: time.Now(),
		composer:  composer,
		sender:    sender,
		creds:     creds,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(zap.String("session", s.ShortID()))
	return s
}

// ShortID returns the shortened session ID (first 8 characters).
func (s *Session) ShortID() string {
	if len(s.ID) >= 8 {
		return s.ID[:8]
	}
	return s.ID
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Entries returns a copy of the log.
func (s *Session) Entries() []leethint.ChatEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]leethint.ChatEntry(nil), s.entries...)
}

// Len returns the number of entries in the log.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Submit starts a turn. The user entry is in the log when Submit returns;
// the reply entry is delivered on the returned channel, which is then closed.
//
// The turn runs to completion even if ctx is cancelled; only ctx's values
// are passed on. Submit fails with ErrEmptyInput for blank text and with
// ErrBusy while a previous turn is still running.
func (s *Session) Submit(ctx context.Context, text string) (<-chan leethint.ChatEntry, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyInput
	}

	s.mu.Lock()
	if s.state != Idle {
		s.mu.Unlock()
		return nil, ErrBusy
	}
	history := append([]leethint.ChatEntry(nil), s.entries...)
	entry := leethint.UserEntry(text)
	s.entries = append(s.entries, entry)
	s.state = Composing
	s.mu.Unlock()

	s.notify(entry)

	done := make(chan leethint.ChatEntry, 1)
	go s.respond(context.WithoutCancel(ctx), history, text, done)
	return done, nil
}

// Ask submits text and waits for the reply. If ctx ends first, Ask returns
// ctx's error and the reply is still appended when it arrives.
func (s *Session) Ask(ctx context.Context, text string) (leethint.ChatEntry, error) {
	done, err := s.Submit(ctx, text)
	if err != nil {
		return leethint.ChatEntry{}, err
	}
	select {
	case entry := <-done:
		return entry, nil
	case <-ctx.Done():
		return leethint.ChatEntry{}, ctx.Err()
	}
}

func (s *Session) respond(ctx context.Context, history []leethint.ChatEntry, text string, done chan<- leethint.ChatEntry) {
	entry := s.generate(ctx, history, text)

	s.mu.Lock()
	s.entries = append(s.entries, entry)
	s.mu.Unlock()

	s.notify(entry)

	// Idle only after observers have seen the reply, so a following turn's
	// user entry is never reported ahead of it.
	s.setState(Idle)

	done <- entry
	close(done)
}

func (s *Session) generate(ctx context.Context, history []leethint.ChatEntry, text string) leethint.ChatEntry {
	credential, ok := s.creds.Load()
	if !ok {
		s.logger.Warn("cannot generate response", zap.Error(ErrMissingCredential))
		return leethint.ErrorEntry(ErrorText)
	}

	messages := s.composer.Compose(ctx, s.Context, history, text)

	s.setState(AwaitingResponse)
	start := time.Now()
	body, err := s.sender.Send(ctx, s.Model, messages, credential)
	if err != nil {
		s.logger.Error("chat request failed", zap.Error(err), zap.Duration("elapsed", time.Since(start)))
		return leethint.ErrorEntry(ErrorText)
	}

	completion := openrouter.DecodeCompletion(body)
	switch {
	case completion.HasContent:
		s.logger.Debug("response received",
			zap.Duration("elapsed", time.Since(start)),
			zap.Int("length", len(completion.Content)))
		return leethint.AssistantEntry(normalize.Normalize(completion.Content))
	case completion.Err != nil:
		s.logger.Error("chat request failed", zap.Error(completion.Err))
		return leethint.ErrorEntry(ErrorText)
	default:
		s.logger.Warn("response has no completion content, showing raw body",
			zap.ByteString("body", body))
		return leethint.AssistantEntry(normalize.Normalize(string(body)))
	}
}

func (s *Session) setState(state State) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

func (s *Session) notify(entry leethint.ChatEntry) {
	if s.observer != nil {
		s.observer(entry)
	}
}
