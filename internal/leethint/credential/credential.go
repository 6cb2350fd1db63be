// Package credential validates and persists the OpenRouter API key.
package credential

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"go.uber.org/zap"
)

const (
	// Prefix is the literal every OpenRouter key starts with.
	Prefix = "sk-or-v1-"
	// StorageKey is the key the credential is stored under.
	StorageKey = "apiKey"
)

// ErrInvalidFormat matches every *InvalidFormatError.
var ErrInvalidFormat = errors.New("invalid API key format")

// InvalidFormatError is returned when a candidate key is rejected before
// anything is persisted. Reason is suitable for showing to the user.
type InvalidFormatError struct {
	Reason string
}

func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("%v: %s", ErrInvalidFormat, e.Reason)
}

func (e *InvalidFormatError) Is(target error) bool {
	return target == ErrInvalidFormat
}

// Validate checks the format of a candidate key.
func Validate(candidate string) error {
	switch {
	case candidate == "":
		return &InvalidFormatError{Reason: "API key cannot be empty"}
	case !strings.HasPrefix(candidate, Prefix):
		return &InvalidFormatError{Reason: "OpenRouter keys must start with " + Prefix}
	case strings.IndexFunc(candidate, unicode.IsSpace) >= 0:
		return &InvalidFormatError{Reason: "API key cannot contain spaces"}
	}
	return nil
}

// KV is a durable key-value backend.
// Get reports ok=false when the key is absent.
type KV interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Delete(key string) error
}

// Store holds the single API key.
type Store struct {
	kv     KV
	logger *zap.Logger
}

// NewStore creates a Store on top of kv.
func NewStore(kv KV, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{kv: kv, logger: logger}
}

// Save validates candidate and, when it is well formed, replaces the stored key.
// A rejected candidate leaves the stored key untouched.
func (s *Store) Save(candidate string) error {
	if err := Validate(candidate); err != nil {
		return err
	}
	if err := s.kv.Set(StorageKey, candidate); err != nil {
		return fmt.Errorf("saving API key: %w", err)
	}
	s.logger.Debug("API key saved", zap.String("key", Mask(candidate)))
	return nil
}

// Load returns the stored key verbatim. Backend failures are logged and
// reported as an absent key.
func (s *Store) Load() (string, bool) {
	value, ok, err := s.kv.Get(StorageKey)
	if err != nil {
		s.logger.Warn("failed to read API key", zap.Error(err))
		return "", false
	}
	if !ok || value == "" {
		return "", false
	}
	return value, true
}

// Clear removes the stored key.
func (s *Store) Clear() error {
	if err := s.kv.Delete(StorageKey); err != nil {
		return fmt.Errorf("clearing API key: %w", err)
	}
	return nil
}

// Mask returns a version of key that is safe to display.
func Mask(key string) string {
	if len(key) <= 12 {
		return "********"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
