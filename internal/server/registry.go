package server

import (
	"errors"
	"sync"

	"github.com/longkey1/leethint/internal/leethint/session"
	"github.com/longkey1/leethint/internal/page"
)

var ErrNotFound = errors.New("session not found")

// hosted pairs a session with the code holder its client updates.
type hosted struct {
	session *session.Session
	code    *page.LatestCode
}

type registry struct {
	mu       sync.RWMutex
	sessions map[string]*hosted
}

func newRegistry() *registry {
	return &registry{sessions: make(map[string]*hosted)}
}

func (r *registry) add(h *hosted) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[h.session.ID] = h
}

func (r *registry) get(id string) (*hosted, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return h, nil
}
