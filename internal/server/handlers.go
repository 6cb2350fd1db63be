package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/longkey1/leethint/internal/leethint"
	"github.com/longkey1/leethint/internal/leethint/credential"
	"github.com/longkey1/leethint/internal/leethint/prompt"
	"github.com/longkey1/leethint/internal/leethint/session"
	"github.com/longkey1/leethint/internal/page"
	"github.com/longkey1/leethint/internal/version"
	"go.uber.org/zap"
)

type sessionView struct {
	ID        string               `json:"id"`
	Model     string               `json:"model"`
	State     session.State        `json:"state"`
	Context   leethint.Context     `json:"context"`
	CreatedAt time.Time            `json:"createdAt"`
	Entries   []leethint.ChatEntry `json:"entries"`
}

func viewOf(sess *session.Session) sessionView {
	entries := sess.Entries()
	if entries == nil {
		entries = []leethint.ChatEntry{}
	}
	return sessionView{
		ID:        sess.ID,
		Model:     sess.Model,
		State:     sess.State(),
		Context:   sess.Context,
		CreatedAt: sess.CreatedAt,
		Entries:   entries,
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": version.Short(),
	})
}

func (s *Server) handleGetCredential(w http.ResponseWriter, r *http.Request) {
	key, ok := s.store.Load()
	payload := struct {
		Configured bool   `json:"configured"`
		Masked     string `json:"masked"`
	}{Configured: ok}
	if ok {
		payload.Masked = credential.Mask(key)
	}
	respondJSON(w, http.StatusOK, payload)
}

func (s *Server) handlePutCredential(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		APIKey string `json:"apiKey"`
	}
	if !decodeJSON(w, r, &payload) {
		return
	}

	if err := s.store.Save(payload.APIKey); err != nil {
		var formatErr *credential.InvalidFormatError
		if errors.As(err, &formatErr) {
			respondError(w, http.StatusBadRequest, formatErr.Reason)
			return
		}
		s.logger.Error("failed to save credential", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to save API key")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteCredential(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Clear(); err != nil {
		s.logger.Error("failed to clear credential", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to clear API key")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		ProblemStatement string `json:"problemStatement"`
		Language         string `json:"language"`
		Code             string `json:"code"`
	}
	if !decodeJSON(w, r, &payload) {
		return
	}

	language := payload.Language
	if language == "" {
		language = s.cfg.Language
	}
	pc := leethint.Context{
		ProblemStatement:    page.ProblemStatement(payload.ProblemStatement),
		ProgrammingLanguage: language,
	}

	code := &page.LatestCode{}
	code.Set(payload.Code)

	sess := session.New(s.cfg.Model, pc,
		prompt.NewComposer(s.cfg.Prompt, code, s.logger),
		s.sender, s.store,
		session.WithLogger(s.logger))
	s.sessions.add(&hosted{session: sess, code: code})

	s.logger.Info("session created", zap.String("session", sess.ShortID()))
	respondJSON(w, http.StatusCreated, viewOf(sess))
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	h, err := s.sessions.get(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, viewOf(h.session))
}

func (s *Server) handlePostMessage(w http.ResponseWriter, r *http.Request) {
	h, err := s.sessions.get(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	var payload struct {
		Text string  `json:"text"`
		Code *string `json:"code"`
	}
	if !decodeJSON(w, r, &payload) {
		return
	}

	// An absent code field keeps the previous snapshot.
	if payload.Code != nil {
		h.code.Set(*payload.Code)
	}

	// The reply is picked up by polling the session; the channel is buffered.
	if _, err := h.session.Submit(r.Context(), payload.Text); err != nil {
		switch {
		case errors.Is(err, session.ErrEmptyInput):
			respondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, session.ErrBusy):
			respondError(w, http.StatusConflict, err.Error())
		default:
			respondError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	respondJSON(w, http.StatusAccepted, viewOf(h.session))
}

// maxBodyBytes caps request bodies. Pages with long editor contents stay
// well below it.
const maxBodyBytes = 1 << 20

// decodeJSON decodes the request body into v, replying with an error and
// returning false when that fails.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		respondError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
