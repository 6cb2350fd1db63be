// Package server exposes chat sessions over a local HTTP API so that a page
// overlay can drive them. Sessions live in memory and are lost on restart.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/longkey1/leethint/internal/leethint/credential"
	"github.com/longkey1/leethint/internal/leethint/prompt"
	"github.com/longkey1/leethint/internal/leethint/session"
	"go.uber.org/zap"
)

// Config holds the settings applied to every session the server creates.
type Config struct {
	Model    string
	Language string
	Prompt   *prompt.Prompt

	// AllowedOrigins are the page origins whose overlays may call the API.
	AllowedOrigins []string
}

// Server routes API requests to hosted sessions.
type Server struct {
	cfg      Config
	store    *credential.Store
	sender   session.Sender
	logger   *zap.Logger
	sessions *registry
	router   chi.Router
}

// New creates a Server. sender performs the provider call for every session.
func New(cfg Config, store *credential.Store, sender session.Sender, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Prompt == nil {
		cfg.Prompt = prompt.Default()
	}
	s := &Server{
		cfg:      cfg,
		store:    store,
		sender:   sender,
		logger:   logger,
		sessions: newRegistry(),
	}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler serving the API.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(CORS(s.cfg.AllowedOrigins))

	r.Route("/api", func(api chi.Router) {
		api.Get("/health", s.handleHealth)

		api.Get("/credential", s.handleGetCredential)
		api.Put("/credential", s.handlePutCredential)
		api.Delete("/credential", s.handleDeleteCredential)

		api.Post("/sessions", s.handleCreateSession)
		api.Get("/sessions/{id}", s.handleGetSession)
		api.Post("/sessions/{id}/messages", s.handlePostMessage)
	})

	return r
}

// ListenAndServe serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	s.logger.Info("listening", zap.String("addr", addr))

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
