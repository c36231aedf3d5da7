// Package server exposes the assistant over HTTP: a chat endpoint, session
// history retrieval and a health probe.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dugoutai/dugout"
	"github.com/dugoutai/dugout/core"
	"github.com/dugoutai/dugout/logging"
)

// Chat is the subset of the assistant façade the server needs.
type Chat interface {
	Ask(ctx context.Context, sessionID, text string) (*dugout.Result, error)
	History(sessionID string) ([]core.Message, error)
}

// Options configure a Server.
type Options struct {
	// RequestTimeout bounds a single chat request including model retries.
	// The document path can legitimately wait through two backoff sleeps,
	// so the default is generous.
	RequestTimeout time.Duration
	Logger         logging.Logger
}

// Server is the HTTP front end.
type Server struct {
	chat    Chat
	router  chi.Router
	timeout time.Duration
	logger  logging.Logger
}

// New constructs a Server over the given chat façade.
func New(chat Chat, optFns ...func(o *Options)) *Server {
	opts := Options{RequestTimeout: 60 * time.Second}
	for _, fn := range optFns {
		fn(&opts)
	}

	s := &Server{
		chat:    chat,
		timeout: opts.RequestTimeout,
		logger:  logging.OrNoOp(opts.Logger),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/chat", s.handleChat)
		r.Get("/sessions/{sessionID}/history", s.handleHistory)
	})
	s.router = r

	return s
}

// Handler returns the http.Handler for mounting or serving.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe runs the server until the listener fails.
func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("http server listening", "addr", addr)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}

type chatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	if req.Message == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "message is required"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	res, err := s.chat.Ask(ctx, req.SessionID, req.Message)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			writeJSON(w, http.StatusGatewayTimeout, errorResponse{Error: "request timed out"})
			return
		}
		s.logger.Error("chat request failed", "error", err)
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "upstream failure"})
		return
	}

	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	history, err := s.chat.History(sessionID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to load history"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"session_id": sessionID,
		"messages":   history,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
