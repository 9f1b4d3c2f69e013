// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package server exposes the chat controller over a localhost JSON API.
//
// Endpoints:
//   - POST   /api/chat           - one chat turn
//   - GET    /api/models         - provider/model catalog
//   - GET    /api/sessions/{id}  - session transcript
//   - DELETE /api/sessions/{id}  - reset a session
//   - GET    /health             - health check
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/jeranaias/refchat/internal/catalog"
	"github.com/jeranaias/refchat/internal/chat"
	"github.com/jeranaias/refchat/internal/llm"
	"github.com/jeranaias/refchat/internal/model"
)

// ============================================================================
// CONSTANTS
// ============================================================================

const (
	// DefaultPort is the default port for the HTTP server.
	DefaultPort = 8790

	// MaxRequestBodySize caps request bodies to prevent memory abuse (1MB).
	MaxRequestBodySize = 1 * 1024 * 1024

	// MaxTextLength is the maximum length for a single user turn.
	MaxTextLength = 100000

	// Version is the server version.
	Version = "0.1.0"
)

// ============================================================================
// SERVER
// ============================================================================

// Server is the HTTP front end over the chat controller. It adds no chat
// semantics of its own: validation, JSON mapping, and status codes only.
type Server struct {
	port       int
	router     *http.ServeMux
	httpServer *http.Server
	controller *chat.Controller
	logger     *log.Logger

	requests atomic.Int64
	started  time.Time
}

// NewServer creates a server over the given controller. If port is 0, the
// default port is used.
func NewServer(controller *chat.Controller, port int) *Server {
	if port == 0 {
		port = DefaultPort
	}

	s := &Server{
		port:       port,
		router:     http.NewServeMux(),
		controller: controller,
		logger:     log.New(log.Writer(), "[server] ", log.LstdFlags),
	}

	s.setupRoutes()
	return s
}

// Port returns the server port.
func (s *Server) Port() int {
	return s.port
}

// Handler returns the fully wrapped HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return Chain(s.router,
		RecoveryMiddleware(s.logger),
		LoggingMiddleware(s.logger),
	)
}

// Start runs the server until the context is cancelled.
func (s *Server) Start(ctx context.Context) error {
	s.started = time.Now()
	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf("127.0.0.1:%d", s.port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpServer.ListenAndServe()
	}()

	s.logger.Printf("listening on %s", s.httpServer.Addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.HandleFunc("POST /api/chat", s.handleChat)
	s.router.HandleFunc("GET /api/models", s.handleModels)
	s.router.HandleFunc("GET /api/sessions", s.handleListSessions)
	s.router.HandleFunc("GET /api/sessions/{id}", s.handleGetSession)
	s.router.HandleFunc("DELETE /api/sessions/{id}", s.handleResetSession)
	s.router.HandleFunc("GET /health", s.handleHealth)
}

// ============================================================================
// WIRE TYPES
// ============================================================================

// chatRequest is the POST /api/chat request body.
type chatRequest struct {
	SessionID string `json:"session_id"`
	Provider  string `json:"provider"`
	Model     string `json:"model"`
	Text      string `json:"text"`
}

// chatResponse is the POST /api/chat response body.
type chatResponse struct {
	SessionID string `json:"session_id"`
	Reply     string `json:"reply"`
}

// sessionResponse is the GET /api/sessions/{id} response body.
type sessionResponse struct {
	SessionID string          `json:"session_id"`
	Messages  []model.Message `json:"messages"`
}

// sessionSummary is one entry of the GET /api/sessions response body.
type sessionSummary struct {
	SessionID string `json:"session_id"`
	Messages  int    `json:"messages"`
	Preview   string `json:"preview"`
}

// errorResponse is the JSON error envelope.
type errorResponse struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// ============================================================================
// HANDLERS
// ============================================================================

// handleChat performs one chat turn via the controller.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	s.requests.Add(1)

	var req chatRequest
	body := http.MaxBytesReader(w, r.Body, MaxRequestBodySize)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid_request", "malformed JSON body")
		return
	}

	if req.SessionID == "" {
		s.writeError(w, http.StatusBadRequest, "invalid_request", "session_id is required")
		return
	}
	if req.Text == "" {
		s.writeError(w, http.StatusBadRequest, "invalid_request", "text is required")
		return
	}
	if len(req.Text) > MaxTextLength {
		s.writeError(w, http.StatusBadRequest, "invalid_request", "text exceeds maximum length")
		return
	}
	provider := catalog.Provider(req.Provider)
	if !catalog.Known(provider) {
		s.writeError(w, http.StatusBadRequest, "invalid_request",
			fmt.Sprintf("unknown provider %q", req.Provider))
		return
	}
	if req.Model == "" {
		s.writeError(w, http.StatusBadRequest, "invalid_request", "model is required")
		return
	}

	reply, err := s.controller.Send(r.Context(), chat.SendRequest{
		SessionID: req.SessionID,
		Provider:  provider,
		Model:     req.Model,
		Text:      req.Text,
	})
	if err != nil {
		s.writeChatError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, chatResponse{SessionID: req.SessionID, Reply: reply})
}

// handleModels returns the static provider/model catalog.
func (s *Server) handleModels(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"providers": s.controller.Models(),
	})
}

// handleListSessions returns a summary of every live session: message
// count and a short preview of the latest non-system message.
func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	ids := s.controller.SessionIDs()
	summaries := make([]sessionSummary, 0, len(ids))
	for _, id := range ids {
		msgs := s.controller.History(id)
		preview := ""
		for i := len(msgs) - 1; i >= 0; i-- {
			if msgs[i].Role != model.RoleSystem {
				preview = msgs[i].Preview(80)
				break
			}
		}
		summaries = append(summaries, sessionSummary{
			SessionID: id,
			Messages:  len(msgs),
			Preview:   preview,
		})
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"sessions": summaries})
}

// handleGetSession returns the transcript for a session.
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	msgs := s.controller.History(id)
	if msgs == nil {
		msgs = []model.Message{}
	}
	s.writeJSON(w, http.StatusOK, sessionResponse{SessionID: id, Messages: msgs})
}

// handleResetSession deletes a session's history.
func (s *Server) handleResetSession(w http.ResponseWriter, r *http.Request) {
	s.controller.ResetSession(r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}

// handleHealth returns server liveness information.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"version":  Version,
		"requests": s.requests.Load(),
	})
}

// ============================================================================
// ERROR MAPPING
// ============================================================================

// writeChatError maps the completion error taxonomy onto HTTP statuses:
// configuration problems are the caller's to fix (400), provider failures
// surface as bad gateway (502).
func (s *Server) writeChatError(w http.ResponseWriter, err error) {
	var cfgErr *llm.ConfigError
	var httpErr *llm.HTTPError
	var malErr *llm.MalformedResponseError

	switch {
	case errors.As(err, &cfgErr):
		s.writeError(w, http.StatusBadRequest, "configuration_error", cfgErr.Error())
	case errors.As(err, &httpErr):
		s.writeError(w, http.StatusBadGateway, "provider_error", httpErr.Error())
	case errors.As(err, &malErr):
		s.writeError(w, http.StatusBadGateway, "malformed_response", malErr.Error())
	default:
		s.writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, errType, message string) {
	s.writeJSON(w, status, errorResponse{Error: errorDetail{Type: errType, Message: message}})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Printf("failed to encode response: %v", err)
	}
}
