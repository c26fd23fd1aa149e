// Package server exposes the dispatcher over HTTP. Clients POST one JSON-RPC
// frame per request to /mcp and correlate by request ID; sessions are carried
// in the Mcp-Session-Id header.
package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"odmcp/internal/dispatch"
	"odmcp/internal/jsonrpc"
	"odmcp/internal/session"
	"odmcp/internal/telemetry"
)

// SessionHeader carries the session ID on requests and responses.
const SessionHeader = "Mcp-Session-Id"

// maxBodySize bounds one inbound frame.
const maxBodySize = 10 * 1024 * 1024

// SessionManager is the session surface the server needs. Satisfied by
// session.Manager and its telemetry wrapper.
type SessionManager interface {
	Create(ctx context.Context, client session.Client, protocolVersion string) (*session.Session, error)
	Validate(ctx context.Context, id string) (*session.Session, error)
	Refresh(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

// Server serves the protocol over HTTP.
type Server struct {
	cfg        Config
	dispatcher *dispatch.Dispatcher
	sessions   SessionManager
	metrics    *telemetry.Metrics
	logger     zerolog.Logger
}

// New creates an HTTP server over the given dispatcher and session manager.
func New(cfg Config, dispatcher *dispatch.Dispatcher, sessions SessionManager, metrics *telemetry.Metrics, logger zerolog.Logger) *Server {
	return &Server{
		cfg:        cfg,
		dispatcher: dispatcher,
		sessions:   sessions,
		metrics:    metrics,
		logger:     logger.With().Str("component", "http_server").Logger(),
	}
}

// Handler builds the route tree.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if s.metrics != nil {
		r.Use(telemetry.HTTPMiddleware(s.metrics))
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", SessionHeader},
		ExposedHeaders:   []string{SessionHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())
	r.Post("/mcp", s.handleMCP)
	r.Delete("/mcp", s.handleEndSession)

	return r
}

// Run starts the listener and blocks until the context is canceled or the
// listener fails. Cancellation triggers a graceful shutdown.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.cfg.Addr).Msg("HTTP server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		s.logger.Info().Msg("HTTP server stopped")
		return nil
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok"})
}

// handleMCP processes one JSON-RPC frame per HTTP request.
func (s *Server) handleMCP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, nil,
			jsonrpc.NewError(jsonrpc.ParseError, "Failed to read request body", nil))
		return
	}

	msg, rpcErr := jsonrpc.ParseMessage(body)
	if rpcErr != nil {
		s.writeError(w, r, http.StatusBadRequest, jsonrpc.SalvageID(body), rpcErr)
		return
	}

	switch m := msg.(type) {
	case *jsonrpc.Notification:
		s.dispatcher.HandleNotification(r.Context(), m)
		w.WriteHeader(http.StatusAccepted)

	case *jsonrpc.Request:
		if m.Method == dispatch.MethodInitialize {
			s.handleInitializeRequest(w, r, m)
			return
		}

		if s.cfg.RequireSession {
			id := r.Header.Get(SessionHeader)
			if _, err := s.sessions.Validate(r.Context(), id); err != nil {
				s.logger.Debug().Err(err).Str("method", m.Method).Msg("Rejected request without valid session")
				s.writeError(w, r, http.StatusUnauthorized, m.ID,
					jsonrpc.NewError(jsonrpc.InvalidRequest, "Missing or invalid session", nil))
				return
			}
			if err := s.sessions.Refresh(r.Context(), id); err != nil {
				s.logger.Warn().Err(err).Msg("Failed to refresh session")
			}
		}

		render.JSON(w, r, s.dispatcher.Handle(r.Context(), m))
	}
}

// handleInitializeRequest dispatches initialize and issues a fresh session,
// returned in the Mcp-Session-Id response header.
func (s *Server) handleInitializeRequest(w http.ResponseWriter, r *http.Request, req *jsonrpc.Request) {
	resp := s.dispatcher.Handle(r.Context(), req)

	if resp.Error == nil {
		var params dispatch.InitializeParams
		if len(req.Params) > 0 {
			_ = json.Unmarshal(req.Params, &params)
		}

		sess, err := s.sessions.Create(r.Context(), session.Client{
			Name:       params.ClientInfo.Name,
			Version:    params.ClientInfo.Version,
			RemoteAddr: r.RemoteAddr,
		}, params.ProtocolVersion)
		if err != nil {
			s.logger.Error().Err(err).Msg("Failed to create session")
			s.writeError(w, r, http.StatusInternalServerError, req.ID,
				jsonrpc.NewError(jsonrpc.InternalError, "Failed to create session", nil))
			return
		}
		w.Header().Set(SessionHeader, sess.ID)
	}

	render.JSON(w, r, resp)
}

// handleEndSession retires the session named in the header.
func (s *Server) handleEndSession(w http.ResponseWriter, r *http.Request) {
	id := r.Header.Get(SessionHeader)
	if id == "" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if err := s.sessions.Delete(r.Context(), id); err != nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, id any, rpcErr *jsonrpc.Error) {
	render.Status(r, status)
	render.JSON(w, r, jsonrpc.NewErrorResponse(id, rpcErr))
}
