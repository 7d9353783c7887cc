package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pinnacledb/qtd"
)

// ShutdownTimeout is how long Serve waits for in-flight requests on shutdown.
const ShutdownTimeout = 10 * time.Second

// maxRequestSize caps the size of a query body.
const maxRequestSize = 64 << 10

// Server exposes a qtd.QueryClient as the backend QA endpoint.
type Server struct {
	// Answering backend. Required.
	Answerer qtd.QueryClient

	// Origins allowed by CORS. "*" allows any origin.
	AllowedOrigins []string

	// Optional per-knowledge-base rate limiter.
	Limiter *KnowledgeBaseLimiter

	Logger *slog.Logger
}

// NewServer returns a Server answering with answerer.
func NewServer(answerer qtd.QueryClient) *Server {
	return &Server{
		Answerer: answerer,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// Handler returns the HTTP handler with all routes and middleware mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.Logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/health"))
	r.Use(cors(s.AllowedOrigins))

	r.Get("/knowledge-bases", s.handleKnowledgeBases)
	r.Route("/documents", func(r chi.Router) {
		r.Post("/query", s.handleQuery)
	})

	return r
}

// Serve accepts connections on ln until ctx is canceled, then shuts down
// gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.Serve(ln)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

func (s *Server) handleKnowledgeBases(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, qtd.KnowledgeBases())
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var body queryRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestSize))
	if err := dec.Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, qtd.EINVALID, "malformed request body")
		return
	}

	kb, err := qtd.ParseKnowledgeBase(body.KnowledgeBase)
	if err != nil {
		writeError(w, http.StatusBadRequest, qtd.EINVALID, qtd.ErrorMessage(err))
		return
	}
	req, err := qtd.NewRequest(kb, body.Question)
	if err != nil {
		writeError(w, http.StatusBadRequest, qtd.EINVALID, qtd.ErrorMessage(err))
		return
	}

	if !s.Limiter.Allow(kb) {
		writeError(w, http.StatusTooManyRequests, kindRateLimited, "too many questions about "+kb.Label()+", try again shortly")
		return
	}

	answer, err := s.Answerer.Ask(r.Context(), req)
	if err != nil {
		code := qtd.ErrorCode(err)
		if code == qtd.EINTERNAL {
			s.Logger.Error("answer failed", "kb", kb, "err", err, "request_id", middleware.GetReqID(r.Context()))
		}
		writeError(w, statusFor(code), code, qtd.ErrorMessage(err))
		return
	}

	if answer == nil {
		writeError(w, http.StatusBadGateway, qtd.EBACKEND, "backend returned no answer")
		return
	}
	writeJSON(w, http.StatusOK, fromAnswer(answer))
}

// statusFor maps an error code to an HTTP status.
func statusFor(code string) int {
	switch code {
	case qtd.EINVALID:
		return http.StatusBadRequest
	case qtd.ENOTFOUND:
		return http.StatusNotFound
	case qtd.ETIMEOUT:
		return http.StatusGatewayTimeout
	case qtd.EBACKEND, qtd.ETRANSPORT:
		return http.StatusBadGateway
	case qtd.ECANCELED:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes an error payload.
func writeError(w http.ResponseWriter, status int, kind, message string) {
	writeJSON(w, status, errorResponse{Kind: kind, Message: message})
}
