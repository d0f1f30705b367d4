// internal/httpserver/server.go
//
// Diagnostics HTTP surface for the word hunt server.
// Responsibilities:
//   - Router + middleware (JSON, timeouts, panic recovery, request IDs, access log).
//   - "/" and "/health" for liveness probes.
//   - "/sessions": point-in-time registry snapshot.
//   - "/debug/wordlists": what the word list source can serve.
//
// Notes:
//   - Read-only. Nothing here can touch a running game.
//   - Disabled unless an HTTP bind address is configured.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordhunt/internal/registry"
	"github.com/robalobadob/wordhunt/internal/wordlist"
)

// Server bundles the router with the registry and source it reports on.
type Server struct {
	r   *chi.Mux
	reg *registry.Registry
	src wordlist.Source
}

// New constructs a Server, installs middleware, and registers routes.
func New(reg *registry.Registry, src wordlist.Source) *Server {
	s := &Server{r: chi.NewRouter(), reg: reg, src: src}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                // add X-Request-ID
	s.r.Use(chimw.RealIP)                   // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(chimw.Recoverer)                // recover from panics
	s.r.Use(chimw.Timeout(5 * time.Second)) // bound handler time
	s.r.Use(accessLog)
	s.r.Use(jsonContentType)

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"wordhunt","endpoints":["/health","/sessions","/debug/wordlists"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	s.r.Get("/sessions", s.handleSessions)
	s.r.Get("/debug/wordlists", s.handleWordLists)

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Handler exposes the router (useful for tests).
func (s *Server) Handler() http.Handler { return s.r }

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.r,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       time.Minute,
	}

	errs := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("diagnostics listening")
		errs <- srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errs; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// ----------------------------- handlers ------------------------------------

type sessionsRes struct {
	Count    int             `json:"count"`
	Sessions []registry.Info `json:"sessions"`
}

func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	infos := s.reg.Infos()
	_ = json.NewEncoder(w).Encode(sessionsRes{Count: len(infos), Sessions: infos})
}

func (s *Server) handleWordLists(w http.ResponseWriter, r *http.Request) {
	st, err := s.src.Stats(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("word list stats")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"stats_failed"}`))
		return
	}
	_ = json.NewEncoder(w).Encode(st)
}

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// accessLog writes one debug line per request.
func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Str("requestId", chimw.GetReqID(r.Context())).
			Dur("took", time.Since(start)).
			Msg("http")
	})
}
