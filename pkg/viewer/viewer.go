// Package viewer serves the rendered chart on a local HTTP endpoint so it can
// be looked at in a browser without writing it to disk.
package viewer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/NYTimes/gziphandler"
	"github.com/levenlabs/go-lflag"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pvaudit/pvevolution/pkg/log"
	"github.com/pvaudit/pvevolution/pkg/types"
)

// Server holds the latest chart and summary and serves them over HTTP.
type Server struct {
	listenAddr string
	noDisplay  bool
	gatherer   prometheus.Gatherer
	httpServer *http.Server

	mu      sync.RWMutex
	chart   []byte
	summary *types.EvolutionSummary
}

// New returns a Server listening on addr and exposing metrics from g.
func New(addr string, g prometheus.Gatherer) *Server {
	return &Server{
		listenAddr: addr,
		gatherer:   g,
	}
}

// Configured initializes the Server from flags.
func Configured(g prometheus.Gatherer) *Server {
	srv := New("", g)

	listenAddr := lflag.String("http-listen", "127.0.0.1:8050", "HTTP listen address of the chart viewer")
	noDisplay := lflag.Bool("no-display", false, "Print the summary and exit instead of serving the chart")

	lflag.Do(func() {
		srv.listenAddr = *listenAddr
		srv.noDisplay = *noDisplay
	})

	return srv
}

// NoDisplay reports whether the viewer was disabled.
func (s *Server) NoDisplay() bool {
	return s.noDisplay
}

// Publish replaces the served chart and summary.
func (s *Server) Publish(chart []byte, summary types.EvolutionSummary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chart = chart
	s.summary = &summary
}

func (s *Server) snapshot() ([]byte, *types.EvolutionSummary) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.chart, s.summary
}

func (s *Server) setupHandler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /chart.png", s.handleChart)
	mux.HandleFunc("GET /api/summary", s.handleSummary)
	mux.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", s.handleHealthz)
	return gziphandler.GzipHandler(securityHeadersMiddleware(mux))
}

// Run serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:         s.listenAddr,
		Handler:      s.setupHandler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  15 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		defer close(errChan)
		log.Ctx(ctx).InfoContext(ctx, "serving chart", slog.String("url", "http://"+s.listenAddr+"/"))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Ctx(ctx).InfoContext(ctx, "shutting down viewer")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("viewer shutdown failed: %w", err)
		}
		return nil
	case err := <-errChan:
		return fmt.Errorf("viewer error: %w", err)
	}
}

func writeJSONError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(struct {
		Error string `json:"error"`
	}{Error: msg}); err != nil {
		slog.Warn("failed to write error response", slog.Any("error", err))
		panic(http.ErrAbortHandler)
	}
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	chart, _ := s.snapshot()
	if chart == nil {
		http.Error(w, "chart not rendered yet", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	if _, err := w.Write(chart); err != nil {
		panic(http.ErrAbortHandler)
	}
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	_, summary := s.snapshot()
	if summary == nil {
		writeJSONError(w, "summary not available yet", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(summary); err != nil {
		log.Ctx(r.Context()).WarnContext(r.Context(), "failed to write summary", slog.Any("error", err))
		panic(http.ErrAbortHandler)
	}
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("ok")); err != nil {
		panic(http.ErrAbortHandler)
	}
}

func securityHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "no-referrer")
		next.ServeHTTP(w, r)
	})
}
