// Package server is the browser host: upload a file, look at the overview and
// trend chart, download the enriched CSV.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/KaramelBytes/reportdesk/internal/parser"
	"github.com/KaramelBytes/reportdesk/internal/report"
	"github.com/KaramelBytes/reportdesk/internal/session"
)

// CookieName holds the session id.
const CookieName = "reportdesk_session"

// Config configures a Server.
type Config struct {
	// Report drives parsing and analysis; Report.Parse.MaxBytes bounds the
	// uploaded file.
	Report report.Options
	Logger *slog.Logger
	// Now is the clock used for export filenames.
	Now func() time.Time
	// RequestLog enables chi's access log.
	RequestLog bool
}

// Server serves the report pages for many concurrent sessions.
type Server struct {
	store *session.Store
	cfg   Config
	log   *slog.Logger
}

// New creates a server backed by store.
func New(store *session.Store, cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Report.Parse.MaxBytes == 0 {
		cfg.Report.Parse.MaxBytes = parser.DefaultMaxBytes
	}
	return &Server{store: store, cfg: cfg, log: cfg.Logger}
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	if s.cfg.RequestLog {
		r.Use(chimw.Logger)
	}
	r.Use(chimw.Recoverer)

	r.Get("/", s.handleIndex)
	r.Post("/upload", s.handleUpload)
	r.Get("/export", s.handleExport)
	r.Get("/chart.svg", s.handleChart)
	r.Post("/clear", s.handleClear)
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       2 * time.Minute,
		WriteTimeout:      2 * time.Minute,
		IdleTimeout:       120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.Info("report server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		s.log.Info("shutting down report server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
