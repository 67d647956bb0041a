// Package server exposes the renderer over HTTP.
//
// Routes:
//
//	GET  /health                  liveness and version
//	GET  /api/templates           available template ids
//	POST /api/export/final        outline JSON -> document download
//	POST /api/outline/normalize   JSON, YAML or Markdown -> canonical outline
//	POST /api/preview             outline JSON -> one SVG per slide
//
// Failures are JSON bodies {"kind","error","details"}.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/alnah/go-outline2deck"
)

// Renderer is the subset of *outline2deck.Renderer the server uses.
type Renderer interface {
	Render(ctx context.Context, input outline2deck.Input) (*outline2deck.DeckDocument, error)
	Preview(ctx context.Context, input outline2deck.Input) ([][]byte, error)
	Templates() []string
	Template(id string) outline2deck.Template
	DefaultTemplateID() string
}

// Compile-time interface check.
var _ Renderer = (*outline2deck.Renderer)(nil)

// Defaults applied by New for zero Config fields.
const (
	DefaultMaxBodyBytes = 10 << 20
	DefaultTimeout      = 30 * time.Second
	shutdownTimeout     = 10 * time.Second
	readHeaderTimeout   = 10 * time.Second
)

// Config holds the HTTP boundary settings.
type Config struct {
	AllowedOrigins []string // empty allows any origin
	MaxBodyBytes   int64
	Timeout        time.Duration // per request
	Version        string
}

// Server serves the export API. Create with New.
type Server struct {
	cfg      Config
	renderer Renderer
	log      *zap.Logger
	handler  http.Handler
}

// New builds the router. A nil logger disables logging.
func New(r Renderer, cfg Config, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	s := &Server{cfg: cfg, renderer: r, log: log}
	s.handler = s.routes()
	return s
}

func (s *Server) routes() http.Handler {
	origins := s.cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(accessLog(s.log))
	r.Use(recoverer(s.log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"Content-Disposition", "X-FileName"},
		MaxAge:         300,
	}))
	r.Use(middleware.Timeout(s.cfg.Timeout))

	r.Get("/health", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/templates", s.handleTemplates)
		r.Post("/export/final", s.handleExport)
		r.Post("/outline/normalize", s.handleNormalize)
		r.Post("/preview", s.handlePreview)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{
			Kind:  outline2deck.KindInvalidRequest,
			Error: "Not found.",
		})
	})
	return r
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Serve serves on ln until ctx is canceled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: readHeaderTimeout,
		ErrorLog:          zap.NewStdLog(s.log),
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server started", zap.String("addr", ln.Addr().String()), zap.String("version", s.cfg.Version))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
