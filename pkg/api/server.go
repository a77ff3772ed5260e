// Package api serves analyses over HTTP.
//
// Every response uses the same envelope:
//
//	{"success": true, "data": {...}}
//	{"success": false, "error": {"code": "NOT_FOUND", "message": "..."}}
//
// Routes:
//
//	GET  /health                 liveness and version
//	POST /api/analyze            analyze {"url": "owner/repo"}
//	GET  /api/analyze/status     GitHub authentication and rate limit
//	GET  /api/analyses           stored analyses, newest first
//	GET  /api/analyses/{id}      one stored analysis
//
// The server speaks HTTP/1.1 and cleartext HTTP/2.
package api

import (
	"context"
	stderrors "errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/matzehuels/gitmaster/pkg/analysis"
	ghapi "github.com/matzehuels/gitmaster/pkg/integrations/github"
)

// Defaults for [Config].
const (
	DefaultAddr            = ":3001"
	DefaultRequestTimeout  = 2 * time.Minute
	DefaultShutdownTimeout = 10 * time.Second
	maxBodyBytes           = 1 << 16
)

// Config configures a [Server].
type Config struct {
	Addr            string
	Version         string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
	Analysis        analysis.Options
}

// Server is the HTTP front end of a [analysis.Runner].
type Server struct {
	runner *analysis.Runner
	github *ghapi.Client
	logger *log.Logger
	cfg    Config
}

// New returns a server. client is used both to fetch repositories and to
// report rate limits. A nil logger discards output.
func New(runner *analysis.Runner, client *ghapi.Client, logger *log.Logger, cfg Config) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = DefaultShutdownTimeout
	}
	return &Server{runner: runner, github: client, logger: logger, cfg: cfg}
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.cfg.RequestTimeout))

	r.Get("/health", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Post("/analyze", s.handleAnalyze)
		r.Get("/analyze/status", s.handleStatus)
		r.Get("/analyses", s.handleList)
		r.Get("/analyses/{id}", s.handleGet)
	})
	return r
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is [Server.Run] on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           h2c.NewHandler(s.Handler(), &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("api server listening", "addr", ln.Addr().String())
		errc <- srv.Serve(ln)
	}()

	select {
	case err := <-errc:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}
