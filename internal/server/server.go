// Package server is folio's development server. It renders the index and
// project pages live from the latest build, serves everything else from the
// output directory, and pushes reload events to open browsers.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/exec"
	"runtime"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/ziadkadry99/folio/internal/logging"
	"github.com/ziadkadry99/folio/internal/site"
)

// Config holds server configuration.
type Config struct {
	Port       int
	OutputDir  string // directory holding the generated site
	QueryParam string // project selector on project.html
	AllowAll   bool   // allow all CORS origins
	LiveReload bool
}

// Server serves a generated site.
type Server struct {
	cfg        Config
	gen        *site.Generator
	build      atomic.Pointer[site.Build]
	hub        *Hub
	logger     *zap.Logger
	router     chi.Router
	httpServer *http.Server
}

// New creates a server rendering pages with gen from build.
func New(cfg Config, gen *site.Generator, build *site.Build, logger *zap.Logger) *Server {
	if cfg.QueryParam == "" {
		cfg.QueryParam = "p"
	}
	s := &Server{
		cfg:    cfg,
		gen:    gen,
		logger: logging.OrNop(logger),
	}
	s.hub = NewHub(s.logger)
	s.build.Store(build)
	s.router = s.buildRouter()
	return s
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	// CORS
	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "HEAD", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	// Health check
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// The websocket outlives any request timeout.
	if s.cfg.LiveReload {
		r.Get("/livereload", s.hub.ServeHTTP)
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(30 * time.Second))

		r.Get("/api/projects", s.handleProjects)
		r.Get("/", s.handleIndex)
		r.Get("/index.html", s.handleIndex)
		r.Get("/project.html", s.handleProject)
		r.Get("/projects/{slug}", s.redirectSlash)
		r.Get("/projects/{slug}/", s.handlePrettyProject)
		r.Get("/projects/{slug}/index.html", s.handlePrettyProject)
		r.Get("/*", s.handleStatic)
	})

	return r
}

// Router returns the chi router.
func (s *Server) Router() chi.Router { return s.router }

// Current returns the build pages are rendered from.
func (s *Server) Current() *site.Build { return s.build.Load() }

// Swap replaces the build atomically and tells connected browsers to reload.
func (s *Server) Swap(b *site.Build) {
	s.build.Store(b)
	s.hub.Broadcast(Event{Type: EventReload, Build: b.ID})
}

// Start begins listening on the configured port.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	s.logger.Info("folio dev server listening", zap.String("addr", addr))
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown gracefully shuts down the server and closes live reload sockets.
func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.Close()
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

func (s *Server) handleProjects(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.Current().Catalog); err != nil {
		s.logger.Warn("encoding catalog", zap.Error(err))
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	b := s.Current()
	s.render(w, r, b.Templates.Index, "", "")
}

func (s *Server) handleProject(w http.ResponseWriter, r *http.Request) {
	b := s.Current()
	s.render(w, r, b.Templates.Project, r.URL.Query().Get(s.cfg.QueryParam), "")
}

func (s *Server) handlePrettyProject(w http.ResponseWriter, r *http.Request) {
	b := s.Current()
	s.render(w, r, b.Templates.Project, chi.URLParam(r, "slug"), "../../")
}

func (s *Server) redirectSlash(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, r.URL.Path+"/", http.StatusMovedPermanently)
}

// handleStatic renders extra template pages live and serves every other path
// from the output directory.
func (s *Server) handleStatic(w http.ResponseWriter, r *http.Request) {
	rel := strings.TrimPrefix(r.URL.Path, "/")
	if tmpl, ok := s.Current().Templates.Extra[rel]; ok {
		s.render(w, r, tmpl, "", strings.Repeat("../", strings.Count(rel, "/")))
		return
	}
	http.FileServer(http.Dir(s.cfg.OutputDir)).ServeHTTP(w, r)
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, tmpl []byte, slug, base string) {
	b := s.Current()
	out, err := s.gen.RenderPage(r.Context(), b.Catalog, tmpl, slug, site.PageOptions{
		Base:       base,
		LiveReload: s.cfg.LiveReload,
	})
	if err != nil {
		s.logger.Error("rendering page", zap.String("path", r.URL.Path), zap.Error(err))
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(out)
}

// requestLogger logs one line per request with zap.
func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("request",
				zap.String("id", middleware.GetReqID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("took", time.Since(start)),
			)
		})
	}
}

// OpenBrowser opens the given URL in the default browser.
func OpenBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	case "darwin":
		cmd = exec.Command("open", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	_ = cmd.Start()
}
