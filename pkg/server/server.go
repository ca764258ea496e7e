// Package server exposes category clouds over HTTP.
//
// Routes:
//
//	GET  /healthz            liveness probe
//	GET  /cloud/{category}   one cloud; query parameters are cloud options
//	POST /render             a wikitext document with embedded directives
//
// Author-facing conditions are answered with the localized message as the
// body: 400 for a missing category or malformed parameter, 404 for an empty
// category. Store failures are 500 and are logged, never shown.
package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/categorycloud/pkg/cloud"
	"github.com/matzehuels/categorycloud/pkg/errors"
	"github.com/matzehuels/categorycloud/pkg/messages"
	"github.com/matzehuels/categorycloud/pkg/wikitext"
)

// Defaults for Config.
const (
	DefaultAddr         = ":8080"
	DefaultTimeout      = 30 * time.Second
	DefaultMaxBodyBytes = 1 << 20
	shutdownTimeout     = 10 * time.Second
)

// RequestIDHeader carries the request ID in both directions.
const RequestIDHeader = "X-Request-ID"

// Config controls the HTTP server.
type Config struct {
	Addr         string
	BaseURL      string
	Timeout      time.Duration
	MaxBodyBytes int64
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		Addr:         DefaultAddr,
		BaseURL:      wikitext.DefaultBaseURL,
		Timeout:      DefaultTimeout,
		MaxBodyBytes: DefaultMaxBodyBytes,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Addr == "" {
		c.Addr = d.Addr
	}
	if c.BaseURL == "" {
		c.BaseURL = d.BaseURL
	}
	if c.Timeout <= 0 {
		c.Timeout = d.Timeout
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = d.MaxBodyBytes
	}
	return c
}

// Server serves clouds from a renderer.
type Server struct {
	renderer *cloud.Renderer
	bundle   *messages.Bundle
	logger   *log.Logger
	cfg      Config
	router   chi.Router
}

// New creates a server. A nil bundle serves English only; a nil logger
// discards output.
func New(renderer *cloud.Renderer, bundle *messages.Bundle, logger *log.Logger, cfg Config) *Server {
	if bundle == nil {
		bundle = messages.NewBundle()
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	s := &Server{
		renderer: renderer,
		bundle:   bundle,
		logger:   logger,
		cfg:      cfg.withDefaults(),
	}
	s.router = s.routes()
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.cfg.Timeout))
	r.Use(serverHeader)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/cloud/{category}", s.handleCloud)
	r.Post("/render", s.handleRender)
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      s.cfg.Timeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) handleCloud(w http.ResponseWriter, r *http.Request) {
	catalog := s.negotiate(w, r)

	name, err := url.PathUnescape(chi.URLParam(r, "category"))
	if err != nil {
		name = chi.URLParam(r, "category")
	}

	query := r.URL.Query()
	attrs := make(map[string]string, len(query)+1)
	for key, values := range query {
		if len(values) > 0 {
			attrs[strings.ToLower(key)] = values[0]
		}
	}
	format := attrs["format"]
	delete(attrs, "format")
	attrs["category"] = name

	renderer := s.renderer.WithMessages(catalog)
	opts, err := cloud.FromAttributes(attrs)
	if err != nil {
		s.fail(w, r, renderer, err)
		return
	}

	w.Header().Set("Cache-Control", "no-store")

	if format == "json" {
		c, err := cloud.Build(r.Context(), renderer.Store, opts)
		if err != nil {
			s.fail(w, r, renderer, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(c); err != nil {
			s.logger.Warn("encode cloud", "err", err)
		}
		return
	}

	page := wikitext.NewPage("Category:"+opts.Key(), s.cfg.BaseURL)
	out, err := renderer.Execute(r.Context(), page, opts)
	if err != nil {
		s.fail(w, r, renderer, err)
		return
	}
	if opts.Raw {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	} else {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
	}
	_, _ = io.WriteString(w, out)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	catalog := s.negotiate(w, r)

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			http.Error(w, http.StatusText(http.StatusRequestEntityTooLarge), http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	title := r.URL.Query().Get("title")
	if title == "" {
		title = "Main_Page"
	}
	page := wikitext.NewPage(title, s.cfg.BaseURL)
	proc := wikitext.NewProcessor(s.renderer.WithMessages(catalog))

	out, err := proc.Process(r.Context(), page, string(body))
	if err != nil {
		s.fail(w, r, proc.Renderer, err)
		return
	}
	if page.Cacheable() {
		w.Header().Set("Cache-Control", "public, max-age=300")
	} else {
		w.Header().Set("Cache-Control", "no-store")
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, out)
}

// negotiate picks the message catalog for r and records the choice.
func (s *Server) negotiate(w http.ResponseWriter, r *http.Request) *messages.Catalog {
	catalog := s.bundle.Match(r.Header.Get("Accept-Language"))
	w.Header().Set("Content-Language", catalog.Lang.String())
	w.Header().Add("Vary", "Accept-Language")
	return catalog
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, renderer *cloud.Renderer, err error) {
	w.Header().Set("Cache-Control", "no-store")
	status := StatusCode(err)
	if errors.IsReportable(err) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, renderer.Report(err))
		return
	}
	s.logger.Error("request failed", "path", r.URL.Path, "request_id", RequestID(r.Context()), "code", errors.GetCode(err), "err", err)
	http.Error(w, http.StatusText(status), status)
}

// StatusCode maps an error to the HTTP status it is answered with.
func StatusCode(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeMissingCategory, errors.ErrCodeMalformedParameter, errors.ErrCodeInvalidInput:
		return http.StatusBadRequest
	case errors.ErrCodeEmptyCategory:
		return http.StatusNotFound
	}
	if stderrors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}
