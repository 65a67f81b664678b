// Package httpapi wires the HTTP routes of the blog backend.
package httpapi

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/stokaro/inkwell/internal/authors"
	"github.com/stokaro/inkwell/internal/httpx"
)

// Options configure the router.
type Options struct {
	// AppName is echoed by GET /hello.
	AppName string
	// RequestTimeout cancels the request context after this long. Zero disables it.
	RequestTimeout time.Duration
	// Logger receives one access log line per request.
	Logger *slog.Logger
}

// Env is passed to every handler.
type Env struct {
	Authors *authors.Service
	AppName string
}

// NewRouter returns the handler serving every route.
func NewRouter(svc *authors.Service, opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	env := &Env{Authors: svc, AppName: opts.AppName}
	envFn := func(*http.Request) *Env { return env }

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{
		Logger:  slog.NewLogLogger(logger.Handler(), slog.LevelInfo),
		NoColor: true,
	}))
	r.Use(middleware.Recoverer)
	if opts.RequestTimeout > 0 {
		r.Use(middleware.Timeout(opts.RequestTimeout))
	}

	r.Get("/hello", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintf(w, "Hello world! This is %s.", env.AppName)
	})
	r.Get("/error-exp/bad-request", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "Hello, world!", http.StatusBadRequest)
	})

	r.Route("/authors", func(r chi.Router) {
		r.Post("/", httpx.HandlerFunc(envFn, CreateAuthor))
		r.Get("/", httpx.HandlerFunc(envFn, ListAuthors))
		r.Put("/{author_id}", httpx.HandlerFunc(envFn, UpdateAuthor))
		r.Delete("/{author_id}", httpx.HandlerFunc(envFn, DeleteAuthor))
	})
	return r
}
