package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const DefaultRequestTimeout = 15 * time.Second

type Server struct{ mux *chi.Mux }

type options struct {
	timeout time.Duration
	logger  zerolog.Logger
	origins []string
}

type Option func(*options)

// WithRequestTimeout bounds every request, including remote store calls.
// Non-positive values keep the default.
func WithRequestTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.timeout = d
		}
	}
}

func WithLogger(l zerolog.Logger) Option { return func(o *options) { o.logger = l } }

// WithCORS lets browser clients on the given origins call the API.
func WithCORS(origins ...string) Option { return func(o *options) { o.origins = origins } }

func New(opts ...Option) *Server {
	o := options{timeout: DefaultRequestTimeout, logger: log.Logger}
	for _, fn := range opts {
		fn(&o)
	}

	m := chi.NewRouter()

	// middlewares must be registered before any route
	m.Use(chimw.RealIP)
	m.Use(chimw.RequestID)
	m.Use(chimw.Recoverer)
	if len(o.origins) > 0 {
		m.Use(cors.Handler(cors.Options{
			AllowedOrigins: o.origins,
			AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", "If-None-Match", clientHeader},
			ExposedHeaders: []string{"ETag"},
			MaxAge:         300,
		}))
	}
	m.Use(Timeout(o.timeout))
	m.Use(Metrics)
	m.Use(Logger(o.logger))

	return &Server{mux: m}
}

func (s *Server) Mux() http.Handler { return s.mux }

// Mount attaches any extra handler (e.g., /metrics) to the router.
func (s *Server) Mount(path string, h http.Handler) {
	s.mux.Handle(path, h)
}
