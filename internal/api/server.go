package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mmynk/wealthwise/internal/httputil"
	"github.com/mmynk/wealthwise/internal/middleware"
	"github.com/mmynk/wealthwise/internal/networth"
	"github.com/mmynk/wealthwise/internal/observability"
)

// Server represents our API server
type Server struct {
	router   *mux.Router
	resolver *middleware.PrincipalResolver
}

// Options holds the dependencies of a Server.
type Options struct {
	Gate     *networth.Gate
	Resolver *middleware.PrincipalResolver
	Metrics  *observability.Metrics

	// Registry, when set, is served on /metrics.
	Registry *prometheus.Registry
}

// NewServer creates a new API server
func NewServer(opts Options) *Server {
	s := &Server{
		router:   mux.NewRouter(),
		resolver: opts.Resolver,
	}

	s.router.Use(observability.HTTPMetricsMiddleware(opts.Metrics))
	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteNotFound(w, "The requested resource does not exist")
	})

	s.router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("ok"))
	}).Methods(http.MethodGet)
	if opts.Registry != nil {
		s.router.Handle("/metrics", observability.Handler(opts.Registry)).Methods(http.MethodGet)
	}

	NewNetWorthHandlers(opts.Gate, opts.Metrics).RegisterRoutes(s.router)
	return s
}

// Mount serves h for every path under prefix. Used for the Connect services.
func (s *Server) Mount(prefix string, h http.Handler) {
	s.router.PathPrefix(prefix).Handler(h)
}

// Handler returns the router wrapped in the request-scoped middleware chain.
func (s *Server) Handler() http.Handler {
	return middleware.Recover(
		middleware.Principal(s.resolver)(
			middleware.RequestLogger(s.router),
		),
	)
}
