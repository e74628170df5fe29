package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ziadkadry99/campusmap/internal/auth"
	"github.com/ziadkadry99/campusmap/internal/directory"
	"github.com/ziadkadry99/campusmap/internal/logging"
	"github.com/ziadkadry99/campusmap/internal/mapsocket"
	"github.com/ziadkadry99/campusmap/internal/session"
	"github.com/ziadkadry99/campusmap/internal/web"
)

// Config holds server configuration.
type Config struct {
	Port           int
	AllowAll       bool     // allow all CORS origins (dev mode)
	AllowedOrigins []string // extra CORS origins besides localhost
}

// DefaultOrigins are always allowed, for local development.
var DefaultOrigins = []string{"http://localhost:*", "http://127.0.0.1:*"}

// Origins returns the default origins followed by the configured ones.
func (c Config) Origins() []string {
	out := make([]string, 0, len(DefaultOrigins)+len(c.AllowedOrigins))
	out = append(out, DefaultOrigins...)
	return append(out, c.AllowedOrigins...)
}

// Deps are the feature components mounted on the router.
type Deps struct {
	Directory *directory.Directory
	Sessions  *session.Manager
	Gate      *auth.Gate
	Limiter   *auth.IPRateLimiter
	Map       *mapsocket.Handler
	Logger    *logging.Logger
}

// Server is the campus map HTTP server.
type Server struct {
	cfg        Config
	deps       Deps
	log        *logging.Logger
	router     chi.Router
	httpServer *http.Server
}

// New creates a server with all routes mounted.
func New(cfg Config, deps Deps) *Server {
	s := &Server{
		cfg:  cfg,
		deps: deps,
		log:  logging.Or(deps.Logger),
	}
	if deps.Limiter == nil {
		s.deps.Limiter = auth.NewLoginRateLimiter(s.log)
	}
	s.router = s.buildRouter()
	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.log))
	r.Use(middleware.Recoverer)

	corsOpts := cors.Options{
		AllowedOrigins:   s.cfg.Origins(),
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	// The websocket outlives any request timeout.
	if s.deps.Map != nil {
		mapsocket.RegisterRoutes(r, s.deps.Map)
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))

		r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"status":"ok"}`))
		})

		if s.deps.Directory != nil {
			directory.RegisterRoutes(r, s.deps.Directory)
		}
		if s.deps.Sessions != nil {
			session.RegisterRoutes(r, s.deps.Sessions)
			if s.deps.Gate != nil {
				auth.RegisterRoutes(r, s.deps.Gate, s.deps.Sessions, s.deps.Limiter)
			}
		}
		web.RegisterRoutes(r)
	})

	return r
}

// requestLogger logs one structured line per request.
func requestLogger(log *logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				status := ww.Status()
				if status == 0 {
					status = http.StatusOK
				}
				log.HTTPRequest(r.Method, r.URL.Path, status,
					float64(time.Since(start).Microseconds())/1000,
					r.RemoteAddr, middleware.GetReqID(r.Context()))
			}()
			next.ServeHTTP(ww, r)
		})
	}
}

// Router returns the chi router for registering additional routes.
func (s *Server) Router() chi.Router { return s.router }

// Start begins listening on the configured port. After Shutdown it returns
// http.ErrServerClosed without listening.
func (s *Server) Start() error {
	s.log.Info("campusmap server listening", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server. It is safe to call before Start.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
