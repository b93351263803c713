package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/sendrec/moviedetail/internal/docs"
	"github.com/sendrec/moviedetail/internal/geoip"
	"github.com/sendrec/moviedetail/internal/httputil"
	"github.com/sendrec/moviedetail/internal/page"
	"github.com/sendrec/moviedetail/internal/ratelimit"
	"github.com/sendrec/moviedetail/internal/session"
	"github.com/sendrec/moviedetail/internal/validate"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type Config struct {
	Pinger          Pinger
	Catalog         page.Catalog
	Media           page.MediaResolver
	Sessions        *session.Manager
	GeoIP           *geoip.Resolver
	BaseURL         string
	StorageEndpoint string
	DefaultMovieID  string
	PulseDuration   time.Duration
	EnableDocs      bool
}

type Server struct {
	router         chi.Router
	pinger         Pinger
	pageHandler    *page.Handler
	actionLimiter  *ratelimit.Limiter
	readLimiter    *ratelimit.Limiter
	defaultMovieID string
	enableDocs     bool
}

func New(cfg Config) *Server {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(cfg.GeoIP))
	r.Use(securityHeaders(SecurityConfig{
		BaseURL:         cfg.BaseURL,
		StorageEndpoint: cfg.StorageEndpoint,
	}))

	s := &Server{router: r, pinger: cfg.Pinger, defaultMovieID: cfg.DefaultMovieID, enableDocs: cfg.EnableDocs}

	if cfg.Catalog != nil {
		sessions := cfg.Sessions
		if sessions == nil {
			sessions = session.NewManager(session.Config{
				Secret:        httputil.GenerateNonce(),
				SecureCookies: strings.HasPrefix(cfg.BaseURL, "https://"),
			})
		}
		s.pageHandler = page.NewHandler(cfg.Catalog, cfg.Media, sessions, page.WithPulseDuration(cfg.PulseDuration))
		s.actionLimiter = ratelimit.NewLimiter(5, 20)
		s.readLimiter = ratelimit.NewLimiter(10, 40)
	}

	s.routes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// StartCleanup runs the rate limiter sweeps until ctx is cancelled.
func (s *Server) StartCleanup(ctx context.Context) {
	if s.actionLimiter != nil {
		s.actionLimiter.StartCleanup(ctx)
	}
	if s.readLimiter != nil {
		s.readLimiter.StartCleanup(ctx)
	}
}

func (s *Server) routes() {
	s.router.Get("/api/health", s.handleHealth)
	s.router.Get("/api/limits", s.handleLimits)

	if s.enableDocs {
		s.router.Get("/api/docs", docs.HandleDocs)
		s.router.Get("/api/docs/openapi.yaml", docs.HandleSpec)
	}

	if s.pageHandler == nil {
		return
	}

	if s.defaultMovieID != "" {
		s.router.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/movies/"+s.defaultMovieID, http.StatusFound)
		})
	}

	s.router.Route("/movies/{id}", func(r chi.Router) {
		r.With(s.readLimiter.Middleware).Get("/", s.pageHandler.MoviePage)
		r.Group(func(r chi.Router) {
			r.Use(s.actionLimiter.Middleware)
			r.Post("/actions/{kind}", s.pageHandler.Toggle)
			r.Post("/rating", s.pageHandler.Rate)
			r.Put("/review-draft", s.pageHandler.StageDraft)
			r.Post("/reviews", s.pageHandler.SubmitReview)
		})
	})

	s.router.Route("/api/movies/{id}", func(r chi.Router) {
		r.Use(s.readLimiter.Middleware)
		r.Get("/videos", s.pageHandler.Videos)
		r.Get("/reviews", s.pageHandler.Reviews)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if s.pinger != nil {
		if err := s.pinger.Ping(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"unhealthy","error":"database unreachable"}`))
			return
		}
	}
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) handleLimits(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, validate.FieldLimits())
}
