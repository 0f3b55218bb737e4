package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	appAuth "github.com/team-portal/portal/internal/application/auth"
	appUser "github.com/team-portal/portal/internal/application/user"
	"github.com/team-portal/portal/internal/domain/route"
	domainUser "github.com/team-portal/portal/internal/domain/user"
)

const rateLimiterSize = 10000

// Options tunes the edge middleware.
type Options struct {
	TrustedOrigins []string
	RateLimitRPS   float64
	RateLimitBurst int
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	authSvc  *appAuth.Service
	userSvc  *appUser.Service
	sessions *SessionStore
	verifier *Verifier
	gate     *RouteGate
	routes   route.Table
	limiter  *ipRateLimiter
	origins  []string
	logger   zerolog.Logger
}

func NewServer(
	authSvc *appAuth.Service,
	userSvc *appUser.Service,
	sessions *SessionStore,
	verifier *Verifier,
	routes route.Table,
	opts Options,
	logger zerolog.Logger,
) (*Server, error) {
	limiter, err := newIPRateLimiter(opts.RateLimitRPS, opts.RateLimitBurst, rateLimiterSize)
	if err != nil {
		return nil, err
	}
	return &Server{
		authSvc:  authSvc,
		userSvc:  userSvc,
		sessions: sessions,
		verifier: verifier,
		gate:     NewRouteGate(routes, verifier, logger),
		routes:   routes,
		limiter:  limiter,
		origins:  opts.TrustedOrigins,
		logger:   logger.With().Str("component", "api").Logger(),
	}, nil
}

// Router builds the HTTP router. The route gate runs ahead of every page.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(connAddr)
	r.Use(middleware.RealIP)
	r.Use(accessLog(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(processTime)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(s.limiter.Handler)
	if len(s.origins) > 0 {
		r.Use(trustedOrigins(s.origins))
	}
	r.Use(RequestSession)
	r.Use(s.gate.Handler)

	r.Get("/healthz", health)
	r.Get(s.routes.LoginPath, s.loginPage)
	r.Get(s.routes.LandingPath, s.dashboard)

	r.Route("/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", s.login)
			r.Post("/logout", s.logout)
			r.Post("/bootstrap", s.bootstrapAdmin)
			r.With(s.requireAuth).Get("/me", s.me)
		})

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)
			r.With(s.requireRole(domainUser.RoleSuperAdmin)).Post("/users", s.createUser)
		})
	})

	return r
}

// Helpers
func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, map[string]interface{}{
		"error":   code,
		"message": message,
	})
}

func decodeBody(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
