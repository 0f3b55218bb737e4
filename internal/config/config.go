package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/team-portal/portal/internal/domain/route"
	"github.com/team-portal/portal/internal/infrastructure/token"
)

// ConfigurationError reports a missing or invalid setting. The process must
// not start when Load returns one.
type ConfigurationError struct {
	Key    string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Key, e.Reason)
}

// Config holds service configuration.
type Config struct {
	DatabaseURL         string
	ServerAddr          string
	MigrationsDir       string
	SessionAlgorithm    string
	SessionSecret       []byte
	SessionTTL          time.Duration
	SessionCookieName   string
	SessionCookieSecure bool
	Routes              route.Table
	TrustedOrigins      []string
	RateLimitRPS        float64
	RateLimitBurst      int
}

var (
	defaultPublicRoutes   = []string{"/", "/register", "/reset-password", "/logo.svg", "/bg-layer.jpeg"}
	defaultAuthRoutes     = []string{"/login", "/forgot-password", "/new-password"}
	defaultExcludedRoutes = []string{"/static/*", "/assets/*", "/_next/static/*", "/_next/image/*", "/favicon.ico", "/healthz", "/v1/*"}
)

// Load reads configuration from environment.
func Load() (*Config, error) {
	alg := strings.ToUpper(strings.TrimSpace(os.Getenv("SESSION_ALGORITHM")))
	if alg == "" {
		return nil, &ConfigurationError{Key: "SESSION_ALGORITHM", Reason: "is required"}
	}
	if !token.IsSupported(alg) {
		return nil, &ConfigurationError{Key: "SESSION_ALGORITHM", Reason: fmt.Sprintf("unsupported algorithm %q", alg)}
	}
	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		return nil, &ConfigurationError{Key: "SESSION_SECRET", Reason: "is required"}
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		user := getenv("POSTGRES_USER", "portal")
		pass := getenv("POSTGRES_PASSWORD", "portal_pass")
		db := getenv("POSTGRES_DB", "portal")
		host := getenv("POSTGRES_HOST", "localhost")
		port := getenv("POSTGRES_PORT", "5432")
		sslmode := getenv("DATABASE_SSLMODE", "disable")
		dsn = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", user, pass, host, port, db, sslmode)
	}

	routes := route.Table{
		Public:      parseList(os.Getenv("PUBLIC_ROUTES"), defaultPublicRoutes),
		AuthOnly:    parseList(os.Getenv("AUTH_ROUTES"), defaultAuthRoutes),
		Excluded:    parseList(os.Getenv("GATE_EXCLUDED_ROUTES"), defaultExcludedRoutes),
		LoginPath:   getenv("LOGIN_PATH", "/login"),
		LandingPath: getenv("DEFAULT_LOGIN_REDIRECT", "/dashboard"),
	}
	if err := routes.Validate(); err != nil {
		key := "LOGIN_PATH"
		if errors.Is(err, route.ErrInvalidLandingPath) {
			key = "DEFAULT_LOGIN_REDIRECT"
		}
		return nil, &ConfigurationError{Key: key, Reason: err.Error()}
	}

	return &Config{
		DatabaseURL:         dsn,
		ServerAddr:          getenv("SERVER_ADDR", "0.0.0.0:8080"),
		MigrationsDir:       getenv("MIGRATIONS_DIR", "internal/migrations"),
		SessionAlgorithm:    alg,
		SessionSecret:       []byte(secret),
		SessionTTL:          parseDuration(getenv("SESSION_TTL", "24h"), 24*time.Hour),
		SessionCookieName:   getenv("SESSION_COOKIE_NAME", "app-session"),
		SessionCookieSecure: parseBool(getenv("SESSION_COOKIE_SECURE", "true"), true),
		Routes:              routes,
		TrustedOrigins:      parseList(os.Getenv("TRUSTED_ORIGINS"), nil),
		RateLimitRPS:        parseFloat(getenv("RATE_LIMIT_RPS", "10"), 10),
		RateLimitBurst:      parseInt(getenv("RATE_LIMIT_BURST", "20"), 20),
	}, nil
}

func getenv(key, def string) string {
	val := os.Getenv(key)
	if val == "" {
		return def
	}
	return val
}

func parseDuration(val string, def time.Duration) time.Duration {
	if val == "" {
		return def
	}
	d, err := time.ParseDuration(val)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func parseBool(val string, def bool) bool {
	if val == "" {
		return def
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return def
	}
	return b
}

func parseFloat(val string, def float64) float64 {
	f, err := strconv.ParseFloat(val, 64)
	if err != nil || f <= 0 {
		return def
	}
	return f
}

func parseInt(val string, def int) int {
	i, err := strconv.Atoi(val)
	if err != nil || i <= 0 {
		return def
	}
	return i
}

func parseList(val string, def []string) []string {
	if strings.TrimSpace(val) == "" {
		return def
	}
	out := []string{}
	for _, p := range strings.Split(val, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
