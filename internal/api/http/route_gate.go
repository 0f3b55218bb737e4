package httpapi

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/team-portal/portal/internal/domain/route"
)

// RouteGate runs ahead of every page request and redirects according to the
// route table and session presence.
type RouteGate struct {
	table    route.Table
	verifier *Verifier
	logger   zerolog.Logger
}

// NewRouteGate creates the gate for table.
func NewRouteGate(table route.Table, verifier *Verifier, logger zerolog.Logger) *RouteGate {
	return &RouteGate{
		table:    table,
		verifier: verifier,
		logger:   logger.With().Str("component", "route_gate").Logger(),
	}
}

// Handler wraps next with the gate.
func (g *RouteGate) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		if g.table.IsExcluded(path) {
			next.ServeHTTP(w, r)
			return
		}
		r = withRequestSession(r)

		class := g.table.Classify(path)
		if class == route.ClassPublic {
			next.ServeHTTP(w, r)
			return
		}

		d := g.table.Decide(class, g.verifier.Verify(r) != nil)
		if d.Action == route.ActionRedirect {
			g.logger.Debug().
				Str("path", path).
				Str("class", string(class)).
				Str("location", d.Location).
				Msg("redirect")
			http.Redirect(w, r, d.Location, http.StatusTemporaryRedirect)
			return
		}
		next.ServeHTTP(w, r)
	})
}
