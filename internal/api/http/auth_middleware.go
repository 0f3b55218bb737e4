package httpapi

import (
	"net/http"
	"strings"

	"github.com/team-portal/portal/internal/domain/user"
)

func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, err := s.authSvc.CurrentUser(r.Context(), s.verifier.Verify(r))
		if err != nil {
			s.logger.Error().Err(err).Msg("failed to load session user")
			respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to load session user")
			return
		}
		if u == nil {
			respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing or invalid session")
			return
		}
		ctx := withAuthUser(r.Context(), &AuthUser{
			UserID: u.UserID,
			Email:  u.Email,
			Roles:  u.Roles,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) requireRole(roles ...user.Role) func(http.Handler) http.Handler {
	allowed := make(map[user.Role]struct{})
	for _, r := range roles {
		allowed[user.Role(strings.ToUpper(string(r)))] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u := authUserFromContext(r.Context())
			if u == nil {
				respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing auth")
				return
			}
			if !u.HasAnyRole(allowed) {
				respondError(w, http.StatusForbidden, "FORBIDDEN", "insufficient role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
