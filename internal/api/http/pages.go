package httpapi

import (
	"net/http"
)

// dashboard is the default landing page after login.
func (s *Server) dashboard(w http.ResponseWriter, r *http.Request) {
	u, err := s.authSvc.CurrentUser(r.Context(), s.verifier.Verify(r))
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load dashboard user")
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to load user")
		return
	}
	if u == nil {
		// The session is valid but its member is gone or disabled.
		s.sessions.Delete(w)
		http.Redirect(w, r, s.routes.LoginPath, http.StatusTemporaryRedirect)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"user":    u,
		"message": "Welcome back, " + u.FullName,
	})
}

func (s *Server) loginPage(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"page":   "login",
		"action": "/v1/auth/login",
	})
}

func health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{"status": "OK"})
}
