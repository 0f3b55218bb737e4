package httpapi

import (
	"errors"
	"net/http"
	"time"

	appAuth "github.com/team-portal/portal/internal/application/auth"
	appUser "github.com/team-portal/portal/internal/application/user"
	domainUser "github.com/team-portal/portal/internal/domain/user"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	User      *domainUser.User `json:"user"`
	ExpiresAt string           `json:"expires_at"`
	Redirect  string           `json:"redirect"`
}

type bootstrapRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	u, err := s.authSvc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, appAuth.ErrInvalidCredentials) {
			respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", err.Error())
			return
		}
		s.logger.Error().Err(err).Msg("login failed")
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "login failed")
		return
	}

	sess, err := s.sessions.Create(w, u.UserID.String())
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", u.UserID.String()).Msg("failed to issue session")
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to issue session")
		return
	}

	respondJSON(w, http.StatusOK, loginResponse{
		User:      u,
		ExpiresAt: sess.ExpiresAt.Format(time.RFC3339),
		Redirect:  s.routes.LandingPath,
	})
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	if id := s.verifier.Verify(r); id != nil {
		s.logger.Info().Str("user_id", id.SubjectID).Msg("user logout")
	}
	s.sessions.Delete(w)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "OK",
		"redirect": s.routes.LoginPath,
	})
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	u := authUserFromContext(r.Context())
	if u == nil {
		respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing auth")
		return
	}
	user, err := s.userSvc.GetUser(r.Context(), u.UserID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, user)
}

func (s *Server) bootstrapAdmin(w http.ResponseWriter, r *http.Request) {
	var req bootstrapRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	u, err := s.userSvc.Bootstrap(r.Context(), appUser.CreateInput{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, appUser.ErrBootstrapped) {
			respondError(w, http.StatusBadRequest, "INVALID_STATE", err.Error())
			return
		}
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, u)
}
