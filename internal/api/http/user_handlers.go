package httpapi

import (
	"errors"
	"net/http"
	"strings"

	appUser "github.com/team-portal/portal/internal/application/user"
	domainUser "github.com/team-portal/portal/internal/domain/user"
)

type userCreateRequest struct {
	FullName string   `json:"full_name"`
	Email    string   `json:"email"`
	Password string   `json:"password"`
	Roles    []string `json:"roles,omitempty"`
	State    string   `json:"state,omitempty"`
}

func (s *Server) createUser(w http.ResponseWriter, r *http.Request) {
	var req userCreateRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	roles := make([]domainUser.Role, 0, len(req.Roles))
	for _, role := range req.Roles {
		roles = append(roles, domainUser.Role(strings.ToUpper(strings.TrimSpace(role))))
	}
	u, err := s.userSvc.CreateUser(r.Context(), appUser.CreateInput{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
		Roles:    roles,
		State:    domainUser.State(strings.ToUpper(req.State)),
	})
	if err != nil {
		if errors.Is(err, appUser.ErrEmailTaken) {
			respondError(w, http.StatusConflict, "CONFLICT", err.Error())
			return
		}
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, u)
}
