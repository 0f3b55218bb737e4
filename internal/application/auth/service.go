package auth

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/team-portal/portal/internal/domain/session"
	domainUser "github.com/team-portal/portal/internal/domain/user"
)

// ErrInvalidCredentials covers unknown emails, wrong passwords and disabled
// members alike.
var ErrInvalidCredentials = errors.New("invalid email or password")

// dummyHash is compared against when the email is unknown so a miss costs
// the same bcrypt work as a hit.
var dummyHash = sync.OnceValue(func() string {
	h, _ := domainUser.HashPassword("portal-dummy-password-1!")
	return h
})

// Service handles credential checks and resolves session identities to users.
type Service struct {
	userRepo domainUser.Repository
	logger   zerolog.Logger
}

// NewService creates an auth service.
func NewService(userRepo domainUser.Repository, logger zerolog.Logger) *Service {
	return &Service{
		userRepo: userRepo,
		logger:   logger.With().Str("service", "auth").Logger(),
	}
}

// Login checks the credentials and returns the member a session may be issued for.
func (s *Service) Login(ctx context.Context, email, password string) (*domainUser.User, error) {
	email = domainUser.NormalizeEmail(email)
	if err := domainUser.ValidateEmail(email); err != nil {
		return nil, ErrInvalidCredentials
	}
	u, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u == nil {
		domainUser.VerifyPassword(dummyHash(), password)
		s.logger.Info().Str("email", email).Msg("login rejected")
		return nil, ErrInvalidCredentials
	}
	if !domainUser.VerifyPassword(u.PasswordHash, password) {
		s.logger.Info().Str("email", email).Msg("login rejected")
		return nil, ErrInvalidCredentials
	}
	if !u.CanSignIn() {
		s.logger.Info().Str("user_id", u.UserID.String()).Msg("login refused for inactive user")
		return nil, ErrInvalidCredentials
	}

	s.logger.Info().Str("user_id", u.UserID.String()).Msg("user login")
	return u, nil
}

// CurrentUser loads the member behind a verified identity. It returns nil
// without error when there is no identity, the subject is unknown, or the
// member may no longer sign in.
func (s *Service) CurrentUser(ctx context.Context, id *session.Identity) (*domainUser.User, error) {
	if id == nil {
		return nil, nil
	}
	userID, err := uuid.Parse(id.SubjectID)
	if err != nil {
		s.logger.Warn().Str("subject_id", id.SubjectID).Msg("session subject is not a user id")
		return nil, nil
	}
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil || !u.CanSignIn() {
		return nil, nil
	}
	return u, nil
}
