package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	domain "github.com/team-portal/portal/internal/domain/user"
)

var (
	// ErrEmailTaken is returned when the email already belongs to a member.
	ErrEmailTaken = domain.ErrEmailTaken
	// ErrBootstrapped is returned once the first member exists.
	ErrBootstrapped = errors.New("bootstrap already completed")
)

// Service handles member management.
type Service struct {
	repo   domain.Repository
	logger zerolog.Logger
	now    func() time.Time
}

// NewService creates a user service.
func NewService(repo domain.Repository, logger zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger.With().Str("service", "user").Logger(),
		now:    time.Now,
	}
}

// CreateInput defines member creation input.
type CreateInput struct {
	FullName string
	Email    string
	Password string
	Roles    []domain.Role
	State    domain.State
}

func (s *Service) CreateUser(ctx context.Context, input CreateInput) (*domain.User, error) {
	if err := s.validate(&input); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	u, err := s.newUser(input)
	if err != nil {
		return nil, err
	}
	// The unique index still decides when two requests race past the lookup.
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	s.logger.Info().Str("user_id", u.UserID.String()).Msg("user created")
	return u, nil
}

// Bootstrap creates the first member as an active super admin. It fails with
// ErrBootstrapped once any member exists, including when another bootstrap
// wins a race.
func (s *Service) Bootstrap(ctx context.Context, input CreateInput) (*domain.User, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrBootstrapped
	}

	input.Roles = []domain.Role{domain.RoleSuperAdmin}
	input.State = domain.StateActive
	if err := s.validate(&input); err != nil {
		return nil, err
	}
	u, err := s.newUser(input)
	if err != nil {
		return nil, err
	}
	if err := s.repo.CreateFirst(ctx, u); err != nil {
		if errors.Is(err, domain.ErrNotEmpty) {
			return nil, ErrBootstrapped
		}
		return nil, fmt.Errorf("bootstrap user: %w", err)
	}
	s.logger.Info().Str("user_id", u.UserID.String()).Msg("super admin bootstrapped")
	return u, nil
}

// validate checks input and fills in the default role and state.
func (s *Service) validate(input *CreateInput) error {
	input.Email = domain.NormalizeEmail(input.Email)
	if err := domain.ValidateEmail(input.Email); err != nil {
		return err
	}
	if err := domain.ValidateFullName(input.FullName); err != nil {
		return err
	}
	if err := domain.ValidatePassword(input.Password); err != nil {
		return err
	}
	if len(input.Roles) == 0 {
		input.Roles = []domain.Role{domain.RolePlayer}
	}
	for _, r := range input.Roles {
		if err := domain.ValidateRole(r); err != nil {
			return err
		}
	}
	if input.State == "" {
		input.State = domain.StateUnknown
	}
	return domain.ValidateState(input.State)
}

func (s *Service) newUser(input CreateInput) (*domain.User, error) {
	hash, err := domain.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	return &domain.User{
		UserID:       uuid.New(),
		FullName:     input.FullName,
		Email:        input.Email,
		PasswordHash: hash,
		Roles:        input.Roles,
		State:        input.State,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func (s *Service) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("user not found")
	}
	return u, nil
}
