package user

//go:generate go run go.uber.org/mock/mockgen -destination=mocks/mock_repository.go -package=mocks . Repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	// ErrEmailTaken is returned when the email already belongs to a member.
	ErrEmailTaken = errors.New("email is already registered")
	// ErrNotEmpty is returned by CreateFirst when members already exist.
	ErrNotEmpty = errors.New("members already exist")
)

// Repository defines persistence for users. Create returns ErrEmailTaken
// when the email is already stored.
type Repository interface {
	Create(ctx context.Context, user *User) error
	// CreateFirst stores user only if there are no members yet. Concurrent
	// calls are serialized so at most one succeeds.
	CreateFirst(ctx context.Context, user *User) error
	GetByID(ctx context.Context, userID uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Count(ctx context.Context) (int, error)
}
