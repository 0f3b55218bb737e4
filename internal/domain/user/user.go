package user

import (
	"errors"
	"net/mail"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Role represents a member role.
type Role string

const (
	RoleSuperAdmin Role = "SUPER_ADMIN"
	RoleCoach      Role = "COACH"
	RoleCaptain    Role = "CAPTAIN"
	RolePlayer     Role = "PLAYER"
	RoleGuest      Role = "GUEST"
)

// State represents membership state.
type State string

const (
	StateUnknown           State = "UNKNOWN"
	StateActive            State = "ACTIVE"
	StateInactive          State = "INACTIVE"
	StateTemporarilyAbsent State = "TEMPORARILY_ABSENT"
)

// User represents a portal member.
type User struct {
	ID           int64     `json:"id"`
	UserID       uuid.UUID `json:"userId"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Roles        []Role    `json:"roles"`
	State        State     `json:"state"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// CanSignIn reports whether the member may hold a session.
func (u *User) CanSignIn() bool {
	return u.State != StateInactive
}

func (u *User) HasRole(role Role) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func ValidateEmail(email string) error {
	if email == "" {
		return errors.New("email is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return errors.New("please enter a valid email")
	}
	return nil
}

func ValidateFullName(name string) error {
	n := len([]rune(strings.TrimSpace(name)))
	if n < 6 || n > 128 {
		return errors.New("full name must be 6-128 characters")
	}
	return nil
}

func ValidatePassword(password string) error {
	if len(password) < 8 || len(password) > 128 {
		return errors.New("password must be 8-128 characters")
	}
	var hasLetter, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case r < unicode.MaxASCII && unicode.IsLetter(r):
			hasLetter = true
		case r < unicode.MaxASCII && unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSpecial = true
		}
	}
	if !hasLetter || !hasDigit || !hasSpecial {
		return errors.New("password must include a letter, a number, and a special character")
	}
	return nil
}

func HashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("password is required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func VerifyPassword(hash string, password string) bool {
	if hash == "" || password == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func ValidateRole(role Role) error {
	switch role {
	case RoleSuperAdmin, RoleCoach, RoleCaptain, RolePlayer, RoleGuest:
		return nil
	default:
		return errors.New("invalid role")
	}
}

func ValidateState(state State) error {
	switch state {
	case StateUnknown, StateActive, StateInactive, StateTemporarilyAbsent:
		return nil
	default:
		return errors.New("invalid state")
	}
}
