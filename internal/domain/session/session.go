package session

import (
	"errors"
	"time"
)

var (
	// ErrMalformed means the token does not parse as a signed payload.
	ErrMalformed = errors.New("session: malformed token")
	// ErrInvalidSignature means the signature does not verify against the configured key and algorithm.
	ErrInvalidSignature = errors.New("session: invalid signature")
	// ErrExpired means the signature is valid but the session is past its expiry.
	ErrExpired = errors.New("session: expired")
)

// Kind classifies why a session could not be used.
type Kind string

const (
	KindNone             Kind = ""
	KindMalformed        Kind = "MALFORMED"
	KindInvalidSignature Kind = "INVALID_SIGNATURE"
	KindExpired          Kind = "EXPIRED"
)

// KindOf maps an error returned by the token codec or the verifier to its Kind.
// Unknown errors are reported as malformed.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrInvalidSignature):
		return KindInvalidSignature
	case errors.Is(err, ErrExpired):
		return KindExpired
	default:
		return KindMalformed
	}
}

// Payload is the content of a signed session token.
type Payload struct {
	SubjectID string    `json:"subjectId"`
	IssuedAt  time.Time `json:"issuedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// NewPayload builds a payload issued at now and valid for ttl.
func NewPayload(subjectID string, now time.Time, ttl time.Duration) Payload {
	return Payload{
		SubjectID: subjectID,
		IssuedAt:  now,
		ExpiresAt: now.Add(ttl),
	}
}

// IsExpired reports whether the session is no longer valid at now.
// A session is valid only while now is strictly before ExpiresAt.
func (p Payload) IsExpired(now time.Time) bool {
	return !now.Before(p.ExpiresAt)
}

// Identity is the authenticated principal derived from a valid session.
type Identity struct {
	SubjectID string `json:"subjectId"`
}
