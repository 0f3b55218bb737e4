package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/team-portal/portal/internal/domain/session"
)

var (
	ErrUnsupportedAlgorithm = errors.New("token: unsupported signing algorithm")
	ErrEmptySecret          = errors.New("token: signing secret is empty")
)

// SupportedAlgorithms lists the HMAC JWS algorithms a Codec can be built with.
var SupportedAlgorithms = []string{"HS256", "HS384", "HS512"}

// Config holds the signing material. It is read once at startup.
type Config struct {
	Algorithm string
	Secret    []byte
}

// Codec signs and verifies session tokens as compact JWS.
type Codec struct {
	method *jwt.SigningMethodHMAC
	secret []byte
	parser *jwt.Parser
}

// claims is the wire form of session.Payload. exp/iat carry second precision
// for generic JWT consumers; expires_at is the authoritative expiry.
type claims struct {
	jwt.RegisteredClaims
	ExpiresAtTime time.Time `json:"expires_at"`
}

// NewCodec validates cfg and builds a Codec.
func NewCodec(cfg Config) (*Codec, error) {
	method, ok := jwt.GetSigningMethod(cfg.Algorithm).(*jwt.SigningMethodHMAC)
	if !ok || !IsSupported(cfg.Algorithm) {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, cfg.Algorithm)
	}
	if len(cfg.Secret) == 0 {
		return nil, ErrEmptySecret
	}
	secret := make([]byte, len(cfg.Secret))
	copy(secret, cfg.Secret)

	return &Codec{
		method: method,
		secret: secret,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{method.Alg()}),
			jwt.WithStrictDecoding(),
			jwt.WithoutClaimsValidation(),
		),
	}, nil
}

// Algorithm returns the configured JWS algorithm name.
func (c *Codec) Algorithm() string {
	return c.method.Alg()
}

// Encode signs the payload. IssuedAt is carried with second precision.
func (c *Codec) Encode(p session.Payload) (string, error) {
	if p.SubjectID == "" {
		return "", errors.New("token: subject is required")
	}
	tok := jwt.NewWithClaims(c.method, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.SubjectID,
			IssuedAt:  jwt.NewNumericDate(p.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(p.ExpiresAt),
		},
		ExpiresAtTime: p.ExpiresAt.UTC(),
	})
	signed, err := tok.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("token: sign: %w", err)
	}
	return signed, nil
}

// Decode verifies the token signature and returns its payload. Expiry is not
// checked here. Errors wrap session.ErrMalformed or session.ErrInvalidSignature.
func (c *Codec) Decode(raw string) (session.Payload, error) {
	if raw == "" {
		return session.Payload{}, session.ErrMalformed
	}
	var cl claims
	_, err := c.parser.ParseWithClaims(raw, &cl, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != c.method.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return c.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenSignatureInvalid) || errors.Is(err, jwt.ErrTokenUnverifiable) {
			return session.Payload{}, fmt.Errorf("%w: %v", session.ErrInvalidSignature, err)
		}
		return session.Payload{}, fmt.Errorf("%w: %v", session.ErrMalformed, err)
	}
	if cl.Subject == "" || cl.ExpiresAtTime.IsZero() {
		return session.Payload{}, fmt.Errorf("%w: missing subject or expiry", session.ErrMalformed)
	}

	p := session.Payload{
		SubjectID: cl.Subject,
		ExpiresAt: cl.ExpiresAtTime,
	}
	if cl.IssuedAt != nil {
		p.IssuedAt = cl.IssuedAt.Time
	}
	return p, nil
}

// IsSupported reports whether alg is one of SupportedAlgorithms.
func IsSupported(alg string) bool {
	for _, a := range SupportedAlgorithms {
		if a == alg {
			return true
		}
	}
	return false
}
