package httpapi

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/team-portal/portal/internal/domain/session"
)

// TokenReader extracts the raw session token from a request.
type TokenReader interface {
	Read(r *http.Request) (string, bool)
}

// TokenDecoder verifies a raw token and returns its payload.
type TokenDecoder interface {
	Decode(raw string) (session.Payload, error)
}

// Verifier turns the session cookie of a request into an identity.
// Verify never fails: a missing, malformed, forged or expired session
// yields nil.
type Verifier struct {
	reader  TokenReader
	decoder TokenDecoder
	now     func() time.Time
	logger  zerolog.Logger
}

// NewVerifier creates a session verifier.
func NewVerifier(reader TokenReader, decoder TokenDecoder, logger zerolog.Logger) *Verifier {
	return &Verifier{
		reader:  reader,
		decoder: decoder,
		now:     time.Now,
		logger:  logger.With().Str("component", "session_verifier").Logger(),
	}
}

type requestSessionKey struct{}

// requestSession memoizes the verification result for one request.
type requestSession struct {
	once     sync.Once
	identity *session.Identity
}

// withRequestSession returns r with a fresh per-request verification cache,
// or r itself when one is already installed.
func withRequestSession(r *http.Request) *http.Request {
	if _, ok := r.Context().Value(requestSessionKey{}).(*requestSession); ok {
		return r
	}
	ctx := context.WithValue(r.Context(), requestSessionKey{}, &requestSession{})
	return r.WithContext(ctx)
}

// RequestSession installs the per-request verification cache.
func RequestSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, withRequestSession(r))
	})
}

// Verify returns the identity of the request's session or nil. Within a
// request carrying the RequestSession cache the cookie is read and decoded
// at most once.
func (v *Verifier) Verify(r *http.Request) *session.Identity {
	if rs, ok := r.Context().Value(requestSessionKey{}).(*requestSession); ok {
		rs.once.Do(func() {
			rs.identity = v.verify(r)
		})
		return rs.identity
	}
	return v.verify(r)
}

func (v *Verifier) verify(r *http.Request) (id *session.Identity) {
	defer func() {
		if rec := recover(); rec != nil {
			v.logger.Error().Interface("panic", rec).Msg("session verification panicked")
			id = nil
		}
	}()

	raw, ok := v.reader.Read(r)
	if !ok {
		return nil
	}
	p, err := v.decoder.Decode(raw)
	if err != nil {
		v.logger.Warn().
			Str("kind", string(session.KindOf(err))).
			Str("path", r.URL.Path).
			Err(err).
			Msg("failed to verify session")
		return nil
	}
	if p.IsExpired(v.now()) {
		v.logger.Debug().
			Str("kind", string(session.KindExpired)).
			Str("subject_id", p.SubjectID).
			Msg("session expired")
		return nil
	}
	return &session.Identity{SubjectID: p.SubjectID}
}
