package httpapi

import (
	"net/http"
	"time"

	"github.com/team-portal/portal/internal/domain/session"
)

// TokenEncoder signs session payloads.
type TokenEncoder interface {
	Encode(p session.Payload) (string, error)
}

// SessionStore keeps the signed session token in a single HTTP cookie.
type SessionStore struct {
	name    string
	ttl     time.Duration
	secure  bool
	encoder TokenEncoder
	now     func() time.Time
}

// NewSessionStore creates a cookie-backed session store.
func NewSessionStore(encoder TokenEncoder, cookieName string, ttl time.Duration, secure bool) *SessionStore {
	return &SessionStore{
		name:    cookieName,
		ttl:     ttl,
		secure:  secure,
		encoder: encoder,
		now:     time.Now,
	}
}

// CookieName returns the session cookie name.
func (s *SessionStore) CookieName() string {
	return s.name
}

// Create issues a new session for subjectID and writes it to the response.
// It must be called before the response header is written.
func (s *SessionStore) Create(w http.ResponseWriter, subjectID string) (session.Payload, error) {
	p := session.NewPayload(subjectID, s.now().UTC(), s.ttl)
	raw, err := s.encoder.Encode(p)
	if err != nil {
		return session.Payload{}, err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     s.name,
		Value:    raw,
		Path:     "/",
		Expires:  p.ExpiresAt,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return p, nil
}

// Read returns the raw session token, if the request carries one.
func (s *SessionStore) Read(r *http.Request) (string, bool) {
	c, err := r.Cookie(s.name)
	if err != nil || c.Value == "" {
		return "", false
	}
	return c.Value, true
}

// Delete instructs the client to drop the session cookie.
func (s *SessionStore) Delete(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
