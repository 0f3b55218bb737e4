package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	appAuth "github.com/team-portal/portal/internal/application/auth"
	appUser "github.com/team-portal/portal/internal/application/user"
	"github.com/team-portal/portal/internal/domain/route"
	"github.com/team-portal/portal/internal/domain/session"
	domainUser "github.com/team-portal/portal/internal/domain/user"
	userMocks "github.com/team-portal/portal/internal/domain/user/mocks"
	"github.com/team-portal/portal/internal/infrastructure/token"
)

const (
	testCookieName = "app-session"
	testPassword   = "Rovers#2024"
)

func testRoutes() route.Table {
	return route.Table{
		Public:      []string{"/", "/logo.svg", "/register", "/reset-password"},
		AuthOnly:    []string{"/login", "/forgot-password", "/new-password"},
		Excluded:    []string{"/static/*", "/favicon.ico", "/healthz", "/v1/*"},
		LoginPath:   "/login",
		LandingPath: "/dashboard",
	}
}

func newTestCodec(t *testing.T) *token.Codec {
	t.Helper()
	c, err := token.NewCodec(token.Config{Algorithm: "HS256", Secret: []byte("0123456789abcdef0123456789abcdef")})
	require.NoError(t, err)
	return c
}

// countingReader records how often the transport layer is consulted.
type countingReader struct {
	inner TokenReader
	calls int
}

func (c *countingReader) Read(r *http.Request) (string, bool) {
	c.calls++
	return c.inner.Read(r)
}

type testEnv struct {
	codec    *token.Codec
	store    *SessionStore
	reader   *countingReader
	verifier *Verifier
	repo     *userMocks.MockRepository
	server   *Server
	handler  http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctrl := gomock.NewController(t)
	repo := userMocks.NewMockRepository(ctrl)
	logger := zerolog.Nop()

	codec := newTestCodec(t)
	store := NewSessionStore(codec, testCookieName, 24*time.Hour, true)
	reader := &countingReader{inner: store}
	verifier := NewVerifier(reader, codec, logger)

	server, err := NewServer(
		appAuth.NewService(repo, logger),
		appUser.NewService(repo, logger),
		store,
		verifier,
		testRoutes(),
		Options{RateLimitRPS: 1000, RateLimitBurst: 1000},
		logger,
	)
	require.NoError(t, err)

	return &testEnv{
		codec:    codec,
		store:    store,
		reader:   reader,
		verifier: verifier,
		repo:     repo,
		server:   server,
		handler:  server.Router(),
	}
}

// issueCookie returns a session cookie for subjectID as a browser would send it.
func (e *testEnv) issueCookie(t *testing.T, subjectID string) *http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	_, err := e.store.Create(rec, subjectID)
	require.NoError(t, err)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	return &http.Cookie{Name: cookies[0].Name, Value: cookies[0].Value}
}

func (e *testEnv) cookieWithExpiry(t *testing.T, subjectID string, expiresAt time.Time) *http.Cookie {
	t.Helper()
	raw, err := e.codec.Encode(session.Payload{SubjectID: subjectID, IssuedAt: expiresAt.Add(-time.Hour), ExpiresAt: expiresAt})
	require.NoError(t, err)
	return &http.Cookie{Name: testCookieName, Value: raw}
}

func newMember(t *testing.T, state domainUser.State, roles ...domainUser.Role) *domainUser.User {
	t.Helper()
	hash, err := domainUser.HashPassword(testPassword)
	require.NoError(t, err)
	if len(roles) == 0 {
		roles = []domainUser.Role{domainUser.RolePlayer}
	}
	return &domainUser.User{
		UserID:       uuid.New(),
		FullName:     "Nguyen Van A",
		Email:        "player@rovers.vn",
		PasswordHash: hash,
		Roles:        roles,
		State:        state,
	}
}
