package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type gateResult struct {
	proceeded bool
	code      int
	location  string
}

func runGate(t *testing.T, env *testEnv, path string, cookie *http.Cookie) gateResult {
	t.Helper()
	gate := NewRouteGate(testRoutes(), env.verifier, zerolog.Nop())
	var res gateResult
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		res.proceeded = true
		w.WriteHeader(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	require.NotPanics(t, func() {
		gate.Handler(next).ServeHTTP(rec, req)
	})
	res.code = rec.Code
	res.location = rec.Header().Get("Location")
	return res
}

func TestRouteGate_Decisions(t *testing.T) {
	env := newTestEnv(t)
	session := env.issueCookie(t, "user-1")

	tests := []struct {
		name     string
		path     string
		cookie   *http.Cookie
		proceeds bool
		location string
	}{
		{"auth-only with session", "/login", session, false, "/dashboard"},
		{"auth-only without session", "/login", nil, true, ""},
		{"forgot password with session", "/forgot-password", session, false, "/dashboard"},
		{"forgot password without session", "/forgot-password", nil, true, ""},
		{"protected with session", "/dashboard", session, true, ""},
		{"protected without session", "/dashboard", nil, false, "/login"},
		{"public with session", "/logo.svg", session, true, ""},
		{"public without session", "/logo.svg", nil, true, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := runGate(t, env, tt.path, tt.cookie)
			assert.Equal(t, tt.proceeds, res.proceeded)
			if tt.proceeds {
				assert.Equal(t, http.StatusNoContent, res.code)
				return
			}
			assert.Equal(t, http.StatusTemporaryRedirect, res.code)
			assert.Equal(t, tt.location, res.location)
		})
	}
}

func TestRouteGate_GarbageCookieNeverFails(t *testing.T) {
	env := newTestEnv(t)
	values := []string{"garbage", "a.b.c", "....", "eyJhbGciOiJub25lIn0.e30.", "x"}
	for _, v := range values {
		cookie := &http.Cookie{Name: testCookieName, Value: v}

		res := runGate(t, env, "/dashboard", cookie)
		assert.False(t, res.proceeded, v)
		assert.Equal(t, http.StatusTemporaryRedirect, res.code, v)
		assert.Equal(t, "/login", res.location, v)

		res = runGate(t, env, "/login", cookie)
		assert.True(t, res.proceeded, v)
	}
}

func TestRouteGate_ExpiredSessionRedirectsToLogin(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.cookieWithExpiry(t, "user-1", env.verifier.now().Add(-1))

	res := runGate(t, env, "/dashboard", cookie)
	assert.False(t, res.proceeded)
	assert.Equal(t, "/login", res.location)
}

func TestRouteGate_SkipsVerificationWhenNotNeeded(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.issueCookie(t, "user-1")

	for _, path := range []string{"/static/app.css", "/favicon.ico", "/v1/auth/login", "/logo.svg", "/"} {
		res := runGate(t, env, path, cookie)
		assert.True(t, res.proceeded, path)
	}
	assert.Equal(t, 0, env.reader.calls)
}

func TestRouteGate_SharesVerificationWithHandler(t *testing.T) {
	env := newTestEnv(t)
	gate := NewRouteGate(testRoutes(), env.verifier, zerolog.Nop())

	var seen string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := env.verifier.Verify(r); id != nil {
			seen = id.SubjectID
		}
	})

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(env.issueCookie(t, "user-1"))
	gate.Handler(next).ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "user-1", seen)
	assert.Equal(t, 1, env.reader.calls)
}
