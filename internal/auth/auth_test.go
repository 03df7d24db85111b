package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEnv(t *testing.T) *Authenv {
	t.Helper()
	env, err := New("admin", "s3cret", []byte("test-key"))
	require.NoError(t, err)
	return env
}

func protected(env *Authenv) http.Handler {
	return env.AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, _ := UserFromContext(r.Context())
		w.Write([]byte(u))
	}))
}

func TestNew_Requires(t *testing.T) {
	_, err := New("admin", "", []byte("k"))
	assert.Error(t, err)
	_, err = New("admin", "p", nil)
	assert.Error(t, err)
}

func TestBasicAuth(t *testing.T) {
	h := protected(newEnv(t))

	req := httptest.NewRequest(http.MethodGet, "/api/runs", nil)
	req.SetBasicAuth("admin", "s3cret")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "admin", rec.Body.String())

	req.SetBasicAuth("admin", "wrong")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Header().Get("WWW-Authenticate"), "Basic")

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/runs", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginCookie(t *testing.T) {
	env := newEnv(t)
	rec := httptest.NewRecorder()
	env.AuthHandler(rec, httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(`{"login":"admin","password":"s3cret"}`)))
	require.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/api/runs", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	protected(env).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	env.AuthHandler(rec, httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(`{"login":"admin","password":"nope"}`)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBearerToken(t *testing.T) {
	env := newEnv(t)
	good, err := env.NewToken("admin", time.Now())
	require.NoError(t, err)
	expired, err := env.NewToken("admin", time.Now().Add(-2*TokenTTL))
	require.NoError(t, err)
	other := &Authenv{JWTkey: []byte("other-key"), User: "admin"}
	forged, err := other.NewToken("admin", time.Now())
	require.NoError(t, err)

	for tok, want := range map[string]int{
		good:    http.StatusOK,
		expired: http.StatusUnauthorized,
		forged:  http.StatusUnauthorized,
	} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		rec := httptest.NewRecorder()
		protected(env).ServeHTTP(rec, req)
		assert.Equal(t, want, rec.Code)
	}
}

func TestDisabled(t *testing.T) {
	env := &Authenv{User: "admin", Disabled: true}
	rec := httptest.NewRecorder()
	protected(env).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimiter(t *testing.T) {
	l := NewIPRateLimiter(0.001, 2)
	h := l.LimitMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	codes := []int{}
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:4000" + string(rune('0'+i))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{200, 200, 429}, codes)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.2:5000"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
