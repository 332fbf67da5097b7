package cookiex

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager() *Manager {
	return NewManager("example.com", time.Hour, 30*24*time.Hour)
}

func setSession(t *testing.T, m *Manager, host string, tls bool) map[string]*http.Cookie {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	req.Host = host
	if tls {
		req.Header.Set("X-Forwarded-Proto", "https")
	}

	rec := httptest.NewRecorder()
	err := m.SetSession(rec, req, "access-token-value", "refresh-token-value", UserInfo{
		UserID:   "u1",
		Email:    "u1@example.com",
		UserType: "adopter",
	})
	require.NoError(t, err)

	cookies := make(map[string]*http.Cookie)
	for _, c := range rec.Result().Cookies() {
		cookies[c.Name] = c
	}
	require.Len(t, cookies, 3)
	return cookies
}

func TestSetSession_Loopback(t *testing.T) {
	for _, host := range []string{"localhost:3000", "127.0.0.1:8080", "[::1]:8080"} {
		cookies := setSession(t, newTestManager(), host, false)
		for name, c := range cookies {
			assert.Empty(t, c.Domain, "%s on %s must not set Domain", name, host)
			assert.False(t, c.Secure, "%s on %s", name, host)
			assert.Equal(t, http.SameSiteLaxMode, c.SameSite, "%s on %s", name, host)
		}
	}
}

func TestSetSession_UnderRoot(t *testing.T) {
	cookies := setSession(t, newTestManager(), "api.development.example.com", false)

	for name, c := range cookies {
		assert.Equal(t, "development.example.com", c.Domain, name)
		assert.True(t, c.Secure, "%s under the root is always Secure", name)
		assert.Equal(t, http.SameSiteNoneMode, c.SameSite, name)
	}
}

func TestSetSession_RootApex(t *testing.T) {
	cookies := setSession(t, newTestManager(), "example.com", false)
	for name, c := range cookies {
		assert.Equal(t, "example.com", c.Domain, name)
		assert.Equal(t, http.SameSiteNoneMode, c.SameSite, name)
	}
}

func TestSetSession_UnrelatedHost(t *testing.T) {
	cookies := setSession(t, newTestManager(), "staging.other.net", false)
	for name, c := range cookies {
		assert.Equal(t, "staging.other.net", c.Domain, name)
		assert.False(t, c.Secure, name)
		assert.Equal(t, http.SameSiteLaxMode, c.SameSite, name)
	}

	cookies = setSession(t, newTestManager(), "staging.other.net", true)
	for name, c := range cookies {
		assert.True(t, c.Secure, "%s must be Secure behind TLS", name)
	}
}

func TestSetSession_Attributes(t *testing.T) {
	cookies := setSession(t, newTestManager(), "api.development.example.com", false)

	access := cookies[CookieAccessToken]
	assert.True(t, access.HttpOnly)
	assert.Equal(t, int(time.Hour.Seconds()), access.MaxAge)
	assert.Equal(t, "/", access.Path)

	refresh := cookies[CookieRefreshToken]
	assert.True(t, refresh.HttpOnly)
	assert.Equal(t, int((30 * 24 * time.Hour).Seconds()), refresh.MaxAge)

	info := cookies[CookieUserInfo]
	assert.False(t, info.HttpOnly, "userInfo must stay readable by scripts")
	assert.Equal(t, refresh.MaxAge, info.MaxAge, "userInfo lives as long as the refresh token")

	decoded, err := DecodeUserInfo(info.Value)
	require.NoError(t, err)
	assert.Equal(t, "u1", decoded.UserID)
	assert.Equal(t, "adopter", decoded.UserType)
}

func TestClear(t *testing.T) {
	m := newTestManager()

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.Host = "api.development.example.com"
	rec := httptest.NewRecorder()
	m.Clear(rec, req)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 3)
	for _, c := range cookies {
		assert.Empty(t, c.Value, c.Name)
		assert.Negative(t, c.MaxAge, c.Name)
		assert.Equal(t, "development.example.com", c.Domain, "clear must reuse the set-time scope")
	}
}

func TestDecodeUserInfo_Malformed(t *testing.T) {
	_, err := DecodeUserInfo("!!not-base64!!")
	assert.Error(t, err)

	_, err = DecodeUserInfo("bm90IGpzb24")
	assert.Error(t, err)
}
