package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adoptly/adoptly/pkg/jwtx"
)

const (
	testInternalKey = "internal-test-secret"
	testLoginURL    = "https://www.example.com/login"
)

func newTestAuthenticator(t *testing.T) (*Authenticator, *jwtx.Signer) {
	t.Helper()

	secret := []byte("0123456789abcdef0123456789abcdef")
	signer, err := jwtx.NewSigner(secret, "adoptly-identity", "adoptly", time.Hour)
	require.NoError(t, err)
	verifier, err := jwtx.NewVerifier(secret, "adoptly-identity", "adoptly")
	require.NoError(t, err)

	return NewAuthenticator(verifier, testInternalKey, testLoginURL), signer
}

func echoPrincipal(t *testing.T) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := PrincipalFromContext(r.Context())
		if !ok {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		WriteJSON(w, http.StatusOK, p)
	})
}

func TestAuthenticator_CookieToken(t *testing.T) {
	auth, signer := newTestAuthenticator(t)
	h := Chain(echoPrincipal(t), auth.Middleware())

	raw, err := signer.Sign(jwtx.Profile{UserID: "u1", Email: "u1@example.com", UserType: "adopter"}, time.Now())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: raw})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var p Principal
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&p))
	assert.Equal(t, "u1", p.UserID)
	assert.Equal(t, "adopter", p.UserType)
	assert.False(t, p.Internal)
}

func TestAuthenticator_BearerFallback(t *testing.T) {
	auth, signer := newTestAuthenticator(t)
	h := Chain(echoPrincipal(t), auth.Middleware())

	raw, err := signer.Sign(jwtx.Profile{UserID: "u2", UserType: "shelter_admin"}, time.Now())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var p Principal
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&p))
	assert.Equal(t, "u2", p.UserID)
}

func TestAuthenticator_InternalKey(t *testing.T) {
	auth, _ := newTestAuthenticator(t)
	h := Chain(echoPrincipal(t), auth.Middleware())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderInternalKey, testInternalKey)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var p Principal
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&p))
	assert.True(t, p.Internal)
	assert.Equal(t, InternalUserID, p.UserID)
	assert.Equal(t, "Internal", p.UserType)
}

func TestAuthenticator_WrongInternalKey(t *testing.T) {
	auth, _ := newTestAuthenticator(t)
	h := Chain(echoPrincipal(t), auth.Middleware())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderInternalKey, "guess")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code, "wrong key must not authenticate")
}

func TestAuthenticator_BadTokenIsAnonymous(t *testing.T) {
	auth, _ := newTestAuthenticator(t)
	h := Chain(echoPrincipal(t), auth.Middleware())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: "garbage"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}
