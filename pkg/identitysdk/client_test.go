package identitysdk

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/auth/login", r.URL.Path)

		var body struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "u1@example.com", body.Email)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": map[string]any{
				"accessToken":  "jwt",
				"refreshToken": "opaque",
				"expiresAt":    time.Now().Add(time.Hour).Format(time.RFC3339),
				"user": map[string]any{
					"userId":   "u1",
					"email":    "u1@example.com",
					"userType": "adopter",
				},
			},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil)
	result, err := client.Login(context.Background(), "u1@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "jwt", result.AccessToken)
	assert.Equal(t, "opaque", result.RefreshToken)
	assert.Equal(t, "u1", result.User.UserID)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"message": "Invalid email or password",
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil)
	_, err := client.Login(context.Background(), "u1@example.com", "wrong")
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.Contains(t, err.Error(), "Invalid email or password")
}

func TestGetUser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/internal/users/u42", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": map[string]any{
				"userId":   "u42",
				"email":    "x@example.com",
				"userType": "shelter_admin",
			},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil)
	profile, err := client.GetUser(context.Background(), "u42")
	require.NoError(t, err)
	assert.Equal(t, "u42", profile.UserID)
	assert.Equal(t, "shelter_admin", profile.UserType)
}

func TestGetUser_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "User not found"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil)
	_, err := client.GetUser(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestRevokeAllTokens(t *testing.T) {
	var called bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/internal/users/u1/revoke-tokens", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "message": "Revoked"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil)
	require.NoError(t, client.RevokeAllTokens(context.Background(), "u1"))
	assert.True(t, called)
}

func TestDo_NonJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil)
	_, err := client.Refresh(context.Background(), "tok")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
}
