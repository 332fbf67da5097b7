// Package identitysdk is the client other platform services use to talk to
// the identity service. User-facing calls work with any http.Client; the
// internal endpoints expect a client built by internalx so the shared key
// rides along.
package identitysdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client is a client for the identity service.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates an identity client. Pass an internalx client to reach
// the /internal endpoints; a nil httpClient gets a plain 10s-timeout client.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		HTTPClient: httpClient,
	}
}

// Login exchanges credentials for a token pair.
func (c *Client) Login(ctx context.Context, email, password string) (*TokenResult, error) {
	var result TokenResult
	err := c.do(ctx, http.MethodPost, "/api/auth/login", loginRequest{Email: email, Password: password}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Refresh rotates a refresh token for a fresh token pair. The presented
// token is dead afterwards whether or not the call succeeds on the wire;
// callers must adopt the returned pair.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*TokenResult, error) {
	var result TokenResult
	err := c.do(ctx, http.MethodPost, "/api/auth/refresh", refreshRequest{RefreshToken: refreshToken}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Logout performs the central logout: the refresh token is revoked
// server-side, not just dropped.
func (c *Client) Logout(ctx context.Context, refreshToken string) error {
	return c.do(ctx, http.MethodPost, "/api/auth/logout", refreshRequest{RefreshToken: refreshToken}, nil)
}

// GetUser fetches a user profile. Internal endpoint.
func (c *Client) GetUser(ctx context.Context, userID string) (*UserProfile, error) {
	var profile UserProfile
	err := c.do(ctx, http.MethodGet, "/internal/users/"+url.PathEscape(userID), nil, &profile)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// RevokeAllTokens kills every active refresh token a user holds. Internal
// endpoint, used on password resets and account compromise.
func (c *Client) RevokeAllTokens(ctx context.Context, userID string) error {
	return c.do(ctx, http.MethodPost, "/internal/users/"+url.PathEscape(userID)+"/revoke-tokens", nil, nil)
}

// Livez reports whether the identity service answers its liveness probe.
// The probe is not enveloped; only the status code matters.
func (c *Client) Livez(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/livez", nil)
	if err != nil {
		return fmt.Errorf("identitysdk: build request: %w", err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("identitysdk: livez: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))

	if resp.StatusCode != http.StatusOK {
		return &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}
	return nil
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken,omitempty"`
}

// envelope mirrors the identity service response body.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("identitysdk: encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("identitysdk: build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("identitysdk: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("identitysdk: read response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !env.Success {
		return &APIError{StatusCode: resp.StatusCode, Message: env.Message}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("identitysdk: decode response data: %w", err)
		}
	}
	return nil
}
