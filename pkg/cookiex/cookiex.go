// Package cookiex manages the shared authentication cookies every service
// in the platform reads: the two HttpOnly token cookies and the
// script-readable userInfo cookie.
package cookiex

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"
)

const (
	CookieAccessToken  = "accessToken"
	CookieRefreshToken = "refreshToken"
	CookieUserInfo     = "userInfo"
)

// UserInfo is the non-sensitive profile snapshot exposed to frontend
// JavaScript through the userInfo cookie.
type UserInfo struct {
	UserID      string `json:"userId"`
	Email       string `json:"email"`
	UserType    string `json:"userType"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
}

// Manager writes and clears the session cookies with a consistent scope so
// that every subdomain of the platform root sees the same session.
type Manager struct {
	rootDomain string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewManager(rootDomain string, accessTTL, refreshTTL time.Duration) *Manager {
	return &Manager{
		rootDomain: strings.TrimPrefix(strings.ToLower(rootDomain), "."),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// SetSession writes the three session cookies. The refreshToken and
// userInfo cookies deliberately outlive the access token so the frontend
// can detect an expired session and silently refresh it.
func (m *Manager) SetSession(w http.ResponseWriter, r *http.Request, accessToken, refreshToken string, info UserInfo) error {
	scope := m.scopeFor(r)

	payload, err := EncodeUserInfo(info)
	if err != nil {
		return err
	}

	m.set(w, scope, CookieAccessToken, accessToken, int(m.accessTTL.Seconds()), true)
	m.set(w, scope, CookieRefreshToken, refreshToken, int(m.refreshTTL.Seconds()), true)
	m.set(w, scope, CookieUserInfo, payload, int(m.refreshTTL.Seconds()), false)
	return nil
}

// EncodeUserInfo renders the userInfo cookie value: base64 over camelCase
// JSON, readable by frontend scripts.
func EncodeUserInfo(info UserInfo) (string, error) {
	payload, err := json.Marshal(info)
	if err != nil {
		return "", fmt.Errorf("cookiex: encode user info: %w", err)
	}
	return base64.StdEncoding.EncodeToString(payload), nil
}

// Clear expires the three session cookies using the same scope derivation
// that set them, otherwise browsers keep the originals.
func (m *Manager) Clear(w http.ResponseWriter, r *http.Request) {
	scope := m.scopeFor(r)
	m.set(w, scope, CookieAccessToken, "", -1, true)
	m.set(w, scope, CookieRefreshToken, "", -1, true)
	m.set(w, scope, CookieUserInfo, "", -1, false)
}

// DecodeUserInfo parses a userInfo cookie value. The cookie is
// client-writable, so callers must treat failures as benign.
func DecodeUserInfo(value string) (UserInfo, error) {
	var info UserInfo

	raw, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return info, fmt.Errorf("cookiex: decode user info: %w", err)
	}
	if err := json.Unmarshal(raw, &info); err != nil {
		return info, fmt.Errorf("cookiex: decode user info: %w", err)
	}
	return info, nil
}

type cookieScope struct {
	domain   string
	secure   bool
	sameSite http.SameSite
}

func (m *Manager) set(w http.ResponseWriter, scope cookieScope, name, value string, maxAge int, httpOnly bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   scope.domain,
		MaxAge:   maxAge,
		HttpOnly: httpOnly,
		Secure:   scope.secure,
		SameSite: scope.sameSite,
	})
}

// scopeFor derives the cookie Domain and security attributes from the
// request host:
//
//   - loopback hosts get no Domain attribute so local dev just works
//   - hosts under the platform root share the parent domain (with the
//     service label stripped) so sibling subdomains see the session, and
//     always get Secure + SameSite=None for cross-subdomain XHR
//   - anything else is scoped to itself, Lax, Secure only when the request
//     actually arrived over TLS
func (m *Manager) scopeFor(r *http.Request) cookieScope {
	host := hostOnly(r.Host)

	if isLoopback(host) {
		return cookieScope{sameSite: http.SameSiteLaxMode, secure: requestIsTLS(r)}
	}

	if m.rootDomain != "" && (host == m.rootDomain || strings.HasSuffix(host, "."+m.rootDomain)) {
		domain := "." + m.rootDomain
		if host != m.rootDomain {
			if _, parent, ok := strings.Cut(host, "."); ok {
				domain = "." + parent
			}
		}
		return cookieScope{domain: domain, secure: true, sameSite: http.SameSiteNoneMode}
	}

	return cookieScope{domain: host, secure: requestIsTLS(r), sameSite: http.SameSiteLaxMode}
}

func hostOnly(hostport string) string {
	if host, _, err := net.SplitHostPort(hostport); err == nil {
		return strings.ToLower(host)
	}
	return strings.ToLower(strings.Trim(hostport, "[]"))
}

func isLoopback(host string) bool {
	if host == "localhost" {
		return true
	}
	if ip := net.ParseIP(host); ip != nil {
		return ip.IsLoopback()
	}
	return false
}

func requestIsTLS(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	return strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}
