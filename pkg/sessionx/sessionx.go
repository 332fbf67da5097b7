// Package sessionx provides the session endpoints every service mounts:
// a cheap cookie introspection check the frontends poll, and a local
// logout that drops the cookies without touching the token store.
package sessionx

import (
	"net/http"
	"time"

	"github.com/adoptly/adoptly/pkg/cookiex"
	"github.com/adoptly/adoptly/pkg/httpx"
	"github.com/adoptly/adoptly/pkg/jwtx"
	"github.com/adoptly/adoptly/pkg/slogx"
)

// Status is the introspection result returned to frontends.
type Status struct {
	Authenticated   bool              `json:"authenticated"`
	RequiresRefresh bool              `json:"requiresRefresh,omitempty"`
	RedirectURL     string            `json:"redirectUrl,omitempty"`
	User            *cookiex.UserInfo `json:"user,omitempty"`
}

type Handler struct {
	verifier *jwtx.Verifier
	cookies  *cookiex.Manager
	loginURL string
}

func NewHandler(verifier *jwtx.Verifier, cookies *cookiex.Manager, loginURL string) *Handler {
	return &Handler{verifier: verifier, cookies: cookies, loginURL: loginURL}
}

// Mount registers the session routes on mux.
func (h *Handler) Mount(mux *http.ServeMux) {
	mux.Handle("GET /api/auth/check", httpx.Chain(
		http.HandlerFunc(h.Check),
		httpx.RateLimitByIP(httpx.LenientLimit),
	))
	mux.Handle("POST /api/auth/logout", httpx.Chain(
		http.HandlerFunc(h.Logout),
		httpx.RateLimitByIP(httpx.ModerateLimit),
	))
}

// Check reports the session state for the calling browser. It always
// answers 200: an absent or broken session is a normal state for the
// frontend, not an error.
func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	access, err := r.Cookie(cookiex.CookieAccessToken)
	if err != nil || access.Value == "" {
		httpx.OK(w, http.StatusOK, "", Status{Authenticated: false, RedirectURL: h.loginURL})
		return
	}

	// Both session cookies are set together; a missing userInfo cookie
	// means the session is partial and the browser should log in again.
	userInfo, err := r.Cookie(cookiex.CookieUserInfo)
	if err != nil || userInfo.Value == "" {
		httpx.OK(w, http.StatusOK, "", Status{Authenticated: false, RedirectURL: h.loginURL})
		return
	}

	// Structural pre-check so an expired token can be told apart from
	// garbage. Authorization still rests on full verification below.
	claims, err := jwtx.Peek(access.Value)
	if err != nil {
		httpx.OK(w, http.StatusOK, "", Status{Authenticated: false, RedirectURL: h.loginURL})
		return
	}

	if claims.ExpiresAt != nil && !claims.ExpiresAt.After(time.Now()) {
		httpx.OK(w, http.StatusOK, "", Status{
			Authenticated:   false,
			RequiresRefresh: true,
			RedirectURL:     h.loginURL,
		})
		return
	}

	if _, err := h.verifier.Verify(access.Value); err != nil {
		slogx.FromContext(r.Context()).Warn("session check: token failed verification")
		httpx.OK(w, http.StatusOK, "", Status{Authenticated: false, RedirectURL: h.loginURL})
		return
	}

	status := Status{Authenticated: true}
	// The cookie is client-writable; an unreadable value only degrades the
	// response to a profile-less session.
	if info, err := cookiex.DecodeUserInfo(userInfo.Value); err == nil {
		status.User = &info
	} else {
		slogx.FromContext(r.Context()).Debug("session check: unreadable userInfo cookie")
	}
	httpx.OK(w, http.StatusOK, "", status)
}

// Logout drops the session cookies for this browser. The refresh token
// stays valid server-side; only the central identity logout revokes it.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.cookies.Clear(w, r)
	httpx.OK(w, http.StatusOK, "Logged out", map[string]string{"redirectUrl": h.loginURL})
}
