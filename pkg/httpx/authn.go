package httpx

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/adoptly/adoptly/pkg/cookiex"
	"github.com/adoptly/adoptly/pkg/jwtx"
	"github.com/adoptly/adoptly/pkg/slogx"
)

// HeaderInternalKey carries the shared secret on service-to-service calls.
const HeaderInternalKey = "X-Internal-API-Key"

// AccessTokenCookie aliases the writer's cookie name so the reader and
// writer cannot drift apart.
const AccessTokenCookie = cookiex.CookieAccessToken

// Authenticator resolves the caller of a request into a Principal. Internal
// service calls trump cookie credentials; a valid internal key means the
// token, if any, is never inspected.
type Authenticator struct {
	verifier    *jwtx.Verifier
	internalKey []byte
	loginURL    string
}

func NewAuthenticator(verifier *jwtx.Verifier, internalKey, loginURL string) *Authenticator {
	return &Authenticator{
		verifier:    verifier,
		internalKey: []byte(internalKey),
		loginURL:    loginURL,
	}
}

// LoginURL is where unauthenticated browsers get redirected.
func (a *Authenticator) LoginURL() string { return a.loginURL }

// Middleware attempts to authenticate the request and, on success, injects
// the Principal into the context. It never rejects; authorization policies
// decide what an anonymous request may do.
func (a *Authenticator) Middleware() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if a.isInternal(r) {
				ctx = contextWithPrincipal(ctx, Principal{
					UserID:   InternalUserID,
					UserType: "Internal",
					Internal: true,
				})
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			raw := accessTokenFromRequest(r)
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := a.verifier.Verify(raw)
			if err != nil {
				slogx.FromContext(ctx).Debug("access token rejected", "err", err)
				next.ServeHTTP(w, r)
				return
			}

			ctx = contextWithPrincipal(ctx, Principal{
				UserID:   claims.UserID(),
				Email:    claims.Email,
				UserType: claims.UserType,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func (a *Authenticator) isInternal(r *http.Request) bool {
	key := r.Header.Get(HeaderInternalKey)
	if key == "" || len(a.internalKey) == 0 {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(key), a.internalKey) == 1
}

// accessTokenFromRequest prefers the session cookie and falls back to a
// bearer Authorization header for non-browser clients.
func accessTokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(AccessTokenCookie); err == nil && c.Value != "" {
		return c.Value
	}

	authz := r.Header.Get("Authorization")
	if strings.HasPrefix(authz, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authz, "Bearer "))
	}
	return ""
}
