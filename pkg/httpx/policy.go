package httpx

import (
	"net/http"
	"slices"

	"github.com/adoptly/adoptly/pkg/slogx"
)

// Authorization policies. Each policy assumes Middleware already ran and
// rejects requests whose principal does not satisfy it.

// RequireUserType allows authenticated users whose type is in types.
// Internal callers are rejected; use RequireUserOrInternal for endpoints
// that serve both.
func (a *Authenticator) RequireUserType(types ...string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFromContext(r.Context())
			if !ok {
				Unauthorized(w, "Authentication required", a.loginURL)
				return
			}
			if p.Internal || !slices.Contains(types, p.UserType) {
				a.forbid(w, r, p)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireInternal allows only trusted service-to-service callers.
func (a *Authenticator) RequireInternal() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFromContext(r.Context())
			if !ok {
				Unauthorized(w, "Authentication required", a.loginURL)
				return
			}
			if !p.Internal {
				a.forbid(w, r, p)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireUserOrInternal allows internal callers, or users whose type is in
// types.
func (a *Authenticator) RequireUserOrInternal(types ...string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFromContext(r.Context())
			if !ok {
				Unauthorized(w, "Authentication required", a.loginURL)
				return
			}
			if !p.Internal && !slices.Contains(types, p.UserType) {
				a.forbid(w, r, p)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (a *Authenticator) forbid(w http.ResponseWriter, r *http.Request, p Principal) {
	slogx.FromContext(r.Context()).Warn("authorization denied",
		"user_id", p.UserID,
		"user_type", p.UserType,
		"path", r.URL.Path,
	)
	Error(w, http.StatusForbidden, "You do not have permission to access this resource")
}
