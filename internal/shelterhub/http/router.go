// Package http serves the shelterhub API. The service owns no user data;
// every authentication decision rides on the shared session cookies and the
// internal key, and profile data is fetched live from the identity service.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/adoptly/adoptly/internal/identity/domain"
	"github.com/adoptly/adoptly/pkg/cookiex"
	"github.com/adoptly/adoptly/pkg/httpx"
	"github.com/adoptly/adoptly/pkg/identitysdk"
	"github.com/adoptly/adoptly/pkg/jwtx"
	"github.com/adoptly/adoptly/pkg/sessionx"
	"github.com/adoptly/adoptly/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	authn        *httpx.Authenticator
	sessions     *sessionx.Handler
	identity     *identitysdk.Client
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
}

func NewRouter(
	verifier *jwtx.Verifier,
	authn *httpx.Authenticator,
	cookies *cookiex.Manager,
	identity *identitysdk.Client,
	loginURL, buildVersion string,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		authn:        authn,
		identity:     identity,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		authn.Middleware(),
	}

	r.sessions = sessionx.NewHandler(verifier, cookies, loginURL)

	return r
}

func (r *Router) ApplyRoutes() {
	// Session check plus the cookie-only logout. Revoking the refresh
	// token is the identity service's job.
	r.sessions.Mount(r.Mux)

	h := &Handlers{Identity: r.identity}

	r.Mux.Handle("GET /api/profile",
		httpx.Chain(http.HandlerFunc(h.HandleProfile),
			r.authn.RequireUserType(domain.UserTypeAdopter, domain.UserTypeShelterAdmin),
			httpx.RateLimitByPrincipal(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("GET /api/whoami",
		httpx.Chain(http.HandlerFunc(h.HandleWhoami),
			r.authn.RequireUserOrInternal(domain.UserTypeAdopter, domain.UserTypeShelterAdmin),
			httpx.RateLimitByPrincipal(httpx.LenientLimit),
		),
	)

	r.Mux.Handle("GET /internal/summary",
		httpx.Chain(http.HandlerFunc(r.handleSummary),
			r.authn.RequireInternal(),
			httpx.RateLimitByPrincipal(httpx.LenientLimit),
		),
	)

	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.identity),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

// ServeHTTP implements http.Handler and applies the global middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

type summaryResponse struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
}

// handleSummary is an ops endpoint for sibling services and internal tooling.
func (r *Router) handleSummary(w http.ResponseWriter, req *http.Request) {
	httpx.OK(w, http.StatusOK, "", summaryResponse{
		Service: "shelterhub",
		Version: r.buildVersion,
		Uptime:  time.Since(r.startTime).Round(time.Second).String(),
	})
}
