package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/adoptly/adoptly/internal/identity/domain"
	"github.com/adoptly/adoptly/internal/identity/service"
	"github.com/adoptly/adoptly/internal/identity/store"
	"github.com/adoptly/adoptly/pkg/cookiex"
	"github.com/adoptly/adoptly/pkg/httpx"
	"github.com/adoptly/adoptly/pkg/jwtx"
	"github.com/adoptly/adoptly/pkg/sessionx"
	"github.com/adoptly/adoptly/pkg/slogx"

	_ "github.com/adoptly/adoptly/api/identity" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	authn        *httpx.Authenticator
	cookies      *cookiex.Manager
	loginURL     string
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store       store.Store
	sessions    *sessionx.Handler
	AuthService *service.Auth
}

func NewRouter(
	verifier *jwtx.Verifier,
	authn *httpx.Authenticator,
	cookies *cookiex.Manager,
	loginURL, buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		authn:        authn,
		cookies:      cookies,
		loginURL:     loginURL,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
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
	r.registerAuth()
	r.registerInternal()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
//
//	@title						Adoptly Identity Service API
//	@version					0.1.0
//	@description				Central authentication for the Adoptly platform: email/password login,
//	@description				JWT access tokens, rotating refresh tokens and cross-subdomain session cookies.
//
//	@contact.name				Adoptly Platform Team
//	@contact.url				https://github.com/adoptly/adoptly
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	InternalKey
//	@in							header
//	@name						X-Internal-API-Key
//	@description				Shared secret for service-to-service calls.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{
		AuthService: r.AuthService,
		Cookies:     r.cookies,
		LoginURL:    r.loginURL,
	}

	// Session introspection only; logout here is the central one below,
	// not the cookie-only logout sessionx mounts on other services.
	r.Mux.Handle("GET /api/auth/check",
		httpx.Chain(http.HandlerFunc(r.sessions.Check),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	// Credential endpoints carry strict limits against brute force.
	r.Mux.Handle("POST /api/auth/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /api/auth/register",
		httpx.Chain(http.HandlerFunc(h.HandleRegister),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /api/auth/refresh",
		httpx.Chain(http.HandlerFunc(h.HandleRefresh),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	// Central logout: revokes the refresh token, unlike the per-service
	// logout the sessionx handler mounts on other services.
	r.Mux.Handle("POST /api/auth/logout",
		httpx.Chain(http.HandlerFunc(h.HandleLogout),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	// Panic button for a signed-in user: kill every session they hold.
	r.Mux.Handle("POST /api/auth/revoke-all",
		httpx.Chain(http.HandlerFunc(h.HandleRevokeAll),
			r.authn.RequireUserType(domain.UserTypeAdopter, domain.UserTypeShelterAdmin),
			httpx.RateLimitByPrincipal(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerInternal() {
	h := &InternalUsersHandler{AuthService: r.AuthService}

	r.Mux.Handle("GET /internal/users/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleGetUser),
			r.authn.RequireInternal(),
			httpx.RateLimitByPrincipal(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("POST /internal/users/{id}/revoke-tokens",
		httpx.Chain(http.HandlerFunc(h.HandleRevokeTokens),
			r.authn.RequireInternal(),
			httpx.RateLimitByPrincipal(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
