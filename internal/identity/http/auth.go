package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/adoptly/adoptly/internal/identity/domain"
	"github.com/adoptly/adoptly/internal/identity/provider"
	"github.com/adoptly/adoptly/internal/identity/service"
	"github.com/adoptly/adoptly/pkg/cookiex"
	"github.com/adoptly/adoptly/pkg/httpx"
	"github.com/adoptly/adoptly/pkg/slogx"
)

// Outward messages stay generic so responses cannot be used to probe for
// accounts or live tokens.
const (
	msgInvalidCredentials = "Invalid email or password"
	msgInvalidRefresh     = "Invalid or expired refresh token"
	msgServerError        = "Something went wrong. Please try again later."
)

// AuthHandler serves the credential and token lifecycle endpoints.
type AuthHandler struct {
	AuthService *service.Auth
	Cookies     *cookiex.Manager
	LoginURL    string
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Email       string  `json:"email"`
	Password    string  `json:"password"`
	UserType    string  `json:"userType"`
	PhoneNumber *string `json:"phoneNumber,omitempty"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// tokenResponse is the payload of every successful auth response.
type tokenResponse struct {
	AccessToken  string         `json:"accessToken"`
	RefreshToken string         `json:"refreshToken"`
	ExpiresAt    string         `json:"expiresAt"`
	User         domain.Profile `json:"user"`
}

// HandleLogin godoc
//
//	@Summary		Log in with email and password
//	@Description	Verifies credentials, mints an access/refresh token pair, and sets the session cookies.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		loginRequest	true	"Credentials"
//	@Success		200		{object}	httpx.Envelope{data=tokenResponse}
//	@Failure		400		{object}	httpx.Envelope	"Malformed request"
//	@Failure		401		{object}	httpx.Envelope	"Invalid email or password"
//	@Router			/api/auth/login [post].
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" || req.Password == "" {
		httpx.Error(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	session, err := h.AuthService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeLoginFailure(w, r, err)
		return
	}

	h.writeSession(w, r, session)
}

// HandleRegister godoc
//
//	@Summary		Create an account
//	@Description	Registers a new adopter or shelter admin and signs them in immediately.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		registerRequest	true	"New account"
//	@Success		201		{object}	httpx.Envelope{data=tokenResponse}
//	@Failure		400		{object}	httpx.Envelope	"Invalid registration data"
//	@Failure		409		{object}	httpx.Envelope	"Email already registered"
//	@Router			/api/auth/register [post].
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Malformed request body")
		return
	}

	session, err := h.AuthService.Register(r.Context(), provider.RegisterInput{
		Email:       req.Email,
		Password:    req.Password,
		UserType:    req.UserType,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		switch {
		case errors.Is(err, provider.ErrInvalidInput):
			httpx.Error(w, http.StatusBadRequest, "Invalid registration data")
		case errors.Is(err, provider.ErrAlreadyExists):
			httpx.Error(w, http.StatusConflict, "An account with this email already exists")
		default:
			slogx.FromContext(r.Context()).Error("register failed", "err", err)
			httpx.Error(w, http.StatusInternalServerError, msgServerError)
		}
		return
	}

	h.writeSessionStatus(w, r, session, http.StatusCreated)
}

// HandleRefresh godoc
//
//	@Summary		Rotate the refresh token
//	@Description	Retires the presented refresh token and mints a fresh token pair with up-to-date claims.
//	@Description	The token is taken from the request body, falling back to the refreshToken cookie.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		refreshRequest	false	"Refresh token"
//	@Success		200		{object}	httpx.Envelope{data=tokenResponse}
//	@Failure		401		{object}	httpx.Envelope	"Invalid or expired refresh token"
//	@Router			/api/auth/refresh [post].
func (h *AuthHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	raw := h.refreshTokenFromRequest(r)
	if raw == "" {
		httpx.Error(w, http.StatusUnauthorized, msgInvalidRefresh)
		return
	}

	session, err := h.AuthService.Refresh(r.Context(), raw)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRefreshToken) {
			httpx.Error(w, http.StatusUnauthorized, msgInvalidRefresh)
			return
		}
		slogx.FromContext(r.Context()).Error("refresh failed", "err", err)
		httpx.Error(w, http.StatusInternalServerError, msgServerError)
		return
	}

	h.writeSession(w, r, session)
}

// HandleLogout godoc
//
//	@Summary		Log out everywhere this session exists
//	@Description	Revokes the presented refresh token server-side and clears the session cookies.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		refreshRequest	false	"Refresh token"
//	@Success		200		{object}	httpx.Envelope
//	@Router			/api/auth/logout [post].
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	raw := h.refreshTokenFromRequest(r)

	if err := h.AuthService.Logout(r.Context(), raw); err != nil {
		// The cookies still get cleared; a failed revoke must not trap the
		// user in a session.
		slogx.FromContext(r.Context()).Error("logout revoke failed", "err", err)
	}

	h.Cookies.Clear(w, r)
	httpx.OK(w, http.StatusOK, "Logged out", map[string]string{"redirectUrl": h.LoginURL})
}

// HandleRevokeAll godoc
//
//	@Summary		Revoke every session for the calling user
//	@Description	Kills all refresh tokens the authenticated user holds, then clears this browser's cookies.
//	@Tags			Auth
//	@Produce		json
//	@Success		200	{object}	httpx.Envelope
//	@Router			/api/auth/revoke-all [post].
func (h *AuthHandler) HandleRevokeAll(w http.ResponseWriter, r *http.Request) {
	principal, ok := httpx.PrincipalFromContext(r.Context())
	if !ok {
		httpx.Unauthorized(w, "Authentication required", h.LoginURL)
		return
	}

	n, err := h.AuthService.RevokeAll(r.Context(), principal.UserID)
	if err != nil {
		slogx.FromContext(r.Context()).Error("self revoke all failed", "err", err)
		httpx.Error(w, http.StatusInternalServerError, msgServerError)
		return
	}

	// This browser's session is among the revoked; drop its cookies too.
	h.Cookies.Clear(w, r)
	httpx.OK(w, http.StatusOK, "All sessions revoked", map[string]int64{"revoked": n})
}

// refreshTokenFromRequest takes the token from the JSON body when present,
// otherwise from the HttpOnly cookie browsers send.
func (h *AuthHandler) refreshTokenFromRequest(r *http.Request) string {
	if r.Body != nil {
		var req refreshRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil && req.RefreshToken != "" {
			return req.RefreshToken
		}
	}
	if c, err := r.Cookie(cookiex.CookieRefreshToken); err == nil {
		return c.Value
	}
	return ""
}

func (h *AuthHandler) writeLoginFailure(w http.ResponseWriter, r *http.Request, err error) {
	log := slogx.FromContext(r.Context())

	switch {
	case errors.Is(err, provider.ErrRateLimited):
		log.Warn("login throttled")
		httpx.Error(w, http.StatusTooManyRequests, "Too many attempts. Please try again later.")
	case errors.Is(err, provider.ErrInvalidCredentials),
		errors.Is(err, provider.ErrUserNotConfirmed),
		errors.Is(err, provider.ErrPasswordResetRequired):
		// One outward answer for every credential failure class.
		log.Warn("login rejected", "cause", err)
		httpx.Error(w, http.StatusUnauthorized, msgInvalidCredentials)
	default:
		log.Error("login failed", "err", err)
		httpx.Error(w, http.StatusInternalServerError, msgServerError)
	}
}

func (h *AuthHandler) writeSession(w http.ResponseWriter, r *http.Request, session service.Session) {
	h.writeSessionStatus(w, r, session, http.StatusOK)
}

func (h *AuthHandler) writeSessionStatus(w http.ResponseWriter, r *http.Request, session service.Session, code int) {
	info := cookiex.UserInfo{
		UserID:   session.User.UserID,
		Email:    session.User.Email,
		UserType: session.User.UserType,
	}
	if session.User.PhoneNumber != nil {
		info.PhoneNumber = *session.User.PhoneNumber
	}

	if err := h.Cookies.SetSession(w, r, session.Pair.AccessToken, session.Pair.RefreshToken, info); err != nil {
		slogx.FromContext(r.Context()).Error("set session cookies", "err", err)
		httpx.Error(w, http.StatusInternalServerError, msgServerError)
		return
	}

	httpx.OK(w, code, "", tokenResponse{
		AccessToken:  session.Pair.AccessToken,
		RefreshToken: session.Pair.RefreshToken,
		ExpiresAt:    session.Pair.ExpiresAt.UTC().Format(time.RFC3339),
		User:         session.User,
	})
}
