package http

import (
	"net/http"

	"github.com/adoptly/adoptly/pkg/httpx"
	"github.com/adoptly/adoptly/pkg/identitysdk"
	"github.com/adoptly/adoptly/pkg/slogx"
)

const msgServerError = "Something went wrong. Please try again later."

// Handlers serves the user-facing shelterhub endpoints.
type Handlers struct {
	Identity *identitysdk.Client
}

// HandleProfile returns the caller's live profile. The cookie principal only
// carries the claims minted at login; the authoritative record lives in the
// identity service, so it is fetched over the internal client.
func (h *Handlers) HandleProfile(w http.ResponseWriter, r *http.Request) {
	principal, ok := httpx.PrincipalFromContext(r.Context())
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	profile, err := h.Identity.GetUser(r.Context(), principal.UserID)
	if err != nil {
		if identitysdk.IsNotFound(err) {
			// Valid token for a user identity no longer knows. The account
			// was deleted out from under the session.
			httpx.Error(w, http.StatusNotFound, "Account no longer exists")
			return
		}
		slogx.FromContext(r.Context()).Error("identity profile fetch failed", "err", err)
		httpx.Error(w, http.StatusBadGateway, msgServerError)
		return
	}

	httpx.OK(w, http.StatusOK, "", profile)
}

type whoamiResponse struct {
	Internal bool   `json:"internal"`
	UserID   string `json:"userId"`
	Email    string `json:"email,omitempty"`
	UserType string `json:"userType,omitempty"`
}

// HandleWhoami echoes the authenticated principal. Internal callers see a
// trimmed shape; there is no email or user type behind the shared key.
func (h *Handlers) HandleWhoami(w http.ResponseWriter, r *http.Request) {
	principal, ok := httpx.PrincipalFromContext(r.Context())
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	resp := whoamiResponse{Internal: principal.Internal, UserID: principal.UserID}
	if !principal.Internal {
		resp.Email = principal.Email
		resp.UserType = principal.UserType
	}

	httpx.OK(w, http.StatusOK, "", resp)
}
