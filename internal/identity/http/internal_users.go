package http

import (
	"errors"
	"net/http"

	"github.com/adoptly/adoptly/internal/identity/provider"
	"github.com/adoptly/adoptly/internal/identity/service"
	"github.com/adoptly/adoptly/pkg/httpx"
	"github.com/adoptly/adoptly/pkg/slogx"
)

// InternalUsersHandler serves the /internal endpoints other platform
// services call with the shared key. Routes mounting it must sit behind
// RequireInternal.
type InternalUsersHandler struct {
	AuthService *service.Auth
}

// HandleGetUser godoc
//
//	@Summary		Fetch a user profile (internal)
//	@Description	Returns the current profile for a user ID. Service-to-service only.
//	@Tags			Internal
//	@Produce		json
//	@Param			id	path		string	true	"User ID"
//	@Success		200	{object}	httpx.Envelope{data=domain.Profile}
//	@Failure		404	{object}	httpx.Envelope	"User not found"
//	@Security		InternalKey
//	@Router			/internal/users/{id} [get].
func (h *InternalUsersHandler) HandleGetUser(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("id")
	if userID == "" {
		httpx.Error(w, http.StatusBadRequest, "User ID is required")
		return
	}

	profile, err := h.AuthService.GetProfile(r.Context(), userID)
	if err != nil {
		if errors.Is(err, provider.ErrNotFound) {
			httpx.Error(w, http.StatusNotFound, "User not found")
			return
		}
		slogx.FromContext(r.Context()).Error("internal user lookup failed", "err", err)
		httpx.Error(w, http.StatusInternalServerError, msgServerError)
		return
	}

	httpx.OK(w, http.StatusOK, "", profile)
}

// HandleRevokeTokens godoc
//
//	@Summary		Revoke every refresh token a user holds (internal)
//	@Description	Bulk revocation for password resets and account compromise. Service-to-service only.
//	@Tags			Internal
//	@Produce		json
//	@Param			id	path		string	true	"User ID"
//	@Success		200	{object}	httpx.Envelope
//	@Security		InternalKey
//	@Router			/internal/users/{id}/revoke-tokens [post].
func (h *InternalUsersHandler) HandleRevokeTokens(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("id")
	if userID == "" {
		httpx.Error(w, http.StatusBadRequest, "User ID is required")
		return
	}

	n, err := h.AuthService.RevokeAll(r.Context(), userID)
	if err != nil {
		slogx.FromContext(r.Context()).Error("revoke all failed", "user_id", userID, "err", err)
		httpx.Error(w, http.StatusInternalServerError, msgServerError)
		return
	}

	httpx.OK(w, http.StatusOK, "Tokens revoked", map[string]int64{"revoked": n})
}
