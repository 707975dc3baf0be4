package http

import (
	"errors"
	"net/http"

	"github.com/spendlog/spendlog/internal/auth/obs"
	"github.com/spendlog/spendlog/internal/auth/service"
	"github.com/spendlog/spendlog/pkg/httpx"
	"github.com/spendlog/spendlog/pkg/slogx"
)

type RefreshHandler struct {
	Sessions *service.SessionService
	Metrics  *obs.Metrics
}

// ServeHTTP godoc
//
//	@Summary		Refresh Token Endpoint
//	@Description	Exchange the refreshToken cookie for a new access token. The refresh token itself is not rotated.
//	@Tags			Sessions
//	@Produce		json
//	@Success		200	{object}	TokenResponse
//	@Failure		401	{object}	MessageResponse	"Missing, invalid or revoked refresh token"
//	@Failure		500	{object}	MessageResponse
//	@Router			/refresh-token [post].
func (h *RefreshHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	cookie, err := r.Cookie(refreshCookieName)
	if err != nil || cookie.Value == "" {
		writeMessage(w, http.StatusUnauthorized, false, "Refresh token required")
		return
	}

	access, err := h.Sessions.Refresh(ctx, cookie.Value)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRevoked):
			h.Metrics.ObserveAuth("refresh", "revoked")
			writeMessage(w, http.StatusUnauthorized, false, "Token has been revoked")
		case errors.Is(err, service.ErrInvalidToken):
			h.Metrics.ObserveAuth("refresh", "invalid_token")
			writeMessage(w, http.StatusUnauthorized, false, "Invalid refresh token")
		default:
			log.Error("token refresh failed", "err", err)
			h.Metrics.ObserveAuth("refresh", "error")
			writeServerError(w)
		}
		return
	}

	h.Metrics.ObserveAuth("refresh", "success")
	httpx.WriteJSON(w, http.StatusOK, TokenResponse{Success: true, Token: access})
}
