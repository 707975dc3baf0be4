package http

import (
	"net/http"

	"github.com/spendlog/spendlog/internal/auth/obs"
	"github.com/spendlog/spendlog/internal/auth/service"
	"github.com/spendlog/spendlog/pkg/httpx"
	"github.com/spendlog/spendlog/pkg/idx"
	"github.com/spendlog/spendlog/pkg/slogx"
)

type LogoutHandler struct {
	Sessions *service.SessionService
	Metrics  *obs.Metrics

	SecureCookies bool
}

// ServeHTTP godoc
//
//	@Summary		Logout Endpoint
//	@Description	Revoke all outstanding refresh tokens for the authenticated account and clear the refresh cookie.
//	@Tags			Sessions
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	MessageResponse
//	@Failure		401	{object}	MessageResponse
//	@Failure		500	{object}	MessageResponse
//	@Router			/logout [post].
func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID, ok := httpx.UserID(ctx)
	if !ok {
		writeMessage(w, http.StatusUnauthorized, false, "Access token required")
		return
	}

	id, err := idx.Parse(userID)
	if err != nil {
		writeMessage(w, http.StatusUnauthorized, false, "Invalid token")
		return
	}

	if err := h.Sessions.Logout(ctx, id); err != nil {
		log.Error("logout failed", "err", err)
		h.Metrics.ObserveAuth("logout", "error")
		writeServerError(w)
		return
	}

	clearRefreshCookie(w, h.SecureCookies)

	h.Metrics.ObserveAuth("logout", "success")
	writeMessage(w, http.StatusOK, true, "Logged out successfully")
}
