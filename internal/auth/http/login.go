package http

import (
	"errors"
	"net/http"

	"github.com/spendlog/spendlog/internal/auth/obs"
	"github.com/spendlog/spendlog/internal/auth/service"
	"github.com/spendlog/spendlog/pkg/httpx"
	"github.com/spendlog/spendlog/pkg/slogx"
)

type LoginHandler struct {
	Sessions *service.SessionService
	Metrics  *obs.Metrics

	// SecureCookies marks the refresh cookie Secure; off only in dev.
	SecureCookies bool
}

// ServeHTTP godoc
//
//	@Summary		Login Endpoint
//	@Description	Verify credentials and start a session. The access token is returned in the body; the refresh token is set as an HttpOnly cookie.
//	@Tags			Sessions
//	@Accept			json
//	@Produce		json
//	@Param			request	body		loginRequest	true	"Credentials"
//	@Success		200		{object}	LoginResponse
//	@Failure		400		{object}	MessageResponse	"Validation failure"
//	@Failure		401		{object}	MessageResponse	"Invalid credentials or unverified email"
//	@Failure		500		{object}	MessageResponse
//	@Router			/login [post].
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, false, "Email and password are required")
		return
	}
	if msg, ok := req.check(); !ok {
		writeMessage(w, http.StatusBadRequest, false, msg)
		return
	}

	session, err := h.Sessions.Login(ctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			h.Metrics.ObserveAuth("login", "invalid_credentials")
			writeMessage(w, http.StatusUnauthorized, false, "Invalid credentials")
		case errors.Is(err, service.ErrEmailNotVerified):
			h.Metrics.ObserveAuth("login", "unverified")
			writeMessage(w, http.StatusUnauthorized, false, "Please verify your email before logging in")
		default:
			log.Error("login failed", "err", err)
			h.Metrics.ObserveAuth("login", "error")
			writeServerError(w)
		}
		return
	}

	setRefreshCookie(w, session.RefreshToken, h.Sessions.Tokens.RefreshTTL(), h.SecureCookies)

	h.Metrics.ObserveAuth("login", "success")
	httpx.WriteJSON(w, http.StatusOK, LoginResponse{
		Success: true,
		Token:   session.AccessToken,
		User:    session.User,
	})
}
