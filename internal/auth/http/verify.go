package http

import (
	"errors"
	"net/http"

	"github.com/spendlog/spendlog/internal/auth/obs"
	"github.com/spendlog/spendlog/internal/auth/service"
	"github.com/spendlog/spendlog/pkg/slogx"
)

type VerifyHandler struct {
	Accounts *service.AccountService
	Metrics  *obs.Metrics
}

// ServeHTTP godoc
//
//	@Summary		Verify Email Endpoint
//	@Description	Consume an emailed verification token and activate the account. Tokens are single-use.
//	@Tags			Accounts
//	@Produce		json
//	@Param			token	path		string	true	"Verification token from the email link"
//	@Success		200		{object}	MessageResponse
//	@Failure		400		{object}	MessageResponse	"Unknown, expired or already used token"
//	@Failure		500		{object}	MessageResponse
//	@Router			/verify/{token} [get].
func (h *VerifyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	token := r.PathValue("token")
	if token == "" {
		writeMessage(w, http.StatusBadRequest, false, "Invalid or expired verification token")
		return
	}

	if err := h.Accounts.VerifyEmail(ctx, token); err != nil {
		if errors.Is(err, service.ErrInvalidToken) {
			h.Metrics.ObserveAuth("verify", "invalid_token")
			writeMessage(w, http.StatusBadRequest, false, "Invalid or expired verification token")
			return
		}
		log.Error("email verification failed", "err", err)
		h.Metrics.ObserveAuth("verify", "error")
		writeServerError(w)
		return
	}

	h.Metrics.ObserveAuth("verify", "success")
	writeMessage(w, http.StatusOK, true, "Email verified successfully")
}
