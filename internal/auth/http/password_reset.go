package http

import (
	"errors"
	"net/http"

	"github.com/spendlog/spendlog/internal/auth/obs"
	"github.com/spendlog/spendlog/internal/auth/service"
	"github.com/spendlog/spendlog/pkg/slogx"
)

// genericResetMessage is returned whether or not the email has an account,
// so the endpoint cannot be used to probe for registered addresses.
const genericResetMessage = "If an account with this email exists, a password reset link has been sent"

type PasswordResetHandler struct {
	Accounts *service.AccountService
	Metrics  *obs.Metrics
}

// HandleForgot godoc
//
//	@Summary		Forgot Password Endpoint
//	@Description	Email a password reset link. The response does not reveal whether the address has an account.
//	@Tags			Accounts
//	@Accept			json
//	@Produce		json
//	@Param			request	body		forgotPasswordRequest	true	"Account email"
//	@Success		200		{object}	MessageResponse
//	@Failure		400		{object}	MessageResponse	"Validation failure"
//	@Failure		500		{object}	MessageResponse	"Email delivery failure"
//	@Router			/forgot-password [post].
func (h *PasswordResetHandler) HandleForgot(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req forgotPasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, false, "Email is required")
		return
	}
	if msg, ok := req.check(); !ok {
		writeMessage(w, http.StatusBadRequest, false, msg)
		return
	}

	if _, err := h.Accounts.RequestPasswordReset(ctx, req.Email); err != nil {
		if errors.Is(err, service.ErrEmailDelivery) {
			log.Error("password reset email failed", "err", err)
			h.Metrics.ObserveAuth("forgot_password", "delivery_failed")
			writeMessage(w, http.StatusInternalServerError, false, "Failed to send password reset email")
			return
		}
		log.Error("password reset request failed", "err", err)
		h.Metrics.ObserveAuth("forgot_password", "error")
		writeServerError(w)
		return
	}

	h.Metrics.ObserveAuth("forgot_password", "accepted")
	writeMessage(w, http.StatusOK, true, genericResetMessage)
}

// HandleReset godoc
//
//	@Summary		Reset Password Endpoint
//	@Description	Consume a reset token and install a new password. All outstanding refresh tokens are revoked.
//	@Tags			Accounts
//	@Accept			json
//	@Produce		json
//	@Param			request	body		resetPasswordRequest	true	"Reset token and new password"
//	@Success		200		{object}	MessageResponse
//	@Failure		400		{object}	MessageResponse	"Validation failure or invalid token"
//	@Failure		500		{object}	MessageResponse
//	@Router			/reset-password [post].
func (h *PasswordResetHandler) HandleReset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req resetPasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, false, "Token and new password are required")
		return
	}
	if msg, ok := req.check(); !ok {
		writeMessage(w, http.StatusBadRequest, false, msg)
		return
	}

	if err := h.Accounts.ResetPassword(ctx, req.Token, req.NewPassword); err != nil {
		if errors.Is(err, service.ErrInvalidToken) {
			h.Metrics.ObserveAuth("reset_password", "invalid_token")
			writeMessage(w, http.StatusBadRequest, false, "Invalid or expired reset token")
			return
		}
		log.Error("password reset failed", "err", err)
		h.Metrics.ObserveAuth("reset_password", "error")
		writeServerError(w)
		return
	}

	h.Metrics.ObserveAuth("reset_password", "success")
	writeMessage(w, http.StatusOK, true, "Password reset successful")
}
