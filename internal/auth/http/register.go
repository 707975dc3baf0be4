package http

import (
	"errors"
	"net/http"

	"github.com/spendlog/spendlog/internal/auth/obs"
	"github.com/spendlog/spendlog/internal/auth/service"
	"github.com/spendlog/spendlog/pkg/slogx"
)

type RegisterHandler struct {
	Accounts *service.AccountService
	Metrics  *obs.Metrics
}

// ServeHTTP godoc
//
//	@Summary		Register Account Endpoint
//	@Description	Create a new account and email a verification link. The account cannot log in until the link is followed.
//	@Tags			Accounts
//	@Accept			json
//	@Produce		json
//	@Param			request	body		registerRequest	true	"Account details"
//	@Success		201		{object}	MessageResponse
//	@Failure		400		{object}	MessageResponse	"Validation failure or email already registered"
//	@Failure		500		{object}	MessageResponse
//	@Router			/register [post].
func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, false, "Name, email, and password are required")
		return
	}
	if msg, ok := req.check(); !ok {
		writeMessage(w, http.StatusBadRequest, false, msg)
		return
	}

	user, err := h.Accounts.Register(ctx, req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			h.Metrics.ObserveAuth("register", "email_taken")
			writeMessage(w, http.StatusBadRequest, false, "User with this email already exists")
			return
		}
		log.Error("registration failed", "err", err)
		h.Metrics.ObserveAuth("register", "error")
		writeServerError(w)
		return
	}

	log.Info("user registered", "user_id", user.ID.String())
	h.Metrics.ObserveAuth("register", "success")
	writeMessage(w, http.StatusCreated, true, "User registered successfully. Please verify your email.")
}
