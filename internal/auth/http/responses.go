package http

import (
	"net/http"

	"github.com/spendlog/spendlog/internal/auth/domain"
	"github.com/spendlog/spendlog/pkg/httpx"
)

// MessageResponse is the generic response body for flows that only need to
// report an outcome.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// LoginResponse carries the access token and the user's public profile. The
// refresh token travels separately in the refreshToken cookie.
type LoginResponse struct {
	Success bool              `json:"success"`
	Token   string            `json:"token"`
	User    domain.PublicUser `json:"user"`
}

// TokenResponse carries a freshly issued access token.
type TokenResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
}

func writeMessage(w http.ResponseWriter, code int, success bool, message string) {
	httpx.WriteJSON(w, code, MessageResponse{Success: success, Message: message})
}

func writeServerError(w http.ResponseWriter) {
	writeMessage(w, http.StatusInternalServerError, false, "Internal server error")
}
