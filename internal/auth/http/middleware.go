package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/spendlog/spendlog/internal/auth/store"
	"github.com/spendlog/spendlog/pkg/httpx"
	"github.com/spendlog/spendlog/pkg/idx"
	"github.com/spendlog/spendlog/pkg/jwtx"
	"github.com/spendlog/spendlog/pkg/slogx"
)

// AuthnMiddleware verifies the bearer access token, confirms the account
// still exists and is verified, and attaches only the user's ID and email to
// the request context.
func AuthnMiddleware(tokens *jwtx.Issuer, users store.Users) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			authHeader := r.Header.Get("Authorization")
			raw, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok || raw == "" {
				writeMessage(w, http.StatusUnauthorized, false, "Access token required")
				return
			}

			claims, err := tokens.VerifyAccessToken(raw)
			if err != nil {
				if errors.Is(err, jwtx.ErrExpired) {
					writeMessage(w, http.StatusUnauthorized, false, "Token expired")
					return
				}
				writeMessage(w, http.StatusUnauthorized, false, "Invalid token")
				return
			}

			id, err := idx.Parse(claims.Subject)
			if err != nil {
				writeMessage(w, http.StatusUnauthorized, false, "Invalid token")
				return
			}

			user, err := users.GetByID(ctx, id)
			if errors.Is(err, store.ErrNotFound) {
				writeMessage(w, http.StatusUnauthorized, false, "User not found")
				return
			}
			if err != nil {
				slogx.FromContext(ctx).Error("authn user lookup failed", "err", err)
				writeServerError(w)
				return
			}

			if !user.IsVerified {
				writeMessage(w, http.StatusUnauthorized, false, "Email not verified")
				return
			}

			ctx = httpx.WithIdentity(ctx, user.ID.String(), user.Email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
