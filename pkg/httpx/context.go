package httpx

import "context"

type ctxKey string

const (
	// CtxKeyUserID carries the authenticated user's ID.
	CtxKeyUserID ctxKey = "auth.user_id"
	// CtxKeyEmail carries the authenticated user's email.
	CtxKeyEmail ctxKey = "auth.email"
)

// WithIdentity attaches the authenticated identity to the context.
func WithIdentity(ctx context.Context, userID, email string) context.Context {
	ctx = context.WithValue(ctx, CtxKeyUserID, userID)
	return context.WithValue(ctx, CtxKeyEmail, email)
}

// UserID returns the authenticated user ID from the context, if any.
func UserID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(CtxKeyUserID).(string)
	return id, ok && id != ""
}

// Email returns the authenticated email from the context, if any.
func Email(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(CtxKeyEmail).(string)
	return email, ok && email != ""
}
