package auth

import (
	"context"
	"errors"
)

var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid bearer token")
)

var _ Resolver = (*JWTResolver)(nil)
var _ Resolver = (*SessionStore)(nil)

// Resolver turns a bearer token into the verified id of the user it was
// issued for. Invalid, expired and unknown tokens yield ErrInvalidToken.
type Resolver interface {
	Resolve(ctx context.Context, token string) (string, error)
}

type ctxKey struct{}

// WithUserID stores the verified caller id on the context.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, userID)
}

// UserIDFromContext returns the caller id set by WithUserID.
func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(ctxKey{}).(string)
	if !ok || userID == "" {
		return "", false
	}
	return userID, true
}
