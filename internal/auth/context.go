package auth

import (
	"context"

	"paintgate/internal/models"
)

type ctxKey int

const (
	userKey ctxKey = iota
	claimsKey
)

// WithIdentity stores the resolved user and the token's claim snapshot on
// the context. The user is the fresh row; the claims are frozen at issuance.
func WithIdentity(ctx context.Context, u *models.User, c Claims) context.Context {
	ctx = context.WithValue(ctx, userKey, u)
	return context.WithValue(ctx, claimsKey, c)
}

func UserFrom(ctx context.Context) (*models.User, bool) {
	u, ok := ctx.Value(userKey).(*models.User)
	return u, ok
}

func ClaimsFrom(ctx context.Context) (Claims, bool) {
	c, ok := ctx.Value(claimsKey).(Claims)
	return c, ok
}
