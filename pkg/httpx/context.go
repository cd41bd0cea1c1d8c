package httpx

import (
	"context"

	"github.com/aussiebroadwan/accounts/pkg/jwtx"
)

type ctxKey string

const (
	CtxKeyAccountID ctxKey = "account_id"
	CtxKeyClaims    ctxKey = "claims"
)

// AccountID returns the authenticated account ID, or "" outside AuthnMiddleware.
func AccountID(ctx context.Context) string {
	id, _ := ctx.Value(CtxKeyAccountID).(string)
	return id
}

// ClaimsFromContext returns the verified token claims.
func ClaimsFromContext(ctx context.Context) (jwtx.Claims, bool) {
	c, ok := ctx.Value(CtxKeyClaims).(jwtx.Claims)
	return c, ok
}

// WithClaims attaches verified claims to ctx the way AuthnMiddleware does.
func WithClaims(ctx context.Context, c jwtx.Claims) context.Context {
	ctx = context.WithValue(ctx, CtxKeyAccountID, c.Subject)
	return context.WithValue(ctx, CtxKeyClaims, c)
}
