package middleware

import (
	"context"

	"github.com/angelmondragon/storefront-wishlist/pkg/owner"
)

type contextKey string

const ctxOwner contextKey = "owner"

// OwnerFromContext returns the owner resolved for the request, or the zero key.
func OwnerFromContext(ctx context.Context) owner.Key {
	if ctx == nil {
		return owner.Key{}
	}
	if v, ok := ctx.Value(ctxOwner).(owner.Key); ok {
		return v
	}
	return owner.Key{}
}

// WithOwner injects the owner key into the context for downstream handlers.
func WithOwner(ctx context.Context, key owner.Key) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxOwner, key)
}
