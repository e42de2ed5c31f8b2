package identity

import "context"

type claimsContextKey struct{}

// SetClaimsToContext stores verified identity claims in context for
// middleware chain access.
func SetClaimsToContext(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey{}, claims)
}

// GetClaimsFromContext retrieves verified identity claims from context.
// Returns nil if claims were not previously stored.
func GetClaimsFromContext(ctx context.Context) *Claims {
	claims, _ := ctx.Value(claimsContextKey{}).(*Claims)
	return claims
}
