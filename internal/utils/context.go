// Package utils provides helpers shared across the SDK: typed context keys,
// JSON response writing, bearer token handling, a resty HTTP client and
// identifier generation.
package utils

import (
	"context"

	"github.com/MKhiriev/go-service-sdk/models"
)

// contextKey is a private type for context keys.
type contextKey string

func (c contextKey) String() string {
	return string(c)
}

// ClaimsCtxKey stores the verified bearer [models.Claims] of a request.
var ClaimsCtxKey = contextKey("claims")

// WithClaims returns a copy of ctx carrying claims.
func WithClaims(ctx context.Context, claims *models.Claims) context.Context {
	return context.WithValue(ctx, ClaimsCtxKey, claims)
}

// ClaimsFromContext returns the verified bearer claims of a request, if the
// route required authorization.
//
// Example usage:
//
//	claims, ok := utils.ClaimsFromContext(r.Context())
//	if !ok {
//	    // public route
//	}
func ClaimsFromContext(ctx context.Context) (*models.Claims, bool) {
	claims, ok := ctx.Value(ClaimsCtxKey).(*models.Claims)
	return claims, ok && claims != nil
}
