// Package contexthelpers carries the authenticated user through
// context.Context. The authentication layer is an external collaborator; it
// sets the user id before handing requests to the training services, and
// tests set it directly.
package contexthelpers

import (
	"context"
)

type contextKey string

const AuthenticatedUserIDContextKey = contextKey("authenticatedUserID")
const IsAuthenticatedContextKey = contextKey("isAuthenticated")

// AuthenticateContext returns a context carrying the given user id.
func AuthenticateContext(ctx context.Context, userID int64) context.Context {
	ctx = context.WithValue(ctx, IsAuthenticatedContextKey, true)
	return context.WithValue(ctx, AuthenticatedUserIDContextKey, userID)
}

// AuthenticatedUserID returns the user id stored in ctx or 0 when absent.
func AuthenticatedUserID(ctx context.Context) int64 {
	userID, ok := ctx.Value(AuthenticatedUserIDContextKey).(int64)
	if !ok {
		return 0
	}
	return userID
}

// IsAuthenticated reports whether ctx carries an authenticated user.
func IsAuthenticated(ctx context.Context) bool {
	isAuthenticated, ok := ctx.Value(IsAuthenticatedContextKey).(bool)
	if !ok {
		return false
	}
	return isAuthenticated
}
