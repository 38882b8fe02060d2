// Package auth carries the authenticated user through request contexts.
// Both middleware and handlers import it, which keeps those two packages
// free of an import cycle.
package auth

import (
	"context"
	"net/http"

	"github.com/prepdeck/prepdeck/internal/domain"
)

// contextKey is unexported so no other package can collide with our keys.
type contextKey string

const userContextKey contextKey = "user"

// GetUser returns the authenticated user stored in ctx, or nil when the
// request is anonymous.
func GetUser(ctx context.Context) *domain.User {
	user, ok := ctx.Value(userContextKey).(*domain.User)
	if !ok {
		return nil
	}
	return user
}

// GetUserFromRequest is a convenience wrapper around GetUser for handlers
// holding the request rather than its context.
func GetUserFromRequest(r *http.Request) *domain.User {
	return GetUser(r.Context())
}

// SetUser returns a child context carrying user. Called by the session
// middleware once the session token has been verified.
func SetUser(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}
