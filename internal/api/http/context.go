package http

import (
	"context"
	"net/http"

	"vehicle-rental-backend/internal/domain"
	"vehicle-rental-backend/internal/security"
)

type contextKey int

const (
	userKey contextKey = iota
	claimsKey
)

func withUser(ctx context.Context, user *domain.User, claims *security.UserClaims) context.Context {
	ctx = context.WithValue(ctx, userKey, user)
	return context.WithValue(ctx, claimsKey, claims)
}

// currentUser returns the user the auth middleware attached to r.
// It is nil on public routes.
func currentUser(r *http.Request) *domain.User {
	u, _ := r.Context().Value(userKey).(*domain.User)
	return u
}

func currentClaims(r *http.Request) *security.UserClaims {
	c, _ := r.Context().Value(claimsKey).(*security.UserClaims)
	return c
}
