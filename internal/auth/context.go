package auth

import (
	"context"
	"time"
)

type ctxKey string

const claimsKey ctxKey = "sessionClaims"

type Claims struct {
	Subject   string
	ExpiresAt time.Time
}

func WithClaims(ctx context.Context, c Claims) context.Context {
	return context.WithValue(ctx, claimsKey, c)
}

func FromContext(ctx context.Context) Claims {
	if v, ok := ctx.Value(claimsKey).(Claims); ok {
		return v
	}
	return Claims{}
}

// Subject is the session id the request's bearer handle was issued for.
func Subject(ctx context.Context) string {
	return FromContext(ctx).Subject
}
