// Package auth issues and verifies bearer tokens and carries the
// authenticated viewer through a request context.
package auth

import (
	"context"

	"github.com/foodgram/backend/internal/domain"
)

type viewerKey struct{}

// WithViewer returns a copy of ctx carrying v.
func WithViewer(ctx context.Context, v domain.Viewer) context.Context {
	return context.WithValue(ctx, viewerKey{}, v)
}

// ViewerFrom returns the viewer stored in ctx, or the anonymous viewer.
func ViewerFrom(ctx context.Context) domain.Viewer {
	v, _ := ctx.Value(viewerKey{}).(domain.Viewer)
	return v
}

type tokenKey struct{}

// WithClaims stores verified token claims so logout can revoke them.
func WithClaims(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, tokenKey{}, c)
}

// ClaimsFrom returns the verified claims for the current request, or nil.
func ClaimsFrom(ctx context.Context) *Claims {
	c, _ := ctx.Value(tokenKey{}).(*Claims)
	return c
}
