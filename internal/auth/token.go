package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/foodgram/backend/internal/domain"
)

const issuer = "foodgram"

// Claims are the JWT claims carried by an access token. Subject is the user id
// and ID (jti) is the per-token id used for revocation.
type Claims struct {
	jwt.RegisteredClaims
	Admin bool `json:"admin,omitempty"`
}

// Viewer converts verified claims into a domain.Viewer.
func (c *Claims) Viewer() (domain.Viewer, error) {
	id, err := uuid.Parse(c.Subject)
	if err != nil {
		return domain.Viewer{}, fmt.Errorf("auth: bad subject: %w", err)
	}
	return domain.Viewer{ID: id, Admin: c.Admin}, nil
}

// Denylist records revoked token ids until they would have expired anyway.
type Denylist interface {
	Revoke(ctx context.Context, jti string, until time.Time) error
	Revoked(ctx context.Context, jti string) (bool, error)
}

// TokenIssuer signs and verifies HS256 access tokens.
type TokenIssuer struct {
	secret   []byte
	ttl      time.Duration
	denylist Denylist
	now      func() time.Time
}

// NewTokenIssuer returns an issuer. denylist may be nil, in which case logout
// cannot revoke tokens and they stay valid until expiry.
func NewTokenIssuer(secret string, ttl time.Duration, denylist Denylist) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, denylist: denylist, now: time.Now}
}

// Issue signs a token for u.
func (ti *TokenIssuer) Issue(u domain.User) (string, error) {
	now := ti.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   u.ID.String(),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ti.ttl)),
		},
		Admin: u.IsAdmin,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ti.secret)
	if err != nil {
		return "", fmt.Errorf("auth.TokenIssuer.Issue: %w", err)
	}
	return signed, nil
}

// Verify parses raw and returns its claims. Any signature, expiry or
// revocation failure yields domain.ErrUnauthorized.
func (ti *TokenIssuer) Verify(ctx context.Context, raw string) (*Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return ti.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(ti.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}

	if ti.denylist != nil && claims.ID != "" {
		revoked, err := ti.denylist.Revoked(ctx, claims.ID)
		if err != nil {
			return nil, fmt.Errorf("auth.TokenIssuer.Verify: denylist: %w", err)
		}
		if revoked {
			return nil, fmt.Errorf("%w: token revoked", domain.ErrUnauthorized)
		}
	}
	return &claims, nil
}

// ErrRevocationUnavailable is returned by Revoke when no denylist is configured.
var ErrRevocationUnavailable = errors.New("token revocation not configured")

// Revoke adds the token's id to the denylist until its expiry.
func (ti *TokenIssuer) Revoke(ctx context.Context, c *Claims) error {
	if ti.denylist == nil {
		return ErrRevocationUnavailable
	}
	until := ti.now().Add(ti.ttl)
	if c.ExpiresAt != nil {
		until = c.ExpiresAt.Time
	}
	if err := ti.denylist.Revoke(ctx, c.ID, until); err != nil {
		return fmt.Errorf("auth.TokenIssuer.Revoke: %w", err)
	}
	return nil
}
