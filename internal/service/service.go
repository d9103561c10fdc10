// Package service contains the business logic for the Foodgram API.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No SQL lives here; services depend on repo interfaces, not implementations.
package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/foodgram/backend/internal/authz"
	"github.com/foodgram/backend/internal/domain"
	"github.com/foodgram/backend/internal/imagestore"
)

// Authorizer is the permission checker. *authz.Enforcer satisfies it.
type Authorizer interface {
	Authorize(v domain.Viewer, owner uuid.UUID, obj authz.Object, act authz.Action) error
}

// ImageSaver persists a decoded upload and returns its public reference.
// *imagestore.FSStore and *imagestore.S3Store satisfy it.
type ImageSaver interface {
	Save(ctx context.Context, img imagestore.Image) (string, error)
}

// requireViewer rejects anonymous callers of operations that need an identity.
func requireViewer(v domain.Viewer) error {
	if v.Anonymous() {
		return domain.ErrUnauthorized
	}
	return nil
}
