// Package authz decides whether a viewer may perform an action on an object.
//
// Decisions come from a casbin model with three roles (user, admin and the
// synthetic owner role that matches when the viewer authored the object).
// The model and policy are embedded; there is no runtime policy editing.
package authz

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/google/uuid"

	"github.com/foodgram/backend/internal/domain"
)

//go:embed model.conf
var embeddedModel string

//go:embed policy.csv
var embeddedPolicy string

// Object names the kind of resource being acted on.
type Object string

const (
	ObjRecipe     Object = "recipe"
	ObjTag        Object = "tag"
	ObjIngredient Object = "ingredient"
)

// Action names what the viewer wants to do.
type Action string

const (
	ActCreate Action = "create"
	ActUpdate Action = "update"
	ActDelete Action = "delete"
)

// Enforcer wraps a synced casbin enforcer.
type Enforcer struct {
	enforcer *casbin.SyncedEnforcer
}

// NewEnforcer builds an Enforcer from the embedded model and policy.
func NewEnforcer() (*Enforcer, error) {
	m, err := model.NewModelFromString(embeddedModel)
	if err != nil {
		return nil, fmt.Errorf("authz: load model: %w", err)
	}
	e, err := casbin.NewSyncedEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("authz: create enforcer: %w", err)
	}
	if err := loadPolicy(e, embeddedPolicy); err != nil {
		return nil, err
	}
	return &Enforcer{enforcer: e}, nil
}

func loadPolicy(e *casbin.SyncedEnforcer, policy string) error {
	for _, line := range strings.Split(policy, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Split(line, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		if parts[0] != "p" || len(parts) != 4 {
			return fmt.Errorf("authz: malformed policy line %q", line)
		}
		if _, err := e.AddPolicy(parts[1], parts[2], parts[3]); err != nil {
			return fmt.Errorf("authz: add policy %v: %w", parts[1:], err)
		}
	}
	return nil
}

func role(v domain.Viewer) string {
	switch {
	case v.Anonymous():
		return "anonymous"
	case v.Admin:
		return "admin"
	default:
		return "user"
	}
}

// Allowed reports whether v may perform act on obj owned by owner.
// Pass uuid.Nil as owner for objects without an author (catalog entries).
func (e *Enforcer) Allowed(v domain.Viewer, owner uuid.UUID, obj Object, act Action) (bool, error) {
	sub := ""
	if !v.Anonymous() {
		sub = v.ID.String()
	}
	ownerStr := ""
	if owner != uuid.Nil {
		ownerStr = owner.String()
	}
	ok, err := e.enforcer.Enforce(sub, role(v), ownerStr, string(obj), string(act))
	if err != nil {
		return false, fmt.Errorf("authz: enforce: %w", err)
	}
	return ok, nil
}

// Authorize is Allowed as an error: domain.ErrUnauthorized for anonymous
// viewers and domain.ErrForbidden for signed-in viewers without permission.
func (e *Enforcer) Authorize(v domain.Viewer, owner uuid.UUID, obj Object, act Action) error {
	ok, err := e.Allowed(v, owner, obj, act)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	if v.Anonymous() {
		return domain.ErrUnauthorized
	}
	return fmt.Errorf("%w: cannot %s %s", domain.ErrForbidden, act, obj)
}
