// Package policy contains the authorization rules that gate account operations.
// The policy is evaluated explicitly before an operation executes and returns a
// verdict, rather than being enforced from deep inside a delivery pipeline.
package policy

import (
	"gatekeeper/internal/domain/entity"

	"github.com/google/uuid"
)

// Actor identifies the authenticated account performing an operation.
type Actor struct {
	ID   uuid.UUID
	Role entity.Role
}

// AuthorizationPolicy decides whether an actor may act on a target account.
type AuthorizationPolicy interface {
	// CanActOn reports whether the actor is the target account itself or an admin.
	CanActOn(actor Actor, targetID uuid.UUID) bool

	// IsAdmin reports whether the actor holds the admin role.
	// Administrative operations require this regardless of ownership.
	IsAdmin(actor Actor) bool
}

// roleOwnershipPolicy is the concrete policy: admins may act on any account,
// everyone else only on their own.
type roleOwnershipPolicy struct{}

// NewRoleOwnershipPolicy is the constructor for the default authorization policy.
func NewRoleOwnershipPolicy() AuthorizationPolicy {
	return &roleOwnershipPolicy{}
}

func (p *roleOwnershipPolicy) CanActOn(actor Actor, targetID uuid.UUID) bool {
	return actor.Role == entity.RoleAdmin || actor.ID == targetID
}

func (p *roleOwnershipPolicy) IsAdmin(actor Actor) bool {
	return actor.Role == entity.RoleAdmin
}
