// Package access holds the fixed permission policies applied to every
// resource type. Policies are pure decision functions: they never touch
// storage and carry no state, so the HTTP layer (or anything else) can
// call them after scope resolution and map the outcome to a status.
package access

import "reviewhub/internal/api/models"

// Decision is a three-valued authorization outcome. Denials keep the
// "no credentials" and "insufficient privilege" cases apart so the
// boundary can answer 401 vs 403 correctly.
type Decision int

const (
	Allow Decision = iota
	DenyUnauthenticated
	DenyForbidden
)

func (d Decision) Allowed() bool {
	return d == Allow
}

// AdminOnlyWrite governs Category, Genre and Title: safe actions are
// open to everyone including anonymous callers, mutations require the
// admin role.
func AdminOnlyWrite(actor *models.User, safe bool) Decision {
	if safe {
		return Allow
	}
	if actor == nil {
		return DenyUnauthenticated
	}
	if !actor.IsAdmin() {
		return DenyForbidden
	}
	return Allow
}

// OwnerModeratorAdminWrite governs Review and Comment: safe actions are
// open to everyone, mutations require the author itself or a role of
// at least moderator.
func OwnerModeratorAdminWrite(actor *models.User, ownerID string, safe bool) Decision {
	if safe {
		return Allow
	}
	if actor == nil {
		return DenyUnauthenticated
	}
	if actor.ID == ownerID || actor.Role.AtLeast(models.RoleModerator) {
		return Allow
	}
	return DenyForbidden
}

// SelfOrAdmin governs the User resource: an actor may act on its own
// record, an admin on any. Whether the role field itself is writable is
// decided by the user service, not here.
func SelfOrAdmin(actor *models.User, targetID string) Decision {
	if actor == nil {
		return DenyUnauthenticated
	}
	if actor.ID == targetID || actor.IsAdmin() {
		return Allow
	}
	return DenyForbidden
}
