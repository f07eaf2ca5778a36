// middleware/access_gate.go
package middleware

import (
	"github.com/brighthaven/brighthaven_backend/models"
)

// Denial reasons returned by Authorize.
const (
	DenyUnauthenticated  = "unauthenticated"
	DenyNotApproved      = "account is not approved"
	DenyInsufficientRole = "insufficient role"
	DenySelfRoleChange   = "administrators cannot change their own role"
)

// Decision is the result of an authorization check.
type Decision struct {
	Allowed bool
	Reason  string
}

func allow() Decision             { return Decision{Allowed: true} }
func deny(reason string) Decision { return Decision{Reason: reason} }

// Authorize decides whether the given profile may proceed to a protected
// action. requiredRole may be empty, meaning any approved profile passes.
// Rules are evaluated in order: authentication, approval, role.
func Authorize(user *models.User, requiredRole string) Decision {
	if user == nil {
		return deny(DenyUnauthenticated)
	}
	if !user.IsApproved() {
		// Role is irrelevant for unapproved profiles.
		return deny(DenyNotApproved)
	}
	if requiredRole != "" && user.Role != requiredRole {
		return deny(DenyInsufficientRole)
	}
	return allow()
}

// AuthorizeRoleChange guards role mutations: an administrator may not change
// their own role, which would otherwise allow accidental lockout.
func AuthorizeRoleChange(actorID, targetID string) Decision {
	if actorID == "" {
		return deny(DenyUnauthenticated)
	}
	if actorID == targetID {
		return deny(DenySelfRoleChange)
	}
	return allow()
}
