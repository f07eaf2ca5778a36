// middleware/access_gate_test.go
package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/brighthaven/brighthaven_backend/models"
)

func approvedUser(role string) *models.User {
	return &models.User{Role: role, Status: models.StatusApproved}
}

func TestAuthorizeUnauthenticated(t *testing.T) {
	decision := Authorize(nil, models.RoleAdmin)
	assert.False(t, decision.Allowed)
	assert.Equal(t, DenyUnauthenticated, decision.Reason)
}

func TestAuthorizeUnapprovedDeniedRegardlessOfRole(t *testing.T) {
	for _, status := range []string{models.StatusPending, models.StatusRejected} {
		for _, role := range []string{models.RoleAdmin, models.RoleEmployee} {
			user := &models.User{Role: role, Status: status}
			decision := Authorize(user, "")
			assert.False(t, decision.Allowed, "status=%s role=%s", status, role)
			assert.Equal(t, DenyNotApproved, decision.Reason)
		}
	}
}

func TestAuthorizeApprovalCheckedBeforeRole(t *testing.T) {
	// A pending employee asking for an admin action must hear "not
	// approved", not "insufficient role".
	user := &models.User{Role: models.RoleEmployee, Status: models.StatusPending}
	decision := Authorize(user, models.RoleAdmin)
	assert.Equal(t, DenyNotApproved, decision.Reason)
}

func TestAuthorizeInsufficientRole(t *testing.T) {
	decision := Authorize(approvedUser(models.RoleEmployee), models.RoleAdmin)
	assert.False(t, decision.Allowed)
	assert.Equal(t, DenyInsufficientRole, decision.Reason)
}

func TestAuthorizeAllows(t *testing.T) {
	assert.True(t, Authorize(approvedUser(models.RoleAdmin), models.RoleAdmin).Allowed)
	assert.True(t, Authorize(approvedUser(models.RoleEmployee), "").Allowed)
	assert.True(t, Authorize(approvedUser(models.RoleAdmin), "").Allowed)
}

func TestAuthorizeRoleChangeDeniesSelf(t *testing.T) {
	decision := AuthorizeRoleChange("abc123", "abc123")
	assert.False(t, decision.Allowed)
	assert.Equal(t, DenySelfRoleChange, decision.Reason)
}

func TestAuthorizeRoleChangeAllowsOthers(t *testing.T) {
	assert.True(t, AuthorizeRoleChange("abc123", "def456").Allowed)
}

func TestAuthorizeRoleChangeRequiresActor(t *testing.T) {
	decision := AuthorizeRoleChange("", "def456")
	assert.False(t, decision.Allowed)
	assert.Equal(t, DenyUnauthenticated, decision.Reason)
}
