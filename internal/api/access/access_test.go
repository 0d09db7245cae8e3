package access

import (
	"testing"

	"reviewhub/internal/api/models"

	"github.com/stretchr/testify/assert"
)

func user(id string, role models.Role) *models.User {
	return &models.User{ID: id, Role: role}
}

func TestAdminOnlyWrite(t *testing.T) {
	tests := []struct {
		name  string
		actor *models.User
		safe  bool
		want  Decision
	}{
		{"anonymous read", nil, true, Allow},
		{"anonymous write", nil, false, DenyUnauthenticated},
		{"user read", user("u1", models.RoleUser), true, Allow},
		{"user write", user("u1", models.RoleUser), false, DenyForbidden},
		{"moderator write", user("m1", models.RoleModerator), false, DenyForbidden},
		{"admin write", user("a1", models.RoleAdmin), false, Allow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AdminOnlyWrite(tt.actor, tt.safe))
		})
	}
}

func TestOwnerModeratorAdminWrite(t *testing.T) {
	owner := user("owner", models.RoleUser)

	tests := []struct {
		name  string
		actor *models.User
		safe  bool
		want  Decision
	}{
		{"anonymous read", nil, true, Allow},
		{"anonymous write", nil, false, DenyUnauthenticated},
		{"owner write", owner, false, Allow},
		{"stranger write", user("other", models.RoleUser), false, DenyForbidden},
		{"moderator write", user("m1", models.RoleModerator), false, Allow},
		{"admin write", user("a1", models.RoleAdmin), false, Allow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OwnerModeratorAdminWrite(tt.actor, owner.ID, tt.safe))
		})
	}
}

func TestSelfOrAdmin(t *testing.T) {
	assert.Equal(t, DenyUnauthenticated, SelfOrAdmin(nil, "u1"))
	assert.Equal(t, Allow, SelfOrAdmin(user("u1", models.RoleUser), "u1"))
	assert.Equal(t, DenyForbidden, SelfOrAdmin(user("u2", models.RoleUser), "u1"))
	assert.Equal(t, DenyForbidden, SelfOrAdmin(user("m1", models.RoleModerator), "u1"))
	assert.Equal(t, Allow, SelfOrAdmin(user("a1", models.RoleAdmin), "u1"))
}

func TestRoleOrdering(t *testing.T) {
	assert.True(t, models.RoleAdmin.AtLeast(models.RoleModerator))
	assert.True(t, models.RoleModerator.AtLeast(models.RoleUser))
	assert.False(t, models.RoleUser.AtLeast(models.RoleModerator))
	assert.True(t, models.RoleUser.AtLeast(models.RoleUser))
}
