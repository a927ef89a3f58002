package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRole_IsValid(t *testing.T) {
	assert.True(t, RoleEmployee.IsValid())
	assert.True(t, RoleManager.IsValid())
	assert.True(t, RoleHRAdmin.IsValid())
	assert.True(t, RoleSuperAdmin.IsValid())
	assert.False(t, Role("intern").IsValid())
}

func TestRole_Can(t *testing.T) {
	t.Run("employee can only create requests", func(t *testing.T) {
		assert.True(t, RoleEmployee.Can(CapRequestCreate))
		assert.False(t, RoleEmployee.Can(CapRequestDecide))
		assert.False(t, RoleEmployee.Can(CapUserManage))
		assert.False(t, RoleEmployee.Can(CapReportViewOthers))
	})

	t.Run("manager decides but cannot manage users", func(t *testing.T) {
		assert.True(t, RoleManager.Can(CapRequestDecide))
		assert.True(t, RoleManager.Can(CapReportViewOthers))
		assert.False(t, RoleManager.Can(CapRequestDecideAny))
		assert.False(t, RoleManager.Can(CapUserManage))
		assert.False(t, RoleManager.Can(CapRequestViewAll))
	})

	t.Run("hr admin decides any request and manages users", func(t *testing.T) {
		assert.True(t, RoleHRAdmin.Can(CapRequestDecideAny))
		assert.True(t, RoleHRAdmin.Can(CapRequestViewAll))
		assert.True(t, RoleHRAdmin.Can(CapReportViewAll))
		assert.True(t, RoleHRAdmin.Can(CapUserManage))
		assert.False(t, RoleHRAdmin.Can(CapUserActivate))
		assert.False(t, RoleHRAdmin.Can(CapUserViewInactive))
	})

	t.Run("super admin additionally reactivates users", func(t *testing.T) {
		assert.True(t, RoleSuperAdmin.Can(CapUserActivate))
		assert.True(t, RoleSuperAdmin.Can(CapUserViewInactive))
		assert.True(t, RoleSuperAdmin.Can(CapUserManage))
	})

	t.Run("unknown role has no capabilities", func(t *testing.T) {
		assert.False(t, Role("intern").Can(CapRequestCreate))
	})
}

func TestRole_IsManagerial(t *testing.T) {
	assert.False(t, RoleEmployee.IsManagerial())
	assert.True(t, RoleManager.IsManagerial())
	assert.True(t, RoleHRAdmin.IsManagerial())
	assert.True(t, RoleSuperAdmin.IsManagerial())
}
