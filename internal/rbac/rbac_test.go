package rbac

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnknownRoleHasNothing(t *testing.T) {
	for _, bad := range []string{"", "ADMIN", "owner", "tech nician", "super-admin"} {
		role := ParseRole(bad)
		assert.Equal(t, RoleUnknown, role, "input %q", bad)
		assert.Empty(t, PermissionsFor(role))
		for _, p := range AllPermissions {
			assert.False(t, HasPermission(role, p))
		}
		for id := range menuPermission {
			assert.False(t, CanSeeMenuItem(role, id))
		}
		assert.Empty(t, MenuFor(role))
		assert.Equal(t, DefaultDashboardPath, DashboardPath(role))
	}
}

func TestRegistryIsTotal(t *testing.T) {
	for _, role := range Roles() {
		perms := PermissionsFor(role)
		require.NotEmpty(t, perms, "role %s has no permissions", role)
		assert.NotEmpty(t, DashboardPath(role))
		// every granted permission is a defined permission
		defined := make(map[Permission]bool, len(AllPermissions))
		for _, p := range AllPermissions {
			defined[p] = true
		}
		for _, p := range perms {
			assert.True(t, defined[p], "role %s grants undefined permission %s", role, p)
		}
	}
}

func TestRegistryIsDeterministic(t *testing.T) {
	for _, role := range Roles() {
		first := PermissionsFor(role)
		for i := 0; i < 3; i++ {
			assert.Equal(t, first, PermissionsFor(role))
		}
	}
}

func TestPermissionsForReturnsCopy(t *testing.T) {
	perms := PermissionsFor(RoleTechnician)
	require.NotEmpty(t, perms)
	perms[0] = PermManagePlatform
	assert.False(t, HasPermission(RoleTechnician, PermManagePlatform))
}

func TestSuperAdminListedExplicitly(t *testing.T) {
	// super_admin holds the full enumeration, member by member
	perms := PermissionsFor(RoleSuperAdmin)
	assert.Len(t, perms, len(AllPermissions))
	for _, p := range AllPermissions {
		assert.True(t, HasPermission(RoleSuperAdmin, p), "missing %s", p)
	}
}

func TestTechnicianCannotApprove(t *testing.T) {
	assert.False(t, HasPermission(RoleTechnician, PermApproveReports))
	assert.False(t, HasPermission(RoleTechnician, PermRejectReports))
	assert.True(t, HasPermission(RoleTechnician, PermCreateReports))
}

func TestApproverRoles(t *testing.T) {
	for _, role := range []Role{RoleSuperAdmin, RoleAdmin, RoleQualityManager, RoleConsultantEngineer} {
		assert.True(t, HasPermission(role, PermApproveReports), "role %s", role)
	}
	for _, role := range []Role{RoleTechnician, RoleSupervisor, RoleProjectManager, RoleConsultantTechnician} {
		assert.False(t, HasPermission(role, PermApproveReports), "role %s", role)
	}
}

func TestHasAnyAll(t *testing.T) {
	assert.True(t, HasAnyPermission(RoleTechnician, PermApproveReports, PermCreateReports))
	assert.False(t, HasAnyPermission(RoleTechnician, PermApproveReports, PermManagePlatform))
	assert.True(t, HasAllPermissions(RoleTechnician, PermCreateReports, PermViewReports))
	assert.False(t, HasAllPermissions(RoleTechnician, PermCreateReports, PermApproveReports))
	// empty list: any=false is not required; all trivially true
	assert.True(t, HasAllPermissions(RoleTechnician))
	assert.False(t, HasAnyPermission(RoleTechnician))
}

func TestMenuMatchesPermissions(t *testing.T) {
	assert.True(t, CanSeeMenuItem(RoleQualityManager, "approvals"))
	assert.False(t, CanSeeMenuItem(RoleTechnician, "approvals"))
	assert.False(t, CanSeeMenuItem(RoleAdmin, "platform"))
	assert.True(t, CanSeeMenuItem(RoleSuperAdmin, "platform"))
	assert.False(t, CanSeeMenuItem(RoleAdmin, "no-such-menu"))

	// menu order is stable and every item resolves from the catalog
	items := MenuFor(RoleAdmin)
	require.NotEmpty(t, items)
	for _, it := range items {
		assert.NotEmpty(t, it.Path)
		assert.NotEmpty(t, it.Label)
	}
}

func TestDashboardRedirects(t *testing.T) {
	assert.Equal(t, "/platform", DashboardPath(RoleSuperAdmin))
	assert.Equal(t, "/dashboard/approvals", DashboardPath(RoleQualityManager))
	assert.Equal(t, "/dashboard/reports", DashboardPath(RoleTechnician))
}
