package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeRole(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"super_admin", RoleSuperAdmin},
		{"SuperAdmin", RoleSuperAdmin},
		{"super-admin", RoleSuperAdmin},
		{"admin", RoleDepartmentAdmin},
		{"department_admin", RoleDepartmentAdmin},
		{"Technician", RoleTechnician},
		{"viewer", RoleViewer},
		{"", RoleViewer},
		{"something_else", RoleViewer},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, NormalizeRole(c.in), "role %q", c.in)
	}
}

func TestCanAccessDepartment(t *testing.T) {
	// Super admin reaches every department
	assert.True(t, CanAccessDepartment(RoleSuperAdmin, "", "Maintenance"))
	assert.True(t, CanAccessDepartment(RoleSuperAdmin, "Facilities", "Maintenance"))

	// Everyone else is pinned to their own department
	assert.True(t, CanAccessDepartment(RoleDepartmentAdmin, "Maintenance", "Maintenance"))
	assert.True(t, CanAccessDepartment(RoleTechnician, "maintenance", "Maintenance"), "match is case-insensitive")
	assert.False(t, CanAccessDepartment(RoleDepartmentAdmin, "Maintenance", "Facilities"))
	assert.False(t, CanAccessDepartment(RoleTechnician, "Facilities", "Maintenance"))
	assert.False(t, CanAccessDepartment(RoleViewer, "Facilities", "Maintenance"))

	// No department means no access to anything
	assert.False(t, CanAccessDepartment(RoleTechnician, "", "Maintenance"))
	assert.False(t, CanAccessDepartment(RoleTechnician, "", ""))
}

func TestIsAdminRole(t *testing.T) {
	assert.True(t, IsAdminRole(RoleSuperAdmin))
	assert.True(t, IsAdminRole(RoleDepartmentAdmin))
	assert.True(t, IsAdminRole("admin"))
	assert.False(t, IsAdminRole(RoleTechnician))
	assert.False(t, IsAdminRole(RoleViewer))
	assert.False(t, IsAdminRole(""))
}

func TestCanWrite(t *testing.T) {
	assert.True(t, CanWrite(RoleSuperAdmin))
	assert.True(t, CanWrite(RoleDepartmentAdmin))
	assert.True(t, CanWrite(RoleTechnician))
	assert.False(t, CanWrite(RoleViewer))
	assert.False(t, CanWrite(""), "unknown roles fall back to viewer")
}
