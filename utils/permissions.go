// utils/permissions.go
package utils

import "strings"

// Role names used across the service. Stored lowercase in both the users
// collection and JWT claims.
const (
	RoleSuperAdmin      = "super_admin"
	RoleDepartmentAdmin = "department_admin"
	RoleTechnician      = "technician"
	RoleViewer          = "viewer"
)

// NormalizeRole ensures consistent role naming
func NormalizeRole(role string) string {
	role = strings.ToLower(strings.TrimSpace(role))

	switch role {
	case "super_admin", "superadmin", "super-admin":
		return RoleSuperAdmin
	case "department_admin", "admin":
		return RoleDepartmentAdmin
	case "technician":
		return RoleTechnician
	case "viewer":
		return RoleViewer
	default:
		return RoleViewer // least privilege fallback
	}
}

// CanAccessDepartment is the single department authorization check used by
// every handler: super admins see everything, everyone else only their own
// department. Keeping it in one place instead of re-implementing the
// super-admin bypass per handler.
func CanAccessDepartment(role, userDepartment, targetDepartment string) bool {
	if NormalizeRole(role) == RoleSuperAdmin {
		return true
	}
	return userDepartment != "" && strings.EqualFold(userDepartment, targetDepartment)
}

// IsAdminRole reports whether the role may perform department-level
// administration (approvals, user management, deletes).
func IsAdminRole(role string) bool {
	switch NormalizeRole(role) {
	case RoleSuperAdmin, RoleDepartmentAdmin:
		return true
	}
	return false
}

// CanWrite reports whether the role may create or modify records at all.
// Viewers are read-only.
func CanWrite(role string) bool {
	return NormalizeRole(role) != RoleViewer
}
