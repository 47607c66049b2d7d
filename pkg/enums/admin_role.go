package enums

import "fmt"

// AdminRole gates back-office capabilities.
type AdminRole string

const (
	AdminRoleAdmin      AdminRole = "admin"
	AdminRoleSuperadmin AdminRole = "superadmin"
)

func (r AdminRole) IsValid() bool {
	switch r {
	case AdminRoleAdmin, AdminRoleSuperadmin:
		return true
	}
	return false
}

func ParseAdminRole(value string) (AdminRole, error) {
	role := AdminRole(value)
	if !role.IsValid() {
		return "", fmt.Errorf("unknown admin role %q", value)
	}
	return role, nil
}
