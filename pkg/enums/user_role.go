package enums

import (
	"fmt"
	"strings"
)

// UserRole captures the coarse access level of an account.
type UserRole string

const (
	UserRoleUser         UserRole = "USER"
	UserRoleAdmin        UserRole = "ADMIN"
	UserRoleVeterinarian UserRole = "VETERINARIAN"
)

var validUserRoles = []UserRole{
	UserRoleUser,
	UserRoleAdmin,
	UserRoleVeterinarian,
}

// String implements fmt.Stringer.
func (u UserRole) String() string {
	return string(u)
}

// IsValid reports whether the value is a known UserRole.
func (u UserRole) IsValid() bool {
	for _, candidate := range validUserRoles {
		if candidate == u {
			return true
		}
	}
	return false
}

// ParseUserRole converts raw input into a UserRole, ignoring case.
func ParseUserRole(value string) (UserRole, error) {
	for _, candidate := range validUserRoles {
		if strings.EqualFold(string(candidate), strings.TrimSpace(value)) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid user role %q", value)
}
