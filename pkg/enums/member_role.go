package enums

import "fmt"

// MemberRole is the server-verified role carried in the session claims.
// Roles never come from client-supplied parameters.
type MemberRole string

const (
	MemberRoleUser       MemberRole = "user"
	MemberRoleAdmin      MemberRole = "admin"
	MemberRoleSuperAdmin MemberRole = "superadmin"
)

var validMemberRoles = []MemberRole{
	MemberRoleUser,
	MemberRoleAdmin,
	MemberRoleSuperAdmin,
}

// String implements fmt.Stringer.
func (r MemberRole) String() string {
	return string(r)
}

// IsValid reports whether the value is a known MemberRole.
func (r MemberRole) IsValid() bool {
	for _, candidate := range validMemberRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseMemberRole converts the raw string to a MemberRole.
func ParseMemberRole(value string) (MemberRole, error) {
	for _, candidate := range validMemberRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid member role %q", value)
}
