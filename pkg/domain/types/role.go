package types

import "fmt"

// Role is the role of an application user
type Role string

const (
	RoleAdmin             Role = "ADMIN"
	RoleComplianceOfficer Role = "COMPLIANCE_OFFICER"
)

// IsValid checks if the role is valid
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleComplianceOfficer:
		return true
	default:
		return false
	}
}

// Normalize returns the role, treating empty as RoleComplianceOfficer
func (r Role) Normalize() Role {
	if r == "" {
		return RoleComplianceOfficer
	}
	return r
}

func (r Role) String() string {
	return string(r)
}

// ParseRole parses a string into a Role
func ParseRole(s string) (Role, error) {
	role := Role(s)
	if !role.IsValid() {
		return "", fmt.Errorf("invalid role: %s", s)
	}
	return role, nil
}
