package domain

import "fmt"

// Role distinguishes what an account is allowed to do.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleTrainer Role = "trainer"
	RoleTrainee Role = "trainee"
)

// Roles lists every known role.
var Roles = []Role{RoleAdmin, RoleTrainer, RoleTrainee}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleTrainer, RoleTrainee:
		return true
	default:
		return false
	}
}

// ParseRole converts a raw string into a Role.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// IsElevated is true for roles that manage other people's data.
func (r Role) IsElevated() bool {
	return r == RoleAdmin || r == RoleTrainer
}
