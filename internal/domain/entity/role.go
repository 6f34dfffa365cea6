// Package entity contains the core business objects of the project.
package entity

// Role represents the type of role an account can have in the system.
type Role string

const (
	// RoleUser indicates a regular end-user account.
	RoleUser Role = "user"
	// RoleService indicates a privileged machine/service account.
	RoleService Role = "service"
)

// String returns the string representation of the Role.
func (r Role) String() string {
	return string(r)
}

// IsValid checks if the Role is a valid value.
func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleService:
		return true
	default:
		return false
	}
}
