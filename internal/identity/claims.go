// Package identity models the claims supplied by the upstream
// authentication collaborator. The scheduling service trusts these claims;
// it does not authenticate callers itself.
package identity

import "errors"

var ErrForbidden = errors.New("forbidden")

type Role string

const (
	RolePatient  Role = "patient"
	RoleProvider Role = "provider"
	RoleStaff    Role = "staff"
	RoleAdmin    Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RolePatient, RoleProvider, RoleStaff, RoleAdmin:
		return true
	}
	return false
}

// Claims identifies the caller of an operation.
type Claims struct {
	Subject string
	Role    Role
}

// Elevated reports whether the caller may act on records they do not own.
func (c Claims) Elevated() bool {
	return c.Role == RoleStaff || c.Role == RoleAdmin
}
