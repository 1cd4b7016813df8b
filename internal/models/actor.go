package models

// Actor identifies the authenticated caller of a use case.
type Actor struct {
	ID        string
	Role      UserRole
	IP        string
	UserAgent string
}

// IsAdmin reports whether the caller holds the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}
