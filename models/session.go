package models

// Identity is what the bearer token proves about the caller.
type Identity struct {
	UID           string `json:"uid"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"emailVerified"`
}

// Session is the explicit per-request caller context handed to services.
// User is nil until the persisted record has been resolved.
type Session struct {
	Identity
	User *User
}

// HasRole reports whether the resolved user holds one of roles.
func (s *Session) HasRole(roles ...Role) bool {
	if s == nil || s.User == nil {
		return false
	}
	for _, r := range roles {
		if s.User.Role == r {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the caller is an administrator.
func (s *Session) IsAdmin() bool {
	return s.HasRole(RoleAdmin)
}
