package user

// Role is the authorization role attached to every account.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// Authorize is the single authorization policy: it reports whether a subject
// with the given role may perform an operation restricted to the required
// roles. An empty requirement allows any authenticated subject.
func Authorize(subject Role, required ...Role) bool {
	if len(required) == 0 {
		return true
	}
	for _, r := range required {
		if subject == r {
			return true
		}
	}
	return false
}
