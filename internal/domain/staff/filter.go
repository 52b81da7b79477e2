package staff

import "strings"

// Filter narrows the user table. The zero Filter keeps everyone.
type Filter struct {
	// Query matches first name, username or role, ignoring case.
	Query string
	// Role keeps only that role; empty means all roles.
	Role Role
}

// Apply returns the users that pass the filter, preserving order.
func (f Filter) Apply(users []User) []User {
	q := strings.ToLower(f.Query)
	out := make([]User, 0, len(users))
	for _, u := range users {
		if f.Role != "" && u.Role != f.Role {
			continue
		}
		if q != "" && !matches(q, u) {
			continue
		}
		out = append(out, u)
	}
	return out
}

func matches(q string, u User) bool {
	for _, field := range []string{u.FirstName, u.Username, string(u.Role)} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}
