package model

import "strings"

// User is a console account stored in the user registry collection.
// Login is the employee's full name and doubles as the display username.
type User struct {
	ID         string  `json:"id"`
	Login      string  `json:"login"`
	Username   string  `json:"username"`
	Password   string  `json:"password,omitempty"` // bcrypt hash; legacy rows may still hold plaintext
	Department string  `json:"department,omitempty"`
	Birthday   string  `json:"birthday,omitempty"`
	Roles      RoleSet `json:"roles"`
	IsActive   bool    `json:"isActive"`
	CreatedAt  string  `json:"createdAt,omitempty"`
}

// IsBuiltinAdmin reports whether the account is the well-known admin login
func (u *User) IsBuiltinAdmin() bool {
	return u != nil && strings.EqualFold(strings.TrimSpace(u.Login), AdminLogin)
}

// CanLogin applies the activation gate; the built-in admin is always active.
func (u *User) CanLogin() bool {
	if u == nil {
		return false
	}
	return u.IsActive || u.IsBuiltinAdmin()
}

// HasRole reports whether the role set contains r
func (u *User) HasRole(r UserRole) bool {
	if u == nil {
		return false
	}
	for _, role := range u.Roles {
		if role == r {
			return true
		}
	}
	return false
}

// Sanitized returns a copy with the password cleared, safe for sessions and responses
func (u User) Sanitized() User {
	u.Password = ""
	return u
}
