package model

import "time"

// Role is the closed set of account roles.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleSuperadmin Role = "superadmin"
)

// ParseRole converts a stored or submitted value into a Role.
func ParseRole(s string) (Role, bool) {
	switch r := Role(s); r {
	case RoleAdmin, RoleSuperadmin:
		return r, true
	}
	return "", false
}

func (r Role) String() string {
	return string(r)
}

// User represents a login principal
type User struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // never rendered
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// IsSuperadmin reports whether the user holds the superadmin role.
func (u *User) IsSuperadmin() bool {
	return u.Role == RoleSuperadmin
}
