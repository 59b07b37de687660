package model

import "time"

type Role string

const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

// Valid reports whether r is one of the closed set of roles.
func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleAdmin
}

// Identity is what gets signed into an access token.
type Identity struct {
	UserID   string `json:"id"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
	Verified bool   `json:"verified"`
}

// Claims is the decoded, trusted payload of a verified token.
type Claims struct {
	Identity
	IssuedAt  time.Time `json:"iat"`
	ExpiresAt time.Time `json:"exp"`
}

func (c Claims) IsAdmin() bool {
	return c.Role == RoleAdmin
}
