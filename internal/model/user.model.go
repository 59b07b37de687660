package model

import "time"

// User is an account in the credential store.
type User struct {
	ID                string     `json:"id"`
	Name              string     `json:"name"`
	Email             string     `json:"email"`
	PasswordHash      string     `json:"-"`
	Verified          bool       `json:"verified"`
	Role              Role       `json:"role"`
	VerificationToken *string    `json:"-"`
	ResetToken        *string    `json:"-"`
	ResetTokenExpires *time.Time `json:"-"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

func (u User) Identity() Identity {
	return Identity{
		UserID:   u.ID,
		Email:    u.Email,
		Role:     u.Role,
		Verified: u.Verified,
	}
}
