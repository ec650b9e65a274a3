package model

import (
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	AuthProviderEmail  = "email"
	AuthProviderGoogle = "google"
)

type User struct {
	ID           string     `db:"id" json:"id"`
	Email        string     `db:"email" json:"email"`
	PasswordHash *string    `db:"password_hash" json:"-"` // Nullable for OAuth users
	Name         string     `db:"name" json:"name"`
	FirstName    string     `db:"first_name" json:"firstName"`
	LastName     string     `db:"last_name" json:"lastName"`
	Role         string     `db:"role" json:"role"`
	AuthProvider string     `db:"auth_provider" json:"authProvider"`
	LastLoginAt  *time.Time `db:"last_login_at" json:"lastLogin,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"createdAt"`
}

func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// DisplayName falls back to the email when no name is set.
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}
