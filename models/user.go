package models

import "time"

// User is an office user of the portal.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"` // admin, user
	CreatedAt time.Time `json:"created_at"`
}

// RegisterInput is used for creating users.
type RegisterInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (u *RegisterInput) Validate() string {
	if u.Username == "" {
		return "username is required"
	}
	if len(u.Password) < 6 {
		return "password must be at least 6 characters"
	}
	switch u.Role {
	case "", "admin", "user":
	default:
		return "role must be one of: admin, user"
	}
	return ""
}

// LoginInput carries login credentials.
type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ChangePasswordInput carries a password change request.
type ChangePasswordInput struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}
