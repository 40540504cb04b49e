package models

import "time"

// DefaultAvatar is the profile picture assigned at registration.
const DefaultAvatar = "images/default-avatar.png"

// User represents a row in the PostgreSQL users table.
type User struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Password       string    `json:"-"` // never serialize
	ProfilePicture string    `json:"profilePicture"`
	CreatedAt      time.Time `json:"createdAt"`
}

// UserSummary is the directory listing shape for GET /api/auth/users.
// Like User it carries no password hash.
type UserSummary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// RegisterRequest is the JSON body for POST /api/auth/register.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the JSON body for POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// GoogleLoginRequest is the JSON body for POST /api/auth/google-login.
type GoogleLoginRequest struct {
	Token string `json:"token"`
}

// ResetPasswordRequest is the JSON body for PATCH /api/auth/forget-password.
type ResetPasswordRequest struct {
	Email       string `json:"email"`
	NewPassword string `json:"newPassword"`
}
