package auth

import "github.com/SafinArnob/E-Shop-Management-System/internal/users"

// RegisterRequest contains the payload required for creating an account.
type RegisterRequest struct {
	Name     string  `json:"name" validate:"required"`
	Email    string  `json:"email" validate:"required,email"`
	Phone    *string `json:"phone,omitempty"`
	Password string  `json:"password" validate:"required,min=8"`
}

// LoginRequest carries the credentials presented at login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is returned from both register and login.
type AuthResponse struct {
	AccessToken string        `json:"access_token"`
	User        users.UserDTO `json:"user"`
}
