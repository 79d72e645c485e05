package auth

import "atlas/internal/domain"

type RegisterRequest struct {
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required,min=8"`
	FirstName  string `json:"first_name" binding:"required"`
	LastName   string `json:"last_name"`
	Phone      string `json:"phone"`
	Department string `json:"department"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// Profile is the /me payload: the user plus the capability set the
// frontend keys its UI off.
type Profile struct {
	User         *domain.User        `json:"user"`
	Capabilities domain.Capabilities `json:"capabilities"`
}
