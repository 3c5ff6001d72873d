package dto

import "github.com/spec-kit/dietcare-service/internal/domain"

// LoginRequest payload for login. Email accepts an email address or a
// username; Role is an optional hint checked against the stored role.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

// RegisterRequest payload for new accounts.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role,omitempty"`
}

// RefreshRequest payload for token rotation.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// AuthData is the success payload for login and register.
type AuthData struct {
	Token        string            `json:"token"`
	RefreshToken string            `json:"refreshToken"`
	User         domain.Projection `json:"user"`
}

// RefreshData is the success payload for refresh.
type RefreshData struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}
