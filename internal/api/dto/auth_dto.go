package dto

import "time"

// RegisterRequest payload.
type RegisterRequest struct {
	DisplayName string `json:"display_name" validate:"required,max=120"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
}

// LoginRequest payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// StaffLoginRequest payload. The venue selects which staff profile the token binds to.
type StaffLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	VenueID  string `json:"venue_id" validate:"required"`
}

// AcceptInvitationRequest payload.
type AcceptInvitationRequest struct {
	Token       string `json:"token" validate:"required"`
	DisplayName string `json:"display_name" validate:"max=120"`
	Password    string `json:"password" validate:"required"`
}

// PasswordChangeRequest payload for authenticated password changes.
type PasswordChangeRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

// AuthResponse returns token info.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AccountResponse is the public view of an account.
type AccountResponse struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}
