package dto

import (
	"time"

	"github.com/spec-kit/venue-access-service/internal/rbac"
)

// InviteStaffRequest payload.
type InviteStaffRequest struct {
	Email       string `json:"email" validate:"required,email"`
	DisplayName string `json:"display_name" validate:"required,max=120"`
	Role        string `json:"role" validate:"required"`
}

// ChangeRoleRequest payload.
type ChangeRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

// StaffResponse is the public view of a staff profile.
type StaffResponse struct {
	ID          string     `json:"id"`
	VenueID     string     `json:"venue_id"`
	Email       string     `json:"email"`
	DisplayName string     `json:"display_name"`
	Role        rbac.Role  `json:"role"`
	IsActive    bool       `json:"is_active"`
	Pending     bool       `json:"pending"`
	InvitedAt   time.Time  `json:"invited_at"`
	LastLogin   *time.Time `json:"last_login,omitempty"`
}

// InvitationResponse describes a freshly issued invitation.
type InvitationResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// MeResponse summarizes the caller's access.
type MeResponse struct {
	Profile     StaffResponse     `json:"profile"`
	Permissions []rbac.Permission `json:"permissions"`
	Navigation  []rbac.NavGroup   `json:"navigation"`
}
