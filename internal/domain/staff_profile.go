package domain

import (
	"time"

	"github.com/spec-kit/venue-access-service/internal/rbac"
)

// StaffProfile binds a principal to one venue with one role.
//
// Until the invitee first authenticates, PrincipalID holds the profile's own
// ID as a placeholder identity reference.
type StaffProfile struct {
	ID          string     `json:"id"`
	VenueID     string     `json:"venue_id"`
	PrincipalID string     `json:"principal_id"`
	Email       string     `json:"email"`
	DisplayName string     `json:"display_name"`
	Role        rbac.Role  `json:"role"`
	IsActive    bool       `json:"is_active"`
	InvitedAt   time.Time  `json:"invited_at"`
	LastLogin   *time.Time `json:"last_login,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// HasPlaceholderIdentity reports whether the profile still awaits its first login.
func (p *StaffProfile) HasPlaceholderIdentity() bool {
	return p.PrincipalID == "" || p.PrincipalID == p.ID
}

// Subject returns the snapshot the permission resolver evaluates.
func (p *StaffProfile) Subject() rbac.Subject {
	return rbac.Subject{Role: p.Role, VenueID: p.VenueID, IsActive: p.IsActive}
}
