package events

import (
	"time"

	"github.com/spec-kit/venue-access-service/internal/rbac"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventStaffInvited       EventType = "staff_invited"
	EventStaffJoined        EventType = "staff_joined"
	EventStaffRoleChanged   EventType = "staff_role_changed"
	EventStaffStatusChanged EventType = "staff_status_changed"
	EventVenueCreated       EventType = "venue_created"
	EventIncidentLogged     EventType = "incident_logged"
)

// Actor identifies the staff profile (or bare account) that caused an event.
type Actor struct {
	AccountID string  `json:"account_id"`
	ProfileID *string `json:"profile_id,omitempty"`
}

// Event represents a domain event emitted by services. Every event is scoped to one venue.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	VenueID   string    `json:"venue_id"`
	Actor     Actor     `json:"actor"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

// StaffInvitedPayload payload.
type StaffInvitedPayload struct {
	ProfileID       string    `json:"profile_id"`
	Email           string    `json:"email"`
	DisplayName     string    `json:"display_name"`
	Role            rbac.Role `json:"role"`
	InvitationToken string    `json:"-"`
	ExpiresAt       time.Time `json:"expires_at"`
}

// StaffJoinedPayload payload.
type StaffJoinedPayload struct {
	ProfileID string `json:"profile_id"`
	AccountID string `json:"account_id"`
}

// StaffRoleChangedPayload payload.
type StaffRoleChangedPayload struct {
	ProfileID string    `json:"profile_id"`
	OldRole   rbac.Role `json:"old_role"`
	NewRole   rbac.Role `json:"new_role"`
}

// StaffStatusChangedPayload payload.
type StaffStatusChangedPayload struct {
	ProfileID string `json:"profile_id"`
	IsActive  bool   `json:"is_active"`
}

// VenueCreatedPayload payload.
type VenueCreatedPayload struct {
	Name           string `json:"name"`
	OwnerProfileID string `json:"owner_profile_id"`
}

// IncidentLoggedPayload payload.
type IncidentLoggedPayload struct {
	IncidentID string `json:"incident_id"`
	Severity   string `json:"severity"`
}
