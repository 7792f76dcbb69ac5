package dto

import "time"

// EventRulesPayload carries an event's door policy.
type EventRulesPayload struct {
	MinAge        int    `json:"min_age" validate:"gte=0,lte=99"`
	DressCode     string `json:"dress_code" validate:"max=200"`
	Capacity      int    `json:"capacity" validate:"gte=0"`
	EntryFeeCents int64  `json:"entry_fee_cents" validate:"gte=0"`
}

// EventRequest payload for creating or rescheduling an event.
type EventRequest struct {
	Title    string             `json:"title" validate:"required,max=200"`
	StartsAt time.Time          `json:"starts_at" validate:"required"`
	EndsAt   time.Time          `json:"ends_at" validate:"required,gtfield=StartsAt"`
	Rules    *EventRulesPayload `json:"rules"`
}

// EventResponse is the public view of an event.
type EventResponse struct {
	ID        string            `json:"id"`
	VenueID   string            `json:"venue_id"`
	Title     string            `json:"title"`
	StartsAt  time.Time         `json:"starts_at"`
	EndsAt    time.Time         `json:"ends_at"`
	Rules     EventRulesPayload `json:"rules"`
	CreatedBy string            `json:"created_by"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// IncidentRequest payload.
type IncidentRequest struct {
	EventID     *string    `json:"event_id"`
	Severity    string     `json:"severity" validate:"required,oneof=LOW MEDIUM HIGH low medium high"`
	Description string     `json:"description" validate:"required,max=2000"`
	OccurredAt  *time.Time `json:"occurred_at"`
}

// IncidentResponse is the public view of an incident.
type IncidentResponse struct {
	ID          string    `json:"id"`
	VenueID     string    `json:"venue_id"`
	EventID     *string   `json:"event_id,omitempty"`
	ReportedBy  string    `json:"reported_by"`
	Severity    string    `json:"severity"`
	Description string    `json:"description"`
	OccurredAt  time.Time `json:"occurred_at"`
	CreatedAt   time.Time `json:"created_at"`
}
