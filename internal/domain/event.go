package domain

import "time"

// EventRules holds the door policy for an event.
type EventRules struct {
	MinAge    int    `json:"min_age"`
	DressCode string `json:"dress_code"`
	Capacity  int    `json:"capacity"`
	EntryFee  int64  `json:"entry_fee_cents"`
}

// Event is a scheduled night at a venue.
type Event struct {
	ID        string
	VenueID   string
	Title     string
	StartsAt  time.Time
	EndsAt    time.Time
	Rules     EventRules
	CreatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}
