package domain

import "time"

// Venue is the tenant boundary. Every staff profile belongs to exactly one venue.
type Venue struct {
	ID        string
	Name      string
	Timezone  string
	Capacity  int
	CreatedAt time.Time
	UpdatedAt time.Time
}
