package dto

import "time"

// VenueRequest payload for creating a venue or updating its settings.
type VenueRequest struct {
	Name     string `json:"name" validate:"required,max=200"`
	Timezone string `json:"timezone"`
	Capacity int    `json:"capacity" validate:"gte=0"`
}

// VenueResponse is the public view of a venue.
type VenueResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Timezone  string    `json:"timezone"`
	Capacity  int       `json:"capacity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
