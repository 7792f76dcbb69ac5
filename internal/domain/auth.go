package domain

import "time"

// SubjectType differentiates identity tokens from venue-bound staff tokens.
type SubjectType string

const (
	SubjectTypeAccount SubjectType = "ACCOUNT"
	SubjectTypeStaff   SubjectType = "STAFF"
)

// Token represents issued authentication token metadata.
type Token struct {
	ID        string
	SubjectID string
	Subject   SubjectType
	ProfileID string
	VenueID   string
	ExpiresAt time.Time
	IssuedAt  time.Time
}
