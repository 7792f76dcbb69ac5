package domain

import "time"

// StaffInvitation is a redeemable token sent to an invited staff member.
type StaffInvitation struct {
	ID         string
	ProfileID  string
	VenueID    string
	Email      string
	Token      string
	ExpiresAt  time.Time
	AcceptedAt *time.Time
	CreatedAt  time.Time
}

// Redeemable reports whether the invitation may still be accepted at now.
func (i *StaffInvitation) Redeemable(now time.Time) bool {
	return i.AcceptedAt == nil && now.Before(i.ExpiresAt)
}
