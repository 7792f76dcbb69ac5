package domain

import "time"

// Account is an authenticated identity. It carries no venue access on its own;
// access comes from the StaffProfile records bound to it.
type Account struct {
	ID           string
	Email        string
	DisplayName  string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
