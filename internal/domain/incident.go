package domain

import "time"

// IncidentSeverity grades a logged incident.
type IncidentSeverity string

const (
	IncidentSeverityLow    IncidentSeverity = "LOW"
	IncidentSeverityMedium IncidentSeverity = "MEDIUM"
	IncidentSeverityHigh   IncidentSeverity = "HIGH"
)

// Valid reports whether s is a known severity.
func (s IncidentSeverity) Valid() bool {
	switch s {
	case IncidentSeverityLow, IncidentSeverityMedium, IncidentSeverityHigh:
		return true
	}
	return false
}

// Incident is an entry in the venue's operations register.
type Incident struct {
	ID          string
	VenueID     string
	EventID     *string
	ReportedBy  string
	Severity    IncidentSeverity
	Description string
	OccurredAt  time.Time
	CreatedAt   time.Time
}
