package service

import (
	"context"
	"strings"
	"time"

	"github.com/spec-kit/venue-access-service/internal/auth"
	"github.com/spec-kit/venue-access-service/internal/domain"
	"github.com/spec-kit/venue-access-service/internal/events"
	"github.com/spec-kit/venue-access-service/internal/rbac"
	"github.com/spec-kit/venue-access-service/internal/repository"
	apperrors "github.com/spec-kit/venue-access-service/pkg/util"
)

// IncidentService maintains the venue's incident register.
type IncidentService struct {
	incidents  repository.IncidentRepository
	events     repository.EventRepository
	dispatcher events.Dispatcher
	now        func() time.Time
}

// IncidentInput describes a logged incident.
type IncidentInput struct {
	EventID     *string
	Severity    string
	Description string
	OccurredAt  *time.Time
}

// IncidentListFilters narrow incident listings.
type IncidentListFilters struct {
	EventID  *string
	Severity *string
	Limit    int
	Offset   int
}

// NewIncidentService constructs the service.
func NewIncidentService(incidents repository.IncidentRepository, eventRepo repository.EventRepository, dispatcher events.Dispatcher) *IncidentService {
	return &IncidentService{incidents: incidents, events: eventRepo, dispatcher: dispatcher, now: time.Now}
}

// LogIncident records an incident reported by actor.
func (s *IncidentService) LogIncident(ctx context.Context, actor *domain.StaffProfile, venueID string, input IncidentInput) (*domain.Incident, error) {
	if err := auth.Check(actor, rbac.PermLogIncidents, venueID); err != nil {
		return nil, err
	}
	severity := domain.IncidentSeverity(strings.ToUpper(strings.TrimSpace(input.Severity)))
	if !severity.Valid() {
		return nil, apperrors.NewValidationError("invalid severity", map[string]any{"severity": input.Severity})
	}
	description := strings.TrimSpace(input.Description)
	if description == "" {
		return nil, apperrors.NewValidationError("description is required", map[string]any{"field": "description"})
	}
	if input.EventID != nil {
		if _, err := s.events.GetByID(ctx, venueID, *input.EventID); err != nil {
			if isNotFound(err) {
				return nil, apperrors.NewNotFound("event", map[string]any{"event_id": *input.EventID})
			}
			return nil, err
		}
	}

	occurredAt := s.now().UTC()
	if input.OccurredAt != nil {
		occurredAt = input.OccurredAt.UTC()
	}
	incident := &domain.Incident{
		VenueID:     venueID,
		EventID:     input.EventID,
		ReportedBy:  actor.ID,
		Severity:    severity,
		Description: description,
		OccurredAt:  occurredAt,
	}
	if err := s.incidents.Create(ctx, incident); err != nil {
		return nil, err
	}

	publishEvent(ctx, s.dispatcher, events.Event{
		Type:    events.EventIncidentLogged,
		VenueID: venueID,
		Actor:   staffActor(actor),
		Payload: events.IncidentLoggedPayload{IncidentID: incident.ID, Severity: string(severity)},
	})
	return incident, nil
}

// ListIncidents returns the venue's incident register.
func (s *IncidentService) ListIncidents(ctx context.Context, actor *domain.StaffProfile, venueID string, filters IncidentListFilters) ([]domain.Incident, error) {
	if err := auth.Check(actor, rbac.PermLogIncidents, venueID); err != nil {
		return nil, err
	}
	filter := repository.IncidentFilter{
		VenueID: venueID,
		EventID: filters.EventID,
		Limit:   filters.Limit,
		Offset:  filters.Offset,
	}
	if filters.Severity != nil {
		severity := domain.IncidentSeverity(strings.ToUpper(*filters.Severity))
		if !severity.Valid() {
			return nil, apperrors.NewValidationError("invalid severity", map[string]any{"severity": *filters.Severity})
		}
		filter.Severity = &severity
	}
	return s.incidents.List(ctx, filter)
}
