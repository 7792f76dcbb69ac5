package service

import (
	"context"
	"strings"
	"time"

	"github.com/spec-kit/venue-access-service/internal/auth"
	"github.com/spec-kit/venue-access-service/internal/domain"
	"github.com/spec-kit/venue-access-service/internal/rbac"
	"github.com/spec-kit/venue-access-service/internal/repository"
	apperrors "github.com/spec-kit/venue-access-service/pkg/util"
)

// EventService manages the venue's event calendar.
type EventService struct {
	events repository.EventRepository
}

// EventInput describes the schedule of an event.
type EventInput struct {
	Title    string
	StartsAt time.Time
	EndsAt   time.Time
	Rules    *domain.EventRules
}

// EventListFilters narrow event listings.
type EventListFilters struct {
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

// NewEventService constructs the service.
func NewEventService(events repository.EventRepository) *EventService {
	return &EventService{events: events}
}

// ListEvents returns the calendar. Door staff need it for the guest list.
func (s *EventService) ListEvents(ctx context.Context, actor *domain.StaffProfile, venueID string, filters EventListFilters) ([]domain.Event, error) {
	if err := auth.Check(actor, rbac.PermViewGuestList, venueID); err != nil {
		return nil, err
	}
	return s.events.List(ctx, repository.EventFilter{
		VenueID: venueID,
		From:    filters.From,
		To:      filters.To,
		Limit:   filters.Limit,
		Offset:  filters.Offset,
	})
}

// GetEvent fetches one event of the venue.
func (s *EventService) GetEvent(ctx context.Context, actor *domain.StaffProfile, venueID, eventID string) (*domain.Event, error) {
	if err := auth.Check(actor, rbac.PermViewGuestList, venueID); err != nil {
		return nil, err
	}
	return s.load(ctx, venueID, eventID)
}

// CreateEvent schedules a new event.
func (s *EventService) CreateEvent(ctx context.Context, actor *domain.StaffProfile, venueID string, input EventInput) (*domain.Event, error) {
	if err := auth.Check(actor, rbac.PermManageEvents, venueID); err != nil {
		return nil, err
	}
	event := &domain.Event{
		VenueID:   venueID,
		Title:     strings.TrimSpace(input.Title),
		StartsAt:  input.StartsAt,
		EndsAt:    input.EndsAt,
		CreatedBy: actor.ID,
	}
	if input.Rules != nil {
		event.Rules = *input.Rules
	}
	if err := validateSchedule(event); err != nil {
		return nil, err
	}
	if err := validateRules(event.Rules); err != nil {
		return nil, err
	}
	if err := s.events.Create(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// UpdateEvent reschedules or renames an event. Rules are left untouched.
func (s *EventService) UpdateEvent(ctx context.Context, actor *domain.StaffProfile, venueID, eventID string, input EventInput) (*domain.Event, error) {
	if err := auth.Check(actor, rbac.PermManageEvents, venueID); err != nil {
		return nil, err
	}
	event, err := s.load(ctx, venueID, eventID)
	if err != nil {
		return nil, err
	}
	event.Title = strings.TrimSpace(input.Title)
	event.StartsAt = input.StartsAt
	event.EndsAt = input.EndsAt
	if err := validateSchedule(event); err != nil {
		return nil, err
	}
	return s.stored(s.events.UpdateSchedule(ctx, event))
}

// UpdateRules replaces the door policy of an event.
func (s *EventService) UpdateRules(ctx context.Context, actor *domain.StaffProfile, venueID, eventID string, rules domain.EventRules) (*domain.Event, error) {
	if err := auth.Check(actor, rbac.PermEditEventRules, venueID); err != nil {
		return nil, err
	}
	if err := validateRules(rules); err != nil {
		return nil, err
	}
	if _, err := s.load(ctx, venueID, eventID); err != nil {
		return nil, err
	}
	return s.stored(s.events.UpdateRules(ctx, venueID, eventID, rules))
}

// stored maps a row that vanished between load and write to not-found.
func (s *EventService) stored(event *domain.Event, err error) (*domain.Event, error) {
	if isNotFound(err) {
		return nil, apperrors.NewNotFound("event", nil)
	}
	return event, err
}

func (s *EventService) load(ctx context.Context, venueID, eventID string) (*domain.Event, error) {
	event, err := s.events.GetByID(ctx, venueID, eventID)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.NewNotFound("event", map[string]any{"event_id": eventID})
		}
		return nil, err
	}
	return event, nil
}

func validateSchedule(event *domain.Event) error {
	if event.Title == "" {
		return apperrors.NewValidationError("title is required", map[string]any{"field": "title"})
	}
	if event.StartsAt.IsZero() || !event.EndsAt.After(event.StartsAt) {
		return apperrors.NewValidationError("ends_at must be after starts_at", map[string]any{"field": "ends_at"})
	}
	return nil
}

func validateRules(rules domain.EventRules) error {
	if rules.MinAge < 0 || rules.Capacity < 0 || rules.EntryFee < 0 {
		return apperrors.NewValidationError("event rules must not be negative", nil)
	}
	return nil
}
