package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/venue-access-service/internal/auth"
	"github.com/spec-kit/venue-access-service/internal/domain"
	"github.com/spec-kit/venue-access-service/internal/events"
	"github.com/spec-kit/venue-access-service/internal/rbac"
	"github.com/spec-kit/venue-access-service/internal/repository"
	apperrors "github.com/spec-kit/venue-access-service/pkg/util"
)

// VenueService manages venues, the tenant boundary.
type VenueService struct {
	venues     repository.VenueRepository
	staff      repository.StaffRepository
	tx         repository.Transactor
	dispatcher events.Dispatcher
	now        func() time.Time
}

// VenueDependencies bundles repositories for the venue service.
type VenueDependencies struct {
	VenueRepo  repository.VenueRepository
	StaffRepo  repository.StaffRepository
	Transactor repository.Transactor
	Dispatcher events.Dispatcher
}

// VenueInput carries the editable venue settings.
type VenueInput struct {
	Name     string
	Timezone string
	Capacity int
}

// NewVenueService constructs the service.
func NewVenueService(deps VenueDependencies) *VenueService {
	return &VenueService{
		venues:     deps.VenueRepo,
		staff:      deps.StaffRepo,
		tx:         transactorOrDirect(deps.Transactor),
		dispatcher: deps.Dispatcher,
		now:        time.Now,
	}
}

// CreateVenue creates a venue and an active OWNER profile for the creating account.
func (s *VenueService) CreateVenue(ctx context.Context, account *domain.Account, input VenueInput) (*domain.Venue, *domain.StaffProfile, error) {
	if account == nil {
		return nil, nil, apperrors.NewUnauthorized("account authentication required")
	}
	venue := &domain.Venue{
		Name:     strings.TrimSpace(input.Name),
		Timezone: defaultTimezone(input.Timezone),
		Capacity: input.Capacity,
	}
	if err := validateVenue(venue); err != nil {
		return nil, nil, err
	}
	owner := &domain.StaffProfile{
		ID:          uuid.NewString(),
		PrincipalID: account.ID,
		Email:       account.Email,
		DisplayName: account.DisplayName,
		Role:        rbac.RoleOwner,
		IsActive:    true,
		InvitedAt:   s.now().UTC(),
	}
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.venues.Create(ctx, venue); err != nil {
			return err
		}
		owner.VenueID = venue.ID
		return s.staff.Create(ctx, owner)
	})
	if err != nil {
		return nil, nil, err
	}

	publishEvent(ctx, s.dispatcher, events.Event{
		Type:    events.EventVenueCreated,
		VenueID: venue.ID,
		Actor:   accountActor(account.ID),
		Payload: events.VenueCreatedPayload{Name: venue.Name, OwnerProfileID: owner.ID},
	})
	return venue, owner, nil
}

// GetVenue returns the venue to any active member.
func (s *VenueService) GetVenue(ctx context.Context, actor *domain.StaffProfile, venueID string) (*domain.Venue, error) {
	if err := requireMember(actor, venueID); err != nil {
		return nil, err
	}
	return s.venues.GetByID(ctx, venueID)
}

// UpdateSettings edits venue settings.
func (s *VenueService) UpdateSettings(ctx context.Context, actor *domain.StaffProfile, venueID string, input VenueInput) (*domain.Venue, error) {
	if err := auth.Check(actor, rbac.PermManageSettings, venueID); err != nil {
		return nil, err
	}
	venue, err := s.venues.GetByID(ctx, venueID)
	if err != nil {
		return nil, err
	}
	venue.Name = strings.TrimSpace(input.Name)
	venue.Timezone = defaultTimezone(input.Timezone)
	venue.Capacity = input.Capacity
	if err := validateVenue(venue); err != nil {
		return nil, err
	}
	if err := s.venues.Update(ctx, venue); err != nil {
		return nil, err
	}
	return venue, nil
}

func requireMember(actor *domain.StaffProfile, venueID string) error {
	if actor == nil {
		return apperrors.NewUnauthorized("staff authentication required")
	}
	return auth.DecisionError(rbac.CheckAccess(actor.Subject(), venueID), nil)
}

func validateVenue(venue *domain.Venue) error {
	if venue.Name == "" {
		return apperrors.NewValidationError("name is required", map[string]any{"field": "name"})
	}
	if venue.Capacity < 0 {
		return apperrors.NewValidationError("capacity must not be negative", map[string]any{"field": "capacity"})
	}
	if _, err := time.LoadLocation(venue.Timezone); err != nil {
		return apperrors.NewValidationError("unknown timezone", map[string]any{"field": "timezone"})
	}
	return nil
}

func defaultTimezone(tz string) string {
	tz = strings.TrimSpace(tz)
	if tz == "" {
		return "UTC"
	}
	return tz
}
