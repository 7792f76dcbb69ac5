package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/spec-kit/venue-access-service/internal/domain"
	"github.com/spec-kit/venue-access-service/internal/events"
	"github.com/spec-kit/venue-access-service/internal/rbac"
	"github.com/spec-kit/venue-access-service/internal/repository"
)

type mockAccountRepository struct{ mock.Mock }

func (m *mockAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	return m.Called(ctx, account).Error(0)
}

func (m *mockAccountRepository) Update(ctx context.Context, account *domain.Account) error {
	return m.Called(ctx, account).Error(0)
}

func (m *mockAccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *mockAccountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

type mockStaffRepository struct{ mock.Mock }

func (m *mockStaffRepository) Create(ctx context.Context, profile *domain.StaffProfile) error {
	return m.Called(ctx, profile).Error(0)
}

func (m *mockStaffRepository) RecordLogin(ctx context.Context, id, principalID string, at time.Time) (*domain.StaffProfile, error) {
	return profileResult(m.Called(ctx, id, principalID, at))
}

func (m *mockStaffRepository) SetRole(ctx context.Context, id string, role rbac.Role) (*domain.StaffProfile, error) {
	return profileResult(m.Called(ctx, id, role))
}

func (m *mockStaffRepository) SetActive(ctx context.Context, id string, active bool) (*domain.StaffProfile, error) {
	return profileResult(m.Called(ctx, id, active))
}

func (m *mockStaffRepository) LockVenue(ctx context.Context, venueID string) error {
	return m.Called(ctx, venueID).Error(0)
}

func profileResult(args mock.Arguments) (*domain.StaffProfile, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StaffProfile), args.Error(1)
}

func (m *mockStaffRepository) GetByID(ctx context.Context, id string) (*domain.StaffProfile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StaffProfile), args.Error(1)
}

func (m *mockStaffRepository) GetByVenueAndEmail(ctx context.Context, venueID, email string) (*domain.StaffProfile, error) {
	args := m.Called(ctx, venueID, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StaffProfile), args.Error(1)
}

func (m *mockStaffRepository) List(ctx context.Context, filter repository.StaffFilter) ([]domain.StaffProfile, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StaffProfile), args.Error(1)
}

func (m *mockStaffRepository) CountActiveByRole(ctx context.Context, venueID string, role rbac.Role) (int, error) {
	args := m.Called(ctx, venueID, role)
	return args.Int(0), args.Error(1)
}

type mockInvitationRepository struct{ mock.Mock }

func (m *mockInvitationRepository) Create(ctx context.Context, invitation *domain.StaffInvitation) error {
	return m.Called(ctx, invitation).Error(0)
}

func (m *mockInvitationRepository) GetByToken(ctx context.Context, token string) (*domain.StaffInvitation, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StaffInvitation), args.Error(1)
}

func (m *mockInvitationRepository) MarkAccepted(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type mockVenueRepository struct{ mock.Mock }

func (m *mockVenueRepository) Create(ctx context.Context, venue *domain.Venue) error {
	return m.Called(ctx, venue).Error(0)
}

func (m *mockVenueRepository) Update(ctx context.Context, venue *domain.Venue) error {
	return m.Called(ctx, venue).Error(0)
}

func (m *mockVenueRepository) GetByID(ctx context.Context, id string) (*domain.Venue, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Venue), args.Error(1)
}

type mockEventRepository struct{ mock.Mock }

func (m *mockEventRepository) Create(ctx context.Context, event *domain.Event) error {
	return m.Called(ctx, event).Error(0)
}

func (m *mockEventRepository) UpdateSchedule(ctx context.Context, event *domain.Event) (*domain.Event, error) {
	return eventResult(m.Called(ctx, event))
}

func (m *mockEventRepository) UpdateRules(ctx context.Context, venueID, id string, rules domain.EventRules) (*domain.Event, error) {
	return eventResult(m.Called(ctx, venueID, id, rules))
}

func eventResult(args mock.Arguments) (*domain.Event, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Event), args.Error(1)
}

func (m *mockEventRepository) GetByID(ctx context.Context, venueID, id string) (*domain.Event, error) {
	args := m.Called(ctx, venueID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Event), args.Error(1)
}

func (m *mockEventRepository) List(ctx context.Context, filter repository.EventFilter) ([]domain.Event, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Event), args.Error(1)
}

type mockIncidentRepository struct{ mock.Mock }

func (m *mockIncidentRepository) Create(ctx context.Context, incident *domain.Incident) error {
	return m.Called(ctx, incident).Error(0)
}

func (m *mockIncidentRepository) List(ctx context.Context, filter repository.IncidentFilter) ([]domain.Incident, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Incident), args.Error(1)
}

type mockProfileStore struct{ mock.Mock }

func (m *mockProfileStore) GetProfile(ctx context.Context, id string) (*domain.StaffProfile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StaffProfile), args.Error(1)
}

func (m *mockProfileStore) Invalidate(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type mockRevocationList struct{ mock.Mock }

func (m *mockRevocationList) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	return m.Called(ctx, tokenID, expiresAt).Error(0)
}

func (m *mockRevocationList) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	args := m.Called(ctx, tokenID)
	return args.Bool(0), args.Error(1)
}

// recordingTx runs fn directly and remembers whether it asked for a rollback.
type recordingTx struct {
	calls      int
	rolledBack bool
}

func (tx *recordingTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	tx.calls++
	err := fn(ctx)
	if err != nil {
		tx.rolledBack = true
	}
	return err
}

// recordingDispatcher captures published events.
type recordingDispatcher struct {
	published []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.published = append(d.published, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *recordingDispatcher) types() []events.EventType {
	out := make([]events.EventType, 0, len(d.published))
	for _, e := range d.published {
		out = append(out, e.Type)
	}
	return out
}

func staffProfile(id, venueID string, role rbac.Role) *domain.StaffProfile {
	return &domain.StaffProfile{
		ID:          id,
		VenueID:     venueID,
		PrincipalID: "acct-" + id,
		Email:       id + "@venue.test",
		DisplayName: id,
		Role:        role,
		IsActive:    true,
	}
}
