package repository

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/spec-kit/venue-access-service/internal/domain"
	"github.com/spec-kit/venue-access-service/internal/rbac"
)

type mockStaffRepository struct {
	mock.Mock
}

func (m *mockStaffRepository) Create(ctx context.Context, profile *domain.StaffProfile) error {
	return m.Called(ctx, profile).Error(0)
}

func (m *mockStaffRepository) RecordLogin(ctx context.Context, id, principalID string, at time.Time) (*domain.StaffProfile, error) {
	return m.profile(m.Called(ctx, id, principalID, at))
}

func (m *mockStaffRepository) SetRole(ctx context.Context, id string, role rbac.Role) (*domain.StaffProfile, error) {
	return m.profile(m.Called(ctx, id, role))
}

func (m *mockStaffRepository) SetActive(ctx context.Context, id string, active bool) (*domain.StaffProfile, error) {
	return m.profile(m.Called(ctx, id, active))
}

func (m *mockStaffRepository) LockVenue(ctx context.Context, venueID string) error {
	return m.Called(ctx, venueID).Error(0)
}

func (m *mockStaffRepository) profile(args mock.Arguments) (*domain.StaffProfile, error) {
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

func (m *mockStaffRepository) List(ctx context.Context, filter StaffFilter) ([]domain.StaffProfile, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.StaffProfile), args.Error(1)
}

func (m *mockStaffRepository) CountActiveByRole(ctx context.Context, venueID string, role rbac.Role) (int, error) {
	args := m.Called(ctx, venueID, role)
	return args.Int(0), args.Error(1)
}
