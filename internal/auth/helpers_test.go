package auth

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/venue-access-service/internal/domain"
	"github.com/spec-kit/venue-access-service/internal/rbac"
	apperrors "github.com/spec-kit/venue-access-service/pkg/util"
)

func newTestApp() *fiber.App {
	return fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			de := apperrors.ToDomainError(err)
			return c.Status(de.HTTPStatus).JSON(fiber.Map{"error": fiber.Map{"code": de.Code, "message": de.Message}})
		},
	})
}

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeError(t *testing.T, resp *http.Response) errorBody {
	t.Helper()
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body errorBody
	require.NoError(t, json.Unmarshal(raw, &body), string(raw))
	return body
}

type mockAccountRepository struct {
	mock.Mock
}

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

type mockProfileStore struct {
	mock.Mock
}

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

type staticRevocations map[string]bool

func (s staticRevocations) Revoke(_ context.Context, id string, _ time.Time) error {
	s[id] = true
	return nil
}

func (s staticRevocations) IsRevoked(_ context.Context, id string) (bool, error) {
	return s[id], nil
}

func staff(role rbac.Role, venueID string, active bool) *domain.StaffProfile {
	return &domain.StaffProfile{
		ID:          "p-1",
		VenueID:     venueID,
		PrincipalID: "acc-1",
		Role:        role,
		IsActive:    active,
	}
}
