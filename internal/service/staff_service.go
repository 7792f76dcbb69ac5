package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/venue-access-service/internal/auth"
	"github.com/spec-kit/venue-access-service/internal/config"
	"github.com/spec-kit/venue-access-service/internal/domain"
	"github.com/spec-kit/venue-access-service/internal/events"
	"github.com/spec-kit/venue-access-service/internal/rbac"
	"github.com/spec-kit/venue-access-service/internal/repository"
	apperrors "github.com/spec-kit/venue-access-service/pkg/util"
)

// StaffService manages staff profiles within a venue.
type StaffService struct {
	staff       repository.StaffRepository
	invitations repository.InvitationRepository
	profiles    repository.ProfileStore
	tx          repository.Transactor
	dispatcher  events.Dispatcher
	inviteTTL   time.Duration
	logger      *zap.Logger
	now         func() time.Time
}

// StaffDependencies encapsulates repositories required for staff management.
type StaffDependencies struct {
	StaffRepo      repository.StaffRepository
	InvitationRepo repository.InvitationRepository
	Profiles       repository.ProfileStore
	Transactor     repository.Transactor
	Dispatcher     events.Dispatcher
	Logger         *zap.Logger
}

// InviteInput describes a staff invitation.
type InviteInput struct {
	Email       string
	DisplayName string
	Role        string
}

// StaffListFilters define listing parameters.
type StaffListFilters struct {
	Role   *string
	Active *bool
	Limit  int
	Offset int
}

// MeView is the caller's own access summary.
type MeView struct {
	Profile     *domain.StaffProfile
	Permissions []rbac.Permission
	Navigation  []rbac.NavGroup
}

// NewStaffService constructs the service.
func NewStaffService(cfg config.Config, deps StaffDependencies) *StaffService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StaffService{
		staff:       deps.StaffRepo,
		invitations: deps.InvitationRepo,
		profiles:    deps.Profiles,
		tx:          transactorOrDirect(deps.Transactor),
		dispatcher:  deps.Dispatcher,
		inviteTTL:   cfg.Auth.InviteTTL(),
		logger:      logger,
		now:         time.Now,
	}
}

// Invite creates an active profile with a placeholder identity and an
// invitation token for it.
func (s *StaffService) Invite(ctx context.Context, actor *domain.StaffProfile, venueID string, input InviteInput) (*domain.StaffProfile, *domain.StaffInvitation, error) {
	if err := auth.Check(actor, rbac.PermManageStaff, venueID); err != nil {
		return nil, nil, err
	}
	role, err := rbac.ParseRole(input.Role)
	if err != nil {
		return nil, nil, apperrors.NewValidationError("invalid role", map[string]any{"role": input.Role})
	}
	email := normalizeEmail(input.Email)
	if email == "" {
		return nil, nil, apperrors.NewValidationError("email is required", map[string]any{"field": "email"})
	}

	if _, err := s.staff.GetByVenueAndEmail(ctx, venueID, email); err == nil {
		return nil, nil, apperrors.NewConflict("staff member already exists", map[string]any{"email": email})
	} else if !isNotFound(err) {
		return nil, nil, err
	}

	now := s.now().UTC()
	id := uuid.NewString()
	profile := &domain.StaffProfile{
		ID:          id,
		VenueID:     venueID,
		PrincipalID: id,
		Email:       email,
		DisplayName: strings.TrimSpace(input.DisplayName),
		Role:        role,
		IsActive:    true,
		InvitedAt:   now,
	}
	invitation := &domain.StaffInvitation{
		ProfileID: profile.ID,
		VenueID:   venueID,
		Email:     email,
		Token:     uuid.NewString(),
		ExpiresAt: now.Add(s.inviteTTL),
	}
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.staff.Create(ctx, profile); err != nil {
			return err
		}
		return s.invitations.Create(ctx, invitation)
	})
	if err != nil {
		return nil, nil, err
	}

	publishEvent(ctx, s.dispatcher, events.Event{
		Type:    events.EventStaffInvited,
		VenueID: venueID,
		Actor:   staffActor(actor),
		Payload: events.StaffInvitedPayload{
			ProfileID:       profile.ID,
			Email:           profile.Email,
			DisplayName:     profile.DisplayName,
			Role:            profile.Role,
			InvitationToken: invitation.Token,
			ExpiresAt:       invitation.ExpiresAt,
		},
	})
	return profile, invitation, nil
}

// ListStaff returns the venue's staff profiles.
func (s *StaffService) ListStaff(ctx context.Context, actor *domain.StaffProfile, venueID string, filters StaffListFilters) ([]domain.StaffProfile, error) {
	if err := auth.Check(actor, rbac.PermManageStaff, venueID); err != nil {
		return nil, err
	}
	filter := repository.StaffFilter{
		VenueID: venueID,
		Active:  filters.Active,
		Limit:   filters.Limit,
		Offset:  filters.Offset,
	}
	if filters.Role != nil {
		role, err := rbac.ParseRole(*filters.Role)
		if err != nil {
			return nil, apperrors.NewValidationError("invalid role", map[string]any{"role": *filters.Role})
		}
		filter.Role = &role
	}
	return s.staff.List(ctx, filter)
}

// GetStaff fetches one profile of the venue.
func (s *StaffService) GetStaff(ctx context.Context, actor *domain.StaffProfile, venueID, staffID string) (*domain.StaffProfile, error) {
	if err := auth.Check(actor, rbac.PermManageStaff, venueID); err != nil {
		return nil, err
	}
	return s.loadTarget(ctx, venueID, staffID)
}

// ChangeRole assigns a new role to a staff member of the venue.
func (s *StaffService) ChangeRole(ctx context.Context, actor *domain.StaffProfile, venueID, staffID, roleTag string) (*domain.StaffProfile, error) {
	if err := auth.Check(actor, rbac.PermManageStaff, venueID); err != nil {
		return nil, err
	}
	role, err := rbac.ParseRole(roleTag)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid role", map[string]any{"role": roleTag})
	}
	if staffID == actor.ID {
		return nil, apperrors.NewConflict("cannot change your own role", nil)
	}
	var (
		updated *domain.StaffProfile
		oldRole rbac.Role
	)
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.staff.LockVenue(ctx, venueID); err != nil {
			return err
		}
		target, err := s.loadTarget(ctx, venueID, staffID)
		if err != nil {
			return err
		}
		oldRole = target.Role
		if target.Role == role {
			updated = target
			return nil
		}
		if target.Role == rbac.RoleOwner && target.IsActive {
			if err := s.ensureOwnerRemains(ctx, venueID); err != nil {
				return err
			}
		}
		updated, err = s.staff.SetRole(ctx, target.ID, role)
		return err
	})
	if err != nil {
		return nil, err
	}
	if oldRole == role {
		return updated, nil
	}
	s.invalidate(ctx, updated.ID)
	publishEvent(ctx, s.dispatcher, events.Event{
		Type:    events.EventStaffRoleChanged,
		VenueID: venueID,
		Actor:   staffActor(actor),
		Payload: events.StaffRoleChangedPayload{ProfileID: updated.ID, OldRole: oldRole, NewRole: role},
	})
	return updated, nil
}

// SetActive deactivates or reactivates a staff member. A deactivated member
// is denied on the next request.
func (s *StaffService) SetActive(ctx context.Context, actor *domain.StaffProfile, venueID, staffID string, active bool) (*domain.StaffProfile, error) {
	if err := auth.Check(actor, rbac.PermManageStaff, venueID); err != nil {
		return nil, err
	}
	if staffID == actor.ID {
		return nil, apperrors.NewConflict("cannot change your own status", nil)
	}
	var (
		updated *domain.StaffProfile
		changed bool
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.staff.LockVenue(ctx, venueID); err != nil {
			return err
		}
		target, err := s.loadTarget(ctx, venueID, staffID)
		if err != nil {
			return err
		}
		if target.IsActive == active {
			updated = target
			return nil
		}
		if !active && target.Role == rbac.RoleOwner {
			if err := s.ensureOwnerRemains(ctx, venueID); err != nil {
				return err
			}
		}
		updated, err = s.staff.SetActive(ctx, target.ID, active)
		changed = err == nil
		return err
	})
	if err != nil {
		return nil, err
	}
	if !changed {
		return updated, nil
	}
	s.invalidate(ctx, updated.ID)
	publishEvent(ctx, s.dispatcher, events.Event{
		Type:    events.EventStaffStatusChanged,
		VenueID: venueID,
		Actor:   staffActor(actor),
		Payload: events.StaffStatusChangedPayload{ProfileID: updated.ID, IsActive: active},
	})
	return updated, nil
}

// Me summarizes the caller's access at venueID.
func (s *StaffService) Me(actor *domain.StaffProfile, venueID string) (*MeView, error) {
	if err := requireMember(actor, venueID); err != nil {
		return nil, err
	}
	perms, err := rbac.PermissionsFor(actor.Role)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	nav, err := rbac.VisibleNavigation(actor.Role)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &MeView{Profile: actor, Permissions: perms, Navigation: nav}, nil
}

// loadTarget hides profiles of other venues behind a not-found.
func (s *StaffService) loadTarget(ctx context.Context, venueID, staffID string) (*domain.StaffProfile, error) {
	profile, err := s.staff.GetByID(ctx, staffID)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.NewNotFound("staff profile", map[string]any{"staff_id": staffID})
		}
		return nil, err
	}
	if profile.VenueID != venueID {
		return nil, apperrors.NewNotFound("staff profile", map[string]any{"staff_id": staffID})
	}
	return profile, nil
}

func (s *StaffService) ensureOwnerRemains(ctx context.Context, venueID string) error {
	owners, err := s.staff.CountActiveByRole(ctx, venueID, rbac.RoleOwner)
	if err != nil {
		return err
	}
	if owners <= 1 {
		return apperrors.NewConflict("venue must keep at least one active owner", nil)
	}
	return nil
}

func (s *StaffService) invalidate(ctx context.Context, id string) {
	if s.profiles == nil {
		return
	}
	if err := s.profiles.Invalidate(ctx, id); err != nil {
		s.logger.Warn("profile cache invalidation failed", zap.String("profile_id", id), zap.Error(err))
	}
}
