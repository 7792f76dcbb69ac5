package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/venue-access-service/internal/auth"
	"github.com/spec-kit/venue-access-service/internal/config"
	"github.com/spec-kit/venue-access-service/internal/domain"
	"github.com/spec-kit/venue-access-service/internal/events"
	"github.com/spec-kit/venue-access-service/internal/repository"
	apperrors "github.com/spec-kit/venue-access-service/pkg/util"
)

// Session is the result of a successful authentication. Profile is set only
// for venue-bound staff sessions.
type Session struct {
	Account   *domain.Account
	Profile   *domain.StaffProfile
	Token     string
	ExpiresAt time.Time
}

// AuthService coordinates registration, login and invitation flows.
type AuthService struct {
	accounts    repository.AccountRepository
	staff       repository.StaffRepository
	invitations repository.InvitationRepository
	profiles    repository.ProfileStore
	tx          repository.Transactor
	revoked     auth.RevocationList
	tokenMgr    *auth.TokenManager
	dispatcher  events.Dispatcher
	bcryptCost  int
	logger      *zap.Logger
	now         func() time.Time
}

// AuthDependencies encapsulates requirements for the auth service.
type AuthDependencies struct {
	AccountRepo    repository.AccountRepository
	StaffRepo      repository.StaffRepository
	InvitationRepo repository.InvitationRepository
	Profiles       repository.ProfileStore
	Transactor     repository.Transactor
	Revocations    auth.RevocationList
	TokenManager   *auth.TokenManager
	Dispatcher     events.Dispatcher
	Logger         *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	tokens := deps.TokenManager
	if tokens == nil {
		tokens = auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		accounts:    deps.AccountRepo,
		staff:       deps.StaffRepo,
		invitations: deps.InvitationRepo,
		profiles:    deps.Profiles,
		tx:          transactorOrDirect(deps.Transactor),
		revoked:     deps.Revocations,
		tokenMgr:    tokens,
		dispatcher:  deps.Dispatcher,
		bcryptCost:  cfg.Auth.BcryptCost,
		logger:      logger,
		now:         time.Now,
	}
}

// Register creates a new account and returns an identity session.
func (s *AuthService) Register(ctx context.Context, displayName, email, password string) (*Session, error) {
	email = normalizeEmail(email)
	if err := auth.ValidatePassword(password); err != nil {
		return nil, apperrors.NewValidationError(err.Error(), map[string]any{"field": "password"})
	}
	if _, err := s.accounts.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict("email already registered", map[string]any{"email": email})
	} else if !isNotFound(err) {
		return nil, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}
	account := &domain.Account{
		Email:        email,
		DisplayName:  strings.TrimSpace(displayName),
		PasswordHash: hash,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, err
	}
	return s.accountSession(account)
}

// Login authenticates an account and returns an identity session.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	account, err := s.authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return s.accountSession(account)
}

// LoginStaff authenticates an account and binds the session to its staff
// profile at venueID. The first login reconciles the profile's placeholder
// identity with the account.
func (s *AuthService) LoginStaff(ctx context.Context, email, password, venueID string) (*Session, error) {
	account, err := s.authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}

	profile, err := s.staff.GetByVenueAndEmail(ctx, venueID, account.Email)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, err
	}
	if !profile.HasPlaceholderIdentity() && profile.PrincipalID != account.ID {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}
	if !profile.IsActive {
		return nil, apperrors.NewAccountInactive()
	}

	joined := profile.HasPlaceholderIdentity()
	var bound *domain.StaffProfile
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		bound, err = s.recordLogin(ctx, profile.ID, account.ID)
		return err
	})
	if err != nil {
		if errors.Is(err, errProfileClaimed) {
			return nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, err
	}
	s.invalidateProfile(ctx, bound.ID)
	if joined {
		s.publishJoined(ctx, bound, account.ID)
	}
	return s.staffSession(account, bound)
}

// AcceptInvitation redeems an invitation token. A new account is created for
// unknown emails; an existing account must present its current password.
func (s *AuthService) AcceptInvitation(ctx context.Context, token, displayName, password string) (*Session, error) {
	invitation, err := s.invitations.GetByToken(ctx, token)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.NewNotFound("invitation", nil)
		}
		return nil, err
	}
	if !invitation.Redeemable(s.now()) {
		return nil, apperrors.NewConflict("invitation expired or already accepted", nil)
	}

	profile, err := s.staff.GetByID(ctx, invitation.ProfileID)
	if err != nil {
		return nil, err
	}
	if !profile.IsActive {
		return nil, apperrors.NewAccountInactive()
	}

	account, err := s.accounts.GetByEmail(ctx, invitation.Email)
	switch {
	case err == nil:
		if auth.ComparePassword(account.PasswordHash, password) != nil {
			return nil, apperrors.NewUnauthorized("invalid credentials")
		}
	case isNotFound(err):
		if err := auth.ValidatePassword(password); err != nil {
			return nil, apperrors.NewValidationError(err.Error(), map[string]any{"field": "password"})
		}
		hash, err := auth.HashPassword(password, s.bcryptCost)
		if err != nil {
			return nil, err
		}
		name := strings.TrimSpace(displayName)
		if name == "" {
			name = profile.DisplayName
		}
		account = &domain.Account{Email: invitation.Email, DisplayName: name, PasswordHash: hash}
	default:
		return nil, err
	}

	if account.ID != "" && !profile.HasPlaceholderIdentity() && profile.PrincipalID != account.ID {
		return nil, apperrors.NewConflict("staff profile already claimed", nil)
	}

	var bound *domain.StaffProfile
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if account.ID == "" {
			if err := s.accounts.Create(ctx, account); err != nil {
				return err
			}
		}
		var err error
		if bound, err = s.recordLogin(ctx, profile.ID, account.ID); err != nil {
			return err
		}
		return s.invitations.MarkAccepted(ctx, invitation.ID)
	})
	if err != nil {
		if errors.Is(err, errProfileClaimed) {
			return nil, apperrors.NewConflict("staff profile already claimed", nil)
		}
		return nil, err
	}
	s.invalidateProfile(ctx, bound.ID)
	s.publishJoined(ctx, bound, account.ID)
	return s.staffSession(account, bound)
}

// Logout revokes the presented token for the rest of its lifetime.
func (s *AuthService) Logout(ctx context.Context, principal *auth.Principal) error {
	if s.revoked == nil || principal == nil || principal.TokenID == "" {
		return nil
	}
	return s.revoked.Revoke(ctx, principal.TokenID, principal.ExpiresAt)
}

// ChangePassword verifies the current password before storing the new hash.
func (s *AuthService) ChangePassword(ctx context.Context, accountID, currentPassword, newPassword string) error {
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return err
	}
	if err := auth.ComparePassword(account.PasswordHash, currentPassword); err != nil {
		return apperrors.NewUnauthorized("invalid credentials")
	}
	if err := auth.ValidatePassword(newPassword); err != nil {
		return apperrors.NewValidationError(err.Error(), map[string]any{"field": "new_password"})
	}
	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}
	account.PasswordHash = hash
	return s.accounts.Update(ctx, account)
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) authenticate(ctx context.Context, email, password string) (*domain.Account, error) {
	account, err := s.accounts.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if isNotFound(err) {
			auth.BurnCompare(password)
			return nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, err
	}
	if err := auth.ComparePassword(account.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}
	return account, nil
}

// recordLogin binds accountID to the profile and stamps the login. The
// stored row is re-checked so a deactivation that landed after the profile
// was read still denies the login.
func (s *AuthService) recordLogin(ctx context.Context, profileID, accountID string) (*domain.StaffProfile, error) {
	bound, err := s.staff.RecordLogin(ctx, profileID, accountID, s.now().UTC())
	if err != nil {
		if isNotFound(err) {
			return nil, errProfileClaimed
		}
		return nil, err
	}
	if !bound.IsActive {
		return nil, apperrors.NewAccountInactive()
	}
	return bound, nil
}

func (s *AuthService) invalidateProfile(ctx context.Context, id string) {
	if s.profiles == nil {
		return
	}
	if err := s.profiles.Invalidate(ctx, id); err != nil {
		s.logger.Warn("profile cache invalidation failed", zap.String("profile_id", id), zap.Error(err))
	}
}

func (s *AuthService) publishJoined(ctx context.Context, profile *domain.StaffProfile, accountID string) {
	publishEvent(ctx, s.dispatcher, events.Event{
		Type:    events.EventStaffJoined,
		VenueID: profile.VenueID,
		Actor:   staffActor(profile),
		Payload: events.StaffJoinedPayload{ProfileID: profile.ID, AccountID: accountID},
	})
}

func (s *AuthService) accountSession(account *domain.Account) (*Session, error) {
	token, exp, err := s.tokenMgr.GenerateAccountToken(account.ID)
	if err != nil {
		return nil, err
	}
	return &Session{Account: account, Token: token, ExpiresAt: exp}, nil
}

func (s *AuthService) staffSession(account *domain.Account, profile *domain.StaffProfile) (*Session, error) {
	token, exp, err := s.tokenMgr.GenerateStaffToken(account.ID, profile)
	if err != nil {
		return nil, err
	}
	return &Session{Account: account, Profile: profile, Token: token, ExpiresAt: exp}, nil
}
