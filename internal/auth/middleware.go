package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/venue-access-service/internal/domain"
	"github.com/spec-kit/venue-access-service/internal/repository"
	apperrors "github.com/spec-kit/venue-access-service/pkg/util"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller. Profile is set only for staff
// tokens and is the snapshot every authorization decision in the request uses.
type Principal struct {
	SubjectType domain.SubjectType
	AccountID   string
	Account     *domain.Account
	Profile     *domain.StaffProfile
	TokenID     string
	ExpiresAt   time.Time
}

// AuthMiddleware validates bearer tokens and loads principals.
type AuthMiddleware struct {
	tokens   *TokenManager
	revoked  RevocationList
	accounts repository.AccountRepository
	profiles repository.ProfileStore
	logger   *zap.Logger
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, revoked RevocationList, accounts repository.AccountRepository, profiles repository.ProfileStore, logger *zap.Logger) *AuthMiddleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthMiddleware{tokens: tokens, revoked: revoked, accounts: accounts, profiles: profiles, logger: logger}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	if m.revoked != nil {
		revoked, err := m.revoked.IsRevoked(c.UserContext(), claims.ID)
		if err != nil {
			m.logger.Warn("revocation lookup failed", zap.String("token_id", claims.ID), zap.Error(err))
		} else if revoked {
			return apperrors.NewUnauthorized("token revoked")
		}
	}

	principal := &Principal{
		SubjectType: claims.Subject,
		AccountID:   claims.SubjectID,
		TokenID:     claims.ID,
	}
	if claims.ExpiresAt != nil {
		principal.ExpiresAt = claims.ExpiresAt.Time
	}

	switch claims.Subject {
	case domain.SubjectTypeAccount:
		account, err := m.accounts.GetByID(c.UserContext(), claims.SubjectID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewUnauthorized("account not found")
			}
			return apperrors.MapError(err)
		}
		principal.Account = account
	case domain.SubjectTypeStaff:
		profile, err := m.profiles.GetProfile(c.UserContext(), claims.ProfileID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewUnauthorized("staff profile not found")
			}
			return apperrors.MapError(err)
		}
		if profile.PrincipalID != claims.SubjectID || profile.VenueID != claims.VenueID {
			return apperrors.NewUnauthorized("staff profile no longer bound to token")
		}
		principal.Profile = profile
	default:
		return apperrors.NewUnauthorized("unknown subject")
	}

	c.Locals(principalKey, principal)
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}

// WithPrincipal stores principal on the request. Exposed for handler tests.
func WithPrincipal(c *fiber.Ctx, principal *Principal) {
	c.Locals(principalKey, principal)
}
