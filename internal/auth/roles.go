package auth

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/venue-access-service/internal/domain"
	"github.com/spec-kit/venue-access-service/internal/rbac"
	apperrors "github.com/spec-kit/venue-access-service/pkg/util"
)

// VenueParam is the route parameter carrying the target venue.
const VenueParam = "venueId"

// DecisionObserver receives every authorization outcome. Implemented by the
// metrics layer.
type DecisionObserver interface {
	ObserveDecision(perm rbac.Permission, decision rbac.Decision, err error)
}

// Check runs the permission resolver for profile and converts a negative
// outcome into the matching DomainError. A nil return means allowed.
func Check(profile *domain.StaffProfile, perm rbac.Permission, venueID string) error {
	if profile == nil {
		return apperrors.NewUnauthorized("staff authentication required")
	}
	decision, err := rbac.Authorize(profile.Subject(), perm, venueID)
	return DecisionError(decision, err)
}

// DecisionError maps a resolver outcome to the error surfaced to callers.
// Wrong-tenant denials deliberately use the generic forbidden message.
func DecisionError(decision rbac.Decision, err error) error {
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	if decision.Allowed {
		return nil
	}
	switch decision.Reason {
	case rbac.DenyInactive:
		return apperrors.NewAccountInactive()
	case rbac.DenyInsufficientPermission:
		return apperrors.NewInsufficientPermissions()
	default:
		return apperrors.NewForbidden("not authorized")
	}
}

// Guard builds route-level authorization handlers.
type Guard struct {
	logger   *zap.Logger
	observer DecisionObserver
}

// NewGuard constructs a guard. observer may be nil.
func NewGuard(logger *zap.Logger, observer DecisionObserver) *Guard {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Guard{logger: logger, observer: observer}
}

// RequireAccount ensures the caller presented an identity token.
func (g *Guard) RequireAccount() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || principal.SubjectType != domain.SubjectTypeAccount || principal.Account == nil {
			return apperrors.NewForbidden("account token required")
		}
		return c.Next()
	}
}

// RequireMember ensures the caller is an active staff member of the venue in the path.
func (g *Guard) RequireMember() fiber.Handler {
	return func(c *fiber.Ctx) error {
		profile, err := staffProfile(c)
		if err != nil {
			return err
		}
		decision := rbac.CheckAccess(profile.Subject(), c.Params(VenueParam))
		if !decision.Allowed {
			g.logDenial(c, profile, "", decision)
		}
		if err := DecisionError(decision, nil); err != nil {
			return err
		}
		return c.Next()
	}
}

// RequirePermission authorizes perm against the venue in the path.
func (g *Guard) RequirePermission(perm rbac.Permission) fiber.Handler {
	return func(c *fiber.Ctx) error {
		profile, err := staffProfile(c)
		if err != nil {
			return err
		}
		decision, authErr := rbac.Authorize(profile.Subject(), perm, c.Params(VenueParam))
		if g.observer != nil {
			g.observer.ObserveDecision(perm, decision, authErr)
		}
		switch {
		case authErr != nil:
			g.logger.Error("authorization failed on malformed profile",
				zap.String("profile_id", profile.ID),
				zap.String("role", string(profile.Role)),
				zap.Error(authErr))
		case !decision.Allowed:
			g.logDenial(c, profile, perm, decision)
		}
		if err := DecisionError(decision, authErr); err != nil {
			return err
		}
		return c.Next()
	}
}

func (g *Guard) logDenial(c *fiber.Ctx, profile *domain.StaffProfile, perm rbac.Permission, decision rbac.Decision) {
	g.logger.Info("authorization denied",
		zap.String("profile_id", profile.ID),
		zap.String("venue_id", c.Params(VenueParam)),
		zap.String("permission", string(perm)),
		zap.String("reason", string(decision.Reason)),
		zap.String("path", c.Path()))
}

func staffProfile(c *fiber.Ctx) (*domain.StaffProfile, error) {
	principal, ok := PrincipalFromContext(c)
	if !ok || principal.SubjectType != domain.SubjectTypeStaff || principal.Profile == nil {
		return nil, apperrors.NewForbidden("staff token required")
	}
	return principal.Profile, nil
}
