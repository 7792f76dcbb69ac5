package handlers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/spec-kit/venue-access-service/internal/api/dto"
	"github.com/spec-kit/venue-access-service/internal/auth"
	"github.com/spec-kit/venue-access-service/internal/domain"
	apperrors "github.com/spec-kit/venue-access-service/pkg/util"
)

func parseBody(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
	}
	return dto.Validate(dst)
}

// idParam returns the path parameter key, or NOT_FOUND when it is not a uuid.
func idParam(c *fiber.Ctx, key, resource string) (string, error) {
	raw := c.Params(key)
	if _, err := uuid.Parse(raw); err != nil {
		return "", apperrors.NewNotFound(resource, nil)
	}
	return raw, nil
}

func currentProfile(c *fiber.Ctx) (*domain.StaffProfile, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Profile == nil {
		return nil, apperrors.NewForbidden("staff token required")
	}
	return principal.Profile, nil
}

func currentAccount(c *fiber.Ctx) (*domain.Account, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Account == nil {
		return nil, apperrors.NewForbidden("account token required")
	}
	return principal.Account, nil
}

func pagination(c *fiber.Ctx) (int, int) {
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func optionalString(c *fiber.Ctx, key string) *string {
	if v := c.Query(key); v != "" {
		return &v
	}
	return nil
}

func optionalBool(c *fiber.Ctx, key string) (*bool, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid boolean", map[string]any{"field": key})
	}
	return &v, nil
}

func optionalTime(c *fiber.Ctx, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	v, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid timestamp", map[string]any{"field": key})
	}
	return &v, nil
}

func accountResponse(account *domain.Account) dto.AccountResponse {
	return dto.AccountResponse{
		ID:          account.ID,
		Email:       account.Email,
		DisplayName: account.DisplayName,
		CreatedAt:   account.CreatedAt,
	}
}

func staffResponse(profile *domain.StaffProfile) dto.StaffResponse {
	return dto.StaffResponse{
		ID:          profile.ID,
		VenueID:     profile.VenueID,
		Email:       profile.Email,
		DisplayName: profile.DisplayName,
		Role:        profile.Role,
		IsActive:    profile.IsActive,
		Pending:     profile.HasPlaceholderIdentity(),
		InvitedAt:   profile.InvitedAt,
		LastLogin:   profile.LastLogin,
	}
}

func staffListResponse(profiles []domain.StaffProfile) []dto.StaffResponse {
	out := make([]dto.StaffResponse, 0, len(profiles))
	for i := range profiles {
		out = append(out, staffResponse(&profiles[i]))
	}
	return out
}

func venueResponse(venue *domain.Venue) dto.VenueResponse {
	return dto.VenueResponse{
		ID:        venue.ID,
		Name:      venue.Name,
		Timezone:  venue.Timezone,
		Capacity:  venue.Capacity,
		CreatedAt: venue.CreatedAt,
		UpdatedAt: venue.UpdatedAt,
	}
}

func eventResponse(event *domain.Event) dto.EventResponse {
	return dto.EventResponse{
		ID:       event.ID,
		VenueID:  event.VenueID,
		Title:    event.Title,
		StartsAt: event.StartsAt,
		EndsAt:   event.EndsAt,
		Rules: dto.EventRulesPayload{
			MinAge:        event.Rules.MinAge,
			DressCode:     event.Rules.DressCode,
			Capacity:      event.Rules.Capacity,
			EntryFeeCents: event.Rules.EntryFee,
		},
		CreatedBy: event.CreatedBy,
		CreatedAt: event.CreatedAt,
		UpdatedAt: event.UpdatedAt,
	}
}

func incidentResponse(incident *domain.Incident) dto.IncidentResponse {
	return dto.IncidentResponse{
		ID:          incident.ID,
		VenueID:     incident.VenueID,
		EventID:     incident.EventID,
		ReportedBy:  incident.ReportedBy,
		Severity:    string(incident.Severity),
		Description: incident.Description,
		OccurredAt:  incident.OccurredAt,
		CreatedAt:   incident.CreatedAt,
	}
}
