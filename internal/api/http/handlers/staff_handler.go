package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/venue-access-service/internal/api/dto"
	"github.com/spec-kit/venue-access-service/internal/auth"
	"github.com/spec-kit/venue-access-service/internal/service"
)

// StaffHandler exposes venue staff management endpoints.
type StaffHandler struct {
	staffService *service.StaffService
}

// NewStaffHandler constructs handler.
func NewStaffHandler(staffService *service.StaffService) *StaffHandler {
	return &StaffHandler{staffService: staffService}
}

// Invite handles POST /venues/:venueId/staff.
func (h *StaffHandler) Invite(c *fiber.Ctx) error {
	actor, err := currentProfile(c)
	if err != nil {
		return err
	}
	var req dto.InviteStaffRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	profile, invitation, err := h.staffService.Invite(c.UserContext(), actor, c.Params(auth.VenueParam), service.InviteInput{
		Email:       req.Email,
		DisplayName: req.DisplayName,
		Role:        req.Role,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": fiber.Map{
		"staff":      staffResponse(profile),
		"invitation": dto.InvitationResponse{Token: invitation.Token, ExpiresAt: invitation.ExpiresAt},
	}})
}

// List handles GET /venues/:venueId/staff.
func (h *StaffHandler) List(c *fiber.Ctx) error {
	actor, err := currentProfile(c)
	if err != nil {
		return err
	}
	active, err := optionalBool(c, "active")
	if err != nil {
		return err
	}
	limit, offset := pagination(c)
	profiles, err := h.staffService.ListStaff(c.UserContext(), actor, c.Params(auth.VenueParam), service.StaffListFilters{
		Role:   optionalString(c, "role"),
		Active: active,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": staffListResponse(profiles),
		"meta": fiber.Map{"limit": limit, "offset": offset},
	})
}

// Get handles GET /venues/:venueId/staff/:staffId.
func (h *StaffHandler) Get(c *fiber.Ctx) error {
	actor, err := currentProfile(c)
	if err != nil {
		return err
	}
	staffID, err := idParam(c, "staffId", "staff profile")
	if err != nil {
		return err
	}
	profile, err := h.staffService.GetStaff(c.UserContext(), actor, c.Params(auth.VenueParam), staffID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": staffResponse(profile)})
}

// ChangeRole handles PATCH /venues/:venueId/staff/:staffId/role.
func (h *StaffHandler) ChangeRole(c *fiber.Ctx) error {
	actor, err := currentProfile(c)
	if err != nil {
		return err
	}
	staffID, err := idParam(c, "staffId", "staff profile")
	if err != nil {
		return err
	}
	var req dto.ChangeRoleRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	profile, err := h.staffService.ChangeRole(c.UserContext(), actor, c.Params(auth.VenueParam), staffID, req.Role)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": staffResponse(profile)})
}

// Deactivate handles POST /venues/:venueId/staff/:staffId/deactivate.
func (h *StaffHandler) Deactivate(c *fiber.Ctx) error {
	return h.setActive(c, false)
}

// Reactivate handles POST /venues/:venueId/staff/:staffId/reactivate.
func (h *StaffHandler) Reactivate(c *fiber.Ctx) error {
	return h.setActive(c, true)
}

func (h *StaffHandler) setActive(c *fiber.Ctx, active bool) error {
	actor, err := currentProfile(c)
	if err != nil {
		return err
	}
	staffID, err := idParam(c, "staffId", "staff profile")
	if err != nil {
		return err
	}
	profile, err := h.staffService.SetActive(c.UserContext(), actor, c.Params(auth.VenueParam), staffID, active)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": staffResponse(profile)})
}

// Me handles GET /venues/:venueId/me.
func (h *StaffHandler) Me(c *fiber.Ctx) error {
	actor, err := currentProfile(c)
	if err != nil {
		return err
	}
	view, err := h.staffService.Me(actor, c.Params(auth.VenueParam))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.MeResponse{
		Profile:     staffResponse(view.Profile),
		Permissions: view.Permissions,
		Navigation:  view.Navigation,
	}})
}
