package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/venue-access-service/internal/api/dto"
	"github.com/spec-kit/venue-access-service/internal/auth"
	"github.com/spec-kit/venue-access-service/internal/service"
)

// VenueHandler exposes venue endpoints.
type VenueHandler struct {
	venueService *service.VenueService
}

// NewVenueHandler constructs handler.
func NewVenueHandler(venueService *service.VenueService) *VenueHandler {
	return &VenueHandler{venueService: venueService}
}

// Create handles POST /venues.
func (h *VenueHandler) Create(c *fiber.Ctx) error {
	account, err := currentAccount(c)
	if err != nil {
		return err
	}
	var req dto.VenueRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	venue, owner, err := h.venueService.CreateVenue(c.UserContext(), account, service.VenueInput{
		Name:     req.Name,
		Timezone: req.Timezone,
		Capacity: req.Capacity,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": fiber.Map{
		"venue": venueResponse(venue),
		"owner": staffResponse(owner),
	}})
}

// Get handles GET /venues/:venueId.
func (h *VenueHandler) Get(c *fiber.Ctx) error {
	profile, err := currentProfile(c)
	if err != nil {
		return err
	}
	venue, err := h.venueService.GetVenue(c.UserContext(), profile, c.Params(auth.VenueParam))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": venueResponse(venue)})
}

// UpdateSettings handles PUT /venues/:venueId/settings.
func (h *VenueHandler) UpdateSettings(c *fiber.Ctx) error {
	profile, err := currentProfile(c)
	if err != nil {
		return err
	}
	var req dto.VenueRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	venue, err := h.venueService.UpdateSettings(c.UserContext(), profile, c.Params(auth.VenueParam), service.VenueInput{
		Name:     req.Name,
		Timezone: req.Timezone,
		Capacity: req.Capacity,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": venueResponse(venue)})
}
