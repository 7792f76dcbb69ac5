package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/venue-access-service/internal/api/dto"
	"github.com/spec-kit/venue-access-service/internal/auth"
	"github.com/spec-kit/venue-access-service/internal/domain"
	"github.com/spec-kit/venue-access-service/internal/service"
)

// EventHandler exposes the event calendar and incident register.
type EventHandler struct {
	eventService    *service.EventService
	incidentService *service.IncidentService
}

// NewEventHandler constructs handler.
func NewEventHandler(eventService *service.EventService, incidentService *service.IncidentService) *EventHandler {
	return &EventHandler{eventService: eventService, incidentService: incidentService}
}

// ListEvents handles GET /venues/:venueId/events.
func (h *EventHandler) ListEvents(c *fiber.Ctx) error {
	actor, err := currentProfile(c)
	if err != nil {
		return err
	}
	from, err := optionalTime(c, "from")
	if err != nil {
		return err
	}
	to, err := optionalTime(c, "to")
	if err != nil {
		return err
	}
	limit, offset := pagination(c)
	list, err := h.eventService.ListEvents(c.UserContext(), actor, c.Params(auth.VenueParam), service.EventListFilters{
		From: from, To: to, Limit: limit, Offset: offset,
	})
	if err != nil {
		return err
	}
	out := make([]dto.EventResponse, 0, len(list))
	for i := range list {
		out = append(out, eventResponse(&list[i]))
	}
	return c.JSON(fiber.Map{"data": out, "meta": fiber.Map{"limit": limit, "offset": offset}})
}

// GetEvent handles GET /venues/:venueId/events/:eventId.
func (h *EventHandler) GetEvent(c *fiber.Ctx) error {
	actor, err := currentProfile(c)
	if err != nil {
		return err
	}
	eventID, err := idParam(c, "eventId", "event")
	if err != nil {
		return err
	}
	event, err := h.eventService.GetEvent(c.UserContext(), actor, c.Params(auth.VenueParam), eventID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": eventResponse(event)})
}

// CreateEvent handles POST /venues/:venueId/events.
func (h *EventHandler) CreateEvent(c *fiber.Ctx) error {
	actor, err := currentProfile(c)
	if err != nil {
		return err
	}
	var req dto.EventRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	input := service.EventInput{Title: req.Title, StartsAt: req.StartsAt, EndsAt: req.EndsAt}
	if req.Rules != nil {
		rules := rulesFromPayload(*req.Rules)
		input.Rules = &rules
	}
	event, err := h.eventService.CreateEvent(c.UserContext(), actor, c.Params(auth.VenueParam), input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": eventResponse(event)})
}

// UpdateEvent handles PUT /venues/:venueId/events/:eventId.
func (h *EventHandler) UpdateEvent(c *fiber.Ctx) error {
	actor, err := currentProfile(c)
	if err != nil {
		return err
	}
	eventID, err := idParam(c, "eventId", "event")
	if err != nil {
		return err
	}
	var req dto.EventRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	event, err := h.eventService.UpdateEvent(c.UserContext(), actor, c.Params(auth.VenueParam), eventID, service.EventInput{
		Title: req.Title, StartsAt: req.StartsAt, EndsAt: req.EndsAt,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": eventResponse(event)})
}

// UpdateRules handles PUT /venues/:venueId/events/:eventId/rules.
func (h *EventHandler) UpdateRules(c *fiber.Ctx) error {
	actor, err := currentProfile(c)
	if err != nil {
		return err
	}
	eventID, err := idParam(c, "eventId", "event")
	if err != nil {
		return err
	}
	var req dto.EventRulesPayload
	if err := parseBody(c, &req); err != nil {
		return err
	}
	event, err := h.eventService.UpdateRules(c.UserContext(), actor, c.Params(auth.VenueParam), eventID, rulesFromPayload(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": eventResponse(event)})
}

// LogIncident handles POST /venues/:venueId/incidents.
func (h *EventHandler) LogIncident(c *fiber.Ctx) error {
	actor, err := currentProfile(c)
	if err != nil {
		return err
	}
	var req dto.IncidentRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	incident, err := h.incidentService.LogIncident(c.UserContext(), actor, c.Params(auth.VenueParam), service.IncidentInput{
		EventID:     req.EventID,
		Severity:    req.Severity,
		Description: req.Description,
		OccurredAt:  req.OccurredAt,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": incidentResponse(incident)})
}

// ListIncidents handles GET /venues/:venueId/incidents.
func (h *EventHandler) ListIncidents(c *fiber.Ctx) error {
	actor, err := currentProfile(c)
	if err != nil {
		return err
	}
	limit, offset := pagination(c)
	list, err := h.incidentService.ListIncidents(c.UserContext(), actor, c.Params(auth.VenueParam), service.IncidentListFilters{
		EventID:  optionalString(c, "event_id"),
		Severity: optionalString(c, "severity"),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		return err
	}
	out := make([]dto.IncidentResponse, 0, len(list))
	for i := range list {
		out = append(out, incidentResponse(&list[i]))
	}
	return c.JSON(fiber.Map{"data": out, "meta": fiber.Map{"limit": limit, "offset": offset}})
}

func rulesFromPayload(p dto.EventRulesPayload) domain.EventRules {
	return domain.EventRules{
		MinAge:    p.MinAge,
		DressCode: p.DressCode,
		Capacity:  p.Capacity,
		EntryFee:  p.EntryFeeCents,
	}
}
