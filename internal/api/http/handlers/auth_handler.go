package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/venue-access-service/internal/api/dto"
	"github.com/spec-kit/venue-access-service/internal/auth"
	"github.com/spec-kit/venue-access-service/internal/service"
	apperrors "github.com/spec-kit/venue-access-service/pkg/util"
)

// AuthHandler exposes identity endpoints.
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	session, err := h.authService.Register(c.UserContext(), req.DisplayName, req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": sessionResponse(session)})
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	session, err := h.authService.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": sessionResponse(session)})
}

// StaffLogin handles POST /auth/staff/login.
func (h *AuthHandler) StaffLogin(c *fiber.Ctx) error {
	var req dto.StaffLoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	session, err := h.authService.LoginStaff(c.UserContext(), req.Email, req.Password, req.VenueID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": sessionResponse(session)})
}

// AcceptInvitation handles POST /auth/invitations/accept.
func (h *AuthHandler) AcceptInvitation(c *fiber.Ctx) error {
	var req dto.AcceptInvitationRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	session, err := h.authService.AcceptInvitation(c.UserContext(), req.Token, req.DisplayName, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": sessionResponse(session)})
}

// Logout handles POST /auth/logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.authService.Logout(c.UserContext(), principal); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// ChangePassword handles POST /auth/password/change. Both token kinds carry
// the account id as subject.
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.PasswordChangeRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := h.authService.ChangePassword(c.UserContext(), principal.AccountID, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": "password_changed"}})
}

func sessionResponse(session *service.Session) fiber.Map {
	data := fiber.Map{
		"account": accountResponse(session.Account),
		"auth":    dto.AuthResponse{Token: session.Token, ExpiresAt: session.ExpiresAt},
	}
	if session.Profile != nil {
		data["staff"] = staffResponse(session.Profile)
	}
	return data
}
