package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/dietcare-service/internal/api/dto"
	"github.com/spec-kit/dietcare-service/internal/auth"
	"github.com/spec-kit/dietcare-service/internal/service"
	apperrors "github.com/spec-kit/dietcare-service/pkg/util"
)

// AuthHandler exposes the /auth endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewMissingCredentials()
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewMissingCredentials()
	}

	user, pair, err := h.auth.Authenticate(c.UserContext(), req.Email, req.Password, req.Role)
	if err != nil {
		return err
	}

	return c.JSON(envelope(dto.AuthData{
		Token:        pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		User:         user.Projection(),
	}))
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewMissingFields("name, email and password are required")
	}
	if req.Email == "" || req.Password == "" || req.Name == "" {
		return apperrors.NewMissingFields("name, email and password are required")
	}

	user, pair, err := h.auth.Register(c.UserContext(), service.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Role:     req.Role,
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(envelope(dto.AuthData{
		Token:        pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		User:         user.Projection(),
	}))
}

// Refresh handles POST /auth/refresh.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewMissingToken()
	}
	if req.RefreshToken == "" {
		return apperrors.NewMissingToken()
	}

	pair, err := h.auth.Refresh(c.UserContext(), req.RefreshToken)
	if err != nil {
		return err
	}

	return c.JSON(envelope(dto.RefreshData{
		Token:        pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}))
}

// Me handles GET /auth/me. It re-loads the durable record, so accounts
// deactivated after token issuance are rejected here.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	token, ok := auth.BearerToken(c)
	if !ok {
		return apperrors.NewUnauthorized("missing or malformed authorization header")
	}

	user, err := h.auth.Identify(c.UserContext(), token)
	if err != nil {
		return err
	}

	return c.JSON(envelope(fiber.Map{"user": user.Projection()}))
}

// Logout handles POST /auth/logout. Tokens are stateless, so this only
// acknowledges; the client is responsible for purging its session.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if token, ok := auth.BearerToken(c); ok {
		_ = h.auth.Logout(c.UserContext(), token)
	}
	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{"message": "logged out"}})
}

func envelope(data interface{}) fiber.Map {
	return fiber.Map{"success": true, "data": data}
}
