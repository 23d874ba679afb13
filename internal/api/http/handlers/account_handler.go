package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/craftelio/storefront/internal/api/dto"
	"github.com/craftelio/storefront/internal/auth"
	"github.com/craftelio/storefront/internal/domain"
	"github.com/craftelio/storefront/internal/service"
	apperrors "github.com/craftelio/storefront/pkg/util"
)

// AccountAPI is the account capability the handler serves.
type AccountAPI interface {
	Register(ctx context.Context, in service.RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*service.LoginResult, error)
	Logout(ctx context.Context, sessionID string) error
}

// AccountHandler exposes registration, login and session endpoints.
type AccountHandler struct {
	accounts AccountAPI
}

// NewAccountHandler constructs handler.
func NewAccountHandler(accounts AccountAPI) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

// Register handles POST /identity/account/register.
func (h *AccountHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if details, ok := dto.Validate(req); !ok {
		return apperrors.NewValidationError("invalid registration", details)
	}

	user, err := h.accounts.Register(c.UserContext(), service.RegisterInput{
		Email:         req.Email,
		Password:      req.Password,
		Name:          req.Name,
		PhoneNumber:   req.PhoneNumber,
		StreetAddress: req.StreetAddress,
		City:          req.City,
		State:         req.State,
		PostalCode:    req.PostalCode,
		Role:          req.Role,
		CompanyID:     req.CompanyID,
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{"user": dto.NewUserResponse(user, nil)},
	})
}

// Login handles POST /identity/account/login.
func (h *AccountHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if details, ok := dto.Validate(req); !ok {
		return apperrors.NewValidationError("email and password required", details)
	}

	result, err := h.accounts.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"user": dto.NewUserResponse(result.User, result.Roles),
			"auth": dto.AuthResponse{Token: result.Token, ExpiresAt: result.ExpiresAt},
		},
	})
}

// Logout handles POST /identity/account/logout.
func (h *AccountHandler) Logout(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.accounts.Logout(c.UserContext(), principal.SessionID); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Me handles GET /identity/account/me.
func (h *AccountHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(principal.User, principal.Roles)})
}
