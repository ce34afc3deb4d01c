package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/AaronYuan9527/youtube-channel-analyzer/internal/middleware"
	"github.com/AaronYuan9527/youtube-channel-analyzer/internal/service"
)

// AuthHandler serves the OAuth login flow and session endpoints. svc is nil
// when Google OAuth is not configured; every route then reports that.
type AuthHandler struct {
	svc *service.AuthService
}

func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Login handles GET /api/auth/login
func (h *AuthHandler) Login(c fiber.Ctx) error {
	if h.svc == nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "OAUTH_INIT_ERROR", "OAuth is not configured")
	}

	url, state := h.svc.Login()
	return c.JSON(fiber.Map{
		"success":          true,
		"authorizationUrl": url,
		"state":            state,
	})
}

// Callback handles GET /api/auth/callback?code&state
func (h *AuthHandler) Callback(c fiber.Ctx) error {
	if h.svc == nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "OAUTH_INIT_ERROR", "OAuth is not configured")
	}

	if provErr := fiber.Query[string](c, "error"); provErr != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "OAUTH_ERROR", "OAuth authorization failed: "+provErr)
	}

	code := fiber.Query[string](c, "code")
	state := fiber.Query[string](c, "state")
	if code == "" || state == "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "MISSING_PARAMETERS", "code and state query parameters are required")
	}

	accessToken, user, err := h.svc.Callback(c.Context(), code, state)
	if err != nil {
		if errors.Is(err, service.ErrInvalidState) {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_STATE", "Invalid OAuth state parameter")
		}
		return middleware.ErrorResponseDetails(c, fiber.StatusInternalServerError, "OAUTH_CALLBACK_ERROR", "Failed to process OAuth callback", err.Error())
	}

	return c.JSON(fiber.Map{
		"success":     true,
		"message":     "Authentication successful",
		"accessToken": accessToken,
		"user":        user.Response(),
	})
}

// Logout handles POST /api/auth/logout (authenticated)
func (h *AuthHandler) Logout(c fiber.Ctx) error {
	if h.svc == nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "OAUTH_INIT_ERROR", "OAuth is not configured")
	}
	user := middleware.UserFromCtx(c)

	if err := h.svc.Logout(c.Context(), user.GoogleID); err != nil {
		return middleware.ErrorResponseDetails(c, fiber.StatusInternalServerError, "LOGOUT_ERROR", "Failed to log out", err.Error())
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Logged out successfully",
	})
}

// Me handles GET /api/auth/me (authenticated)
func (h *AuthHandler) Me(c fiber.Ctx) error {
	user := middleware.UserFromCtx(c)

	return c.JSON(fiber.Map{
		"success": true,
		"user":    user.DetailResponse(),
	})
}

// Refresh handles POST /api/auth/refresh (authenticated)
func (h *AuthHandler) Refresh(c fiber.Ctx) error {
	if h.svc == nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "OAUTH_INIT_ERROR", "OAuth is not configured")
	}
	user := middleware.UserFromCtx(c)

	if err := h.svc.RefreshOAuth(c.Context(), user); err != nil {
		if errors.Is(err, service.ErrNoRefreshToken) {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "NO_REFRESH_TOKEN", "No refresh token available")
		}
		return middleware.ErrorResponseDetails(c, fiber.StatusInternalServerError, "TOKEN_REFRESH_ERROR", "Failed to refresh token", err.Error())
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Token refreshed successfully",
	})
}
