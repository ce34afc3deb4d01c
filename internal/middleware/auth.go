package middleware

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/golang-jwt/jwt/v5"

	"github.com/AaronYuan9527/youtube-channel-analyzer/internal/model"
	"github.com/AaronYuan9527/youtube-channel-analyzer/internal/repository"
)

// UserLocalKey is the Locals key under which the authenticated user is stored.
const UserLocalKey = "authUser"

// NewAuth returns a middleware that verifies a Bearer JWT and loads the
// matching user row into Locals. Requests without a valid token get 401.
func NewAuth(jwtSecret string, users *repository.UserRepo) fiber.Handler {
	secret := []byte(jwtSecret)

	return func(c fiber.Ctx) error {
		header := c.Get("Authorization")
		if header == "" {
			return ErrorResponse(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "Authorization header is required")
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return ErrorResponse(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "Authorization header format must be 'Bearer <token>'")
		}

		token, err := jwt.Parse(parts[1], func(t *jwt.Token) (interface{}, error) {
			return secret, nil
		}, jwt.WithValidMethods([]string{"HS256"}))
		if err != nil || !token.Valid {
			return ErrorResponse(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "Invalid or expired token")
		}

		sub, err := token.Claims.GetSubject()
		if err != nil || sub == "" {
			return ErrorResponse(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "Invalid token subject")
		}

		user, err := users.FindByGoogleID(c.Context(), sub)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrorResponse(c, fiber.StatusNotFound, "USER_NOT_FOUND", "User not found")
			}
			return ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load user")
		}

		c.Locals(UserLocalKey, user)
		return c.Next()
	}
}

// UserFromCtx returns the authenticated user stored by NewAuth.
func UserFromCtx(c fiber.Ctx) *model.User {
	user, _ := c.Locals(UserLocalKey).(*model.User)
	return user
}
