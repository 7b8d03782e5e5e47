// Package middleware provides HTTP middleware components for the application.
// It includes authentication, authorization and idempotent replay of
// money-moving requests on the fiber web framework.
package middleware

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"ofo/internal/lib/logger/sl"
	"ofo/internal/models"
	"ofo/internal/repositories"
	"ofo/internal/utils"
	"ofo/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

const localClaims = "claims"

// ClaimsFrom returns the token claims stored by AuthMiddleware.
func ClaimsFrom(c *fiber.Ctx) (*models.UserClaims, bool) {
	claims, ok := c.Locals(localClaims).(*models.UserClaims)
	return claims, ok && claims != nil
}

type UserLoader interface {
	GetByID(ctx context.Context, userID string) (*models.User, error)
}

// AuthMiddleware handles JWT token validation and user authentication.
// It extracts the JWT token from the Authorization header, validates it,
// and adds the user claims to the request context.
type AuthMiddleware struct {
	users UserLoader
	log   *slog.Logger
}

func NewAuthMiddleware(users UserLoader, log *slog.Logger) *AuthMiddleware {
	return &AuthMiddleware{users: users, log: log}
}

// Handler validates JWT tokens and adds claims to the request context.
// It checks for:
// - Presence of Authorization header with Bearer token
// - Valid JWT signature and expiry
// - Token version matches current user version
// - The user has completed verification
func (m *AuthMiddleware) Handler(c *fiber.Ctx) error {
	const op = "middleware.Auth"
	log := m.log.With(sl.String("op", op), sl.String("path", c.Path()))

	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return response.Error(c, fiber.StatusUnauthorized, "missing authorization header")
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return response.Error(c, fiber.StatusUnauthorized, "invalid authorization format")
	}

	_, claims, err := utils.ParseToken(strings.TrimPrefix(authHeader, "Bearer "))
	if err != nil {
		log.Debug("token rejected", sl.Err(err))
		return response.Error(c, fiber.StatusUnauthorized, "invalid token")
	}

	user, err := m.users.GetByID(c.UserContext(), claims.UserID)
	if errors.Is(err, repositories.ErrUserNotFound) {
		return response.Error(c, fiber.StatusUnauthorized, "invalid token")
	}
	if err != nil {
		log.Error("failed to load user", sl.String("user_id", claims.UserID), sl.Err(err))
		return response.ServerError(c, "internal server error")
	}

	if claims.TokenVersion != user.TokenVersion {
		log.Info("token version mismatch",
			sl.String("user_id", user.UserID),
			slog.Int("token", claims.TokenVersion),
			slog.Int("current", user.TokenVersion),
		)
		return response.Error(c, fiber.StatusUnauthorized, "session expired")
	}
	if !user.IsVerified {
		return response.Forbidden(c, "account is not verified")
	}

	c.Locals(localClaims, claims)
	c.Locals("userID", user.UserID)
	c.Locals("user", user)

	return c.Next()
}

// AdminAuthMiddleware verifies that the request has valid admin claims.
func AdminAuthMiddleware(c *fiber.Ctx) error {
	claims, ok := ClaimsFrom(c)
	if !ok {
		return response.Error(c, fiber.StatusUnauthorized, "Invalid claims")
	}
	if claims.Role != "admin" {
		return response.Forbidden(c, "Insufficient permissions")
	}
	return c.Next()
}

// HasPermission returns a middleware that checks for a specific permission.
func HasPermission(permission string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := ClaimsFrom(c)
		if !ok {
			return response.Unauthorized(c)
		}

		// If user is admin, allow all permissions
		if claims.Role == "admin" || claims.HasPermission(permission) {
			return c.Next()
		}

		return response.Forbidden(c, "Insufficient permissions")
	}
}
