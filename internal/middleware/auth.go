package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/mallikarjunadanduba/FitLife360/internal/model"
	"github.com/mallikarjunadanduba/FitLife360/pkg/jwtutil"
	"github.com/mallikarjunadanduba/FitLife360/pkg/logger"
)

// AuthMiddleware validates the JWT token and places the caller's identity in
// the request context. Token issuance belongs to the auth service.
func AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		log := logger.FromContext(c)

		// Get the Authorization header
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			log.Warn("Missing Authorization header")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization token"})
		}

		// Check if it's a Bearer token
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			log.Warn("Invalid Authorization header format")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid authorization format, expected Bearer token"})
		}

		// Validate the token
		claims, err := jwtutil.ValidateToken(parts[1])
		if err != nil {
			log.Error("Invalid JWT token", zap.Error(err))
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
		}

		// Store user info in context for later use
		c.Set("user_id", claims.UserID)
		c.Set("email", claims.Email)
		c.Set("role", claims.Role)

		return next(c)
	}
}

// RequireAdmin rejects callers whose token does not carry the admin role.
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if GetRole(c) != model.RoleAdmin {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "not enough permissions"})
		}
		return next(c)
	}
}

// RequireConsultant rejects callers whose token does not carry the consultant role.
func RequireConsultant(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if GetRole(c) != model.RoleConsultant {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "not enough permissions"})
		}
		return next(c)
	}
}

// GetUserID retrieves the authenticated user's ID from the context
func GetUserID(c echo.Context) (uint, bool) {
	userID, ok := c.Get("user_id").(uint)
	return userID, ok
}

// GetRole retrieves the authenticated user's role from the context
func GetRole(c echo.Context) string {
	role, _ := c.Get("role").(string)
	return role
}

// IsAdmin reports whether the authenticated user is an administrator
func IsAdmin(c echo.Context) bool {
	return GetRole(c) == model.RoleAdmin
}
