package middleware

import (
	"net/http"
	"strings"

	"github.com/vibast-solutions/ms-go-lubycash/app/dto"
	"github.com/vibast-solutions/ms-go-lubycash/app/service"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

const (
	ContextUserID       = "user_id"
	ContextUserSecureID = "user_secure_id"
	ContextUserEmail    = "user_email"
)

type sessionTokenValidator interface {
	ValidateSessionToken(tokenString string) (*service.Claims, error)
}

type AuthMiddleware struct {
	authService sessionTokenValidator
}

func NewAuthMiddleware(authService sessionTokenValidator) *AuthMiddleware {
	return &AuthMiddleware{authService: authService}
}

func (m *AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			logrus.Debug("Missing authorization header")
			return c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "missing authorization header"})
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			logrus.Debug("Invalid authorization header format")
			return c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "invalid authorization header format"})
		}

		claims, err := m.authService.ValidateSessionToken(parts[1])
		if err != nil {
			logrus.Debug("Invalid or expired session token")
			return c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "invalid or expired token"})
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUserSecureID, claims.SecureID)
		c.Set(ContextUserEmail, claims.Email)

		return next(c)
	}
}

// UserID returns the authenticated user id set by RequireAuth.
func UserID(c echo.Context) (uint64, bool) {
	userID, ok := c.Get(ContextUserID).(uint64)
	return userID, ok
}
