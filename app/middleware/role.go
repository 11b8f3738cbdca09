package middleware

import (
	"context"
	"net/http"

	"github.com/vibast-solutions/ms-go-lubycash/app/dto"
	"github.com/vibast-solutions/ms-go-lubycash/app/entity"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type roleReader interface {
	RolesOf(ctx context.Context, userID uint64) (entity.RoleSet, error)
}

// RoleMiddleware gates routes on role membership. Roles are read from the
// store on every request so grants and revokes apply without a new login.
type RoleMiddleware struct {
	roles roleReader
}

func NewRoleMiddleware(roles roleReader) *RoleMiddleware {
	return &RoleMiddleware{roles: roles}
}

// RequireRole must run after RequireAuth.
func (m *RoleMiddleware) RequireRole(role entity.RoleType) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID, ok := UserID(c)
			if !ok {
				logrus.Warn("Role check without authenticated user")
				return c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "unauthorized"})
			}

			roles, err := m.roles.RolesOf(c.Request().Context(), userID)
			if err != nil {
				logrus.WithError(err).WithField("user_id", userID).Error("Failed to load user roles")
				return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal server error"})
			}

			if !roles.Has(role) {
				logrus.WithFields(logrus.Fields{
					"user_id": userID,
					"role":    role,
				}).Warn("Access denied: missing role")
				return c.JSON(http.StatusForbidden, dto.ErrorResponse{
					Error:   "forbidden",
					Message: "you must be " + article(role) + " " + string(role) + " to access this resource",
				})
			}

			return next(c)
		}
	}
}

func article(role entity.RoleType) string {
	if role == entity.RoleAdmin {
		return "an"
	}
	return "a"
}
