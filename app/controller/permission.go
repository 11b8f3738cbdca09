package controller

import (
	"errors"
	"net/http"

	"github.com/vibast-solutions/ms-go-lubycash/app/dto"
	"github.com/vibast-solutions/ms-go-lubycash/app/entity"
	"github.com/vibast-solutions/ms-go-lubycash/app/service"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type PermissionController struct {
	permissionService service.PermissionService
}

func NewPermissionController(permissionService service.PermissionService) *PermissionController {
	return &PermissionController{permissionService: permissionService}
}

func (c *PermissionController) AddAdmin(ctx echo.Context) error {
	return c.grant(ctx, entity.RoleAdmin)
}

func (c *PermissionController) RemoveAdmin(ctx echo.Context) error {
	return c.revoke(ctx, entity.RoleAdmin)
}

func (c *PermissionController) AddUser(ctx echo.Context) error {
	return c.grant(ctx, entity.RoleUser)
}

func (c *PermissionController) RemoveUser(ctx echo.Context) error {
	return c.revoke(ctx, entity.RoleUser)
}

func (c *PermissionController) grant(ctx echo.Context, role entity.RoleType) error {
	secureID := ctx.Param("id")
	fields := logrus.Fields{"secure_id": secureID, "role": role}

	logrus.WithFields(fields).Info("Grant role request received")
	user, err := c.permissionService.Grant(ctx.Request().Context(), secureID, role)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			logrus.WithFields(fields).Warn("Grant role failed: user not found")
			return ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "user not found"})
		}
		if errors.Is(err, service.ErrAlreadyHasRole) {
			logrus.WithFields(fields).Warn("Grant role failed: role already held")
			return ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "user already has this role"})
		}
		logrus.WithError(err).WithFields(fields).Error("Grant role failed")
		return ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal server error"})
	}

	logrus.WithFields(fields).Info("Role granted")
	return ctx.JSON(http.StatusOK, user)
}

func (c *PermissionController) revoke(ctx echo.Context, role entity.RoleType) error {
	secureID := ctx.Param("id")
	fields := logrus.Fields{"secure_id": secureID, "role": role}

	logrus.WithFields(fields).Info("Revoke role request received")
	user, err := c.permissionService.Revoke(ctx.Request().Context(), secureID, role)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			logrus.WithFields(fields).Warn("Revoke role failed: user not found")
			return ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "user not found"})
		}
		if errors.Is(err, service.ErrDoesNotHaveRole) {
			logrus.WithFields(fields).Warn("Revoke role failed: role not held")
			return ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "user does not have this role"})
		}
		logrus.WithError(err).WithFields(fields).Error("Revoke role failed")
		return ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal server error"})
	}

	logrus.WithFields(fields).Info("Role revoked")
	return ctx.JSON(http.StatusOK, user)
}
