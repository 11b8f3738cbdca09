package controller

import (
	"errors"
	"net/http"

	"github.com/vibast-solutions/ms-go-lubycash/app/dto"
	"github.com/vibast-solutions/ms-go-lubycash/app/middleware"
	"github.com/vibast-solutions/ms-go-lubycash/app/service"
	"github.com/vibast-solutions/ms-go-lubycash/app/types"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

const userDeletedMessage = "User was successfully deleted!"

type UserController struct {
	userService service.UserService
}

func NewUserController(userService service.UserService) *UserController {
	return &UserController{userService: userService}
}

func (c *UserController) Create(ctx echo.Context) error {
	req, err := types.NewCreateUserRequestFromContext(ctx)
	if err != nil {
		logrus.WithError(err).Debug("Failed to bind create user request")
		return ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body"})
	}

	if err = req.Validate(); err != nil {
		logrus.WithField("email", req.Email).Debug("Create user validation failed")
		return ctx.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Error: "validation failed", Message: err.Error()})
	}

	logrus.WithField("email", req.Email).Info("Create user request received")
	user, err := c.userService.Create(ctx.Request().Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrUserExists) {
			logrus.WithField("email", req.Email).Warn("Create user failed: user already exists")
			return ctx.JSON(http.StatusConflict, dto.ErrorResponse{Error: "user already exists", Message: err.Error()})
		}
		if errors.Is(err, service.ErrValidation) {
			logrus.WithField("email", req.Email).Warn("Create user failed: validation")
			return ctx.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Error: "validation failed", Message: err.Error()})
		}
		logrus.WithError(err).WithField("email", req.Email).Error("Create user failed")
		return ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal server error"})
	}

	logrus.WithField("secure_id", user.SecureID).Info("User created")
	return ctx.JSON(http.StatusCreated, user)
}

func (c *UserController) MyAccount(ctx echo.Context) error {
	userID, ok := middleware.UserID(ctx)
	if !ok {
		logrus.Warn("My account failed: missing user_id in context")
		return ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "unauthorized"})
	}

	user, err := c.userService.MyAccount(ctx.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			logrus.WithField("user_id", userID).Warn("My account failed: user not found")
			return ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "user not found"})
		}
		logrus.WithError(err).WithField("user_id", userID).Error("My account failed")
		return ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal server error"})
	}

	return ctx.JSON(http.StatusOK, user)
}

func (c *UserController) List(ctx echo.Context) error {
	users, err := c.userService.List(ctx.Request().Context())
	if err != nil {
		logrus.WithError(err).Error("List users failed")
		return ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal server error"})
	}

	logrus.WithField("count", len(users)).Debug("Users listed")
	return ctx.JSON(http.StatusOK, users)
}

func (c *UserController) Show(ctx echo.Context) error {
	secureID := ctx.Param("id")

	user, err := c.userService.Show(ctx.Request().Context(), secureID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			logrus.WithField("secure_id", secureID).Warn("Show user failed: user not found")
			return ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "user not found"})
		}
		logrus.WithError(err).WithField("secure_id", secureID).Error("Show user failed")
		return ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal server error"})
	}

	return ctx.JSON(http.StatusOK, user)
}

func (c *UserController) UpdateSelf(ctx echo.Context) error {
	userID, ok := middleware.UserID(ctx)
	if !ok {
		logrus.Warn("Update user failed: missing user_id in context")
		return ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "unauthorized"})
	}

	req, err := types.NewUpdateUserRequestFromContext(ctx)
	if err != nil {
		logrus.WithError(err).Debug("Failed to bind update user request")
		return ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body"})
	}
	if err = req.Validate(); err != nil {
		logrus.WithField("user_id", userID).Debug("Update user validation failed")
		return ctx.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Error: "validation failed", Message: err.Error()})
	}

	fields := logrus.Fields{"user_id": userID}
	logrus.WithFields(fields).Info("Update user request received")
	user, err := c.userService.UpdateSelf(ctx.Request().Context(), userID, req)
	if err != nil {
		return writeUpdateError(ctx, err, fields)
	}

	logrus.WithFields(fields).Info("User updated")
	return ctx.JSON(http.StatusOK, user)
}

func (c *UserController) AdminUpdate(ctx echo.Context) error {
	secureID := ctx.Param("id")

	req, err := types.NewUpdateUserRequestFromContext(ctx)
	if err != nil {
		logrus.WithError(err).Debug("Failed to bind admin update request")
		return ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body"})
	}
	if err = req.Validate(); err != nil {
		logrus.WithField("secure_id", secureID).Debug("Admin update validation failed")
		return ctx.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Error: "validation failed", Message: err.Error()})
	}

	fields := logrus.Fields{"secure_id": secureID}
	logrus.WithFields(fields).Info("Admin update request received")
	user, err := c.userService.AdminUpdate(ctx.Request().Context(), secureID, req)
	if err != nil {
		return writeUpdateError(ctx, err, fields)
	}

	logrus.WithFields(fields).Info("User updated by admin")
	return ctx.JSON(http.StatusOK, user)
}

func (c *UserController) DeleteSelf(ctx echo.Context) error {
	userID, ok := middleware.UserID(ctx)
	if !ok {
		logrus.Warn("Delete user failed: missing user_id in context")
		return ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "unauthorized"})
	}

	if err := c.userService.DeleteSelf(ctx.Request().Context(), userID); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			logrus.WithField("user_id", userID).Warn("Delete user failed: user not found")
			return ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "user not found"})
		}
		logrus.WithError(err).WithField("user_id", userID).Error("Delete user failed")
		return ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal server error"})
	}

	logrus.WithField("user_id", userID).Info("User deleted")
	return ctx.JSON(http.StatusOK, dto.MessageResponse{Message: userDeletedMessage})
}

func (c *UserController) AdminDelete(ctx echo.Context) error {
	secureID := ctx.Param("id")

	if err := c.userService.AdminDelete(ctx.Request().Context(), secureID); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			logrus.WithField("secure_id", secureID).Warn("Admin delete failed: user not found")
			return ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "user not found"})
		}
		logrus.WithError(err).WithField("secure_id", secureID).Error("Admin delete failed")
		return ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal server error"})
	}

	logrus.WithField("secure_id", secureID).Info("User deleted by admin")
	return ctx.JSON(http.StatusOK, dto.MessageResponse{Message: userDeletedMessage})
}

func (c *UserController) BecomeCustomer(ctx echo.Context) error {
	userID, ok := middleware.UserID(ctx)
	if !ok {
		logrus.Warn("Become customer failed: missing user_id in context")
		return ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "unauthorized"})
	}

	req, err := types.NewBecomeCustomerRequestFromContext(ctx)
	if err != nil {
		logrus.WithError(err).Debug("Failed to bind become customer request")
		return ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body"})
	}
	if err = req.Validate(); err != nil {
		logrus.WithField("user_id", userID).Debug("Become customer validation failed")
		return ctx.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Error: "validation failed", Message: err.Error()})
	}

	fields := logrus.Fields{"user_id": userID}
	logrus.WithFields(fields).Info("Become customer request received")
	result, err := c.userService.BecomeCustomer(ctx.Request().Context(), userID, req)
	if err != nil {
		if errors.Is(err, service.ErrAlreadyHasRole) {
			logrus.WithFields(fields).Warn("Become customer failed: already a customer")
			return ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "user is already a customer"})
		}
		if errors.Is(err, service.ErrUserNotFound) {
			logrus.WithFields(fields).Warn("Become customer failed: user not found")
			return ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "user not found"})
		}
		if handled, werr := writeUpstreamError(ctx, err, fields); handled {
			return werr
		}
		logrus.WithError(err).WithFields(fields).Error("Become customer failed")
		return ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal server error"})
	}

	logrus.WithFields(fields).WithField("result", result.Result).Info("Customer validation finished")
	return ctx.JSON(http.StatusOK, result)
}

func writeUpdateError(ctx echo.Context, err error, fields logrus.Fields) error {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		logrus.WithFields(fields).Warn("Update user failed: user not found")
		return ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "user not found"})
	case errors.Is(err, service.ErrUserExists):
		logrus.WithFields(fields).Warn("Update user failed: email or cpf taken")
		return ctx.JSON(http.StatusConflict, dto.ErrorResponse{Error: "user already exists", Message: err.Error()})
	case errors.Is(err, service.ErrValidation):
		logrus.WithFields(fields).Warn("Update user failed: validation")
		return ctx.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Error: "validation failed", Message: err.Error()})
	}
	logrus.WithError(err).WithFields(fields).Error("Update user failed")
	return ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal server error"})
}
