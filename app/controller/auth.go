package controller

import (
	"errors"
	"net/http"

	"github.com/vibast-solutions/ms-go-lubycash/app/dto"
	"github.com/vibast-solutions/ms-go-lubycash/app/service"
	"github.com/vibast-solutions/ms-go-lubycash/app/types"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

const (
	tokenSentMessage     = "Your token was sent to your email!"
	passwordResetMessage = "Your password was reset! Please, log in."
)

type AuthController struct {
	authService service.AuthService
}

func NewAuthController(authService service.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

func (c *AuthController) Login(ctx echo.Context) error {
	req, err := types.NewLoginRequestFromContext(ctx)
	if err != nil {
		logrus.WithError(err).Debug("Failed to bind login request")
		return ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body"})
	}

	if err = req.Validate(); err != nil {
		logrus.WithField("email", req.Email).Debug("Login validation failed")
		return ctx.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Error: "validation failed", Message: err.Error()})
	}

	logrus.WithField("email", req.Email).Info("Login request received")
	result, err := c.authService.Login(ctx.Request().Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			logrus.WithField("email", req.Email).Warn("Login failed: invalid credentials")
			return ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "invalid credentials"})
		}
		logrus.WithError(err).WithField("email", req.Email).Error("Login failed")
		return ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal server error"})
	}

	logrus.WithField("email", req.Email).Info("Login successful")
	return ctx.JSON(http.StatusOK, result)
}

func (c *AuthController) NewPassword(ctx echo.Context) error {
	req, err := types.NewNewPasswordRequestFromContext(ctx)
	if err != nil {
		logrus.WithError(err).Debug("Failed to bind new password request")
		return ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body"})
	}

	if err = req.Validate(); err != nil {
		logrus.WithField("email", req.Email).Debug("New password validation failed")
		return ctx.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Error: "validation failed", Message: err.Error()})
	}

	logrus.WithField("email", req.Email).Info("Password reset token requested")
	if err = c.authService.RequestPasswordReset(ctx.Request().Context(), req); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			logrus.WithField("email", req.Email).Warn("Password reset request failed: user not found")
			return ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "user not found"})
		}
		if errors.Is(err, service.ErrTokenDispatch) {
			logrus.WithError(err).WithField("email", req.Email).Error("Password reset request failed: token dispatch")
			return ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "failed to send token", Message: err.Error()})
		}
		logrus.WithError(err).WithField("email", req.Email).Error("Password reset request failed")
		return ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal server error"})
	}

	logrus.WithField("email", req.Email).Info("Password reset token dispatched")
	return ctx.JSON(http.StatusOK, dto.MessageResponse{Message: tokenSentMessage})
}

func (c *AuthController) ResetPassword(ctx echo.Context) error {
	req, err := types.NewResetPasswordRequestFromContext(ctx)
	if err != nil {
		logrus.WithError(err).Debug("Failed to bind reset password request")
		return ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body"})
	}

	if err = req.Validate(); err != nil {
		logrus.Debug("Reset password validation failed")
		return ctx.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Error: "validation failed", Message: err.Error()})
	}

	logrus.Info("Reset password request received")
	if err = c.authService.ResetPassword(ctx.Request().Context(), req); err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			logrus.Warn("Reset password failed: weak password")
			return ctx.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Error: "validation failed", Message: err.Error()})
		case errors.Is(err, service.ErrTokenNotFound):
			logrus.Warn("Reset password failed: token not found")
			return ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "token not found"})
		case errors.Is(err, service.ErrTokenExpired):
			logrus.Warn("Reset password failed: token expired")
			return ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "token has already expired"})
		case errors.Is(err, service.ErrTokenAlreadyUsed):
			logrus.Warn("Reset password failed: token already used")
			return ctx.JSON(http.StatusForbidden, dto.ErrorResponse{Error: "token has already been used"})
		case errors.Is(err, service.ErrUserNotFound):
			logrus.Warn("Reset password failed: user not found")
			return ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "user not found"})
		}
		logrus.WithError(err).Error("Reset password failed")
		return ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal server error"})
	}

	logrus.Info("Password reset")
	return ctx.JSON(http.StatusOK, dto.MessageResponse{Message: passwordResetMessage})
}
