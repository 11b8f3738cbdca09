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

type CustomerController struct {
	customerService service.CustomerService
}

func NewCustomerController(customerService service.CustomerService) *CustomerController {
	return &CustomerController{customerService: customerService}
}

func (c *CustomerController) List(ctx echo.Context) error {
	req, err := types.NewListCustomersRequestFromContext(ctx)
	if err != nil {
		logrus.WithError(err).Debug("Failed to bind list customers request")
		return ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request"})
	}
	if err = req.Validate(); err != nil {
		logrus.Debug("List customers validation failed")
		return ctx.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Error: "validation failed", Message: err.Error()})
	}

	fields := logrus.Fields{"status": req.Status, "from": req.From, "to": req.To}
	result, err := c.customerService.ListCustomers(ctx.Request().Context(), req)
	if err != nil {
		return c.writeError(ctx, err, fields, "List customers failed")
	}

	logrus.WithFields(fields).WithField("downstream_status", result.Status).Debug("Customers listed")
	return forward(ctx, result.Status, result.ContentType, result.Body)
}

func (c *CustomerController) BankStatement(ctx echo.Context) error {
	req, err := types.NewBankStatementRequestFromContext(ctx)
	if err != nil {
		logrus.WithError(err).Debug("Failed to bind bank statement request")
		return ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body"})
	}
	if err = req.Validate(); err != nil {
		logrus.WithField("cpf", req.CPF).Debug("Bank statement validation failed")
		return ctx.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Error: "validation failed", Message: err.Error()})
	}

	fields := logrus.Fields{"cpf": req.CPF, "from": req.From, "to": req.To}
	result, err := c.customerService.BankStatement(ctx.Request().Context(), req)
	if err != nil {
		return c.writeError(ctx, err, fields, "Bank statement failed")
	}

	logrus.WithFields(fields).WithField("downstream_status", result.Status).Debug("Bank statement fetched")
	return forward(ctx, result.Status, result.ContentType, result.Body)
}

func (c *CustomerController) MakeTransfer(ctx echo.Context) error {
	userID, ok := middleware.UserID(ctx)
	if !ok {
		logrus.Warn("Transfer failed: missing user_id in context")
		return ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "unauthorized"})
	}

	req, err := types.NewTransferRequestFromContext(ctx)
	if err != nil {
		logrus.WithError(err).Debug("Failed to bind transfer request")
		return ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body"})
	}
	if err = req.Validate(); err != nil {
		logrus.WithField("user_id", userID).Debug("Transfer validation failed")
		return ctx.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Error: "validation failed", Message: err.Error()})
	}

	fields := logrus.Fields{"user_id": userID, "receiver_cpf": req.ReceiverCPF, "amount": req.Amount}
	logrus.WithFields(fields).Info("Transfer request received")
	result, err := c.customerService.MakeTransfer(ctx.Request().Context(), userID, req)
	if err != nil {
		return c.writeError(ctx, err, fields, "Transfer failed")
	}

	logrus.WithFields(fields).WithField("downstream_status", result.Status).Info("Transfer forwarded")
	return forward(ctx, result.Status, result.ContentType, result.Body)
}

func (c *CustomerController) writeError(ctx echo.Context, err error, fields logrus.Fields, msg string) error {
	if errors.Is(err, service.ErrValidation) {
		logrus.WithFields(fields).Warn(msg + ": validation")
		return ctx.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Error: "validation failed", Message: err.Error()})
	}
	if errors.Is(err, service.ErrUserNotFound) {
		logrus.WithFields(fields).Warn(msg + ": user not found")
		return ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "user not found"})
	}
	if handled, werr := writeUpstreamError(ctx, err, fields); handled {
		return werr
	}
	logrus.WithError(err).WithFields(fields).Error(msg)
	return ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal server error"})
}
