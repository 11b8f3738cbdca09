package controller

import (
	"context"
	"net/http"

	"github.com/vibast-solutions/ms-go-lubycash/app/dto"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type pinger interface {
	PingContext(ctx context.Context) error
}

type HealthController struct {
	db pinger
}

func NewHealthController(db pinger) *HealthController {
	return &HealthController{db: db}
}

func (c *HealthController) Health(ctx echo.Context) error {
	if err := c.db.PingContext(ctx.Request().Context()); err != nil {
		logrus.WithError(err).Error("Health check failed: database unreachable")
		return ctx.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{Error: "database unavailable"})
	}
	return ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "ok"})
}
