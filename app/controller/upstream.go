package controller

import (
	"errors"
	"net/http"

	"github.com/vibast-solutions/ms-go-lubycash/app/dto"
	"github.com/vibast-solutions/ms-go-lubycash/app/service"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// writeUpstreamError renders banking failures. It reports false when err is not one.
func writeUpstreamError(ctx echo.Context, err error, fields logrus.Fields) (bool, error) {
	var upstream *service.UpstreamError
	if errors.As(err, &upstream) {
		entry := logrus.WithFields(fields).WithFields(logrus.Fields{
			"status": upstream.Status,
			"code":   upstream.Code,
		})
		if upstream.Token == "" {
			entry.Warn("Banking service error passed through")
			return true, forward(ctx, upstream.Status, upstream.ContentType, upstream.Body)
		}
		entry.Warn("Banking service error")
		return true, ctx.JSON(upstream.Status, dto.ErrorResponse{Error: upstream.Token, Message: upstream.Message})
	}

	if errors.Is(err, service.ErrUpstreamUnavailable) {
		logrus.WithError(err).WithFields(fields).Error("Banking service unavailable")
		return true, ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "banking service unavailable", Message: err.Error()})
	}

	return false, nil
}

// forward writes a downstream payload with its own content type, defaulting to JSON.
func forward(ctx echo.Context, status int, contentType string, body []byte) error {
	if contentType == "" {
		contentType = echo.MIMEApplicationJSON
	}
	return ctx.Blob(status, contentType, body)
}
