package types

import (
	"strings"

	"github.com/labstack/echo/v4"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,max=50,email"`
	Password string `json:"password" validate:"required,max=50"`
}

func NewLoginRequestFromContext(ctx echo.Context) (*LoginRequest, error) {
	var body LoginRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}
	body.Email = strings.TrimSpace(body.Email)

	return &body, nil
}

func (r *LoginRequest) Validate() error {
	return ValidateStruct(r)
}

type NewPasswordRequest struct {
	Email string `json:"email" validate:"required,max=50,email"`
}

func NewNewPasswordRequestFromContext(ctx echo.Context) (*NewPasswordRequest, error) {
	var body NewPasswordRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}
	body.Email = strings.TrimSpace(body.Email)

	return &body, nil
}

func (r *NewPasswordRequest) Validate() error {
	return ValidateStruct(r)
}

type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required,len=36"`
	NewPassword string `json:"newPassword" validate:"required,max=50"`
}

func NewResetPasswordRequestFromContext(ctx echo.Context) (*ResetPasswordRequest, error) {
	var body ResetPasswordRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}
	body.Token = strings.TrimSpace(body.Token)

	return &body, nil
}

func (r *ResetPasswordRequest) Validate() error {
	return ValidateStruct(r)
}
