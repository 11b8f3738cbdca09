package service

import (
	"errors"
	"fmt"
)

var (
	ErrValidation          = errors.New("validation failed")
	ErrUserExists          = errors.New("user already exists")
	ErrUserNotFound        = errors.New("user not found")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidToken        = errors.New("invalid or expired token")
	ErrTokenNotFound       = errors.New("token not found")
	ErrTokenExpired        = errors.New("token has already expired")
	ErrTokenAlreadyUsed    = errors.New("token has already been used")
	ErrTokenDispatch       = errors.New("failed to send token")
	ErrAlreadyHasRole      = errors.New("user already has this role")
	ErrDoesNotHaveRole     = errors.New("user does not have this role")
	ErrRoleNotFound        = errors.New("role not found")
	ErrUpstreamUnavailable = errors.New("banking service unavailable")
)

// UpstreamError is a failed banking service reply. Token is set when the
// downstream code is known; otherwise Body carries the raw payload to pass through.
type UpstreamError struct {
	Status      int
	Token       string
	Code        string
	Message     string
	ContentType string
	Body        []byte
}

func (e *UpstreamError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("banking service error %s", e.Code)
	}
	return fmt.Sprintf("banking service error %s: %s", e.Code, e.Message)
}
