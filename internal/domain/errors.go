package domain

import "errors"

var (
	ErrMissingFields      = errors.New("all fields are required")
	ErrInvalidAppliances  = errors.New("invalid appliance data")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already exists")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidResetToken  = errors.New("invalid or expired reset token")
	ErrTokenExpired       = errors.New("token has expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrNoToken            = errors.New("no token provided")
)
