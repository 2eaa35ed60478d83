package auth

import "tranquility/internal/pkg/apperror"

var (
	ErrInvalidCredentials = apperror.Unauthorized("Invalid email or password")
	ErrEmailAlreadyExists = apperror.Conflict("Email is already registered")
	ErrUserNotFound       = apperror.NotFound("User not found")
	ErrWrongPassword      = apperror.Validation("Current password is incorrect")
)
