package admin

import "tranquility/internal/pkg/apperror"

var (
	ErrUserNotFound   = apperror.NotFound("User not found")
	ErrEmailExists    = apperror.Conflict("An account with this email already exists")
	ErrUserHasBooking = apperror.Conflict("User has active bookings and cannot be deleted")
	ErrDeleteSelf     = apperror.Conflict("You cannot delete your own account")
	ErrChangeOwnRole  = apperror.Conflict("You cannot change your own role")
	ErrInvalidRole    = apperror.Validation("Role must be GUEST, STAFF or ADMIN")
)
