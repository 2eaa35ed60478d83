package booking

import "tranquility/internal/pkg/apperror"

var (
	ErrInvalidDates     = apperror.Validation("Check-out must be after check-in")
	ErrPastCheckIn      = apperror.Validation("Check-in date cannot be in the past")
	ErrInvalidGuests    = apperror.Validation("Guest count must be at least 1")
	ErrTooManyGuests    = apperror.Validation("Guest count exceeds the room capacity")
	ErrInvalidStatus    = apperror.Validation("Unknown booking status")
	ErrRoomNotFound     = apperror.NotFound("Room not found")
	ErrGuestNotFound    = apperror.NotFound("Guest not found")
	ErrBookingNotFound  = apperror.NotFound("Booking not found")
	ErrNotAvailable     = apperror.Conflict("Room is not available for the selected dates")
	ErrTerminal         = apperror.Conflict("Booking is already completed or cancelled")
	ErrSameStatus       = apperror.Conflict("Booking already has this status")
	ErrBadTransition    = apperror.Conflict("Booking cannot move to the requested status")
	ErrConcurrentChange = apperror.Conflict("Booking was changed by someone else, reload and retry")
	ErrForbidden        = apperror.Forbidden("You cannot access this booking")
)
