package catalog

import "tranquility/internal/pkg/apperror"

var (
	ErrRoomTypeNotFound = apperror.NotFound("Room type not found")
	ErrRoomNotFound     = apperror.NotFound("Room not found")
	ErrAmenityNotFound  = apperror.NotFound("Amenity not found")
	ErrImageNotFound    = apperror.NotFound("Image not found")
	ErrBlockNotFound    = apperror.NotFound("Availability block not found")
	ErrUnknownAmenity   = apperror.Validation("One or more amenities do not exist")
	ErrInvalidRange     = apperror.Validation("End date must be after start date")
	ErrInvalidPrice     = apperror.Validation("Minimum price exceeds maximum price")
	ErrInvalidImage     = apperror.Validation("File is not a supported image")
	ErrRoomTypeExists   = apperror.Conflict("A room type with this name already exists")
	ErrRoomNumberExists = apperror.Conflict("A room with this number already exists")
	ErrAmenityExists    = apperror.Conflict("An amenity with this name already exists")
	ErrRoomTypeInUse    = apperror.Conflict("Room type has active bookings and cannot be deleted")
	ErrRoomInUse        = apperror.Conflict("Room has active bookings and cannot be deleted")
	ErrBlockOverlaps    = apperror.Conflict("Room is booked or blocked during this period")
	ErrCapacityInUse    = apperror.Conflict("Active bookings have more guests than the room type allows")
)
