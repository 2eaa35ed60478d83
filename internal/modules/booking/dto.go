package booking

import (
	"time"

	"tranquility/internal/domain"
	"tranquility/internal/repository"
)

type CreateBookingRequest struct {
	RoomID          int64  `json:"room_id" validate:"required,gt=0"`
	GuestID         int64  `json:"guest_id" validate:"omitempty,gt=0"`
	CheckIn         string `json:"check_in" validate:"required"`
	CheckOut        string `json:"check_out" validate:"required"`
	Guests          int    `json:"guests"`
	SpecialRequests string `json:"special_requests" validate:"max=1000"`
}

type UpdateStatusRequest struct {
	Status       string     `json:"status" validate:"required"`
	Reason       string     `json:"reason" validate:"max=500"`
	CheckInTime  *time.Time `json:"check_in_time"`
	CheckOutTime *time.Time `json:"check_out_time"`
}

type CancelRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

// UpdateBookingRequest edits an active booking; nil fields stay unchanged.
type UpdateBookingRequest struct {
	RoomID          *int64  `json:"room_id" validate:"omitempty,gt=0"`
	CheckIn         *string `json:"check_in"`
	CheckOut        *string `json:"check_out"`
	Guests          *int    `json:"guests"`
	SpecialRequests *string `json:"special_requests" validate:"omitempty,max=1000"`
}

type ListQuery struct {
	Status string `form:"status"`
	RoomID int64  `form:"room_id" validate:"gte=0"`
	UserID int64  `form:"guest_id" validate:"gte=0"`
	From   string `form:"from"`
	To     string `form:"to"`
	Search string `form:"q" validate:"max=100"`
	Page   int    `form:"page" validate:"gte=0"`
	Limit  int    `form:"limit" validate:"gte=0,lte=100"`
}

type AvailabilityQuery struct {
	CheckIn  string `form:"check_in" validate:"required"`
	CheckOut string `form:"check_out" validate:"required"`
	Guests   int    `form:"guests" validate:"gte=0"`
}

type Quote struct {
	RoomID        int64   `json:"room_id"`
	Available     bool    `json:"available"`
	Reason        string  `json:"reason,omitempty"`
	CheckIn       string  `json:"check_in"`
	CheckOut      string  `json:"check_out"`
	Nights        int     `json:"nights"`
	PricePerNight float64 `json:"price_per_night"`
	TotalAmount   float64 `json:"total_amount"`
}

type Paged[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}

type MyBookings struct {
	Paged[domain.Booking]
	Stats repository.BookingStats `json:"stats"`
}
