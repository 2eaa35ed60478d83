package admin

import (
	"time"

	"tranquility/internal/domain"
	"tranquility/internal/modules/auth"
	"tranquility/internal/repository"
)

type CreateUserRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=120"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"omitempty,max=40"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Role     string `json:"role" validate:"required"`
}

// UpdateUserRequest leaves nil fields unchanged.
type UpdateUserRequest struct {
	Name  *string `json:"name" validate:"omitempty,min=2,max=120"`
	Phone *string `json:"phone" validate:"omitempty,max=40"`
	Role  *string `json:"role"`
}

type UserQuery struct {
	Role   string `form:"role"`
	Search string `form:"q" validate:"max=100"`
	Page   int    `form:"page" validate:"gte=0"`
	Limit  int    `form:"limit" validate:"gte=0,lte=100"`
}

type UserList struct {
	Items []auth.UserPublic `json:"items"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

type Dashboard struct {
	Rooms            repository.RoomCounts          `json:"rooms"`
	Guests           int64                          `json:"guests"`
	BookingsByStatus map[domain.BookingStatus]int64 `json:"bookings_by_status"`
	ArrivalsToday    int64                          `json:"arrivals_today"`
	DeparturesToday  int64                          `json:"departures_today"`
	OccupiedToday    int64                          `json:"occupied_today"`
	OccupancyRate    float64                        `json:"occupancy_rate"`
	RevenueMonth     float64                        `json:"revenue_month"`
	RecentBookings   []domain.Booking               `json:"recent_bookings"`
	GeneratedAt      time.Time                      `json:"generated_at"`
}
