package admin

import (
	"context"
	"time"

	"tranquility/internal/domain"
	"tranquility/internal/repository"
)

type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	UpdateProfile(ctx context.Context, u *domain.User) error
	SoftDelete(ctx context.Context, id int64) error
	List(ctx context.Context, f repository.UserFilter) ([]domain.User, int64, error)
}

type BookingCounter interface {
	CountActiveForUser(ctx context.Context, userID int64) (int64, error)
}

// StatsRepository answers the dashboard aggregates, one query each.
type StatsRepository interface {
	RoomCounts(ctx context.Context) (repository.RoomCounts, error)
	CountUsers(ctx context.Context, role domain.UserRole) (int64, error)
	BookingsByStatus(ctx context.Context) (map[domain.BookingStatus]int64, error)
	Arrivals(ctx context.Context, day time.Time) (int64, error)
	Departures(ctx context.Context, day time.Time) (int64, error)
	OccupiedRooms(ctx context.Context, day time.Time) (int64, error)
	Revenue(ctx context.Context, from, to time.Time) (float64, error)
	RecentBookings(ctx context.Context, limit int) ([]domain.Booking, error)
}
