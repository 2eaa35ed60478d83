package booking

import (
	"context"
	"time"

	"tranquility/internal/domain"
	"tranquility/internal/repository"
)

// BookingRepository defines the persistence the lifecycle needs.
type BookingRepository interface {
	IsAvailable(ctx context.Context, roomID int64, checkIn, checkOut time.Time, excludeID int64) (bool, error)
	CreateChecked(ctx context.Context, b *domain.Booking) error
	UpdateChecked(ctx context.Context, b *domain.Booking, prev domain.BookingStatus) error
	TransitionStatus(ctx context.Context, id int64, from domain.BookingStatus, fields map[string]any) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	List(ctx context.Context, f repository.BookingFilter) ([]domain.Booking, int64, error)
	StatsByUser(ctx context.Context, userID int64, today time.Time) (repository.BookingStats, error)
	ListPendingStartingBefore(ctx context.Context, day time.Time, limit int) ([]domain.Booking, error)
}

// RoomRepository must return the room with its RoomType loaded.
type RoomRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Room, error)
}

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// Notifier receives booking events; delivery is best effort.
type Notifier interface {
	Publish(ev domain.BookingEvent)
}
