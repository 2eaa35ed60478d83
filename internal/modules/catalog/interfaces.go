package catalog

import (
	"context"
	"io"
	"time"

	"tranquility/internal/domain"
	"tranquility/internal/repository"
)

type RoomTypeRepository interface {
	Create(ctx context.Context, rt *domain.RoomType) error
	GetByID(ctx context.Context, id int64) (*domain.RoomType, error)
	Update(ctx context.Context, rt *domain.RoomType) error
	List(ctx context.Context) ([]domain.RoomType, error)
	SoftDelete(ctx context.Context, id int64) error
}

type RoomRepository interface {
	Create(ctx context.Context, room *domain.Room, imageURLs []string, amenityIDs []int64) error
	Update(ctx context.Context, room *domain.Room, upd repository.RoomUpdate) error
	GetByID(ctx context.Context, id int64) (*domain.Room, error)
	Search(ctx context.Context, f repository.RoomFilter) ([]domain.Room, error)
	SetActive(ctx context.Context, id int64, active bool) error
	SoftDeleteCascade(ctx context.Context, id int64) error
	AddImage(ctx context.Context, img *domain.RoomImage) error
	DeleteImage(ctx context.Context, roomID, imageID int64) (*domain.RoomImage, error)
	AddBlockChecked(ctx context.Context, b *domain.RoomAvailability) error
	ListBlocks(ctx context.Context, roomID int64) ([]domain.RoomAvailability, error)
	DeleteBlock(ctx context.Context, roomID, blockID int64) error
}

type AmenityRepository interface {
	Create(ctx context.Context, a *domain.Amenity) error
	GetByID(ctx context.Context, id int64) (*domain.Amenity, error)
	Update(ctx context.Context, a *domain.Amenity) error
	List(ctx context.Context, activeOnly bool) ([]domain.Amenity, error)
	CountExisting(ctx context.Context, ids []int64) (int64, error)
	SoftDelete(ctx context.Context, id int64) error
}

// AvailabilityChecker reports whether a room is free of active bookings and
// blocks over [checkIn, checkOut).
type AvailabilityChecker interface {
	IsAvailable(ctx context.Context, roomID int64, checkIn, checkOut time.Time, excludeID int64) (bool, error)
}

// ImageStore persists an uploaded picture and its thumbnail, returning their
// public URLs.
type ImageStore interface {
	Save(ctx context.Context, roomID int64, r io.Reader) (url, thumbURL string, err error)
	Remove(urls ...string)
}
