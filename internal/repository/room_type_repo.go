package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tranquility/internal/domain"
)

type RoomTypeRepository struct {
	db *gorm.DB
}

func NewRoomTypeRepository(db *gorm.DB) *RoomTypeRepository {
	return &RoomTypeRepository{db: db}
}

func (r *RoomTypeRepository) Create(ctx context.Context, rt *domain.RoomType) error {
	return translate(r.db.WithContext(ctx).Create(rt).Error)
}

func (r *RoomTypeRepository) GetByID(ctx context.Context, id int64) (*domain.RoomType, error) {
	var rt domain.RoomType
	if err := r.db.WithContext(ctx).Where("is_deleted = ?", false).First(&rt, id).Error; err != nil {
		return nil, translate(err)
	}
	return &rt, nil
}

// Update saves the type. Lowering max_guests below an active booking on one
// of its rooms fails with ErrOverCapacity.
func (r *RoomTypeRepository) Update(ctx context.Context, rt *domain.RoomType) error {
	return translate(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rooms []domain.Room
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("room_type_id = ?", rt.ID).
			Find(&rooms).Error; err != nil {
			return err
		}
		if err := checkCapacity(tx, rt.MaxGuests, "room_id IN (SELECT id FROM rooms WHERE room_type_id = ?)", rt.ID); err != nil {
			return err
		}
		return tx.Model(rt).
			Select("name", "description", "base_price", "max_guests", "image_url", "highlights").
			Updates(rt).Error
	}))
}

func (r *RoomTypeRepository) List(ctx context.Context) ([]domain.RoomType, error) {
	var out []domain.RoomType
	err := r.db.WithContext(ctx).
		Where("is_deleted = ?", false).
		Order("base_price ASC, id ASC").
		Find(&out).Error
	return out, err
}

// SoftDelete marks the type deleted and deactivates its rooms. It fails with
// ErrInUse while any room of the type holds a PENDING or CONFIRMED booking.
// The type's rooms are locked before counting, the same lock booking writes
// take, so a booking cannot commit between the count and the delete.
func (r *RoomTypeRepository) SoftDelete(ctx context.Context, id int64) error {
	return translate(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rt domain.RoomType
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("is_deleted = ?", false).
			First(&rt, id).Error; err != nil {
			return err
		}

		var rooms []domain.Room
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("room_type_id = ?", id).
			Find(&rooms).Error; err != nil {
			return err
		}

		var active int64
		if err := tx.Model(&domain.Booking{}).
			Joins("JOIN rooms ON rooms.id = bookings.room_id").
			Where("rooms.room_type_id = ? AND bookings.status IN ?", id, activeStatuses()).
			Count(&active).Error; err != nil {
			return err
		}
		if active > 0 {
			return ErrInUse
		}

		res := tx.Model(&domain.RoomType{}).
			Where("id = ? AND is_deleted = ?", id, false).
			Update("is_deleted", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Model(&domain.Room{}).
			Where("room_type_id = ?", id).
			Update("is_active", false).Error
	}))
}
