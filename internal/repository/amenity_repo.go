package repository

import (
	"context"

	"gorm.io/gorm"

	"tranquility/internal/domain"
)

type AmenityRepository struct {
	db *gorm.DB
}

func NewAmenityRepository(db *gorm.DB) *AmenityRepository {
	return &AmenityRepository{db: db}
}

func (r *AmenityRepository) Create(ctx context.Context, a *domain.Amenity) error {
	return translate(r.db.WithContext(ctx).Create(a).Error)
}

func (r *AmenityRepository) GetByID(ctx context.Context, id int64) (*domain.Amenity, error) {
	var a domain.Amenity
	if err := r.db.WithContext(ctx).Where("is_deleted = ?", false).First(&a, id).Error; err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

func (r *AmenityRepository) Update(ctx context.Context, a *domain.Amenity) error {
	return translate(r.db.WithContext(ctx).
		Model(a).
		Select("name", "icon", "description", "is_active").
		Updates(a).Error)
}

func (r *AmenityRepository) List(ctx context.Context, activeOnly bool) ([]domain.Amenity, error) {
	q := r.db.WithContext(ctx).Where("is_deleted = ?", false)
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var out []domain.Amenity
	err := q.Order("name ASC").Find(&out).Error
	return out, err
}

// CountExisting counts how many of ids are live amenities.
func (r *AmenityRepository) CountExisting(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Amenity{}).
		Where("id IN ? AND is_deleted = ?", ids, false).
		Count(&n).Error
	return n, err
}

// SoftDelete hides the amenity and unlinks it from every room.
func (r *AmenityRepository) SoftDelete(ctx context.Context, id int64) error {
	return translate(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.Amenity{}).
			Where("id = ? AND is_deleted = ?", id, false).
			Updates(map[string]any{"is_deleted": true, "is_active": false})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Where("amenity_id = ?", id).Delete(&domain.RoomAmenity{}).Error
	}))
}
