package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tranquility/internal/domain"
)

type RoomRepository struct {
	db *gorm.DB
}

func NewRoomRepository(db *gorm.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

type RoomFilter struct {
	CheckIn    *time.Time
	CheckOut   *time.Time
	Guests     int
	RoomTypeID int64
	AmenityIDs []int64
	MinPrice   float64
	MaxPrice   float64

	// IncludeInactive lists deactivated rooms too (admin view). Deleted rooms are never listed.
	IncludeInactive bool
}

// RoomUpdate carries the optional collection replacements of an update.
type RoomUpdate struct {
	ReplaceImages    bool
	ImageURLs        []string
	ReplaceAmenities bool
	AmenityIDs       []int64

	// MaxGuests, when set, is the capacity of the room's new type. The update
	// fails with ErrOverCapacity if an active booking holds more guests.
	MaxGuests int
}

func imagesFor(roomID int64, urls []string) []domain.RoomImage {
	out := make([]domain.RoomImage, 0, len(urls))
	for i, u := range urls {
		out = append(out, domain.RoomImage{RoomID: roomID, URL: u, SortOrder: i})
	}
	return out
}

func linksFor(roomID int64, amenityIDs []int64) []domain.RoomAmenity {
	seen := make(map[int64]bool, len(amenityIDs))
	out := make([]domain.RoomAmenity, 0, len(amenityIDs))
	for _, id := range amenityIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, domain.RoomAmenity{RoomID: roomID, AmenityID: id})
	}
	return out
}

// Create inserts the room with its images and amenity links in one transaction.
func (r *RoomRepository) Create(ctx context.Context, room *domain.Room, imageURLs []string, amenityIDs []int64) error {
	return translate(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(room).Error; err != nil {
			return err
		}
		return replaceChildren(tx, room.ID, RoomUpdate{
			ReplaceImages: true, ImageURLs: imageURLs,
			ReplaceAmenities: true, AmenityIDs: amenityIDs,
		})
	}))
}

// Update saves the scalar fields and replaces images/amenities as requested,
// all or nothing.
func (r *RoomRepository) Update(ctx context.Context, room *domain.Room, upd RoomUpdate) error {
	return translate(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if upd.MaxGuests > 0 {
			var locked domain.Room
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("is_deleted = ?", false).
				First(&locked, room.ID).Error; err != nil {
				return err
			}
			if err := checkCapacity(tx, upd.MaxGuests, "room_id = ?", room.ID); err != nil {
				return err
			}
		}

		res := tx.Model(room).
			Where("is_deleted = ?", false).
			Select("room_number", "floor", "room_type_id", "description", "is_active").
			Updates(room)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return replaceChildren(tx, room.ID, upd)
	}))
}

// checkCapacity fails with ErrOverCapacity when an active booking matching
// cond holds more than maxGuests guests.
func checkCapacity(tx *gorm.DB, maxGuests int, cond string, args ...any) error {
	var n int64
	if err := tx.Model(&domain.Booking{}).
		Where(cond, args...).
		Where("status IN ? AND guests > ?", activeStatuses(), maxGuests).
		Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return ErrOverCapacity
	}
	return nil
}

func replaceChildren(tx *gorm.DB, roomID int64, upd RoomUpdate) error {
	if upd.ReplaceImages {
		if err := tx.Where("room_id = ?", roomID).Delete(&domain.RoomImage{}).Error; err != nil {
			return err
		}
		if imgs := imagesFor(roomID, upd.ImageURLs); len(imgs) > 0 {
			if err := tx.Create(&imgs).Error; err != nil {
				return err
			}
		}
	}
	if upd.ReplaceAmenities {
		if err := tx.Where("room_id = ?", roomID).Delete(&domain.RoomAmenity{}).Error; err != nil {
			return err
		}
		if links := linksFor(roomID, upd.AmenityIDs); len(links) > 0 {
			if err := tx.Create(&links).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *RoomRepository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("RoomType").
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC, id ASC") }).
		Preload("Amenities", "is_deleted = ?", false)
}

// GetByID loads the room with its type, images and amenities. Soft-deleted
// rooms are returned as well; check IsDeleted.
func (r *RoomRepository) GetByID(ctx context.Context, id int64) (*domain.Room, error) {
	var room domain.Room
	if err := r.preloaded(ctx).First(&room, id).Error; err != nil {
		return nil, translate(err)
	}
	return &room, nil
}

func (r *RoomRepository) Search(ctx context.Context, f RoomFilter) ([]domain.Room, error) {
	q := r.preloaded(ctx).
		Model(&domain.Room{}).
		Joins("JOIN room_types ON room_types.id = rooms.room_type_id").
		Where("rooms.is_deleted = ? AND room_types.is_deleted = ?", false, false)

	if !f.IncludeInactive {
		q = q.Where("rooms.is_active = ?", true)
	}
	if f.RoomTypeID > 0 {
		q = q.Where("rooms.room_type_id = ?", f.RoomTypeID)
	}
	if f.Guests > 0 {
		q = q.Where("room_types.max_guests >= ?", f.Guests)
	}
	if f.MinPrice > 0 {
		q = q.Where("room_types.base_price >= ?", f.MinPrice)
	}
	if f.MaxPrice > 0 {
		q = q.Where("room_types.base_price <= ?", f.MaxPrice)
	}
	if len(f.AmenityIDs) > 0 {
		ids := uniqueIDs(f.AmenityIDs)
		withAll := r.db.Model(&domain.RoomAmenity{}).
			Select("room_id").
			Where("amenity_id IN ?", ids).
			Group("room_id").
			Having("COUNT(DISTINCT amenity_id) = ?", len(ids))
		q = q.Where("rooms.id IN (?)", withAll)
	}
	if f.CheckIn != nil && f.CheckOut != nil {
		q = q.Where(`NOT EXISTS (SELECT 1 FROM bookings b WHERE b.room_id = rooms.id AND b.status IN ? AND b.check_in < ? AND b.check_out > ?)`,
			activeStatuses(), *f.CheckOut, *f.CheckIn).
			Where(`NOT EXISTS (SELECT 1 FROM room_availability a WHERE a.room_id = rooms.id AND a.start_date < ? AND a.end_date > ?)`,
				*f.CheckOut, *f.CheckIn)
	}

	var rooms []domain.Room
	err := q.Order("rooms.room_number ASC").Find(&rooms).Error
	return rooms, err
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func (r *RoomRepository) SetActive(ctx context.Context, id int64, active bool) error {
	res := r.db.WithContext(ctx).Model(&domain.Room{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Update("is_active", active)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SoftDeleteCascade deletes the room unless it holds a PENDING or CONFIRMED
// booking (ErrInUse). The room row is locked so no booking can slip in
// between the check and the delete.
func (r *RoomRepository) SoftDeleteCascade(ctx context.Context, id int64) error {
	return translate(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var room domain.Room
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("is_deleted = ?", false).
			First(&room, id).Error; err != nil {
			return err
		}

		var active int64
		if err := tx.Model(&domain.Booking{}).
			Where("room_id = ? AND status IN ?", id, activeStatuses()).
			Count(&active).Error; err != nil {
			return err
		}
		if active > 0 {
			return ErrInUse
		}

		if err := tx.Model(&room).Updates(map[string]any{"is_deleted": true, "is_active": false}).Error; err != nil {
			return err
		}
		if err := tx.Where("room_id = ?", id).Delete(&domain.RoomImage{}).Error; err != nil {
			return err
		}
		if err := tx.Where("room_id = ?", id).Delete(&domain.RoomAmenity{}).Error; err != nil {
			return err
		}
		return tx.Where("room_id = ?", id).Delete(&domain.RoomAvailability{}).Error
	}))
}

func (r *RoomRepository) AddImage(ctx context.Context, img *domain.RoomImage) error {
	return translate(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var next int
		if err := tx.Model(&domain.RoomImage{}).
			Where("room_id = ?", img.RoomID).
			Select("COALESCE(MAX(sort_order) + 1, 0)").
			Scan(&next).Error; err != nil {
			return err
		}
		img.SortOrder = next
		return tx.Create(img).Error
	}))
}

func (r *RoomRepository) DeleteImage(ctx context.Context, roomID, imageID int64) (*domain.RoomImage, error) {
	var img domain.RoomImage
	if err := r.db.WithContext(ctx).Where("id = ? AND room_id = ?", imageID, roomID).First(&img).Error; err != nil {
		return nil, translate(err)
	}
	if err := r.db.WithContext(ctx).Delete(&img).Error; err != nil {
		return nil, translate(err)
	}
	return &img, nil
}

// AddBlockChecked inserts a maintenance block unless it overlaps an active
// booking or another block (ErrOverlap). Inactive rooms may be blocked.
func (r *RoomRepository) AddBlockChecked(ctx context.Context, b *domain.RoomAvailability) error {
	return translate(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var room domain.Room
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("is_deleted = ?", false).
			First(&room, b.RoomID).Error; err != nil {
			return err
		}
		n, err := conflicts(tx, b.RoomID, b.StartDate, b.EndDate, 0)
		if err != nil {
			return err
		}
		if n > 0 {
			return ErrOverlap
		}
		return tx.Create(b).Error
	}))
}

func (r *RoomRepository) ListBlocks(ctx context.Context, roomID int64) ([]domain.RoomAvailability, error) {
	var out []domain.RoomAvailability
	err := r.db.WithContext(ctx).Where("room_id = ?", roomID).Order("start_date ASC").Find(&out).Error
	return out, err
}

func (r *RoomRepository) DeleteBlock(ctx context.Context, roomID, blockID int64) error {
	res := r.db.WithContext(ctx).Where("id = ? AND room_id = ?", blockID, roomID).Delete(&domain.RoomAvailability{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
