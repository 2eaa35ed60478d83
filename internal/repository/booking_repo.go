package repository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tranquility/internal/domain"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

type BookingFilter struct {
	Status domain.BookingStatus
	RoomID int64
	UserID int64
	// From/To select bookings whose stay intersects [From, To).
	From   *time.Time
	To     *time.Time
	Search string
	Page
}

type BookingStats struct {
	Total      int64   `json:"total"`
	Upcoming   int64   `json:"upcoming"`
	Completed  int64   `json:"completed"`
	Cancelled  int64   `json:"cancelled"`
	TotalSpent float64 `json:"total_spent"`
}

// conflicts counts active bookings (other than excludeID) and maintenance
// blocks on the room that intersect [checkIn, checkOut).
func conflicts(tx *gorm.DB, roomID int64, checkIn, checkOut time.Time, excludeID int64) (int64, error) {
	var booked int64
	q := tx.Model(&domain.Booking{}).
		Where("room_id = ? AND status IN ?", roomID, activeStatuses()).
		Where("check_in < ? AND check_out > ?", checkOut, checkIn)
	if excludeID > 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&booked).Error; err != nil {
		return 0, err
	}

	var blocked int64
	if err := tx.Model(&domain.RoomAvailability{}).
		Where("room_id = ? AND start_date < ? AND end_date > ?", roomID, checkOut, checkIn).
		Count(&blocked).Error; err != nil {
		return 0, err
	}
	return booked + blocked, nil
}

// IsAvailable is the cheap, unlocked pre-check.
func (r *BookingRepository) IsAvailable(ctx context.Context, roomID int64, checkIn, checkOut time.Time, excludeID int64) (bool, error) {
	n, err := conflicts(r.db.WithContext(ctx), roomID, checkIn, checkOut, excludeID)
	if err != nil {
		return false, err
	}
	return n == 0, nil
}

// lockBookableRoom takes the room row lock that serialises booking writes per
// room and returns the capacity of its type. A room whose type was deleted is
// not bookable.
func lockBookableRoom(tx *gorm.DB, roomID int64) (int, error) {
	var row struct {
		ID        int64
		MaxGuests int
	}
	err := tx.Table("rooms").
		Select("rooms.id, room_types.max_guests").
		Joins("JOIN room_types ON room_types.id = rooms.room_type_id").
		Where("rooms.id = ? AND rooms.is_deleted = ? AND rooms.is_active = ? AND room_types.is_deleted = ?", roomID, false, true, false).
		Clauses(clause.Locking{Strength: "UPDATE", Table: clause.Table{Name: "rooms"}}).
		Take(&row).Error
	return row.MaxGuests, err
}

// lockRoomForWrite checks the room under lock and rejects stays that exceed
// its capacity or overlap another booking or block.
func lockRoomForWrite(tx *gorm.DB, b *domain.Booking) error {
	maxGuests, err := lockBookableRoom(tx, b.RoomID)
	if err != nil {
		return err
	}
	if b.Guests > maxGuests {
		return ErrOverCapacity
	}
	n, err := conflicts(tx, b.RoomID, b.CheckIn, b.CheckOut, b.ID)
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrOverlap
	}
	return nil
}

// CreateChecked inserts b after re-checking availability under the room lock.
// Returns ErrOverlap when the dates are taken, ErrOverCapacity when the room
// type shrank below b.Guests and ErrNotFound when the room stopped being bookable.
func (r *BookingRepository) CreateChecked(ctx context.Context, b *domain.Booking) error {
	return translate(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockRoomForWrite(tx, b); err != nil {
			return err
		}
		return tx.Omit(clause.Associations).Create(b).Error
	}))
}

// UpdateChecked rewrites the stay of a still-active booking. prev is the
// status the caller saw; a concurrent transition yields ErrStaleStatus.
func (r *BookingRepository) UpdateChecked(ctx context.Context, b *domain.Booking, prev domain.BookingStatus) error {
	return translate(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockRoomForWrite(tx, b); err != nil {
			return err
		}

		res := tx.Model(&domain.Booking{}).
			Where("id = ? AND status = ?", b.ID, prev).
			Updates(map[string]any{
				"room_id":          b.RoomID,
				"check_in":         b.CheckIn,
				"check_out":        b.CheckOut,
				"guests":           b.Guests,
				"nights":           b.Nights,
				"total_amount":     b.TotalAmount,
				"special_requests": b.SpecialRequests,
				"updated_at":       time.Now().UTC(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrStaleStatus
		}
		return nil
	}))
}

// TransitionStatus applies fields only if the booking is still in status from.
func (r *BookingRepository) TransitionStatus(ctx context.Context, id int64, from domain.BookingStatus, fields map[string]any) error {
	if _, ok := fields["updated_at"]; !ok {
		fields["updated_at"] = time.Now().UTC()
	}
	res := r.db.WithContext(ctx).Model(&domain.Booking{}).
		Where("id = ? AND status = ?", id, from).
		Updates(fields)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrStaleStatus
	}
	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var b domain.Booking
	err := r.db.WithContext(ctx).
		Preload("Room").
		Preload("Room.RoomType").
		Preload("User").
		First(&b, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &b, nil
}

func (r *BookingRepository) filtered(ctx context.Context, f BookingFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&domain.Booking{})
	if f.Status != "" {
		q = q.Where("bookings.status = ?", f.Status)
	}
	if f.RoomID > 0 {
		q = q.Where("bookings.room_id = ?", f.RoomID)
	}
	if f.UserID > 0 {
		q = q.Where("bookings.user_id = ?", f.UserID)
	}
	if f.To != nil {
		q = q.Where("bookings.check_in < ?", *f.To)
	}
	if f.From != nil {
		q = q.Where("bookings.check_out > ?", *f.From)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		p := likePattern(s)
		q = q.Joins("JOIN users ON users.id = bookings.user_id").
			Where("LOWER(bookings.reference) LIKE ? OR LOWER(users.email) LIKE ? OR LOWER(users.name) LIKE ?", p, p, p)
	}
	return q
}

func (r *BookingRepository) List(ctx context.Context, f BookingFilter) ([]domain.Booking, int64, error) {
	var total int64
	if err := r.filtered(ctx, f).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := f.Page.normalize()
	var out []domain.Booking
	err := r.filtered(ctx, f).
		Preload("Room").
		Preload("Room.RoomType").
		Preload("User").
		Order("bookings.check_in DESC, bookings.id DESC").
		Limit(page.Limit).
		Offset(page.offset()).
		Find(&out).Error
	return out, total, err
}

func (r *BookingRepository) StatsByUser(ctx context.Context, userID int64, today time.Time) (BookingStats, error) {
	var st BookingStats
	db := r.db.WithContext(ctx)
	base := func() *gorm.DB { return db.Model(&domain.Booking{}).Where("user_id = ?", userID) }

	if err := base().Count(&st.Total).Error; err != nil {
		return st, err
	}
	if err := base().Where("status IN ? AND check_in >= ?", activeStatuses(), today).Count(&st.Upcoming).Error; err != nil {
		return st, err
	}
	if err := base().Where("status = ?", domain.BookingCompleted).Count(&st.Completed).Error; err != nil {
		return st, err
	}
	if err := base().Where("status = ?", domain.BookingCancelled).Count(&st.Cancelled).Error; err != nil {
		return st, err
	}
	err := base().
		Where("status IN ?", []string{string(domain.BookingConfirmed), string(domain.BookingCompleted)}).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&st.TotalSpent).Error
	return st, err
}

func (r *BookingRepository) CountActiveForUser(ctx context.Context, userID int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Booking{}).
		Where("user_id = ? AND status IN ?", userID, activeStatuses()).
		Count(&n).Error
	return n, err
}

// ListPendingStartingBefore returns PENDING bookings whose check-in is before day.
func (r *BookingRepository) ListPendingStartingBefore(ctx context.Context, day time.Time, limit int) ([]domain.Booking, error) {
	var out []domain.Booking
	err := r.db.WithContext(ctx).
		Where("status = ? AND check_in < ?", domain.BookingPending, day).
		Order("check_in ASC, id ASC").
		Limit(limit).
		Find(&out).Error
	return out, err
}
