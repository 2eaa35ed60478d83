package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"tranquility/internal/domain"
)

// StatsRepository answers the admin dashboard aggregates. Each method is a
// single query so they can run concurrently.
type StatsRepository struct {
	db *gorm.DB
}

func NewStatsRepository(db *gorm.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

type RoomCounts struct {
	Total  int64 `json:"total"`
	Active int64 `json:"active"`
}

func (r *StatsRepository) RoomCounts(ctx context.Context) (RoomCounts, error) {
	var rc RoomCounts
	err := r.db.WithContext(ctx).Model(&domain.Room{}).
		Where("is_deleted = ?", false).
		Select("COUNT(*) AS total, COALESCE(SUM(CASE WHEN is_active THEN 1 ELSE 0 END), 0) AS active").
		Scan(&rc).Error
	return rc, err
}

func (r *StatsRepository) CountUsers(ctx context.Context, role domain.UserRole) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.User{}).
		Where("role = ? AND is_deleted = ?", role, false).
		Count(&n).Error
	return n, err
}

func (r *StatsRepository) BookingsByStatus(ctx context.Context) (map[domain.BookingStatus]int64, error) {
	var rows []struct {
		Status domain.BookingStatus
		N      int64
	}
	err := r.db.WithContext(ctx).Model(&domain.Booking{}).
		Select("status, COUNT(*) AS n").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := map[domain.BookingStatus]int64{
		domain.BookingPending:   0,
		domain.BookingConfirmed: 0,
		domain.BookingCompleted: 0,
		domain.BookingCancelled: 0,
	}
	for _, row := range rows {
		out[row.Status] = row.N
	}
	return out, nil
}

func (r *StatsRepository) Arrivals(ctx context.Context, day time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Booking{}).
		Where("check_in = ? AND status IN ?", day, activeStatuses()).
		Count(&n).Error
	return n, err
}

func (r *StatsRepository) Departures(ctx context.Context, day time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Booking{}).
		Where("check_out = ? AND status IN ?", day, []string{string(domain.BookingConfirmed), string(domain.BookingCompleted)}).
		Count(&n).Error
	return n, err
}

// OccupiedRooms counts distinct rooms with a confirmed or completed stay covering the night of day.
func (r *StatsRepository) OccupiedRooms(ctx context.Context, day time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Booking{}).
		Where("check_in <= ? AND check_out > ?", day, day).
		Where("status IN ?", []string{string(domain.BookingConfirmed), string(domain.BookingCompleted)}).
		Distinct("room_id").
		Count(&n).Error
	return n, err
}

// Revenue sums confirmed and completed bookings checking in within [from, to).
func (r *StatsRepository) Revenue(ctx context.Context, from, to time.Time) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).Model(&domain.Booking{}).
		Where("check_in >= ? AND check_in < ?", from, to).
		Where("status IN ?", []string{string(domain.BookingConfirmed), string(domain.BookingCompleted)}).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&total).Error
	return total, err
}

func (r *StatsRepository) RecentBookings(ctx context.Context, limit int) ([]domain.Booking, error) {
	var out []domain.Booking
	err := r.db.WithContext(ctx).
		Preload("Room").
		Preload("User").
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&out).Error
	return out, err
}
