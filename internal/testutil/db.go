package testutil

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"tranquility/internal/database"
	"tranquility/internal/domain"
)

// NewDB opens an isolated in-memory SQLite database with the schema applied.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s_%s?mode=memory&cache=shared", name, uuid.NewString()[:8])

	db, err := database.Connect(dsn, nil)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func Date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := domain.ParseDate(s)
	require.NoError(t, err)
	return d
}

func SeedUser(t *testing.T, db *gorm.DB, email string, role domain.UserRole) *domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	u := &domain.User{Email: email, PasswordHash: string(hash), Name: email, Role: role}
	require.NoError(t, db.Create(u).Error)
	return u
}

func SeedRoomType(t *testing.T, db *gorm.DB, name string, price float64, maxGuests int) *domain.RoomType {
	t.Helper()
	rt := &domain.RoomType{Name: name, BasePrice: price, MaxGuests: maxGuests}
	require.NoError(t, db.Create(rt).Error)
	return rt
}

func SeedRoom(t *testing.T, db *gorm.DB, number string, rt *domain.RoomType) *domain.Room {
	t.Helper()
	room := &domain.Room{RoomNumber: number, Floor: 1, RoomTypeID: rt.ID, IsActive: true}
	require.NoError(t, db.Omit("RoomType", "Images", "Amenities").Create(room).Error)
	room.RoomType = rt
	return room
}

func SeedBooking(t *testing.T, db *gorm.DB, user *domain.User, room *domain.Room, in, out string, status domain.BookingStatus) *domain.Booking {
	t.Helper()
	checkIn, checkOut := Date(t, in), Date(t, out)
	nights := domain.Nights(checkIn, checkOut)
	b := &domain.Booking{
		Reference:   strings.ToUpper(uuid.NewString()[:8]),
		UserID:      user.ID,
		RoomID:      room.ID,
		CheckIn:     checkIn,
		CheckOut:    checkOut,
		Guests:      1,
		Nights:      nights,
		TotalAmount: domain.TotalFor(room.RoomType.BasePrice, nights),
		Status:      status,
	}
	require.NoError(t, db.Omit("User", "Room").Create(b).Error)
	return b
}
