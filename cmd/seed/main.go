package main

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"tranquility/internal/config"
	"tranquility/internal/database"
	"tranquility/internal/domain"
	"tranquility/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	log.Logger = observability.NewLogger(cfg.AppEnv)

	db, err := database.Connect(cfg.DatabaseURL, nil)
	if err != nil {
		log.Fatal().Err(err).Msg("DB connection failed")
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate failed")
	}

	// Cleanup old data (children first so foreign keys hold)
	log.Info().Msg("cleaning old data")
	for _, table := range []string{"bookings", "room_availability", "room_images", "room_amenities", "rooms", "amenities", "room_types", "users"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			log.Fatal().Err(err).Str("table", table).Msg("cleanup failed")
		}
	}

	// ================== USERS ==================
	admin := mustUser(db, "admin@tranquility.inn", "admin123", "Inn Administrator", domain.RoleAdmin)
	log.Info().Str("email", admin.Email).Msg("admin created (password admin123)")
	mustUser(db, "desk@tranquility.inn", "staff123", "Front Desk", domain.RoleStaff)

	guests := make([]*domain.User, 0, 3)
	for i, email := range []string{"maria@example.com", "tom@example.com", "akira@example.com"} {
		u := mustUser(db, email, "guest123", fmt.Sprintf("Guest %d", i+1), domain.RoleGuest)
		u.Phone = fmt.Sprintf("+1 555 010 %04d", i+1)
		db.Model(u).Update("phone", u.Phone)
		guests = append(guests, u)
	}

	// ================== AMENITIES ==================
	log.Info().Msg("creating amenities")
	amenities := []domain.Amenity{
		{Name: "Wi-Fi", Icon: "wifi", IsActive: true},
		{Name: "Air conditioning", Icon: "snowflake", IsActive: true},
		{Name: "Sea view", Icon: "waves", IsActive: true},
		{Name: "Minibar", Icon: "wine", IsActive: true},
		{Name: "Balcony", Icon: "sun", IsActive: true},
	}
	if err := db.Create(&amenities).Error; err != nil {
		log.Fatal().Err(err).Msg("create amenities")
	}

	// ================== ROOM TYPES ==================
	log.Info().Msg("creating room types")
	types := []domain.RoomType{
		{Name: "Standard", BasePrice: 89, MaxGuests: 2, Description: "Cosy room with a queen bed.", Highlights: datatypes.JSONSlice[string]{"Queen bed", "Garden view"}},
		{Name: "Deluxe", BasePrice: 139, MaxGuests: 3, Description: "Spacious room with a sitting area.", Highlights: datatypes.JSONSlice[string]{"King bed", "Sofa bed"}},
		{Name: "Suite", BasePrice: 249, MaxGuests: 4, Description: "Two rooms with a private balcony.", Highlights: datatypes.JSONSlice[string]{"Living room", "Balcony", "Bathtub"}},
	}
	if err := db.Create(&types).Error; err != nil {
		log.Fatal().Err(err).Msg("create room types")
	}

	// ================== ROOMS ==================
	log.Info().Msg("creating rooms")
	rooms := make([]domain.Room, 0, 9)
	for floor := 1; floor <= 3; floor++ {
		for n := 1; n <= 3; n++ {
			rt := types[(n-1)%len(types)]
			room := domain.Room{
				RoomNumber: fmt.Sprintf("%d%02d", floor, n),
				Floor:      floor,
				RoomTypeID: rt.ID,
				IsActive:   true,
			}
			if err := db.Omit("RoomType", "Images", "Amenities").Create(&room).Error; err != nil {
				log.Fatal().Err(err).Msg("create room")
			}
			links := []domain.RoomAmenity{{RoomID: room.ID, AmenityID: amenities[0].ID}}
			if n > 1 {
				links = append(links, domain.RoomAmenity{RoomID: room.ID, AmenityID: amenities[1].ID})
			}
			if floor == 3 {
				links = append(links, domain.RoomAmenity{RoomID: room.ID, AmenityID: amenities[2].ID})
			}
			db.Create(&links)
			room.RoomType = &rt
			rooms = append(rooms, room)
		}
	}

	// one room under maintenance next week
	today := domain.DateOnly(time.Now())
	db.Create(&domain.RoomAvailability{
		RoomID:    rooms[0].ID,
		StartDate: today.AddDate(0, 0, 7),
		EndDate:   today.AddDate(0, 0, 10),
		Reason:    "Maintenance",
	})

	// ================== BOOKINGS ==================
	log.Info().Msg("creating bookings")
	statuses := []domain.BookingStatus{domain.BookingPending, domain.BookingConfirmed, domain.BookingConfirmed, domain.BookingCancelled}
	count := 0
	for i, room := range rooms[1:] {
		checkIn := today.AddDate(0, 0, rand.Intn(20)+1)
		nights := rand.Intn(4) + 1
		checkOut := checkIn.AddDate(0, 0, nights)
		guest := guests[i%len(guests)]
		status := statuses[i%len(statuses)]

		b := domain.Booking{
			Reference:   strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:10]),
			UserID:      guest.ID,
			RoomID:      room.ID,
			CheckIn:     checkIn,
			CheckOut:    checkOut,
			Guests:      1,
			Nights:      nights,
			TotalAmount: domain.TotalFor(room.RoomType.BasePrice, nights),
			Status:      status,
		}
		if status == domain.BookingCancelled {
			now := time.Now().UTC()
			b.CancelledAt = &now
			b.CancellationReason = "Change of plans"
		}
		if err := db.Omit("User", "Room").Create(&b).Error; err != nil {
			log.Warn().Err(err).Str("room", room.RoomNumber).Msg("skip booking")
			continue
		}
		count++
	}

	log.Info().
		Int("rooms", len(rooms)).
		Int("room_types", len(types)).
		Int("amenities", len(amenities)).
		Int("bookings", count).
		Msg("seed completed")
}

func mustUser(db *gorm.DB, email, password, name string, role domain.UserRole) *domain.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal().Err(err).Msg("hash password")
	}
	u := &domain.User{Email: email, PasswordHash: string(hash), Name: name, Role: role}
	if err := db.Create(u).Error; err != nil {
		log.Fatal().Err(err).Str("email", email).Msg("create user")
	}
	return u
}
