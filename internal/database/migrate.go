package database

import (
	"fmt"

	"gorm.io/gorm"

	"tranquility/internal/domain"
)

const bookingOverlapConstraint = "bookings_no_overlap"

func Migrate(db *gorm.DB) error {
	if err := db.SetupJoinTable(&domain.Room{}, "Amenities", &domain.RoomAmenity{}); err != nil {
		return fmt.Errorf("setup room amenities: %w", err)
	}

	if err := db.AutoMigrate(
		&domain.User{},
		&domain.RoomType{},
		&domain.Amenity{},
		&domain.Room{},
		&domain.RoomAmenity{},
		&domain.RoomImage{},
		&domain.RoomAvailability{},
		&domain.Booking{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	if db.Dialector.Name() == "postgres" {
		return migratePostgres(db)
	}
	return nil
}

// migratePostgres installs the exclusion constraint that makes overlapping
// active bookings for one room impossible at the storage level.
func migratePostgres(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS btree_gist`).Error; err != nil {
		return fmt.Errorf("btree_gist: %w", err)
	}

	var n int64
	if err := db.Raw(`SELECT COUNT(*) FROM pg_constraint WHERE conname = ?`, bookingOverlapConstraint).Scan(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	stmt := fmt.Sprintf(`ALTER TABLE bookings ADD CONSTRAINT %s EXCLUDE USING gist (
	room_id WITH =,
	daterange(check_in, check_out, '[)') WITH &&
) WHERE (status IN ('%s', '%s'))`, bookingOverlapConstraint, domain.BookingPending, domain.BookingConfirmed)

	if err := db.Exec(stmt).Error; err != nil {
		return fmt.Errorf("add %s: %w", bookingOverlapConstraint, err)
	}
	return nil
}
