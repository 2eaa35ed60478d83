package domain

import (
	"time"

	"gorm.io/datatypes"
)

type RoomType struct {
	ID          int64                       `json:"id" gorm:"primaryKey"`
	Name        string                      `json:"name" gorm:"size:100;uniqueIndex;not null"`
	Description string                      `json:"description,omitempty" gorm:"type:text"`
	BasePrice   float64                     `json:"base_price" gorm:"type:decimal(10,2);not null"`
	MaxGuests   int                         `json:"max_guests" gorm:"not null"`
	ImageURL    string                      `json:"image_url,omitempty" gorm:"size:512"`
	Highlights  datatypes.JSONSlice[string] `json:"highlights,omitempty"`
	IsDeleted   bool                        `json:"is_deleted" gorm:"not null;default:false;index"`
	CreatedAt   time.Time                   `json:"created_at"`
	UpdatedAt   time.Time                   `json:"updated_at"`
}

type Room struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	RoomNumber  string    `json:"room_number" gorm:"size:20;uniqueIndex;not null"`
	Floor       int       `json:"floor"`
	RoomTypeID  int64     `json:"room_type_id" gorm:"not null;index"`
	Description string    `json:"description,omitempty" gorm:"type:text"`
	IsActive    bool      `json:"is_active" gorm:"not null;index"`
	IsDeleted   bool      `json:"is_deleted" gorm:"not null;default:false;index"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	RoomType  *RoomType   `json:"room_type,omitempty" gorm:"foreignKey:RoomTypeID"`
	Images    []RoomImage `json:"images,omitempty" gorm:"foreignKey:RoomID"`
	Amenities []Amenity   `json:"amenities,omitempty" gorm:"many2many:room_amenities"`
}

// Bookable reports whether new bookings may be placed on the room.
func (r *Room) Bookable() bool {
	if r == nil || r.IsDeleted || !r.IsActive {
		return false
	}
	return r.RoomType == nil || !r.RoomType.IsDeleted
}

type RoomImage struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	RoomID       int64     `json:"room_id" gorm:"not null;index"`
	URL          string    `json:"url" gorm:"size:512;not null"`
	ThumbnailURL string    `json:"thumbnail_url,omitempty" gorm:"size:512"`
	SortOrder    int       `json:"sort_order"`
	CreatedAt    time.Time `json:"created_at"`
}

type RoomAmenity struct {
	RoomID    int64 `gorm:"primaryKey"`
	AmenityID int64 `gorm:"primaryKey"`
}

func (RoomAmenity) TableName() string { return "room_amenities" }

// RoomAvailability blocks a room for [StartDate, EndDate), e.g. for maintenance.
type RoomAvailability struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	RoomID    int64     `json:"room_id" gorm:"not null;index"`
	StartDate time.Time `json:"start_date" gorm:"type:date;not null"`
	EndDate   time.Time `json:"end_date" gorm:"type:date;not null"`
	Reason    string    `json:"reason,omitempty" gorm:"size:255"`
	CreatedAt time.Time `json:"created_at"`
}

func (RoomAvailability) TableName() string { return "room_availability" }

type Amenity struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"size:100;uniqueIndex;not null"`
	Icon        string    `json:"icon,omitempty" gorm:"size:64"`
	Description string    `json:"description,omitempty" gorm:"size:255"`
	IsActive    bool      `json:"is_active" gorm:"not null"`
	IsDeleted   bool      `json:"is_deleted" gorm:"not null;default:false;index"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
