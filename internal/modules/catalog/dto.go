package catalog

type RoomTypeRequest struct {
	Name        string   `json:"name" validate:"required,max=100"`
	Description string   `json:"description" validate:"max=2000"`
	BasePrice   float64  `json:"base_price" validate:"required,gt=0"`
	MaxGuests   int      `json:"max_guests" validate:"required,gte=1,lte=20"`
	ImageURL    string   `json:"image_url" validate:"omitempty,max=512"`
	Highlights  []string `json:"highlights" validate:"max=20,dive,max=120"`
}

type CreateRoomRequest struct {
	RoomNumber  string   `json:"room_number" validate:"required,max=20"`
	Floor       int      `json:"floor" validate:"gte=0"`
	RoomTypeID  int64    `json:"room_type_id" validate:"required,gt=0"`
	Description string   `json:"description" validate:"max=2000"`
	IsActive    *bool    `json:"is_active"`
	ImageURLs   []string `json:"image_urls" validate:"max=30,dive,max=512"`
	AmenityIDs  []int64  `json:"amenity_ids" validate:"max=50,dive,gt=0"`
}

// UpdateRoomRequest leaves nil fields unchanged. A non-nil ImageURLs or
// AmenityIDs replaces the whole collection.
type UpdateRoomRequest struct {
	RoomNumber  *string   `json:"room_number" validate:"omitempty,min=1,max=20"`
	Floor       *int      `json:"floor" validate:"omitempty,gte=0"`
	RoomTypeID  *int64    `json:"room_type_id" validate:"omitempty,gt=0"`
	Description *string   `json:"description" validate:"omitempty,max=2000"`
	IsActive    *bool     `json:"is_active"`
	ImageURLs   *[]string `json:"image_urls"`
	AmenityIDs  *[]int64  `json:"amenity_ids"`
}

type SetActiveRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

type AmenityRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Icon        string `json:"icon" validate:"max=64"`
	Description string `json:"description" validate:"max=255"`
	IsActive    *bool  `json:"is_active"`
}

type BlockRequest struct {
	StartDate string `json:"start_date" validate:"required"`
	EndDate   string `json:"end_date" validate:"required"`
	Reason    string `json:"reason" validate:"max=255"`
}

type RoomQuery struct {
	CheckIn    string  `form:"check_in"`
	CheckOut   string  `form:"check_out"`
	Guests     int     `form:"guests" validate:"gte=0"`
	TypeID     int64   `form:"type_id" validate:"gte=0"`
	AmenityIDs string  `form:"amenity_ids"`
	MinPrice   float64 `form:"min_price" validate:"gte=0"`
	MaxPrice   float64 `form:"max_price" validate:"gte=0"`
}
