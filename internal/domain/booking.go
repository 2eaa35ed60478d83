package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "PENDING"
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingCompleted BookingStatus = "COMPLETED"
	BookingCancelled BookingStatus = "CANCELLED"
)

// ActiveBookingStatuses hold a room: they block overlapping bookings and deletion.
var ActiveBookingStatuses = []BookingStatus{BookingPending, BookingConfirmed}

var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingPending:   {BookingConfirmed, BookingCancelled},
	BookingConfirmed: {BookingCompleted, BookingCancelled},
	BookingCompleted: {},
	BookingCancelled: {},
}

func ParseBookingStatus(s string) (BookingStatus, error) {
	st := BookingStatus(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := bookingTransitions[st]; !ok {
		return "", fmt.Errorf("unknown booking status %q", s)
	}
	return st, nil
}

func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range bookingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s BookingStatus) IsTerminal() bool {
	return s == BookingCompleted || s == BookingCancelled
}

func (s BookingStatus) IsActive() bool {
	return s == BookingPending || s == BookingConfirmed
}

type Booking struct {
	ID                 int64         `json:"id" gorm:"primaryKey"`
	Reference          string        `json:"reference" gorm:"size:16;uniqueIndex;not null"`
	UserID             int64         `json:"user_id" gorm:"not null;index"`
	RoomID             int64         `json:"room_id" gorm:"not null;index:idx_bookings_room_dates,priority:1"`
	CheckIn            time.Time     `json:"check_in" gorm:"type:date;not null;index:idx_bookings_room_dates,priority:2"`
	CheckOut           time.Time     `json:"check_out" gorm:"type:date;not null;index:idx_bookings_room_dates,priority:3"`
	Guests             int           `json:"guests" gorm:"not null"`
	Nights             int           `json:"nights" gorm:"not null"`
	TotalAmount        float64       `json:"total_amount" gorm:"type:decimal(12,2);not null"`
	Status             BookingStatus `json:"status" gorm:"size:16;not null;index"`
	SpecialRequests    string        `json:"special_requests,omitempty" gorm:"type:text"`
	CheckInTime        *time.Time    `json:"check_in_time,omitempty"`
	CheckOutTime       *time.Time    `json:"check_out_time,omitempty"`
	CancellationReason string        `json:"cancellation_reason,omitempty" gorm:"size:500"`
	CancelledAt        *time.Time    `json:"cancelled_at,omitempty"`
	CreatedAt          time.Time     `json:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Room *Room `json:"room,omitempty" gorm:"foreignKey:RoomID"`
}

const DateLayout = "2006-01-02"

// DateOnly truncates t to its UTC calendar date.
func DateOnly(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate accepts "2006-01-02" or RFC3339 and returns the UTC calendar date.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	return DateOnly(t), nil
}

// Nights counts the nights between two dates, rounding partial days up.
func Nights(checkIn, checkOut time.Time) int {
	d := DateOnly(checkOut).Sub(DateOnly(checkIn)).Hours() / 24
	return int(math.Ceil(d))
}

func TotalFor(basePrice float64, nights int) float64 {
	return math.Round(basePrice*float64(nights)*100) / 100
}

// Overlaps is the half-open interval test for [aIn, aOut) and [bIn, bOut).
func Overlaps(aIn, aOut, bIn, bOut time.Time) bool {
	return aIn.Before(bOut) && aOut.After(bIn)
}

const (
	EventBookingCreated       = "booking.created"
	EventBookingUpdated       = "booking.updated"
	EventBookingStatusChanged = "booking.status_changed"
)

// BookingEvent is published to staff dashboards when a booking changes.
type BookingEvent struct {
	Type       string        `json:"type"`
	BookingID  int64         `json:"booking_id"`
	Reference  string        `json:"reference"`
	RoomID     int64         `json:"room_id"`
	UserID     int64         `json:"user_id"`
	Status     BookingStatus `json:"status"`
	PrevStatus BookingStatus `json:"prev_status,omitempty"`
	CheckIn    string        `json:"check_in"`
	CheckOut   string        `json:"check_out"`
	Total      float64       `json:"total_amount"`
	At         time.Time     `json:"at"`
}
