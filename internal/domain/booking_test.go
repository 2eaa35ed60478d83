package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	t, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestBookingStatus_Transitions(t *testing.T) {
	cases := []struct {
		from, to BookingStatus
		ok       bool
	}{
		{BookingPending, BookingConfirmed, true},
		{BookingPending, BookingCancelled, true},
		{BookingPending, BookingCompleted, false},
		{BookingConfirmed, BookingCompleted, true},
		{BookingConfirmed, BookingCancelled, true},
		{BookingConfirmed, BookingPending, false},
		{BookingCompleted, BookingCancelled, false},
		{BookingCompleted, BookingConfirmed, false},
		{BookingCancelled, BookingPending, false},
		{BookingCancelled, BookingConfirmed, false},
		{BookingPending, BookingPending, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.ok, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestBookingStatus_Flags(t *testing.T) {
	assert.True(t, BookingPending.IsActive())
	assert.True(t, BookingConfirmed.IsActive())
	assert.False(t, BookingCancelled.IsActive())
	assert.True(t, BookingCompleted.IsTerminal())
	assert.True(t, BookingCancelled.IsTerminal())
	assert.False(t, BookingConfirmed.IsTerminal())
}

func TestParseBookingStatus(t *testing.T) {
	st, err := ParseBookingStatus(" confirmed ")
	require.NoError(t, err)
	assert.Equal(t, BookingConfirmed, st)

	_, err = ParseBookingStatus("REFUNDED")
	assert.Error(t, err)
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-06-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), d)

	d, err = ParseDate("2024-06-01T23:30:00-02:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC), d)

	_, err = ParseDate("2024-02-30")
	assert.Error(t, err)
	_, err = ParseDate("tomorrow")
	assert.Error(t, err)
}

func TestNightsAndTotal(t *testing.T) {
	n := Nights(date("2024-06-01"), date("2024-06-04"))
	assert.Equal(t, 3, n)
	assert.Equal(t, 300.0, TotalFor(100, n))

	// across the March DST change in most zones; UTC dates are unaffected
	assert.Equal(t, 1, Nights(date("2024-03-30"), date("2024-03-31")))
	assert.Equal(t, 0, Nights(date("2024-06-01"), date("2024-06-01")))
	assert.Equal(t, 389.97, TotalFor(129.99, 3))
}

func TestOverlaps(t *testing.T) {
	in, out := date("2024-06-01"), date("2024-06-04")

	assert.True(t, Overlaps(in, out, date("2024-06-03"), date("2024-06-05")))
	assert.True(t, Overlaps(in, out, date("2024-05-30"), date("2024-06-02")))
	assert.True(t, Overlaps(in, out, date("2024-06-02"), date("2024-06-03")))
	assert.False(t, Overlaps(in, out, date("2024-06-04"), date("2024-06-06")), "checkout day is free")
	assert.False(t, Overlaps(in, out, date("2024-05-28"), date("2024-06-01")))
}

func TestRoom_Bookable(t *testing.T) {
	var nilRoom *Room
	assert.False(t, nilRoom.Bookable())
	assert.True(t, (&Room{IsActive: true}).Bookable())
	assert.False(t, (&Room{IsActive: false}).Bookable())
	assert.False(t, (&Room{IsActive: true, IsDeleted: true}).Bookable())
	assert.False(t, (&Room{IsActive: true, RoomType: &RoomType{IsDeleted: true}}).Bookable())
}

func TestParseUserRole(t *testing.T) {
	r, err := ParseUserRole("staff")
	require.NoError(t, err)
	assert.Equal(t, RoleStaff, r)
	assert.True(t, r.IsStaff())
	assert.False(t, RoleGuest.IsStaff())

	_, err = ParseUserRole("owner")
	assert.Error(t, err)
}
