package catalog

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"tranquility/internal/cache"
	"tranquility/internal/domain"
	"tranquility/internal/repository"
	"tranquility/internal/testutil"
)

type catalogFixture struct {
	db  *gorm.DB
	svc *Service
	mr  *miniredis.Miniredis
}

func newCatalog(t *testing.T) *catalogFixture {
	t.Helper()
	db := testutil.NewDB(t)
	mr := miniredis.RunT(t)
	rc := cache.NewRedis(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = rc.Close() })

	svc := NewService(
		repository.NewRoomTypeRepository(db),
		repository.NewRoomRepository(db),
		repository.NewAmenityRepository(db),
		repository.NewBookingRepository(db),
		NewDiskImageStore(t.TempDir(), "/uploads"),
		rc,
		time.Minute,
	)
	return &catalogFixture{db: db, svc: svc, mr: mr}
}

func (f *catalogFixture) roomType(t *testing.T, name string, price float64, guests int) *domain.RoomType {
	t.Helper()
	rt, err := f.svc.CreateRoomType(context.Background(), RoomTypeRequest{
		Name: name, BasePrice: price, MaxGuests: guests, Highlights: []string{"Sea view"},
	})
	require.NoError(t, err)
	return rt
}

func (f *catalogFixture) room(t *testing.T, number string, rt *domain.RoomType, amenityIDs ...int64) *domain.Room {
	t.Helper()
	room, err := f.svc.CreateRoom(context.Background(), CreateRoomRequest{
		RoomNumber: number, Floor: 1, RoomTypeID: rt.ID, AmenityIDs: amenityIDs,
		ImageURLs: []string{"/uploads/a.jpg"},
	})
	require.NoError(t, err)
	return room
}

func TestRoomTypes_CachedAndInvalidated(t *testing.T) {
	f := newCatalog(t)
	ctx := context.Background()
	f.roomType(t, "Deluxe", 100, 2)

	types, err := f.svc.ListRoomTypes(ctx)
	require.NoError(t, err)
	require.Len(t, types, 1)
	assert.Equal(t, []string{"Sea view"}, []string(types[0].Highlights))
	assert.True(t, f.mr.Exists(keyPrefix+"room-types"))

	// written behind the service's back: the cached copy is served
	require.NoError(t, f.db.Create(&domain.RoomType{Name: "Hidden", BasePrice: 50, MaxGuests: 1}).Error)
	types, err = f.svc.ListRoomTypes(ctx)
	require.NoError(t, err)
	assert.Len(t, types, 1)

	f.roomType(t, "Suite", 300, 4)
	assert.False(t, f.mr.Exists(keyPrefix+"room-types"))
	types, err = f.svc.ListRoomTypes(ctx)
	require.NoError(t, err)
	assert.Len(t, types, 3)
}

func TestRoomType_DuplicateAndMissing(t *testing.T) {
	f := newCatalog(t)
	ctx := context.Background()
	f.roomType(t, "Deluxe", 100, 2)

	_, err := f.svc.CreateRoomType(ctx, RoomTypeRequest{Name: "Deluxe", BasePrice: 90, MaxGuests: 2})
	assert.ErrorIs(t, err, ErrRoomTypeExists)

	_, err = f.svc.UpdateRoomType(ctx, 999, RoomTypeRequest{Name: "X", BasePrice: 1, MaxGuests: 1})
	assert.ErrorIs(t, err, ErrRoomTypeNotFound)

	assert.ErrorIs(t, f.svc.DeleteRoomType(ctx, 999), ErrRoomTypeNotFound)
}

func TestRooms_CreateUpdateAndSearch(t *testing.T) {
	f := newCatalog(t)
	ctx := context.Background()
	deluxe := f.roomType(t, "Deluxe", 100, 2)
	suite := f.roomType(t, "Suite", 250, 4)
	wifi, err := f.svc.CreateAmenity(ctx, AmenityRequest{Name: "Wi-Fi"})
	require.NoError(t, err)

	r101 := f.room(t, "101", deluxe, wifi.ID)
	require.NotNil(t, r101.RoomType)
	assert.Len(t, r101.Images, 1)
	assert.Len(t, r101.Amenities, 1)
	f.room(t, "201", suite)

	_, err = f.svc.CreateRoom(ctx, CreateRoomRequest{RoomNumber: "101", RoomTypeID: deluxe.ID})
	assert.ErrorIs(t, err, ErrRoomNumberExists)
	_, err = f.svc.CreateRoom(ctx, CreateRoomRequest{RoomNumber: "102", RoomTypeID: deluxe.ID, AmenityIDs: []int64{wifi.ID, 999}})
	assert.ErrorIs(t, err, ErrUnknownAmenity)
	_, err = f.svc.CreateRoom(ctx, CreateRoomRequest{RoomNumber: "103", RoomTypeID: 999})
	assert.ErrorIs(t, err, ErrRoomTypeNotFound)

	rooms, err := f.svc.SearchRooms(ctx, RoomQuery{Guests: 3})
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, "201", rooms[0].RoomNumber)

	rooms, err = f.svc.SearchRooms(ctx, RoomQuery{AmenityIDs: fmt.Sprint(wifi.ID)})
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, "101", rooms[0].RoomNumber)

	_, err = f.svc.SearchRooms(ctx, RoomQuery{MinPrice: 300, MaxPrice: 100})
	assert.ErrorIs(t, err, ErrInvalidPrice)
	_, err = f.svc.SearchRooms(ctx, RoomQuery{CheckIn: "2024-06-01"})
	assert.Error(t, err)

	images, amenities := []string{"/uploads/b.jpg", "/uploads/c.jpg"}, []int64{}
	number := "101A"
	updated, err := f.svc.UpdateRoom(ctx, r101.ID, UpdateRoomRequest{
		RoomNumber: &number, RoomTypeID: &suite.ID, ImageURLs: &images, AmenityIDs: &amenities,
	})
	require.NoError(t, err)
	assert.Equal(t, "101A", updated.RoomNumber)
	assert.Equal(t, suite.ID, updated.RoomType.ID)
	assert.Len(t, updated.Images, 2)
	assert.Empty(t, updated.Amenities)

	taken := "201"
	_, err = f.svc.UpdateRoom(ctx, r101.ID, UpdateRoomRequest{RoomNumber: &taken})
	assert.ErrorIs(t, err, ErrRoomNumberExists)
}

func TestSearchRooms_ExcludesBookedAndBlocked(t *testing.T) {
	f := newCatalog(t)
	ctx := context.Background()
	rt := f.roomType(t, "Deluxe", 100, 2)
	booked := f.room(t, "101", rt)
	blocked := f.room(t, "102", rt)
	f.room(t, "103", rt)

	guest := testutil.SeedUser(t, f.db, "guest@example.com", domain.RoleGuest)
	testutil.SeedBooking(t, f.db, guest, booked, "2024-06-01", "2024-06-04", domain.BookingConfirmed)
	_, err := f.svc.AddBlock(ctx, blocked.ID, BlockRequest{StartDate: "2024-06-02", EndDate: "2024-06-03", Reason: "painting"})
	require.NoError(t, err)

	rooms, err := f.svc.SearchRooms(ctx, RoomQuery{CheckIn: "2024-06-02", CheckOut: "2024-06-05"})
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, "103", rooms[0].RoomNumber)

	rooms, err = f.svc.SearchRooms(ctx, RoomQuery{CheckIn: "2024-06-04", CheckOut: "2024-06-05"})
	require.NoError(t, err)
	assert.Len(t, rooms, 3)

	_, err = f.svc.AddBlock(ctx, booked.ID, BlockRequest{StartDate: "2024-06-03", EndDate: "2024-06-06"})
	assert.ErrorIs(t, err, ErrBlockOverlaps)
	_, err = f.svc.AddBlock(ctx, booked.ID, BlockRequest{StartDate: "2024-06-06", EndDate: "2024-06-06"})
	assert.ErrorIs(t, err, ErrInvalidRange)

	blocks, err := f.svc.ListBlocks(ctx, blocked.ID)
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	require.NoError(t, f.svc.DeleteBlock(ctx, blocked.ID, blocks[0].ID))
	assert.ErrorIs(t, f.svc.DeleteBlock(ctx, blocked.ID, blocks[0].ID), ErrBlockNotFound)
}

func TestDeleteRoom_GuardedByActiveBookings(t *testing.T) {
	f := newCatalog(t)
	ctx := context.Background()
	rt := f.roomType(t, "Deluxe", 100, 2)
	room := f.room(t, "101", rt)
	guest := testutil.SeedUser(t, f.db, "guest@example.com", domain.RoleGuest)
	b := testutil.SeedBooking(t, f.db, guest, room, "2024-06-01", "2024-06-04", domain.BookingPending)

	assert.ErrorIs(t, f.svc.DeleteRoom(ctx, room.ID), ErrRoomInUse)
	assert.ErrorIs(t, f.svc.DeleteRoomType(ctx, rt.ID), ErrRoomTypeInUse)

	require.NoError(t, f.db.Model(b).Update("status", domain.BookingCancelled).Error)
	require.NoError(t, f.svc.DeleteRoom(ctx, room.ID))

	_, err := f.svc.GetRoom(ctx, room.ID)
	assert.ErrorIs(t, err, ErrRoomNotFound)
	_, err = f.svc.GetRoomAdmin(ctx, room.ID)
	assert.ErrorIs(t, err, ErrRoomNotFound)

	var images int64
	require.NoError(t, f.db.Model(&domain.RoomImage{}).Where("room_id = ?", room.ID).Count(&images).Error)
	assert.Zero(t, images)

	require.NoError(t, f.svc.DeleteRoomType(ctx, rt.ID))
	types, err := f.svc.ListRoomTypes(ctx)
	require.NoError(t, err)
	assert.Empty(t, types)
}

func TestCapacityChanges_GuardedByActiveBookings(t *testing.T) {
	f := newCatalog(t)
	ctx := context.Background()
	deluxe := f.roomType(t, "Deluxe", 100, 2)
	single := f.roomType(t, "Single", 60, 1)
	room := f.room(t, "101", deluxe)
	guest := testutil.SeedUser(t, f.db, "guest@example.com", domain.RoleGuest)
	b := testutil.SeedBooking(t, f.db, guest, room, "2024-06-01", "2024-06-04", domain.BookingConfirmed)
	require.NoError(t, f.db.Model(b).Update("guests", 2).Error)

	_, err := f.svc.UpdateRoom(ctx, room.ID, UpdateRoomRequest{RoomTypeID: &single.ID})
	assert.ErrorIs(t, err, ErrCapacityInUse)
	got, err := f.svc.GetRoomAdmin(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, deluxe.ID, got.RoomTypeID)

	_, err = f.svc.UpdateRoomType(ctx, deluxe.ID, RoomTypeRequest{Name: "Deluxe", BasePrice: 100, MaxGuests: 1})
	assert.ErrorIs(t, err, ErrCapacityInUse)
	types, err := f.svc.ListRoomTypes(ctx)
	require.NoError(t, err)
	require.Len(t, types, 2)
	assert.Equal(t, 2, types[1].MaxGuests)

	require.NoError(t, f.db.Model(b).Update("status", domain.BookingCompleted).Error)
	updated, err := f.svc.UpdateRoom(ctx, room.ID, UpdateRoomRequest{RoomTypeID: &single.ID})
	require.NoError(t, err)
	assert.Equal(t, single.ID, updated.RoomType.ID)
	_, err = f.svc.UpdateRoomType(ctx, deluxe.ID, RoomTypeRequest{Name: "Deluxe", BasePrice: 100, MaxGuests: 1})
	assert.NoError(t, err)
}

func TestGetRoom_HidesInactive(t *testing.T) {
	f := newCatalog(t)
	ctx := context.Background()
	room := f.room(t, "101", f.roomType(t, "Deluxe", 100, 2))

	_, err := f.svc.GetRoom(ctx, room.ID)
	require.NoError(t, err)

	off, err := f.svc.SetRoomActive(ctx, room.ID, false)
	require.NoError(t, err)
	assert.False(t, off.IsActive)

	_, err = f.svc.GetRoom(ctx, room.ID)
	assert.ErrorIs(t, err, ErrRoomNotFound)

	all, err := f.svc.ListRoomsAdmin(ctx, RoomQuery{})
	require.NoError(t, err)
	assert.Len(t, all, 1)
	public, err := f.svc.SearchRooms(ctx, RoomQuery{})
	require.NoError(t, err)
	assert.Empty(t, public)
}

func TestUploadAndDeleteImage(t *testing.T) {
	f := newCatalog(t)
	ctx := context.Background()
	room := f.room(t, "101", f.roomType(t, "Deluxe", 100, 2))

	img, err := f.svc.UploadImage(ctx, room.ID, bytes.NewReader(pngBytes(t, 800, 600)))
	require.NoError(t, err)
	assert.Equal(t, 1, img.SortOrder, "appended after the existing image")
	assert.NotEmpty(t, img.ThumbnailURL)

	_, err = f.svc.UploadImage(ctx, 999, bytes.NewReader(pngBytes(t, 10, 10)))
	assert.ErrorIs(t, err, ErrRoomNotFound)

	require.NoError(t, f.svc.DeleteImage(ctx, room.ID, img.ID))
	assert.ErrorIs(t, f.svc.DeleteImage(ctx, room.ID, img.ID), ErrImageNotFound)
}

func TestAmenities(t *testing.T) {
	f := newCatalog(t)
	ctx := context.Background()

	wifi, err := f.svc.CreateAmenity(ctx, AmenityRequest{Name: "Wi-Fi", Icon: "wifi"})
	require.NoError(t, err)
	assert.True(t, wifi.IsActive)

	off := false
	_, err = f.svc.CreateAmenity(ctx, AmenityRequest{Name: "Sauna", IsActive: &off})
	require.NoError(t, err)
	_, err = f.svc.CreateAmenity(ctx, AmenityRequest{Name: "Wi-Fi"})
	assert.ErrorIs(t, err, ErrAmenityExists)

	public, err := f.svc.ListAmenities(ctx, true)
	require.NoError(t, err)
	assert.Len(t, public, 1)
	all, err := f.svc.ListAmenities(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	room := f.room(t, "101", f.roomType(t, "Deluxe", 100, 2), wifi.ID)
	require.NoError(t, f.svc.DeleteAmenity(ctx, wifi.ID))
	assert.ErrorIs(t, f.svc.DeleteAmenity(ctx, wifi.ID), ErrAmenityNotFound)

	got, err := f.svc.GetRoomAdmin(ctx, room.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Amenities)
}
