package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"tranquility/internal/cache"
	"tranquility/internal/domain"
	"tranquility/internal/pkg/apperror"
	"tranquility/internal/pkg/request"
	"tranquility/internal/repository"
)

const keyPrefix = "catalog:"

type Service struct {
	types     RoomTypeRepository
	rooms     RoomRepository
	amenities AmenityRepository
	avail     AvailabilityChecker
	images    ImageStore
	cache     cache.Cache
	ttl       time.Duration
}

func NewService(
	types RoomTypeRepository,
	rooms RoomRepository,
	amenities AmenityRepository,
	avail AvailabilityChecker,
	images ImageStore,
	c cache.Cache,
	ttl time.Duration,
) *Service {
	if c == nil {
		c = cache.Noop{}
	}
	return &Service{
		types:     types,
		rooms:     rooms,
		amenities: amenities,
		avail:     avail,
		images:    images,
		cache:     c,
		ttl:       ttl,
	}
}

// cached serves key from the cache, falling back to load. Cache failures
// only cost a database round trip.
func cached[T any](ctx context.Context, s *Service, key string, load func() (T, error)) (T, error) {
	var v T
	ok, err := s.cache.Get(ctx, key, &v)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache get")
	} else if ok {
		return v, nil
	}

	v, err = load()
	if err != nil {
		return v, err
	}
	if err := s.cache.Set(ctx, key, v, s.ttl); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache set")
	}
	return v, nil
}

func (s *Service) invalidate(ctx context.Context) {
	if err := s.cache.DeletePrefix(ctx, keyPrefix); err != nil {
		log.Warn().Err(err).Msg("cache invalidate")
	}
}

// translate maps repository sentinels onto this module's errors.
func translate(err error, notFound, duplicate *apperror.Error) error {
	switch {
	case err == nil:
		return nil
	case notFound != nil && errors.Is(err, repository.ErrNotFound):
		return notFound
	case duplicate != nil && errors.Is(err, repository.ErrDuplicate):
		return duplicate
	}
	return err
}

/* ---------- ROOM TYPES ---------- */

func (s *Service) ListRoomTypes(ctx context.Context) ([]domain.RoomType, error) {
	return cached(ctx, s, keyPrefix+"room-types", func() ([]domain.RoomType, error) {
		out, err := s.types.List(ctx)
		if out == nil {
			out = []domain.RoomType{}
		}
		return out, err
	})
}

func applyRoomType(rt *domain.RoomType, req RoomTypeRequest) {
	rt.Name = strings.TrimSpace(req.Name)
	rt.Description = req.Description
	rt.BasePrice = req.BasePrice
	rt.MaxGuests = req.MaxGuests
	rt.ImageURL = req.ImageURL
	rt.Highlights = req.Highlights
}

func (s *Service) CreateRoomType(ctx context.Context, req RoomTypeRequest) (*domain.RoomType, error) {
	rt := &domain.RoomType{}
	applyRoomType(rt, req)
	if err := s.types.Create(ctx, rt); err != nil {
		return nil, translate(err, nil, ErrRoomTypeExists)
	}
	s.invalidate(ctx)
	return rt, nil
}

func (s *Service) UpdateRoomType(ctx context.Context, id int64, req RoomTypeRequest) (*domain.RoomType, error) {
	rt, err := s.types.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, ErrRoomTypeNotFound, nil)
	}
	applyRoomType(rt, req)
	if err := s.types.Update(ctx, rt); err != nil {
		if errors.Is(err, repository.ErrOverCapacity) {
			return nil, ErrCapacityInUse
		}
		return nil, translate(err, ErrRoomTypeNotFound, ErrRoomTypeExists)
	}
	s.invalidate(ctx)
	return rt, nil
}

// DeleteRoomType soft deletes the type and deactivates its rooms. Any
// PENDING or CONFIRMED booking on one of those rooms blocks the delete.
func (s *Service) DeleteRoomType(ctx context.Context, id int64) error {
	err := s.types.SoftDelete(ctx, id)
	if errors.Is(err, repository.ErrInUse) {
		return ErrRoomTypeInUse
	}
	if err != nil {
		return translate(err, ErrRoomTypeNotFound, nil)
	}
	log.Info().Int64("room_type_id", id).Msg("room type deleted")
	s.invalidate(ctx)
	return nil
}

/* ---------- ROOMS ---------- */

func (s *Service) roomFilter(q RoomQuery) (repository.RoomFilter, error) {
	f := repository.RoomFilter{
		Guests:     q.Guests,
		RoomTypeID: q.TypeID,
		MinPrice:   q.MinPrice,
		MaxPrice:   q.MaxPrice,
	}
	if q.MaxPrice > 0 && q.MinPrice > q.MaxPrice {
		return f, ErrInvalidPrice
	}

	ids, err := request.IDList(q.AmenityIDs)
	if err != nil {
		return f, err
	}
	f.AmenityIDs = ids

	hasIn, hasOut := strings.TrimSpace(q.CheckIn) != "", strings.TrimSpace(q.CheckOut) != ""
	if hasIn != hasOut {
		return f, apperror.Validation("check_in and check_out must be given together")
	}
	if hasIn {
		in, err := domain.ParseDate(q.CheckIn)
		if err != nil {
			return f, apperror.Validation("Invalid check-in date")
		}
		out, err := domain.ParseDate(q.CheckOut)
		if err != nil {
			return f, apperror.Validation("Invalid check-out date")
		}
		if !in.Before(out) {
			return f, apperror.Validation("Check-out must be after check-in")
		}
		f.CheckIn, f.CheckOut = &in, &out
	}
	return f, nil
}

func filterKey(f repository.RoomFilter) string {
	return fmt.Sprintf("%srooms:g%d:t%d:a%v:p%g-%g", keyPrefix, f.Guests, f.RoomTypeID, f.AmenityIDs, f.MinPrice, f.MaxPrice)
}

// SearchRooms lists bookable rooms. With dates it drops rooms holding an
// active booking or a maintenance block that overlaps the stay. Dated
// searches depend on bookings and are never cached.
func (s *Service) SearchRooms(ctx context.Context, q RoomQuery) ([]domain.Room, error) {
	f, err := s.roomFilter(q)
	if err != nil {
		return nil, err
	}
	load := func() ([]domain.Room, error) {
		out, err := s.rooms.Search(ctx, f)
		if out == nil {
			out = []domain.Room{}
		}
		return out, err
	}
	if f.CheckIn != nil {
		return load()
	}
	return cached(ctx, s, filterKey(f), load)
}

// ListRoomsAdmin includes deactivated rooms.
func (s *Service) ListRoomsAdmin(ctx context.Context, q RoomQuery) ([]domain.Room, error) {
	f, err := s.roomFilter(q)
	if err != nil {
		return nil, err
	}
	f.IncludeInactive = true
	out, err := s.rooms.Search(ctx, f)
	if out == nil {
		out = []domain.Room{}
	}
	return out, err
}

// GetRoom returns a room visible to the public catalogue.
func (s *Service) GetRoom(ctx context.Context, id int64) (*domain.Room, error) {
	return cached(ctx, s, fmt.Sprintf("%sroom:%d", keyPrefix, id), func() (*domain.Room, error) {
		room, err := s.rooms.GetByID(ctx, id)
		if err != nil {
			return nil, translate(err, ErrRoomNotFound, nil)
		}
		if !room.Bookable() {
			return nil, ErrRoomNotFound
		}
		return room, nil
	})
}

// GetRoomAdmin returns any room that is not deleted.
func (s *Service) GetRoomAdmin(ctx context.Context, id int64) (*domain.Room, error) {
	room, err := s.rooms.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, ErrRoomNotFound, nil)
	}
	if room.IsDeleted {
		return nil, ErrRoomNotFound
	}
	return room, nil
}

func (s *Service) checkRoomType(ctx context.Context, id int64) (*domain.RoomType, error) {
	rt, err := s.types.GetByID(ctx, id)
	return rt, translate(err, ErrRoomTypeNotFound, nil)
}

func (s *Service) checkAmenities(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	unique := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		unique[id] = struct{}{}
	}
	n, err := s.amenities.CountExisting(ctx, ids)
	if err != nil {
		return err
	}
	if n != int64(len(unique)) {
		return ErrUnknownAmenity
	}
	return nil
}

func (s *Service) CreateRoom(ctx context.Context, req CreateRoomRequest) (*domain.Room, error) {
	if _, err := s.checkRoomType(ctx, req.RoomTypeID); err != nil {
		return nil, err
	}
	if err := s.checkAmenities(ctx, req.AmenityIDs); err != nil {
		return nil, err
	}

	room := &domain.Room{
		RoomNumber:  strings.TrimSpace(req.RoomNumber),
		Floor:       req.Floor,
		RoomTypeID:  req.RoomTypeID,
		Description: req.Description,
		IsActive:    req.IsActive == nil || *req.IsActive,
	}
	if err := s.rooms.Create(ctx, room, req.ImageURLs, req.AmenityIDs); err != nil {
		return nil, translate(err, nil, ErrRoomNumberExists)
	}
	s.invalidate(ctx)
	log.Info().Int64("room_id", room.ID).Str("room_number", room.RoomNumber).Msg("room created")
	return s.GetRoomAdmin(ctx, room.ID)
}

// UpdateRoom saves the scalar fields and any replaced collections in one
// transaction.
func (s *Service) UpdateRoom(ctx context.Context, id int64, req UpdateRoomRequest) (*domain.Room, error) {
	room, err := s.GetRoomAdmin(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.RoomNumber != nil {
		room.RoomNumber = strings.TrimSpace(*req.RoomNumber)
	}
	if req.Floor != nil {
		room.Floor = *req.Floor
	}
	var upd repository.RoomUpdate
	if req.RoomTypeID != nil && *req.RoomTypeID != room.RoomTypeID {
		rt, err := s.checkRoomType(ctx, *req.RoomTypeID)
		if err != nil {
			return nil, err
		}
		room.RoomTypeID = rt.ID
		upd.MaxGuests = rt.MaxGuests
	}
	if req.Description != nil {
		room.Description = *req.Description
	}
	if req.IsActive != nil {
		room.IsActive = *req.IsActive
	}

	if req.ImageURLs != nil {
		upd.ReplaceImages, upd.ImageURLs = true, *req.ImageURLs
	}
	if req.AmenityIDs != nil {
		if err := s.checkAmenities(ctx, *req.AmenityIDs); err != nil {
			return nil, err
		}
		upd.ReplaceAmenities, upd.AmenityIDs = true, *req.AmenityIDs
	}

	room.RoomType, room.Images, room.Amenities = nil, nil, nil
	if err := s.rooms.Update(ctx, room, upd); err != nil {
		if errors.Is(err, repository.ErrOverCapacity) {
			return nil, ErrCapacityInUse
		}
		return nil, translate(err, ErrRoomNotFound, ErrRoomNumberExists)
	}
	s.invalidate(ctx)
	return s.GetRoomAdmin(ctx, id)
}

func (s *Service) SetRoomActive(ctx context.Context, id int64, active bool) (*domain.Room, error) {
	if err := s.rooms.SetActive(ctx, id, active); err != nil {
		return nil, translate(err, ErrRoomNotFound, nil)
	}
	s.invalidate(ctx)
	return s.GetRoomAdmin(ctx, id)
}

// DeleteRoom refuses while the room holds an active booking. Otherwise the
// room is soft deleted and its images, amenity links and blocks removed.
func (s *Service) DeleteRoom(ctx context.Context, id int64) error {
	room, err := s.GetRoomAdmin(ctx, id)
	if err != nil {
		return err
	}
	err = s.rooms.SoftDeleteCascade(ctx, id)
	if errors.Is(err, repository.ErrInUse) {
		return ErrRoomInUse
	}
	if err != nil {
		return translate(err, ErrRoomNotFound, nil)
	}

	if s.images != nil {
		for _, img := range room.Images {
			s.images.Remove(img.URL, img.ThumbnailURL)
		}
	}
	log.Info().Int64("room_id", id).Msg("room deleted")
	s.invalidate(ctx)
	return nil
}

func (s *Service) UploadImage(ctx context.Context, roomID int64, r io.Reader) (*domain.RoomImage, error) {
	if _, err := s.GetRoomAdmin(ctx, roomID); err != nil {
		return nil, err
	}
	url, thumb, err := s.images.Save(ctx, roomID, r)
	if err != nil {
		return nil, err
	}
	img := &domain.RoomImage{RoomID: roomID, URL: url, ThumbnailURL: thumb}
	if err := s.rooms.AddImage(ctx, img); err != nil {
		s.images.Remove(url, thumb)
		return nil, err
	}
	s.invalidate(ctx)
	return img, nil
}

func (s *Service) DeleteImage(ctx context.Context, roomID, imageID int64) error {
	img, err := s.rooms.DeleteImage(ctx, roomID, imageID)
	if err != nil {
		return translate(err, ErrImageNotFound, nil)
	}
	if s.images != nil {
		s.images.Remove(img.URL, img.ThumbnailURL)
	}
	s.invalidate(ctx)
	return nil
}

/* ---------- MAINTENANCE BLOCKS ---------- */

func (s *Service) AddBlock(ctx context.Context, roomID int64, req BlockRequest) (*domain.RoomAvailability, error) {
	start, err := domain.ParseDate(req.StartDate)
	if err != nil {
		return nil, apperror.Validation("Invalid start date")
	}
	end, err := domain.ParseDate(req.EndDate)
	if err != nil {
		return nil, apperror.Validation("Invalid end date")
	}
	if !start.Before(end) {
		return nil, ErrInvalidRange
	}
	if _, err := s.GetRoomAdmin(ctx, roomID); err != nil {
		return nil, err
	}

	free, err := s.avail.IsAvailable(ctx, roomID, start, end, 0)
	if err != nil {
		return nil, err
	}
	if !free {
		return nil, ErrBlockOverlaps
	}

	b := &domain.RoomAvailability{RoomID: roomID, StartDate: start, EndDate: end, Reason: strings.TrimSpace(req.Reason)}
	if err := s.rooms.AddBlockChecked(ctx, b); err != nil {
		if errors.Is(err, repository.ErrOverlap) {
			return nil, ErrBlockOverlaps
		}
		return nil, translate(err, ErrRoomNotFound, nil)
	}
	s.invalidate(ctx)
	return b, nil
}

func (s *Service) ListBlocks(ctx context.Context, roomID int64) ([]domain.RoomAvailability, error) {
	if _, err := s.GetRoomAdmin(ctx, roomID); err != nil {
		return nil, err
	}
	out, err := s.rooms.ListBlocks(ctx, roomID)
	if out == nil {
		out = []domain.RoomAvailability{}
	}
	return out, err
}

func (s *Service) DeleteBlock(ctx context.Context, roomID, blockID int64) error {
	if err := s.rooms.DeleteBlock(ctx, roomID, blockID); err != nil {
		return translate(err, ErrBlockNotFound, nil)
	}
	s.invalidate(ctx)
	return nil
}

/* ---------- AMENITIES ---------- */

func (s *Service) ListAmenities(ctx context.Context, activeOnly bool) ([]domain.Amenity, error) {
	load := func() ([]domain.Amenity, error) {
		out, err := s.amenities.List(ctx, activeOnly)
		if out == nil {
			out = []domain.Amenity{}
		}
		return out, err
	}
	if !activeOnly {
		return load()
	}
	return cached(ctx, s, keyPrefix+"amenities", load)
}

func (s *Service) CreateAmenity(ctx context.Context, req AmenityRequest) (*domain.Amenity, error) {
	a := &domain.Amenity{
		Name:        strings.TrimSpace(req.Name),
		Icon:        req.Icon,
		Description: req.Description,
		IsActive:    req.IsActive == nil || *req.IsActive,
	}
	if err := s.amenities.Create(ctx, a); err != nil {
		return nil, translate(err, nil, ErrAmenityExists)
	}
	s.invalidate(ctx)
	return a, nil
}

func (s *Service) UpdateAmenity(ctx context.Context, id int64, req AmenityRequest) (*domain.Amenity, error) {
	a, err := s.amenities.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, ErrAmenityNotFound, nil)
	}
	a.Name = strings.TrimSpace(req.Name)
	a.Icon = req.Icon
	a.Description = req.Description
	if req.IsActive != nil {
		a.IsActive = *req.IsActive
	}
	if err := s.amenities.Update(ctx, a); err != nil {
		return nil, translate(err, ErrAmenityNotFound, ErrAmenityExists)
	}
	s.invalidate(ctx)
	return a, nil
}

// DeleteAmenity soft deletes the amenity and unlinks it from all rooms.
func (s *Service) DeleteAmenity(ctx context.Context, id int64) error {
	if err := s.amenities.SoftDelete(ctx, id); err != nil {
		return translate(err, ErrAmenityNotFound, nil)
	}
	s.invalidate(ctx)
	return nil
}
