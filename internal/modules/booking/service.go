package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"tranquility/internal/domain"
	"tranquility/internal/observability"
	"tranquility/internal/pkg/apperror"
	"tranquility/internal/repository"
)

const expireBatch = 100

type Service struct {
	bookings BookingRepository
	rooms    RoomRepository
	users    UserRepository
	notifier Notifier
	now      func() time.Time
}

func NewService(bookings BookingRepository, rooms RoomRepository, users UserRepository, notifier Notifier) *Service {
	return &Service{
		bookings: bookings,
		rooms:    rooms,
		users:    users,
		notifier: notifier,
		now:      time.Now,
	}
}

func (s *Service) today() time.Time {
	return domain.DateOnly(s.now())
}

func newReference() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:10])
}

func (s *Service) publish(typ string, b *domain.Booking, prev domain.BookingStatus) {
	if s.notifier == nil {
		return
	}
	s.notifier.Publish(domain.BookingEvent{
		Type:       typ,
		BookingID:  b.ID,
		Reference:  b.Reference,
		RoomID:     b.RoomID,
		UserID:     b.UserID,
		Status:     b.Status,
		PrevStatus: prev,
		CheckIn:    b.CheckIn.Format(domain.DateLayout),
		CheckOut:   b.CheckOut.Format(domain.DateLayout),
		Total:      b.TotalAmount,
		At:         s.now().UTC(),
	})
}

func parseStay(checkIn, checkOut string) (time.Time, time.Time, error) {
	in, err := domain.ParseDate(checkIn)
	if err != nil {
		return time.Time{}, time.Time{}, apperror.Validation("Invalid check-in date")
	}
	out, err := domain.ParseDate(checkOut)
	if err != nil {
		return time.Time{}, time.Time{}, apperror.Validation("Invalid check-out date")
	}
	if !in.Before(out) || domain.Nights(in, out) < 1 {
		return time.Time{}, time.Time{}, ErrInvalidDates
	}
	return in, out, nil
}

// bookableRoom loads a room that can take new bookings.
func (s *Service) bookableRoom(ctx context.Context, roomID int64) (*domain.Room, error) {
	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	if !room.Bookable() || room.RoomType == nil {
		return nil, ErrRoomNotFound
	}
	return room, nil
}

func checkCapacity(room *domain.Room, guests int) error {
	if guests < 1 {
		return ErrInvalidGuests
	}
	if guests > room.RoomType.MaxGuests {
		return ErrTooManyGuests.WithDetail(map[string]string{
			"guests": fmt.Sprintf("max %d", room.RoomType.MaxGuests),
		})
	}
	return nil
}

// resolveGuest picks whom the booking is for. Guests always book for
// themselves; staff may book on behalf of any live account.
func (s *Service) resolveGuest(ctx context.Context, actor domain.Actor, guestID int64) (int64, error) {
	if guestID == 0 || guestID == actor.UserID {
		return actor.UserID, nil
	}
	if !actor.IsStaff() {
		return 0, apperror.Forbidden("Guests can only book for themselves")
	}
	u, err := s.users.GetByID(ctx, guestID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, ErrGuestNotFound
		}
		return 0, err
	}
	if u.IsDeleted {
		return 0, ErrGuestNotFound
	}
	return u.ID, nil
}

func (s *Service) CreateBooking(ctx context.Context, actor domain.Actor, req CreateBookingRequest) (*domain.Booking, error) {
	b, err := s.createBooking(ctx, actor, req)
	switch {
	case err == nil:
		observability.ObserveBooking("created")
	case apperror.KindOf(err) == apperror.KindConflict:
		observability.ObserveBooking("conflict")
	case apperror.KindOf(err) == apperror.KindInternal:
		observability.ObserveBooking("error")
	default:
		observability.ObserveBooking("rejected")
	}
	return b, err
}

func (s *Service) createBooking(ctx context.Context, actor domain.Actor, req CreateBookingRequest) (*domain.Booking, error) {
	if req.Guests < 1 {
		return nil, ErrInvalidGuests
	}
	checkIn, checkOut, err := parseStay(req.CheckIn, req.CheckOut)
	if err != nil {
		return nil, err
	}
	if !actor.IsStaff() && checkIn.Before(s.today()) {
		return nil, ErrPastCheckIn
	}

	userID, err := s.resolveGuest(ctx, actor, req.GuestID)
	if err != nil {
		return nil, err
	}

	room, err := s.bookableRoom(ctx, req.RoomID)
	if err != nil {
		return nil, err
	}
	if err := checkCapacity(room, req.Guests); err != nil {
		return nil, err
	}

	ok, err := s.bookings.IsAvailable(ctx, room.ID, checkIn, checkOut, 0)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotAvailable
	}

	nights := domain.Nights(checkIn, checkOut)
	b := &domain.Booking{
		Reference:       newReference(),
		UserID:          userID,
		RoomID:          room.ID,
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		Guests:          req.Guests,
		Nights:          nights,
		TotalAmount:     domain.TotalFor(room.RoomType.BasePrice, nights),
		Status:          domain.BookingPending,
		SpecialRequests: strings.TrimSpace(req.SpecialRequests),
	}

	if err := s.bookings.CreateChecked(ctx, b); err != nil {
		switch {
		case errors.Is(err, repository.ErrOverlap):
			return nil, ErrNotAvailable
		case errors.Is(err, repository.ErrOverCapacity):
			return nil, ErrTooManyGuests
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	b.Room = room

	log.Info().
		Int64("booking_id", b.ID).
		Str("reference", b.Reference).
		Int64("room_id", b.RoomID).
		Int64("user_id", b.UserID).
		Int64("actor_id", actor.UserID).
		Msg("booking created")
	s.publish(domain.EventBookingCreated, b, "")
	return b, nil
}

// CheckAvailability quotes a stay without reserving it.
func (s *Service) CheckAvailability(ctx context.Context, roomID int64, q AvailabilityQuery) (*Quote, error) {
	checkIn, checkOut, err := parseStay(q.CheckIn, q.CheckOut)
	if err != nil {
		return nil, err
	}
	room, err := s.bookableRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	nights := domain.Nights(checkIn, checkOut)
	quote := &Quote{
		RoomID:        room.ID,
		Available:     true,
		CheckIn:       checkIn.Format(domain.DateLayout),
		CheckOut:      checkOut.Format(domain.DateLayout),
		Nights:        nights,
		PricePerNight: room.RoomType.BasePrice,
		TotalAmount:   domain.TotalFor(room.RoomType.BasePrice, nights),
	}

	if q.Guests > room.RoomType.MaxGuests {
		quote.Available = false
		quote.Reason = fmt.Sprintf("Room accommodates at most %d guests", room.RoomType.MaxGuests)
		return quote, nil
	}

	ok, err := s.bookings.IsAvailable(ctx, room.ID, checkIn, checkOut, 0)
	if err != nil {
		return nil, err
	}
	if !ok {
		quote.Available = false
		quote.Reason = ErrNotAvailable.Message
	}
	return quote, nil
}

func (s *Service) load(ctx context.Context, id int64) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return b, nil
}

// GetBooking returns the booking to its guest or to staff.
func (s *Service) GetBooking(ctx context.Context, actor domain.Actor, id int64) (*domain.Booking, error) {
	b, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.UserID != actor.UserID && !actor.IsStaff() {
		return nil, ErrForbidden
	}
	return b, nil
}

// UpdateStatus drives the status state machine on behalf of staff.
func (s *Service) UpdateStatus(ctx context.Context, actor domain.Actor, id int64, req UpdateStatusRequest) (*domain.Booking, error) {
	if !actor.IsStaff() {
		return nil, apperror.Forbidden("Only staff can change booking status")
	}
	next, err := domain.ParseBookingStatus(req.Status)
	if err != nil {
		return nil, ErrInvalidStatus
	}

	b, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkTransition(b.Status, next); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	fields := map[string]any{"status": next}
	switch next {
	case domain.BookingConfirmed:
		if req.CheckInTime != nil {
			fields["check_in_time"] = req.CheckInTime.UTC()
		}
	case domain.BookingCompleted:
		out := now
		if req.CheckOutTime != nil {
			out = req.CheckOutTime.UTC()
		}
		fields["check_out_time"] = out
	case domain.BookingCancelled:
		fields["cancellation_reason"] = strings.TrimSpace(req.Reason)
		fields["cancelled_at"] = now
	}

	return s.transition(ctx, actor, b, next, fields)
}

func checkTransition(from, to domain.BookingStatus) error {
	switch {
	case from == to:
		return ErrSameStatus
	case from.IsTerminal():
		return ErrTerminal
	case !from.CanTransitionTo(to):
		return ErrBadTransition.WithDetail(map[string]string{"status": fmt.Sprintf("%s -> %s", from, to)})
	}
	return nil
}

func (s *Service) transition(ctx context.Context, actor domain.Actor, b *domain.Booking, next domain.BookingStatus, fields map[string]any) (*domain.Booking, error) {
	prev := b.Status
	if err := s.bookings.TransitionStatus(ctx, b.ID, prev, fields); err != nil {
		if errors.Is(err, repository.ErrStaleStatus) {
			return nil, ErrConcurrentChange
		}
		return nil, err
	}
	observability.ObserveTransition(string(prev), string(next))

	updated, err := s.load(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	log.Info().
		Int64("booking_id", b.ID).
		Str("from", string(prev)).
		Str("to", string(next)).
		Int64("actor_id", actor.UserID).
		Msg("booking status changed")
	s.publish(domain.EventBookingStatusChanged, updated, prev)
	return updated, nil
}

// CancelBooking lets a guest cancel their own pending or confirmed booking.
// Staff may cancel any booking through the same path.
func (s *Service) CancelBooking(ctx context.Context, actor domain.Actor, id int64, reason string) (*domain.Booking, error) {
	b, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.UserID != actor.UserID && !actor.IsStaff() {
		return nil, ErrForbidden
	}
	if !b.Status.IsActive() {
		return nil, ErrTerminal
	}

	reason = strings.TrimSpace(reason)
	if reason == "" && b.UserID == actor.UserID {
		reason = "Cancelled by guest"
	}
	fields := map[string]any{
		"status":              domain.BookingCancelled,
		"cancellation_reason": reason,
		"cancelled_at":        s.now().UTC(),
	}
	return s.transition(ctx, actor, b, domain.BookingCancelled, fields)
}

// UpdateBooking lets staff move an active booking to other dates, another
// room or another party size. The total is recomputed.
func (s *Service) UpdateBooking(ctx context.Context, actor domain.Actor, id int64, req UpdateBookingRequest) (*domain.Booking, error) {
	if !actor.IsStaff() {
		return nil, apperror.Forbidden("Only staff can edit bookings")
	}
	b, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.Status.IsTerminal() {
		return nil, ErrTerminal
	}

	in, out := b.CheckIn.Format(domain.DateLayout), b.CheckOut.Format(domain.DateLayout)
	if req.CheckIn != nil {
		in = *req.CheckIn
	}
	if req.CheckOut != nil {
		out = *req.CheckOut
	}
	checkIn, checkOut, err := parseStay(in, out)
	if err != nil {
		return nil, err
	}

	roomID := b.RoomID
	if req.RoomID != nil {
		roomID = *req.RoomID
	}
	room, err := s.bookableRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	guests := b.Guests
	if req.Guests != nil {
		guests = *req.Guests
	}
	if err := checkCapacity(room, guests); err != nil {
		return nil, err
	}

	nights := domain.Nights(checkIn, checkOut)
	b.RoomID = room.ID
	b.CheckIn, b.CheckOut = checkIn, checkOut
	b.Guests = guests
	b.Nights = nights
	b.TotalAmount = domain.TotalFor(room.RoomType.BasePrice, nights)
	if req.SpecialRequests != nil {
		b.SpecialRequests = strings.TrimSpace(*req.SpecialRequests)
	}

	if err := s.bookings.UpdateChecked(ctx, b, b.Status); err != nil {
		switch {
		case errors.Is(err, repository.ErrOverlap):
			return nil, ErrNotAvailable
		case errors.Is(err, repository.ErrOverCapacity):
			return nil, ErrTooManyGuests
		case errors.Is(err, repository.ErrStaleStatus):
			return nil, ErrConcurrentChange
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrRoomNotFound
		}
		return nil, err
	}

	updated, err := s.load(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	s.publish(domain.EventBookingUpdated, updated, "")
	return updated, nil
}

func parseOptionalDate(raw, field string) (*time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	d, err := domain.ParseDate(raw)
	if err != nil {
		return nil, apperror.Validation("Invalid " + field + " date")
	}
	return &d, nil
}

// ListBookings is the staff booking table.
func (s *Service) ListBookings(ctx context.Context, q ListQuery) (*Paged[domain.Booking], error) {
	f := repository.BookingFilter{
		RoomID: q.RoomID,
		UserID: q.UserID,
		Search: q.Search,
		Page:   repository.Page{Page: q.Page, Limit: q.Limit},
	}
	if q.Status != "" {
		st, err := domain.ParseBookingStatus(q.Status)
		if err != nil {
			return nil, ErrInvalidStatus
		}
		f.Status = st
	}
	var err error
	if f.From, err = parseOptionalDate(q.From, "from"); err != nil {
		return nil, err
	}
	if f.To, err = parseOptionalDate(q.To, "to"); err != nil {
		return nil, err
	}

	items, total, err := s.bookings.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return paged(items, total, f.Page), nil
}

func paged(items []domain.Booking, total int64, p repository.Page) *Paged[domain.Booking] {
	if items == nil {
		items = []domain.Booking{}
	}
	page, limit := p.Page, p.Limit
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	return &Paged[domain.Booking]{Items: items, Total: total, Page: page, Limit: limit}
}

// MyBookings is the guest's booking history with summary counters.
func (s *Service) MyBookings(ctx context.Context, actor domain.Actor, status string, page, limit int) (*MyBookings, error) {
	f := repository.BookingFilter{UserID: actor.UserID, Page: repository.Page{Page: page, Limit: limit}}
	if status != "" {
		st, err := domain.ParseBookingStatus(status)
		if err != nil {
			return nil, ErrInvalidStatus
		}
		f.Status = st
	}

	items, total, err := s.bookings.List(ctx, f)
	if err != nil {
		return nil, err
	}
	stats, err := s.bookings.StatsByUser(ctx, actor.UserID, s.today())
	if err != nil {
		return nil, err
	}
	return &MyBookings{Paged: *paged(items, total, f.Page), Stats: stats}, nil
}

// ExpirePending cancels PENDING bookings whose check-in day is more than
// grace in the past. It returns how many bookings were cancelled.
func (s *Service) ExpirePending(ctx context.Context, grace time.Duration) (int, error) {
	cutoff := domain.DateOnly(s.now().Add(-grace))
	expired := 0
	for {
		batch, err := s.bookings.ListPendingStartingBefore(ctx, cutoff, expireBatch)
		if err != nil {
			return expired, err
		}

		progressed := false
		for i := range batch {
			b := &batch[i]
			err := s.bookings.TransitionStatus(ctx, b.ID, domain.BookingPending, map[string]any{
				"status":              domain.BookingCancelled,
				"cancellation_reason": "expired",
				"cancelled_at":        s.now().UTC(),
			})
			if errors.Is(err, repository.ErrStaleStatus) {
				continue
			}
			if err != nil {
				return expired, err
			}
			progressed = true
			expired++
			observability.ObserveTransition(string(domain.BookingPending), string(domain.BookingCancelled))
			b.Status = domain.BookingCancelled
			s.publish(domain.EventBookingStatusChanged, b, domain.BookingPending)
		}

		if len(batch) < expireBatch || !progressed {
			return expired, nil
		}
	}
}
